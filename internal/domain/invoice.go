package domain

import (
	"time"

	"github.com/google/uuid"
)

type Invoice struct {
	InvoiceID     string    `json:"invoice_id"`
	OrderID       string    `json:"order_id"`
	CustomerID    string    `json:"customer_id"`
	InvoiceNumber string    `json:"invoice_number"`
	InvoiceDate   time.Time `json:"invoice_date"`
	Amount        float64   `json:"amount"`
	TaxAmount     float64   `json:"tax_amount"`
	TotalAmount   float64   `json:"total_amount"`
	FilePath      string    `json:"file_path,omitempty"`
	UploadedAt    time.Time `json:"uploaded_at"`
	CreatedAt     time.Time `json:"created_at"`
}

// InvoiceInput is the caller-supplied part of an invoice; everything else is
// generated at creation time.
type InvoiceInput struct {
	OrderID       string    `json:"order_id"`
	CustomerID    string    `json:"customer_id"`
	InvoiceNumber string    `json:"invoice_number"`
	InvoiceDate   time.Time `json:"invoice_date"`
	Amount        float64   `json:"amount"`
	TaxAmount     float64   `json:"tax_amount"`
	FilePath      string    `json:"file_path,omitempty"`
}

// NewInvoice validates the input, assigns a generated id and computes
// total_amount = amount + tax_amount.
func NewInvoice(in InvoiceInput) (*Invoice, error) {
	if in.OrderID == "" {
		return nil, ErrOrderIDRequired
	}
	if in.CustomerID == "" {
		return nil, ErrCustomerIDRequired
	}
	if in.InvoiceNumber == "" {
		return nil, ErrInvoiceNumberRequired
	}
	if in.Amount < 0 {
		return nil, ErrAmountNegative
	}
	if in.TaxAmount < 0 {
		return nil, ErrTaxNegative
	}

	now := time.Now().UTC()
	date := in.InvoiceDate
	if date.IsZero() {
		date = now
	}
	return &Invoice{
		InvoiceID:     uuid.NewString(),
		OrderID:       in.OrderID,
		CustomerID:    in.CustomerID,
		InvoiceNumber: in.InvoiceNumber,
		InvoiceDate:   date,
		Amount:        in.Amount,
		TaxAmount:     in.TaxAmount,
		TotalAmount:   in.Amount + in.TaxAmount,
		FilePath:      in.FilePath,
		UploadedAt:    now,
		CreatedAt:     now,
	}, nil
}
