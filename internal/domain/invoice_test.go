package domain

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func validInvoiceInput() InvoiceInput {
	return InvoiceInput{
		OrderID:       "ORD-001",
		CustomerID:    "CUST-001",
		InvoiceNumber: "INV-2024-001",
		InvoiceDate:   time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		Amount:        120.00,
		TaxAmount:     10.00,
	}
}

func TestNewInvoice(t *testing.T) {
	inv, err := NewInvoice(validInvoiceInput())
	require.NoError(t, err)

	require.NotEmpty(t, inv.InvoiceID)
	require.InDelta(t, 130.00, inv.TotalAmount, 1e-9)
	require.False(t, inv.UploadedAt.IsZero())
	require.False(t, inv.CreatedAt.IsZero())
	require.Equal(t, "INV-2024-001", inv.InvoiceNumber)

	other, err := NewInvoice(validInvoiceInput())
	require.NoError(t, err)
	require.NotEqual(t, inv.InvoiceID, other.InvoiceID)
}

func TestNewInvoiceDefaultsDate(t *testing.T) {
	in := validInvoiceInput()
	in.InvoiceDate = time.Time{}

	inv, err := NewInvoice(in)
	require.NoError(t, err)
	require.False(t, inv.InvoiceDate.IsZero())
}

func TestNewInvoiceValidation(t *testing.T) {
	testCases := []struct {
		name    string
		mutate  func(in *InvoiceInput)
		wantErr error
	}{
		{
			name:    "missing order id",
			mutate:  func(in *InvoiceInput) { in.OrderID = "" },
			wantErr: ErrOrderIDRequired,
		},
		{
			name:    "missing customer id",
			mutate:  func(in *InvoiceInput) { in.CustomerID = "" },
			wantErr: ErrCustomerIDRequired,
		},
		{
			name:    "missing invoice number",
			mutate:  func(in *InvoiceInput) { in.InvoiceNumber = "" },
			wantErr: ErrInvoiceNumberRequired,
		},
		{
			name:    "negative amount",
			mutate:  func(in *InvoiceInput) { in.Amount = -1 },
			wantErr: ErrAmountNegative,
		},
		{
			name:    "negative tax",
			mutate:  func(in *InvoiceInput) { in.TaxAmount = -0.01 },
			wantErr: ErrTaxNegative,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			in := validInvoiceInput()
			tc.mutate(&in)

			inv, err := NewInvoice(in)
			require.Nil(t, inv)
			require.ErrorIs(t, err, tc.wantErr)
			require.ErrorIs(t, err, ErrValidation)
		})
	}
}

// total_amount must equal amount + tax_amount for any non-negative pair.
func TestInvoiceTotalProperty(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	for i := 0; i < 200; i++ {
		in := validInvoiceInput()
		in.Amount = r.Float64() * 10000
		in.TaxAmount = r.Float64() * 1000

		inv, err := NewInvoice(in)
		require.NoError(t, err)
		require.InDelta(t, in.Amount+in.TaxAmount, inv.TotalAmount, 1e-9)
	}
}
