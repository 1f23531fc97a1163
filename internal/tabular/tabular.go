// Package tabular defines the single read/write contract shared by the
// warehouse gateway and the local file store: named tables with a fixed
// schema, appended-to one flat record at a time and read back with simple
// filters. Callers see the same record shape no matter which backend served
// the call.
package tabular

import (
	"context"
	"strings"
)

const (
	TableOrders   = "orders"
	TableInvoices = "invoices"
)

type ColumnType int

const (
	TypeString ColumnType = iota
	TypeDouble
	TypeTimestamp
)

type Column struct {
	Name     string
	Type     ColumnType
	Nullable bool
}

// Table names a collection of homogeneous records plus the storage location
// the operator configured for it.
type Table struct {
	Name     string
	Location string
	Columns  []Column
}

func (t Table) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// Filter covers the reads the dashboard needs: exact customer and order id
// matches plus an invoice-number substring. Zero fields are not applied.
type Filter struct {
	CustomerID    string
	OrderID       string
	InvoiceNumber string
}

func (f Filter) IsZero() bool {
	return f == Filter{}
}

// Matches applies the filter in memory; the local store uses it directly,
// the gateway pushes the same predicates into SQL.
func (f Filter) Matches(rec Record) bool {
	if f.CustomerID != "" && rec.String("customer_id") != f.CustomerID {
		return false
	}
	if f.OrderID != "" && rec.String("order_id") != f.OrderID {
		return false
	}
	if f.InvoiceNumber != "" && !strings.Contains(rec.String("invoice_number"), f.InvoiceNumber) {
		return false
	}
	return true
}

// Backend is the capability both stores implement. Implementations report
// failures through the error kinds in internal/domain; an unmatched filter
// yields an empty slice, not an error.
type Backend interface {
	CreateTable(ctx context.Context, table Table) error
	Append(ctx context.Context, table string, rec Record) error
	Query(ctx context.Context, table string, filter Filter) ([]Record, error)
}

// Orders returns the fixed orders schema. Items travel as a JSON string
// column, the way the source system stored them.
func Orders(location string) Table {
	return Table{
		Name:     TableOrders,
		Location: location,
		Columns: []Column{
			{Name: "order_id", Type: TypeString},
			{Name: "customer_id", Type: TypeString},
			{Name: "customer_name", Type: TypeString, Nullable: true},
			{Name: "order_date", Type: TypeTimestamp, Nullable: true},
			{Name: "total_amount", Type: TypeDouble, Nullable: true},
			{Name: "status", Type: TypeString, Nullable: true},
			{Name: "items", Type: TypeString, Nullable: true},
			{Name: "created_at", Type: TypeTimestamp, Nullable: true},
		},
	}
}

func Invoices(location string) Table {
	return Table{
		Name:     TableInvoices,
		Location: location,
		Columns: []Column{
			{Name: "invoice_id", Type: TypeString},
			{Name: "order_id", Type: TypeString},
			{Name: "customer_id", Type: TypeString},
			{Name: "invoice_number", Type: TypeString, Nullable: true},
			{Name: "invoice_date", Type: TypeTimestamp, Nullable: true},
			{Name: "amount", Type: TypeDouble, Nullable: true},
			{Name: "tax_amount", Type: TypeDouble, Nullable: true},
			{Name: "total_amount", Type: TypeDouble, Nullable: true},
			{Name: "file_path", Type: TypeString, Nullable: true},
			{Name: "uploaded_at", Type: TypeTimestamp, Nullable: true},
			{Name: "created_at", Type: TypeTimestamp, Nullable: true},
		},
	}
}

// Registry maps table names to their schemas for one configured deployment.
func Registry(ordersLocation, invoicesLocation string) map[string]Table {
	return map[string]Table{
		TableOrders:   Orders(ordersLocation),
		TableInvoices: Invoices(invoicesLocation),
	}
}
