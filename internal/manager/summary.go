package manager

import (
	"context"

	"github.com/abakirov/lakeview/internal/tabular"
)

// Summary carries the dashboard headline numbers, computed from whatever
// backend is currently serving queries.
type Summary struct {
	TotalOrders   int     `json:"total_orders"`
	TotalInvoices int     `json:"total_invoices"`
	TotalRevenue  float64 `json:"total_revenue"`
	AvgOrderValue float64 `json:"avg_order_value"`
	TotalInvoiced float64 `json:"total_invoiced"`
	TotalTax      float64 `json:"total_tax"`
}

func (m *Manager) Summarize(ctx context.Context) (Summary, error) {
	var s Summary

	orders, err := m.Query(ctx, tabular.TableOrders, tabular.Filter{})
	if err != nil {
		return s, err
	}
	invoices, err := m.Query(ctx, tabular.TableInvoices, tabular.Filter{})
	if err != nil {
		return s, err
	}

	s.TotalOrders = len(orders)
	s.TotalInvoices = len(invoices)
	for _, rec := range orders {
		s.TotalRevenue += rec.Float("total_amount")
	}
	if s.TotalOrders > 0 {
		s.AvgOrderValue = s.TotalRevenue / float64(s.TotalOrders)
	}
	for _, rec := range invoices {
		s.TotalInvoiced += rec.Float("total_amount")
		s.TotalTax += rec.Float("tax_amount")
	}
	return s, nil
}
