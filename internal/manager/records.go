package manager

import (
	"encoding/json"
	"fmt"

	"github.com/abakirov/lakeview/internal/domain"
	"github.com/abakirov/lakeview/internal/tabular"
)

// OrderRecord flattens an order into the table row shape. Items travel as a
// JSON string column, matching the stored schema.
func OrderRecord(o domain.Order) (tabular.Record, error) {
	rec, err := tabular.Encode(o)
	if err != nil {
		return nil, err
	}
	if v, ok := rec["items"]; ok && v != nil {
		if _, isString := v.(string); !isString {
			b, err := json.Marshal(v)
			if err != nil {
				return nil, fmt.Errorf("encode order items: %w", err)
			}
			rec["items"] = string(b)
		}
	}
	return rec, nil
}

func OrderFromRecord(rec tabular.Record) (domain.Order, error) {
	m := rec.Clone()
	if s, ok := m["items"].(string); ok && s != "" {
		m["items"] = json.RawMessage(s)
	}

	var o domain.Order
	if err := tabular.Decode(m, &o); err != nil {
		return domain.Order{}, err
	}
	return o, nil
}

func InvoiceRecord(inv domain.Invoice) (tabular.Record, error) {
	return tabular.Encode(inv)
}

func InvoiceFromRecord(rec tabular.Record) (domain.Invoice, error) {
	var inv domain.Invoice
	if err := tabular.Decode(rec, &inv); err != nil {
		return domain.Invoice{}, err
	}
	return inv, nil
}
