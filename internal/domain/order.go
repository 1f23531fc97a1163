package domain

import "time"

type Status string

const (
	StatusPending   Status = "Pending"
	StatusCompleted Status = "Completed"
	StatusCancelled Status = "Cancelled"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

type Item struct {
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}

// Order is persisted append-only: created once from a caller payload, read
// back via filtered queries, never updated or deleted.
type Order struct {
	OrderID      string    `json:"order_id"`
	CustomerID   string    `json:"customer_id"`
	CustomerName string    `json:"customer_name"`
	OrderDate    time.Time `json:"order_date"`
	TotalAmount  float64   `json:"total_amount"`
	Status       Status    `json:"status"`
	Items        []Item    `json:"items"`
	CreatedAt    time.Time `json:"created_at"`
}

func (o *Order) Validate() error {
	if o.OrderID == "" {
		return ErrOrderIDRequired
	}
	if o.CustomerID == "" {
		return ErrCustomerIDRequired
	}
	if !o.Status.Valid() {
		return ErrStatusInvalid
	}
	if o.TotalAmount < 0 {
		return ErrAmountNegative
	}
	for _, it := range o.Items {
		if it.Name == "" {
			return ErrItemNameRequired
		}
		if it.Quantity < 1 {
			return ErrItemQtyInvalid
		}
		if it.UnitPrice < 0 {
			return ErrItemPriceInvalid
		}
	}
	return nil
}

// ItemsTotal sums the item line totals. The system does not enforce
// TotalAmount == ItemsTotal, it only reports both.
func (o *Order) ItemsTotal() float64 {
	var sum float64
	for _, it := range o.Items {
		sum += float64(it.Quantity) * it.UnitPrice
	}
	return sum
}
