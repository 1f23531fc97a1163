package cache

import (
	"context"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/abakirov/lakeview/internal/tabular"
)

type source interface {
	Query(ctx context.Context, table string, filter tabular.Filter) ([]tabular.Record, error)
}

// Cache keeps recently seen order rows by order_id so the details view does
// not re-run a filtered query for every click-through.
type Cache struct {
	size int
	lru  *lru.Cache[string, tabular.Record]
}

func New(size int) (*Cache, error) {
	c, err := lru.New[string, tabular.Record](size)
	if err != nil {
		return nil, err
	}
	return &Cache{size: size, lru: c}, nil
}

// Warm preloads up to size orders from whichever backend currently serves
// queries. Errors are ignored: a cold cache is not a startup failure.
func (c *Cache) Warm(ctx context.Context, src source) {
	recs, err := src.Query(ctx, tabular.TableOrders, tabular.Filter{})
	if err != nil {
		return
	}
	if len(recs) > c.size {
		recs = recs[len(recs)-c.size:]
	}
	for _, rec := range recs {
		c.Set(rec)
	}
}

func (c *Cache) Get(orderID string) (tabular.Record, bool) {
	return c.lru.Get(orderID)
}

func (c *Cache) Set(rec tabular.Record) {
	id := rec.String("order_id")
	if id == "" {
		return
	}
	c.lru.Add(id, rec)
}
