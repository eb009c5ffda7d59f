package catalog

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a SKU does not exist in the catalog.
var ErrNotFound = errors.New("product not found")

// Product is one row of the read-only catalog feed. The gross price is a
// pointer so a feed entry without a numeric price stays distinguishable from
// a price of zero.
type Product struct {
	SKU        string   `json:"sku"`
	Name       string   `json:"name"`
	Unit       string   `json:"unit"`
	Category   string   `json:"category"`
	GrossPrice *float64 `json:"grossPrice"`
}

// Gross reports the gross catalog price and whether the entry carries one.
func (p Product) Gross() (float64, bool) {
	if p.GrossPrice == nil {
		return 0, false
	}
	return *p.GrossPrice, true
}

// Source is the trusted, read-only catalog. Consumers define the interface;
// the backing medium (JSON feed, SQLite) is an implementation detail.
type Source interface {
	All(ctx context.Context) ([]Product, error)
	Get(ctx context.Context, sku string) (Product, error)
}
