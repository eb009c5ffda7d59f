package checkout

import (
	"context"
	"errors"
	"fmt"

	"github.com/truls-star/therwatt-nettbutikk/internal/catalog"
	"github.com/truls-star/therwatt-nettbutikk/internal/pricing"
)

// Item is a requested cart line as sent by the client. Any price the client
// attached to it never reaches this package.
type Item struct {
	SKU      string `json:"sku"`
	Quantity int    `json:"quantity"`
}

// LineItem is a trusted, server-priced line ready for the payment provider.
type LineItem struct {
	SKU             string
	Name            string
	UnitAmountMinor int64
	Quantity        int
}

// ValidateAndPrice re-resolves every requested SKU against the trusted catalog
// and recomputes unit prices with the server-held discount rate. Unknown SKUs
// and entries without a numeric gross price reject the whole request.
func ValidateAndPrice(ctx context.Context, src catalog.Source, rate float64, items []Item) ([]LineItem, error) {
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	out := make([]LineItem, 0, len(items))
	for _, it := range items {
		qty := it.Quantity
		if qty < 1 {
			qty = 1
		}

		p, err := src.Get(ctx, it.SKU)
		if err != nil {
			if errors.Is(err, catalog.ErrNotFound) {
				return nil, &UnknownProductError{SKU: it.SKU}
			}
			return nil, fmt.Errorf("catalog lookup for %s: %w", it.SKU, err)
		}

		gross, ok := p.Gross()
		if !ok {
			return nil, &UnknownProductError{SKU: it.SKU}
		}

		unitPrice, err := pricing.UnitPrice(gross, rate)
		if err != nil {
			return nil, fmt.Errorf("pricing %s: %w", it.SKU, err)
		}

		out = append(out, LineItem{
			SKU:             p.SKU,
			Name:            p.Name,
			UnitAmountMinor: pricing.MinorUnits(unitPrice),
			Quantity:        qty,
		})
	}

	return out, nil
}
