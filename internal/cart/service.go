package cart

import (
	"context"
	"math"

	"github.com/truls-star/therwatt-nettbutikk/internal/catalog"
)

// Service mutates the single persisted cart. Every mutation re-reads the
// stored record first so rapid successive calls never work from stale state.
type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// Add puts one unit of the product in the cart. An existing line keeps its
// originally cached unit price; only its quantity grows. An unpriceable unit
// price (NaN or negative) adds nothing.
func (s *Service) Add(ctx context.Context, p catalog.Product, unitPrice float64) error {
	if math.IsNaN(unitPrice) || unitPrice < 0 {
		return nil
	}

	lines, err := s.store.Load(ctx)
	if err != nil {
		return err
	}

	for i := range lines {
		if lines[i].SKU == p.SKU {
			lines[i].Quantity++
			return s.store.Save(ctx, lines)
		}
	}

	lines = append(lines, Line{
		SKU:       p.SKU,
		Name:      p.Name,
		Unit:      p.Unit,
		UnitPrice: unitPrice,
		Quantity:  1,
	})
	return s.store.Save(ctx, lines)
}

// SetQuantity sets the line quantity, clamped to >= 0. Zero removes the line;
// an absent SKU is a no-op.
func (s *Service) SetQuantity(ctx context.Context, sku string, quantity int) error {
	lines, err := s.store.Load(ctx)
	if err != nil {
		return err
	}

	idx := -1
	for i := range lines {
		if lines[i].SKU == sku {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil
	}

	if quantity <= 0 {
		lines = append(lines[:idx], lines[idx+1:]...)
	} else {
		lines[idx].Quantity = quantity
	}
	return s.store.Save(ctx, lines)
}

// ChangeQuantity applies a delta to the freshly loaded quantity, so two
// controls firing back to back both land.
func (s *Service) ChangeQuantity(ctx context.Context, sku string, delta int) error {
	lines, err := s.store.Load(ctx)
	if err != nil {
		return err
	}

	current := 0
	for _, l := range lines {
		if l.SKU == sku {
			current = l.Quantity
			break
		}
	}
	return s.SetQuantity(ctx, sku, current+delta)
}

// Clear deletes the whole persisted record.
func (s *Service) Clear(ctx context.Context) error {
	return s.store.Clear(ctx)
}

func (s *Service) Lines(ctx context.Context) ([]Line, error) {
	return s.store.Load(ctx)
}

func (s *Service) Count(ctx context.Context) (int, error) {
	lines, err := s.store.Load(ctx)
	if err != nil {
		return 0, err
	}
	return Count(lines), nil
}

func (s *Service) Subtotal(ctx context.Context) (float64, error) {
	lines, err := s.store.Load(ctx)
	if err != nil {
		return 0, err
	}
	return Subtotal(lines), nil
}
