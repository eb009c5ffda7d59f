package cart

import "context"

// Store persists the whole cart as a single record under one stable key.
// Consumers define this interface; the medium (file, memory) is swappable
// without touching the cart logic. Last write wins between writers.
type Store interface {
	Load(ctx context.Context) ([]Line, error)
	Save(ctx context.Context, lines []Line) error
	Clear(ctx context.Context) error
}
