package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

// FeedSource serves the catalog from a JSON feed document on disk, loaded in
// full on first use. There is no write path; a changed feed needs a restart.
type FeedSource struct {
	path string

	once     sync.Once
	loadErr  error
	products []Product
	bySKU    map[string]Product
}

func NewFeedSource(path string) *FeedSource {
	return &FeedSource{path: path}
}

func (f *FeedSource) load() {
	raw, err := os.ReadFile(f.path)
	if err != nil {
		f.loadErr = fmt.Errorf("read catalog feed: %w", err)
		return
	}

	var products []Product
	if err := json.Unmarshal(raw, &products); err != nil {
		f.loadErr = fmt.Errorf("parse catalog feed: %w", err)
		return
	}

	f.products = products
	f.bySKU = make(map[string]Product, len(products))
	for _, p := range products {
		f.bySKU[p.SKU] = p
	}
}

func (f *FeedSource) All(_ context.Context) ([]Product, error) {
	f.once.Do(f.load)
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return f.products, nil
}

func (f *FeedSource) Get(_ context.Context, sku string) (Product, error) {
	f.once.Do(f.load)
	if f.loadErr != nil {
		return Product{}, f.loadErr
	}
	p, ok := f.bySKU[sku]
	if !ok {
		return Product{}, ErrNotFound
	}
	return p, nil
}
