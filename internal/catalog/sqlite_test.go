package catalog

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSQLiteSource(t *testing.T) *SQLiteSource {
	t.Helper()

	src, err := NewSQLiteSource(filepath.Join(t.TempDir(), "catalog.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = src.Close() })

	require.NoError(t, src.RunMigrations("migrations"))
	return src
}

func TestSQLiteSource_GetAndAll(t *testing.T) {
	src := newTestSQLiteSource(t)
	ctx := context.Background()

	_, err := src.db.ExecContext(ctx, `
		INSERT INTO products (sku, name, unit, category, gross_price) VALUES
			('100200', 'Terrassebord', 'LM', 'Trelast', 39.90),
			('100201', 'Skruepakke', 'PK', 'Festemidler', 249.00),
			('100202', 'Spesialbestilling', 'STK', 'Annet', NULL)
	`)
	require.NoError(t, err)

	all, err := src.All(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	p, err := src.Get(ctx, "100200")
	require.NoError(t, err)
	gross, ok := p.Gross()
	require.True(t, ok)
	assert.Equal(t, 39.90, gross)

	// NULL price maps to the unpriced state, not zero
	p, err = src.Get(ctx, "100202")
	require.NoError(t, err)
	_, ok = p.Gross()
	assert.False(t, ok)

	_, err = src.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}
