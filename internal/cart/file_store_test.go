package cart

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_RoundTrip(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "cart.json"), nil)
	ctx := context.Background()

	saved := []Line{
		{SKU: "A", Name: "Terrassebord", Unit: "LM", UnitPrice: 80.00, Quantity: 2},
		{SKU: "B", Name: "Skruepakke", Unit: "PK", UnitPrice: 199.20, Quantity: 1},
	}
	require.NoError(t, store.Save(ctx, saved))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, saved, loaded)
	assert.Equal(t, Subtotal(saved), Subtotal(loaded))
}

func TestFileStore_MissingFileIsEmptyCart(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "cart.json"), nil)

	lines, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestFileStore_CorruptFileResetsToEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cart.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"not":"a cart`), 0o644))

	store := NewFileStore(path, nil)
	lines, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestFileStore_ClearDeletesRecord(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cart.json")
	store := NewFileStore(path, nil)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, []Line{{SKU: "A", Quantity: 1}}))
	require.NoError(t, store.Clear(ctx))

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	// clearing an already-empty cart is fine
	require.NoError(t, store.Clear(ctx))
}
