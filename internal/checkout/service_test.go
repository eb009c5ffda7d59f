package checkout

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockProvider struct {
	params    SessionParams
	sessionID string
	err       error
	calls     int
}

func (m *mockProvider) CreateSession(_ context.Context, params SessionParams) (string, error) {
	m.calls++
	m.params = params
	if m.err != nil {
		return "", m.err
	}
	return m.sessionID, nil
}

func testConfig() Config {
	return Config{
		DiscountRate: 0.20,
		SuccessURL:   "https://shop.example/success.html",
		CancelURL:    "https://shop.example/cancel.html",
	}
}

func TestService_CreateSession(t *testing.T) {
	provider := &mockProvider{sessionID: "cs_test_123"}
	svc := NewService(newFixtureCatalog(), provider, testConfig(), nil)

	id, err := svc.CreateSession(context.Background(), Request{
		Items:         []Item{{SKU: "A", Quantity: 2}},
		CustomerEmail: "kunde@example.no",
		CustomerNote:  "Leveres bak huset",
	})
	require.NoError(t, err)
	assert.Equal(t, "cs_test_123", id)

	require.Len(t, provider.params.LineItems, 1)
	assert.Equal(t, int64(8000), provider.params.LineItems[0].UnitAmountMinor)
	assert.Equal(t, "https://shop.example/success.html", provider.params.SuccessURL)
	assert.Equal(t, "https://shop.example/cancel.html", provider.params.CancelURL)
	assert.Equal(t, "kunde@example.no", provider.params.CustomerEmail)
	assert.Equal(t, "Leveres bak huset", provider.params.CustomerNote)
}

func TestService_NoSessionForInvalidCart(t *testing.T) {
	provider := &mockProvider{sessionID: "cs_test_123"}
	svc := NewService(newFixtureCatalog(), provider, testConfig(), nil)
	ctx := context.Background()

	_, err := svc.CreateSession(ctx, Request{})
	assert.ErrorIs(t, err, ErrEmptyCart)

	_, err = svc.CreateSession(ctx, Request{Items: []Item{{SKU: "Z", Quantity: 1}}})
	var unknown *UnknownProductError
	assert.ErrorAs(t, err, &unknown)

	assert.Zero(t, provider.calls, "provider must not be called for a rejected cart")
}

func TestService_TruncatesCustomerNote(t *testing.T) {
	provider := &mockProvider{sessionID: "cs_test_123"}
	svc := NewService(newFixtureCatalog(), provider, testConfig(), nil)

	_, err := svc.CreateSession(context.Background(), Request{
		Items:        []Item{{SKU: "A", Quantity: 1}},
		CustomerNote: strings.Repeat("x", 600),
	})
	require.NoError(t, err)
	assert.Len(t, provider.params.CustomerNote, maxNoteLen)
}

func TestService_ProviderErrorPropagates(t *testing.T) {
	provider := &mockProvider{err: ErrProviderNotConfigured}
	svc := NewService(newFixtureCatalog(), provider, testConfig(), nil)

	_, err := svc.CreateSession(context.Background(), Request{
		Items: []Item{{SKU: "A", Quantity: 1}},
	})
	assert.ErrorIs(t, err, ErrProviderNotConfigured)
}
