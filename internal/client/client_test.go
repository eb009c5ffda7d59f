package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/truls-star/therwatt-nettbutikk/internal/checkout"
)

func TestFetchConfig(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/public-config", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"discountRate": 0.20, "paymentProviderHandle": "pk_test_abc"}`))
	}))
	defer srv.Close()

	cfg := New(srv.URL, nil).FetchConfig(context.Background())
	assert.Equal(t, 0.20, cfg.DiscountRate)
	assert.True(t, cfg.CheckoutEnabled())
	assert.False(t, cfg.Provisional)
}

func TestFetchConfig_NullHandleDisablesCheckout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"discountRate": 0.20, "paymentProviderHandle": null}`))
	}))
	defer srv.Close()

	cfg := New(srv.URL, nil).FetchConfig(context.Background())
	assert.Equal(t, 0.20, cfg.DiscountRate)
	assert.False(t, cfg.CheckoutEnabled())
}

func TestFetchConfig_UnreachableIsProvisional(t *testing.T) {
	srv := httptest.NewServer(nil)
	srv.Close() // connection refused from here on

	cfg := New(srv.URL, nil).FetchConfig(context.Background())
	assert.True(t, cfg.Provisional)
	assert.Zero(t, cfg.DiscountRate)
	assert.False(t, cfg.CheckoutEnabled())
}

func TestFetchConfig_MalformedIsProvisional(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	cfg := New(srv.URL, nil).FetchConfig(context.Background())
	assert.True(t, cfg.Provisional)
	assert.False(t, cfg.CheckoutEnabled())
}

func TestFetchProducts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/products", r.URL.Path)
		_, _ = w.Write([]byte(`[{"sku": "A", "name": "Terrassebord", "grossPrice": 100}]`))
	}))
	defer srv.Close()

	products, err := New(srv.URL, nil).FetchProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "A", products[0].SKU)
}

func TestCreateCheckout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/create-checkout", r.URL.Path)
		_, _ = w.Write([]byte(`{"id": "cs_test_123"}`))
	}))
	defer srv.Close()

	id, err := New(srv.URL, nil).CreateCheckout(context.Background(), checkout.Request{
		Items: []checkout.Item{{SKU: "A", Quantity: 1}},
	})
	require.NoError(t, err)
	assert.Equal(t, "cs_test_123", id)
}

func TestCreateCheckout_RejectionCarriesServerMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error": "unknown product: Z"}`))
	}))
	defer srv.Close()

	_, err := New(srv.URL, nil).CreateCheckout(context.Background(), checkout.Request{
		Items: []checkout.Item{{SKU: "Z", Quantity: 1}},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown product: Z")
}

func TestCreateCheckout_PlainTextErrorBodyReportsStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusGatewayTimeout)
		_, _ = w.Write([]byte("Timeout!\n"))
	}))
	defer srv.Close()

	_, err := New(srv.URL, nil).CreateCheckout(context.Background(), checkout.Request{
		Items: []checkout.Item{{SKU: "100200", Quantity: 1}},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 504")
	assert.NotContains(t, err.Error(), "decode")
}
