package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/truls-star/therwatt-nettbutikk/internal/catalog"
	"github.com/truls-star/therwatt-nettbutikk/internal/checkout"
)

// Config is the client-side view of the pricing config. When the config
// endpoint cannot be reached the client keeps browsing with a provisional
// zero discount and checkout disabled.
type Config struct {
	DiscountRate          float64
	PaymentProviderHandle string
	Provisional           bool
}

// CheckoutEnabled reports whether a payment handle is available.
func (c Config) CheckoutEnabled() bool {
	return c.PaymentProviderHandle != ""
}

// Client talks to the storefront API on behalf of a local cart session.
type Client struct {
	baseURL string
	http    *http.Client
	log     *slog.Logger
}

func New(baseURL string, log *slog.Logger) *Client {
	if log == nil {
		log = slog.Default()
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
		log:     log,
	}
}

// FetchConfig never fails the caller: an unreachable or malformed config
// endpoint degrades to a provisional config with checkout disabled.
func (c *Client) FetchConfig(ctx context.Context) Config {
	provisional := Config{DiscountRate: 0, Provisional: true}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/public-config", nil)
	if err != nil {
		return provisional
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("config endpoint unreachable, checkout disabled", "error", err)
		return provisional
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.log.Warn("config endpoint failed, checkout disabled", "status", resp.StatusCode)
		return provisional
	}

	var body struct {
		DiscountRate          float64 `json:"discountRate"`
		PaymentProviderHandle *string `json:"paymentProviderHandle"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		c.log.Warn("config response malformed, checkout disabled", "error", err)
		return provisional
	}

	cfg := Config{DiscountRate: body.DiscountRate}
	if body.PaymentProviderHandle != nil {
		cfg.PaymentProviderHandle = *body.PaymentProviderHandle
	}
	return cfg
}

// FetchProducts loads the full catalog feed.
func (c *Client) FetchProducts(ctx context.Context) ([]catalog.Product, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/products", nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch products: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch products: status %d", resp.StatusCode)
	}

	var products []catalog.Product
	if err := json.NewDecoder(resp.Body).Decode(&products); err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}
	return products, nil
}

// CreateCheckout submits the cart snapshot and returns the payment session
// id. Server-side rejections come back verbatim as errors.
func (c *Client) CreateCheckout(ctx context.Context, req checkout.Request) (string, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return "", err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/create-checkout", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("create checkout: %w", err)
	}
	defer resp.Body.Close()

	var body struct {
		ID    string `json:"id"`
		Error string `json:"error"`
	}
	if resp.StatusCode != http.StatusOK {
		// Error bodies are not always JSON (timeouts and proxies send
		// plain text), so a failed decode still reports the status.
		if err := json.NewDecoder(resp.Body).Decode(&body); err == nil && body.Error != "" {
			return "", fmt.Errorf("checkout rejected: %s", body.Error)
		}
		return "", fmt.Errorf("checkout failed: status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("decode checkout response: %w", err)
	}
	return body.ID, nil
}
