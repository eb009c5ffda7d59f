package images

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/sync/singleflight"
)

// Result is what the image endpoint hands the browser: a best guess and a
// static fallback to fail over to.
type Result struct {
	Image    string `json:"image"`
	Fallback string `json:"fallback"`
}

// Resolver maps a SKU to a product image URL. Without an upstream API it
// falls back to the conventional URL pattern and lets the browser fail over
// to the placeholder. Resolution is best effort and never returns an error
// to the caller.
type Resolver struct {
	pattern   string // fmt pattern with one %s for the SKU
	fallback  string
	lookupURL string // optional upstream image API, empty disables
	client    *http.Client
	cache     Cache // optional
	sfg       singleflight.Group
	log       *slog.Logger
}

func NewResolver(pattern, fallback, lookupURL string, cache Cache, log *slog.Logger) *Resolver {
	if log == nil {
		log = slog.Default()
	}
	return &Resolver{
		pattern:   pattern,
		fallback:  fallback,
		lookupURL: lookupURL,
		client:    &http.Client{Timeout: 3 * time.Second},
		cache:     cache,
		log:       log,
	}
}

func (r *Resolver) Resolve(ctx context.Context, sku string) Result {
	if r.cache != nil {
		cached, err := r.cache.Get(ctx, sku)
		if err == nil {
			return Result{Image: cached, Fallback: r.fallback}
		}
		if !errors.Is(err, ErrCacheMiss) {
			r.log.Warn("image cache get failed", "sku", sku, "error", err)
		}
	}

	// Singleflight collapses a page worth of concurrent lookups for the
	// same SKU into one upstream call.
	v, _, _ := r.sfg.Do(sku, func() (interface{}, error) {
		image := fmt.Sprintf(r.pattern, url.PathEscape(sku))

		if r.lookupURL != "" {
			if upstream, err := r.lookup(ctx, sku); err != nil {
				r.log.Debug("image lookup failed, using pattern url", "sku", sku, "error", err)
			} else if upstream != "" {
				image = upstream
			}
		}

		if r.cache != nil {
			go func() {
				cacheCtx, cancel := context.WithTimeout(context.Background(), time.Second)
				defer cancel()
				if err := r.cache.Set(cacheCtx, sku, image); err != nil {
					r.log.Warn("image cache set failed", "sku", sku, "error", err)
				}
			}()
		}

		return image, nil
	})

	return Result{Image: v.(string), Fallback: r.fallback}
}

func (r *Resolver) lookup(ctx context.Context, sku string) (string, error) {
	u := fmt.Sprintf("%s?sku=%s", r.lookupURL, url.QueryEscape(sku))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", err
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("upstream status %d", resp.StatusCode)
	}

	var body struct {
		Image string `json:"image"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", err
	}
	return body.Image, nil
}
