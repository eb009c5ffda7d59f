package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/truls-star/therwatt-nettbutikk/internal/catalog"
	"github.com/truls-star/therwatt-nettbutikk/internal/checkout"
	"github.com/truls-star/therwatt-nettbutikk/internal/images"
)

// PublicConfig is the one read operation of the config provider. A nil
// PaymentProviderHandle tells the client to disable checkout.
type PublicConfig struct {
	DiscountRate          float64 `json:"discountRate"`
	PaymentProviderHandle *string `json:"paymentProviderHandle"`
}

type Handler struct {
	catalog  catalog.Source
	checkout *checkout.Service
	images   *images.Resolver
	config   PublicConfig
	log      *slog.Logger
}

func NewHandler(src catalog.Source, co *checkout.Service, img *images.Resolver, cfg PublicConfig, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{
		catalog:  src,
		checkout: co,
		images:   img,
		config:   cfg,
		log:      log,
	}
}

func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetPublicConfig serves the current discount rate and payment handle. The
// no-store directive keeps clients from pricing against a stale discount.
func (h *Handler) GetPublicConfig(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Cache-Control", "no-store")
	respondJSON(w, http.StatusOK, h.config)
}

// GetProducts serves the full catalog feed, unpaginated.
func (h *Handler) GetProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.All(r.Context())
	if err != nil {
		h.log.Error("catalog read failed", "error", err)
		respondError(w, http.StatusInternalServerError, "catalog unavailable")
		return
	}
	if products == nil {
		products = []catalog.Product{}
	}
	respondJSON(w, http.StatusOK, products)
}

type checkoutResponse struct {
	ID string `json:"id"`
}

// CreateCheckout validates the submitted cart snapshot and returns a hosted
// payment session id. Client-supplied prices are ignored; everything is
// re-priced from the catalog. No partial success: any bad line rejects all.
func (h *Handler) CreateCheckout(w http.ResponseWriter, r *http.Request) {
	var req checkout.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	id, err := h.checkout.CreateSession(r.Context(), req)
	if err != nil {
		h.writeCheckoutError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, checkoutResponse{ID: id})
}

func (h *Handler) writeCheckoutError(w http.ResponseWriter, err error) {
	var unknown *checkout.UnknownProductError
	switch {
	case errors.Is(err, checkout.ErrEmptyCart):
		respondError(w, http.StatusBadRequest, "Cart is empty")
	case errors.As(err, &unknown):
		respondError(w, http.StatusBadRequest, unknown.Error())
	case errors.Is(err, checkout.ErrProviderNotConfigured):
		h.log.Error("checkout rejected, payment provider not configured")
		respondError(w, http.StatusInternalServerError, "payment is not configured")
	default:
		h.log.Error("checkout failed", "error", err)
		respondError(w, http.StatusInternalServerError, "could not start payment")
	}
}

// GetProductImage is best effort; it always answers with something the
// browser can try, plus the static fallback.
func (h *Handler) GetProductImage(w http.ResponseWriter, r *http.Request) {
	sku := r.URL.Query().Get("sku")
	if sku == "" {
		respondError(w, http.StatusBadRequest, "Missing sku")
		return
	}

	result := h.images.Resolve(r.Context(), sku)
	w.Header().Set("Cache-Control", "public, max-age=3600")
	respondJSON(w, http.StatusOK, result)
}

type errorResponse struct {
	Error string `json:"error"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, errorResponse{Error: message})
}
