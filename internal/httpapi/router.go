package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

// RequestIDMiddleware tags every request with an id for log correlation,
// honoring an id handed in by a proxy.
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", requestID)
		next.ServeHTTP(w, r)
	})
}

// NewRouter wires the public API. staticDir, when set, is served at the root
// so the storefront pages and the catalog assets come from the same process.
func NewRouter(h *Handler, staticDir string, requestTimeout time.Duration) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(RequestIDMiddleware)
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(middleware.Compress(5))

	r.Get("/health", h.Health)

	r.Route("/api", func(r chi.Router) {
		r.Get("/public-config", h.GetPublicConfig)
		r.Get("/products", h.GetProducts)
		r.Get("/product-image", h.GetProductImage)
		r.Post("/create-checkout", h.CreateCheckout)
	})

	if staticDir != "" {
		r.Handle("/*", http.FileServer(http.Dir(staticDir)))
	}

	return r
}
