package checkout

import (
	"context"
	"log/slog"

	"github.com/truls-star/therwatt-nettbutikk/internal/catalog"
)

// maxNoteLen is the payment provider's metadata value limit, minus headroom.
const maxNoteLen = 450

// SessionParams is everything the external payment provider needs to host a
// checkout for one request.
type SessionParams struct {
	LineItems     []LineItem
	SuccessURL    string
	CancelURL     string
	CustomerEmail string
	CustomerNote  string
}

// Provider creates hosted payment sessions. Consumers define this interface;
// the Stripe implementation lives in internal/payment.
type Provider interface {
	CreateSession(ctx context.Context, params SessionParams) (string, error)
}

// Request is a checkout attempt as received from the client.
type Request struct {
	Items         []Item `json:"items"`
	CustomerEmail string `json:"customerEmail"`
	CustomerNote  string `json:"customerNote"`
}

type Config struct {
	DiscountRate float64
	SuccessURL   string
	CancelURL    string
}

// Service validates a cart snapshot against the trusted catalog and hands the
// re-priced line items to the payment provider. Each call is self-contained;
// nothing is shared between concurrent requests.
type Service struct {
	catalog  catalog.Source
	provider Provider
	cfg      Config
	log      *slog.Logger
}

func NewService(src catalog.Source, provider Provider, cfg Config, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{catalog: src, provider: provider, cfg: cfg, log: log}
}

// CreateSession returns the provider's opaque session id for a validated
// cart, or an error with no session created.
func (s *Service) CreateSession(ctx context.Context, req Request) (string, error) {
	lineItems, err := ValidateAndPrice(ctx, s.catalog, s.cfg.DiscountRate, req.Items)
	if err != nil {
		return "", err
	}

	note := req.CustomerNote
	if runes := []rune(note); len(runes) > maxNoteLen {
		note = string(runes[:maxNoteLen])
	}

	id, err := s.provider.CreateSession(ctx, SessionParams{
		LineItems:     lineItems,
		SuccessURL:    s.cfg.SuccessURL,
		CancelURL:     s.cfg.CancelURL,
		CustomerEmail: req.CustomerEmail,
		CustomerNote:  note,
	})
	if err != nil {
		return "", err
	}

	s.log.Info("checkout session created", "session_id", id, "lines", len(lineItems))
	return id, nil
}
