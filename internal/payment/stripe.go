package payment

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/sony/gobreaker/v2"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"

	"github.com/truls-star/therwatt-nettbutikk/internal/checkout"
)

// StripeProvider creates hosted Stripe Checkout sessions. Calls go through a
// circuit breaker so a dead Stripe API fails fast instead of piling up
// requests; there is no retry, the caller re-invokes.
type StripeProvider struct {
	api      *client.API
	currency string
	breaker  *gobreaker.CircuitBreaker[string]
	log      *slog.Logger
}

func NewStripeProvider(secretKey, currency string, log *slog.Logger) *StripeProvider {
	if log == nil {
		log = slog.Default()
	}

	var api *client.API
	if secretKey != "" {
		api = &client.API{}
		api.Init(secretKey, nil)
	}

	breaker := gobreaker.NewCircuitBreaker[string](gobreaker.Settings{
		Name:    "stripe-checkout",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("payment breaker state change", "name", name, "from", from.String(), "to", to.String())
		},
	})

	return &StripeProvider{
		api:      api,
		currency: currency,
		breaker:  breaker,
		log:      log,
	}
}

func (p *StripeProvider) CreateSession(ctx context.Context, params checkout.SessionParams) (string, error) {
	if p.api == nil {
		return "", checkout.ErrProviderNotConfigured
	}

	lineItems := make([]*stripe.CheckoutSessionLineItemParams, 0, len(params.LineItems))
	for _, li := range params.LineItems {
		lineItems = append(lineItems, &stripe.CheckoutSessionLineItemParams{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency: stripe.String(p.currency),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name:     stripe.String(li.Name),
					Metadata: map[string]string{"sku": li.SKU},
				},
				UnitAmount: stripe.Int64(li.UnitAmountMinor),
			},
			Quantity: stripe.Int64(int64(li.Quantity)),
		})
	}

	sessionParams := &stripe.CheckoutSessionParams{
		Params:             stripe.Params{Context: ctx},
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems:          lineItems,
		SuccessURL:         stripe.String(params.SuccessURL),
		CancelURL:          stripe.String(params.CancelURL),
	}
	if params.CustomerEmail != "" {
		sessionParams.CustomerEmail = stripe.String(params.CustomerEmail)
	}
	if params.CustomerNote != "" {
		sessionParams.AddMetadata("note", params.CustomerNote)
	}

	id, err := p.breaker.Execute(func() (string, error) {
		s, err := p.api.CheckoutSessions.New(sessionParams)
		if err != nil {
			return "", err
		}
		return s.ID, nil
	})
	if err != nil {
		return "", fmt.Errorf("create payment session: %w", err)
	}

	return id, nil
}
