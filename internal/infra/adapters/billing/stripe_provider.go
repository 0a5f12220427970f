// File: internal/infra/adapters/billing/stripe_provider.go
package billing

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"

	"meditation-platform/internal/domain"
	"meditation-platform/internal/domain/model"
	"meditation-platform/internal/domain/ports/adapter"
	"meditation-platform/internal/infra/logging"
	"meditation-platform/internal/infra/metrics"
)

var _ adapter.BillingProvider = (*StripeProvider)(nil)

// StripeProvider implements adapter.BillingProvider on the Stripe API.
// Network retries are disabled; a failed call is surfaced to the caller.
type StripeProvider struct {
	api *client.API
	log *zerolog.Logger
}

type StripeOptions struct {
	SecretKey string
	Timeout   time.Duration
	// BaseURL overrides the API endpoint (stripe-mock, tests).
	BaseURL string
}

func NewStripeProvider(opts StripeOptions, logger *zerolog.Logger) (*StripeProvider, error) {
	if opts.SecretKey == "" {
		return nil, fmt.Errorf("%w: stripe secret key empty", domain.ErrConfiguration)
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	log := logging.Component(logger, "stripe")
	hc := &http.Client{Timeout: opts.Timeout}

	newConfig := func(url string) *stripe.BackendConfig {
		cfg := &stripe.BackendConfig{
			HTTPClient:        hc,
			MaxNetworkRetries: stripe.Int64(0),
			LeveledLogger:     &leveledLogger{log: log},
			EnableTelemetry:   stripe.Bool(false),
		}
		if url != "" {
			cfg.URL = stripe.String(url)
		}
		return cfg
	}

	api := &client.API{}
	api.Init(opts.SecretKey, &stripe.Backends{
		API:     stripe.GetBackendWithConfig(stripe.APIBackend, newConfig(opts.BaseURL)),
		Connect: stripe.GetBackendWithConfig(stripe.ConnectBackend, newConfig(opts.BaseURL)),
		Uploads: stripe.GetBackendWithConfig(stripe.UploadsBackend, newConfig("")),
	})
	return &StripeProvider{api: api, log: log}, nil
}

func (p *StripeProvider) Name() string { return "stripe" }

func (p *StripeProvider) CreateCustomer(ctx context.Context, req adapter.CustomerRequest) (string, error) {
	start := time.Now()
	params := &stripe.CustomerParams{
		Email: stripe.String(req.Email),
	}
	if req.Name != "" {
		params.Name = stripe.String(req.Name)
	}
	params.Context = ctx
	if req.IdempotencyKey != "" {
		params.IdempotencyKey = stripe.String(req.IdempotencyKey)
	}
	params.AddMetadata("user_id", req.UserID)

	c, err := p.api.Customers.New(params)
	metrics.ObserveBillingCall("create_customer", time.Since(start).Seconds(), err)
	if err != nil {
		return "", providerError(err)
	}
	return c.ID, nil
}

func (p *StripeProvider) CreateSubscription(ctx context.Context, req adapter.SubscriptionRequest) (*model.BillingSubscription, error) {
	start := time.Now()
	params := &stripe.SubscriptionParams{
		Customer: stripe.String(req.CustomerRef),
		Items: []*stripe.SubscriptionItemsParams{
			{Price: stripe.String(req.PriceRef)},
		},
		PaymentBehavior: stripe.String("default_incomplete"),
		PaymentSettings: &stripe.SubscriptionPaymentSettingsParams{
			SaveDefaultPaymentMethod: stripe.String("on_subscription"),
		},
	}
	params.Context = ctx
	if req.IdempotencyKey != "" {
		params.IdempotencyKey = stripe.String(req.IdempotencyKey)
	}
	for k, v := range req.Metadata {
		params.AddMetadata(k, v)
	}
	params.AddExpand("latest_invoice.payment_intent")

	s, err := p.api.Subscriptions.New(params)
	metrics.ObserveBillingCall("create_subscription", time.Since(start).Seconds(), err)
	if err != nil {
		return nil, providerError(err)
	}
	return toBillingSubscription(s), nil
}

func (p *StripeProvider) GetSubscription(ctx context.Context, subscriptionRef string) (*model.BillingSubscription, error) {
	start := time.Now()
	params := &stripe.SubscriptionParams{}
	params.Context = ctx
	params.AddExpand("latest_invoice.payment_intent")

	s, err := p.api.Subscriptions.Get(subscriptionRef, params)
	metrics.ObserveBillingCall("get_subscription", time.Since(start).Seconds(), err)
	if err != nil {
		return nil, providerError(err)
	}
	return toBillingSubscription(s), nil
}

// providerError keeps the provider's message, which callers show to the user.
func providerError(err error) error {
	var se *stripe.Error
	if errors.As(err, &se) && se.Msg != "" {
		return fmt.Errorf("%w: %s", domain.ErrBillingProvider, se.Msg)
	}
	return fmt.Errorf("%w: %w", domain.ErrBillingProvider, err)
}

func unixPtr(sec int64) *time.Time {
	if sec <= 0 {
		return nil
	}
	t := time.Unix(sec, 0).UTC()
	return &t
}

func toBillingSubscription(s *stripe.Subscription) *model.BillingSubscription {
	if s == nil {
		return nil
	}
	out := &model.BillingSubscription{
		Ref:              s.ID,
		Status:           model.BillingStatus(s.Status),
		CurrentPeriodEnd: unixPtr(s.CurrentPeriodEnd),
		EndedAt:          unixPtr(s.EndedAt),
	}
	if s.Customer != nil {
		out.CustomerRef = s.Customer.ID
	}
	if s.Items != nil && len(s.Items.Data) > 0 && s.Items.Data[0].Price != nil {
		price := s.Items.Data[0].Price
		out.PriceRef = price.ID
		if price.Recurring != nil {
			out.Interval = string(price.Recurring.Interval)
		}
	}
	if s.LatestInvoice != nil && s.LatestInvoice.PaymentIntent != nil {
		out.PaymentSecret = s.LatestInvoice.PaymentIntent.ClientSecret
	}
	return out
}

// leveledLogger routes stripe-go's internal logging into zerolog.
type leveledLogger struct {
	log *zerolog.Logger
}

func (l *leveledLogger) Debugf(format string, v ...interface{}) { l.log.Debug().Msgf(format, v...) }
func (l *leveledLogger) Infof(format string, v ...interface{})  { l.log.Debug().Msgf(format, v...) }
func (l *leveledLogger) Warnf(format string, v ...interface{})  { l.log.Warn().Msgf(format, v...) }
func (l *leveledLogger) Errorf(format string, v ...interface{}) { l.log.Error().Msgf(format, v...) }
