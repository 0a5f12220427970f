package billing

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"meditation-platform/internal/domain"
	"meditation-platform/internal/domain/model"
	"meditation-platform/internal/domain/ports/adapter"
)

var _ adapter.BillingProvider = (*NoopBillingProvider)(nil)

// NoopBillingProvider is an in-memory provider for dev mode and tests.
// Repeated idempotency keys return the original object.
type NoopBillingProvider struct {
	mu            sync.Mutex
	customers     map[string]string // idempotency key -> customer ref
	subscriptions map[string]*model.BillingSubscription
	byKey         map[string]string // idempotency key -> subscription ref
	intervals     map[string]string // price ref -> interval
}

func NewNoopBillingProvider(monthlyPriceRef, annualPriceRef string) *NoopBillingProvider {
	return &NoopBillingProvider{
		customers:     make(map[string]string),
		subscriptions: make(map[string]*model.BillingSubscription),
		byKey:         make(map[string]string),
		intervals:     map[string]string{monthlyPriceRef: "month", annualPriceRef: "year"},
	}
}

func (g *NoopBillingProvider) Name() string { return "noop" }

func newRef(prefix string) string {
	return prefix + "_" + ulid.Make().String()
}

func (g *NoopBillingProvider) CreateCustomer(ctx context.Context, req adapter.CustomerRequest) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if ref, ok := g.customers[req.IdempotencyKey]; ok && req.IdempotencyKey != "" {
		return ref, nil
	}
	ref := newRef("cus")
	if req.IdempotencyKey != "" {
		g.customers[req.IdempotencyKey] = ref
	}
	return ref, nil
}

func (g *NoopBillingProvider) CreateSubscription(ctx context.Context, req adapter.SubscriptionRequest) (*model.BillingSubscription, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if ref, ok := g.byKey[req.IdempotencyKey]; ok && req.IdempotencyKey != "" {
		s := *g.subscriptions[ref]
		return &s, nil
	}
	if req.CustomerRef == "" || req.PriceRef == "" {
		return nil, fmt.Errorf("%w: noop: customer and price required", domain.ErrBillingProvider)
	}
	ref := newRef("sub")
	s := &model.BillingSubscription{
		Ref:           ref,
		CustomerRef:   req.CustomerRef,
		Status:        model.BillingStatusIncomplete,
		PriceRef:      req.PriceRef,
		Interval:      g.intervals[req.PriceRef],
		PaymentSecret: ref + "_secret_" + ulid.Make().String(),
	}
	g.subscriptions[ref] = s
	if req.IdempotencyKey != "" {
		g.byKey[req.IdempotencyKey] = ref
	}
	out := *s
	return &out, nil
}

func (g *NoopBillingProvider) GetSubscription(ctx context.Context, subscriptionRef string) (*model.BillingSubscription, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	s, ok := g.subscriptions[subscriptionRef]
	if !ok {
		return nil, fmt.Errorf("%w: No such subscription: '%s'", domain.ErrBillingProvider, subscriptionRef)
	}
	out := *s
	return &out, nil
}

// SetStatus moves a subscription to status, as the provider would after payment.
func (g *NoopBillingProvider) SetStatus(subscriptionRef string, status model.BillingStatus, periodEnd time.Time) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	s, ok := g.subscriptions[subscriptionRef]
	if !ok {
		return domain.ErrNotFound
	}
	s.Status = status
	end := periodEnd.UTC()
	s.CurrentPeriodEnd = &end
	if status.IsTerminal() {
		s.EndedAt = &end
	}
	return nil
}
