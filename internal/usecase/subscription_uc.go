// File: internal/usecase/subscription_uc.go
package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"meditation-platform/internal/domain"
	"meditation-platform/internal/domain/model"
	"meditation-platform/internal/domain/ports/adapter"
	"meditation-platform/internal/domain/ports/repository"
	"meditation-platform/internal/infra/logging"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"
)

// Compile-time check
var _ SubscriptionUseCase = (*subscriptionUC)(nil)

// SubscriptionUseCase owns the link between a local user and one billing
// subscription, and applies provider lifecycle events to the user's status.
type SubscriptionUseCase interface {
	// GetOrCreateSubscription returns the client-confirmable payment artifact of
	// the user's live subscription, opening one when none is linked.
	GetOrCreateSubscription(ctx context.Context, userID, planType string) (*model.SubscriptionPayment, error)
	SubscriptionStatus(ctx context.Context, userID string) (*model.SubscriptionState, error)
	// HandleWebhook verifies a raw provider notification and applies it.
	HandleWebhook(ctx context.Context, payload []byte, signature string) (*model.BillingEvent, error)
	// ApplyBillingEvent is idempotent per event id.
	ApplyBillingEvent(ctx context.Context, ev *model.BillingEvent) (*model.BillingEvent, error)
}

// BillingPlans maps plan types to provider price ids.
type BillingPlans struct {
	MonthlyPriceID string
	AnnualPriceID  string
}

// PriceFor returns the configured price for plan or domain.ErrConfiguration.
func (p BillingPlans) PriceFor(plan model.PlanType) (string, error) {
	var id string
	switch plan {
	case model.PlanMonthly:
		id = p.MonthlyPriceID
	case model.PlanAnnual:
		id = p.AnnualPriceID
	}
	if id == "" {
		return "", fmt.Errorf("%w: no price configured for %s plan", domain.ErrConfiguration, plan)
	}
	return id, nil
}

// PlanFor resolves the plan of a provider subscription.
func (p BillingPlans) PlanFor(priceRef, interval string) model.PlanType {
	switch {
	case priceRef != "" && priceRef == p.AnnualPriceID:
		return model.PlanAnnual
	case priceRef != "" && priceRef == p.MonthlyPriceID:
		return model.PlanMonthly
	}
	return model.PlanFromInterval(interval)
}

type subscriptionUC struct {
	users    repository.UserRepository
	events   repository.BillingEventRepository
	tm       repository.TransactionManager
	billing  adapter.BillingProvider
	webhooks adapter.WebhookParser
	plans    BillingPlans
	timeout  time.Duration
	log      *zerolog.Logger
	now      func() time.Time
}

func NewSubscriptionUseCase(
	users repository.UserRepository,
	events repository.BillingEventRepository,
	tm repository.TransactionManager,
	billing adapter.BillingProvider,
	webhooks adapter.WebhookParser,
	plans BillingPlans,
	timeout time.Duration,
	logger *zerolog.Logger,
) *subscriptionUC {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &subscriptionUC{
		users:    users,
		events:   events,
		tm:       tm,
		billing:  billing,
		webhooks: webhooks,
		plans:    plans,
		timeout:  timeout,
		log:      logging.Component(logger, "subscription_uc"),
		now:      time.Now,
	}
}

func (u *subscriptionUC) GetOrCreateSubscription(ctx context.Context, userID, planType string) (*model.SubscriptionPayment, error) {
	defer logging.TraceDuration(u.log, "SubscriptionUC.GetOrCreateSubscription")()

	if userID == "" {
		return nil, domain.ErrUnauthenticated
	}
	plan, err := model.ParsePlanType(planType)
	if err != nil {
		return nil, err
	}
	log := logging.With(ctx, u.log)

	var out *model.SubscriptionPayment
	err = u.tm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		// Row lock serializes concurrent calls for one user.
		user, err := u.users.FindByIDForUpdate(ctx, tx, userID)
		if err != nil {
			return err
		}

		previous := user.BillingSubscriptionRef
		if previous != "" {
			sub, err := u.getSubscription(ctx, previous)
			if err != nil {
				return err
			}
			if !sub.Status.CanBeReplaced() {
				out = paymentOf(sub, false)
				return nil
			}
			log.Info().Str("subscription_ref", previous).Str("status", string(sub.Status)).
				Msg("linked subscription has ended; opening a new one")
		}

		if user.Email == "" {
			return domain.ErrMissingEmail
		}
		price, err := u.plans.PriceFor(plan)
		if err != nil {
			log.Error().Err(err).Str("plan", string(plan)).Msg("billing price missing")
			return err
		}

		customerRef := user.BillingCustomerRef
		if customerRef == "" {
			customerRef, err = u.createCustomer(ctx, user)
			if err != nil {
				return err
			}
			log.Info().Str("email", logging.Redact(user.Email, false)).Msg("billing customer created")
		}

		if previous == "" {
			previous = "none"
		}
		sub, err := u.createSubscription(ctx, adapter.SubscriptionRequest{
			CustomerRef:    customerRef,
			PriceRef:       price,
			IdempotencyKey: fmt.Sprintf("subscription:%s:%s:%s", user.ID, plan, previous),
			Metadata:       map[string]string{"user_id": user.ID, "plan": string(plan)},
		})
		if err != nil {
			return err
		}

		if err := u.users.SetBillingLinkage(ctx, tx, user.ID, customerRef, sub.Ref); err != nil {
			return err
		}
		log.Info().Str("subscription_ref", sub.Ref).Str("plan", string(plan)).Msg("billing subscription created")
		out = paymentOf(sub, true)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func paymentOf(sub *model.BillingSubscription, created bool) *model.SubscriptionPayment {
	return &model.SubscriptionPayment{
		SubscriptionRef: sub.Ref,
		ClientSecret:    sub.PaymentSecret,
		Status:          sub.Status,
		Created:         created,
	}
}

func (u *subscriptionUC) createCustomer(ctx context.Context, user *model.User) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, u.timeout)
	defer cancel()
	ref, err := u.billing.CreateCustomer(ctx, adapter.CustomerRequest{
		UserID:         user.ID,
		Email:          user.Email,
		Name:           user.DisplayName(),
		IdempotencyKey: "customer:" + user.ID,
	})
	return ref, asProviderError("create customer", err)
}

func (u *subscriptionUC) createSubscription(ctx context.Context, req adapter.SubscriptionRequest) (*model.BillingSubscription, error) {
	ctx, cancel := context.WithTimeout(ctx, u.timeout)
	defer cancel()
	sub, err := u.billing.CreateSubscription(ctx, req)
	return sub, asProviderError("create subscription", err)
}

func (u *subscriptionUC) getSubscription(ctx context.Context, ref string) (*model.BillingSubscription, error) {
	ctx, cancel := context.WithTimeout(ctx, u.timeout)
	defer cancel()
	sub, err := u.billing.GetSubscription(ctx, ref)
	return sub, asProviderError("get subscription", err)
}

func asProviderError(op string, err error) error {
	if err == nil || errors.Is(err, domain.ErrBillingProvider) {
		return err
	}
	return fmt.Errorf("%w: %s: %w", domain.ErrBillingProvider, op, err)
}

func (u *subscriptionUC) SubscriptionStatus(ctx context.Context, userID string) (*model.SubscriptionState, error) {
	if userID == "" {
		return nil, domain.ErrUnauthenticated
	}
	user, err := u.users.FindByID(ctx, repository.NoTX, userID)
	if err != nil {
		return nil, err
	}
	status := user.SubscriptionStatus
	if status == "" {
		status = model.SubscriptionStatusFree
	}
	return &model.SubscriptionState{
		Status:    status,
		ExpiresAt: user.SubscriptionExpiresAt,
		IsPremium: user.IsPremium(u.now()),
		Linked:    user.HasSubscription(),
	}, nil
}

func (u *subscriptionUC) HandleWebhook(ctx context.Context, payload []byte, signature string) (*model.BillingEvent, error) {
	ev, err := u.webhooks.ParseEvent(payload, signature)
	if err != nil {
		logging.With(ctx, u.log).Warn().Err(err).Msg("rejected billing webhook")
		return nil, err
	}
	return u.ApplyBillingEvent(ctx, ev)
}

func (u *subscriptionUC) ApplyBillingEvent(ctx context.Context, ev *model.BillingEvent) (*model.BillingEvent, error) {
	defer logging.TraceDuration(u.log, "SubscriptionUC.ApplyBillingEvent")()

	if ev == nil || ev.ID == "" {
		return nil, domain.ErrInvalidArgument
	}
	now := u.now()
	ev.ReceivedAt = now
	log := logging.With(ctx, u.log).With().Str("event_id", ev.ID).Str("event_type", ev.Type).Logger()

	err := u.tm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		inserted, err := u.events.Insert(ctx, tx, ev)
		if err != nil {
			return err
		}
		if !inserted {
			ev.Result = model.BillingEventDuplicate
			return nil
		}

		result, err := u.applyEvent(ctx, tx, ev, now)
		if err != nil {
			return err
		}
		ev.Result = result
		return u.events.SetResult(ctx, tx, ev.ID, result, ev.UserID)
	})
	if err != nil {
		log.Error().Err(err).Msg("billing event not applied")
		return nil, err
	}

	switch ev.Result {
	case model.BillingEventApplied:
		log.Info().Str("user_id", ev.UserID).Msg("billing event applied")
	default:
		log.Warn().Str("result", string(ev.Result)).Msg("billing event skipped")
	}
	return ev, nil
}

func (u *subscriptionUC) applyEvent(ctx context.Context, tx repository.Tx, ev *model.BillingEvent, now time.Time) (model.BillingEventResult, error) {
	if !ev.IsSupported() {
		return model.BillingEventIgnored, nil
	}

	user, err := u.resolveUser(ctx, tx, ev)
	if err != nil {
		return "", err
	}
	if user == nil {
		return model.BillingEventIgnored, nil
	}
	ev.UserID = user.ID

	if user.BillingSyncedAt != nil && ev.CreatedAt.Before(*user.BillingSyncedAt) {
		return model.BillingEventStale, nil
	}

	sub := ev.Subscription
	if sub == nil && ev.SubscriptionRef != "" {
		sub, err = u.getSubscription(ctx, ev.SubscriptionRef)
		if err != nil {
			return "", err
		}
	}
	if sub == nil {
		return model.BillingEventIgnored, nil
	}
	// Events for a subscription the user has since replaced carry no authority.
	if user.BillingSubscriptionRef != "" && sub.Ref != "" && sub.Ref != user.BillingSubscriptionRef {
		return model.BillingEventIgnored, nil
	}

	plan := u.plans.PlanFor(sub.PriceRef, sub.Interval)
	tr := model.NextSubscriptionState(ev.Type, sub, plan, now)
	if !tr.Changed {
		// Still the newest word on this subscription; older events must lose to it.
		if err := u.users.TouchBillingSync(ctx, tx, user.ID, ev.CreatedAt); err != nil {
			return "", err
		}
		return model.BillingEventApplied, nil
	}
	if err := u.users.ApplySubscriptionState(ctx, tx, user.ID, sub.Ref, tr, ev.CreatedAt); err != nil {
		return "", err
	}
	return model.BillingEventApplied, nil
}

// resolveUser finds and locks the user owning the event; nil when unknown.
func (u *subscriptionUC) resolveUser(ctx context.Context, tx repository.Tx, ev *model.BillingEvent) (*model.User, error) {
	lookups := []struct {
		ref  string
		find func(context.Context, repository.Tx, string) (*model.User, error)
	}{
		{ev.SubscriptionRef, u.users.FindByBillingSubscriptionRef},
		{ev.CustomerRef, u.users.FindByBillingCustomerRef},
	}
	for _, l := range lookups {
		if l.ref == "" {
			continue
		}
		user, err := l.find(ctx, tx, l.ref)
		if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrUserNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return u.users.FindByIDForUpdate(ctx, tx, user.ID)
	}
	return nil, nil
}
