package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"meditation-platform/internal/config"
	"meditation-platform/internal/domain/ports/adapter"
	"meditation-platform/internal/infra/adapters/billing"
	"meditation-platform/internal/infra/api"
	"meditation-platform/internal/infra/auth"
	pg "meditation-platform/internal/infra/db/postgres"
	red "meditation-platform/internal/infra/redis"
	"meditation-platform/internal/infra/sched"
	"meditation-platform/internal/usecase"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/rs/zerolog"
)

type app struct {
	cfg   *config.Config
	loc   *time.Location
	log   *zerolog.Logger
	pool  *pgxpool.Pool
	redis *red.Client

	catalog  usecase.CatalogUseCase
	progress usecase.ProgressUseCase
	subs     usecase.SubscriptionUseCase
	journal  usecase.JournalUseCase
	users    usecase.UserUseCase
	stats    usecase.StatsUseCase

	sessions  *auth.SessionManager
	limiter   *red.RateLimiter
	refresher *sched.StatsRefresher
}

func buildApp(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) (*app, error) {
	loc, err := time.LoadLocation(cfg.Progress.Timezone)
	if err != nil {
		return nil, fmt.Errorf("progress timezone: %w", err)
	}

	// ---- Postgres ----
	pool, err := pg.Connect(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("postgres: %w", err)
	}

	// ---- Redis ----
	redisClient, err := red.NewClient(ctx, &cfg.Redis)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("redis: %w", err)
	}

	// ---- Billing ----
	provider, err := newBillingProvider(cfg, logger)
	if err != nil {
		pool.Close()
		_ = redisClient.Close()
		return nil, err
	}

	// ---- Repositories ----
	tm := pg.NewTxManager(pool)
	userRepo := pg.NewPostgresUserRepo(pool)
	categoryRepo := pg.NewCategoryRepoCacheDecorator(pg.NewPostgresCategoryRepo(pool), redisClient, cfg.Redis.TTL, logger)
	sessionRepo := pg.NewPostgresSessionRepo(pool)
	progressRepo := pg.NewPostgresSessionProgressRepo(pool)
	dailyRepo := pg.NewPostgresDailyProgressRepo(pool)
	favoriteRepo := pg.NewPostgresFavoriteRepo(pool)
	journalRepo := pg.NewPostgresJournalRepo(pool)
	eventRepo := pg.NewPostgresBillingEventRepo(pool)
	statsRepo := pg.NewPostgresStatsRepo(pool)

	// ---- Use cases ----
	plans := usecase.BillingPlans{
		MonthlyPriceID: cfg.Billing.MonthlyPriceID,
		AnnualPriceID:  cfg.Billing.AnnualPriceID,
	}
	statsUC := usecase.NewStatsUseCase(statsRepo, red.NewStatsCache(redisClient), cfg.Stats.Interval, cfg.Stats.ActiveWindow, loc, logger)

	a := &app{
		cfg:      cfg,
		loc:      loc,
		log:      logger,
		pool:     pool,
		redis:    redisClient,
		catalog:  usecase.NewCatalogUseCase(categoryRepo, sessionRepo, tm),
		progress: usecase.NewProgressUseCase(userRepo, sessionRepo, progressRepo, dailyRepo, favoriteRepo, tm, loc, logger),
		subs: usecase.NewSubscriptionUseCase(userRepo, eventRepo, tm, provider,
			billing.NewStripeWebhookParser(cfg.Billing.WebhookSecret), plans, cfg.Billing.Timeout, logger),
		journal:  usecase.NewJournalUseCase(journalRepo, sessionRepo),
		users:    usecase.NewUserUseCase(userRepo, logger),
		stats:    statsUC,
		sessions: auth.NewSessionManager(cfg.Auth.SessionSecret, cfg.Auth.CookieName, !cfg.Runtime.Dev, cfg.Auth.SessionTTL),
		limiter:  red.NewRateLimiter(redisClient),
	}
	a.refresher = sched.NewStatsRefresher(cfg.Stats.RefreshCron, statsUC, red.NewLocker(redisClient), time.Minute, logger)
	return a, nil
}

// newBillingProvider returns Stripe when a key is configured; dev mode falls back to the in-memory provider.
func newBillingProvider(cfg *config.Config, logger *zerolog.Logger) (adapter.BillingProvider, error) {
	if cfg.Billing.SecretKey == "" && cfg.Runtime.Dev {
		logger.Warn().Msg("billing.secret_key not set; using noop billing provider")
		return billing.NewNoopBillingProvider(cfg.Billing.MonthlyPriceID, cfg.Billing.AnnualPriceID), nil
	}
	p, err := billing.NewStripeProvider(billing.StripeOptions{
		SecretKey: cfg.Billing.SecretKey,
		Timeout:   cfg.Billing.Timeout,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("stripe: %w", err)
	}
	return p, nil
}

func (a *app) httpServer() *http.Server {
	srv := api.NewServer(api.Deps{
		Catalog:  a.catalog,
		Progress: a.progress,
		Subs:     a.subs,
		Journal:  a.journal,
		Users:    a.users,
		Stats:    a.stats,
		Sessions: a.sessions,
		Limiter:  a.limiter,
		Checks: map[string]api.Checker{
			"postgres": a.pool.Ping,
			"redis":    a.redis.Ping,
		},
	}, api.Options{
		RequestTimeout: a.cfg.Server.RequestTimeout,
		PlaysPerMinute: a.cfg.RateLimit.PlaysPerMinute,
		Location:       a.loc,
	}, a.log)

	addr := fmt.Sprintf(":%d", a.cfg.Server.Port)
	return api.NewHTTPServer(addr, srv.Routes(), a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout)
}

func (a *app) Close() {
	if err := a.redis.Close(); err != nil {
		a.log.Warn().Err(err).Msg("redis close")
	}
	a.pool.Close()
}
