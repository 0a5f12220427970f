package api

import (
	"context"
	"net/http"
	"time"

	"meditation-platform/internal/infra/auth"
	"meditation-platform/internal/usecase"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// Options tune the HTTP surface.
type Options struct {
	RequestTimeout time.Duration
	PlaysPerMinute int
	// Location decides the calendar day for streaks; nil means UTC.
	Location *time.Location
}

// Checker is a named readiness probe (database ping, redis ping).
type Checker func(ctx context.Context) error

// Server binds the use cases to the REST surface.
type Server struct {
	catalog  usecase.CatalogUseCase
	progress usecase.ProgressUseCase
	subs     usecase.SubscriptionUseCase
	journal  usecase.JournalUseCase
	users    usecase.UserUseCase
	stats    usecase.StatsUseCase
	sessions *auth.SessionManager
	limiter  RateLimiter
	checks   map[string]Checker
	opts     Options
	log      *zerolog.Logger
}

type Deps struct {
	Catalog  usecase.CatalogUseCase
	Progress usecase.ProgressUseCase
	Subs     usecase.SubscriptionUseCase
	Journal  usecase.JournalUseCase
	Users    usecase.UserUseCase
	Stats    usecase.StatsUseCase
	Sessions *auth.SessionManager
	Limiter  RateLimiter
	Checks   map[string]Checker
}

func NewServer(d Deps, opts Options, logger *zerolog.Logger) *Server {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Server{
		catalog:  d.Catalog,
		progress: d.Progress,
		subs:     d.Subs,
		journal:  d.Journal,
		users:    d.Users,
		stats:    d.Stats,
		sessions: d.Sessions,
		limiter:  d.Limiter,
		checks:   d.Checks,
		opts:     opts,
		log:      logger,
	}
}

// Routes builds the chi router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(TraceID())
	r.Use(RequestLog(s.log))
	r.Use(Recover(s.log))

	r.Get("/health", s.handleHealth)
	r.Get("/ready", s.handleReady)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Use(Timeout(s.opts.RequestTimeout))

		// public catalog + community figures
		r.Get("/categories", s.handleListCategories)
		r.Get("/sessions", s.handleListSessions)
		r.Get("/sessions/featured", s.handleFeaturedSessions)
		r.Get("/sessions/popular", s.handlePopularSessions)
		r.Get("/sessions/{id}", s.handleGetSession)
		r.Get("/stats", s.handleGlobalStats)

		r.Post("/stripe-webhook", s.handleStripeWebhook)
		r.Post("/auth/logout", s.handleLogout)

		r.Group(func(r chi.Router) {
			r.Use(RequireUser(s.sessions))

			r.Get("/auth/user", s.handleCurrentUser)
			r.Post("/auth/refresh", s.handleRefreshSession)

			r.With(LimitPerUser(s.limiter, "play", s.opts.PlaysPerMinute, s.log)).
				Post("/sessions/{id}/play", s.handleRecordPlay)
			r.Get("/sessions/{id}/progress", s.handleSessionProgress)

			r.Get("/favorites", s.handleListFavorites)
			r.Get("/favorites/{sessionId}", s.handleIsFavorite)
			r.Post("/favorites/{sessionId}", s.handleAddFavorite)
			r.Delete("/favorites/{sessionId}", s.handleRemoveFavorite)

			r.Get("/progress/daily", s.handleDailyProgress)
			r.Get("/progress/streak", s.handleStreak)

			r.Get("/journal", s.handleListJournal)
			r.Post("/journal", s.handleCreateJournal)

			r.Post("/get-or-create-subscription", s.handleGetOrCreateSubscription)
			r.Get("/subscription", s.handleSubscriptionStatus)
		})
	})
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	out := make(map[string]string, len(s.checks))
	status := http.StatusOK
	for name, check := range s.checks {
		if err := check(ctx); err != nil {
			out[name] = err.Error()
			status = http.StatusServiceUnavailable
			continue
		}
		out[name] = "ok"
	}
	writeJSON(w, status, out)
}

// NewHTTPServer wraps h with the configured timeouts.
func NewHTTPServer(addr string, h http.Handler, readTimeout, writeTimeout time.Duration) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadTimeout:       readTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       60 * time.Second,
	}
}
