package api

import (
	"errors"
	"io"
	"net/http"
	"time"

	"meditation-platform/internal/domain"
	"meditation-platform/internal/domain/model"
	"meditation-platform/internal/infra/metrics"
	"meditation-platform/internal/usecase"

	"github.com/go-chi/chi/v5"
)

// ---- catalog ----

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := s.catalog.ListCategories(r.Context())
	if err != nil {
		writeError(w, r, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, cats)
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit")
	if err != nil {
		writeError(w, r, s.log, err)
		return
	}
	offset, err := queryInt(r, "offset")
	if err != nil {
		writeError(w, r, s.log, err)
		return
	}
	sessions, err := s.catalog.ListSessions(r.Context(), r.URL.Query().Get("categoryId"), limit, offset)
	if err != nil {
		writeError(w, r, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, sessions)
}

func (s *Server) handleFeaturedSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := s.catalog.FeaturedSessions(r.Context())
	if err != nil {
		writeError(w, r, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, sessions)
}

func (s *Server) handlePopularSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := s.catalog.PopularSessions(r.Context())
	if err != nil {
		writeError(w, r, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, sessions)
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	session, err := s.catalog.GetSession(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

func (s *Server) handleGlobalStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.stats.GetGlobalStats(r.Context())
	if err != nil {
		writeError(w, r, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// ---- user ----

func (s *Server) handleCurrentUser(w http.ResponseWriter, r *http.Request) {
	u, err := s.users.Get(r.Context(), UserID(r.Context()))
	if err != nil {
		writeError(w, r, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(u, time.Now(), s.opts.Location))
}

// handleRefreshSession re-issues the cookie with a fresh expiry.
func (s *Server) handleRefreshSession(w http.ResponseWriter, r *http.Request) {
	if _, err := s.sessions.Mint(w, UserID(r.Context())); err != nil {
		writeError(w, r, s.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleLogout(w http.ResponseWriter, _ *http.Request) {
	s.sessions.Clear(w)
	w.WriteHeader(http.StatusNoContent)
}

// ---- progress ----

func (s *Server) handleRecordPlay(w http.ResponseWriter, r *http.Request) {
	var body playRequest
	if err := decodeJSON(w, r, &body); err != nil || body.ProgressMinutes == nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Message: "progressMinutes is required"})
		return
	}
	res, err := s.progress.RecordSessionPlay(r.Context(), usecase.PlayRequest{
		UserID:          UserID(r.Context()),
		SessionID:       chi.URLParam(r, "id"),
		ProgressMinutes: *body.ProgressMinutes,
		IsCompleted:     body.IsCompleted,
		TimeZone:        body.TimeZone,
	})
	if err != nil {
		writeError(w, r, s.log, err)
		return
	}
	metrics.IncSessionPlay(res.Progress.IsCompleted, res.Progress.ProgressMinutes)
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleSessionProgress(w http.ResponseWriter, r *http.Request) {
	p, err := s.progress.SessionProgress(r.Context(), UserID(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleListFavorites(w http.ResponseWriter, r *http.Request) {
	sessions, err := s.progress.ListFavorites(r.Context(), UserID(r.Context()))
	if err != nil {
		writeError(w, r, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, sessions)
}

func (s *Server) handleIsFavorite(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionId")
	ok, err := s.progress.IsFavorite(r.Context(), UserID(r.Context()), sessionID)
	if err != nil {
		writeError(w, r, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, favoriteResponse{SessionID: sessionID, IsFavorite: ok})
}

func (s *Server) handleAddFavorite(w http.ResponseWriter, r *http.Request) {
	s.toggleFavorite(w, r, usecase.FavoriteAdd)
}

func (s *Server) handleRemoveFavorite(w http.ResponseWriter, r *http.Request) {
	s.toggleFavorite(w, r, usecase.FavoriteRemove)
}

func (s *Server) toggleFavorite(w http.ResponseWriter, r *http.Request, action usecase.FavoriteAction) {
	sessionID := chi.URLParam(r, "sessionId")
	if err := s.progress.ToggleFavorite(r.Context(), UserID(r.Context()), sessionID, action); err != nil {
		writeError(w, r, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, favoriteResponse{SessionID: sessionID, IsFavorite: action == usecase.FavoriteAdd})
}

func (s *Server) handleDailyProgress(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	d, err := s.progress.DailyProgress(r.Context(), UserID(r.Context()), q.Get("date"), q.Get("tz"))
	if err != nil {
		writeError(w, r, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (s *Server) handleStreak(w http.ResponseWriter, r *http.Request) {
	st, err := s.progress.Streak(r.Context(), UserID(r.Context()), r.URL.Query().Get("tz"))
	if err != nil {
		writeError(w, r, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// ---- journal ----

func (s *Server) handleListJournal(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit")
	if err != nil {
		writeError(w, r, s.log, err)
		return
	}
	entries, err := s.journal.ListEntries(r.Context(), UserID(r.Context()), limit)
	if err != nil {
		writeError(w, r, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleCreateJournal(w http.ResponseWriter, r *http.Request) {
	var body journalRequest
	if err := decodeJSON(w, r, &body); err != nil {
		writeError(w, r, s.log, err)
		return
	}
	e, err := s.journal.CreateEntry(r.Context(), UserID(r.Context()), body.SessionID, body.Content, body.Mood)
	if err != nil {
		writeError(w, r, s.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, e)
}

// ---- subscription ----

func (s *Server) handleGetOrCreateSubscription(w http.ResponseWriter, r *http.Request) {
	var body subscriptionRequest
	if err := decodeJSON(w, r, &body); err != nil {
		writeError(w, r, s.log, err)
		return
	}
	pay, err := s.subs.GetOrCreateSubscription(r.Context(), UserID(r.Context()), body.PlanType)
	if err != nil {
		writeError(w, r, s.log, err)
		return
	}
	if pay.Created {
		plan, _ := model.ParsePlanType(body.PlanType)
		metrics.IncSubscriptionCreated(string(plan))
	}
	writeJSON(w, http.StatusOK, pay)
}

func (s *Server) handleSubscriptionStatus(w http.ResponseWriter, r *http.Request) {
	st, err := s.subs.SubscriptionStatus(r.Context(), UserID(r.Context()))
	if err != nil {
		writeError(w, r, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

const maxWebhookBytes = 65536

// handleStripeWebhook answers 2xx only once the event is durably recorded so
// the provider redelivers on failure.
func (s *Server) handleStripeWebhook(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBytes))
	if err != nil {
		writeJSON(w, http.StatusRequestEntityTooLarge, errorBody{Message: "payload too large"})
		return
	}
	ev, err := s.subs.HandleWebhook(r.Context(), payload, r.Header.Get("Stripe-Signature"))
	if err != nil {
		if errors.Is(err, domain.ErrInvalidSignature) {
			metrics.IncBillingEvent("unknown", "invalid")
		}
		writeError(w, r, s.log, err)
		return
	}
	metrics.IncBillingEvent(ev.Type, string(ev.Result))
	writeJSON(w, http.StatusOK, webhookResponse{Received: true, Result: string(ev.Result)})
}
