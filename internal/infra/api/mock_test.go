package api

import (
	"context"
	"errors"
	"time"

	"meditation-platform/internal/domain"
	"meditation-platform/internal/domain/model"
	"meditation-platform/internal/usecase"

	"github.com/rs/zerolog"
)

func newTestLogger() *zerolog.Logger {
	logger := zerolog.Nop()
	return &logger
}

// ---- fakes for the use case ports ----

type fakeCatalog struct {
	sessions  map[string]*model.Session
	lastLimit int
	lastCat   string
}

func (f *fakeCatalog) ListCategories(ctx context.Context) ([]*model.Category, error) {
	return []*model.Category{{ID: "c1", Name: "Sleep"}}, nil
}
func (f *fakeCatalog) ListSessions(ctx context.Context, categoryID string, limit, offset int) ([]*model.Session, error) {
	f.lastLimit, f.lastCat = limit, categoryID
	out := make([]*model.Session, 0, len(f.sessions))
	for _, s := range f.sessions {
		out = append(out, s)
	}
	return out, nil
}
func (f *fakeCatalog) FeaturedSessions(ctx context.Context) ([]*model.Session, error) {
	return []*model.Session{}, nil
}
func (f *fakeCatalog) PopularSessions(ctx context.Context) ([]*model.Session, error) {
	return []*model.Session{}, nil
}
func (f *fakeCatalog) GetSession(ctx context.Context, id string) (*model.Session, error) {
	s, ok := f.sessions[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return s, nil
}
func (f *fakeCatalog) CreateCategory(ctx context.Context, c *model.Category) (*model.Category, error) {
	return c, nil
}
func (f *fakeCatalog) CreateSession(ctx context.Context, s *model.Session) (*model.Session, error) {
	return s, nil
}

type fakeProgress struct {
	lastPlay   usecase.PlayRequest
	playErr    error
	favorites  map[string]bool
	lastTZ     string
	lastDate   string
	streakUser string
}

func (f *fakeProgress) RecordSessionPlay(ctx context.Context, req usecase.PlayRequest) (*usecase.PlayResult, error) {
	f.lastPlay = req
	if f.playErr != nil {
		return nil, f.playErr
	}
	return &usecase.PlayResult{
		Progress: &model.UserSessionProgress{UserID: req.UserID, SessionID: req.SessionID, ProgressMinutes: req.ProgressMinutes, IsCompleted: req.IsCompleted},
		Daily:    &model.DailyProgress{UserID: req.UserID, Date: "2024-03-10", MinutesMeditated: req.ProgressMinutes},
		Stats:    model.UserStats{CurrentStreak: 1, TotalMinutes: req.ProgressMinutes},
	}, nil
}
func (f *fakeProgress) ToggleFavorite(ctx context.Context, userID, sessionID string, action usecase.FavoriteAction) error {
	if sessionID == "missing" {
		return domain.ErrNotFound
	}
	f.favorites[sessionID] = action == usecase.FavoriteAdd
	return nil
}
func (f *fakeProgress) ListFavorites(ctx context.Context, userID string) ([]*model.Session, error) {
	return []*model.Session{}, nil
}
func (f *fakeProgress) IsFavorite(ctx context.Context, userID, sessionID string) (bool, error) {
	return f.favorites[sessionID], nil
}
func (f *fakeProgress) SessionProgress(ctx context.Context, userID, sessionID string) (*model.UserSessionProgress, error) {
	return &model.UserSessionProgress{UserID: userID, SessionID: sessionID}, nil
}
func (f *fakeProgress) DailyProgress(ctx context.Context, userID, date, timeZone string) (*model.DailyProgress, error) {
	f.lastDate, f.lastTZ = date, timeZone
	return &model.DailyProgress{UserID: userID, Date: date}, nil
}
func (f *fakeProgress) Streak(ctx context.Context, userID, timeZone string) (*model.UserStats, error) {
	f.streakUser, f.lastTZ = userID, timeZone
	return &model.UserStats{CurrentStreak: 3}, nil
}

type fakeSubs struct {
	payment    *model.SubscriptionPayment
	err        error
	lastPlan   string
	webhookErr error
	event      *model.BillingEvent
	lastSig    string
}

func (f *fakeSubs) GetOrCreateSubscription(ctx context.Context, userID, planType string) (*model.SubscriptionPayment, error) {
	f.lastPlan = planType
	return f.payment, f.err
}
func (f *fakeSubs) SubscriptionStatus(ctx context.Context, userID string) (*model.SubscriptionState, error) {
	return &model.SubscriptionState{Status: model.SubscriptionStatusFree}, nil
}
func (f *fakeSubs) HandleWebhook(ctx context.Context, payload []byte, signature string) (*model.BillingEvent, error) {
	f.lastSig = signature
	if f.webhookErr != nil {
		return nil, f.webhookErr
	}
	return f.event, nil
}
func (f *fakeSubs) ApplyBillingEvent(ctx context.Context, ev *model.BillingEvent) (*model.BillingEvent, error) {
	return ev, nil
}

type fakeJournal struct{}

func (fakeJournal) CreateEntry(ctx context.Context, userID, sessionID, content, mood string) (*model.JournalEntry, error) {
	return model.NewJournalEntry(userID, sessionID, content, mood)
}
func (fakeJournal) ListEntries(ctx context.Context, userID string, limit int) ([]*model.JournalEntry, error) {
	return []*model.JournalEntry{}, nil
}

type fakeUsers struct{ users map[string]*model.User }

func (f *fakeUsers) Get(ctx context.Context, userID string) (*model.User, error) {
	u, ok := f.users[userID]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return u, nil
}
func (f *fakeUsers) Upsert(ctx context.Context, id, email, firstName, lastName, profileImageURL string) (*model.User, error) {
	return model.NewUser(id, email, firstName, lastName)
}

type fakeStats struct{}

func (fakeStats) Refresh(ctx context.Context) (*model.GlobalStats, error) {
	return &model.GlobalStats{}, nil
}
func (fakeStats) GetGlobalStats(ctx context.Context) (*model.GlobalStats, error) {
	return &model.GlobalStats{ActiveUsers: 4, TotalMembers: 10, RefreshedAt: time.Unix(0, 0).UTC()}, nil
}

type fakeLimiter struct {
	calls int
	limit int
	err   error
}

func (f *fakeLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	f.calls++
	return f.calls <= f.limit, nil
}

var errBoom = errors.New("boom")
