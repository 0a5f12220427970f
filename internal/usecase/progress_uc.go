// File: internal/usecase/progress_uc.go
package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"meditation-platform/internal/domain"
	"meditation-platform/internal/domain/model"
	"meditation-platform/internal/domain/ports/repository"
	"meditation-platform/internal/infra/logging"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"
)

// Compile-time check
var _ ProgressUseCase = (*progressUC)(nil)

// PlayRequest is one reported play of a session.
type PlayRequest struct {
	UserID          string
	SessionID       string
	ProgressMinutes int
	IsCompleted     bool
	// TimeZone is an optional IANA zone deciding the calendar day.
	TimeZone string
}

// PlayResult carries the rows touched by a recorded play.
type PlayResult struct {
	Progress *model.UserSessionProgress `json:"progress"`
	Daily    *model.DailyProgress       `json:"daily"`
	Stats    model.UserStats            `json:"stats"`
}

type FavoriteAction string

const (
	FavoriteAdd    FavoriteAction = "add"
	FavoriteRemove FavoriteAction = "remove"
)

// ProgressUseCase records practice and keeps per-user rollups consistent.
type ProgressUseCase interface {
	RecordSessionPlay(ctx context.Context, req PlayRequest) (*PlayResult, error)
	ToggleFavorite(ctx context.Context, userID, sessionID string, action FavoriteAction) error
	ListFavorites(ctx context.Context, userID string) ([]*model.Session, error)
	IsFavorite(ctx context.Context, userID, sessionID string) (bool, error)
	SessionProgress(ctx context.Context, userID, sessionID string) (*model.UserSessionProgress, error)
	// DailyProgress returns the row for date (YYYY-MM-DD); empty date means today.
	DailyProgress(ctx context.Context, userID, date, timeZone string) (*model.DailyProgress, error)
	// Streak reports stats with the streak as seen today.
	Streak(ctx context.Context, userID, timeZone string) (*model.UserStats, error)
}

type progressUC struct {
	users     repository.UserRepository
	sessions  repository.SessionRepository
	progress  repository.SessionProgressRepository
	daily     repository.DailyProgressRepository
	favorites repository.FavoriteRepository
	tm        repository.TransactionManager
	loc       *time.Location
	log       *zerolog.Logger
	now       func() time.Time
}

func NewProgressUseCase(
	users repository.UserRepository,
	sessions repository.SessionRepository,
	progress repository.SessionProgressRepository,
	daily repository.DailyProgressRepository,
	favorites repository.FavoriteRepository,
	tm repository.TransactionManager,
	defaultLoc *time.Location,
	logger *zerolog.Logger,
) *progressUC {
	if defaultLoc == nil {
		defaultLoc = time.UTC
	}
	return &progressUC{
		users:     users,
		sessions:  sessions,
		progress:  progress,
		daily:     daily,
		favorites: favorites,
		tm:        tm,
		loc:       defaultLoc,
		log:       logging.Component(logger, "progress_uc"),
		now:       time.Now,
	}
}

func (u *progressUC) location(tz string) (*time.Location, error) {
	tz = strings.TrimSpace(tz)
	if tz == "" {
		return u.loc, nil
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, domain.ErrInvalidArgument
	}
	return loc, nil
}

func (u *progressUC) RecordSessionPlay(ctx context.Context, req PlayRequest) (*PlayResult, error) {
	defer logging.TraceDuration(u.log, "ProgressUC.RecordSessionPlay")()

	if req.UserID == "" {
		return nil, domain.ErrUnauthenticated
	}
	if req.SessionID == "" || req.ProgressMinutes < 0 {
		return nil, domain.ErrInvalidArgument
	}
	loc, err := u.location(req.TimeZone)
	if err != nil {
		return nil, err
	}

	session, err := u.sessions.FindByID(ctx, repository.NoTX, req.SessionID)
	if err != nil {
		return nil, err
	}
	if req.ProgressMinutes > session.Duration {
		return nil, domain.ErrInvalidArgument
	}
	// Finishing early is allowed; playing to the end always completes.
	completed := req.IsCompleted || req.ProgressMinutes == session.Duration

	now := u.now().UTC()
	today := model.DayKey(now, loc)
	res := &PlayResult{}

	err = u.tm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		user, err := u.users.FindByIDForUpdate(ctx, tx, req.UserID)
		if err != nil {
			return err
		}

		if err := u.sessions.IncrementPlays(ctx, tx, session.ID); err != nil {
			return err
		}

		res.Progress, err = u.progress.Upsert(ctx, tx, &model.UserSessionProgress{
			ID:              uuid.NewString(),
			UserID:          user.ID,
			SessionID:       session.ID,
			ProgressMinutes: req.ProgressMinutes,
			IsCompleted:     completed,
			LastPlayedAt:    now,
			CreatedAt:       now,
		})
		if err != nil {
			return err
		}

		sessionsDone := 0
		if completed {
			sessionsDone = 1
			if user, err = u.users.AddCompletedMinutes(ctx, tx, user.ID, req.ProgressMinutes); err != nil {
				return err
			}
		}

		res.Daily, err = u.daily.Add(ctx, tx, user.ID, today, req.ProgressMinutes, sessionsDone)
		if err != nil {
			return err
		}

		if completed {
			streak := model.NextStreak(user.CurrentStreak, user.LastCompletedDate, today)
			last := user.LastCompletedDate
			if last == "" || today > last {
				last = today
			}
			badges := model.BadgesFor(user.BadgesEarned, user.SessionsCompleted, streak, user.TotalMinutes)
			if err := u.users.UpdateStreak(ctx, tx, user.ID, streak, last, badges); err != nil {
				return err
			}
			user.CurrentStreak, user.LastCompletedDate, user.BadgesEarned = streak, last, badges
		}
		res.Stats = user.Stats()
		return nil
	})
	if err != nil {
		return nil, err
	}

	logging.With(ctx, u.log).Debug().
		Str("session_id", session.ID).
		Int("minutes", req.ProgressMinutes).
		Bool("completed", completed).
		Int("streak", res.Stats.CurrentStreak).
		Msg("session play recorded")
	return res, nil
}

func (u *progressUC) ToggleFavorite(ctx context.Context, userID, sessionID string, action FavoriteAction) error {
	if userID == "" {
		return domain.ErrUnauthenticated
	}
	if sessionID == "" {
		return domain.ErrInvalidArgument
	}
	switch action {
	case FavoriteAdd:
		if _, err := u.sessions.FindByID(ctx, repository.NoTX, sessionID); err != nil {
			return err
		}
		return u.favorites.Add(ctx, repository.NoTX, userID, sessionID)
	case FavoriteRemove:
		return u.favorites.Remove(ctx, repository.NoTX, userID, sessionID)
	default:
		return domain.ErrInvalidArgument
	}
}

func (u *progressUC) ListFavorites(ctx context.Context, userID string) ([]*model.Session, error) {
	if userID == "" {
		return nil, domain.ErrUnauthenticated
	}
	return u.favorites.ListSessions(ctx, repository.NoTX, userID)
}

func (u *progressUC) IsFavorite(ctx context.Context, userID, sessionID string) (bool, error) {
	if userID == "" {
		return false, domain.ErrUnauthenticated
	}
	return u.favorites.Exists(ctx, repository.NoTX, userID, sessionID)
}

func (u *progressUC) SessionProgress(ctx context.Context, userID, sessionID string) (*model.UserSessionProgress, error) {
	if userID == "" {
		return nil, domain.ErrUnauthenticated
	}
	p, err := u.progress.Find(ctx, repository.NoTX, userID, sessionID)
	if errors.Is(err, domain.ErrNotFound) {
		return &model.UserSessionProgress{UserID: userID, SessionID: sessionID}, nil
	}
	return p, err
}

func (u *progressUC) DailyProgress(ctx context.Context, userID, date, timeZone string) (*model.DailyProgress, error) {
	if userID == "" {
		return nil, domain.ErrUnauthenticated
	}
	if date == "" {
		loc, err := u.location(timeZone)
		if err != nil {
			return nil, err
		}
		date = model.DayKey(u.now(), loc)
	} else if _, err := model.ParseDay(date); err != nil {
		return nil, err
	}
	d, err := u.daily.Find(ctx, repository.NoTX, userID, date)
	if errors.Is(err, domain.ErrNotFound) {
		return &model.DailyProgress{UserID: userID, Date: date}, nil
	}
	return d, err
}

func (u *progressUC) Streak(ctx context.Context, userID, timeZone string) (*model.UserStats, error) {
	if userID == "" {
		return nil, domain.ErrUnauthenticated
	}
	loc, err := u.location(timeZone)
	if err != nil {
		return nil, err
	}
	user, err := u.users.FindByID(ctx, repository.NoTX, userID)
	if err != nil {
		return nil, err
	}
	stats := user.Stats()
	stats.CurrentStreak = model.EffectiveStreak(user.CurrentStreak, user.LastCompletedDate, model.DayKey(u.now(), loc))
	return &stats, nil
}
