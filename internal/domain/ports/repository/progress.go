package repository

import (
	"context"

	"meditation-platform/internal/domain/model"
)

type SessionProgressRepository interface {
	// Upsert replaces minutes and completion for (user, session) and stamps last_played_at.
	Upsert(ctx context.Context, tx Tx, p *model.UserSessionProgress) (*model.UserSessionProgress, error)
	Find(ctx context.Context, tx Tx, userID, sessionID string) (*model.UserSessionProgress, error)
}

type DailyProgressRepository interface {
	// Add adds minutes and sessions to the (user, date) row, creating it if absent.
	Add(ctx context.Context, tx Tx, userID, date string, minutes, sessions int) (*model.DailyProgress, error)
	Find(ctx context.Context, tx Tx, userID, date string) (*model.DailyProgress, error)
}

type FavoriteRepository interface {
	// Add is a no-op when the pair already exists.
	Add(ctx context.Context, tx Tx, userID, sessionID string) error
	// Remove is a no-op when the pair is absent.
	Remove(ctx context.Context, tx Tx, userID, sessionID string) error
	Exists(ctx context.Context, tx Tx, userID, sessionID string) (bool, error)
	ListSessions(ctx context.Context, tx Tx, userID string) ([]*model.Session, error)
}

type JournalRepository interface {
	Save(ctx context.Context, tx Tx, e *model.JournalEntry) error
	ListByUser(ctx context.Context, tx Tx, userID string, limit int) ([]*model.JournalEntry, error)
}
