package usecase

import (
	"context"

	"meditation-platform/internal/domain"
	"meditation-platform/internal/domain/model"
	"meditation-platform/internal/domain/ports/repository"
)

// Compile-time check
var _ JournalUseCase = (*journalUC)(nil)

const defaultJournalLimit = 20

type JournalUseCase interface {
	CreateEntry(ctx context.Context, userID, sessionID, content, mood string) (*model.JournalEntry, error)
	ListEntries(ctx context.Context, userID string, limit int) ([]*model.JournalEntry, error)
}

type journalUC struct {
	entries  repository.JournalRepository
	sessions repository.SessionRepository
}

func NewJournalUseCase(entries repository.JournalRepository, sessions repository.SessionRepository) *journalUC {
	return &journalUC{entries: entries, sessions: sessions}
}

func (u *journalUC) CreateEntry(ctx context.Context, userID, sessionID, content, mood string) (*model.JournalEntry, error) {
	e, err := model.NewJournalEntry(userID, sessionID, content, mood)
	if err != nil {
		return nil, err
	}
	if e.SessionID != "" {
		if _, err := u.sessions.FindByID(ctx, repository.NoTX, e.SessionID); err != nil {
			return nil, err
		}
	}
	if err := u.entries.Save(ctx, repository.NoTX, e); err != nil {
		return nil, err
	}
	return e, nil
}

func (u *journalUC) ListEntries(ctx context.Context, userID string, limit int) ([]*model.JournalEntry, error) {
	if userID == "" {
		return nil, domain.ErrUnauthenticated
	}
	return u.entries.ListByUser(ctx, repository.NoTX, userID, clampLimit(limit, defaultJournalLimit))
}
