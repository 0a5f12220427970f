package model

import (
	"strings"
	"time"
	"unicode/utf8"

	"meditation-platform/internal/domain"

	"github.com/oklog/ulid/v2"
)

const (
	MaxJournalContent = 10000
	MaxJournalMood    = 32
)

// JournalEntry is an append-only reflection.
type JournalEntry struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	SessionID string    `json:"sessionId,omitempty"`
	Content   string    `json:"content"`
	Mood      string    `json:"mood,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

func NewJournalEntry(userID, sessionID, content, mood string) (*JournalEntry, error) {
	content = strings.TrimSpace(content)
	mood = strings.ToLower(strings.TrimSpace(mood))
	if userID == "" {
		return nil, domain.ErrUnauthenticated
	}
	if content == "" || utf8.RuneCountInString(content) > MaxJournalContent {
		return nil, domain.ErrInvalidArgument
	}
	if utf8.RuneCountInString(mood) > MaxJournalMood {
		return nil, domain.ErrInvalidArgument
	}
	now := time.Now().UTC()
	return &JournalEntry{
		ID:        ulid.Make().String(),
		UserID:    userID,
		SessionID: strings.TrimSpace(sessionID),
		Content:   content,
		Mood:      mood,
		CreatedAt: now,
	}, nil
}
