package model

import (
	"strings"
	"time"

	"meditation-platform/internal/domain"

	"github.com/google/uuid"
)

// Category groups sessions in the catalog.
type Category struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description,omitempty"`
	Icon         string    `json:"icon,omitempty"`
	Color        string    `json:"color,omitempty"`
	SessionCount int       `json:"sessionCount"`
	SortOrder    int       `json:"sortOrder"`
	CreatedAt    time.Time `json:"createdAt"`
}

func NewCategory(name, description, icon, color string, sortOrder int) (*Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.ErrInvalidArgument
	}
	return &Category{
		ID:          uuid.NewString(),
		Name:        name,
		Description: description,
		Icon:        icon,
		Color:       color,
		SortOrder:   sortOrder,
		CreatedAt:   time.Now().UTC(),
	}, nil
}

// Session is a guided practice in the catalog.
type Session struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	CategoryID  string    `json:"categoryId,omitempty"`
	GuideName   string    `json:"guideName"`
	Duration    int       `json:"duration"` // minutes
	AudioURL    string    `json:"audioUrl,omitempty"`
	ImageURL    string    `json:"imageUrl,omitempty"`
	IsPremium   bool      `json:"isPremium"`
	Likes       int       `json:"likes"`
	Plays       int       `json:"plays"`
	IsFeatured  bool      `json:"isFeatured"`
	Tags        []string  `json:"tags"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Validate checks the fields required by content ingestion.
func (s *Session) Validate() error {
	if strings.TrimSpace(s.Title) == "" || strings.TrimSpace(s.GuideName) == "" || s.Duration <= 0 {
		return domain.ErrInvalidArgument
	}
	return nil
}
