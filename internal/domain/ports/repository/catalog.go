package repository

import (
	"context"

	"meditation-platform/internal/domain/model"
)

// SessionFilter narrows a catalog listing.
type SessionFilter struct {
	CategoryID string
	Limit      int
	Offset     int
	// ByPlays orders by play count instead of recency.
	ByPlays bool
}

type CategoryRepository interface {
	List(ctx context.Context, tx Tx) ([]*model.Category, error)
	FindByID(ctx context.Context, tx Tx, id string) (*model.Category, error)
	Save(ctx context.Context, tx Tx, c *model.Category) error
	IncrementSessionCount(ctx context.Context, tx Tx, id string) error
}

type SessionRepository interface {
	List(ctx context.Context, tx Tx, f SessionFilter) ([]*model.Session, error)
	ListFeatured(ctx context.Context, tx Tx, limit int) ([]*model.Session, error)
	ListPopular(ctx context.Context, tx Tx, limit int) ([]*model.Session, error)
	FindByID(ctx context.Context, tx Tx, id string) (*model.Session, error)
	Save(ctx context.Context, tx Tx, s *model.Session) error
	// IncrementPlays is a relative update: plays = plays + 1.
	IncrementPlays(ctx context.Context, tx Tx, id string) error
}
