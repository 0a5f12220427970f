package usecase

import (
	"context"
	"strings"
	"time"

	"meditation-platform/internal/domain"
	"meditation-platform/internal/domain/model"
	"meditation-platform/internal/domain/ports/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
)

// Compile-time check
var _ CatalogUseCase = (*catalogUC)(nil)

const (
	defaultSessionLimit  = 50
	defaultCategoryLimit = 20
	featuredSessionLimit = 3
	popularSessionLimit  = 6
	maxListLimit         = 100
)

// CatalogUseCase reads the session catalog and ingests content.
type CatalogUseCase interface {
	ListCategories(ctx context.Context) ([]*model.Category, error)
	ListSessions(ctx context.Context, categoryID string, limit, offset int) ([]*model.Session, error)
	FeaturedSessions(ctx context.Context) ([]*model.Session, error)
	PopularSessions(ctx context.Context) ([]*model.Session, error)
	GetSession(ctx context.Context, id string) (*model.Session, error)
	CreateCategory(ctx context.Context, c *model.Category) (*model.Category, error)
	// CreateSession also bumps the owning category's session count.
	CreateSession(ctx context.Context, s *model.Session) (*model.Session, error)
}

type catalogUC struct {
	categories repository.CategoryRepository
	sessions   repository.SessionRepository
	tm         repository.TransactionManager
}

func NewCatalogUseCase(categories repository.CategoryRepository, sessions repository.SessionRepository, tm repository.TransactionManager) *catalogUC {
	return &catalogUC{categories: categories, sessions: sessions, tm: tm}
}

func clampLimit(limit, def int) int {
	switch {
	case limit <= 0:
		return def
	case limit > maxListLimit:
		return maxListLimit
	}
	return limit
}

func (u *catalogUC) ListCategories(ctx context.Context) ([]*model.Category, error) {
	return u.categories.List(ctx, repository.NoTX)
}

func (u *catalogUC) ListSessions(ctx context.Context, categoryID string, limit, offset int) ([]*model.Session, error) {
	if offset < 0 {
		return nil, domain.ErrInvalidArgument
	}
	f := repository.SessionFilter{Limit: clampLimit(limit, defaultSessionLimit), Offset: offset}
	if categoryID = strings.TrimSpace(categoryID); categoryID != "" {
		f.CategoryID = categoryID
		f.ByPlays = true
		f.Limit = clampLimit(limit, defaultCategoryLimit)
	}
	return u.sessions.List(ctx, repository.NoTX, f)
}

func (u *catalogUC) FeaturedSessions(ctx context.Context) ([]*model.Session, error) {
	return u.sessions.ListFeatured(ctx, repository.NoTX, featuredSessionLimit)
}

func (u *catalogUC) PopularSessions(ctx context.Context) ([]*model.Session, error) {
	return u.sessions.ListPopular(ctx, repository.NoTX, popularSessionLimit)
}

func (u *catalogUC) GetSession(ctx context.Context, id string) (*model.Session, error) {
	if id == "" {
		return nil, domain.ErrInvalidArgument
	}
	return u.sessions.FindByID(ctx, repository.NoTX, id)
}

func (u *catalogUC) CreateCategory(ctx context.Context, c *model.Category) (*model.Category, error) {
	nc, err := model.NewCategory(c.Name, c.Description, c.Icon, c.Color, c.SortOrder)
	if err != nil {
		return nil, err
	}
	if c.ID != "" {
		nc.ID = c.ID
	}
	if err := u.categories.Save(ctx, repository.NoTX, nc); err != nil {
		return nil, err
	}
	return nc, nil
}

func (u *catalogUC) CreateSession(ctx context.Context, s *model.Session) (*model.Session, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	cp := *s
	if cp.ID == "" {
		cp.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	cp.CreatedAt, cp.UpdatedAt = now, now
	cp.Likes, cp.Plays = 0, 0
	if cp.Tags == nil {
		cp.Tags = []string{}
	}

	err := u.tm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		if cp.CategoryID != "" {
			if _, err := u.categories.FindByID(ctx, tx, cp.CategoryID); err != nil {
				return err
			}
		}
		if err := u.sessions.Save(ctx, tx, &cp); err != nil {
			return err
		}
		if cp.CategoryID != "" {
			return u.categories.IncrementSessionCount(ctx, tx, cp.CategoryID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &cp, nil
}
