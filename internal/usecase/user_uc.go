package usecase

import (
	"context"

	"meditation-platform/internal/domain"
	"meditation-platform/internal/domain/model"
	"meditation-platform/internal/domain/ports/repository"
	"meditation-platform/internal/infra/logging"

	"github.com/rs/zerolog"
)

// Compile-time check
var _ UserUseCase = (*userUC)(nil)

// UserUseCase exposes the identity-provider facing user operations.
type UserUseCase interface {
	Get(ctx context.Context, userID string) (*model.User, error)
	// Upsert syncs identity fields; billing and progress fields are never overwritten.
	Upsert(ctx context.Context, id, email, firstName, lastName, profileImageURL string) (*model.User, error)
}

type userUC struct {
	users repository.UserRepository
	log   *zerolog.Logger
}

func NewUserUseCase(users repository.UserRepository, logger *zerolog.Logger) *userUC {
	return &userUC{
		users: users,
		log:   logging.Component(logger, "user_uc"),
	}
}

func (u *userUC) Get(ctx context.Context, userID string) (*model.User, error) {
	if userID == "" {
		return nil, domain.ErrUnauthenticated
	}
	return u.users.FindByID(ctx, repository.NoTX, userID)
}

func (u *userUC) Upsert(ctx context.Context, id, email, firstName, lastName, profileImageURL string) (*model.User, error) {
	defer logging.TraceDuration(u.log, "UserUC.Upsert")()

	if id == "" {
		return nil, domain.ErrInvalidArgument
	}
	nu, err := model.NewUser(id, email, firstName, lastName)
	if err != nil {
		return nil, err
	}
	nu.ProfileImageURL = profileImageURL
	if err := u.users.Upsert(ctx, repository.NoTX, nu); err != nil {
		u.log.Error().Err(err).Str("user_id", id).Msg("Failed to upsert user")
		return nil, err
	}
	return u.users.FindByID(ctx, repository.NoTX, id)
}
