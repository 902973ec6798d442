package user

import (
	"context"

	"go.uber.org/zap"

	"github.com/taskdesk/backend/domain"
	"github.com/taskdesk/backend/repository"
)

type UseCase struct {
	users  repository.UserRepository
	logger *zap.Logger
}

func New(users repository.UserRepository, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		users:  users,
		logger: logger,
	}
}

// GetUserByID returns the user record behind an id.
func (uc *UseCase) GetUserByID(ctx context.Context, id string) (*domain.User, error) {
	return uc.users.GetByID(ctx, id)
}
