package ports

import (
	"context"

	"github.com/99minutos/users-api/internal/core/domain"
)

// CreateUserInput carries a validated candidate record.
type CreateUserInput struct {
	User           domain.User
	IdempotencyKey string
}

// CreateUserResult is returned by the service after creating a user.
type CreateUserResult struct {
	User domain.User
	// AlreadyExisted is true when the Idempotency-Key matched a user created earlier.
	AlreadyExisted bool
}

// UserService defines use-case operations for users.
type UserService interface {
	ListUsers(ctx context.Context) ([]domain.User, error)
	GetUser(ctx context.Context, id string) (domain.User, error)
	CreateUser(ctx context.Context, input CreateUserInput) (*CreateUserResult, error)
	ReplaceUser(ctx context.Context, id string, u domain.User) (domain.User, error)
	PatchUser(ctx context.Context, id string, fields domain.Fields) (domain.User, error)
	DeleteUser(ctx context.Context, id string) (domain.User, error)
}
