package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/99minutos/users-api/internal/api/metrics"
	"github.com/99minutos/users-api/internal/core/domain"
	"github.com/99minutos/users-api/internal/core/ports"
)

type UserService struct {
	repo   ports.UserRepository
	idem   ports.IdempotencyStore
	logger zerolog.Logger
}

// NewUserService wires the service. idem may be nil, which disables
// Idempotency-Key handling.
func NewUserService(repo ports.UserRepository, idem ports.IdempotencyStore, logger zerolog.Logger) *UserService {
	return &UserService{repo: repo, idem: idem, logger: logger}
}

func (s *UserService) ListUsers(ctx context.Context) ([]domain.User, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (s *UserService) GetUser(ctx context.Context, id string) (domain.User, error) {
	return s.repo.FindByID(ctx, id)
}

// CreateUser stores a new user. If an idempotency key is provided and the user
// it created earlier still exists, that user is returned without side effects.
func (s *UserService) CreateUser(ctx context.Context, input ports.CreateUserInput) (*ports.CreateUserResult, error) {
	if existing, ok := s.replay(ctx, input.IdempotencyKey); ok {
		return &ports.CreateUserResult{User: existing, AlreadyExisted: true}, nil
	}

	created, err := s.repo.Insert(ctx, input.User)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to create user")
		return nil, fmt.Errorf("create user: %w", err)
	}

	if input.IdempotencyKey != "" && s.idem != nil {
		if err := s.idem.Remember(ctx, input.IdempotencyKey, created.ID); err != nil {
			metrics.IdempotencyErrorsTotal.WithLabelValues("remember").Inc()
			s.logger.Warn().Err(err).Str("idempotency_key", input.IdempotencyKey).Msg("failed to remember idempotency key")
		}
	}

	metrics.UsersCreatedTotal.Inc()
	metrics.UsersStored.Inc()
	s.logger.Info().Str("user_id", created.ID).Msg("user created")

	return &ports.CreateUserResult{User: created}, nil
}

// replay looks up a user previously created under key. Store failures are
// logged and treated as a miss.
func (s *UserService) replay(ctx context.Context, key string) (domain.User, bool) {
	if key == "" || s.idem == nil {
		return domain.User{}, false
	}

	id, found, err := s.idem.Lookup(ctx, key)
	if err != nil {
		metrics.IdempotencyErrorsTotal.WithLabelValues("lookup").Inc()
		s.logger.Warn().Err(err).Str("idempotency_key", key).Msg("idempotency lookup failed, creating anyway")
		return domain.User{}, false
	}
	if !found {
		return domain.User{}, false
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if !errors.Is(err, domain.ErrUserNotFound) {
			s.logger.Warn().Err(err).Str("user_id", id).Msg("idempotent replay lookup failed")
		}
		return domain.User{}, false
	}

	metrics.IdempotentReplaysTotal.Inc()
	s.logger.Info().Str("idempotency_key", key).Str("user_id", id).Msg("idempotent replay")
	return existing, true
}

func (s *UserService) ReplaceUser(ctx context.Context, id string, u domain.User) (domain.User, error) {
	replaced, err := s.repo.Replace(ctx, id, u)
	if err != nil {
		return domain.User{}, err
	}
	metrics.UsersUpdatedTotal.WithLabelValues("replace").Inc()
	s.logger.Info().Str("user_id", id).Msg("user replaced")
	return replaced, nil
}

func (s *UserService) PatchUser(ctx context.Context, id string, fields domain.Fields) (domain.User, error) {
	patched, err := s.repo.Patch(ctx, id, fields)
	if err != nil {
		return domain.User{}, err
	}
	metrics.UsersUpdatedTotal.WithLabelValues("patch").Inc()
	s.logger.Info().Str("user_id", id).Int("fields", len(fields)).Msg("user patched")
	return patched, nil
}

func (s *UserService) DeleteUser(ctx context.Context, id string) (domain.User, error) {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return domain.User{}, err
	}
	metrics.UsersDeletedTotal.Inc()
	metrics.UsersStored.Dec()
	s.logger.Info().Str("user_id", id).Msg("user deleted")
	return deleted, nil
}

// Seed inserts users through the regular create path so metrics stay consistent.
func (s *UserService) Seed(ctx context.Context, users []domain.User) error {
	for _, u := range users {
		if _, err := s.CreateUser(ctx, ports.CreateUserInput{User: u}); err != nil {
			return fmt.Errorf("seed users: %w", err)
		}
	}
	return nil
}
