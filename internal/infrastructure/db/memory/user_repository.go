package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/99minutos/users-api/internal/core/domain"
	"github.com/99minutos/users-api/internal/core/ports"
)

// UserRepository implements ports.UserRepository over an ordered slice held in
// process memory. Every operation runs under mu, so a request observes and
// mutates the collection atomically.
type UserRepository struct {
	mu    sync.RWMutex
	users []domain.User
	ids   ports.IDGenerator
}

func NewUserRepository(ids ports.IDGenerator) *UserRepository {
	return &UserRepository{ids: ids, users: make([]domain.User, 0)}
}

// List returns copies of every stored user in insertion order.
func (r *UserRepository) List(_ context.Context) ([]domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.User, len(r.users))
	for i, u := range r.users {
		out[i] = u.Clone()
	}
	return out, nil
}

func (r *UserRepository) FindByID(_ context.Context, id string) (domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i := r.indexOf(id)
	if i < 0 {
		return domain.User{}, domain.ErrUserNotFound
	}
	return r.users[i].Clone(), nil
}

// Insert stores u under a freshly generated id. Uniqueness relies on the
// generator; collisions are not checked.
func (r *UserRepository) Insert(_ context.Context, u domain.User) (domain.User, error) {
	id, err := r.ids.NewID()
	if err != nil {
		return domain.User{}, fmt.Errorf("generate user id: %w", err)
	}

	stored := u.Clone()
	stored.ID = id

	r.mu.Lock()
	r.users = append(r.users, stored)
	r.mu.Unlock()

	return stored.Clone(), nil
}

func (r *UserRepository) Replace(_ context.Context, id string, u domain.User) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return domain.User{}, domain.ErrUserNotFound
	}

	stored := u.Clone()
	stored.ID = id
	r.users[i] = stored
	return stored.Clone(), nil
}

func (r *UserRepository) Patch(_ context.Context, id string, fields domain.Fields) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return domain.User{}, domain.ErrUserNotFound
	}

	merged, err := r.users[i].Merge(fields)
	if err != nil {
		return domain.User{}, err
	}
	r.users[i] = merged
	return merged.Clone(), nil
}

func (r *UserRepository) Delete(_ context.Context, id string) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return domain.User{}, domain.ErrUserNotFound
	}

	removed := r.users[i]
	r.users = append(r.users[:i], r.users[i+1:]...)
	return removed, nil
}

// indexOf must be called with mu held.
func (r *UserRepository) indexOf(id string) int {
	for i := range r.users {
		if r.users[i].ID == id {
			return i
		}
	}
	return -1
}
