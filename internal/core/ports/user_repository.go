package ports

import (
	"context"

	"github.com/99minutos/users-api/internal/core/domain"
)

// UserRepository is the user store. Lookups by an unknown id return
// domain.ErrUserNotFound.
type UserRepository interface {
	// List returns every user in insertion order.
	List(ctx context.Context) ([]domain.User, error)
	FindByID(ctx context.Context, id string) (domain.User, error)
	// Insert assigns a freshly generated id to u, overwriting any id it
	// carries, and appends it to the store.
	Insert(ctx context.Context, u domain.User) (domain.User, error)
	// Replace swaps the whole record for u, keeping its position. The stored
	// id is always id.
	Replace(ctx context.Context, id string, u domain.User) (domain.User, error)
	// Patch shallow-merges fields onto the stored record.
	Patch(ctx context.Context, id string, fields domain.Fields) (domain.User, error)
	// Delete removes the record and returns it.
	Delete(ctx context.Context, id string) (domain.User, error)
}

// IDGenerator produces short, URL-safe, collision-resistant identifiers.
type IDGenerator interface {
	NewID() (string, error)
}
