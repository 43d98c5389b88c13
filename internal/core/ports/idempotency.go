package ports

import "context"

// IdempotencyStore remembers which user an Idempotency-Key created.
type IdempotencyStore interface {
	Lookup(ctx context.Context, key string) (userID string, found bool, err error)
	Remember(ctx context.Context, key, userID string) error
}
