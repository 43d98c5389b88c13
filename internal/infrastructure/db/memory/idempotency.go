package memory

import (
	"context"
	"sync"
	"time"
)

type idempotencyEntry struct {
	userID    string
	expiresAt time.Time
}

// IdempotencyStore keeps Idempotency-Key → user id mappings in process memory.
// It is the default when no Redis address is configured.
type IdempotencyStore struct {
	mu      sync.Mutex
	entries map[string]idempotencyEntry
	ttl     time.Duration
	now     func() time.Time
}

func NewIdempotencyStore(ttl time.Duration) *IdempotencyStore {
	return &IdempotencyStore{
		entries: make(map[string]idempotencyEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Lookup reports the user created under key, if it has not expired.
func (s *IdempotencyStore) Lookup(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		return "", false, nil
	}
	if s.ttl > 0 && !s.now().Before(e.expiresAt) {
		delete(s.entries, key)
		return "", false, nil
	}
	return e.userID, true, nil
}

// Remember records key → userID. Expired entries are swept on each write.
func (s *IdempotencyStore) Remember(_ context.Context, key, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if s.ttl > 0 {
		for k, e := range s.entries {
			if !now.Before(e.expiresAt) {
				delete(s.entries, k)
			}
		}
	}
	s.entries[key] = idempotencyEntry{userID: userID, expiresAt: now.Add(s.ttl)}
	return nil
}
