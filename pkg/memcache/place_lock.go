// pkg/memcache/place_lock.go
package mem

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// PlaceLocker guards a place against overlapping refreshes.
type PlaceLocker interface {
	// TryLock returns ok=false if the key is already held and not expired.
	// The token identifies this holder and must be passed to Unlock.
	TryLock(ctx context.Context, key string, ttl time.Duration) (token string, ok bool, err error)
	// Unlock releases the key only while it is still held under token.
	Unlock(ctx context.Context, key, token string) error
}

type entry struct {
	token     string
	expiresAt time.Time
}

type PlaceLocks struct {
	mu   sync.Mutex
	data map[string]entry
	now  func() time.Time
}

func NewPlaceLocks() *PlaceLocks {
	return &PlaceLocks{
		data: make(map[string]entry),
		now:  time.Now,
	}
}

func (s *PlaceLocks) TryLock(_ context.Context, key string, ttl time.Duration) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.data[key]; ok && s.now().Before(e.expiresAt) {
		return "", false, nil
	}
	token := uuid.NewString()
	s.data[key] = entry{token: token, expiresAt: s.now().Add(ttl)}
	return token, true, nil
}

// Unlock is a no-op when the lock expired and was taken by someone else.
func (s *PlaceLocks) Unlock(_ context.Context, key, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.data[key]; ok && e.token == token {
		delete(s.data, key)
	}
	return nil
}

// Len reports live and expired entries; used by tests.
func (s *PlaceLocks) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.data)
}
