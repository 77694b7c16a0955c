package utils

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	stateKeyPrefix  = "oauth:state:"
	defaultStateTTL = 10 * time.Minute
)

// StateStore keeps single-use OAuth state tokens. It uses Redis when a client is
// given and an in-process map otherwise (single instance only).
type StateStore struct {
	rc  *redis.Client
	now func() time.Time

	mu      sync.Mutex
	entries map[string]time.Time
}

// NewStateStore builds a store; rc may be nil.
func NewStateStore(rc *redis.Client) *StateStore {
	return &StateStore{rc: rc, now: time.Now, entries: map[string]time.Time{}}
}

// Issue creates and stores a fresh state token.
func (s *StateStore) Issue(ctx context.Context, ttl time.Duration) string {
	state := uuid.NewString()
	s.Save(ctx, state, ttl)
	return state
}

// Save stores a state token with TTL to mitigate CSRF.
func (s *StateStore) Save(ctx context.Context, state string, ttl time.Duration) {
	if ttl <= 0 {
		ttl = defaultStateTTL
	}
	if s.rc != nil {
		ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		if err := s.rc.Set(ctx, stateKeyPrefix+state, "1", ttl).Err(); err == nil {
			return
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	for k, exp := range s.entries {
		if !now.Before(exp) {
			delete(s.entries, k)
		}
	}
	s.entries[state] = now.Add(ttl)
}

// Consume validates and removes a state token.
func (s *StateStore) Consume(ctx context.Context, state string) bool {
	if state == "" {
		return false
	}
	if s.rc != nil {
		ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		if v, err := s.rc.GetDel(ctx, stateKeyPrefix+state).Result(); err == nil {
			return v != ""
		}
	}

	s.mu.Lock()
	exp, ok := s.entries[state]
	if ok {
		delete(s.entries, state)
	}
	s.mu.Unlock()
	return ok && s.now().Before(exp)
}
