// Package session holds the client's proof of authentication: the backend
// token and the display username. The store is the single source of truth for
// auth state; it is constructor-injected everywhere instead of being a global.
package session

import (
	"context"
	"log/slog"
	"sync"
)

// Storage persists session state across restarts.
type Storage interface {
	// Load returns the persisted token and username, empty when absent.
	Load(ctx context.Context) (token, username string, err error)
	Save(ctx context.Context, key, value string) error
	// Clear removes the given keys in one operation.
	Clear(ctx context.Context, keys ...string) error
}

// Persisted storage keys.
const (
	KeyToken    = "token"
	KeyUsername = "username"
)

// Store is the reactive session state. Reads always reflect the latest write;
// subscribers are notified of every change to the logged-in state.
type Store struct {
	mu       sync.RWMutex
	token    string
	username string

	storage Storage

	subMu   sync.Mutex
	subs    map[int]chan bool
	nextSub int
}

// NewStore creates a store seeded from persisted storage. Persistence errors
// are logged and leave the store logged out; they are never fatal.
func NewStore(ctx context.Context, storage Storage) *Store {
	s := &Store{
		storage: storage,
		subs:    make(map[int]chan bool),
	}
	if storage != nil {
		token, username, err := storage.Load(ctx)
		if err != nil {
			slog.WarnContext(ctx, "Failed to load persisted session, starting logged out", "error", err)
		} else {
			s.token = token
			s.username = username
		}
	}
	return s
}

// Token returns the current auth token, empty when logged out.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Username returns the current display name.
func (s *Store) Username() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.username
}

// LoggedIn reports whether the most recently set token is non-empty. It reads
// the live state, never a snapshot, so guard decisions are always current.
func (s *Store) LoggedIn() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != ""
}

// SetToken persists the token and publishes the new logged-in state.
func (s *Store) SetToken(ctx context.Context, token string) {
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()

	s.persist(ctx, KeyToken, token)
	s.publish(token != "")
}

// SetUsername persists the username and publishes the (unchanged) state.
func (s *Store) SetUsername(ctx context.Context, username string) {
	s.mu.Lock()
	s.username = username
	loggedIn := s.token != ""
	s.mu.Unlock()

	s.persist(ctx, KeyUsername, username)
	s.publish(loggedIn)
}

// Logout clears token and username together, both in memory and in storage,
// and publishes the logged-out state.
func (s *Store) Logout(ctx context.Context) {
	s.mu.Lock()
	s.token = ""
	s.username = ""
	s.mu.Unlock()

	if s.storage != nil {
		if err := s.storage.Clear(ctx, KeyToken, KeyUsername); err != nil {
			slog.WarnContext(ctx, "Failed to clear persisted session", "error", err)
		}
	}
	s.publish(false)
}

// Subscribe registers for logged-in state updates. The channel carries the
// latest state only: a slow consumer sees intermediate values coalesced.
// The returned func cancels the subscription.
func (s *Store) Subscribe() (<-chan bool, func()) {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	id := s.nextSub
	s.nextSub++
	ch := make(chan bool, 1)
	s.subs[id] = ch

	return ch, func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		if _, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(ch)
		}
	}
}

func (s *Store) publish(loggedIn bool) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	for _, ch := range s.subs {
		// Drop the stale pending value so the buffer always holds the latest.
		select {
		case <-ch:
		default:
		}
		ch <- loggedIn
	}
}

func (s *Store) persist(ctx context.Context, key, value string) {
	if s.storage == nil {
		return
	}
	if err := s.storage.Save(ctx, key, value); err != nil {
		slog.WarnContext(ctx, "Failed to persist session value", "key", key, "error", err)
	}
}
