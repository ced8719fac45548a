// Package session keeps the games played over the HTTP API in memory.
package session

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vovakirdan/tui-2048/internal/games/t2048"
)

// ErrNotFound is returned for unknown session ids.
var ErrNotFound = errors.New("session: not found")

// Session is one game with its own lock. Callers hold the lock through
// Do for every read or write of the model.
type Session struct {
	ID        string
	Player    string
	Seed      int64
	CreatedAt time.Time

	// expiresAt is guarded by Manager.mu and pushed back on every Get.
	expiresAt time.Time

	mu       sync.Mutex
	model    *t2048.Model
	moves    int
	recorded bool
}

// State is what Do hands to its callback.
type State struct {
	Model *t2048.Model
	// Moves counts board-changing moves in the current game.
	Moves int
	// Recorded is set once the finished game's score has been stored.
	Recorded bool
}

// Do runs fn with the session locked. Changes fn makes to Moves and
// Recorded are kept.
func (s *Session) Do(fn func(st *State) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := State{Model: s.model, Moves: s.moves, Recorded: s.recorded}
	err := fn(&st)
	s.moves = st.Moves
	s.recorded = st.Recorded
	return err
}

// Manager owns the session table. Sessions idle for longer than the TTL
// are dropped.
type Manager struct {
	rules t2048.Options
	ttl   time.Duration
	now   func() time.Time

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewManager creates an empty session table. Every new game uses rules.
// A zero ttl keeps sessions until they are deleted.
func NewManager(rules t2048.Options, ttl time.Duration) *Manager {
	return &Manager{
		rules:    rules,
		ttl:      ttl,
		now:      time.Now,
		sessions: make(map[string]*Session),
	}
}

// Create starts a new game. A zero seed picks one from the clock.
// Expired sessions are swept first.
func (m *Manager) Create(player string, seed int64) *Session {
	m.CleanExpired()

	now := m.now()
	if seed == 0 {
		seed = now.UnixNano()
	}

	s := &Session{
		ID:        uuid.NewString(),
		Player:    player,
		Seed:      seed,
		CreatedAt: now.UTC(),
		model:     t2048.NewModel(rand.New(rand.NewSource(seed)), m.rules),
	}

	m.mu.Lock()
	s.expiresAt = m.expiry(now)
	m.sessions[s.ID] = s
	m.mu.Unlock()
	return s
}

// Get looks up a session by id and marks it as used.
func (m *Manager) Get(id string) (*Session, error) {
	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	if m.expired(s, now) {
		delete(m.sessions, id)
		return nil, ErrNotFound
	}
	s.expiresAt = m.expiry(now)
	return s, nil
}

// CleanExpired removes idle sessions and returns how many were dropped.
func (m *Manager) CleanExpired() int {
	if m.ttl <= 0 {
		return 0
	}
	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()

	dropped := 0
	for id, s := range m.sessions {
		if m.expired(s, now) {
			delete(m.sessions, id)
			dropped++
		}
	}
	return dropped
}

// RunCleanup calls CleanExpired every interval until ctx is done.
func (m *Manager) RunCleanup(ctx context.Context, interval time.Duration) {
	if m.ttl <= 0 || interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.CleanExpired()
		}
	}
}

func (m *Manager) expiry(now time.Time) time.Time {
	if m.ttl <= 0 {
		return time.Time{}
	}
	return now.Add(m.ttl)
}

func (m *Manager) expired(s *Session, now time.Time) bool {
	return !s.expiresAt.IsZero() && now.After(s.expiresAt)
}

// Delete removes a session.
func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[id]; !ok {
		return ErrNotFound
	}
	delete(m.sessions, id)
	return nil
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
