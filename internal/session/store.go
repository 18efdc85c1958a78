package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ErrNotFound is returned for an unknown or expired session ID.
var ErrNotFound = errors.New("session not found")

// Store keeps sessions in memory. Sessions share no mutable state.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	opts     Options
	ttl      time.Duration
}

// NewStore creates a store whose sessions expire after ttl of inactivity.
// A ttl <= 0 disables expiry.
func NewStore(opts Options, ttl time.Duration) *Store {
	return &Store{sessions: make(map[string]*Session), opts: opts, ttl: ttl}
}

// Create registers a new empty session.
func (st *Store) Create() *Session {
	s := New(uuid.NewString(), st.opts)
	st.mu.Lock()
	st.sessions[s.ID] = s
	st.mu.Unlock()
	log.Debug().Str("session", s.ID).Msg("session created")
	return s
}

// Get looks a session up by ID.
func (st *Store) Get(id string) (*Session, error) {
	st.mu.RLock()
	s, ok := st.sessions[id]
	st.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	return s, nil
}

// Delete drops a session. It reports whether the session existed.
func (st *Store) Delete(id string) bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	if _, ok := st.sessions[id]; !ok {
		return false
	}
	delete(st.sessions, id)
	return true
}

// Len returns the number of live sessions.
func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

// Sweep removes sessions idle since before now-ttl and returns how many.
func (st *Store) Sweep(now time.Time) int {
	if st.ttl <= 0 {
		return 0
	}
	cutoff := now.Add(-st.ttl)
	st.mu.Lock()
	defer st.mu.Unlock()
	n := 0
	for id, s := range st.sessions {
		if s.LastUsed().Before(cutoff) {
			delete(st.sessions, id)
			n++
		}
	}
	return n
}

// Run sweeps expired sessions periodically until ctx is cancelled.
func (st *Store) Run(ctx context.Context) {
	if st.ttl <= 0 {
		return
	}
	interval := st.ttl / 4
	if interval < time.Second {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if n := st.Sweep(now); n > 0 {
				log.Info().Int("expired", n).Int("live", st.Len()).Msg("sessions swept")
			}
		}
	}
}
