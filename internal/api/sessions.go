package api

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"sync"
	"time"

	"github.com/NeuralStories/cortinas-presupuesto/internal/quote"
)

// ErrSessionNotFound marks an unknown or expired session id.
var ErrSessionNotFound = errors.New("session not found")

const (
	sessionTTL    = 2 * time.Hour
	sweepInterval = 10 * time.Minute
)

type sessionEntry struct {
	s        *quote.Session
	lastSeen time.Time
}

// SessionStore keeps wizard sessions in memory. Callbacks passed to Do are
// short in-memory mutations; anything that can block (catalog reads, order
// writes) happens outside the lock. Sessions idle past the TTL are swept.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]*sessionEntry
	ttl      time.Duration
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*sessionEntry),
		ttl:      sessionTTL,
	}
}

// Create registers a fresh session and returns its id.
func (st *SessionStore) Create() (string, *quote.Session) {
	buf := make([]byte, 16)
	_, _ = rand.Read(buf)
	id := hex.EncodeToString(buf)

	s := quote.NewSession()
	st.mu.Lock()
	st.sessions[id] = &sessionEntry{s: s, lastSeen: time.Now()}
	st.mu.Unlock()
	return id, s
}

// Do runs fn against the session with the given id under the store lock and
// refreshes its last-access time.
func (st *SessionStore) Do(id string, fn func(s *quote.Session) error) error {
	st.mu.Lock()
	defer st.mu.Unlock()

	e, ok := st.sessions[id]
	if !ok {
		return ErrSessionNotFound
	}
	e.lastSeen = time.Now()
	return fn(e.s)
}

// evictIdle drops sessions not touched since now minus the TTL and reports
// how many were removed.
func (st *SessionStore) evictIdle(now time.Time) int {
	st.mu.Lock()
	defer st.mu.Unlock()

	n := 0
	for id, e := range st.sessions {
		if now.Sub(e.lastSeen) > st.ttl {
			delete(st.sessions, id)
			n++
		}
	}
	return n
}

// Sweep evicts idle sessions on an interval until ctx is done. Abandoned
// wizards would otherwise pin their sessions for the life of the process.
func (st *SessionStore) Sweep(ctx context.Context) {
	t := time.NewTicker(sweepInterval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			st.evictIdle(now)
		}
	}
}
