package session

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"storefront/internal/cart"
	"storefront/internal/orderlog"
	"storefront/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Session owns one shopper's cart and order history
type Session struct {
	ID     string
	Cart   *cart.Cart
	Orders *orderlog.Log

	mu       sync.Mutex
	lastSeen atomic.Int64
}

func newSession(id string, now time.Time) *Session {
	s := &Session{
		ID:     id,
		Cart:   cart.New(),
		Orders: orderlog.New(),
	}
	s.touch(now)
	return s
}

func (s *Session) touch(now time.Time) {
	s.lastSeen.Store(now.UnixNano())
}

// LastSeen is the time of the most recent lookup of the session
func (s *Session) LastSeen() time.Time {
	return time.Unix(0, s.lastSeen.Load())
}

// Do runs fn with exclusive access to the session's cart and order log
func (s *Session) Do(fn func(s *Session) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s)
}

// Manager keeps sessions in memory until they sit idle past EvictIdle's cutoff
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	now      func() time.Time
}

func NewManager() *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		now:      time.Now,
	}
}

// Create starts a new session with a random id
func (m *Manager) Create() *Session {
	s := newSession(uuid.New().String(), m.now())

	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = s
	util.SessionsActive.Set(float64(len(m.sessions)))
	return s
}

// Get returns an existing session and marks it as seen
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if ok {
		s.touch(m.now())
	}
	return s, ok
}

// GetOrCreate returns the session for id, or a new session when id is unknown.
// The boolean is true when a session was created.
func (m *Manager) GetOrCreate(id string) (*Session, bool) {
	if id != "" {
		if s, ok := m.Get(id); ok {
			return s, false
		}
	}
	return m.Create(), true
}

// EvictIdle drops sessions not seen for longer than maxIdle and returns how
// many were removed.
func (m *Manager) EvictIdle(maxIdle time.Duration) int {
	cutoff := m.now().Add(-maxIdle)

	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for id, s := range m.sessions {
		if s.LastSeen().Before(cutoff) {
			delete(m.sessions, id)
			removed++
		}
	}
	util.SessionsActive.Set(float64(len(m.sessions)))
	return removed
}

// RunEviction calls EvictIdle every interval until ctx is done
func (m *Manager) RunEviction(ctx context.Context, interval, maxIdle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := m.EvictIdle(maxIdle); n > 0 {
				util.GetLogger().Info("Evicted idle sessions", zap.Int("count", n))
			}
		}
	}
}

func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

type ctxKey struct{}

// WithID returns a context carrying the session id
func WithID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// IDFromContext returns the session id stored by WithID
func IDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}
