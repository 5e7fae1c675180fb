package storefront

import (
	"sync"
	"time"

	"Storefront/internal/cart"
	"Storefront/internal/favorites"
)

// Session is one shopper's state: a cart engine and a favorites set.
type Session struct {
	ID        string
	Cart      *cart.Engine
	Favorites *favorites.Set

	mu       sync.Mutex
	lastSeen time.Time
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) idleSince(now time.Time) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return now.Sub(s.lastSeen)
}

// Registry holds live sessions in memory. Nothing survives a restart.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	rules    []cart.Rule
	now      func() time.Time

	onCreate func(*Session)
	onEvict  func(*Session)
}

// NewRegistry creates sessions whose carts use rules (nil: cart.DefaultRules).
func NewRegistry(rules []cart.Rule) *Registry {
	return &Registry{
		sessions: make(map[string]*Session),
		rules:    rules,
		now:      time.Now,
	}
}

// GetOrCreate returns the session for id, starting an empty one if the id
// is unknown (new shopper, or a token that outlived a restart).
func (r *Registry) GetOrCreate(id string) (*Session, bool) {
	now := r.now()

	r.mu.RLock()
	s, ok := r.sessions[id]
	r.mu.RUnlock()
	if ok {
		s.touch(now)
		return s, false
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.sessions[id]; ok {
		s.touch(now)
		return s, false
	}

	s = &Session{
		ID:        id,
		Cart:      cart.NewEngine(r.rules, nil),
		Favorites: favorites.New(),
		lastSeen:  now,
	}
	if r.onCreate != nil {
		r.onCreate(s)
	}
	r.sessions[id] = s
	return s, true
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Sweep drops sessions idle for longer than maxIdle and returns how many
// were removed.
func (r *Registry) Sweep(maxIdle time.Duration) int {
	now := r.now()

	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for id, s := range r.sessions {
		if s.idleSince(now) > maxIdle {
			delete(r.sessions, id)
			if r.onEvict != nil {
				r.onEvict(s)
			}
			n++
		}
	}
	return n
}

// instrument hooks m into session lifecycle and every new cart.
func (r *Registry) instrument(m *Metrics) {
	if m == nil {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.onCreate = func(s *Session) {
		s.Cart.OnChange = m.observeCart
		m.sessionOpened()
	}
	r.onEvict = func(*Session) { m.sessionClosed() }
}
