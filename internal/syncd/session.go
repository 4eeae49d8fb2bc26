package syncd

import (
	"sync"
	"time"

	"github.com/canevoj/standarium/internal/bus"
	"github.com/canevoj/standarium/internal/store"
)

// Session is one signed-in principal: its own event bus, its own data store
// mirror, and the set of live collection subscriptions. A session exists
// only between sign-in and sign-out; tearing it down drops every cached
// collection and stops snapshot delivery.
type Session struct {
	UserID int64
	Email  string

	bus   *bus.Bus
	store *store.Store

	mu         sync.Mutex
	banner     string
	lastSeen   time.Time
	closed     bool
	closeHooks []func()
}

func newSession(userID int64, email string) *Session {
	b := bus.New()
	return &Session{
		UserID:   userID,
		Email:    email,
		bus:      b,
		store:    store.New(b),
		lastSeen: time.Now(),
	}
}

// Store returns the session's collection mirror.
func (s *Session) Store() *store.Store {
	return s.store
}

// Bus returns the session bus. Collection change events fire here; render
// hooks subscribe per collection so an update redraws only affected views.
func (s *Session) Bus() *bus.Bus {
	return s.bus
}

// Banner returns the last remote-operation error message, if any.
func (s *Session) Banner() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.banner
}

func (s *Session) setBanner(msg string) {
	s.mu.Lock()
	s.banner = msg
	s.mu.Unlock()
}

// ClearBanner dismisses the error banner.
func (s *Session) ClearBanner() {
	s.setBanner("")
}

func (s *Session) touch() {
	s.mu.Lock()
	s.lastSeen = time.Now()
	s.mu.Unlock()
}

// LastSeen returns the time of the session's last authenticated request.
func (s *Session) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// Closed reports whether the session has been torn down. A closed session
// receives no further snapshots.
func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// OnClose registers fn to run when the session is torn down, whether by
// sign-out or by the idle sweep. Registering on an already-closed session
// runs fn immediately.
func (s *Session) OnClose(fn func()) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		fn()
		return
	}
	s.closeHooks = append(s.closeHooks, fn)
	s.mu.Unlock()
}

func (s *Session) close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	hooks := s.closeHooks
	s.closeHooks = nil
	s.mu.Unlock()

	for _, fn := range hooks {
		fn()
	}
	// Drop cached collections so a torn-down session holds no data.
	s.store.SetProducts(nil)
	s.store.SetServices(nil)
	s.store.SetComponents(nil)
	s.store.SetSales(nil)
}
