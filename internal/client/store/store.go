// Package store holds the client's authentication state and the actions
// that change it.
//
// Every change is delivered to subscribers as a (prev, next) pair of
// snapshots. Actions talk to the backend through client.Client and persist
// credentials through the cookie jar; nothing else writes session cookies.
package store

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/dmitrijs2005/learnly/internal/client/client"
	"github.com/dmitrijs2005/learnly/internal/client/cookies"
	"github.com/dmitrijs2005/learnly/internal/client/models"
	"github.com/dmitrijs2005/learnly/internal/logging"
)

// Listener observes a state change. It runs outside the store lock and may
// call back into the store.
type Listener func(prev, next models.AuthState)

type subscription struct {
	id int
	fn Listener
}

type Store struct {
	mu        sync.Mutex
	state     models.AuthState
	listeners []subscription
	nextID    int

	client client.Client
	jar    cookies.Jar
	log    logging.Logger
	now    func() time.Time
}

type Option func(*Store)

func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func WithLogger(l logging.Logger) Option {
	return func(s *Store) { s.log = l }
}

// New returns a store in the initial state: anonymous and not ready.
func New(c client.Client, jar cookies.Jar, opts ...Option) *Store {
	s := &Store{
		client: c,
		jar:    jar,
		log:    logging.NewNop(),
		now:    time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// State returns a snapshot of the current state.
func (s *Store) State() models.AuthState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Subscribe registers fn and returns a function that removes it.
func (s *Store) Subscribe(fn Listener) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	id := s.nextID
	s.listeners = append(s.listeners, subscription{id: id, fn: fn})

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, l := range s.listeners {
			if l.id == id {
				s.listeners = append(s.listeners[:i:i], s.listeners[i+1:]...)
				return
			}
		}
	}
}

func (s *Store) update(fn func(st *models.AuthState)) {
	s.mu.Lock()
	prev := s.state.Clone()
	fn(&s.state)
	next := s.state.Clone()
	listeners := make([]subscription, len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.Unlock()

	for _, l := range listeners {
		l.fn(prev, next)
	}
}

func (s *Store) SetUser(u *models.User) {
	s.update(func(st *models.AuthState) { st.User = u.Clone() })
}

func (s *Store) SetReady(ready bool) {
	s.update(func(st *models.AuthState) { st.Ready = ready })
}

func (s *Store) SetAuthenticated(authenticated bool) {
	s.update(func(st *models.AuthState) { st.Authenticated = authenticated })
}

func (s *Store) SetError(e models.LoginError) {
	s.update(func(st *models.AuthState) { st.Error = e })
}

// Verify marks the cached user as verified. The next FetchUser is
// authoritative. A nil user is left alone.
func (s *Store) Verify() {
	s.update(func(st *models.AuthState) {
		if st.User != nil {
			st.User.Verified = true
		}
	})
}

// sessionCookies returns the cookies that carry t.
func (s *Store) sessionCookies(t *models.BackendTokens) []models.Cookie {
	now := s.now()
	set := []models.Cookie{
		{
			Name:     cookies.AccessToken,
			Value:    t.AccessToken,
			Expires:  t.AccessExpiry(now),
			Secure:   true,
			SameSite: http.SameSiteStrictMode,
		},
		{
			Name:    cookies.Authenticated,
			Value:   "true",
			Expires: now.Add(cookies.AuthenticatedTTL),
		},
	}
	if t.RefreshToken != "" {
		set = append(set, models.Cookie{Name: cookies.RefreshAccessToken, Value: t.RefreshToken})
	}
	return set
}

// Login stores the tokens in cookies and marks the session authenticated
// with the user they carry.
func (s *Store) Login(ctx context.Context, t *models.BackendTokens) error {
	if err := s.jar.Set(ctx, s.sessionCookies(t)...); err != nil {
		return err
	}
	s.update(func(st *models.AuthState) {
		st.User = t.User.Clone()
		st.Authenticated = true
	})
	return nil
}

// Logout drops the user and every session cookie, leaving
// authenticated=false behind.
func (s *Store) Logout(ctx context.Context) error {
	err := s.jar.Apply(ctx,
		[]models.Cookie{{Name: cookies.Authenticated, Value: "false"}},
		[]string{cookies.LegacyToken, cookies.AccessToken, cookies.LegacyRefreshToken, cookies.RefreshAccessToken},
	)
	s.update(func(st *models.AuthState) {
		st.User = nil
		st.Authenticated = false
	})
	return err
}
