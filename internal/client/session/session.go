// Package session binds the auth store to the cookie jar for the lifetime
// of the application: it restores the session on mount, keeps the user
// fresh while authenticated, renews the access token in the background and
// announces login state changes.
package session

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dmitrijs2005/learnly/internal/client/cookies"
	"github.com/dmitrijs2005/learnly/internal/client/models"
	"github.com/dmitrijs2005/learnly/internal/client/notify"
	"github.com/dmitrijs2005/learnly/internal/client/store"
	"github.com/dmitrijs2005/learnly/internal/common"
	"github.com/dmitrijs2005/learnly/internal/logging"
)

const (
	MsgLoggedIn  = "Logged in successfully"
	MsgLoggedOut = "Logged out successfully"
)

// DefaultRenewalInterval is how often the access token is renewed.
const DefaultRenewalInterval = 3 * time.Hour

var ErrAlreadyMounted = errors.New("session already mounted")

type announced int

const (
	announcedNone announced = iota
	announcedIn
	announcedOut
)

type Session struct {
	store    *store.Store
	jar      cookies.Jar
	notifier notify.Notifier
	log      logging.Logger
	interval time.Duration

	mu          sync.Mutex
	parent      context.Context
	cancel      context.CancelFunc
	unsubscribe func()
	wg          sync.WaitGroup

	renewing atomic.Bool

	announceMu sync.Mutex
	last       announced
}

type Option func(*Session)

func WithRenewalInterval(d time.Duration) Option {
	return func(s *Session) {
		if d > 0 {
			s.interval = d
		}
	}
}

func WithLogger(l logging.Logger) Option {
	return func(s *Session) { s.log = l }
}

func New(st *store.Store, jar cookies.Jar, n notify.Notifier, opts ...Option) *Session {
	s := &Session{
		store:    st,
		jar:      jar,
		notifier: n,
		log:      logging.NewNop(),
		interval: DefaultRenewalInterval,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Mount restores the session from the authenticated cookie. An absent or
// "false" cookie is normalised to "false". ctx bounds the renewal task.
func (s *Session) Mount(ctx context.Context) error {
	s.mu.Lock()
	if s.unsubscribe != nil {
		s.mu.Unlock()
		return ErrAlreadyMounted
	}
	s.parent = ctx
	s.mu.Unlock()

	flag, err := cookies.Value(ctx, s.jar, cookies.Authenticated)
	if err != nil {
		return err
	}
	authenticated := flag != "" && flag != "false"

	s.announceMu.Lock()
	if authenticated {
		s.last = announcedIn
	} else {
		s.last = announcedOut
	}
	s.announceMu.Unlock()

	unsubscribe := s.store.Subscribe(s.onChange)
	s.mu.Lock()
	s.unsubscribe = unsubscribe
	s.mu.Unlock()

	if !authenticated {
		if err := s.jar.Set(ctx, models.Cookie{Name: cookies.Authenticated, Value: "false"}); err != nil {
			return err
		}
		s.store.SetAuthenticated(false)
		s.store.SetReady(true)
		return nil
	}

	s.log.Debug(ctx, "restoring session")
	s.store.SetAuthenticated(true)
	return nil
}

// Unmount stops listening to the store and waits for the renewal task.
func (s *Session) Unmount() {
	s.mu.Lock()
	unsubscribe := s.unsubscribe
	s.unsubscribe = nil
	s.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
	s.stopRenewal()
	s.wg.Wait()
}

func (s *Session) onChange(prev, next models.AuthState) {
	s.announce(prev, next)

	switch {
	case !prev.Authenticated && next.Authenticated:
		s.begin()
	case prev.Authenticated && !next.Authenticated:
		s.stopRenewal()
	}
}

func (s *Session) announce(prev, next models.AuthState) {
	s.announceMu.Lock()
	defer s.announceMu.Unlock()

	status := announcedNone
	switch {
	case next.LoggedIn() && next.User != nil:
		status = announcedIn
	case next.LoggedOut():
		status = announcedOut
	}
	if status != announcedNone && status != s.last {
		s.last = status
		if status == announcedIn {
			s.notifier.Success(MsgLoggedIn)
		} else {
			s.notifier.Success(MsgLoggedOut)
		}
	}

	if !next.Error.IsZero() && next.Error != prev.Error {
		s.notifier.Error(next.Error.Message())
	}
}

// begin loads the user for a freshly authenticated session, falling back to
// a token refresh, and arms the renewal task.
func (s *Session) begin() {
	ctx := s.context()

	s.store.SetReady(false)
	if err := s.store.FetchUser(ctx); err != nil {
		s.log.Debug(ctx, "fetch user on session start failed", "error", err)
	}

	if s.store.State().User == nil {
		if err := s.store.RefreshAccessToken(ctx); err != nil {
			s.log.Info(ctx, "session could not be renewed", "error", err)
		}
		if s.store.State().Authenticated {
			_ = s.store.FetchUser(ctx)
		}
	}

	if s.store.State().Authenticated {
		s.startRenewal()
	}
}

func (s *Session) context() context.Context {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.parent == nil {
		return context.Background()
	}
	return s.parent
}

func (s *Session) startRenewal() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil || s.unsubscribe == nil {
		return
	}
	ctx, cancel := context.WithCancel(s.parent)
	s.cancel = cancel

	s.wg.Add(1)
	go s.renewLoop(ctx)
}

// stopRenewal cancels the renewal task without waiting, so it is safe to
// call from the task itself.
func (s *Session) stopRenewal() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

func (s *Session) renewLoop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.Renew(ctx); err != nil && !errors.Is(err, common.ErrBusy) {
				s.log.Warn(ctx, "session renewal failed", "error", err)
			}
		}
	}
}

// Renew refreshes the access token and reloads the user. It returns
// common.ErrBusy when a renewal is already running.
func (s *Session) Renew(ctx context.Context) error {
	if !s.renewing.CompareAndSwap(false, true) {
		return common.ErrBusy
	}
	defer s.renewing.Store(false)

	if err := s.store.RefreshAccessToken(ctx); err != nil {
		return err
	}
	return s.store.FetchUser(ctx)
}

// Renewing reports whether the renewal task is armed.
func (s *Session) Renewing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancel != nil
}

func (s *Session) State() models.AuthState {
	return s.store.State()
}

// Subscribe forwards to the store.
func (s *Session) Subscribe(fn store.Listener) func() {
	return s.store.Subscribe(fn)
}

func (s *Session) Login(ctx context.Context, creds models.Credentials) error {
	return s.store.LoginUser(ctx, creds)
}

func (s *Session) SignInWithGoogle(ctx context.Context, credential string) error {
	return s.store.SignInWithGoogle(ctx, credential)
}

// Logout ends the session on the backend and always ends it locally, even
// when the backend call fails. The backend error is still returned.
func (s *Session) Logout(ctx context.Context) error {
	err := s.store.LogoutUser(ctx)
	if err == nil {
		return nil
	}
	s.log.Warn(ctx, "server logout failed, clearing local session", "error", err)
	return errors.Join(err, s.store.Logout(ctx))
}

// ForceLogout ends the session locally without calling the backend.
func (s *Session) ForceLogout(ctx context.Context) error {
	return s.store.Logout(ctx)
}

func (s *Session) Verify() {
	s.store.Verify()
}

// IsLoggedIn reads the authenticated cookie directly. It can briefly
// disagree with State().Authenticated.
func (s *Session) IsLoggedIn(ctx context.Context) bool {
	v, err := cookies.Value(ctx, s.jar, cookies.Authenticated)
	return err == nil && v == "true"
}
