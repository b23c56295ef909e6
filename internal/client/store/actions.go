package store

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/learnly/internal/client/client"
	"github.com/dmitrijs2005/learnly/internal/client/models"
)

const (
	msgFetchUser     = "Failed to fetch user data"
	msgRefresh       = "Failed to refresh access token"
	msgLogout        = "Failed to log out"
	msgUnreachable   = "Unable to reach out to server"
	msgLoginFallback = "Unable to sign in"
)

var (
	// ErrNoUser is reported when the backend answers without a user.
	ErrNoUser = errors.New("backend returned no user")
	// ErrNoTokens is reported when a sign-in or refresh answers without
	// tokens.
	ErrNoTokens = errors.New("backend returned no tokens")
)

// loginError classifies a login failure into exactly one field.
func loginError(err error) models.LoginError {
	msg := client.Message(err)
	switch {
	case errors.Is(err, client.ErrUnauthorized):
		if msg == "" {
			msg = "Invalid password"
		}
		return models.PasswordError(msg)
	case errors.Is(err, client.ErrNotFound):
		if msg == "" {
			msg = "Account not found"
		}
		return models.RecognitionError(msg)
	case client.IsUnavailable(err):
		return models.AccountError(msgUnreachable)
	default:
		if msg == "" {
			msg = msgLoginFallback
		}
		return models.AccountError(msg)
	}
}

func (s *Store) signIn(ctx context.Context, action string, call func() (*models.BackendTokens, error)) error {
	s.SetReady(false)

	t, err := call()
	if err == nil && t == nil {
		err = ErrNoTokens
	}
	if err != nil {
		s.log.Info(ctx, action+" rejected", "error", err)
		s.update(func(st *models.AuthState) {
			st.Ready = true
			st.Error = loginError(err)
		})
		return err
	}

	if err := s.Login(ctx, t); err != nil {
		s.log.Error(ctx, action+": store cookies", "error", err)
		s.update(func(st *models.AuthState) {
			st.Ready = true
			st.Error = models.AccountError(msgLoginFallback)
		})
		return err
	}

	// Subscribers run during Login and may already have ended the session.
	// Their error stays in place.
	if !s.State().Authenticated {
		s.log.Info(ctx, action+": session ended before it settled")
		s.SetReady(true)
		return ErrNoUser
	}

	s.update(func(st *models.AuthState) {
		st.Ready = true
		st.Error = models.LoginError{}
	})
	s.log.Info(ctx, action+" fulfilled")
	return nil
}

// LoginUser signs in with a password. A 401 lands in Error.Password, a 404 in
// Error.Recognition and anything else in Error.Account.
func (s *Store) LoginUser(ctx context.Context, creds models.Credentials) error {
	return s.signIn(ctx, "login", func() (*models.BackendTokens, error) {
		return s.client.Login(ctx, creds)
	})
}

// SignInWithGoogle exchanges a Google credential for backend tokens.
func (s *Store) SignInWithGoogle(ctx context.Context, credential string) error {
	return s.signIn(ctx, "google sign-in", func() (*models.BackendTokens, error) {
		return s.client.SignInWithGoogle(ctx, credential)
	})
}

// FetchUser replaces the cached user. A failure clears the user but leaves
// Authenticated alone so the session can attempt a refresh.
func (s *Store) FetchUser(ctx context.Context) error {
	s.SetReady(false)

	u, err := s.client.GetUser(ctx)
	if err == nil && u == nil {
		err = ErrNoUser
	}
	if err != nil {
		s.log.Info(ctx, "fetch user rejected", "error", err)
		s.update(func(st *models.AuthState) {
			st.User = nil
			st.Ready = true
			st.Error = models.AccountError(msgFetchUser)
		})
		return err
	}

	s.update(func(st *models.AuthState) {
		st.User = u
		st.Ready = true
		st.Error = models.LoginError{}
	})
	s.log.Debug(ctx, "fetch user fulfilled", "user_id", u.ID)
	return nil
}

// RefreshAccessToken renews the access token. Any failure ends the local
// session.
func (s *Store) RefreshAccessToken(ctx context.Context) error {
	s.SetReady(false)

	fail := func(err error) error {
		s.log.Info(ctx, "refresh rejected", "error", err)
		logoutErr := s.Logout(ctx)
		s.update(func(st *models.AuthState) {
			st.Ready = true
			st.Error = models.AccountError(msgRefresh)
		})
		return errors.Join(err, logoutErr)
	}

	t, err := s.client.Refresh(ctx)
	if err == nil && t == nil {
		err = ErrNoTokens
	}
	if err != nil {
		return fail(err)
	}
	if err := s.jar.Set(ctx, s.sessionCookies(t)...); err != nil {
		return fail(err)
	}

	s.update(func(st *models.AuthState) {
		st.Authenticated = true
		st.Ready = true
		st.Error = models.LoginError{}
		if t.User != nil {
			st.User = t.User.Clone()
		}
	})
	s.log.Debug(ctx, "refresh fulfilled")
	return nil
}

// LogoutUser invalidates the session on the backend. On failure only
// Error.Account is set; the local session is the caller's concern.
func (s *Store) LogoutUser(ctx context.Context) error {
	if err := s.client.Logout(ctx); err != nil {
		s.log.Info(ctx, "logout rejected", "error", err)
		s.SetError(models.AccountError(msgLogout))
		return err
	}
	s.log.Info(ctx, "logout fulfilled")
	return s.Logout(ctx)
}
