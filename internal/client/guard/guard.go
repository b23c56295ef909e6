// Package guard decides whether a protected route may render.
package guard

import (
	"net/url"

	"github.com/dmitrijs2005/learnly/internal/client/models"
)

const (
	LoginPath  = "/login"
	VerifyPath = "/verify"
)

type Kind int

const (
	Allow Kind = iota
	Loading
	Redirect
)

func (k Kind) String() string {
	switch k {
	case Allow:
		return "allow"
	case Loading:
		return "loading"
	case Redirect:
		return "redirect"
	default:
		return "unknown"
	}
}

type Input struct {
	State models.AuthState
	// CookieAuthenticated is the authenticated cookie read at request time.
	CookieAuthenticated bool
	URL                 *url.URL
}

type Decision struct {
	Kind     Kind
	Location string
	// ForceLogout asks the caller to end the local session before
	// redirecting.
	ForceLogout bool
}

// Callback returns the destination to come back to after signing in: the
// callback query parameter when present, otherwise the path itself.
func Callback(u *url.URL) string {
	if cb := u.Query().Get("callback"); cb != "" {
		return cb
	}
	if u.Path == "" {
		return "/"
	}
	return u.Path
}

// WithCallback returns path?callback=<cb> with cb query-escaped.
func WithCallback(path, cb string) string {
	return path + "?" + url.Values{"callback": {cb}}.Encode()
}

// Decide evaluates the guard rules in order.
func Decide(in Input) Decision {
	st := in.State

	if !in.CookieAuthenticated && !st.Authenticated {
		return Decision{Kind: Redirect, Location: WithCallback(LoginPath, Callback(in.URL))}
	}
	if !st.Ready {
		return Decision{Kind: Loading}
	}
	if st.User == nil {
		return Decision{Kind: Redirect, Location: WithCallback(LoginPath, Callback(in.URL)), ForceLogout: true}
	}
	if !st.User.Verified && in.URL.Path != VerifyPath {
		return Decision{Kind: Redirect, Location: WithCallback(VerifyPath, in.URL.Path)}
	}
	return Decision{Kind: Allow}
}
