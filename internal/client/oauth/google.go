// Package oauth runs the Google consent step for third-party sign-in. The
// resulting Google access token is handed to the backend as the sign-in
// credential.
package oauth

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/dmitrijs2005/learnly/internal/common"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// CallbackPath is where Google sends the browser back to on the frontend.
const CallbackPath = "/auth/google/callback"

var ErrNoAccessToken = errors.New("google did not return an access token")

type Google struct {
	cfg *oauth2.Config
}

type Option func(*oauth2.Config)

// WithEndpoint overrides Google's endpoints.
func WithEndpoint(e oauth2.Endpoint) Option {
	return func(c *oauth2.Config) { c.Endpoint = e }
}

// NewGoogle returns common.ErrNotConfigured when no client id is set.
func NewGoogle(clientID, clientSecret, frontendURL string, opts ...Option) (*Google, error) {
	if clientID == "" {
		return nil, fmt.Errorf("google sign-in: %w", common.ErrNotConfigured)
	}

	cfg := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  frontendURL + CallbackPath,
		Endpoint:     google.Endpoint,
		Scopes:       []string{"openid", "profile", "email"},
	}
	for _, o := range opts {
		o(cfg)
	}
	return &Google{cfg: cfg}, nil
}

// Flow is one pending consent. It must be completed with the same value.
type Flow struct {
	State    string
	Verifier string
	URL      string
}

// Begin starts a PKCE consent and returns the URL to open.
func (g *Google) Begin() (*Flow, error) {
	state, err := common.MakeRandHexString(16)
	if err != nil {
		return nil, err
	}
	verifier := oauth2.GenerateVerifier()

	return &Flow{
		State:    state,
		Verifier: verifier,
		URL: g.cfg.AuthCodeURL(state,
			oauth2.AccessTypeOnline,
			oauth2.S256ChallengeOption(verifier),
		),
	}, nil
}

// ParseCallback extracts state and code from the URL Google redirected to.
func ParseCallback(raw string) (state, code string, err error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", "", fmt.Errorf("parse callback url: %w", err)
	}
	q := u.Query()
	if e := q.Get("error"); e != "" {
		return "", "", fmt.Errorf("google consent failed: %s", e)
	}
	code = q.Get("code")
	if code == "" {
		return "", "", errors.New("callback url has no code")
	}
	return q.Get("state"), code, nil
}

// Exchange trades the authorization code for a Google access token.
func (g *Google) Exchange(ctx context.Context, f *Flow, state, code string) (string, error) {
	if state != f.State {
		return "", common.ErrStateMismatch
	}

	tok, err := g.cfg.Exchange(ctx, code, oauth2.VerifierOption(f.Verifier))
	if err != nil {
		return "", fmt.Errorf("google token exchange failed: %w", err)
	}

	if tok.AccessToken == "" {
		return "", ErrNoAccessToken
	}
	return tok.AccessToken, nil
}
