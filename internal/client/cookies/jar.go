// Package cookies is the client's cookie jar: the only place credentials
// live between runs.
package cookies

import (
	"context"
	"time"

	"github.com/dmitrijs2005/learnly/internal/client/models"
)

// Cookie names shared with the backend.
const (
	Authenticated      = "authenticated"
	AccessToken        = "accessToken"
	RefreshAccessToken = "refreshAccessToken"

	// Names written by older releases; logout removes them too.
	LegacyToken        = "token"
	LegacyRefreshToken = "refreshToken"
)

// AuthenticatedTTL is the lifetime of the authenticated flag.
const AuthenticatedTTL = 7 * 24 * time.Hour

// Jar stores cookies by name. Expired cookies are never returned.
type Jar interface {
	// Get returns nil when the cookie is absent or expired.
	Get(ctx context.Context, name string) (*models.Cookie, error)
	Set(ctx context.Context, cookies ...models.Cookie) error
	Remove(ctx context.Context, names ...string) error
	// All returns the live cookies ordered by name.
	All(ctx context.Context) ([]models.Cookie, error)
	// Apply writes set and removes remove atomically.
	Apply(ctx context.Context, set []models.Cookie, remove []string) error
}

// Value returns the cookie's value or "" when it is absent.
func Value(ctx context.Context, j Jar, name string) (string, error) {
	c, err := j.Get(ctx, name)
	if err != nil || c == nil {
		return "", err
	}
	return c.Value, nil
}
