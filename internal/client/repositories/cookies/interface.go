// Package cookies persists client cookies in the local sqlite database.
package cookies

import (
	"context"

	"github.com/dmitrijs2005/learnly/internal/client/models"
)

// Repository stores cookies by name. Values are stored as given; sealing is
// the caller's concern.
type Repository interface {
	// Get returns (nil, nil) when no cookie with that name exists.
	Get(ctx context.Context, name string) (*models.Cookie, error)
	Put(ctx context.Context, c models.Cookie) error
	Delete(ctx context.Context, name string) error
	List(ctx context.Context) ([]models.Cookie, error)
	Clear(ctx context.Context) error
}
