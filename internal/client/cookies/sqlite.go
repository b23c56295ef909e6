package cookies

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dmitrijs2005/learnly/internal/client/models"
	repo "github.com/dmitrijs2005/learnly/internal/client/repositories/cookies"
	"github.com/dmitrijs2005/learnly/internal/cryptox"
	"github.com/dmitrijs2005/learnly/internal/dbx"
)

// SQLiteJar persists cookies in the local database. When a sealer is set,
// values are encrypted before they reach disk.
type SQLiteJar struct {
	db     *sql.DB
	sealer *cryptox.Sealer
	now    func() time.Time
}

type Option func(*SQLiteJar)

func WithSealer(s *cryptox.Sealer) Option {
	return func(j *SQLiteJar) { j.sealer = s }
}

func WithClock(now func() time.Time) Option {
	return func(j *SQLiteJar) { j.now = now }
}

func NewSQLiteJar(db *sql.DB, opts ...Option) *SQLiteJar {
	j := &SQLiteJar{db: db, now: time.Now}
	for _, o := range opts {
		o(j)
	}
	return j
}

func (j *SQLiteJar) seal(c models.Cookie) (models.Cookie, error) {
	if j.sealer == nil {
		return c, nil
	}
	b, err := j.sealer.Seal([]byte(c.Value))
	if err != nil {
		return c, fmt.Errorf("seal cookie[%s]: %w", c.Name, err)
	}
	c.Value = string(b)
	return c, nil
}

func (j *SQLiteJar) open(c models.Cookie) (models.Cookie, error) {
	if j.sealer == nil {
		return c, nil
	}
	b, err := j.sealer.Open([]byte(c.Value))
	if err != nil {
		return c, fmt.Errorf("open cookie[%s]: %w", c.Name, err)
	}
	c.Value = string(b)
	return c, nil
}

func (j *SQLiteJar) Get(ctx context.Context, name string) (*models.Cookie, error) {
	r := repo.NewSQLiteRepository(j.db)

	c, err := r.Get(ctx, name)
	if err != nil || c == nil {
		return nil, err
	}
	if c.Expired(j.now()) {
		if err := r.Delete(ctx, name); err != nil {
			return nil, err
		}
		return nil, nil
	}

	opened, err := j.open(*c)
	if err != nil {
		return nil, err
	}
	return &opened, nil
}

func (j *SQLiteJar) Set(ctx context.Context, cookies ...models.Cookie) error {
	return j.Apply(ctx, cookies, nil)
}

func (j *SQLiteJar) Remove(ctx context.Context, names ...string) error {
	return j.Apply(ctx, nil, names)
}

func (j *SQLiteJar) Apply(ctx context.Context, set []models.Cookie, remove []string) error {
	sealed := make([]models.Cookie, 0, len(set))
	for _, c := range set {
		s, err := j.seal(c)
		if err != nil {
			return err
		}
		sealed = append(sealed, s)
	}

	return dbx.WithTx(ctx, j.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		r := repo.NewSQLiteRepository(tx)
		for _, name := range remove {
			if err := r.Delete(ctx, name); err != nil {
				return err
			}
		}
		for _, c := range sealed {
			if err := r.Put(ctx, c); err != nil {
				return err
			}
		}
		return nil
	})
}

func (j *SQLiteJar) All(ctx context.Context) ([]models.Cookie, error) {
	stored, err := repo.NewSQLiteRepository(j.db).List(ctx)
	if err != nil {
		return nil, err
	}

	now := j.now()
	var result []models.Cookie
	for _, c := range stored {
		if c.Expired(now) {
			continue
		}
		opened, err := j.open(c)
		if err != nil {
			return nil, err
		}
		result = append(result, opened)
	}
	return result, nil
}
