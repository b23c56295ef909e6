package cookies

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/dmitrijs2005/learnly/internal/client/models"
	"github.com/dmitrijs2005/learnly/internal/dbx"
)

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCookie(row scanner) (models.Cookie, error) {
	var (
		c        models.Cookie
		value    []byte
		expires  sql.NullInt64
		secure   bool
		sameSite int
	)
	if err := row.Scan(&c.Name, &value, &expires, &secure, &sameSite); err != nil {
		return models.Cookie{}, err
	}
	c.Value = string(value)
	if expires.Valid {
		c.Expires = time.UnixMilli(expires.Int64)
	}
	c.Secure = secure
	c.SameSite = http.SameSite(sameSite)
	return c, nil
}

func (r *SQLiteRepository) Get(ctx context.Context, name string) (*models.Cookie, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT name, value, expires_at, secure, same_site FROM cookies WHERE name = ?`, name)

	c, err := scanCookie(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get cookie[%s]: %w", name, err)
	}
	return &c, nil
}

func (r *SQLiteRepository) Put(ctx context.Context, c models.Cookie) error {
	var expires sql.NullInt64
	if !c.Expires.IsZero() {
		expires = sql.NullInt64{Int64: c.Expires.UnixMilli(), Valid: true}
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO cookies (name, value, expires_at, secure, same_site) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			value = excluded.value,
			expires_at = excluded.expires_at,
			secure = excluded.secure,
			same_site = excluded.same_site
	`, c.Name, []byte(c.Value), expires, c.Secure, int(c.SameSite))
	if err != nil {
		return fmt.Errorf("failed to put cookie[%s]: %w", c.Name, err)
	}
	return nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, name string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM cookies WHERE name = ?`, name); err != nil {
		return fmt.Errorf("failed to delete cookie[%s]: %w", name, err)
	}
	return nil
}

func (r *SQLiteRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM cookies`); err != nil {
		return fmt.Errorf("failed to clear cookies: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) List(ctx context.Context) ([]models.Cookie, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT name, value, expires_at, secure, same_site FROM cookies ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list cookies: %w", err)
	}
	defer rows.Close()

	var result []models.Cookie
	for rows.Next() {
		c, err := scanCookie(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan cookie row: %w", err)
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate cookie rows: %w", err)
	}
	return result, nil
}
