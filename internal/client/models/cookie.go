package models

import (
	"net/http"
	"time"
)

// Cookie is a persisted client cookie. A zero Expires means the cookie lives
// for the whole session.
type Cookie struct {
	Name     string
	Value    string
	Expires  time.Time
	Secure   bool
	SameSite http.SameSite
}

// Expired reports whether the cookie has an expiry at or before now.
func (c Cookie) Expired(now time.Time) bool {
	return !c.Expires.IsZero() && !now.Before(c.Expires)
}

func (c Cookie) HTTP() *http.Cookie {
	return &http.Cookie{
		Name:     c.Name,
		Value:    c.Value,
		Expires:  c.Expires,
		Secure:   c.Secure,
		SameSite: c.SameSite,
	}
}
