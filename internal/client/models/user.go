package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Role is the account role. The backend historically serialised it as a
// numeric enum (0 = admin, 1 = user); both forms are accepted.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

func (r *Role) UnmarshalJSON(b []byte) error {
	var n int
	if err := json.Unmarshal(b, &n); err == nil {
		switch n {
		case 0:
			*r = RoleAdmin
		case 1:
			*r = RoleUser
		default:
			return fmt.Errorf("unknown role %d", n)
		}
		return nil
	}

	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("role: %w", err)
	}
	*r = Role(strings.ToLower(s))
	return nil
}

type Name struct {
	First string `json:"first"`
	Last  string `json:"last,omitempty"`
}

func (n Name) Full() string {
	return strings.TrimSpace(n.First + " " + n.Last)
}

// User is the client's cached copy of the backend identity record.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	Name      Name      `json:"name"`
	Role      Role      `json:"role"`
	Verified  bool      `json:"verified"`
	Deleted   bool      `json:"deleted"`
	Disabled  bool      `json:"disabled"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Clone returns a copy that shares no memory with u. Nil stays nil.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}
