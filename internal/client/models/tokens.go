package models

import (
	"encoding/json"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// BackendTokens is the payload of a successful login, refresh or third-party
// sign-in. ExpiresIn is the access token lifetime in milliseconds.
type BackendTokens struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken,omitempty"`
	ExpiresIn    int64  `json:"expiresIn"`
	User         *User  `json:"user,omitempty"`
}

// UnmarshalJSON also accepts the refresh endpoint's older "token" field.
func (t *BackendTokens) UnmarshalJSON(b []byte) error {
	type plain BackendTokens
	var aux struct {
		plain
		Token string `json:"token"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	*t = BackendTokens(aux.plain)
	if t.AccessToken == "" {
		t.AccessToken = aux.Token
	}
	return nil
}

// AccessExpiry returns when the access token stops being valid. It prefers
// ExpiresIn; when the backend omits it, the token's own exp claim is read
// without verifying the signature. A zero time means the expiry is unknown.
func (t BackendTokens) AccessExpiry(now time.Time) time.Time {
	if t.ExpiresIn > 0 {
		return now.Add(time.Duration(t.ExpiresIn) * time.Millisecond)
	}

	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(t.AccessToken, claims); err != nil {
		return time.Time{}
	}
	if claims.ExpiresAt == nil {
		return time.Time{}
	}
	return claims.ExpiresAt.Time
}
