package common

import "errors"

var (
	// ErrBusy is returned when a form is submitted while a previous
	// submission of the same form is still in flight.
	ErrBusy = errors.New("submission already in progress")

	// ErrNotConfigured marks an optional integration that has no settings.
	ErrNotConfigured = errors.New("not configured")

	// ErrInvalidToken reports a malformed bearer token.
	ErrInvalidToken = errors.New("invalid token")

	// ErrStateMismatch reports an OAuth callback whose state does not match
	// the one issued for the flow.
	ErrStateMismatch = errors.New("oauth state mismatch")
)
