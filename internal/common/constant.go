// Package common contains shared constants, sentinel errors and small helpers
// used across the Learnly client packages.
package common

// RequestIDHeaderName is the HTTP header used to correlate a client request
// with backend logs.
const RequestIDHeaderName = "X-Request-ID"

// AuthorizationHeaderName carries the bearer access token on outbound requests.
const AuthorizationHeaderName = "Authorization"
