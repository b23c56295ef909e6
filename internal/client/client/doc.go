// Package client contains the client-side building blocks that talk to the
// Learnly backend.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic API contract (see the Client interface) for the
//     /api/auth endpoints: Login, GetUser, Refresh, Logout, Register, the
//     password reset calls, Google sign-in and account verification.
//  2. A concrete HTTP implementation (see HTTPClient) that attaches the
//     jar's cookies, the bearer access token and a request id to every
//     call, decodes the {status, message, data} envelope and maps status
//     codes to sentinel errors.
//  3. Local persistence bootstrap (InitDatabase, RunMigrations) that opens
//     the sqlite cookie database and applies embedded goose migrations.
//
// # Error Handling
//
// Non-2xx responses are returned as *APIError, which matches ErrBadRequest,
// ErrUnauthorized, ErrForbidden, ErrNotFound or ErrServer under errors.Is.
// Transport failures wrap ErrUnavailable.
package client
