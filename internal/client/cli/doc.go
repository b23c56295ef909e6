// Package cli provides the interactive Learnly command-line client.
//
// It wires configuration, the persistent cookie jar, the backend API client,
// the auth store and session, and an interactive REPL. Pages are served by a
// chi router in-process; the navigator follows the guard's redirects the way
// a browser would and prints the page that finally renders.
//
// Key features:
//   - Login / Logout, Google sign-in
//   - Registration, password reset request and reset links
//   - Protected profile and account verification pages
//   - Background access-token renewal while signed in
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App, Navigator and runREPL for details.
package cli
