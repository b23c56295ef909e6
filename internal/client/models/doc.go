// Package models defines the data the Learnly client exchanges with the
// auth backend and keeps locally: users, token bundles, the auth state
// snapshot and persisted cookies.
package models
