package cli

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRouter_Pages(t *testing.T) {
	h := newHarness(t, signedInFake(true), "")
	h.mount(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		location string
		landed   string
		status   int
		contains string
	}{
		{"home", "/", "/", http.StatusOK, "Welcome to Learnly"},
		{"login", "/login", "/login", http.StatusOK, "Sign in"},
		{"register", "/register", "/register", http.StatusOK, "Create an account"},
		{"reset", "/reset", "/reset", http.StatusOK, "Reset password"},
		{"reset link", "/reset/abc", "/reset/abc", http.StatusOK, "Choose a new password"},
		{"verify guarded", "/verify", "/login?callback=%2Fverify", http.StatusOK, "Sign in"},
		{"unknown", "/nope", "/nope", http.StatusNotFound, "Page /nope not found"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			page, err := h.app.nav.Open(ctx, tc.location)
			require.NoError(t, err)
			assert.Equal(t, tc.landed, page.Location)
			assert.Equal(t, tc.status, page.Status)
			assert.Contains(t, page.Body, tc.contains)
		})
	}
}

func TestRouter_SignedInSkipsLoginAndRegister(t *testing.T) {
	h := newHarness(t, signedInFake(true), "")
	h.mount(t)
	h.signIn(t)
	ctx := context.Background()

	page, err := h.app.nav.Open(ctx, "/register")
	require.NoError(t, err)
	assert.Equal(t, "/", page.Location)
	assert.Contains(t, page.Body, "Signed in as Alice Smith")

	page, err = h.app.nav.Open(ctx, "/login?callback=%2Fverify")
	require.NoError(t, err)
	assert.Equal(t, "/verify", page.Location)
	assert.Contains(t, page.Body, "already verified")
}
