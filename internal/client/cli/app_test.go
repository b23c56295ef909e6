package cli

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/learnly/internal/client/client"
	"github.com/dmitrijs2005/learnly/internal/client/client/clienttest"
	"github.com/dmitrijs2005/learnly/internal/client/config"
	"github.com/dmitrijs2005/learnly/internal/client/cookies"
	"github.com/dmitrijs2005/learnly/internal/client/models"
	"github.com/dmitrijs2005/learnly/internal/client/notify"
	"github.com/dmitrijs2005/learnly/internal/client/pages"
	"github.com/dmitrijs2005/learnly/internal/client/session"
	"github.com/dmitrijs2005/learnly/internal/client/store"
	"github.com/dmitrijs2005/learnly/internal/common"
	"github.com/dmitrijs2005/learnly/internal/logging"
)

type harness struct {
	fake  *clienttest.Fake
	jar   *cookies.MemoryJar
	notes *notify.Recorder
	out   *bytes.Buffer
	app   *App
}

func newHarness(t *testing.T, fc *clienttest.Fake, input string) *harness {
	t.Helper()

	jar := cookies.NewMemoryJar()
	notes := &notify.Recorder{}
	st := store.New(fc, jar)
	sess := session.New(st, jar, notes)
	flows := pages.New(sess, fc, notes, pages.WithDelay(0))

	out := &bytes.Buffer{}
	app := newApp(&config.Config{AppName: "Learnly"}, logging.NewNop(), sess, flows, rdr(input), out)
	t.Cleanup(func() { _ = app.Close() })

	return &harness{fake: fc, jar: jar, notes: notes, out: out, app: app}
}

func (h *harness) mount(t *testing.T) {
	t.Helper()
	require.NoError(t, h.app.session.Mount(context.Background()))
}

func (h *harness) signIn(t *testing.T) {
	t.Helper()
	require.NoError(t, h.app.session.Login(context.Background(), models.Credentials{
		Recognition: models.Recognition{Username: "alice"},
		Password:    "S3cret!pw",
	}))
}

// stubPasswords answers password prompts from pw in order and fails the
// test when asked for more.
func stubPasswords(t *testing.T, pw ...string) *int {
	t.Helper()
	asked := 0
	orig := getPassword
	getPassword = func(prompt string, _ io.Writer) ([]byte, error) {
		asked++
		if asked > len(pw) {
			t.Fatalf("unexpected password prompt %q", prompt)
		}
		return []byte(pw[asked-1]), nil
	}
	t.Cleanup(func() { getPassword = orig })
	return &asked
}

func alice(verified bool) *models.User {
	return &models.User{
		ID:       "u1",
		Email:    "alice@example.com",
		Username: "alice",
		Name:     models.Name{First: "Alice", Last: "Smith"},
		Role:     models.RoleUser,
		Verified: verified,
	}
}

func signedInFake(verified bool) *clienttest.Fake {
	u := alice(verified)
	return &clienttest.Fake{
		LoginTokens: &models.BackendTokens{AccessToken: "A1", RefreshToken: "R1", ExpiresIn: 60_000, User: u},
		User:        u,
	}
}

func TestApp_ProtectedPageRedirectsToLogin(t *testing.T) {
	h := newHarness(t, &clienttest.Fake{}, "")
	h.mount(t)

	require.NoError(t, h.app.Profile(context.Background()))

	assert.Equal(t, "/login?callback=%2Fprofile", h.app.page.Location)
	assert.Contains(t, h.out.String(), "Sign in")
	assert.Equal(t, "(anonymous)", h.app.getStatus())
}

func TestApp_LoginContinuesToCallback(t *testing.T) {
	h := newHarness(t, signedInFake(true), "alice@example.com\n")
	h.mount(t)
	stubPasswords(t, "S3cret!pw")
	ctx := context.Background()

	require.NoError(t, h.app.Profile(ctx))
	require.NoError(t, h.app.Login(ctx, ""))

	assert.Equal(t, "/profile", h.app.page.Location)
	assert.Contains(t, h.out.String(), "Username: alice")
	assert.Equal(t, models.Recognition{Email: "alice@example.com"}, h.fake.LastCreds.Recognition)
	assert.Equal(t, "S3cret!pw", h.fake.LastCreds.Password)
	assert.Contains(t, h.notes.Messages(notify.KindSuccess), session.MsgLoggedIn)
	assert.Equal(t, "(Alice Smith)", h.app.getStatus())
	assert.True(t, h.app.isLoggedIn())
}

func TestApp_LoginValidationBlocksSubmit(t *testing.T) {
	h := newHarness(t, signedInFake(true), "not an email!\n")
	h.mount(t)
	stubPasswords(t, "")

	err := h.app.Login(context.Background(), "")
	require.Error(t, err)

	assert.Zero(t, h.fake.Count("Login"))
	assert.Contains(t, h.out.String(), "email: "+pages.MsgIdentifierInvalid)
	assert.Contains(t, h.out.String(), "password: "+pages.MsgPasswordRequired)
}

func TestApp_LoginRejectedReportsPasswordError(t *testing.T) {
	fc := &clienttest.Fake{LoginErr: &client.APIError{Status: 401, Message: "Invalid password"}}
	h := newHarness(t, fc, "alice\n")
	h.mount(t)
	stubPasswords(t, "wrong")

	err := h.app.Login(context.Background(), "")
	require.Error(t, err)

	assert.Equal(t, "/login", h.app.page.Location)
	assert.Contains(t, h.notes.Messages(notify.KindError), "Invalid password")
	assert.False(t, h.app.isLoggedIn())
}

func TestApp_LoginStaysWhenSessionCannotStart(t *testing.T) {
	boom := errors.New("boom")
	fc := &clienttest.Fake{
		LoginTokens: &models.BackendTokens{AccessToken: "A1", RefreshToken: "R1", ExpiresIn: 60_000},
		GetUserErr:  boom,
		RefreshErr:  boom,
	}
	h := newHarness(t, fc, "alice\n")
	h.mount(t)
	stubPasswords(t, "S3cret!pw")
	ctx := context.Background()

	require.NoError(t, h.app.Profile(ctx))
	err := h.app.Login(ctx, "")
	require.ErrorIs(t, err, store.ErrNoUser)

	assert.Equal(t, "/login?callback=%2Fprofile", h.app.page.Location)
	assert.Empty(t, h.notes.Messages(notify.KindSuccess))
	assert.Equal(t, "(anonymous)", h.app.getStatus())
}

func TestApp_LoginWipesPasswordBuffer(t *testing.T) {
	h := newHarness(t, signedInFake(true), "alice\n")
	h.mount(t)

	var buf []byte
	orig := getPassword
	getPassword = func(string, io.Writer) ([]byte, error) {
		buf = []byte("S3cret!pw")
		return buf, nil
	}
	t.Cleanup(func() { getPassword = orig })

	require.NoError(t, h.app.Login(context.Background(), ""))

	assert.Equal(t, "S3cret!pw", h.fake.LastCreds.Password)
	assert.Equal(t, make([]byte, len("S3cret!pw")), buf)
}

func TestApp_LoginWhenSignedInSkipsPrompt(t *testing.T) {
	h := newHarness(t, signedInFake(true), "")
	h.mount(t)
	h.signIn(t)
	stubPasswords(t)

	require.NoError(t, h.app.Login(context.Background(), "/profile"))
	assert.Equal(t, "/profile", h.app.page.Location)
}

func TestApp_UnverifiedUserVerifiesAndContinues(t *testing.T) {
	h := newHarness(t, signedInFake(false), "123456\n")
	h.mount(t)
	h.signIn(t)
	ctx := context.Background()

	require.NoError(t, h.app.Profile(ctx))
	assert.Equal(t, "/verify?callback=%2Fprofile", h.app.page.Location)
	assert.Equal(t, "(Alice Smith, unverified)", h.app.getStatus())

	require.NoError(t, h.app.Verify(ctx))

	assert.Equal(t, "123456", h.fake.LastOTP)
	assert.Equal(t, "/profile", h.app.page.Location)
	assert.True(t, h.app.session.State().User.Verified)
	assert.Contains(t, h.notes.Messages(notify.KindSuccess), pages.MsgVerified)
}

func TestApp_VerifyWhenAlreadyVerified(t *testing.T) {
	h := newHarness(t, signedInFake(true), "")
	h.mount(t)
	h.signIn(t)

	require.NoError(t, h.app.Verify(context.Background()))
	assert.Zero(t, h.fake.Count("VerifyAccount"))
	assert.Contains(t, h.out.String(), "already verified")
}

func TestApp_Register(t *testing.T) {
	h := newHarness(t, &clienttest.Fake{}, "bob@example.com\nbob\nBob\n\n")
	h.mount(t)
	stubPasswords(t, "S3cret!pw", "S3cret!pw")

	require.NoError(t, h.app.Register(context.Background()))

	assert.Equal(t, "/login", h.app.page.Location)
	assert.Equal(t, models.Registration{
		Email:           "bob@example.com",
		Username:        "bob",
		Name:            models.Name{First: "Bob"},
		Password:        "S3cret!pw",
		ConfirmPassword: "S3cret!pw",
	}, h.fake.LastReg)
	assert.Contains(t, h.notes.Messages(notify.KindSuccess), pages.MsgRegistered)
}

func TestApp_RegisterMismatchedPasswords(t *testing.T) {
	h := newHarness(t, &clienttest.Fake{}, "bob@example.com\nbob\nBob\nSmith\n")
	h.mount(t)
	stubPasswords(t, "S3cret!pw", "S3cret!px")

	require.Error(t, h.app.Register(context.Background()))
	assert.Zero(t, h.fake.Count("Register"))
	assert.Contains(t, h.out.String(), "confirmPassword: "+pages.MsgPasswordsMismatch)
}

func TestApp_Reset(t *testing.T) {
	h := newHarness(t, &clienttest.Fake{ResetMessage: "Check your inbox"}, "alice\n")
	h.mount(t)

	require.NoError(t, h.app.Reset(context.Background()))
	assert.Equal(t, models.Recognition{Username: "alice"}, h.fake.LastRec)
	assert.Equal(t, []string{"Check your inbox"}, h.notes.Messages(notify.KindSuccess))
}

func TestApp_ResetLinkExpiredNeverPrompts(t *testing.T) {
	h := newHarness(t, &clienttest.Fake{CheckResetErr: &client.APIError{Status: 404}}, "")
	h.mount(t)
	asked := stubPasswords(t)

	require.NoError(t, h.app.ResetLink(context.Background(), "abc"))

	assert.Equal(t, 410, h.app.page.Status)
	assert.Contains(t, h.out.String(), pages.MsgLinkExpired)
	assert.NotContains(t, h.out.String(), "Choose a new password")
	assert.Zero(t, *asked)
	assert.Zero(t, h.fake.Count("ResetPassword"))
}

func TestApp_ResetLinkActive(t *testing.T) {
	h := newHarness(t, &clienttest.Fake{}, "")
	h.mount(t)
	stubPasswords(t, "N3w!passw", "N3w!passw")

	require.NoError(t, h.app.ResetLink(context.Background(), "https://learnly.test/reset/abc"))

	assert.Equal(t, "abc", h.fake.LastResetID)
	assert.Equal(t, "N3w!passw", h.fake.LastPw)
	assert.Equal(t, "/login", h.app.page.Location)
}

func TestApp_LogoutReturnsHome(t *testing.T) {
	h := newHarness(t, signedInFake(true), "")
	h.mount(t)
	h.signIn(t)
	h.out.Reset()

	require.NoError(t, h.app.Logout(context.Background()))

	assert.Equal(t, 1, h.fake.Count("Logout"))
	assert.Equal(t, "/", h.app.page.Location)
	assert.Contains(t, h.out.String(), "You are not signed in.")
	v, err := cookies.Value(context.Background(), h.jar, cookies.Authenticated)
	require.NoError(t, err)
	assert.Equal(t, "false", v)
}

func TestApp_LogoutServerFailureStillEndsSession(t *testing.T) {
	fc := signedInFake(true)
	fc.LogoutErr = client.ErrUnavailable
	h := newHarness(t, fc, "")
	h.mount(t)
	h.signIn(t)

	err := h.app.Logout(context.Background())
	require.ErrorIs(t, err, client.ErrUnavailable)
	assert.False(t, h.app.session.State().Authenticated)
}

func TestApp_RefreshRenewsSession(t *testing.T) {
	fc := signedInFake(true)
	fc.RefreshTokens = &models.BackendTokens{AccessToken: "A2", ExpiresIn: 60_000}
	h := newHarness(t, fc, "")
	h.mount(t)
	h.signIn(t)

	require.NoError(t, h.app.Refresh(context.Background()))
	assert.Contains(t, h.out.String(), "Session renewed")

	v, err := cookies.Value(context.Background(), h.jar, cookies.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "A2", v)
}

func TestApp_GoogleNotConfigured(t *testing.T) {
	h := newHarness(t, &clienttest.Fake{}, "")
	h.mount(t)

	err := h.app.Google(context.Background())
	require.True(t, errors.Is(err, common.ErrNotConfigured))
	assert.Contains(t, h.out.String(), "not configured")
}

func TestApp_StatusAndPrompt(t *testing.T) {
	h := newHarness(t, signedInFake(true), "")
	assert.Equal(t, "(loading)", h.app.getStatus())

	h.mount(t)
	h.signIn(t)
	require.NoError(t, h.app.Status(context.Background()))

	out := h.out.String()
	assert.Contains(t, out, "authenticated: true")
	assert.Contains(t, out, "cookie:        true")
	assert.Contains(t, out, "renewal:       true")
	assert.Contains(t, out, "user:          Alice Smith (verified: true)")
}

func TestResetID(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"abc", "abc"},
		{"https://learnly.test/reset/abc", "abc"},
		{"/reset/xyz", "xyz"},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			require.Equal(t, tc.want, resetID(tc.in))
		})
	}
}
