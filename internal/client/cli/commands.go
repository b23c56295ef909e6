package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"sort"
	"strings"

	"github.com/dmitrijs2005/learnly/internal/client/guard"
	"github.com/dmitrijs2005/learnly/internal/client/oauth"
	"github.com/dmitrijs2005/learnly/internal/client/pages"
	"github.com/dmitrijs2005/learnly/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword
var getOptionalText = GetOptionalText

// Open navigates to location and prints the page it lands on.
func (a *App) Open(ctx context.Context, location string) error {
	if !strings.HasPrefix(location, "/") {
		location = "/" + location
	}
	page, err := a.nav.Open(ctx, location)
	if err != nil {
		fmt.Fprintf(a.out, "Unable to open %s: %v\n", location, err)
		return err
	}
	a.page = page
	fmt.Fprintf(a.out, "[%s]\n%s", page.Location, page.Body)
	return nil
}

// report prints validation failures field by field. Other errors were
// already announced through the notifier.
func (a *App) report(ctx context.Context, err error) {
	if fields := pages.FieldErrors(err); fields != nil {
		names := make([]string, 0, len(fields))
		for name := range fields {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Fprintf(a.out, "  %s: %s\n", name, fields[name])
		}
		return
	}
	if errors.Is(err, common.ErrBusy) {
		fmt.Fprintln(a.out, "The previous request is still running, please wait")
		return
	}
	a.log.Debug(ctx, "command failed", "error", err)
}

// pendingCallback is the destination the last login redirect asked for.
func (a *App) pendingCallback() string {
	if a.page.Path() == guard.LoginPath {
		return a.page.Query("callback")
	}
	return ""
}

// Login opens the login page and, unless already signed in, prompts for
// credentials. On success it continues to callback, or to the callback the
// guard asked for when callback is empty.
func (a *App) Login(ctx context.Context, callback string) error {
	if callback == "" {
		callback = a.pendingCallback()
	}
	location := guard.LoginPath
	if callback != "" {
		location = guard.WithCallback(guard.LoginPath, callback)
	}
	if err := a.Open(ctx, location); err != nil {
		return err
	}
	if a.page.Path() != guard.LoginPath {
		return nil
	}

	identifier, err := getSimpleText(a.reader, "Email or username", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword("Password", a.out)
	if err != nil {
		return err
	}
	// Only the terminal buffer is wiped. The form holds its own string copy,
	// which stays in memory until collected.
	defer common.WipeByteArray(password)

	next, err := a.flows.Login(ctx, pages.LoginForm{Identifier: identifier, Password: string(password)}, callback)
	if err != nil {
		a.report(ctx, err)
		return err
	}
	return a.Open(ctx, next)
}

// Register prompts for the account details and creates the account. On
// success the login page opens.
func (a *App) Register(ctx context.Context) error {
	if err := a.Open(ctx, "/register"); err != nil {
		return err
	}
	if a.page.Path() != "/register" {
		return nil
	}

	var form pages.RegisterForm
	var err error
	if form.Email, err = getSimpleText(a.reader, "Email", a.out); err != nil {
		return err
	}
	if form.Username, err = getSimpleText(a.reader, "Username", a.out); err != nil {
		return err
	}
	if form.FirstName, err = getSimpleText(a.reader, "First name", a.out); err != nil {
		return err
	}
	if form.LastName, err = getOptionalText(a.reader, "Last name", a.out); err != nil {
		return err
	}

	password, err := getPassword("Password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)
	confirm, err := getPassword("Confirm password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(confirm)
	form.Password, form.ConfirmPassword = string(password), string(confirm)

	next, err := a.flows.Register(ctx, form)
	if err != nil {
		a.report(ctx, err)
		return err
	}
	return a.Open(ctx, next)
}

// Reset requests a password reset link.
func (a *App) Reset(ctx context.Context) error {
	if err := a.Open(ctx, "/reset"); err != nil {
		return err
	}

	identifier, err := getSimpleText(a.reader, "Email or username", a.out)
	if err != nil {
		return err
	}
	if err := a.flows.RequestReset(ctx, pages.ResetForm{Identifier: identifier}); err != nil {
		a.report(ctx, err)
		return err
	}
	return nil
}

// resetID accepts either a bare link id or the whole reset link.
func resetID(s string) string {
	if !strings.Contains(s, "/") {
		return s
	}
	if u, err := url.Parse(s); err == nil {
		return path.Base(u.Path)
	}
	return path.Base(s)
}

// ResetLink checks the link first. An expired link never gets as far as the
// password prompt.
func (a *App) ResetLink(ctx context.Context, id string) error {
	var err error
	if id == "" {
		if id, err = getSimpleText(a.reader, "Reset link", a.out); err != nil {
			return err
		}
	}
	id = resetID(id)
	if id == "" || id == "." || id == "/" {
		fmt.Fprintln(a.out, "Usage: reset-link <id>")
		return nil
	}

	if err := a.Open(ctx, "/reset/"+url.PathEscape(id)); err != nil {
		return err
	}
	if a.page.Status != http.StatusOK {
		return nil
	}

	password, err := getPassword("New password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)
	confirm, err := getPassword("Confirm password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(confirm)

	next, err := a.flows.ResetPassword(ctx, id, pages.ResetLinkForm{Password: string(password), ConfirmPassword: string(confirm)})
	if err != nil {
		a.report(ctx, err)
		return err
	}
	return a.Open(ctx, next)
}

func (a *App) Profile(ctx context.Context) error {
	return a.Open(ctx, "/profile")
}

// Verify opens the verification page, keeping the callback the guard gave
// it, and prompts for the one-time code when the page renders.
func (a *App) Verify(ctx context.Context) error {
	location := guard.VerifyPath
	if a.page.Path() == guard.VerifyPath {
		location = a.page.Location
	}
	if err := a.Open(ctx, location); err != nil {
		return err
	}
	if a.page.Path() != guard.VerifyPath {
		return nil
	}
	if u := a.session.State().User; u == nil || u.Verified {
		return nil
	}

	otp, err := getSimpleText(a.reader, "One-time code", a.out)
	if err != nil {
		return err
	}
	next, err := a.flows.Verify(ctx, pages.VerifyForm{OTP: otp}, a.page.Query("callback"))
	if err != nil {
		a.report(ctx, err)
		return err
	}
	return a.Open(ctx, next)
}

// Google runs the consent step in the user's browser and signs in with the
// resulting token.
func (a *App) Google(ctx context.Context) error {
	if a.google == nil {
		fmt.Fprintln(a.out, "Google sign-in is not configured")
		return fmt.Errorf("google sign-in: %w", common.ErrNotConfigured)
	}
	callback := a.pendingCallback()

	flow, err := a.google.Begin()
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Open this address in your browser and approve access:\n%s\n", flow.URL)

	redirected, err := getSimpleText(a.reader, "Paste the address your browser was sent to", a.out)
	if err != nil {
		return err
	}
	state, code, err := oauth.ParseCallback(redirected)
	if err != nil {
		fmt.Fprintln(a.out, err)
		return err
	}
	credential, err := a.google.Exchange(ctx, flow, state, code)
	if err != nil {
		fmt.Fprintln(a.out, "Google sign-in failed")
		a.log.Warn(ctx, "google exchange failed", "error", err)
		return err
	}

	if err := a.session.SignInWithGoogle(ctx, credential); err != nil {
		return err
	}
	return a.Open(ctx, pages.Destination(callback))
}

// Refresh renews the access token now instead of waiting for the next tick.
func (a *App) Refresh(ctx context.Context) error {
	err := a.session.Renew(ctx)
	switch {
	case errors.Is(err, common.ErrBusy):
		fmt.Fprintln(a.out, "A renewal is already running")
	case err == nil:
		fmt.Fprintln(a.out, "Session renewed")
	}
	return err
}

// Logout ends the session and returns to the home page.
func (a *App) Logout(ctx context.Context) error {
	err := a.session.Logout(ctx)
	if err != nil {
		a.log.Debug(ctx, "logout", "error", err)
	}
	if openErr := a.Open(ctx, "/"); openErr != nil {
		return errors.Join(err, openErr)
	}
	return err
}

// Status prints the session state.
func (a *App) Status(ctx context.Context) error {
	st := a.session.State()
	fmt.Fprintf(a.out, "authenticated: %t\n", st.Authenticated)
	fmt.Fprintf(a.out, "ready:         %t\n", st.Ready)
	fmt.Fprintf(a.out, "cookie:        %t\n", a.session.IsLoggedIn(ctx))
	fmt.Fprintf(a.out, "renewal:       %t\n", a.session.Renewing())
	if st.User != nil {
		fmt.Fprintf(a.out, "user:          %s (verified: %t)\n", displayName(st.User), st.User.Verified)
	}
	if msg := st.Error.Message(); msg != "" {
		fmt.Fprintf(a.out, "last error:    %s\n", msg)
	}
	return nil
}
