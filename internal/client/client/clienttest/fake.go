// Package clienttest provides a scriptable client.Client for tests.
package clienttest

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/learnly/internal/client/models"
)

// Fake implements client.Client. Each call records its arguments and returns
// the configured result; Func fields, when set, take precedence.
type Fake struct {
	mu sync.Mutex

	LoginTokens *models.BackendTokens
	LoginErr    error
	LoginFunc   func(ctx context.Context, creds models.Credentials) (*models.BackendTokens, error)

	User        *models.User
	GetUserErr  error
	GetUserFunc func(ctx context.Context) (*models.User, error)

	RefreshTokens *models.BackendTokens
	RefreshErr    error
	RefreshFunc   func(ctx context.Context) (*models.BackendTokens, error)

	LogoutErr error

	RegisterErr error

	ResetMessage string
	ResetErr     error

	CheckResetErr error
	ResetPwErr    error

	GoogleTokens *models.BackendTokens
	GoogleErr    error

	VerifyErr error

	Calls       []string
	LastCreds   models.Credentials
	LastReg     models.Registration
	LastRec     models.Recognition
	LastResetID string
	LastPw      string
	LastGoogle  string
	LastOTP     string
}

func (f *Fake) record(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls = append(f.Calls, name)
}

// CallLog returns a copy of the recorded call names.
func (f *Fake) CallLog() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.Calls...)
}

// Count returns how many times name was called.
func (f *Fake) Count(name string) int {
	n := 0
	for _, c := range f.CallLog() {
		if c == name {
			n++
		}
	}
	return n
}

func (f *Fake) Login(ctx context.Context, creds models.Credentials) (*models.BackendTokens, error) {
	f.record("Login")
	f.mu.Lock()
	f.LastCreds = creds
	fn := f.LoginFunc
	f.mu.Unlock()
	if fn != nil {
		return fn(ctx, creds)
	}
	return f.LoginTokens, f.LoginErr
}

func (f *Fake) GetUser(ctx context.Context) (*models.User, error) {
	f.record("GetUser")
	f.mu.Lock()
	fn := f.GetUserFunc
	f.mu.Unlock()
	if fn != nil {
		return fn(ctx)
	}
	if f.GetUserErr != nil {
		return nil, f.GetUserErr
	}
	return f.User.Clone(), nil
}

func (f *Fake) Refresh(ctx context.Context) (*models.BackendTokens, error) {
	f.record("Refresh")
	f.mu.Lock()
	fn := f.RefreshFunc
	f.mu.Unlock()
	if fn != nil {
		return fn(ctx)
	}
	return f.RefreshTokens, f.RefreshErr
}

func (f *Fake) Logout(ctx context.Context) error {
	f.record("Logout")
	return f.LogoutErr
}

func (f *Fake) Register(ctx context.Context, reg models.Registration) error {
	f.record("Register")
	f.mu.Lock()
	f.LastReg = reg
	f.mu.Unlock()
	return f.RegisterErr
}

func (f *Fake) RequestReset(ctx context.Context, rec models.Recognition) (string, error) {
	f.record("RequestReset")
	f.mu.Lock()
	f.LastRec = rec
	f.mu.Unlock()
	return f.ResetMessage, f.ResetErr
}

func (f *Fake) CheckResetLink(ctx context.Context, id string) error {
	f.record("CheckResetLink")
	f.mu.Lock()
	f.LastResetID = id
	f.mu.Unlock()
	return f.CheckResetErr
}

func (f *Fake) ResetPassword(ctx context.Context, id, password string) error {
	f.record("ResetPassword")
	f.mu.Lock()
	f.LastResetID = id
	f.LastPw = password
	f.mu.Unlock()
	return f.ResetPwErr
}

func (f *Fake) SignInWithGoogle(ctx context.Context, credential string) (*models.BackendTokens, error) {
	f.record("SignInWithGoogle")
	f.mu.Lock()
	f.LastGoogle = credential
	f.mu.Unlock()
	return f.GoogleTokens, f.GoogleErr
}

func (f *Fake) VerifyAccount(ctx context.Context, otp string) error {
	f.record("VerifyAccount")
	f.mu.Lock()
	f.LastOTP = otp
	f.mu.Unlock()
	return f.VerifyErr
}
