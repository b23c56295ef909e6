package client

import (
	"context"

	"github.com/dmitrijs2005/learnly/internal/client/models"
)

// Client is the backend auth API.
type Client interface {
	Login(ctx context.Context, creds models.Credentials) (*models.BackendTokens, error)
	GetUser(ctx context.Context) (*models.User, error)
	Refresh(ctx context.Context) (*models.BackendTokens, error)
	Logout(ctx context.Context) error
	Register(ctx context.Context, reg models.Registration) error
	// RequestReset asks the backend to mail a reset link and returns its
	// message.
	RequestReset(ctx context.Context, rec models.Recognition) (string, error)
	CheckResetLink(ctx context.Context, id string) error
	ResetPassword(ctx context.Context, id, password string) error
	SignInWithGoogle(ctx context.Context, credential string) (*models.BackendTokens, error)
	VerifyAccount(ctx context.Context, otp string) error
}
