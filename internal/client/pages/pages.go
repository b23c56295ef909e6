// Package pages implements the form flows behind each route: validation,
// a single backend call per submit, duplicate-submit protection and the
// delayed transition after success.
package pages

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/dmitrijs2005/learnly/internal/client/client"
	"github.com/dmitrijs2005/learnly/internal/client/models"
	"github.com/dmitrijs2005/learnly/internal/client/notify"
	"github.com/dmitrijs2005/learnly/internal/common"
	"github.com/dmitrijs2005/learnly/internal/logging"
)

const (
	MsgRegistered     = "Successfully registered"
	MsgResetDone      = "Password reset successful"
	MsgVerified       = "Account verified"
	MsgUnreachable    = "Unable to reach out to server"
	MsgGenericFailure = "An error occurred"
	MsgLinkExpired    = "Link Expired"
)

// DefaultDelay is the pause between a successful submit and the transition.
const DefaultDelay = 3 * time.Second

// Session is what the flows need from the session.
type Session interface {
	State() models.AuthState
	Login(ctx context.Context, creds models.Credentials) error
	Verify()
}

type Pages struct {
	session  Session
	client   client.Client
	notifier notify.Notifier
	log      logging.Logger
	delay    time.Duration
	sleep    func(ctx context.Context, d time.Duration) error

	loginBusy    atomic.Bool
	registerBusy atomic.Bool
	resetBusy    atomic.Bool
	linkBusy     atomic.Bool
	verifyBusy   atomic.Bool
}

type Option func(*Pages)

func WithDelay(d time.Duration) Option {
	return func(p *Pages) { p.delay = d }
}

func WithSleep(fn func(ctx context.Context, d time.Duration) error) Option {
	return func(p *Pages) { p.sleep = fn }
}

func WithLogger(l logging.Logger) Option {
	return func(p *Pages) { p.log = l }
}

func New(s Session, c client.Client, n notify.Notifier, opts ...Option) *Pages {
	p := &Pages{
		session:  s,
		client:   c,
		notifier: n,
		log:      logging.NewNop(),
		delay:    DefaultDelay,
		sleep:    sleepCtx,
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// once runs fn unless a previous call guarded by the same flag is still
// running.
func once(flag *atomic.Bool, fn func() error) error {
	if !flag.CompareAndSwap(false, true) {
		return common.ErrBusy
	}
	defer flag.Store(false)
	return fn()
}

// failure picks the notification for a failed backend call: the server
// message when there is one, fallback otherwise.
func (p *Pages) failure(err error, fallback string) {
	if client.IsUnavailable(err) {
		p.notifier.Error(MsgUnreachable)
		return
	}
	if msg := client.Message(err); msg != "" {
		p.notifier.Error(msg)
		return
	}
	p.notifier.Error(fallback)
}

// Destination is where a signed-in visitor of login or register goes.
func Destination(callback string) string {
	if callback == "" {
		return "/"
	}
	return callback
}

// AlreadySignedIn reports whether login and register should redirect
// straight to their destination.
func (p *Pages) AlreadySignedIn() bool {
	st := p.session.State()
	return st.LoggedIn() && st.User != nil
}

// Login signs in and returns the location to go to next. Login failures are
// reported through the session's error notifications.
func (p *Pages) Login(ctx context.Context, form LoginForm, callback string) (string, error) {
	if err := form.Validate(); err != nil {
		return "", err
	}

	var next string
	err := once(&p.loginBusy, func() error {
		creds := models.Credentials{
			Recognition: models.NewRecognition(form.Identifier),
			Password:    form.Password,
		}
		if err := p.session.Login(ctx, creds); err != nil {
			return err
		}
		if err := p.sleep(ctx, p.delay); err != nil {
			return err
		}
		next = Destination(callback)
		return nil
	})
	return next, err
}

// Register creates the account and returns "/login" on success.
func (p *Pages) Register(ctx context.Context, form RegisterForm) (string, error) {
	if err := form.Validate(); err != nil {
		return "", err
	}

	var next string
	err := once(&p.registerBusy, func() error {
		if err := p.client.Register(ctx, form.Registration()); err != nil {
			p.log.Info(ctx, "register rejected", "error", err)
			p.failure(err, MsgGenericFailure)
			return err
		}
		p.notifier.Success(MsgRegistered)
		if err := p.sleep(ctx, p.delay); err != nil {
			return err
		}
		next = "/login"
		return nil
	})
	return next, err
}

// RequestReset asks for a reset link. The page stays where it is.
func (p *Pages) RequestReset(ctx context.Context, form ResetForm) error {
	if err := form.Validate(); err != nil {
		return err
	}

	return once(&p.resetBusy, func() error {
		msg, err := p.client.RequestReset(ctx, models.NewRecognition(form.Identifier))
		if err != nil {
			if client.IsUnavailable(err) {
				p.notifier.Error(MsgGenericFailure)
			} else {
				p.failure(err, MsgGenericFailure)
			}
			return err
		}
		if msg == "" {
			msg = "Reset link sent"
		}
		p.notifier.Success(msg)
		return nil
	})
}

// LinkActive reports whether the reset link id can still be used. Any
// failure, including a network error, means the link is expired.
func (p *Pages) LinkActive(ctx context.Context, id string) bool {
	if err := p.client.CheckResetLink(ctx, id); err != nil {
		p.log.Debug(ctx, "reset link inactive", "error", err)
		return false
	}
	return true
}

// ResetPassword sets a new password through link id and returns "/login".
func (p *Pages) ResetPassword(ctx context.Context, id string, form ResetLinkForm) (string, error) {
	if err := form.Validate(); err != nil {
		return "", err
	}

	var next string
	err := once(&p.linkBusy, func() error {
		if err := p.client.ResetPassword(ctx, id, form.Password); err != nil {
			p.failure(err, MsgGenericFailure)
			return err
		}
		p.notifier.Success(MsgResetDone)
		next = "/login"
		return nil
	})
	return next, err
}

// Verify confirms the account with a one-time code and returns the location
// to continue to.
func (p *Pages) Verify(ctx context.Context, form VerifyForm, callback string) (string, error) {
	if err := form.Validate(); err != nil {
		return "", err
	}

	var next string
	err := once(&p.verifyBusy, func() error {
		if err := p.client.VerifyAccount(ctx, form.OTP); err != nil {
			p.failure(err, MsgGenericFailure)
			return err
		}
		p.session.Verify()
		p.notifier.Success(MsgVerified)
		if err := p.sleep(ctx, p.delay); err != nil {
			return err
		}
		next = Destination(callback)
		return nil
	})
	return next, err
}
