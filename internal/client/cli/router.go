package cli

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrijs2005/learnly/internal/client/guard"
	"github.com/dmitrijs2005/learnly/internal/client/models"
	"github.com/dmitrijs2005/learnly/internal/client/pages"
	"github.com/dmitrijs2005/learnly/internal/logging"
)

// Session is what the router and the commands need from the session.
type Session interface {
	guard.Session
	Login(ctx context.Context, creds models.Credentials) error
	SignInWithGoogle(ctx context.Context, credential string) error
	Logout(ctx context.Context) error
	Renew(ctx context.Context) error
	Verify()
}

// Flows is the page-flow surface behind the routes.
type Flows interface {
	AlreadySignedIn() bool
	LinkActive(ctx context.Context, id string) bool
	Login(ctx context.Context, form pages.LoginForm, callback string) (string, error)
	Register(ctx context.Context, form pages.RegisterForm) (string, error)
	RequestReset(ctx context.Context, form pages.ResetForm) error
	ResetPassword(ctx context.Context, id string, form pages.ResetLinkForm) (string, error)
	Verify(ctx context.Context, form pages.VerifyForm, callback string) (string, error)
}

// NewRouter builds the page routes. /profile and /verify sit behind the
// guard.
func NewRouter(appName string, s Session, f Flows, log logging.Logger) http.Handler {
	h := &handlers{appName: appName, session: s, flows: f}

	r := chi.NewRouter()
	r.Get("/", h.home)
	r.Get("/login", h.signedOutOnly("Sign in", "Enter your email or username and password."))
	r.Get("/register", h.signedOutOnly("Create an account", "Choose an email, a username and a strong password."))
	r.Get("/reset", h.text("Reset password", "Enter your email or username to receive a reset link."))
	r.Get("/reset/{id}", h.resetLink)

	r.Group(func(r chi.Router) {
		r.Use(guard.Middleware(s, log))
		r.Get("/profile", h.profile)
		r.Get(guard.VerifyPath, h.verify)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprintf(w, "Page %s not found\n", r.URL.Path)
	})

	return r
}

type handlers struct {
	appName string
	session Session
	flows   Flows
}

func (h *handlers) home(w http.ResponseWriter, r *http.Request) {
	var b strings.Builder
	fmt.Fprintf(&b, "Welcome to %s\n", h.appName)

	st := h.session.State()
	if st.LoggedIn() && st.User != nil {
		fmt.Fprintf(&b, "Signed in as %s\n", displayName(st.User))
	} else {
		b.WriteString("You are not signed in.\n")
	}
	_, _ = w.Write([]byte(b.String()))
}

func (h *handlers) text(title, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, "%s\n%s\n", title, body)
	}
}

// signedOutOnly sends visitors who are already signed in on to their
// callback.
func (h *handlers) signedOutOnly(title, body string) http.HandlerFunc {
	render := h.text(title, body)
	return func(w http.ResponseWriter, r *http.Request) {
		if h.flows.AlreadySignedIn() {
			http.Redirect(w, r, pages.Destination(r.URL.Query().Get("callback")), http.StatusSeeOther)
			return
		}
		render(w, r)
	}
}

func (h *handlers) resetLink(w http.ResponseWriter, r *http.Request) {
	if !h.flows.LinkActive(r.Context(), chi.URLParam(r, "id")) {
		w.WriteHeader(http.StatusGone)
		fmt.Fprintln(w, pages.MsgLinkExpired)
		return
	}
	fmt.Fprintf(w, "Choose a new password\n%s\n", pages.MsgPasswordWeak)
}

// signedInUser returns the current user. The session can end between the
// guard and the handler; the visitor is then sent back through the guard.
func (h *handlers) signedInUser(w http.ResponseWriter, r *http.Request) *models.User {
	u := h.session.State().User
	if u == nil {
		http.Redirect(w, r, r.URL.RequestURI(), http.StatusSeeOther)
	}
	return u
}

func (h *handlers) profile(w http.ResponseWriter, r *http.Request) {
	u := h.signedInUser(w, r)
	if u == nil {
		return
	}

	var b strings.Builder
	b.WriteString("Profile\n")
	fmt.Fprintf(&b, "  Name:     %s\n", u.Name.Full())
	fmt.Fprintf(&b, "  Username: %s\n", u.Username)
	fmt.Fprintf(&b, "  Email:    %s\n", u.Email)
	fmt.Fprintf(&b, "  Role:     %s\n", u.Role)
	if !u.CreatedAt.IsZero() {
		fmt.Fprintf(&b, "  Joined:   %s\n", u.CreatedAt.Format("2006-01-02"))
	}
	_, _ = w.Write([]byte(b.String()))
}

func (h *handlers) verify(w http.ResponseWriter, r *http.Request) {
	u := h.signedInUser(w, r)
	if u == nil {
		return
	}
	if u.Verified {
		fmt.Fprintln(w, "Your account is already verified.")
		return
	}
	fmt.Fprintf(w, "Verify your account\nEnter the 6-digit code sent to %s.\n", u.Email)
}

func displayName(u *models.User) string {
	if n := u.Name.Full(); n != "" {
		return n
	}
	if u.Username != "" {
		return u.Username
	}
	return u.Email
}
