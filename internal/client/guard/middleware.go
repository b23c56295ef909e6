package guard

import (
	"context"
	"net/http"

	"github.com/dmitrijs2005/learnly/internal/client/models"
	"github.com/dmitrijs2005/learnly/internal/logging"
)

// Session is what the middleware needs from the session.
type Session interface {
	State() models.AuthState
	IsLoggedIn(ctx context.Context) bool
	ForceLogout(ctx context.Context) error
}

// RetryAfterSeconds is sent with the loading response.
const RetryAfterSeconds = "1"

// Middleware gates a chi route group with Decide. A loading decision answers
// 202 Accepted with Retry-After; redirects use 303 See Other.
func Middleware(s Session, log logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			d := Decide(Input{
				State:               s.State(),
				CookieAuthenticated: s.IsLoggedIn(ctx),
				URL:                 r.URL,
			})

			switch d.Kind {
			case Allow:
				next.ServeHTTP(w, r)
			case Loading:
				w.Header().Set("Retry-After", RetryAfterSeconds)
				w.WriteHeader(http.StatusAccepted)
				_, _ = w.Write([]byte("Loading...\n"))
			case Redirect:
				if d.ForceLogout {
					if err := s.ForceLogout(ctx); err != nil {
						log.Warn(ctx, "force logout failed", "error", err)
					}
				}
				log.Debug(ctx, "guard redirect", "path", r.URL.Path, "location", d.Location)
				http.Redirect(w, r, d.Location, http.StatusSeeOther)
			}
		})
	}
}
