package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/learnly/internal/client/client"
	"github.com/dmitrijs2005/learnly/internal/client/config"
	"github.com/dmitrijs2005/learnly/internal/client/cookies"
	"github.com/dmitrijs2005/learnly/internal/client/notify"
	"github.com/dmitrijs2005/learnly/internal/client/oauth"
	"github.com/dmitrijs2005/learnly/internal/client/pages"
	"github.com/dmitrijs2005/learnly/internal/client/session"
	"github.com/dmitrijs2005/learnly/internal/client/store"
	"github.com/dmitrijs2005/learnly/internal/cryptox"
	"github.com/dmitrijs2005/learnly/internal/filex"
	"github.com/dmitrijs2005/learnly/internal/logging"
)

const (
	databaseFile = "learnly.db"
	secretFile   = "cookies.key"
	sealerInfo   = "learnly cookie jar"
)

type App struct {
	config  *config.Config
	log     logging.Logger
	db      *sql.DB
	session *session.Session
	flows   Flows
	google  *oauth.Google
	nav     *Navigator
	reader  *bufio.Reader
	out     io.Writer

	// page is the last page the navigator rendered.
	page Page
}

// NewApp wires the client from c. With an empty DataDir cookies live in
// memory only and the session ends with the process.
func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	jar, db, err := openJar(ctx, c.DataDir)
	if err != nil {
		log.Error(ctx, "error initializing cookie jar", "error", err)
		return nil, err
	}

	api, err := client.NewHTTPClient(c.BackendURL, jar,
		client.WithTimeout(c.RequestTimeout),
		client.WithLogger(log),
	)
	if err != nil {
		closeDB(db)
		return nil, err
	}

	notifier := notify.NewWriter(os.Stdout)
	st := store.New(api, jar, store.WithLogger(log))
	sess := session.New(st, jar, notifier,
		session.WithRenewalInterval(c.RenewalInterval),
		session.WithLogger(log),
	)
	flows := pages.New(sess, api, notifier,
		pages.WithDelay(c.PostSuccessDelay),
		pages.WithLogger(log),
	)

	var g *oauth.Google
	if c.GoogleEnabled() {
		g, err = oauth.NewGoogle(c.GoogleClientID, c.GoogleClientSecret, c.FrontendURL)
		if err != nil {
			closeDB(db)
			return nil, err
		}
	}

	app := newApp(c, log, sess, flows, bufio.NewReader(os.Stdin), os.Stdout)
	app.db = db
	app.google = g
	return app, nil
}

func newApp(c *config.Config, log logging.Logger, s *session.Session, f Flows, r *bufio.Reader, w io.Writer) *App {
	return &App{
		config:  c,
		log:     log,
		session: s,
		flows:   f,
		nav:     NewNavigator(NewRouter(c.AppName, s, f, log)),
		reader:  r,
		out:     w,
	}
}

// openJar returns the sqlite jar under dir, sealed with a per-installation
// secret, or a memory jar when dir is empty.
func openJar(ctx context.Context, dir string) (cookies.Jar, *sql.DB, error) {
	if dir == "" {
		return cookies.NewMemoryJar(), nil, nil
	}

	abs, err := filex.EnsureDir(dir)
	if err != nil {
		return nil, nil, err
	}

	secret, err := cryptox.LoadOrCreateSecret(filepath.Join(abs, secretFile))
	if err != nil {
		return nil, nil, err
	}
	sealer, err := cryptox.NewSealer(secret, sealerInfo)
	if err != nil {
		return nil, nil, err
	}

	db, err := client.InitDatabase(ctx, filepath.Join(abs, databaseFile))
	if err != nil {
		return nil, nil, fmt.Errorf("error initializing database: %w", err)
	}

	return cookies.NewSQLiteJar(db, cookies.WithSealer(sealer)), db, nil
}

func closeDB(db *sql.DB) {
	if db != nil {
		_ = db.Close()
	}
}

// Run restores the session, opens the home page and serves the REPL until
// the user exits or ctx is cancelled.
func (a *App) Run(ctx context.Context) {
	if err := a.session.Mount(ctx); err != nil {
		a.log.Error(ctx, "session restore failed", "error", err)
	}

	printlnFn(fmt.Sprintf("Welcome to %s CLI (type 'help' for commands)", a.config.AppName))
	_ = a.Open(ctx, "/")

	runREPL(ctx, a, a.getStatus, a.reader)
}

// Close stops background renewal and releases the cookie database.
func (a *App) Close() error {
	a.session.Unmount()
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}

func (a *App) isLoggedIn() bool {
	st := a.session.State()
	return st.LoggedIn() && st.User != nil
}

// getStatus renders the prompt's auth state: the signed-in user or
// "anonymous".
func (a *App) getStatus() string {
	st := a.session.State()
	switch {
	case !st.Ready:
		return "(loading)"
	case st.Authenticated && st.User != nil:
		s := displayName(st.User)
		if !st.User.Verified {
			s += ", unverified"
		}
		return fmt.Sprintf("(%s)", s)
	default:
		return "(anonymous)"
	}
}
