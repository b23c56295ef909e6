package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const (
	maxRedirects = 10
	maxRetries   = 20
)

var (
	ErrTooManyRedirects = errors.New("too many redirects")
	ErrStillLoading     = errors.New("page is still loading")
)

// Page is what a navigation finally rendered.
type Page struct {
	// Location is the path and query that rendered, after redirects.
	Location string
	Status   int
	Body     string
}

// Path returns Location without its query.
func (p Page) Path() string {
	u, err := url.Parse(p.Location)
	if err != nil {
		return p.Location
	}
	return u.Path
}

// Query returns the named query parameter of Location.
func (p Page) Query(name string) string {
	u, err := url.Parse(p.Location)
	if err != nil {
		return ""
	}
	return u.Query().Get(name)
}

// screen is an in-memory http.ResponseWriter.
type screen struct {
	header http.Header
	status int
	body   bytes.Buffer
}

func newScreen() *screen {
	return &screen{header: make(http.Header)}
}

func (s *screen) Header() http.Header { return s.header }

func (s *screen) Write(b []byte) (int, error) {
	if s.status == 0 {
		s.status = http.StatusOK
	}
	return s.body.Write(b)
}

func (s *screen) WriteHeader(code int) {
	if s.status == 0 {
		s.status = code
	}
}

// Navigator drives an http.Handler the way a browser drives a site: it
// follows redirects and waits out loading responses.
type Navigator struct {
	handler http.Handler
	retry   time.Duration
	sleep   func(ctx context.Context, d time.Duration) error
}

func NewNavigator(h http.Handler) *Navigator {
	return &Navigator{handler: h, retry: 100 * time.Millisecond, sleep: sleepCtx}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Open requests location and returns the page it ends up on.
func (n *Navigator) Open(ctx context.Context, location string) (Page, error) {
	redirects, retries := 0, 0

	for {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
		if err != nil {
			return Page{}, fmt.Errorf("open %s: %w", location, err)
		}
		w := newScreen()
		n.handler.ServeHTTP(w, req)

		switch {
		case w.status >= 300 && w.status < 400:
			redirects++
			if redirects > maxRedirects {
				return Page{}, ErrTooManyRedirects
			}
			next := w.header.Get("Location")
			if next == "" {
				return Page{}, fmt.Errorf("redirect from %s without location", location)
			}
			location = req.URL.ResolveReference(mustParse(next)).RequestURI()

		case w.status == http.StatusAccepted:
			retries++
			if retries > maxRetries {
				return Page{}, ErrStillLoading
			}
			if err := n.sleep(ctx, n.retry); err != nil {
				return Page{}, err
			}

		default:
			status := w.status
			if status == 0 {
				status = http.StatusOK
			}
			return Page{Location: location, Status: status, Body: w.body.String()}, nil
		}
	}
}

func mustParse(s string) *url.URL {
	u, err := url.Parse(s)
	if err != nil {
		return &url.URL{Path: "/"}
	}
	return u
}
