package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/learnly/internal/client/cookies"
	"github.com/dmitrijs2005/learnly/internal/client/models"
	"github.com/dmitrijs2005/learnly/internal/common"
	"github.com/dmitrijs2005/learnly/internal/logging"
	"github.com/google/uuid"
)

const maxResponseSize = 1 << 20

// envelope is the backend's response wrapper.
type envelope struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type HTTPClient struct {
	baseURL   *url.URL
	http      *http.Client
	jar       cookies.Jar
	log       logging.Logger
	requestID func() string
	timeout   time.Duration
}

type HTTPOption func(*HTTPClient)

func WithHTTPClient(c *http.Client) HTTPOption {
	return func(h *HTTPClient) { h.http = c }
}

// WithTimeout sets the request timeout. It applies to a copy of the
// underlying *http.Client, whichever order the options come in.
func WithTimeout(d time.Duration) HTTPOption {
	return func(h *HTTPClient) { h.timeout = d }
}

func WithLogger(l logging.Logger) HTTPOption {
	return func(h *HTTPClient) { h.log = l }
}

func NewHTTPClient(baseURL string, jar cookies.Jar, opts ...HTTPOption) (*HTTPClient, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse backend url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("backend url %q must be absolute", baseURL)
	}

	c := &HTTPClient{
		baseURL:   u,
		http:      http.DefaultClient,
		jar:       jar,
		log:       logging.NewNop(),
		requestID: uuid.NewString,
		timeout:   30 * time.Second,
	}
	for _, o := range opts {
		o(c)
	}
	if c.timeout > 0 {
		hc := *c.http
		hc.Timeout = c.timeout
		c.http = &hc
	}
	return c, nil
}

func (c *HTTPClient) newRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		r = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL.String()+path, r)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(common.RequestIDHeaderName, c.requestID())

	jarCookies, err := c.jar.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("read cookies: %w", err)
	}
	for _, ck := range jarCookies {
		req.AddCookie(&http.Cookie{Name: ck.Name, Value: ck.Value})
		if ck.Name == cookies.AccessToken && ck.Value != "" {
			req.Header.Set(common.AuthorizationHeaderName, "Bearer "+ck.Value)
		}
	}
	return req, nil
}

// do sends the request and decodes the envelope's data into out when out is
// not nil. It returns the envelope message.
func (c *HTTPClient) do(ctx context.Context, method, path string, body, out any) (string, error) {
	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return "", err
	}
	reqID := req.Header.Get(common.RequestIDHeaderName)

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn(ctx, "request failed", "method", method, "path", path, "request_id", reqID, "error", err)
		return "", fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return "", fmt.Errorf("%w: read response: %w", ErrUnavailable, err)
	}

	var env envelope
	if len(bytes.TrimSpace(raw)) > 0 {
		if err := json.Unmarshal(raw, &env); err != nil && resp.StatusCode < 300 {
			return "", fmt.Errorf("decode response: %w", err)
		}
	}

	status := resp.StatusCode
	if status < 300 && env.Status >= 400 {
		status = env.Status
	}
	c.log.Debug(ctx, "request done", "method", method, "path", path, "request_id", reqID, "status", status)

	if status >= 300 {
		return "", &APIError{Status: status, Message: env.Message}
	}

	if out != nil {
		if len(env.Data) == 0 || string(env.Data) == "null" {
			return "", fmt.Errorf("decode response: empty data")
		}
		if err := json.Unmarshal(env.Data, out); err != nil {
			return "", fmt.Errorf("decode response: %w", err)
		}
	}
	return env.Message, nil
}

func (c *HTTPClient) tokens(ctx context.Context, method, path string, body any) (*models.BackendTokens, error) {
	var t models.BackendTokens
	if _, err := c.do(ctx, method, path, body, &t); err != nil {
		return nil, err
	}
	if t.AccessToken == "" {
		return nil, common.ErrInvalidToken
	}
	return &t, nil
}

func (c *HTTPClient) Login(ctx context.Context, creds models.Credentials) (*models.BackendTokens, error) {
	return c.tokens(ctx, http.MethodPost, "/api/auth/login", creds)
}

func (c *HTTPClient) GetUser(ctx context.Context) (*models.User, error) {
	var u models.User
	if _, err := c.do(ctx, http.MethodGet, "/api/auth/user", nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *HTTPClient) Refresh(ctx context.Context) (*models.BackendTokens, error) {
	return c.tokens(ctx, http.MethodPost, "/api/auth/refresh", nil)
}

func (c *HTTPClient) Logout(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodPost, "/api/auth/logout", nil, nil)
	return err
}

func (c *HTTPClient) Register(ctx context.Context, reg models.Registration) error {
	_, err := c.do(ctx, http.MethodPost, "/api/auth/register", reg, nil)
	return err
}

func (c *HTTPClient) RequestReset(ctx context.Context, rec models.Recognition) (string, error) {
	body := struct {
		Recognition models.Recognition `json:"recognition"`
	}{rec}
	return c.do(ctx, http.MethodPost, "/api/auth/reset", body, nil)
}

func (c *HTTPClient) CheckResetLink(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodGet, "/api/auth/reset/"+url.PathEscape(id), nil, nil)
	return err
}

func (c *HTTPClient) ResetPassword(ctx context.Context, id, password string) error {
	body := struct {
		Password string `json:"password"`
	}{password}
	_, err := c.do(ctx, http.MethodPost, "/api/auth/reset/"+url.PathEscape(id), body, nil)
	return err
}

func (c *HTTPClient) SignInWithGoogle(ctx context.Context, credential string) (*models.BackendTokens, error) {
	body := struct {
		Token string `json:"token"`
	}{credential}
	return c.tokens(ctx, http.MethodPost, "/api/auth/google", body)
}

func (c *HTTPClient) VerifyAccount(ctx context.Context, otp string) error {
	body := struct {
		OTP string `json:"otp"`
	}{otp}
	_, err := c.do(ctx, http.MethodPost, "/api/auth/verify", body, nil)
	return err
}

// IsUnavailable reports a transport failure as opposed to a server answer.
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrUnavailable)
}
