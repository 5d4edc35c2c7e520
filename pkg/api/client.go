// Package api is the REST client for the capture backend.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"tableflip.dev/dumpdash/pkg/dump"
)

const defaultTimeout = 30 * time.Second

// SessionStore persists the login session between runs.
type SessionStore interface {
	Session() (*dump.Session, error)
	SaveSession(s dump.Session) error
	ClearSession() error
}

// Client talks to the backend. It is safe for concurrent use.
type Client struct {
	rc       *resty.Client
	sessions SessionStore
	userID   string

	refreshMu sync.Mutex
}

// Option configures a Client during construction in New.
type Option func(*Client) error

// WithTimeout bounds each HTTP request. Only search supports cancellation
// beyond this.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) error {
		if d <= 0 {
			return fmt.Errorf("http timeout must be > 0")
		}
		c.rc.SetTimeout(d)
		return nil
	}
}

// WithSessionStore attaches the bearer token source and enables the
// refresh-on-401 flow.
func WithSessionStore(s SessionStore) Option {
	return func(c *Client) error {
		c.sessions = s
		return nil
	}
}

// WithUserID overrides the user id taken from the session.
func WithUserID(id string) Option {
	return func(c *Client) error {
		c.userID = strings.TrimSpace(id)
		return nil
	}
}

// WithDebugLogging logs every request and response at debug level.
func WithDebugLogging(enabled bool) Option {
	return func(c *Client) error {
		if enabled {
			c.rc.OnAfterResponse(logResponse)
		}
		return nil
	}
}

// New constructs a Client for the backend at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("api: base url required")
	}
	c := &Client{
		rc: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(defaultTimeout).
			SetHeader("Accept", "application/json").
			SetLogger(restyLogger{}),
	}
	c.rc.OnBeforeRequest(c.authorize)
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

type skipAuthKey struct{}

func withoutAuth(ctx context.Context) context.Context {
	return context.WithValue(ctx, skipAuthKey{}, true)
}

func skipsAuth(ctx context.Context) bool {
	v, _ := ctx.Value(skipAuthKey{}).(bool)
	return v
}

// authorize is the request interceptor: it tags every request with an id and
// attaches the current bearer token.
func (c *Client) authorize(_ *resty.Client, r *resty.Request) error {
	r.SetHeader("X-Request-ID", uuid.NewString())
	if c.sessions == nil || skipsAuth(r.Context()) {
		return nil
	}
	s, err := c.sessions.Session()
	if err != nil {
		log.Warn().Err(err).Msg("api: read session")
		return nil
	}
	if s.Valid() {
		r.SetAuthToken(s.AccessToken)
	}
	return nil
}

// UserID resolves the user whose dumps are listed.
func (c *Client) UserID() (string, error) {
	if c.userID != "" {
		return c.userID, nil
	}
	if c.sessions != nil {
		s, err := c.sessions.Session()
		if err != nil {
			return "", err
		}
		if s != nil && s.User.ID != "" {
			return s.User.ID, nil
		}
	}
	return "", ErrNoUser
}

func (c *Client) send(ctx context.Context, method, path string, body any) (*resty.Response, error) {
	r := c.rc.R().SetContext(ctx)
	if body != nil {
		r.SetHeader("Content-Type", "application/json").SetBody(body)
	}
	return r.Execute(method, path)
}

// do sends one request, refreshing the session once on 401 and retrying once.
func (c *Client) do(ctx context.Context, op, method, path string, body, out any) error {
	if ctx == nil {
		ctx = context.Background()
	}
	resp, err := c.send(ctx, method, path, body)
	if err != nil {
		requestsTotal.WithLabelValues(op, "network").Inc()
		return networkError(op, err)
	}

	if resp.StatusCode() == http.StatusUnauthorized && c.sessions != nil && !skipsAuth(ctx) {
		used := resp.Request.Token
		if rerr := c.refresh(ctx, used); rerr != nil {
			log.Warn().Err(rerr).Str("op", op).Msg("api: token refresh failed")
			c.expire()
			requestsTotal.WithLabelValues(op, "auth").Inc()
			return &Error{Kind: KindAuth, Op: op, StatusCode: http.StatusUnauthorized, Message: "session expired", Err: rerr}
		}
		resp, err = c.send(ctx, method, path, body)
		if err != nil {
			requestsTotal.WithLabelValues(op, "network").Inc()
			return networkError(op, err)
		}
		if resp.StatusCode() == http.StatusUnauthorized {
			c.expire()
			requestsTotal.WithLabelValues(op, "auth").Inc()
			return httpError(op, resp.StatusCode(), resp.Body())
		}
	}

	if resp.IsError() {
		e := httpError(op, resp.StatusCode(), resp.Body())
		requestsTotal.WithLabelValues(op, e.Kind.String()).Inc()
		return e
	}
	requestsTotal.WithLabelValues(op, "ok").Inc()

	if out == nil || len(resp.Body()) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return &Error{Kind: KindBusiness, Op: op, StatusCode: resp.StatusCode(), Message: "malformed response", Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

func (c *Client) expire() {
	if c.sessions == nil {
		return
	}
	if err := c.sessions.ClearSession(); err != nil {
		log.Warn().Err(err).Msg("api: clear session")
	}
}

func logResponse(_ *resty.Client, resp *resty.Response) error {
	log.Debug().
		Str("method", resp.Request.Method).
		Str("url", resp.Request.URL).
		Int("status", resp.StatusCode()).
		Dur("took", resp.Time()).
		Str("request_id", resp.Request.Header.Get("X-Request-ID")).
		Msg("api: response")
	return nil
}

// restyLogger routes resty's own diagnostics through zerolog.
type restyLogger struct{}

func (restyLogger) Errorf(format string, v ...interface{}) { logf(zerolog.ErrorLevel, format, v...) }
func (restyLogger) Warnf(format string, v ...interface{})  { logf(zerolog.DebugLevel, format, v...) }
func (restyLogger) Debugf(format string, v ...interface{}) { logf(zerolog.DebugLevel, format, v...) }

func logf(level zerolog.Level, format string, v ...interface{}) {
	log.WithLevel(level).Msgf("resty: "+strings.TrimSpace(format), v...)
}
