// Package client talks to the academy API and keeps working from bundled
// data and local storage when the API cannot be reached.
package client

import (
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/labstack/gommon/log"

	"academy/internal/seed"
)

// DefaultTimeout bounds a single API call.
const DefaultTimeout = 10 * time.Second

// LoginRoute is where callers send the user after Logout.
const LoginRoute = "/login"

// FallbackHook is called every time a call is answered from local data.
type FallbackHook func(endpoint string, err error)

// Client is the API client. It is safe for concurrent use.
type Client struct {
	baseURL   string
	http      *http.Client
	store     Store
	session   *Session
	fallback  seed.Dataset
	demoLogin bool
	hook      FallbackHook
	logger    *log.Logger
	now       func() time.Time

	degraded atomic.Bool
	// progressMu serializes local progress merges.
	progressMu sync.Mutex

	Courses   *CourseEntity
	Resources *ResourceEntity
	Progress  *ProgressEntity
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout sets the per-call timeout of the HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithStore sets the local storage. The default is a MemoryStore.
func WithStore(s Store) Option {
	return func(c *Client) {
		if s != nil {
			c.store = s
		}
	}
}

// WithFallbackData replaces the bundled dataset.
func WithFallbackData(d seed.Dataset) Option {
	return func(c *Client) {
		c.fallback = d
	}
}

// WithDemoLogin lets Login accept the bundled demo accounts while the API is down.
func WithDemoLogin(enabled bool) Option {
	return func(c *Client) {
		c.demoLogin = enabled
	}
}

// WithFallbackHook registers fn to observe degraded calls.
func WithFallbackHook(fn FallbackHook) Option {
	return func(c *Client) {
		c.hook = fn
	}
}

// WithLogger logs fallbacks to l.
func WithLogger(l *log.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// WithClock overrides the time source used for local progress merges.
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		if now != nil {
			c.now = now
		}
	}
}

// New creates a client for the API rooted at baseURL, e.g. http://localhost:8080/api.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		http:     &http.Client{Timeout: DefaultTimeout},
		store:    NewMemoryStore(),
		fallback: seed.Default(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.session = NewSession(c.store)

	c.Courses = &CourseEntity{c: c}
	c.Resources = &ResourceEntity{c: c}
	c.Progress = &ProgressEntity{c: c}
	return c
}

// Degraded reports whether the last call was answered from local data.
func (c *Client) Degraded() bool {
	return c.degraded.Load()
}

// Session returns the stored session, if any.
func (c *Client) Session() (SessionState, bool) {
	return c.session.Load()
}

func (c *Client) markLive() {
	c.degraded.Store(false)
}

func (c *Client) markDegraded(endpoint string, err error) {
	c.degraded.Store(true)
	if c.logger != nil {
		c.logger.Warnf("%s unavailable, using local data: %v", endpoint, err)
	}
	if c.hook != nil {
		c.hook(endpoint, err)
	}
}

func (c *Client) warnf(format string, args ...interface{}) {
	if c.logger != nil {
		c.logger.Warnf(format, args...)
	}
}

func (c *Client) clearSession() {
	if err := c.session.Clear(); err != nil && c.logger != nil {
		c.logger.Errorf("clear session: %v", err)
	}
}
