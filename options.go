package reqx

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// RequestOptions tune a single call.
type RequestOptions struct {
	// SuccessMsg is notified when the call succeeds.
	SuccessMsg string
	// ErrorMsg replaces the notified text when the call fails.
	ErrorMsg string
	// PermCode names the permission the endpoint requires, e.g.
	// "sys:user:add". It is carried for logging and not enforced.
	PermCode string
	// Mock routes the call to the mock base URL.
	Mock bool
	// FullEnvelope decodes the whole {code, message, data} envelope into
	// the destination instead of only data.
	FullEnvelope bool
	// Timeout overrides the client timeout when positive.
	Timeout time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the http.Client used to send requests. Its
// Transport is wrapped with the configured middlewares.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithBaseURL sets the prefix of non mock calls. (default DefaultBaseURL)
func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.baseURL = u
	}
}

// WithMockURL sets the prefix of calls made with RequestOptions.Mock.
func WithMockURL(u string) Option {
	return func(c *Client) {
		c.mockURL = u
	}
}

// WithTimeout sets the per request timeout. (default DefaultTimeout)
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithStorage sets the storage the session token is read from.
func WithStorage(s *Storage) Option {
	return func(c *Client) {
		c.storage = s
	}
}

// WithNotifier sets the notifier used for success and error messages.
func WithNotifier(n Notifier) Option {
	return func(c *Client) {
		c.notifier = n
	}
}

// WithLogger sets the structured logger.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) {
		c.log = log
	}
}

// WithMetrics enables prometheus metrics.
func WithMetrics(m *Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// WithMiddleware appends transport middlewares. The first one added is
// the outermost.
func WithMiddleware(mws ...Middleware) Option {
	return func(c *Client) {
		c.middlewares = append(c.middlewares, mws...)
	}
}

// WithSessionListener registers a listener for session invalidation
// events.
func WithSessionListener(l SessionListener) Option {
	return func(c *Client) {
		c.listeners = append(c.listeners, l)
	}
}
