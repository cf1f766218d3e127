// Package reqx is the request layer of the storefront client. It sends
// calls to the backend, keeps at most one identical request in flight,
// decodes the {code, message, data} envelope every endpoint answers with
// and translates failures into user facing messages.
//
// Usage:
//
//	storage := reqx.NewStorage(memstore.New())
//	client := reqx.New(
//		reqx.WithStorage(storage),
//		reqx.WithNotifier(reqx.NotifierFunc(func(ctx context.Context, title string) {
//			fmt.Println(title)
//		})),
//	)
//
//	home, err := reqx.Fetch[home.HomeResult](ctx, client, reqx.Get("homeApi", nil), reqx.RequestOptions{})
//	if err != nil {
//		if apiErr, ok := reqx.AsAPIError(err); ok {
//			fmt.Println(apiErr.Code, apiErr.Message)
//		}
//	}
//
// Responses carrying one of the illegal token codes are reported to the
// registered SessionListeners; see package session for the controller
// that wipes local state.
package reqx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"
)

const (
	// DefaultBaseURL is the prefix of every non mock call.
	DefaultBaseURL = "https://yapi.pro/mock/3169/"
	// DefaultTimeout bounds a single request.
	DefaultTimeout = 6000 * time.Millisecond
	// RequestIDHeader carries a fresh uuid on every dispatched request.
	RequestIDHeader = "X-Request-ID"
)

// Client sends requests to the backend. It is safe for concurrent use.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	mockURL     string
	timeout     time.Duration
	storage     *Storage
	notifier    Notifier
	log         zerolog.Logger
	metrics     *Metrics
	middlewares []Middleware
	pending     *PendingTracker

	mu        sync.RWMutex
	listeners []SessionListener
}

// New returns a Client configured with opts.
func New(opts ...Option) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		timeout: DefaultTimeout,
		log:     zerolog.Nop(),
		pending: NewPendingTracker(),
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.notifier == nil {
		c.notifier = NewLogNotifier(c.log)
	}

	hc := &http.Client{}
	if c.httpClient != nil {
		*hc = *c.httpClient
	}
	hc.Transport = Chain(hc.Transport, c.middlewares...)
	c.httpClient = hc

	return c
}

// Pending returns the tracker of in-flight requests.
func (c *Client) Pending() *PendingTracker {
	return c.pending
}

// Storage returns the storage the session token is read from. It may be
// nil.
func (c *Client) Storage() *Storage {
	return c.storage
}

// OnSessionInvalid registers a listener for session invalidation events.
func (c *Client) OnSessionInvalid(l SessionListener) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, l)
}

// Do sends req and decodes the response into dst, which may be nil.
//
// By default only the envelope data is decoded; set
// RequestOptions.FullEnvelope to decode the whole envelope. Failures are
// returned as *APIError or *TransportError, and a call cancelled by a
// newer identical request returns ErrSuperseded.
func (c *Client) Do(ctx context.Context, req *Request, opts RequestOptions, dst any) error {
	method := strings.ToUpper(req.method())

	if opts.PermCode != "" {
		c.log.Debug().Str("perm_code", opts.PermCode).Str("url", req.URL).Msg("Permission code is not enforced")
	}

	fullURL, err := c.resolveURL(req.URL, opts.Mock)
	if err != nil {
		return err
	}
	resolved := req.withURL(fullURL)

	fp, err := Fingerprint(resolved)
	if err != nil {
		return err
	}

	dedupCtx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	id, superseded := c.pending.Supersede(fp, cancel)
	if superseded {
		c.log.Debug().Str("method", method).Str("url", fullURL).Msg("Cancelled identical in-flight request")
	}
	defer c.pending.Release(fp, id)

	reqCtx := dedupCtx
	timeout := c.timeout
	if opts.Timeout > 0 {
		timeout = opts.Timeout
	}
	if timeout > 0 {
		var cancelTimeout context.CancelFunc
		reqCtx, cancelTimeout = context.WithTimeout(dedupCtx, timeout)
		defer cancelTimeout()
	}

	httpReq, err := c.newHTTPRequest(reqCtx, resolved, method)
	if err != nil {
		return err
	}

	start := time.Now()
	c.log.Debug().
		Str("method", method).
		Str("url", fullURL).
		Str("request_id", httpReq.Header.Get(RequestIDHeader)).
		Msg("Dispatching request")

	status, body, err := c.send(httpReq)
	if err != nil {
		if errors.Is(context.Cause(dedupCtx), ErrSuperseded) {
			c.metrics.observe(method, OutcomeSupersede, start)
			c.log.Debug().Str("method", method).Str("url", fullURL).Msg("Request superseded")
			return ErrSuperseded
		}

		if ctx.Err() != nil && !errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("reqx: request cancelled: %w", context.Cause(ctx))
		}

		return c.transportFailure(ctx, method, fullURL, opts, start, &TransportError{
			Status:  status,
			Timeout: errors.Is(err, context.DeadlineExceeded),
			Err:     err,
		}, body)
	}

	if status < 200 || status > 299 {
		return c.transportFailure(ctx, method, fullURL, opts, start, &TransportError{
			Status: status,
			Err:    fmt.Errorf("reqx: unexpected status %d", status),
		}, body)
	}

	env, err := decodeEnvelope(body)
	if err != nil {
		return c.transportFailure(ctx, method, fullURL, opts, start, &TransportError{
			Status: status,
			Err:    err,
		}, body)
	}

	if !env.OK() {
		msg := MessageFor(env.Code, env.Message, fullURL)
		c.notifyFailure(ctx, opts, msg)
		c.log.Warn().Int("code", env.Code).Str("url", fullURL).Str("message", msg).Msg("Request rejected")

		if IsSessionInvalidCode(env.Code) {
			c.emitSessionEvent(ctx, SessionEvent{Code: env.Code, URL: fullURL, Message: msg})
		}

		c.metrics.observe(method, OutcomeAPIError, start)
		return &APIError{Code: env.Code, Message: msg, URL: fullURL}
	}

	if dst != nil {
		var derr error
		if opts.FullEnvelope {
			derr = json.Unmarshal(body, dst)
		} else if len(env.Data) > 0 {
			derr = json.Unmarshal(env.Data, dst)
		}
		if derr != nil {
			return c.transportFailure(ctx, method, fullURL, opts, start, &TransportError{
				Status: status,
				Err:    fmt.Errorf("%w: %v", ErrMalformedEnvelope, derr),
			}, nil)
		}
	}

	if opts.SuccessMsg != "" {
		c.notifier.Notify(ctx, opts.SuccessMsg)
	}

	c.metrics.observe(method, OutcomeSuccess, start)
	return nil
}

// Fetch sends req and returns the decoded envelope data.
func Fetch[T any](ctx context.Context, c *Client, req *Request, opts RequestOptions) (T, error) {
	var out T
	opts.FullEnvelope = false
	err := c.Do(ctx, req, opts, &out)
	return out, err
}

// FetchEnvelope sends req and returns the whole decoded envelope.
func FetchEnvelope[T any](ctx context.Context, c *Client, req *Request, opts RequestOptions) (*Envelope[T], error) {
	env := &Envelope[T]{}
	opts.FullEnvelope = true
	if err := c.Do(ctx, req, opts, env); err != nil {
		return nil, err
	}
	return env, nil
}

func (c *Client) resolveURL(path string, mock bool) (string, error) {
	base := c.baseURL
	if mock {
		if c.mockURL == "" {
			return "", errors.New("reqx: mock base url is not configured")
		}
		base = c.mockURL
	}
	return UniqueSlash(base + "/" + path), nil
}

func (c *Client) newHTTPRequest(ctx context.Context, req *Request, method string) (*http.Request, error) {
	target, err := url.Parse(req.URL)
	if err != nil {
		return nil, fmt.Errorf("reqx: invalid request url %q: %w", req.URL, err)
	}

	if len(req.Params) > 0 {
		q := target.Query()
		for k, vs := range req.Params {
			for _, v := range vs {
				q.Add(k, v)
			}
		}
		target.RawQuery = q.Encode()
	}

	body, contentType, err := req.Body.encode()
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, target.String(), body)
	if err != nil {
		return nil, fmt.Errorf("reqx: failed to build request: %w", err)
	}

	for k, vs := range req.Header {
		httpReq.Header[k] = slices.Clone(vs)
	}
	if contentType != "" && httpReq.Header.Get("Content-Type") == "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	httpReq.Header.Set("Accept", "application/json")

	if c.storage != nil {
		if token := c.storage.Token(ctx); token != "" {
			httpReq.Header.Set("Authorization", token)
		}
	}
	httpReq.Header.Set(RequestIDHeader, uuid.NewString())

	return httpReq, nil
}

// send performs the round trip and reads the whole response body.
func (c *Client) send(r *http.Request) (int, []byte, error) {
	resp, err := c.httpClient.Do(r)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	return resp.StatusCode, body, err
}

func decodeEnvelope(body []byte) (*Envelope[json.RawMessage], error) {
	if !gjson.ValidBytes(body) || !gjson.GetBytes(body, "code").Exists() {
		return nil, ErrMalformedEnvelope
	}

	env := &Envelope[json.RawMessage]{}
	if err := json.Unmarshal(body, env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedEnvelope, err)
	}
	return env, nil
}

// transportFailure completes tErr with the best effort server message,
// notifies it and returns it.
func (c *Client) transportFailure(ctx context.Context, method, fullURL string, opts RequestOptions, start time.Time, tErr *TransportError, body []byte) error {
	tErr.Message = UnknownError
	if msg := gjson.GetBytes(body, "message"); msg.Exists() && msg.String() != "" {
		tErr.Message = msg.String()
	}

	c.notifyFailure(ctx, opts, tErr.Message)
	c.log.Warn().
		Err(tErr.Err).
		Int("status", tErr.Status).
		Bool("timeout", tErr.Timeout).
		Str("url", fullURL).
		Msg("Request failed")

	if code := gjson.GetBytes(body, "code"); code.Type == gjson.Number && IsSessionInvalidCode(int(code.Int())) {
		c.emitSessionEvent(ctx, SessionEvent{Code: int(code.Int()), URL: fullURL, Message: tErr.Message})
	}

	c.metrics.observe(method, OutcomeTransport, start)
	return tErr
}

func (c *Client) notifyFailure(ctx context.Context, opts RequestOptions, msg string) {
	if opts.ErrorMsg != "" {
		msg = opts.ErrorMsg
	}
	c.notifier.Notify(ctx, msg)
}

func (c *Client) emitSessionEvent(ctx context.Context, ev SessionEvent) {
	c.mu.RLock()
	listeners := slices.Clone(c.listeners)
	c.mu.RUnlock()

	c.log.Error().Int("code", ev.Code).Str("url", ev.URL).Msg("Session token rejected by server")
	c.metrics.sessionReset()

	for _, l := range listeners {
		l.SessionInvalidated(ctx, ev)
	}
}
