// Package mockapi is a mock storefront backend. It answers every call
// with the {code, message, data} envelope the real backend uses, which
// makes it the target of mock routed requests, local development and
// tests.
//
// Usage:
//
//	srv := mockapi.New(mockapi.WithLogger(log))
//	srv.SetFixture("couponApi", mockapi.Fixture{Code: 200, Data: coupons})
//	http.ListenAndServe(":8081", srv)
//
// Routes live under the prefix (default DefaultPrefix):
//
//	GET  homeApi           home feed fixture
//	POST cartApi/add       echoes the parsed cart line
//	GET  userApi/info      401 without token, 11002 for "Bearer expired"
//	GET  envelope/{code}   envelope with the given code and ?message=
//	*    anything else     registered fixture, or a code 404 envelope
//
// GET responses carry an ETag and honor If-None-Match. Prometheus
// metrics are served on /metrics outside the prefix.
package mockapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/bluescreen10/reqx"
)

// DefaultPrefix mirrors the path of the hosted mock backend.
const DefaultPrefix = "/mock/3169"

// ExpiredToken is the Authorization value userApi/info answers with an
// illegal token code.
const ExpiredToken = "Bearer expired"

// Fixture is a canned envelope. Status is the HTTP status, 200 when zero.
type Fixture struct {
	Status  int
	Code    int
	Message string
	Data    any
}

// Server is the mock backend. It is safe for concurrent use.
type Server struct {
	mux      *ServeMux
	prefix   string
	log      zerolog.Logger
	registry *prometheus.Registry
	requests *prometheus.CounterVec

	mu       sync.RWMutex
	fixtures map[string]Fixture
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger used for request logs.
func WithLogger(log zerolog.Logger) Option {
	return func(s *Server) {
		s.log = log
	}
}

// WithPrefix sets the path prefix of the API routes.
func WithPrefix(prefix string) Option {
	return func(s *Server) {
		s.prefix = prefix
	}
}

// WithRegistry sets the registry exposed on /metrics.
func WithRegistry(reg *prometheus.Registry) Option {
	return func(s *Server) {
		s.registry = reg
	}
}

// New returns a mock backend serving the home fixture.
func New(opts ...Option) *Server {
	s := &Server{
		prefix:   DefaultPrefix,
		log:      zerolog.Nop(),
		fixtures: map[string]Fixture{"homeApi": {Code: reqx.CodeSuccess, Data: HomeFixture()}},
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.registry == nil {
		s.registry = prometheus.NewRegistry()
	}
	s.requests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "reqx",
			Subsystem: "mockapi",
			Name:      "requests_total",
			Help:      "Requests served by the mock backend.",
		},
		[]string{"method", "status"},
	)
	s.registry.MustRegister(s.requests)

	s.mux = NewServeMux()
	s.mux.Use(RequestLogger(s.log))
	s.mux.Use(s.countRequests)
	s.mux.Handle("GET /metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))

	api := s.mux.Group(s.prefix, ETag(false))
	api.HandleFunc("GET /homeApi", s.handleFixture)
	api.HandleFunc("POST /cartApi/add", s.handleAddToCart)
	api.HandleFunc("GET /userApi/info", s.handleUserInfo)
	api.HandleFunc("GET /envelope/{code}", s.handleEnvelope)
	api.HandleFunc("/", s.handleFixture)

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// Registry returns the registry exposed on /metrics.
func (s *Server) Registry() *prometheus.Registry {
	return s.registry
}

// SetFixture registers the envelope served for path, relative to the
// prefix.
func (s *Server) SetFixture(path string, f Fixture) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fixtures[strings.Trim(path, "/")] = f
}

func (s *Server) fixture(path string) (Fixture, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	f, ok := s.fixtures[strings.Trim(path, "/")]
	return f, ok
}

func (s *Server) handleFixture(w http.ResponseWriter, r *http.Request) {
	f, ok := s.fixture(r.URL.Path)
	if !ok {
		writeEnvelope(w, http.StatusOK, 404, "not found", nil)
		return
	}

	status := f.Status
	if status == 0 {
		status = http.StatusOK
	}
	writeEnvelope(w, status, f.Code, f.Message, f.Data)
}

type addToCartRequest struct {
	GoodsID string   `form:"goodsId,required" json:"goodsId"`
	Num     int      `form:"num" json:"num"`
	Price   float64  `form:"price" json:"price"`
	Checked bool     `form:"checked" json:"checked"`
	SKU     []string `form:"sku" json:"sku,omitempty"`
}

func (s *Server) handleAddToCart(w http.ResponseWriter, r *http.Request) {
	var req addToCartRequest
	if err := ParseBody(r, &req); err != nil {
		writeEnvelope(w, http.StatusOK, 400, err.Error(), nil)
		return
	}
	if req.GoodsID == "" {
		writeEnvelope(w, http.StatusOK, 400, "goodsId is required", nil)
		return
	}
	if req.Num < 1 {
		req.Num = 1
	}

	writeEnvelope(w, http.StatusOK, reqx.CodeSuccess, "Added to cart", req)
}

func (s *Server) handleUserInfo(w http.ResponseWriter, r *http.Request) {
	switch token := r.Header.Get("Authorization"); token {
	case "":
		writeEnvelope(w, http.StatusOK, 401, "", nil)
	case ExpiredToken:
		writeEnvelope(w, http.StatusOK, reqx.CodeTokenExpired, "token expired", nil)
	default:
		writeEnvelope(w, http.StatusOK, reqx.CodeSuccess, "", map[string]string{"token": token})
	}
}

func (s *Server) handleEnvelope(w http.ResponseWriter, r *http.Request) {
	code, err := strconv.Atoi(r.PathValue("code"))
	if err != nil {
		writeEnvelope(w, http.StatusBadRequest, 400, "code must be a number", nil)
		return
	}
	writeEnvelope(w, http.StatusOK, code, r.URL.Query().Get("message"), nil)
}

func (s *Server) countRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rw := newStatusRecorder(w)
		next.ServeHTTP(rw, r)

		status := rw.status
		if status == 0 {
			status = http.StatusOK
		}
		s.requests.WithLabelValues(r.Method, strconv.Itoa(status)).Inc()
	})
}

func writeEnvelope(w http.ResponseWriter, status, code int, message string, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(reqx.Envelope[any]{Code: code, Message: message, Data: data})
}
