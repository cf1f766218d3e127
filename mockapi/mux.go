package mockapi

import (
	"net/http"
	"strings"
)

// Middleware wraps a handler of the mock server.
type Middleware func(http.Handler) http.Handler

// chain wraps h so that mws[0] sees the request first.
func chain(h http.Handler, mws []Middleware) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

// ServeMux is an http.ServeMux with route groups and middlewares. The
// mock server mounts every API route in one group under its prefix:
//
//	mux := mockapi.NewServeMux()
//	mux.Use(mockapi.RequestLogger(log))
//
//	api := mux.Group(mockapi.DefaultPrefix, mockapi.ETag(false))
//	api.HandleFunc("GET /homeApi", homeHandler)
type ServeMux struct {
	*http.ServeMux
	middlewares []Middleware
}

// NewServeMux returns an empty ServeMux.
func NewServeMux() *ServeMux {
	return &ServeMux{ServeMux: http.NewServeMux()}
}

// Group mounts a new ServeMux under prefix. Requests reaching it have the
// prefix stripped and pass through the mux middlewares first, then
// through mws.
func (mux *ServeMux) Group(prefix string, mws ...Middleware) *ServeMux {
	prefix = strings.TrimSuffix(prefix, "/")
	group := NewServeMux()
	mux.Handle(prefix+"/", http.StripPrefix(prefix, chain(group, mws)))
	return group
}

// Use appends a middleware applied to every request of the mux.
func (mux *ServeMux) Use(mw Middleware) {
	mux.middlewares = append(mux.middlewares, mw)
}

func (mux *ServeMux) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	chain(mux.ServeMux, mux.middlewares).ServeHTTP(w, r)
}
