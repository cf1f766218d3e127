package reqx

import (
	"net/http"
	"net/url"
)

// Request describes a call to the backend. URL is relative to the base
// URL selected for the call; Params are appended as the query string.
type Request struct {
	Method string
	URL    string
	Params url.Values
	Body   Body
	Header http.Header
}

// NewRequest returns a request for method and path with an empty body.
func NewRequest(method, path string) *Request {
	return &Request{Method: method, URL: path, Header: http.Header{}}
}

// Get returns a GET request carrying params as its query string.
func Get(path string, params url.Values) *Request {
	r := NewRequest(http.MethodGet, path)
	r.Params = params
	return r
}

// Post returns a POST request carrying body.
func Post(path string, body Body) *Request {
	r := NewRequest(http.MethodPost, path)
	r.Body = body
	return r
}

func (r *Request) method() string {
	if r.Method == "" {
		return http.MethodGet
	}
	return r.Method
}

// withURL returns a shallow copy of r pointing at u.
func (r *Request) withURL(u string) *Request {
	cp := *r
	cp.URL = u
	return &cp
}
