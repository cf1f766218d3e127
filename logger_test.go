package reqx_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/bluescreen10/reqx"
)

func TestAccessLog(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(404)
	}))
	defer srv.Close()

	output := &bytes.Buffer{}
	logger := reqx.AccessLogWithConfig(reqx.LoggerConfig{Format: "${method} ${url} ${status}", Output: output})

	c := reqx.New(reqx.WithBaseURL(srv.URL), reqx.WithMiddleware(logger))
	c.Do(context.Background(), reqx.Get("/endpoint", nil), reqx.RequestOptions{}, nil)

	got := output.String()
	expected := "GET " + srv.URL + "/endpoint 404"
	if got != expected {
		t.Fatalf("invalid log expected '%s' got '%s'", expected, got)
	}
}

func TestAccessLogError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	output := &bytes.Buffer{}
	logger := reqx.AccessLogWithConfig(reqx.LoggerConfig{Format: "${status}|${request_id}|${error}", Output: output})

	c := reqx.New(reqx.WithBaseURL(srv.URL), reqx.WithMiddleware(logger))
	c.Do(context.Background(), reqx.Get("/endpoint", nil), reqx.RequestOptions{}, nil)

	parts := strings.SplitN(output.String(), "|", 3)
	if len(parts) != 3 {
		t.Fatalf("invalid log got '%s'", output.String())
	}
	if parts[0] != "0" || parts[1] == "" || parts[2] == "" {
		t.Fatalf("expected status 0 with request id and error got '%s'", output.String())
	}
}
