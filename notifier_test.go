package reqx_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/bluescreen10/reqx"
)

func TestLogNotifierIsDefault(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, 500, "", nil)
	}))
	defer srv.Close()

	var buf bytes.Buffer
	c := reqx.New(reqx.WithBaseURL(srv.URL), reqx.WithLogger(zerolog.New(&buf)))

	c.Do(context.Background(), reqx.Get("boom", nil), reqx.RequestOptions{}, nil)

	if !strings.Contains(buf.String(), `"title":"Internal server error!"`) {
		t.Fatalf("expected the notification to be logged got '%s'", buf.String())
	}
}

func TestNotifierFunc(t *testing.T) {
	var got string
	n := reqx.NotifierFunc(func(ctx context.Context, title string) {
		got = title
	})

	n.Notify(context.Background(), "hello")
	if got != "hello" {
		t.Fatalf("expected 'hello' got '%s'", got)
	}
}
