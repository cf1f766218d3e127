package reqx

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"
)

// LoggerConfig configures the AccessLog middleware.
//
// Format may contain the variables ${time}, ${status}, ${latency},
// ${method}, ${url}, ${request_id} and ${error}. ${status} is 0 when no
// response was received.
type LoggerConfig struct {
	Format string
	Output io.Writer
}

var DefaultLoggerConfig = LoggerConfig{
	Format: "${time} | ${status} | ${latency} | ${method} | ${url} | ${error}\n",
	Output: os.Stdout,
}

// AccessLog returns a middleware logging every round trip with the
// default configuration.
func AccessLog() Middleware {
	return AccessLogWithConfig(DefaultLoggerConfig)
}

// AccessLogWithConfig returns an AccessLog middleware with the specified
// configuration.
//
//	c := reqx.New(reqx.WithMiddleware(reqx.AccessLogWithConfig(reqx.LoggerConfig{
//		Format: "${method} ${url} ${status}\n",
//		Output: os.Stderr,
//	})))
func AccessLogWithConfig(cfg LoggerConfig) Middleware {
	if cfg.Output == nil {
		cfg.Output = DefaultLoggerConfig.Output
	}
	if cfg.Format == "" {
		cfg.Format = DefaultLoggerConfig.Format
	}

	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
			start := time.Now()
			resp, err := next.RoundTrip(r)
			latency := time.Since(start)

			status := 0
			if resp != nil {
				status = resp.StatusCode
			}

			errText := ""
			if err != nil {
				errText = err.Error()
			}

			replacer := strings.NewReplacer(
				"${time}", start.Format(time.DateTime),
				"${status}", strconv.Itoa(status),
				"${latency}", latency.String(),
				"${method}", r.Method,
				"${url}", r.URL.String(),
				"${request_id}", r.Header.Get(RequestIDHeader),
				"${error}", errText,
			)

			fmt.Fprint(cfg.Output, replacer.Replace(cfg.Format))
			return resp, err
		})
	}
}
