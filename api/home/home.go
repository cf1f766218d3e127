// Package home wraps the home feed endpoint.
package home

import (
	"context"
	"net/http"

	"github.com/bluescreen10/reqx"
)

// Path is the home feed endpoint, relative to the base URL.
const Path = "homeApi"

// Get returns the home feed.
func Get(ctx context.Context, c *reqx.Client, opts ...reqx.RequestOptions) (*HomeResult, error) {
	res, err := reqx.Fetch[*HomeResult](ctx, c, reqx.NewRequest(http.MethodGet, Path), requestOptions(opts))
	if err != nil {
		return nil, err
	}
	if res == nil {
		res = &HomeResult{}
	}
	return res, nil
}

// GetEnvelope returns the home feed together with the envelope code and
// message.
func GetEnvelope(ctx context.Context, c *reqx.Client, opts ...reqx.RequestOptions) (*reqx.Envelope[HomeResult], error) {
	return reqx.FetchEnvelope[HomeResult](ctx, c, reqx.NewRequest(http.MethodGet, Path), requestOptions(opts))
}

func requestOptions(opts []reqx.RequestOptions) reqx.RequestOptions {
	if len(opts) == 0 {
		return reqx.RequestOptions{}
	}
	return opts[0]
}
