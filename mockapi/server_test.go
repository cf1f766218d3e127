package mockapi_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/bluescreen10/reqx"
	"github.com/bluescreen10/reqx/memstore"
	"github.com/bluescreen10/reqx/mockapi"
)

func newClient(t *testing.T, opts ...reqx.Option) (*reqx.Client, *mockapi.Server) {
	t.Helper()

	mock := mockapi.New()
	srv := httptest.NewServer(mock)
	t.Cleanup(srv.Close)

	opts = append([]reqx.Option{reqx.WithBaseURL(srv.URL + mockapi.DefaultPrefix)}, opts...)
	return reqx.New(opts...), mock
}

func TestAddToCartJSON(t *testing.T) {
	c, _ := newClient(t)

	type line struct {
		GoodsID string `json:"goodsId"`
		Num     int    `json:"num"`
	}

	env, err := reqx.FetchEnvelope[line](context.Background(), c,
		reqx.Post("cartApi/add", reqx.JSONBody(map[string]any{"goodsId": "42", "num": 2})), reqx.RequestOptions{})
	if err != nil {
		t.Fatal(err)
	}

	if env.Message != "Added to cart" || env.Data.GoodsID != "42" || env.Data.Num != 2 {
		t.Fatalf("expected the echoed line got '%v'", *env)
	}
}

func TestAddToCartForm(t *testing.T) {
	c, _ := newClient(t)

	got, err := reqx.Fetch[map[string]any](context.Background(), c,
		reqx.Post("cartApi/add", reqx.FormBody(url.Values{"goodsId": {"7"}})), reqx.RequestOptions{})
	if err != nil {
		t.Fatal(err)
	}

	if got["goodsId"] != "7" || got["num"] != float64(1) {
		t.Fatalf("expected '{7 1}' got '%v'", got)
	}
}

func TestAddToCartFormLine(t *testing.T) {
	c, _ := newClient(t)

	type line struct {
		GoodsID string   `json:"goodsId"`
		Num     int      `json:"num"`
		Price   float64  `json:"price"`
		Checked bool     `json:"checked"`
		SKU     []string `json:"sku"`
	}

	form := url.Values{"goodsId": {"7"}, "num": {"2"}, "price": {"19.9"}, "checked": {"on"}, "sku": {"red", "xl"}}
	got, err := reqx.Fetch[line](context.Background(), c, reqx.Post("cartApi/add", reqx.FormBody(form)), reqx.RequestOptions{})
	if err != nil {
		t.Fatal(err)
	}

	if got.GoodsID != "7" || got.Num != 2 || got.Price != 19.9 || !got.Checked {
		t.Fatalf("expected '{7 2 19.9 true}' got '%v'", got)
	}
	if len(got.SKU) != 2 || got.SKU[0] != "red" || got.SKU[1] != "xl" {
		t.Fatalf("expected '[red xl]' got '%v'", got.SKU)
	}
}

func TestAddToCartInvalidPrice(t *testing.T) {
	c, _ := newClient(t)

	err := c.Do(context.Background(), reqx.Post("cartApi/add", reqx.FormBody(url.Values{"goodsId": {"7"}, "price": {"cheap"}})), reqx.RequestOptions{}, nil)
	if reqx.Code(err) != 400 {
		t.Fatalf("expected '400' got '%v'", err)
	}
}

func TestAddToCartMissingGoods(t *testing.T) {
	c, _ := newClient(t)

	err := c.Do(context.Background(), reqx.Post("cartApi/add", reqx.FormBody(url.Values{"num": {"1"}})), reqx.RequestOptions{}, nil)
	if reqx.Code(err) != 400 || err.Error() != "Invalid parameters!" {
		t.Fatalf("expected '400 Invalid parameters!' got '%v'", err)
	}
}

func TestUserInfo(t *testing.T) {
	ctx := context.Background()
	storage := reqx.NewStorage(memstore.New())
	c, _ := newClient(t, reqx.WithStorage(storage))

	err := c.Do(ctx, reqx.Get("userApi/info", nil), reqx.RequestOptions{}, nil)
	if reqx.Code(err) != 401 {
		t.Fatalf("expected '401' got '%v'", err)
	}

	storage.SetToken(ctx, "Bearer good")
	got, err := reqx.Fetch[map[string]string](ctx, c, reqx.Get("userApi/info", nil), reqx.RequestOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if got["token"] != "Bearer good" {
		t.Fatalf("expected 'Bearer good' got '%s'", got["token"])
	}

	storage.SetToken(ctx, mockapi.ExpiredToken)
	err = c.Do(ctx, reqx.Get("userApi/info", nil), reqx.RequestOptions{}, nil)
	apiErr, ok := reqx.AsAPIError(err)
	if !ok || !apiErr.IsSessionInvalid() {
		t.Fatalf("expected an illegal token error got '%v'", err)
	}
}

func TestEnvelopeRoute(t *testing.T) {
	c, _ := newClient(t)

	err := c.Do(context.Background(), reqx.Get("envelope/999", url.Values{"message": {"custom"}}), reqx.RequestOptions{}, nil)
	if reqx.Code(err) != 999 || err.Error() != "custom" {
		t.Fatalf("expected '999 custom' got '%v'", err)
	}
}

func TestFixtures(t *testing.T) {
	c, mock := newClient(t)
	ctx := context.Background()

	err := c.Do(ctx, reqx.Get("couponApi", nil), reqx.RequestOptions{}, nil)
	if reqx.Code(err) != 404 || !strings.HasSuffix(err.Error(), mockapi.DefaultPrefix+"/couponApi") {
		t.Fatalf("expected a 404 envelope got '%v'", err)
	}

	mock.SetFixture("/couponApi/", mockapi.Fixture{Code: 200, Data: []string{"WELCOME10"}})
	got, err := reqx.Fetch[[]string](ctx, c, reqx.Get("couponApi", nil), reqx.RequestOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0] != "WELCOME10" {
		t.Fatalf("expected '[WELCOME10]' got '%v'", got)
	}

	mock.SetFixture("brokenApi", mockapi.Fixture{Status: http.StatusBadGateway, Code: 502, Message: "upstream down"})
	err = c.Do(ctx, reqx.Get("brokenApi", nil), reqx.RequestOptions{}, nil)
	if reqx.Code(err) != http.StatusBadGateway {
		t.Fatalf("expected '502' got '%v'", err)
	}
	if tErr, ok := err.(*reqx.TransportError); !ok || tErr.Message != "upstream down" {
		t.Fatalf("expected 'upstream down' got '%v'", err)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	mock := mockapi.New()
	srv := httptest.NewServer(mock)
	defer srv.Close()

	http.Get(srv.URL + mockapi.DefaultPrefix + "/homeApi")

	resp, err := http.Get(srv.URL + "/metrics")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), `reqx_mockapi_requests_total{method="GET",status="200"}`) {
		t.Fatalf("expected request counter in '%s'", body)
	}
}
