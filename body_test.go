package reqx_test

import (
	"encoding/json"
	"net/url"
	"reflect"
	"testing"

	"github.com/bluescreen10/reqx"
)

func TestNormalizeJSONAndRawAgree(t *testing.T) {
	v := map[string]any{"id": 1, "name": "cup", "tags": []string{"a"}}
	data, _ := json.Marshal(v)

	a, err := reqx.JSONBody(v).Normalize()
	if err != nil {
		t.Fatal(err)
	}
	b, err := reqx.RawBody(data, "application/json; charset=utf-8").Normalize()
	if err != nil {
		t.Fatal(err)
	}

	if !reflect.DeepEqual(a, b) {
		t.Fatalf("expected '%v' got '%v'", a, b)
	}
}

func TestNormalizeKinds(t *testing.T) {
	none, err := reqx.NoBody().Normalize()
	if err != nil || none != nil {
		t.Fatalf("expected nil got '%v' (%v)", none, err)
	}

	text, err := reqx.RawBody([]byte("hello"), "text/plain").Normalize()
	if err != nil {
		t.Fatal(err)
	}
	if text != "hello" {
		t.Fatalf("expected 'hello' got '%v'", text)
	}

	form, err := reqx.FormBody(url.Values{"a": {"1"}}).Normalize()
	if err != nil {
		t.Fatal(err)
	}
	if got := form.(url.Values).Get("a"); got != "1" {
		t.Fatalf("expected '1' got '%s'", got)
	}

	notJSON, err := reqx.RawBody([]byte("{broken"), "").Normalize()
	if err != nil {
		t.Fatal(err)
	}
	if notJSON != "{broken" {
		t.Fatalf("expected '{broken' got '%v'", notJSON)
	}
}

func TestNormalizeTextBodyHoldingJSON(t *testing.T) {
	v := map[string]any{"goodsId": 7}

	a, err := reqx.JSONBody(v).Normalize()
	if err != nil {
		t.Fatal(err)
	}
	b, err := reqx.RawBody([]byte(`{"goodsId":7}`), "text/plain; charset=utf-8").Normalize()
	if err != nil {
		t.Fatal(err)
	}

	if !reflect.DeepEqual(a, b) {
		t.Fatalf("expected '%v' got '%v'", a, b)
	}

	xml, err := reqx.RawBody([]byte(`{"goodsId":7}`), "application/xml").Normalize()
	if err != nil {
		t.Fatal(err)
	}
	if xml != `{"goodsId":7}` {
		t.Fatalf("expected the raw string got '%v'", xml)
	}
}

func TestNormalizeInvalidJSONContentType(t *testing.T) {
	_, err := reqx.RawBody([]byte("{broken"), "application/json").Normalize()
	if err == nil {
		t.Fatal("expected an error")
	}
}

func TestBodyKind(t *testing.T) {
	cases := map[reqx.BodyKind]reqx.Body{
		reqx.BodyNone: reqx.NoBody(),
		reqx.BodyJSON: reqx.JSONBody(1),
		reqx.BodyRaw:  reqx.RawBody(nil, ""),
		reqx.BodyForm: reqx.FormBody(nil),
	}

	for kind, body := range cases {
		if body.Kind() != kind {
			t.Fatalf("expected '%s' got '%s'", kind, body.Kind())
		}
	}
}
