package reqx

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/url"
	"strings"
)

// BodyKind identifies how a request body was supplied.
type BodyKind int

const (
	BodyNone BodyKind = iota
	BodyJSON
	BodyRaw
	BodyForm
)

func (k BodyKind) String() string {
	switch k {
	case BodyJSON:
		return "json"
	case BodyRaw:
		return "raw"
	case BodyForm:
		return "form"
	default:
		return "none"
	}
}

// Body is a request payload. It is either empty, a structured value sent
// as JSON, pre-serialized bytes with a content type, or form values.
//
// Usage:
//
//	reqx.JSONBody(map[string]any{"goodsId": 7, "num": 1})
//	reqx.RawBody([]byte(`{"goodsId":7,"num":1}`), "application/json")
//	reqx.FormBody(url.Values{"goodsId": {"7"}})
type Body struct {
	kind        BodyKind
	value       any
	raw         []byte
	contentType string
	form        url.Values
}

// NoBody returns an empty body.
func NoBody() Body {
	return Body{}
}

// JSONBody returns a body that is marshaled to JSON when sent.
func JSONBody(v any) Body {
	return Body{kind: BodyJSON, value: v}
}

// RawBody returns a body sent as is. An empty contentType is sniffed when
// the body is normalized.
func RawBody(data []byte, contentType string) Body {
	return Body{kind: BodyRaw, raw: data, contentType: contentType}
}

// FormBody returns a url-encoded form body.
func FormBody(v url.Values) Body {
	return Body{kind: BodyForm, form: v}
}

// Kind returns the kind of the body.
func (b Body) Kind() BodyKind {
	return b.kind
}

// Normalize converts the body into its canonical structured form. JSON
// values and JSON bytes both decode into generic maps, slices and
// numbers, form bodies become url.Values. Untyped and text/* payloads
// holding valid JSON decode like JSON, anything else is kept as a string. A value supplied structured and the same value supplied
// pre-serialized normalize to equal results.
func (b Body) Normalize() (any, error) {
	switch b.kind {
	case BodyNone:
		return nil, nil
	case BodyJSON:
		data, err := json.Marshal(b.value)
		if err != nil {
			return nil, fmt.Errorf("reqx: failed to marshal body: %w", err)
		}
		return decodeGeneric(data)
	case BodyForm:
		return cloneValues(b.form), nil
	}

	mt := mediaType(b.contentType)
	switch mt {
	case "application/json":
		return decodeGeneric(b.raw)
	case "application/x-www-form-urlencoded":
		v, err := url.ParseQuery(string(b.raw))
		if err != nil {
			return nil, fmt.Errorf("reqx: failed to parse form body: %w", err)
		}
		return v, nil
	}

	if (mt == "" || strings.HasPrefix(mt, "text/")) && json.Valid(b.raw) {
		return decodeGeneric(b.raw)
	}
	return string(b.raw), nil
}

// encode returns the wire form of the body and its content type.
func (b Body) encode() (io.Reader, string, error) {
	switch b.kind {
	case BodyJSON:
		data, err := json.Marshal(b.value)
		if err != nil {
			return nil, "", fmt.Errorf("reqx: failed to marshal body: %w", err)
		}
		return bytes.NewReader(data), "application/json", nil
	case BodyForm:
		return strings.NewReader(b.form.Encode()), "application/x-www-form-urlencoded", nil
	case BodyRaw:
		ct := b.contentType
		if ct == "" && json.Valid(b.raw) {
			ct = "application/json"
		}
		return bytes.NewReader(b.raw), ct, nil
	default:
		return nil, "", nil
	}
}

func decodeGeneric(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("reqx: failed to decode body: %w", err)
	}
	return v, nil
}

func mediaType(contentType string) string {
	if contentType == "" {
		return ""
	}
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(contentType))
	}
	if strings.HasSuffix(mt, "+json") {
		return "application/json"
	}
	return mt
}

func cloneValues(v url.Values) url.Values {
	if v == nil {
		return url.Values{}
	}
	out := make(url.Values, len(v))
	for k, vs := range v {
		out[k] = append([]string(nil), vs...)
	}
	return out
}
