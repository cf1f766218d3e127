package mockapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"reflect"
	"strconv"
	"strings"
)

// ParseBody decodes the body of a request sent to the mock backend into
// dst based on the Content-Type header.
//
// JSON bodies use `json` struct tags. Url-encoded forms, and requests
// without a body, bind `form:"name"` tagged fields from the form and the
// query string. A form tag may carry the "required" option:
//
//	type addToCart struct {
//	    GoodsID string   `form:"goodsId,required" json:"goodsId"`
//	    Num     int      `form:"num" json:"num"`
//	    SKU     []string `form:"sku" json:"sku"`
//	}
//
// The dst parameter must be a pointer to a struct.
func ParseBody(r *http.Request, dst any) error {
	mediaType := ""
	if ct := r.Header.Get("Content-Type"); ct != "" {
		mt, _, err := mime.ParseMediaType(ct)
		if err != nil {
			return fmt.Errorf("invalid content type: %w", err)
		}
		mediaType = mt
	}

	switch mediaType {
	case "", "application/x-www-form-urlencoded", "text/plain":
		return parseBodyForm(r, dst)
	case "application/json":
		return parseBodyJSON(r, dst)
	default:
		return fmt.Errorf("content type %q not supported", mediaType)
	}
}

// parseBodyForm binds url-encoded form values and query parameters to
// the `form` tagged fields of dst.
func parseBodyForm(r *http.Request, dst any) error {
	if err := r.ParseForm(); err != nil {
		return fmt.Errorf("failed to parse form: %w", err)
	}

	rv := reflect.ValueOf(dst)
	if rv.Kind() != reflect.Pointer {
		return errors.New("destination must be a pointer to a struct")
	}

	rv = rv.Elem()
	if rv.Kind() != reflect.Struct {
		return errors.New("destination must be a pointer to a struct")
	}

	rt := rv.Type()

	for i := range rv.NumField() {
		field := rv.Field(i)
		fieldType := rt.Field(i)

		if !field.CanSet() {
			continue
		}

		formTag := fieldType.Tag.Get("form")
		if formTag == "" || formTag == "-" {
			continue
		}

		tagParts := strings.Split(formTag, ",")
		fieldName := tagParts[0]

		required := false
		for _, option := range tagParts[1:] {
			if option == "required" {
				required = true
				break
			}
		}

		formValues := r.Form[fieldName]

		if required && len(formValues) == 0 {
			return fmt.Errorf("required field '%s' is missing", fieldName)
		}

		if len(formValues) == 0 {
			continue
		}

		if err := bindFieldValue(field, formValues); err != nil {
			return fmt.Errorf("failed to bind field '%s': %w", fieldName, err)
		}
	}

	return nil
}

// bindFieldValue assigns form values to a string, int, float64, bool or
// string slice field, the shapes a cart line is made of.
func bindFieldValue(field reflect.Value, values []string) error {
	v := values[0]

	switch field.Kind() {
	case reflect.String:
		field.SetString(v)

	case reflect.Int:
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid integer value: %s", v)
		}
		field.SetInt(int64(n))

	case reflect.Float64:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid float value: %s", v)
		}
		field.SetFloat(f)

	case reflect.Bool:
		switch strings.ToLower(v) {
		case "on", "yes":
			field.SetBool(true)
		case "off", "no", "":
			field.SetBool(false)
		default:
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("invalid boolean value: %s", v)
			}
			field.SetBool(b)
		}

	case reflect.Slice:
		if field.Type().Elem().Kind() != reflect.String {
			return fmt.Errorf("unsupported slice type: %s", field.Type())
		}
		field.Set(reflect.ValueOf(append([]string(nil), values...)))

	default:
		return fmt.Errorf("unsupported field type: %s", field.Kind())
	}

	return nil
}

// parseBodyJSON decodes a JSON request body into dst.
func parseBodyJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("failed to decode json: %w", err)
	}
	return nil
}
