package http

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

const upperhex = "0123456789ABCDEF"

// Encode renders a parameter value for use in a path, query string or
// urlencoded body. Sequences are joined with commas, mappings are
// JSON-serialized and scalars are stringified; the result is then
// percent-encoded exactly once.
func Encode(v any) string {
	return EscapeComponent(stringify(v))
}

// EscapeComponent percent-encodes s the way URI components are encoded:
// everything except ALPHA, DIGIT and -_.!~*'() is escaped, and spaces
// become %20.
func EscapeComponent(s string) string {
	n := 0
	for i := 0; i < len(s); i++ {
		if !unreserved(s[i]) {
			n++
		}
	}
	if n == 0 {
		return s
	}

	var b strings.Builder
	b.Grow(len(s) + 2*n)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if unreserved(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(upperhex[c>>4])
		b.WriteByte(upperhex[c&15])
	}
	return b.String()
}

func unreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	switch c {
	case '-', '_', '.', '!', '~', '*', '\'', '(', ')':
		return true
	}
	return false
}

// stringify applies the three-way shape rule without escaping.
func stringify(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case []byte:
		return string(val)
	case *Params:
		return marshalString(val)
	case fmt.Stringer:
		return val.String()
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		parts := make([]string, rv.Len())
		for i := range parts {
			parts[i] = stringify(rv.Index(i).Interface())
		}
		return strings.Join(parts, ",")
	case reflect.Map, reflect.Struct:
		return marshalString(v)
	case reflect.Pointer:
		if rv.IsNil() {
			return ""
		}
		return stringify(rv.Elem().Interface())
	}
	return scalarString(v)
}

func scalarString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case json.Number:
		return val.String()
	case fmt.Stringer:
		return val.String()
	}
	return fmt.Sprint(v)
}

func marshalString(v any) string {
	data, err := marshalJSON(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(data)
}
