package http

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		contentType string
		body        string
		wantData    any
		wantHasData bool
		wantHTTPErr bool
		wantDecode  bool
	}{
		{"json ok", 200, "application/json", `{"a":1}`, map[string]any{"a": float64(1)}, true, false, false},
		{"json array", 200, "application/json; charset=utf-8", `[1,"x"]`, []any{float64(1), "x"}, true, false, false},
		{"text ok", 200, "text/plain", "hi", "hi", true, false, false},
		{"no content type", 200, "", "raw", "raw", true, false, false},
		{"no content json", 204, "application/json", "", nil, false, false, false},
		{"redirect is success", 302, "text/html", "<a>", "<a>", true, false, false},
		{"client error json", 422, "application/json", `{"e":"bad"}`, nil, false, true, false},
		{"server error text", 503, "text/plain", "down", nil, false, true, false},
		{"malformed json", 200, "application/json", `{"a":`, nil, false, false, true},
		{"empty json body", 200, "application/json", ``, nil, false, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := http.Header{}
			if tt.contentType != "" {
				h.Set("Content-Type", tt.contentType)
			}
			resp := &Response{StatusCode: tt.status, Header: h, Body: []byte(tt.body)}

			result, err := Normalize(resp, NewSession())
			switch {
			case tt.wantHTTPErr:
				var httpErr *HTTPError
				require.ErrorAs(t, err, &httpErr)
				assert.Equal(t, tt.status, httpErr.Status())
				assert.True(t, httpErr.Result.HasData)
			case tt.wantDecode:
				var decErr *DecodeError
				require.ErrorAs(t, err, &decErr)
				assert.Equal(t, tt.status, decErr.Status)
			default:
				require.NoError(t, err)
				assert.Equal(t, tt.status, result.Status)
				assert.Equal(t, tt.wantHasData, result.HasData)
				assert.Equal(t, tt.wantData, result.Data)
				assert.Same(t, resp, result.Response)
			}
		})
	}
}

func TestNormalize_SessionTag(t *testing.T) {
	session := NewSession()

	_, err := Normalize(&Response{StatusCode: 200, Header: http.Header{"Ntag": {"t1"}}}, session)
	require.NoError(t, err)
	assert.Equal(t, "t1", session.Tag())

	_, err = Normalize(&Response{StatusCode: 200, Header: http.Header{}}, session)
	require.NoError(t, err)
	assert.Equal(t, "t1", session.Tag(), "absent header leaves the tag alone")

	_, err = Normalize(&Response{StatusCode: 200, Header: http.Header{"ntag": {"t2"}}}, session)
	require.NoError(t, err)
	assert.Equal(t, "t2", session.Tag(), "non-canonical header keys still match")
}

func TestResponse_HeaderValue(t *testing.T) {
	resp := &Response{Header: http.Header{"X-Thing": {"v"}}}
	assert.Equal(t, "v", resp.HeaderValue("x-thing"))
	assert.Equal(t, "", resp.HeaderValue("missing"))
	assert.Equal(t, "", (&Response{}).HeaderValue("x"))
}

func TestSession(t *testing.T) {
	s := NewSession()
	assert.Equal(t, NoTagReceived, s.Tag())
	assert.False(t, s.Observe(""))
	assert.True(t, s.Observe("x"))
	assert.Equal(t, "x", s.Tag())
	s.Reset()
	assert.Equal(t, NoTagReceived, s.Tag())
}
