package output

import (
	"bytes"
	"encoding/json"
	"errors"
	nethttp "net/http"
	"testing"
	"time"

	"github.com/abdul-hamid-achik/hitfetch/packages/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleExchange(status int, body string) *Exchange {
	req := &http.PreparedRequest{
		Verb:    http.Post,
		URL:     "/items",
		Headers: map[string]string{"accept": http.MIMEJSON},
		Body:    "name=a",
	}
	h := nethttp.Header{}
	h.Set("Content-Type", "application/json")
	result, err := http.Normalize(&http.Response{
		StatusCode: status,
		Status:     nethttp.StatusText(status),
		Header:     h,
		Body:       []byte(body),
		Duration:   12 * time.Millisecond,
	}, nil)
	return NewExchange(req, result, err)
}

func TestNewExchange_FromHTTPError(t *testing.T) {
	ex := sampleExchange(404, `{"message":"missing"}`)

	require.Error(t, ex.Err)
	require.NotNil(t, ex.Result)
	assert.Equal(t, 404, ex.Result.Status)
	assert.True(t, ex.HasData)
	assert.Equal(t, map[string]any{"message": "missing"}, ex.Data)
}

func TestConsoleFormatter_FormatExchange(t *testing.T) {
	var buf bytes.Buffer
	f := NewConsoleFormatter(WithWriter(&buf), WithNoColor(true), WithVerbose(true))

	ex := sampleExchange(201, `{"id":1}`)
	ex.Captures = map[string]any{"id": float64(1)}
	f.FormatExchange(ex)

	out := buf.String()
	assert.Contains(t, out, "POST /items → Created")
	assert.Contains(t, out, "(12ms)")
	assert.Contains(t, out, "Content-Type: application/json")
	assert.Contains(t, out, `"id": 1`)
	assert.Contains(t, out, "id = 1")
}

func TestConsoleFormatter_FormatPrepared(t *testing.T) {
	var buf bytes.Buffer
	f := NewConsoleFormatter(WithWriter(&buf), WithNoColor(true))

	f.FormatPrepared(&http.PreparedRequest{
		Verb:    http.Get,
		URL:     "/items/5?sort=name",
		Headers: map[string]string{"accept": http.MIMEJSON},
	})

	assert.Equal(t, "GET /items/5?sort=name\naccept: application/json\n", buf.String())
}

func TestConsoleFormatter_FormatError(t *testing.T) {
	var buf bytes.Buffer
	f := NewConsoleFormatter(WithWriter(&buf), WithNoColor(true))

	f.FormatExchange(NewExchange(nil, nil, errors.New("dial tcp: refused")))
	assert.Equal(t, "Error: dial tcp: refused\n", buf.String())
}

func TestJSONFormatter_FormatExchange(t *testing.T) {
	var buf bytes.Buffer
	f := NewJSONFormatter(WithJSONWriter(&buf))

	f.FormatExchange(sampleExchange(422, `{"error":"bad"}`))

	var out JSONOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	assert.Equal(t, "POST", out.Request.Method)
	assert.Equal(t, "name=a", out.Request.Body)
	assert.Equal(t, 422, out.Response.StatusCode)
	assert.Equal(t, 12.0, out.Response.Duration)
	assert.Equal(t, map[string]any{"error": "bad"}, out.Data)
	assert.Contains(t, out.Error, "422")
}

func TestNew(t *testing.T) {
	var buf bytes.Buffer
	f, err := New("json", &buf, false, true)
	require.NoError(t, err)
	assert.IsType(t, &JSONFormatter{}, f)

	f, err = New("", &buf, false, true)
	require.NoError(t, err)
	assert.IsType(t, &ConsoleFormatter{}, f)

	_, err = New("xml", &buf, false, true)
	assert.Error(t, err)
}

func TestApplyQuery(t *testing.T) {
	data := map[string]any{
		"items": []any{
			map[string]any{"id": float64(1), "name": "a"},
			map[string]any{"id": float64(2), "name": "b"},
		},
	}

	v, err := ApplyQuery(data, ".items[0].name")
	require.NoError(t, err)
	assert.Equal(t, "a", v)

	v, err = ApplyQuery(data, ".items[].id")
	require.NoError(t, err)
	assert.Equal(t, []any{float64(1), float64(2)}, v)

	v, err = ApplyQuery(data, `.items | map(select(.id \!= 1)) | length`)
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	v, err = ApplyQuery(data, "")
	require.NoError(t, err)
	assert.Equal(t, data, v)

	_, err = ApplyQuery(data, ".items[")
	assert.Error(t, err)
}

func TestApplyQuery_NormalizesTypes(t *testing.T) {
	v, err := ApplyQuery(map[string]int{"n": 3}, ".n")
	require.NoError(t, err)
	assert.Equal(t, float64(3), v)
}
