package cmd

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseParams(t *testing.T) {
	params, err := parseParams([]string{"id=7", "q=a=b", "list=a,b", "n:=42", "obj:={\"k\":1}", "empty="})
	require.NoError(t, err)

	assert.Equal(t, []string{"id", "q", "list", "n", "obj", "empty"}, params.Keys())

	v, _ := params.Get("q")
	assert.Equal(t, "a=b", v)
	v, _ = params.Get("list")
	assert.Equal(t, "a,b", v)
	v, _ = params.Get("n")
	assert.Equal(t, json.Number("42"), v)
	v, _ = params.Get("obj")
	assert.Equal(t, map[string]any{"k": json.Number("1")}, v)
	v, _ = params.Get("empty")
	assert.Equal(t, "", v)
}

func TestParseParams_Errors(t *testing.T) {
	for _, arg := range []string{"novalue", "=x", ":=1", "n:=[1", "n:=1 2"} {
		t.Run(arg, func(t *testing.T) {
			_, err := parseParams([]string{arg})
			assert.Error(t, err)
		})
	}
}

func TestParseHeaders(t *testing.T) {
	headers, err := parseHeaders([]string{"Accept: text/plain", "X-Empty:", "Authorization: Bearer a:b"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"Accept":        "text/plain",
		"X-Empty":       "",
		"Authorization": "Bearer a:b",
	}, headers)

	_, err = parseHeaders([]string{": value"})
	assert.Error(t, err)
}

func TestParseParams_Generators(t *testing.T) {
	params, err := parseParams([]string{"id={{$uuid()}}", "auth:=\"{{$base64(a:b)}}\"", "tag=x-{{$randomString(4)}}"})
	require.NoError(t, err)

	id, _ := params.Get("id")
	assert.Regexp(t, `^[0-9a-f]{8}-[0-9a-f]{4}-`, id)
	auth, _ := params.Get("auth")
	assert.Equal(t, "YTpi", auth)
	tag, _ := params.Get("tag")
	assert.Regexp(t, `^x-[a-zA-Z0-9]{4}$`, tag)

	_, err = parseParams([]string{"id={{$missing()}}"})
	assert.ErrorContains(t, err, "unknown function $missing")
}

func TestParseHeaders_Generators(t *testing.T) {
	headers, err := parseHeaders([]string{"Authorization: Basic {{$base64(user:pass)}}"})
	require.NoError(t, err)
	assert.Equal(t, "Basic dXNlcjpwYXNz", headers["Authorization"])
}
