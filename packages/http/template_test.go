package http

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlaceholders(t *testing.T) {
	tests := []struct {
		template string
		expected []string
	}{
		{"/items", nil},
		{"/items/{id}", []string{"id"}},
		{"/a/{a}/b/{b}", []string{"a", "b"}},
		{"/{id}/{id}", []string{"id", "id"}},
		{"/x/{long name}", []string{"long name"}},
		{"/{a}{b}", []string{"a", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.template, func(t *testing.T) {
			assert.Equal(t, tt.expected, Placeholders(tt.template))
		})
	}
}

func TestResolvePath(t *testing.T) {
	params := NewParams("a", 1, "b", "x y")

	path, err := ResolvePath("/a/{a}/b/{b}", params)
	require.NoError(t, err)
	assert.Equal(t, "/a/1/b/x%20y", path)

	path, err = ResolvePath("/{a}/{a}", params)
	require.NoError(t, err)
	assert.Equal(t, "/1/1", path)
}

func TestResolvePath_Missing(t *testing.T) {
	_, err := ResolvePath("/items/{id}", NewParams("other", 1))
	require.Error(t, err)

	var missing *MissingParameterError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "id", missing.Name)
	assert.Contains(t, err.Error(), "id")
}

func TestResolvePath_NilValueIsMissing(t *testing.T) {
	_, err := ResolvePath("/items/{id}", NewParams("id", nil))
	assert.True(t, IsMissingParameter(err))
}

func TestResolvePath_NilParams(t *testing.T) {
	path, err := ResolvePath("/items", nil)
	require.NoError(t, err)
	assert.Equal(t, "/items", path)
}

func TestBuildURL(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		query    []string
		expected string
	}{
		{"no query", "/items", nil, "/items"},
		{"query", "/items", []string{"a=1", "b=2"}, "/items?a=1&b=2"},
		{"path already has query", "/items?x=1", []string{"a=1"}, "/items?x=1&a=1"},
		{"path has query no extra", "/items?x=1", nil, "/items?x=1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, BuildURL(tt.path, tt.query))
		})
	}
}

func TestParams_Without(t *testing.T) {
	p := NewParams("id", 5, "sort", "name", "page", 2)
	rest := p.Without("id")

	assert.Equal(t, []string{"sort", "page"}, rest.Keys())
	assert.Equal(t, 3, p.Len(), "original is not modified")
}

func TestParams_MarshalJSON_KeepsOrder(t *testing.T) {
	data, err := NewParams("z", 1, "a", "<b>").MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `{"z":1,"a":"<b>"}`, string(data))
}

func TestParamsFromMap_SortsKeys(t *testing.T) {
	p := ParamsFromMap(map[string]any{"b": 1, "a": 2})
	assert.Equal(t, []string{"a", "b"}, p.Keys())
}
