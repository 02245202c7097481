package env

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadPrefixed(t *testing.T) {
	t.Setenv("HFTEST_BASE_URL", "http://x")
	t.Setenv("HFTEST_TIMEOUT", "10s")

	vars := LoadPrefixed("HFTEST_")
	assert.Equal(t, "http://x", vars["BASE_URL"])
	assert.Equal(t, "10s", vars["TIMEOUT"])
	_, hasPath := vars["PATH"]
	assert.False(t, hasPath)
}

func TestExpand(t *testing.T) {
	t.Setenv("HFTEST_HOST", "env-host")

	vars := map[string]string{"TOKEN": "t0k"}
	tests := []struct {
		in, want string
	}{
		{"plain", "plain"},
		{"Bearer ${TOKEN}", "Bearer t0k"},
		{"http://${HFTEST_HOST}/api", "http://env-host/api"},
		{"${MISSING_HFTEST:-fallback}", "fallback"},
		{"${MISSING_HFTEST}", ""},
		{"${TOKEN:-unused}", "t0k"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Expand(tt.in, vars), tt.in)
	}
}
