package builtin

import (
	"regexp"
	"strconv"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedRegistry() *Registry {
	r := NewRegistry()
	r.now = func() time.Time { return time.Date(2024, 3, 9, 14, 30, 0, 0, time.UTC) }
	return r
}

func TestExpand(t *testing.T) {
	r := fixedRegistry()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"no calls", "plain value", "plain value"},
		{"braces without call", "{{name}}", "{{name}}"},
		{"timestamp", "t={{$timestamp()}}", "t=1709994600"},
		{"timestamp ms", "{{$timestampMs()}}", "1709994600000"},
		{"now", "{{$now()}}", "2024-03-09T14:30:00Z"},
		{"date default", "{{$date()}}", "2024-03-09"},
		{"date layout", "{{ $date('02/01/2006') }}", "09/03/2024"},
		{"base64", "Basic {{$base64(\"user:pass\")}}", "Basic dXNlcjpwYXNz"},
		{"sha256", "{{$sha256(abc)}}", "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"},
		{"two calls", "{{$date()}}/{{$timestamp()}}", "2024-03-09/1709994600"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Expand(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExpand_Generated(t *testing.T) {
	r := NewRegistry()

	id, err := r.Expand("{{$uuid()}}")
	require.NoError(t, err)
	_, err = uuid.Parse(id)
	assert.NoError(t, err)

	s, err := r.Expand("{{$randomString(12)}}")
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^[a-zA-Z0-9]{12}$`), s)

	email, err := r.Expand("{{$randomEmail()}}")
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^[a-z]{8}@[a-z]{6}\.com$`), email)

	for i := 0; i < 50; i++ {
		v, err := r.Expand("{{$random(3, 5)}}")
		require.NoError(t, err)
		n, err := strconv.Atoi(v)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, n, 3)
		assert.LessOrEqual(t, n, 5)
	}
}

func TestExpand_Errors(t *testing.T) {
	r := NewRegistry()

	tests := []struct {
		name    string
		input   string
		wantErr string
	}{
		{"unknown", "{{$nope()}}", "unknown function $nope"},
		{"bad int", "{{$random(a, 2)}}", `min argument "a" is not an integer`},
		{"inverted range", "{{$random(9, 2)}}", "max 2 is below min 9"},
		{"negative length", "{{$randomString(-1)}}", "negative length"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.Expand(tt.input)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestCall(t *testing.T) {
	r := fixedRegistry()

	got, err := r.Call("$date()")
	require.NoError(t, err)
	assert.Equal(t, "2024-03-09", got)

	got, err = r.Call("base64(hi)")
	require.NoError(t, err)
	assert.Equal(t, "aGk=", got)

	_, err = r.Call("not a call")
	assert.Error(t, err)
}

func TestRegister(t *testing.T) {
	r := NewRegistry()
	assert.False(t, r.Has("answer"))

	r.Register("answer", func([]string) (string, error) { return "42", nil })
	assert.True(t, r.Has("answer"))

	got, err := r.Expand("x={{$answer()}}")
	require.NoError(t, err)
	assert.Equal(t, "x=42", got)
}

func TestParseArgs(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, parseArgs("a, b"))
	assert.Equal(t, []string{"a,b", "c"}, parseArgs("'a,b', c"))
	assert.Equal(t, []string{"x"}, parseArgs(`"x"`))
}
