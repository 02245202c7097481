package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	c := DefaultConfig()
	assert.True(t, c.IsDefault())
	assert.True(t, c.GetFollowRedirects())
	assert.True(t, c.GetValidateSSL())
	assert.Equal(t, "console", c.Output)
}

func TestFindAndLoadConfig_NoFile(t *testing.T) {
	c, err := FindAndLoadConfig(t.TempDir())
	require.NoError(t, err)
	assert.True(t, c.IsDefault())
}

func TestLoadConfig_YAML(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HFTEST_TOKEN", "secret")
	content := `baseURL: https://api.example.com
timeout: 5000
validateSSL: false
headers:
  Authorization: Bearer ${HFTEST_TOKEN}
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".hitfetch.yaml"), []byte(content), 0644))

	c, err := FindAndLoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, "https://api.example.com", c.BaseURL)
	assert.Equal(t, 5000, c.Timeout)
	assert.False(t, c.GetValidateSSL())
	assert.True(t, c.GetFollowRedirects(), "unset fields keep defaults")
	assert.Equal(t, "Bearer secret", c.Headers["Authorization"])
}

func TestLoadConfig_JSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hitfetch.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"baseURL":"http://localhost:3000","output":"json"}`), 0644))

	c, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:3000", c.BaseURL)
	assert.Equal(t, "json", c.Output)
}

func TestLoadConfig_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hitfetch.json")
	require.NoError(t, os.WriteFile(path, []byte(`{`), 0644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestMerge(t *testing.T) {
	base := DefaultConfig()
	base.Headers = map[string]string{"A": "1"}

	merged := base.Merge(&Config{
		Timeout:     100,
		ValidateSSL: BoolPtr(false),
		Headers:     map[string]string{"B": "2"},
	})

	assert.Equal(t, 100, merged.Timeout)
	assert.False(t, merged.GetValidateSSL())
	assert.True(t, merged.GetFollowRedirects())
	assert.Equal(t, map[string]string{"A": "1", "B": "2"}, merged.Headers)
	assert.Equal(t, map[string]string{"A": "1"}, base.Headers, "base is not modified")
	assert.Same(t, base, base.Merge(nil))
}

func TestFromEnv(t *testing.T) {
	c, err := FromEnv(map[string]string{
		"BASE_URL":     "http://x",
		"TIMEOUT":      "2s",
		"VALIDATE_SSL": "false",
		"NO_COLOR":     "1",
	})
	require.NoError(t, err)
	assert.Equal(t, "http://x", c.BaseURL)
	assert.Equal(t, 2000, c.Timeout)
	assert.False(t, c.GetValidateSSL())
	assert.True(t, c.GetNoColor())
	assert.Nil(t, c.Verbose)

	_, err = FromEnv(map[string]string{"TIMEOUT": "soon"})
	assert.Error(t, err)
}

func TestSaveConfig_RoundTrip(t *testing.T) {
	for _, name := range []string{"out.yaml", "out.json"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			c := DefaultConfig()
			c.BaseURL = "http://saved"

			require.NoError(t, c.SaveConfig(path))
			loaded, err := LoadConfig(path)
			require.NoError(t, err)
			assert.Equal(t, "http://saved", loaded.BaseURL)
		})
	}
}
