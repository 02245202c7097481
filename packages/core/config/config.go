package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/abdul-hamid-achik/hitfetch/packages/core/env"
	"gopkg.in/yaml.v3"
)

// Config represents the hitfetch configuration
type Config struct {
	BaseURL         string            `json:"baseURL,omitempty" yaml:"baseURL,omitempty"`
	Timeout         int               `json:"timeout,omitempty" yaml:"timeout,omitempty"` // milliseconds, 0 = none
	FollowRedirects *bool             `json:"followRedirects,omitempty" yaml:"followRedirects,omitempty"`
	MaxRedirects    int               `json:"maxRedirects,omitempty" yaml:"maxRedirects,omitempty"`
	ValidateSSL     *bool             `json:"validateSSL,omitempty" yaml:"validateSSL,omitempty"`
	Proxy           string            `json:"proxy,omitempty" yaml:"proxy,omitempty"`
	Headers         map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"` // Default headers for all requests
	Output          string            `json:"output,omitempty" yaml:"output,omitempty"`   // console or json
	History         string            `json:"history,omitempty" yaml:"history,omitempty"` // sqlite path for the exchange log
	Verbose         *bool             `json:"verbose,omitempty" yaml:"verbose,omitempty"`
	NoColor         *bool             `json:"noColor,omitempty" yaml:"noColor,omitempty"`
}

// BoolPtr returns a pointer to b
func BoolPtr(b bool) *bool {
	return &b
}

// getBool returns the value of a bool pointer, or the default if nil
func getBool(b *bool, defaultVal bool) bool {
	if b == nil {
		return defaultVal
	}
	return *b
}

// GetFollowRedirects returns the follow redirects setting, defaulting to true
func (c *Config) GetFollowRedirects() bool {
	return getBool(c.FollowRedirects, true)
}

// GetValidateSSL returns the validate SSL setting, defaulting to true
func (c *Config) GetValidateSSL() bool {
	return getBool(c.ValidateSSL, true)
}

// GetVerbose returns the verbose setting, defaulting to false
func (c *Config) GetVerbose() bool {
	return getBool(c.Verbose, false)
}

// GetNoColor returns the no color setting, defaulting to false
func (c *Config) GetNoColor() bool {
	return getBool(c.NoColor, false)
}

// TimeoutDuration returns Timeout as a duration.
func (c *Config) TimeoutDuration() time.Duration {
	return time.Duration(c.Timeout) * time.Millisecond
}

// ConfigFilenames contains the possible config file names, in search order
var ConfigFilenames = []string{
	".hitfetch.yaml",
	".hitfetch.yml",
	"hitfetch.yaml",
	".hitfetch.json",
	"hitfetch.json",
}

// LoadConfig loads configuration from the specified path or searches for config files
func LoadConfig(path string) (*Config, error) {
	if path != "" {
		return loadConfigFromFile(path)
	}

	return FindAndLoadConfig(".")
}

// FindAndLoadConfig searches for a config file in the given directory
func FindAndLoadConfig(dir string) (*Config, error) {
	for _, filename := range ConfigFilenames {
		configPath := filepath.Join(dir, filename)
		if _, err := os.Stat(configPath); err == nil {
			return loadConfigFromFile(configPath)
		}
	}

	return DefaultConfig(), nil
}

func loadConfigFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	fileConfig := &Config{}
	if isJSON(path) {
		err = json.Unmarshal(data, fileConfig)
	} else {
		err = yaml.Unmarshal(data, fileConfig)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	return DefaultConfig().Merge(fileConfig.Expand(nil)), nil
}

func isJSON(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".json")
}

// Expand resolves ${VAR} references in string fields and header values.
func (c *Config) Expand(vars map[string]string) *Config {
	result := *c
	result.BaseURL = env.Expand(c.BaseURL, vars)
	result.Proxy = env.Expand(c.Proxy, vars)
	result.History = env.Expand(c.History, vars)
	if len(c.Headers) > 0 {
		result.Headers = make(map[string]string, len(c.Headers))
		for k, v := range c.Headers {
			result.Headers[k] = env.Expand(v, vars)
		}
	}
	return &result
}

// FromEnv builds an override config from HITFETCH_* variables. Malformed
// values are reported rather than ignored.
func FromEnv(vars map[string]string) (*Config, error) {
	c := &Config{
		BaseURL: vars["BASE_URL"],
		Proxy:   vars["PROXY"],
		Output:  vars["OUTPUT"],
		History: vars["HISTORY"],
	}

	if v := vars["TIMEOUT"]; v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("HITFETCH_TIMEOUT: %w", err)
		}
		c.Timeout = int(d.Milliseconds())
	}
	if v := vars["MAX_REDIRECTS"]; v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("HITFETCH_MAX_REDIRECTS: %w", err)
		}
		c.MaxRedirects = n
	}

	for key, target := range map[string]**bool{
		"FOLLOW_REDIRECTS": &c.FollowRedirects,
		"VALIDATE_SSL":     &c.ValidateSSL,
		"VERBOSE":          &c.Verbose,
		"NO_COLOR":         &c.NoColor,
	} {
		v := vars[key]
		if v == "" {
			continue
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("HITFETCH_%s: %w", key, err)
		}
		*target = BoolPtr(b)
	}

	return c, nil
}

// Merge merges another config into this one, with other taking precedence
func (c *Config) Merge(other *Config) *Config {
	if other == nil {
		return c
	}

	result := *c // Copy

	if other.BaseURL != "" {
		result.BaseURL = other.BaseURL
	}
	if other.Timeout > 0 {
		result.Timeout = other.Timeout
	}
	if other.MaxRedirects > 0 {
		result.MaxRedirects = other.MaxRedirects
	}
	if other.Proxy != "" {
		result.Proxy = other.Proxy
	}
	if other.Output != "" {
		result.Output = other.Output
	}
	if other.History != "" {
		result.History = other.History
	}

	// Boolean flags - only override if explicitly set in other config
	if other.FollowRedirects != nil {
		result.FollowRedirects = other.FollowRedirects
	}
	if other.ValidateSSL != nil {
		result.ValidateSSL = other.ValidateSSL
	}
	if other.Verbose != nil {
		result.Verbose = other.Verbose
	}
	if other.NoColor != nil {
		result.NoColor = other.NoColor
	}

	if len(other.Headers) > 0 {
		merged := make(map[string]string, len(result.Headers)+len(other.Headers))
		for k, v := range result.Headers {
			merged[k] = v
		}
		for k, v := range other.Headers {
			merged[k] = v
		}
		result.Headers = merged
	}

	return &result
}

// SaveConfig saves the configuration to a file. The format follows the file
// extension: .json writes JSON, anything else YAML.
func (c *Config) SaveConfig(path string) error {
	var (
		data []byte
		err  error
	)
	if isJSON(path) {
		data, err = json.MarshalIndent(c, "", "  ")
	} else {
		data, err = yaml.Marshal(c)
	}
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
