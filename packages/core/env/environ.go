package env

import (
	"os"
	"regexp"
	"strings"
)

// LoadPrefixed returns the process environment entries whose key starts with
// prefix, keyed by the remainder. An empty prefix returns everything.
func LoadPrefixed(prefix string) map[string]string {
	result := make(map[string]string)
	for _, e := range os.Environ() {
		key, value, ok := strings.Cut(e, "=")
		if !ok {
			continue
		}
		if prefix == "" {
			result[key] = value
			continue
		}
		if rest, found := strings.CutPrefix(key, prefix); found && rest != "" {
			result[rest] = value
		}
	}
	return result
}

var expandPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(:-([^}]*))?\}`)

// Expand replaces ${NAME} and ${NAME:-default} in s. Names are looked up in
// vars first, then in the process environment. Unknown names without a
// default expand to the empty string.
func Expand(s string, vars map[string]string) string {
	if !strings.Contains(s, "${") {
		return s
	}
	return expandPattern.ReplaceAllStringFunc(s, func(match string) string {
		m := expandPattern.FindStringSubmatch(match)
		name, hasDefault, def := m[1], m[2] != "", m[3]
		if v, ok := vars[name]; ok && v != "" {
			return v
		}
		if v, ok := os.LookupEnv(name); ok && v != "" {
			return v
		}
		if hasDefault {
			return def
		}
		return ""
	})
}
