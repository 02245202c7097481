package http

import (
	"regexp"
	"strings"
)

// placeholderPattern matches {name} tokens non-greedily; names may contain
// any character including whitespace.
var placeholderPattern = regexp.MustCompile(`\{([\s\S]+?)\}`)

// Placeholders returns the placeholder names in template, in order, with
// duplicates preserved.
func Placeholders(template string) []string {
	matches := placeholderPattern.FindAllStringSubmatch(template, -1)
	if len(matches) == 0 {
		return nil
	}
	names := make([]string, len(matches))
	for i, m := range matches {
		names[i] = m[1]
	}
	return names
}

// ResolvePath substitutes every {name} in template with the encoded value of
// params[name]. A placeholder without a value, or with a nil value, fails
// with a *MissingParameterError.
func ResolvePath(template string, params *Params) (string, error) {
	var missing error
	path := placeholderPattern.ReplaceAllStringFunc(template, func(match string) string {
		if missing != nil {
			return match
		}
		name := match[1 : len(match)-1]
		value, ok := params.Get(name)
		if !ok || value == nil {
			missing = &MissingParameterError{Name: name}
			return match
		}
		return Encode(value)
	})
	if missing != nil {
		return "", missing
	}
	return path, nil
}

// BuildURL appends the query pairs to path. The delimiter is "?" unless path
// already carries a query, in which case it is "&".
func BuildURL(path string, query []string) string {
	q := strings.Join(query, "&")
	if q == "" {
		return path
	}
	if strings.Contains(path, "?") {
		return path + "&" + q
	}
	return path + "?" + q
}
