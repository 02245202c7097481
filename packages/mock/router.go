package mock

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/sahilm/fuzzy"

	hf "github.com/abdul-hamid-achik/hitfetch/packages/http"
)

// Route represents a mock route
type Route struct {
	Method      string
	PathPattern string
	PathRegex   *regexp.Regexp
	// ParamNames lists the placeholder names in PathPattern, one per
	// capture group of PathRegex.
	ParamNames []string
	Response   *MockResponse
}

// MockResponse represents a mock HTTP response
type MockResponse struct {
	StatusCode  int
	ContentType string
	Headers     map[string]string
	Body        string
	NTag        string
}

// Router matches incoming requests to routes. A Router is immutable once
// built; Server swaps whole routers on reload.
type Router struct {
	routes []*Route
}

// NewRouter creates a router over routes, matched in order.
func NewRouter(routes ...*Route) *Router {
	return &Router{routes: routes}
}

// Routes returns the registered routes in match order.
func (r *Router) Routes() []*Route {
	return r.routes
}

// Match finds a route matching the given method and path. Captured
// placeholder values are percent-decoded.
func (r *Router) Match(method, path string) (*Route, map[string]string) {
	path = normalizePath(path)

	for _, route := range r.routes {
		if !strings.EqualFold(route.Method, method) {
			continue
		}

		if params := matchPath(route, path); params != nil {
			return route, params
		}
	}

	return nil, nil
}

// Suggest returns up to limit "METHOD pattern" strings for routes that
// fuzzily resemble path.
func (r *Router) Suggest(path string, limit int) []string {
	if len(r.routes) == 0 || limit <= 0 {
		return nil
	}

	query := strings.ToLower(strings.Trim(normalizePath(path), "/"))
	if i := strings.Index(query, "/"); i >= 0 {
		query = query[:i]
	}
	if query == "" {
		return nil
	}

	patterns := make([]string, len(r.routes))
	for i, route := range r.routes {
		patterns[i] = strings.ToLower(route.PathPattern)
	}

	results := fuzzy.Find(query, patterns)
	if len(results) > limit {
		results = results[:limit]
	}
	out := make([]string, 0, len(results))
	for _, m := range results {
		route := r.routes[m.Index]
		out = append(out, strings.ToUpper(route.Method)+" "+route.PathPattern)
	}
	return out
}

// compilePattern turns a "/users/{id}" template into an anchored regex with
// one capture group per placeholder.
func compilePattern(pattern string) (*regexp.Regexp, []string, error) {
	names := hf.Placeholders(pattern)

	var b strings.Builder
	b.WriteString("^")
	rest := pattern
	for _, name := range names {
		token := "{" + name + "}"
		i := strings.Index(rest, token)
		b.WriteString(regexp.QuoteMeta(rest[:i]))
		b.WriteString("([^/]+)")
		rest = rest[i+len(token):]
	}
	b.WriteString(regexp.QuoteMeta(rest))
	b.WriteString("$")

	re, err := regexp.Compile(b.String())
	if err != nil {
		return nil, nil, err
	}
	return re, names, nil
}

func normalizePath(path string) string {
	// Ensure path starts with /
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	// Remove trailing slash (except for root)
	if len(path) > 1 && strings.HasSuffix(path, "/") {
		path = path[:len(path)-1]
	}
	return path
}

func matchPath(route *Route, path string) map[string]string {
	matches := route.PathRegex.FindStringSubmatch(path)
	if matches == nil {
		return nil
	}

	params := make(map[string]string, len(route.ParamNames))
	for i, name := range route.ParamNames {
		value := matches[i+1]
		if decoded, err := url.PathUnescape(value); err == nil {
			value = decoded
		}
		params[name] = value
	}
	return params
}

// substitute replaces {name} tokens in s with params values. Unknown tokens
// are left as they are.
func substitute(s string, params map[string]string) string {
	for key, value := range params {
		s = strings.ReplaceAll(s, "{"+key+"}", value)
	}
	return s
}
