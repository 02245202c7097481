package mock

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// RouteSpec is one route as written in a routes file.
//
//	routes:
//	  - method: POST
//	    path: /users/{id}
//	    status: 201
//	    ntag: v1
//	    body: {id: "{id}", ok: true}
type RouteSpec struct {
	Method      string            `yaml:"method" json:"method"`
	Path        string            `yaml:"path" json:"path"`
	Status      int               `yaml:"status,omitempty" json:"status,omitempty"`
	ContentType string            `yaml:"contentType,omitempty" json:"contentType,omitempty"`
	Headers     map[string]string `yaml:"headers,omitempty" json:"headers,omitempty"`
	// Body is sent verbatim when it is a string and as JSON otherwise.
	Body any    `yaml:"body,omitempty" json:"body,omitempty"`
	NTag string `yaml:"ntag,omitempty" json:"ntag,omitempty"`
}

// RouteFile is the top-level shape of a routes file.
type RouteFile struct {
	Routes []RouteSpec `yaml:"routes" json:"routes"`
}

// LoadRoutes reads and compiles the routes in the YAML file at path.
func LoadRoutes(path string) ([]*Route, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read routes file %s: %w", path, err)
	}

	routes, err := ParseRoutes(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse routes file %s: %w", path, err)
	}
	return routes, nil
}

// ParseRoutes compiles routes from YAML.
func ParseRoutes(data []byte) ([]*Route, error) {
	var file RouteFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, err
	}

	routes := make([]*Route, 0, len(file.Routes))
	for i, spec := range file.Routes {
		route, err := spec.compile()
		if err != nil {
			return nil, fmt.Errorf("route %d (%s %s): %w", i, spec.Method, spec.Path, err)
		}
		routes = append(routes, route)
	}
	return routes, nil
}

func (s RouteSpec) compile() (*Route, error) {
	method := strings.ToUpper(strings.TrimSpace(s.Method))
	if method == "" {
		method = http.MethodGet
	}
	if s.Path == "" {
		return nil, fmt.Errorf("path is required")
	}

	pattern := normalizePath(s.Path)
	re, names, err := compilePattern(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid path: %w", err)
	}

	resp := &MockResponse{
		StatusCode:  s.Status,
		ContentType: s.ContentType,
		Headers:     s.Headers,
		NTag:        s.NTag,
	}
	if resp.StatusCode == 0 {
		resp.StatusCode = http.StatusOK
	}

	switch body := s.Body.(type) {
	case nil:
	case string:
		resp.Body = body
	default:
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("invalid body: %w", err)
		}
		resp.Body = string(data)
		if resp.ContentType == "" {
			resp.ContentType = "application/json"
		}
	}
	if resp.ContentType == "" {
		resp.ContentType = "text/plain; charset=utf-8"
	}

	return &Route{
		Method:      method,
		PathPattern: pattern,
		PathRegex:   re,
		ParamNames:  names,
		Response:    resp,
	}, nil
}
