package capture

import (
	"fmt"
	"strings"

	"github.com/abdul-hamid-achik/hitfetch/packages/http"
)

// Source is where a capture reads from.
type Source string

const (
	SourceBody     Source = "body"
	SourceHeader   Source = "header"
	SourceStatus   Source = "status"
	SourceDuration Source = "duration"
)

// Spec is one named capture.
type Spec struct {
	Name   string
	Source Source
	Path   string
}

// ParseSpec parses name=source[:path].
func ParseSpec(s string) (*Spec, error) {
	name, rest, ok := strings.Cut(s, "=")
	name = strings.TrimSpace(name)
	if !ok || name == "" {
		return nil, fmt.Errorf("invalid capture %q: expected name=source[:path]", s)
	}

	source, path, _ := strings.Cut(strings.TrimSpace(rest), ":")
	spec := &Spec{Name: name, Source: Source(strings.ToLower(source)), Path: path}

	switch spec.Source {
	case SourceBody, SourceStatus, SourceDuration:
	case SourceHeader:
		if path == "" {
			return nil, fmt.Errorf("invalid capture %q: header source needs a header name", s)
		}
	default:
		return nil, fmt.Errorf("invalid capture %q: unknown source %q", s, source)
	}
	return spec, nil
}

type Extractor struct {
	result *http.Result
}

func NewExtractor(result *http.Result) *Extractor {
	return &Extractor{result: result}
}

func (e *Extractor) Extract(spec *Spec) (any, bool) {
	if e.result == nil {
		return nil, false
	}
	switch spec.Source {
	case SourceBody:
		return e.extractFromBody(spec.Path)
	case SourceHeader:
		return e.extractFromHeader(spec.Path)
	case SourceStatus:
		return e.result.Status, true
	case SourceDuration:
		if e.result.Response == nil {
			return nil, false
		}
		return e.result.Response.DurationMs(), true
	default:
		return nil, false
	}
}

func (e *Extractor) extractFromBody(path string) (any, bool) {
	if !e.result.HasData {
		return nil, false
	}
	if path == "" {
		return e.result.Data, true
	}

	value := e.result.Get(path)
	if !value.Exists() {
		return nil, false
	}
	return value.Value(), true
}

func (e *Extractor) extractFromHeader(name string) (any, bool) {
	if e.result.Response == nil {
		return nil, false
	}
	value := e.result.Response.HeaderValue(name)
	if value == "" {
		return nil, false
	}
	return value, true
}

// ExtractAll runs every spec and returns the values that were found.
func ExtractAll(result *http.Result, specs []*Spec) map[string]any {
	extractor := NewExtractor(result)
	results := make(map[string]any)

	for _, s := range specs {
		if value, ok := extractor.Extract(s); ok {
			results[s.Name] = value
		}
	}

	return results
}
