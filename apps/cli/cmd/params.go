package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abdul-hamid-achik/hitfetch/packages/builtin"
	"github.com/abdul-hamid-achik/hitfetch/packages/http"
)

var generators = builtin.NewRegistry()

// parseParams turns key=value and key:=json arguments into ordered params.
// Plain values stay strings; a:=json value is decoded with numbers kept
// exact. Generator calls such as {{$uuid()}} are expanded in the value
// before it is decoded.
func parseParams(args []string) (*http.Params, error) {
	params := http.NewParams()
	for _, arg := range args {
		eq := strings.Index(arg, "=")
		if eq <= 0 {
			return nil, fmt.Errorf("invalid parameter %q: expected key=value or key:=json", arg)
		}

		if arg[eq-1] == ':' {
			key := arg[:eq-1]
			if key == "" {
				return nil, fmt.Errorf("invalid parameter %q: empty key", arg)
			}
			raw, err := generators.Expand(arg[eq+1:])
			if err != nil {
				return nil, fmt.Errorf("parameter %q: %w", key, err)
			}
			value, err := decodeJSONValue(raw)
			if err != nil {
				return nil, fmt.Errorf("invalid JSON for %q: %w", key, err)
			}
			params.Set(key, value)
			continue
		}

		value, err := generators.Expand(arg[eq+1:])
		if err != nil {
			return nil, fmt.Errorf("parameter %q: %w", arg[:eq], err)
		}
		params.Set(arg[:eq], value)
	}
	return params, nil
}

func decodeJSONValue(raw string) (any, error) {
	dec := json.NewDecoder(bytes.NewReader([]byte(raw)))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if dec.More() {
		return nil, fmt.Errorf("trailing data after JSON value")
	}
	return v, nil
}

// parseHeaders parses "Name: value" strings. Later duplicates win.
func parseHeaders(raw []string) (map[string]string, error) {
	headers := make(map[string]string, len(raw))
	for _, h := range raw {
		name, value, ok := strings.Cut(h, ":")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid header %q: expected 'Name: value'", h)
		}
		expanded, err := generators.Expand(strings.TrimSpace(value))
		if err != nil {
			return nil, fmt.Errorf("header %q: %w", name, err)
		}
		headers[name] = expanded
	}
	return headers, nil
}

// usageArgs reports positional argument errors with the usage exit code.
func usageArgs(check cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		return usageError(check(cmd, args))
	}
}
