package output

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/itchyny/gojq"
)

// ApplyQuery runs a jq expression over data. A single result is returned as
// is; several results are collected into a slice. An empty expression
// returns data unchanged.
func ApplyQuery(data any, expression string) (any, error) {
	if strings.TrimSpace(expression) == "" {
		return data, nil
	}

	// zsh escapes ! even inside single quotes
	expression = strings.ReplaceAll(expression, `\!`, `!`)

	query, err := gojq.Parse(expression)
	if err != nil {
		return nil, fmt.Errorf("invalid jq expression: %w", err)
	}

	normalized, err := normalizeForQuery(data)
	if err != nil {
		return nil, err
	}

	iter := query.Run(normalized)
	var results []any
	for {
		v, ok := iter.Next()
		if !ok {
			break
		}
		if err, ok := v.(error); ok {
			return nil, fmt.Errorf("jq error: %w", err)
		}
		results = append(results, v)
	}

	if len(results) == 1 {
		return results[0], nil
	}
	return results, nil
}

// normalizeForQuery round-trips data through JSON so gojq only sees the
// types it accepts.
func normalizeForQuery(data any) (any, error) {
	switch data.(type) {
	case nil, string, bool, float64, map[string]any, []any:
		return data, nil
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}
