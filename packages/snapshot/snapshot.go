// Package snapshot compares response data against values stored in a JSON
// snapshot file.
package snapshot

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"sort"
)

// Outcome is what a comparison did.
type Outcome string

const (
	Matched  Outcome = "matched"
	Created  Outcome = "created"
	Updated  Outcome = "updated"
	Missing  Outcome = "missing"
	Mismatch Outcome = "mismatch"
)

// Result is the outcome of comparing one value.
type Result struct {
	Name     string   `json:"name"`
	Outcome  Outcome  `json:"outcome"`
	Diffs    []string `json:"diffs,omitempty"`
	Expected any      `json:"-"`
	Actual   any      `json:"-"`
}

// Passed reports whether the comparison should be treated as a success.
func (r *Result) Passed() bool {
	return r.Outcome != Missing && r.Outcome != Mismatch
}

func (r *Result) String() string {
	switch r.Outcome {
	case Missing:
		return fmt.Sprintf("snapshot %q does not exist (rerun with --update-snapshot to create it)", r.Name)
	case Mismatch:
		return fmt.Sprintf("snapshot %q mismatch: %d difference(s)", r.Name, len(r.Diffs))
	}
	return fmt.Sprintf("snapshot %q %s", r.Name, r.Outcome)
}

// Store is one snapshot file holding named values.
type Store struct {
	path    string
	entries map[string]any
	dirty   bool
}

// Load reads the snapshot file at path. A missing file yields an empty
// store that is created on Save.
func Load(path string) (*Store, error) {
	s := &Store{path: path, entries: make(map[string]any)}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(data, &s.entries); err != nil {
		return nil, fmt.Errorf("parsing snapshot file %s: %w", path, err)
	}
	if s.entries == nil {
		s.entries = make(map[string]any)
	}
	return s, nil
}

// Names returns the stored snapshot names, sorted.
func (s *Store) Names() []string {
	names := make([]string, 0, len(s.entries))
	for k := range s.entries {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Compare checks actual against the snapshot called name. With update set,
// a missing or different snapshot is replaced instead of failing; call Save
// to persist it.
func (s *Store) Compare(name string, actual any, update bool) (*Result, error) {
	normalized, err := normalize(actual)
	if err != nil {
		return nil, fmt.Errorf("snapshot %q: %w", name, err)
	}
	result := &Result{Name: name, Actual: normalized}

	expected, exists := s.entries[name]
	result.Expected = expected

	switch {
	case !exists && update:
		s.entries[name] = normalized
		s.dirty = true
		result.Outcome = Created
	case !exists:
		result.Outcome = Missing
	case reflect.DeepEqual(expected, normalized):
		result.Outcome = Matched
	case update:
		s.entries[name] = normalized
		s.dirty = true
		result.Outcome = Updated
	default:
		result.Outcome = Mismatch
		result.Diffs = Diff(expected, normalized)
	}
	return result, nil
}

// Save writes the file if any snapshot was created or updated.
func (s *Store) Save() error {
	if !s.dirty {
		return nil
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	data, err := json.MarshalIndent(s.entries, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(s.path, append(data, '\n'), 0644); err != nil {
		return err
	}
	s.dirty = false
	return nil
}

// normalize round-trips v through JSON so stored and fresh values share one
// representation.
func normalize(v any) (any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Diff lists the differences between two normalized JSON values as
// "path: detail" lines, with paths rooted at $.
func Diff(expected, actual any) []string {
	var diffs []string
	diffValue("$", expected, actual, &diffs)
	return diffs
}

func diffValue(path string, expected, actual any, diffs *[]string) {
	switch e := expected.(type) {
	case map[string]any:
		a, ok := actual.(map[string]any)
		if !ok {
			break
		}
		keys := make([]string, 0, len(e)+len(a))
		for k := range e {
			keys = append(keys, k)
		}
		for k := range a {
			if _, seen := e[k]; !seen {
				keys = append(keys, k)
			}
		}
		sort.Strings(keys)
		for _, k := range keys {
			ev, inE := e[k]
			av, inA := a[k]
			child := path + "." + k
			switch {
			case !inA:
				*diffs = append(*diffs, child+": missing")
			case !inE:
				*diffs = append(*diffs, child+": unexpected "+render(av))
			default:
				diffValue(child, ev, av, diffs)
			}
		}
		return

	case []any:
		a, ok := actual.([]any)
		if !ok {
			break
		}
		if len(e) != len(a) {
			*diffs = append(*diffs, fmt.Sprintf("%s: length %d, got %d", path, len(e), len(a)))
		}
		for i := 0; i < len(e) && i < len(a); i++ {
			diffValue(fmt.Sprintf("%s[%d]", path, i), e[i], a[i], diffs)
		}
		return
	}

	if !reflect.DeepEqual(expected, actual) {
		*diffs = append(*diffs, fmt.Sprintf("%s: expected %s, got %s", path, render(expected), render(actual)))
	}
}

func render(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(data)
}
