package snapshot

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompare_CreateThenMatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "__snapshots__", "users.snap.json")

	store, err := Load(path)
	require.NoError(t, err)

	result, err := store.Compare("GET /users/{id}", map[string]any{"id": 1, "name": "Ada"}, true)
	require.NoError(t, err)
	assert.Equal(t, Created, result.Outcome)
	assert.True(t, result.Passed())
	require.NoError(t, store.Save())

	_, err = os.Stat(path)
	require.NoError(t, err)

	reloaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"GET /users/{id}"}, reloaded.Names())

	result, err = reloaded.Compare("GET /users/{id}", map[string]any{"name": "Ada", "id": json.Number("1")}, false)
	require.NoError(t, err)
	assert.Equal(t, Matched, result.Outcome)
}

func TestCompare_MissingWithoutUpdate(t *testing.T) {
	store, err := Load(filepath.Join(t.TempDir(), "none.json"))
	require.NoError(t, err)

	result, err := store.Compare("x", "value", false)
	require.NoError(t, err)
	assert.Equal(t, Missing, result.Outcome)
	assert.False(t, result.Passed())
	assert.Contains(t, result.String(), "--update-snapshot")
}

func TestCompare_MismatchAndUpdate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snap.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"item": {"id": 1, "tags": ["a", "b"], "gone": true}}`), 0644))

	store, err := Load(path)
	require.NoError(t, err)

	actual := map[string]any{"id": 2, "tags": []string{"a"}, "extra": "x"}
	result, err := store.Compare("item", actual, false)
	require.NoError(t, err)
	assert.Equal(t, Mismatch, result.Outcome)
	assert.Equal(t, []string{
		`$.extra: unexpected "x"`,
		"$.gone: missing",
		"$.id: expected 1, got 2",
		"$.tags: length 2, got 1",
	}, result.Diffs)

	result, err = store.Compare("item", actual, true)
	require.NoError(t, err)
	assert.Equal(t, Updated, result.Outcome)
	require.NoError(t, store.Save())

	reloaded, err := Load(path)
	require.NoError(t, err)
	result, err = reloaded.Compare("item", actual, false)
	require.NoError(t, err)
	assert.Equal(t, Matched, result.Outcome)
}

func TestSave_NoChangesDoesNotWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snap.json")
	store, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, store.Save())

	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestLoad_InvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0644))

	_, err := Load(path)
	assert.ErrorContains(t, err, "parsing snapshot file")
}

func TestDiff_TypeChange(t *testing.T) {
	assert.Equal(t, []string{`$.a: expected {"b":1}, got [1]`}, Diff(
		map[string]any{"a": map[string]any{"b": float64(1)}},
		map[string]any{"a": []any{float64(1)}},
	))
	assert.Empty(t, Diff("same", "same"))
}
