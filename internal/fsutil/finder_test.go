package fsutil

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0o644))
}

func TestResolveDocuments(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	root := t.TempDir()
	a := filepath.Join(root, "exp-a", "experiment.json")
	b := filepath.Join(root, "nested", "exp-b", "experiment.hcl")
	touch(t, a)
	touch(t, b)
	touch(t, filepath.Join(root, "exp-a", "input", "network.json"))
	single := filepath.Join(t.TempDir(), "custom.json")
	touch(t, single)

	// --- Act ---
	got, err := ResolveDocuments(context.Background(), "experiment", root, single, a)

	// --- Assert ---
	require.NoError(t, err)
	want := []string{a, b, single}
	assert.ElementsMatch(t, want, got)
	assert.Len(t, got, 3, "duplicates are removed")
}

func TestResolveDocuments_EquivalentPathsResolveOnce(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	root := t.TempDir()
	a := filepath.Join(root, "exp-a", "experiment.json")
	touch(t, a)
	dotted := root + string(filepath.Separator) + "." + string(filepath.Separator) +
		filepath.Join("exp-a", "..", "exp-a", "experiment.json")

	// --- Act ---
	got, err := ResolveDocuments(context.Background(), "experiment", a, dotted, filepath.Dir(a))

	// --- Assert ---
	require.NoError(t, err)
	assert.Equal(t, []string{a}, got)
}

func TestResolveDocuments_Missing(t *testing.T) {
	t.Parallel()

	_, err := ResolveDocuments(context.Background(), "experiment", filepath.Join(t.TempDir(), "nope"))

	assert.ErrorContains(t, err, "path not found")
}

func TestResolveDocument(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "application.hcl"))

	// --- Act ---
	got, err := ResolveDocument(dir, "application")

	// --- Assert ---
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "application.hcl"), got)

	touch(t, filepath.Join(dir, "application.json"))
	got, err = ResolveDocument(dir, "application")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "application.json"), got, "json wins")

	_, err = ResolveDocument(dir, "experiment")
	assert.Error(t, err)
}

func TestFindFiles_PanicsWithoutNames(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() { _, _ = FindFiles(t.TempDir()) })
}
