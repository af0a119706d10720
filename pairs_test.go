package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePairsFile(t *testing.T, contents string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "questions.json")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0644))
	return path
}

func TestDefaultPairSource(t *testing.T) {
	src := DefaultPairSource()
	require.Greater(t, src.Len(), 0)

	pair := src.Pick()
	assert.NotEmpty(t, pair.Common)
	assert.NotEmpty(t, pair.Odd)
	assert.Contains(t, src.pairs, pair)
}

func TestLoadPairSource(t *testing.T) {
	path := writePairsFile(t, `[
		{"common": "Who is tallest?", "odd": "Who is shortest?"},
		{"common": "Who is oldest?", "odd": "Who is youngest?"}
	]`)

	src, err := LoadPairSource(path)
	require.NoError(t, err)
	assert.Equal(t, 2, src.Len())
	assert.Contains(t, src.pairs, src.Pick())
}

func TestLoadPairSourceRejectsEmptySet(t *testing.T) {
	path := writePairsFile(t, `[]`)

	_, err := LoadPairSource(path)
	assert.Error(t, err)
}

func TestLoadPairSourceRejectsMissingVariant(t *testing.T) {
	path := writePairsFile(t, `[{"common": "Who is tallest?", "odd": "  "}]`)

	_, err := LoadPairSource(path)
	assert.Error(t, err)
}

func TestLoadPairSourceRejectsBadJSON(t *testing.T) {
	path := writePairsFile(t, `{not json`)

	_, err := LoadPairSource(path)
	assert.Error(t, err)
}

func TestLoadPairSourceMissingFile(t *testing.T) {
	_, err := LoadPairSource(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestRandomIndexBounds(t *testing.T) {
	assert.Equal(t, 0, randomIndex(0))
	assert.Equal(t, 0, randomIndex(1))

	for i := 0; i < 100; i++ {
		v := randomIndex(5)
		assert.GreaterOrEqual(t, v, 0)
		assert.Less(t, v, 5)
	}
}
