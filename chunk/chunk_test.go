package chunk

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jsphweid/eventrep/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exampleSequences() model.Sequences {
	return model.Sequences{
		0: {60, 265, 188},
		1: {},
		2: {62, 356, 190, 64},
		5: {1, 2, 3, 4, 5, 6},
	}
}

func TestCreateAllThenReadSequence(t *testing.T) {
	dir := t.TempDir()
	seqs := exampleSequences()

	// small enough to force several chunks
	chunks, err := CreateAll(dir, seqs, 6)
	require.NoError(t, err)
	require.Len(t, chunks, 2)
	assert.Equal(t, model.FileNum(0), chunks[0].Start)
	assert.Equal(t, model.FileNum(2), chunks[0].End)
	assert.Equal(t, model.FileNum(5), chunks[1].Start)

	for num, want := range seqs {
		got, err := ReadSequence(dir, chunks, num)
		require.NoError(t, err)
		assert.Equal(t, len(want), len(got), "file %d", num)
		if len(want) > 0 {
			assert.Equal(t, want, got)
		}
	}

	missing, err := ReadSequence(dir, chunks, 3)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestSingleChunk(t *testing.T) {
	dir := t.TempDir()
	chunks, err := CreateAll(dir, exampleSequences(), 1<<20)
	require.NoError(t, err)
	require.Len(t, chunks, 1)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	index, _, err := ReadChunkIndex(filepath.Join(dir, chunks[0].Filename))
	require.NoError(t, err)
	assert.Equal(t, model.Pair{Start: 6, End: 6}, index[1])
	assert.Equal(t, model.Pair{Start: 6, End: 14}, index[2])
}

func TestCreateAllEmpty(t *testing.T) {
	chunks, err := CreateAll(t.TempDir(), model.Sequences{}, 10)
	require.NoError(t, err)
	assert.Empty(t, chunks)
}
