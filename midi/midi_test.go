package midi

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/jsphweid/eventrep/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exampleScore() *model.Score {
	return &model.Score{
		Resolution: 480,
		Tracks: []model.Track{
			{
				Program: 33,
				Name:    "bass",
				Notes: []model.Note{
					{Pitch: 40, Start: 0, End: 480, Velocity: 100},
					{Pitch: 43, Start: 240, End: 1200, Velocity: 80},
					{Pitch: 40, Start: 480, End: 960, Velocity: 90},
				},
			},
			{
				IsDrum: true,
				Notes: []model.Note{
					{Pitch: 36, Start: 0, End: 10, Velocity: 127},
					{Pitch: 38, Start: 480, End: 490, Velocity: 64},
				},
			},
		},
	}
}

func TestWriteThenRead(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteScoreTo(exampleScore(), &buf))

	score, err := ReadScoreFrom(&buf)
	require.NoError(t, err)

	assert := assert.New(t)
	assert.Equal(480, score.Resolution)
	assert.Equal(exampleScore().Tracks, score.Tracks)
}

func TestWriteThenReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "example.mid")
	require.NoError(t, WriteScore(exampleScore(), path))

	score, err := ReadScore(path)
	require.NoError(t, err)
	assert.Equal(t, 5, score.NumNotes())
	assert.Equal(t, 1200, score.EndTick())
}

func TestZeroVelocityNotesSurvive(t *testing.T) {
	var buf bytes.Buffer
	in := &model.Score{Resolution: 96, Tracks: []model.Track{{Notes: []model.Note{{Pitch: 60, Start: 0, End: 96}}}}}
	require.NoError(t, WriteScoreTo(in, &buf))

	score, err := ReadScoreFrom(&buf)
	require.NoError(t, err)
	require.Len(t, score.Tracks, 1)
	assert.Equal(t, []model.Note{{Pitch: 60, Start: 0, End: 96, Velocity: 1}}, score.Tracks[0].Notes)
}

func TestChannelFor(t *testing.T) {
	assert := assert.New(t)
	assert.Equal(uint8(0), channelFor(0, false))
	assert.Equal(uint8(8), channelFor(8, false))
	assert.Equal(uint8(10), channelFor(9, false))
	assert.Equal(uint8(9), channelFor(3, true))
}

func TestReadGarbage(t *testing.T) {
	_, err := ReadScoreFrom(bytes.NewReader([]byte("not a midi file")))
	assert.Error(t, err)

	_, err = ReadScore(filepath.Join(t.TempDir(), "missing.mid"))
	assert.Error(t, err)
}
