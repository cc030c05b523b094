package sample

import (
	"testing"

	"github.com/jsphweid/eventrep/model"
	"github.com/stretchr/testify/assert"
)

func TestCreateShiftsAndLimits(t *testing.T) {
	s := &model.Score{
		Resolution: 24,
		Tracks: []model.Track{
			{Program: 4, Notes: []model.Note{
				{Pitch: 60, Start: 30, End: 40, Velocity: 1},
				{Pitch: 61, Start: 0, End: 10, Velocity: 2},
				{Pitch: 62, Start: 20, End: 25, Velocity: 3},
				{Pitch: 63, Start: 50, End: 60, Velocity: 4},
			}},
			{IsDrum: true, Notes: []model.Note{{Pitch: 36, Start: 5, End: 6}}},
		},
	}

	res := Create(s, 20, 2)

	assert := assert.New(t)
	assert.Equal(24, res.Resolution)
	assert.Len(res.Tracks, 2)
	assert.Equal(uint8(4), res.Tracks[0].Program)
	assert.Equal([]model.Note{
		{Pitch: 62, Start: 0, End: 5, Velocity: 3},
		{Pitch: 60, Start: 10, End: 20, Velocity: 1},
	}, res.Tracks[0].Notes)
	assert.True(res.Tracks[1].IsDrum)
	assert.Empty(res.Tracks[1].Notes)

	// the source score is untouched
	assert.Equal(30, s.Tracks[0].Notes[0].Start)
}

func TestCreateWithoutLimit(t *testing.T) {
	s := &model.Score{Tracks: []model.Track{{Notes: []model.Note{{Start: 1, End: 2}, {Start: 3, End: 4}}}}}
	assert.Len(t, Create(s, 0, 0).Tracks[0].Notes, 2)
}
