package sample

import (
	"sort"

	"github.com/jsphweid/eventrep/model"
)

// Create cuts an excerpt out of s: per track, the first maxNotes notes that
// start at or after ticksOffset, moved so the excerpt starts at tick 0.
// A maxNotes of 0 keeps every note.
func Create(s *model.Score, ticksOffset int, maxNotes int) *model.Score {
	res := &model.Score{Resolution: s.Resolution}

	for _, track := range s.Tracks {
		newTrack := model.Track{Program: track.Program, IsDrum: track.IsDrum, Name: track.Name}

		notes := append([]model.Note(nil), track.Notes...)
		sort.SliceStable(notes, func(i, j int) bool {
			return notes[i].Start < notes[j].Start
		})
		for _, n := range notes {
			if n.Start < ticksOffset {
				continue
			}
			if maxNotes > 0 && len(newTrack.Notes) >= maxNotes {
				break
			}
			n.Start -= ticksOffset
			n.End -= ticksOffset
			newTrack.Notes = append(newTrack.Notes, n)
		}

		res.Tracks = append(res.Tracks, newTrack)
	}

	return res
}
