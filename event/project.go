package event

import (
	"sort"

	"github.com/jsphweid/eventrep/model"
)

type scope struct {
	track model.Track
	notes []model.Note
}

// selectScopes groups the score's notes into the track scopes that get
// encoded one after another.
func selectScopes(score *model.Score, cfg Config) []scope {
	if cfg.singleTrack() {
		var merged scope
		for _, t := range score.Tracks {
			merged.notes = append(merged.notes, t.Notes...)
		}
		return []scope{merged}
	}

	var tracks []model.Track
	for _, t := range score.Tracks {
		if cfg.IgnoreEmptyTracks && len(t.Notes) == 0 {
			continue
		}
		tracks = append(tracks, t)
	}
	if len(tracks) > cfg.NumTracks {
		tracks = tracks[:cfg.NumTracks]
	}

	// nothing marks a track boundary without instrument events
	if !cfg.EncodeInstrument {
		var merged scope
		for _, t := range tracks {
			merged.notes = append(merged.notes, t.Notes...)
		}
		return []scope{merged}
	}

	scopes := make([]scope, 0, len(tracks))
	for _, t := range tracks {
		scopes = append(scopes, scope{track: t, notes: t.Notes})
	}
	return scopes
}

func sortNotes(notes []model.Note) {
	sort.SliceStable(notes, func(i, j int) bool {
		a, b := notes[i], notes[j]
		if a.Start != b.Start {
			return a.Start < b.Start
		}
		if a.Pitch != b.Pitch {
			return a.Pitch < b.Pitch
		}
		if a.Duration() != b.Duration() {
			return a.Duration() < b.Duration()
		}
		return a.Velocity < b.Velocity
	})
}

func projectScope(s scope, cfg Config) []Event {
	notes := make([]model.Note, len(s.notes))
	copy(notes, s.notes)
	sortNotes(notes)

	events := make([]Event, 0, 2*len(notes)+1)
	for _, n := range notes {
		events = append(events,
			Event{Kind: KindNoteOn, Tick: n.Start, Pitch: n.Pitch, Velocity: n.Velocity},
			Event{Kind: KindNoteOff, Tick: n.End, Pitch: n.Pitch, AllPitches: cfg.UseSingleNoteOffEvent},
		)
	}

	// prioritize smaller ticks then note off
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].Tick != events[j].Tick {
			return events[i].Tick < events[j].Tick
		}
		return events[i].Kind == KindNoteOff && events[j].Kind != KindNoteOff
	})

	if cfg.EncodeInstrument {
		program := s.track.Program
		if s.track.IsDrum && !cfg.EncodeDrumProgram {
			program = 0
		}
		instrument := Event{Kind: KindInstrument, Program: program, IsDrum: s.track.IsDrum}
		events = append([]Event{instrument}, events...)
	}
	return events
}

// Project turns a score into time-ordered semantic events, one slice per
// track scope. Ticks are absolute within their scope.
func Project(score *model.Score, cfg Config) [][]Event {
	scopes := selectScopes(score, cfg)
	res := make([][]Event, 0, len(scopes))
	for _, s := range scopes {
		res = append(res, projectScope(s, cfg))
	}

	if cfg.UseEndOfSequenceEvent {
		if len(res) == 0 {
			res = append(res, nil)
		}
		last := res[len(res)-1]
		var tick int
		if len(last) > 0 {
			tick = last[len(last)-1].Tick
		}
		res[len(res)-1] = append(last, Event{Kind: KindEndOfSequence, Tick: tick})
	}
	return res
}
