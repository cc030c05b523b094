// Package event converts scores to and from the event representation: a
// flat sequence of note-on, note-off, time-shift, velocity, instrument and
// end-of-sequence tokens.
package event

import "fmt"

type Kind uint8

const (
	KindNoteOn Kind = iota
	KindNoteOff
	KindTimeShift
	KindVelocity
	KindInstrument
	KindEndOfSequence
)

func (k Kind) String() string {
	switch k {
	case KindNoteOn:
		return "note_on"
	case KindNoteOff:
		return "note_off"
	case KindTimeShift:
		return "time_shift"
	case KindVelocity:
		return "velocity"
	case KindInstrument:
		return "instrument"
	case KindEndOfSequence:
		return "eos"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Event is one semantic event. Only the fields relevant to Kind are set.
type Event struct {
	Kind Kind
	// absolute tick within the track scope, set by Project
	Tick int

	Pitch uint8
	// shared note-off closing any pitch
	AllPitches bool
	// raw note velocity on projected note-ons
	Velocity uint8
	// velocity bin on decoded velocity events
	Bin   int
	Shift int

	Program uint8
	IsDrum  bool
}

func (e Event) String() string {
	switch e.Kind {
	case KindNoteOn:
		return fmt.Sprintf("note_on(%d)", e.Pitch)
	case KindNoteOff:
		if e.AllPitches {
			return "note_off(all)"
		}
		return fmt.Sprintf("note_off(%d)", e.Pitch)
	case KindTimeShift:
		return fmt.Sprintf("time_shift(%d)", e.Shift)
	case KindVelocity:
		return fmt.Sprintf("velocity(%d)", e.Bin)
	case KindInstrument:
		if e.IsDrum {
			return fmt.Sprintf("instrument(%d, drum)", e.Program)
		}
		return fmt.Sprintf("instrument(%d)", e.Program)
	default:
		return e.Kind.String()
	}
}
