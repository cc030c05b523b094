package event

import (
	"fmt"

	"github.com/jsphweid/eventrep/constants"
)

// Range is a contiguous block of token values.
type Range struct {
	Start int
	Size  int
}

func (r Range) End() int {
	return r.Start + r.Size
}

func (r Range) Contains(token int) bool {
	return token >= r.Start && token < r.End()
}

type NamedRange struct {
	Name string
	Range
}

// Vocabulary assigns disjoint token ranges to every event kind enabled by
// a Config. It holds no state beyond the layout and is safe to share.
type Vocabulary struct {
	noteOn     Range
	noteOff    Range
	timeShift  Range
	velocity   Range
	instrument Range
	eos        Range

	singleNoteOff     bool
	encodeDrumProgram bool
}

func NewVocabulary(cfg Config) *Vocabulary {
	v := &Vocabulary{
		singleNoteOff:     cfg.UseSingleNoteOffEvent,
		encodeDrumProgram: cfg.EncodeDrumProgram,
	}
	var cursor int
	next := func(size int) Range {
		r := Range{Start: cursor, Size: size}
		cursor += size
		return r
	}

	v.noteOn = next(constants.NumPitches)
	if cfg.UseSingleNoteOffEvent {
		v.noteOff = next(1)
	} else {
		v.noteOff = next(constants.NumPitches)
	}
	v.timeShift = next(cfg.MaxTimeShift)
	if cfg.EncodeVelocity {
		v.velocity = next(cfg.VelocityBins)
	} else {
		v.velocity = next(0)
	}
	switch {
	case !cfg.EncodeInstrument:
		v.instrument = next(0)
	case cfg.EncodeDrumProgram:
		v.instrument = next(2 * constants.NumPrograms)
	default:
		// every drum track shares the standard kit token
		v.instrument = next(constants.NumPrograms + 1)
	}
	if cfg.UseEndOfSequenceEvent {
		v.eos = next(1)
	} else {
		v.eos = next(0)
	}
	return v
}

func (v *Vocabulary) Size() int {
	return v.eos.End()
}

// Ranges lists the non-empty ranges in token order.
func (v *Vocabulary) Ranges() []NamedRange {
	all := []NamedRange{
		{KindNoteOn.String(), v.noteOn},
		{KindNoteOff.String(), v.noteOff},
		{KindTimeShift.String(), v.timeShift},
		{KindVelocity.String(), v.velocity},
		{KindInstrument.String(), v.instrument},
		{KindEndOfSequence.String(), v.eos},
	}
	var res []NamedRange
	for _, r := range all {
		if r.Size > 0 {
			res = append(res, r)
		}
	}
	return res
}

func (v *Vocabulary) NoteOn(pitch uint8) uint16 {
	return uint16(v.noteOn.Start + int(pitch))
}

func (v *Vocabulary) NoteOff(pitch uint8) uint16 {
	if v.singleNoteOff {
		return uint16(v.noteOff.Start)
	}
	return uint16(v.noteOff.Start + int(pitch))
}

// TimeShift expects 1 <= shift <= max_time_shift.
func (v *Vocabulary) TimeShift(shift int) uint16 {
	return uint16(v.timeShift.Start + shift - 1)
}

func (v *Vocabulary) Velocity(bin int) uint16 {
	return uint16(v.velocity.Start + bin)
}

func (v *Vocabulary) Instrument(program uint8, isDrum bool) uint16 {
	switch {
	case !isDrum:
		return uint16(v.instrument.Start + int(program))
	case v.encodeDrumProgram:
		return uint16(v.instrument.Start + constants.NumPrograms + int(program))
	default:
		return uint16(v.instrument.Start + constants.NumPrograms)
	}
}

func (v *Vocabulary) EndOfSequence() uint16 {
	return uint16(v.eos.Start)
}

// Lookup maps a token back to its event. Tick is left at zero.
func (v *Vocabulary) Lookup(token int) (Event, bool) {
	switch {
	case v.noteOn.Contains(token):
		return Event{Kind: KindNoteOn, Pitch: uint8(token - v.noteOn.Start)}, true
	case v.noteOff.Contains(token):
		if v.singleNoteOff {
			return Event{Kind: KindNoteOff, AllPitches: true}, true
		}
		return Event{Kind: KindNoteOff, Pitch: uint8(token - v.noteOff.Start)}, true
	case v.timeShift.Contains(token):
		return Event{Kind: KindTimeShift, Shift: token - v.timeShift.Start + 1}, true
	case v.velocity.Contains(token):
		return Event{Kind: KindVelocity, Bin: token - v.velocity.Start}, true
	case v.instrument.Contains(token):
		offset := token - v.instrument.Start
		if offset < constants.NumPrograms {
			return Event{Kind: KindInstrument, Program: uint8(offset)}, true
		}
		return Event{Kind: KindInstrument, Program: uint8(offset - constants.NumPrograms), IsDrum: true}, true
	case v.eos.Contains(token):
		return Event{Kind: KindEndOfSequence}, true
	}
	return Event{}, false
}

func (v *Vocabulary) Describe(token int) string {
	e, ok := v.Lookup(token)
	if !ok {
		return fmt.Sprintf("invalid(%d)", token)
	}
	return e.String()
}
