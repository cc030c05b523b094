package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func velocityConfig() Config {
	cfg := DefaultConfig()
	cfg.EncodeVelocity = true
	return cfg
}

func TestDefaultLayout(t *testing.T) {
	v := NewVocabulary(velocityConfig())

	assert := assert.New(t)
	assert.Equal(uint16(60), v.NoteOn(60))
	assert.Equal(uint16(188), v.NoteOff(60))
	assert.Equal(uint16(256), v.TimeShift(1))
	assert.Equal(uint16(355), v.TimeShift(100))
	assert.Equal(uint16(356), v.Velocity(0))
	assert.Equal(uint16(387), v.Velocity(31))
	assert.Equal(388, v.Size())
}

func TestVelocityRangeOnlyWhenEncoded(t *testing.T) {
	v := NewVocabulary(DefaultConfig())
	assert.Equal(t, 356, v.Size())
	_, ok := v.Lookup(356)
	assert.False(t, ok)
}

func TestSingleNoteOffKeepsRangesContiguous(t *testing.T) {
	cfg := DefaultConfig()
	cfg.UseSingleNoteOffEvent = true
	v := NewVocabulary(cfg)

	assert := assert.New(t)
	assert.Equal(uint16(128), v.NoteOff(0))
	assert.Equal(uint16(128), v.NoteOff(127))
	assert.Equal(uint16(129), v.TimeShift(1))

	e, ok := v.Lookup(128)
	assert.True(ok)
	assert.True(e.AllPitches)
}

func TestInstrumentRanges(t *testing.T) {
	cfg := DefaultConfig()
	cfg.NumTracks = 4
	cfg.EncodeInstrument = true
	cfg.UseEndOfSequenceEvent = true

	v := NewVocabulary(cfg)
	assert := assert.New(t)
	assert.Equal(uint16(356), v.Instrument(0, false))
	assert.Equal(uint16(356+128), v.Instrument(25, true))
	assert.Equal(uint16(356+129), v.EndOfSequence())
	assert.Equal(356+130, v.Size())

	cfg.EncodeDrumProgram = true
	v = NewVocabulary(cfg)
	assert.Equal(uint16(356+128+25), v.Instrument(25, true))
	assert.Equal(uint16(356+256), v.EndOfSequence())

	e, ok := v.Lookup(int(v.Instrument(25, true)))
	assert.True(ok)
	assert.Equal(Event{Kind: KindInstrument, Program: 25, IsDrum: true}, e)
}

func TestRangesAreDisjointAndContiguous(t *testing.T) {
	cfg := velocityConfig()
	cfg.NumTracks = 2
	cfg.EncodeInstrument = true
	cfg.EncodeDrumProgram = true
	cfg.UseEndOfSequenceEvent = true
	v := NewVocabulary(cfg)

	next := 0
	for _, r := range v.Ranges() {
		assert.Equal(t, next, r.Start, r.Name)
		next = r.End()
	}
	assert.Equal(t, v.Size(), next)
}

func tokenFor(v *Vocabulary, e Event) uint16 {
	switch e.Kind {
	case KindNoteOn:
		return v.NoteOn(e.Pitch)
	case KindNoteOff:
		return v.NoteOff(e.Pitch)
	case KindTimeShift:
		return v.TimeShift(e.Shift)
	case KindVelocity:
		return v.Velocity(e.Bin)
	case KindInstrument:
		return v.Instrument(e.Program, e.IsDrum)
	default:
		return v.EndOfSequence()
	}
}

func TestLookupInvertsEveryToken(t *testing.T) {
	cfg := velocityConfig()
	cfg.NumTracks = 2
	cfg.EncodeInstrument = true
	cfg.EncodeDrumProgram = true
	cfg.UseEndOfSequenceEvent = true
	v := NewVocabulary(cfg)

	for token := 0; token < v.Size(); token++ {
		e, ok := v.Lookup(token)
		if !assert.True(t, ok, token) {
			continue
		}
		assert.Equal(t, uint16(token), tokenFor(v, e))
	}
	_, ok := v.Lookup(v.Size())
	assert.False(t, ok)
	_, ok = v.Lookup(-1)
	assert.False(t, ok)
}

func TestDescribe(t *testing.T) {
	v := NewVocabulary(velocityConfig())
	assert := assert.New(t)
	assert.Equal("note_on(60)", v.Describe(60))
	assert.Equal("note_off(60)", v.Describe(188))
	assert.Equal("time_shift(100)", v.Describe(355))
	assert.Equal("velocity(25)", v.Describe(381))
	assert.Equal("invalid(9999)", v.Describe(9999))
}
