package event

import (
	"fmt"
	"math"
	"strings"

	"github.com/jsphweid/eventrep/constants"
)

// DuplicateNoteMode decides which open note a note-off closes when several
// notes of the same pitch are sounding.
type DuplicateNoteMode string

const (
	FIFO     DuplicateNoteMode = "fifo"
	LIFO     DuplicateNoteMode = "lifo"
	CloseAll DuplicateNoteMode = "close_all"
)

func ParseDuplicateNoteMode(raw string) (DuplicateNoteMode, error) {
	mode := DuplicateNoteMode(strings.ToLower(strings.TrimSpace(raw)))
	switch mode {
	case FIFO, LIFO, CloseAll:
		return mode, nil
	default:
		return "", &ConfigError{
			Field:  "duplicate_note_mode",
			Value:  raw,
			Reason: fmt.Sprintf("expected %s|%s|%s", FIFO, LIFO, CloseAll),
		}
	}
}

// pop splits q into the records a note-off closes and the records that stay
// open. q is ordered oldest first.
func (m DuplicateNoteMode) pop(q []activeNote) (closed, rest []activeNote) {
	switch m {
	case LIFO:
		return q[len(q)-1:], q[:len(q)-1]
	case CloseAll:
		return q, nil
	default:
		return q[:1], q[1:]
	}
}

type Config struct {
	// Resolution is written to decoded scores; encoding only warns when a
	// score disagrees with it.
	Resolution     int
	DefaultProgram int
	DefaultIsDrum  bool

	UseSingleNoteOffEvent bool
	UseEndOfSequenceEvent bool

	MaxTimeShift      int
	VelocityBins      int
	DefaultVelocity   int
	DuplicateNoteMode DuplicateNoteMode

	EncodeVelocity     bool
	ForceVelocityEvent bool
	EncodeInstrument   bool
	EncodeDrumProgram  bool

	// NumTracks of 0 selects single-track mode where every track is
	// flattened into one implicit track.
	NumTracks         int
	IgnoreEmptyTracks bool
}

func DefaultConfig() Config {
	return Config{
		Resolution:         constants.DefaultResolution,
		MaxTimeShift:       constants.DefaultMaxTimeShift,
		VelocityBins:       constants.DefaultVelocityBins,
		DefaultVelocity:    constants.DefaultVelocity,
		DuplicateNoteMode:  FIFO,
		ForceVelocityEvent: true,
	}
}

func (c Config) singleTrack() bool {
	return c.NumTracks == 0
}

// Validate reports the first problem found as a *ConfigError. The returned
// Config carries the normalized duplicate note mode.
func (c Config) Validate() (Config, error) {
	if c.MaxTimeShift < 1 {
		return c, &ConfigError{Field: "max_time_shift", Value: c.MaxTimeShift, Reason: "must be at least 1"}
	}
	if c.VelocityBins < 1 {
		return c, &ConfigError{Field: "velocity_bins", Value: c.VelocityBins, Reason: "must be at least 1"}
	}
	mode, err := ParseDuplicateNoteMode(string(c.DuplicateNoteMode))
	if err != nil {
		return c, err
	}
	c.DuplicateNoteMode = mode
	if c.Resolution < 1 {
		return c, &ConfigError{Field: "resolution", Value: c.Resolution, Reason: "must be at least 1"}
	}
	if c.DefaultProgram < 0 || c.DefaultProgram >= constants.NumPrograms {
		return c, &ConfigError{Field: "default_program", Value: c.DefaultProgram, Reason: "must be within 0-127"}
	}
	if c.DefaultVelocity < 0 || c.DefaultVelocity > 127 {
		return c, &ConfigError{Field: "default_velocity", Value: c.DefaultVelocity, Reason: "must be within 0-127"}
	}
	if c.NumTracks < 0 {
		return c, &ConfigError{Field: "num_tracks", Value: c.NumTracks, Reason: "must be positive, or 0 for single-track mode"}
	}
	if c.EncodeInstrument && c.singleTrack() {
		return c, &ConfigError{Field: "encode_instrument", Value: true, Reason: "requires num_tracks"}
	}
	if size := NewVocabulary(c).Size(); size > math.MaxUint16+1 {
		return c, &ConfigError{Field: "max_time_shift", Value: c.MaxTimeShift, Reason: fmt.Sprintf("vocabulary of %d tokens does not fit in uint16", size)}
	}
	return c, nil
}
