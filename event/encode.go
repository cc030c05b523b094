package event

import (
	"errors"

	"github.com/jsphweid/eventrep/constants"
	"github.com/jsphweid/eventrep/model"
)

// checkScore rejects pitches, and programs when they are encoded, that do
// not fit their token range.
func (p *Processor) checkScore(score *model.Score) error {
	for i, t := range score.Tracks {
		if p.cfg.EncodeInstrument && int(t.Program) >= constants.NumPrograms {
			return &ScoreError{Track: i, Note: -1, Field: "program", Value: int(t.Program)}
		}
		for j, n := range t.Notes {
			if int(n.Pitch) >= constants.NumPitches {
				return &ScoreError{Track: i, Note: j, Field: "pitch", Value: int(n.Pitch)}
			}
		}
	}
	return nil
}

func (p *Processor) Encode(score *model.Score) ([]uint16, error) {
	if score == nil {
		return nil, errors.New("cannot encode a nil score")
	}
	if err := p.checkScore(score); err != nil {
		return nil, err
	}
	if score.Resolution != p.cfg.Resolution {
		p.logger.Warn("unexpected score resolution",
			"expected", p.cfg.Resolution,
			"got", score.Resolution)
	}
	return p.EncodeEvents(Project(score, p.cfg)), nil
}

// EncodeEvents emits the tokens for projected scopes. The time cursor
// restarts at zero for every scope.
func (p *Processor) EncodeEvents(scopes [][]Event) []uint16 {
	var tokens []uint16
	for _, events := range scopes {
		cursor := 0
		lastBin := -1
		for _, e := range events {
			if e.Tick > cursor {
				for _, shift := range DecomposeTimeShift(e.Tick-cursor, p.cfg.MaxTimeShift) {
					tokens = append(tokens, p.vocab.TimeShift(shift))
				}
				cursor = e.Tick
			}

			switch e.Kind {
			case KindNoteOn:
				if p.cfg.EncodeVelocity {
					bin := QuantizeVelocity(int(e.Velocity), p.cfg.VelocityBins)
					if p.cfg.ForceVelocityEvent || bin != lastBin {
						tokens = append(tokens, p.vocab.Velocity(bin))
						lastBin = bin
					}
				}
				tokens = append(tokens, p.vocab.NoteOn(e.Pitch))
			case KindNoteOff:
				tokens = append(tokens, p.vocab.NoteOff(e.Pitch))
			case KindInstrument:
				tokens = append(tokens, p.vocab.Instrument(e.Program, e.IsDrum))
			case KindEndOfSequence:
				tokens = append(tokens, p.vocab.EndOfSequence())
			}
		}
	}
	return tokens
}
