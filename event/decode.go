package event

import (
	"github.com/jsphweid/eventrep/constants"
	"github.com/jsphweid/eventrep/model"
	"github.com/jsphweid/eventrep/util"
)

type activeNote struct {
	pitch    uint8
	start    int
	velocity uint8
	// insertion order, used to order notes across pitches
	seq int
}

type decoder struct {
	cfg   Config
	tick  int
	vel   int
	seq   int
	notes [constants.NumPitches][]activeNote

	tracks []model.Track
	// index into tracks, -1 until a track scope is open
	current int
}

func newDecoder(cfg Config) *decoder {
	d := &decoder{cfg: cfg, vel: cfg.DefaultVelocity, current: -1}
	if cfg.singleTrack() {
		d.openTrack(uint8(cfg.DefaultProgram), cfg.DefaultIsDrum)
	}
	return d
}

func (d *decoder) openTrack(program uint8, isDrum bool) {
	d.tracks = append(d.tracks, model.Track{Program: program, IsDrum: isDrum})
	d.current = len(d.tracks) - 1
}

func (d *decoder) track() *model.Track {
	if d.current < 0 {
		d.openTrack(uint8(d.cfg.DefaultProgram), d.cfg.DefaultIsDrum)
	}
	return &d.tracks[d.current]
}

func (d *decoder) close(records []activeNote) {
	if len(records) == 0 {
		return
	}
	t := d.track()
	for _, r := range records {
		end := d.tick
		if end <= r.start {
			end = r.start + 1
		}
		t.Notes = append(t.Notes, model.Note{
			Pitch:    r.pitch,
			Start:    r.start,
			End:      end,
			Velocity: r.velocity,
		})
	}
}

func (d *decoder) closeAll() {
	for pitch, q := range d.notes {
		d.close(q)
		d.notes[pitch] = nil
	}
}

func (d *decoder) noteOn(pitch uint8) {
	d.track()
	d.notes[pitch] = append(d.notes[pitch], activeNote{
		pitch:    pitch,
		start:    d.tick,
		velocity: uint8(util.Clamp(d.vel, 0, 127)),
		seq:      d.seq,
	})
	d.seq++
}

func (d *decoder) noteOff(e Event) {
	mode := d.cfg.DuplicateNoteMode
	if !e.AllPitches {
		q := d.notes[e.Pitch]
		if len(q) == 0 {
			return
		}
		closed, rest := mode.pop(q)
		d.close(closed)
		d.notes[e.Pitch] = rest
		return
	}

	if mode == CloseAll {
		d.closeAll()
		return
	}
	// choose the pitch holding the oldest (fifo) or newest (lifo) record
	target := -1
	for pitch, q := range d.notes {
		if len(q) == 0 {
			continue
		}
		if target < 0 {
			target = pitch
			continue
		}
		best := d.notes[target]
		if mode == LIFO && q[len(q)-1].seq > best[len(best)-1].seq {
			target = pitch
		}
		if mode == FIFO && q[0].seq < best[0].seq {
			target = pitch
		}
	}
	if target < 0 {
		return
	}
	closed, rest := mode.pop(d.notes[target])
	d.close(closed)
	d.notes[target] = rest
}

func (d *decoder) instrument(e Event) {
	if d.cfg.singleTrack() {
		t := d.track()
		t.Program = e.Program
		t.IsDrum = e.IsDrum
		return
	}
	// a new track scope starts with a fresh clock
	d.closeAll()
	d.openTrack(e.Program, e.IsDrum)
	d.tick = 0
	d.vel = d.cfg.DefaultVelocity
}

func (d *decoder) score() *model.Score {
	var tracks []model.Track
	for _, t := range d.tracks {
		if d.cfg.IgnoreEmptyTracks && len(t.Notes) == 0 {
			continue
		}
		sortNotes(t.Notes)
		tracks = append(tracks, t)
	}
	return &model.Score{Resolution: d.cfg.Resolution, Tracks: tracks}
}

// Decode rebuilds a score from tokens. It fails only on a token outside the
// vocabulary, in which case no score is returned. Stray note-offs are
// ignored and notes still open at the end are closed at the final tick.
func (p *Processor) Decode(tokens []int) (*model.Score, error) {
	d := newDecoder(p.cfg)

TokenLoop:
	for i, token := range tokens {
		e, ok := p.vocab.Lookup(token)
		if !ok {
			return nil, &InvalidTokenError{Index: i, Token: token, VocabSize: p.vocab.Size()}
		}
		switch e.Kind {
		case KindEndOfSequence:
			break TokenLoop
		case KindTimeShift:
			d.tick += e.Shift
		case KindVelocity:
			d.vel = DequantizeVelocity(e.Bin, p.cfg.VelocityBins)
		case KindInstrument:
			d.instrument(e)
		case KindNoteOn:
			d.noteOn(e.Pitch)
		case KindNoteOff:
			d.noteOff(e)
		}
	}
	d.closeAll()

	return d.score(), nil
}
