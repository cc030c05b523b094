package midi

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/jsphweid/eventrep/constants"
	"github.com/jsphweid/eventrep/model"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

func ReadScore(filepath string) (*model.Score, error) {
	dat, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("error reading midi file: %w", err)
	}
	return ReadScoreFrom(bytes.NewReader(dat))
}

// ReadScoreFrom parses a Standard MIDI File. Every (track, channel) pair
// with notes or a program change becomes one Track.
func ReadScoreFrom(r io.Reader) (score *model.Score, e error) {
	// handle panics
	// https://github.com/gomidi/midi/issues/20
	defer func() {
		if rec := recover(); rec != nil {
			score = nil
			if s, ok := rec.(string); ok {
				e = errors.New(s)
			} else {
				e = fmt.Errorf("error parsing midi file: %v", rec)
			}
		}
	}()

	s, err := smf.ReadFrom(r)
	if err != nil {
		return nil, fmt.Errorf("error parsing midi file: %w", err)
	}

	res := &model.Score{Resolution: constants.DefaultResolution}
	if mt, ok := s.TimeFormat.(smf.MetricTicks); ok {
		res.Resolution = int(mt.Resolution())
	}
	for _, events := range s.Tracks {
		res.Tracks = append(res.Tracks, readTrack(events)...)
	}
	return res, nil
}

type channelTrack struct {
	track model.Track
	// open note starts per key, oldest first
	open       map[uint8][]model.Note
	programSet bool
}

func readTrack(events smf.Track) []model.Track {
	var name string
	channels := make(map[uint8]*channelTrack)
	get := func(channel uint8) *channelTrack {
		ct, ok := channels[channel]
		if !ok {
			ct = &channelTrack{
				track: model.Track{IsDrum: channel == constants.DrumChannel},
				open:  make(map[uint8][]model.Note),
			}
			channels[channel] = ct
		}
		return ct
	}
	closeNote := func(ct *channelTrack, key uint8, tick int) {
		q := ct.open[key]
		if len(q) == 0 {
			return
		}
		n := q[0]
		ct.open[key] = q[1:]
		n.End = tick
		if n.End <= n.Start {
			n.End = n.Start + 1
		}
		ct.track.Notes = append(ct.track.Notes, n)
	}

	var absTicks int
	for _, event := range events {
		absTicks += int(event.Delta)
		var channel, key, velocity, program uint8
		var text string
		switch {
		case event.Message.GetNoteOn(&channel, &key, &velocity):
			ct := get(channel)
			if velocity == 0 {
				closeNote(ct, key, absTicks)
				continue
			}
			ct.open[key] = append(ct.open[key], model.Note{Pitch: key, Start: absTicks, Velocity: velocity})
		case event.Message.GetNoteOff(&channel, &key, &velocity):
			closeNote(get(channel), key, absTicks)
		case midi.Message(event.Message).GetProgramChange(&channel, &program):
			ct := get(channel)
			if !ct.programSet {
				ct.track.Program = program
				ct.programSet = true
			}
		case event.Message.GetMetaTrackName(&text):
			name = text
		}
	}

	keys := make([]int, 0, len(channels))
	for ch := range channels {
		keys = append(keys, int(ch))
	}
	sort.Ints(keys)

	var res []model.Track
	for _, ch := range keys {
		ct := channels[uint8(ch)]
		for key := range ct.open {
			for len(ct.open[key]) > 0 {
				closeNote(ct, key, absTicks)
			}
		}
		sort.SliceStable(ct.track.Notes, func(i, j int) bool {
			a, b := ct.track.Notes[i], ct.track.Notes[j]
			if a.Start != b.Start {
				return a.Start < b.Start
			}
			return a.Pitch < b.Pitch
		})
		ct.track.Name = name
		res = append(res, ct.track)
	}
	return res
}

func WriteScore(score *model.Score, filepath string) error {
	f, err := os.Create(filepath)
	if err != nil {
		return fmt.Errorf("could not create %v: %w", filepath, err)
	}
	defer f.Close()

	if err := WriteScoreTo(score, f); err != nil {
		return err
	}
	return f.Close()
}

type timedMessage struct {
	tick  int
	isOff bool
	msg   midi.Message
}

// channelFor hands out melodic channels in order, skipping the drum channel.
func channelFor(trackNum int, isDrum bool) uint8 {
	if isDrum {
		return constants.DrumChannel
	}
	ch := uint8(trackNum % 15)
	if ch >= constants.DrumChannel {
		ch++
	}
	return ch
}

func WriteScoreTo(score *model.Score, w io.Writer) error {
	s := smf.New()
	resolution := score.Resolution
	if resolution < 1 || resolution > 0x7FFF {
		resolution = constants.DefaultResolution
	}
	s.TimeFormat = smf.MetricTicks(uint16(resolution))

	melodic := 0
	for _, t := range score.Tracks {
		ch := channelFor(melodic, t.IsDrum)
		if !t.IsDrum {
			melodic++
		}

		var msgs []timedMessage
		for _, n := range t.Notes {
			// a zero velocity note-on reads back as a note-off
			vel := n.Velocity
			if vel == 0 {
				vel = 1
			}
			msgs = append(msgs,
				timedMessage{tick: n.Start, msg: midi.NoteOn(ch, n.Pitch, vel)},
				timedMessage{tick: n.End, isOff: true, msg: midi.NoteOff(ch, n.Pitch)},
			)
		}
		sort.SliceStable(msgs, func(i, j int) bool {
			if msgs[i].tick != msgs[j].tick {
				return msgs[i].tick < msgs[j].tick
			}
			return msgs[i].isOff && !msgs[j].isOff
		})

		var tr smf.Track
		if t.Name != "" {
			tr.Add(0, smf.MetaTrackSequenceName(t.Name))
		}
		tr.Add(0, midi.ProgramChange(ch, t.Program))
		var cursor int
		for _, m := range msgs {
			tr.Add(uint32(m.tick-cursor), m.msg)
			cursor = m.tick
		}
		tr.Close(0)
		if err := s.Add(tr); err != nil {
			return fmt.Errorf("could not add track: %w", err)
		}
	}

	if _, err := s.WriteTo(w); err != nil {
		return fmt.Errorf("could not write midi file: %w", err)
	}
	return nil
}
