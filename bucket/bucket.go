package bucket

import (
	"log/slog"
	"sync"

	"github.com/jsphweid/eventrep/event"
	"github.com/jsphweid/eventrep/file"
	"github.com/jsphweid/eventrep/midi"
	"github.com/jsphweid/eventrep/model"
	"github.com/jsphweid/eventrep/sample"
	"github.com/jsphweid/eventrep/util"
	"github.com/remeh/sizedwaitgroup"
)

type Options struct {
	MediaDir string
	Workers  int
	// excerpt applied before encoding, 0 keeps every note
	MaxNotes int
	Logger   *slog.Logger
}

type Result struct {
	Sequences model.Sequences
	Skipped   []model.FileNum
}

func encodeMidiFile(p *event.Processor, path string, maxNotes int) ([]uint16, error) {
	score, err := midi.ReadScore(path)
	if err != nil {
		return nil, err
	}
	if maxNotes > 0 {
		score = sample.Create(score, 0, maxNotes)
	}
	return p.Encode(score)
}

// EncodeAll encodes every file of m with up to opts.Workers files in
// flight. Files that fail to parse or encode are logged and skipped.
func EncodeAll(m model.FileNumToMidiPath, p *event.Processor, opts Options) Result {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	workers := util.Max(opts.Workers, 1)

	res := Result{Sequences: make(model.Sequences)}
	var mu sync.Mutex
	swg := sizedwaitgroup.New(workers)

	keys := util.GetKeysSorted(m)
	for i, num := range keys {
		swg.Add()
		go func(i int, num model.FileNum) {
			defer swg.Done()
			path := file.Resolve(opts.MediaDir, m[num])
			logger.Debug("processing midi file", "n", i+1, "of", len(keys), "path", path)

			seq, err := encodeMidiFile(p, path, opts.MaxNotes)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				logger.Warn("skipping midi file", "path", path, "err", err)
				res.Skipped = append(res.Skipped, num)
				return
			}
			res.Sequences[num] = seq
		}(i, num)
	}
	swg.Wait()

	return res
}
