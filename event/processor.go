package event

import (
	"log/slog"

	"github.com/jsphweid/eventrep/model"
	"golang.org/x/exp/constraints"
)

// Processor encodes and decodes with one validated Config. It is immutable
// after construction and safe for concurrent use.
type Processor struct {
	cfg    Config
	vocab  *Vocabulary
	logger *slog.Logger
}

type Option func(*Processor)

func WithLogger(logger *slog.Logger) Option {
	return func(p *Processor) { p.logger = logger }
}

func NewProcessor(cfg Config, opts ...Option) (*Processor, error) {
	validated, err := cfg.Validate()
	if err != nil {
		return nil, err
	}
	p := &Processor{
		cfg:    validated,
		vocab:  NewVocabulary(validated),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

func (p *Processor) Config() Config {
	return p.cfg
}

func (p *Processor) Vocabulary() *Vocabulary {
	return p.vocab
}

// Number is anything a token array may be stored as.
type Number interface {
	constraints.Integer | constraints.Float
}

// ToInts casts every value to int, truncating floats.
func ToInts[T Number](values []T) []int {
	res := make([]int, len(values))
	for i, v := range values {
		res[i] = int(v)
	}
	return res
}

func Encode(score *model.Score, cfg Config) ([]uint16, error) {
	p, err := NewProcessor(cfg)
	if err != nil {
		return nil, err
	}
	return p.Encode(score)
}

func Decode[T Number](tokens []T, cfg Config) (*model.Score, error) {
	p, err := NewProcessor(cfg)
	if err != nil {
		return nil, err
	}
	return p.Decode(ToInts(tokens))
}
