package event

import (
	"errors"
	"fmt"
)

var (
	ErrConfiguration = errors.New("invalid event configuration")
	ErrInvalidToken  = errors.New("invalid token")
	ErrInvalidScore  = errors.New("invalid score")
)

type ConfigError struct {
	Field  string
	Value  any
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%v: %s=%v %s", ErrConfiguration, e.Field, e.Value, e.Reason)
}

func (e *ConfigError) Unwrap() error {
	return ErrConfiguration
}

// InvalidTokenError is returned when a value falls outside every range of
// the vocabulary.
type InvalidTokenError struct {
	Index     int
	Token     int
	VocabSize int
}

func (e *InvalidTokenError) Error() string {
	return fmt.Sprintf("%v %d at index %d (vocabulary size %d)", ErrInvalidToken, e.Token, e.Index, e.VocabSize)
}

func (e *InvalidTokenError) Unwrap() error {
	return ErrInvalidToken
}

// ScoreError reports a score value that has no token in the vocabulary.
// Note is -1 when the value belongs to the track itself.
type ScoreError struct {
	Track int
	Note  int
	Field string
	Value int
}

func (e *ScoreError) Error() string {
	if e.Note < 0 {
		return fmt.Sprintf("%v: track %d %s=%d is out of range 0-127", ErrInvalidScore, e.Track, e.Field, e.Value)
	}
	return fmt.Sprintf("%v: track %d note %d %s=%d is out of range 0-127", ErrInvalidScore, e.Track, e.Note, e.Field, e.Value)
}

func (e *ScoreError) Unwrap() error {
	return ErrInvalidScore
}
