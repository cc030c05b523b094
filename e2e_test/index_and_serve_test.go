//go:build e2e
// +build e2e

package e2e_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/jsphweid/eventrep/cmd"
	"github.com/jsphweid/eventrep/config"
	"github.com/jsphweid/eventrep/midi"
	"github.com/jsphweid/eventrep/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var router http.Handler

var cChord = model.Score{
	Resolution: 24,
	Tracks: []model.Track{{Notes: []model.Note{
		{Pitch: 60, Start: 0, End: 24, Velocity: 64},
		{Pitch: 64, Start: 0, End: 24, Velocity: 64},
		{Pitch: 67, Start: 0, End: 24, Velocity: 64},
	}}},
}

var melody = model.Score{
	Resolution: 24,
	Tracks: []model.Track{{Notes: []model.Note{
		{Pitch: 62, Start: 0, End: 12, Velocity: 64},
		{Pitch: 65, Start: 12, End: 36, Velocity: 64},
		{Pitch: 69, Start: 150, End: 400, Velocity: 64},
	}}},
}

func TestMain(m *testing.M) {
	os.Exit(run(m))
}

func run(m *testing.M) int {
	dir, err := os.MkdirTemp("", "eventrep-e2e")
	if err != nil {
		panic(err)
	}
	defer os.RemoveAll(dir)

	mediaDir := filepath.Join(dir, "media")
	if err := os.MkdirAll(mediaDir, 0755); err != nil {
		panic(err)
	}
	if err := midi.WriteScore(&cChord, filepath.Join(mediaDir, "a.mid")); err != nil {
		panic(err)
	}
	if err := midi.WriteScore(&melody, filepath.Join(mediaDir, "b.mid")); err != nil {
		panic(err)
	}

	cfg := config.DefaultConfig()
	cfg.Paths.MediaDir = mediaDir
	cfg.Paths.IndexDir = filepath.Join(dir, "out")
	cmd.UseConfig(cfg)

	if err := cmd.Index(0); err != nil {
		panic(err)
	}
	if err := cmd.LoadServeFiles(); err != nil {
		panic(err)
	}
	router = cmd.NewRouter()

	return m.Run()
}

func do(t *testing.T, method, target string, body any) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, target, r)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w.Result()
}

func decodeResponse[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var res T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
	return res
}

func decodeTokens(t *testing.T, tokens []uint16) model.Score {
	t.Helper()
	values := make([]float64, len(tokens))
	for i, v := range tokens {
		values[i] = float64(v)
	}
	resp := do(t, http.MethodPost, "/decode", model.DecodeRequestBody{Tokens: values})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	return decodeResponse[model.DecodeResponse](t, resp).Score
}

func TestVocabularyE2E(t *testing.T) {
	resp := do(t, http.MethodGet, "/vocabulary", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	vocab := decodeResponse[model.VocabularyResponse](t, resp)
	assert.Equal(t, 356, vocab.Size)
	assert.Equal(t, []model.VocabularyEntry{
		{Name: "note_on", Start: 0, Size: 128},
		{Name: "note_off", Start: 128, Size: 128},
		{Name: "time_shift", Start: 256, Size: 100},
	}, vocab.Ranges)
}

func TestEncodeDecodeE2E(t *testing.T) {
	resp := do(t, http.MethodPost, "/encode", model.EncodeRequestBody{Score: cChord})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	tokens := decodeResponse[model.EncodeResponse](t, resp).Tokens
	assert.Equal(t, []uint16{60, 64, 67, 279, 188, 192, 195}, tokens)

	score := decodeTokens(t, tokens)
	require.Len(t, score.Tracks, 1)
	assert.Equal(t, cChord.Tracks[0].Notes, score.Tracks[0].Notes)
}

func TestIndexedSequenceE2E(t *testing.T) {
	resp := do(t, http.MethodGet, "/sequences/1", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	seq := decodeResponse[model.SequenceResponse](t, resp)
	assert.Equal(t, uint32(1), seq.FileId)
	assert.Equal(t, "b.mid", seq.Filename)

	score := decodeTokens(t, seq.Tokens)
	require.Len(t, score.Tracks, 1)
	assert.Equal(t, melody.Tracks[0].Notes, score.Tracks[0].Notes)
}

func TestMissingSequenceE2E(t *testing.T) {
	resp := do(t, http.MethodGet, "/sequences/99", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestInvalidTokenE2E(t *testing.T) {
	resp := do(t, http.MethodPost, "/decode", model.DecodeRequestBody{Tokens: []float64{60, 356}})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	res := decodeResponse[model.ErrorResponse](t, resp)
	assert.Contains(t, res.Error, "invalid token 356")
}
