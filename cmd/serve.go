package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/jsphweid/eventrep/chunk"
	"github.com/jsphweid/eventrep/event"
	"github.com/jsphweid/eventrep/model"
	"github.com/jsphweid/eventrep/util"
	"github.com/rs/cors"
	"github.com/spf13/cobra"
)

var (
	allChunks  []model.ChunkOverview
	fileNumMap model.FileNumToMidiPath
	processor  *event.Processor
)

func init() {
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves the codec and dataset over http",
	Long: `Serves encode and decode endpoints and, when an index exists,
token sequences of the indexed files.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve()
	},
}

// LoadServeFiles prepares the processor and, if the index dir holds a
// dataset, the chunk overview and file number map.
func LoadServeFiles() error {
	p, err := newProcessor()
	if err != nil {
		return err
	}
	processor = p

	chunks, err := util.ReadBinary[[]model.ChunkOverview](GetAllChunksPath())
	if err != nil {
		slog.Warn("no dataset loaded, sequence lookups are disabled", "err", err)
		allChunks, fileNumMap = nil, nil
		return nil
	}
	names, err := util.ReadBinary[model.FileNumToMidiPath](GetFileNumToNamePath())
	if err != nil {
		return fmt.Errorf("could not load file names: %w", err)
	}
	allChunks, fileNumMap = chunks, names
	slog.Info("dataset loaded", "chunks", len(allChunks), "files", len(fileNumMap))
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("could not write response", "err", err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, model.ErrorResponse{Error: err.Error()})
}

func readBody(r *http.Request, v any) error {
	reqBody, err := io.ReadAll(r.Body)
	if err != nil {
		return fmt.Errorf("could not read request body: %w", err)
	}
	if err := json.Unmarshal(reqBody, v); err != nil {
		return fmt.Errorf("could not unmarshal request body: %w", err)
	}
	return nil
}

func HandleEncode(w http.ResponseWriter, r *http.Request) {
	var input model.EncodeRequestBody
	if err := readBody(r, &input); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	res, err := processor.Encode(&input.Score)
	if errors.Is(err, event.ErrInvalidScore) {
		writeError(w, http.StatusBadRequest, err)
		return
	} else if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if res == nil {
		res = []uint16{}
	}
	writeJSON(w, http.StatusOK, model.EncodeResponse{Tokens: res})
}

func HandleDecode(w http.ResponseWriter, r *http.Request) {
	var input model.DecodeRequestBody
	if err := readBody(r, &input); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	score, err := processor.Decode(event.ToInts(input.Tokens))
	if errors.Is(err, event.ErrInvalidToken) {
		writeError(w, http.StatusBadRequest, err)
		return
	} else if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, model.DecodeResponse{Score: *score})
}

func HandleSequence(w http.ResponseWriter, r *http.Request) {
	num, err := strconv.ParseUint(mux.Vars(r)["fileNum"], 10, 32)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("bad file number: %w", err))
		return
	}
	fileNum := model.FileNum(num)

	seq, err := chunk.ReadSequence(activeCfg.Paths.IndexDir, allChunks, fileNum)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if seq == nil {
		writeError(w, http.StatusNotFound, fmt.Errorf("file %d is not indexed", fileNum))
		return
	}
	writeJSON(w, http.StatusOK, model.SequenceResponse{
		FileId:   fileNum,
		Filename: fileNumMap[fileNum],
		Tokens:   seq,
	})
}

func HandleVocabulary(w http.ResponseWriter, r *http.Request) {
	vocab := processor.Vocabulary()
	res := model.VocabularyResponse{Size: vocab.Size()}
	for _, nr := range vocab.Ranges() {
		res.Ranges = append(res.Ranges, model.VocabularyEntry{Name: nr.Name, Start: nr.Start, Size: nr.Size})
	}
	writeJSON(w, http.StatusOK, res)
}

func NewRouter() http.Handler {
	router := mux.NewRouter().StrictSlash(true)
	router.HandleFunc("/encode", HandleEncode).Methods("POST")
	router.HandleFunc("/decode", HandleDecode).Methods("POST")
	router.HandleFunc("/sequences/{fileNum}", HandleSequence).Methods("GET")
	router.HandleFunc("/vocabulary", HandleVocabulary).Methods("GET")

	c := cors.New(cors.Options{
		AllowedOrigins: activeCfg.Server.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
	})
	return c.Handler(router)
}

func serve() error {
	if err := LoadServeFiles(); err != nil {
		return err
	}
	addr := activeCfg.Server.ListenAddr
	slog.Info("listening", "addr", addr)
	return http.ListenAndServe(addr, NewRouter())
}
