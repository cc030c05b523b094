package model

type EncodeRequestBody struct {
	Score Score `json:"score"`
}

type EncodeResponse struct {
	Tokens []uint16 `json:"tokens"`
}

// Tokens may hold floats, which are truncated.
type DecodeRequestBody struct {
	Tokens []float64 `json:"tokens"`
}

type DecodeResponse struct {
	Score Score `json:"score"`
}

type SequenceResponse struct {
	FileId   uint32   `json:"file_id"`
	Filename string   `json:"filename"`
	Tokens   []uint16 `json:"tokens"`
}

type VocabularyEntry struct {
	Name  string `json:"name"`
	Start int    `json:"start"`
	Size  int    `json:"size"`
}

type VocabularyResponse struct {
	Size   int               `json:"size"`
	Ranges []VocabularyEntry `json:"ranges"`
}

type ErrorResponse struct {
	Error string `json:"detail"`
}
