package chunk

import (
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/jsphweid/eventrep/constants"
	"github.com/jsphweid/eventrep/model"
	"github.com/jsphweid/eventrep/tokens"
	"github.com/jsphweid/eventrep/util"
)

func makeChunkOverview(sortedKeys []model.FileNum) model.ChunkOverview {
	var c model.ChunkOverview
	c.Filename = uuid.New().String() + ".dat"
	c.Start = sortedKeys[0]
	c.End = sortedKeys[len(sortedKeys)-1]
	return c
}

// makeChunk writes one chunk file laid out as
//
//	uint32 index length | gob index | packed tokens
//
// where the index maps each file number to its byte range in the data.
func makeChunk(dir string, seqs model.Sequences, sortedKeys []model.FileNum) (model.ChunkOverview, error) {
	c := makeChunkOverview(sortedKeys)
	chunkIndex := make(model.ChunkIndex)

	// fill up data section
	dataBuf := new(bytes.Buffer)
	for _, key := range sortedKeys {
		start := uint32(dataBuf.Len())
		if err := tokens.Write(dataBuf, seqs[key]); err != nil {
			return c, err
		}
		chunkIndex[key] = model.Pair{Start: start, End: uint32(dataBuf.Len())}
	}

	// encode index into buffer
	indexBuf := new(bytes.Buffer)
	encoder := gob.NewEncoder(indexBuf)
	if err := encoder.Encode(chunkIndex); err != nil {
		return c, fmt.Errorf("error making chunk, couldn't encode index: %w", err)
	}

	// combine everything together
	finalBytes := make([]byte, constants.ChunkHeaderSize, constants.ChunkHeaderSize+indexBuf.Len()+dataBuf.Len())
	binary.LittleEndian.PutUint32(finalBytes, uint32(indexBuf.Len()))
	finalBytes = append(finalBytes, indexBuf.Bytes()...)
	finalBytes = append(finalBytes, dataBuf.Bytes()...)

	// save as a file
	filename := filepath.Join(dir, c.Filename)
	if err := os.WriteFile(filename, finalBytes, 0666); err != nil {
		return c, fmt.Errorf("write failed for chunk file: %w", err)
	}
	return c, nil
}

// CreateAll packs the sequences, in file number order, into chunk files of
// roughly preferredSize bytes each.
func CreateAll(dir string, seqs model.Sequences, preferredSize int) ([]model.ChunkOverview, error) {
	var size int
	var currKeys []model.FileNum
	var createdChunks []model.ChunkOverview

	sortedKeys := util.GetKeysSorted(seqs)
	for i, key := range sortedKeys {
		currKeys = append(currKeys, key)
		size += len(seqs[key]) * constants.TokenSize

		isLast := len(sortedKeys)-1 == i
		if size > preferredSize || isLast {
			c, err := makeChunk(dir, seqs, currKeys)
			if err != nil {
				return nil, err
			}
			createdChunks = append(createdChunks, c)
			size = 0
			currKeys = currKeys[:0]
		}
	}

	return createdChunks, nil
}

// ReadIndex reads the header and index of a chunk, leaving f positioned at
// the start of the data section.
func ReadIndex(f io.Reader) (model.ChunkIndex, uint32, error) {
	buf := make([]byte, constants.ChunkHeaderSize)
	if _, err := io.ReadFull(f, buf); err != nil {
		return nil, 0, fmt.Errorf("could not read chunk header: %w", err)
	}
	indexLength := binary.LittleEndian.Uint32(buf)

	buf = make([]byte, indexLength)
	if _, err := io.ReadFull(f, buf); err != nil {
		return nil, 0, fmt.Errorf("could not read chunk index: %w", err)
	}

	var index model.ChunkIndex
	decoder := gob.NewDecoder(bytes.NewReader(buf))
	if err := decoder.Decode(&index); err != nil {
		return nil, 0, fmt.Errorf("could not decode chunk index: %w", err)
	}
	return index, indexLength, nil
}

func ReadChunkIndex(path string) (model.ChunkIndex, uint32, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()
	return ReadIndex(f)
}

func Find(chunks []model.ChunkOverview, fileNum model.FileNum) (model.ChunkOverview, bool) {
	for _, c := range chunks {
		if fileNum >= c.Start && fileNum <= c.End {
			return c, true
		}
	}
	return model.ChunkOverview{}, false
}

// ReadSequence returns the tokens stored for fileNum, or nil and no error
// when the dataset has no such file.
func ReadSequence(dir string, chunks []model.ChunkOverview, fileNum model.FileNum) ([]uint16, error) {
	c, ok := Find(chunks, fileNum)
	if !ok {
		return nil, nil
	}

	f, err := os.Open(filepath.Join(dir, c.Filename))
	if err != nil {
		return nil, fmt.Errorf("could not open chunk: %w", err)
	}
	defer f.Close()

	index, indexLength, err := ReadIndex(f)
	if err != nil {
		return nil, err
	}
	val, ok := index[fileNum]
	if !ok {
		return nil, nil
	}

	// advance file pointer past the header and index to the data
	dataStart := int64(constants.ChunkHeaderSize) + int64(indexLength)
	if _, err := f.Seek(dataStart+int64(val.Start), io.SeekStart); err != nil {
		return nil, fmt.Errorf("could not seek to sequence: %w", err)
	}
	buf := make([]byte, val.End-val.Start)
	if _, err := io.ReadFull(f, buf); err != nil {
		return nil, fmt.Errorf("could not read sequence: %w", err)
	}
	return tokens.Parse(buf)
}
