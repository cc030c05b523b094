package model

type ChunkOverview struct {
	// first and last file number stored in the chunk
	Start    FileNum
	End      FileNum
	Filename string
}

type Pair struct {
	Start uint32
	End   uint32
}

type FileNum = uint32
type ChunkIndex = map[FileNum]Pair
type FileNumToMidiPath = map[FileNum]string

// Sequences are encoded token arrays keyed by file number.
type Sequences = map[FileNum][]uint16
