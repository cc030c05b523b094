package constants

// Matches the resolution most symbolic-music datasets are quantized to.
const DefaultResolution = 24

const DefaultVelocity = 64
const DefaultMaxTimeShift = 100
const DefaultVelocityBins = 32

// MIDI channel 10, zero based
const DrumChannel = 9

const NumPitches = 128
const NumPrograms = 128

const OutDir = "out"
const AllChunksFilename = "allChunks.dat"
const FileNumToNameFilename = "fileNumToName.dat"

// 4 bytes of index length precede every chunk index
const ChunkHeaderSize = 4

// each token is stored as a little endian uint16
const TokenSize = 2

const PreferredChunkSize = 64 * 1024 * 1024

// const PreferredChunkSize = 64 * 1024
