package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/dustin/go-humanize"
	"github.com/jsphweid/eventrep/chunk"
	"github.com/jsphweid/eventrep/constants"
	"github.com/jsphweid/eventrep/util"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(reportCmd)
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Creates a report",
	Long:  `Summarizes the chunk files in the index dir.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := analyzeChunks(activeCfg.Paths.IndexDir)
		if err != nil {
			return err
		}
		r.print()
		return nil
	},
}

var chunkFilenameRegex = regexp.MustCompile("^[0-9a-fA-F]{8}-([0-9a-fA-F]{4}-){3}[0-9a-fA-F]{12}.dat$")

type chunksReport struct {
	numChunks       int64
	numSequences    int64
	numTokens       int64
	tokensInIndexes []int64
	indexPercents   []float32
	avgIndexPercent float32
	totalBytes      int64
	dataBytes       int64
}

func analyzeChunks(dir string) (chunksReport, error) {
	var report chunksReport
	files, err := os.ReadDir(dir)
	if err != nil {
		return report, fmt.Errorf("could not read index dir: %w", err)
	}

	for _, file := range files {
		filename := file.Name()
		if !chunkFilenameRegex.MatchString(filename) {
			continue
		}
		report.numChunks += 1
		path := filepath.Join(dir, filename)
		index, indexLength, err := chunk.ReadChunkIndex(path)
		if err != nil {
			return report, err
		}
		stats, err := os.Stat(path)
		if err != nil {
			return report, fmt.Errorf("could not get file stats: %w", err)
		}

		var tokensInIndex int64
		for _, v := range index {
			tokensInIndex += int64(v.End-v.Start) / constants.TokenSize
		}
		report.numSequences += int64(len(index))
		report.tokensInIndexes = append(report.tokensInIndexes, tokensInIndex)

		headerBytes := int64(indexLength) + constants.ChunkHeaderSize
		report.indexPercents = append(report.indexPercents, float32(headerBytes)/float32(stats.Size()))
		report.totalBytes += stats.Size()
		report.dataBytes += stats.Size() - headerBytes
	}

	report.numTokens = report.dataBytes / constants.TokenSize
	if report.totalBytes > 0 {
		report.avgIndexPercent = float32(report.totalBytes-report.dataBytes) / float32(report.totalBytes)
	}
	return report, nil
}

func (r chunksReport) print() {
	fmt.Printf("chunks: %v\n", r.numChunks)
	fmt.Printf("sequences: %v\n", r.numSequences)
	fmt.Printf("tokens: %v\n", humanize.Comma(r.numTokens))
	fmt.Printf("tokens per chunk: %v\n", r.tokensInIndexes)
	fmt.Printf("tokens from indexes: %v\n", humanize.Comma(int64(util.Sum(r.tokensInIndexes))))
	fmt.Printf("index percents: %v\n", r.indexPercents)
	fmt.Printf("total size: %v\n", humanize.Bytes(uint64(r.totalBytes)))
	fmt.Printf("data size: %v\n", humanize.Bytes(uint64(r.dataBytes)))
	fmt.Printf("avg index percent: %v\n", r.avgIndexPercent)
}
