package cmd

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/hako/durafmt"
	"github.com/jsphweid/eventrep/bucket"
	"github.com/jsphweid/eventrep/chunk"
	"github.com/jsphweid/eventrep/constants"
	"github.com/jsphweid/eventrep/file"
	"github.com/jsphweid/eventrep/util"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(indexCmd)
}

var indexCmd = &cobra.Command{
	Use:   "index [max files]",
	Short: "Creates a token dataset",
	Long: `Encodes every midi file under the media dir and packs the token
sequences into chunk files in the index dir.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		maxNum := activeCfg.Dataset.MaxFiles
		if len(args) == 1 {
			arg1, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("max files must be a number: %w", err)
			}
			maxNum = arg1
		}
		return Index(maxNum)
	},
}

func GetAllChunksPath() string {
	return filepath.Join(activeCfg.Paths.IndexDir, constants.AllChunksFilename)
}

func GetFileNumToNamePath() string {
	return filepath.Join(activeCfg.Paths.IndexDir, constants.FileNumToNameFilename)
}

func Index(maxNum int) error {
	started := time.Now()
	p, err := newProcessor()
	if err != nil {
		return err
	}

	mediaDir := activeCfg.Paths.MediaDir
	paths, err := util.GatherAllMidiPaths(mediaDir, maxNum)
	if err != nil {
		return err
	}
	fileNumMap := file.CreateFileNumMap(mediaDir, paths)
	slog.Info("encoding midi files", "count", len(paths), "media_dir", mediaDir)

	res := bucket.EncodeAll(fileNumMap, p, bucket.Options{
		MediaDir: mediaDir,
		Workers:  activeCfg.Dataset.Workers,
		MaxNotes: activeCfg.Dataset.MaxNotes,
		Logger:   slog.Default(),
	})
	for _, num := range res.Skipped {
		delete(fileNumMap, num)
	}

	indexDir := activeCfg.Paths.IndexDir
	if err := util.RecreateOutputDir(indexDir); err != nil {
		return err
	}
	chunks, err := chunk.CreateAll(indexDir, res.Sequences, constants.PreferredChunkSize)
	if err != nil {
		return err
	}
	if err := util.CreateBinary(GetAllChunksPath(), chunks); err != nil {
		return err
	}
	if err := util.CreateBinary(GetFileNumToNamePath(), fileNumMap); err != nil {
		return err
	}

	var numTokens uint64
	for _, seq := range res.Sequences {
		numTokens += uint64(len(seq))
	}
	slog.Info("index created",
		"files", len(res.Sequences),
		"skipped", len(res.Skipped),
		"chunks", len(chunks),
		"tokens", numTokens,
		"size", humanize.Bytes(numTokens*constants.TokenSize),
		"elapsed", durafmt.Parse(time.Since(started)).LimitFirstN(2).String())
	return nil
}
