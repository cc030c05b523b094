package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/jsphweid/eventrep/chunk"
	"github.com/jsphweid/eventrep/model"
	"github.com/jsphweid/eventrep/tokens"
	"github.com/jsphweid/eventrep/util"
	"github.com/spf13/cobra"
)

var inspectFileNum int

func init() {
	inspectCmd.Flags().IntVar(&inspectFileNum, "file", -1, "Print the tokens of this file number")
	rootCmd.AddCommand(inspectCmd)
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <chunk>",
	Short: "Inspects a chunk",
	Long:  `Lists the files stored in a chunk, or dumps the tokens of one of them.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return inspect(args[0])
	},
}

func inspect(path string) error {
	index, _, err := chunk.ReadChunkIndex(path)
	if err != nil {
		return err
	}

	if inspectFileNum < 0 {
		for _, key := range util.GetKeysSorted(index) {
			val := index[key]
			fmt.Printf("file: %v\n", key)
			fmt.Printf("tokens: %v (bytes %v-%v)\n", (val.End-val.Start)/2, val.Start, val.End)
		}
		return nil
	}

	p, err := newProcessor()
	if err != nil {
		return err
	}
	val, ok := index[model.FileNum(inspectFileNum)]
	if !ok {
		return fmt.Errorf("file %d is not in %v", inspectFileNum, path)
	}

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if _, _, err := chunk.ReadIndex(f); err != nil {
		return err
	}
	data, err := io.ReadAll(f)
	if err != nil {
		return err
	}
	if int(val.End) > len(data) {
		return fmt.Errorf("chunk %v is truncated", path)
	}
	seq, err := tokens.Parse(data[val.Start:val.End])
	if err != nil {
		return err
	}
	return tokens.Dump(os.Stdout, seq, p.Vocabulary())
}
