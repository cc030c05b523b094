package cmd

import (
	"encoding/json"
	"os"

	"github.com/jsphweid/eventrep/midi"
	"github.com/jsphweid/eventrep/sample"
	"github.com/jsphweid/eventrep/tokens"
	"github.com/spf13/cobra"
)

var (
	encodeOutput   string
	encodeJSON     bool
	encodeDump     bool
	encodeOffset   int
	encodeMaxNotes int
)

func init() {
	encodeCmd.Flags().StringVarP(&encodeOutput, "output", "o", "", "Write tokens to this file instead of stdout")
	encodeCmd.Flags().BoolVar(&encodeJSON, "json", false, "Print tokens as a JSON array")
	encodeCmd.Flags().BoolVar(&encodeDump, "dump", false, "Print one readable line per token")
	encodeCmd.Flags().IntVar(&encodeOffset, "offset", 0, "Tick to start the excerpt at")
	encodeCmd.Flags().IntVar(&encodeMaxNotes, "max-notes", 0, "Maximum notes per track, 0 for all")
	rootCmd.AddCommand(encodeCmd)
}

var encodeCmd = &cobra.Command{
	Use:   "encode <midi file>",
	Short: "Encodes a midi file into tokens",
	Long:  `Encodes a midi file into an event token sequence.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return encode(args[0])
	},
}

func encode(path string) error {
	p, err := newProcessor()
	if err != nil {
		return err
	}
	score, err := midi.ReadScore(path)
	if err != nil {
		return err
	}
	if encodeOffset > 0 || encodeMaxNotes > 0 {
		score = sample.Create(score, encodeOffset, encodeMaxNotes)
	}

	seq, err := p.Encode(score)
	if err != nil {
		return err
	}

	switch {
	case encodeOutput != "":
		return tokens.WriteFile(encodeOutput, seq)
	case encodeDump:
		return tokens.Dump(os.Stdout, seq, p.Vocabulary())
	case encodeJSON:
		if seq == nil {
			seq = []uint16{}
		}
		return json.NewEncoder(os.Stdout).Encode(seq)
	default:
		return tokens.Write(os.Stdout, seq)
	}
}
