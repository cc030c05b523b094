package cmd

import (
	"encoding/json"
	"os"

	"github.com/jsphweid/eventrep/event"
	"github.com/jsphweid/eventrep/midi"
	"github.com/jsphweid/eventrep/tokens"
	"github.com/spf13/cobra"
)

var (
	decodeOutput    string
	decodeJSONInput bool
)

func init() {
	decodeCmd.Flags().StringVarP(&decodeOutput, "output", "o", "", "Write a midi file instead of printing the score as JSON")
	decodeCmd.Flags().BoolVar(&decodeJSONInput, "json", false, "Read tokens as a JSON array instead of binary")
	rootCmd.AddCommand(decodeCmd)
}

var decodeCmd = &cobra.Command{
	Use:   "decode <token file>",
	Short: "Decodes tokens into a midi file",
	Long:  `Decodes an event token sequence back into a score.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return decode(args[0])
	},
}

func readTokens(path string) ([]int, error) {
	if !decodeJSONInput {
		seq, err := tokens.ReadFile(path)
		if err != nil {
			return nil, err
		}
		return event.ToInts(seq), nil
	}

	dat, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	// JSON numbers may be floats coming out of a model
	var values []float64
	if err := json.Unmarshal(dat, &values); err != nil {
		return nil, err
	}
	return event.ToInts(values), nil
}

func decode(path string) error {
	p, err := newProcessor()
	if err != nil {
		return err
	}
	seq, err := readTokens(path)
	if err != nil {
		return err
	}

	score, err := p.Decode(seq)
	if err != nil {
		return err
	}
	if decodeOutput != "" {
		return midi.WriteScore(score, decodeOutput)
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(score)
}
