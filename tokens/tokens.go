// Package tokens stores token arrays as a single column of little endian
// uint16 values.
package tokens

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/jsphweid/eventrep/constants"
	"github.com/jsphweid/eventrep/event"
)

func Write(w io.Writer, tokens []uint16) error {
	return binary.Write(w, binary.LittleEndian, tokens)
}

func Read(r io.Reader) ([]uint16, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

func Parse(buf []byte) ([]uint16, error) {
	if len(buf)%constants.TokenSize != 0 {
		return nil, fmt.Errorf("token data has odd length %d", len(buf))
	}
	res := make([]uint16, 0, len(buf)/constants.TokenSize)
	for i := 0; i < len(buf); i += constants.TokenSize {
		res = append(res, binary.LittleEndian.Uint16(buf[i:i+constants.TokenSize]))
	}
	return res, nil
}

func WriteFile(path string, tokens []uint16) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("could not create %v: %w", path, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	if err := Write(w, tokens); err != nil {
		return fmt.Errorf("could not write tokens: %w", err)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	return f.Close()
}

func ReadFile(path string) ([]uint16, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open %v: %w", path, err)
	}
	defer f.Close()
	return Read(bufio.NewReader(f))
}

// Dump writes one "index token description" line per token.
func Dump(w io.Writer, tokens []uint16, vocab *event.Vocabulary) error {
	for i, token := range tokens {
		if _, err := fmt.Fprintf(w, "%d\t%d\t%s\n", i, token, vocab.Describe(int(token))); err != nil {
			return err
		}
	}
	return nil
}
