package file

import (
	"path/filepath"

	"github.com/jsphweid/eventrep/model"
)

// CreateFileNumMap numbers paths in the order given. Paths under mediaDir
// are stored relative to it so a dataset survives moving the media.
func CreateFileNumMap(mediaDir string, paths []string) model.FileNumToMidiPath {
	res := make(model.FileNumToMidiPath)
	for i, v := range paths {
		if rel, err := filepath.Rel(mediaDir, v); err == nil {
			v = rel
		}
		res[uint32(i)] = v
	}
	return res
}

func Resolve(mediaDir string, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(mediaDir, path)
}
