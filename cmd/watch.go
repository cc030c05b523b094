package cmd

import (
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/bep/debounce"
	"github.com/fsnotify/fsnotify"
	"github.com/jsphweid/eventrep/util"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(watchCmd)
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Rebuilds the dataset when midi files change",
	Long: `Indexes the media dir once, then watches it and rebuilds the index
after changes to midi files settle.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return watch(cmd)
	},
}

func addDirs(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.Add(path)
		}
		return nil
	})
}

var indexMu sync.Mutex

func reindex() {
	indexMu.Lock()
	defer indexMu.Unlock()
	if err := Index(activeCfg.Dataset.MaxFiles); err != nil {
		slog.Error("index failed", "err", err)
	}
}

func watch(cmd *cobra.Command) error {
	reindex()

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("could not create watcher: %w", err)
	}
	defer w.Close()
	if err := addDirs(w, activeCfg.Paths.MediaDir); err != nil {
		return fmt.Errorf("could not watch media dir: %w", err)
	}

	debounced := debounce.New(activeCfg.Dataset.Debounce)
	slog.Info("watching", "media_dir", activeCfg.Paths.MediaDir, "debounce", activeCfg.Dataset.Debounce)

	ctx := cmd.Context()
	for {
		select {
		case <-ctx.Done():
			return nil
		case e, ok := <-w.Events:
			if !ok {
				return nil
			}
			if e.Has(fsnotify.Create) {
				// new subdirectories need their own watch
				if err := addDirs(w, e.Name); err != nil {
					slog.Debug("could not watch path", "path", e.Name, "err", err)
				}
			}
			if util.IsMidiPath(e.Name) || e.Has(fsnotify.Remove) || e.Has(fsnotify.Rename) {
				slog.Debug("media changed", "path", e.Name, "op", e.Op.String())
				debounced(reindex)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			slog.Error("watch error", "err", err)
		}
	}
}
