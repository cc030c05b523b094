package cmd

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/jsphweid/eventrep/config"
	"github.com/jsphweid/eventrep/event"
	"github.com/spf13/cobra"
)

var (
	cfgFile   string
	defaults  = config.DefaultConfig()
	activeCfg = config.DefaultConfig()
)

var rootCmd = &cobra.Command{
	Use:   "eventrep",
	Short: "Event representation codec for symbolic music",
	Long: `Converts MIDI files to and from event token sequences
(note-on, note-off, time-shift, velocity) and builds token datasets.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(config.LoadOptions{
			Cmd:        cmd,
			ConfigFile: cfgFile,
			Defaults:   defaults,
		})
		if err != nil {
			return err
		}
		activeCfg = loaded
		setupLogger(loaded.LogLevel)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Optional config file (yaml|toml|json)")
	config.RegisterFlags(rootCmd.PersistentFlags(), defaults)
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	cobra.CheckErr(rootCmd.ExecuteContext(ctx))
}

// setupLogger configures the process-wide slog default logger.
func setupLogger(levelStr string) {
	lvl, err := config.ParseLogLevel(levelStr)
	if err != nil {
		lvl = slog.LevelInfo
	}
	h := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})
	slog.SetDefault(slog.New(h))
	if err != nil {
		slog.Warn("falling back to info logging", "err", err)
	}
}

func newProcessor() (*event.Processor, error) {
	return event.NewProcessor(activeCfg.Codec.EventConfig(), event.WithLogger(slog.Default()))
}

// UseConfig replaces the loaded configuration, for callers that run
// commands without going through the command line.
func UseConfig(cfg config.Config) {
	activeCfg = cfg
}
