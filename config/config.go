package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jsphweid/eventrep/constants"
	"github.com/jsphweid/eventrep/event"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	Paths    PathsConfig   `mapstructure:"paths"`
	Codec    CodecConfig   `mapstructure:"codec"`
	Dataset  DatasetConfig `mapstructure:"dataset"`
	Server   ServerConfig  `mapstructure:"server"`
	LogLevel string        `mapstructure:"log_level"`
}

type PathsConfig struct {
	MediaDir string `mapstructure:"media_dir"`
	IndexDir string `mapstructure:"index_dir"`
}

type CodecConfig struct {
	Resolution            int    `mapstructure:"resolution"`
	Program               int    `mapstructure:"program"`
	IsDrum                bool   `mapstructure:"is_drum"`
	UseSingleNoteOffEvent bool   `mapstructure:"use_single_note_off_event"`
	UseEndOfSequenceEvent bool   `mapstructure:"use_end_of_sequence_event"`
	MaxTimeShift          int    `mapstructure:"max_time_shift"`
	VelocityBins          int    `mapstructure:"velocity_bins"`
	DefaultVelocity       int    `mapstructure:"default_velocity"`
	DuplicateNoteMode     string `mapstructure:"duplicate_note_mode"`
	EncodeVelocity        bool   `mapstructure:"encode_velocity"`
	ForceVelocityEvent    bool   `mapstructure:"force_velocity_event"`
	EncodeInstrument      bool   `mapstructure:"encode_instrument"`
	EncodeDrumProgram     bool   `mapstructure:"encode_drum_program"`
	NumTracks             int    `mapstructure:"num_tracks"`
	IgnoreEmptyTracks     bool   `mapstructure:"ignore_empty_tracks"`
}

type DatasetConfig struct {
	Workers  int           `mapstructure:"workers"`
	MaxFiles int           `mapstructure:"max_files"`
	MaxNotes int           `mapstructure:"max_notes"`
	Debounce time.Duration `mapstructure:"debounce"`
}

type ServerConfig struct {
	ListenAddr     string   `mapstructure:"listen_addr"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type LoadOptions struct {
	Cmd        flagBinder
	ConfigFile string
	Defaults   Config
}

type flagBinder interface {
	Flags() *pflag.FlagSet
}

func (c CodecConfig) EventConfig() event.Config {
	return event.Config{
		Resolution:            c.Resolution,
		DefaultProgram:        c.Program,
		DefaultIsDrum:         c.IsDrum,
		UseSingleNoteOffEvent: c.UseSingleNoteOffEvent,
		UseEndOfSequenceEvent: c.UseEndOfSequenceEvent,
		MaxTimeShift:          c.MaxTimeShift,
		VelocityBins:          c.VelocityBins,
		DefaultVelocity:       c.DefaultVelocity,
		DuplicateNoteMode:     event.DuplicateNoteMode(c.DuplicateNoteMode),
		EncodeVelocity:        c.EncodeVelocity,
		ForceVelocityEvent:    c.ForceVelocityEvent,
		EncodeInstrument:      c.EncodeInstrument,
		EncodeDrumProgram:     c.EncodeDrumProgram,
		NumTracks:             c.NumTracks,
		IgnoreEmptyTracks:     c.IgnoreEmptyTracks,
	}
}

func DefaultConfig() Config {
	codec := event.DefaultConfig()
	return Config{
		Paths: PathsConfig{
			MediaDir: "media",
			IndexDir: constants.OutDir,
		},
		Codec: CodecConfig{
			Resolution:         codec.Resolution,
			Program:            codec.DefaultProgram,
			MaxTimeShift:       codec.MaxTimeShift,
			VelocityBins:       codec.VelocityBins,
			DefaultVelocity:    codec.DefaultVelocity,
			DuplicateNoteMode:  string(codec.DuplicateNoteMode),
			ForceVelocityEvent: codec.ForceVelocityEvent,
		},
		Dataset: DatasetConfig{
			Workers:  4,
			MaxFiles: 0,
			MaxNotes: 0,
			Debounce: 2 * time.Second,
		},
		Server: ServerConfig{
			ListenAddr:     ":8080",
			AllowedOrigins: []string{"*"},
		},
		LogLevel: "info",
	}
}

// keys lists every setting that has a command line flag. The flag name is
// the key with dots and underscores turned into dashes.
var keys = []string{
	"paths.media_dir",
	"paths.index_dir",
	"codec.resolution",
	"codec.program",
	"codec.is_drum",
	"codec.use_single_note_off_event",
	"codec.use_end_of_sequence_event",
	"codec.max_time_shift",
	"codec.velocity_bins",
	"codec.default_velocity",
	"codec.duplicate_note_mode",
	"codec.encode_velocity",
	"codec.force_velocity_event",
	"codec.encode_instrument",
	"codec.encode_drum_program",
	"codec.num_tracks",
	"codec.ignore_empty_tracks",
	"dataset.workers",
	"dataset.max_files",
	"dataset.max_notes",
	"dataset.debounce",
	"server.listen_addr",
	"server.allowed_origins",
	"log_level",
}

func flagName(key string) string {
	return strings.NewReplacer(".", "-", "_", "-").Replace(key)
}

func RegisterFlags(fs *pflag.FlagSet, defaults Config) {
	fs.String("paths-media-dir", defaults.Paths.MediaDir, "Directory holding midi files")
	fs.String("paths-index-dir", defaults.Paths.IndexDir, "Directory the dataset chunks are written to")
	fs.Int("codec-resolution", defaults.Codec.Resolution, "Ticks per quarter note of decoded scores")
	fs.Int("codec-program", defaults.Codec.Program, "Program of decoded tracks without an instrument event")
	fs.Bool("codec-is-drum", defaults.Codec.IsDrum, "Whether decoded tracks without an instrument event are drums")
	fs.Bool("codec-use-single-note-off-event", defaults.Codec.UseSingleNoteOffEvent, "Use one note-off token for every pitch")
	fs.Bool("codec-use-end-of-sequence-event", defaults.Codec.UseEndOfSequenceEvent, "Append an end-of-sequence token")
	fs.Int("codec-max-time-shift", defaults.Codec.MaxTimeShift, "Longest time shift (ticks) a single token encodes")
	fs.Int("codec-velocity-bins", defaults.Codec.VelocityBins, "Number of velocity bins")
	fs.Int("codec-default-velocity", defaults.Codec.DefaultVelocity, "Velocity of decoded notes before any velocity token")
	fs.String("codec-duplicate-note-mode", defaults.Codec.DuplicateNoteMode, "Note-off policy for duplicate notes (fifo|lifo|close_all)")
	fs.Bool("codec-encode-velocity", defaults.Codec.EncodeVelocity, "Encode note velocities")
	fs.Bool("codec-force-velocity-event", defaults.Codec.ForceVelocityEvent, "Emit a velocity token before every note-on")
	fs.Bool("codec-encode-instrument", defaults.Codec.EncodeInstrument, "Encode program and drum flag per track (needs --codec-num-tracks)")
	fs.Bool("codec-encode-drum-program", defaults.Codec.EncodeDrumProgram, "Encode the drum kit program")
	fs.Int("codec-num-tracks", defaults.Codec.NumTracks, "Maximum number of tracks, 0 for single-track mode")
	fs.Bool("codec-ignore-empty-tracks", defaults.Codec.IgnoreEmptyTracks, "Skip empty tracks when encoding, drop them when decoding")
	fs.Int("dataset-workers", defaults.Dataset.Workers, "Files encoded concurrently while indexing")
	fs.Int("dataset-max-files", defaults.Dataset.MaxFiles, "Maximum number of files to index, 0 for all")
	fs.Int("dataset-max-notes", defaults.Dataset.MaxNotes, "Maximum notes per track to encode, 0 for all")
	fs.Duration("dataset-debounce", defaults.Dataset.Debounce, "Quiet period before watch rebuilds the dataset")
	fs.String("server-listen-addr", defaults.Server.ListenAddr, "HTTP listen address")
	fs.StringSlice("server-allowed-origins", defaults.Server.AllowedOrigins, "CORS allowed origins")
	fs.String("log-level", defaults.LogLevel, "Log level (debug|info|warn|error)")
}

func Load(opts LoadOptions) (Config, error) {
	v := viper.New()

	setDefaults(v, opts.Defaults)
	if opts.Cmd != nil {
		if err := bindFlags(v, opts.Cmd.Flags()); err != nil {
			return Config{}, fmt.Errorf("bind flags: %w", err)
		}
	}

	v.SetEnvPrefix("EVENTREP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	if err := v.BindEnv("paths.media_dir", "EVENTREP_PATHS_MEDIA_DIR", "MEDIA_PATH"); err != nil {
		return Config{}, fmt.Errorf("bind media env vars: %w", err)
	}
	if err := v.BindEnv("paths.index_dir", "EVENTREP_PATHS_INDEX_DIR", "INDEX_PATH"); err != nil {
		return Config{}, fmt.Errorf("bind index env vars: %w", err)
	}
	v.AutomaticEnv()

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	} else {
		v.SetConfigName("eventrep")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return Config{}, fmt.Errorf("read config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}

	return cfg, nil
}

func bindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	for _, key := range keys {
		flag := fs.Lookup(flagName(key))
		if flag == nil {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return err
		}
	}
	return nil
}

func setDefaults(v *viper.Viper, c Config) {
	v.SetDefault("paths.media_dir", c.Paths.MediaDir)
	v.SetDefault("paths.index_dir", c.Paths.IndexDir)
	v.SetDefault("codec.resolution", c.Codec.Resolution)
	v.SetDefault("codec.program", c.Codec.Program)
	v.SetDefault("codec.is_drum", c.Codec.IsDrum)
	v.SetDefault("codec.use_single_note_off_event", c.Codec.UseSingleNoteOffEvent)
	v.SetDefault("codec.use_end_of_sequence_event", c.Codec.UseEndOfSequenceEvent)
	v.SetDefault("codec.max_time_shift", c.Codec.MaxTimeShift)
	v.SetDefault("codec.velocity_bins", c.Codec.VelocityBins)
	v.SetDefault("codec.default_velocity", c.Codec.DefaultVelocity)
	v.SetDefault("codec.duplicate_note_mode", c.Codec.DuplicateNoteMode)
	v.SetDefault("codec.encode_velocity", c.Codec.EncodeVelocity)
	v.SetDefault("codec.force_velocity_event", c.Codec.ForceVelocityEvent)
	v.SetDefault("codec.encode_instrument", c.Codec.EncodeInstrument)
	v.SetDefault("codec.encode_drum_program", c.Codec.EncodeDrumProgram)
	v.SetDefault("codec.num_tracks", c.Codec.NumTracks)
	v.SetDefault("codec.ignore_empty_tracks", c.Codec.IgnoreEmptyTracks)
	v.SetDefault("dataset.workers", c.Dataset.Workers)
	v.SetDefault("dataset.max_files", c.Dataset.MaxFiles)
	v.SetDefault("dataset.max_notes", c.Dataset.MaxNotes)
	v.SetDefault("dataset.debounce", c.Dataset.Debounce)
	v.SetDefault("server.listen_addr", c.Server.ListenAddr)
	v.SetDefault("server.allowed_origins", c.Server.AllowedOrigins)
	v.SetDefault("log_level", c.LogLevel)
}

// ParseLogLevel converts a case-insensitive level string to slog.Level.
// An empty string returns slog.LevelInfo. Unknown strings return an error.
func ParseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q (want debug|info|warn|error)", s)
	}
}
