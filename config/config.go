package config

import (
	"os"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/Masterminds/semver/v3"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/wippyai/scale-codec/codec"
	"github.com/wippyai/scale-codec/errors"
	"github.com/wippyai/scale-codec/preset"
)

// Log output formats.
const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

// Config selects the type documents a host loads and how it decodes and
// logs.
type Config struct {
	Version   *semver.Constraints
	Presets   []string
	Files     []string
	Compact   []string
	Snapshot  string
	LogLevel  string
	LogFormat string
	MaxDepth  int
}

type fileConfig struct {
	Presets   []string `toml:"presets"`
	Files     []string `toml:"files"`
	Compact   []string `toml:"compact"`
	Version   string   `toml:"version"`
	Snapshot  string   `toml:"snapshot"`
	LogLevel  string   `toml:"log_level"`
	LogFormat string   `toml:"log_format"`
	MaxDepth  int      `toml:"max_depth"`
}

// Default returns the configuration used when no file is given: both
// embedded presets with Value compact.
func Default() Config {
	return Config{
		Presets:   []string{preset.Substrate, preset.UTXO},
		Compact:   slices.Clone(preset.CompactNames),
		LogLevel:  "warn",
		LogFormat: FormatConsole,
		MaxDepth:  codec.DefaultMaxDepth,
	}
}

// LoadFile reads a TOML configuration over the defaults and validates it.
func LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrap(errors.PhaseConfig, errors.KindInvalidInput, err, "read "+path)
	}
	return Parse(string(data))
}

// Parse decodes a TOML configuration over the defaults and validates it.
// Keys absent from the document keep their default values.
func Parse(data string) (Config, error) {
	cfg := Default()

	var raw fileConfig
	meta, err := toml.Decode(data, &raw)
	if err != nil {
		return Config{}, errors.Wrap(errors.PhaseConfig, errors.KindInvalidInput, err, "parse config")
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, errors.InvalidInput(errors.PhaseConfig, "unknown key "+undecoded[0].String())
	}

	if meta.IsDefined("presets") {
		cfg.Presets = trimAll(raw.Presets)
	}
	if meta.IsDefined("files") {
		cfg.Files = trimAll(raw.Files)
	}
	if meta.IsDefined("compact") {
		cfg.Compact = trimAll(raw.Compact)
	}
	if meta.IsDefined("version") {
		c, err := semver.NewConstraint(strings.TrimSpace(raw.Version))
		if err != nil {
			return Config{}, errors.Wrap(errors.PhaseConfig, errors.KindInvalidInput, err, "parse version")
		}
		cfg.Version = c
	}
	if meta.IsDefined("snapshot") {
		cfg.Snapshot = strings.TrimSpace(raw.Snapshot)
	}
	if meta.IsDefined("log_level") {
		cfg.LogLevel = strings.TrimSpace(raw.LogLevel)
	}
	if meta.IsDefined("log_format") {
		cfg.LogFormat = strings.TrimSpace(raw.LogFormat)
	}
	if meta.IsDefined("max_depth") {
		cfg.MaxDepth = raw.MaxDepth
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if len(c.Presets) == 0 && len(c.Files) == 0 {
		return errors.InvalidInput(errors.PhaseConfig, "no presets or files")
	}
	for _, name := range c.Presets {
		if _, ok := preset.Document(name); !ok {
			return errors.InvalidInput(errors.PhaseConfig, "unknown preset "+name)
		}
	}
	if c.MaxDepth <= 0 {
		return errors.InvalidInput(errors.PhaseConfig, "max_depth must be positive")
	}
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		return errors.Wrap(errors.PhaseConfig, errors.KindInvalidInput, err, "log_level")
	}
	if c.LogFormat != FormatConsole && c.LogFormat != FormatJSON {
		return errors.InvalidInput(errors.PhaseConfig, "log_format must be console or json")
	}
	return nil
}

// CodecOptions returns the encoder and decoder options.
func (c Config) CodecOptions() []codec.Option {
	return []codec.Option{codec.WithMaxDepth(c.MaxDepth)}
}

// Logger builds a zap logger: development style for console output,
// production style for JSON.
func (c Config) Logger() (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseConfig, errors.KindInvalidInput, err, "log_level")
	}
	zc := zap.NewDevelopmentConfig()
	if c.LogFormat == FormatJSON {
		zc = zap.NewProductionConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	return zc.Build()
}

func trimAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
