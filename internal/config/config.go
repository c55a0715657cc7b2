// Package config loads faqindex.yaml.
//
// The file is optional; every field has a default. Environment variables from
// .env and .env.local are loaded first and ${VAR} references in the file are
// expanded before decoding.
package config

import (
	"bytes"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	ferrors "git.home.luguber.info/inful/faqindex/internal/foundation/errors"
)

// DefaultPath is the configuration file looked up when -c is not given.
const DefaultPath = "faqindex.yaml"

// CurrentVersion is the only configuration version understood.
const CurrentVersion = "1"

// Config is the complete configuration.
type Config struct {
	Version        string        `yaml:"version"`
	Root           string        `yaml:"root"`
	Index          string        `yaml:"index"`
	QuestionsDir   string        `yaml:"questions_dir"`
	Locale         string        `yaml:"locale"`
	Extension      string        `yaml:"extension"`
	Manifest       string        `yaml:"manifest"`
	SummaryHeading string        `yaml:"summary_heading"`
	TOCAnchor      string        `yaml:"toc_anchor"`
	TOCHeader      []string      `yaml:"toc_header,flow"`
	Promo          string        `yaml:"promo"`
	Logging        LoggingConfig `yaml:"logging"`
	Watch          WatchConfig   `yaml:"watch"`

	// source is the file the configuration was read from, empty for defaults.
	source string
}

// LoggingConfig controls the slog handler.
type LoggingConfig struct {
	Level  LogLevel  `yaml:"level"`
	Format LogFormat `yaml:"format"`
}

// WatchConfig controls the watch command.
type WatchConfig struct {
	Debounce time.Duration `yaml:"debounce"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Version:        CurrentVersion,
		Root:           ".",
		Index:          "README.md",
		QuestionsDir:   "questions",
		Locale:         "en-US",
		Extension:      ".mdx",
		SummaryHeading: "TL;DR",
		TOCAnchor:      "table-of-contents",
		TOCHeader:      []string{"| No. | Questions |", "| --- | :-- |"},
		Promo:          "> Read the detailed answer in [{{.Label}}](/{{.SourcePath}}).",
		Logging:        LoggingConfig{Level: LogLevelInfo, Format: LogFormatText},
		Watch:          WatchConfig{Debounce: 500 * time.Millisecond},
	}
}

// Source returns the file the configuration was loaded from, or "".
func (c *Config) Source() string { return c.source }

// RootDir returns the repository root. A relative root is resolved against
// the directory of the configuration file.
func (c *Config) RootDir() string {
	if filepath.IsAbs(c.Root) || c.source == "" {
		return c.Root
	}
	return filepath.Join(filepath.Dir(c.source), c.Root)
}

// Load reads the configuration at path. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	if err := loadEnvFiles(); err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "failed to load .env file").Build()
	}

	data, err := os.ReadFile(path) // #nosec G304 -- path is operator supplied
	if errors.Is(err, fs.ErrNotExist) {
		cfg := Default()
		return cfg, cfg.Validate()
	}
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "failed to read config file").WithPath(path).Build()
	}

	cfg, err := Decode(data)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "failed to parse config file").WithPath(path).Build()
	}
	cfg.source = path
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Decode expands environment references in data and decodes it over the
// defaults. Unknown keys are rejected.
func Decode(data []byte) (*Config, error) {
	cfg := Default()
	expanded := os.ExpandEnv(string(data))
	dec := yaml.NewDecoder(bytes.NewReader([]byte(expanded)))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	cfg.normalize()
	return cfg, nil
}

func (c *Config) normalize() {
	c.Logging.Level = NormalizeLogLevel(string(c.Logging.Level))
	c.Logging.Format = NormalizeLogFormat(string(c.Logging.Format))
}

// Init writes a default configuration file. An existing file is kept unless
// force is set.
func Init(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return ferrors.ConfigError("configuration file already exists (use --force to overwrite)").WithPath(path).Build()
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(Default()); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryInternal, "failed to marshal config").Build()
	}
	if err := enc.Close(); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryInternal, "failed to marshal config").Build()
	}

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil { // #nosec G306 -- config is not secret
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to write config file").WithPath(path).Build()
	}
	return nil
}
