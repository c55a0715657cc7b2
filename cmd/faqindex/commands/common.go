package commands

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/faqindex/internal/config"
	"git.home.luguber.info/inful/faqindex/internal/workspace"
)

// Global is shared state handed to every command.
type Global struct {
	Logger *slog.Logger
	// Out receives user-facing output such as diffs and summaries.
	Out io.Writer
}

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path (optional)" default:"faqindex.yaml" type:"path"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Generate GenerateCmd `cmd:"" default:"withargs" help:"Regenerate the index document (default command)"`
	Manifest ManifestCmd `cmd:"" help:"Inspect the entry manifest"`
	Watch    WatchCmd    `cmd:"" help:"Regenerate whenever fragments or the manifest change"`
	Init     InitCmd     `cmd:"" help:"Write a default configuration file"`
}

// AfterApply runs after flag parsing and installs a text logger; commands
// that load configuration refine it with configureLogging.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	return nil
}

// loadConfig reads the configuration and applies its logging settings.
func loadConfig(g *Global, root *CLI) (*config.Config, error) {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return nil, err
	}
	g.Logger = configureLogging(cfg.Logging, root.Verbose)
	if cfg.Source() != "" {
		g.Logger.Debug("Loaded configuration", slog.String("path", cfg.Source()))
	}
	return cfg, nil
}

func configureLogging(lc config.LoggingConfig, verbose bool) *slog.Logger {
	opts := &slog.HandlerOptions{Level: lc.Level.SlogLevel()}
	if verbose {
		opts.Level = slog.LevelDebug
	}
	var h slog.Handler = slog.NewTextHandler(os.Stderr, opts)
	if lc.Format == config.LogFormatJSON {
		h = slog.NewJSONHandler(os.Stderr, opts)
	}
	logger := slog.New(h)
	slog.SetDefault(logger)
	return logger
}

// RootFlags are the path overrides shared by commands that touch the index.
type RootFlags struct {
	Root  string `help:"Repository root (overrides config)" type:"path"`
	Index string `help:"Index document relative to the root (overrides config)"`
}

func (f RootFlags) apply(cfg *config.Config) (*workspace.Workspace, error) {
	if f.Index != "" {
		cfg.Index = f.Index
	}
	dir := cfg.RootDir()
	if f.Root != "" {
		dir = f.Root
	}
	return workspace.New(dir)
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func output(g *Global) io.Writer {
	if g.Out == nil {
		return os.Stdout
	}
	return g.Out
}
