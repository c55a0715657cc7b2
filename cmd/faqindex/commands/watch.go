package commands

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"git.home.luguber.info/inful/faqindex/internal/config"
	"git.home.luguber.info/inful/faqindex/internal/logfields"
	"git.home.luguber.info/inful/faqindex/internal/pipeline"
	"git.home.luguber.info/inful/faqindex/internal/watch"
)

// WatchCmd implements the 'watch' command.
type WatchCmd struct {
	RootFlags `embed:""`

	Manifest string        `help:"Manifest file relative to the root (overrides config)"`
	Debounce time.Duration `help:"Quiet period before regenerating (overrides config)"`
}

func (w *WatchCmd) Run(global *Global, root *CLI) error {
	cfg, err := loadConfig(global, root)
	if err != nil {
		return err
	}
	if w.Manifest != "" {
		cfg.Manifest = w.Manifest
	}
	if w.Debounce > 0 {
		cfg.Watch.Debounce = w.Debounce
	}
	ws, err := w.apply(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	runner := pipeline.NewRunner(cfg, ws).WithLogger(global.Logger)
	out := output(global)
	regenerate := func(ctx context.Context) error {
		report, err := runner.Run(ctx, pipeline.RunOptions{Mode: pipeline.ModeWrite})
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintln(out, report.String())
		return nil
	}

	// A broken fragment at startup should not stop the watcher.
	if err := regenerate(ctx); err != nil {
		global.Logger.Error("Initial generation failed", logfields.Error(err))
	}

	var files []string
	if cfg.Manifest != "" {
		files = append(files, cfg.Manifest)
	}
	watcher, err := watch.New(watch.Options{
		Root:     ws.Root(),
		Dirs:     []string{cfg.QuestionsDir},
		Files:    files,
		Match:    watchMatcher(cfg),
		Debounce: cfg.Watch.Debounce,
		OnChange: regenerate,
		Logger:   global.Logger,
	})
	if err != nil {
		return err
	}
	global.Logger.Info("Watching for changes", "questions_dir", cfg.QuestionsDir, "debounce", cfg.Watch.Debounce)
	return watcher.Run(ctx)
}

// watchMatcher selects fragment files and the manifest. The index document
// is excluded so our own writes never retrigger a run.
func watchMatcher(cfg *config.Config) func(rel string) bool {
	questions := path.Clean(cfg.QuestionsDir) + "/"
	manifestPath := path.Clean(strings.TrimPrefix(cfg.Manifest, "/"))
	index := path.Clean(cfg.Index)
	return func(rel string) bool {
		switch {
		case rel == index:
			return false
		case cfg.Manifest != "" && rel == manifestPath:
			return true
		case strings.HasPrefix(rel, questions):
			return path.Base(rel) == cfg.Locale+cfg.Extension
		}
		return false
	}
}
