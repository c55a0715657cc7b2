package commands

import (
	"fmt"

	"git.home.luguber.info/inful/faqindex/internal/logfields"
	"git.home.luguber.info/inful/faqindex/internal/metrics"
	"git.home.luguber.info/inful/faqindex/internal/pipeline"
)

// GenerateCmd implements the 'generate' command.
type GenerateCmd struct {
	RootFlags `embed:""`

	Check       bool   `help:"Exit with code 1 when the index is out of date instead of writing it" xor:"mode"`
	Diff        bool   `help:"Print the changes a run would make without writing" xor:"mode"`
	Against     string `help:"Committed side for --check/--diff (${enum})" enum:"worktree,head" default:"worktree"`
	Manifest    string `help:"Manifest file relative to the root (overrides config)"`
	MetricsFile string `name:"metrics-file" help:"Write Prometheus textfile metrics to this path" type:"path"`
}

func (g *GenerateCmd) mode() pipeline.Mode {
	switch {
	case g.Check:
		return pipeline.ModeCheck
	case g.Diff:
		return pipeline.ModeDiff
	default:
		return pipeline.ModeWrite
	}
}

func (g *GenerateCmd) Run(global *Global, root *CLI) error {
	cfg, err := loadConfig(global, root)
	if err != nil {
		return err
	}
	ws, err := g.apply(cfg)
	if err != nil {
		return err
	}

	runner := pipeline.NewRunner(cfg, ws).WithLogger(global.Logger)
	var prom *metrics.PrometheusRecorder
	if g.MetricsFile != "" {
		prom = metrics.NewPrometheusRecorder(nil)
		runner.WithRecorder(prom)
	}

	ctx, cancel := signalContext()
	defer cancel()

	out := output(global)
	report, runErr := runner.Run(ctx, pipeline.RunOptions{
		Mode:     g.mode(),
		Against:  pipeline.Against(g.Against),
		Manifest: g.Manifest,
		Out:      out,
	})

	if prom != nil {
		if err := prom.WriteTextfile(g.MetricsFile); err != nil {
			global.Logger.Warn("Failed to write metrics", logfields.Path(g.MetricsFile), logfields.Error(err))
		}
	}
	if report != nil {
		_, _ = fmt.Fprintln(out, report.String())
	}
	return runErr
}
