package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/faqindex/internal/assemble"
	"git.home.luguber.info/inful/faqindex/internal/config"
	"git.home.luguber.info/inful/faqindex/internal/drift"
	ferrors "git.home.luguber.info/inful/faqindex/internal/foundation/errors"
	"git.home.luguber.info/inful/faqindex/internal/git"
	"git.home.luguber.info/inful/faqindex/internal/logfields"
	"git.home.luguber.info/inful/faqindex/internal/manifest"
	"git.home.luguber.info/inful/faqindex/internal/markdown"
	"git.home.luguber.info/inful/faqindex/internal/markers"
	"git.home.luguber.info/inful/faqindex/internal/metrics"
	"git.home.luguber.info/inful/faqindex/internal/workspace"
)

// Mode selects what a run does with the generated document.
type Mode string

const (
	// ModeWrite replaces the index document when it changed.
	ModeWrite Mode = "write"
	// ModeCheck compares against the committed document and fails on drift.
	ModeCheck Mode = "check"
	// ModeDiff prints the would-be diff and writes nothing.
	ModeDiff Mode = "diff"
)

// Against selects the committed side of a comparison.
type Against string

const (
	AgainstWorktree Against = "worktree"
	AgainstHead     Against = "head"
)

// RunOptions are per-invocation settings.
type RunOptions struct {
	Mode    Mode
	Against Against
	// Manifest overrides the configured manifest file.
	Manifest string
	// Out receives diffs in check and diff mode.
	Out io.Writer
}

// Report summarizes a successful run.
type Report struct {
	RunID       string
	Mode        Mode
	Entries     int
	Changed     bool
	Fingerprint string
	Drift       *drift.Result
	Duration    time.Duration
}

// Runner executes generation runs for one configuration.
type Runner struct {
	cfg      *config.Config
	ws       *workspace.Workspace
	recorder metrics.Recorder
	logger   *slog.Logger
}

// NewRunner returns a Runner with a no-op recorder and the default logger.
func NewRunner(cfg *config.Config, ws *workspace.Workspace) *Runner {
	return &Runner{cfg: cfg, ws: ws, recorder: metrics.NoopRecorder{}, logger: slog.Default()}
}

// WithRecorder sets the metrics recorder.
func (r *Runner) WithRecorder(rec metrics.Recorder) *Runner {
	if rec != nil {
		r.recorder = rec
	}
	return r
}

// WithLogger sets the logger.
func (r *Runner) WithLogger(l *slog.Logger) *Runner {
	if l != nil {
		r.logger = l
	}
	return r
}

// Run performs one generation. In check mode a drifted index yields a
// DriftDetected error together with the report.
func (r *Runner) Run(ctx context.Context, opts RunOptions) (*Report, error) {
	if opts.Mode == "" {
		opts.Mode = ModeWrite
	}
	if opts.Against == "" {
		opts.Against = AgainstWorktree
	}
	if opts.Out == nil {
		opts.Out = io.Discard
	}

	start := time.Now()
	report := &Report{RunID: uuid.NewString(), Mode: opts.Mode}
	log := r.logger.With(logfields.RunID(report.RunID), logfields.Mode(string(opts.Mode)))
	log.Info("Starting run", logfields.Path(r.cfg.Index))

	err := r.run(ctx, log, opts, report)
	report.Duration = time.Since(start)

	outcome := metrics.OutcomeFailed
	switch {
	case err == nil && report.Changed && opts.Mode == ModeWrite:
		outcome = metrics.OutcomeWritten
	case err == nil:
		outcome = metrics.OutcomeUnchanged
	case ferrors.HasCategory(err, ferrors.CategoryDrift):
		outcome = metrics.OutcomeDrift
	}
	r.recorder.IncRunOutcome(string(opts.Mode), outcome)

	if err != nil && outcome == metrics.OutcomeFailed {
		log.Error("Run failed", logfields.Error(err), logfields.DurationMS(ms(report.Duration)))
		return nil, err
	}
	log.Info("Run finished",
		slog.String("outcome", string(outcome)),
		logfields.Entries(report.Entries),
		logfields.DurationMS(ms(report.Duration)))
	return report, err
}

func (r *Runner) run(ctx context.Context, log *slog.Logger, opts RunOptions, report *Report) error {
	if opts.Against == AgainstHead && opts.Mode == ModeWrite {
		return ferrors.ValidationError("--against=head requires --check or --diff").Build()
	}

	var current []byte
	if err := r.stage(ctx, log, "read_index", func() error {
		var err error
		current, err = r.ws.ReadFile(r.cfg.Index)
		return err
	}); err != nil {
		return err
	}

	base := current
	if opts.Mode != ModeWrite && opts.Against == AgainstHead {
		if err := r.stage(ctx, log, "read_head", func() error {
			var err error
			base, err = r.readHead()
			return err
		}); err != nil {
			return err
		}
	}

	var sources []manifest.Source
	if err := r.stage(ctx, log, "manifest", func() error {
		m, err := r.loadManifest(opts.Manifest, base)
		if err != nil {
			return err
		}
		log.Debug("Manifest loaded", slog.String("origin", m.Origin), logfields.Entries(len(m.Entries)))
		sources, err = manifest.Resolve(m, r.layout(), r.ws.FS())
		return err
	}); err != nil {
		return err
	}
	if len(sources) == 0 {
		log.Warn("Manifest has no entries; regions will be emptied")
	}

	files := make([]File, 0, len(sources))
	if err := r.stage(ctx, log, "read_fragments", func() error {
		for _, src := range sources {
			raw, err := r.ws.ReadFile(src.Path)
			if err != nil {
				return err
			}
			files = append(files, File{Source: src, Raw: raw})
		}
		return nil
	}); err != nil {
		return err
	}

	var res *Result
	if err := r.stage(ctx, log, "generate", func() error {
		var err error
		res, err = Generate(base, files, r.generateOptions())
		return err
	}); err != nil {
		return err
	}
	for _, e := range res.Entries {
		log.Debug("Entry", logfields.Order(e.Order), logfields.Slug(e.Slug), logfields.Path(e.SourcePath))
	}
	report.Entries = len(res.Entries)
	report.Fingerprint = drift.Fingerprint(res.Document)
	r.recorder.SetEntries(report.Entries)

	if opts.Mode == ModeWrite {
		report.Changed = string(current) != string(res.Document)
		if !report.Changed {
			log.Info("Index is up to date", logfields.Path(r.cfg.Index))
			return nil
		}
		if err := r.stage(ctx, log, "write", func() error {
			return r.ws.WriteFileAtomic(r.cfg.Index, res.Document)
		}); err != nil {
			return err
		}
		log.Info("Index written", logfields.Path(r.cfg.Index), logfields.Fingerprint(report.Fingerprint))
		return nil
	}

	var result drift.Result
	if err := r.stage(ctx, log, "compare", func() error {
		var err error
		result, err = drift.Check(base, res.Document, r.cfg.Index)
		return err
	}); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryInternal, "compute diff").Build()
	}
	report.Drift = &result
	report.Changed = result.Drifted
	r.recorder.SetDriftDetected(result.Drifted)

	if result.Drifted {
		if _, err := io.WriteString(opts.Out, result.Diff); err != nil {
			return ferrors.WrapError(err, ferrors.CategoryInternal, "write diff").Build()
		}
	}
	if opts.Mode == ModeCheck && result.Drifted {
		log.Warn("Index drift detected",
			logfields.Path(r.cfg.Index),
			slog.String("committed", result.CommittedFingerprint),
			slog.String("generated", result.GeneratedFingerprint))
		return ferrors.DriftDetected(r.cfg.Index).Build()
	}
	return nil
}

// stage runs fn, recording its duration. Cancellation is honored between stages.
func (r *Runner) stage(ctx context.Context, log *slog.Logger, name string, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryInternal, "run canceled").Build()
	}
	start := time.Now()
	err := fn()
	d := time.Since(start)
	r.recorder.ObserveStageDuration(name, d)
	log.Debug("Stage complete", logfields.Stage(name), logfields.DurationMS(ms(d)))
	return err
}

func (r *Runner) loadManifest(override string, doc []byte) (*manifest.Manifest, error) {
	path := override
	if path == "" {
		path = r.cfg.Manifest
	}
	if path == "" {
		m, err := manifest.FromDocument(doc, r.layout())
		if err != nil {
			return nil, withIndexPath(err, r.cfg.Index)
		}
		if len(m.Entries) == 0 {
			if line, ok := tocRowLine(doc, r.cfg.TOCHeader); ok {
				return nil, ferrors.ManifestError("table of contents lists entries but the questions region has no Update here pairs; configure a manifest file").
					WithPath(r.cfg.Index).
					WithLine(line).
					Build()
			}
		}
		return m, nil
	}
	abs, err := r.ws.Abs(path)
	if err != nil {
		return nil, err
	}
	return manifest.Load(abs)
}

// tocRowLine returns the line of the first table row in the TOC region that
// is not part of the configured header.
func tocRowLine(doc []byte, header []string) (int, bool) {
	regions, err := markers.Locate(doc, markers.RegionTOC)
	if err != nil {
		return 0, false
	}
	if len(header) == 0 {
		header = assemble.DefaultTOCHeader
	}
	skip := make(map[string]struct{}, len(header))
	for _, h := range header {
		skip[strings.TrimSpace(h)] = struct{}{}
	}
	region := regions[0]
	for _, l := range markdown.SplitLines(region.Body(doc)) {
		text := strings.TrimSpace(l.Text)
		if !strings.HasPrefix(text, "|") {
			continue
		}
		if _, ok := skip[text]; ok {
			continue
		}
		return region.StartLine + l.Number, true
	}
	return 0, false
}

func (r *Runner) readHead() ([]byte, error) {
	repo, err := git.Open(r.ws.Root())
	if err != nil {
		return nil, err
	}
	abs, err := r.ws.Abs(r.cfg.Index)
	if err != nil {
		return nil, err
	}
	if commit, err := repo.HeadCommit(); err == nil {
		r.logger.Debug("Comparing against HEAD", slog.String("commit", commit))
	}
	return repo.ReadCommitted(abs)
}

func (r *Runner) layout() manifest.Layout {
	return LayoutFor(r.cfg)
}

// LayoutFor returns the fragment layout described by cfg.
func LayoutFor(cfg *config.Config) manifest.Layout {
	return manifest.Layout{
		QuestionsDir: cfg.QuestionsDir,
		Locale:       cfg.Locale,
		Extension:    cfg.Extension,
	}
}

func (r *Runner) generateOptions() Options {
	return Options{
		IndexPath:      r.cfg.Index,
		SummaryHeading: r.cfg.SummaryHeading,
		TOCHeader:      r.cfg.TOCHeader,
		TOCAnchor:      r.cfg.TOCAnchor,
		Promo:          r.cfg.Promo,
	}
}

func ms(d time.Duration) float64 {
	return float64(d.Microseconds()) / 1000
}

// String renders a one-line summary for CLI output.
func (rep *Report) String() string {
	switch {
	case rep.Mode == ModeWrite && rep.Changed:
		return fmt.Sprintf("updated index with %d entries", rep.Entries)
	case rep.Mode == ModeWrite:
		return fmt.Sprintf("index is up to date (%d entries)", rep.Entries)
	case rep.Changed:
		return fmt.Sprintf("index is out of date (%d entries)", rep.Entries)
	default:
		return fmt.Sprintf("index matches generated output (%d entries)", rep.Entries)
	}
}
