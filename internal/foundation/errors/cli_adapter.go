package errors

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"
)

// Exit codes returned by the CLI.
const (
	ExitOK         = 0
	ExitDrift      = 1
	ExitValidation = 2
	ExitContent    = 3
	ExitMarker     = 4
	ExitConfig     = 7
	ExitInternal   = 10
	ExitIO         = 11
)

// CLIErrorAdapter handles error presentation and exit code determination for CLI applications.
type CLIErrorAdapter struct {
	verbose bool
	logger  *slog.Logger
	out     io.Writer
	exit    func(int)
}

// NewCLIErrorAdapter creates a new CLI error adapter.
func NewCLIErrorAdapter(verbose bool, logger *slog.Logger) *CLIErrorAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CLIErrorAdapter{
		verbose: verbose,
		logger:  logger,
		out:     os.Stderr,
		exit:    os.Exit,
	}
}

// ExitCodeFor determines the appropriate exit code for an error.
func (a *CLIErrorAdapter) ExitCodeFor(err error) int {
	if err == nil {
		return ExitOK
	}
	classified, ok := AsClassified(err)
	if !ok {
		return ExitInternal
	}
	switch classified.Category() {
	case CategoryDrift:
		return ExitDrift
	case CategoryValidation:
		return ExitValidation
	case CategoryManifest, CategoryFragment:
		return ExitContent
	case CategoryMarker:
		return ExitMarker
	case CategoryConfig:
		return ExitConfig
	case CategoryFileSystem, CategoryGit:
		return ExitIO
	case CategoryInternal:
		return ExitInternal
	default:
		return ExitInternal
	}
}

// FormatError formats an error for user-friendly display.
//
// Classified errors render as "location: message"; verbose mode appends the
// cause chain and remaining context fields.
func (a *CLIErrorAdapter) FormatError(err error) string {
	if err == nil {
		return ""
	}
	classified, ok := AsClassified(err)
	if !ok {
		return fmt.Sprintf("Error: %v", err)
	}

	var b strings.Builder
	b.WriteString("Error: ")
	if loc := classified.Location(); loc != "" {
		b.WriteString(loc)
		b.WriteString(": ")
	}
	b.WriteString(classified.Message())
	if !a.verbose {
		return b.String()
	}

	if cause := classified.Cause(); cause != nil {
		fmt.Fprintf(&b, "\n  cause: %v", cause)
	}
	keys := make([]string, 0, len(classified.Context()))
	for k := range classified.Context() {
		if k == ContextPath || k == ContextLine {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, "\n  %s: %v", k, classified.Context()[k])
	}
	return b.String()
}

// HandleError logs and prints err, then exits with the mapped code.
func (a *CLIErrorAdapter) HandleError(err error) {
	if err == nil {
		return
	}
	code := a.ExitCodeFor(err)
	a.logError(err)
	_, _ = fmt.Fprintln(a.out, a.FormatError(err))
	a.exit(code)
}

func (a *CLIErrorAdapter) logError(err error) {
	classified, ok := AsClassified(err)
	if !ok {
		a.logger.Error("Unclassified error", "error", err)
		return
	}
	attrs := []slog.Attr{slog.String("category", string(classified.Category()))}
	if loc := classified.Location(); loc != "" {
		attrs = append(attrs, slog.String("location", loc))
	}
	a.logger.LogAttrs(context.Background(), slogLevelFromSeverity(classified.Severity()), classified.Message(), attrs...)
}

func slogLevelFromSeverity(severity ErrorSeverity) slog.Level {
	switch severity {
	case SeverityInfo:
		return slog.LevelInfo
	case SeverityWarning:
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}
