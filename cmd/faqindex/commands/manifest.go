package commands

import (
	"bytes"
	"log/slog"
	"os"

	ferrors "git.home.luguber.info/inful/faqindex/internal/foundation/errors"
	"git.home.luguber.info/inful/faqindex/internal/manifest"
	"git.home.luguber.info/inful/faqindex/internal/pipeline"
)

// ManifestCmd groups manifest subcommands.
type ManifestCmd struct {
	Export ManifestExportCmd `cmd:"" help:"Write the manifest derived from the index document"`
}

// ManifestExportCmd derives the entry order from the committed Questions
// region and writes it as a manifest file.
type ManifestExportCmd struct {
	RootFlags `embed:""`

	Output string `short:"o" help:"Output file (default: stdout)" type:"path"`
	Force  bool   `help:"Overwrite an existing output file"`
}

func (m *ManifestExportCmd) Run(global *Global, root *CLI) error {
	cfg, err := loadConfig(global, root)
	if err != nil {
		return err
	}
	ws, err := m.apply(cfg)
	if err != nil {
		return err
	}
	doc, err := ws.ReadFile(cfg.Index)
	if err != nil {
		return err
	}
	derived, err := manifest.FromDocument(doc, pipeline.LayoutFor(cfg))
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := manifest.Write(&buf, derived); err != nil {
		return err
	}
	if m.Output == "" {
		_, err := output(global).Write(buf.Bytes())
		return err
	}
	if _, err := os.Stat(m.Output); err == nil && !m.Force {
		return ferrors.FileSystemError("output file already exists (use --force to overwrite)").WithPath(m.Output).Build()
	}
	if err := os.WriteFile(m.Output, buf.Bytes(), 0o644); err != nil { // #nosec G306 -- manifest is not secret
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "write manifest").WithPath(m.Output).Build()
	}
	global.Logger.Info("Manifest exported", slog.String("path", m.Output), slog.Int("entries", len(derived.Entries)))
	return nil
}
