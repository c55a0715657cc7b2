package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyRunID       = "run_id"
	KeyStage       = "stage"
	KeyDurationMS  = "duration_ms"
	KeyPath        = "path"
	KeySlug        = "slug"
	KeyOrder       = "order"
	KeyTitle       = "title"
	KeyRegion      = "region"
	KeyLine        = "line"
	KeyEntries     = "entries"
	KeyFingerprint = "fingerprint"
	KeyMode        = "mode"
	KeyError       = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func RunID(id string) slog.Attr         { return slog.String(KeyRunID, id) }
func Stage(name string) slog.Attr       { return slog.String(KeyStage, name) }
func DurationMS(ms float64) slog.Attr   { return slog.Float64(KeyDurationMS, ms) }
func Path(p string) slog.Attr           { return slog.String(KeyPath, p) }
func Slug(s string) slog.Attr           { return slog.String(KeySlug, s) }
func Order(n int) slog.Attr             { return slog.Int(KeyOrder, n) }
func Title(t string) slog.Attr          { return slog.String(KeyTitle, t) }
func Region(r string) slog.Attr         { return slog.String(KeyRegion, r) }
func Line(n int) slog.Attr              { return slog.Int(KeyLine, n) }
func Entries(n int) slog.Attr           { return slog.Int(KeyEntries, n) }
func Fingerprint(fp string) slog.Attr   { return slog.String(KeyFingerprint, fp) }
func Mode(m string) slog.Attr           { return slog.String(KeyMode, m) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
