package workspace

import (
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	ferrors "git.home.luguber.info/inful/faqindex/internal/foundation/errors"
	"git.home.luguber.info/inful/faqindex/internal/logfields"
)

// Workspace is a repository root on the local filesystem.
type Workspace struct {
	root string
}

// New returns a Workspace rooted at dir, which must be an existing directory.
func New(dir string) (*Workspace, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryFileSystem, "resolve root").WithPath(dir).Build()
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryFileSystem, "root directory is not accessible").WithPath(abs).Build()
	}
	if !info.IsDir() {
		return nil, ferrors.FileSystemError("root is not a directory").WithPath(abs).Build()
	}
	return &Workspace{root: abs}, nil
}

// Root returns the absolute root directory.
func (w *Workspace) Root() string { return w.root }

// FS exposes the root as a read-only fs.FS.
func (w *Workspace) FS() fs.FS { return os.DirFS(w.root) }

// Abs maps a root-relative path to an absolute path, rejecting paths that
// would escape the root.
func (w *Workspace) Abs(rel string) (string, error) {
	if filepath.IsAbs(rel) {
		r, err := filepath.Rel(w.root, rel)
		if err != nil || r == ".." || strings.HasPrefix(r, ".."+string(filepath.Separator)) {
			return "", ferrors.FileSystemError("path is outside the root").WithPath(rel).Build()
		}
		return filepath.Clean(rel), nil
	}
	clean := filepath.Clean(filepath.FromSlash(rel))
	if clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", ferrors.FileSystemError("path is outside the root").WithPath(rel).Build()
	}
	return filepath.Join(w.root, clean), nil
}

// ReadFile reads a root-relative file.
func (w *Workspace) ReadFile(rel string) ([]byte, error) {
	abs, err := w.Abs(rel)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(abs) // #nosec G304 -- confined to the root by Abs
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryFileSystem, "read file").WithPath(rel).Build()
	}
	return data, nil
}

// WriteFileAtomic replaces a root-relative file with data. The existing file
// mode is preserved; new files get 0644.
func (w *Workspace) WriteFileAtomic(rel string, data []byte) error {
	abs, err := w.Abs(rel)
	if err != nil {
		return err
	}
	mode := fs.FileMode(0o644)
	if info, statErr := os.Stat(abs); statErr == nil {
		mode = info.Mode().Perm()
	}

	dir := filepath.Dir(abs)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(abs)+".*.tmp")
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "create temporary file").WithPath(rel).Build()
	}
	tmpPath := tmp.Name()
	cleanup := func() {
		if rmErr := os.Remove(tmpPath); rmErr != nil && !os.IsNotExist(rmErr) {
			slog.Warn("Failed to remove temporary file", logfields.Path(tmpPath), logfields.Error(rmErr))
		}
	}

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		cleanup()
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "write temporary file").WithPath(rel).Build()
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		cleanup()
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "sync temporary file").WithPath(rel).Build()
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "close temporary file").WithPath(rel).Build()
	}
	if err := os.Chmod(tmpPath, mode); err != nil {
		cleanup()
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "set file mode").WithPath(rel).Build()
	}
	if err := os.Rename(tmpPath, abs); err != nil {
		cleanup()
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "replace file").WithPath(rel).Build()
	}

	slog.Debug("Wrote file", logfields.Path(rel), slog.Int("bytes", len(data)))
	return nil
}
