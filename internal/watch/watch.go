// Package watch re-runs generation when fragment or manifest files change.
package watch

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	ferrors "git.home.luguber.info/inful/faqindex/internal/foundation/errors"
	"git.home.luguber.info/inful/faqindex/internal/logfields"
)

// Options configures a Watcher.
type Options struct {
	// Root is the directory event paths are made relative to.
	Root string
	// Dirs are root-relative directories to watch recursively.
	Dirs []string
	// Files are root-relative files watched through their parent directory.
	Files []string
	// Match reports whether a change to a root-relative path should trigger a run.
	Match func(rel string) bool
	// Debounce is how long the tree must be quiet before a run starts.
	Debounce time.Duration
	// OnChange performs one run. Runs never overlap.
	OnChange func(ctx context.Context) error
	Logger   *slog.Logger
}

// Watcher coalesces filesystem events into serial runs.
type Watcher struct {
	opts    Options
	watcher *fsnotify.Watcher
	log     *slog.Logger
}

// New creates a watcher and registers every directory below opts.Dirs.
func New(opts Options) (*Watcher, error) {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Match == nil {
		opts.Match = func(string) bool { return true }
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to create file watcher").Build()
	}
	w := &Watcher{opts: opts, watcher: fw, log: opts.Logger}
	for _, dir := range opts.Dirs {
		if err := w.addTree(filepath.Join(opts.Root, filepath.FromSlash(dir))); err != nil {
			_ = fw.Close()
			return nil, err
		}
	}
	for _, f := range opts.Files {
		dir := filepath.Dir(filepath.Join(opts.Root, filepath.FromSlash(f)))
		if err := fw.Add(dir); err != nil {
			_ = fw.Close()
			return nil, ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to watch directory").WithPath(dir).Build()
		}
	}
	return w, nil
}

func (w *Watcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to walk watched directory").WithPath(p).Build()
		}
		if !d.IsDir() {
			return nil
		}
		if err := w.watcher.Add(p); err != nil {
			return ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to watch directory").WithPath(p).Build()
		}
		w.log.Debug("Watching directory", logfields.Path(p))
		return nil
	})
}

// Run blocks until ctx is canceled, invoking OnChange after each quiet period
// that follows a relevant change. Run errors are logged and watching continues.
func (w *Watcher) Run(ctx context.Context) error {
	defer func() {
		if err := w.watcher.Close(); err != nil {
			w.log.Error("Error closing file watcher", logfields.Error(err))
		}
	}()

	// quiet is nil while no change is pending.
	var quiet <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			w.log.Debug("Change detected", logfields.Path(event.Name), slog.String("op", event.Op.String()))
			quiet = time.After(w.opts.Debounce)

		case <-quiet:
			quiet = nil
			if err := w.opts.OnChange(ctx); err != nil {
				w.log.Error("Regeneration failed", logfields.Error(err))
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.log.Error("File watcher error", logfields.Error(err))
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	rel, err := filepath.Rel(w.opts.Root, event.Name)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)
	if event.Has(fsnotify.Create) && w.underDirs(rel) {
		if fi, err := os.Stat(event.Name); err == nil && fi.IsDir() {
			if err := w.addTree(event.Name); err != nil {
				w.log.Warn("Failed to watch new directory", logfields.Path(event.Name), logfields.Error(err))
			}
			return true
		}
	}
	if event.Op == fsnotify.Chmod {
		return false
	}
	return w.opts.Match(rel)
}

func (w *Watcher) underDirs(rel string) bool {
	for _, d := range w.opts.Dirs {
		d = path.Clean(d)
		if d == "." || strings.HasPrefix(rel, d+"/") {
			return true
		}
	}
	return false
}
