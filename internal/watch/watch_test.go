package watch

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startWatcher(t *testing.T, root string, match func(string) bool) *atomic.Int32 {
	t.Helper()
	var runs atomic.Int32
	w, err := New(Options{
		Root:     root,
		Dirs:     []string{"questions"},
		Match:    match,
		Debounce: 50 * time.Millisecond,
		OnChange: func(context.Context) error {
			runs.Add(1)
			return nil
		},
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = w.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return &runs
}

func TestWatcher_RunsAfterRelevantChange(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "questions", "foo"), 0o750))
	runs := startWatcher(t, root, func(rel string) bool { return strings.HasSuffix(rel, ".mdx") })

	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(filepath.Join(root, "questions", "foo", "en-US.mdx"), []byte{byte('a' + i)}, 0o600))
	}

	require.Eventually(t, func() bool { return runs.Load() >= 1 }, 3*time.Second, 10*time.Millisecond)
	time.Sleep(150 * time.Millisecond)
	assert.LessOrEqual(t, runs.Load(), int32(2), "rapid writes should be coalesced")
}

func TestWatcher_WatchesNewDirectories(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "questions"), 0o750))
	runs := startWatcher(t, root, func(rel string) bool { return strings.HasSuffix(rel, ".mdx") })

	dir := filepath.Join(root, "questions", "bar")
	require.NoError(t, os.MkdirAll(dir, 0o750))
	require.Eventually(t, func() bool { return runs.Load() >= 1 }, 3*time.Second, 10*time.Millisecond)

	before := runs.Load()
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "en-US.mdx"), []byte("x"), 0o600))
	require.Eventually(t, func() bool { return runs.Load() > before }, 3*time.Second, 10*time.Millisecond)
}

func TestWatcher_IgnoresIrrelevantFiles(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "questions"), 0o750))
	runs := startWatcher(t, root, func(rel string) bool { return strings.HasSuffix(rel, ".mdx") })

	require.NoError(t, os.WriteFile(filepath.Join(root, "questions", "notes.txt"), []byte("x"), 0o600))
	time.Sleep(200 * time.Millisecond)
	assert.Equal(t, int32(0), runs.Load())
}

func TestNew_MissingDirectory(t *testing.T) {
	_, err := New(Options{Root: t.TempDir(), Dirs: []string{"absent"}})
	assert.Error(t, err)
}

func TestWatcher_SingleFile(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "questions"), 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(root, "faq.yaml"), []byte("entries: []\n"), 0o600))

	var runs atomic.Int32
	w, err := New(Options{
		Root:     root,
		Files:    []string{"faq.yaml"},
		Match:    func(rel string) bool { return rel == "faq.yaml" },
		Debounce: 20 * time.Millisecond,
		OnChange: func(context.Context) error { runs.Add(1); return nil },
	})
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() { defer close(done); _ = w.Run(ctx) }()
	defer func() { cancel(); <-done }()

	require.NoError(t, os.WriteFile(filepath.Join(root, "README.md"), []byte("x"), 0o600))
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, int32(0), runs.Load())

	require.NoError(t, os.WriteFile(filepath.Join(root, "faq.yaml"), []byte("entries: [{slug: a}]\n"), 0o600))
	require.Eventually(t, func() bool { return runs.Load() >= 1 }, 3*time.Second, 10*time.Millisecond)
}
