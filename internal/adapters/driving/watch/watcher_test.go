package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu    sync.Mutex
	paths []string
	seen  chan string
}

func newRecorder() *recorder {
	return &recorder{seen: make(chan string, 32)}
}

func (r *recorder) handle(_ context.Context, path string) error {
	r.mu.Lock()
	r.paths = append(r.paths, path)
	r.mu.Unlock()
	r.seen <- path
	return nil
}

func (r *recorder) wait(t *testing.T) string {
	t.Helper()
	select {
	case path := <-r.seen:
		return path
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for handler")
		return ""
	}
}

func TestNew_Validation(t *testing.T) {
	dir := t.TempDir()

	_, err := New(dir, nil)
	assert.Error(t, err)

	_, err = New(filepath.Join(dir, "missing"), newRecorder().handle)
	assert.Error(t, err)

	file := filepath.Join(dir, "file.json")
	require.NoError(t, os.WriteFile(file, []byte("[]"), 0o600))
	_, err = New(file, newRecorder().handle)
	assert.ErrorContains(t, err, "is not a directory")
}

func TestNew_Options(t *testing.T) {
	w, err := New(t.TempDir(), newRecorder().handle, WithDebounce(time.Second), WithDebounce(0))
	require.NoError(t, err)
	assert.Equal(t, time.Second, w.debounce)
}

func TestWatcher_Existing(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.json", "a.JSON", ".hidden.json", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("[]"), 0o600))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "dir.json"), 0o700))

	rec := newRecorder()
	w, err := New(dir, rec.handle)
	require.NoError(t, err)

	paths, err := w.Existing()
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "a.JSON"), filepath.Join(dir, "b.json")}, paths)

	require.NoError(t, w.HandleExisting(context.Background()))
	assert.Equal(t, paths, rec.paths)
}

func TestWatcher_HandleExisting_Cancelled(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.json"), []byte("[]"), 0o600))

	rec := newRecorder()
	w, err := New(dir, rec.handle)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, w.HandleExisting(ctx), context.Canceled)
	assert.Empty(t, rec.paths)
}

func TestWatcher_Run_HandlesNewBundles(t *testing.T) {
	dir := t.TempDir()
	rec := newRecorder()
	w, err := New(dir, rec.handle, WithDebounce(50*time.Millisecond))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// Give the watcher time to register the directory.
	time.Sleep(100 * time.Millisecond)

	bundle := filepath.Join(dir, "report.pdf.json")
	require.NoError(t, os.WriteFile(bundle, []byte(`[{"engine_id":"a"}]`), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ignored.txt"), []byte("x"), 0o600))

	assert.Equal(t, bundle, rec.wait(t))

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()
	assert.Equal(t, []string{bundle}, rec.paths)
}

func TestWatcher_Run_ReportsHandlerErrors(t *testing.T) {
	dir := t.TempDir()
	failures := make(chan string, 1)
	w, err := New(dir,
		func(context.Context, string) error { return errors.New("bad bundle") },
		WithDebounce(20*time.Millisecond),
		WithErrorHandler(func(path string, err error) {
			failures <- path + ": " + err.Error()
		}),
	)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = w.Run(ctx) }()
	time.Sleep(100 * time.Millisecond)

	bundle := filepath.Join(dir, "x.json")
	require.NoError(t, os.WriteFile(bundle, []byte("{"), 0o600))

	select {
	case msg := <-failures:
		assert.Equal(t, bundle+": bad bundle", msg)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for error")
	}
}

func TestWatcher_Schedule_Debounces(t *testing.T) {
	w, err := New(t.TempDir(), newRecorder().handle, WithDebounce(50*time.Millisecond))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ready := make(chan string, 4)

	for i := 0; i < 5; i++ {
		w.schedule(ctx, "a.json", ready)
		time.Sleep(10 * time.Millisecond)
	}

	select {
	case path := <-ready:
		assert.Equal(t, "a.json", path)
	case <-time.After(2 * time.Second):
		t.Fatal("timer never fired")
	}
	select {
	case path := <-ready:
		t.Fatalf("unexpected second event for %s", path)
	case <-time.After(150 * time.Millisecond):
	}
}

func TestWatcher_StopTimers(t *testing.T) {
	w, err := New(t.TempDir(), newRecorder().handle, WithDebounce(time.Hour))
	require.NoError(t, err)

	w.schedule(context.Background(), "a.json", make(chan string, 1))
	w.stopTimers()
	assert.Empty(t, w.timers)
}

func TestBundleEvent(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "a.json")
	require.NoError(t, os.WriteFile(file, []byte("[]"), 0o600))
	hidden := filepath.Join(dir, ".a.json")
	require.NoError(t, os.WriteFile(hidden, []byte("[]"), 0o600))
	subdir := filepath.Join(dir, "d.json")
	require.NoError(t, os.Mkdir(subdir, 0o700))

	tests := []struct {
		name  string
		event fsnotify.Event
		want  bool
	}{
		{"create", fsnotify.Event{Name: file, Op: fsnotify.Create}, true},
		{"write", fsnotify.Event{Name: file, Op: fsnotify.Write}, true},
		{"write and chmod", fsnotify.Event{Name: file, Op: fsnotify.Write | fsnotify.Chmod}, true},
		{"chmod only", fsnotify.Event{Name: file, Op: fsnotify.Chmod}, false},
		{"remove", fsnotify.Event{Name: file, Op: fsnotify.Remove}, false},
		{"hidden", fsnotify.Event{Name: hidden, Op: fsnotify.Create}, false},
		{"directory", fsnotify.Event{Name: subdir, Op: fsnotify.Create}, false},
		{"vanished", fsnotify.Event{Name: filepath.Join(dir, "gone.json"), Op: fsnotify.Create}, false},
		{"other extension", fsnotify.Event{Name: filepath.Join(dir, "a.txt"), Op: fsnotify.Create}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := bundleEvent(tt.event)
			assert.Equal(t, tt.want, ok)
		})
	}
}
