// Package watch regenerates object graphs when the Go files of their packages change.
package watch

import (
	"context"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/mazrean/bullet/internal/pkg/errors"
)

// DefaultDebounce is the quiet period after the last change before regenerating.
const DefaultDebounce = 300 * time.Millisecond

// GenerateFunc regenerates the object graphs declared in files.
type GenerateFunc func(ctx context.Context, files []string) error

// Watcher watches the directories of the input files and calls a GenerateFunc
// after changes to Go sources settle.
type Watcher struct {
	files    []string
	dirs     []string
	debounce time.Duration
	generate GenerateFunc
	ignore   func(filename string) bool
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the quiet period after the last change.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithIgnore skips changes to files for which ignore returns true, such as
// the generated files themselves.
func WithIgnore(ignore func(filename string) bool) Option {
	return func(w *Watcher) {
		w.ignore = ignore
	}
}

// New creates a watcher of files.
func New(files []string, generate GenerateFunc, opts ...Option) (*Watcher, error) {
	if len(files) == 0 {
		return nil, errors.New("no files to watch")
	}

	w := &Watcher{
		files:    files,
		debounce: DefaultDebounce,
		generate: generate,
		ignore:   func(string) bool { return false },
	}
	for _, opt := range opts {
		opt(w)
	}

	for _, file := range files {
		dir, err := filepath.Abs(filepath.Dir(file))
		if err != nil {
			return nil, errors.Wrapf(err, "directory of %s", file)
		}
		if !slices.Contains(w.dirs, dir) {
			w.dirs = append(w.dirs, dir)
		}
	}

	return w, nil
}

// Run generates once, then regenerates on every settled change until ctx is done.
// Generation errors are logged and do not stop the watcher.
func (w *Watcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "create fsnotify watcher")
	}
	defer watcher.Close()

	// Directories are watched so that editors replacing files on save are seen.
	for _, dir := range w.dirs {
		if err := watcher.Add(dir); err != nil {
			return errors.Wrapf(err, "watch directory %s", dir)
		}
	}

	slog.Info("Watching for changes", "dirs", w.dirs, "debounce", w.debounce)
	w.run(ctx)

	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("Stop watching")
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			if !w.relevant(event) {
				continue
			}

			slog.Debug("Detected change", "file", event.Name, "op", event.Op.String())
			timer.Reset(w.debounce)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("Watcher error", "error", err)
		case <-timer.C:
			w.run(ctx)
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}

	if !strings.HasSuffix(event.Name, ".go") || strings.HasSuffix(event.Name, "_test.go") {
		return false
	}

	return !w.ignore(event.Name)
}

func (w *Watcher) run(ctx context.Context) {
	if err := w.generate(ctx, w.files); err != nil {
		slog.Error("Generation failed", "error", err)
		return
	}

	slog.Debug("Generation finished", "files", len(w.files))
}
