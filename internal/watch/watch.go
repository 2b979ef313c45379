// Package watch rebuilds the site whenever its inputs change.
//
// Every change triggers a full rebuild after a short quiet period. Rebuilds
// run on the watching goroutine, so two builds never overlap.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/blogbuilder/internal/logfields"
)

// DefaultDebounce is the quiet period between the last change and a rebuild.
const DefaultDebounce = 300 * time.Millisecond

// RebuildFunc performs one full build.
type RebuildFunc func(ctx context.Context) error

// Watcher observes input paths and calls a RebuildFunc on change.
type Watcher struct {
	paths       []string
	ignore      []string
	ignoreFiles []string
	debounce    time.Duration
	rebuild     RebuildFunc

	// roots are directories watched recursively; files are single inputs
	// observed through their parent directory.
	roots []string
	files map[string]bool
}

// Option customizes a Watcher.
type Option func(*Watcher)

// WithDebounce sets the quiet period before a rebuild.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) { w.debounce = d }
}

// WithIgnore excludes paths (and everything below them) from watching,
// typically the output directory.
func WithIgnore(paths ...string) Option {
	return func(w *Watcher) {
		for _, p := range paths {
			if abs, err := filepath.Abs(p); err == nil {
				w.ignore = append(w.ignore, abs)
			}
		}
	}
}

// WithIgnoreFile excludes generated files such as a metrics textfile, along
// with the temporary siblings written next to them (same name plus a suffix).
func WithIgnoreFile(paths ...string) Option {
	return func(w *Watcher) {
		for _, p := range paths {
			if p == "" {
				continue
			}
			if abs, err := filepath.Abs(p); err == nil {
				w.ignoreFiles = append(w.ignoreFiles, abs)
			}
		}
	}
}

// New returns a Watcher for paths. Files and directories are both accepted;
// directories are watched recursively, a file reacts only to its own events and
// paths that do not exist are skipped.
func New(paths []string, rebuild RebuildFunc, opts ...Option) *Watcher {
	w := &Watcher{paths: paths, debounce: DefaultDebounce, rebuild: rebuild, files: make(map[string]bool)}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run blocks until ctx is done, rebuilding after each burst of changes. A
// failed rebuild is logged and watching continues.
func (w *Watcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("fsnotify: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	watched := 0
	for _, p := range w.paths {
		n, err := w.add(watcher, p)
		if err != nil {
			return err
		}
		watched += n
	}
	if watched == 0 {
		return fmt.Errorf("nothing to watch in %s", strings.Join(w.paths, ", "))
	}
	slog.Info("Watching for changes", logfields.Count(watched))

	rebuildReq := make(chan struct{}, 1)
	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()
	trigger := func() {
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(w.debounce, func() {
			select {
			case rebuildReq <- struct{}{}:
			default:
			}
		})
	}

	for {
		select {
		case <-ctx.Done():
			slog.Info("Stopped watching")
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if w.handleEvent(watcher, ev) {
				trigger()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("Watcher error", logfields.Error(err))
		case <-rebuildReq:
			slog.Info("Change detected; rebuilding site")
			if err := w.rebuild(ctx); err != nil {
				slog.Warn("Rebuild failed", logfields.Error(err))
			}
		}
	}
}

// handleEvent reports whether ev should trigger a rebuild. New directories
// are added to the watch list.
func (w *Watcher) handleEvent(watcher *fsnotify.Watcher, ev fsnotify.Event) bool {
	if shouldIgnoreEvent(ev.Name) || w.ignored(ev.Name) || !w.relevant(ev.Name) {
		return false
	}
	if ev.Op&fsnotify.Create == fsnotify.Create {
		if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
			_, _ = w.add(watcher, ev.Name)
		}
	}
	if ev.Op == fsnotify.Chmod {
		return false
	}
	slog.Debug("File change detected", logfields.Path(ev.Name), slog.String("op", ev.Op.String()))
	return true
}

// add watches a file or, recursively, a directory and returns how many
// watches were registered.
func (w *Watcher) add(watcher *fsnotify.Watcher, root string) (int, error) {
	info, err := os.Stat(root)
	if os.IsNotExist(err) {
		slog.Debug("Watch path does not exist, skipping", logfields.Path(root))
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return 0, err
	}
	if !info.IsDir() {
		// Watch the parent so editors that replace the file are still seen.
		if err := watcher.Add(filepath.Dir(abs)); err != nil {
			return 0, fmt.Errorf("watch %s: %w", root, err)
		}
		w.files[abs] = true
		return 1, nil
	}
	if !w.underRoot(abs) {
		w.roots = append(w.roots, abs)
	}

	n := 0
	err = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if w.ignored(path) || (path != root && strings.HasPrefix(d.Name(), ".")) {
			return filepath.SkipDir
		}
		if err := watcher.Add(path); err != nil {
			slog.Warn("Watch add failed", logfields.Path(path), logfields.Error(err))
			return nil
		}
		n++
		return nil
	})
	return n, err
}

// relevant reports whether path is a watched file or lies below a directory
// watched recursively. Other entries of a watched file's parent are not.
func (w *Watcher) relevant(path string) bool {
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	return w.files[abs] || w.underRoot(abs)
}

func (w *Watcher) underRoot(abs string) bool {
	for _, r := range w.roots {
		if within(abs, r) {
			return true
		}
	}
	return false
}

func (w *Watcher) ignored(path string) bool {
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	for _, ig := range w.ignore {
		if within(abs, ig) {
			return true
		}
	}
	for _, f := range w.ignoreFiles {
		if filepath.Dir(abs) == filepath.Dir(f) && strings.HasPrefix(filepath.Base(abs), filepath.Base(f)) {
			return true
		}
	}
	return false
}

func within(path, dir string) bool {
	return path == dir || strings.HasPrefix(path, dir+string(filepath.Separator))
}

// shouldIgnoreEvent returns true for editor and OS artifacts.
func shouldIgnoreEvent(path string) bool {
	base := filepath.Base(path)

	if strings.HasPrefix(base, ".") {
		return true
	}
	if strings.HasSuffix(base, "~") ||
		strings.HasSuffix(base, ".swp") ||
		strings.HasSuffix(base, ".swx") ||
		(strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#")) {
		return true
	}
	return base == "Thumbs.db"
}
