package app

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// SceneWatcher reports changes to a set of files. It watches their parent
// directories, so editors that save by rename are still seen.
type SceneWatcher struct {
	watcher *fsnotify.Watcher
	files   map[string]bool
	logger  *slog.Logger
}

// WatchFiles starts watching the given files.
//
// Parameters:
//   - logger: receives watcher errors
//   - paths: the files to watch
//
// Returns:
//   - *SceneWatcher: the watcher, to be closed by the caller
//   - error: an error if the watcher cannot be created or a directory cannot be watched
func WatchFiles(logger *slog.Logger, paths ...string) (*SceneWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	sw := &SceneWatcher{watcher: w, files: map[string]bool{}, logger: logger}

	dirs := map[string]bool{}
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			w.Close()
			return nil, err
		}
		sw.files[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := w.Add(dir); err != nil {
			w.Close()
			return nil, fmt.Errorf("watch %s: %w", dir, err)
		}
	}
	return sw, nil
}

// Changed drains pending events without blocking and reports whether any
// watched file was written, created or renamed into place.
func (sw *SceneWatcher) Changed() bool {
	changed := false
	for {
		select {
		case ev, ok := <-sw.watcher.Events:
			if !ok {
				return changed
			}
			if sw.relevant(ev) {
				changed = true
			}
		case err, ok := <-sw.watcher.Errors:
			if !ok {
				return changed
			}
			sw.logger.Warn("scene watcher error", slog.Any("err", err))
		default:
			return changed
		}
	}
}

// Events calls onChange for every relevant event until the watcher is closed.
// It blocks, so callers run it on its own goroutine.
func (sw *SceneWatcher) Events(onChange func(path string)) {
	for {
		select {
		case ev, ok := <-sw.watcher.Events:
			if !ok {
				return
			}
			if sw.relevant(ev) {
				onChange(ev.Name)
			}
		case err, ok := <-sw.watcher.Errors:
			if !ok {
				return
			}
			sw.logger.Warn("scene watcher error", slog.Any("err", err))
		}
	}
}

func (sw *SceneWatcher) relevant(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
		return false
	}
	abs, err := filepath.Abs(ev.Name)
	if err != nil {
		return false
	}
	return sw.files[abs]
}

// Close stops watching.
func (sw *SceneWatcher) Close() error {
	return sw.watcher.Close()
}
