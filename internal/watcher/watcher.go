// Package watcher triggers site rebuilds when project files change.
package watcher

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Debounce is the quiet period after the last event before onChange fires.
const Debounce = 200 * time.Millisecond

// SkipFunc reports whether a path (relative to the watched root, slash
// separated) should be ignored. Skipped directories are not watched.
type SkipFunc func(rel string, isDir bool) bool

// Watch starts an fsnotify watcher on root and calls onChange once per burst
// of file events until ctx is cancelled.
//
// New directories created at runtime are automatically added to the watch
// list. Events for skipped paths, such as the output directory, never
// trigger a rebuild.
func Watch(ctx context.Context, root string, skip SkipFunc, logger *slog.Logger, onChange func()) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if skip == nil {
		skip = func(string, bool) bool { return false }
	}
	if err := addDirsRecursive(w, root, root, skip); err != nil {
		return err
	}

	logger.Info("watcher: started", slog.String("root", root))

	var timer *time.Timer
	var fire <-chan time.Time

	schedule := func() {
		if timer == nil {
			timer = time.NewTimer(Debounce)
			fire = timer.C
		} else {
			timer.Reset(Debounce)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			logger.Info("watcher: stopped")
			return nil

		case <-fire:
			timer = nil
			fire = nil
			onChange()

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Op == fsnotify.Chmod {
				continue
			}

			rel, relErr := filepath.Rel(root, ev.Name)
			if relErr != nil {
				continue
			}
			rel = filepath.ToSlash(rel)

			isDir := false
			if info, statErr := os.Stat(ev.Name); statErr == nil && info.IsDir() {
				isDir = true
			}
			if skip(rel, isDir) {
				continue
			}

			if isDir && ev.Op&fsnotify.Create != 0 {
				if addErr := addDirsRecursive(w, root, ev.Name, skip); addErr != nil {
					logger.Warn("watcher: add new dir failed",
						slog.String("path", rel),
						slog.String("error", addErr.Error()))
				} else {
					logger.Debug("watcher: watching new dir", slog.String("path", rel))
				}
			}

			logger.Debug("watcher: change", slog.String("path", rel), slog.String("op", ev.Op.String()))
			schedule()

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}

// addDirsRecursive adds dir and all its non-skipped subdirectories to the
// watcher. Paths handed to skip are relative to root.
func addDirsRecursive(w *fsnotify.Watcher, root, dir string, skip SkipFunc) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root {
			rel, relErr := filepath.Rel(root, path)
			if relErr == nil && skip(filepath.ToSlash(rel), true) {
				return filepath.SkipDir
			}
		}
		return w.Add(path)
	})
}
