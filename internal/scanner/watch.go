package scanner

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/desertthunder/songdb/internal/playlist"
	"github.com/fsnotify/fsnotify"
)

// Watch calls onChange each time the tree below root has been quiet for the
// debounce period after a relevant change. It returns when ctx is done.
//
// Errors from onChange are logged and watching continues.
func (s *Scanner) Watch(ctx context.Context, root string, onChange func(context.Context) error) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer w.Close()

	if err := s.addWatches(w, root, root); err != nil {
		return err
	}
	s.logger.Info("watching for changes", "root", root, "debounce", s.opts.Debounce)

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !s.relevant(w, root, event) {
				continue
			}

			s.logger.Debug("change detected", "path", event.Name, "op", event.Op.String())
			if timer == nil {
				timer = time.NewTimer(s.opts.Debounce)
			} else {
				timer.Reset(s.opts.Debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			if err := onChange(ctx); err != nil {
				s.logger.Error("rescan failed", "error", err)
			}

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			s.logger.Warn("watcher error", "error", err)
		}
	}
}

// relevant filters events down to catalogued file types and directories,
// adding watches for new directories on the way.
func (s *Scanner) relevant(w *fsnotify.Watcher, root string, event fsnotify.Event) bool {
	if event.Has(fsnotify.Chmod) && !event.Has(fsnotify.Write) {
		return false
	}

	rel, err := filepath.Rel(root, event.Name)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)
	if s.Excluded(rel) {
		return false
	}

	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := s.addWatches(w, root, event.Name); err != nil {
				s.logger.Warn("failed to watch new directory", "path", event.Name, "error", err)
			}
			return true
		}
	}

	// Removed or renamed directories cannot be told apart from files any more.
	if event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
		return true
	}

	return IsAudio(rel) || playlist.IsPlaylist(rel)
}

func (s *Scanner) addWatches(w *fsnotify.Watcher, root, start string) error {
	return filepath.WalkDir(start, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == start {
				return fmt.Errorf("failed to watch %s: %w", path, err)
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}

		if path != root {
			rel, err := filepath.Rel(root, path)
			if err == nil && s.Excluded(filepath.ToSlash(rel)) {
				return filepath.SkipDir
			}
		}

		if err := w.Add(path); err != nil {
			s.logger.Warn("failed to add watch", "path", path, "error", err)
		}
		return nil
	})
}
