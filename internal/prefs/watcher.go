package prefs

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

const reloadDebounce = 100 * time.Millisecond

// Watch reloads the preferences file whenever it changes on disk, until ctx
// is cancelled. The parent directory is watched so that atomic replacements
// are seen. onReload, if non-nil, runs after every reload attempt.
func (s *Store) Watch(ctx context.Context, logger *slog.Logger, onReload func(error)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	dir := filepath.Dir(s.path)
	if err := w.Add(dir); err != nil {
		return err
	}
	logger.Info("prefs watcher: started", slog.String("path", s.path))

	var timer *time.Timer
	var timerCh <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			logger.Info("prefs watcher: stopped")
			return nil

		case <-timerCh:
			timerCh = nil
			err := s.Reload()
			if err != nil {
				logger.Warn("prefs watcher: reload failed", slog.String("error", err.Error()))
			} else {
				logger.Debug("prefs watcher: reloaded", slog.String("path", s.path))
			}
			if onReload != nil {
				onReload(err)
			}

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != s.path {
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(reloadDebounce)
			} else {
				timer.Reset(reloadDebounce)
			}
			timerCh = timer.C

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("prefs watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}
