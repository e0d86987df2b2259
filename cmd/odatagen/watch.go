package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounce collapses the bursts of events editors emit on save.
const debounce = 100 * time.Millisecond

// watcher regenerates services when their local metadata file, or the
// project file, changes.
type watcher struct {
	logger *slog.Logger
	// files maps a cleaned absolute path to the services reading it.
	// The empty service list stands for the project file: all services.
	files map[string][]string
	// regenerate runs the named services, or all of them if names is nil.
	regenerate func(ctx context.Context, names []string) error
	// reload re-reads the project file and returns the new file set.
	reload func() (map[string][]string, error)
}

func (w *watcher) run(ctx context.Context) error {
	if len(w.files) == 0 {
		return errors.New("--watch requires a local metadata file or a project file")
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fw.Close()
	// Watch directories rather than files so that editors replacing the
	// file through a rename keep being observed.
	dirs := make(map[string]bool)
	for path := range w.files {
		dir := filepath.Dir(path)
		if dirs[dir] {
			continue
		}
		if err := fw.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
		dirs[dir] = true
	}
	w.logger.InfoContext(ctx, "watching for changes", "files", len(w.files))

	var (
		pending = make(map[string]bool)
		all     bool
		timer   = time.NewTimer(time.Hour)
	)
	timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			names, ok := w.files[filepath.Clean(ev.Name)]
			if !ok {
				continue
			}
			if names == nil {
				all = true
			}
			for _, n := range names {
				pending[n] = true
			}
			timer.Reset(debounce)
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.WarnContext(ctx, "watch error", "error", err)
		case <-timer.C:
			if all && w.reload != nil {
				files, err := w.reload()
				if err != nil {
					w.logger.ErrorContext(ctx, "reload project file", "error", err)
					all, pending = false, make(map[string]bool)
					continue
				}
				w.files = files
				for path := range files {
					if dir := filepath.Dir(path); !dirs[dir] {
						if err := fw.Add(dir); err != nil {
							w.logger.WarnContext(ctx, "watch directory", "dir", dir, "error", err)
							continue
						}
						dirs[dir] = true
					}
				}
			}
			var names []string
			if !all {
				for n := range pending {
					names = append(names, n)
				}
			}
			w.logger.InfoContext(ctx, "change detected, regenerating", "services", len(names), "all", all)
			if err := w.regenerate(ctx, names); err != nil {
				w.logger.ErrorContext(ctx, "regeneration failed", "error", err)
			}
			all, pending = false, make(map[string]bool)
		}
	}
}
