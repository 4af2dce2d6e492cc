package config

import (
	"context"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watcher notifies when the config file changes on disk. Configuration is
// immutable for the lifetime of a run, so the callback only gets the path;
// the caller is expected to log that a restart is required, not to reload.
type Watcher struct {
	Path string
}

// Start blocks until ctx is done, invoking onChange on every write/create
// event for the watched file.
func (w Watcher) Start(ctx context.Context, onChange func(path string)) error {
	if w.Path == "" {
		<-ctx.Done()
		return ctx.Err()
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fw.Close()

	// Watch the directory: editors replace files on save, which would drop
	// a watch on the file itself.
	if err := fw.Add(filepath.Dir(w.Path)); err != nil {
		return err
	}
	target := filepath.Clean(w.Path)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) != 0 && onChange != nil {
				onChange(w.Path)
			}
		case _, ok := <-fw.Errors:
			if !ok {
				return nil
			}
		}
	}
}
