package repository

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"birthday-countdown/internal/domain"
	"birthday-countdown/internal/logging"
)

// Watch reloads the settings whenever the file changes and passes them to
// onChange until ctx is cancelled. The parent directory is watched so atomic
// renames by Save are seen as well.
func (f *FileRepository) Watch(ctx context.Context, onChange func(domain.Settings)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(f.path)); err != nil {
		watcher.Close()
		return fmt.Errorf("watch %s: %w", filepath.Dir(f.path), err)
	}

	go func() {
		defer watcher.Close()
		target := filepath.Clean(f.path)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != target || ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				settings, err := f.Load()
				if err != nil {
					logging.Warnf("reload %s: %v", f.path, err)
					continue
				}
				logging.Infof("settings reloaded from %s", f.path)
				onChange(settings)
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logging.Warnf("settings watcher: %v", err)
			}
		}
	}()
	return nil
}
