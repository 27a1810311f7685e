package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watch blocks, reloading the overlay file whenever it is written, until ctx
// is cancelled. It is a no-op when the catalog has no overlay path.
//
// The watcher observes the overlay's parent directory rather than the file
// itself so editors that replace the file (rename-over-write) don't silently
// drop the watch.
func (c *Catalog) Watch(ctx context.Context) error {
	if c.overlayPath == "" {
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create catalog watcher: %w", err)
	}
	defer watcher.Close()

	dir := filepath.Dir(c.overlayPath)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	target := filepath.Clean(c.overlayPath)
	slog.Info("catalog watcher started", "file", target)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if filepath.Clean(event.Name) != target && !strings.HasSuffix(event.Name, filepath.Base(target)) {
				continue
			}

			// Small delay so we read the file after the write completes.
			time.Sleep(100 * time.Millisecond)

			if err := c.Reload(); err != nil {
				slog.Warn("catalog reload failed, keeping previous rules", "error", err)
				continue
			}
			slog.Info("catalog reloaded", "file", target)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("catalog watcher error", "error", err)
		}
	}
}
