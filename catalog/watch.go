package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch reloads the catalog whenever its backing file changes and
// invokes onChange after each successful reload (typically to trigger
// an index rebuild). It blocks until ctx is cancelled.
//
// The parent directory is watched rather than the file itself, since
// editors commonly replace files on save.
func (c *Catalog) Watch(ctx context.Context, logger *slog.Logger, onChange func()) error {
	if c.path == "" {
		return fmt.Errorf("%w: catalog not loaded from a file", ErrInvalidCatalog)
	}
	if logger == nil {
		logger = slog.Default()
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(c.path)); err != nil {
		return fmt.Errorf("watch catalog dir: %w", err)
	}

	target, err := filepath.Abs(c.path)
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			name, err := filepath.Abs(event.Name)
			if err != nil || name != target {
				continue
			}
			if !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) {
				continue
			}
			if err := c.Reload(); err != nil {
				logger.Warn("catalog reload failed, keeping previous content", "error", err)
				continue
			}
			logger.Info("catalog reloaded", "path", c.path)
			if onChange != nil {
				onChange()
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("catalog watcher error", "error", err)
		}
	}
}
