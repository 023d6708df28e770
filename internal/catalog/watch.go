package catalog

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch reloads the catalog whenever its file is written or recreated. It
// blocks until ctx is done. The parent directory is watched so editors that
// replace the file atomically are picked up too.
func (c *Catalog) Watch(ctx context.Context) error {
	if c.path == "" {
		return errNoPath
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("catalog: watcher: %w", err)
	}
	defer fsw.Close()

	dir := filepath.Dir(c.path)
	if err := fsw.Add(dir); err != nil {
		return fmt.Errorf("catalog: watch %s: %w", dir, err)
	}
	target := filepath.Clean(c.path)
	c.logger.Printf("catalog: watching %s", target)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if err := c.Reload(); err != nil {
				c.logger.Printf("catalog: reload failed: %v", err)
				continue
			}
			c.logger.Printf("catalog: reloaded %d items", c.Len())

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			c.logger.Printf("catalog: watcher error: %v", err)
		}
	}
}
