package site

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long Watch waits after the last change before
// rebuilding.
const DefaultDebounce = 300 * time.Millisecond

// Watch rebuilds the site whenever a file in the recipe or client
// directory changes, until ctx is cancelled. Bursts of events within
// debounce are collapsed into one build. onBuild receives the result of
// every rebuild; a failed build does not stop watching.
func (b *Builder) Watch(ctx context.Context, opts Options, debounce time.Duration, onBuild func(*Report, error)) error {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating file watcher: %w", err)
	}
	defer watcher.Close()

	watched := 0
	for _, dir := range []string{opts.RecipeDir, opts.ClientDir} {
		if dir == "" {
			continue
		}
		if _, err := os.Stat(dir); err != nil {
			b.log.Warn("not watching %s: %v", dir, err)
			continue
		}
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("watching %s: %w", dir, err)
		}
		b.log.Debug("watching %s", dir)
		watched++
	}
	if watched == 0 {
		return fmt.Errorf("nothing to watch: neither %s nor %s exists", opts.RecipeDir, opts.ClientDir)
	}

	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op == fsnotify.Chmod || strings.HasPrefix(filepath.Base(event.Name), ".") {
				continue
			}
			b.log.Debug("change: %s %s", event.Op, event.Name)
			pending = time.After(debounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			b.log.Warn("watch error: %v", err)

		case <-pending:
			pending = nil
			report, err := b.Build(ctx, opts)
			if err != nil {
				b.log.Error("rebuild failed: %v", err)
			}
			if onBuild != nil {
				onBuild(report, err)
			}
		}
	}
}
