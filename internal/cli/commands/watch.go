package commands

import (
	"context"
	"fmt"
	"maps"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const watchDebounce = 150 * time.Millisecond

// watchBuild builds once and then rebuilds whenever a watched input changes.
// Build errors are reported and the watch continues.
func watchBuild(ctx context.Context, c *CommandContext, dryRun bool) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	r := c.Renderer
	var mu sync.Mutex
	rebuild := func() {
		mu.Lock()
		defer mu.Unlock()
		summary, err := build(ctx, c, dryRun)
		if err != nil {
			r.Error(err.Error())
			return
		}
		if err := renderBuildSummary(r, summary); err != nil {
			r.Error(err.Error())
		}
	}

	rebuild()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	// Directories are watched so editors that replace files are still seen.
	inputs := watchedInputs(c)
	dirs := make(map[string]bool)
	for file := range inputs {
		dir := filepath.Dir(file)
		if dirs[dir] {
			continue
		}
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
		dirs[dir] = true
	}

	r.Muted("Watching for changes in:")
	for _, file := range slices.Sorted(maps.Keys(inputs)) {
		r.Muted("  - " + file)
	}
	r.Muted("Press Ctrl+C to stop")

	var debounceTimer *time.Timer
	for {
		select {
		case <-ctx.Done():
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if !inputs[filepath.Clean(event.Name)] {
				continue
			}

			c.Logger.Debug("change detected", "file", event.Name, "op", event.Op.String())
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(watchDebounce, rebuild)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			c.Logger.Warn("watcher error", "error", err)
		}
	}
}

// watchedInputs returns the files a build reads.
func watchedInputs(c *CommandContext) map[string]bool {
	inputs := map[string]bool{filepath.Clean(c.Cfg.Content): true}
	if c.Cfg.Hook != "" {
		inputs[filepath.Clean(c.Cfg.Hook)] = true
	} else {
		inputs[filepath.Clean(c.Cfg.Answers)] = true
	}
	return inputs
}
