package commands

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounceDelay coalesces bursts of file events into one re-run.
const debounceDelay = 250 * time.Millisecond

// ignoredDirs hold build output and installed packages.
var ignoredDirs = map[string]bool{
	"node_modules": true,
	".git":         true,
	"lib":          true,
	"dist":         true,
	"temp":         true,
	"release":      true,
	".heft":        true,
}

// watchProject runs fn once and again after every change under root, until
// ctx is canceled. Failures of a run are reported and watching continues.
func watchProject(ctx context.Context, cmdCtx *CommandContext, root string, fn func(context.Context) error) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("start watcher: %w", err)
	}
	defer watcher.Close()

	if err := addWatchDirs(watcher, root); err != nil {
		return err
	}

	r := cmdCtx.Renderer
	outputFile := cmdCtx.outputPath()
	runOnce := func() {
		if err := fn(ctx); err != nil {
			_, _ = fmt.Fprintf(r.ErrWriter(), "%s\n", r.Styles().Error.Render("Error: "+err.Error()))
		}
		r.Warning("Watching " + root + " for changes (Ctrl+C to stop)")
	}

	runOnce()

	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !relevantEvent(ev, root, outputFile) {
				continue
			}
			if ev.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					_ = addWatchDirs(watcher, ev.Name)
				}
			}
			cmdCtx.Logger.Debug("file changed", "path", ev.Name, "op", ev.Op.String())
			fire = time.After(debounceDelay)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			cmdCtx.Logger.Warn("watch error", "error", err)

		case <-fire:
			fire = nil
			runOnce()
		}
	}
}

// addWatchDirs watches dir and its subdirectories, skipping ignored ones.
func addWatchDirs(watcher *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != dir && ignoredDirs[d.Name()] {
			return filepath.SkipDir
		}
		if err := watcher.Add(path); err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
		return nil
	})
}

// relevantEvent reports whether ev should trigger a re-run.
func relevantEvent(ev fsnotify.Event, root, outputFile string) bool {
	if ev.Op == fsnotify.Chmod {
		return false
	}
	name := filepath.Clean(ev.Name)
	if outputFile != "" && name == outputFile {
		return false
	}
	rel, err := filepath.Rel(root, name)
	if err != nil {
		return false
	}
	for _, part := range strings.Split(filepath.ToSlash(rel), "/") {
		if ignoredDirs[part] {
			return false
		}
	}
	return true
}
