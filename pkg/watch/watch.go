// Package watch implements the debounced filesystem watch loop
// (spec component C9): recursive directory registration with exclusion
// filtering, event debounce, and cancellable shutdown.
package watch

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultSkipDirs lists directories the watcher never registers.
var DefaultSkipDirs = map[string]bool{
	".git": true, "node_modules": true, "vendor": true,
	"dist": true, "build": true, ".rtk": true, "bin": true, "target": true,
}

// Options configures a Loop.
type Options struct {
	Root     string
	Debounce time.Duration
	SkipDirs map[string]bool
	OnEvent  func(fsnotify.Event)
	OnError  func(error)
	// OnDebounceFire is invoked once after a quiet period following one or
	// more filesystem events.
	OnDebounceFire func()
}

// Loop recursively watches Root and invokes OnDebounceFire once per
// debounce window after file activity settles. It registers new
// directories as they appear so a freshly created subtree is picked up
// without restarting the loop.
func Loop(ctx context.Context, opts Options) error {
	if opts.Debounce <= 0 {
		opts.Debounce = 2 * time.Second
	}
	skip := opts.SkipDirs
	if skip == nil {
		skip = DefaultSkipDirs
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := addDirsRecursive(watcher, opts.Root, skip); err != nil {
		return err
	}

	var timerCh <-chan time.Time
	var timer *time.Timer

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if opts.OnEvent != nil {
				opts.OnEvent(event)
			}
			if event.Op&fsnotify.Create != 0 {
				if info, statErr := os.Stat(event.Name); statErr == nil && info.IsDir() {
					_ = addDirsRecursive(watcher, event.Name, skip)
				}
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.NewTimer(opts.Debounce)
			timerCh = timer.C

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			if opts.OnError != nil {
				opts.OnError(err)
			}

		case <-timerCh:
			timerCh = nil
			if opts.OnDebounceFire != nil {
				opts.OnDebounceFire()
			}
		}
	}
}

func addDirsRecursive(watcher *fsnotify.Watcher, root string, skip map[string]bool) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			if os.IsPermission(err) {
				return filepath.SkipDir
			}
			return nil
		}
		if !info.IsDir() {
			return nil
		}
		base := filepath.Base(path)
		if skip[base] || (strings.HasPrefix(base, ".") && base != "." && path != root) {
			return filepath.SkipDir
		}
		if err := watcher.Add(path); err != nil && os.IsPermission(err) {
			return filepath.SkipDir
		}
		return nil
	})
}
