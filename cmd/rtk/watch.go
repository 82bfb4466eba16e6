package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	flag "github.com/spf13/pflag"

	"github.com/fsnotify/fsnotify"
	"github.com/heAdz0r/rtk/internal/errors"
	"github.com/heAdz0r/rtk/internal/ui"
	"github.com/heAdz0r/rtk/pkg/memory"
	"github.com/heAdz0r/rtk/pkg/store"
	"github.com/heAdz0r/rtk/pkg/watch"
)

// runWatch watches the project tree and rebuilds the memory index on
// change, printing a one-line summary per rebuild (spec.md §4.9).
func runWatch(args []string, globals GlobalFlags) {
	fs := flag.NewFlagSet("watch", flag.ExitOnError)
	_ = fs.Parse(args)

	root, err := projectRoot()
	if err != nil {
		errors.FatalError(errors.NewInternalError("cannot resolve project root", err.Error(), "", err), globals.jsonOutput())
	}
	projectID := memory.ProjectID(root)

	dbPath, err := memoryDBPath()
	if err != nil {
		errors.FatalError(errors.NewInternalError("cannot resolve cache directory", err.Error(), "", err), globals.jsonOutput())
	}
	st, err := store.Open(dbPath)
	if err != nil {
		errors.FatalError(errors.NewDatabaseError("cannot open memory store", err.Error(), "check disk permissions", err), globals.jsonOutput())
	}
	defer st.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	ui.Header("watching " + root + " (ctrl-c to stop)")

	rebuild := func() {
		_, status, _, err := loadOrScan(st, root, projectID, false, globals.Fast)
		if err != nil {
			ui.Errorf("rebuild failed: %v", err)
			return
		}
		ui.Successf("index rebuilt (%s)", status)
	}

	rebuild()

	err = watch.Loop(ctx, watch.Options{
		Root:           root,
		OnDebounceFire: rebuild,
		OnError:        func(err error) { ui.Errorf("watch error: %v", err) },
		OnEvent:        func(fsnotify.Event) {},
	})
	if err != nil && ctx.Err() == nil {
		errors.FatalError(errors.NewInternalError("watch loop failed", err.Error(), "", err), globals.jsonOutput())
	}
}
