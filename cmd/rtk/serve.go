package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/heAdz0r/rtk/internal/errors"
	"github.com/heAdz0r/rtk/internal/ui"
	"github.com/heAdz0r/rtk/pkg/api"
	"github.com/heAdz0r/rtk/pkg/layers"
	"github.com/heAdz0r/rtk/pkg/memory"
	"github.com/heAdz0r/rtk/pkg/store"
)

type memoryRequest struct {
	Detail    string `json:"detail"`
	QueryType string `json:"query_type"`
	Refresh   bool   `json:"refresh"`
}

// runServe starts the localhost JSON API, exposing the memory commands as
// HTTP endpoints for editor/IDE integrations (spec.md §4.15).
func runServe(args []string, globals GlobalFlags) {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	addr := fs.String("addr", "127.0.0.1:8743", "Listen address (use 127.0.0.1:0 for an ephemeral port)")
	idleTimeout := fs.Duration("idle-timeout", 10*time.Minute, "Shut down after this much idle time")
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

	handlers := map[string]api.Handler{
		"/memory/status":  memoryHandler("status", st, root, projectID, globals),
		"/memory/explore": memoryHandler("explore", st, root, projectID, globals),
		"/memory/delta":   memoryHandler("delta", st, root, projectID, globals),
	}

	srv := api.New(api.Config{Addr: *addr, IdleTimeout: *idleTimeout, Logger: slog.Default()}, handlers)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	ui.Header("serving on " + *addr)
	if err := srv.Run(ctx); err != nil && ctx.Err() == nil {
		errors.FatalError(errors.NewNetworkError("server failed", err.Error(), "check the listen address is free", err), globals.jsonOutput())
	}
}

func memoryHandler(command string, st *store.Store, root, projectID string, globals GlobalFlags) api.Handler {
	return func(ctx context.Context, body []byte) (any, error) {
		var req memoryRequest
		if len(body) > 0 {
			if err := json.Unmarshal(body, &req); err != nil {
				return nil, err
			}
		}
		if req.Detail == "" {
			req.Detail = "normal"
		}
		if req.QueryType == "" {
			req.QueryType = "general"
		}

		result, cacheStatus, freshness, err := loadOrScan(st, root, projectID, req.Refresh, globals.Fast)
		if err != nil {
			return nil, err
		}

		flags := layers.FlagsFor(layers.QueryType(req.QueryType))
		limits := layers.LimitsFor(layers.DetailLevel(req.Detail))
		lctx := buildContext(command, root, projectID, cacheStatus, freshness, result, flags, limits)
		if command == "delta" {
			lctx.Changes = layers.ChangeDigest(&result.Delta, limits.Changes)
		}
		return lctx, nil
	}
}
