// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/Sathishnaik786/yvi-chat-assistant/internal/config"
	"github.com/Sathishnaik786/yvi-chat-assistant/internal/server"
)

// HandleServe runs the answer backend until interrupted.
func HandleServe(args Args, cfg *config.Config) int {
	// Config loading always fills the path; we just have to make sure
	// the directory exists before sqlite opens the file.
	logDB := cfg.Server.LogDBPath
	if err := os.MkdirAll(filepath.Dir(logDB), 0o755); err != nil {
		return fail("create data directory: %v", err)
	}

	srv, err := server.New(server.Options{
		Port:          cfg.Server.Port,
		KnowledgePath: cfg.Server.KnowledgePath,
		LogDBPath:     logDB,
		RatePerSec:    cfg.Server.RateLimitPerSec,
	})
	if err != nil {
		return fail("start server: %v", err)
	}

	if !args.Quiet {
		fmt.Printf("%s listening on http://127.0.0.1:%d\n",
			okStyle.Render("✓"), srv.Port())
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fail("server: %v", err)
		}
	case <-sigCh:
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			return fail("shutdown: %v", err)
		}
		if !args.Quiet {
			fmt.Println(dimStyle.Render("server stopped"))
		}
	}
	return 0
}
