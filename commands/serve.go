// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package commands

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/danielhkuo/toasty-votes/events"
	"github.com/danielhkuo/toasty-votes/identity"
	"github.com/danielhkuo/toasty-votes/router"
	"github.com/danielhkuo/toasty-votes/telemetry"
	"github.com/danielhkuo/toasty-votes/voting"
)

var serveCmd = &cobra.Command{
	Use:                "serve [flags]",
	Short:              "Run the HTTP API server",
	DisableFlagParsing: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(args)
		if err != nil {
			return err
		}
		if err := cfg.RequireTokenSecret(); err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		shutdownTracing, err := telemetry.Init(ctx, cfg.OTLPEndpoint)
		if err != nil {
			return err
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdownTracing(shutdownCtx); err != nil {
				slog.Error("shutdown tracing", "error", err)
			}
		}()

		database, closeDB, err := openDatabase(ctx, cfg)
		if err != nil {
			return err
		}
		defer closeDB()
		slog.Info("Database schema ready", "type", cfg.DatabaseType)

		publisher, err := events.Connect(cfg.NATSURL)
		if err != nil {
			return err
		}
		defer publisher.Close()

		logger := slog.Default()
		votingSvc := voting.NewService(database, voting.Options{
			TTL:          cfg.SessionTTL,
			DefaultTitle: cfg.DefaultSessionTitle,
			Logger:       logger,
			Events:       publisher,
		})
		identitySvc := identity.NewService(database, cfg.TokenSecret, logger)

		server := &http.Server{
			Handler:           router.NewRouter(cfg, votingSvc, identitySvc),
			Addr:              ":" + strconv.Itoa(cfg.Port),
			ReadHeaderTimeout: 10 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			slog.Info("Listening", "port", cfg.Port)
			errCh <- server.ListenAndServe()
		}()

		select {
		case err := <-errCh:
			if !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		case <-ctx.Done():
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown server", "error", err)
		}
		slog.Info("Server closed")
		return nil
	},
}
