// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Pixelhaven Contributors

package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/pixelhaven/pixelhaven/internal/admin"
	"github.com/pixelhaven/pixelhaven/internal/auth"
	authpg "github.com/pixelhaven/pixelhaven/internal/auth/postgres"
	"github.com/pixelhaven/pixelhaven/internal/config"
	"github.com/pixelhaven/pixelhaven/internal/friends"
	friendspg "github.com/pixelhaven/pixelhaven/internal/friends/postgres"
	"github.com/pixelhaven/pixelhaven/internal/group"
	grouppg "github.com/pixelhaven/pixelhaven/internal/group/postgres"
	"github.com/pixelhaven/pixelhaven/internal/httpapi"
	identitypg "github.com/pixelhaven/pixelhaven/internal/identity/postgres"
	"github.com/pixelhaven/pixelhaven/internal/inventory"
	inventorypg "github.com/pixelhaven/pixelhaven/internal/inventory/postgres"
	"github.com/pixelhaven/pixelhaven/internal/logging"
	"github.com/pixelhaven/pixelhaven/internal/observability"
	"github.com/pixelhaven/pixelhaven/internal/store"
)

// shutdownTimeout bounds how long a graceful stop may take.
const shutdownTimeout = 5 * time.Second

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		Long:  `Start the HTTP API server and the metrics/health endpoint.`,
		RunE:  runServe,
	}

	// Flag names follow the config key paths so flags overlay file values.
	// Defaults mirror config.Default; file values still win over unset flags.
	def := config.Default()
	cmd.Flags().String("server.addr", def.Server.Addr, "HTTP listen address")
	cmd.Flags().String("server.base_url", def.Server.BaseURL, "public base URL used in rendered links")
	cmd.Flags().String("database.url", "", "PostgreSQL connection URL")
	cmd.Flags().String("observability.addr", def.Observability.Addr, "metrics/health HTTP address (empty = disabled)")
	cmd.Flags().String("log.format", def.Log.Format, "log format (json or text)")
	cmd.Flags().String("log.level", def.Log.Level, "log level (debug, info, warn, error)")

	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configFile, cmd.Flags())
	if err != nil {
		return err
	}

	logging.SetDefault("pixelhaven", version, cfg.Log.Format, logging.ParseLevel(cfg.Log.Level))

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	pool, err := store.Connect(ctx, cfg.Database.URL)
	if err != nil {
		return err
	}
	defer pool.Close()

	slog.Info("connected to database")

	users := identitypg.NewUserRepository(pool)
	staff := identitypg.NewStaffRepository(pool)
	sessions := authpg.NewSessionRepository(pool)
	hasher := auth.NewArgon2idHasher()

	authSvc := auth.NewService(users, staff, sessions, hasher)
	groupSvc := group.NewService(grouppg.NewRepository(pool))
	inventorySvc := inventory.NewService(inventorypg.NewRepository(pool), users)
	friendsSvc := friends.NewService(friendspg.NewRepository(pool), users)
	adminSvc := admin.NewService(users, staff, inventorySvc, hasher)

	var metrics *observability.Metrics
	var obsServer *observability.Server
	if cfg.Observability.Addr != "" {
		obsServer = observability.NewServer(cfg.Observability.Addr, func() bool {
			return pool.Ping(ctx) == nil
		})
		metrics = obsServer.Metrics()

		obsErrChan, err := obsServer.Start()
		if err != nil {
			return err
		}
		go monitorServerErrors(ctx, cancel, obsErrChan, "observability")
		slog.Info("observability server started", "addr", obsServer.Addr())
	}

	handlers := httpapi.NewHandlers(httpapi.Deps{
		Log:       slog.Default(),
		Metrics:   metrics,
		BaseURL:   cfg.Server.BaseURL,
		Auth:      authSvc,
		Users:     users,
		Staff:     staff,
		Groups:    groupSvc,
		Inventory: inventorySvc,
		Friends:   friendsSvc,
		Admin:     adminSvc,
	})

	server := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           handlers.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	errChan := make(chan error, 1)
	go func() {
		if serveErr := server.ListenAndServe(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			errChan <- serveErr
		}
	}()

	cmd.Println("API server started")
	slog.Info("api server ready", "addr", cfg.Server.Addr)

	select {
	case sig := <-sigChan:
		slog.Info("received shutdown signal", "signal", sig)
	case err := <-errChan:
		return oops.Code("SERVER_FAILED").Wrap(err)
	case <-ctx.Done():
		slog.Info("context cancelled, shutting down")
	}

	slog.Info("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Warn("error stopping api server", "error", err)
	}
	if obsServer != nil {
		if err := obsServer.Stop(shutdownCtx); err != nil {
			slog.Warn("error stopping observability server", "error", err)
		}
	}

	slog.Info("shutdown complete")
	return nil
}

// monitorServerErrors cancels the run context when a background server
// reports a fatal error.
func monitorServerErrors(ctx context.Context, cancel context.CancelFunc, errChan <-chan error, name string) {
	select {
	case err, ok := <-errChan:
		if ok && err != nil {
			slog.Error("server error", "server", name, "error", err)
			cancel()
		}
	case <-ctx.Done():
	}
}
