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

	"github.com/spf13/cobra"

	"github.com/alecgard/apicatalog/catalog"
	"github.com/alecgard/apicatalog/internal/metrics"
	"github.com/alecgard/apicatalog/internal/ratelimit"
	"github.com/alecgard/apicatalog/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API catalog server",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel()}))
	slog.SetDefault(logger)

	catCfg, err := cfg.Catalog.Build()
	if err != nil {
		return err
	}
	cat, err := catalog.New(catCfg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var limiter *ratelimit.Limiter
	if cfg.RateLimit.Default > 0 {
		limiter = ratelimit.New(cfg.RateLimit.Default, cfg.RateLimit.Window)
		go ratelimit.RunSweeper(ctx, limiter, cfg.RateLimit.Window)
	}

	router := server.NewRouter(server.RouterDeps{
		Catalog:        cat,
		Metrics:        metrics.New(),
		Limiter:        limiter,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		Logger:         logger,
	})

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting",
			"addr", cfg.Addr(),
			"apis", len(catCfg.APIs),
			"origin", string(cfg.Catalog.Origin.Kind),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-sigCh:
	case err := <-errCh:
		slog.Error("server error", "error", err)
		return err
	}
	slog.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	return srv.Shutdown(shutdownCtx)
}
