package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"time"

	gfshutdown "github.com/gelmium/graceful-shutdown"

	"github.com/personalhub/hub/internal/app"
	"github.com/personalhub/hub/internal/config"
	"github.com/personalhub/hub/internal/logger"
	"github.com/personalhub/hub/internal/routes"
)

const shutdownTimeout = 30 * time.Second

func main() {
	cfg := config.Load()

	logger.Init(cfg.IsDevelopment(), cfg.SentryDSN, cfg.AppName)

	app, err := app.New(context.Background(), cfg)
	if err != nil {
		slog.Error("failed to initialize app", "error", err)
		logger.Flush()
		os.Exit(1)
	}

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           routes.SetupRoutes(app),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		slog.Info("server starting", "port", cfg.Port, "env", cfg.AppEnv, "url", "http://localhost:"+cfg.Port)
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", "error", err)
			logger.Flush()
			os.Exit(1)
		}
	}()

	// The server drains before the database closes, so both live in one operation.
	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		shutdownTimeout,
		map[string]gfshutdown.Operation{
			"http-server": func(ctx context.Context) error {
				slog.Info("graceful shutdown initiated")
				shutdownErr := server.Shutdown(ctx)
				closeErr := app.Close()
				return errors.Join(shutdownErr, closeErr)
			},
		},
	)

	exitCode := <-wait
	slog.Info("server stopped", "exit_code", exitCode)
	logger.Flush()
	os.Exit(exitCode)
}
