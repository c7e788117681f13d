package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/yugant99/TaylorAI/internal/bootstrap"
	"github.com/yugant99/TaylorAI/internal/shared/config"
	"github.com/yugant99/TaylorAI/internal/shared/telemetry"
)

func main() {
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.Build(ctx, cfg)
	if err != nil {
		telemetry.Error("startup.failed", map[string]any{"error": err.Error()})
		os.Exit(1)
	}
	defer app.Close()

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           app.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		telemetry.Info("startup.listening", map[string]any{"port": cfg.Port, "env": cfg.Env})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			telemetry.Error("server.failed", map[string]any{"error": err.Error()})
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		telemetry.Error("shutdown.failed", map[string]any{"error": err.Error()})
	}
	telemetry.Info("shutdown.complete", nil)
}
