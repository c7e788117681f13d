package main

import (
	"context"
	"os"

	"github.com/yugant99/TaylorAI/internal/shared/config"
	"github.com/yugant99/TaylorAI/internal/shared/storage/db"
	"github.com/yugant99/TaylorAI/internal/shared/telemetry"
)

func main() {
	cfg := config.Load()
	if cfg.DatabaseURL == "" {
		telemetry.Error("migrate.failed", map[string]any{"error": "DATABASE_URL is required"})
		os.Exit(1)
	}

	ctx := context.Background()
	conn, err := db.Connect(ctx, cfg.DatabaseURL, db.DefaultOptions())
	if err != nil {
		telemetry.Error("migrate.failed", map[string]any{"error": err.Error()})
		os.Exit(1)
	}
	defer conn.Close()

	if err := db.Migrate(conn); err != nil {
		telemetry.Error("migrate.failed", map[string]any{"error": err.Error()})
		os.Exit(1)
	}

	telemetry.Info("migrate.complete", nil)
}
