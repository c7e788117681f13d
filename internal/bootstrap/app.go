package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/yugant99/TaylorAI/internal/auth"
	"github.com/yugant99/TaylorAI/internal/extract"
	"github.com/yugant99/TaylorAI/internal/jobs"
	"github.com/yugant99/TaylorAI/internal/letters"
	"github.com/yugant99/TaylorAI/internal/llm"
	"github.com/yugant99/TaylorAI/internal/llm/openrouter"
	"github.com/yugant99/TaylorAI/internal/profiles"
	"github.com/yugant99/TaylorAI/internal/shared/config"
	"github.com/yugant99/TaylorAI/internal/shared/metrics"
	"github.com/yugant99/TaylorAI/internal/shared/server"
	"github.com/yugant99/TaylorAI/internal/shared/storage/db"
	"github.com/yugant99/TaylorAI/internal/shared/storage/object"
	"github.com/yugant99/TaylorAI/internal/shared/storage/object/local"
	s3store "github.com/yugant99/TaylorAI/internal/shared/storage/object/s3"
	"github.com/yugant99/TaylorAI/internal/shared/telemetry"
	"github.com/yugant99/TaylorAI/internal/users"
)

// App is the assembled service.
type App struct {
	Router *gin.Engine
	DB     *sql.DB
}

// Close releases held resources.
func (a *App) Close() {
	if a.DB != nil {
		a.DB.Close()
	}
}

// Build wires repositories, services, and handlers from configuration.
// With no DATABASE_URL everything runs on in-memory repos.
func Build(ctx context.Context, cfg config.Config) (*App, error) {
	app := &App{}

	var (
		profileRepo profiles.Repo
		jobsRepo    jobs.Repo
		lettersRepo letters.Repo
		usersRepo   users.Repo
	)

	if cfg.DatabaseURL != "" {
		conn, err := db.Connect(ctx, cfg.DatabaseURL, db.DefaultOptions())
		if err != nil {
			return nil, fmt.Errorf("bootstrap: %w", err)
		}
		if err := db.Migrate(conn); err != nil {
			conn.Close()
			return nil, fmt.Errorf("bootstrap: %w", err)
		}
		app.DB = conn
		profileRepo = profiles.NewPGRepo(conn)
		jobsRepo = jobs.NewPGRepo(conn)
		lettersRepo = letters.NewPGRepo(conn)
		usersRepo = users.NewPGRepo(conn)
	} else {
		telemetry.Warn("bootstrap.memory_repos", map[string]any{
			"reason": "DATABASE_URL not set, data will not survive restarts",
		})
		profileRepo = profiles.NewMemoryRepo()
		jobsRepo = jobs.NewMemoryRepo()
		lettersRepo = letters.NewMemoryRepo()
		usersRepo = users.NewMemoryRepo()
	}

	var store object.Store
	var err error
	if cfg.ObjectStoreType == "s3" {
		store, err = s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	} else {
		store, err = local.New(cfg.LocalStoreDir, "")
	}
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("bootstrap: %w", err)
	}

	client := buildLLMClient(cfg)
	reg := metrics.Default()

	extractor := extract.New()
	profileSvc := profiles.NewService(profileRepo, store, extractor, cfg.SignedURLTTL)
	letterSvc := letters.NewService(lettersRepo, client, cfg.GenerateLimit, cfg.LLMTimeout, reg)

	profileHandler := profiles.NewHandler(profileSvc, reg)
	jobsHandler := jobs.NewHandler(jobsRepo)
	lettersHandler := letters.NewHandler(letterSvc, jobsRepo, profileSvc)
	usersHandler := users.NewHandler(usersRepo)
	extractHandler := extract.NewHandler(store, extractor, reg)

	registrars := []server.RouteRegistrar{
		profileHandler,
		jobsHandler,
		lettersHandler,
		usersHandler,
		extractHandler,
	}

	if google, err := auth.NewGoogleService(
		cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURL,
		cfg.UIRedirectURL, usersRepo,
	); err == nil {
		registrars = append(registrars, google)
	} else {
		telemetry.Warn("bootstrap.google_auth_disabled", map[string]any{"reason": err.Error()})
	}

	app.Router = server.NewRouter(cfg, reg,
		server.RegistrarFunc(lettersHandler.RegisterGenerate),
		registrars...)
	return app, nil
}

// buildLLMClient returns nil when no provider is usable; the letter service
// turns a nil client into a configuration error before any per-job work.
func buildLLMClient(cfg config.Config) llm.Client {
	apiKey := os.Getenv("OPENROUTER_API_KEY")
	if cfg.LLMProvider != "openrouter" || apiKey == "" {
		telemetry.Warn("bootstrap.llm_unconfigured", map[string]any{
			"provider": cfg.LLMProvider,
			"reason":   "missing OPENROUTER_API_KEY or unknown provider",
		})
		return nil
	}

	client, err := openrouter.New(apiKey, cfg.LLMModel, openrouter.WithTimeout(cfg.LLMTimeout))
	if err != nil {
		telemetry.Warn("bootstrap.llm_unconfigured", map[string]any{"reason": err.Error()})
		return nil
	}
	return client
}
