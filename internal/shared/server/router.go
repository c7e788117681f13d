package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yugant99/TaylorAI/internal/shared/config"
	"github.com/yugant99/TaylorAI/internal/shared/metrics"
	"github.com/yugant99/TaylorAI/internal/shared/server/middleware"
)

// RouteRegistrar mounts a feature's routes on the API group.
type RouteRegistrar interface {
	Register(rg *gin.RouterGroup)
}

// RegistrarFunc adapts a function to the RouteRegistrar interface.
type RegistrarFunc func(rg *gin.RouterGroup)

func (f RegistrarFunc) Register(rg *gin.RouterGroup) { f(rg) }

// NewRouter assembles the gin engine with the standard middleware chain
// and mounts every registrar under /api/v1.
func NewRouter(cfg config.Config, reg *metrics.Registry, generateRoutes RouteRegistrar, registrars ...RouteRegistrar) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(cfg.CORSAllowOrigin),
		middleware.Auth(cfg.Env),
	)

	api := r.Group("/api/v1")

	api.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if reg != nil {
		api.GET("/metrics", reg.Handler())
	}

	for _, registrar := range registrars {
		if registrar != nil {
			registrar.Register(api)
		}
	}

	// Generation fans out to the completion API; keep a tighter lid on it.
	if generateRoutes != nil {
		limited := api.Group("")
		limited.Use(middleware.RateLimit(10, time.Minute))
		generateRoutes.Register(limited)
	}

	return r
}
