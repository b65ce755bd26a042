package server

import (
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"quickai-backend/internal/ai"
	googleauth "quickai-backend/internal/auth"
	"quickai-backend/internal/creations"
	"quickai-backend/internal/credits"
	"quickai-backend/internal/shared/config"
	"quickai-backend/internal/shared/metrics"
	"quickai-backend/internal/shared/server/middleware"
	"quickai-backend/internal/shared/server/respond"
	"quickai-backend/internal/shared/storage/object"
	"quickai-backend/internal/users"
)

// RouterDeps carries the handlers and services the router wires together.
type RouterDeps struct {
	Config           config.Config
	AIHandler        *ai.Handler
	CreationsHandler *creations.Handler
	GoogleAuth       *googleauth.GoogleService
	UsersService     *users.Service
	CreditsService   *credits.Service
	Store            object.ObjectStore
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
		middleware.Auth(deps.Config.Env),
		middleware.RateLimit(middleware.RateLimitConfig{
			Rules: map[string]middleware.RateLimitRule{
				"AI":      {Rate: 1, Burst: 5},
				"DEFAULT": {Rate: 10, Burst: 20},
			},
			GroupFor: func(c *gin.Context) string {
				if strings.HasPrefix(c.Request.URL.Path, "/api/v1/ai/") {
					return "AI"
				}
				return "DEFAULT"
			},
		}),
	)

	r.GET("/metrics", metrics.Handler())
	registerFileRoutes(r, deps.Store)

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})

	if deps.GoogleAuth != nil {
		deps.GoogleAuth.RegisterRoutes(api)
	}
	registerMeRoutes(api)
	registerCreditRoutes(api, deps.UsersService, deps.CreditsService)
	if deps.CreationsHandler != nil {
		deps.CreationsHandler.RegisterRoutes(api)
	}
	if deps.AIHandler != nil {
		gated := api.Group("")
		gated.Use(middleware.Entitlement(deps.UsersService, deps.CreditsService))
		deps.AIHandler.RegisterRoutes(gated)
	}

	return r
}

// registerFileRoutes serves stored objects (generated images) publicly.
func registerFileRoutes(r *gin.Engine, store object.ObjectStore) {
	if store == nil {
		return
	}
	r.GET("/files/*key", func(c *gin.Context) {
		key := strings.TrimPrefix(c.Param("key"), "/")
		if key == "" || strings.Contains(key, "..") {
			respond.Failure(c, http.StatusBadRequest, "invalid file key")
			return
		}
		body, err := store.Open(c.Request.Context(), key)
		if err != nil {
			respond.Failure(c, http.StatusNotFound, "file not found")
			return
		}
		defer body.Close()

		c.Status(http.StatusOK)
		c.Header("Cache-Control", "public, max-age=86400")
		if _, err := io.Copy(c.Writer, body); err != nil {
			// Headers already written; nothing to recover.
			return
		}
	})
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
