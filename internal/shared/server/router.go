package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"cardify-backend/internal/cards"
	"cardify-backend/internal/services/health"
	"cardify-backend/internal/shared/config"
	"cardify-backend/internal/shared/server/middleware"
	"cardify-backend/internal/shared/server/respond"
	"cardify-backend/internal/users"
)

// RouterDeps carries the handlers the router wires up.
type RouterDeps struct {
	Config       config.Config
	CardsHandler *cards.Handler
	UsersHandler *users.Handler
	HealthSvc    *health.Service
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
		middleware.RateLimit(middleware.RateLimitConfig{
			GroupFor: func(c *gin.Context) string {
				if c.Request.Method == http.MethodPost && c.FullPath() == "/api/v1/generate-card" {
					return "GENERATE"
				}
				return ""
			},
			Rules: map[string]middleware.RateLimitRule{
				// Generation fans out to two AI providers; keep it slow.
				"GENERATE": {Rate: 0.2, Burst: 3},
			},
		}),
	)

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, deps.HealthSvc.Status())
	})
	if deps.CardsHandler != nil {
		deps.CardsHandler.RegisterRoutes(api)
	}
	if deps.UsersHandler != nil {
		deps.UsersHandler.RegisterRoutes(api)
	}

	return r
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
