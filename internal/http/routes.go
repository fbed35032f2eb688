package http

import (
	"prompt_badges/internal/config"
	"prompt_badges/internal/http/handlers"
	"prompt_badges/internal/http/middleware"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	redis "github.com/redis/go-redis/v9"
)

// Deps carries everything the routes need. Redis may be nil.
type Deps struct {
	Handler *handlers.Handler
	Health  *handlers.HealthHandler
	Tokens  middleware.TokenParser
	Redis   *redis.Client
	Config  *config.Config
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	cfg := d.Config
	h := d.Handler

	r.Use(middleware.RequestID())

	// Health checks and metrics (no rate limiting)
	r.GET("/health", d.Health.Health)
	r.GET("/healthz", d.Health.Liveness)
	r.GET("/readyz", d.Health.Readiness)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := r.Group("/api/v1")
	v1.Use(middleware.RedisRateLimit(d.Redis, cfg.APIRateLimit, cfg.APIRateWindow))

	auth := middleware.JWT(d.Tokens)
	checkRL := middleware.UserRateLimit(d.Redis, "badge_check", cfg.CheckRateLimit, cfg.CheckRateWindow)

	// Catalog and public profiles
	v1.GET("/badges", h.GetCatalog)
	v1.GET("/users/:id/badges", h.GetUserBadges)
	v1.GET("/users/:id/badges/progress", h.GetUserBadgeProgress)

	// Caller
	me := v1.Group("/me", auth)
	{
		me.GET("/badges", h.MyBadges)
		me.POST("/badges/check", checkRL, h.CheckMyBadges)
		me.GET("/rank", h.GetMyRank)
	}

	// Leaderboard
	v1.GET("/leaderboard", h.GetLeaderboard)
	v1.GET("/leaderboard/users/:id/rank", h.GetUserRank)

	// Triggers from other backend services
	if cfg.ServiceToken != "" {
		internal := v1.Group("/internal", middleware.ServiceToken(cfg.ServiceToken))
		{
			internal.POST("/users/:id/stats", h.UpdateStats)
			internal.POST("/users/:id/activity", h.RecordActivity)
			internal.POST("/sweep", h.RunSweep)
		}
	}
}
