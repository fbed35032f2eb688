package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"prompt_badges/internal/badges"

	"github.com/gin-gonic/gin"
	redis "github.com/redis/go-redis/v9"
)

// Pinger is satisfied by *pgxpool.Pool; use RedisPinger for redis.
type Pinger interface {
	Ping(ctx context.Context) error
}

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

// RedisPinger adapts a redis client. A nil client gives a nil Pinger,
// which readiness reports as disabled.
func RedisPinger(c *redis.Client) Pinger {
	if c == nil {
		return nil
	}
	return pingFunc(func(ctx context.Context) error { return c.Ping(ctx).Err() })
}

// HealthHandler serves liveness and readiness probes.
type HealthHandler struct {
	db        Pinger
	redis     Pinger
	catalog   *badges.Catalog
	startTime time.Time
	version   string
}

// NewHealthHandler takes the database (required), redis (optional, may be
// nil) and the loaded badge catalog.
func NewHealthHandler(db, redisPinger Pinger, catalog *badges.Catalog, version string) *HealthHandler {
	return &HealthHandler{
		db:        db,
		redis:     redisPinger,
		catalog:   catalog,
		startTime: time.Now(),
		version:   version,
	}
}

// HealthResponse is the readiness body. Status is "healthy", "degraded"
// (optional dependency down) or "unhealthy".
type HealthResponse struct {
	Status    string            `json:"status"`
	Version   string            `json:"version,omitempty"`
	Uptime    string            `json:"uptime,omitempty"`
	Timestamp string            `json:"timestamp"`
	Checks    map[string]string `json:"checks"`
}

// Liveness only says the process is serving.
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Readiness fails only when the database is unreachable or the catalog is
// empty. Redis is optional: rate limits fail open and cached leaderboards
// expire by TTL without it, so a redis outage only degrades.
func (h *HealthHandler) Readiness(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	checks := make(map[string]string)
	status := "healthy"

	if err := h.db.Ping(ctx); err != nil {
		checks["database"] = "unhealthy: " + err.Error()
		status = "unhealthy"
	} else {
		checks["database"] = "healthy"
	}

	switch {
	case h.redis == nil:
		checks["redis"] = "disabled"
	case h.redis.Ping(ctx) != nil:
		checks["redis"] = "unreachable"
		if status == "healthy" {
			status = "degraded"
		}
	default:
		checks["redis"] = "healthy"
	}

	if h.catalog == nil || h.catalog.Len() == 0 {
		checks["badge_catalog"] = "empty"
		status = "unhealthy"
	} else {
		checks["badge_catalog"] = fmt.Sprintf("%d badges, %d time based", h.catalog.Len(), len(h.catalog.TimeBased()))
	}

	code := http.StatusOK
	if status == "unhealthy" {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, HealthResponse{
		Status:    status,
		Version:   h.version,
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    checks,
	})
}

// Health is the quick check used by load balancers: database only.
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "error": "database unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "version": h.version})
}
