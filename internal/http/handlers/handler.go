package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"prompt_badges/internal/badges"
	"prompt_badges/internal/domain"
	"prompt_badges/internal/logger"
	"prompt_badges/internal/service"

	"github.com/gin-gonic/gin"
)

// BadgeAPI is implemented by service.BadgeService.
type BadgeAPI interface {
	CheckUserBadges(ctx context.Context, userID int64) []domain.BadgeNotification
	UpdateUserStats(ctx context.Context, userID int64, patch domain.StatsPatch) error
	RecordActivity(ctx context.Context, userID int64, at time.Time) ([]domain.BadgeNotification, error)
	GetUserBadges(ctx context.Context, userID int64) ([]service.BadgeView, error)
	GetBadgeProgress(ctx context.Context, userID int64) ([]service.BadgeProgress, error)
	GetCatalog() []*badges.Definition
}

// LeaderboardAPI is implemented by service.LeaderboardService.
type LeaderboardAPI interface {
	GetLeaderboard(ctx context.Context, filter domain.LeaderboardFilter) (domain.LeaderboardPage, error)
	GetUserRank(ctx context.Context, userID int64, filter domain.LeaderboardFilter) (domain.UserRank, error)
}

// SweepRunner is implemented by service.SweepService.
type SweepRunner interface {
	RunTimeBasedSweep(ctx context.Context) (service.SweepSummary, error)
}

type Handler struct {
	Badges      BadgeAPI
	Leaderboard LeaderboardAPI
	Sweep       SweepRunner
	now         func() time.Time
}

func NewHandler(badgeAPI BadgeAPI, leaderboardAPI LeaderboardAPI, sweep SweepRunner) *Handler {
	return &Handler{
		Badges:      badgeAPI,
		Leaderboard: leaderboardAPI,
		Sweep:       sweep,
		now:         time.Now,
	}
}

// getUserID reads the id stored by the JWT middleware.
func getUserID(c interface{ Get(string) (any, bool) }) (int64, bool) {
	uidVal, ok := c.Get("user_id")
	if !ok {
		return 0, false
	}
	switch v := uidVal.(type) {
	case int64:
		return v, v > 0
	case float64:
		return int64(v), v > 0
	default:
		return 0, false
	}
}

// pathUserID parses :id, answering 400 itself when it is not a positive integer.
func pathUserID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return 0, false
	}
	return id, true
}

// writeError maps domain errors to status codes. Unexpected errors are
// logged and hidden behind a generic message.
func writeError(c *gin.Context, err error, msg string) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrInvalidFilter),
		errors.Is(err, domain.ErrInvalidFilterCombination),
		errors.Is(err, domain.ErrInvalidStatsPatch):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrSweepRunning):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		logger.WithContext(c.Request.Context()).Error(msg, "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
	}
}
