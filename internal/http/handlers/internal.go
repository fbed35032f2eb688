package handlers

import (
	"errors"
	"io"
	"net/http"
	"time"

	"prompt_badges/internal/domain"

	"github.com/gin-gonic/gin"
)

// UpdateStats merges a counter patch and then runs a badge check.
// Called by the services that own prompts, follows and comments.
func (h *Handler) UpdateStats(c *gin.Context) {
	userID, ok := pathUserID(c)
	if !ok {
		return
	}

	var patch domain.StatsPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.Badges.UpdateUserStats(c.Request.Context(), userID, patch); err != nil {
		writeError(c, err, "failed to update stats")
		return
	}

	notes := h.Badges.CheckUserBadges(c.Request.Context(), userID)
	c.JSON(http.StatusOK, gin.H{"new_badges": notes})
}

type activityRequest struct {
	At *time.Time `json:"at"`
}

// RecordActivity registers a visit (defaults to now) for streak tracking.
func (h *Handler) RecordActivity(c *gin.Context) {
	userID, ok := pathUserID(c)
	if !ok {
		return
	}

	// an empty body means "now"
	var req activityRequest
	if c.Request.Body != nil {
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
	}
	at := h.now()
	if req.At != nil {
		at = *req.At
	}

	notes, err := h.Badges.RecordActivity(c.Request.Context(), userID, at)
	if err != nil {
		writeError(c, err, "failed to record activity")
		return
	}
	c.JSON(http.StatusOK, gin.H{"new_badges": notes})
}

// RunSweep runs the time based sweep synchronously and returns its summary.
func (h *Handler) RunSweep(c *gin.Context) {
	sum, err := h.Sweep.RunTimeBasedSweep(c.Request.Context())
	if err != nil {
		writeError(c, err, "sweep failed")
		return
	}
	c.JSON(http.StatusOK, sum)
}
