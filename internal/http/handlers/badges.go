package handlers

import (
	"net/http"

	"prompt_badges/internal/badges"

	"github.com/gin-gonic/gin"
)

type catalogBadge struct {
	*badges.Definition
	CriteriaKind badges.CriteriaKind `json:"criteria_kind"`
}

// GetCatalog lists every badge definition.
func (h *Handler) GetCatalog(c *gin.Context) {
	defs := h.Badges.GetCatalog()
	out := make([]catalogBadge, 0, len(defs))
	for _, d := range defs {
		out = append(out, catalogBadge{Definition: d, CriteriaKind: d.Criteria.Kind()})
	}
	c.JSON(http.StatusOK, gin.H{"badges": out, "count": len(out)})
}

func (h *Handler) GetUserBadges(c *gin.Context) {
	userID, ok := pathUserID(c)
	if !ok {
		return
	}
	h.userBadges(c, userID)
}

func (h *Handler) GetUserBadgeProgress(c *gin.Context) {
	userID, ok := pathUserID(c)
	if !ok {
		return
	}

	progress, err := h.Badges.GetBadgeProgress(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err, "failed to get badge progress")
		return
	}
	c.JSON(http.StatusOK, gin.H{"user_id": userID, "progress": progress})
}

func (h *Handler) MyBadges(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	h.userBadges(c, userID)
}

// CheckMyBadges runs a badge check for the caller. Failures come back as
// an empty list, never as an error status.
func (h *Handler) CheckMyBadges(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	notes := h.Badges.CheckUserBadges(c.Request.Context(), userID)
	c.JSON(http.StatusOK, gin.H{"new_badges": notes})
}

func (h *Handler) userBadges(c *gin.Context, userID int64) {
	held, err := h.Badges.GetUserBadges(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err, "failed to get badges")
		return
	}
	c.JSON(http.StatusOK, gin.H{"user_id": userID, "badges": held, "count": len(held)})
}
