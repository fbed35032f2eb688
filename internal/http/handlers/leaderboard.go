package handlers

import (
	"net/http"
	"strconv"

	"prompt_badges/internal/domain"

	"github.com/gin-gonic/gin"
)

// parseFilter reads the leaderboard query string. Value checks are left to
// LeaderboardFilter.Validate.
func parseFilter(c *gin.Context) (domain.LeaderboardFilter, bool) {
	f := domain.LeaderboardFilter{
		Type:     domain.LeaderboardType(c.Query("type")),
		Period:   domain.Period(c.Query("period")),
		Category: domain.Category(c.Query("category")),
		Tier:     domain.Tier(c.Query("tier")),
		Search:   c.Query("q"),
	}
	if f.Search != "" && f.Type == "" {
		f.Type = domain.LeaderboardSearch
	}

	for _, p := range []struct {
		name string
		dst  *int
	}{{"limit", &f.Limit}, {"offset", &f.Offset}} {
		v := c.Query(p.name)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + p.name})
			return f, false
		}
		*p.dst = n
	}
	return f, true
}

// GetLeaderboard returns one page of the ranking selected by the query.
func (h *Handler) GetLeaderboard(c *gin.Context) {
	f, ok := parseFilter(c)
	if !ok {
		return
	}

	page, err := h.Leaderboard.GetLeaderboard(c.Request.Context(), f)
	if err != nil {
		writeError(c, err, "failed to get leaderboard")
		return
	}

	norm := f.Normalize()
	c.JSON(http.StatusOK, gin.H{
		"type":        norm.Type,
		"period":      norm.Period,
		"entries":     page.Entries,
		"total_count": page.TotalCount,
		"limit":       page.Limit,
		"offset":      page.Offset,
		"has_more":    page.HasMore,
	})
}

func (h *Handler) GetUserRank(c *gin.Context) {
	userID, ok := pathUserID(c)
	if !ok {
		return
	}
	h.userRank(c, userID)
}

func (h *Handler) GetMyRank(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	h.userRank(c, userID)
}

func (h *Handler) userRank(c *gin.Context, userID int64) {
	f, ok := parseFilter(c)
	if !ok {
		return
	}

	rank, err := h.Leaderboard.GetUserRank(c.Request.Context(), userID, f)
	if err != nil {
		writeError(c, err, "failed to get rank")
		return
	}
	c.JSON(http.StatusOK, rank)
}
