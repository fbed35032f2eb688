package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// LeaderboardType - which slice of badges a leaderboard ranks by
type LeaderboardType string

const (
	LeaderboardOverall  LeaderboardType = "overall"
	LeaderboardCategory LeaderboardType = "category"
	LeaderboardTier     LeaderboardType = "tier"
	LeaderboardSearch   LeaderboardType = "search"
)

// Period - which badges count by earnedAt
type Period string

const (
	PeriodAllTime Period = "all_time"
	PeriodWeekly  Period = "weekly"
	PeriodMonthly Period = "monthly"
	PeriodYearly  Period = "yearly"
)

// Cutoff returns the earliest earnedAt that still counts. ok is false for all-time.
func (p Period) Cutoff(now time.Time) (cutoff time.Time, ok bool) {
	switch p {
	case PeriodWeekly:
		return now.AddDate(0, 0, -7), true
	case PeriodMonthly:
		return now.AddDate(0, 0, -30), true
	case PeriodYearly:
		return now.AddDate(0, 0, -365), true
	}
	return time.Time{}, false
}

func (p Period) Valid() bool {
	switch p {
	case PeriodAllTime, PeriodWeekly, PeriodMonthly, PeriodYearly:
		return true
	}
	return false
}

const (
	DefaultLeaderboardLimit = 50
	MaxLeaderboardLimit     = 100
)

// LeaderboardFilter is the full filter set of a leaderboard query.
type LeaderboardFilter struct {
	Type     LeaderboardType `json:"type"`
	Period   Period          `json:"period"`
	Category Category        `json:"category,omitempty"`
	Tier     Tier            `json:"tier,omitempty"`
	Limit    int             `json:"limit"`
	Offset   int             `json:"offset"`
	Search   string          `json:"search,omitempty"`
}

// Normalize fills defaults and clamps paging.
func (f LeaderboardFilter) Normalize() LeaderboardFilter {
	if f.Type == "" {
		f.Type = LeaderboardOverall
	}
	if f.Period == "" {
		f.Period = PeriodAllTime
	}
	if f.Limit <= 0 {
		f.Limit = DefaultLeaderboardLimit
	}
	if f.Limit > MaxLeaderboardLimit {
		f.Limit = MaxLeaderboardLimit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	f.Search = strings.TrimSpace(f.Search)
	return f
}

// Validate rejects unknown values and type/value mismatches.
func (f LeaderboardFilter) Validate() error {
	if !f.Period.Valid() {
		return fmt.Errorf("%w: period %q", ErrInvalidFilter, f.Period)
	}
	if f.Category != "" && !f.Category.Valid() {
		return fmt.Errorf("%w: category %q", ErrInvalidFilter, f.Category)
	}
	if f.Tier != "" && !f.Tier.Valid() {
		return fmt.Errorf("%w: tier %q", ErrInvalidFilter, f.Tier)
	}
	switch f.Type {
	case LeaderboardOverall:
	case LeaderboardCategory:
		if f.Category == "" {
			return fmt.Errorf("%w: category leaderboard needs a category", ErrInvalidFilterCombination)
		}
	case LeaderboardTier:
		if f.Tier == "" {
			return fmt.Errorf("%w: tier leaderboard needs a tier", ErrInvalidFilterCombination)
		}
	case LeaderboardSearch:
		if f.Search == "" {
			return fmt.Errorf("%w: search leaderboard needs a query", ErrInvalidFilterCombination)
		}
	default:
		return fmt.Errorf("%w: type %q", ErrInvalidFilter, f.Type)
	}
	return nil
}

// CacheKey is a canonical serialization of every filter field.
func (f LeaderboardFilter) CacheKey() string {
	var b strings.Builder
	b.WriteString("type=")
	b.WriteString(string(f.Type))
	b.WriteString("|period=")
	b.WriteString(string(f.Period))
	b.WriteString("|category=")
	b.WriteString(string(f.Category))
	b.WriteString("|tier=")
	b.WriteString(string(f.Tier))
	b.WriteString("|limit=")
	b.WriteString(strconv.Itoa(f.Limit))
	b.WriteString("|offset=")
	b.WriteString(strconv.Itoa(f.Offset))
	b.WriteString("|search=")
	b.WriteString(strings.ToLower(f.Search))
	return b.String()
}

// ScoredBadge - a held badge with its individual score
type ScoredBadge struct {
	BadgeID  string    `json:"badge_id"`
	Name     string    `json:"name"`
	Tier     Tier      `json:"tier"`
	Category Category  `json:"category"`
	Level    int       `json:"level"`
	Score    int64     `json:"score"`
	EarnedAt time.Time `json:"earned_at"`
}

// LeaderboardEntry is derived per query and never persisted.
type LeaderboardEntry struct {
	Rank           int           `json:"rank"`
	UserID         int64         `json:"user_id"`
	DisplayName    string        `json:"display_name"`
	TotalScore     int64         `json:"total_score"`
	BadgeCount     int           `json:"badge_count"`
	BadgeBreakdown map[Tier]int  `json:"badge_breakdown"`
	TopBadges      []ScoredBadge `json:"top_badges"`
	JoinedAt       time.Time     `json:"joined_at"`
}

// LeaderboardPage - one page of a ranking plus the full match count
type LeaderboardPage struct {
	Entries    []LeaderboardEntry `json:"entries"`
	TotalCount int                `json:"total_count"`
	Limit      int                `json:"limit"`
	Offset     int                `json:"offset"`
	HasMore    bool               `json:"has_more"`
}

// UserRank - a user's position inside a full ranking
type UserRank struct {
	UserID     int64              `json:"user_id"`
	Ranked     bool               `json:"ranked"`
	Rank       int                `json:"rank"`
	Score      int64              `json:"score"`
	Percentile int                `json:"percentile"`
	TotalUsers int                `json:"total_users"`
	Nearby     []LeaderboardEntry `json:"nearby"`
}
