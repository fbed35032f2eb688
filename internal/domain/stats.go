package domain

import (
	"fmt"
	"time"
)

// StatField names a numeric value readable from a UserStats snapshot.
type StatField string

const (
	StatTotalPrompts    StatField = "total_prompts"
	StatTotalLikes      StatField = "total_likes"
	StatTotalSaves      StatField = "total_saves"
	StatFollowers       StatField = "followers"
	StatFollowing       StatField = "following"
	StatTotalComments   StatField = "total_comments"
	StatCommentLikes    StatField = "comment_likes"
	StatTotalReplies    StatField = "total_replies"
	StatConsecutiveDays StatField = "consecutive_days"
	StatCategoriesUsed  StatField = "categories_used"
	StatAgentsUsed      StatField = "agents_used"
	StatAverageRating   StatField = "average_rating"
	StatHighestRating   StatField = "highest_rating"
	StatRatedPrompts    StatField = "rated_prompts"
	StatAccountAgeDays  StatField = "account_age_days"
)

// UserStats is a point-in-time snapshot built by the stats aggregator.
// It is never persisted.
type UserStats struct {
	UserID int64 `json:"user_id"`

	TotalPrompts    int64 `json:"total_prompts"`
	TotalLikes      int64 `json:"total_likes"`
	TotalSaves      int64 `json:"total_saves"`
	Followers       int64 `json:"followers"`
	Following       int64 `json:"following"`
	TotalComments   int64 `json:"total_comments"`
	CommentLikes    int64 `json:"comment_likes"`
	TotalReplies    int64 `json:"total_replies"`
	ConsecutiveDays int64 `json:"consecutive_days"`

	CategoriesUsed map[string]struct{} `json:"-"`
	AgentsUsed     map[string]struct{} `json:"-"`

	AverageRating float64 `json:"average_rating"`
	HighestRating float64 `json:"highest_rating"`
	RatedPrompts  int64   `json:"rated_prompts"`

	AccountCreatedAt time.Time `json:"account_created_at"`
	ComputedAt       time.Time `json:"computed_at"`
}

// AccountAgeDays returns whole days between account creation and ComputedAt.
func (s UserStats) AccountAgeDays() int64 {
	if s.AccountCreatedAt.IsZero() || s.ComputedAt.Before(s.AccountCreatedAt) {
		return 0
	}
	return int64(s.ComputedAt.Sub(s.AccountCreatedAt) / (24 * time.Hour))
}

// Value reads a stat by name. Set-valued fields report their size.
func (s UserStats) Value(field StatField) (float64, error) {
	switch field {
	case StatTotalPrompts:
		return float64(s.TotalPrompts), nil
	case StatTotalLikes:
		return float64(s.TotalLikes), nil
	case StatTotalSaves:
		return float64(s.TotalSaves), nil
	case StatFollowers:
		return float64(s.Followers), nil
	case StatFollowing:
		return float64(s.Following), nil
	case StatTotalComments:
		return float64(s.TotalComments), nil
	case StatCommentLikes:
		return float64(s.CommentLikes), nil
	case StatTotalReplies:
		return float64(s.TotalReplies), nil
	case StatConsecutiveDays:
		return float64(s.ConsecutiveDays), nil
	case StatCategoriesUsed:
		return float64(len(s.CategoriesUsed)), nil
	case StatAgentsUsed:
		return float64(len(s.AgentsUsed)), nil
	case StatAverageRating:
		return s.AverageRating, nil
	case StatHighestRating:
		return s.HighestRating, nil
	case StatRatedPrompts:
		return float64(s.RatedPrompts), nil
	case StatAccountAgeDays:
		return float64(s.AccountAgeDays()), nil
	}
	return 0, fmt.Errorf("unknown stat field %q", field)
}

// KnownStatField reports whether Value understands field.
func KnownStatField(field StatField) bool {
	_, err := UserStats{}.Value(field)
	return err == nil
}

// StatsPatch merges counter updates into the stored user record.
// Set overwrites, Increment adds; both only accept the stored counters.
type StatsPatch struct {
	Set          map[StatField]int64 `json:"set,omitempty"`
	Increment    map[StatField]int64 `json:"increment,omitempty"`
	LastActiveAt *time.Time          `json:"last_active_at,omitempty"`
}

// PatchableStats are the counters kept on the user record; everything else
// in UserStats is aggregated from prompts and comments.
var PatchableStats = map[StatField]bool{
	StatTotalPrompts:    true,
	StatFollowers:       true,
	StatFollowing:       true,
	StatConsecutiveDays: true,
}

func (p StatsPatch) Validate() error {
	if len(p.Set) == 0 && len(p.Increment) == 0 && p.LastActiveAt == nil {
		return fmt.Errorf("%w: empty patch", ErrInvalidStatsPatch)
	}
	for field, v := range p.Set {
		if !PatchableStats[field] {
			return fmt.Errorf("%w: field %q is not a stored counter", ErrInvalidStatsPatch, field)
		}
		if v < 0 {
			return fmt.Errorf("%w: %s must not be negative", ErrInvalidStatsPatch, field)
		}
	}
	for field := range p.Increment {
		if !PatchableStats[field] {
			return fmt.Errorf("%w: field %q is not a stored counter", ErrInvalidStatsPatch, field)
		}
		if _, dup := p.Set[field]; dup {
			return fmt.Errorf("%w: %s is both set and incremented", ErrInvalidStatsPatch, field)
		}
	}
	return nil
}
