package badges

import (
	"time"

	"prompt_badges/internal/domain"
)

// ValidatorName keys the custom validator dispatch table.
type ValidatorName string

const (
	ValidatorSocialButterfly   ValidatorName = "social_butterfly"
	ValidatorHighAverageRating ValidatorName = "high_average_rating"
	ValidatorPerfectRating     ValidatorName = "perfect_rating"
	ValidatorJoinedBefore      ValidatorName = "joined_before"
	ValidatorWellRounded       ValidatorName = "well_rounded"
)

// ValidatorFunc decides a custom badge from the stats snapshot and the
// definition's params.
type ValidatorFunc func(stats domain.UserStats, params map[string]float64) bool

type validator struct {
	fn     ValidatorFunc
	params []string
}

var validators = map[ValidatorName]validator{
	ValidatorSocialButterfly: {
		fn: func(s domain.UserStats, p map[string]float64) bool {
			return float64(s.Followers) >= p["min_followers"] && float64(s.Following) >= p["min_following"]
		},
		params: []string{"min_followers", "min_following"},
	},
	ValidatorHighAverageRating: {
		fn: func(s domain.UserStats, p map[string]float64) bool {
			return float64(s.RatedPrompts) >= p["min_rated"] && s.AverageRating >= p["min_average"]
		},
		params: []string{"min_average", "min_rated"},
	},
	ValidatorPerfectRating: {
		fn: func(s domain.UserStats, p map[string]float64) bool {
			return s.RatedPrompts > 0 && s.HighestRating >= p["rating"]
		},
		params: []string{"rating"},
	},
	ValidatorJoinedBefore: {
		// before is a unix timestamp in seconds
		fn: func(s domain.UserStats, p map[string]float64) bool {
			if s.AccountCreatedAt.IsZero() {
				return false
			}
			return s.AccountCreatedAt.Before(time.Unix(int64(p["before"]), 0))
		},
		params: []string{"before"},
	},
	ValidatorWellRounded: {
		fn: func(s domain.UserStats, p map[string]float64) bool {
			return float64(len(s.CategoriesUsed)) >= p["min_categories"] &&
				float64(len(s.AgentsUsed)) >= p["min_agents"] &&
				float64(s.TotalPrompts) >= p["min_prompts"]
		},
		params: []string{"min_categories", "min_agents", "min_prompts"},
	},
}

// HasValidator reports whether name is in the dispatch table.
func HasValidator(name ValidatorName) bool {
	_, ok := validators[name]
	return ok
}
