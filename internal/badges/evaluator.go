package badges

import "prompt_badges/internal/domain"

// Evaluate decides one definition against a stats snapshot and the user's
// held entry for it (nil when not held).
//
// Non-progressive: Earned reports whether the criteria is met; the caller
// skips badges that are already held. Progressive: Earned is set only for a
// strict upgrade, and Level is the highest qualifying level. When nothing
// new qualifies, Progress is measured against the lowest unearned level.
func Evaluate(def *Definition, stats domain.UserStats, held *domain.UserBadge) Result {
	if def == nil || def.Criteria == nil {
		return Result{}
	}
	return def.Criteria.evaluate(def, stats, held)
}
