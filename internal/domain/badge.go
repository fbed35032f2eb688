package domain

import "time"

// Tier - badge rarity, ordered common < uncommon < rare < epic < legendary
type Tier string

const (
	TierCommon    Tier = "common"
	TierUncommon  Tier = "uncommon"
	TierRare      Tier = "rare"
	TierEpic      Tier = "epic"
	TierLegendary Tier = "legendary"
)

// AllTiers lists tiers from lowest to highest.
var AllTiers = []Tier{TierCommon, TierUncommon, TierRare, TierEpic, TierLegendary}

// Rank returns the tier position (1 = common), 0 for unknown tiers.
func (t Tier) Rank() int {
	for i, tier := range AllTiers {
		if tier == t {
			return i + 1
		}
	}
	return 0
}

func (t Tier) Valid() bool {
	return t.Rank() > 0
}

// Category - badge category
type Category string

const (
	CategoryContentCreation Category = "content_creation"
	CategoryEngagement      Category = "engagement"
	CategorySocial          Category = "social"
	CategoryQuality         Category = "quality"
	CategoryMilestone       Category = "milestone"
	CategorySpecial         Category = "special"
)

var AllCategories = []Category{
	CategoryContentCreation,
	CategoryEngagement,
	CategorySocial,
	CategoryQuality,
	CategoryMilestone,
	CategorySpecial,
}

func (c Category) Valid() bool {
	for _, cat := range AllCategories {
		if cat == c {
			return true
		}
	}
	return false
}

// UserBadge - a ledger entry: one per (user, badge)
type UserBadge struct {
	BadgeID  string    `db:"badge_id" json:"badge_id"`
	EarnedAt time.Time `db:"earned_at" json:"earned_at"`
	// Level is 1 for non-progressive badges
	Level    int     `db:"level" json:"level"`
	Progress float64 `db:"progress" json:"progress"`
}

// EffectiveLevel treats a missing level as 1.
func (b UserBadge) EffectiveLevel() int {
	if b.Level < 1 {
		return 1
	}
	return b.Level
}
