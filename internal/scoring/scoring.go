package scoring

import (
	"errors"
	"fmt"
	"math"

	"prompt_badges/internal/badges"
	"prompt_badges/internal/domain"
)

// Config holds the scoring constants. It is built once at startup and
// never mutated afterwards.
type Config struct {
	TierWeights      map[domain.Tier]float64
	LevelMultipliers []float64 // index 0 is level 1; higher levels reuse the last entry
	CategoryBonus    map[domain.Category]float64
}

// DefaultConfig returns the production scoring constants.
func DefaultConfig() Config {
	return Config{
		TierWeights: map[domain.Tier]float64{
			domain.TierCommon:    10,
			domain.TierUncommon:  25,
			domain.TierRare:      100,
			domain.TierEpic:      500,
			domain.TierLegendary: 1000,
		},
		LevelMultipliers: []float64{1.0, 1.5, 2.0, 3.0, 5.0},
		CategoryBonus: map[domain.Category]float64{
			domain.CategoryContentCreation: 1.2,
			domain.CategoryEngagement:      1.0,
			domain.CategorySocial:          1.1,
			domain.CategoryQuality:         1.3,
			domain.CategoryMilestone:       1.0,
			domain.CategorySpecial:         1.5,
		},
	}
}

func (c Config) Validate() error {
	var errs []error
	for _, t := range domain.AllTiers {
		if w, ok := c.TierWeights[t]; !ok || w < 0 {
			errs = append(errs, fmt.Errorf("missing or negative weight for tier %s", t))
		}
	}
	for _, cat := range domain.AllCategories {
		if b, ok := c.CategoryBonus[cat]; !ok || b < 0 {
			errs = append(errs, fmt.Errorf("missing or negative bonus for category %s", cat))
		}
	}
	if len(c.LevelMultipliers) == 0 {
		errs = append(errs, errors.New("no level multipliers"))
	}
	return errors.Join(errs...)
}

func (c Config) levelMultiplier(level int) float64 {
	if level < 1 {
		level = 1
	}
	if level > len(c.LevelMultipliers) {
		return c.LevelMultipliers[len(c.LevelMultipliers)-1]
	}
	return c.LevelMultipliers[level-1]
}

// Calculator turns held badges into points.
type Calculator struct {
	cfg     Config
	catalog *badges.Catalog
}

func NewCalculator(cfg Config, catalog *badges.Catalog) (*Calculator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scoring config: %w", err)
	}
	return &Calculator{cfg: cfg, catalog: catalog}, nil
}

// BadgeScore scores one held badge:
// tierWeight[effectiveTier] * levelMultiplier[level] * categoryBonus[category], rounded.
// ok is false when the badge is no longer in the catalog.
func (c *Calculator) BadgeScore(b domain.UserBadge) (domain.ScoredBadge, bool) {
	def, found := c.catalog.Get(b.BadgeID)
	if !found {
		return domain.ScoredBadge{}, false
	}
	level := b.EffectiveLevel()
	tier := def.EffectiveTier(level)

	points := c.cfg.TierWeights[tier] * c.cfg.levelMultiplier(level) * c.cfg.CategoryBonus[def.Category]

	return domain.ScoredBadge{
		BadgeID:  def.ID,
		Name:     def.DisplayName(level),
		Tier:     tier,
		Category: def.Category,
		Level:    level,
		Score:    int64(math.Round(points)),
		EarnedAt: b.EarnedAt,
	}, true
}

// Score sums the per-badge scores. There is no cap.
func (c *Calculator) Score(held []domain.UserBadge) int64 {
	var total int64
	for _, b := range held {
		if sb, ok := c.BadgeScore(b); ok {
			total += sb.Score
		}
	}
	return total
}
