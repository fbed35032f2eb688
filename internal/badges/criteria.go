package badges

import (
	"fmt"
	"math"

	"prompt_badges/internal/domain"
	"prompt_badges/internal/logger"
)

// CriteriaKind tags the criteria variant.
type CriteriaKind string

const (
	KindThreshold CriteriaKind = "threshold"
	KindCustom    CriteriaKind = "custom"
	KindTimeBased CriteriaKind = "time_based"
)

// Criteria is a closed sum type: only the three variants in this file
// implement it, each with its own evaluate.
type Criteria interface {
	Kind() CriteriaKind
	evaluate(def *Definition, stats domain.UserStats, held *domain.UserBadge) Result
	validate(def *Definition) error
}

// Threshold is earned when stats[Field] >= Threshold. Progressive badges
// use the level thresholds instead.
type Threshold struct {
	Field     domain.StatField `json:"field"`
	Threshold float64          `json:"threshold,omitempty"`
}

func (Threshold) Kind() CriteriaKind { return KindThreshold }

func (c Threshold) evaluate(def *Definition, stats domain.UserStats, held *domain.UserBadge) Result {
	value, err := stats.Value(c.Field)
	if err != nil {
		logger.Warn("threshold criteria reads unknown field", "badge_id", def.ID, "field", c.Field)
		return Result{}
	}
	if def.IsProgressive {
		return evaluateLevels(def, value, held)
	}
	return Result{Earned: value >= c.Threshold, Level: 1, Progress: progressTo(value, c.Threshold)}
}

func (c Threshold) validate(def *Definition) error {
	if !domain.KnownStatField(c.Field) {
		return fmt.Errorf("unknown stat field %q", c.Field)
	}
	if !def.IsProgressive && c.Threshold <= 0 {
		return fmt.Errorf("non-progressive threshold must be positive")
	}
	return nil
}

// TimeBased compares account age in whole days.
type TimeBased struct {
	Field domain.StatField `json:"field"`
	Days  float64          `json:"days,omitempty"`
}

func (TimeBased) Kind() CriteriaKind { return KindTimeBased }

func (c TimeBased) evaluate(def *Definition, stats domain.UserStats, held *domain.UserBadge) Result {
	value := float64(stats.AccountAgeDays())
	if def.IsProgressive {
		return evaluateLevels(def, value, held)
	}
	return Result{Earned: value >= c.Days, Level: 1, Progress: progressTo(value, c.Days)}
}

func (c TimeBased) validate(def *Definition) error {
	if c.Field != domain.StatAccountAgeDays {
		return fmt.Errorf("time based criteria must use %s, got %q", domain.StatAccountAgeDays, c.Field)
	}
	if !def.IsProgressive && c.Days <= 0 {
		return fmt.Errorf("non-progressive time based criteria needs days")
	}
	return nil
}

// Custom delegates to a named validator from the dispatch table.
// It never reports partial progress.
type Custom struct {
	Validator ValidatorName      `json:"validator"`
	Params    map[string]float64 `json:"params,omitempty"`
}

func (Custom) Kind() CriteriaKind { return KindCustom }

func (c Custom) evaluate(def *Definition, stats domain.UserStats, _ *domain.UserBadge) Result {
	v, ok := validators[c.Validator]
	if !ok {
		logger.Warn("badge references unknown validator",
			"badge_id", def.ID, "validator", c.Validator, "error", domain.ErrUnknownValidator)
		return Result{}
	}
	if v.fn(stats, c.Params) {
		return Result{Earned: true, Level: 1, Progress: 100}
	}
	return Result{}
}

func (c Custom) validate(def *Definition) error {
	if def.IsProgressive {
		return fmt.Errorf("custom criteria cannot be progressive")
	}
	v, ok := validators[c.Validator]
	if !ok {
		return fmt.Errorf("%w %q", domain.ErrUnknownValidator, c.Validator)
	}
	for _, p := range v.params {
		if _, ok := c.Params[p]; !ok {
			return fmt.Errorf("validator %q needs param %q", c.Validator, p)
		}
	}
	return nil
}

// evaluateLevels picks the highest level whose threshold is met and which is
// above the held level. Levels are skipped straight to the highest one.
func evaluateLevels(def *Definition, value float64, held *domain.UserBadge) Result {
	heldLevel := 0
	if held != nil {
		heldLevel = held.EffectiveLevel()
	}

	for i := len(def.Levels) - 1; i >= 0; i-- {
		lvl := def.Levels[i]
		if lvl.Level <= heldLevel {
			break
		}
		if value >= lvl.Threshold {
			return Result{
				Earned:   true,
				Level:    lvl.Level,
				Progress: def.progressAfter(lvl.Level, value),
			}
		}
	}

	return Result{Level: heldLevel, Progress: def.progressAfter(heldLevel, value)}
}

// progressTo is min(value/target, 1) * 100.
func progressTo(value, target float64) float64 {
	if target <= 0 {
		return 100
	}
	p := math.Min(value/target, 1) * 100
	if p < 0 {
		return 0
	}
	return math.Round(p*100) / 100
}
