package badges

import (
	"errors"
	"fmt"

	"prompt_badges/internal/domain"
)

// Level is one step of a progressive badge. Levels may carry a tier
// different from the parent definition.
type Level struct {
	Level     int         `json:"level"`
	Name      string      `json:"name"`
	Threshold float64     `json:"threshold"`
	Tier      domain.Tier `json:"tier"`
}

// Definition is an immutable achievement definition.
type Definition struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	Icon          string          `json:"icon,omitempty"`
	Tier          domain.Tier     `json:"tier"`
	Category      domain.Category `json:"category"`
	Criteria      Criteria        `json:"criteria"`
	IsProgressive bool            `json:"is_progressive"`
	Levels        []Level         `json:"levels,omitempty"`
}

// Result is the outcome of evaluating one definition.
// For progressive badges Earned means a strict upgrade to Level.
type Result struct {
	Earned   bool    `json:"earned"`
	Level    int     `json:"level,omitempty"`
	Progress float64 `json:"progress"`
}

// LevelInfo returns the level entry with the given number.
func (d *Definition) LevelInfo(level int) (Level, bool) {
	for _, l := range d.Levels {
		if l.Level == level {
			return l, true
		}
	}
	return Level{}, false
}

// EffectiveTier is the held level's tier for progressive badges, else the definition tier.
func (d *Definition) EffectiveTier(level int) domain.Tier {
	if d.IsProgressive {
		if l, ok := d.LevelInfo(level); ok && l.Tier != "" {
			return l.Tier
		}
	}
	return d.Tier
}

// DisplayName returns the level name when there is one.
func (d *Definition) DisplayName(level int) string {
	if d.IsProgressive {
		if l, ok := d.LevelInfo(level); ok && l.Name != "" {
			return l.Name
		}
	}
	return d.Name
}

// progressAfter reports progress toward the lowest level above heldLevel,
// 100 once every level is held.
func (d *Definition) progressAfter(heldLevel int, value float64) float64 {
	for _, l := range d.Levels {
		if l.Level > heldLevel {
			return progressTo(value, l.Threshold)
		}
	}
	return 100
}

func (d *Definition) validate() error {
	var errs []error
	if d.ID == "" {
		errs = append(errs, errors.New("missing id"))
	}
	if d.Name == "" {
		errs = append(errs, errors.New("missing name"))
	}
	if !d.Tier.Valid() {
		errs = append(errs, fmt.Errorf("invalid tier %q", d.Tier))
	}
	if !d.Category.Valid() {
		errs = append(errs, fmt.Errorf("invalid category %q", d.Category))
	}
	if d.Criteria == nil {
		errs = append(errs, errors.New("missing criteria"))
	} else if err := d.Criteria.validate(d); err != nil {
		errs = append(errs, err)
	}

	if d.IsProgressive {
		if len(d.Levels) == 0 {
			errs = append(errs, errors.New("progressive badge without levels"))
		}
		for i, l := range d.Levels {
			if l.Level < 1 {
				errs = append(errs, fmt.Errorf("level %d must be >= 1", l.Level))
			}
			if l.Tier != "" && !l.Tier.Valid() {
				errs = append(errs, fmt.Errorf("level %d has invalid tier %q", l.Level, l.Tier))
			}
			if i == 0 {
				continue
			}
			prev := d.Levels[i-1]
			if l.Level <= prev.Level || l.Threshold <= prev.Threshold {
				errs = append(errs, fmt.Errorf("levels must strictly increase (level %d)", l.Level))
			}
		}
	} else if len(d.Levels) > 0 {
		errs = append(errs, errors.New("levels on a non-progressive badge"))
	}

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("badge %q: %w", d.ID, errors.Join(errs...))
}
