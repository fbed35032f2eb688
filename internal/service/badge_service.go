package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"prompt_badges/internal/badges"
	"prompt_badges/internal/domain"
	"prompt_badges/internal/logger"
	"prompt_badges/internal/metrics"
	"prompt_badges/internal/scoring"
)

// BadgeView is a held badge joined with its definition.
type BadgeView struct {
	domain.UserBadge
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	Icon          string          `json:"icon,omitempty"`
	Tier          domain.Tier     `json:"tier"`
	Category      domain.Category `json:"category"`
	IsProgressive bool            `json:"is_progressive"`
	MaxLevel      int             `json:"max_level"`
	Score         int64           `json:"score"`
}

// BadgeProgress reports where a user stands on one catalog badge.
// Qualifies means the next check would award or upgrade it.
type BadgeProgress struct {
	BadgeID       string          `json:"badge_id"`
	Name          string          `json:"name"`
	Tier          domain.Tier     `json:"tier"`
	Category      domain.Category `json:"category"`
	IsProgressive bool            `json:"is_progressive"`
	Held          bool            `json:"held"`
	Level         int             `json:"level"`
	MaxLevel      int             `json:"max_level"`
	Qualifies     bool            `json:"qualifies"`
	Progress      float64         `json:"progress"`
}

type BadgeService struct {
	users   UserStore
	catalog *badges.Catalog
	stats   *StatsAggregator
	ledger  *LedgerWriter
	calc    *scoring.Calculator
	now     func() time.Time
}

func NewBadgeService(users UserStore, catalog *badges.Catalog, stats *StatsAggregator, ledger *LedgerWriter, calc *scoring.Calculator) *BadgeService {
	return &BadgeService{
		users:   users,
		catalog: catalog,
		stats:   stats,
		ledger:  ledger,
		calc:    calc,
		now:     time.Now,
	}
}

// CheckUserBadges evaluates the whole catalog for userID and applies every
// new award or upgrade. It never fails: errors are logged, and only writes
// that actually changed the ledger are returned.
func (s *BadgeService) CheckUserBadges(ctx context.Context, userID int64) []domain.BadgeNotification {
	notes, err := s.checkUserBadges(ctx, userID, s.catalog.All())
	if err != nil {
		metrics.BadgeCheckFailures.Inc()
		logger.WithContext(ctx).Error("badge check failed", "user_id", userID, "error", err)
	}
	if notes == nil {
		notes = []domain.BadgeNotification{}
	}
	return notes
}

// checkUserBadges evaluates defs only. A failed ledger write does not stop
// the remaining badges; the joined error is returned with the notifications
// that did apply.
func (s *BadgeService) checkUserBadges(ctx context.Context, userID int64, defs []*badges.Definition) ([]domain.BadgeNotification, error) {
	u, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	stats, err := s.stats.Compute(ctx, u)
	if err != nil {
		return nil, err
	}

	var (
		notes []domain.BadgeNotification
		errs  []error
	)
	for _, def := range defs {
		held := u.Badge(def.ID)
		if held != nil && !def.IsProgressive {
			continue
		}

		res := badges.Evaluate(def, stats, held)
		if !res.Earned {
			continue
		}

		note, applied, err := s.apply(ctx, userID, def, held, res)
		if err != nil {
			errs = append(errs, fmt.Errorf("badge %s: %w", def.ID, err))
			continue
		}
		if applied {
			notes = append(notes, note)
		}
	}
	return notes, errors.Join(errs...)
}

func (s *BadgeService) apply(ctx context.Context, userID int64, def *badges.Definition, held *domain.UserBadge, res badges.Result) (domain.BadgeNotification, bool, error) {
	var (
		applied bool
		upgrade = held != nil
		err     error
	)
	if upgrade {
		applied, err = s.ledger.Upgrade(ctx, userID, def.ID, res.Level, res.Progress)
	} else {
		applied, err = s.ledger.Award(ctx, userID, def.ID, res.Level, res.Progress)
		// another trigger inserted first; our level may still be higher
		if err == nil && !applied && def.IsProgressive {
			upgrade = true
			applied, err = s.ledger.Upgrade(ctx, userID, def.ID, res.Level, res.Progress)
		}
	}
	if err != nil || !applied {
		return domain.BadgeNotification{}, false, err
	}

	level := max(res.Level, 1)
	note := domain.BadgeNotification{
		UserID:      userID,
		BadgeID:     def.ID,
		Name:        def.DisplayName(level),
		Description: def.Description,
		Icon:        def.Icon,
		Tier:        def.EffectiveTier(level),
		Category:    def.Category,
		Level:       level,
		Upgrade:     upgrade,
		EarnedAt:    s.now(),
	}
	logger.WithContext(ctx).Info("badge awarded",
		"user_id", userID, "badge_id", def.ID, "level", level, "upgrade", upgrade)
	return note, true, nil
}

// UpdateUserStats merges counter updates into the stored user record.
func (s *BadgeService) UpdateUserStats(ctx context.Context, userID int64, patch domain.StatsPatch) error {
	if err := patch.Validate(); err != nil {
		return err
	}
	return s.users.ApplyStatsPatch(ctx, userID, patch)
}

// RecordActivity advances the daily streak for a visit at `at` and then
// runs a badge check.
func (s *BadgeService) RecordActivity(ctx context.Context, userID int64, at time.Time) ([]domain.BadgeNotification, error) {
	u, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	streak := nextStreak(u.LastActiveAt, u.ConsecutiveDays, at)
	patch := domain.StatsPatch{Set: map[domain.StatField]int64{domain.StatConsecutiveDays: streak}}
	if u.LastActiveAt == nil || at.After(*u.LastActiveAt) {
		patch.LastActiveAt = &at
	}
	if err := s.users.ApplyStatsPatch(ctx, userID, patch); err != nil {
		return nil, err
	}

	return s.CheckUserBadges(ctx, userID), nil
}

// nextStreak compares calendar days in UTC: same day keeps the streak,
// the following day extends it, anything later restarts at 1.
func nextStreak(last *time.Time, current int64, at time.Time) int64 {
	if last == nil || current < 1 {
		return 1
	}
	days := int(utcDay(at).Sub(utcDay(*last)).Hours() / 24)
	switch {
	case days <= 0:
		return current
	case days == 1:
		return current + 1
	default:
		return 1
	}
}

func utcDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// GetUserBadges returns held badges joined with their definitions. Ledger
// entries for badges no longer in the catalog are left out.
func (s *BadgeService) GetUserBadges(ctx context.Context, userID int64) ([]BadgeView, error) {
	u, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	views := make([]BadgeView, 0, len(u.Badges))
	for _, b := range u.Badges {
		def, ok := s.catalog.Get(b.BadgeID)
		if !ok {
			continue
		}
		level := b.EffectiveLevel()
		sb, _ := s.calc.BadgeScore(b)
		views = append(views, BadgeView{
			UserBadge:     b,
			Name:          def.DisplayName(level),
			Description:   def.Description,
			Icon:          def.Icon,
			Tier:          def.EffectiveTier(level),
			Category:      def.Category,
			IsProgressive: def.IsProgressive,
			MaxLevel:      maxLevel(def),
			Score:         sb.Score,
		})
	}
	return views, nil
}

// GetBadgeProgress evaluates the whole catalog without writing anything.
func (s *BadgeService) GetBadgeProgress(ctx context.Context, userID int64) ([]BadgeProgress, error) {
	u, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	stats, err := s.stats.Compute(ctx, u)
	if err != nil {
		return nil, err
	}

	defs := s.catalog.All()
	out := make([]BadgeProgress, 0, len(defs))
	for _, def := range defs {
		held := u.Badge(def.ID)
		p := BadgeProgress{
			BadgeID:       def.ID,
			Name:          def.Name,
			Tier:          def.Tier,
			Category:      def.Category,
			IsProgressive: def.IsProgressive,
			Held:          held != nil,
			MaxLevel:      maxLevel(def),
		}
		if held != nil {
			p.Level = held.EffectiveLevel()
			p.Name = def.DisplayName(p.Level)
			p.Tier = def.EffectiveTier(p.Level)
		}

		if held != nil && !def.IsProgressive {
			p.Progress = 100
		} else {
			res := badges.Evaluate(def, stats, held)
			p.Qualifies = res.Earned
			p.Progress = res.Progress
		}
		out = append(out, p)
	}
	return out, nil
}

// GetCatalog lists every badge definition.
func (s *BadgeService) GetCatalog() []*badges.Definition {
	return s.catalog.All()
}

func maxLevel(def *badges.Definition) int {
	if !def.IsProgressive || len(def.Levels) == 0 {
		return 1
	}
	return def.Levels[len(def.Levels)-1].Level
}
