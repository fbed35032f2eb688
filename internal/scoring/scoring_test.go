package scoring

import (
	"testing"
	"time"

	"prompt_badges/internal/badges"
	"prompt_badges/internal/domain"
)

func newCalc(t *testing.T) *Calculator {
	t.Helper()
	catalog, err := badges.Default()
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	calc, err := NewCalculator(DefaultConfig(), catalog)
	if err != nil {
		t.Fatalf("calculator: %v", err)
	}
	return calc
}

func TestScore(t *testing.T) {
	calc := newCalc(t)
	now := time.Now()

	cases := []struct {
		name   string
		badges []domain.UserBadge
		want   int64
	}{
		{"empty", nil, 0},
		{"common content creation", []domain.UserBadge{{BadgeID: badges.BadgeFirstPrompt, EarnedAt: now}}, 12},
		{"level without level set counts as 1", []domain.UserBadge{{BadgeID: badges.BadgeFirstPrompt, Level: 0}}, 12},
		// level 3 of prolific creator is epic: 500 * 2.0 * 1.2
		{"epic progressive level 3", []domain.UserBadge{{BadgeID: badges.BadgeProlificCreator, Level: 3}}, 1200},
		// level 4 is legendary even though the definition is uncommon: 1000 * 3.0 * 1.2
		{"level tier overrides definition tier", []domain.UserBadge{{BadgeID: badges.BadgeProlificCreator, Level: 4}}, 3600},
		{"unknown badge ignored", []domain.UserBadge{{BadgeID: "retired"}}, 0},
		{
			"sum",
			[]domain.UserBadge{
				{BadgeID: badges.BadgeFirstPrompt},
				{BadgeID: badges.BadgeProlificCreator, Level: 3},
				// legendary special: 1000 * 1.0 * 1.5
				{BadgeID: badges.BadgeEarlyAdopter},
			},
			12 + 1200 + 1500,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := calc.Score(tc.badges); got != tc.want {
				t.Fatalf("Score = %d; want %d", got, tc.want)
			}
		})
	}
}

func TestLevelMultiplier_BeyondTable(t *testing.T) {
	cfg := DefaultConfig()
	if got := cfg.levelMultiplier(9); got != 5.0 {
		t.Fatalf("levelMultiplier(9) = %v; want last entry 5.0", got)
	}
	if got := cfg.levelMultiplier(0); got != 1.0 {
		t.Fatalf("levelMultiplier(0) = %v; want 1.0", got)
	}
}

func TestNewCalculator_RejectsIncompleteConfig(t *testing.T) {
	cfg := DefaultConfig()
	delete(cfg.TierWeights, domain.TierRare)
	if _, err := NewCalculator(cfg, nil); err == nil {
		t.Fatal("expected error for missing tier weight")
	}
}

func TestBadgeScore_CarriesLevelDetails(t *testing.T) {
	calc := newCalc(t)
	earned := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)
	sb, ok := calc.BadgeScore(domain.UserBadge{BadgeID: badges.BadgeProlificCreator, Level: 2, EarnedAt: earned})
	if !ok {
		t.Fatal("expected badge to be scored")
	}
	if sb.Name != "Silver Creator" || sb.Tier != domain.TierUncommon || !sb.EarnedAt.Equal(earned) {
		t.Fatalf("unexpected scored badge %+v", sb)
	}
	// 25 * 1.5 * 1.2 = 45
	if sb.Score != 45 {
		t.Fatalf("score = %d; want 45", sb.Score)
	}
}
