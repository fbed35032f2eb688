package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"prompt_badges/internal/badges"
	"prompt_badges/internal/domain"
)

func TestCheckUserBadges_ProlificCreatorScenario(t *testing.T) {
	f := newFixture(t, badges.BadgeProlificCreator)
	f.store.addUser(domain.User{ID: 1, Username: "alice", CreatedAt: time.Now(), TotalPrompts: 10})
	ctx := context.Background()

	notes := f.badges.CheckUserBadges(ctx, 1)
	if len(notes) != 1 {
		t.Fatalf("first check: got %d notifications, want 1: %+v", len(notes), notes)
	}
	if n := notes[0]; n.Level != 1 || n.Name != "Bronze Creator" || n.Upgrade {
		t.Fatalf("first check: unexpected notification %+v", n)
	}

	if err := f.badges.UpdateUserStats(ctx, 1, domain.StatsPatch{
		Set: map[domain.StatField]int64{domain.StatTotalPrompts: 60},
	}); err != nil {
		t.Fatalf("UpdateUserStats: %v", err)
	}

	notes = f.badges.CheckUserBadges(ctx, 1)
	if len(notes) != 1 {
		t.Fatalf("second check: got %d notifications, want 1: %+v", len(notes), notes)
	}
	if n := notes[0]; n.Level != 2 || n.Name != "Silver Creator" || !n.Upgrade {
		t.Fatalf("second check: unexpected notification %+v", n)
	}

	if notes := f.badges.CheckUserBadges(ctx, 1); len(notes) != 0 {
		t.Fatalf("unchanged stats must not re-announce, got %+v", notes)
	}
	if got := f.store.user(1).Badge(badges.BadgeProlificCreator).Level; got != 2 {
		t.Fatalf("stored level = %d; want 2", got)
	}
}

func TestCheckUserBadges_Idempotent(t *testing.T) {
	f := newFixture(t)
	f.store.addUser(domain.User{ID: 1, Username: "bob", CreatedAt: time.Now(), TotalPrompts: 3, Followers: 12})

	first := f.badges.CheckUserBadges(context.Background(), 1)
	if len(first) == 0 {
		t.Fatal("expected awards on first check")
	}
	if second := f.badges.CheckUserBadges(context.Background(), 1); len(second) != 0 {
		t.Fatalf("second check returned %+v", second)
	}
}

func TestCheckUserBadges_SkipsStraightToHighestLevel(t *testing.T) {
	f := newFixture(t, badges.BadgeProlificCreator)
	f.store.addUser(domain.User{ID: 1, Username: "c", CreatedAt: time.Now(), TotalPrompts: 150})

	notes := f.badges.CheckUserBadges(context.Background(), 1)
	if len(notes) != 1 || notes[0].Level != 3 || notes[0].Tier != domain.TierEpic {
		t.Fatalf("expected a single level 3 award, got %+v", notes)
	}
}

func TestCheckUserBadges_LevelNeverDecreases(t *testing.T) {
	f := newFixture(t, badges.BadgeProlificCreator)
	earned := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	f.store.addUser(domain.User{
		ID: 1, Username: "d", CreatedAt: earned, TotalPrompts: 5,
		Badges: []domain.UserBadge{{BadgeID: badges.BadgeProlificCreator, Level: 3, EarnedAt: earned}},
	})

	if notes := f.badges.CheckUserBadges(context.Background(), 1); len(notes) != 0 {
		t.Fatalf("lower stats must not touch the ledger, got %+v", notes)
	}
	b := f.store.user(1).Badge(badges.BadgeProlificCreator)
	if b.Level != 3 || !b.EarnedAt.Equal(earned) {
		t.Fatalf("ledger entry changed: %+v", b)
	}
	if f.inval.count() != 0 {
		t.Fatal("cache invalidated without a ledger change")
	}
}

func TestCheckUserBadges_LostAwardRaceFallsBackToUpgrade(t *testing.T) {
	f := newFixture(t, badges.BadgeProlificCreator)
	f.store.addUser(domain.User{
		ID: 1, Username: "e", CreatedAt: time.Now(), TotalPrompts: 60,
		Badges: []domain.UserBadge{{BadgeID: badges.BadgeProlificCreator, Level: 1, EarnedAt: time.Now()}},
	})
	f.store.staleReads = true

	notes := f.badges.CheckUserBadges(context.Background(), 1)
	if len(notes) != 1 || notes[0].Level != 2 || !notes[0].Upgrade {
		t.Fatalf("expected upgrade after lost insert race, got %+v", notes)
	}
	if got := f.store.user(1).Badge(badges.BadgeProlificCreator).Level; got != 2 {
		t.Fatalf("stored level = %d; want 2", got)
	}
}

func TestCheckUserBadges_FailsSoft(t *testing.T) {
	f := newFixture(t)
	f.store.addUser(domain.User{ID: 1, Username: "f", CreatedAt: time.Now(), TotalPrompts: 1})
	f.store.getErr[1] = errBoom

	notes := f.badges.CheckUserBadges(context.Background(), 1)
	if notes == nil || len(notes) != 0 {
		t.Fatalf("failed check must return an empty list, got %#v", notes)
	}
	if notes := f.badges.CheckUserBadges(context.Background(), 404); len(notes) != 0 {
		t.Fatalf("unknown user must return an empty list, got %+v", notes)
	}
}

func TestCheckUserBadges_WriteFailureIsolatedPerBadge(t *testing.T) {
	f := newFixture(t, badges.BadgeFirstPrompt, badges.BadgeProlificCreator)
	f.store.addUser(domain.User{ID: 1, Username: "g", CreatedAt: time.Now(), TotalPrompts: 10})
	f.store.writeErr[badges.BadgeFirstPrompt] = errBoom

	notes, err := f.badges.checkUserBadges(context.Background(), 1, f.catalog.All())
	if !errors.Is(err, errBoom) {
		t.Fatalf("err = %v; want errBoom", err)
	}
	if len(notes) != 1 || notes[0].BadgeID != badges.BadgeProlificCreator {
		t.Fatalf("other badges must still be awarded, got %+v", notes)
	}
}

func TestCheckUserBadges_InvalidatesCacheOnAward(t *testing.T) {
	f := newFixture(t, badges.BadgeFirstPrompt)
	f.store.addUser(domain.User{ID: 1, Username: "h", CreatedAt: time.Now(), TotalPrompts: 1})

	f.badges.CheckUserBadges(context.Background(), 1)
	if f.inval.count() != 1 {
		t.Fatalf("invalidations = %d; want 1", f.inval.count())
	}
}

func TestUpdateUserStats_RejectsInvalidPatch(t *testing.T) {
	f := newFixture(t)
	f.store.addUser(domain.User{ID: 1, Username: "i"})

	cases := []domain.StatsPatch{
		{},
		{Set: map[domain.StatField]int64{domain.StatTotalLikes: 5}},
		{Set: map[domain.StatField]int64{domain.StatFollowers: -1}},
	}
	for _, p := range cases {
		if err := f.badges.UpdateUserStats(context.Background(), 1, p); !errors.Is(err, domain.ErrInvalidStatsPatch) {
			t.Fatalf("patch %+v: err = %v", p, err)
		}
	}

	err := f.badges.UpdateUserStats(context.Background(), 2, domain.StatsPatch{
		Increment: map[domain.StatField]int64{domain.StatFollowers: 1},
	})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("unknown user: err = %v", err)
	}
}

func TestNextStreak(t *testing.T) {
	day := func(d, h int) time.Time { return time.Date(2026, 5, d, h, 0, 0, 0, time.UTC) }
	last := day(10, 23)

	cases := []struct {
		name    string
		last    *time.Time
		current int64
		at      time.Time
		want    int64
	}{
		{"first visit", nil, 0, day(10, 8), 1},
		{"same day", &last, 4, day(10, 23), 4},
		{"next day", &last, 4, day(11, 0), 5},
		{"gap", &last, 4, day(13, 9), 1},
		{"clock behind", &last, 4, day(9, 9), 4},
		{"missing counter", &last, 0, day(11, 9), 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := nextStreak(tc.last, tc.current, tc.at); got != tc.want {
				t.Fatalf("nextStreak = %d; want %d", got, tc.want)
			}
		})
	}
}

func TestRecordActivity(t *testing.T) {
	f := newFixture(t, "dedicated")
	last := time.Date(2026, 5, 10, 20, 0, 0, 0, time.UTC)
	f.store.addUser(domain.User{ID: 1, Username: "j", CreatedAt: last, ConsecutiveDays: 6, LastActiveAt: &last})

	at := last.Add(10 * time.Hour)
	notes, err := f.badges.RecordActivity(context.Background(), 1, at)
	if err != nil {
		t.Fatalf("RecordActivity: %v", err)
	}
	u := f.store.user(1)
	if u.ConsecutiveDays != 7 || !u.LastActiveAt.Equal(at) {
		t.Fatalf("streak not advanced: days=%d last=%v", u.ConsecutiveDays, u.LastActiveAt)
	}
	if len(notes) != 1 || notes[0].Name != "Week Streak" {
		t.Fatalf("expected Week Streak, got %+v", notes)
	}

	if _, err := f.badges.RecordActivity(context.Background(), 99, at); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("unknown user: err = %v", err)
	}
}

func TestGetUserBadges(t *testing.T) {
	f := newFixture(t)
	f.store.addUser(domain.User{ID: 1, Username: "k", Badges: []domain.UserBadge{
		{BadgeID: badges.BadgeProlificCreator, Level: 4},
		{BadgeID: "retired_badge", Level: 1},
	}})

	views, err := f.badges.GetUserBadges(context.Background(), 1)
	if err != nil {
		t.Fatalf("GetUserBadges: %v", err)
	}
	if len(views) != 1 {
		t.Fatalf("got %d views, want 1 (unknown badge dropped)", len(views))
	}
	v := views[0]
	if v.Name != "Legendary Creator" || v.Tier != domain.TierLegendary || v.MaxLevel != 4 || v.Score != 3600 {
		t.Fatalf("unexpected view %+v", v)
	}
}

func TestGetBadgeProgress_DoesNotWrite(t *testing.T) {
	f := newFixture(t, badges.BadgeFirstPrompt, badges.BadgeProlificCreator)
	f.store.addUser(domain.User{ID: 1, Username: "l", TotalPrompts: 25, Badges: []domain.UserBadge{
		{BadgeID: badges.BadgeFirstPrompt, Level: 1},
	}})

	progress, err := f.badges.GetBadgeProgress(context.Background(), 1)
	if err != nil {
		t.Fatalf("GetBadgeProgress: %v", err)
	}
	byID := make(map[string]BadgeProgress)
	for _, p := range progress {
		byID[p.BadgeID] = p
	}

	if p := byID[badges.BadgeFirstPrompt]; !p.Held || p.Progress != 100 {
		t.Fatalf("held badge progress %+v", p)
	}
	// 25 prompts qualifies for level 1; progress is toward level 2 (50)
	if p := byID[badges.BadgeProlificCreator]; p.Held || !p.Qualifies || p.Progress != 50 {
		t.Fatalf("prolific progress %+v", p)
	}
	if got := len(f.store.user(1).Badges); got != 1 {
		t.Fatalf("progress view wrote to the ledger, %d badges held", got)
	}
}

func TestStatsAggregator_Compute(t *testing.T) {
	store := newMemStore()
	parent := int64(1)
	store.prompts[7] = []domain.Prompt{
		{OwnerID: 7, Category: "coding", Agent: "gpt", Likes: 3, Saves: 1, RatingAvg: 4.0, RatingCount: 2},
		{OwnerID: 7, Category: "writing", Agent: "gpt", Likes: 5, Saves: 2, RatingAvg: 5.0, RatingCount: 1},
		{OwnerID: 7, Category: "coding", Agent: "claude", Likes: 1},
	}
	store.comments[7] = []domain.Comment{
		{AuthorID: 7, Likes: 2},
		{AuthorID: 7, Likes: 4, ParentID: &parent},
	}
	store.replies[7] = 3

	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	agg := NewStatsAggregator(store, store)
	agg.now = func() time.Time { return now }

	u := &domain.User{ID: 7, TotalPrompts: 3, Followers: 8, CreatedAt: now.AddDate(0, 0, -40)}
	s, err := agg.Compute(context.Background(), u)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}

	if s.TotalLikes != 9 || s.TotalSaves != 3 || s.Followers != 8 || s.TotalPrompts != 3 {
		t.Fatalf("counts wrong: %+v", s)
	}
	if len(s.CategoriesUsed) != 2 || len(s.AgentsUsed) != 2 {
		t.Fatalf("diversity wrong: categories=%v agents=%v", s.CategoriesUsed, s.AgentsUsed)
	}
	if s.RatedPrompts != 2 || s.AverageRating != 4.5 || s.HighestRating != 5.0 {
		t.Fatalf("ratings wrong: %+v", s)
	}
	if s.TotalComments != 2 || s.CommentLikes != 6 || s.TotalReplies != 3 {
		t.Fatalf("comment stats wrong: %+v", s)
	}
	if s.AccountAgeDays() != 40 {
		t.Fatalf("account age = %d; want 40", s.AccountAgeDays())
	}
}
