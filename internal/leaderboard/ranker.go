package leaderboard

import (
	"cmp"
	"context"
	"fmt"
	"maps"
	"math"
	"slices"
	"strings"
	"time"

	"prompt_badges/internal/domain"
	"prompt_badges/internal/metrics"
	"prompt_badges/internal/scoring"
)

const (
	topBadgesPerEntry = 3
	nearbyWindow      = 2
)

// UserSource reads every user together with their badge ledger.
type UserSource interface {
	ListUsersWithBadges(ctx context.Context) ([]domain.User, error)
}

// Ranker builds filtered, scored and sorted leaderboards.
type Ranker struct {
	users UserSource
	calc  *scoring.Calculator
	cache *Cache[domain.LeaderboardPage]
	now   func() time.Time
}

func NewRanker(users UserSource, calc *scoring.Calculator, cache *Cache[domain.LeaderboardPage]) *Ranker {
	return &Ranker{
		users: users,
		calc:  calc,
		cache: cache,
		now:   time.Now,
	}
}

// Rank returns one page of the leaderboard for filter plus the total count.
// Invalid filters are rejected before the store is touched.
func (r *Ranker) Rank(ctx context.Context, filter domain.LeaderboardFilter) (domain.LeaderboardPage, error) {
	f := filter.Normalize()
	if err := f.Validate(); err != nil {
		return domain.LeaderboardPage{}, err
	}

	key := f.CacheKey()
	if page, ok := r.lookup(key); ok {
		return page, nil
	}

	// an invalidation during rankAll makes this result stale
	gen := r.cache.Gen()
	all, err := r.rankAll(ctx, f)
	if err != nil {
		return domain.LeaderboardPage{}, err
	}

	page := paginate(all, f.Limit, f.Offset)
	r.cache.SetIfGen(key, page, gen)
	return clonePage(page), nil
}

// UserRank places userID inside the full ranking for filter's type, period
// and category/tier; paging fields are ignored.
func (r *Ranker) UserRank(ctx context.Context, userID int64, filter domain.LeaderboardFilter) (domain.UserRank, error) {
	f := filter.Normalize()
	if err := f.Validate(); err != nil {
		return domain.UserRank{}, err
	}
	// limit 0 marks the unpaginated ranking in the cache
	f.Limit, f.Offset = 0, 0

	key := f.CacheKey()
	full, ok := r.lookup(key)
	if !ok {
		gen := r.cache.Gen()
		all, err := r.rankAll(ctx, f)
		if err != nil {
			return domain.UserRank{}, err
		}
		full = domain.LeaderboardPage{Entries: all, TotalCount: len(all)}
		r.cache.SetIfGen(key, full, gen)
		full = clonePage(full)
	}

	res := domain.UserRank{UserID: userID, TotalUsers: full.TotalCount}
	idx := slices.IndexFunc(full.Entries, func(e domain.LeaderboardEntry) bool { return e.UserID == userID })
	if idx < 0 {
		return res, nil
	}

	entry := full.Entries[idx]
	res.Ranked = true
	res.Rank = entry.Rank
	res.Score = entry.TotalScore
	res.Percentile = percentile(entry.Rank, full.TotalCount)

	lo := max(0, idx-nearbyWindow)
	hi := min(len(full.Entries), idx+nearbyWindow+1)
	res.Nearby = full.Entries[lo:hi]
	return res, nil
}

// Invalidate clears every cached ranking.
func (r *Ranker) Invalidate() {
	r.cache.Clear()
	metrics.CacheInvalidations.Inc()
}

func (r *Ranker) lookup(key string) (domain.LeaderboardPage, bool) {
	page, ok := r.cache.Get(key)
	if !ok {
		metrics.CacheLookups.WithLabelValues("miss").Inc()
		return domain.LeaderboardPage{}, false
	}
	metrics.CacheLookups.WithLabelValues("hit").Inc()
	return clonePage(page), true
}

func (r *Ranker) rankAll(ctx context.Context, f domain.LeaderboardFilter) ([]domain.LeaderboardEntry, error) {
	users, err := r.users.ListUsersWithBadges(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users for leaderboard: %w", err)
	}

	cutoff, hasCutoff := f.Period.Cutoff(r.now())
	query := strings.ToLower(f.Search)

	entries := make([]domain.LeaderboardEntry, 0, len(users))
	for i := range users {
		u := &users[i]
		if f.Type == domain.LeaderboardSearch && !matchesSearch(u, query) {
			continue
		}

		var (
			scored    []domain.ScoredBadge
			total     int64
			breakdown = make(map[domain.Tier]int)
		)
		for _, b := range u.Badges {
			if hasCutoff && b.EarnedAt.Before(cutoff) {
				continue
			}
			sb, ok := r.calc.BadgeScore(b)
			if !ok {
				continue
			}
			if f.Type == domain.LeaderboardCategory && sb.Category != f.Category {
				continue
			}
			if f.Type == domain.LeaderboardTier && sb.Tier != f.Tier {
				continue
			}
			scored = append(scored, sb)
			total += sb.Score
			breakdown[sb.Tier]++
		}
		if len(scored) == 0 {
			continue
		}

		slices.SortFunc(scored, func(a, b domain.ScoredBadge) int {
			if c := cmp.Compare(b.Score, a.Score); c != 0 {
				return c
			}
			if c := b.EarnedAt.Compare(a.EarnedAt); c != 0 {
				return c
			}
			return cmp.Compare(a.BadgeID, b.BadgeID)
		})

		entries = append(entries, domain.LeaderboardEntry{
			UserID:         u.ID,
			DisplayName:    u.Name(),
			TotalScore:     total,
			BadgeCount:     len(scored),
			BadgeBreakdown: breakdown,
			TopBadges:      scored[:min(topBadgesPerEntry, len(scored))],
			JoinedAt:       u.CreatedAt,
		})
	}

	slices.SortFunc(entries, compareEntries)
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries, nil
}

// matchesSearch does a case-insensitive substring match on display name
// and username. query must already be lowercased.
func matchesSearch(u *domain.User, query string) bool {
	return strings.Contains(strings.ToLower(u.DisplayName), query) ||
		strings.Contains(strings.ToLower(u.Username), query)
}

// compareEntries orders by score desc, badge count desc, join date asc,
// then user id so equal users always land in the same order.
func compareEntries(a, b domain.LeaderboardEntry) int {
	if c := cmp.Compare(b.TotalScore, a.TotalScore); c != 0 {
		return c
	}
	if c := cmp.Compare(b.BadgeCount, a.BadgeCount); c != 0 {
		return c
	}
	if c := a.JoinedAt.Compare(b.JoinedAt); c != 0 {
		return c
	}
	return cmp.Compare(a.UserID, b.UserID)
}

func paginate(all []domain.LeaderboardEntry, limit, offset int) domain.LeaderboardPage {
	page := domain.LeaderboardPage{
		TotalCount: len(all),
		Limit:      limit,
		Offset:     offset,
		Entries:    []domain.LeaderboardEntry{},
	}
	if offset >= len(all) {
		return page
	}
	end := min(len(all), offset+limit)
	page.Entries = all[offset:end]
	page.HasMore = end < len(all)
	return page
}

// clonePage deep-copies p so neither the cache nor a caller can see the
// other's mutations.
func clonePage(p domain.LeaderboardPage) domain.LeaderboardPage {
	entries := make([]domain.LeaderboardEntry, len(p.Entries))
	for i, e := range p.Entries {
		e.BadgeBreakdown = maps.Clone(e.BadgeBreakdown)
		e.TopBadges = slices.Clone(e.TopBadges)
		entries[i] = e
	}
	p.Entries = entries
	return p
}

// percentile is the share of ranked users placed below rank, rounded.
func percentile(rank, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(total-rank) / float64(total) * 100))
}
