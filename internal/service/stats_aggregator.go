package service

import (
	"context"
	"fmt"
	"time"

	"prompt_badges/internal/domain"
)

// StatsAggregator builds a fresh UserStats snapshot on every call.
// Nothing it computes is stored.
type StatsAggregator struct {
	prompts  PromptStore
	comments CommentStore
	now      func() time.Time
}

func NewStatsAggregator(prompts PromptStore, comments CommentStore) *StatsAggregator {
	return &StatsAggregator{prompts: prompts, comments: comments, now: time.Now}
}

// Compute combines the stored counters of u with aggregates over the
// user's prompts and comments.
func (a *StatsAggregator) Compute(ctx context.Context, u *domain.User) (domain.UserStats, error) {
	stats := domain.UserStats{
		UserID:           u.ID,
		TotalPrompts:     u.TotalPrompts,
		Followers:        u.Followers,
		Following:        u.Following,
		ConsecutiveDays:  u.ConsecutiveDays,
		CategoriesUsed:   make(map[string]struct{}),
		AgentsUsed:       make(map[string]struct{}),
		AccountCreatedAt: u.CreatedAt,
		ComputedAt:       a.now(),
	}

	prompts, err := a.prompts.ListByOwner(ctx, u.ID)
	if err != nil {
		return domain.UserStats{}, fmt.Errorf("aggregate prompts: %w", err)
	}

	var ratingSum float64
	for _, p := range prompts {
		stats.TotalLikes += p.Likes
		stats.TotalSaves += p.Saves
		if p.Category != "" {
			stats.CategoriesUsed[p.Category] = struct{}{}
		}
		if p.Agent != "" {
			stats.AgentsUsed[p.Agent] = struct{}{}
		}
		if p.Rated() {
			stats.RatedPrompts++
			ratingSum += p.RatingAvg
			stats.HighestRating = max(stats.HighestRating, p.RatingAvg)
		}
	}
	if stats.RatedPrompts > 0 {
		stats.AverageRating = ratingSum / float64(stats.RatedPrompts)
	}

	comments, err := a.comments.ListByAuthor(ctx, u.ID)
	if err != nil {
		return domain.UserStats{}, fmt.Errorf("aggregate comments: %w", err)
	}
	stats.TotalComments = int64(len(comments))
	for _, c := range comments {
		stats.CommentLikes += c.Likes
	}

	stats.TotalReplies, err = a.comments.CountRepliesReceived(ctx, u.ID)
	if err != nil {
		return domain.UserStats{}, fmt.Errorf("aggregate replies: %w", err)
	}

	return stats, nil
}
