package service

import (
	"context"

	"prompt_badges/internal/domain"
)

// Ranker is implemented by leaderboard.Ranker.
type Ranker interface {
	Rank(ctx context.Context, filter domain.LeaderboardFilter) (domain.LeaderboardPage, error)
	UserRank(ctx context.Context, userID int64, filter domain.LeaderboardFilter) (domain.UserRank, error)
}

type LeaderboardService struct {
	users  UserStore
	ranker Ranker
}

func NewLeaderboardService(users UserStore, ranker Ranker) *LeaderboardService {
	return &LeaderboardService{users: users, ranker: ranker}
}

func (s *LeaderboardService) GetLeaderboard(ctx context.Context, filter domain.LeaderboardFilter) (domain.LeaderboardPage, error) {
	return s.ranker.Rank(ctx, filter)
}

// GetUserRank places userID in the ranking selected by filter. Unknown
// users are ErrNotFound; known users without counted badges come back
// with Ranked=false.
func (s *LeaderboardService) GetUserRank(ctx context.Context, userID int64, filter domain.LeaderboardFilter) (domain.UserRank, error) {
	f := filter.Normalize()
	if err := f.Validate(); err != nil {
		return domain.UserRank{}, err
	}
	if _, err := s.users.GetUser(ctx, userID); err != nil {
		return domain.UserRank{}, err
	}
	return s.ranker.UserRank(ctx, userID, f)
}
