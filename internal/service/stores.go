package service

import (
	"context"
	"time"

	"prompt_badges/internal/domain"
)

// UserStore is the durable user record: counters and the badge ledger.
type UserStore interface {
	GetUser(ctx context.Context, id int64) (*domain.User, error)
	ApplyStatsPatch(ctx context.Context, id int64, p domain.StatsPatch) error
	ListUserIDs(ctx context.Context, afterID int64, limit int) ([]int64, error)
}

// BadgeLedgerStore provides the two atomic ledger writes. Both report
// whether a row actually changed.
type BadgeLedgerStore interface {
	AppendBadgeIfAbsent(ctx context.Context, userID int64, b domain.UserBadge) (bool, error)
	SetBadgeLevelIfGreater(ctx context.Context, userID int64, badgeID string, level int, earnedAt time.Time, progress float64) (bool, error)
}

type PromptStore interface {
	ListByOwner(ctx context.Context, ownerID int64) ([]domain.Prompt, error)
}

type CommentStore interface {
	ListByAuthor(ctx context.Context, authorID int64) ([]domain.Comment, error)
	CountRepliesReceived(ctx context.Context, userID int64) (int64, error)
}
