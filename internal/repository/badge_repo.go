package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"prompt_badges/internal/domain"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// foreign_key_violation
const pgForeignKeyViolation = "23503"

// BadgeRepository is the durable badge ledger: one row per (user, badge).
type BadgeRepository struct {
	db *pgxpool.Pool
}

func NewBadgeRepository(db *pgxpool.Pool) *BadgeRepository {
	return &BadgeRepository{db: db}
}

// AppendBadgeIfAbsent inserts b unless the user already holds the badge.
// applied is false when another writer got there first.
func (r *BadgeRepository) AppendBadgeIfAbsent(ctx context.Context, userID int64, b domain.UserBadge) (bool, error) {
	tag, err := r.db.Exec(ctx,
		`INSERT INTO user_badges (user_id, badge_id, level, progress, earned_at)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (user_id, badge_id) DO NOTHING`,
		userID, b.BadgeID, b.EffectiveLevel(), b.Progress, b.EarnedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation {
			return false, fmt.Errorf("user %d: %w", userID, domain.ErrNotFound)
		}
		return false, fmt.Errorf("append badge %s for user %d: %w", b.BadgeID, userID, err)
	}
	return tag.RowsAffected() == 1, nil
}

// SetBadgeLevelIfGreater raises the stored level only when level is strictly
// greater. earned_at never moves backwards.
func (r *BadgeRepository) SetBadgeLevelIfGreater(ctx context.Context, userID int64, badgeID string, level int, earnedAt time.Time, progress float64) (bool, error) {
	tag, err := r.db.Exec(ctx,
		`UPDATE user_badges
		 SET level = $3, progress = $5, earned_at = GREATEST(earned_at, $4)
		 WHERE user_id = $1 AND badge_id = $2 AND level < $3`,
		userID, badgeID, level, earnedAt, progress,
	)
	if err != nil {
		return false, fmt.Errorf("upgrade badge %s for user %d: %w", badgeID, userID, err)
	}
	return tag.RowsAffected() == 1, nil
}
