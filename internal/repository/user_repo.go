package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"prompt_badges/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UserRepository struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, username, display_name, created_at, total_prompts, followers, following,
	consecutive_days, last_active_at`

func scanUser(row pgx.Row, u *domain.User) error {
	return row.Scan(
		&u.ID,
		&u.Username,
		&u.DisplayName,
		&u.CreatedAt,
		&u.TotalPrompts,
		&u.Followers,
		&u.Following,
		&u.ConsecutiveDays,
		&u.LastActiveAt,
	)
}

// GetUser returns the stored counters and the badge ledger of one user.
func (r *UserRepository) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	var u domain.User
	err := scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id), &u)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("user %d: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get user %d: %w", id, err)
	}

	rows, err := r.db.Query(ctx,
		`SELECT badge_id, level, progress, earned_at
		 FROM user_badges
		 WHERE user_id = $1
		 ORDER BY earned_at, badge_id`,
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("get badges of user %d: %w", id, err)
	}
	defer rows.Close()

	for rows.Next() {
		var b domain.UserBadge
		if err := rows.Scan(&b.BadgeID, &b.Level, &b.Progress, &b.EarnedAt); err != nil {
			return nil, err
		}
		u.Badges = append(u.Badges, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &u, nil
}

// Create inserts a user with zeroed counters.
func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	return r.db.QueryRow(ctx,
		`INSERT INTO users (username, display_name)
		 VALUES ($1, $2)
		 RETURNING id, created_at`,
		u.Username,
		u.DisplayName,
	).Scan(&u.ID, &u.CreatedAt)
}

// ApplyStatsPatch merges p into the stored counters in one statement.
// Increments never drive a counter below zero.
func (r *UserRepository) ApplyStatsPatch(ctx context.Context, id int64, p domain.StatsPatch) error {
	if err := p.Validate(); err != nil {
		return err
	}

	var (
		sets []string
		args = []any{id}
	)
	arg := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	for _, field := range sortedFields(p.Set) {
		sets = append(sets, fmt.Sprintf("%s = %s", field, arg(p.Set[field])))
	}
	for _, field := range sortedFields(p.Increment) {
		sets = append(sets, fmt.Sprintf("%[1]s = GREATEST(%[1]s + %[2]s, 0)", field, arg(p.Increment[field])))
	}
	if p.LastActiveAt != nil {
		sets = append(sets, "last_active_at = "+arg(*p.LastActiveAt))
	}

	tag, err := r.db.Exec(ctx,
		`UPDATE users SET `+strings.Join(sets, ", ")+` WHERE id = $1`,
		args...,
	)
	if err != nil {
		return fmt.Errorf("patch stats of user %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("user %d: %w", id, domain.ErrNotFound)
	}
	return nil
}

// sortedFields only returns columns that exist on users; Validate has
// already rejected anything else.
func sortedFields(m map[domain.StatField]int64) []domain.StatField {
	out := make([]domain.StatField, 0, len(m))
	for f := range m {
		if domain.PatchableStats[f] {
			out = append(out, f)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// ListUsersWithBadges returns every user holding at least one badge,
// badges attached. Users without badges never appear on a leaderboard.
func (r *UserRepository) ListUsersWithBadges(ctx context.Context) ([]domain.User, error) {
	rows, err := r.db.Query(ctx, `
		SELECT u.id, u.username, u.display_name, u.created_at,
		       b.badge_id, b.level, b.progress, b.earned_at
		FROM users u
		JOIN user_badges b ON b.user_id = u.id
		ORDER BY u.id, b.earned_at, b.badge_id`)
	if err != nil {
		return nil, fmt.Errorf("list users with badges: %w", err)
	}
	defer rows.Close()

	var res []domain.User
	for rows.Next() {
		var (
			u domain.User
			b domain.UserBadge
		)
		if err := rows.Scan(&u.ID, &u.Username, &u.DisplayName, &u.CreatedAt,
			&b.BadgeID, &b.Level, &b.Progress, &b.EarnedAt); err != nil {
			return nil, err
		}
		if n := len(res); n > 0 && res[n-1].ID == u.ID {
			res[n-1].Badges = append(res[n-1].Badges, b)
			continue
		}
		u.Badges = []domain.UserBadge{b}
		res = append(res, u)
	}
	return res, rows.Err()
}

// ListUserIDs pages through user ids in ascending order, starting after afterID.
func (r *UserRepository) ListUserIDs(ctx context.Context, afterID int64, limit int) ([]int64, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id FROM users WHERE id > $1 ORDER BY id LIMIT $2`,
		afterID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list user ids: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
