package repository

import (
	"context"
	"fmt"

	"prompt_badges/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

type PromptRepository struct {
	db *pgxpool.Pool
}

func NewPromptRepository(db *pgxpool.Pool) *PromptRepository {
	return &PromptRepository{db: db}
}

// ListByOwner returns every prompt created by ownerID, oldest first.
func (r *PromptRepository) ListByOwner(ctx context.Context, ownerID int64) ([]domain.Prompt, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, owner_id, category, agent, likes, saves, rating_avg, rating_count, created_at
		 FROM prompts
		 WHERE owner_id = $1
		 ORDER BY created_at, id`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("list prompts of user %d: %w", ownerID, err)
	}
	defer rows.Close()

	var res []domain.Prompt
	for rows.Next() {
		var p domain.Prompt
		if err := rows.Scan(&p.ID, &p.OwnerID, &p.Category, &p.Agent, &p.Likes, &p.Saves,
			&p.RatingAvg, &p.RatingCount, &p.CreatedAt); err != nil {
			return nil, err
		}
		res = append(res, p)
	}
	return res, rows.Err()
}

// Create inserts p and fills its id and created_at.
func (r *PromptRepository) Create(ctx context.Context, p *domain.Prompt) error {
	return r.db.QueryRow(ctx,
		`INSERT INTO prompts (owner_id, category, agent, likes, saves, rating_avg, rating_count)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, created_at`,
		p.OwnerID, p.Category, p.Agent, p.Likes, p.Saves, p.RatingAvg, p.RatingCount,
	).Scan(&p.ID, &p.CreatedAt)
}
