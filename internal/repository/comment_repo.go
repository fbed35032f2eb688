package repository

import (
	"context"
	"fmt"

	"prompt_badges/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

type CommentRepository struct {
	db *pgxpool.Pool
}

func NewCommentRepository(db *pgxpool.Pool) *CommentRepository {
	return &CommentRepository{db: db}
}

// ListByAuthor returns every comment written by authorID, replies included.
func (r *CommentRepository) ListByAuthor(ctx context.Context, authorID int64) ([]domain.Comment, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, author_id, prompt_id, parent_id, likes, created_at
		 FROM comments
		 WHERE author_id = $1
		 ORDER BY created_at, id`,
		authorID,
	)
	if err != nil {
		return nil, fmt.Errorf("list comments of user %d: %w", authorID, err)
	}
	defer rows.Close()

	var res []domain.Comment
	for rows.Next() {
		var c domain.Comment
		if err := rows.Scan(&c.ID, &c.AuthorID, &c.PromptID, &c.ParentID, &c.Likes, &c.CreatedAt); err != nil {
			return nil, err
		}
		res = append(res, c)
	}
	return res, rows.Err()
}

// CountRepliesReceived counts replies other users left on userID's comments.
func (r *CommentRepository) CountRepliesReceived(ctx context.Context, userID int64) (int64, error) {
	var n int64
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*)
		 FROM comments reply
		 JOIN comments parent ON parent.id = reply.parent_id
		 WHERE parent.author_id = $1 AND reply.author_id <> $1`,
		userID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count replies to user %d: %w", userID, err)
	}
	return n, nil
}

// Create inserts c and fills its id and created_at.
func (r *CommentRepository) Create(ctx context.Context, c *domain.Comment) error {
	return r.db.QueryRow(ctx,
		`INSERT INTO comments (author_id, prompt_id, parent_id, likes)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at`,
		c.AuthorID, c.PromptID, c.ParentID, c.Likes,
	).Scan(&c.ID, &c.CreatedAt)
}
