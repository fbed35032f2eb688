package domain

import "time"

// Prompt - a user-authored prompt with its engagement counters
type Prompt struct {
	ID          int64     `db:"id" json:"id"`
	OwnerID     int64     `db:"owner_id" json:"owner_id"`
	Category    string    `db:"category" json:"category"`
	Agent       string    `db:"agent" json:"agent"`
	Likes       int64     `db:"likes" json:"likes"`
	Saves       int64     `db:"saves" json:"saves"`
	RatingAvg   float64   `db:"rating_avg" json:"rating_avg"`
	RatingCount int64     `db:"rating_count" json:"rating_count"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// Rated reports whether anyone has rated the prompt.
func (p Prompt) Rated() bool {
	return p.RatingCount > 0
}

// Comment - a comment on a prompt; ParentID is set for replies
type Comment struct {
	ID        int64     `db:"id" json:"id"`
	AuthorID  int64     `db:"author_id" json:"author_id"`
	PromptID  int64     `db:"prompt_id" json:"prompt_id"`
	ParentID  *int64    `db:"parent_id" json:"parent_id,omitempty"`
	Likes     int64     `db:"likes" json:"likes"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
