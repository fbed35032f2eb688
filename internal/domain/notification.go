package domain

import "time"

// BadgeNotification announces one applied award or level upgrade.
type BadgeNotification struct {
	UserID      int64     `json:"user_id"`
	BadgeID     string    `json:"badge_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Icon        string    `json:"icon,omitempty"`
	Tier        Tier      `json:"tier"`
	Category    Category  `json:"category"`
	Level       int       `json:"level"`
	Upgrade     bool      `json:"upgrade"`
	EarnedAt    time.Time `json:"earned_at"`
}
