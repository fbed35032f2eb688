package domain

import "time"

// User - stored user record with the counters maintained outside the engine
type User struct {
	ID              int64      `db:"id" json:"id"`
	Username        string     `db:"username" json:"username"`
	DisplayName     string     `db:"display_name" json:"display_name"`
	CreatedAt       time.Time  `db:"created_at" json:"created_at"`
	TotalPrompts    int64      `db:"total_prompts" json:"total_prompts"`
	Followers       int64      `db:"followers" json:"followers"`
	Following       int64      `db:"following" json:"following"`
	ConsecutiveDays int64      `db:"consecutive_days" json:"consecutive_days"`
	LastActiveAt    *time.Time `db:"last_active_at" json:"last_active_at,omitempty"`

	Badges []UserBadge `json:"badges"`
}

// Name returns the display name, falling back to the username.
func (u *User) Name() string {
	if u.DisplayName != "" {
		return u.DisplayName
	}
	return u.Username
}

// Badge returns the held ledger entry for badgeID, nil if not held.
func (u *User) Badge(badgeID string) *UserBadge {
	for i := range u.Badges {
		if u.Badges[i].BadgeID == badgeID {
			return &u.Badges[i]
		}
	}
	return nil
}
