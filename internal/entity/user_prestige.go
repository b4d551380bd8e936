package entity

import "time"

// UserPrestige stores only the moderator flag. The prestige tier itself is
// derived on every read and never persisted.
type UserPrestige struct {
	UserID string `gorm:"primaryKey"`
	User   User   `gorm:"foreignKey:UserID"`

	IsModerator bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// UserModerationStat caches the number of moderator approvals a user has
// received. It is redundant with counting MOD_APPROVED_BONUS events and can
// be recomputed from the ledger.
type UserModerationStat struct {
	UserID string `gorm:"primaryKey"`
	User   User   `gorm:"foreignKey:UserID"`

	ModApprovals int

	CreatedAt time.Time
	UpdatedAt time.Time
}
