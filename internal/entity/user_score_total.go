package entity

import "time"

// UserScoreTotal is the materialized running sum over ScoreEvent. It is a
// repairable cache; the ledger stays the source of truth.
type UserScoreTotal struct {
	UserID string `gorm:"primaryKey"`
	User   User   `gorm:"foreignKey:UserID"`

	// TotalPoints is a scaled integer.
	TotalPoints int64

	CreatedAt time.Time
	UpdatedAt time.Time
}
