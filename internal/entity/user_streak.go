package entity

import "time"

// UserStreak tracks consecutive-calendar-day login activity. LastDay is a
// calendar date string without a time component; the day boundary is decided
// by the timezone supplied on each login.
type UserStreak struct {
	UserID string `gorm:"primaryKey"`
	User   User   `gorm:"foreignKey:UserID"`

	CurrentLength int
	BestLength    int
	LastDay       string `gorm:"size:10"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
