package entity

import "time"

// LeaderboardSnapshot archives one rank row of a finished period. The live
// leaderboard never reads it; it feeds historical display and the
// previous-rank column.
type LeaderboardSnapshot struct {
	Base

	Period      string    `gorm:"uniqueIndex:idx_snapshot_period_user,priority:1"`
	PeriodStart time.Time `gorm:"uniqueIndex:idx_snapshot_period_user,priority:2"`
	UserID      string    `gorm:"uniqueIndex:idx_snapshot_period_user,priority:3"`
	User        User      `gorm:"foreignKey:UserID"`

	// Points is a scaled integer.
	Points int64
	Rank   int
}
