package entity

import (
	"gorm.io/gorm"
)

// MigrateTable creates or updates every table this core owns. Used by dev
// setups and the sqlite test fixture; production schemas go through the
// migration package.
func MigrateTable(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&ScoreEvent{},
		&UserScoreTotal{},
		&UserStreak{},
		&UserPrestige{},
		&UserModerationStat{},
		&LeaderboardSnapshot{},
	)
}
