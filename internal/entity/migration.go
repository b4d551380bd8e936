package entity

import "time"

// Migration records the schema version the gorm-driven migrator last applied.
type Migration struct {
	Version   int `gorm:"primaryKey"`
	CreatedAt time.Time
}
