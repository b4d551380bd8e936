package repository

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// lockForUpdate appends FOR UPDATE on engines that support row locks. The
// sqlite dialect used by tests has a single-writer model and rejects the
// clause, so it is skipped there.
func lockForUpdate(db *gorm.DB) *gorm.DB {
	if db.Dialector.Name() == "mysql" {
		return db.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	return db
}
