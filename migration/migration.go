package migration

import (
	"context"
	"embed"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	migratemysql "github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/kudoshq/backend/internal/entity"
	"github.com/kudoshq/backend/pkg/xcontext"
	"gorm.io/gorm"
)

//go:embed mysql/*
var mysqlFS embed.FS

// migrators run in order; the index is the schema version. Append only.
var migrators = []func(context.Context) error{
	migrate0000,
	migrate0001,
}

// Migrate brings the schema up to the latest version. Each migrator runs at
// most once; the applied version is tracked in the migrations table.
func Migrate(ctx context.Context) error {
	if err := xcontext.DB(ctx).AutoMigrate(&entity.Migration{}); err != nil {
		return err
	}

	current := -1
	var last entity.Migration
	err := xcontext.DB(ctx).Order("version DESC").Take(&last).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	if err == nil {
		current = last.Version
	}

	for version := current + 1; version < len(migrators); version++ {
		xcontext.Logger(ctx).Infof("Applying migration %04d", version)
		if err := migrators[version](ctx); err != nil {
			return err
		}

		if err := xcontext.DB(ctx).Create(&entity.Migration{Version: version}).Error; err != nil {
			return err
		}
	}

	return nil
}

// MigrateSQL runs the embedded SQL migrations against mysql. Deployments
// that cannot grant DDL rights to the service account use this path from an
// operator machine instead of Migrate.
func MigrateSQL(ctx context.Context) error {
	db, err := xcontext.DB(ctx).DB()
	if err != nil {
		return err
	}

	migrationDir, err := MigrationsTempDir()
	if err != nil {
		return err
	}
	defer os.RemoveAll(migrationDir)

	driver, err := migratemysql.WithInstance(db, &migratemysql.Config{})
	if err != nil {
		return err
	}

	m, err := migrate.NewWithDatabaseInstance(
		"file://"+migrationDir, xcontext.Configs(ctx).Database.Database, driver)
	if err != nil {
		return err
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}

	return nil
}

// MigrationsTempDir copies the embedded migration files into a temporary
// directory and returns its path, so the binary can migrate without shipping
// the files separately. The caller removes the directory.
func MigrationsTempDir() (string, error) {
	tmpDir, err := os.MkdirTemp("", "")
	if err != nil {
		return "", err
	}

	mFS, err := fs.Sub(mysqlFS, "mysql")
	if err != nil {
		return "", err
	}

	if err := fs.WalkDir(mFS, ".", func(path string, d fs.DirEntry, _ error) error {
		if d == nil || d.IsDir() {
			return nil
		}

		content, err := mysqlFS.ReadFile(filepath.Join("mysql", path))
		if err != nil {
			return err
		}

		return os.WriteFile(filepath.Join(tmpDir, path), content, 0600)
	}); err != nil {
		return "", err
	}

	return tmpDir, nil
}
