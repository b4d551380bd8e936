package main

import (
	"github.com/kudoshq/backend/migration"
	"github.com/kudoshq/backend/pkg/xcontext"
	"github.com/urfave/cli/v2"
)

func (s *srv) startMigrate(*cli.Context) error {
	s.ctx = xcontext.WithDB(s.ctx, s.newDatabase())
	return migration.Migrate(s.ctx)
}

func (s *srv) startMigrateSQL(*cli.Context) error {
	s.ctx = xcontext.WithDB(s.ctx, s.newDatabase())
	return migration.MigrateSQL(s.ctx)
}
