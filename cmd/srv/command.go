package main

import "github.com/urfave/cli/v2"

func (s *srv) loadApp() {
	app := cli.NewApp()
	app.Action = cli.ShowAppHelp
	app.Name = "Kudos"
	app.Usage = "Engagement scoring service"
	app.Commands = []*cli.Command{
		{
			Action:      server.startMigrate,
			Name:        "migrate",
			Usage:       "Bring the database schema up to date",
			Category:    "Database",
			Description: `Applies every pending schema migration through gorm.`,
		},
		{
			Action:      server.startMigrateSQL,
			Name:        "migrate-sql",
			Usage:       "Run the raw SQL migrations",
			Category:    "Database",
			Description: `Applies the embedded SQL migration files. Meant for deployments where the service account has no DDL rights and an operator migrates separately.`,
		},
		{
			Action:      server.startCron,
			Name:        "cron",
			Usage:       "Start the cron worker",
			Category:    "Worker",
			Description: `Archives finished leaderboard periods and warms the redis copies.`,
		},
	}

	s.app = app
}
