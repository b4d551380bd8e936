package main

import (
	"github.com/kudoshq/backend/internal/domain/cron"
	"github.com/kudoshq/backend/pkg/xcontext"
	"github.com/urfave/cli/v2"
)

func (s *srv) startCron(*cli.Context) error {
	s.ctx = xcontext.WithDB(s.ctx, s.newDatabase())
	s.loadSnowflake()
	s.loadRedisClient()
	s.loadRepos()

	cronJobManager := cron.NewCronJobManager()
	cronJobManager.Register(cron.NewLeaderboardSnapshotCronJob(
		s.scoreEventRepo, s.snapshotRepo, s.redisClient))
	cronJobManager.Start(s.ctx)

	return nil
}
