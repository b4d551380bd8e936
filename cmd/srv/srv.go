package main

import (
	"context"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/bwmarrin/snowflake"
	"github.com/kudoshq/backend/config"
	"github.com/kudoshq/backend/internal/domain"
	"github.com/kudoshq/backend/internal/domain/score"
	"github.com/kudoshq/backend/internal/domain/statistic"
	"github.com/kudoshq/backend/internal/domain/streak"
	"github.com/kudoshq/backend/internal/repository"
	"github.com/kudoshq/backend/pkg/logger"
	"github.com/kudoshq/backend/pkg/xcontext"
	"github.com/kudoshq/backend/pkg/xredis"
	"github.com/urfave/cli/v2"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

type srv struct {
	ctx context.Context
	app *cli.App

	userRepo       repository.UserRepository
	scoreEventRepo repository.ScoreEventRepository
	totalRepo      repository.UserScoreTotalRepository
	streakRepo     repository.UserStreakRepository
	prestigeRepo   repository.UserPrestigeRepository
	modStatRepo    repository.UserModerationStatRepository
	snapshotRepo   repository.LeaderboardSnapshotRepository

	redisClient xredis.Client

	ledger       score.Ledger
	streakEngine streak.Engine
	leaderboard  statistic.Leaderboard

	scoreDomain      domain.ScoreDomain
	streakDomain     domain.StreakDomain
	statisticDomain  domain.StatisticDomain
	moderationDomain domain.ModerationDomain
}

func (s *srv) loadConfig() {
	configs := config.Configs{
		Env: "local",
		Leaderboard: config.LeaderboardConfigs{
			MaxLimit:     50,
			DefaultLimit: 10,
		},
	}

	path := os.Getenv("KUDOS_CONFIG")
	if path == "" {
		path = "config.toml"
	}

	if _, err := toml.DecodeFile(path, &configs); err != nil {
		panic(err)
	}

	if len(configs.Streak.Milestones) == 0 {
		configs.Streak.Milestones = config.DefaultMilestones
	}

	s.ctx = xcontext.WithConfigs(s.ctx, configs)
}

func (s *srv) loadLogger() {
	level := logger.INFO
	if xcontext.Configs(s.ctx).Env == "local" {
		level = logger.DEBUG
	}

	s.ctx = xcontext.WithLogger(s.ctx, logger.NewLogger(level))
}

func (s *srv) newDatabase() *gorm.DB {
	cfg := xcontext.Configs(s.ctx)
	db, err := gorm.Open(mysql.Open(cfg.Database.ConnectionString()), &gorm.Config{})
	if err != nil {
		panic(err)
	}

	return db
}

func (s *srv) loadSnowflake() {
	node, err := snowflake.NewNode(xcontext.Configs(s.ctx).Scoring.SnowflakeNode)
	if err != nil {
		panic(err)
	}

	s.ctx = xcontext.WithSnowflakeNode(s.ctx, node)
}

func (s *srv) loadRedisClient() {
	var err error
	s.redisClient, err = xredis.NewClient(s.ctx)
	if err != nil {
		panic(err)
	}
}

func (s *srv) loadRepos() {
	s.userRepo = repository.NewUserRepository()
	s.scoreEventRepo = repository.NewScoreEventRepository()
	s.totalRepo = repository.NewUserScoreTotalRepository()
	s.streakRepo = repository.NewUserStreakRepository()
	s.prestigeRepo = repository.NewUserPrestigeRepository()
	s.modStatRepo = repository.NewUserModerationStatRepository()
	s.snapshotRepo = repository.NewLeaderboardSnapshotRepository()
}

func (s *srv) loadDomains() {
	s.ledger = score.NewLedger(s.scoreEventRepo, s.totalRepo)
	s.streakEngine = streak.NewEngine(s.streakRepo, s.scoreEventRepo, s.ledger)
	s.leaderboard = statistic.New(
		s.scoreEventRepo, s.totalRepo, s.userRepo, s.snapshotRepo, s.redisClient)

	s.scoreDomain = domain.NewScoreDomain(
		s.userRepo, s.totalRepo, s.prestigeRepo, s.modStatRepo, s.streakRepo)
	s.streakDomain = domain.NewStreakDomain(s.streakEngine)
	s.statisticDomain = domain.NewStatisticDomain(s.leaderboard)
	s.moderationDomain = domain.NewModerationDomain(
		s.scoreEventRepo, s.modStatRepo, s.prestigeRepo, s.ledger)
}
