package testutil

import (
	"context"
	"fmt"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"github.com/kudoshq/backend/config"
	"github.com/kudoshq/backend/internal/entity"
	"github.com/kudoshq/backend/internal/repository"
	"github.com/kudoshq/backend/pkg/logger"
	"github.com/kudoshq/backend/pkg/xcontext"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// MockContext builds a context carrying everything domains expect at
// runtime: an in-memory database with the fixture rows, test configs, a
// silent logger, and a snowflake node.
func MockContext() context.Context {
	ctx := context.Background()
	ctx = xcontext.WithConfigs(ctx, MockConfigs())
	ctx = xcontext.WithLogger(ctx, logger.NewLogger(logger.SILENCE))
	ctx = xcontext.WithDB(ctx, CreateFixtureDb())

	node, err := snowflake.NewNode(0)
	if err != nil {
		panic(err)
	}

	return xcontext.WithSnowflakeNode(ctx, node)
}

func MockContextWithUserID(userID string) context.Context {
	return xcontext.WithRequestUserID(MockContext(), userID)
}

func MockConfigs() config.Configs {
	return config.Configs{
		Env: "testing",
		Scoring: config.ScoringConfigs{
			CheckIntegrity: true,
		},
		Streak: config.StreakConfigs{
			Milestones: config.DefaultMilestones,
		},
		Leaderboard: config.LeaderboardConfigs{
			MaxLimit:     50,
			DefaultLimit: 10,
		},
	}
}

func CreateFixtureDb() *gorm.DB {
	// A named shared-cache memory database keeps every pooled connection on
	// the same data while staying isolated between fixtures.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		panic(err)
	}

	if err := entity.MigrateTable(db); err != nil {
		panic(err)
	}

	InsertUsers(db)
	return db
}

func InsertUsers(db *gorm.DB) {
	userRepo := repository.NewUserRepository()
	ctx := xcontext.WithDB(context.Background(), db)

	users := []entity.User{
		{Base: entity.Base{ID: "user1"}, Username: "alice", Name: "Alice Nguyen", Location: "Hanoi"},
		{Base: entity.Base{ID: "user2"}, Username: "bob", Name: "Bob Tran", Location: "Saigon"},
		{Base: entity.Base{ID: "user3"}, Username: "carol", Name: "Carol Le", Location: "Danang"},
	}

	for i := range users {
		if err := userRepo.Create(ctx, &users[i]); err != nil {
			panic(err)
		}
	}
}
