package statistic

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/kudoshq/backend/internal/domain/score"
	"github.com/kudoshq/backend/internal/entity"
	"github.com/kudoshq/backend/internal/model"
	"github.com/kudoshq/backend/internal/repository"
	"github.com/kudoshq/backend/pkg/testutil"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newTestLeaderboard(redisClient *testutil.MockRedisClient) (Leaderboard, score.Ledger, repository.LeaderboardSnapshotRepository) {
	scoreEventRepo := repository.NewScoreEventRepository()
	totalRepo := repository.NewUserScoreTotalRepository()
	snapshotRepo := repository.NewLeaderboardSnapshotRepository()

	if redisClient == nil {
		redisClient = &testutil.MockRedisClient{}
	}

	leaderboard := New(
		scoreEventRepo, totalRepo, repository.NewUserRepository(), snapshotRepo, redisClient)

	return leaderboard, score.NewLedger(scoreEventRepo, totalRepo), snapshotRepo
}

func seedDailyScores(t *testing.T, ctx context.Context, ledger score.Ledger) {
	t.Helper()

	_, err := ledger.RecordEvents(ctx, []score.EventInput{
		{UserID: "user1", Type: entity.PostCreated, DeltaPoints: 5},
		{UserID: "user2", Type: entity.PostCreated, DeltaPoints: 10},
		{UserID: "user3", Type: entity.PostCreated, DeltaPoints: 7},
	})
	require.NoError(t, err)
}

func Test_leaderboard_Get_DailyOrdering(t *testing.T) {
	ctx := testutil.MockContext()
	leaderboard, ledger, _ := newTestLeaderboard(nil)
	seedDailyScores(t, ctx, ledger)

	entries, err := leaderboard.Get(ctx, NewPeriodDay(time.Now()), 10)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	require.Equal(t, "user2", entries[0].UserID)
	require.Equal(t, float64(10), entries[0].Points)
	require.Equal(t, 1, entries[0].Rank)
	require.Equal(t, "bob", entries[0].Username)

	require.Equal(t, "user3", entries[1].UserID)
	require.Equal(t, float64(7), entries[1].Points)
	require.Equal(t, 2, entries[1].Rank)

	require.Equal(t, "user1", entries[2].UserID)
	require.Equal(t, float64(5), entries[2].Points)
	require.Equal(t, 3, entries[2].Rank)
}

func Test_leaderboard_Get_TieBreaksByUserID(t *testing.T) {
	ctx := testutil.MockContext()
	leaderboard, ledger, _ := newTestLeaderboard(nil)

	_, err := ledger.RecordEvents(ctx, []score.EventInput{
		{UserID: "user2", Type: entity.PostCreated, DeltaPoints: 5},
		{UserID: "user1", Type: entity.PostCreated, DeltaPoints: 5},
		{UserID: "user3", Type: entity.PostCreated, DeltaPoints: 5},
	})
	require.NoError(t, err)

	entries, err := leaderboard.Get(ctx, NewPeriodDay(time.Now()), 10)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	require.Equal(t, "user1", entries[0].UserID)
	require.Equal(t, "user2", entries[1].UserID)
	require.Equal(t, "user3", entries[2].UserID)
}

func Test_leaderboard_GetRank_AgreesWithGet(t *testing.T) {
	ctx := testutil.MockContext()
	leaderboard, ledger, _ := newTestLeaderboard(nil)
	seedDailyScores(t, ctx, ledger)

	for _, period := range []Period{NewPeriodDay(time.Now()), NewPeriodAll()} {
		entries, err := leaderboard.Get(ctx, period, 10)
		require.NoError(t, err)

		for _, entry := range entries {
			ranked, err := leaderboard.GetRank(ctx, period, entry.UserID)
			require.NoError(t, err)
			require.Equal(t, entry.Rank, ranked.Rank, "period=%s user=%s", period.Name(), entry.UserID)
			require.Equal(t, entry.Points, ranked.Points, "period=%s user=%s", period.Name(), entry.UserID)
		}
	}
}

func Test_leaderboard_GetRank_NoActivity(t *testing.T) {
	ctx := testutil.MockContext()
	leaderboard, ledger, _ := newTestLeaderboard(nil)

	_, err := ledger.RecordEvents(ctx, []score.EventInput{
		{UserID: "user1", Type: entity.PostCreated, DeltaPoints: 5},
	})
	require.NoError(t, err)

	ranked, err := leaderboard.GetRank(ctx, NewPeriodDay(time.Now()), "user2")
	require.NoError(t, err)
	require.Zero(t, ranked.Rank)
	require.Zero(t, ranked.Points)
}

func Test_leaderboard_Get_AllTimeIncludesInactiveUsers(t *testing.T) {
	ctx := testutil.MockContext()
	leaderboard, ledger, _ := newTestLeaderboard(nil)

	_, err := ledger.RecordEvents(ctx, []score.EventInput{
		{UserID: "user3", Type: entity.PostCreated, DeltaPoints: 700},
	})
	require.NoError(t, err)

	entries, err := leaderboard.Get(ctx, NewPeriodAll(), 10)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	require.Equal(t, "user3", entries[0].UserID)
	require.Equal(t, 5, entries[0].Level.Level)

	// Users without any ledger activity still appear with zero points.
	require.Equal(t, "user1", entries[1].UserID)
	require.Zero(t, entries[1].Points)
	require.Equal(t, 1, entries[1].Level.Level)
	require.Equal(t, "user2", entries[2].UserID)
}

func Test_leaderboard_GetPaginated_Search(t *testing.T) {
	ctx := testutil.MockContext()
	leaderboard, ledger, _ := newTestLeaderboard(nil)
	seedDailyScores(t, ctx, ledger)

	result, err := leaderboard.GetPaginated(ctx, NewPeriodDay(time.Now()), model.PaginationFilter{
		Limit:  10,
		Search: "alice",
	})
	require.NoError(t, err)
	require.Equal(t, int64(1), result.Total)
	require.Len(t, result.Entries, 1)
	require.Equal(t, "user1", result.Entries[0].UserID)
}

func Test_leaderboard_GetPaginated_Offset(t *testing.T) {
	ctx := testutil.MockContext()
	leaderboard, ledger, _ := newTestLeaderboard(nil)
	seedDailyScores(t, ctx, ledger)

	result, err := leaderboard.GetPaginated(ctx, NewPeriodDay(time.Now()), model.PaginationFilter{
		Offset: 1,
		Limit:  10,
	})
	require.NoError(t, err)
	require.Equal(t, int64(3), result.Total)
	require.Len(t, result.Entries, 2)
	require.Equal(t, "user3", result.Entries[0].UserID)
	require.Equal(t, 2, result.Entries[0].Rank)
	require.Equal(t, "user1", result.Entries[1].UserID)
	require.Equal(t, 3, result.Entries[1].Rank)
}

func Test_leaderboard_GetAround(t *testing.T) {
	ctx := testutil.MockContext()
	leaderboard, ledger, _ := newTestLeaderboard(nil)
	seedDailyScores(t, ctx, ledger)

	entries, err := leaderboard.GetAround(ctx, NewPeriodDay(time.Now()), "user3", 1)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	require.Equal(t, "user2", entries[0].UserID)
	require.Equal(t, "user3", entries[1].UserID)
	require.Equal(t, "user1", entries[2].UserID)
	require.Equal(t, 2, entries[1].Rank)

	missing, err := leaderboard.GetAround(ctx, NewPeriodDay(time.Now()), "user4", 1)
	require.NoError(t, err)
	require.Empty(t, missing)
}

func Test_leaderboard_PreviousRankFromSnapshot(t *testing.T) {
	ctx := testutil.MockContext()
	leaderboard, ledger, snapshotRepo := newTestLeaderboard(nil)
	seedDailyScores(t, ctx, ledger)

	prev := NewPeriodDay(time.Now()).Previous()
	require.NoError(t, snapshotRepo.BulkUpsert(ctx, []*entity.LeaderboardSnapshot{
		{
			Base:        entity.Base{ID: uuid.NewString()},
			Period:      prev.Name(),
			PeriodStart: prev.Start(),
			UserID:      "user1",
			Points:      12000,
			Rank:        1,
		},
		{
			Base:        entity.Base{ID: uuid.NewString()},
			Period:      prev.Name(),
			PeriodStart: prev.Start(),
			UserID:      "user2",
			Points:      3000,
			Rank:        2,
		},
	}))

	entries, err := leaderboard.Get(ctx, NewPeriodDay(time.Now()), 10)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	require.Equal(t, "user2", entries[0].UserID)
	require.Equal(t, 2, entries[0].PreviousRank)
	require.Equal(t, "user3", entries[1].UserID)
	require.Zero(t, entries[1].PreviousRank)
	require.Equal(t, "user1", entries[2].UserID)
	require.Equal(t, 1, entries[2].PreviousRank)
}

func Test_leaderboard_PreviousRankFromRedis(t *testing.T) {
	redisClient := &testutil.MockRedisClient{
		ExistFunc: func(ctx context.Context, key string) (bool, error) {
			return true, nil
		},
		ZRevRangeWithScoresFunc: func(ctx context.Context, key string, offset, limit int) ([]redis.Z, error) {
			return []redis.Z{
				{Member: "user3", Score: 9000},
				{Member: "user2", Score: 4000},
			}, nil
		},
	}

	ctx := testutil.MockContext()
	leaderboard, ledger, _ := newTestLeaderboard(redisClient)
	seedDailyScores(t, ctx, ledger)

	entries, err := leaderboard.Get(ctx, NewPeriodDay(time.Now()), 10)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	require.Equal(t, 2, entries[0].PreviousRank) // user2
	require.Equal(t, 1, entries[1].PreviousRank) // user3
	require.Zero(t, entries[2].PreviousRank)     // user1
}

func Test_leaderboard_GetRank_PreviousRankFromSnapshot(t *testing.T) {
	ctx := testutil.MockContext()
	leaderboard, ledger, snapshotRepo := newTestLeaderboard(nil)
	seedDailyScores(t, ctx, ledger)

	prev := NewPeriodDay(time.Now()).Previous()
	require.NoError(t, snapshotRepo.BulkUpsert(ctx, []*entity.LeaderboardSnapshot{
		{
			Base:        entity.Base{ID: uuid.NewString()},
			Period:      prev.Name(),
			PeriodStart: prev.Start(),
			UserID:      "user1",
			Points:      12000,
			Rank:        1,
		},
	}))

	ranked, err := leaderboard.GetRank(ctx, NewPeriodDay(time.Now()), "user1")
	require.NoError(t, err)
	require.Equal(t, 3, ranked.Rank)
	require.Equal(t, 1, ranked.PreviousRank)

	ranked, err = leaderboard.GetRank(ctx, NewPeriodDay(time.Now()), "user2")
	require.NoError(t, err)
	require.Equal(t, 1, ranked.Rank)
	require.Zero(t, ranked.PreviousRank)
}

func Test_leaderboard_GetRank_PreviousRankFromRedis(t *testing.T) {
	redisClient := &testutil.MockRedisClient{
		ExistFunc: func(ctx context.Context, key string) (bool, error) {
			return true, nil
		},
		ZRevRankFunc: func(ctx context.Context, key string, member string) (uint64, error) {
			if member == "user3" {
				return 0, nil
			}

			return 0, redis.Nil
		},
	}

	ctx := testutil.MockContext()
	leaderboard, ledger, _ := newTestLeaderboard(redisClient)
	seedDailyScores(t, ctx, ledger)

	ranked, err := leaderboard.GetRank(ctx, NewPeriodDay(time.Now()), "user3")
	require.NoError(t, err)
	require.Equal(t, 2, ranked.Rank)
	require.Equal(t, 1, ranked.PreviousRank)

	ranked, err = leaderboard.GetRank(ctx, NewPeriodDay(time.Now()), "user1")
	require.NoError(t, err)
	require.Zero(t, ranked.PreviousRank)
}

func Test_ToPeriod(t *testing.T) {
	for _, name := range []string{"daily", "weekly", "monthly", "all"} {
		period, err := ToPeriod(name, time.Now())
		require.NoError(t, err)
		require.Equal(t, name, period.Name())
	}

	_, err := ToPeriod("hourly", time.Now())
	require.Error(t, err)
}
