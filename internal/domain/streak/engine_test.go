package streak

import (
	"testing"
	"time"

	"github.com/kudoshq/backend/internal/domain/score"
	"github.com/kudoshq/backend/internal/entity"
	"github.com/kudoshq/backend/internal/repository"
	"github.com/kudoshq/backend/pkg/dateutil"
	"github.com/kudoshq/backend/pkg/testutil"
	"github.com/kudoshq/backend/pkg/xcontext"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestEngine() (Engine, repository.UserStreakRepository, repository.UserScoreTotalRepository) {
	scoreEventRepo := repository.NewScoreEventRepository()
	totalRepo := repository.NewUserScoreTotalRepository()
	streakRepo := repository.NewUserStreakRepository()
	ledger := score.NewLedger(scoreEventRepo, totalRepo)

	return NewEngine(streakRepo, scoreEventRepo, ledger), streakRepo, totalRepo
}

func Test_engine_RecordLogin_FirstLogin(t *testing.T) {
	ctx := testutil.MockContext()
	engine, _, _ := newTestEngine()

	result, err := engine.RecordLogin(ctx, "user1", "")
	require.NoError(t, err)
	require.Equal(t, 1, result.CurrentLength)
	require.Equal(t, 1, result.BestLength)
	require.False(t, result.AlreadyCounted)
	require.Nil(t, result.Bonus)
	require.Equal(t, 6, result.DaysToNextMilestone)
	require.Equal(t, dateutil.DayString(time.Now(), ""), result.LastDay)
}

func Test_engine_RecordLogin_SameDayIsIdempotent(t *testing.T) {
	ctx := testutil.MockContext()
	engine, _, _ := newTestEngine()

	first, err := engine.RecordLogin(ctx, "user1", "")
	require.NoError(t, err)
	require.False(t, first.AlreadyCounted)

	second, err := engine.RecordLogin(ctx, "user1", "")
	require.NoError(t, err)
	require.True(t, second.AlreadyCounted)
	require.Equal(t, first.CurrentLength, second.CurrentLength)
	require.Equal(t, first.BestLength, second.BestLength)
}

func Test_engine_RecordLogin_ExtendsFromYesterday(t *testing.T) {
	ctx := testutil.MockContext()
	engine, streakRepo, _ := newTestEngine()

	require.NoError(t, streakRepo.CreateIfAbsent(ctx, &entity.UserStreak{
		UserID:        "user1",
		CurrentLength: 4,
		BestLength:    9,
		LastDay:       dateutil.PreviousDayString(time.Now(), ""),
	}))

	result, err := engine.RecordLogin(ctx, "user1", "")
	require.NoError(t, err)
	require.Equal(t, 5, result.CurrentLength)
	require.Equal(t, 9, result.BestLength)
	require.Equal(t, 2, result.DaysToNextMilestone)
}

func Test_engine_RecordLogin_ResetsAfterGap(t *testing.T) {
	ctx := testutil.MockContext()
	engine, streakRepo, _ := newTestEngine()

	gapDay := dateutil.DayString(time.Now().AddDate(0, 0, -3), "")
	require.NoError(t, streakRepo.CreateIfAbsent(ctx, &entity.UserStreak{
		UserID:        "user1",
		CurrentLength: 50,
		BestLength:    50,
		LastDay:       gapDay,
	}))

	result, err := engine.RecordLogin(ctx, "user1", "")
	require.NoError(t, err)
	require.Equal(t, 1, result.CurrentLength)

	// Best length never shrinks on a reset.
	require.Equal(t, 50, result.BestLength)
}

func Test_engine_RecordLogin_MilestoneBonus(t *testing.T) {
	ctx := testutil.MockContext()
	engine, streakRepo, totalRepo := newTestEngine()

	require.NoError(t, streakRepo.CreateIfAbsent(ctx, &entity.UserStreak{
		UserID:        "user1",
		CurrentLength: 6,
		BestLength:    6,
		LastDay:       dateutil.PreviousDayString(time.Now(), ""),
	}))

	result, err := engine.RecordLogin(ctx, "user1", "")
	require.NoError(t, err)
	require.Equal(t, 7, result.CurrentLength)
	require.NotNil(t, result.Bonus)
	require.Equal(t, 7, result.Bonus.Milestone)
	require.Equal(t, float64(10), result.Bonus.Points)

	total, err := totalRepo.Get(ctx, "user1")
	require.NoError(t, err)
	require.Equal(t, int64(10000), total.TotalPoints)
}

func Test_engine_RecordLogin_MilestoneBonusPaidOnce(t *testing.T) {
	ctx := testutil.MockContext()
	engine, streakRepo, totalRepo := newTestEngine()

	// The user already received the 7-day bonus from an earlier streak that
	// broke afterwards.
	yesterday := dateutil.PreviousDayString(time.Now(), "")
	require.NoError(t, streakRepo.CreateIfAbsent(ctx, &entity.UserStreak{
		UserID:        "user1",
		CurrentLength: 6,
		BestLength:    12,
		LastDay:       yesterday,
	}))

	scoreEventRepo := repository.NewScoreEventRepository()
	ledger := score.NewLedger(scoreEventRepo, totalRepo)
	_, err := ledger.RecordEvents(ctx, []score.EventInput{{
		UserID:      "user1",
		Type:        entity.StreakBonus,
		DeltaPoints: 10,
		RefType:     "streak",
		RefID:       "streak-7",
	}})
	require.NoError(t, err)

	result, err := engine.RecordLogin(ctx, "user1", "")
	require.NoError(t, err)
	require.Equal(t, 7, result.CurrentLength)
	require.Nil(t, result.Bonus)

	total, err := totalRepo.Get(ctx, "user1")
	require.NoError(t, err)
	require.Equal(t, int64(10000), total.TotalPoints)
}

func Test_engine_RecordLogin_TimezoneDecidesDay(t *testing.T) {
	ctx := testutil.MockContext()
	engine, streakRepo, _ := newTestEngine()

	result, err := engine.RecordLogin(ctx, "user1", "Asia/Ho_Chi_Minh")
	require.NoError(t, err)
	require.Equal(t, dateutil.DayString(time.Now(), "Asia/Ho_Chi_Minh"), result.LastDay)

	streak, err := streakRepo.Get(ctx, "user1")
	require.NoError(t, err)
	require.Equal(t, result.LastDay, streak.LastDay)
}

func Test_engine_RecordLogin_InvalidTimezoneFallsBackToUTC(t *testing.T) {
	ctx := testutil.MockContext()
	engine, _, _ := newTestEngine()

	result, err := engine.RecordLogin(ctx, "user1", "Not/AZone")
	require.NoError(t, err)
	require.Equal(t, dateutil.DayString(time.Now(), ""), result.LastDay)
}

func Test_engine_RecordLogin_JoinsCallerTransaction(t *testing.T) {
	ctx := testutil.MockContext()
	engine, streakRepo, _ := newTestEngine()

	txCtx := xcontext.WithDBTransaction(ctx)
	result, err := engine.RecordLogin(txCtx, "user1", "")
	require.NoError(t, err)
	require.Equal(t, 1, result.CurrentLength)

	// Commit ownership stays with the caller, so rolling back the outer
	// transaction discards the streak mutation.
	xcontext.WithRollbackDBTransaction(txCtx)

	_, err = streakRepo.Get(ctx, "user1")
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
