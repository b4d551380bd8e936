package score

import (
	"testing"

	"github.com/kudoshq/backend/internal/entity"
	"github.com/kudoshq/backend/internal/repository"
	"github.com/kudoshq/backend/pkg/testutil"
	"github.com/stretchr/testify/require"
)

func Test_ledger_RecordEvents(t *testing.T) {
	ctx := testutil.MockContext()
	scoreEventRepo := repository.NewScoreEventRepository()
	totalRepo := repository.NewUserScoreTotalRepository()
	ledger := NewLedger(scoreEventRepo, totalRepo)

	result, err := ledger.RecordEvents(ctx, []EventInput{{
		UserID:      "user1",
		Type:        entity.PostCreated,
		DeltaPoints: 2,
		RefType:     "post",
		RefID:       "post1",
	}})
	require.NoError(t, err)
	require.Equal(t, int64(2000), result.Totals["user1"])

	result, err = ledger.RecordEvents(ctx, []EventInput{{
		UserID:      "user1",
		Type:        entity.ReplyCreated,
		DeltaPoints: 3,
		RefType:     "reply",
		RefID:       "reply1",
	}})
	require.NoError(t, err)
	require.Equal(t, int64(5000), result.Totals["user1"])

	total, err := totalRepo.Get(ctx, "user1")
	require.NoError(t, err)
	require.Equal(t, int64(5000), total.TotalPoints)
	require.Equal(t, float64(5), FromScaled(total.TotalPoints))
}

func Test_ledger_RecordEvents_CoalescesBatch(t *testing.T) {
	ctx := testutil.MockContext()
	scoreEventRepo := repository.NewScoreEventRepository()
	totalRepo := repository.NewUserScoreTotalRepository()
	ledger := NewLedger(scoreEventRepo, totalRepo)

	result, err := ledger.RecordEvents(ctx, []EventInput{
		{UserID: "user1", Type: entity.PostCreated, DeltaPoints: 5},
		{UserID: "user2", Type: entity.ReplyCreated, DeltaPoints: 2},
		{UserID: "user1", Type: entity.ReactionReceived, DeltaPoints: 0.5},
		{UserID: "user1", Type: entity.AdminAdjust, DeltaPoints: -1},
	})
	require.NoError(t, err)
	require.Len(t, result.Events, 4)
	require.Equal(t, int64(4500), result.Totals["user1"])
	require.Equal(t, int64(2000), result.Totals["user2"])

	// Every event lands as its own ledger row even when coalesced into one
	// total update.
	sum, err := scoreEventRepo.SumDeltaByUserID(ctx, "user1")
	require.NoError(t, err)
	require.Equal(t, int64(4500), sum)
}

func Test_ledger_RecordEvents_ConservesLedgerSum(t *testing.T) {
	ctx := testutil.MockContext()
	scoreEventRepo := repository.NewScoreEventRepository()
	totalRepo := repository.NewUserScoreTotalRepository()
	ledger := NewLedger(scoreEventRepo, totalRepo)

	deltas := []float64{1, 2.5, -0.5, 10, -3}
	for _, delta := range deltas {
		_, err := ledger.RecordEvents(ctx, []EventInput{
			{UserID: "user1", Type: entity.AdminAdjust, DeltaPoints: delta},
		})
		require.NoError(t, err)
	}

	sum, err := scoreEventRepo.SumDeltaByUserID(ctx, "user1")
	require.NoError(t, err)

	total, err := totalRepo.Get(ctx, "user1")
	require.NoError(t, err)
	require.Equal(t, sum, total.TotalPoints)
	require.Equal(t, int64(10000), total.TotalPoints)
}

func Test_ledger_RecordEvents_RepairsDivergedTotal(t *testing.T) {
	ctx := testutil.MockContext()
	scoreEventRepo := repository.NewScoreEventRepository()
	totalRepo := repository.NewUserScoreTotalRepository()
	ledger := NewLedger(scoreEventRepo, totalRepo)

	_, err := ledger.RecordEvents(ctx, []EventInput{
		{UserID: "user1", Type: entity.PostCreated, DeltaPoints: 5},
	})
	require.NoError(t, err)

	// Corrupt the materialized total behind the ledger's back.
	require.NoError(t, totalRepo.SetTotal(ctx, "user1", 999999))

	result, err := ledger.RecordEvents(ctx, []EventInput{
		{UserID: "user1", Type: entity.ReplyCreated, DeltaPoints: 1},
	})
	require.NoError(t, err)
	require.Equal(t, int64(6000), result.Totals["user1"])

	total, err := totalRepo.Get(ctx, "user1")
	require.NoError(t, err)
	require.Equal(t, int64(6000), total.TotalPoints)
}

func Test_ledger_RecordEvents_EmptyBatch(t *testing.T) {
	ctx := testutil.MockContext()
	ledger := NewLedger(repository.NewScoreEventRepository(), repository.NewUserScoreTotalRepository())

	result, err := ledger.RecordEvents(ctx, nil)
	require.NoError(t, err)
	require.Empty(t, result.Events)
	require.Empty(t, result.Totals)
}

func Test_ToScaled(t *testing.T) {
	require.Equal(t, int64(1000), ToScaled(1))
	require.Equal(t, int64(500), ToScaled(0.5))
	require.Equal(t, int64(-1500), ToScaled(-1.5))
	require.Equal(t, int64(1), ToScaled(0.0005))
	require.Equal(t, int64(-1), ToScaled(-0.0005))
	require.Equal(t, float64(2.5), FromScaled(2500))
}
