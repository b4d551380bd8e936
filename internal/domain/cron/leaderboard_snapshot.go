package cron

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/kudoshq/backend/internal/domain/statistic"
	"github.com/kudoshq/backend/internal/entity"
	"github.com/kudoshq/backend/internal/repository"
	"github.com/kudoshq/backend/pkg/dateutil"
	"github.com/kudoshq/backend/pkg/xcontext"
	"github.com/kudoshq/backend/pkg/xredis"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
)

// LeaderboardSnapshotCronJob archives the final ranking of every period that
// just finished and warms a redis copy of it. Snapshots feed the
// previous-rank column; the live leaderboard is computed from the ledger and
// never waits on this job.
type LeaderboardSnapshotCronJob struct {
	scoreEventRepo repository.ScoreEventRepository
	snapshotRepo   repository.LeaderboardSnapshotRepository
	redisClient    xredis.Client
}

func NewLeaderboardSnapshotCronJob(
	scoreEventRepo repository.ScoreEventRepository,
	snapshotRepo repository.LeaderboardSnapshotRepository,
	redisClient xredis.Client,
) *LeaderboardSnapshotCronJob {
	return &LeaderboardSnapshotCronJob{
		scoreEventRepo: scoreEventRepo,
		snapshotRepo:   snapshotRepo,
		redisClient:    redisClient,
	}
}

func (job *LeaderboardSnapshotCronJob) Do(ctx context.Context) {
	now := time.Now()
	periods := []statistic.Period{
		statistic.NewPeriodDay(now).Previous(),
		statistic.NewPeriodWeek(now).Previous(),
		statistic.NewPeriodMonth(now).Previous(),
	}

	group, groupCtx := errgroup.WithContext(ctx)
	for _, period := range periods {
		period := period
		group.Go(func() error {
			return job.archive(groupCtx, period)
		})
	}

	if err := group.Wait(); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot archive leaderboards: %v", err)
	}
}

func (job *LeaderboardSnapshotCronJob) RunNow() bool {
	// Upserts make re-running cheap, and running at boot backfills any
	// rollover missed while the process was down.
	return true
}

func (job *LeaderboardSnapshotCronJob) Next() time.Time {
	// All three period boundaries fall on a UTC midnight.
	return dateutil.NextDay(time.Now())
}

func (job *LeaderboardSnapshotCronJob) archive(ctx context.Context, period statistic.Period) error {
	rows, err := job.scoreEventRepo.PeriodLeaderboard(ctx, repository.PeriodFilter{
		Start: period.Start(),
		End:   period.End(),
	})
	if err != nil {
		return err
	}

	if len(rows) == 0 {
		return nil
	}

	snapshots := make([]*entity.LeaderboardSnapshot, 0, len(rows))
	for i, row := range rows {
		snapshots = append(snapshots, &entity.LeaderboardSnapshot{
			Base:        entity.Base{ID: uuid.NewString()},
			Period:      period.Name(),
			PeriodStart: period.Start(),
			UserID:      row.UserID,
			Points:      row.Points,
			Rank:        i + 1,
		})
	}

	if err := job.snapshotRepo.BulkUpsert(ctx, snapshots); err != nil {
		return err
	}

	job.warmRedis(ctx, period, rows)
	return nil
}

// warmRedis mirrors the archived board into a ZSET keyed by the period. The
// redis copy is best effort; the snapshot table already committed.
func (job *LeaderboardSnapshotCronJob) warmRedis(
	ctx context.Context, period statistic.Period, rows []repository.UserPoints,
) {
	key := statistic.RedisKeyLeaderboard(period)
	if err := job.redisClient.Del(ctx, key); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot reset redis key %s: %v", key, err)
		return
	}

	for _, row := range rows {
		err := job.redisClient.ZAdd(ctx, key, redis.Z{
			Score:  float64(row.Points),
			Member: row.UserID,
		})
		if err != nil {
			xcontext.Logger(ctx).Warnf("Cannot warm redis key %s: %v", key, err)
			return
		}
	}
}
