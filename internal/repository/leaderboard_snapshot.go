package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/kudoshq/backend/internal/entity"
	"github.com/kudoshq/backend/pkg/xcontext"
	"github.com/puzpuzpuz/xsync"
	"gorm.io/gorm/clause"
)

type LeaderboardSnapshotRepository interface {
	BulkUpsert(ctx context.Context, snapshots []*entity.LeaderboardSnapshot) error
	GetByPeriod(ctx context.Context, period string, periodStart time.Time) ([]entity.LeaderboardSnapshot, error)
}

type leaderboardSnapshotRepository struct {
	// Snapshots of finished periods never change, so a process-local cache
	// avoids re-reading them on every leaderboard page.
	cache *xsync.MapOf[string, []entity.LeaderboardSnapshot]
}

func NewLeaderboardSnapshotRepository() *leaderboardSnapshotRepository {
	return &leaderboardSnapshotRepository{
		cache: xsync.NewMapOf[[]entity.LeaderboardSnapshot](),
	}
}

func snapshotCacheKey(period string, periodStart time.Time) string {
	return fmt.Sprintf("%s|%d", period, periodStart.Unix())
}

func (r *leaderboardSnapshotRepository) BulkUpsert(
	ctx context.Context, snapshots []*entity.LeaderboardSnapshot,
) error {
	if len(snapshots) == 0 {
		return nil
	}

	err := xcontext.DB(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "period"},
				{Name: "period_start"},
				{Name: "user_id"},
			},
			DoUpdates: clause.AssignmentColumns([]string{"points", "rank"}),
		}).
		Create(snapshots).Error
	if err != nil {
		return err
	}

	r.cache.Delete(snapshotCacheKey(snapshots[0].Period, snapshots[0].PeriodStart))
	return nil
}

func (r *leaderboardSnapshotRepository) GetByPeriod(
	ctx context.Context, period string, periodStart time.Time,
) ([]entity.LeaderboardSnapshot, error) {
	key := snapshotCacheKey(period, periodStart)
	if cached, ok := r.cache.Load(key); ok {
		return cached, nil
	}

	result := []entity.LeaderboardSnapshot{}
	err := xcontext.DB(ctx).
		Where("period=? AND period_start=?", period, periodStart).
		Order("`rank` ASC").
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	if len(result) > 0 {
		r.cache.Store(key, result)
	}

	return result, nil
}
