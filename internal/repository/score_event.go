package repository

import (
	"context"
	"time"

	"github.com/kudoshq/backend/internal/entity"
	"github.com/kudoshq/backend/pkg/xcontext"
)

// UserPoints is one aggregated leaderboard row before enrichment.
type UserPoints struct {
	UserID string
	Points int64
}

// RankedUser carries the window-function rank computed by the database.
type RankedUser struct {
	UserID   string
	Points   int64
	UserRank int64
}

type PeriodFilter struct {
	Start time.Time
	End   time.Time

	// Search matches against username, name, and location of the user.
	Search string

	Offset int
	Limit  int
}

type ScoreEventRepository interface {
	BulkInsert(ctx context.Context, events []*entity.ScoreEvent) error
	SumDeltaByUserID(ctx context.Context, userID string) (int64, error)
	CountByTypeAndUserID(ctx context.Context, eventType entity.ScoreEventType, userID string) (int64, error)
	ExistsByRef(ctx context.Context, userID string, eventType entity.ScoreEventType, refID string) (bool, error)
	PeriodLeaderboard(ctx context.Context, filter PeriodFilter) ([]UserPoints, error)
	PeriodRank(ctx context.Context, start, end time.Time, userID string) (*RankedUser, error)
	PeriodCount(ctx context.Context, filter PeriodFilter) (int64, error)
}

type scoreEventRepository struct{}

func NewScoreEventRepository() *scoreEventRepository {
	return &scoreEventRepository{}
}

func (r *scoreEventRepository) BulkInsert(ctx context.Context, events []*entity.ScoreEvent) error {
	return xcontext.DB(ctx).Create(events).Error
}

func (r *scoreEventRepository) SumDeltaByUserID(ctx context.Context, userID string) (int64, error) {
	var result int64
	err := xcontext.DB(ctx).Model(&entity.ScoreEvent{}).
		Select("COALESCE(SUM(delta), 0)").
		Where("user_id=?", userID).
		Scan(&result).Error
	if err != nil {
		return 0, err
	}

	return result, nil
}

func (r *scoreEventRepository) CountByTypeAndUserID(
	ctx context.Context, eventType entity.ScoreEventType, userID string,
) (int64, error) {
	var result int64
	err := xcontext.DB(ctx).Model(&entity.ScoreEvent{}).
		Where("user_id=? AND type=?", userID, eventType).
		Count(&result).Error
	if err != nil {
		return 0, err
	}

	return result, nil
}

func (r *scoreEventRepository) ExistsByRef(
	ctx context.Context, userID string, eventType entity.ScoreEventType, refID string,
) (bool, error) {
	var result int64
	err := xcontext.DB(ctx).Model(&entity.ScoreEvent{}).
		Where("user_id=? AND type=? AND ref_id=?", userID, eventType, refID).
		Count(&result).Error
	if err != nil {
		return false, err
	}

	return result > 0, nil
}

// PeriodLeaderboard sums ledger deltas per user inside [start, end). Only
// users with at least one event in the window appear. The ORDER BY clause is
// shared verbatim with PeriodRank so both views agree on ranks.
func (r *scoreEventRepository) PeriodLeaderboard(
	ctx context.Context, filter PeriodFilter,
) ([]UserPoints, error) {
	result := []UserPoints{}
	tx := xcontext.DB(ctx).Model(&entity.ScoreEvent{}).
		Select("score_events.user_id AS user_id, SUM(score_events.delta) AS points").
		Where("score_events.created_at >= ? AND score_events.created_at < ?", filter.Start, filter.End).
		Group("score_events.user_id").
		Order("points DESC, user_id ASC").
		Offset(filter.Offset)

	if filter.Limit > 0 {
		tx = tx.Limit(filter.Limit)
	}

	if filter.Search != "" {
		q := "%" + filter.Search + "%"
		tx = tx.Joins("JOIN users ON users.id = score_events.user_id").
			Where("users.username LIKE ? OR users.name LIKE ? OR users.location LIKE ?", q, q, q)
	}

	if err := tx.Scan(&result).Error; err != nil {
		return nil, err
	}

	return result, nil
}

// PeriodRank computes the rank of a single user with a window function over
// the identical aggregate shape PeriodLeaderboard uses. Returns
// gorm.ErrRecordNotFound when the user has no event in the window.
func (r *scoreEventRepository) PeriodRank(
	ctx context.Context, start, end time.Time, userID string,
) (*RankedUser, error) {
	var result RankedUser
	err := xcontext.DB(ctx).Raw(`
		SELECT user_id, points, user_rank FROM (
			SELECT user_id,
			       SUM(delta) AS points,
			       ROW_NUMBER() OVER (ORDER BY SUM(delta) DESC, user_id ASC) AS user_rank
			FROM score_events
			WHERE created_at >= ? AND created_at < ?
			GROUP BY user_id
		) ranked WHERE user_id = ?`, start, end, userID).
		Take(&result).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *scoreEventRepository) PeriodCount(ctx context.Context, filter PeriodFilter) (int64, error) {
	tx := xcontext.DB(ctx).Model(&entity.ScoreEvent{}).
		Select("score_events.user_id").
		Where("score_events.created_at >= ? AND score_events.created_at < ?", filter.Start, filter.End).
		Group("score_events.user_id")

	if filter.Search != "" {
		q := "%" + filter.Search + "%"
		tx = tx.Joins("JOIN users ON users.id = score_events.user_id").
			Where("users.username LIKE ? OR users.name LIKE ? OR users.location LIKE ?", q, q, q)
	}

	var result int64
	if err := xcontext.DB(ctx).Table("(?) AS period_users", tx).Count(&result).Error; err != nil {
		return 0, err
	}

	return result, nil
}
