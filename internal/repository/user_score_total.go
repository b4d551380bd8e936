package repository

import (
	"context"

	"github.com/kudoshq/backend/internal/entity"
	"github.com/kudoshq/backend/pkg/xcontext"
	"gorm.io/gorm/clause"
)

type AllTimeFilter struct {
	Search string
	Offset int
	Limit  int
}

type UserScoreTotalRepository interface {
	Get(ctx context.Context, userID string) (*entity.UserScoreTotal, error)
	GetByUserIDs(ctx context.Context, userIDs []string) ([]entity.UserScoreTotal, error)
	GetForUpdate(ctx context.Context, userID string) (*entity.UserScoreTotal, error)
	CreateIfAbsent(ctx context.Context, userID string) error
	SetTotal(ctx context.Context, userID string, totalPoints int64) error
	AllTimeLeaderboard(ctx context.Context, filter AllTimeFilter) ([]UserPoints, error)
	AllTimeRank(ctx context.Context, userID string) (*RankedUser, error)
	AllTimeCount(ctx context.Context, filter AllTimeFilter) (int64, error)
}

type userScoreTotalRepository struct{}

func NewUserScoreTotalRepository() *userScoreTotalRepository {
	return &userScoreTotalRepository{}
}

func (r *userScoreTotalRepository) Get(ctx context.Context, userID string) (*entity.UserScoreTotal, error) {
	var result entity.UserScoreTotal
	if err := xcontext.DB(ctx).Take(&result, "user_id=?", userID).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *userScoreTotalRepository) GetByUserIDs(
	ctx context.Context, userIDs []string,
) ([]entity.UserScoreTotal, error) {
	result := []entity.UserScoreTotal{}
	if err := xcontext.DB(ctx).Find(&result, "user_id IN (?)", userIDs).Error; err != nil {
		return nil, err
	}

	return result, nil
}

// GetForUpdate reads the total row under a row lock. It must be called inside
// a transaction; the lock is held until the transaction finishes, so the
// holder always sees the latest committed total.
func (r *userScoreTotalRepository) GetForUpdate(ctx context.Context, userID string) (*entity.UserScoreTotal, error) {
	var result entity.UserScoreTotal
	if err := lockForUpdate(xcontext.DB(ctx)).Take(&result, "user_id=?", userID).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

// CreateIfAbsent inserts a zero total row, ignoring the conflict when another
// writer created it first. The caller re-reads under lock afterwards.
func (r *userScoreTotalRepository) CreateIfAbsent(ctx context.Context, userID string) error {
	return xcontext.DB(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&entity.UserScoreTotal{UserID: userID, TotalPoints: 0}).Error
}

func (r *userScoreTotalRepository) SetTotal(ctx context.Context, userID string, totalPoints int64) error {
	return xcontext.DB(ctx).Model(&entity.UserScoreTotal{}).
		Where("user_id=?", userID).
		Update("total_points", totalPoints).Error
}

// AllTimeLeaderboard ranks every known user by the materialized total,
// reading absent totals as zero. Ordering matches AllTimeRank verbatim.
func (r *userScoreTotalRepository) AllTimeLeaderboard(
	ctx context.Context, filter AllTimeFilter,
) ([]UserPoints, error) {
	result := []UserPoints{}
	tx := xcontext.DB(ctx).Model(&entity.User{}).
		Select("users.id AS user_id, COALESCE(user_score_totals.total_points, 0) AS points").
		Joins("LEFT JOIN user_score_totals ON user_score_totals.user_id = users.id").
		Order("points DESC, user_id ASC").
		Offset(filter.Offset)

	if filter.Limit > 0 {
		tx = tx.Limit(filter.Limit)
	}

	if filter.Search != "" {
		q := "%" + filter.Search + "%"
		tx = tx.Where("users.username LIKE ? OR users.name LIKE ? OR users.location LIKE ?", q, q, q)
	}

	if err := tx.Scan(&result).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (r *userScoreTotalRepository) AllTimeRank(ctx context.Context, userID string) (*RankedUser, error) {
	var result RankedUser
	err := xcontext.DB(ctx).Raw(`
		SELECT user_id, points, user_rank FROM (
			SELECT users.id AS user_id,
			       COALESCE(user_score_totals.total_points, 0) AS points,
			       ROW_NUMBER() OVER (
			           ORDER BY COALESCE(user_score_totals.total_points, 0) DESC, users.id ASC
			       ) AS user_rank
			FROM users
			LEFT JOIN user_score_totals ON user_score_totals.user_id = users.id
			WHERE users.deleted_at IS NULL
		) ranked WHERE user_id = ?`, userID).
		Take(&result).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *userScoreTotalRepository) AllTimeCount(ctx context.Context, filter AllTimeFilter) (int64, error) {
	tx := xcontext.DB(ctx).Model(&entity.User{})

	if filter.Search != "" {
		q := "%" + filter.Search + "%"
		tx = tx.Where("users.username LIKE ? OR users.name LIKE ? OR users.location LIKE ?", q, q, q)
	}

	var result int64
	if err := tx.Count(&result).Error; err != nil {
		return 0, err
	}

	return result, nil
}
