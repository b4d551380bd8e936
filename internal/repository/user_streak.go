package repository

import (
	"context"

	"github.com/kudoshq/backend/internal/entity"
	"github.com/kudoshq/backend/pkg/xcontext"
	"gorm.io/gorm/clause"
)

type UserStreakRepository interface {
	Get(ctx context.Context, userID string) (*entity.UserStreak, error)
	GetForUpdate(ctx context.Context, userID string) (*entity.UserStreak, error)
	CreateIfAbsent(ctx context.Context, data *entity.UserStreak) error
	Update(ctx context.Context, data *entity.UserStreak) error
}

type userStreakRepository struct{}

func NewUserStreakRepository() *userStreakRepository {
	return &userStreakRepository{}
}

func (r *userStreakRepository) Get(ctx context.Context, userID string) (*entity.UserStreak, error) {
	var result entity.UserStreak
	if err := xcontext.DB(ctx).Take(&result, "user_id=?", userID).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *userStreakRepository) GetForUpdate(ctx context.Context, userID string) (*entity.UserStreak, error) {
	var result entity.UserStreak
	if err := lockForUpdate(xcontext.DB(ctx)).Take(&result, "user_id=?", userID).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *userStreakRepository) CreateIfAbsent(ctx context.Context, data *entity.UserStreak) error {
	return xcontext.DB(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(data).Error
}

func (r *userStreakRepository) Update(ctx context.Context, data *entity.UserStreak) error {
	return xcontext.DB(ctx).Model(&entity.UserStreak{}).
		Where("user_id=?", data.UserID).
		Updates(map[string]any{
			"current_length": data.CurrentLength,
			"best_length":    data.BestLength,
			"last_day":       data.LastDay,
		}).Error
}
