package repository

import (
	"context"

	"github.com/kudoshq/backend/internal/entity"
	"github.com/kudoshq/backend/pkg/xcontext"
	"gorm.io/gorm/clause"
)

type UserPrestigeRepository interface {
	Get(ctx context.Context, userID string) (*entity.UserPrestige, error)
	SetModerator(ctx context.Context, userID string, isModerator bool) error
}

type userPrestigeRepository struct{}

func NewUserPrestigeRepository() *userPrestigeRepository {
	return &userPrestigeRepository{}
}

func (r *userPrestigeRepository) Get(ctx context.Context, userID string) (*entity.UserPrestige, error) {
	var result entity.UserPrestige
	if err := xcontext.DB(ctx).Take(&result, "user_id=?", userID).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *userPrestigeRepository) SetModerator(ctx context.Context, userID string, isModerator bool) error {
	return xcontext.DB(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.Assignments(map[string]any{"is_moderator": isModerator}),
		}).
		Create(&entity.UserPrestige{UserID: userID, IsModerator: isModerator}).Error
}
