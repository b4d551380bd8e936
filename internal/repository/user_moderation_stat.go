package repository

import (
	"context"

	"github.com/kudoshq/backend/internal/entity"
	"github.com/kudoshq/backend/pkg/xcontext"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserModerationStatRepository interface {
	Get(ctx context.Context, userID string) (*entity.UserModerationStat, error)
	AddApprovals(ctx context.Context, userID string, delta int) error
	SetApprovals(ctx context.Context, userID string, approvals int) error
}

type userModerationStatRepository struct{}

func NewUserModerationStatRepository() *userModerationStatRepository {
	return &userModerationStatRepository{}
}

func (r *userModerationStatRepository) Get(ctx context.Context, userID string) (*entity.UserModerationStat, error) {
	var result entity.UserModerationStat
	if err := xcontext.DB(ctx).Take(&result, "user_id=?", userID).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

// AddApprovals adjusts the cached approval counter, clamping at zero so a
// reversal racing ahead of its approval cannot drive the count negative.
func (r *userModerationStatRepository) AddApprovals(ctx context.Context, userID string, delta int) error {
	if delta >= 0 {
		return xcontext.DB(ctx).
			Clauses(clause.OnConflict{
				Columns: []clause.Column{{Name: "user_id"}},
				DoUpdates: clause.Assignments(map[string]any{
					"mod_approvals": gorm.Expr("mod_approvals + ?", delta),
				}),
			}).
			Create(&entity.UserModerationStat{UserID: userID, ModApprovals: delta}).Error
	}

	return xcontext.DB(ctx).Model(&entity.UserModerationStat{}).
		Where("user_id=?", userID).
		Update("mod_approvals", gorm.Expr(
			"CASE WHEN mod_approvals + ? < 0 THEN 0 ELSE mod_approvals + ? END", delta, delta,
		)).Error
}

func (r *userModerationStatRepository) SetApprovals(ctx context.Context, userID string, approvals int) error {
	return xcontext.DB(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.Assignments(map[string]any{"mod_approvals": approvals}),
		}).
		Create(&entity.UserModerationStat{UserID: userID, ModApprovals: approvals}).Error
}
