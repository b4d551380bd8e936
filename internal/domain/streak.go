package domain

import (
	"context"

	"github.com/kudoshq/backend/internal/domain/streak"
	"github.com/kudoshq/backend/internal/model"
	"github.com/kudoshq/backend/pkg/errorx"
	"github.com/kudoshq/backend/pkg/xcontext"
)

type StreakDomain interface {
	RecordLogin(context.Context, *model.RecordLoginRequest) (*model.RecordLoginResponse, error)
}

type streakDomain struct {
	engine streak.Engine
}

func NewStreakDomain(engine streak.Engine) StreakDomain {
	return &streakDomain{engine: engine}
}

func (d *streakDomain) RecordLogin(
	ctx context.Context, req *model.RecordLoginRequest,
) (*model.RecordLoginResponse, error) {
	if req.UserID == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow an empty user id")
	}

	result, err := d.engine.RecordLogin(ctx, req.UserID, req.Timezone)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot record login of %s: %v", req.UserID, err)
		return nil, errorx.New(errorx.ConcurrentUpdate, "Login conflicted, please retry")
	}

	resp := &model.RecordLoginResponse{
		CurrentLength:       result.CurrentLength,
		BestLength:          result.BestLength,
		LastDay:             result.LastDay,
		AlreadyCounted:      result.AlreadyCounted,
		DaysToNextMilestone: result.DaysToNextMilestone,
	}

	if result.Bonus != nil {
		resp.BonusMilestone = result.Bonus.Milestone
		resp.BonusPoints = result.Bonus.Points
	}

	return resp, nil
}
