package domain

import (
	"context"
	"errors"

	"github.com/kudoshq/backend/internal/domain/badge"
	"github.com/kudoshq/backend/internal/domain/score"
	"github.com/kudoshq/backend/internal/model"
	"github.com/kudoshq/backend/internal/repository"
	"github.com/kudoshq/backend/pkg/errorx"
	"github.com/kudoshq/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type ScoreDomain interface {
	GetUserScore(context.Context, *model.GetUserScoreRequest) (*model.GetUserScoreResponse, error)
}

type scoreDomain struct {
	userRepo     repository.UserRepository
	totalRepo    repository.UserScoreTotalRepository
	prestigeRepo repository.UserPrestigeRepository
	modStatRepo  repository.UserModerationStatRepository
	streakRepo   repository.UserStreakRepository
}

func NewScoreDomain(
	userRepo repository.UserRepository,
	totalRepo repository.UserScoreTotalRepository,
	prestigeRepo repository.UserPrestigeRepository,
	modStatRepo repository.UserModerationStatRepository,
	streakRepo repository.UserStreakRepository,
) ScoreDomain {
	return &scoreDomain{
		userRepo:     userRepo,
		totalRepo:    totalRepo,
		prestigeRepo: prestigeRepo,
		modStatRepo:  modStatRepo,
		streakRepo:   streakRepo,
	}
}

// GetUserScore assembles the full engagement profile of one user. Rows the
// user never touched read as zero state rather than errors.
func (d *scoreDomain) GetUserScore(
	ctx context.Context, req *model.GetUserScoreRequest,
) (*model.GetUserScoreResponse, error) {
	if req.UserID == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow an empty user id")
	}

	if _, err := d.userRepo.GetByID(ctx, req.UserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found user %s", req.UserID)
		}

		xcontext.Logger(ctx).Errorf("Cannot get user %s: %v", req.UserID, err)
		return nil, errorx.Unknown
	}

	resp := &model.GetUserScoreResponse{UserID: req.UserID}

	total, err := d.totalRepo.Get(ctx, req.UserID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		xcontext.Logger(ctx).Errorf("Cannot get score total of %s: %v", req.UserID, err)
		return nil, errorx.Unknown
	}

	if total != nil {
		resp.TotalPoints = score.FromScaled(total.TotalPoints)
	}

	modStat, err := d.modStatRepo.Get(ctx, req.UserID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		xcontext.Logger(ctx).Errorf("Cannot get moderation stat of %s: %v", req.UserID, err)
		return nil, errorx.Unknown
	}

	if modStat != nil {
		resp.ModApprovals = modStat.ModApprovals
	}

	prestige, err := d.prestigeRepo.Get(ctx, req.UserID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		xcontext.Logger(ctx).Errorf("Cannot get prestige of %s: %v", req.UserID, err)
		return nil, errorx.Unknown
	}

	isModerator := prestige != nil && prestige.IsModerator

	streak, err := d.streakRepo.Get(ctx, req.UserID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		xcontext.Logger(ctx).Errorf("Cannot get streak of %s: %v", req.UserID, err)
		return nil, errorx.Unknown
	}

	if streak != nil {
		resp.StreakLength = streak.CurrentLength
		resp.BestStreak = streak.BestLength
		resp.LastLoginDay = streak.LastDay
	}

	resp.Level = badge.MapPointsToLevel(resp.TotalPoints)
	resp.Prestige = badge.MapPrestige(resp.TotalPoints, resp.ModApprovals, isModerator)

	return resp, nil
}
