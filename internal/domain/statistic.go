package domain

import (
	"context"
	"time"

	"github.com/kudoshq/backend/internal/domain/statistic"
	"github.com/kudoshq/backend/internal/model"
	"github.com/kudoshq/backend/pkg/errorx"
	"github.com/kudoshq/backend/pkg/xcontext"
)

type StatisticDomain interface {
	GetLeaderboard(context.Context, *model.GetLeaderboardRequest) (*model.GetLeaderboardResponse, error)
	GetPaginatedLeaderboard(context.Context, *model.GetPaginatedLeaderboardRequest) (*model.GetPaginatedLeaderboardResponse, error)
	GetRank(context.Context, *model.GetRankRequest) (*model.GetRankResponse, error)
	GetLeaderboardAround(context.Context, *model.GetLeaderboardAroundRequest) (*model.GetLeaderboardAroundResponse, error)
}

type statisticDomain struct {
	leaderboard statistic.Leaderboard
}

func NewStatisticDomain(leaderboard statistic.Leaderboard) StatisticDomain {
	return &statisticDomain{leaderboard: leaderboard}
}

func (d *statisticDomain) GetLeaderboard(
	ctx context.Context, req *model.GetLeaderboardRequest,
) (*model.GetLeaderboardResponse, error) {
	period, err := statistic.ToPeriod(req.Period, time.Now())
	if err != nil {
		xcontext.Logger(ctx).Debugf("Invalid period: %v", err)
		return nil, errorx.New(errorx.BadRequest, "Invalid period %s", req.Period)
	}

	limit, err := d.clampLimit(ctx, req.Limit)
	if err != nil {
		return nil, err
	}

	entries, err := d.leaderboard.Get(ctx, period, limit)
	if err != nil {
		return nil, err
	}

	return &model.GetLeaderboardResponse{Leaderboard: entries}, nil
}

func (d *statisticDomain) GetPaginatedLeaderboard(
	ctx context.Context, req *model.GetPaginatedLeaderboardRequest,
) (*model.GetPaginatedLeaderboardResponse, error) {
	period, err := statistic.ToPeriod(req.Period, time.Now())
	if err != nil {
		xcontext.Logger(ctx).Debugf("Invalid period: %v", err)
		return nil, errorx.New(errorx.BadRequest, "Invalid period %s", req.Period)
	}

	if req.Offset < 0 {
		return nil, errorx.New(errorx.BadRequest, "Offset must not be negative")
	}

	limit, err := d.clampLimit(ctx, req.Limit)
	if err != nil {
		return nil, err
	}

	result, err := d.leaderboard.GetPaginated(ctx, period, model.PaginationFilter{
		Offset: req.Offset,
		Limit:  limit,
		Search: req.Search,
	})
	if err != nil {
		return nil, err
	}

	return &model.GetPaginatedLeaderboardResponse{
		Leaderboard: result.Entries,
		Total:       result.Total,
	}, nil
}

func (d *statisticDomain) GetRank(
	ctx context.Context, req *model.GetRankRequest,
) (*model.GetRankResponse, error) {
	period, err := statistic.ToPeriod(req.Period, time.Now())
	if err != nil {
		xcontext.Logger(ctx).Debugf("Invalid period: %v", err)
		return nil, errorx.New(errorx.BadRequest, "Invalid period %s", req.Period)
	}

	if req.UserID == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow an empty user id")
	}

	return d.leaderboard.GetRank(ctx, period, req.UserID)
}

func (d *statisticDomain) GetLeaderboardAround(
	ctx context.Context, req *model.GetLeaderboardAroundRequest,
) (*model.GetLeaderboardAroundResponse, error) {
	period, err := statistic.ToPeriod(req.Period, time.Now())
	if err != nil {
		xcontext.Logger(ctx).Debugf("Invalid period: %v", err)
		return nil, errorx.New(errorx.BadRequest, "Invalid period %s", req.Period)
	}

	if req.UserID == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow an empty user id")
	}

	if req.Radius < 0 {
		return nil, errorx.New(errorx.BadRequest, "Radius must not be negative")
	}

	radius := req.Radius
	if radius == 0 {
		radius = 2
	}

	entries, err := d.leaderboard.GetAround(ctx, period, req.UserID, radius)
	if err != nil {
		return nil, err
	}

	return &model.GetLeaderboardAroundResponse{Leaderboard: entries}, nil
}

func (d *statisticDomain) clampLimit(ctx context.Context, limit int) (int, error) {
	cfg := xcontext.Configs(ctx).Leaderboard
	if limit < 0 {
		return 0, errorx.New(errorx.BadRequest, "Limit must not be negative")
	}

	if limit == 0 {
		return cfg.DefaultLimit, nil
	}

	if limit > cfg.MaxLimit {
		return 0, errorx.New(errorx.BadRequest, "Exceed the maximum of limit (%d)", cfg.MaxLimit)
	}

	return limit, nil
}
