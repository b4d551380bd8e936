package statistic

import (
	"context"
	"errors"

	"github.com/kudoshq/backend/internal/domain/badge"
	"github.com/kudoshq/backend/internal/domain/score"
	"github.com/kudoshq/backend/internal/model"
	"github.com/kudoshq/backend/internal/repository"
	"github.com/kudoshq/backend/pkg/errorx"
	"github.com/kudoshq/backend/pkg/xcontext"
	"github.com/kudoshq/backend/pkg/xredis"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Leaderboard interface {
	// Get returns the top ranked users of the period.
	Get(ctx context.Context, period Period, limit int) ([]model.LeaderboardEntry, error)

	// GetRank answers rank and points for one user over the identical
	// ranking universe and ordering Get uses. A user without activity in a
	// bounded period gets rank zero.
	GetRank(ctx context.Context, period Period, userID string) (*model.GetRankResponse, error)

	// GetPaginated pages through the ranking with an optional free-text
	// filter over username, name, and location.
	GetPaginated(ctx context.Context, period Period, filter model.PaginationFilter) (*model.PaginatedLeaderboard, error)

	// GetAround returns a contiguous rank window centered on the user.
	GetAround(ctx context.Context, period Period, userID string, radius int) ([]model.LeaderboardEntry, error)
}

type leaderboard struct {
	scoreEventRepo repository.ScoreEventRepository
	totalRepo      repository.UserScoreTotalRepository
	userRepo       repository.UserRepository
	snapshotRepo   repository.LeaderboardSnapshotRepository
	redisClient    xredis.Client
}

func New(
	scoreEventRepo repository.ScoreEventRepository,
	totalRepo repository.UserScoreTotalRepository,
	userRepo repository.UserRepository,
	snapshotRepo repository.LeaderboardSnapshotRepository,
	redisClient xredis.Client,
) *leaderboard {
	return &leaderboard{
		scoreEventRepo: scoreEventRepo,
		totalRepo:      totalRepo,
		userRepo:       userRepo,
		snapshotRepo:   snapshotRepo,
		redisClient:    redisClient,
	}
}

func (l *leaderboard) Get(
	ctx context.Context, period Period, limit int,
) ([]model.LeaderboardEntry, error) {
	rows, err := l.rows(ctx, period, repository.PeriodFilter{Limit: limit})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot load %s leaderboard: %v", period.Name(), err)
		return nil, errorx.Unknown
	}

	return l.enrich(ctx, period, rows, 0)
}

func (l *leaderboard) GetRank(
	ctx context.Context, period Period, userID string,
) (*model.GetRankResponse, error) {
	var ranked *repository.RankedUser
	var err error
	if period.Bounded() {
		ranked, err = l.scoreEventRepo.PeriodRank(ctx, period.Start(), period.End(), userID)
	} else {
		ranked, err = l.totalRepo.AllTimeRank(ctx, userID)
	}

	if err != nil {
		// No activity in the window is a zero-state, not a failure.
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &model.GetRankResponse{}, nil
		}

		xcontext.Logger(ctx).Errorf("Cannot compute %s rank of %s: %v", period.Name(), userID, err)
		return nil, errorx.Unknown
	}

	return &model.GetRankResponse{
		Rank:         int(ranked.UserRank),
		Points:       score.FromScaled(ranked.Points),
		PreviousRank: l.previousRank(ctx, period, userID),
	}, nil
}

func (l *leaderboard) GetPaginated(
	ctx context.Context, period Period, filter model.PaginationFilter,
) (*model.PaginatedLeaderboard, error) {
	rows, err := l.rows(ctx, period, repository.PeriodFilter{
		Search: filter.Search,
		Offset: filter.Offset,
		Limit:  filter.Limit,
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot load %s leaderboard page: %v", period.Name(), err)
		return nil, errorx.Unknown
	}

	var total int64
	if period.Bounded() {
		total, err = l.scoreEventRepo.PeriodCount(ctx, repository.PeriodFilter{
			Start:  period.Start(),
			End:    period.End(),
			Search: filter.Search,
		})
	} else {
		total, err = l.totalRepo.AllTimeCount(ctx, repository.AllTimeFilter{Search: filter.Search})
	}

	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot count %s leaderboard: %v", period.Name(), err)
		return nil, errorx.Unknown
	}

	entries, err := l.enrich(ctx, period, rows, filter.Offset)
	if err != nil {
		return nil, err
	}

	return &model.PaginatedLeaderboard{Entries: entries, Total: total}, nil
}

// GetAround loads the full ranked list and slices a window out of it. Fine
// at moderate scale; a keyset variant is the known follow-up once boards
// grow past tens of thousands of active users.
func (l *leaderboard) GetAround(
	ctx context.Context, period Period, userID string, radius int,
) ([]model.LeaderboardEntry, error) {
	rows, err := l.rows(ctx, period, repository.PeriodFilter{})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot load %s leaderboard: %v", period.Name(), err)
		return nil, errorx.Unknown
	}

	center := -1
	for i, row := range rows {
		if row.UserID == userID {
			center = i
			break
		}
	}

	if center < 0 {
		return []model.LeaderboardEntry{}, nil
	}

	start := center - radius
	if start < 0 {
		start = 0
	}

	end := center + radius + 1
	if end > len(rows) {
		end = len(rows)
	}

	return l.enrich(ctx, period, rows[start:end], start)
}

func (l *leaderboard) rows(
	ctx context.Context, period Period, filter repository.PeriodFilter,
) ([]repository.UserPoints, error) {
	if period.Bounded() {
		filter.Start = period.Start()
		filter.End = period.End()
		return l.scoreEventRepo.PeriodLeaderboard(ctx, filter)
	}

	return l.totalRepo.AllTimeLeaderboard(ctx, repository.AllTimeFilter{
		Search: filter.Search,
		Offset: filter.Offset,
		Limit:  filter.Limit,
	})
}

// enrich turns aggregated rows into display entries: profile fields, the
// all-time level badge, and the previous-period rank.
func (l *leaderboard) enrich(
	ctx context.Context, period Period, rows []repository.UserPoints, offset int,
) ([]model.LeaderboardEntry, error) {
	userIDs := make([]string, 0, len(rows))
	for _, row := range rows {
		userIDs = append(userIDs, row.UserID)
	}

	users, err := l.userRepo.GetByIDs(ctx, userIDs)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot load leaderboard users: %v", err)
		return nil, errorx.Unknown
	}

	userByID := make(map[string]int, len(users))
	for i, u := range users {
		userByID[u.ID] = i
	}

	// The level badge always reflects the all-time total, not period points,
	// so the badge does not change when switching period views.
	totalByUser := map[string]int64{}
	if period.Bounded() {
		totals, err := l.totalRepo.GetByUserIDs(ctx, userIDs)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot load score totals: %v", err)
			return nil, errorx.Unknown
		}

		for _, t := range totals {
			totalByUser[t.UserID] = t.TotalPoints
		}
	} else {
		for _, row := range rows {
			totalByUser[row.UserID] = row.Points
		}
	}

	prevRanks := l.previousRanks(ctx, period)

	entries := make([]model.LeaderboardEntry, 0, len(rows))
	for i, row := range rows {
		entry := model.LeaderboardEntry{
			UserID:       row.UserID,
			Points:       score.FromScaled(row.Points),
			Rank:         offset + i + 1,
			PreviousRank: prevRanks[row.UserID],
			Level:        badge.MapPointsToLevel(score.FromScaled(totalByUser[row.UserID])),
		}

		if idx, ok := userByID[row.UserID]; ok {
			entry.Username = users[idx].Username
			entry.Name = users[idx].Name
		}

		entries = append(entries, entry)
	}

	return entries, nil
}

// previousRank resolves the preceding-period rank of a single user. Unlike
// previousRanks, the redis fallback asks for just that member instead of
// materializing the whole archived board.
func (l *leaderboard) previousRank(ctx context.Context, period Period, userID string) int {
	prev := period.Previous()
	if prev == nil {
		return 0
	}

	snapshots, err := l.snapshotRepo.GetByPeriod(ctx, prev.Name(), prev.Start())
	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot load %s snapshot: %v", prev.Key(), err)
		return 0
	}

	if len(snapshots) > 0 {
		for _, s := range snapshots {
			if s.UserID == userID {
				return s.Rank
			}
		}

		return 0
	}

	key := RedisKeyLeaderboard(prev)
	ok, err := l.redisClient.Exist(ctx, key)
	if err != nil || !ok {
		return 0
	}

	rank, err := l.redisClient.ZRevRank(ctx, key, userID)
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			xcontext.Logger(ctx).Warnf("Cannot load %s rank of %s from redis: %v", key, userID, err)
		}

		return 0
	}

	return int(rank) + 1
}

// previousRanks loads the archived ranking of the preceding period. The
// snapshot table is authoritative; the redis warm copy only covers the case
// of a pruned archive. Failures degrade to an empty map because the previous
// rank is display sugar.
func (l *leaderboard) previousRanks(ctx context.Context, period Period) map[string]int {
	prev := period.Previous()
	if prev == nil {
		return nil
	}

	snapshots, err := l.snapshotRepo.GetByPeriod(ctx, prev.Name(), prev.Start())
	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot load %s snapshot: %v", prev.Key(), err)
		return nil
	}

	if len(snapshots) > 0 {
		ranks := make(map[string]int, len(snapshots))
		for _, s := range snapshots {
			ranks[s.UserID] = s.Rank
		}

		return ranks
	}

	key := RedisKeyLeaderboard(prev)
	ok, err := l.redisClient.Exist(ctx, key)
	if err != nil || !ok {
		return nil
	}

	zs, err := l.redisClient.ZRevRangeWithScores(ctx, key, 0, -1)
	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot load %s from redis: %v", key, err)
		return nil
	}

	ranks := make(map[string]int, len(zs))
	for i, z := range zs {
		member, ok := z.Member.(string)
		if !ok {
			continue
		}

		ranks[member] = i + 1
	}

	return ranks
}
