package model

import "github.com/kudoshq/backend/internal/domain/badge"

// LeaderboardEntry is one ranked row. Points are period points (unscaled);
// the level badge always reflects the all-time total so it does not flicker
// between period views.
type LeaderboardEntry struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Name     string `json:"name"`

	Points float64 `json:"points"`
	Rank   int     `json:"rank"`

	// PreviousRank is the rank in the preceding finished period, zero when
	// the user was absent from it.
	PreviousRank int `json:"previous_rank"`

	Level badge.Level `json:"level"`
}

type PaginationFilter struct {
	Offset int    `json:"offset"`
	Limit  int    `json:"limit"`
	Search string `json:"search"`
}

type PaginatedLeaderboard struct {
	Entries []LeaderboardEntry `json:"entries"`
	Total   int64              `json:"total"`
}

type GetLeaderboardRequest struct {
	Period string `json:"period"`
	Limit  int    `json:"limit"`
}

type GetLeaderboardResponse struct {
	Leaderboard []LeaderboardEntry `json:"leaderboard"`
}

type GetPaginatedLeaderboardRequest struct {
	Period string `json:"period"`
	Offset int    `json:"offset"`
	Limit  int    `json:"limit"`
	Search string `json:"search"`
}

type GetPaginatedLeaderboardResponse struct {
	Leaderboard []LeaderboardEntry `json:"leaderboard"`
	Total       int64              `json:"total"`
}

type GetRankRequest struct {
	Period string `json:"period"`
	UserID string `json:"user_id"`
}

type GetRankResponse struct {
	Rank         int     `json:"rank"`
	Points       float64 `json:"points"`
	PreviousRank int     `json:"previous_rank"`
}

type GetLeaderboardAroundRequest struct {
	Period string `json:"period"`
	UserID string `json:"user_id"`
	Radius int    `json:"radius"`
}

type GetLeaderboardAroundResponse struct {
	Leaderboard []LeaderboardEntry `json:"leaderboard"`
}
