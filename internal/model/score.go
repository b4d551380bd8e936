package model

import "github.com/kudoshq/backend/internal/domain/badge"

type GetUserScoreRequest struct {
	UserID string `json:"user_id"`
}

type GetUserScoreResponse struct {
	UserID      string  `json:"user_id"`
	TotalPoints float64 `json:"total_points"`

	Level    badge.Level       `json:"level"`
	Prestige badge.PrestigeTier `json:"prestige"`

	ModApprovals int `json:"mod_approvals"`

	StreakLength int    `json:"streak_length"`
	BestStreak   int    `json:"best_streak"`
	LastLoginDay string `json:"last_login_day"`
}
