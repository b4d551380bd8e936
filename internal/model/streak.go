package model

type RecordLoginRequest struct {
	UserID string `json:"user_id"`

	// Timezone is an IANA name deciding the calendar day boundary.
	// Empty means UTC.
	Timezone string `json:"timezone"`
}

type RecordLoginResponse struct {
	CurrentLength  int    `json:"current_length"`
	BestLength     int    `json:"best_length"`
	LastDay        string `json:"last_day"`
	AlreadyCounted bool   `json:"already_counted"`

	BonusMilestone int     `json:"bonus_milestone,omitempty"`
	BonusPoints    float64 `json:"bonus_points,omitempty"`

	DaysToNextMilestone int `json:"days_to_next_milestone"`
}
