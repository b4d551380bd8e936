package model

type ApprovePostRequest struct {
	AuthorID string `json:"author_id"`
	PostID   string `json:"post_id"`
}

type ApprovePostResponse struct {
	TotalPoints  float64 `json:"total_points"`
	ModApprovals int     `json:"mod_approvals"`
}

type RejectPostRequest struct {
	AuthorID string `json:"author_id"`
	PostID   string `json:"post_id"`
}

type RejectPostResponse struct {
	Reversed bool `json:"reversed"`
}

type SetModeratorRequest struct {
	UserID      string `json:"user_id"`
	IsModerator bool   `json:"is_moderator"`
}

type SetModeratorResponse struct{}

type RecomputeApprovalsRequest struct {
	UserID string `json:"user_id"`
}

type RecomputeApprovalsResponse struct {
	ModApprovals int `json:"mod_approvals"`
}
