package domain

import (
	"context"

	"github.com/kudoshq/backend/internal/domain/score"
	"github.com/kudoshq/backend/internal/entity"
	"github.com/kudoshq/backend/internal/model"
	"github.com/kudoshq/backend/internal/repository"
	"github.com/kudoshq/backend/pkg/errorx"
	"github.com/kudoshq/backend/pkg/xcontext"
)

// ModApprovedPoints is the bonus a post author receives when a moderator
// approves the post. Rejection after approval reverses exactly this amount.
const ModApprovedPoints = 15

type ModerationDomain interface {
	ApprovePost(context.Context, *model.ApprovePostRequest) (*model.ApprovePostResponse, error)
	RejectPost(context.Context, *model.RejectPostRequest) (*model.RejectPostResponse, error)
	SetModerator(context.Context, *model.SetModeratorRequest) (*model.SetModeratorResponse, error)
	RecomputeApprovals(context.Context, *model.RecomputeApprovalsRequest) (*model.RecomputeApprovalsResponse, error)
}

type moderationDomain struct {
	scoreEventRepo repository.ScoreEventRepository
	modStatRepo    repository.UserModerationStatRepository
	prestigeRepo   repository.UserPrestigeRepository
	ledger         score.Ledger
}

func NewModerationDomain(
	scoreEventRepo repository.ScoreEventRepository,
	modStatRepo repository.UserModerationStatRepository,
	prestigeRepo repository.UserPrestigeRepository,
	ledger score.Ledger,
) ModerationDomain {
	return &moderationDomain{
		scoreEventRepo: scoreEventRepo,
		modStatRepo:    modStatRepo,
		prestigeRepo:   prestigeRepo,
		ledger:         ledger,
	}
}

// ApprovePost credits the post author with the approval bonus and bumps the
// author's approval counter, both inside one transaction. Approving the same
// post twice is rejected by the ledger ref guard.
func (d *moderationDomain) ApprovePost(
	ctx context.Context, req *model.ApprovePostRequest,
) (*model.ApprovePostResponse, error) {
	if req.AuthorID == "" || req.PostID == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow an empty author or post id")
	}

	joined := xcontext.HasDBTransaction(ctx)
	ctx = xcontext.WithDBTransaction(ctx)
	if !joined {
		defer xcontext.WithRollbackDBTransaction(ctx)
	}

	exists, err := d.scoreEventRepo.ExistsByRef(ctx, req.AuthorID, entity.ModApprovedBonus, req.PostID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot check approval of post %s: %v", req.PostID, err)
		return nil, errorx.Unknown
	}

	if exists {
		return nil, errorx.New(errorx.AlreadyExists, "Post %s was already approved", req.PostID)
	}

	result, err := d.ledger.RecordEvents(ctx, []score.EventInput{{
		UserID:      req.AuthorID,
		ActorUserID: xcontext.RequestUserID(ctx),
		Type:        entity.ModApprovedBonus,
		DeltaPoints: ModApprovedPoints,
		RefType:     "post",
		RefID:       req.PostID,
	}})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot record approval of post %s: %v", req.PostID, err)
		return nil, errorx.New(errorx.ConcurrentUpdate, "Approval conflicted, please retry")
	}

	if err := d.modStatRepo.AddApprovals(ctx, req.AuthorID, 1); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot bump approvals of %s: %v", req.AuthorID, err)
		return nil, errorx.Unknown
	}

	stat, err := d.modStatRepo.Get(ctx, req.AuthorID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get approvals of %s: %v", req.AuthorID, err)
		return nil, errorx.Unknown
	}

	if !joined {
		xcontext.WithCommitDBTransaction(ctx)
	}

	return &model.ApprovePostResponse{
		TotalPoints:  score.FromScaled(result.Totals[req.AuthorID]),
		ModApprovals: stat.ModApprovals,
	}, nil
}

// RejectPost reverses a prior approval bonus if one exists. The decision is
// made purely on the ledger, never on any current approval flag of the post:
// an approval event with no reversal yet gets reversed, anything else is a
// no-op. This keeps approve/reject pairs netting to zero no matter how the
// two requests interleave.
func (d *moderationDomain) RejectPost(
	ctx context.Context, req *model.RejectPostRequest,
) (*model.RejectPostResponse, error) {
	if req.AuthorID == "" || req.PostID == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow an empty author or post id")
	}

	joined := xcontext.HasDBTransaction(ctx)
	ctx = xcontext.WithDBTransaction(ctx)
	if !joined {
		defer xcontext.WithRollbackDBTransaction(ctx)
	}

	approved, err := d.scoreEventRepo.ExistsByRef(ctx, req.AuthorID, entity.ModApprovedBonus, req.PostID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot check approval of post %s: %v", req.PostID, err)
		return nil, errorx.Unknown
	}

	if !approved {
		if !joined {
			xcontext.WithCommitDBTransaction(ctx)
		}
		return &model.RejectPostResponse{}, nil
	}

	reversed, err := d.scoreEventRepo.ExistsByRef(ctx, req.AuthorID, entity.ModApprovedReversal, req.PostID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot check reversal of post %s: %v", req.PostID, err)
		return nil, errorx.Unknown
	}

	if reversed {
		if !joined {
			xcontext.WithCommitDBTransaction(ctx)
		}
		return &model.RejectPostResponse{}, nil
	}

	_, err = d.ledger.RecordEvents(ctx, []score.EventInput{{
		UserID:      req.AuthorID,
		ActorUserID: xcontext.RequestUserID(ctx),
		Type:        entity.ModApprovedReversal,
		DeltaPoints: -ModApprovedPoints,
		RefType:     "post",
		RefID:       req.PostID,
	}})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot record reversal of post %s: %v", req.PostID, err)
		return nil, errorx.New(errorx.ConcurrentUpdate, "Rejection conflicted, please retry")
	}

	if err := d.modStatRepo.AddApprovals(ctx, req.AuthorID, -1); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot drop approvals of %s: %v", req.AuthorID, err)
		return nil, errorx.Unknown
	}

	if !joined {
		xcontext.WithCommitDBTransaction(ctx)
	}

	return &model.RejectPostResponse{Reversed: true}, nil
}

func (d *moderationDomain) SetModerator(
	ctx context.Context, req *model.SetModeratorRequest,
) (*model.SetModeratorResponse, error) {
	if req.UserID == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow an empty user id")
	}

	if err := d.prestigeRepo.SetModerator(ctx, req.UserID, req.IsModerator); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot set moderator flag of %s: %v", req.UserID, err)
		return nil, errorx.Unknown
	}

	return &model.SetModeratorResponse{}, nil
}

// RecomputeApprovals rebuilds the cached approval counter from the ledger.
// The counter is a denormalized convenience; the ledger stays the source of
// truth, so repair is always count(approvals) - count(reversals).
func (d *moderationDomain) RecomputeApprovals(
	ctx context.Context, req *model.RecomputeApprovalsRequest,
) (*model.RecomputeApprovalsResponse, error) {
	if req.UserID == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow an empty user id")
	}

	approvals, err := d.scoreEventRepo.CountByTypeAndUserID(ctx, entity.ModApprovedBonus, req.UserID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot count approvals of %s: %v", req.UserID, err)
		return nil, errorx.Unknown
	}

	reversals, err := d.scoreEventRepo.CountByTypeAndUserID(ctx, entity.ModApprovedReversal, req.UserID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot count reversals of %s: %v", req.UserID, err)
		return nil, errorx.Unknown
	}

	count := int(approvals - reversals)
	if count < 0 {
		count = 0
	}

	if err := d.modStatRepo.SetApprovals(ctx, req.UserID, count); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot store approvals of %s: %v", req.UserID, err)
		return nil, errorx.Unknown
	}

	return &model.RecomputeApprovalsResponse{ModApprovals: count}, nil
}
