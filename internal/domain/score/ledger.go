package score

import (
	"context"
	"errors"
	"fmt"

	"github.com/kudoshq/backend/internal/entity"
	"github.com/kudoshq/backend/internal/repository"
	"github.com/kudoshq/backend/pkg/xcontext"
	"golang.org/x/exp/slices"
	"gorm.io/gorm"
)

// EventInput is one point-affecting action reported by an external caller.
// DeltaPoints is unscaled; how many points an action is worth is the
// caller's policy, not this engine's.
type EventInput struct {
	UserID      string
	ActorUserID string
	Type        entity.ScoreEventType
	DeltaPoints float64
	RefType     string
	RefID       string
	Meta        entity.Map
}

// RecordResult reports the inserted ledger rows and the committed total of
// every affected user (scaled).
type RecordResult struct {
	Events []entity.ScoreEvent
	Totals map[string]int64
}

type Ledger interface {
	RecordEvents(ctx context.Context, inputs []EventInput) (*RecordResult, error)
}

type ledger struct {
	scoreEventRepo repository.ScoreEventRepository
	totalRepo      repository.UserScoreTotalRepository
}

func NewLedger(
	scoreEventRepo repository.ScoreEventRepository,
	totalRepo repository.UserScoreTotalRepository,
) *ledger {
	return &ledger{scoreEventRepo: scoreEventRepo, totalRepo: totalRepo}
}

// RecordEvents appends the batch to the ledger and maintains the materialized
// totals, all in one transaction. If the context already carries a
// transaction, operations join it and the caller keeps commit ownership;
// otherwise a transaction is opened and committed here. Any failure leaves
// nothing of the batch visible.
func (l *ledger) RecordEvents(ctx context.Context, inputs []EventInput) (*RecordResult, error) {
	if len(inputs) == 0 {
		return &RecordResult{Totals: map[string]int64{}}, nil
	}

	joined := xcontext.HasDBTransaction(ctx)
	ctx = xcontext.WithDBTransaction(ctx)
	if !joined {
		defer xcontext.WithRollbackDBTransaction(ctx)
	}

	node := xcontext.SnowflakeNode(ctx)
	events := make([]*entity.ScoreEvent, 0, len(inputs))
	for _, input := range inputs {
		event := &entity.ScoreEvent{
			SnowFlakeBase: entity.SnowFlakeBase{ID: node.Generate().Int64()},
			UserID:        input.UserID,
			Type:          input.Type,
			Delta:         ToScaled(input.DeltaPoints),
			Meta:          input.Meta,
		}

		if input.ActorUserID != "" {
			event.ActorUserID = sqlNullString(input.ActorUserID)
		}

		if input.RefType != "" {
			event.RefType = sqlNullString(input.RefType)
		}

		if input.RefID != "" {
			event.RefID = sqlNullString(input.RefID)
		}

		events = append(events, event)
	}

	if err := l.scoreEventRepo.BulkInsert(ctx, events); err != nil {
		return nil, fmt.Errorf("cannot insert score events: %w", err)
	}

	// Coalesce deltas so each user's total row is locked and written at most
	// once per batch.
	deltaByUser := map[string]int64{}
	for _, event := range events {
		deltaByUser[event.UserID] += event.Delta
	}

	// A fixed ascending lock order across batches prevents two batches
	// touching the same users from deadlocking each other.
	userIDs := make([]string, 0, len(deltaByUser))
	for userID := range deltaByUser {
		userIDs = append(userIDs, userID)
	}
	slices.Sort(userIDs)

	totals := make(map[string]int64, len(userIDs))
	for _, userID := range userIDs {
		newTotal, err := l.applyDelta(ctx, userID, deltaByUser[userID])
		if err != nil {
			return nil, err
		}

		totals[userID] = newTotal
	}

	if !joined {
		xcontext.WithCommitDBTransaction(ctx)
	}

	result := &RecordResult{Totals: totals}
	for _, event := range events {
		result.Events = append(result.Events, *event)
	}

	return result, nil
}

func (l *ledger) applyDelta(ctx context.Context, userID string, delta int64) (int64, error) {
	total, err := l.totalRepo.GetForUpdate(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		if err := l.totalRepo.CreateIfAbsent(ctx, userID); err != nil {
			return 0, fmt.Errorf("cannot create score total of %s: %w", userID, err)
		}

		total, err = l.totalRepo.GetForUpdate(ctx, userID)
	}

	if err != nil {
		return 0, fmt.Errorf("cannot lock score total of %s: %w", userID, err)
	}

	newTotal := total.TotalPoints + delta
	if err := l.totalRepo.SetTotal(ctx, userID, newTotal); err != nil {
		return 0, fmt.Errorf("cannot update score total of %s: %w", userID, err)
	}

	if xcontext.Configs(ctx).Scoring.CheckIntegrity {
		newTotal, err = l.checkIntegrity(ctx, userID, newTotal)
		if err != nil {
			return 0, err
		}
	}

	return newTotal, nil
}

// checkIntegrity recomputes the ledger sum for the user and repairs the
// total in place when it drifted. The ledger is the source of truth; the
// total is only a cache.
func (l *ledger) checkIntegrity(ctx context.Context, userID string, total int64) (int64, error) {
	sum, err := l.scoreEventRepo.SumDeltaByUserID(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("cannot recompute ledger sum of %s: %w", userID, err)
	}

	if sum == total {
		return total, nil
	}

	xcontext.Logger(ctx).Warnf(
		"Score total of %s diverged from ledger (total=%d, ledger=%d), repairing",
		userID, total, sum)

	if err := l.totalRepo.SetTotal(ctx, userID, sum); err != nil {
		return 0, fmt.Errorf("cannot repair score total of %s: %w", userID, err)
	}

	return sum, nil
}
