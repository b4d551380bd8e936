package streak

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kudoshq/backend/config"
	"github.com/kudoshq/backend/internal/domain/score"
	"github.com/kudoshq/backend/internal/entity"
	"github.com/kudoshq/backend/internal/repository"
	"github.com/kudoshq/backend/pkg/dateutil"
	"github.com/kudoshq/backend/pkg/xcontext"
	mathUtil "github.com/pkg/math"
	"golang.org/x/exp/slices"
	"gorm.io/gorm"
)

// BonusAward reports a milestone bonus emitted during a login.
type BonusAward struct {
	Milestone int
	Points    float64
}

// LoginResult is the streak state after a login was processed.
type LoginResult struct {
	CurrentLength int
	BestLength    int
	LastDay       string

	// AlreadyCounted is set when the user logged in earlier the same
	// calendar day and nothing changed.
	AlreadyCounted bool

	Bonus *BonusAward

	// DaysToNextMilestone is zero once the user passed the last milestone.
	DaysToNextMilestone int
}

type Engine interface {
	RecordLogin(ctx context.Context, userID, timezone string) (*LoginResult, error)
}

type engine struct {
	streakRepo     repository.UserStreakRepository
	scoreEventRepo repository.ScoreEventRepository
	ledger         score.Ledger
}

func NewEngine(
	streakRepo repository.UserStreakRepository,
	scoreEventRepo repository.ScoreEventRepository,
	ledger score.Ledger,
) *engine {
	return &engine{streakRepo: streakRepo, scoreEventRepo: scoreEventRepo, ledger: ledger}
}

// RecordLogin advances the user's daily-login streak. Day boundaries are
// decided in the supplied IANA timezone (UTC when empty), so a 00:30 local
// login is not misread against the UTC boundary. The streak mutation and any
// milestone bonus commit in one transaction.
func (e *engine) RecordLogin(ctx context.Context, userID, timezone string) (*LoginResult, error) {
	now := time.Now()
	today := dateutil.DayString(now, timezone)
	yesterday := dateutil.PreviousDayString(now, timezone)

	// When a caller already opened a transaction, commit ownership stays
	// with that caller.
	joined := xcontext.HasDBTransaction(ctx)
	ctx = xcontext.WithDBTransaction(ctx)
	if !joined {
		defer xcontext.WithRollbackDBTransaction(ctx)
	}

	userStreak, err := e.lockStreak(ctx, userID)
	if err != nil {
		return nil, err
	}

	if userStreak.LastDay == today {
		if !joined {
			xcontext.WithCommitDBTransaction(ctx)
		}
		return &LoginResult{
			CurrentLength:       userStreak.CurrentLength,
			BestLength:          userStreak.BestLength,
			LastDay:             userStreak.LastDay,
			AlreadyCounted:      true,
			DaysToNextMilestone: daysToNextMilestone(ctx, userStreak.CurrentLength),
		}, nil
	}

	if userStreak.LastDay == yesterday {
		userStreak.CurrentLength++
	} else {
		// Either the first counted login or a gap of two days or more.
		userStreak.CurrentLength = 1
	}

	userStreak.BestLength = mathUtil.MaxInt(userStreak.BestLength, userStreak.CurrentLength)
	userStreak.LastDay = today

	if err := e.streakRepo.Update(ctx, userStreak); err != nil {
		return nil, fmt.Errorf("cannot update streak of %s: %w", userID, err)
	}

	bonus, err := e.awardMilestone(ctx, userID, userStreak.CurrentLength)
	if err != nil {
		return nil, err
	}

	if !joined {
		xcontext.WithCommitDBTransaction(ctx)
	}

	return &LoginResult{
		CurrentLength:       userStreak.CurrentLength,
		BestLength:          userStreak.BestLength,
		LastDay:             userStreak.LastDay,
		Bonus:               bonus,
		DaysToNextMilestone: daysToNextMilestone(ctx, userStreak.CurrentLength),
	}, nil
}

// lockStreak reads the streak row under a row lock, creating an empty row
// first when the user has never logged in. The empty row goes through the
// regular reset transition, so a concurrent creator causes no special case.
func (e *engine) lockStreak(ctx context.Context, userID string) (*entity.UserStreak, error) {
	userStreak, err := e.streakRepo.GetForUpdate(ctx, userID)
	if err == nil {
		return userStreak, nil
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("cannot lock streak of %s: %w", userID, err)
	}

	if err := e.streakRepo.CreateIfAbsent(ctx, &entity.UserStreak{UserID: userID}); err != nil {
		return nil, fmt.Errorf("cannot create streak of %s: %w", userID, err)
	}

	userStreak, err = e.streakRepo.GetForUpdate(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("cannot lock streak of %s: %w", userID, err)
	}

	return userStreak, nil
}

// awardMilestone emits the STREAK_BONUS event when the new length hits a
// milestone exactly. The ledger ref id de-duplicates the award, so a caller
// retrying the same logical login cannot double-pay.
func (e *engine) awardMilestone(ctx context.Context, userID string, length int) (*BonusAward, error) {
	var bonusPoints float64
	found := false
	for _, m := range milestones(ctx) {
		if m.Length == length {
			bonusPoints = m.BonusPoints
			found = true
			break
		}
	}

	if !found {
		return nil, nil
	}

	refID := fmt.Sprintf("streak-%d", length)
	exists, err := e.scoreEventRepo.ExistsByRef(ctx, userID, entity.StreakBonus, refID)
	if err != nil {
		return nil, fmt.Errorf("cannot check existing streak bonus of %s: %w", userID, err)
	}

	if exists {
		return nil, nil
	}

	_, err = e.ledger.RecordEvents(ctx, []score.EventInput{{
		UserID:      userID,
		Type:        entity.StreakBonus,
		DeltaPoints: bonusPoints,
		RefType:     "streak",
		RefID:       refID,
		Meta:        entity.Map{"milestone": length},
	}})
	if err != nil {
		return nil, err
	}

	return &BonusAward{Milestone: length, Points: bonusPoints}, nil
}

func milestones(ctx context.Context) []config.MilestoneConfigs {
	configured := xcontext.Configs(ctx).Streak.Milestones
	if len(configured) == 0 {
		configured = config.DefaultMilestones
	}

	sorted := slices.Clone(configured)
	slices.SortFunc(sorted, func(a, b config.MilestoneConfigs) bool {
		return a.Length < b.Length
	})

	return sorted
}

func daysToNextMilestone(ctx context.Context, length int) int {
	for _, m := range milestones(ctx) {
		if m.Length > length {
			return m.Length - length
		}
	}

	return 0
}
