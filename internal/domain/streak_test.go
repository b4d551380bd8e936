package domain

import (
	"testing"

	"github.com/kudoshq/backend/internal/domain/score"
	"github.com/kudoshq/backend/internal/domain/streak"
	"github.com/kudoshq/backend/internal/model"
	"github.com/kudoshq/backend/internal/repository"
	"github.com/kudoshq/backend/pkg/testutil"
	"github.com/stretchr/testify/require"
)

func Test_streakDomain_RecordLogin(t *testing.T) {
	ctx := testutil.MockContext()
	scoreEventRepo := repository.NewScoreEventRepository()
	streakDomain := NewStreakDomain(streak.NewEngine(
		repository.NewUserStreakRepository(),
		scoreEventRepo,
		score.NewLedger(scoreEventRepo, repository.NewUserScoreTotalRepository()),
	))

	resp, err := streakDomain.RecordLogin(ctx, &model.RecordLoginRequest{UserID: "user1"})
	require.NoError(t, err)
	require.Equal(t, 1, resp.CurrentLength)
	require.False(t, resp.AlreadyCounted)

	again, err := streakDomain.RecordLogin(ctx, &model.RecordLoginRequest{UserID: "user1"})
	require.NoError(t, err)
	require.True(t, again.AlreadyCounted)

	_, err = streakDomain.RecordLogin(ctx, &model.RecordLoginRequest{})
	require.Error(t, err)
}
