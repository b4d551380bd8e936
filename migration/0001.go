package migration

import (
	"context"

	"github.com/kudoshq/backend/pkg/xcontext"
)

// migrate0001 backfills materialized totals for users that already had
// ledger events before the totals table existed.
func migrate0001(ctx context.Context) error {
	return xcontext.DB(ctx).Exec(`
		INSERT INTO user_score_totals (user_id, total_points, created_at, updated_at)
		SELECT user_id, SUM(delta), NOW(), NOW()
		FROM score_events
		GROUP BY user_id
		ON DUPLICATE KEY UPDATE user_id = user_score_totals.user_id
	`).Error
}
