package entity

import (
	"database/sql"

	"github.com/kudoshq/backend/pkg/enum"
)

type ScoreEventType string

var (
	PostCreated           = enum.New(ScoreEventType("POST_CREATED"))
	ReplyCreated          = enum.New(ScoreEventType("REPLY_CREATED"))
	ReactionReceived      = enum.New(ScoreEventType("REACTION_RECEIVED"))
	TrickleParent         = enum.New(ScoreEventType("TRICKLE_PARENT"))
	DailyLogin            = enum.New(ScoreEventType("DAILY_LOGIN"))
	StreakBonus           = enum.New(ScoreEventType("STREAK_BONUS"))
	ModApprovedBonus      = enum.New(ScoreEventType("MOD_APPROVED_BONUS"))
	ModApprovedReversal   = enum.New(ScoreEventType("MOD_APPROVED_BONUS_REVERSAL"))
	AdminAdjust           = enum.New(ScoreEventType("ADMIN_ADJUST"))
	BestPracticeFirstRead = enum.New(ScoreEventType("BEST_PRACTICE_FIRST_READ"))
	QuizCompleted         = enum.New(ScoreEventType("QUIZ_COMPLETED"))
)

// ScoreEvent is one row of the append-only point ledger. Rows are never
// updated or deleted; a reversal is a new row with a negated delta.
type ScoreEvent struct {
	SnowFlakeBase

	UserID string `gorm:"index"`
	User   User   `gorm:"foreignKey:UserID"`

	ActorUserID sql.NullString

	Type ScoreEventType `gorm:"index"`

	RefType sql.NullString
	RefID   sql.NullString `gorm:"index"`

	// Delta is a scaled integer (see score.PointScale), signed.
	Delta int64

	Meta Map
}
