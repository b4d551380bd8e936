package badge

import "github.com/kudoshq/backend/pkg/enum"

type PrestigeTier string

var (
	PrestigeNone      = enum.New(PrestigeTier("none"))
	PrestigeExpertI   = enum.New(PrestigeTier("expert_1"))
	PrestigeExpertII  = enum.New(PrestigeTier("expert_2"))
	PrestigeExpertIII = enum.New(PrestigeTier("expert_3"))
	PrestigeModerator = enum.New(PrestigeTier("moderator"))
)

// MapPrestige derives the prestige tier from an all-time point total
// (unscaled), the moderator approval count, and the moderator flag. The tier
// is computed on every read and never persisted.
func MapPrestige(totalPoints float64, modApprovals int, isModerator bool) PrestigeTier {
	if totalPoints < 600 {
		return PrestigeNone
	}

	switch {
	case totalPoints >= 14100 && modApprovals >= 50:
		if isModerator {
			return PrestigeModerator
		}
		return PrestigeExpertIII
	case totalPoints >= 4100 && modApprovals >= 50:
		return PrestigeExpertII
	case totalPoints >= 1600 && modApprovals >= 10:
		return PrestigeExpertI
	default:
		return PrestigeNone
	}
}
