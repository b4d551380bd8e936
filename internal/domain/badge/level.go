package badge

// Level describes where a point total sits inside the fixed level bands.
// All values are unscaled points.
type Level struct {
	Level           int     `json:"level"`
	Label           string  `json:"label"`
	NextLevelAt     float64 `json:"next_level_at"`
	PointsIntoLevel float64 `json:"points_into_level"`
	PointsForLevel  float64 `json:"points_for_level"`
}

type levelBand struct {
	level int
	label string
	min   float64
}

// Bands are ascending and non-overlapping; the last one is open-ended.
var levelBands = []levelBand{
	{level: 1, label: "Newcomer", min: 0},
	{level: 2, label: "Amateur", min: 21},
	{level: 3, label: "Contributor", min: 150},
	{level: 4, label: "Knight", min: 300},
	{level: 5, label: "Expert", min: 600},
}

// MapPointsToLevel maps an all-time point total to its level. Negative
// totals are clamped to zero first so they land in the lowest band instead
// of wrapping around to the highest one.
func MapPointsToLevel(totalPoints float64) Level {
	if totalPoints < 0 {
		totalPoints = 0
	}

	current := levelBands[0]
	nextAt := float64(0)
	for i, band := range levelBands {
		if totalPoints < band.min {
			break
		}

		current = band
		if i+1 < len(levelBands) {
			nextAt = levelBands[i+1].min
		} else {
			nextAt = 0
		}
	}

	level := Level{
		Level:           current.level,
		Label:           current.label,
		NextLevelAt:     nextAt,
		PointsIntoLevel: totalPoints - current.min,
	}

	if nextAt > 0 {
		level.PointsForLevel = nextAt - current.min
	}

	return level
}
