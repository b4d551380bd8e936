package score

import "math"

// PointScale is the fixed-point multiplier between external decimal points
// and the scaled integers stored in the ledger. Converting here and only
// here keeps fractional awards (partial quiz credit, trickle shares) free of
// floating-point drift.
const PointScale = 1000

// ToScaled converts a decimal point value to its scaled integer form,
// rounding half away from zero.
func ToScaled(points float64) int64 {
	return int64(math.Round(points * PointScale))
}

// FromScaled converts a scaled integer back to a decimal point value.
func FromScaled(scaled int64) float64 {
	return float64(scaled) / PointScale
}
