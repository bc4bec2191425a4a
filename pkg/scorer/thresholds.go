package scorer

import (
	"fmt"

	"github.com/toyinlola/housingrisk/pkg/interfaces"
)

// Risk index thresholds from the domain expert computation sheet. They are a
// pinned contract and are never recomputed from data.
const (
	IndexLowMax    = 3.58 // index <= 3.58 is LOW
	IndexMediumMax = 6.79 // index <= 6.79 is MEDIUM, above is HIGH
)

// Cut points for probability-like scores in [0,1]. They are independent of the
// index thresholds, so the two scoring paths may disagree.
const (
	ScoreLowBelow    = 0.33
	ScoreMediumBelow = 0.66
)

// Bounds of the combined rating and index.
const (
	MaxRiskRating = 27.0
	MaxRiskIndex  = 10.0
)

// LevelFromIndex buckets a risk index into a level.
// LOW: index <= 3.58
// MEDIUM: 3.58 < index <= 6.79
// HIGH: index > 6.79
func LevelFromIndex(index float64) interfaces.RiskLevel {
	switch {
	case index <= IndexLowMax:
		return interfaces.RiskLow
	case index <= IndexMediumMax:
		return interfaces.RiskMedium
	default:
		return interfaces.RiskHigh
	}
}

// LevelFromScore buckets a score in [0,1] into a level.
// LOW: score < 0.33
// MEDIUM: score < 0.66
// HIGH: otherwise
func LevelFromScore(score float64) interfaces.RiskLevel {
	switch {
	case score < ScoreLowBelow:
		return interfaces.RiskLow
	case score < ScoreMediumBelow:
		return interfaces.RiskMedium
	default:
		return interfaces.RiskHigh
	}
}

// IndexDiagnostic formats the engine's verdict for display next to a classifier result.
func IndexDiagnostic(index float64) string {
	return fmt.Sprintf("Risk index %.2f/10 (%s)", index, LevelFromIndex(index))
}
