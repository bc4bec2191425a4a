package classifier

import (
	"math"
	"sort"
)

// Explanation limits.
const (
	ContributionFloor = 0.08
	topCandidates     = 5
	MaxExplanations   = 4
)

// NoDominantFactor is the single reason emitted when no contribution clears the floor.
const NoDominantFactor = "No dominant single factor; combined effects produced the overall score."

// Labeler maps a feature column to its human-readable reason.
type Labeler func(column string) string

// Explain ranks contributions by magnitude and labels the strongest ones. Of
// the top candidates, those below ContributionFloor are dropped and at most
// MaxExplanations remain.
func Explain(contributions []float64, names []string, label Labeler) []string {
	idx := make([]int, len(contributions))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return math.Abs(contributions[idx[a]]) > math.Abs(contributions[idx[b]])
	})

	var reasons []string
	for _, i := range idx[:min(topCandidates, len(idx))] {
		if math.Abs(contributions[i]) < ContributionFloor {
			continue
		}
		name := names[i]
		if label != nil {
			name = label(name)
		}
		reasons = append(reasons, name)
		if len(reasons) == MaxExplanations {
			break
		}
	}
	if len(reasons) == 0 {
		return []string{NoDominantFactor}
	}
	return reasons
}
