package scorer

import "github.com/toyinlola/housingrisk/pkg/interfaces"

// Tier awards Points when a field crosses Threshold.
type Tier struct {
	Threshold float64
	Points    float64
}

// Factor is one line of the physical heuristic. Numeric factors check their
// tiers in order and award the first match; Below selects "<" instead of ">=".
// Booleans are numeric 0/1 with a single ">= 1" tier. Enum factors award
// points per category.
type Factor struct {
	Field      string
	Below      bool
	Tiers      []Tier
	Categories map[string]float64
}

// DefaultFactors returns the heuristic point table of the physical variant.
func DefaultFactors() []Factor {
	return []Factor{
		{Field: "fault_distance_km", Below: true, Tiers: []Tier{{5, 0.22}, {15, 0.12}}},
		{Field: "distance_to_rivers_and_seas_km", Below: true, Tiers: []Tier{{1, 0.16}, {5, 0.08}}},
		{Field: "elevation_m", Below: true, Tiers: []Tier{{10, 0.14}, {30, 0.06}}},
		{Field: "potential_liquefaction", Tiers: []Tier{{1, 0.20}}},
		{Field: "surface_runoff", Categories: map[string]float64{"high": 0.08, "medium": 0.04}},
		{Field: "basic_wind_speed_mps", Tiers: []Tier{{40, 0.07}}},
		{Field: "maximum_crack_mm", Tiers: []Tier{{5, 0.10}, {2, 0.05}}},
		{Field: "vertical_irregularity", Tiers: []Tier{{1, 0.06}}},
		{Field: "roof_fastener_distance_cm", Tiers: []Tier{{25, 0.05}, {18, 0.03}}},
	}
}

// Points returns the points the factor awards for b.
func (f Factor) Points(b *interfaces.Building) float64 {
	if f.Categories != nil {
		c, _ := b.Category(f.Field)
		return f.Categories[c]
	}
	v, ok := b.Numeric(f.Field)
	if !ok {
		return 0
	}
	for _, t := range f.Tiers {
		if (f.Below && v < t.Threshold) || (!f.Below && v >= t.Threshold) {
			return t.Points
		}
	}
	return 0
}

// Heuristic sums the factor points for b, clamped to [0,1].
func Heuristic(factors []Factor, b *interfaces.Building) float64 {
	var s float64
	for _, f := range factors {
		s += f.Points(b)
	}
	switch {
	case s < 0:
		return 0
	case s > 1:
		return 1
	default:
		return s
	}
}
