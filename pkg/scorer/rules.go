package scorer

import "github.com/toyinlola/housingrisk/pkg/interfaces"

// MaxReasons caps every reasons list returned to callers.
const MaxReasons = 6

// Rule emits Reason when its condition holds. Numeric rules compare with
// Threshold ("<" when Below, ">=" otherwise); Category rules match an enum value.
type Rule struct {
	Field     string
	Below     bool
	Threshold float64
	Category  string
	Reason    string
}

// DefaultRules returns the fixed-rule reasons in priority order.
func DefaultRules() []Rule {
	return []Rule{
		{Field: "fault_distance_km", Below: true, Threshold: 5, Reason: "Very near fault line (<5 km)."},
		{Field: "distance_to_rivers_and_seas_km", Below: true, Threshold: 1, Reason: "Very close to rivers/seas (<1 km)."},
		{Field: "elevation_m", Below: true, Threshold: 10, Reason: "Low elevation (<10 m)."},
		{Field: "potential_liquefaction", Threshold: 1, Reason: "Potential liquefaction flagged."},
		{Field: "surface_runoff", Category: "high", Reason: "High surface runoff."},
		{Field: "maximum_crack_mm", Threshold: 5, Reason: "Large cracks (>=5 mm)."},
		{Field: "vertical_irregularity", Threshold: 1, Reason: "Vertical irregularity flagged."},
	}
}

// Matches reports whether the rule fires for b.
func (r Rule) Matches(b *interfaces.Building) bool {
	if r.Category != "" {
		c, ok := b.Category(r.Field)
		return ok && c == r.Category
	}
	v, ok := b.Numeric(r.Field)
	if !ok {
		return false
	}
	if r.Below {
		return v < r.Threshold
	}
	return v >= r.Threshold
}

// Reasons evaluates rules in order and returns at most MaxReasons matches.
func Reasons(rules []Rule, b *interfaces.Building) []string {
	reasons := make([]string, 0, MaxReasons)
	for _, r := range rules {
		if len(reasons) == MaxReasons {
			break
		}
		if r.Matches(b) {
			reasons = append(reasons, r.Reason)
		}
	}
	return reasons
}
