// Package interfaces defines the shared types and contracts for all housingrisk modules.
// This package has ZERO dependencies on any other pkg/ package.
// All cross-module communication goes through types and interfaces defined here.
package interfaces

import (
	"fmt"
	"time"
)

// RiskLevel is the categorical risk rating of a building.
type RiskLevel string

const (
	RiskLow    RiskLevel = "LOW"
	RiskMedium RiskLevel = "MEDIUM"
	RiskHigh   RiskLevel = "HIGH"
)

// RiskLevels lists every level in ascending order of severity.
var RiskLevels = []RiskLevel{RiskLow, RiskMedium, RiskHigh}

// ParseRiskLevel reconstructs a RiskLevel from its string representation.
func ParseRiskLevel(s string) (RiskLevel, error) {
	switch RiskLevel(s) {
	case RiskLow, RiskMedium, RiskHigh:
		return RiskLevel(s), nil
	default:
		return "", fmt.Errorf("invalid risk level: %q", s)
	}
}

// AtLeast reports whether r is as severe as o or more.
func (r RiskLevel) AtLeast(o RiskLevel) bool {
	return r.Target() >= o.Target()
}

// Target maps the level onto the ordinal training target used by the classifier.
// LOW=0, MEDIUM=0.5, HIGH=1.
func (r RiskLevel) Target() float64 {
	switch r {
	case RiskMedium:
		return 0.5
	case RiskHigh:
		return 1
	default:
		return 0
	}
}

// Variant identifies which input schema a record uses.
type Variant string

const (
	VariantQuestionnaire Variant = "questionnaire" // 52 ordinal answers in {1,2,3}
	VariantPhysical      Variant = "physical"      // physical measurements and enums
)

// ParseVariant validates a variant name.
func ParseVariant(s string) (Variant, error) {
	switch Variant(s) {
	case VariantQuestionnaire, VariantPhysical:
		return Variant(s), nil
	default:
		return "", fmt.Errorf("invalid variant %q (want questionnaire|physical)", s)
	}
}

// Building holds the physical-measurement variant of a risk record.
// Field names follow the public /predict API.
type Building struct {
	FaultDistanceKM           float64 `json:"fault_distance_km" yaml:"fault_distance_km"`
	BasicWindSpeedMPS         float64 `json:"basic_wind_speed_mps" yaml:"basic_wind_speed_mps"`
	SlopeDeg                  float64 `json:"slope_deg" yaml:"slope_deg"`
	ElevationM                float64 `json:"elevation_m" yaml:"elevation_m"`
	PotentialLiquefaction     bool    `json:"potential_liquefaction" yaml:"potential_liquefaction"`
	DistanceToRiversAndSeasKM float64 `json:"distance_to_rivers_and_seas_km" yaml:"distance_to_rivers_and_seas_km"`
	SurfaceRunoff             string  `json:"surface_runoff" yaml:"surface_runoff"`
	VerticalIrregularity      bool    `json:"vertical_irregularity" yaml:"vertical_irregularity"`
	BuildingProximityM        float64 `json:"building_proximity_m" yaml:"building_proximity_m"`
	NumberOfBays              float64 `json:"number_of_bays" yaml:"number_of_bays"`
	ColumnSpacingM            float64 `json:"column_spacing_m" yaml:"column_spacing_m"`
	MaximumCrackMM            float64 `json:"maximum_crack_mm" yaml:"maximum_crack_mm"`
	RoofSlopeDeg              float64 `json:"roof_slope_deg" yaml:"roof_slope_deg"`
	RoofDesign                string  `json:"roof_design" yaml:"roof_design"`
	RoofFastenerDistanceCM    float64 `json:"roof_fastener_distance_cm" yaml:"roof_fastener_distance_cm"`
}

// Numeric returns the value of a numeric or boolean physical field by its API name.
// Booleans are reported as 0 or 1. The second result is false for unknown names.
func (b *Building) Numeric(name string) (float64, bool) {
	switch name {
	case "fault_distance_km":
		return b.FaultDistanceKM, true
	case "basic_wind_speed_mps":
		return b.BasicWindSpeedMPS, true
	case "slope_deg":
		return b.SlopeDeg, true
	case "elevation_m":
		return b.ElevationM, true
	case "potential_liquefaction":
		return boolFloat(b.PotentialLiquefaction), true
	case "distance_to_rivers_and_seas_km":
		return b.DistanceToRiversAndSeasKM, true
	case "vertical_irregularity":
		return boolFloat(b.VerticalIrregularity), true
	case "building_proximity_m":
		return b.BuildingProximityM, true
	case "number_of_bays":
		return b.NumberOfBays, true
	case "column_spacing_m":
		return b.ColumnSpacingM, true
	case "maximum_crack_mm":
		return b.MaximumCrackMM, true
	case "roof_slope_deg":
		return b.RoofSlopeDeg, true
	case "roof_fastener_distance_cm":
		return b.RoofFastenerDistanceCM, true
	default:
		return 0, false
	}
}

// Category returns the value of an enum physical field by its API name.
func (b *Building) Category(name string) (string, bool) {
	switch name {
	case "surface_runoff":
		return b.SurfaceRunoff, true
	case "roof_design":
		return b.RoofDesign, true
	default:
		return "", false
	}
}

// SetNumeric assigns a numeric or boolean field by its API name. Booleans are
// true for any value >= 0.5. It reports false for unknown names.
func (b *Building) SetNumeric(name string, v float64) bool {
	switch name {
	case "fault_distance_km":
		b.FaultDistanceKM = v
	case "basic_wind_speed_mps":
		b.BasicWindSpeedMPS = v
	case "slope_deg":
		b.SlopeDeg = v
	case "elevation_m":
		b.ElevationM = v
	case "potential_liquefaction":
		b.PotentialLiquefaction = v >= 0.5
	case "distance_to_rivers_and_seas_km":
		b.DistanceToRiversAndSeasKM = v
	case "vertical_irregularity":
		b.VerticalIrregularity = v >= 0.5
	case "building_proximity_m":
		b.BuildingProximityM = v
	case "number_of_bays":
		b.NumberOfBays = v
	case "column_spacing_m":
		b.ColumnSpacingM = v
	case "maximum_crack_mm":
		b.MaximumCrackMM = v
	case "roof_slope_deg":
		b.RoofSlopeDeg = v
	case "roof_fastener_distance_cm":
		b.RoofFastenerDistanceCM = v
	default:
		return false
	}
	return true
}

// SetCategory assigns an enum field by its API name.
func (b *Building) SetCategory(name, value string) bool {
	switch name {
	case "surface_runoff":
		b.SurfaceRunoff = value
	case "roof_design":
		b.RoofDesign = value
	default:
		return false
	}
	return true
}

func boolFloat(v bool) float64 {
	if v {
		return 1
	}
	return 0
}

// Record is one building submitted for scoring. Exactly one of Answers or
// Building is populated, according to Variant.
type Record struct {
	Variant  Variant            `json:"variant"`
	Answers  map[string]float64 `json:"answers,omitempty"`
	Building *Building          `json:"building,omitempty"`
}

// Assessment is the outbound result of scoring one record.
type Assessment struct {
	Score        float64   `json:"score"` // 0-1
	Risk         RiskLevel `json:"risk"`
	Reasons      []string  `json:"reasons"`
	ModelVersion string    `json:"model_version"`
	Strategy     string    `json:"strategy,omitempty"`
	Diagnostic   string    `json:"diagnostic,omitempty"`
	RiskIndex    *float64  `json:"risk_index,omitempty"` // 0-10, deterministic engine only
	Fallback     bool      `json:"fallback,omitempty"`   // score came from the deterministic baseline
}

// StrategyResult is what each strategy returns when run side by side.
type StrategyResult struct {
	Strategy   string        `json:"strategy"`
	Assessment *Assessment   `json:"assessment,omitempty"`
	Duration   time.Duration `json:"duration"`
	Error      error         `json:"-"`
	Message    string        `json:"error,omitempty"` // Error text for serialized reports
}

// Report is the final output of a CLI scoring run.
type Report struct {
	ID        string            `json:"id"`
	Timestamp time.Time         `json:"timestamp"`
	Variant   Variant           `json:"variant"`
	Primary   *Assessment       `json:"assessment"`
	Results   []*StrategyResult `json:"strategies,omitempty"`
	Summary   string            `json:"summary"`
	Duration  time.Duration     `json:"duration"`
}
