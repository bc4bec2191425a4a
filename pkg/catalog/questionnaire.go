// Package catalog holds the static feature definitions for both record variants.
//
// The weight table and the physical bounds table are configuration data kept as
// plain lookup structures so they can be audited and tested on their own.
package catalog

import (
	"fmt"
	"strings"
)

// Group is one of the three fixed partitions of the questionnaire.
type Group string

const (
	GroupHazard        Group = "hazard"
	GroupExposure      Group = "exposure"
	GroupVulnerability Group = "vulnerability"
)

// Groups lists the partitions in the order they are multiplied.
var Groups = []Group{GroupHazard, GroupExposure, GroupVulnerability}

// Title returns the display name of the group.
func (g Group) Title() string {
	switch g {
	case GroupHazard:
		return "Hazard"
	case GroupExposure:
		return "Exposure"
	case GroupVulnerability:
		return "Vulnerability"
	default:
		return string(g)
	}
}

// DefaultWeight applies to any question missing from the weight table.
const DefaultWeight = 1

// Ordinal answer domain.
const (
	OrdinalMin = 1
	OrdinalMax = 3
)

// Question is the definition of one ordinal questionnaire field.
type Question struct {
	Name   string
	Group  Group
	Weight int
}

// Label is the human-readable form of the question name, e.g.
// "A1_2_FAULT_DISTANCE" becomes "Fault distance (A1.2)".
func (q Question) Label() string {
	parts := strings.SplitN(q.Name, "_", 3)
	if len(parts) < 3 {
		return q.Name
	}
	words := strings.ToLower(strings.ReplaceAll(parts[2], "_", " "))
	return fmt.Sprintf("%s%s (%s.%s)", strings.ToUpper(words[:1]), words[1:], parts[0], parts[1])
}

// questionNames is the canonical questionnaire order. The classifier is trained
// against this order; changing it invalidates every stored model artifact.
var questionNames = []string{
	// Hazard (A)
	"A1_1_PEIS",
	"A1_2_FAULT_DISTANCE",
	"A1_3_SEISMIC_SOURCE_TYPE",
	"A1_4_LIQUEFACTION",
	"A2_1_BASIC_WIND_SPEED",
	"A2_2_BUILDING_VICINITY",
	"A3_1_SLOPE",
	"A3_2_ELEVATION",
	"A3_3_DISTANCE_TO_RIVERS_AND_SEAS",
	"A3_4_SURFACE_RUNOFF",
	"A3_5_BASE_HEIGHT",
	"A3_6_DRAINAGE_SYSTEM",

	// Exposure (B)
	"B1_1_AESTHETIC_THEME",
	"B1_2_STYLE_UNIQUE",
	"B1_3_STYLE_TYPICAL",
	"B1_4_CITYSCAPE_INTEGRATION",
	"B2_1_AGE_OF_BUILDING",
	"B2_2_PAST_RELEVANCE",
	"B2_3_GEO_IMPACT",
	"B2_4_CULTURAL_HERITAGE_TIE",
	"B2_5_MESSAGE_WORTH_PRESERVING",
	"B3_1_NO_INITIATIVES",
	"B3_2_PROMINENT_SUPPORT",
	"B3_3_IMPORTANCE_DAILY_LIFE",
	"B3_4_NO_PROMOTION",
	"B4_1_TOURIST_MUST_SEE",
	"B4_2_TOURISM_CONTRIBUTION",
	"B4_3_VISITED_FOR_GOODS",
	"B4_4_CURRENT_USE_ADOPTS_NEEDS",

	// Vulnerability (C)
	"C1_1_CODE_YEAR_BUILT",
	"C1_2_PLAN_IRREGULARITY",
	"C1_3_VERTICAL_IRREGULARITY",
	"C1_4_BUILDING_PROXIMITY",
	"C1_5_NUMBER_OF_STOREYS",
	"C1_6_STRUCT_SYSTEM_MATERIAL",
	"C1_7_NUMBER_OF_BAYS",
	"C1_8_COLUMN_SPACING",
	"C1_9_BUILDING_ENCLOSURE",
	"C1_10_WALL_MATERIAL",
	"C1_11_FRAMING_TYPE",
	"C1_12_FLOORING_MATERIAL",
	"C2_1_CRACK_WIDTH",
	"C2_2_UNEVEN_SETTLEMENT",
	"C2_3_BEAM_COLUMN_DEFORMATION",
	"C2_4_FINISHING_DETERIORATION",
	"C2_5_MEMBER_DECAY",
	"C2_6_ADDITIONAL_LOADS",
	"C3_1_ROOF_DESIGN",
	"C3_2_ROOF_SLOPE",
	"C3_3_ROOFING_MATERIAL",
	"C4_1_ROOF_FASTENERS",
	"C4_2_FASTENER_SPACING",
}

// Weights maps question names to their weight in the group average.
type Weights map[string]int

// Weight returns the weight for a question, falling back to DefaultWeight when absent
// or non-positive.
func (w Weights) Weight(name string) int {
	if v, ok := w[name]; ok && v > 0 {
		return v
	}
	return DefaultWeight
}

// DefaultWeights returns the weight table from the domain expert computation sheet.
func DefaultWeights() Weights {
	return Weights{
		"A1_1_PEIS":                        3,
		"A1_2_FAULT_DISTANCE":              3,
		"A1_3_SEISMIC_SOURCE_TYPE":         3,
		"A1_4_LIQUEFACTION":                3,
		"A2_1_BASIC_WIND_SPEED":            2,
		"A2_2_BUILDING_VICINITY":           2,
		"A3_1_SLOPE":                       1,
		"A3_2_ELEVATION":                   1,
		"A3_3_DISTANCE_TO_RIVERS_AND_SEAS": 3,
		"A3_4_SURFACE_RUNOFF":              1,
		"A3_5_BASE_HEIGHT":                 1,
		"A3_6_DRAINAGE_SYSTEM":             2,

		"B1_1_AESTHETIC_THEME":          2,
		"B1_2_STYLE_UNIQUE":             1,
		"B1_3_STYLE_TYPICAL":            1,
		"B1_4_CITYSCAPE_INTEGRATION":    2,
		"B2_1_AGE_OF_BUILDING":          2,
		"B2_2_PAST_RELEVANCE":           3,
		"B2_3_GEO_IMPACT":               1,
		"B2_4_CULTURAL_HERITAGE_TIE":    2,
		"B2_5_MESSAGE_WORTH_PRESERVING": 2,
		"B3_1_NO_INITIATIVES":           3,
		"B3_2_PROMINENT_SUPPORT":        3,
		"B3_3_IMPORTANCE_DAILY_LIFE":    2,
		"B3_4_NO_PROMOTION":             3,
		"B4_1_TOURIST_MUST_SEE":         2,
		"B4_2_TOURISM_CONTRIBUTION":     1,
		"B4_3_VISITED_FOR_GOODS":        1,
		"B4_4_CURRENT_USE_ADOPTS_NEEDS": 2,

		"C1_1_CODE_YEAR_BUILT":         3,
		"C1_2_PLAN_IRREGULARITY":       3,
		"C1_3_VERTICAL_IRREGULARITY":   2,
		"C1_4_BUILDING_PROXIMITY":      1,
		"C1_5_NUMBER_OF_STOREYS":       2,
		"C1_6_STRUCT_SYSTEM_MATERIAL":  1,
		"C1_7_NUMBER_OF_BAYS":          3,
		"C1_8_COLUMN_SPACING":          1,
		"C1_9_BUILDING_ENCLOSURE":      3,
		"C1_10_WALL_MATERIAL":          3,
		"C1_11_FRAMING_TYPE":           3,
		"C1_12_FLOORING_MATERIAL":      1,
		"C2_1_CRACK_WIDTH":             2,
		"C2_2_UNEVEN_SETTLEMENT":       1,
		"C2_3_BEAM_COLUMN_DEFORMATION": 3,
		"C2_4_FINISHING_DETERIORATION": 3,
		"C2_5_MEMBER_DECAY":            3,
		"C2_6_ADDITIONAL_LOADS":        1,
		"C3_1_ROOF_DESIGN":             3,
		"C3_2_ROOF_SLOPE":              3,
		"C3_3_ROOFING_MATERIAL":        2,
		"C4_1_ROOF_FASTENERS":          2,
		"C4_2_FASTENER_SPACING":        2,
	}
}

// GroupOf derives the group from the question name prefix.
func GroupOf(name string) (Group, bool) {
	switch {
	case strings.HasPrefix(name, "A"):
		return GroupHazard, true
	case strings.HasPrefix(name, "B"):
		return GroupExposure, true
	case strings.HasPrefix(name, "C"):
		return GroupVulnerability, true
	default:
		return "", false
	}
}

// Questionnaire is an immutable, ordered set of question definitions.
type Questionnaire struct {
	questions []Question
	byGroup   map[Group][]Question
}

// NewQuestionnaire builds the catalog with the given weight table.
func NewQuestionnaire(weights Weights) *Questionnaire {
	q := &Questionnaire{
		questions: make([]Question, 0, len(questionNames)),
		byGroup:   make(map[Group][]Question, len(Groups)),
	}
	for _, name := range questionNames {
		g, _ := GroupOf(name)
		def := Question{Name: name, Group: g, Weight: weights.Weight(name)}
		q.questions = append(q.questions, def)
		q.byGroup[g] = append(q.byGroup[g], def)
	}
	return q
}

// DefaultQuestionnaire returns the catalog with the default weight table.
func DefaultQuestionnaire() *Questionnaire {
	return NewQuestionnaire(DefaultWeights())
}

// Questions returns every question in canonical order.
func (q *Questionnaire) Questions() []Question {
	out := make([]Question, len(q.questions))
	copy(out, q.questions)
	return out
}

// InGroup returns the questions belonging to g in canonical order.
func (q *Questionnaire) InGroup(g Group) []Question {
	return q.byGroup[g]
}

// Names returns the canonical feature order.
func (q *Questionnaire) Names() []string {
	names := make([]string, len(q.questions))
	for i, def := range q.questions {
		names[i] = def.Name
	}
	return names
}
