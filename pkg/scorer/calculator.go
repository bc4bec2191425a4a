// Package scorer implements the deterministic scoring paths: the weighted
// risk-index engine for questionnaire records and the fixed-rule heuristic for
// physical records.
package scorer

import (
	"github.com/toyinlola/housingrisk/pkg/catalog"
	"github.com/toyinlola/housingrisk/pkg/interfaces"
	"github.com/toyinlola/housingrisk/pkg/normalize"
)

// IndexResult holds the derived fields of one questionnaire record.
type IndexResult struct {
	Hazard        float64              `json:"hazard_rating"`        // 1-3
	Exposure      float64              `json:"exposure_rating"`      // 1-3
	Vulnerability float64              `json:"vulnerability_rating"` // 1-3
	Rating        float64              `json:"risk_rating"`          // 1-27
	Index         float64              `json:"risk_index"`           // 0-10
	Level         interfaces.RiskLevel `json:"risk"`
}

// GroupRating returns the sub-rating of one group.
func (r *IndexResult) GroupRating(g catalog.Group) float64 {
	switch g {
	case catalog.GroupHazard:
		return r.Hazard
	case catalog.GroupExposure:
		return r.Exposure
	default:
		return r.Vulnerability
	}
}

// Calculator computes the risk index from questionnaire answers.
type Calculator struct {
	questionnaire *catalog.Questionnaire
}

// Option configures the Calculator.
type Option func(*Calculator)

// WithWeights overrides the default weight table.
func WithWeights(w catalog.Weights) Option {
	return func(c *Calculator) {
		c.questionnaire = catalog.NewQuestionnaire(w)
	}
}

// WithQuestionnaire uses an already-built catalog.
func WithQuestionnaire(q *catalog.Questionnaire) Option {
	return func(c *Calculator) {
		c.questionnaire = q
	}
}

// NewCalculator creates an engine with optional configuration.
func NewCalculator(opts ...Option) *Calculator {
	c := &Calculator{
		questionnaire: catalog.DefaultQuestionnaire(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Questionnaire returns the catalog the engine scores against.
func (c *Calculator) Questionnaire() *catalog.Questionnaire {
	return c.questionnaire
}

// Index computes the risk index of one record.
// Formula: each group rating is the weighted average sum(v*w)/sum(w) of its
// answers; rating = hazard * exposure * vulnerability; index = rating/27 * 10.
// Every answer must be present and in {1,2,3}.
func (c *Calculator) Index(answers map[string]float64) (*IndexResult, error) {
	if answers == nil {
		return nil, interfaces.Invalid("answers", "questionnaire answers are required")
	}

	res := &IndexResult{}
	for _, g := range catalog.Groups {
		avg, err := c.groupAverage(answers, g)
		if err != nil {
			return nil, err
		}
		switch g {
		case catalog.GroupHazard:
			res.Hazard = avg
		case catalog.GroupExposure:
			res.Exposure = avg
		case catalog.GroupVulnerability:
			res.Vulnerability = avg
		}
	}

	res.Rating = res.Hazard * res.Exposure * res.Vulnerability
	res.Index = res.Rating / MaxRiskRating * MaxRiskIndex
	res.Level = LevelFromIndex(res.Index)
	return res, nil
}

func (c *Calculator) groupAverage(answers map[string]float64, g catalog.Group) (float64, error) {
	var sum, total float64
	for _, q := range c.questionnaire.InGroup(g) {
		raw, ok := answers[q.Name]
		if !ok {
			return 0, interfaces.Invalid(q.Name, "required field is missing")
		}
		v, err := normalize.Ordinal(q.Name, raw)
		if err != nil {
			return 0, err
		}
		w := float64(q.Weight)
		sum += v * w
		total += w
	}
	if total == 0 {
		return catalog.OrdinalMin, nil
	}
	return sum / total, nil
}
