package scorer

import (
	"context"
	"fmt"
	"sort"

	"github.com/toyinlola/housingrisk/pkg/catalog"
	"github.com/toyinlola/housingrisk/pkg/interfaces"
	"github.com/toyinlola/housingrisk/pkg/normalize"
)

// Strategy names.
const (
	StrategyIndex = "index"
	StrategyRules = "rules"
)

// IndexStrategy makes the risk-index engine the decision authority for
// questionnaire records.
type IndexStrategy struct {
	calc *Calculator
}

// NewIndexStrategy wraps a Calculator as a scoring strategy.
func NewIndexStrategy(calc *Calculator) *IndexStrategy {
	return &IndexStrategy{calc: calc}
}

// Name implements interfaces.Scorer.
func (s *IndexStrategy) Name() string { return StrategyIndex }

// Variant implements interfaces.Scorer.
func (s *IndexStrategy) Variant() interfaces.Variant { return interfaces.VariantQuestionnaire }

// Score implements interfaces.Scorer. The score is the index rescaled to [0,1].
func (s *IndexStrategy) Score(_ context.Context, rec *interfaces.Record) (*interfaces.Assessment, error) {
	if rec == nil {
		return nil, interfaces.Invalid("record", "record is required")
	}
	res, err := s.calc.Index(rec.Answers)
	if err != nil {
		return nil, err
	}

	index := res.Index
	return &interfaces.Assessment{
		Score:      index / MaxRiskIndex,
		Risk:       res.Level,
		Reasons:    s.reasons(res, rec.Answers),
		Strategy:   StrategyIndex,
		Diagnostic: IndexDiagnostic(index),
		RiskIndex:  &index,
	}, nil
}

// reasons lists the three group ratings followed by the heaviest questions
// answered at the highest level.
func (s *IndexStrategy) reasons(res *IndexResult, answers map[string]float64) []string {
	reasons := make([]string, 0, MaxReasons)
	for _, g := range catalog.Groups {
		reasons = append(reasons, fmt.Sprintf("%s rating %.2f/3", g.Title(), res.GroupRating(g)))
	}

	var worst []catalog.Question
	for _, q := range s.calc.Questionnaire().Questions() {
		if answers[q.Name] == catalog.OrdinalMax {
			worst = append(worst, q)
		}
	}
	sort.SliceStable(worst, func(i, j int) bool {
		return worst[i].Weight > worst[j].Weight
	})
	for _, q := range worst {
		if len(reasons) == MaxReasons {
			break
		}
		reasons = append(reasons, "High-risk answer: "+q.Label())
	}
	return reasons
}

// RuleStrategy scores physical records with the fixed-rule heuristic.
type RuleStrategy struct {
	normalizer *normalize.Physical
	factors    []Factor
	rules      []Rule
}

// NewRuleStrategy creates the deterministic strategy for physical records.
func NewRuleStrategy(normalizer *normalize.Physical) *RuleStrategy {
	return &RuleStrategy{
		normalizer: normalizer,
		factors:    DefaultFactors(),
		rules:      DefaultRules(),
	}
}

// Name implements interfaces.Scorer.
func (s *RuleStrategy) Name() string { return StrategyRules }

// Variant implements interfaces.Scorer.
func (s *RuleStrategy) Variant() interfaces.Variant { return interfaces.VariantPhysical }

// Rules returns the reason rules in priority order.
func (s *RuleStrategy) Rules() []Rule { return s.rules }

// Score implements interfaces.Scorer.
func (s *RuleStrategy) Score(_ context.Context, rec *interfaces.Record) (*interfaces.Assessment, error) {
	// Validate the record against the same contract the classifier sees.
	if _, err := s.normalizer.Vector(rec); err != nil {
		return nil, err
	}

	score := Heuristic(s.factors, rec.Building)
	level := LevelFromScore(score)
	return &interfaces.Assessment{
		Score:      score,
		Risk:       level,
		Reasons:    Reasons(s.rules, rec.Building),
		Strategy:   StrategyRules,
		Diagnostic: fmt.Sprintf("Heuristic score %.2f (%s)", score, level),
	}, nil
}
