package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/toyinlola/housingrisk/pkg/interfaces"
	"github.com/toyinlola/housingrisk/pkg/scorer"
)

// ScorePlaces is the number of decimals kept in outbound scores.
const ScorePlaces = 4

// Recorder observes service outcomes. pkg/metrics implements it.
type Recorder interface {
	ObserveAssessment(strategy string, risk interfaces.RiskLevel, elapsed time.Duration)
	ObserveInvalid(variant interfaces.Variant)
}

type nopRecorder struct{}

func (nopRecorder) ObserveAssessment(string, interfaces.RiskLevel, time.Duration) {}
func (nopRecorder) ObserveInvalid(interfaces.Variant)                             {}

// Service applies the selected strategy of each variant and finalizes the
// outbound assessment. It is safe for concurrent use once built.
type Service struct {
	registry *Registry
	selected map[interfaces.Variant]string
	version  string
	recorder Recorder
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithStrategy selects the decision authority for a variant.
func WithStrategy(variant interfaces.Variant, name string) ServiceOption {
	return func(s *Service) { s.selected[variant] = name }
}

// WithRecorder attaches an outcome recorder.
func WithRecorder(r Recorder) ServiceOption {
	return func(s *Service) { s.recorder = r }
}

// NewService creates a service reporting version as the model version. By
// default the questionnaire is scored by the index engine and physical records
// by the rule heuristic. Every selected strategy must be registered.
func NewService(registry *Registry, version string, opts ...ServiceOption) (*Service, error) {
	s := &Service{
		registry: registry,
		selected: map[interfaces.Variant]string{
			interfaces.VariantQuestionnaire: scorer.StrategyIndex,
			interfaces.VariantPhysical:      scorer.StrategyRules,
		},
		version:  version,
		recorder: nopRecorder{},
	}
	for _, opt := range opts {
		opt(s)
	}
	for variant, name := range s.selected {
		if registry.Get(variant, name) == nil {
			return nil, fmt.Errorf("pipeline: %s strategy %q is not registered", variant, name)
		}
	}
	return s, nil
}

// Version returns the model version reported on every assessment.
func (s *Service) Version() string { return s.version }

// Selected returns the strategy name serving a variant.
func (s *Service) Selected(variant interfaces.Variant) string { return s.selected[variant] }

// Assess scores one record with the selected strategy.
func (s *Service) Assess(ctx context.Context, rec *interfaces.Record) (*interfaces.Assessment, error) {
	if rec == nil {
		return nil, interfaces.Invalid("record", "record is required")
	}
	name, ok := s.selected[rec.Variant]
	if !ok {
		return nil, interfaces.Invalid("variant", "unsupported variant %q", rec.Variant)
	}
	strategy := s.registry.Get(rec.Variant, name)

	start := time.Now()
	a, err := strategy.Score(ctx, rec)
	if err != nil {
		if errors.Is(err, interfaces.ErrInvalidInput) {
			s.recorder.ObserveInvalid(rec.Variant)
		}
		return nil, err
	}

	Finalize(a, s.version)
	s.recorder.ObserveAssessment(a.Strategy, a.Risk, time.Since(start))
	return a, nil
}

// Compare scores the record with every enabled strategy of its variant and
// returns the selected strategy's assessment alongside all results.
func (s *Service) Compare(ctx context.Context, rec *interfaces.Record) (*interfaces.Assessment, []*interfaces.StrategyResult, error) {
	primary, err := s.Assess(ctx, rec)
	if err != nil {
		return nil, nil, err
	}
	results, err := NewEngine(s.registry).RunAll(ctx, rec)
	if err != nil {
		return nil, nil, err
	}
	for _, r := range results {
		if r.Assessment != nil {
			Finalize(r.Assessment, s.version)
		}
	}
	return primary, results, nil
}

// Finalize rounds the score, clamps it to [0,1], caps the reasons and stamps
// the model version.
func Finalize(a *interfaces.Assessment, version string) {
	score := decimal.NewFromFloat(a.Score).Round(ScorePlaces)
	switch {
	case score.IsNegative():
		score = decimal.Zero
	case score.GreaterThan(decimal.NewFromInt(1)):
		score = decimal.NewFromInt(1)
	}
	a.Score = score.InexactFloat64()

	if a.RiskIndex != nil {
		idx := decimal.NewFromFloat(*a.RiskIndex).Round(ScorePlaces).InexactFloat64()
		a.RiskIndex = &idx
	}
	if len(a.Reasons) > scorer.MaxReasons {
		a.Reasons = a.Reasons[:scorer.MaxReasons]
	}
	if a.Reasons == nil {
		a.Reasons = []string{}
	}
	a.ModelVersion = version
}
