package classifier

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/toyinlola/housingrisk/pkg/interfaces"
	"github.com/toyinlola/housingrisk/pkg/normalize"
	"github.com/toyinlola/housingrisk/pkg/scorer"
)

// StrategyModel names the learned strategy.
const StrategyModel = "model"

// ReasonMode selects where the learned strategy takes its reasons from.
type ReasonMode string

const (
	ReasonsRules         ReasonMode = "rules"
	ReasonsContributions ReasonMode = "contributions"
)

// ParseReasonMode validates a reason mode name.
func ParseReasonMode(s string) (ReasonMode, error) {
	switch ReasonMode(s) {
	case ReasonsRules, ReasonsContributions:
		return ReasonMode(s), nil
	default:
		return "", fmt.Errorf("invalid reasons mode %q (want rules|contributions)", s)
	}
}

// Strategy serves a trained model. The deterministic baseline supplies the
// fallback score, the diagnostic and the rule reasons.
type Strategy struct {
	model      Model
	vectorizer normalize.Vectorizer
	baseline   interfaces.Scorer
	reasons    ReasonMode
	labeler    Labeler
	onFallback func()
}

// StrategyOption configures a Strategy.
type StrategyOption func(*Strategy)

// WithReasons selects the reason source.
func WithReasons(mode ReasonMode) StrategyOption {
	return func(s *Strategy) { s.reasons = mode }
}

// WithLabeler sets how feature columns are rendered in contribution reasons.
func WithLabeler(l Labeler) StrategyOption {
	return func(s *Strategy) { s.labeler = l }
}

// WithFallbackHook registers a callback run on every inference fallback.
func WithFallbackHook(fn func()) StrategyOption {
	return func(s *Strategy) { s.onFallback = fn }
}

// NewStrategy binds a model to the vectorizer of its variant. The model's
// feature order must equal the vectorizer's.
func NewStrategy(model Model, v normalize.Vectorizer, baseline interfaces.Scorer, opts ...StrategyOption) (*Strategy, error) {
	if !slices.Equal(model.Features(), v.Names()) {
		return nil, fmt.Errorf("%w: model feature order does not match the %s catalog", interfaces.ErrModelLoad, v.Variant())
	}
	if baseline.Variant() != v.Variant() {
		return nil, fmt.Errorf("classifier: baseline %q scores %s records, model scores %s",
			baseline.Name(), baseline.Variant(), v.Variant())
	}
	s := &Strategy{
		model:      model,
		vectorizer: v,
		baseline:   baseline,
		reasons:    ReasonsRules,
		onFallback: func() {},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Name implements interfaces.Scorer.
func (s *Strategy) Name() string { return StrategyModel }

// Variant implements interfaces.Scorer.
func (s *Strategy) Variant() interfaces.Variant { return s.vectorizer.Variant() }

// Model returns the served model.
func (s *Strategy) Model() Model { return s.model }

// Score implements interfaces.Scorer. Inference failures never surface: the
// baseline score is used instead and the assessment is marked as a fallback.
func (s *Strategy) Score(ctx context.Context, rec *interfaces.Record) (*interfaces.Assessment, error) {
	x, err := s.vectorizer.Vector(rec)
	if err != nil {
		return nil, err
	}
	base, err := s.baseline.Score(ctx, rec)
	if err != nil {
		return nil, err
	}

	a := &interfaces.Assessment{
		Strategy:   StrategyModel,
		Diagnostic: base.Diagnostic,
		RiskIndex:  base.RiskIndex,
	}

	proba, err := s.proba(x)
	if err == nil {
		a.Score = proba
		a.Risk = scorer.LevelFromScore(proba)
	} else {
		slog.Warn("classifier: inference failed, using baseline score",
			"baseline", s.baseline.Name(), "error", err)
		s.onFallback()
		a.Score = base.Score
		a.Fallback = true
		a.Risk = base.Risk
		if level, perr := s.predict(x); perr == nil {
			a.Risk = level
		} else {
			slog.Warn("classifier: class prediction failed, using baseline label", "error", perr)
		}
	}

	a.Reasons = s.explain(x, base)
	return a, nil
}

// proba asks the model for a probability, converting panics and missing
// support into ErrInference.
func (s *Strategy) proba(x []float64) (p float64, err error) {
	pm, ok := s.model.(ProbabilisticModel)
	if !ok {
		return 0, fmt.Errorf("%w: model %s has no probability output", interfaces.ErrInference, s.model.Version())
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", interfaces.ErrInference, r)
		}
	}()
	p, err = pm.PredictProba(x)
	if err != nil {
		return 0, err
	}
	if !(p >= 0 && p <= 1) {
		return 0, fmt.Errorf("%w: probability %v outside [0,1]", interfaces.ErrInference, p)
	}
	return p, nil
}

// predict asks the model for a class under the same panic guard as proba.
func (s *Strategy) predict(x []float64) (level interfaces.RiskLevel, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", interfaces.ErrInference, r)
		}
	}()
	return s.model.Predict(x)
}

func (s *Strategy) explain(x []float64, base *interfaces.Assessment) []string {
	if s.reasons == ReasonsContributions {
		if lm, ok := s.model.(LinearModel); ok {
			if c, err := lm.Contributions(x); err == nil {
				return Explain(c, lm.Features(), s.labeler)
			}
		}
	}
	return base.Reasons
}
