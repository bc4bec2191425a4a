// Package classifier implements the learned scoring path: a logistic
// regression fitted offline on synthetic data, its JSON artifact, and the
// strategy that serves it with a deterministic fallback.
package classifier

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/toyinlola/housingrisk/pkg/interfaces"
	"github.com/toyinlola/housingrisk/pkg/scorer"
)

// Model is the minimum a trained classifier offers.
type Model interface {
	Version() string
	Features() []string
	Predict(x []float64) (interfaces.RiskLevel, error)
}

// ProbabilisticModel exposes a probability-like severity score in [0,1].
type ProbabilisticModel interface {
	Model
	PredictProba(x []float64) (float64, error)
}

// LinearModel exposes signed per-feature contributions. Only additive models
// can implement it; a non-linear model needs its own attribution method.
type LinearModel interface {
	Model
	Contributions(x []float64) ([]float64, error)
}

// Logistic is a fitted logistic regression. It is immutable once built and safe
// for concurrent use.
type Logistic struct {
	version   string
	names     []string
	weights   []float64
	intercept float64
	means     []float64 // nil when inputs are used as-is
	scales    []float64
}

// Version implements Model.
func (m *Logistic) Version() string { return m.version }

// Features implements Model.
func (m *Logistic) Features() []string {
	out := make([]string, len(m.names))
	copy(out, m.names)
	return out
}

// Weights returns a copy of the coefficients in feature order.
func (m *Logistic) Weights() []float64 {
	out := make([]float64, len(m.weights))
	copy(out, m.weights)
	return out
}

// Intercept returns the bias term.
func (m *Logistic) Intercept() float64 { return m.intercept }

// Standardized reports whether inputs are z-scored before the linear term.
func (m *Logistic) Standardized() bool { return m.means != nil }

// transform returns the model-space input: z-scored when the model carries
// means and scales, otherwise a copy of x.
func (m *Logistic) transform(x []float64) ([]float64, error) {
	if len(x) != len(m.weights) {
		return nil, fmt.Errorf("%w: got %d features, model expects %d", interfaces.ErrInference, len(x), len(m.weights))
	}
	out := make([]float64, len(x))
	copy(out, x)
	if m.means == nil {
		return out, nil
	}
	floats.Sub(out, m.means)
	floats.Div(out, m.scales)
	return out, nil
}

// PredictProba implements ProbabilisticModel.
func (m *Logistic) PredictProba(x []float64) (float64, error) {
	xs, err := m.transform(x)
	if err != nil {
		return 0, err
	}
	p := sigmoid(floats.Dot(m.weights, xs) + m.intercept)
	if math.IsNaN(p) {
		return 0, fmt.Errorf("%w: probability is NaN", interfaces.ErrInference)
	}
	return p, nil
}

// Predict implements Model. The class is the bucketed probability.
func (m *Logistic) Predict(x []float64) (interfaces.RiskLevel, error) {
	p, err := m.PredictProba(x)
	if err != nil {
		return "", err
	}
	return scorer.LevelFromScore(p), nil
}

// Contributions implements LinearModel: the model-space input times the weight.
func (m *Logistic) Contributions(x []float64) ([]float64, error) {
	xs, err := m.transform(x)
	if err != nil {
		return nil, err
	}
	floats.Mul(xs, m.weights)
	return xs, nil
}

func sigmoid(z float64) float64 {
	if z >= 0 {
		return 1 / (1 + math.Exp(-z))
	}
	e := math.Exp(z)
	return e / (1 + e)
}
