package classifier

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/toyinlola/housingrisk/pkg/interfaces"
)

// Training defaults.
const (
	DefaultIterations = 1000
	DefaultL2         = 1e-3
)

// TrainConfig controls Fit. A zero LearningRate selects the inverse of the
// Lipschitz bound of the loss gradient, which guarantees descent.
type TrainConfig struct {
	Iterations   int
	LearningRate float64
	L2           float64
	Standardize  bool
	Version      string
}

func (c TrainConfig) withDefaults() TrainConfig {
	if c.Iterations <= 0 {
		c.Iterations = DefaultIterations
	}
	if c.L2 < 0 {
		c.L2 = 0
	}
	return c
}

// Fit trains a logistic regression by full-batch gradient descent on the
// cross-entropy loss with an L2 penalty. Targets are probabilities in [0,1], so
// the soft ordinal labels LOW=0, MEDIUM=0.5, HIGH=1 and hard 0/1 labels both
// work. Weights start at zero; the fit is deterministic.
func Fit(names []string, x [][]float64, y []float64, cfg TrainConfig) (*Logistic, error) {
	cfg = cfg.withDefaults()
	if len(x) == 0 {
		return nil, errors.New("classifier: empty training set")
	}
	if len(x) != len(y) {
		return nil, fmt.Errorf("classifier: %d rows but %d targets", len(x), len(y))
	}
	d := len(names)
	for i, row := range x {
		if len(row) != d {
			return nil, fmt.Errorf("classifier: row %d has %d features, want %d", i, len(row), d)
		}
		if y[i] < 0 || y[i] > 1 {
			return nil, fmt.Errorf("classifier: target %d is %v, want [0,1]", i, y[i])
		}
	}

	m := &Logistic{
		version: cfg.Version,
		names:   append([]string(nil), names...),
		weights: make([]float64, d),
	}
	if cfg.Standardize {
		m.means, m.scales = columnStats(x, d)
	}

	xs := make([][]float64, len(x))
	var sq float64
	for i, row := range x {
		t, err := m.transform(row)
		if err != nil {
			return nil, err
		}
		xs[i] = t
		sq += floats.Dot(t, t) + 1
	}

	n := float64(len(xs))
	lr := cfg.LearningRate
	if lr <= 0 {
		lr = 1 / (0.25*sq/n + cfg.L2)
	}

	grad := make([]float64, d)
	for iter := 0; iter < cfg.Iterations; iter++ {
		for j := range grad {
			grad[j] = 0
		}
		var gradB float64
		for i, row := range xs {
			r := sigmoid(floats.Dot(m.weights, row)+m.intercept) - y[i]
			floats.AddScaled(grad, r, row)
			gradB += r
		}
		floats.Scale(1/n, grad)
		floats.AddScaled(grad, cfg.L2, m.weights)

		floats.AddScaled(m.weights, -lr, grad)
		m.intercept -= lr * gradB / n
	}
	return m, nil
}

// columnStats returns per-column population means and standard deviations.
// Constant columns get a scale of 1.
func columnStats(x [][]float64, d int) (means, scales []float64) {
	means = make([]float64, d)
	scales = make([]float64, d)
	col := make([]float64, len(x))
	for j := 0; j < d; j++ {
		for i, row := range x {
			col[i] = row[j]
		}
		mean, std := stat.PopMeanStdDev(col, nil)
		means[j] = mean
		scales[j] = std
		if std == 0 {
			scales[j] = 1
		}
	}
	return means, scales
}

// Accuracy returns the share of rows whose predicted class equals want.
func Accuracy(m Model, x [][]float64, want []interfaces.RiskLevel) (float64, error) {
	if len(x) == 0 || len(x) != len(want) {
		return 0, fmt.Errorf("classifier: %d rows but %d labels", len(x), len(want))
	}
	var hits int
	for i, row := range x {
		got, err := m.Predict(row)
		if err != nil {
			return 0, err
		}
		if got == want[i] {
			hits++
		}
	}
	return float64(hits) / float64(len(x)), nil
}
