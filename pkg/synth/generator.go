// Package synth produces labeled synthetic records used to train the classifier.
//
// Every record draws from its own PCG stream keyed by (seed, index), so a run
// is bit-for-bit reproducible whatever the number of workers.
package synth

import (
	"context"
	"fmt"
	"math/rand/v2"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/toyinlola/housingrisk/pkg/interfaces"
	"github.com/toyinlola/housingrisk/pkg/scorer"
)

// Sample is one generated, labeled record.
type Sample struct {
	Record   interfaces.Record
	Label    interfaces.RiskLevel
	Severity float64             // latent severity; questionnaire samples only
	Derived  *scorer.IndexResult // engine output; questionnaire samples only
}

// Generator produces n labeled samples for a seed.
type Generator interface {
	Variant() interfaces.Variant
	Generate(ctx context.Context, n int, seed uint64) ([]Sample, error)
}

type config struct {
	workers int
	noise   float64
}

// Option configures a generator.
type Option func(*config)

// WithWorkers bounds the number of goroutines used for generation.
func WithWorkers(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.workers = n
		}
	}
}

// WithNoise sets the standard deviation of the per-group severity perturbation.
func WithNoise(sigma float64) Option {
	return func(c *config) {
		if sigma >= 0 {
			c.noise = sigma
		}
	}
}

func newConfig(opts []Option) config {
	c := config{
		workers: runtime.GOMAXPROCS(0),
		noise:   DefaultNoise,
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// sampleFunc draws record i from src.
type sampleFunc func(i int, src rand.Source) (Sample, error)

// generate fills n samples on a bounded worker pool. Workers own disjoint
// index ranges of the output slice.
func generate(ctx context.Context, n, workers int, seed uint64, fn sampleFunc) ([]Sample, error) {
	if n <= 0 {
		return nil, fmt.Errorf("synth: sample count must be positive, got %d", n)
	}

	out := make([]Sample, n)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	chunk := (n + workers - 1) / workers
	for start := 0; start < n; start += chunk {
		end := min(start+chunk, n)
		g.Go(func() error {
			for i := start; i < end; i++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				s, err := fn(i, rand.NewPCG(seed, uint64(i)))
				if err != nil {
					return fmt.Errorf("synth: sample %d: %w", i, err)
				}
				out[i] = s
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Distribution counts samples per label.
type Distribution map[interfaces.RiskLevel]int

// Count tallies the labels of samples.
func Count(samples []Sample) Distribution {
	d := make(Distribution, len(interfaces.RiskLevels))
	for _, s := range samples {
		d[s.Label]++
	}
	return d
}

// Total returns the number of samples counted.
func (d Distribution) Total() int {
	var n int
	for _, c := range d {
		n += c
	}
	return n
}

// Share returns the fraction of samples with label l.
func (d Distribution) Share(l interfaces.RiskLevel) float64 {
	total := d.Total()
	if total == 0 {
		return 0
	}
	return float64(d[l]) / float64(total)
}

// Represented reports whether every label holds at least minShare of the samples.
func (d Distribution) Represented(minShare float64) bool {
	for _, l := range interfaces.RiskLevels {
		if d[l] == 0 || d.Share(l) < minShare {
			return false
		}
	}
	return true
}

func (d Distribution) String() string {
	parts := make([]string, 0, len(interfaces.RiskLevels))
	for _, l := range interfaces.RiskLevels {
		parts = append(parts, fmt.Sprintf("%s=%d (%.1f%%)", l, d[l], 100*d.Share(l)))
	}
	return strings.Join(parts, " ")
}
