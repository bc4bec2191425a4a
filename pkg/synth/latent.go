package synth

import (
	"context"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/toyinlola/housingrisk/pkg/catalog"
	"github.com/toyinlola/housingrisk/pkg/interfaces"
	"github.com/toyinlola/housingrisk/pkg/scorer"
)

// DefaultNoise is the standard deviation of the per-group severity perturbation.
const DefaultNoise = 0.08

// Component is one Beta distribution of the severity mixture, selected with
// probability Weight.
type Component struct {
	Weight      float64
	Alpha, Beta float64
}

// DefaultMixture skews a quarter of the records low, a third balanced and the
// rest high so that HIGH records are not rare.
var DefaultMixture = []Component{
	{Weight: 0.25, Alpha: 1.2, Beta: 5.0},
	{Weight: 0.35, Alpha: 2.2, Beta: 2.2},
	{Weight: 0.40, Alpha: 5.0, Beta: 1.2},
}

// OrdinalProbabilities returns the probabilities of answering 1, 2 and 3 at
// severity s. Higher severity shifts mass toward 3.
func OrdinalProbabilities(s float64) [3]float64 {
	p3 := 0.05 + 0.85*s
	p1 := 0.05 + 0.85*(1-s)
	p2 := max(0, 1-p1-p3)
	sum := p1 + p2 + p3
	return [3]float64{p1 / sum, p2 / sum, p3 / sum}
}

// Latent generates questionnaire records around a latent severity and labels
// them with the risk-index engine.
type Latent struct {
	calc    *scorer.Calculator
	mixture []Component
	cfg     config
}

// NewLatent creates a latent-severity generator labeling with calc.
func NewLatent(calc *scorer.Calculator, opts ...Option) *Latent {
	return &Latent{
		calc:    calc,
		mixture: DefaultMixture,
		cfg:     newConfig(opts),
	}
}

// Variant implements Generator.
func (g *Latent) Variant() interfaces.Variant { return interfaces.VariantQuestionnaire }

// Generate implements Generator.
func (g *Latent) Generate(ctx context.Context, n int, seed uint64) ([]Sample, error) {
	return generate(ctx, n, g.cfg.workers, seed, g.sample)
}

func (g *Latent) sample(_ int, src rand.Source) (Sample, error) {
	severity := g.severity(src)
	noise := distuv.Normal{Mu: 0, Sigma: g.cfg.noise, Src: src}

	q := g.calc.Questionnaire()
	answers := make(map[string]float64, len(q.Names()))
	for _, group := range catalog.Groups {
		s := severity
		if g.cfg.noise > 0 {
			s = clip01(severity + noise.Rand())
		}
		p := OrdinalProbabilities(s)
		choice := distuv.NewCategorical(p[:], src)
		for _, def := range q.InGroup(group) {
			answers[def.Name] = choice.Rand() + catalog.OrdinalMin
		}
	}

	res, err := g.calc.Index(answers)
	if err != nil {
		return Sample{}, err
	}
	return Sample{
		Record:   interfaces.Record{Variant: interfaces.VariantQuestionnaire, Answers: answers},
		Label:    res.Level,
		Severity: severity,
		Derived:  res,
	}, nil
}

// severity draws from the Beta mixture.
func (g *Latent) severity(src rand.Source) float64 {
	u := distuv.Uniform{Min: 0, Max: 1, Src: src}.Rand()
	var acc float64
	for _, c := range g.mixture {
		acc += c.Weight
		if u < acc {
			return distuv.Beta{Alpha: c.Alpha, Beta: c.Beta, Src: src}.Rand()
		}
	}
	last := g.mixture[len(g.mixture)-1]
	return distuv.Beta{Alpha: last.Alpha, Beta: last.Beta, Src: src}.Rand()
}

func clip01(x float64) float64 {
	return min(1, max(0, x))
}
