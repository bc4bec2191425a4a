// Package normalize maps raw records into fixed-order numeric feature vectors.
//
// Ordinal answers are validated strictly and rejected when out of domain, while
// physical measurements outside their bounds are clamped. The asymmetry is part
// of the input contract.
package normalize

import (
	"fmt"
	"math"

	"github.com/toyinlola/housingrisk/pkg/catalog"
	"github.com/toyinlola/housingrisk/pkg/interfaces"
)

// Vectorizer turns one record into a feature vector in the order given by Names.
type Vectorizer interface {
	Variant() interfaces.Variant
	Names() []string
	Vector(rec *interfaces.Record) ([]float64, error)
}

// MinMax maps x into [0,1] using the bounds lo and hi. Values below lo give 0,
// values at or above hi give 1. Degenerate bounds give 0.
func MinMax(x, lo, hi float64) float64 {
	if hi <= lo {
		return 0
	}
	return clamp01((x - lo) / (hi - lo))
}

func clamp01(x float64) float64 {
	switch {
	case x < 0:
		return 0
	case x > 1:
		return 1
	default:
		return x
	}
}

// Ordinal validates a single questionnaire answer.
func Ordinal(name string, v float64) (float64, error) {
	if v != 1 && v != 2 && v != 3 {
		return 0, interfaces.Invalid(name, "must be one of {%d,%d,%d}, got %v",
			catalog.OrdinalMin, catalog.OrdinalMin+1, catalog.OrdinalMax, v)
	}
	return v, nil
}

// OrdinalAnswers validates that answers has a valid value for every name and
// returns them in the same order.
func OrdinalAnswers(answers map[string]float64, names []string) ([]float64, error) {
	if answers == nil {
		return nil, interfaces.Invalid("answers", "questionnaire answers are required")
	}
	vec := make([]float64, len(names))
	for i, name := range names {
		v, ok := answers[name]
		if !ok {
			return nil, interfaces.Invalid(name, "required field is missing")
		}
		ov, err := Ordinal(name, v)
		if err != nil {
			return nil, err
		}
		vec[i] = ov
	}
	return vec, nil
}

// Questionnaire vectorises variant A records: ordinals pass through as floats.
type Questionnaire struct {
	names []string
}

// NewQuestionnaire creates a vectorizer for the given catalog.
func NewQuestionnaire(q *catalog.Questionnaire) *Questionnaire {
	return &Questionnaire{names: q.Names()}
}

// Variant implements Vectorizer.
func (q *Questionnaire) Variant() interfaces.Variant { return interfaces.VariantQuestionnaire }

// Names implements Vectorizer.
func (q *Questionnaire) Names() []string {
	out := make([]string, len(q.names))
	copy(out, q.names)
	return out
}

// Vector implements Vectorizer.
func (q *Questionnaire) Vector(rec *interfaces.Record) ([]float64, error) {
	if rec == nil {
		return nil, interfaces.Invalid("record", "record is required")
	}
	return OrdinalAnswers(rec.Answers, q.names)
}

// Physical vectorises variant B records.
type Physical struct {
	catalog *catalog.Physical
	names   []string
}

// NewPhysical creates a vectorizer for the given physical catalog.
func NewPhysical(c *catalog.Physical) *Physical {
	return &Physical{catalog: c, names: c.Names()}
}

// Variant implements Vectorizer.
func (p *Physical) Variant() interfaces.Variant { return interfaces.VariantPhysical }

// Names implements Vectorizer.
func (p *Physical) Names() []string {
	out := make([]string, len(p.names))
	copy(out, p.names)
	return out
}

// Vector implements Vectorizer.
func (p *Physical) Vector(rec *interfaces.Record) ([]float64, error) {
	if rec == nil || rec.Building == nil {
		return nil, interfaces.Invalid("building", "physical measurements are required")
	}
	return p.Building(rec.Building)
}

// Building normalises one physical record.
func (p *Physical) Building(b *interfaces.Building) ([]float64, error) {
	values := make(map[string]float64, len(p.names))

	for _, f := range p.catalog.Fields() {
		switch f.Kind {
		case catalog.KindNumeric:
			raw, ok := b.Numeric(f.Name)
			if !ok {
				return nil, fmt.Errorf("normalize: no accessor for field %q", f.Name)
			}
			if math.IsNaN(raw) || math.IsInf(raw, 0) {
				return nil, interfaces.Invalid(f.Name, "must be a finite number")
			}
			n := MinMax(raw, f.Lo, f.Hi)
			if f.Inverted {
				n = 1 - n
			}
			values[f.Name] = n * f.Scale()

		case catalog.KindBoolean:
			raw, ok := b.Numeric(f.Name)
			if !ok {
				return nil, fmt.Errorf("normalize: no accessor for field %q", f.Name)
			}
			values[f.Name] = raw

		case catalog.KindEnum:
			raw, ok := b.Category(f.Name)
			if !ok {
				return nil, fmt.Errorf("normalize: no accessor for field %q", f.Name)
			}
			hot, err := OneHot(f, raw)
			if err != nil {
				return nil, err
			}
			for i, c := range f.Categories {
				values[catalog.IndicatorName(f.Name, c)] = hot[i]
			}
		}
	}

	vec := make([]float64, len(p.names))
	for i, name := range p.names {
		vec[i] = values[name]
	}
	return vec, nil
}

// OneHot expands an enum value into one indicator per category. Exactly one
// indicator is 1; an unseen category is rejected rather than encoded as all zeros.
func OneHot(f catalog.Field, value string) ([]float64, error) {
	hot := make([]float64, len(f.Categories))
	for i, c := range f.Categories {
		if c == value {
			hot[i] = 1
			return hot, nil
		}
	}
	if value == "" {
		return nil, interfaces.Invalid(f.Name, "required field is missing")
	}
	return nil, interfaces.Invalid(f.Name, "unknown category %q (want one of %v)", value, f.Categories)
}
