package synth

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/toyinlola/housingrisk/pkg/catalog"
	"github.com/toyinlola/housingrisk/pkg/interfaces"
)

// Range is a closed sampling interval.
type Range struct {
	Lo, Hi float64
}

// Profile holds the sampling table of one risk label. Numeric fields draw
// uniformly from their Range (Integer fields round down to whole numbers),
// booleans are true with the given probability, and enums pick a category
// with the given weights in catalog category order.
type Profile struct {
	Numeric map[string]Range
	Integer map[string]bool
	Boolean map[string]float64
	Enum    map[string][]float64
}

// DefaultProfiles returns the per-label sampling tables of the physical variant.
func DefaultProfiles() map[interfaces.RiskLevel]Profile {
	integer := map[string]bool{"number_of_bays": true}
	return map[interfaces.RiskLevel]Profile{
		interfaces.RiskLow: {
			Numeric: map[string]Range{
				"fault_distance_km":              {25, 80},
				"basic_wind_speed_mps":           {10, 30},
				"slope_deg":                      {0, 10},
				"elevation_m":                    {50, 600},
				"distance_to_rivers_and_seas_km": {5, 15},
				"building_proximity_m":           {5, 12},
				"number_of_bays":                 {1, 4},
				"column_spacing_m":               {2, 4.5},
				"maximum_crack_mm":               {0, 2},
				"roof_slope_deg":                 {20, 35},
				"roof_fastener_distance_cm":      {2, 10},
			},
			Integer: integer,
			Boolean: map[string]float64{"potential_liquefaction": 0.05, "vertical_irregularity": 0.05},
			Enum: map[string][]float64{
				"surface_runoff": {0.7, 0.25, 0.05},
				"roof_design":    {0.5, 0.4, 0.05, 0.05},
			},
		},
		interfaces.RiskMedium: {
			Numeric: map[string]Range{
				"fault_distance_km":              {8, 25},
				"basic_wind_speed_mps":           {30, 45},
				"slope_deg":                      {10, 25},
				"elevation_m":                    {10, 50},
				"distance_to_rivers_and_seas_km": {1, 5},
				"building_proximity_m":           {2, 5},
				"number_of_bays":                 {3, 8},
				"column_spacing_m":               {4, 6.5},
				"maximum_crack_mm":               {2, 10},
				"roof_slope_deg":                 {10, 20},
				"roof_fastener_distance_cm":      {10, 18},
			},
			Integer: integer,
			Boolean: map[string]float64{"potential_liquefaction": 0.25, "vertical_irregularity": 0.2},
			Enum: map[string][]float64{
				"surface_runoff": {0.3, 0.5, 0.2},
				"roof_design":    {0.4, 0.25, 0.2, 0.15},
			},
		},
		interfaces.RiskHigh: {
			Numeric: map[string]Range{
				"fault_distance_km":              {0, 8},
				"basic_wind_speed_mps":           {45, 70},
				"slope_deg":                      {25, 45},
				"elevation_m":                    {0, 10},
				"distance_to_rivers_and_seas_km": {0, 1},
				"building_proximity_m":           {0, 2},
				"number_of_bays":                 {6, 14},
				"column_spacing_m":               {6, 9},
				"maximum_crack_mm":               {10, 80},
				"roof_slope_deg":                 {0, 10},
				"roof_fastener_distance_cm":      {18, 25},
			},
			Integer: integer,
			Boolean: map[string]float64{"potential_liquefaction": 0.6, "vertical_irregularity": 0.5},
			Enum: map[string][]float64{
				"surface_runoff": {0.1, 0.3, 0.6},
				"roof_design":    {0.2, 0.1, 0.4, 0.3},
			},
		},
	}
}

// Conditioned generates physical records per target label from distinct
// sampling ranges. Labels are assigned, not derived.
type Conditioned struct {
	fields   []catalog.Field
	profiles map[interfaces.RiskLevel]Profile
	cfg      config
}

// NewConditioned validates that profiles cover every field of the catalog for
// every label.
func NewConditioned(c *catalog.Physical, profiles map[interfaces.RiskLevel]Profile, opts ...Option) (*Conditioned, error) {
	fields := c.Fields()
	for _, level := range interfaces.RiskLevels {
		p, ok := profiles[level]
		if !ok {
			return nil, fmt.Errorf("synth: no profile for %s", level)
		}
		for _, f := range fields {
			if err := p.covers(f); err != nil {
				return nil, fmt.Errorf("synth: %s profile: %w", level, err)
			}
		}
	}
	return &Conditioned{fields: fields, profiles: profiles, cfg: newConfig(opts)}, nil
}

func (p Profile) covers(f catalog.Field) error {
	switch f.Kind {
	case catalog.KindNumeric:
		r, ok := p.Numeric[f.Name]
		if !ok {
			return fmt.Errorf("no range for %s", f.Name)
		}
		if r.Hi < r.Lo {
			return fmt.Errorf("empty range for %s", f.Name)
		}
	case catalog.KindBoolean:
		if _, ok := p.Boolean[f.Name]; !ok {
			return fmt.Errorf("no probability for %s", f.Name)
		}
	case catalog.KindEnum:
		if w := p.Enum[f.Name]; len(w) != len(f.Categories) {
			return fmt.Errorf("%s needs %d category weights, got %d", f.Name, len(f.Categories), len(w))
		}
	}
	return nil
}

// Variant implements Generator.
func (g *Conditioned) Variant() interfaces.Variant { return interfaces.VariantPhysical }

// Generate implements Generator. n is the number of records per label; the
// output holds 3n records ordered LOW, MEDIUM, HIGH.
func (g *Conditioned) Generate(ctx context.Context, n int, seed uint64) ([]Sample, error) {
	if n <= 0 {
		return nil, fmt.Errorf("synth: per-label count must be positive, got %d", n)
	}
	total := n * len(interfaces.RiskLevels)
	return generate(ctx, total, g.cfg.workers, seed, func(i int, src rand.Source) (Sample, error) {
		return g.sample(interfaces.RiskLevels[i/n], src)
	})
}

func (g *Conditioned) sample(level interfaces.RiskLevel, src rand.Source) (Sample, error) {
	p := g.profiles[level]
	b := &interfaces.Building{}

	for _, f := range g.fields {
		switch f.Kind {
		case catalog.KindNumeric:
			r := p.Numeric[f.Name]
			var v float64
			if p.Integer[f.Name] {
				v = math.Floor(distuv.Uniform{Min: r.Lo, Max: r.Hi + 1, Src: src}.Rand())
				v = min(v, r.Hi)
			} else {
				v = distuv.Uniform{Min: r.Lo, Max: r.Hi, Src: src}.Rand()
			}
			b.SetNumeric(f.Name, v)

		case catalog.KindBoolean:
			v := distuv.Bernoulli{P: p.Boolean[f.Name], Src: src}.Rand()
			b.SetNumeric(f.Name, v)

		case catalog.KindEnum:
			idx := int(distuv.NewCategorical(p.Enum[f.Name], src).Rand())
			b.SetCategory(f.Name, f.Categories[idx])
		}
	}

	return Sample{
		Record: interfaces.Record{Variant: interfaces.VariantPhysical, Building: b},
		Label:  level,
	}, nil
}
