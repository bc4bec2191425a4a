package normalize

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyinlola/housingrisk/pkg/catalog"
	"github.com/toyinlola/housingrisk/pkg/interfaces"
)

func TestMinMax_ClampLaw(t *testing.T) {
	cases := []struct {
		x, lo, hi float64
		want      float64
	}{
		{-5, 0, 50, 0},
		{0, 0, 50, 0},
		{25, 0, 50, 0.5},
		{50, 0, 50, 1},
		{500, 0, 50, 1},
		{10, 15, 60, 0},
		{5, 3, 3, 0},
	}
	for _, tc := range cases {
		assert.InDelta(t, tc.want, MinMax(tc.x, tc.lo, tc.hi), 1e-12, "MinMax(%v,%v,%v)", tc.x, tc.lo, tc.hi)
	}
}

func TestOrdinal_Domain(t *testing.T) {
	for _, v := range []float64{1, 2, 3} {
		got, err := Ordinal("Q", v)
		require.NoError(t, err)
		assert.Equal(t, v, got)
	}
	for _, v := range []float64{0, 4, 1.5, -2, math.Inf(1), math.NaN()} {
		_, err := Ordinal("Q", v)
		require.Error(t, err, "value %v", v)
		assert.True(t, errors.Is(err, interfaces.ErrInvalidInput))
	}
}

func TestQuestionnaire_Vector_CanonicalOrder(t *testing.T) {
	q := catalog.DefaultQuestionnaire()
	v := NewQuestionnaire(q)
	answers := make(map[string]float64)
	for i, n := range q.Names() {
		answers[n] = float64(1 + i%3)
	}

	vec, err := v.Vector(&interfaces.Record{Variant: interfaces.VariantQuestionnaire, Answers: answers})
	require.NoError(t, err)
	require.Len(t, vec, 52)
	for i := range vec {
		assert.Equal(t, float64(1+i%3), vec[i])
	}
}

func TestQuestionnaire_Vector_MissingFieldNamed(t *testing.T) {
	q := catalog.DefaultQuestionnaire()
	answers := make(map[string]float64)
	for _, n := range q.Names() {
		answers[n] = 2
	}
	delete(answers, "B4_1_TOURIST_MUST_SEE")

	_, err := NewQuestionnaire(q).Vector(&interfaces.Record{Answers: answers})
	var ie *interfaces.InputError
	require.ErrorAs(t, err, &ie)
	assert.Equal(t, "B4_1_TOURIST_MUST_SEE", ie.Field)
}

func TestPhysical_Vector_Scenario(t *testing.T) {
	p := NewPhysical(catalog.DefaultPhysical())
	b := sampleBuilding()

	vec, err := p.Building(b)
	require.NoError(t, err)
	require.Len(t, vec, 20)

	byName := index(p.Names(), vec)
	// 10 km of 50 inverted -> 0.8
	assert.InDelta(t, 0.8, byName["fault_distance_km"], 1e-12)
	// wind 30 in [15,60] -> 1/3
	assert.InDelta(t, 1.0/3.0, byName["basic_wind_speed_mps"], 1e-12)
	// elevation 750 of 1500 scaled by 0.35
	assert.InDelta(t, 0.5*0.35, byName["elevation_m"], 1e-12)
	assert.Equal(t, 1.0, byName["potential_liquefaction"])
	assert.Equal(t, 0.0, byName["vertical_irregularity"])
	// bays 12 is the upper bound, scaled by 0.25
	assert.InDelta(t, 0.25, byName["number_of_bays"], 1e-12)

	assert.Equal(t, 0.0, byName["runoff_low"])
	assert.Equal(t, 1.0, byName["runoff_medium"])
	assert.Equal(t, 0.0, byName["runoff_high"])
	assert.Equal(t, 1.0, byName["roof_hip"])
}

func TestPhysical_Vector_ClampsOutOfRange(t *testing.T) {
	p := NewPhysical(catalog.DefaultPhysical())
	b := sampleBuilding()
	b.FaultDistanceKM = 500
	b.MaximumCrackMM = -3
	b.BasicWindSpeedMPS = 100

	vec, err := p.Building(b)
	require.NoError(t, err)

	byName := index(p.Names(), vec)
	assert.Equal(t, 0.0, byName["fault_distance_km"])
	assert.Equal(t, 0.0, byName["maximum_crack_mm"])
	assert.Equal(t, 1.0, byName["basic_wind_speed_mps"])

	for i, v := range vec {
		assert.GreaterOrEqual(t, v, 0.0, "column %d", i)
		assert.LessOrEqual(t, v, 1.0, "column %d", i)
	}
}

func TestPhysical_Vector_ExactlyOneIndicatorPerEnum(t *testing.T) {
	p := NewPhysical(catalog.DefaultPhysical())

	for _, runoff := range catalog.SurfaceRunoffCategories {
		for _, design := range catalog.RoofDesignCategories {
			b := sampleBuilding()
			b.SurfaceRunoff = runoff
			b.RoofDesign = design

			vec, err := p.Building(b)
			require.NoError(t, err)
			byName := index(p.Names(), vec)

			var runoffHot, roofHot float64
			for _, c := range catalog.SurfaceRunoffCategories {
				runoffHot += byName[catalog.IndicatorName("surface_runoff", c)]
			}
			for _, c := range catalog.RoofDesignCategories {
				roofHot += byName[catalog.IndicatorName("roof_design", c)]
			}
			assert.Equal(t, 1.0, runoffHot)
			assert.Equal(t, 1.0, roofHot)
		}
	}
}

func TestPhysical_Vector_RejectsUnseenCategory(t *testing.T) {
	p := NewPhysical(catalog.DefaultPhysical())
	b := sampleBuilding()
	b.SurfaceRunoff = "extreme"

	_, err := p.Building(b)
	var ie *interfaces.InputError
	require.ErrorAs(t, err, &ie)
	assert.Equal(t, "surface_runoff", ie.Field)

	b = sampleBuilding()
	b.RoofDesign = ""
	_, err = p.Building(b)
	require.ErrorAs(t, err, &ie)
	assert.Equal(t, "roof_design", ie.Field)
}

func TestPhysical_Vector_RejectsNaN(t *testing.T) {
	p := NewPhysical(catalog.DefaultPhysical())
	b := sampleBuilding()
	b.SlopeDeg = math.NaN()

	_, err := p.Building(b)
	var ie *interfaces.InputError
	require.ErrorAs(t, err, &ie)
	assert.Equal(t, "slope_deg", ie.Field)
}

func TestPhysical_Vector_NilBuilding(t *testing.T) {
	p := NewPhysical(catalog.DefaultPhysical())

	_, err := p.Vector(&interfaces.Record{Variant: interfaces.VariantPhysical})
	assert.ErrorIs(t, err, interfaces.ErrInvalidInput)
}

func sampleBuilding() *interfaces.Building {
	return &interfaces.Building{
		FaultDistanceKM:           10,
		BasicWindSpeedMPS:         30,
		SlopeDeg:                  7,
		ElevationM:                750,
		PotentialLiquefaction:     true,
		DistanceToRiversAndSeasKM: 3,
		SurfaceRunoff:             "medium",
		BuildingProximityM:        4,
		NumberOfBays:              12,
		ColumnSpacingM:            5,
		MaximumCrackMM:            1,
		RoofSlopeDeg:              20,
		RoofDesign:                "hip",
		RoofFastenerDistanceCM:    12,
	}
}

func index(names []string, vec []float64) map[string]float64 {
	m := make(map[string]float64, len(names))
	for i, n := range names {
		m[n] = vec[i]
	}
	return m
}
