package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultQuestionnaire_GroupSizes(t *testing.T) {
	q := DefaultQuestionnaire()

	require.Len(t, q.Names(), 52)
	assert.Len(t, q.InGroup(GroupHazard), 12)
	assert.Len(t, q.InGroup(GroupExposure), 17)
	assert.Len(t, q.InGroup(GroupVulnerability), 23)
}

func TestDefaultQuestionnaire_GroupsArePrefixes(t *testing.T) {
	q := DefaultQuestionnaire()

	prefixes := map[Group]byte{GroupHazard: 'A', GroupExposure: 'B', GroupVulnerability: 'C'}
	for _, g := range Groups {
		for _, def := range q.InGroup(g) {
			assert.Equal(t, prefixes[g], def.Name[0], "question %s in group %s", def.Name, g)
		}
	}
}

func TestDefaultWeights_CoverEveryQuestion(t *testing.T) {
	w := DefaultWeights()
	names := DefaultQuestionnaire().Names()

	assert.Len(t, w, len(names))
	for _, n := range names {
		v, ok := w[n]
		require.True(t, ok, "no weight for %s", n)
		assert.GreaterOrEqual(t, v, 1)
		assert.LessOrEqual(t, v, 3)
	}
}

func TestWeights_FallbackToDefault(t *testing.T) {
	w := Weights{"A1_1_PEIS": 3, "A1_2_FAULT_DISTANCE": 0}

	assert.Equal(t, 3, w.Weight("A1_1_PEIS"))
	assert.Equal(t, DefaultWeight, w.Weight("A1_2_FAULT_DISTANCE"))
	assert.Equal(t, DefaultWeight, w.Weight("UNKNOWN"))
}

func TestNewQuestionnaire_NilWeights(t *testing.T) {
	q := NewQuestionnaire(nil)

	for _, def := range q.Questions() {
		assert.Equal(t, DefaultWeight, def.Weight)
	}
}

func TestQuestion_Label(t *testing.T) {
	cases := map[string]string{
		"A1_2_FAULT_DISTANCE": "Fault distance (A1.2)",
		"C1_10_WALL_MATERIAL": "Wall material (C1.10)",
		"B3_4_NO_PROMOTION":   "No promotion (B3.4)",
		"MALFORMED":           "MALFORMED",
	}
	for name, want := range cases {
		assert.Equal(t, want, Question{Name: name}.Label())
	}
}

func TestGroupOf(t *testing.T) {
	g, ok := GroupOf("B2_1_AGE_OF_BUILDING")
	assert.True(t, ok)
	assert.Equal(t, GroupExposure, g)

	_, ok = GroupOf("D1_1_UNKNOWN")
	assert.False(t, ok)
}

func TestQuestionnaire_QuestionsIsCopy(t *testing.T) {
	q := DefaultQuestionnaire()
	qs := q.Questions()
	qs[0].Weight = 99

	assert.Equal(t, 3, q.Questions()[0].Weight)
}

func TestDefaultPhysical_FeatureOrder(t *testing.T) {
	p := DefaultPhysical()
	names := p.Names()

	require.Len(t, names, 20)
	assert.Equal(t, "fault_distance_km", names[0])
	assert.Equal(t, "roof_fastener_distance_cm", names[12])
	assert.Equal(t, []string{
		"runoff_low", "runoff_medium", "runoff_high",
		"roof_gable", "roof_hip", "roof_flat", "roof_other",
	}, names[13:])
}

func TestPhysical_FieldLookup(t *testing.T) {
	p := DefaultPhysical()

	f, ok := p.Field("elevation_m")
	require.True(t, ok)
	assert.Equal(t, 0.35, f.Scale())
	assert.Equal(t, 1500.0, f.Hi)

	f, ok = p.Field("fault_distance_km")
	require.True(t, ok)
	assert.True(t, f.Inverted)
	assert.Equal(t, 1.0, f.Scale())

	_, ok = p.Field("missing")
	assert.False(t, ok)
}

func TestPhysical_Labels(t *testing.T) {
	p := DefaultPhysical()

	assert.Equal(t, "Near fault line (lower distance)", p.Label("fault_distance_km"))
	assert.Equal(t, "Surface runoff: high", p.Label("runoff_high"))
	assert.Equal(t, "unknown_column", p.Label("unknown_column"))
}

func TestIndicatorName(t *testing.T) {
	assert.Equal(t, "runoff_medium", IndicatorName("surface_runoff", "medium"))
	assert.Equal(t, "roof_flat", IndicatorName("roof_design", "flat"))
	assert.Equal(t, "colour_red", IndicatorName("colour", "red"))
}
