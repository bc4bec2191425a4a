package dataset

import (
	"bytes"
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat"

	"github.com/toyinlola/housingrisk/pkg/catalog"
	"github.com/toyinlola/housingrisk/pkg/interfaces"
	"github.com/toyinlola/housingrisk/pkg/normalize"
	"github.com/toyinlola/housingrisk/pkg/scorer"
	"github.com/toyinlola/housingrisk/pkg/synth"
)

func TestFromSamples_QuestionnaireColumns(t *testing.T) {
	samples := latentSamples(t, 20)

	f, err := FromSamples(samples, interfaces.VariantQuestionnaire)
	require.NoError(t, err)

	assert.Equal(t, 20, f.Rows())
	require.Len(t, f.Columns, 52+5+1)
	assert.Equal(t, "A1_1_PEIS", f.Columns[0].Name)
	assert.Equal(t, "RISK_INDEX", f.Columns[56].Name)
	assert.Equal(t, LabelColumn, f.Columns[57].Name)

	idx, ok := f.Column("RISK_INDEX")
	require.True(t, ok)
	for i, s := range samples {
		assert.Equal(t, s.Derived.Index, idx.Numeric[i])
	}
}

func TestFromSamples_PhysicalColumns(t *testing.T) {
	gen, err := synth.NewConditioned(catalog.DefaultPhysical(), synth.DefaultProfiles())
	require.NoError(t, err)
	samples, err := gen.Generate(context.Background(), 5, 1)
	require.NoError(t, err)

	f, err := FromSamples(samples, interfaces.VariantPhysical)
	require.NoError(t, err)

	require.Len(t, f.Columns, 16)
	runoff, ok := f.Column("surface_runoff")
	require.True(t, ok)
	assert.False(t, runoff.IsNumeric())
	assert.Equal(t, samples[0].Record.Building.SurfaceRunoff, runoff.Text[0])
}

func TestFromSamples_WrongVariant(t *testing.T) {
	samples := latentSamples(t, 3)

	_, err := FromSamples(samples, interfaces.VariantPhysical)
	assert.Error(t, err)

	_, err = FromSamples(samples, interfaces.Variant("other"))
	assert.Error(t, err)
}

func TestZScore_ZeroMeanUnitStd(t *testing.T) {
	f, err := FromSamples(latentSamples(t, 200), interfaces.VariantQuestionnaire)
	require.NoError(t, err)

	z := f.ZScore()
	for _, c := range z.Columns {
		if !c.IsNumeric() {
			continue
		}
		mean, std := stat.PopMeanStdDev(c.Numeric, nil)
		assert.InDelta(t, 0, mean, 1e-9, "column %s", c.Name)
		if std > 0 {
			assert.InDelta(t, 1, std, 1e-9, "column %s", c.Name)
		}
	}

	// The source frame is untouched.
	orig, _ := f.Column("A1_1_PEIS")
	for _, v := range orig.Numeric {
		assert.Contains(t, []float64{1, 2, 3}, v)
	}
}

func TestZScore_ConstantColumn(t *testing.T) {
	f := &Frame{rows: 3, Columns: []Column{{Name: "c", Numeric: []float64{2, 2, 2}}}}

	z := f.ZScore()
	assert.Equal(t, []float64{0, 0, 0}, z.Columns[0].Numeric)
}

func TestWriteCSV(t *testing.T) {
	f := &Frame{rows: 2, Columns: []Column{
		{Name: "x", Numeric: []float64{1, 2.5}},
		{Name: LabelColumn, Text: []string{"LOW", "HIGH"}},
	}}

	var buf bytes.Buffer
	require.NoError(t, f.WriteCSV(&buf))
	assert.Equal(t, "x,risk\n1,LOW\n2.5,HIGH\n", buf.String())
}

func TestWriteFiles(t *testing.T) {
	dir := t.TempDir()
	samples := latentSamples(t, 30)

	rawPath, normPath, err := WriteFiles(dir, samples, interfaces.VariantQuestionnaire)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "data_30_raw.csv"), rawPath)
	assert.Equal(t, filepath.Join(dir, "data_30_normalized.csv"), normPath)

	for _, p := range []string{rawPath, normPath} {
		data, err := os.ReadFile(p)
		require.NoError(t, err)
		rows, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
		require.NoError(t, err)
		assert.Len(t, rows, 31, "%s: header plus one row per sample", p)
		assert.Len(t, rows[0], 58)
	}
}

func TestMatrix_Targets(t *testing.T) {
	samples := latentSamples(t, 50)
	v := normalize.NewQuestionnaire(catalog.DefaultQuestionnaire())

	x, y, err := Matrix(samples, v)
	require.NoError(t, err)
	require.Len(t, x, 50)
	require.Len(t, y, 50)

	for i, s := range samples {
		assert.Len(t, x[i], 52)
		assert.Equal(t, s.Label.Target(), y[i])
	}
}

func TestMatrix_VectorizerError(t *testing.T) {
	samples := latentSamples(t, 2)
	v := normalize.NewPhysical(catalog.DefaultPhysical())

	_, _, err := Matrix(samples, v)
	assert.ErrorIs(t, err, interfaces.ErrInvalidInput)
}

func latentSamples(t *testing.T, n int) []synth.Sample {
	t.Helper()
	samples, err := synth.NewLatent(scorer.NewCalculator()).Generate(context.Background(), n, 42)
	require.NoError(t, err)
	return samples
}
