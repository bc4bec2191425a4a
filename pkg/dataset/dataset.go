// Package dataset turns generated samples into tabular training files and
// training matrices.
package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"gonum.org/v1/gonum/stat"

	"github.com/toyinlola/housingrisk/pkg/catalog"
	"github.com/toyinlola/housingrisk/pkg/interfaces"
	"github.com/toyinlola/housingrisk/pkg/normalize"
	"github.com/toyinlola/housingrisk/pkg/synth"
)

// LabelColumn holds the risk label in every written table.
const LabelColumn = "risk"

// Derived engine columns appended to questionnaire tables.
var derivedColumns = []string{
	"HAZARD_RATING",
	"EXPOSURE_RATING",
	"VULNERABILITY_RATING",
	"RISK_RATING",
	"RISK_INDEX",
}

// Column is either numeric or text.
type Column struct {
	Name    string
	Numeric []float64
	Text    []string
}

// IsNumeric reports whether the column holds numbers.
func (c Column) IsNumeric() bool { return c.Text == nil }

// Frame is a column-major table of samples.
type Frame struct {
	Columns []Column
	rows    int
}

// Rows returns the number of rows.
func (f *Frame) Rows() int { return f.rows }

// Column looks up a column by name.
func (f *Frame) Column(name string) (Column, bool) {
	for _, c := range f.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// FromSamples builds the raw table for samples of one variant.
func FromSamples(samples []synth.Sample, variant interfaces.Variant) (*Frame, error) {
	switch variant {
	case interfaces.VariantQuestionnaire:
		return questionnaireFrame(samples, catalog.DefaultQuestionnaire())
	case interfaces.VariantPhysical:
		return physicalFrame(samples, catalog.DefaultPhysical())
	default:
		return nil, fmt.Errorf("dataset: unknown variant %q", variant)
	}
}

func questionnaireFrame(samples []synth.Sample, q *catalog.Questionnaire) (*Frame, error) {
	names := q.Names()
	f := &Frame{rows: len(samples)}
	for _, name := range append(names, derivedColumns...) {
		f.Columns = append(f.Columns, Column{Name: name, Numeric: make([]float64, len(samples))})
	}
	labels := make([]string, len(samples))

	for i, s := range samples {
		if s.Record.Answers == nil || s.Derived == nil {
			return nil, fmt.Errorf("dataset: sample %d is not a scored questionnaire record", i)
		}
		for j, name := range names {
			f.Columns[j].Numeric[i] = s.Record.Answers[name]
		}
		d := s.Derived
		for j, v := range []float64{d.Hazard, d.Exposure, d.Vulnerability, d.Rating, d.Index} {
			f.Columns[len(names)+j].Numeric[i] = v
		}
		labels[i] = string(s.Label)
	}

	f.Columns = append(f.Columns, Column{Name: LabelColumn, Text: labels})
	return f, nil
}

func physicalFrame(samples []synth.Sample, c *catalog.Physical) (*Frame, error) {
	fields := c.Fields()
	f := &Frame{rows: len(samples)}
	for _, def := range fields {
		col := Column{Name: def.Name}
		if def.Kind == catalog.KindEnum {
			col.Text = make([]string, len(samples))
		} else {
			col.Numeric = make([]float64, len(samples))
		}
		f.Columns = append(f.Columns, col)
	}
	labels := make([]string, len(samples))

	for i, s := range samples {
		b := s.Record.Building
		if b == nil {
			return nil, fmt.Errorf("dataset: sample %d is not a physical record", i)
		}
		for j, def := range fields {
			if def.Kind == catalog.KindEnum {
				f.Columns[j].Text[i], _ = b.Category(def.Name)
				continue
			}
			f.Columns[j].Numeric[i], _ = b.Numeric(def.Name)
		}
		labels[i] = string(s.Label)
	}

	f.Columns = append(f.Columns, Column{Name: LabelColumn, Text: labels})
	return f, nil
}

// ZScore returns a copy with every numeric column standardised to zero mean and
// unit population standard deviation. Constant columns become zeros.
func (f *Frame) ZScore() *Frame {
	out := &Frame{rows: f.rows, Columns: make([]Column, len(f.Columns))}
	for i, c := range f.Columns {
		if !c.IsNumeric() {
			out.Columns[i] = Column{Name: c.Name, Text: append([]string(nil), c.Text...)}
			continue
		}
		mean, std := stat.PopMeanStdDev(c.Numeric, nil)
		z := make([]float64, len(c.Numeric))
		if std > 0 {
			for j, v := range c.Numeric {
				z[j] = (v - mean) / std
			}
		}
		out.Columns[i] = Column{Name: c.Name, Numeric: z}
	}
	return out
}

// WriteCSV writes the frame with a header row.
func (f *Frame) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)

	header := make([]string, len(f.Columns))
	for i, c := range f.Columns {
		header[i] = c.Name
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("dataset: writing header: %w", err)
	}

	row := make([]string, len(f.Columns))
	for r := 0; r < f.rows; r++ {
		for i, c := range f.Columns {
			if c.IsNumeric() {
				row[i] = strconv.FormatFloat(c.Numeric[r], 'f', -1, 64)
			} else {
				row[i] = c.Text[r]
			}
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("dataset: writing row %d: %w", r, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// Paths returns the raw and normalized file names for n samples in dir.
func Paths(dir string, n int) (raw, normalized string) {
	return filepath.Join(dir, fmt.Sprintf("data_%d_raw.csv", n)),
		filepath.Join(dir, fmt.Sprintf("data_%d_normalized.csv", n))
}

// WriteFiles writes the raw and z-score-normalized tables of samples into dir
// and returns their paths.
func WriteFiles(dir string, samples []synth.Sample, variant interfaces.Variant) (string, string, error) {
	raw, err := FromSamples(samples, variant)
	if err != nil {
		return "", "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", "", fmt.Errorf("dataset: creating %s: %w", dir, err)
	}

	rawPath, normPath := Paths(dir, len(samples))
	if err := writeFile(rawPath, raw); err != nil {
		return "", "", err
	}
	if err := writeFile(normPath, raw.ZScore()); err != nil {
		return "", "", err
	}
	return rawPath, normPath, nil
}

func writeFile(path string, f *Frame) (err error) {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("dataset: creating %s: %w", path, err)
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("dataset: closing %s: %w", path, cerr)
		}
	}()
	return f.WriteCSV(out)
}

// Matrix vectorises samples with v and returns the feature rows with their
// ordinal training targets.
func Matrix(samples []synth.Sample, v normalize.Vectorizer) ([][]float64, []float64, error) {
	x := make([][]float64, len(samples))
	y := make([]float64, len(samples))
	for i := range samples {
		vec, err := v.Vector(&samples[i].Record)
		if err != nil {
			return nil, nil, fmt.Errorf("dataset: sample %d: %w", i, err)
		}
		x[i] = vec
		y[i] = samples[i].Label.Target()
	}
	return x, y, nil
}
