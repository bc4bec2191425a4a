package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/toyinlola/housingrisk/pkg/interfaces"
)

// JSONFormatter writes a report as JSON.
type JSONFormatter struct{}

// NewJSONFormatter creates a JSON report formatter.
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

// jsonReport adds the comparison tally to a report. Results shadows the
// embedded field so failed strategies always carry their error text.
type jsonReport struct {
	*interfaces.Report
	Results       []*interfaces.StrategyResult `json:"strategies,omitempty"`
	Disagreements *int                         `json:"disagreements,omitempty"`
}

// Format writes the report as indented JSON to the given writer. Reasons such
// as "<5 km" are written unescaped.
func (f *JSONFormatter) Format(w io.Writer, report *interfaces.Report) error {
	if report.Primary == nil {
		return fmt.Errorf("report: %s has no assessment", report.ID)
	}

	out := jsonReport{Report: report}
	if len(report.Results) > 0 {
		d := Disagreements(report.Primary, report.Results)
		out.Disagreements = &d
		out.Results = make([]*interfaces.StrategyResult, len(report.Results))
		for i, r := range report.Results {
			if r.Error != nil && r.Message == "" {
				withMessage := *r
				withMessage.Message = r.Error.Error()
				r = &withMessage
			}
			out.Results[i] = r
		}
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
