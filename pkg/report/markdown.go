package report

import (
	"fmt"
	"io"

	"github.com/toyinlola/housingrisk/pkg/interfaces"
)

// MarkdownFormatter writes a report as Markdown.
type MarkdownFormatter struct{}

// NewMarkdownFormatter creates a Markdown report formatter.
func NewMarkdownFormatter() *MarkdownFormatter {
	return &MarkdownFormatter{}
}

// Format writes the report as Markdown to the given writer.
func (f *MarkdownFormatter) Format(w io.Writer, report *interfaces.Report) error {
	if report.Primary == nil {
		return fmt.Errorf("report: %s has no assessment", report.ID)
	}
	f.writeHeader(w, report)
	f.writeSummaryTable(w, report)
	f.writeReasons(w, report)
	f.writeStrategies(w, report)
	f.writeFooter(w, report)
	return nil
}

func (f *MarkdownFormatter) writeHeader(w io.Writer, report *interfaces.Report) {
	fmt.Fprintf(w, "# Housing Risk Assessment %s\n\n", riskBadge(report.Primary.Risk))
}

func (f *MarkdownFormatter) writeSummaryTable(w io.Writer, report *interfaces.Report) {
	a := report.Primary

	fmt.Fprintln(w, "| Metric | Value |")
	fmt.Fprintln(w, "|--------|-------|")
	fmt.Fprintf(w, "| **Risk** | %s %s |\n", a.Risk, riskBadge(a.Risk))
	fmt.Fprintf(w, "| **Score** | %.4f |\n", a.Score)
	if a.RiskIndex != nil {
		fmt.Fprintf(w, "| **Risk Index** | %.2f/10 |\n", *a.RiskIndex)
	}
	fmt.Fprintf(w, "| **Variant** | %s |\n", report.Variant)
	fmt.Fprintf(w, "| **Strategy** | %s |\n", a.Strategy)
	fmt.Fprintf(w, "| **Model Version** | %s |\n", a.ModelVersion)
	if a.Fallback {
		fmt.Fprintln(w, "| **Fallback** | baseline score |")
	}
	fmt.Fprintln(w)

	if a.Diagnostic != "" {
		fmt.Fprintf(w, "> %s\n\n", a.Diagnostic)
	}
}

func (f *MarkdownFormatter) writeReasons(w io.Writer, report *interfaces.Report) {
	reasons := report.Primary.Reasons
	if len(reasons) == 0 {
		fmt.Fprintln(w, "> No risk factors flagged.")
		fmt.Fprintln(w)
		return
	}
	fmt.Fprintf(w, "## Reasons (%d)\n\n", len(reasons))
	for _, r := range reasons {
		fmt.Fprintf(w, "- %s\n", r)
	}
	fmt.Fprintln(w)
}

func (f *MarkdownFormatter) writeStrategies(w io.Writer, report *interfaces.Report) {
	if len(report.Results) == 0 {
		return
	}
	fmt.Fprintf(w, "## Strategies (%d)\n\n", len(report.Results))
	fmt.Fprintln(w, "| Strategy | Risk | Score | Duration |")
	fmt.Fprintln(w, "|----------|------|-------|----------|")
	for _, r := range report.Results {
		if r.Error != nil {
			fmt.Fprintf(w, "| %s | error | %v | %s |\n", r.Strategy, r.Error, r.Duration)
			continue
		}
		a := r.Assessment
		fmt.Fprintf(w, "| %s | %s %s | %.4f | %s |\n", r.Strategy, riskBadge(a.Risk), a.Risk, a.Score, r.Duration)
	}
	fmt.Fprintln(w)
}

func (f *MarkdownFormatter) writeFooter(w io.Writer, report *interfaces.Report) {
	fmt.Fprintln(w, "---")
	fmt.Fprintf(w, "*%s | Report ID: %s | Generated: %s*\n",
		report.Summary, report.ID, report.Timestamp.Format("2006-01-02 15:04:05"))
}

// riskBadge returns a text badge based on the risk level.
func riskBadge(r interfaces.RiskLevel) string {
	switch r {
	case interfaces.RiskLow:
		return "🟢"
	case interfaces.RiskMedium:
		return "🟡"
	case interfaces.RiskHigh:
		return "🔴"
	default:
		return "⚪"
	}
}
