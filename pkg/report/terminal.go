package report

import (
	"fmt"
	"io"

	"github.com/toyinlola/housingrisk/pkg/interfaces"
)

// ANSI color codes for terminal output.
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
	colorBold   = "\033[1m"
	colorDim    = "\033[2m"
)

// TerminalFormatter writes a color-coded report to a terminal.
type TerminalFormatter struct{}

// NewTerminalFormatter creates a terminal report formatter.
func NewTerminalFormatter() *TerminalFormatter {
	return &TerminalFormatter{}
}

// Format writes the report to the given writer using ANSI colors.
func (f *TerminalFormatter) Format(w io.Writer, report *interfaces.Report) error {
	if report.Primary == nil {
		return fmt.Errorf("report: %s has no assessment", report.ID)
	}
	f.writeHeader(w, report)
	f.writeSummary(w, report)
	f.writeReasons(w, report)
	f.writeStrategies(w, report)
	f.writeFooter(w, report)
	return nil
}

func (f *TerminalFormatter) writeHeader(w io.Writer, report *interfaces.Report) {
	fmt.Fprintf(w, "\n%s%s══════════════════════════════════════════%s\n", colorBold, colorCyan, colorReset)
	fmt.Fprintf(w, "%s%s  Housing Risk Assessment (%s)%s\n", colorBold, colorCyan, report.Variant, colorReset)
	fmt.Fprintf(w, "%s%s══════════════════════════════════════════%s\n\n", colorBold, colorCyan, colorReset)
}

func (f *TerminalFormatter) writeSummary(w io.Writer, report *interfaces.Report) {
	a := report.Primary
	color := riskColor(a.Risk)

	fmt.Fprintf(w, "  %s%sRisk: %s  Score: %.4f%s\n", colorBold, color, a.Risk, a.Score, colorReset)
	if a.RiskIndex != nil {
		fmt.Fprintf(w, "  Risk index: %.2f/10\n", *a.RiskIndex)
	}
	if a.Diagnostic != "" {
		fmt.Fprintf(w, "  %s%s%s\n", colorDim, a.Diagnostic, colorReset)
	}
	if a.Fallback {
		fmt.Fprintf(w, "  %sModel inference failed; baseline score reported.%s\n", colorYellow, colorReset)
	}
	fmt.Fprintln(w)
}

func (f *TerminalFormatter) writeReasons(w io.Writer, report *interfaces.Report) {
	reasons := report.Primary.Reasons
	if len(reasons) == 0 {
		fmt.Fprintf(w, "  %sNo risk factors flagged.%s\n\n", colorGreen, colorReset)
		return
	}
	fmt.Fprintf(w, "  %s── Reasons (%d) ──%s\n", colorBold, len(reasons), colorReset)
	for _, r := range reasons {
		fmt.Fprintf(w, "    • %s\n", r)
	}
	fmt.Fprintln(w)
}

func (f *TerminalFormatter) writeStrategies(w io.Writer, report *interfaces.Report) {
	if len(report.Results) == 0 {
		return
	}
	fmt.Fprintf(w, "  %s── Strategies (%d) ──%s\n", colorBold, len(report.Results), colorReset)
	for _, r := range report.Results {
		if r.Error != nil {
			fmt.Fprintf(w, "    %s%-8s error: %v%s\n", colorRed, r.Strategy, r.Error, colorReset)
			continue
		}
		a := r.Assessment
		fmt.Fprintf(w, "    %-8s %s%-6s%s %.4f  %s%s%s\n",
			r.Strategy, riskColor(a.Risk), a.Risk, colorReset, a.Score, colorDim, r.Duration, colorReset)
	}
	fmt.Fprintln(w)
}

func (f *TerminalFormatter) writeFooter(w io.Writer, report *interfaces.Report) {
	fmt.Fprintf(w, "  %s%s──────────────────────────────────────────%s\n", colorDim, colorCyan, colorReset)
	fmt.Fprintf(w, "  %sModel: %s | Report: %s%s\n",
		colorDim, report.Primary.ModelVersion, report.ID, colorReset)
	fmt.Fprintf(w, "  %sGenerated: %s%s\n\n",
		colorDim, report.Timestamp.Format("2006-01-02 15:04:05"), colorReset)
}

// riskColor returns the ANSI color for a risk level.
func riskColor(r interfaces.RiskLevel) string {
	switch r {
	case interfaces.RiskLow:
		return colorGreen
	case interfaces.RiskMedium:
		return colorYellow
	case interfaces.RiskHigh:
		return colorRed
	default:
		return colorReset
	}
}
