// Package report builds scoring reports and renders them for the CLI.
package report

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/toyinlola/housingrisk/pkg/interfaces"
)

// riskOrder defines the sort priority for strategy results (HIGH first).
var riskOrder = map[interfaces.RiskLevel]int{
	interfaces.RiskHigh:   0,
	interfaces.RiskMedium: 1,
	interfaces.RiskLow:    2,
}

// Generator builds reports from assessments.
type Generator struct {
	now func() time.Time
}

// NewGenerator creates a report generator.
func NewGenerator() *Generator {
	return &Generator{now: time.Now}
}

// Generate produces a Report from the primary assessment and, when strategies
// were compared, every strategy's result. elapsed is the scoring wall time.
func (g *Generator) Generate(variant interfaces.Variant, primary *interfaces.Assessment, results []*interfaces.StrategyResult, elapsed time.Duration) *interfaces.Report {
	sorted := make([]*interfaces.StrategyResult, len(results))
	copy(sorted, results)
	sortResultsByRisk(sorted)

	return &interfaces.Report{
		ID:        generateID(),
		Timestamp: g.now(),
		Variant:   variant,
		Primary:   primary,
		Results:   sorted,
		Summary:   buildSummary(primary, sorted),
		Duration:  elapsed,
	}
}

// sortResultsByRisk orders results HIGH to LOW with failed strategies last.
func sortResultsByRisk(results []*interfaces.StrategyResult) {
	rank := func(r *interfaces.StrategyResult) int {
		if r.Assessment == nil {
			return len(riskOrder)
		}
		return riskOrder[r.Assessment.Risk]
	}
	sort.SliceStable(results, func(i, j int) bool {
		ri, rj := rank(results[i]), rank(results[j])
		if ri != rj {
			return ri < rj
		}
		return results[i].Strategy < results[j].Strategy
	})
}

// Disagreements counts strategies whose level differs from the primary one.
func Disagreements(primary *interfaces.Assessment, results []*interfaces.StrategyResult) int {
	n := 0
	for _, r := range results {
		if r.Assessment != nil && r.Assessment.Risk != primary.Risk {
			n++
		}
	}
	return n
}

// buildSummary creates a one-line summary of the assessment and comparison.
func buildSummary(primary *interfaces.Assessment, results []*interfaces.StrategyResult) string {
	if primary == nil {
		return "no assessment"
	}
	line := fmt.Sprintf("Risk: %s (score %.4f) via %s", primary.Risk, primary.Score, primary.Strategy)
	if primary.Fallback {
		line += " [baseline fallback]"
	}
	if len(results) == 0 {
		return line
	}

	var parts []string
	parts = append(parts, fmt.Sprintf("%d strategies", len(results)))
	if d := Disagreements(primary, results); d > 0 {
		parts = append(parts, fmt.Sprintf("%d disagree", d))
	} else {
		parts = append(parts, "all agree")
	}
	failed := 0
	for _, r := range results {
		if r.Error != nil {
			failed++
		}
	}
	if failed > 0 {
		parts = append(parts, fmt.Sprintf("%d failed", failed))
	}
	return line + " | " + strings.Join(parts, ", ")
}

// generateID creates a unique report identifier.
func generateID() string {
	return "rpt-" + uuid.NewString()
}
