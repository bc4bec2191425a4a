package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/toyinlola/housingrisk/pkg/classifier"
	"github.com/toyinlola/housingrisk/pkg/interfaces"
	"github.com/toyinlola/housingrisk/pkg/report"
	"github.com/toyinlola/housingrisk/pkg/scorer"
)

// strategyAll compares every enabled strategy of the record's variant.
const strategyAll = "all"

var scoreStrategy string

var scoreCmd = &cobra.Command{
	Use:   "score <record-file>",
	Short: "Score one record and print a risk report",
	Long: `Score reads one record from a JSON or YAML file and prints its assessment.

A record names its variant and carries either questionnaire answers or a
physical building:

  {"variant": "questionnaire", "answers": {"A1_1_PEIS": 2, ...}}
  {"variant": "physical", "building": {"fault_distance_km": 3.5, ...}}

--strategy overrides the configured decision authority for the record's
variant; "all" runs every enabled strategy side by side and reports where
they disagree. Exits with code 1 when the record rates at or above
output.fail_on (HIGH by default).`,
	Args: cobra.ExactArgs(1),
	RunE: runScore,
}

func init() {
	scoreCmd.Flags().StringVarP(&scoreStrategy, "strategy", "s", "", "index|rules|model|all (default from config)")
	rootCmd.AddCommand(scoreCmd)
}

func runScore(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	switch scoreStrategy {
	case "", strategyAll, scorer.StrategyIndex, scorer.StrategyRules, classifier.StrategyModel:
	default:
		return fmt.Errorf("score: unknown strategy %q (want index|rules|model|all)", scoreStrategy)
	}

	rec, err := readRecord(args[0])
	if err != nil {
		return fmt.Errorf("score: %w", err)
	}

	compare := scoreStrategy == strategyAll
	c := *cfg
	if scoreStrategy != "" && !compare {
		switch rec.Variant {
		case interfaces.VariantPhysical:
			c.Scoring.Physical = scoreStrategy
		case interfaces.VariantQuestionnaire:
			c.Scoring.Questionnaire = scoreStrategy
		}
	}

	svc, err := buildService(&c, nil)
	if err != nil {
		return fmt.Errorf("score: %w", err)
	}

	start := time.Now()
	var (
		primary *interfaces.Assessment
		results []*interfaces.StrategyResult
	)
	if compare {
		primary, results, err = svc.Compare(ctx, rec)
	} else {
		primary, err = svc.Assess(ctx, rec)
	}
	if err != nil {
		var inputErr *interfaces.InputError
		if errors.As(err, &inputErr) {
			return fmt.Errorf("score: invalid record field %q: %s", inputErr.Field, inputErr.Reason)
		}
		return fmt.Errorf("score: %w", err)
	}

	rpt := report.NewGenerator().Generate(rec.Variant, primary, results, time.Since(start))

	w, closeOut, err := openOutput(cmd.OutOrStdout())
	if err != nil {
		return fmt.Errorf("score: %w", err)
	}
	err = selectFormatter(outputFormat()).Format(w, rpt)
	if cerr := closeOut(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("score: writing report: %w", err)
	}

	if primary.Risk.AtLeast(cfg.Output.FailLevel()) {
		os.Exit(1)
	}
	return nil
}

// readRecord decodes a record file. YAML is used for .yml/.yaml files and
// JSON otherwise.
func readRecord(path string) (*interfaces.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading record %s: %w", path, err)
	}

	rec := &interfaces.Record{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yml", ".yaml":
		err = yaml.Unmarshal(data, rec)
	default:
		err = json.Unmarshal(data, rec)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing record %s: %w", path, err)
	}

	if _, err := interfaces.ParseVariant(string(rec.Variant)); err != nil {
		return nil, err
	}
	return rec, nil
}
