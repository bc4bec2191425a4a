package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/toyinlola/housingrisk/pkg/catalog"
	"github.com/toyinlola/housingrisk/pkg/classifier"
	"github.com/toyinlola/housingrisk/pkg/cli"
	"github.com/toyinlola/housingrisk/pkg/interfaces"
	"github.com/toyinlola/housingrisk/pkg/normalize"
	"github.com/toyinlola/housingrisk/pkg/pipeline"
	"github.com/toyinlola/housingrisk/pkg/report"
	"github.com/toyinlola/housingrisk/pkg/scorer"
	"github.com/toyinlola/housingrisk/pkg/synth"
)

// questionnaireCatalog applies the configured weight overrides to the default
// weight table.
func questionnaireCatalog(c *cli.Config) *catalog.Questionnaire {
	weights := catalog.DefaultWeights()
	for name, w := range c.Scoring.Weights {
		if _, ok := weights[name]; !ok {
			slog.Warn("config: ignoring weight for unknown question", "question", name)
			continue
		}
		weights[name] = w
	}
	return catalog.NewQuestionnaire(weights)
}

// questionLabeler renders questionnaire columns for contribution reasons.
func questionLabeler(q *catalog.Questionnaire) classifier.Labeler {
	labels := make(map[string]string)
	for _, def := range q.Questions() {
		labels[def.Name] = def.Label()
	}
	return func(column string) string {
		if l, ok := labels[column]; ok {
			return l
		}
		return column
	}
}

// buildRegistry registers the deterministic strategies of both variants and
// every model artifact that loads. A model that fails to load is fatal only
// when it is the selected decision authority of its variant. fallbackHook may
// be nil.
func buildRegistry(c *cli.Config, fallbackHook func()) (*pipeline.Registry, error) {
	registry := pipeline.NewRegistry()

	mode, err := classifier.ParseReasonMode(c.Scoring.Reasons)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	questionnaire := questionnaireCatalog(c)
	index := scorer.NewIndexStrategy(scorer.NewCalculator(scorer.WithQuestionnaire(questionnaire)))
	physical := catalog.DefaultPhysical()
	physicalNorm := normalize.NewPhysical(physical)
	rules := scorer.NewRuleStrategy(physicalNorm)

	for _, s := range []interfaces.Scorer{index, rules} {
		if err := registry.Register(s); err != nil {
			return nil, err
		}
	}

	models := []struct {
		variant    interfaces.Variant
		path       string
		selected   string
		vectorizer normalize.Vectorizer
		baseline   interfaces.Scorer
		labeler    classifier.Labeler
	}{
		{interfaces.VariantPhysical, c.Model.Path, c.Scoring.Physical, physicalNorm, rules, physical.Label},
		{interfaces.VariantQuestionnaire, c.Model.QuestionnairePath, c.Scoring.Questionnaire,
			normalize.NewQuestionnaire(questionnaire), index, questionLabeler(questionnaire)},
	}
	for _, m := range models {
		required := m.selected == classifier.StrategyModel
		if m.path == "" {
			continue
		}
		strategy, err := loadStrategy(m.path, m.variant, m.vectorizer, m.baseline, mode, m.labeler, fallbackHook)
		if err != nil {
			if required {
				return nil, err
			}
			slog.Warn("model unavailable, comparisons run without it", "variant", m.variant, "path", m.path, "error", err)
			continue
		}
		if err := registry.Register(strategy); err != nil {
			return nil, err
		}
	}

	for _, variant := range []interfaces.Variant{interfaces.VariantQuestionnaire, interfaces.VariantPhysical} {
		for _, name := range registry.List(variant) {
			if toggle, ok := c.Scoring.Strategies.Lookup(name); ok && !toggle.IsEnabled() {
				if err := registry.SetEnabled(variant, name, false); err != nil {
					return nil, err
				}
			}
		}
	}
	return registry, nil
}

func loadStrategy(path string, variant interfaces.Variant, v normalize.Vectorizer, baseline interfaces.Scorer,
	mode classifier.ReasonMode, labeler classifier.Labeler, fallbackHook func()) (*classifier.Strategy, error) {
	model, artifact, err := classifier.Load(path, variant)
	if err != nil {
		return nil, err
	}
	opts := []classifier.StrategyOption{
		classifier.WithReasons(mode),
		classifier.WithLabeler(labeler),
	}
	if fallbackHook != nil {
		opts = append(opts, classifier.WithFallbackHook(fallbackHook))
	}
	strategy, err := classifier.NewStrategy(model, v, baseline, opts...)
	if err != nil {
		return nil, err
	}
	slog.Info("model loaded",
		"variant", variant,
		"path", path,
		"version", artifact.Version,
		"trained_at", artifact.TrainedAt,
		"standardized", model.Standardized(),
	)
	return strategy, nil
}

// buildService wires the registry into a service using the configured
// strategy selection.
func buildService(c *cli.Config, fallbackHook func(), opts ...pipeline.ServiceOption) (*pipeline.Service, error) {
	registry, err := buildRegistry(c, fallbackHook)
	if err != nil {
		return nil, err
	}
	opts = append([]pipeline.ServiceOption{
		pipeline.WithStrategy(interfaces.VariantQuestionnaire, c.Scoring.Questionnaire),
		pipeline.WithStrategy(interfaces.VariantPhysical, c.Scoring.Physical),
	}, opts...)
	return pipeline.NewService(registry, c.Model.Version, opts...)
}

// generateSamples draws n synthetic records of a variant. Physical records are
// drawn per label, so n is rounded up to a multiple of three.
func generateSamples(ctx context.Context, c *cli.Config, variant interfaces.Variant, n int, seed uint64) ([]synth.Sample, error) {
	if n <= 0 {
		return nil, errors.New("sample count must be positive")
	}
	opts := []synth.Option{
		synth.WithWorkers(c.Generator.Workers),
		synth.WithNoise(c.Generator.NoiseValue()),
	}

	var gen synth.Generator
	count := n
	switch variant {
	case interfaces.VariantQuestionnaire:
		calc := scorer.NewCalculator(scorer.WithQuestionnaire(questionnaireCatalog(c)))
		gen = synth.NewLatent(calc, opts...)
	case interfaces.VariantPhysical:
		cond, err := synth.NewConditioned(catalog.DefaultPhysical(), synth.DefaultProfiles(), opts...)
		if err != nil {
			return nil, err
		}
		gen = cond
		count = (n + len(interfaces.RiskLevels) - 1) / len(interfaces.RiskLevels)
	default:
		return nil, fmt.Errorf("unknown variant %q", variant)
	}

	samples, err := gen.Generate(ctx, count, seed)
	if err != nil {
		return nil, err
	}
	dist := synth.Count(samples)
	slog.Info("samples generated", "variant", variant, "count", len(samples), "seed", seed, "labels", dist.String())
	if !dist.Represented(0.05) {
		slog.Warn("label distribution is skewed", "labels", dist.String())
	}
	return samples, nil
}

// formatter writes a structured report to a writer.
type formatter interface {
	Format(w io.Writer, report *interfaces.Report) error
}

// selectFormatter returns the appropriate report formatter for the given format name.
func selectFormatter(name string) formatter {
	switch name {
	case "json":
		return report.NewJSONFormatter()
	case "markdown":
		return report.NewMarkdownFormatter()
	default:
		return report.NewTerminalFormatter()
	}
}

// outputFormat resolves the --format flag against the configured default.
func outputFormat() string {
	if format != "" {
		return format
	}
	return cfg.Output.Format
}

// openOutput returns stdout or the --output file and its closer.
func openOutput(stdout io.Writer) (io.Writer, func() error, error) {
	if output == "" {
		return stdout, func() error { return nil }, nil
	}
	file, err := os.Create(output)
	if err != nil {
		return nil, nil, fmt.Errorf("creating output file: %w", err)
	}
	return file, file.Close, nil
}
