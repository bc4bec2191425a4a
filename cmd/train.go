package cmd

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/toyinlola/housingrisk/pkg/catalog"
	"github.com/toyinlola/housingrisk/pkg/classifier"
	"github.com/toyinlola/housingrisk/pkg/dataset"
	"github.com/toyinlola/housingrisk/pkg/interfaces"
	"github.com/toyinlola/housingrisk/pkg/normalize"
	"github.com/toyinlola/housingrisk/pkg/synth"
)

var (
	trainVariant      interfaces.Variant
	trainSamples      int
	trainSeed         uint64
	trainOut          string
	trainIterations   int
	trainLearningRate float64
	trainL2           float64
	trainStandardize  bool
)

var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Train a logistic-regression model on synthetic data",
	Long: `Train generates a labeled synthetic dataset, fits a logistic regression on
the ordinal targets LOW=0, MEDIUM=0.5, HIGH=1 and writes the model artifact.

Accuracy is reported on the training set and on a held-out set drawn with
the next seed.

  housingrisk train --variant physical --out model.json
  housingrisk train --variant questionnaire --out questionnaire.json`,
	Args: cobra.NoArgs,
	RunE: runTrain,
}

func init() {
	trainCmd.Flags().Var(newVariantValue(&trainVariant, interfaces.VariantPhysical), "variant", "record variant (questionnaire|physical)")
	trainCmd.Flags().IntVarP(&trainSamples, "samples", "n", 0, "number of training records (default from config)")
	trainCmd.Flags().Uint64Var(&trainSeed, "seed", 0, "random seed (default from config)")
	trainCmd.Flags().StringVar(&trainOut, "out", "", "artifact path (default: the variant's configured model path)")
	trainCmd.Flags().IntVar(&trainIterations, "iterations", 0, "gradient descent iterations (default from config)")
	trainCmd.Flags().Float64Var(&trainLearningRate, "learning-rate", 0, "step size; 0 derives it from the data")
	trainCmd.Flags().Float64Var(&trainL2, "l2", 0, "L2 penalty (default from config)")
	trainCmd.Flags().BoolVar(&trainStandardize, "standardize", false, "standardize features before fitting")
	rootCmd.AddCommand(trainCmd)
}

func runTrain(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	n := cfg.Generator.Samples
	if trainSamples > 0 {
		n = trainSamples
	}
	seed := cfg.Generator.SeedValue()
	if cmd.Flags().Changed("seed") {
		seed = trainSeed
	}

	tc := classifier.TrainConfig{
		Iterations:   cfg.Training.Iterations,
		LearningRate: cfg.Training.LearningRate,
		L2:           cfg.Training.L2,
		Standardize:  cfg.Training.StandardizeFor(string(trainVariant)),
		Version:      cfg.Model.Version,
	}
	if trainIterations > 0 {
		tc.Iterations = trainIterations
	}
	if cmd.Flags().Changed("learning-rate") {
		tc.LearningRate = trainLearningRate
	}
	if cmd.Flags().Changed("l2") {
		tc.L2 = trainL2
	}
	if cmd.Flags().Changed("standardize") {
		tc.Standardize = trainStandardize
	}

	path := trainOut
	if path == "" {
		path = cfg.Model.Path
		if trainVariant == interfaces.VariantQuestionnaire {
			path = cfg.Model.QuestionnairePath
		}
	}
	if path == "" {
		return fmt.Errorf("train: no artifact path for the %s variant; pass --out", trainVariant)
	}

	var vectorizer normalize.Vectorizer = normalize.NewPhysical(catalog.DefaultPhysical())
	if trainVariant == interfaces.VariantQuestionnaire {
		vectorizer = normalize.NewQuestionnaire(questionnaireCatalog(cfg))
	}

	samples, err := generateSamples(ctx, cfg, trainVariant, n, seed)
	if err != nil {
		return fmt.Errorf("train: %w", err)
	}
	x, y, err := dataset.Matrix(samples, vectorizer)
	if err != nil {
		return fmt.Errorf("train: %w", err)
	}

	start := time.Now()
	model, err := classifier.Fit(vectorizer.Names(), x, y, tc)
	if err != nil {
		return fmt.Errorf("train: %w", err)
	}
	slog.Info("model fitted",
		"variant", trainVariant,
		"rows", len(x),
		"features", len(vectorizer.Names()),
		"iterations", tc.Iterations,
		"standardized", model.Standardized(),
		"elapsed", time.Since(start),
	)

	trainAcc, err := classifier.Accuracy(model, x, labels(samples))
	if err != nil {
		return fmt.Errorf("train: %w", err)
	}
	holdout, err := generateSamples(ctx, cfg, trainVariant, n, seed+1)
	if err != nil {
		return fmt.Errorf("train: %w", err)
	}
	hx, _, err := dataset.Matrix(holdout, vectorizer)
	if err != nil {
		return fmt.Errorf("train: %w", err)
	}
	holdoutAcc, err := classifier.Accuracy(model, hx, labels(holdout))
	if err != nil {
		return fmt.Errorf("train: %w", err)
	}

	if err := classifier.Save(path, model.Artifact(trainVariant, time.Now(), len(samples))); err != nil {
		return fmt.Errorf("train: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "trained %s model %s on %d records\n", trainVariant, model.Version(), len(samples))
	fmt.Fprintf(out, "  accuracy (train):   %.3f\n", trainAcc)
	fmt.Fprintf(out, "  accuracy (holdout): %.3f\n", holdoutAcc)
	fmt.Fprintf(out, "  artifact:           %s\n", path)
	return nil
}

func labels(samples []synth.Sample) []interfaces.RiskLevel {
	out := make([]interfaces.RiskLevel, len(samples))
	for i := range samples {
		out[i] = samples[i].Label
	}
	return out
}
