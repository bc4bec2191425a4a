// Package cmd implements the housingrisk CLI commands using Cobra.
package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/toyinlola/housingrisk/pkg/cli"
)

var (
	cfgFile string
	verbose bool
	format  string
	output  string

	// cfg is loaded once per invocation by the root PersistentPreRunE.
	cfg *cli.Config
)

var rootCmd = &cobra.Command{
	Use:   "housingrisk",
	Short: "Building risk assessment service",
	Long: `housingrisk classifies buildings into LOW, MEDIUM or HIGH risk.

Questionnaire records are scored by the weighted risk-index engine; physical
measurements are scored by a trained logistic-regression model with a
deterministic rule heuristic as baseline and fallback. The CLI generates
synthetic training data, trains models, scores records and serves the HTTP API.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := cli.LoadConfig(cfgFile)
		if err != nil {
			return err
		}
		cfg = loaded
		return setupLogging(os.Stderr, cfg.Logging)
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and returns any error.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file path (default: "+cli.DefaultConfigFile+")")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&format, "format", "f", "", "output format (terminal|json|markdown); default from config")
	rootCmd.PersistentFlags().StringVarP(&output, "output", "o", "", "write output to file instead of stdout")
}

func setupLogging(w io.Writer, lc cli.LoggingConfig) error {
	level, err := cli.ParseLevel(lc.Level)
	if err != nil {
		return err
	}
	if verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	switch lc.Format {
	case "json":
		handler = slog.NewJSONHandler(w, opts)
	case "text":
		handler = slog.NewTextHandler(w, opts)
	default:
		return fmt.Errorf("logging: unknown format %q", lc.Format)
	}
	slog.SetDefault(slog.New(handler))

	return nil
}
