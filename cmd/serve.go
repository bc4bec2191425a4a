package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/toyinlola/housingrisk/pkg/interfaces"
	"github.com/toyinlola/housingrisk/pkg/metrics"
	"github.com/toyinlola/housingrisk/pkg/pipeline"
	"github.com/toyinlola/housingrisk/pkg/server"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the scoring API over HTTP",
	Long: `Serve loads the configured model artifacts once and exposes:

  POST /predict   score physical measurements
  POST /assess    score questionnaire answers
  GET  /health    liveness and model version
  GET  /metrics   Prometheus metrics

A selected model that cannot be loaded stops the command before it listens.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config or PORT)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rec := metrics.New()
	svc, err := buildService(cfg, rec.ObserveFallback, pipeline.WithRecorder(rec))
	if err != nil {
		return fmt.Errorf("serve: %w", err)
	}

	addr := cfg.Server.Addr
	if serveAddr != "" {
		addr = serveAddr
	}
	if !verbose {
		gin.SetMode(gin.ReleaseMode)
	}

	slog.Info("serve: starting",
		"addr", addr,
		"model_version", svc.Version(),
		"physical", svc.Selected(interfaces.VariantPhysical),
		"questionnaire", svc.Selected(interfaces.VariantQuestionnaire),
		"allowed_origins", cfg.Server.AllowedOrigins,
	)

	srv := server.New(svc, rec, server.Options{AllowedOrigins: cfg.Server.AllowedOrigins})
	if err := srv.Run(ctx, addr); err != nil {
		return fmt.Errorf("serve: %w", err)
	}
	slog.Info("serve: stopped")
	return nil
}
