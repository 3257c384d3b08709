package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"DailyInsights/internal/app"
	"DailyInsights/internal/config"
	"DailyInsights/internal/logging"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var cfgFile string

	root := &cobra.Command{
		Use:           "dailyinsights",
		Short:         "Collect scraped media coverage and attribute it to clients",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&cfgFile, "config", "", "YAML config file (default $DAILY_INSIGHTS_CONFIG)")

	root.AddCommand(runCommand(&cfgFile), serveCommand(&cfgFile))
	return root
}

func runCommand(cfgFile *string) *cobra.Command {
	var clientID string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Execute a single insights batch and print its summary",
		RunE: func(cmd *cobra.Command, _ []string) error {
			application, err := build(cmd.Context(), *cfgFile)
			if err != nil {
				return err
			}
			defer application.Close()

			var forced *string
			if id := strings.TrimSpace(clientID); id != "" {
				forced = &id
			}

			summary, runErr := application.RunOnce(cmd.Context(), forced)

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(summary); err != nil {
				return fmt.Errorf("encode summary: %w", err)
			}
			return runErr
		},
	}
	cmd.Flags().StringVar(&clientID, "client", "", "assign every document to this client id")
	return cmd
}

func serveCommand(cfgFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the scheduler and the HTTP trigger API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			application, err := build(cmd.Context(), *cfgFile)
			if err != nil {
				return err
			}
			defer application.Close()

			return application.Serve(cmd.Context())
		},
	}
}

func build(ctx context.Context, cfgFile string) (*app.Application, error) {
	cfg := config.LoadFrom(cfgFile)
	logger := logging.New(cfg.Logging.Level, cfg.Logging.Format)

	application, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("application init failed", "error", err)
		return nil, err
	}
	return application, nil
}
