// Command scraper runs the FBref ingestion pipeline once, outside the API
// process.
//
// Usage:
//
//	football-scraper run
//	football-scraper run --historical
//	football-scraper run --json
//	football-scraper check
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/bytedance/sonic"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/riskibarqy/football-stats/internal/app"
	"github.com/riskibarqy/football-stats/internal/config"
	"github.com/riskibarqy/football-stats/internal/observability"
	"github.com/riskibarqy/football-stats/internal/platform/logging"
	"github.com/riskibarqy/football-stats/internal/usecase"
)

func main() {
	_ = godotenv.Load(".env")

	root := &cobra.Command{
		Use:           "football-scraper",
		Short:         "FBref football statistics scraper",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(runCmd())
	root.AddCommand(checkCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func runCmd() *cobra.Command {
	var historical, asJSON bool
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run one full update of leagues, teams, matches and match details",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp("scraper", func(ctx context.Context, application *app.App, logger *logging.Logger) error {
				report, err := application.Orchestrator().RunFullUpdate(ctx, usecase.RunInput{Historical: historical})
				if asJSON {
					if printErr := printJSON(cmd, report); printErr != nil {
						logger.Warn("print run report", "error", printErr)
					}
				}
				if err != nil {
					return fmt.Errorf("full update: %w", err)
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&historical, "historical", false, "Ingest past seasons before the current one")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the run report as JSON")
	return cmd
}

func checkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Report stored leagues and matches still waiting for details",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp("scraper", func(ctx context.Context, application *app.App, _ *logging.Logger) error {
				status, err := application.Orchestrator().Status(ctx)
				if err != nil {
					return fmt.Errorf("read status: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "leagues: %d\npending details: %d\n", status.Leagues, status.PendingDetails)
				return nil
			})
		},
	}
}

func withApp(component string, fn func(ctx context.Context, application *app.App, logger *logging.Logger) error) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := logging.New(logging.Options{
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
		Service: cfg.ServiceName + "-" + component,
		Version: cfg.ServiceVersion,
	})
	logging.SetDefault(logger)
	defer func() { _ = logger.Sync() }()

	stopProfiler, err := observability.InitPyroscope(cfg, component, logger)
	if err != nil {
		return fmt.Errorf("init pyroscope: %w", err)
	}
	defer func() {
		if err := stopProfiler(); err != nil {
			logger.Warn("pyroscope stop failed", "error", err)
		}
	}()

	shutdownTracing, err := observability.InitUptrace(cfg, logger)
	if err != nil {
		return fmt.Errorf("init uptrace: %w", err)
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			logger.Warn("uptrace shutdown failed", "error", err)
		}
	}()

	application, err := app.New(cfg, logger)
	if err != nil {
		return fmt.Errorf("build app: %w", err)
	}
	defer func() {
		if err := application.Close(); err != nil {
			logger.Warn("close app", "error", err)
		}
	}()

	return fn(ctx, application, logger)
}

func printJSON(cmd *cobra.Command, v any) error {
	body, err := sonic.Marshal(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(body))
	return err
}
