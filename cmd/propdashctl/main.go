// Command propdashctl runs the ingestion chains, the league poll and the
// confidence heuristic from the command line.
//
// Usage:
//
//	propdashctl pipeline run full
//	propdashctl pipeline list
//	propdashctl league poll
//	propdashctl confidence --line 18.5 --points 22,19,15,20,17
//	propdashctl migrate
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/moduel/propdash/internal/confidence"
	"github.com/moduel/propdash/internal/config"
	"github.com/moduel/propdash/internal/logging"
	"github.com/moduel/propdash/internal/odds"
	"github.com/moduel/propdash/internal/pipeline"
	"github.com/moduel/propdash/internal/service"
	"github.com/moduel/propdash/internal/store"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:           "propdashctl",
		Short:         "Prop confidence dashboard operations",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(pipelineCmd())
	root.AddCommand(leagueCmd())
	root.AddCommand(confidenceCmd())
	root.AddCommand(migrateCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig loads configuration and sets up logging. The heuristic command
// does not need it.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logging.Setup(cfg.AppEnv, cfg.LogLevel)
	return cfg, nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func newPipelineService(cfg *config.Config) (*service.PipelineService, error) {
	catalog, err := pipeline.NewCatalog(pipeline.CatalogConfig{
		Dir:              cfg.PipelineDir,
		Timeout:          cfg.PipelineTimeout,
		ScrapeCommands:   cfg.ScrapeCommands,
		ProcessCommands:  cfg.ProcessCommands,
		AnalysisCommands: cfg.AnalysisCommands,
	})
	if err != nil {
		return nil, err
	}
	reporters := pipeline.Reporters{
		&consoleReporter{},
		pipeline.NewLogReporter(logging.Component("pipeline")),
	}
	league := odds.NewClient(cfg.OddsAPIURL, cfg.OddsLeagueID, cfg.OddsTimeout)
	return service.NewPipelineService(catalog, pipeline.NewRunner(), reporters, league), nil
}

// --------------------------------------------------------------------------
// pipeline
// --------------------------------------------------------------------------

func pipelineCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pipeline",
		Short: "Run ingestion chains",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "run <chain>",
		Short: "Run a chain (scrape, process, analysis, full) to completion",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			svc, err := newPipelineService(cfg)
			if err != nil {
				return err
			}
			ctx, cancel := signalContext()
			defer cancel()

			run, err := svc.Trigger(ctx, args[0])
			if run != nil {
				printJSON(cmd, run)
			}
			return err
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List chains and their steps",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			catalog, err := pipeline.NewCatalog(pipeline.CatalogConfig{
				Dir:              cfg.PipelineDir,
				Timeout:          cfg.PipelineTimeout,
				ScrapeCommands:   cfg.ScrapeCommands,
				ProcessCommands:  cfg.ProcessCommands,
				AnalysisCommands: cfg.AnalysisCommands,
			})
			if err != nil {
				return err
			}
			for _, name := range catalog.Names() {
				chain, _ := catalog.Chain(name)
				cmd.Printf("%s\n", name)
				for i, step := range chain.Steps {
					cmd.Printf("  %d. %s\n", i+1, step.Name())
				}
			}
			return nil
		},
	})
	return cmd
}

// --------------------------------------------------------------------------
// league
// --------------------------------------------------------------------------

func leagueCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "league",
		Short: "League availability",
	}
	var checkOnly bool
	poll := &cobra.Command{
		Use:   "poll",
		Short: "Poll the projections API and run the full chain when the league is listed",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			ctx, cancel := signalContext()
			defer cancel()

			if checkOnly {
				avail, err := odds.NewClient(cfg.OddsAPIURL, cfg.OddsLeagueID, cfg.OddsTimeout).LeagueAvailable(ctx)
				if err != nil {
					return err
				}
				printJSON(cmd, avail)
				return nil
			}

			svc, err := newPipelineService(cfg)
			if err != nil {
				return err
			}
			result, err := svc.PollLeague(ctx)
			if result != nil {
				printJSON(cmd, result)
			}
			return err
		},
	}
	poll.Flags().BoolVar(&checkOnly, "check", false, "Only report availability, do not run the chain")
	cmd.AddCommand(poll)
	return cmd
}

// --------------------------------------------------------------------------
// confidence
// --------------------------------------------------------------------------

func confidenceCmd() *cobra.Command {
	var (
		line       float64
		points     []float64
		comparator string
	)
	cmd := &cobra.Command{
		Use:   "confidence",
		Short: "Score recent values (newest first) against a line",
		RunE: func(cmd *cobra.Command, args []string) error {
			cmp, err := confidence.ParseComparator(comparator)
			if err != nil {
				return err
			}
			printJSON(cmd, confidence.Evaluate(points, line, cmp))
			return nil
		},
	}
	cmd.Flags().Float64Var(&line, "line", 0, "Prop line")
	cmd.Flags().Float64SliceVar(&points, "points", nil, "Recent values, newest first")
	cmd.Flags().StringVar(&comparator, "comparator", "gte", "Over comparator: gte or gt")
	_ = cmd.MarkFlagRequired("line")
	return cmd
}

// --------------------------------------------------------------------------
// migrate
// --------------------------------------------------------------------------

func migrateCmd() *cobra.Command {
	var list bool
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations to the postgres store",
		RunE: func(cmd *cobra.Command, args []string) error {
			if list {
				names, err := store.MigrationNames()
				if err != nil {
					return err
				}
				for _, n := range names {
					cmd.Println(n)
				}
				return nil
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cfg.StoreBackend != config.BackendPostgres {
				return fmt.Errorf("migrations apply to the %s backend only", config.BackendPostgres)
			}
			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			defer cancel()

			db, err := store.NewDatabase(ctx, cfg.DatabaseURL, store.DefaultOptions())
			if err != nil {
				return err
			}
			defer db.Close()

			if err := db.RunMigrations(ctx); err != nil {
				return err
			}
			log.Info().Msg("Migrations applied")
			return nil
		},
	}
	cmd.Flags().BoolVar(&list, "list", false, "List embedded migrations without connecting")
	return cmd
}

func printJSON(cmd *cobra.Command, v any) {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		log.Error().Err(err).Msg("Failed to encode output")
	}
}

// consoleReporter prints step progress to stderr.
type consoleReporter struct{}

func (consoleReporter) OnRunStart(run *pipeline.RunResult) {
	fmt.Fprintf(os.Stderr, "Starting %s run %s\n", run.Chain, run.ID)
}

func (consoleReporter) OnStepStart(_ *pipeline.RunResult, step string, index, total int) {
	fmt.Fprintf(os.Stderr, "[%d/%d] %s\n", index+1, total, step)
}

func (consoleReporter) OnStepComplete(_ *pipeline.RunResult, result pipeline.StepResult) {
	fmt.Fprintf(os.Stderr, "  %s %s (%dms)\n", result.Name, result.Status, result.DurationMS)
	if result.Error != "" {
		fmt.Fprintf(os.Stderr, "  error: %s\n", result.Error)
	}
}

func (consoleReporter) OnRunComplete(run *pipeline.RunResult) {
	fmt.Fprintf(os.Stderr, "Run %s %s\n", run.ID, run.Status)
}
