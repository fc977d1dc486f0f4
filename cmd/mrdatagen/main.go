package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mmrzaf/mrdatagen/internal/app"
	"github.com/mmrzaf/mrdatagen/internal/config"
	"github.com/mmrzaf/mrdatagen/internal/domain"
	"github.com/mmrzaf/mrdatagen/internal/exec"
	"github.com/mmrzaf/mrdatagen/internal/infra/repos/runs"
	"github.com/mmrzaf/mrdatagen/internal/logging"
	"github.com/mmrzaf/mrdatagen/internal/registry"
	"github.com/spf13/cobra"
)

var (
	runsDBPath string
	logLevel   string
	cfg        *config.Config
)

func main() {
	cfg = config.Load()

	rootCmd := &cobra.Command{
		Use:           "mrdatagen",
		Short:         "Generate delimited test data from a column schema",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&runsDBPath, "runs-db", cfg.RunsDBPath, "Runs database path (empty disables run history)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", cfg.LogLevel, "Log level")

	rootCmd.AddCommand(generateCmd())
	rootCmd.AddCommand(validateCmd())
	rootCmd.AddCommand(checkCmd())
	rootCmd.AddCommand(runsCmd())

	if err := rootCmd.Execute(); err != nil {
		color.Red("Error: %v", err)
		os.Exit(1)
	}
}

// newService builds the run service. withLedger controls whether the runs
// database is opened; the returned close func is always safe to call.
func newService(withLedger bool) (*app.RunService, func(), error) {
	logger := logging.NewLogger(logLevel)
	estimator := exec.Estimator{SampleRows: cfg.SampleRows, SizeUnitBytes: cfg.SizeUnitBytes}

	var repo runs.Repository
	closeFn := func() {}
	if withLedger && runsDBPath != "" {
		sqliteRepo := runs.NewSQLiteRepository(runsDBPath)
		if err := sqliteRepo.Init(); err != nil {
			return nil, closeFn, fmt.Errorf("%w: open runs database: %w", domain.ErrResource, err)
		}
		repo = sqliteRepo
		closeFn = func() { _ = sqliteRepo.Close() }
	}
	return app.NewRunService(repo, registry.DefaultGeneratorRegistry(), estimator, logger), closeFn, nil
}

func generateCmd() *cobra.Command {
	var (
		seed    int64
		output  string
		maxRows int64
	)

	cmd := &cobra.Command{
		Use:   "generate <schema>",
		Short: "Generate rows for a schema file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closeFn, err := newService(true)
			if err != nil {
				return err
			}
			defer closeFn()

			req := &domain.GenerateRequest{
				SchemaPath: args[0],
				OutputPath: output,
			}
			if cmd.Flags().Changed("seed") {
				req.Seed = &seed
			}
			if cmd.Flags().Changed("max-rows") {
				req.MaxRowCount = &maxRows
			}

			run, err := svc.Generate(req)
			if err != nil {
				if run != nil {
					fmt.Printf("Run %s failed\n", run.ID)
				}
				return err
			}

			var stats domain.RunStats
			_ = json.Unmarshal(run.Stats, &stats)
			color.Green("Run %s completed", run.ID)
			fmt.Printf("Output: %s\n", run.Output)
			fmt.Printf("Seed: %d\n", run.Seed)
			fmt.Printf("Rows written: %d\n", stats.RowsWritten)
			if stats.Combinations > 0 {
				fmt.Printf("Combinations: %d (%d rows each)\n", stats.Combinations, stats.RowsPerCombo)
			}
			fmt.Printf("Duration: %.2fs\n", stats.DurationSeconds)
			return nil
		},
	}

	cmd.Flags().Int64VarP(&seed, "seed", "s", 0, "Seed for the random source")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (overrides filePathName)")
	cmd.Flags().Int64Var(&maxRows, "max-rows", 0, "Row cap (overrides maxRowCount)")
	return cmd
}

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <schema>",
		Short: "Validate a schema and print its header",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closeFn, err := newService(false)
			if err != nil {
				return err
			}
			defer closeFn()

			plan, err := svc.Validate(&domain.GenerateRequest{SchemaPath: args[0]})
			if err != nil {
				color.Red("Validation failed")
				return err
			}
			color.Green("Schema '%s' is valid", args[0])
			fmt.Printf("Header: %s\n", strings.Join(plan.Header(), plan.Delimiter))
			if plan.HasDimensions() {
				fmt.Printf("For-each columns: %d\n", len(plan.ForEach))
			}
			return nil
		},
	}
}

func checkCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "check <schema>",
		Short: "Connect to a schema's target without writing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closeFn, err := newService(false)
			if err != nil {
				return err
			}
			defer closeFn()

			check, err := svc.Check(&domain.GenerateRequest{SchemaPath: args[0]})
			if format == "json" && check != nil {
				data, _ := json.MarshalIndent(check, "", "  ")
				fmt.Println(string(data))
				return err
			}
			if err != nil {
				return err
			}
			color.Green("Target %s is reachable", check.Kind)
			fmt.Printf("Output: %s\n", check.Output)
			fmt.Printf("Latency: %dms\n", check.LatencyMS)
			if check.ServerVersion != "" {
				fmt.Printf("Server version: %s\n", check.ServerVersion)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", "text", "Output format (text|json)")
	return cmd
}
