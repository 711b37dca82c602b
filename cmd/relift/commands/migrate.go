// Package commands implements the relift CLI commands.
package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/relift-dev/relift/internal/analyzer"
	"github.com/relift-dev/relift/internal/component"
	"github.com/relift-dev/relift/internal/config"
	"github.com/relift-dev/relift/internal/generator"
	"github.com/relift-dev/relift/internal/manifest"
	"github.com/relift-dev/relift/internal/observability"
	"github.com/relift-dev/relift/internal/orchestrator"
	"github.com/relift-dev/relift/internal/report"
	"github.com/relift-dev/relift/internal/transformer"
	"github.com/relift-dev/relift/internal/validator"
)

// MigrateCommand holds the flags for the migrate command.
type MigrateCommand struct {
	out        string
	manifest   string
	configFile string
	name       string
	workers    int
	force      bool
	dryRun     bool
	skipTests  bool
	verbose    bool
	noColor    bool
}

// NewMigrateCommand creates and configures the migrate command.
func NewMigrateCommand() *cobra.Command {
	cmd := &MigrateCommand{}

	cobraCmd := &cobra.Command{
		Use:   "migrate <baseline>...",
		Short: "Migrate baseline components in batch",
		Long: "Migrate one or more baseline component sources into the target\n" +
			"architecture. Progress is persisted to a manifest after every\n" +
			"component, so an interrupted batch resumes where it left off.",
		Args: cobra.MinimumNArgs(1),
		RunE: cmd.Run,
	}

	// Add flags.
	cobraCmd.Flags().StringVarP(&cmd.out, "out", "o", "", "Output directory for generated artifacts")
	cobraCmd.Flags().StringVar(&cmd.manifest, "manifest", "", "Manifest file path (default: <out>/.relift/manifest.json)")
	cobraCmd.Flags().StringVar(&cmd.configFile, "config", "", "Config file (default: .relift.yaml in CWD or $HOME)")
	cobraCmd.Flags().StringVar(&cmd.name, "name", "", "Component name override (single baseline only)")
	cobraCmd.Flags().IntVarP(&cmd.workers, "workers", "w", config.DefaultWorkers, "Number of components processed in parallel")
	cobraCmd.Flags().BoolVar(&cmd.force, "force", false, "Re-migrate components already recorded as successful")
	cobraCmd.Flags().BoolVar(&cmd.dryRun, "dry-run", false, "Run the pipeline without writing artifacts")
	cobraCmd.Flags().BoolVar(&cmd.skipTests, "skip-tests", false, "Do not generate test scaffolds")
	cobraCmd.Flags().BoolVarP(&cmd.verbose, "verbose", "v", false, "Verbose output")
	cobraCmd.Flags().BoolVar(&cmd.noColor, "no-color", false, "Disable colored output")

	_ = cobraCmd.MarkFlagRequired("out")

	return cobraCmd
}

// Run executes the migrate command.
func (c *MigrateCommand) Run(cmd *cobra.Command, args []string) error {
	cfg, err := c.buildConfig(cmd)
	if err != nil {
		return err
	}

	logger := newLogger(cmd.ErrOrStderr(), cfg.Verbose)
	renderer := report.NewRenderer(cmd.OutOrStdout(), c.noColor)
	writer := newArtifactWriter(cfg.DryRun, logger)

	deps := orchestrator.Deps{
		Analyzer:    analyzer.New(cfg.Analyzer, logger),
		Transformer: transformer.New(cfg.Analyzer),
		Generator:   generator.New(*cfg),
		Validator:   validator.New(cfg.Scoring),
		Store:       manifest.NewStore(),
		Logger:      logger,
		Metrics:     observability.NewMetrics(),
		OnProgress:  renderer.Progress,
		OnResult:    writer.handleResult,
	}

	orch, err := orchestrator.New(*cfg, deps)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	summary, runErr := orch.Run(ctx, args)
	if summary != nil {
		renderer.Summary(summary)
	}

	if runErr != nil {
		if errors.Is(runErr, context.Canceled) {
			return fmt.Errorf("migration interrupted: %w", runErr)
		}

		var pipeErr *component.Error
		if errors.As(runErr, &pipeErr) && pipeErr.Fatal() {
			return fmt.Errorf("manifest store failure, batch aborted: %w", runErr)
		}

		return runErr
	}

	return nil
}

// buildConfig loads file/env config and layers explicitly set flags on top.
func (c *MigrateCommand) buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(c.configFile)
	if err != nil {
		return nil, err
	}

	cfg.OutputPath = c.out

	if cmd.Flags().Changed("manifest") {
		cfg.ManifestPath = c.manifest
	}

	if cmd.Flags().Changed("name") {
		cfg.ComponentName = c.name
	}

	if cmd.Flags().Changed("workers") {
		cfg.Workers = c.workers
	}

	if cmd.Flags().Changed("force") {
		cfg.Force = c.force
	}

	if cmd.Flags().Changed("dry-run") {
		cfg.DryRun = c.dryRun
	}

	if cmd.Flags().Changed("skip-tests") {
		cfg.SkipTests = c.skipTests
	}

	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = c.verbose
	}

	validateErr := cfg.Validate()
	if validateErr != nil {
		return nil, validateErr
	}

	return cfg, nil
}

// newLogger builds the structured logger for a command run.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
