// Package cli provides the roster command-line interface.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/albanecoiffe/JO2024-visualization/internal/adapters/repository"
	service "github.com/albanecoiffe/JO2024-visualization/internal/app"
	"github.com/albanecoiffe/JO2024-visualization/internal/config"
	"github.com/albanecoiffe/JO2024-visualization/pkg/logger"
	"github.com/spf13/cobra"
)

// Version is set at build time.
var Version = "0.1.0"

// globalFlags override the loaded configuration when set.
type globalFlags struct {
	athletes string
	medals   string
	torch    string
	year     int
	format   string
	logLevel string
}

type runner struct {
	flags globalFlags
}

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	r := &runner{}
	rootCmd := &cobra.Command{
		Use:   "roster",
		Short: "Reconcile the Paris 2024 athlete roster and print views of it",
		Long: `roster loads the athlete export, the medal spreadsheet and the torch relay
file, reconciles them into one roster and prints the requested view.

Configuration is read like the server: defaults, then the YAML file named by
JO2024_CONFIG, then JO2024_* environment variables. Flags win over all of them.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&r.flags.athletes, "athletes", "", "athlete document export (JSON)")
	pf.StringVar(&r.flags.medals, "medals", "", "medal spreadsheet (.xlsx or .csv)")
	pf.StringVar(&r.flags.torch, "torch", "", "torch relay file (.xlsx or .csv)")
	pf.IntVar(&r.flags.year, "year", 0, "reference year for ages")
	pf.StringVarP(&r.flags.format, "output", "o", formatTable, "output format (table|markdown|csv|json)")
	pf.StringVar(&r.flags.logLevel, "log-level", "warn", "log level written to stderr")

	_ = rootCmd.RegisterFlagCompletionFunc("output", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{formatTable, formatMarkdown, formatCSV, formatJSON}, cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.AddCommand(r.newSummaryCommand())
	rootCmd.AddCommand(r.newRankCommand("top", "Highest athletes by a metric", "total", true))
	rootCmd.AddCommand(r.newRankCommand("bottom", "Lowest athletes by a metric", "age", false))
	rootCmd.AddCommand(r.newGroupsCommand())
	rootCmd.AddCommand(r.newAgesCommand())
	rootCmd.AddCommand(r.newTorchCommand())

	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

// snapshot runs one pipeline pass with flags layered over the config.
func (r *runner) snapshot(cmd *cobra.Command) (*repository.Snapshot, error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if err := logger.InitWithOptions(logger.Options{Output: cmd.ErrOrStderr(), Level: r.flags.logLevel}); err != nil {
		return nil, err
	}

	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, err
	}
	r.apply(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	svc := service.New(append(service.OptionsFromConfig(cfg), service.WithLogger(logger.Named("cli")))...)
	if _, err := svc.Reload(ctx); err != nil {
		return nil, err
	}
	return svc.Snapshot(ctx)
}

func (r *runner) apply(cfg *config.Config) {
	if r.flags.athletes != "" {
		cfg.AthletesPath = r.flags.athletes
	}
	if r.flags.medals != "" {
		cfg.MedalsPath = r.flags.medals
	}
	if r.flags.torch != "" {
		cfg.TorchPath = r.flags.torch
	}
	if r.flags.year > 0 {
		cfg.ReferenceYear = r.flags.year
	}
	cfg.ReloadIntervalSec = 0
}
