// Package cmd implements the storefront CLI command tree.
// This file defines the root command and registers all global persistent flags.
package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/go-faster/errors"
	"github.com/spf13/cobra"

	"github.com/derickschaefer/storefront/internal/app"
	"github.com/derickschaefer/storefront/internal/config"
)

// globalFlags holds the parsed values of all persistent (global) flags.
// Commands read from this struct via the deps they receive.
var globalFlags struct {
	Format  string
	Out     string
	Timeout string
	Rate    float64
	Color   string
	Quiet   bool
	Verbose bool
	Debug   bool
}

// rootCmd is the base command. Running `storefront` with no subcommand
// prints help.
var rootCmd = &cobra.Command{
	Use:   "storefront",
	Short: "Browse a remote product catalog from the terminal",
	Long: `storefront fetches the product catalog from its product source once per
run and lets you search it, filter it by category and inspect single products.

Quick start:
  storefront browse                       # interactive catalog
  storefront list --category electronics  # one-shot grid
  storefront show 3                       # product details`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute is the entry point called by main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// buildDeps resolves config and constructs the dependency container.
// Called at the start of each command's RunE.
func buildDeps() (*app.Deps, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	// Apply CLI flag overrides
	cfg.Quiet = globalFlags.Quiet
	cfg.Verbose = globalFlags.Verbose
	cfg.Debug = globalFlags.Debug

	if globalFlags.Format != "" {
		cfg.Format = globalFlags.Format
	}
	if globalFlags.Timeout != "" {
		d, err := time.ParseDuration(globalFlags.Timeout)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid --timeout %q", globalFlags.Timeout)
		}
		cfg.Timeout = d
	}
	if globalFlags.Rate > 0 {
		cfg.Rate = globalFlags.Rate
	}
	if globalFlags.Color != "" {
		cfg.Color = globalFlags.Color
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return app.New(cfg, os.Stderr), nil
}

func init() {
	pf := rootCmd.PersistentFlags()

	pf.StringVar(&globalFlags.Format, "format", "",
		"output format: table|json|jsonl|csv|tsv|md (default: table)")
	pf.StringVar(&globalFlags.Out, "out", "",
		"write output to file instead of stdout")
	pf.StringVar(&globalFlags.Timeout, "timeout", "",
		"HTTP request timeout (e.g. 30s, 2m)")
	pf.Float64Var(&globalFlags.Rate, "rate", 0,
		"max API requests per second (default: 5.0)")
	pf.StringVar(&globalFlags.Color, "color", "",
		"color mode: auto|always|never (default: auto)")
	pf.BoolVar(&globalFlags.Quiet, "quiet", false,
		"suppress all non-error output")
	pf.BoolVar(&globalFlags.Verbose, "verbose", false,
		"show timing stats after output")
	pf.BoolVar(&globalFlags.Debug, "debug", false,
		"log HTTP requests, responses and state transitions")
}
