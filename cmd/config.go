package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/spf13/cobra"

	"github.com/derickschaefer/storefront/internal/config"
	"github.com/derickschaefer/storefront/internal/render"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage storefront configuration",
	Long: `Read and write storefront configuration stored in config.json.

The product source endpoint is fixed at build time and cannot be configured.`,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a template config.json in the current directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := config.DefaultConfigFile
		if _, err := os.Stat(path); err == nil {
			return errors.Errorf("config.json already exists at %s (delete it first to re-initialise)", path)
		}
		if err := config.WriteFile(path, config.Template()); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Created %s\n", path)
		return nil
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Print the current resolved configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		src := "(not found)"
		if cfg.ConfigPath != "" {
			src = cfg.ConfigPath
		}

		format := cfg.Format
		if globalFlags.Format != "" {
			format = globalFlags.Format
		}

		switch format {
		case render.FormatJSON:
			type configOut struct {
				Format      string  `json:"default_format"`
				Timeout     string  `json:"timeout"`
				Rate        float64 `json:"rate"`
				Color       string  `json:"color"`
				ProductsURL string  `json:"products_url"`
				ConfigFile  string  `json:"config_file"`
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(configOut{
				Format:      cfg.Format,
				Timeout:     cfg.Timeout.String(),
				Rate:        cfg.Rate,
				Color:       cfg.Color,
				ProductsURL: cfg.ProductsURL,
				ConfigFile:  src,
			})
		default:
			printSimpleTable(cmd.OutOrStdout(), []string{"KEY", "VALUE"}, func(add func(...string)) {
				add("default_format", cfg.Format)
				add("timeout", cfg.Timeout.String())
				add("rate", fmt.Sprintf("%.1f req/s", cfg.Rate))
				add("color", cfg.Color)
				add("products_url", cfg.ProductsURL+" (build-time)")
				add("config_file", src)
			})
			return nil
		}
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value in config.json",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key := strings.ToLower(args[0])
		val := args[1]

		// Load existing file or start from template
		path := config.DefaultConfigFile
		f := config.Template()
		if existing, err := config.ReadFile(path); err == nil {
			f = *existing
		}

		if err := setConfigKey(&f, key, val); err != nil {
			return err
		}
		if err := config.WriteFile(path, f); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Set %s in %s\n", key, path)
		return nil
	},
}

// setConfigKey validates val and stores it under key in f.
func setConfigKey(f *config.File, key, val string) error {
	switch key {
	case "default_format", "format":
		switch val {
		case render.FormatTable, render.FormatJSON, render.FormatJSONL,
			render.FormatCSV, render.FormatTSV, render.FormatMD:
		default:
			return errors.Errorf("unknown format %q: choose table|json|jsonl|csv|tsv|md", val)
		}
		f.DefaultFormat = val
	case "timeout":
		if _, err := time.ParseDuration(val); err != nil {
			return errors.Errorf("timeout must be a duration like 30s or 2m")
		}
		f.Timeout = val
	case "rate":
		r, err := strconv.ParseFloat(val, 64)
		if err != nil || r <= 0 {
			return errors.Errorf("rate must be a positive number")
		}
		f.Rate = r
	case "color":
		v := strings.ToLower(val)
		if v != config.ColorAuto && v != config.ColorAlways && v != config.ColorNever {
			return errors.Errorf("color must be auto|always|never")
		}
		f.Color = v
	case "products_url", "base_url":
		return errors.Errorf("%s is fixed at build time and cannot be set", key)
	default:
		return errors.Errorf("unknown config key: %q\n\nValid keys: default_format, timeout, rate, color", key)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
}
