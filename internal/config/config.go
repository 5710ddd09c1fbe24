// Package config handles loading and resolving storefront configuration.
// Resolution order (last layer wins):
//  1. built-in defaults
//  2. config.json or config.yaml in the current working directory
//  3. environment variables STOREFRONT_*
//  4. CLI flags (applied by the cmd package after Load)
//
// The product source endpoint is not part of any layer: it is fixed at build
// time through ProductsURL.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigyaml"
	"github.com/go-faster/errors"
)

// ProductsURL is the product source endpoint. Release builds may point it
// elsewhere with:
//
//	go build -ldflags "-X github.com/derickschaefer/storefront/internal/config.ProductsURL=https://..."
var ProductsURL = "https://fakestoreapi.com/products"

const (
	DefaultConfigFile = "config.json"
	DefaultFormat     = "table"
	DefaultTimeout    = 30 * time.Second
	DefaultRate       = 5.0
	DefaultColor      = ColorAuto
	EnvPrefix         = "STOREFRONT"

	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// searchFiles lists the config files Load looks for, in priority order.
var searchFiles = []string{"config.json", "config.yaml"}

// File is the on-disk representation of config.json / config.yaml.
type File struct {
	DefaultFormat string  `json:"default_format" yaml:"default_format" env:"FORMAT" default:"table"`
	Timeout       string  `json:"timeout" yaml:"timeout" env:"TIMEOUT" default:"30s"`
	Rate          float64 `json:"rate" yaml:"rate" env:"RATE" default:"5"`
	Color         string  `json:"color" yaml:"color" env:"COLOR" default:"auto"`
}

// Config is the fully-resolved runtime configuration.
// All callers use this struct; the File is only read during loading.
type Config struct {
	Format      string
	Timeout     time.Duration
	Rate        float64
	Color       string
	ProductsURL string
	ConfigPath  string // path of the config file that was loaded (empty if none found)

	// Runtime overrides set from CLI flags after Load()
	Quiet   bool
	Verbose bool
	Debug   bool
}

// Load resolves configuration from defaults, the config file and the
// environment.
func Load() (*Config, error) {
	var f File
	loader := aconfig.LoaderFor(&f, aconfig.Config{
		EnvPrefix:          EnvPrefix,
		SkipFlags:          true,
		AllowUnknownFields: true,
		AllowUnknownEnvs:   true,
		Files:              searchFiles,
		FileDecoders: map[string]aconfig.FileDecoder{
			".yaml": aconfigyaml.New(),
		},
	})
	if err := loader.Load(); err != nil {
		return nil, errors.Wrap(err, "load config")
	}

	cfg := &Config{
		Format:      DefaultFormat,
		Timeout:     DefaultTimeout,
		Rate:        DefaultRate,
		Color:       DefaultColor,
		ProductsURL: ProductsURL,
		ConfigPath:  foundFile(),
	}
	if err := applyFile(cfg, &f); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate returns an error if a resolved value is out of range.
func (c *Config) Validate() error {
	switch c.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return errors.Errorf("invalid color mode %q: choose auto|always|never", c.Color)
	}
	if c.Timeout < 0 {
		return errors.Errorf("invalid timeout %s: must not be negative", c.Timeout)
	}
	if c.ProductsURL == "" {
		return errors.New("product source URL is empty; rebuild with a ProductsURL")
	}
	return nil
}

// applyFile copies values from a loaded File into cfg,
// skipping any fields that are zero/empty.
func applyFile(cfg *Config, f *File) error {
	if f.DefaultFormat != "" {
		cfg.Format = f.DefaultFormat
	}
	if f.Timeout != "" {
		d, err := time.ParseDuration(f.Timeout)
		if err != nil {
			return errors.Wrapf(err, "parsing timeout %q", f.Timeout)
		}
		cfg.Timeout = d
	}
	if f.Rate > 0 {
		cfg.Rate = f.Rate
	}
	if f.Color != "" {
		cfg.Color = strings.ToLower(f.Color)
	}
	return nil
}

// foundFile returns the absolute path of the first config file present in
// the working directory, mirroring the order aconfig uses.
func foundFile() string {
	for _, name := range searchFiles {
		path, err := filepath.Abs(name)
		if err != nil {
			continue
		}
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// Template returns a File populated with sensible defaults, suitable for
// writing an initial config.json via `storefront config init`.
func Template() File {
	return File{
		DefaultFormat: DefaultFormat,
		Timeout:       DefaultTimeout.String(),
		Rate:          DefaultRate,
		Color:         DefaultColor,
	}
}

// ReadFile reads a config.json from path without applying defaults.
func ReadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading config")
	}
	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, errors.Wrap(err, "parsing config")
	}
	return &f, nil
}

// WriteFile serialises a File to the given path.
func WriteFile(path string, f File) error {
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encoding config")
	}
	return os.WriteFile(path, append(data, '\n'), 0600)
}
