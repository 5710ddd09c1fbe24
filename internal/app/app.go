// Package app wires together configuration, the product source client, and
// logging into a single Deps struct that commands receive at runtime.
package app

import (
	"io"
	"log/slog"

	"github.com/fatih/color"
	"github.com/google/uuid"

	"github.com/derickschaefer/storefront/internal/catalog"
	"github.com/derickschaefer/storefront/internal/config"
	"github.com/derickschaefer/storefront/internal/shop"
)

// Deps holds all runtime dependencies injected into command Run functions.
type Deps struct {
	Config    *config.Config
	Client    *shop.Client
	Logger    *slog.Logger
	SessionID string
}

// New builds a Deps from resolved config. Diagnostics are written to logOut.
func New(cfg *config.Config, logOut io.Writer) *Deps {
	applyColor(cfg.Color)

	sessionID := uuid.New().String()
	logger := newLogger(logOut, cfg).With("session", sessionID)
	slog.SetDefault(logger)

	client := shop.NewClient(
		cfg.ProductsURL,
		cfg.Timeout,
		cfg.Rate,
		logger,
	)
	return &Deps{
		Config:    cfg,
		Client:    client,
		Logger:    logger,
		SessionID: sessionID,
	}
}

// NewLoader returns the catalog loader bound to the configured client.
func (d *Deps) NewLoader() *catalog.Loader {
	return catalog.NewLoader(d.Client, d.Logger)
}

func newLogger(w io.Writer, cfg *config.Config) *slog.Logger {
	level := slog.LevelWarn
	switch {
	case cfg.Debug:
		level = slog.LevelDebug
	case cfg.Quiet:
		level = slog.LevelError
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// applyColor sets the process-wide color mode. "auto" leaves fatih/color's
// terminal detection in place.
func applyColor(mode string) {
	switch mode {
	case config.ColorAlways:
		color.NoColor = false
	case config.ColorNever:
		color.NoColor = true
	}
}
