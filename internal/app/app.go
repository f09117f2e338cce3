package app

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/vk/sectiongrid/internal/adapter"
	"github.com/vk/sectiongrid/internal/analysis/nscp"
	"github.com/vk/sectiongrid/internal/ctxlog"
	"github.com/vk/sectiongrid/internal/registry"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	logger     *slog.Logger
	config     *Config
	registry   *registry.Registry
	httpServer *http.Server
}

// NewApp is the constructor for the main application. Logs go to logW. It
// registers the given modules, or every core module when none are given,
// and panics when the registry fails validation: a function declaring a
// parameter kind without a codec is a programming error.
func NewApp(logW io.Writer, cfg *Config, modules ...registry.Module) *App {
	logger := newLogger(cfg.Settings.Log, logW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	reg := registry.New(adapter.Default(), nscp.New())
	if len(modules) == 0 {
		modules = coreModules
	}
	for _, mod := range modules {
		mod.Register(reg)
	}
	logger.Debug("All Go modules registered.", "count", len(modules), "functions", len(reg.Names()))

	if err := reg.ValidateRegistry(ctx); err != nil {
		panic(err)
	}
	logger.Debug("Registry validation passed.")

	return &App{
		logger:   logger,
		config:   cfg,
		registry: reg,
	}
}

// Registry returns the application's registry. This is primarily for testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}

func (a *App) context(ctx context.Context) context.Context {
	return ctxlog.WithLogger(ctx, a.logger)
}
