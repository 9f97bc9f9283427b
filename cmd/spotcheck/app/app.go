// Package app provides the application context and dependency management
// for the spotcheck CLI. It centralizes configuration, logging and the
// lazily created client that commands share.
package app

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/bolinasrbc/spotcheck"
	"github.com/bolinasrbc/spotcheck/cmd/application"
	"github.com/bolinasrbc/spotcheck/internal/config"
	"github.com/bolinasrbc/spotcheck/pkg/errors"
)

// App represents the spotcheck application with all its dependencies.
type App struct {
	// Version information
	version string
	commit  string
	date    string
	builtBy string

	config *Config
	logger *zerolog.Logger

	// Client instance (lazy-initialized, singleton)
	mu     sync.RWMutex
	client spotcheck.Client
}

var _ application.Application = (*App)(nil)

// New creates an App with the given version information. Configuration
// is loaded from the environment and the default config file locations;
// a --config flag reloads it before the command runs.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
		builtBy: builtBy,
	}

	cfg, err := LoadConfig("")
	if err != nil {
		return nil, err
	}
	app.config = cfg

	logger := NewLogger(cfg)
	app.logger = &logger

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	return app, nil
}

// Version returns the version information.
func (a *App) Version() string {
	return a.version
}

// Commit returns the git commit hash.
func (a *App) Commit() string {
	return a.commit
}

// Date returns the build date.
func (a *App) Date() string {
	return a.date
}

// BuiltBy returns the build system identifier.
func (a *App) BuiltBy() string {
	return a.builtBy
}

// Config returns the club configuration.
func (a *App) Config() *config.Config {
	return a.config.Club
}

// Settings returns the CLI settings, including global flag values.
func (a *App) Settings() *Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// OutputFormat returns the global --output value.
func (a *App) OutputFormat() string {
	return a.config.Output
}

// Quiet reports whether --quiet was given.
func (a *App) Quiet() bool {
	return a.config.Quiet
}

// Client returns the shared client, creating it on first use.
func (a *App) Client() (spotcheck.Client, error) {
	a.mu.RLock()
	if a.client != nil {
		c := a.client
		a.mu.RUnlock()
		return c, nil
	}
	a.mu.RUnlock()

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.client != nil {
		return a.client, nil
	}

	c, err := spotcheck.New(a.config.Club.ClientOptions()...)
	if err != nil {
		return nil, errors.NewConfigError("client", "creating client", err)
	}
	a.client = c
	return c, nil
}

// ClientWithOptions returns a new client built from the configuration
// with opts applied last. Commands use it to honor per-command flags.
func (a *App) ClientWithOptions(opts ...spotcheck.Option) (spotcheck.Client, error) {
	all := append(a.config.Club.ClientOptions(), opts...)
	c, err := spotcheck.New(all...)
	if err != nil {
		return nil, errors.NewConfigError("client", "creating client with options", err)
	}
	return c, nil
}

// Shutdown releases application resources. The client holds no open
// files between runs, so this only drops it.
func (a *App) Shutdown(_ context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.client != nil {
		a.logger.Debug().Msg("releasing client")
		a.client = nil
	}
	return nil
}

// Option is a functional option for configuring the App.
type Option func(*App) error

// WithConfig sets a custom configuration.
func WithConfig(cfg *Config) Option {
	return func(a *App) error {
		if cfg == nil || cfg.Club == nil {
			return errors.NewValidationError("config", cfg, "config with club settings is required")
		}
		a.config = cfg
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		a.logger = logger
		return nil
	}
}

// WithClient sets a custom client instance (useful for testing).
func WithClient(c spotcheck.Client) Option {
	return func(a *App) error {
		a.client = c
		return nil
	}
}
