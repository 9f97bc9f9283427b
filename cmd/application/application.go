// Package application provides the interface that spotcheck commands
// depend on.
//
// Commands accept an Application rather than the concrete app so they
// can be tested against a Mock:
//
//	mock := &application.Mock{
//	    ClientFunc: func() (spotcheck.Client, error) {
//	        return spotcheck.New(spotcheck.WithPaths(paths))
//	    },
//	}
//	cmd := check.NewCommand(mock)
package application

import (
	"github.com/rs/zerolog"

	"github.com/bolinasrbc/spotcheck"
	"github.com/bolinasrbc/spotcheck/internal/config"
)

// Application provides what commands need from the running app.
// All methods must be safe for concurrent access.
type Application interface {
	// Client returns the default client built from the loaded
	// configuration. It is created once and cached.
	Client() (spotcheck.Client, error)

	// ClientWithOptions returns a new client built from the loaded
	// configuration with opts applied on top. It is not cached.
	ClientWithOptions(opts ...spotcheck.Option) (spotcheck.Client, error)

	// Config returns the club configuration.
	Config() *config.Config

	// Logger returns the configured logger instance.
	Logger() *zerolog.Logger

	// OutputFormat returns the global output format, or "" when unset.
	OutputFormat() string

	// Quiet reports whether informational output is suppressed.
	Quiet() bool

	// Version returns the application version string.
	Version() string

	// Commit returns the git commit hash.
	Commit() string

	// Date returns the build date.
	Date() string

	// BuiltBy returns the build system identifier.
	BuiltBy() string
}
