package application

import (
	"github.com/rs/zerolog"

	"github.com/bolinasrbc/spotcheck"
	"github.com/bolinasrbc/spotcheck/internal/config"
)

// Mock provides a mock implementation of Application for testing.
// A nil function field makes its method return a zero value, except
// Config which falls back to config.Default and ClientWithOptions which
// builds a real client from Config.
type Mock struct {
	ClientFunc            func() (spotcheck.Client, error)
	ClientWithOptionsFunc func(opts ...spotcheck.Option) (spotcheck.Client, error)
	ConfigFunc            func() *config.Config
	LoggerFunc            func() *zerolog.Logger
	OutputFormatFunc      func() string
	QuietFunc             func() bool
	VersionFunc           func() string
	CommitFunc            func() string
	DateFunc              func() string
	BuiltByFunc           func() string
}

var _ Application = (*Mock)(nil)

// Client returns a client using the mock function or nil.
func (m *Mock) Client() (spotcheck.Client, error) {
	if m.ClientFunc != nil {
		return m.ClientFunc()
	}
	return nil, nil
}

// ClientWithOptions returns a client using the mock function, or a client
// built from the mock's Config.
func (m *Mock) ClientWithOptions(opts ...spotcheck.Option) (spotcheck.Client, error) {
	if m.ClientWithOptionsFunc != nil {
		return m.ClientWithOptionsFunc(opts...)
	}
	all := append(m.Config().ClientOptions(), opts...)
	return spotcheck.New(all...)
}

// Config returns the configuration using the mock function or the defaults.
func (m *Mock) Config() *config.Config {
	if m.ConfigFunc != nil {
		return m.ConfigFunc()
	}
	return config.Default()
}

// Logger returns a logger using the mock function or a no-op logger.
func (m *Mock) Logger() *zerolog.Logger {
	if m.LoggerFunc != nil {
		return m.LoggerFunc()
	}
	logger := zerolog.Nop()
	return &logger
}

// OutputFormat returns the output format using the mock function or "".
func (m *Mock) OutputFormat() string {
	if m.OutputFormatFunc != nil {
		return m.OutputFormatFunc()
	}
	return ""
}

// Quiet returns the quiet setting using the mock function or false.
func (m *Mock) Quiet() bool {
	if m.QuietFunc != nil {
		return m.QuietFunc()
	}
	return false
}

// Version returns the version using the mock function or "dev".
func (m *Mock) Version() string {
	if m.VersionFunc != nil {
		return m.VersionFunc()
	}
	return "dev"
}

// Commit returns the commit using the mock function or "unknown".
func (m *Mock) Commit() string {
	if m.CommitFunc != nil {
		return m.CommitFunc()
	}
	return "unknown"
}

// Date returns the date using the mock function or "unknown".
func (m *Mock) Date() string {
	if m.DateFunc != nil {
		return m.DateFunc()
	}
	return "unknown"
}

// BuiltBy returns the builder using the mock function or "unknown".
func (m *Mock) BuiltBy() string {
	if m.BuiltByFunc != nil {
		return m.BuiltByFunc()
	}
	return "unknown"
}
