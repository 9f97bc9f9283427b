package app

import (
	"github.com/spf13/viper"

	"github.com/bolinasrbc/spotcheck/internal/config"
)

// Config holds the CLI settings: global flags plus the club
// configuration resolved from files and the environment.
type Config struct {
	// Global flags
	Verbose bool
	Quiet   bool
	NoColor bool
	Output  string

	// ConfigFile is the --config flag value.
	ConfigFile string

	// LogLevel is the --log-level flag value; Club.LogLevel applies
	// when it is empty.
	LogLevel  string
	LogFormat string
	LogOutput string

	// Club is the resolved club configuration.
	Club *config.Config
}

// LoadConfig loads configuration from all sources in order of precedence:
//  1. Command-line flags (applied later by UpdateFromFlags)
//  2. SPOTCHECK_ environment variables
//  3. .env files
//  4. Config file (file when given, else .spotcheck.yaml in the usual places)
//  5. Defaults
func LoadConfig(file string) (*Config, error) {
	config.LoadEnvFiles()

	v := viper.New()
	if file != "" {
		v.Set(config.KeyConfigFile, file)
	}
	club, err := config.Load(v)
	if err != nil {
		return nil, err
	}

	v.SetDefault("log_output", "stderr")
	return &Config{
		ConfigFile: club.File,
		LogFormat:  club.LogFormat,
		LogOutput:  v.GetString("log_output"),
		Club:       club,
	}, nil
}

// UpdateFromFlags updates config values from parsed command flags so
// that flags take precedence over the config file and environment.
func (c *Config) UpdateFromFlags(verbose, quiet, noColor bool, output, logLevel string) {
	c.Verbose = verbose
	c.Quiet = quiet
	c.NoColor = noColor
	if output != "" {
		c.Output = output
	}
	if logLevel != "" {
		c.LogLevel = logLevel
	}
}
