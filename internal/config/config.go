// Package config loads the spotcheck configuration once, from defaults, a
// config file, .env files and SPOTCHECK_ environment variables, into an
// immutable Config that is passed to the client and commands.
package config

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/bolinasrbc/spotcheck"
	"github.com/bolinasrbc/spotcheck/pkg/constants"
	"github.com/bolinasrbc/spotcheck/pkg/errors"
	"github.com/bolinasrbc/spotcheck/pkg/members"
	"github.com/bolinasrbc/spotcheck/pkg/sources"
)

// Config keys.
const (
	KeyLedger          = "ledger"
	KeyContacts        = "contacts"
	KeyApplicants      = "applicants"
	KeyFees            = "fees"
	KeyFeesJSON        = "fees_json"
	KeyDetail          = "detail"
	KeyReportStatus    = "report_status"
	KeyTitle           = "title"
	KeyApplicantGroup  = "groups.applicant"
	KeyDockGroup       = "groups.dock"
	KeyKayakGroup      = "groups.kayak"
	KeyMooringGroup    = "groups.mooring"
	KeyScheduleDues    = "schedule.dues"
	KeyScheduleDock    = "schedule.dock"
	KeyScheduleKayak   = "schedule.kayak"
	KeyLogLevel        = "log_level"
	KeyLogFormat       = "log_format"
	KeyConfigFile      = "config"
	keyEnvFileOverride = ".env.local"
)

// Config is the resolved configuration. It is built once by Load and
// never modified afterwards.
type Config struct {
	sources.Paths `mapstructure:",squash"`

	FeesJSON     string `mapstructure:"fees_json"`
	Detail       bool   `mapstructure:"detail"`
	ReportStatus bool   `mapstructure:"report_status"`
	Title        string `mapstructure:"title"`

	Groups   Groups   `mapstructure:"groups"`
	Schedule Schedule `mapstructure:"schedule"`

	LogLevel  string `mapstructure:"log_level" validate:"omitempty,oneof=trace debug info warn error"`
	LogFormat string `mapstructure:"log_format" validate:"omitempty,oneof=auto json console text"`

	// File is the config file that was read, empty when none was found.
	File string `mapstructure:"-"`
}

// Groups names the contacts groups the checks rely on.
type Groups struct {
	Applicant string `mapstructure:"applicant" validate:"required"`
	Dock      string `mapstructure:"dock"`
	Kayak     string `mapstructure:"kayak"`
	Mooring   string `mapstructure:"mooring"`
}

// Schedule is the club's standard yearly charge per item, in dollars.
type Schedule struct {
	Dues  int64 `mapstructure:"dues" validate:"gte=0"`
	Dock  int64 `mapstructure:"dock" validate:"gte=0"`
	Kayak int64 `mapstructure:"kayak" validate:"gte=0"`
}

// Standard returns the scheduled amount for c. Moorings are priced
// individually and have none.
func (s Schedule) Standard(c members.Category) (members.Amount, bool) {
	switch c {
	case members.Dock:
		return members.NewAmount(s.Dock), true
	case members.Kayak:
		return members.NewAmount(s.Kayak), true
	}
	return members.Amount{}, false
}

// SetDefaults registers every key with its default value on v.
func SetDefaults(v *viper.Viper) {
	paths := sources.DefaultPaths()
	v.SetDefault(KeyLedger, paths.Ledger)
	v.SetDefault(KeyContacts, paths.Contacts)
	v.SetDefault(KeyApplicants, paths.Applicants)
	v.SetDefault(KeyFees, paths.Fees)
	v.SetDefault(KeyFeesJSON, constants.DefaultFeesJSONPath)
	v.SetDefault(KeyDetail, false)
	v.SetDefault(KeyReportStatus, true)
	v.SetDefault(KeyTitle, "")
	v.SetDefault(KeyApplicantGroup, constants.ApplicantGroup)
	v.SetDefault(KeyDockGroup, constants.DockGroup)
	v.SetDefault(KeyKayakGroup, constants.KayakGroup)
	v.SetDefault(KeyMooringGroup, constants.MooringGroup)
	v.SetDefault(KeyScheduleDues, constants.YearlyDues)
	v.SetDefault(KeyScheduleDock, constants.DockFee)
	v.SetDefault(KeyScheduleKayak, constants.KayakFee)
	v.SetDefault(KeyLogLevel, "")
	v.SetDefault(KeyLogFormat, "auto")
}

// LoadEnvFiles loads .env and then .env.local from the working directory.
// Variables already set in the environment are left alone.
func LoadEnvFiles() {
	for _, file := range []string{".env", keyEnvFileOverride} {
		_ = godotenv.Load(file)
	}
}

// Load resolves the configuration held by v. Precedence, highest first:
// flags bound to v, SPOTCHECK_ environment variables, the config file,
// defaults. A config file named by the "config" key must exist; the
// default search locations may all be empty.
func Load(v *viper.Viper) (*Config, error) {
	SetDefaults(v)

	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	file := v.GetString(KeyConfigFile)
	if file != "" {
		if _, err := os.Stat(file); err != nil {
			return nil, errors.NewConfigError("file", "reading config", errors.WrapIO("open", file, err))
		}
		v.SetConfigFile(file)
	} else {
		v.SetConfigName(constants.ConfigFileName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
			v.AddConfigPath(filepath.Join(home, ".config", constants.AppName))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !stderrors.As(err, &notFound) {
			return nil, errors.NewConfigError("file", "reading config", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.NewConfigError("decode", "decoding config", err)
	}
	cfg.File = v.ConfigFileUsed()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns the configuration with nothing but defaults applied.
func Default() *Config {
	v := viper.New()
	SetDefaults(v)
	cfg := &Config{}
	_ = v.Unmarshal(cfg)
	return cfg
}

// Validate checks the configured values.
func (c *Config) Validate() error {
	if err := members.Validate(c); err != nil {
		return errors.NewConfigError("validate", err.Error(), err)
	}
	return nil
}

// FeeGroups maps each fee category to its configured contacts group.
// Categories with an empty group are left out.
func (c *Config) FeeGroups() map[members.Category]string {
	groups := make(map[members.Category]string)
	for cat, g := range map[members.Category]string{
		members.Dock:    c.Groups.Dock,
		members.Kayak:   c.Groups.Kayak,
		members.Mooring: c.Groups.Mooring,
	} {
		if g != "" {
			groups[cat] = g
		}
	}
	return groups
}

// ClientOptions translates the configuration into client options.
func (c *Config) ClientOptions() []spotcheck.Option {
	opts := []spotcheck.Option{
		spotcheck.WithPaths(c.Paths),
		spotcheck.WithDetail(c.Detail),
		spotcheck.WithStatusListing(c.ReportStatus),
		spotcheck.WithApplicantGroup(c.Groups.Applicant),
	}
	if groups := c.FeeGroups(); len(groups) > 0 {
		opts = append(opts, spotcheck.WithFeeGroups(groups))
	}
	return opts
}
