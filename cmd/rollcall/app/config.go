package app

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/agentstation/rollcall/pkg/constants"
	"github.com/agentstation/rollcall/pkg/errors"
)

// envPrefix prefixes every rollcall environment variable.
const envPrefix = "ROLLCALL"

// Config holds the application configuration loaded from various sources
// including config files, environment variables, and .env files.
type Config struct {
	// Global flags
	Verbose bool
	Quiet   bool
	NoColor bool
	Format  string

	// Config file
	ConfigFile string

	// Resolution
	Threshold   float64
	Roster      string
	PeriodGlob  string
	Strict      bool
	Provenance  bool
	Concurrency int

	// Run history
	Database string

	// Logging configuration
	LogLevel  string
	LogFormat string
	LogOutput string
}

// flagValues receives the persistent flags before they are applied to
// the loaded configuration.
type flagValues struct {
	configFile string
	verbose    bool
	quiet      bool
	noColor    bool
	format     string
	logLevel   string
	roster     string
	database   string
	threshold  float64
}

// LoadConfig loads configuration from all sources in order of precedence:
// 1. Command-line flags (applied later by UpdateFromFlags)
// 2. Environment variables (ROLLCALL_THRESHOLD, ROLLCALL_ROSTER, ...)
// 3. .env files
// 4. Config file (./.rollcall.yaml or ~/.rollcall.yaml, or configFile)
// 5. Defaults
func LoadConfig(configFile string) (*Config, error) {
	loadEnvFiles()

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("no-color", envPrefix+"_NO_COLOR", "NO_COLOR")

	v.SetDefault("threshold", constants.DefaultSimilarityThreshold)
	v.SetDefault("periods", constants.DefaultPeriodGlob)
	v.SetDefault("provenance", true)
	v.SetDefault("concurrency", constants.MaxConcurrentLoads)

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.NewConfigError("viper", "cannot read "+configFile, err)
		}
	} else {
		v.SetConfigType("yaml")
		v.SetConfigName(constants.DefaultConfigName)
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		// Read config file (ignore error if not found)
		_ = v.ReadInConfig()
	}

	config := &Config{
		Verbose: v.GetBool("verbose"),
		Quiet:   v.GetBool("quiet"),
		NoColor: v.GetBool("no-color"),
		Format:  v.GetString("format"),

		ConfigFile: v.ConfigFileUsed(),

		Threshold:   v.GetFloat64("threshold"),
		Roster:      v.GetString("roster"),
		PeriodGlob:  v.GetString("periods"),
		Strict:      v.GetBool("strict"),
		Provenance:  v.GetBool("provenance"),
		Concurrency: v.GetInt("concurrency"),

		Database: v.GetString("database"),

		LogLevel:  getEnvOrDefault("LOG_LEVEL", v.GetString("log_level")),
		LogFormat: getEnvOrDefault("LOG_FORMAT", "auto"),
		LogOutput: getEnvOrDefault("LOG_OUTPUT", "stderr"),
	}

	return config, nil
}

// UpdateFromFlags applies the flags the user actually set, so flag values
// take precedence over config file and env vars without erasing them.
func (c *Config) UpdateFromFlags(fs *pflag.FlagSet, f *flagValues) {
	if fs.Changed("verbose") {
		c.Verbose = f.verbose
	}
	if fs.Changed("quiet") {
		c.Quiet = f.quiet
	}
	if fs.Changed("no-color") {
		c.NoColor = f.noColor
	}
	if fs.Changed("format") {
		c.Format = f.format
	}
	if fs.Changed("log-level") {
		c.LogLevel = f.logLevel
	}
	if fs.Changed("roster") {
		c.Roster = f.roster
	}
	if fs.Changed("db") {
		c.Database = f.database
	}
	if fs.Changed("threshold") {
		c.Threshold = f.threshold
	}
}

// loadEnvFiles loads environment variables from .env files.
// .env.local is read first so its values win; godotenv never overrides a
// variable that is already set.
func loadEnvFiles() {
	for _, envFile := range []string{".env.local", ".env"} {
		_ = godotenv.Load(envFile)
	}
}

// getEnvOrDefault returns the environment variable value or the default if not set.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
