// Package config provides configuration loading and validation for the
// pypack CLI.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Sentinel validation errors.
var (
	ErrInvalidFormat  = errors.New("invalid pack format")
	ErrInvalidWorkers = errors.New("workers must not be negative")
	ErrNoInputs       = errors.New("at least one entry file or root is required")
)

// Default configuration values.
const (
	defaultFormat = "bundle"
)

// Config holds all configuration for a pack run.
type Config struct {
	Pack    PackConfig    `mapstructure:"pack"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// PackConfig holds the pack-specific configuration.
type PackConfig struct {
	// Roots are the entry files and directories to scan.
	Roots []string `mapstructure:"roots"`
	// LibRoots are additional library roots scanned for transitive
	// dependencies.
	LibRoots []string `mapstructure:"lib_roots"`
	// SearchPath lists supplementary directories consulted when lookups
	// inside the scanned roots fail, in priority order.
	SearchPath []string `mapstructure:"search_path"`
	// Externals names modules the deployment host already provides, on
	// top of the built-in standard library registry.
	Externals []string `mapstructure:"externals"`

	Format     string `mapstructure:"format"`
	Output     string `mapstructure:"output"`
	Compress   bool   `mapstructure:"compress"`
	Minify     bool   `mapstructure:"minify"`
	Obfuscate  bool   `mapstructure:"obfuscate"`
	StrictLang bool   `mapstructure:"strict_lang"`
	Workers    int    `mapstructure:"workers"`
}

// LoggingConfig holds logging-specific configuration.
type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

// Load reads configuration from file and environment variables.
func Load(configPath string) (*Config, error) {
	viperCfg := viper.New()

	setDefaults(viperCfg)

	if configPath != "" {
		viperCfg.SetConfigFile(configPath)
	} else {
		viperCfg.SetConfigName("pypack")
		viperCfg.SetConfigType("yaml")
		viperCfg.AddConfigPath(".")
	}

	viperCfg.SetEnvPrefix("PYPACK")
	viperCfg.AutomaticEnv()
	viperCfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	readErr := viperCfg.ReadInConfig()
	if readErr != nil {
		var notFoundErr viper.ConfigFileNotFoundError
		if !errors.As(readErr, &notFoundErr) {
			return nil, fmt.Errorf("failed to read config file: %w", readErr)
		}
	}

	var config Config

	unmarshalErr := viperCfg.Unmarshal(&config)
	if unmarshalErr != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", unmarshalErr)
	}

	validateErr := Validate(&config)
	if validateErr != nil {
		return nil, fmt.Errorf("invalid configuration: %w", validateErr)
	}

	return &config, nil
}

// setDefaults sets default configuration values.
func setDefaults(viperCfg *viper.Viper) {
	viperCfg.SetDefault("pack.format", defaultFormat)
	viperCfg.SetDefault("pack.compress", false)
	viperCfg.SetDefault("pack.minify", false)
	viperCfg.SetDefault("pack.obfuscate", false)
	viperCfg.SetDefault("pack.strict_lang", false)
	viperCfg.SetDefault("pack.workers", 0)

	viperCfg.SetDefault("logging.level", "info")
}

// Validate checks a configuration for consistency. Roots may be empty at
// load time; commands that need inputs enforce ErrNoInputs themselves.
func Validate(config *Config) error {
	switch config.Pack.Format {
	case "bundle", "json", "yaml":
	default:
		return fmt.Errorf("%w: %q", ErrInvalidFormat, config.Pack.Format)
	}

	if config.Pack.Workers < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidWorkers, config.Pack.Workers)
	}

	return nil
}
