// Package config provides configuration loading and validation for the
// uimorph converter.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/uimorph/uimorph/pkg/ir"
)

// Sentinel validation errors.
var (
	ErrInvalidStatePattern = errors.New("invalid default state pattern")
	ErrInvalidIndent       = errors.New("indent width must be positive")
	ErrInvalidFramework    = errors.New("invalid default framework")
	ErrInvalidLogLevel     = errors.New("invalid log level")
)

// Default configuration values.
const (
	defaultIndent       = 2
	defaultStatePattern = "local"
	maxIndent           = 8
)

// Config holds all configuration for the converter.
type Config struct {
	Convert  ConvertConfig  `mapstructure:"convert"`
	Mappings MappingsConfig `mapstructure:"mappings"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Server   ServerConfig   `mapstructure:"server"`
}

// ConvertConfig holds conversion defaults.
type ConvertConfig struct {
	// DefaultTarget is the framework assumed for --to when the flag is not
	// given.
	DefaultTarget string `mapstructure:"default_target"`
	// StatePattern is assumed when the source gives no signal.
	StatePattern string `mapstructure:"state_pattern"`
	IndentWidth  int    `mapstructure:"indent_width"`
	// Verify re-parses generated output and checks it reproduces itself.
	Verify bool `mapstructure:"verify"`
}

// MappingsConfig holds mapping registry configuration.
type MappingsConfig struct {
	// ExtraTables lists user mapping tables loaded over the embedded core
	// table, in order, later tables overriding earlier ones.
	ExtraTables []string `mapstructure:"extra_tables"`
}

// LoggingConfig holds logging-specific configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// ServerConfig holds MCP server configuration.
type ServerConfig struct {
	MaxInputBytes int  `mapstructure:"max_input_bytes"`
	Metrics       bool `mapstructure:"metrics"`
}

var validStatePatterns = map[string]bool{
	string(ir.StateLocal):          true,
	string(ir.StateReducer):        true,
	string(ir.StateExternalStore):  true,
	string(ir.StateContextDerived): true,
}

var validLogLevels = map[string]bool{
	"debug": true, "info": true, "warn": true, "error": true,
}

// LoadConfig loads configuration from file and environment variables.
func LoadConfig(configPath string) (*Config, error) {
	viperCfg := viper.New()

	setDefaults(viperCfg)

	if configPath != "" {
		viperCfg.SetConfigFile(configPath)
	} else {
		viperCfg.SetConfigName("uimorph")
		viperCfg.SetConfigType("yaml")
		viperCfg.AddConfigPath(".")
		viperCfg.AddConfigPath("./config")
		viperCfg.AddConfigPath("/etc/uimorph")
	}

	viperCfg.SetEnvPrefix("UIMORPH")
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

	validateErr := validateConfig(&config)
	if validateErr != nil {
		return nil, fmt.Errorf("invalid configuration: %w", validateErr)
	}

	return &config, nil
}

// setDefaults sets default configuration values.
func setDefaults(viperCfg *viper.Viper) {
	// Conversion defaults.
	viperCfg.SetDefault("convert.default_target", string(ir.FrameworkWidgetTree))
	viperCfg.SetDefault("convert.state_pattern", defaultStatePattern)
	viperCfg.SetDefault("convert.indent_width", defaultIndent)
	viperCfg.SetDefault("convert.verify", false)

	// Mapping defaults.
	viperCfg.SetDefault("mappings.extra_tables", []string{})

	// Logging defaults.
	viperCfg.SetDefault("logging.level", "info")
	viperCfg.SetDefault("logging.format", "text")
	viperCfg.SetDefault("logging.output", "stderr")

	// Server defaults.
	viperCfg.SetDefault("server.max_input_bytes", 1<<20)
	viperCfg.SetDefault("server.metrics", true)
}

// validateConfig validates the configuration.
func validateConfig(config *Config) error {
	if !validStatePatterns[config.Convert.StatePattern] {
		return fmt.Errorf("%w: %q", ErrInvalidStatePattern, config.Convert.StatePattern)
	}

	if config.Convert.IndentWidth <= 0 || config.Convert.IndentWidth > maxIndent {
		return fmt.Errorf("%w: %d", ErrInvalidIndent, config.Convert.IndentWidth)
	}

	target := ir.Framework(config.Convert.DefaultTarget)
	if target != ir.FrameworkComponentModel && target != ir.FrameworkWidgetTree {
		return fmt.Errorf("%w: %q", ErrInvalidFramework, config.Convert.DefaultTarget)
	}

	if !validLogLevels[config.Logging.Level] {
		return fmt.Errorf("%w: %q", ErrInvalidLogLevel, config.Logging.Level)
	}

	return nil
}
