package basiccapture

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
	"github.com/shibukawa/basiccapture/transform"
)

// Config represents the basiccapture configuration
type Config struct {
	// Channel is the file number PRINT output is redirected to
	Channel int `yaml:"channel"`

	// SentinelLine is the line number of the injected CLOSE/SYSTEM line
	SentinelLine int `yaml:"sentinel_line"`

	// Separator divides statements on one line. Exactly one character.
	Separator string `yaml:"separator"`

	// MaxLineNumber is the highest line number the target interpreter accepts
	MaxLineNumber int `yaml:"max_line_number"`

	// AutoSentinel moves the terminator above the last program line when they collide.
	// Pointer to distinguish between unset and false.
	AutoSentinel *bool `yaml:"auto_sentinel"`
}

// LoadConfig loads configuration from the specified file.
// A missing file yields the default configuration.
func LoadConfig(configPath string) (*Config, error) {
	_, err := os.Stat(configPath)
	if os.IsNotExist(err) {
		return getDefaultConfig(), nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return ParseConfig(data)
}

// ParseConfig parses YAML configuration, applies defaults and validates the result
func ParseConfig(data []byte) (*Config, error) {
	var config Config

	// Strict mode rejects unknown keys
	err := yaml.UnmarshalWithOptions(data, &config, yaml.Strict())
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyDefaults(&config)

	if err := validateConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// Options converts the configuration into transform options
func (c *Config) Options() transform.Options {
	opts := transform.DefaultOptions()
	opts.Channel = c.Channel
	opts.SentinelLine = c.SentinelLine
	opts.MaxLineNumber = c.MaxLineNumber

	if len(c.Separator) == 1 {
		opts.Separator = c.Separator[0]
	}

	if c.AutoSentinel != nil {
		opts.AutoSentinel = *c.AutoSentinel
	}

	return opts
}

// validateConfig validates the configuration for common errors and inconsistencies
func validateConfig(config *Config) error {
	if len(config.Separator) != 1 {
		return fmt.Errorf("%w: separator must be a single character, got %q", ErrConfigValidation, config.Separator)
	}

	if err := config.Options().Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrConfigValidation, err)
	}

	return nil
}

// boolPtr returns a pointer to a bool value
func boolPtr(b bool) *bool {
	return &b
}

// getDefaultConfig returns the default configuration
func getDefaultConfig() *Config {
	return &Config{
		Channel:       transform.DefaultChannel,
		SentinelLine:  transform.DefaultSentinelLine,
		Separator:     string(rune(transform.DefaultSeparator)),
		MaxLineNumber: transform.MaxGWBasicLine,
		AutoSentinel:  boolPtr(true),
	}
}

// applyDefaults applies default values to missing configuration fields
func applyDefaults(config *Config) {
	defaults := getDefaultConfig()

	if config.Channel == 0 {
		config.Channel = defaults.Channel
	}

	if config.SentinelLine == 0 {
		config.SentinelLine = defaults.SentinelLine
	}

	if config.Separator == "" {
		config.Separator = defaults.Separator
	}

	if config.MaxLineNumber == 0 {
		config.MaxLineNumber = defaults.MaxLineNumber
	}

	if config.AutoSentinel == nil {
		config.AutoSentinel = defaults.AutoSentinel
	}
}
