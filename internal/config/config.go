package config

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

// Hostname derivation policies. PolicyName uses the container name as the
// only hostname candidate; PolicyRich additionally considers the container's
// configured hostname and its network aliases.
const (
	PolicyName = "name"
	PolicyRich = "rich"
)

// HostsFileConfig holds configuration for the managed hosts file.
type HostsFileConfig struct {
	Path string `mapstructure:"path"`
}

// DockerConfig holds docker daemon connection configuration.
type DockerConfig struct {
	Host string `mapstructure:"host"`
}

// FilterConfig holds label-based container inclusion filtering.
type FilterConfig struct {
	Enable     bool   `mapstructure:"enable"`
	LabelKey   string `mapstructure:"label_key"`
	LabelValue string `mapstructure:"label_value"`
}

// HostnamesConfig selects the hostname derivation policy.
type HostnamesConfig struct {
	Policy string `mapstructure:"policy"`
}

// LoggingConfig holds the logging-related configuration.
type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

// Config is the top-level configuration struct.
type Config struct {
	HostsFile HostsFileConfig `mapstructure:"hostsfile"`
	Docker    DockerConfig    `mapstructure:"docker"`
	Filter    FilterConfig    `mapstructure:"filter"`
	Hostnames HostnamesConfig `mapstructure:"hostnames"`
	Logging   LoggingConfig   `mapstructure:"log"`
}

// InitConfig performs the initial configuration: setting defaults, specifying the config file, and reading it.
func InitConfig() error {
	viper.SetDefault("hostsfile.path", "/app/docker-hosts")
	viper.SetDefault("docker.host", "")
	viper.SetDefault("filter.enable", false)
	viper.SetDefault("filter.label_key", "hoster.enable")
	viper.SetDefault("filter.label_value", "true")
	viper.SetDefault("hostnames.policy", PolicyName)
	viper.SetDefault("log.level", "INFO")

	// Specify the config file details.
	viper.SetConfigName("config") // Looks for config.yaml
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".") // current directory

	// Read the config file if available.
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
		// If the file is not found, just continue with defaults and env vars.
	}

	// Enable automatic environment variable binding.
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	return nil
}

// Load unmarshals the configuration into the Config struct and validates it.
func Load() (*Config, error) {
	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// Validate fails fast on configuration the core cannot be constructed with.
func (c *Config) Validate() error {
	if c.HostsFile.Path == "" {
		return fmt.Errorf("hostsfile.path must not be empty")
	}
	switch c.Hostnames.Policy {
	case PolicyName, PolicyRich:
	default:
		return fmt.Errorf("invalid hostnames.policy %q: must be %q or %q", c.Hostnames.Policy, PolicyName, PolicyRich)
	}
	if c.Filter.Enable && c.Filter.LabelKey == "" {
		return fmt.Errorf("filter.label_key must not be empty when filtering is enabled")
	}
	if _, err := zerolog.ParseLevel(strings.ToLower(c.Logging.Level)); err != nil {
		return fmt.Errorf("invalid log.level %q: %w", c.Logging.Level, err)
	}
	return nil
}
