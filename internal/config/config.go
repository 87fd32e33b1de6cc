// Package config loads the bot configuration from a YAML file.
package config

import (
	"fmt"
	"os"
	"regexp"
	"strconv"

	"gopkg.in/yaml.v3"
)

// snowflakePattern matches a plausible Discord ID.
var snowflakePattern = regexp.MustCompile(`^[0-9]{15,21}$`)

// Config holds the bot's runtime configuration.
type Config struct {
	// Token is the Discord bot token. Required.
	Token string `yaml:"token"`
	// Owners lists the Discord user IDs allowed to administer the bot.
	Owners []int64 `yaml:"owners"`
	// Database is the DSN of the settings database. Required.
	Database string `yaml:"database"`
	// DevGuild, when set, scopes command registration to one guild for
	// development instead of registering globally.
	DevGuild int64 `yaml:"dev_guild"`
	// LogFile is the rotating log file path. Empty disables file logging.
	LogFile string `yaml:"log_file"`
	// StatusAddr is the listen address of the status HTTP endpoint. Empty
	// disables it.
	StatusAddr string `yaml:"status_addr"`
}

// Load reads and validates a configuration file.
func Load(path string) (*Config, error) {
	raw, errRead := os.ReadFile(path)
	if errRead != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, errRead)
	}

	var cfg Config
	if errUnmarshal := yaml.Unmarshal(raw, &cfg); errUnmarshal != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, errUnmarshal)
	}
	if errValidate := cfg.Validate(); errValidate != nil {
		return nil, errValidate
	}
	return &cfg, nil
}

// Validate checks required fields and ID shapes.
func (c *Config) Validate() error {
	if c.Token == "" {
		return fmt.Errorf("config: token is required")
	}
	if c.Database == "" {
		return fmt.Errorf("config: database is required")
	}
	for _, owner := range c.Owners {
		if !validSnowflake(owner) {
			return fmt.Errorf("config: owners - %d isn't a valid Discord ID", owner)
		}
	}
	if c.DevGuild != 0 && !validSnowflake(c.DevGuild) {
		return fmt.Errorf("config: dev_guild - %d isn't a valid Discord ID", c.DevGuild)
	}
	return nil
}

func validSnowflake(id int64) bool {
	return snowflakePattern.MatchString(strconv.FormatInt(id, 10))
}
