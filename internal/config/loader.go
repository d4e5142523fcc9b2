package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/kelseyhightower/envconfig"
)

const (
	// ConfigDir is the default config directory name.
	ConfigDir = ".linkhawk"
	// ConfigFile is the default config file name.
	ConfigFile = "config.json"
)

// ConfigPath returns the path to the config file.
func ConfigPath() (string, error) {
	if explicit := strings.TrimSpace(os.Getenv("LINKHAWK_CONFIG")); explicit != "" {
		if strings.HasPrefix(explicit, "~") {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", err
			}
			return filepath.Join(home, explicit[1:]), nil
		}
		return explicit, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ConfigDir, ConfigFile), nil
}

// Load loads the configuration from file and environment variables.
// Priority: environment > file > defaults. A missing file is not an error;
// an empty bot list is reported at responder construction, not here.
func Load() (*Config, error) {
	cfg := DefaultConfig()

	path, err := ConfigPath()
	if err != nil {
		return cfg, nil // Use defaults if we can't find the config path
	}

	data, err := os.ReadFile(path)
	if err == nil {
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	// Override with environment variables for each group
	envconfig.Process("LINKHAWK_SLACK", &cfg.Slack)
	envconfig.Process("LINKHAWK_QUEUE", &cfg.Queue)
	envconfig.Process("LINKHAWK_WEBHOOK", &cfg.Webhook)
	envconfig.Process("LINKHAWK_KAFKA", &cfg.Kafka)
	envconfig.Process("LINKHAWK_STORE", &cfg.Store)

	// Legacy env var compatibility
	if cfg.Slack.BotToken == "" {
		cfg.Slack.BotToken = os.Getenv("SLACK_BOT_TOKEN")
	}
	if cfg.Slack.AppToken == "" {
		cfg.Slack.AppToken = os.Getenv("SLACK_APP_TOKEN")
	}

	if cfg.Queue.Size <= 0 {
		cfg.Queue.Size = 100
	}
	if cfg.Queue.Workers <= 0 {
		cfg.Queue.Workers = 2
	}

	// Expand ~ in paths
	if strings.HasPrefix(cfg.Store.ReplyLogPath, "~") {
		if home, err := os.UserHomeDir(); err == nil {
			cfg.Store.ReplyLogPath = filepath.Join(home, cfg.Store.ReplyLogPath[1:])
		}
	}

	return cfg, nil
}

// Save writes the configuration to the config file.
func Save(cfg *Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0600)
}
