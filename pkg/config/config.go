package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed config.toml.sample
var configTemplate string

// Defaults applied when the config file is missing or leaves a field unset.
const (
	DefaultServerURL   = "http://localhost:8000"
	DefaultSearchLimit = 15
)

var (
	DefaultTimeout       = Duration{30 * time.Second}
	DefaultSearchDelay   = Duration{600 * time.Millisecond}
	DefaultStatsInterval = Duration{30 * time.Second}
)

// Config holds client settings for talking to the remote document service.
type Config struct {
	// ServerURL is the base URL of the remote search/index API.
	ServerURL string `toml:"server_url"`

	// Timeout bounds every individual HTTP call.
	Timeout Duration `toml:"timeout"`

	// SearchLimit is the maximum number of results requested per search.
	SearchLimit int `toml:"search_limit"`

	// SearchDelay is the fixed pacing delay applied before each search
	// request is issued. It smooths rapid repeated submissions and is
	// intentional UX pacing, not a network artifact.
	SearchDelay Duration `toml:"search_delay"`

	// StatsInterval is how often the stats poller refreshes system metrics.
	StatsInterval Duration `toml:"stats_interval"`

	// DataDir is where local state (history database) lives.
	DataDir string `toml:"data_dir"`
}

type Duration struct {
	time.Duration
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

func GetDefaultConfig() (*Config, error) {
	dataDir, err := GetDefaultDataDir()
	if err != nil {
		return nil, fmt.Errorf("getting default data directory: %w", err)
	}
	return &Config{
		ServerURL:     DefaultServerURL,
		Timeout:       DefaultTimeout,
		SearchLimit:   DefaultSearchLimit,
		SearchDelay:   DefaultSearchDelay,
		StatsInterval: DefaultStatsInterval,
		DataDir:       dataDir,
	}, nil
}

func LoadConfig(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return GetDefaultConfig()
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if config.ServerURL == "" {
		config.ServerURL = DefaultServerURL
	}
	config.ServerURL = strings.TrimRight(config.ServerURL, "/")

	if config.Timeout.Duration == 0 {
		config.Timeout = DefaultTimeout
	}
	if config.SearchLimit <= 0 {
		config.SearchLimit = DefaultSearchLimit
	}
	if config.SearchDelay.Duration <= 0 {
		config.SearchDelay = DefaultSearchDelay
	}
	if config.StatsInterval.Duration == 0 {
		config.StatsInterval = DefaultStatsInterval
	}
	if config.DataDir == "" {
		dataDir, err := GetDefaultDataDir()
		if err != nil {
			return nil, fmt.Errorf("getting default data directory: %w", err)
		}
		config.DataDir = dataDir
	}

	return &config, nil
}

func (c *Config) SaveConfig(configPath string) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	return os.WriteFile(configPath, data, 0644)
}

func (c *Config) SaveTemplateConfig(configPath string) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	template, err := c.generateConfigTemplate()
	if err != nil {
		return fmt.Errorf("generating config template: %w", err)
	}
	return os.WriteFile(configPath, []byte(template), 0644)
}

func (c *Config) generateConfigTemplate() (string, error) {
	dataDir := c.DataDir
	if dataDir == "" {
		var err error
		dataDir, err = GetDefaultDataDir()
		if err != nil {
			return "", fmt.Errorf("getting default data directory: %w", err)
		}
	}

	// Replace the placeholder data_dir with the actual path
	template := strings.Replace(configTemplate, "/home/user/.local/share/docsight", dataDir, 1)
	return template, nil
}

// HistoryDBPath returns the path of the local history database.
func (c *Config) HistoryDBPath() string {
	return filepath.Join(c.DataDir, "docsight.db")
}

// GetDefaultDataDir returns the default directory for local state.
func GetDefaultDataDir() (string, error) {
	// Use XDG_DATA_HOME if set, otherwise use ~/.local/share
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("getting user home directory: %w", err)
		}
		dataDir = filepath.Join(homeDir, ".local", "share")
	}

	docsightDir := filepath.Join(dataDir, "docsight")

	if err := os.MkdirAll(docsightDir, 0755); err != nil {
		return "", fmt.Errorf("creating data directory %s: %w", docsightDir, err)
	}

	return docsightDir, nil
}

// GetConfigDir returns the configuration directory for docsight.
func GetConfigDir() (string, error) {
	// Use XDG_CONFIG_HOME if set, otherwise use ~/.config
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("getting user home directory: %w", err)
		}
		configDir = filepath.Join(homeDir, ".config")
	}

	docsightConfigDir := filepath.Join(configDir, "docsight")

	if err := os.MkdirAll(docsightConfigDir, 0755); err != nil {
		return "", fmt.Errorf("creating config directory %s: %w", docsightConfigDir, err)
	}

	return docsightConfigDir, nil
}

// GetDefaultConfigPath returns the default configuration file path.
func GetDefaultConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.toml"), nil
}
