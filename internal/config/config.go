package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"

	ThemeLight = "light"
	ThemeDark  = "dark"
)

// Config holds the unified application configuration
type Config struct {
	DataDir    string `yaml:"data_dir" mapstructure:"data_dir"`
	Backend    string `yaml:"backend" mapstructure:"backend"`
	StorageKey string `yaml:"storage_key" mapstructure:"storage_key"`
	DateLayout string `yaml:"date_layout" mapstructure:"date_layout"`
	Theme      string `yaml:"theme" mapstructure:"theme"`
	LogLevel   string `yaml:"log_level" mapstructure:"log_level"`
}

// CLIFlags holds parsed CLI flags. Empty values mean "not set".
type CLIFlags struct {
	ConfigPath string
	DataDir    string
	Backend    string
	Theme      string
}

// Load loads configuration with priority: CLI flags > env vars > config file > default
func Load(flags CLIFlags) (*Config, error) {
	defaultDir, err := GetDefaultDataDir()
	if err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetDefault("data_dir", defaultDir)
	v.SetDefault("backend", BackendFile)
	v.SetDefault("storage_key", "Notes")
	v.SetDefault("date_layout", "1/2/2006")
	v.SetDefault("theme", ThemeLight)
	v.SetDefault("log_level", "info")

	v.SetEnvPrefix("STICKIES")
	v.AutomaticEnv()

	configPath := flags.ConfigPath
	if configPath == "" {
		configPath, err = getConfigPath()
	}
	if err == nil {
		v.SetConfigFile(expandPath(configPath))
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("reading config %s: %w", configPath, err)
		}
	}

	cfg := &Config{
		DataDir:    v.GetString("data_dir"),
		Backend:    v.GetString("backend"),
		StorageKey: v.GetString("storage_key"),
		DateLayout: v.GetString("date_layout"),
		Theme:      v.GetString("theme"),
		LogLevel:   v.GetString("log_level"),
	}

	// CLI flags override everything
	if flags.DataDir != "" {
		cfg.DataDir = flags.DataDir
	}
	if flags.Backend != "" {
		cfg.Backend = flags.Backend
	}
	if flags.Theme != "" {
		cfg.Theme = flags.Theme
	}

	cfg.DataDir = expandPath(cfg.DataDir)
	cfg.Backend = strings.ToLower(cfg.Backend)
	cfg.Theme = strings.ToLower(cfg.Theme)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate rejects unknown backends and themes.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendFile, BackendSQLite, BackendMemory:
	default:
		return fmt.Errorf("unknown backend %q (want file, sqlite or memory)", c.Backend)
	}
	switch c.Theme {
	case ThemeLight, ThemeDark:
	default:
		return fmt.Errorf("unknown theme %q (want light or dark)", c.Theme)
	}
	if c.StorageKey == "" {
		return errors.New("storage_key must not be empty")
	}
	return nil
}

// GetDefaultDataDir returns the default data directory path
func GetDefaultDataDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".local", "share", "stickies"), nil
}

func getConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".config", "stickies", "config.yaml"), nil
}

// EnsureDataDir creates the data directory if missing
func (c *Config) EnsureDataDir() error {
	if c.Backend == BackendMemory {
		return nil
	}
	return os.MkdirAll(c.DataDir, 0755)
}

// EnsureConfigFile creates the config file with defaults if it doesn't exist
func EnsureConfigFile() error {
	configPath, err := getConfigPath()
	if err != nil {
		return err
	}

	if _, err := os.Stat(configPath); err == nil {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return err
	}

	defaultDir, err := GetDefaultDataDir()
	if err != nil {
		return err
	}

	settings := Config{
		DataDir:    defaultDir,
		Backend:    BackendFile,
		StorageKey: "Notes",
		DateLayout: "1/2/2006",
		Theme:      ThemeLight,
		LogLevel:   "info",
	}

	data, err := yaml.Marshal(settings)
	if err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0644)
}

func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(homeDir, path[2:])
	}
	return path
}
