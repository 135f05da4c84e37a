package shared

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Database DatabaseConfig `toml:"database"`
	Library  LibraryConfig  `toml:"library"`
	Scan     ScanConfig     `toml:"scan"`
	Clients  ClientsConfig  `toml:"clients"`
	Server   ServerConfig   `toml:"server"`
	Log      LogConfig      `toml:"log"`
}

// DatabaseConfig contains catalog database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// LibraryConfig locates the music collection and controls how it is ordered.
type LibraryConfig struct {
	MusicDir string `toml:"music_dir"`
	Locale   string `toml:"locale"`
}

// ScanConfig controls the filesystem scanner.
type ScanConfig struct {
	Exclude        []string `toml:"exclude"`
	Workers        int      `toml:"workers"`
	FilesPerSecond float64  `toml:"files_per_second"`
	DebounceMS     int      `toml:"debounce_ms"`
}

// ClientsConfig bounds the client registry.
type ClientsConfig struct {
	MaxConnections int `toml:"max_connections"`
}

// ServerConfig contains HTTP API settings.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// LogConfig contains logger settings.
type LogConfig struct {
	Level string `toml:"level"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s: %w", path, err)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks values that would otherwise fail deep inside the scanner or registry.
func (c *Config) Validate() error {
	if c.Database.Path == "" {
		return fmt.Errorf("%w: database.path is empty", ErrInvalidConfig)
	}
	if c.Scan.Workers < 1 {
		return fmt.Errorf("%w: scan.workers must be at least 1", ErrInvalidConfig)
	}
	if c.Scan.FilesPerSecond < 0 {
		return fmt.Errorf("%w: scan.files_per_second must not be negative", ErrInvalidConfig)
	}
	if c.Clients.MaxConnections < 1 {
		return fmt.Errorf("%w: clients.max_connections must be at least 1", ErrInvalidConfig)
	}
	return nil
}

// MusicDir returns the configured music directory with a leading "~" expanded.
func (c *Config) MusicDir() (string, error) {
	dir := c.Library.MusicDir
	if dir == "" {
		return "", ErrMusicDirMissing
	}

	if dir == "~" || strings.HasPrefix(dir, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		dir = filepath.Join(home, strings.TrimPrefix(dir, "~"))
	}

	return filepath.Clean(dir), nil
}
