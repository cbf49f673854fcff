// Package config provides hierarchical configuration management.
// Priority: defaults < system < user < project < env
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all tablens configuration.
type Config struct {
	Version int `yaml:"version"`

	Report    ReportConfig    `yaml:"report"`
	Server    ServerConfig    `yaml:"server"`
	Cache     CacheConfig     `yaml:"cache"`
	Logging   LoggingConfig   `yaml:"logging"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// ReportConfig controls report generation.
type ReportConfig struct {
	Theme                string  `yaml:"theme"`                 // light | dark
	CorrelationThreshold float64 `yaml:"correlation_threshold"` // significant-pair cutoff
	PreviewRows          int     `yaml:"preview_rows"`          // head/tail rows in the overview
}

// ServerConfig for the dashboard HTTP server.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// CacheConfig for the rendered-report cache.
type CacheConfig struct {
	Backend string        `yaml:"backend"` // memory | redis
	TTL     time.Duration `yaml:"ttl"`
	Redis   RedisConfig   `yaml:"redis"`
}

// RedisConfig for the Redis cache backend.
type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	Database int    `yaml:"database"`
}

// LoggingConfig for slog setup.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug | info | warn | error
	Format string `yaml:"format"` // text | json
}

// TelemetryConfig for optional trace export.
type TelemetryConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Endpoint string `yaml:"endpoint"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Version: 1,
		Report: ReportConfig{
			Theme:                "light",
			CorrelationThreshold: 0.5,
			PreviewRows:          5,
		},
		Server: ServerConfig{
			Host: "localhost",
			Port: 8080,
		},
		Cache: CacheConfig{
			Backend: "memory",
			TTL:     15 * time.Minute,
			Redis: RedisConfig{
				Address: "localhost:6379",
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Telemetry: TelemetryConfig{
			Enabled:  false,
			Endpoint: "localhost:4317",
		},
	}
}

// Manager handles configuration loading and merging.
type Manager struct {
	mu     sync.RWMutex
	config *Config
	paths  []string // paths that were loaded
}

// NewManager creates a new configuration manager.
func NewManager() *Manager {
	return &Manager{config: Default()}
}

// Load loads configuration from all sources in priority order.
func (m *Manager) Load() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.config = Default()

	for _, path := range m.configPaths() {
		if err := m.loadFile(path); err != nil {
			if !os.IsNotExist(err) {
				return err
			}
		} else {
			m.paths = append(m.paths, path)
		}
	}

	m.loadEnv()
	return nil
}

// configPaths returns config file paths in priority order.
func (m *Manager) configPaths() []string {
	var paths []string

	if runtime.GOOS != "windows" {
		paths = append(paths, "/etc/tablens/config.yaml")
	}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".tablens", "config.yaml"))
	}
	if cwd, err := os.Getwd(); err == nil {
		paths = append(paths, filepath.Join(cwd, ".tablens.yaml"))
	}

	return paths
}

// loadFile loads a single config file and merges it.
func (m *Manager) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var partial Config
	if err := yaml.Unmarshal(data, &partial); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}

	m.merge(&partial)
	return nil
}

// merge merges non-zero values from src into config.
func (m *Manager) merge(src *Config) {
	if src.Report.Theme != "" {
		m.config.Report.Theme = src.Report.Theme
	}
	if src.Report.CorrelationThreshold != 0 {
		m.config.Report.CorrelationThreshold = src.Report.CorrelationThreshold
	}
	if src.Report.PreviewRows != 0 {
		m.config.Report.PreviewRows = src.Report.PreviewRows
	}

	if src.Server.Host != "" {
		m.config.Server.Host = src.Server.Host
	}
	if src.Server.Port != 0 {
		m.config.Server.Port = src.Server.Port
	}

	if src.Cache.Backend != "" {
		m.config.Cache.Backend = src.Cache.Backend
	}
	if src.Cache.TTL != 0 {
		m.config.Cache.TTL = src.Cache.TTL
	}
	if src.Cache.Redis.Address != "" {
		m.config.Cache.Redis = src.Cache.Redis
	}

	if src.Logging.Level != "" {
		m.config.Logging.Level = src.Logging.Level
	}
	if src.Logging.Format != "" {
		m.config.Logging.Format = src.Logging.Format
	}

	if src.Telemetry.Enabled {
		m.config.Telemetry.Enabled = true
	}
	if src.Telemetry.Endpoint != "" {
		m.config.Telemetry.Endpoint = src.Telemetry.Endpoint
	}
}

// loadEnv loads configuration from environment variables.
func (m *Manager) loadEnv() {
	if v := os.Getenv("TABLENS_THEME"); v != "" {
		m.config.Report.Theme = v
	}
	if v := os.Getenv("TABLENS_PORT"); v != "" {
		var port int
		if _, err := fmt.Sscanf(v, "%d", &port); err == nil {
			m.config.Server.Port = port
		}
	}
	if v := os.Getenv("TABLENS_CACHE_BACKEND"); v != "" {
		m.config.Cache.Backend = v
	}
	if v := os.Getenv("TABLENS_REDIS_ADDR"); v != "" {
		m.config.Cache.Redis.Address = v
	}
	if v := os.Getenv("TABLENS_LOG_LEVEL"); v != "" {
		m.config.Logging.Level = v
	}
	if v := os.Getenv("TABLENS_OTLP_ENDPOINT"); v != "" {
		m.config.Telemetry.Endpoint = v
		m.config.Telemetry.Enabled = true
	}
}

// Get returns the current configuration.
func (m *Manager) Get() *Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.config
}

// GetPaths returns the paths that were loaded.
func (m *Manager) GetPaths() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.paths
}

// Save writes the current config to the user config file.
func (m *Manager) Save() error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	home, err := os.UserHomeDir()
	if err != nil {
		return err
	}

	configDir := filepath.Join(home, ".tablens")
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(m.config)
	if err != nil {
		return err
	}

	return os.WriteFile(filepath.Join(configDir, "config.yaml"), data, 0644)
}

// Global instance
var (
	globalManager *Manager
	globalOnce    sync.Once
)

// Global returns the global configuration manager.
func Global() *Manager {
	globalOnce.Do(func() {
		globalManager = NewManager()
		globalManager.Load()
	})
	return globalManager
}
