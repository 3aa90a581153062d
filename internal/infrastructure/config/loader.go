package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/spf13/viper"
)

// Manager handles configuration loading, watching, and reloading.
type Manager struct {
	config    *Config
	viper     *viper.Viper
	dir       string
	mu        sync.RWMutex
	callbacks []func(*Config)
	watching  bool
}

// NewManager creates a manager reading from the XDG config directory.
func NewManager() (*Manager, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return nil, fmt.Errorf("failed to determine config directory: %w\nCheck XDG_CONFIG_HOME environment variable or HOME directory", err)
	}
	return NewManagerAt(configDir)
}

// NewManagerAt creates a manager reading config.toml from dir.
func NewManagerAt(dir string) (*Manager, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(dir)

	// COMPOSER_HOST_LISTEN_ADDR, COMPOSER_DRAG_ACTIVATION_DELAY_MS, ...
	v.SetEnvPrefix("COMPOSER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.BindEnv("logging.level", "COMPOSER_LOG_LEVEL"); err != nil {
		return nil, fmt.Errorf("failed to bind COMPOSER_LOG_LEVEL: %w", err)
	}
	if err := v.BindEnv("logging.format", "COMPOSER_LOG_FORMAT"); err != nil {
		return nil, fmt.Errorf("failed to bind COMPOSER_LOG_FORMAT: %w", err)
	}

	return &Manager{
		viper:     v,
		dir:       dir,
		callbacks: make([]func(*Config), 0),
	}, nil
}

// Load reads the config file, creating a default one if none exists, then
// applies environment overrides, normalization and validation.
func (m *Manager) Load() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.setDefaults()

	if err := m.readConfigFile(); err != nil {
		return err
	}

	config, err := m.unmarshalConfig()
	if err != nil {
		return err
	}
	if err := finalize(config); err != nil {
		return err
	}

	m.config = config
	return nil
}

func (m *Manager) readConfigFile() error {
	err := m.viper.ReadInConfig()
	if err == nil {
		return nil
	}

	var notFound viper.ConfigFileNotFoundError
	if !errors.As(err, &notFound) {
		configFile := m.viper.ConfigFileUsed()
		if configFile == "" {
			configFile = filepath.Join(m.dir, configName)
		}
		return fmt.Errorf("failed to read config file at %s: %w\nCheck the file format (must be valid TOML) and permissions", configFile, err)
	}

	if createErr := m.createDefaultConfig(); createErr != nil {
		return fmt.Errorf(
			"failed to create default config at %s: %w\nTry creating the directory manually or check permissions",
			m.dir,
			createErr,
		)
	}
	if rereadErr := m.viper.ReadInConfig(); rereadErr != nil {
		return fmt.Errorf("failed to read newly created config file: %w", rereadErr)
	}
	return nil
}

func (m *Manager) unmarshalConfig() (*Config, error) {
	config := &Config{}
	if err := m.viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf(
			"failed to parse config file at %s: %w\nCheck for syntax errors, invalid values, or type mismatches",
			m.viper.ConfigFileUsed(),
			err,
		)
	}
	return config, nil
}

// finalize fills derived paths, normalizes and validates config.
func finalize(config *Config) error {
	if config.Journal.Path == "" {
		path, err := GetJournalFile()
		if err != nil {
			return fmt.Errorf("failed to get journal path: %w", err)
		}
		config.Journal.Path = path
	}

	normalizeConfig(config)

	if err := validateConfig(config); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}
	return nil
}

func normalizeConfig(config *Config) {
	config.Logging.Level = strings.ToLower(strings.TrimSpace(config.Logging.Level))
	if config.Logging.Level == "" {
		config.Logging.Level = defaultLogLevel
	}
	if config.Logging.Level == "warning" {
		config.Logging.Level = "warn"
	}

	switch strings.ToLower(strings.TrimSpace(config.Logging.Format)) {
	case "json":
		config.Logging.Format = "json"
	default:
		config.Logging.Format = defaultLogFormat
	}

	config.Host.ListenAddr = strings.TrimSpace(config.Host.ListenAddr)
	if config.Host.ListenAddr == "" {
		config.Host.ListenAddr = defaultListenAddr
	}
	config.Host.HostPath = normalizePath(config.Host.HostPath, "/host")
	config.Host.PreviewPath = normalizePath(config.Host.PreviewPath, "/preview")

	config.Keybindings.Undo = normalizeChords(config.Keybindings.Undo)
	config.Keybindings.Redo = normalizeChords(config.Keybindings.Redo)
}

func normalizePath(path, fallback string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return fallback
	}
	if !strings.HasPrefix(path, "/") {
		return "/" + path
	}
	return path
}

func normalizeChords(chords []string) []string {
	out := make([]string, 0, len(chords))
	for _, c := range chords {
		c = strings.ToLower(strings.TrimSpace(c))
		if c != "" && !slices.Contains(out, c) {
			out = append(out, c)
		}
	}
	return out
}

// Get returns a copy of the current configuration.
func (m *Manager) Get() *Config {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.config == nil {
		return DefaultConfig()
	}
	configCopy := *m.config
	configCopy.Keybindings.Undo = slices.Clone(m.config.Keybindings.Undo)
	configCopy.Keybindings.Redo = slices.Clone(m.config.Keybindings.Redo)
	return &configCopy
}

// GetConfigFile returns the path of the file in use.
func (m *Manager) GetConfigFile() string {
	if used := m.viper.ConfigFileUsed(); used != "" {
		return used
	}
	return filepath.Join(m.dir, configName)
}

// Dir returns the directory the manager reads from.
func (m *Manager) Dir() string {
	return m.dir
}

// createDefaultConfig writes the defaults as an ordered TOML file.
func (m *Manager) createDefaultConfig() error {
	if err := os.MkdirAll(m.dir, dirPerm); err != nil {
		return err
	}
	return WriteConfigOrdered(DefaultConfig(), filepath.Join(m.dir, configName))
}

func (m *Manager) setDefaults() {
	defaults := DefaultConfig()

	m.viper.SetDefault("editor.edit_mode", defaults.Editor.EditMode)

	m.viper.SetDefault("drag.activation_delay_ms", defaults.Drag.ActivationDelayMs)
	m.viper.SetDefault("drag.activation_tolerance", defaults.Drag.ActivationTolerance)

	m.viper.SetDefault("keybindings.undo", defaults.Keybindings.Undo)
	m.viper.SetDefault("keybindings.redo", defaults.Keybindings.Redo)

	m.viper.SetDefault("host.listen_addr", defaults.Host.ListenAddr)
	m.viper.SetDefault("host.host_path", defaults.Host.HostPath)
	m.viper.SetDefault("host.preview_path", defaults.Host.PreviewPath)
	m.viper.SetDefault("host.send_queue", defaults.Host.SendQueue)
	m.viper.SetDefault("host.dedup_window_ms", defaults.Host.DedupWindowMs)
	m.viper.SetDefault("host.stream", defaults.Host.Stream)

	m.viper.SetDefault("journal.enabled", defaults.Journal.Enabled)
	m.viper.SetDefault("journal.path", defaults.Journal.Path)

	m.viper.SetDefault("logging.level", defaults.Logging.Level)
	m.viper.SetDefault("logging.format", defaults.Logging.Format)
	m.viper.SetDefault("logging.file", defaults.Logging.File)
	m.viper.SetDefault("logging.max_size_mb", defaults.Logging.MaxSizeMB)
	m.viper.SetDefault("logging.max_backups", defaults.Logging.MaxBackups)
}
