package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/composer/internal/application/usecase"
)

func TestDefaultConfig_IsValid(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Journal.Path = "/tmp/journal.sqlite"

	require.NoError(t, validateConfig(cfg))
	assert.True(t, cfg.Editor.EditMode)
	assert.Equal(t, 250*time.Millisecond, cfg.DragSession().ActivationDelay)
	assert.Equal(t, 50.0, cfg.DragSession().ActivationTolerance)
	assert.Equal(t, 5*time.Second, cfg.DedupWindow())
	assert.Equal(t, []string{"ctrl+z", "meta+z"}, cfg.Bindings()[usecase.KeyActionUndo])
}

func TestSetDefaults(t *testing.T) {
	mgr := &Manager{viper: viper.New()}
	mgr.setDefaults()

	assert.Equal(t, "127.0.0.1:7341", mgr.viper.GetString("host.listen_addr"))
	assert.Equal(t, 64, mgr.viper.GetInt("host.send_queue"))
	assert.True(t, mgr.viper.GetBool("editor.edit_mode"))
	assert.Equal(t, []string{"ctrl+y", "meta+shift+z"}, mgr.viper.GetStringSlice("keybindings.redo"))
}

func TestNormalizeConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Logging.Level = " WARNING "
	cfg.Logging.Format = "xml"
	cfg.Host.ListenAddr = "  "
	cfg.Host.PreviewPath = "surface"
	cfg.Keybindings.Undo = []string{"Ctrl+Z", "ctrl+z", " "}

	normalizeConfig(cfg)

	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
	assert.Equal(t, defaultListenAddr, cfg.Host.ListenAddr)
	assert.Equal(t, "/surface", cfg.Host.PreviewPath)
	assert.Equal(t, []string{"ctrl+z"}, cfg.Keybindings.Undo)
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "negative delay", mutate: func(c *Config) { c.Drag.ActivationDelayMs = -1 }, wantErr: "drag.activation_delay_ms"},
		{name: "negative tolerance", mutate: func(c *Config) { c.Drag.ActivationTolerance = -2 }, wantErr: "drag.activation_tolerance"},
		{name: "empty queue", mutate: func(c *Config) { c.Host.SendQueue = 0 }, wantErr: "host.send_queue"},
		{name: "same paths", mutate: func(c *Config) { c.Host.PreviewPath = c.Host.HostPath }, wantErr: "must differ"},
		{name: "bad level", mutate: func(c *Config) { c.Logging.Level = "loud" }, wantErr: "logging.level"},
		{name: "bad chord", mutate: func(c *Config) { c.Keybindings.Undo = []string{"ctrl+a+b"} }, wantErr: "keybindings.undo"},
		{name: "conflicting chord", mutate: func(c *Config) { c.Keybindings.Redo = []string{"ctrl+z"} }, wantErr: "bound to both"},
		{name: "file without size", mutate: func(c *Config) { c.Logging.File = "x.log"; c.Logging.MaxSizeMB = 0 }, wantErr: "logging.max_size_mb"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)

			err := validateConfig(cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestManager_LoadCreatesDefaultFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_STATE_HOME", filepath.Join(dir, "state"))

	mgr, err := NewManagerAt(dir)
	require.NoError(t, err)
	require.NoError(t, mgr.Load())

	assert.FileExists(t, filepath.Join(dir, "config.toml"))
	cfg := mgr.Get()
	assert.Equal(t, DefaultConfig().Host, cfg.Host)
	assert.Equal(t, filepath.Join(dir, "state", "composer", "journal.sqlite"), cfg.Journal.Path)
}

func TestManager_LoadReadsFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	content := `
[drag]
activation_delay_ms = 0

[keybindings]
undo = ["alt+u"]

[journal]
enabled = true
path = "/var/tmp/j.sqlite"
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0o644))
	t.Setenv("COMPOSER_LOG_LEVEL", "debug")
	t.Setenv("COMPOSER_HOST_LISTEN_ADDR", "0.0.0.0:9000")

	mgr, err := NewManagerAt(dir)
	require.NoError(t, err)
	require.NoError(t, mgr.Load())

	cfg := mgr.Get()
	assert.Equal(t, 0, cfg.Drag.ActivationDelayMs)
	assert.Equal(t, []string{"alt+u"}, cfg.Keybindings.Undo)
	assert.Equal(t, []string{"ctrl+y", "meta+shift+z"}, cfg.Keybindings.Redo)
	assert.True(t, cfg.Journal.Enabled)
	assert.Equal(t, "/var/tmp/j.sqlite", cfg.Journal.Path)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "0.0.0.0:9000", cfg.Host.ListenAddr)
}

func TestManager_LoadRejectsInvalidFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte("[host]\nsend_queue = 0\n"), 0o644))
	t.Setenv("XDG_STATE_HOME", filepath.Join(dir, "state"))

	mgr, err := NewManagerAt(dir)
	require.NoError(t, err)
	err = mgr.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "host.send_queue")
}

func TestGetReturnsCopy(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_STATE_HOME", filepath.Join(dir, "state"))
	mgr, err := NewManagerAt(dir)
	require.NoError(t, err)
	require.NoError(t, mgr.Load())

	cfg := mgr.Get()
	cfg.Keybindings.Undo[0] = "mutated"
	assert.Equal(t, "ctrl+z", mgr.Get().Keybindings.Undo[0])
}

func TestSchema(t *testing.T) {
	data, err := Schema()
	require.NoError(t, err)

	var schema map[string]any
	require.NoError(t, json.Unmarshal(data, &schema))
	assert.Equal(t, "composer configuration", schema["title"])
	props, ok := schema["properties"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, props, "drag")
	assert.Contains(t, props, "keybindings")

	path, err := WriteSchemaFile(t.TempDir())
	require.NoError(t, err)
	assert.FileExists(t, path)
}
