// Package config loads, validates and watches the composer configuration.
package config

// Config is the complete composer configuration.
type Config struct {
	Editor      EditorConfig      `mapstructure:"editor" toml:"editor" json:"editor" jsonschema:"description=Editor behaviour"`
	Drag        DragConfig        `mapstructure:"drag" toml:"drag" json:"drag" jsonschema:"description=Drag activation constraint"`
	Keybindings KeybindingsConfig `mapstructure:"keybindings" toml:"keybindings" json:"keybindings" jsonschema:"description=Undo and redo chords"`
	Host        HostConfig        `mapstructure:"host" toml:"host" json:"host" jsonschema:"description=Host bridge"`
	Journal     JournalConfig     `mapstructure:"journal" toml:"journal" json:"journal" jsonschema:"description=Host message journal"`
	Logging     LoggingConfig     `mapstructure:"logging" toml:"logging" json:"logging" jsonschema:"description=Logging output"`
}

// EditorConfig holds editor defaults.
type EditorConfig struct {
	// EditMode is the edit mode the editor starts in.
	EditMode bool `mapstructure:"edit_mode" toml:"edit_mode" json:"edit_mode" jsonschema:"description=Start with edit mode enabled,default=true"`
}

// DragConfig is the drag activation constraint.
type DragConfig struct {
	ActivationDelayMs   int     `mapstructure:"activation_delay_ms" toml:"activation_delay_ms" json:"activation_delay_ms" jsonschema:"minimum=0,default=250"`
	ActivationTolerance float64 `mapstructure:"activation_tolerance" toml:"activation_tolerance" json:"activation_tolerance" jsonschema:"minimum=0,default=50"`
}

// KeybindingsConfig maps editor actions to key chords.
type KeybindingsConfig struct {
	Undo []string `mapstructure:"undo" toml:"undo" json:"undo"`
	Redo []string `mapstructure:"redo" toml:"redo" json:"redo"`
}

// HostConfig configures the websocket bridge.
type HostConfig struct {
	ListenAddr    string `mapstructure:"listen_addr" toml:"listen_addr" json:"listen_addr" jsonschema:"default=127.0.0.1:7341"`
	HostPath      string `mapstructure:"host_path" toml:"host_path" json:"host_path" jsonschema:"default=/host"`
	PreviewPath   string `mapstructure:"preview_path" toml:"preview_path" json:"preview_path" jsonschema:"default=/preview"`
	SendQueue     int    `mapstructure:"send_queue" toml:"send_queue" json:"send_queue" jsonschema:"minimum=1,default=64"`
	DedupWindowMs int    `mapstructure:"dedup_window_ms" toml:"dedup_window_ms" json:"dedup_window_ms" jsonschema:"minimum=0,default=5000"`
	// Stream additionally writes host messages to stdout as JSON lines.
	Stream bool `mapstructure:"stream" toml:"stream" json:"stream"`
}

// JournalConfig configures the SQLite host message journal.
type JournalConfig struct {
	Enabled bool `mapstructure:"enabled" toml:"enabled" json:"enabled"`
	// Path defaults to $XDG_STATE_HOME/composer/journal.sqlite.
	Path string `mapstructure:"path" toml:"path" json:"path"`
}

// LoggingConfig configures log output.
type LoggingConfig struct {
	Level      string `mapstructure:"level" toml:"level" json:"level" jsonschema:"enum=trace,enum=debug,enum=info,enum=warn,enum=error,enum=disabled"`
	Format     string `mapstructure:"format" toml:"format" json:"format" jsonschema:"enum=console,enum=json"`
	File       string `mapstructure:"file" toml:"file" json:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb" toml:"max_size_mb" json:"max_size_mb" jsonschema:"minimum=1"`
	MaxBackups int    `mapstructure:"max_backups" toml:"max_backups" json:"max_backups" jsonschema:"minimum=0"`
}
