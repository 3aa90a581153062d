package config

const (
	defaultListenAddr   = "127.0.0.1:7341"
	defaultLogLevel     = "info"
	defaultLogFormat    = "console"
	defaultLogMaxSizeMB = 10
)

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		Editor: EditorConfig{
			EditMode: true,
		},
		Drag: DragConfig{
			ActivationDelayMs:   250,
			ActivationTolerance: 50,
		},
		Keybindings: KeybindingsConfig{
			Undo: []string{"ctrl+z", "meta+z"},
			Redo: []string{"ctrl+y", "meta+shift+z"},
		},
		Host: HostConfig{
			ListenAddr:    defaultListenAddr,
			HostPath:      "/host",
			PreviewPath:   "/preview",
			SendQueue:     64,
			DedupWindowMs: 5000,
		},
		Journal: JournalConfig{
			Enabled: false,
		},
		Logging: LoggingConfig{
			Level:      defaultLogLevel,
			Format:     defaultLogFormat,
			MaxSizeMB:  defaultLogMaxSizeMB,
			MaxBackups: 3,
		},
	}
}
