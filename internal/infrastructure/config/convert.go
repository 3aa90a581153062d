package config

import (
	"time"

	"github.com/bnema/composer/internal/application/usecase"
	"github.com/bnema/composer/internal/logging"
)

// Bindings returns the key map in the form the editor takes.
func (c *Config) Bindings() map[usecase.KeyAction][]string {
	return map[usecase.KeyAction][]string{
		usecase.KeyActionUndo: c.Keybindings.Undo,
		usecase.KeyActionRedo: c.Keybindings.Redo,
	}
}

// DragSession returns the drag activation constraint.
func (c *Config) DragSession() usecase.DragConfig {
	return usecase.DragConfig{
		ActivationDelay:     time.Duration(c.Drag.ActivationDelayMs) * time.Millisecond,
		ActivationTolerance: c.Drag.ActivationTolerance,
	}
}

// DedupWindow returns how long preview request ids are remembered.
func (c *Config) DedupWindow() time.Duration {
	return time.Duration(c.Host.DedupWindowMs) * time.Millisecond
}

// LoggingConfig converts the logging section.
func (c *Config) LoggingConfig() logging.Config {
	cfg := logging.DefaultConfig()
	cfg.Level = logging.ParseLevel(c.Logging.Level)
	cfg.Format = c.Logging.Format
	cfg.FilePath = c.Logging.File
	if c.Logging.MaxSizeMB > 0 {
		cfg.MaxSizeMB = c.Logging.MaxSizeMB
	}
	cfg.MaxBackups = c.Logging.MaxBackups
	return cfg
}
