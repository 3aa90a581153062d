package config

import (
	"fmt"
	"strings"

	"github.com/bnema/composer/internal/application/usecase"
)

// validateConfig collects every problem in config into one error.
func validateConfig(config *Config) error {
	var validationErrors []string

	validationErrors = append(validationErrors, validateDrag(config)...)
	validationErrors = append(validationErrors, validateKeybindings(config)...)
	validationErrors = append(validationErrors, validateHost(config)...)
	validationErrors = append(validationErrors, validateLogging(config)...)

	if len(validationErrors) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(validationErrors, "\n  - "))
	}

	return nil
}

func validateDrag(config *Config) []string {
	var validationErrors []string
	if config.Drag.ActivationDelayMs < 0 {
		validationErrors = append(validationErrors, "drag.activation_delay_ms must be non-negative")
	}
	if config.Drag.ActivationTolerance < 0 {
		validationErrors = append(validationErrors, "drag.activation_tolerance must be non-negative")
	}
	return validationErrors
}

func validateKeybindings(config *Config) []string {
	var validationErrors []string
	for name, chords := range map[string][]string{
		"keybindings.undo": config.Keybindings.Undo,
		"keybindings.redo": config.Keybindings.Redo,
	} {
		for _, chord := range chords {
			if _, err := usecase.NormalizeChord(chord); err != nil {
				validationErrors = append(validationErrors, fmt.Sprintf("%s: %v", name, err))
			}
		}
	}
	if len(validationErrors) > 0 {
		return validationErrors
	}
	if _, err := usecase.NewKeyBindings(config.Bindings()); err != nil {
		validationErrors = append(validationErrors, "keybindings: "+err.Error())
	}
	return validationErrors
}

func validateHost(config *Config) []string {
	var validationErrors []string
	if config.Host.SendQueue < 1 {
		validationErrors = append(validationErrors, "host.send_queue must be at least 1")
	}
	if config.Host.DedupWindowMs < 0 {
		validationErrors = append(validationErrors, "host.dedup_window_ms must be non-negative")
	}
	if config.Host.HostPath == config.Host.PreviewPath {
		validationErrors = append(validationErrors, "host.host_path and host.preview_path must differ")
	}
	return validationErrors
}

func validateLogging(config *Config) []string {
	var validationErrors []string
	switch config.Logging.Level {
	case "trace", "debug", "info", "warn", "error", "disabled", "off":
	default:
		validationErrors = append(validationErrors,
			fmt.Sprintf("logging.level must be one of trace, debug, info, warn, error, disabled (got %q)", config.Logging.Level))
	}
	if config.Logging.File != "" && config.Logging.MaxSizeMB < 1 {
		validationErrors = append(validationErrors, "logging.max_size_mb must be at least 1 when logging.file is set")
	}
	if config.Logging.MaxBackups < 0 {
		validationErrors = append(validationErrors, "logging.max_backups must be non-negative")
	}
	return validationErrors
}
