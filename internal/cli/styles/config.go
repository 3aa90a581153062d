package styles

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/bnema/composer/internal/infrastructure/config"
)

// ConfigRenderer renders config status messages with styled output.
type ConfigRenderer struct {
	theme *Theme
}

// NewConfigRenderer creates a new config renderer with the given theme.
func NewConfigRenderer(theme *Theme) *ConfigRenderer {
	return &ConfigRenderer{theme: theme}
}

// RenderStatus renders the config file location and the effective settings.
func (r *ConfigRenderer) RenderStatus(path string, exists bool, cfg *config.Config) string {
	iconStyle := lipgloss.NewStyle().Foreground(r.theme.Accent)
	keyStyle := r.theme.Subtle
	valStyle := r.theme.Highlight

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("\n  %s Config %s\n", iconStyle.Render(IconConfig), r.theme.Subtle.Render(path)))
	if !exists {
		sb.WriteString(fmt.Sprintf("  %s\n", r.theme.Subtle.Render("File not found, defaults are in effect. Run 'composer config init' to write it.")))
	}

	row := func(icon, key, value string) {
		sb.WriteString(fmt.Sprintf("    %s %s %s\n", iconStyle.Render(icon), keyStyle.Render(key), valStyle.Render(value)))
	}

	sb.WriteString("\n")
	row(IconCursor, "Edit mode    ", onOff(cfg.Editor.EditMode))
	row(IconCursor, "Activation   ", fmt.Sprintf("%dms / %.0fpx", cfg.Drag.ActivationDelayMs, cfg.Drag.ActivationTolerance))
	row(IconCursor, "Undo         ", strings.Join(cfg.Keybindings.Undo, ", "))
	row(IconCursor, "Redo         ", strings.Join(cfg.Keybindings.Redo, ", "))
	row(IconPlug, "Listen       ", cfg.Host.ListenAddr)
	row(IconPlug, "Endpoints    ", cfg.Host.HostPath+" "+cfg.Host.PreviewPath)
	journal := "off"
	if cfg.Journal.Enabled {
		journal = cfg.Journal.Path
	}
	row(IconDatabase, "Journal      ", journal)
	row(IconInfo, "Log level    ", cfg.Logging.Level+" ("+cfg.Logging.Format+")")

	return sb.String()
}

// RenderCreated renders the message after a default config was written.
func (r *ConfigRenderer) RenderCreated(path string) string {
	iconStyle := lipgloss.NewStyle().Foreground(r.theme.Success)
	return fmt.Sprintf("\n  %s Wrote %s\n", iconStyle.Render(IconCheck), r.theme.Subtle.Render(path))
}

// RenderExists renders the message when init finds an existing file.
func (r *ConfigRenderer) RenderExists(path string) string {
	iconStyle := lipgloss.NewStyle().Foreground(r.theme.Warning)
	return fmt.Sprintf(
		"\n  %s Config %s already exists\n  %s\n",
		iconStyle.Render(IconWarning),
		r.theme.Subtle.Render(path),
		r.theme.Subtle.Render("Use --force to overwrite it."),
	)
}

// RenderError renders an error message.
func (r *ConfigRenderer) RenderError(err error) string {
	iconStyle := lipgloss.NewStyle().Foreground(r.theme.Error)

	return fmt.Sprintf(
		"\n  %s Config error: %v\n",
		iconStyle.Render(IconX),
		err,
	)
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
