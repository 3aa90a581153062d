package usecase

import (
	"context"

	"github.com/bnema/composer/internal/logging"
)

// EditMode is the process-wide switch between static rendering and
// drag-enabled editing. Registration continues while it is off.
type EditMode struct {
	enabled   bool
	listeners []func(ctx context.Context, enabled bool)
}

// NewEditMode creates the switch in its initial position.
func NewEditMode(enabled bool) *EditMode {
	return &EditMode{enabled: enabled}
}

// Enabled reports whether dragging is currently allowed.
func (m *EditMode) Enabled() bool {
	return m.enabled
}

// OnChange registers fn to run after every change of the switch.
func (m *EditMode) OnChange(fn func(ctx context.Context, enabled bool)) {
	m.listeners = append(m.listeners, fn)
}

// Set moves the switch and reports whether it changed.
func (m *EditMode) Set(ctx context.Context, enabled bool) bool {
	if m.enabled == enabled {
		return false
	}
	m.enabled = enabled
	logging.FromContext(ctx).Info().Bool("enabled", enabled).Msg("edit mode changed")
	for _, fn := range m.listeners {
		fn(ctx, enabled)
	}
	return true
}
