package messaging

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/bnema/composer/internal/application/port"
	"github.com/bnema/composer/internal/logging"
)

// HostMessage is an inbound message from the host window.
type HostMessage struct {
	Type   port.HostMessageType `json:"type"`
	Active bool                 `json:"active"`
}

// ParseHostMessage decodes an inbound host payload.
func ParseHostMessage(payload []byte) (HostMessage, error) {
	var msg HostMessage
	if err := json.Unmarshal(payload, &msg); err != nil {
		return HostMessage{}, fmt.Errorf("failed to decode host message: %w", err)
	}
	return msg, nil
}

// EditModeSetter is the engine side of the host channel.
type EditModeSetter interface {
	SetEditMode(ctx context.Context, enabled bool) bool
}

// HandleHostMessage applies one inbound host payload to target. Unknown
// message types are ignored; malformed payloads are logged and returned.
func HandleHostMessage(ctx context.Context, target EditModeSetter, payload []byte) error {
	msg, err := ParseHostMessage(payload)
	if err != nil {
		logging.FromContext(ctx).Error().Err(err).Msg("malformed host message")
		return err
	}

	switch msg.Type {
	case port.HostToggleEditMode:
		target.SetEditMode(ctx, msg.Active)
	default:
		logging.FromContext(ctx).Debug().Str("type", string(msg.Type)).Msg("ignoring host message")
	}
	return nil
}
