package port

import "context"

// HostMessageType is the "type" discriminator of host window messages.
type HostMessageType string

const (
	// HostElementMoved reports a committed or redone move.
	HostElementMoved HostMessageType = "ELEMENT_MOVED"
	// HostUndoElementMoved reports an undone move by id.
	HostUndoElementMoved HostMessageType = "UNDO_ELEMENT_MOVED"
	// HostToggleEditMode is the only inbound message the engine reacts to.
	HostToggleEditMode HostMessageType = "TOGGLE_EDIT_MODE"
)

// MovePayload is the "move" object of an ELEMENT_MOVED message.
type MovePayload struct {
	DestContainerID     string `json:"destContainerId"`
	DestContainerPath   string `json:"destContainerPath"`
	SourceContainerID   string `json:"sourceContainerId"`
	SourceContainerPath string `json:"sourceContainerPath"`
	NewIndex            int    `json:"newIndex"`
	OldIndex            int    `json:"oldIndex"`
	Timestamp           int64  `json:"timestamp"` // unix milliseconds
	MoveID              string `json:"moveId"`
	Type                string `json:"type"`
}

// HostMessage is one outbound notification to the host window.
// ELEMENT_MOVED carries Move; UNDO_ELEMENT_MOVED carries MoveID.
type HostMessage struct {
	Type          HostMessageType `json:"type"`
	MagicpathID   string          `json:"magicpathId"`
	MagicpathPath string          `json:"magicpathPath"`
	MagicpathUUID string          `json:"magicpathUuid,omitempty"`
	Move          *MovePayload    `json:"move,omitempty"`
	MoveID        string          `json:"moveId,omitempty"`
}

// ID returns the move id the message refers to.
func (m HostMessage) ID() string {
	if m.Move != nil {
		return m.Move.MoveID
	}
	return m.MoveID
}

// HostNotifier delivers structural changes to the host window.
// Delivery is at-most-once: implementations must not block the caller and
// never retry. The returned error is informational.
type HostNotifier interface {
	Notify(ctx context.Context, msg HostMessage) error
}

// DragModeListener is told when a drag session starts and ends, so global
// drag affordances (cursor, overlays) can follow.
type DragModeListener interface {
	DragModeChanged(ctx context.Context, active bool)
}
