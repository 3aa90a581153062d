package messaging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/bnema/composer/internal/application/usecase"
	"github.com/bnema/composer/internal/domain/entity"
	"github.com/bnema/composer/internal/domain/layout"
	"github.com/bnema/composer/internal/logging"
)

// Engine is the editor API a preview surface drives.
type Engine interface {
	RegisterContainer(ctx context.Context, info entity.ContainerInfo) bool
	RegisterItem(ctx context.Context, id, containerID string, handle entity.NodeHandle, info entity.ItemInfo, index int) bool
	MountSurface(ctx context.Context)
	UnmountSurface(ctx context.Context)
	PointerDown(ctx context.Context, id string, at entity.Point) error
	PointerMove(ctx context.Context, frame usecase.Frame) error
	PointerUp(ctx context.Context) (entity.Move, bool, error)
	Cancel(ctx context.Context) error
	Tick(ctx context.Context) bool
	HandleKey(ctx context.Context, chord string) (usecase.KeyAction, bool)
	Undo(ctx context.Context) (entity.Move, bool)
	Redo(ctx context.Context) (entity.Move, bool)
	AddMove(ctx context.Context, req entity.MoveRequest) (entity.Move, bool)
	EndFrame()
	Snapshot() usecase.DragSnapshot
}

// Preview message types.
const (
	TypeRegisterContainer = "register_container"
	TypeRegisterItem      = "register_item"
	TypeMount             = "mount"
	TypeUnmount           = "unmount"
	TypePointerDown       = "pointer_down"
	TypePointerMove       = "pointer_move"
	TypePointerUp         = "pointer_up"
	TypeCancel            = "cancel"
	TypeTick              = "tick"
	TypeKey               = "key"
	TypeUndo              = "undo"
	TypeRedo              = "redo"
	TypeAddMove           = "add_move"

	TypeDragState = "drag_state"
	TypeError     = "error"
)

// Rect is the wire form of a bounding box.
type Rect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"width"`
	H float64 `json:"height"`
}

// Droppable is the wire form of one hit-testable node.
type Droppable struct {
	ID          string `json:"id"`
	ContainerID string `json:"containerId,omitempty"`
	Type        string `json:"type"`
	Rect        Rect   `json:"rect"`
}

// Layout is a container's computed layout as reported by the surface.
type Layout struct {
	Display       string `json:"display"`
	FlexDirection string `json:"flexDirection"`
}

// Message is one inbound message from a preview surface.
type Message struct {
	Type      string `json:"type"`
	RequestID string `json:"requestId,omitempty"`

	// Registration
	ID          string `json:"id,omitempty"`
	ContainerID string `json:"containerId,omitempty"`
	Index       *int   `json:"index,omitempty"`
	Path        string `json:"path,omitempty"`
	MagicID     string `json:"magicId,omitempty"`
	UUID        string `json:"uuid,omitempty"`
	Handle      string `json:"handle,omitempty"`
	Kind        string `json:"kind,omitempty"`
	ParentID    string `json:"parentId,omitempty"`
	NodeType    string `json:"nodeType,omitempty"`

	// Pointer
	X          float64           `json:"x,omitempty"`
	Y          float64           `json:"y,omitempty"`
	Droppables []Droppable       `json:"droppables,omitempty"`
	Layouts    map[string]Layout `json:"layouts,omitempty"`

	Chord string `json:"chord,omitempty"`

	// add_move
	SourceContainerID string `json:"sourceContainerId,omitempty"`
	DestContainerID   string `json:"destContainerId,omitempty"`
	OldIndex          int    `json:"oldIndex,omitempty"`
	NewIndex          int    `json:"newIndex,omitempty"`
}

// Reply is sent back to the surface after every message.
type Reply struct {
	Type      string                `json:"type"`
	RequestID string                `json:"requestId,omitempty"`
	Changed   bool                  `json:"changed,omitempty"`
	MoveID    string                `json:"moveId,omitempty"`
	Error     string                `json:"error,omitempty"`
	State     *usecase.DragSnapshot `json:"state,omitempty"`
}

var errEmptyType = errors.New("message type is empty")

// PreviewHandler applies preview-surface messages to an engine.
type PreviewHandler struct {
	engine Engine
	dedup  *RequestDeduplicator
}

// NewPreviewHandler creates a handler. A nil deduplicator disables
// replay protection.
func NewPreviewHandler(engine Engine, dedup *RequestDeduplicator) *PreviewHandler {
	return &PreviewHandler{engine: engine, dedup: dedup}
}

// Handle processes one payload and returns the reply to send. Messages
// that fail to decode get an error reply; unknown types are ignored.
func (h *PreviewHandler) Handle(ctx context.Context, payload []byte) Reply {
	log := logging.FromContext(ctx)

	msg, err := parseIncomingMessage(payload)
	if err != nil {
		log.Error().Err(err).Msg("failed to decode preview message")
		return Reply{Type: TypeError, Error: err.Error()}
	}

	if h.dedup != nil && isCommand(msg.Type) {
		if dup, reason := h.dedup.IsDuplicate(msg.RequestID); dup {
			log.Debug().Str("type", msg.Type).Str("reason", reason).Msg("duplicate preview request dropped")
			return h.reply(msg, false, "")
		}
	}

	changed, moveID, err := h.dispatch(ctx, msg)
	if err != nil {
		log.Debug().Err(err).Str("type", msg.Type).Msg("preview message rejected")
		r := h.reply(msg, false, "")
		r.Error = err.Error()
		return r
	}
	return h.reply(msg, changed, moveID)
}

func (h *PreviewHandler) dispatch(ctx context.Context, msg Message) (bool, string, error) {
	switch msg.Type {
	case TypeRegisterContainer:
		return h.engine.RegisterContainer(ctx, entity.ContainerInfo{
			ID:       msg.ID,
			Path:     msg.Path,
			MagicID:  msg.MagicID,
			Handle:   msg.Handle,
			Kind:     containerKind(msg.Kind),
			ParentID: msg.ParentID,
		}), "", nil
	case TypeRegisterItem:
		index := -1
		if msg.Index != nil {
			index = *msg.Index
		}
		info := entity.ItemInfo{
			Path:    msg.Path,
			MagicID: msg.MagicID,
			UUID:    msg.UUID,
			Handle:  msg.Handle,
			Type:    nodeType(msg.NodeType),
		}
		return h.engine.RegisterItem(ctx, msg.ID, msg.ContainerID, msg.Handle, info, index), "", nil
	case TypeMount:
		h.engine.MountSurface(ctx)
	case TypeUnmount:
		h.engine.UnmountSurface(ctx)
	case TypePointerDown:
		return false, "", h.engine.PointerDown(ctx, msg.ID, entity.Point{X: msg.X, Y: msg.Y})
	case TypePointerMove:
		return false, "", h.engine.PointerMove(ctx, frameOf(msg))
	case TypePointerUp:
		move, ok, err := h.engine.PointerUp(ctx)
		return ok, move.ID, err
	case TypeCancel:
		return false, "", h.engine.Cancel(ctx)
	case TypeTick:
		return h.engine.Tick(ctx), "", nil
	case TypeKey:
		_, ok := h.engine.HandleKey(ctx, msg.Chord)
		return ok, "", nil
	case TypeUndo:
		move, ok := h.engine.Undo(ctx)
		return ok, move.ID, nil
	case TypeRedo:
		move, ok := h.engine.Redo(ctx)
		return ok, move.ID, nil
	case TypeAddMove:
		move, ok := h.engine.AddMove(ctx, entity.MoveRequest{
			ItemID:            msg.ID,
			SourceContainerID: msg.SourceContainerID,
			DestContainerID:   msg.DestContainerID,
			OldIndex:          msg.OldIndex,
			NewIndex:          msg.NewIndex,
		})
		return ok, move.ID, nil
	default:
		logging.FromContext(ctx).Debug().Str("type", msg.Type).Msg("ignoring preview message")
	}
	return false, "", nil
}

func (h *PreviewHandler) reply(msg Message, changed bool, moveID string) Reply {
	h.engine.EndFrame()
	state := h.engine.Snapshot()
	return Reply{
		Type:      TypeDragState,
		RequestID: msg.RequestID,
		Changed:   changed,
		MoveID:    moveID,
		State:     &state,
	}
}

func isCommand(msgType string) bool {
	switch msgType {
	case TypePointerUp, TypeUndo, TypeRedo, TypeAddMove, TypeKey:
		return true
	}
	return false
}

func frameOf(msg Message) usecase.Frame {
	frame := usecase.Frame{
		Pointer:      entity.Point{X: msg.X, Y: msg.Y},
		Droppables:   make([]entity.Droppable, 0, len(msg.Droppables)),
		Orientations: make(map[string]layout.Orientation, len(msg.Layouts)),
	}
	for _, d := range msg.Droppables {
		frame.Droppables = append(frame.Droppables, entity.Droppable{
			ID:          d.ID,
			ContainerID: d.ContainerID,
			Type:        nodeType(d.Type),
			Rect:        entity.Rect{X: d.Rect.X, Y: d.Rect.Y, W: d.Rect.W, H: d.Rect.H},
		})
	}
	for id, l := range msg.Layouts {
		frame.Orientations[id] = layout.ResolveOrientation(l.Display, l.FlexDirection)
	}
	return frame
}

func containerKind(s string) entity.ContainerKind {
	switch entity.ContainerKind(s) {
	case entity.ContainerTemplate:
		return entity.ContainerTemplate
	case entity.ContainerCollection:
		return entity.ContainerCollection
	default:
		return entity.ContainerRegular
	}
}

func nodeType(s string) entity.NodeType {
	switch entity.NodeType(s) {
	case entity.NodeContainer:
		return entity.NodeContainer
	case entity.NodeTemplate:
		return entity.NodeTemplate
	default:
		return entity.NodeItem
	}
}

func parseIncomingMessage(payload []byte) (Message, error) {
	var msg Message
	if err := json.Unmarshal(payload, &msg); err != nil {
		normalized, normErr := normalizeRequestIDPayload(payload)
		if normErr != nil {
			return Message{}, err
		}
		if err := json.Unmarshal(normalized, &msg); err != nil {
			return Message{}, err
		}
	}
	if msg.Type == "" {
		return Message{}, errEmptyType
	}
	return msg, nil
}

// normalizeRequestIDPayload rewrites a numeric requestId as a string.
// Browser surfaces often use a counter.
func normalizeRequestIDPayload(data []byte) ([]byte, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	rawID, ok := raw["requestId"]
	if !ok {
		return nil, fmt.Errorf("requestId missing in payload")
	}

	normalizedID, err := parseRequestIDRaw(rawID)
	if err != nil {
		return nil, err
	}

	raw["requestId"] = json.RawMessage(strconv.Quote(normalizedID))

	return json.Marshal(raw)
}

func parseRequestIDRaw(raw json.RawMessage) (string, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return "", nil
	}

	if trimmed[0] == '"' {
		var id string
		if err := json.Unmarshal(trimmed, &id); err != nil {
			return "", err
		}
		return id, nil
	}

	var number json.Number
	if err := json.Unmarshal(trimmed, &number); err == nil {
		return number.String(), nil
	}

	return "", fmt.Errorf("unsupported requestId format: %s", string(trimmed))
}
