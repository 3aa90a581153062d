// Package editor composes the reordering engine behind one object that
// rendering surfaces, the host bridge and the scenario runner share.
package editor

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/bnema/composer/internal/app/messaging"
	"github.com/bnema/composer/internal/application/port"
	"github.com/bnema/composer/internal/application/usecase"
	"github.com/bnema/composer/internal/domain/dropzone"
	"github.com/bnema/composer/internal/domain/entity"
	"github.com/bnema/composer/internal/domain/layout"
	"github.com/bnema/composer/internal/domain/registry"
	"github.com/bnema/composer/internal/logging"
)

// Options configures a new Editor.
type Options struct {
	EditMode    bool
	Drag        usecase.DragConfig
	KeyBindings map[usecase.KeyAction][]string
	Notifier    port.HostNotifier
	Now         usecase.Clock
	IDGenerator usecase.IDGenerator
}

// Editor is the single owned engine instance. Every method is serialized
// by one mutex, giving all callers the same total order of events.
type Editor struct {
	mu sync.Mutex

	registry *registry.Registry
	eval     *dropzone.Evaluator
	moves    *usecase.ManageMovesUseCase
	session  *usecase.DragSessionUseCase
	editMode *usecase.EditMode
	keys     *usecase.KeyBindings
	frames   *layout.FrameQueue
}

// New builds an editor. Missing key bindings fall back to the defaults.
func New(opts Options) (*Editor, error) {
	bindings := opts.KeyBindings
	if len(bindings) == 0 {
		bindings = usecase.DefaultKeyBindings()
	}
	keys, err := usecase.NewKeyBindings(bindings)
	if err != nil {
		return nil, fmt.Errorf("invalid key bindings: %w", err)
	}

	reg := registry.New()
	frames := &layout.FrameQueue{}
	editMode := usecase.NewEditMode(opts.EditMode)
	moves := usecase.NewManageMovesUseCase(reg, opts.Notifier, opts.Now, opts.IDGenerator)
	session := usecase.NewDragSessionUseCase(reg, moves, editMode, frames, opts.Drag, opts.Now)

	// Turning edit mode off abandons any gesture in flight.
	editMode.OnChange(func(ctx context.Context, enabled bool) {
		if !enabled && session.State() != usecase.DragIdle {
			_ = session.Cancel(ctx)
		}
	})

	return &Editor{
		registry: reg,
		eval:     dropzone.NewEvaluator(reg),
		moves:    moves,
		session:  session,
		editMode: editMode,
		keys:     keys,
		frames:   frames,
	}, nil
}

// AddDragModeListener subscribes l to drag start and end.
func (e *Editor) AddDragModeListener(l port.DragModeListener) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.session.AddListener(l)
}

// RegisterContainer records a rendered container.
func (e *Editor) RegisterContainer(ctx context.Context, info entity.ContainerInfo) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	changed := e.registry.RegisterContainer(info)
	if changed {
		logging.FromContext(ctx).Trace().Str("container", info.ID).Msg("container registered")
	}
	return changed
}

// RegisterItem records a rendered child node at index within containerID.
func (e *Editor) RegisterItem(ctx context.Context, id, containerID string, handle entity.NodeHandle, info entity.ItemInfo, index int) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	changed := e.registry.RegisterItem(id, containerID, handle, info, index)
	if changed {
		logging.FromContext(ctx).Trace().Str("item", id).Str("container", containerID).Msg("item registered")
	}
	return changed
}

// ChildrenOf returns the ordered children of a container.
func (e *Editor) ChildrenOf(containerID string) []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.registry.ChildrenOf(containerID)
}

// ContainerOf returns the container holding id, or "".
func (e *Editor) ContainerOf(id string) string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.registry.ContainerOf(id)
}

// Item returns the latest handle of a node.
func (e *Editor) Item(id string) (entity.NodeHandle, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.registry.Item(id)
}

// ItemInfo returns a child node's metadata.
func (e *Editor) ItemInfo(id string) (entity.ItemInfo, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.registry.ItemInfo(id)
}

// ContainerInfo returns a container's metadata.
func (e *Editor) ContainerInfo(id string) (entity.ContainerInfo, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.registry.ContainerInfo(id)
}

// Evaluate answers whether draggedID could be dropped into targetID, for
// callers outside a drag session.
func (e *Editor) Evaluate(draggedID, targetID string) entity.DropZoneStatus {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.eval.Evaluate(draggedID, targetID)
}

// AddMove commits a programmatic move.
func (e *Editor) AddMove(ctx context.Context, req entity.MoveRequest) (entity.Move, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.moves.AddMove(ctx, req)
}

// Undo reverts the latest active move.
func (e *Editor) Undo(ctx context.Context) (entity.Move, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.moves.Undo(ctx)
}

// Redo replays the next undone move.
func (e *Editor) Redo(ctx context.Context) (entity.Move, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.moves.Redo(ctx)
}

// History returns a copy of the move log.
func (e *Editor) History() entity.MoveHistory {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.moves.History()
}

// EditMode reports whether dragging is enabled.
func (e *Editor) EditMode() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.editMode.Enabled()
}

// SetEditMode switches edit mode and reports whether it changed.
func (e *Editor) SetEditMode(ctx context.Context, enabled bool) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.editMode.Set(ctx, enabled)
}

// HandleHostMessage applies an inbound host payload.
func (e *Editor) HandleHostMessage(ctx context.Context, payload []byte) error {
	return messaging.HandleHostMessage(ctx, e, payload)
}

// MountSurface records that a drag-capable surface is showing.
func (e *Editor) MountSurface(ctx context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.keys.Mount()
	logging.FromContext(ctx).Debug().Msg("surface mounted")
}

// UnmountSurface records that a surface went away.
func (e *Editor) UnmountSurface(ctx context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.keys.Unmount()
	logging.FromContext(ctx).Debug().Msg("surface unmounted")
}

// HandleKey runs the action bound to chord, if any.
func (e *Editor) HandleKey(ctx context.Context, chord string) (usecase.KeyAction, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	action, ok := e.keys.Resolve(chord)
	if !ok {
		return "", false
	}
	switch action {
	case usecase.KeyActionUndo:
		e.moves.Undo(ctx)
	case usecase.KeyActionRedo:
		e.moves.Redo(ctx)
	}
	return action, true
}

// PointerDown presses on a node, possibly starting a drag.
func (e *Editor) PointerDown(ctx context.Context, id string, at entity.Point) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	err := e.session.Press(ctx, id, at)
	if err != nil && !errors.Is(err, usecase.ErrEditModeDisabled) {
		logging.FromContext(ctx).Debug().Err(err).Str("node", id).Msg("press ignored")
	}
	return err
}

// PointerMove feeds one pointer tick.
func (e *Editor) PointerMove(ctx context.Context, frame usecase.Frame) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.session.Move(ctx, frame)
}

// PointerUp drops the dragged node.
func (e *Editor) PointerUp(ctx context.Context) (entity.Move, bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.session.Drop(ctx)
}

// Cancel abandons the current gesture.
func (e *Editor) Cancel(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.session.Cancel(ctx)
}

// Tick lets a held press activate once its delay has elapsed.
func (e *Editor) Tick(ctx context.Context) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.session.Tick(ctx)
}

// EndFrame publishes state deferred to the frame boundary. Surfaces call it
// once per rendered frame.
func (e *Editor) EndFrame() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.frames.Flush()
}

// DragState returns the session state.
func (e *Editor) DragState() usecase.DragState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.session.State()
}

// IsValidDropTarget reports the current session's verdict for containerID.
func (e *Editor) IsValidDropTarget(containerID string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.session.IsValidDropTarget(containerID)
}

// InsertionIndex returns the tracked slot within containerID.
func (e *Editor) InsertionIndex(containerID string) (int, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.session.InsertionIndex(containerID)
}

// Snapshot returns the full drag state for rendering.
func (e *Editor) Snapshot() usecase.DragSnapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	s := e.session.Snapshot()
	s.EditMode = e.editMode.Enabled()
	s.CanUndo = e.moves.CanUndo()
	s.CanRedo = e.moves.CanRedo()
	return s
}
