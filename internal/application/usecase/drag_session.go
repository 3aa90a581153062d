package usecase

import (
	"context"
	"errors"
	"maps"
	"math"
	"slices"
	"time"

	"github.com/bnema/composer/internal/application/port"
	"github.com/bnema/composer/internal/domain/dropzone"
	"github.com/bnema/composer/internal/domain/entity"
	"github.com/bnema/composer/internal/domain/layout"
	"github.com/bnema/composer/internal/domain/nodeid"
	"github.com/bnema/composer/internal/domain/registry"
	"github.com/bnema/composer/internal/logging"
)

var (
	ErrEditModeDisabled = errors.New("edit mode is disabled")
	ErrUnknownNode      = errors.New("node is not registered")
	ErrSessionActive    = errors.New("a drag session is already active")
	ErrNoSession        = errors.New("no drag session")
)

// DragState is the drag session state.
type DragState string

const (
	DragIdle DragState = "idle"
	// DragPending waits for the press to satisfy the activation constraint.
	DragPending    DragState = "pending"
	DragDragging   DragState = "dragging"
	DragCommitting DragState = "committing"
	DragCancelled  DragState = "cancelled"
)

// DragConfig is the pointer activation constraint. A press activates a drag
// once held for ActivationDelay without travelling more than
// ActivationTolerance. A zero delay activates on press.
type DragConfig struct {
	ActivationDelay     time.Duration
	ActivationTolerance float64
}

// ActiveNode is the node being dragged.
type ActiveNode struct {
	ID          string
	ContainerID string // origin container
	Type        entity.NodeType
	Handle      entity.NodeHandle
}

// Frame is what the rendering surface reports on each pointer-move tick.
type Frame struct {
	Pointer    entity.Point
	Droppables []entity.Droppable
	// Orientations maps container ids to their layout; missing means column.
	Orientations map[string]layout.Orientation
}

// DragSessionUseCase drives one pointer gesture from press to drop.
type DragSessionUseCase struct {
	registry  *registry.Registry
	evaluator *dropzone.Evaluator
	moves     *ManageMovesUseCase
	editMode  *EditMode
	collision *layout.CollisionStrategy
	listeners []port.DragModeListener
	cfg       DragConfig
	now       Clock

	state      DragState
	active     ActiveNode
	statuses   dropzone.Statuses
	tracker    layout.Tracker
	pressAt    time.Time
	pressPoint entity.Point
	activeRect *entity.Rect
	over       string
}

// NewDragSessionUseCase wires a drag controller. frames receives the
// deferred outside-origin flag updates.
func NewDragSessionUseCase(
	reg *registry.Registry,
	moves *ManageMovesUseCase,
	editMode *EditMode,
	frames layout.FrameScheduler,
	cfg DragConfig,
	now Clock,
) *DragSessionUseCase {
	if now == nil {
		now = time.Now
	}
	return &DragSessionUseCase{
		registry:  reg,
		evaluator: dropzone.NewEvaluator(reg),
		moves:     moves,
		editMode:  editMode,
		collision: layout.NewCollisionStrategy(frames),
		cfg:       cfg,
		now:       now,
		state:     DragIdle,
	}
}

// AddListener subscribes l to drag start and end.
func (uc *DragSessionUseCase) AddListener(l port.DragModeListener) {
	uc.listeners = append(uc.listeners, l)
}

// Press begins a gesture on id at point. The drag activates immediately
// when no activation delay is configured.
func (uc *DragSessionUseCase) Press(ctx context.Context, id string, at entity.Point) error {
	if err := uc.checkStart(id); err != nil {
		return err
	}
	if uc.cfg.ActivationDelay <= 0 {
		return uc.activate(ctx, id, at)
	}

	uc.state = DragPending
	uc.active = ActiveNode{ID: id}
	uc.pressAt = uc.now()
	uc.pressPoint = at
	logging.FromContext(ctx).Debug().Str("node", id).Msg("drag pending activation")
	return nil
}

// Start activates a drag on id without an activation constraint.
func (uc *DragSessionUseCase) Start(ctx context.Context, id string, at entity.Point) error {
	if err := uc.checkStart(id); err != nil {
		return err
	}
	return uc.activate(ctx, id, at)
}

// Tick activates a pending press whose delay has elapsed. It reports
// whether a drag is in progress afterwards.
func (uc *DragSessionUseCase) Tick(ctx context.Context) bool {
	if uc.state == DragPending && uc.now().Sub(uc.pressAt) >= uc.cfg.ActivationDelay {
		if err := uc.activate(ctx, uc.active.ID, uc.pressPoint); err != nil {
			uc.clear()
		}
	}
	return uc.state == DragDragging
}

// Move feeds one pointer tick. While pending, moving past the tolerance
// abandons the press. While dragging, it updates hit-testing and the
// insertion index.
func (uc *DragSessionUseCase) Move(ctx context.Context, frame Frame) error {
	switch uc.state {
	case DragPending:
		d := frame.Pointer.Add(entity.Point{X: -uc.pressPoint.X, Y: -uc.pressPoint.Y})
		if math.Hypot(d.X, d.Y) > uc.cfg.ActivationTolerance {
			logging.FromContext(ctx).Debug().Msg("press moved past tolerance")
			uc.clear()
			return nil
		}
		if !uc.Tick(ctx) {
			return nil
		}
	case DragDragging:
	default:
		return ErrNoSession
	}

	rects := make(map[string]entity.Rect, len(frame.Droppables))
	for _, d := range frame.Droppables {
		rects[d.ID] = d.Rect
	}
	if uc.activeRect == nil {
		if r, ok := rects[uc.active.ID]; ok {
			uc.activeRect = &r
		}
	}

	collisions := uc.collision.Detect(layout.DetectArgs{
		ActiveID:          uc.active.ID,
		ActiveType:        uc.active.Type,
		OriginContainerID: uc.active.ContainerID,
		Pointer:           frame.Pointer,
		CollisionRect:     uc.collisionRect(frame.Pointer),
		Droppables:        frame.Droppables,
		IsValid:           uc.statuses.IsValid,
	})

	uc.over = ""
	if len(collisions) > 0 {
		uc.over = collisions[0].ID
	}

	if uc.over == "" || !uc.collision.OutsideNow() || !uc.statuses.IsValid(uc.over) {
		uc.tracker.Reset()
		return nil
	}

	orientation, ok := frame.Orientations[uc.over]
	if !ok {
		orientation = layout.Column
	}
	rectOf := func(id string) (entity.Rect, bool) {
		r, ok := rects[id]
		return r, ok
	}
	index := layout.InsertionIndex(uc.registry.ChildrenOf(uc.over), rectOf, orientation, frame.Pointer)
	uc.tracker.Update(uc.over, index)
	return nil
}

// Drop ends the gesture and commits a move when the drop lands somewhere
// new. A pending press is released without a move.
func (uc *DragSessionUseCase) Drop(ctx context.Context) (entity.Move, bool, error) {
	switch uc.state {
	case DragPending:
		uc.clear()
		return entity.Move{}, false, nil
	case DragDragging:
	default:
		return entity.Move{}, false, ErrNoSession
	}

	uc.state = DragCommitting
	move, ok := uc.commit(ctx)
	uc.finish(ctx)
	return move, ok, nil
}

// Cancel abandons the gesture without touching the registry or history.
func (uc *DragSessionUseCase) Cancel(ctx context.Context) error {
	switch uc.state {
	case DragPending:
		uc.clear()
		return nil
	case DragDragging:
		uc.state = DragCancelled
		logging.FromContext(ctx).Debug().Str("node", uc.active.ID).Msg("drag cancelled")
		uc.finish(ctx)
		return nil
	default:
		return ErrNoSession
	}
}

// State returns the current session state.
func (uc *DragSessionUseCase) State() DragState {
	return uc.state
}

// Active returns the dragged node while a drag is in progress.
func (uc *DragSessionUseCase) Active() (ActiveNode, bool) {
	if uc.state != DragDragging {
		return ActiveNode{}, false
	}
	return uc.active, true
}

// Over returns the best hit-test candidate of the last tick.
func (uc *DragSessionUseCase) Over() string {
	return uc.over
}

// DropZoneStatus returns the verdict for containerID in this session.
func (uc *DragSessionUseCase) DropZoneStatus(containerID string) (entity.DropZoneStatus, bool) {
	s, ok := uc.statuses[containerID]
	return s, ok
}

// IsValidDropTarget reports whether containerID accepts the dragged node.
func (uc *DragSessionUseCase) IsValidDropTarget(containerID string) bool {
	return uc.statuses.IsValid(containerID)
}

// InsertionIndex returns the slot the dragged node would take in
// containerID, if that container is the one currently tracked.
func (uc *DragSessionUseCase) InsertionIndex(containerID string) (int, bool) {
	return uc.tracker.For(containerID)
}

// IsOutsideOrigin is the rendered outside-origin flag.
func (uc *DragSessionUseCase) IsOutsideOrigin() bool {
	return uc.collision.IsOutsideOrigin()
}

// ShowOverlay reports whether the surface should draw a floating copy of
// the dragged node. Template instances never leave their container.
func (uc *DragSessionUseCase) ShowOverlay() bool {
	return uc.state == DragDragging &&
		uc.collision.IsOutsideOrigin() &&
		uc.active.Type != entity.NodeTemplate
}

func (uc *DragSessionUseCase) checkStart(id string) error {
	if !uc.editMode.Enabled() {
		return ErrEditModeDisabled
	}
	if uc.state != DragIdle {
		return ErrSessionActive
	}
	if uc.registry.ContainerOf(id) == "" {
		return ErrUnknownNode
	}
	return nil
}

func (uc *DragSessionUseCase) activate(ctx context.Context, id string, at entity.Point) error {
	handle, _ := uc.registry.Item(id)
	uc.active = ActiveNode{
		ID:          id,
		ContainerID: uc.registry.ContainerOf(id),
		Type:        uc.resolveType(id),
		Handle:      handle,
	}
	uc.pressPoint = at
	uc.activeRect = nil
	uc.over = ""
	uc.statuses = uc.evaluator.EvaluateAll(id)
	uc.collision.Reset()
	uc.tracker.Reset()
	uc.state = DragDragging

	logging.FromContext(ctx).Debug().
		Str("node", id).
		Str("origin", uc.active.ContainerID).
		Str("type", string(uc.active.Type)).
		Msg("drag started")
	for _, l := range uc.listeners {
		l.DragModeChanged(ctx, true)
	}
	return nil
}

func (uc *DragSessionUseCase) resolveType(id string) entity.NodeType {
	if info, ok := uc.registry.ItemInfo(id); ok && info.Type != "" {
		return info.Type
	}
	switch {
	case nodeid.IsContainer(id):
		return entity.NodeContainer
	case nodeid.IsTemplate(id):
		return entity.NodeTemplate
	default:
		return entity.NodeItem
	}
}

// collisionRect is the dragged node's rectangle translated by the pointer
// delta, or a unit square under the pointer when its rectangle is unknown.
func (uc *DragSessionUseCase) collisionRect(pointer entity.Point) entity.Rect {
	if uc.activeRect == nil {
		return entity.Rect{X: pointer.X - 0.5, Y: pointer.Y - 0.5, W: 1, H: 1}
	}
	r := *uc.activeRect
	r.X += pointer.X - uc.pressPoint.X
	r.Y += pointer.Y - uc.pressPoint.Y
	return r
}

func (uc *DragSessionUseCase) commit(ctx context.Context) (entity.Move, bool) {
	active, over := uc.active, uc.over
	if over == "" || over == active.ID {
		return entity.Move{}, false
	}

	if !uc.collision.OutsideNow() || active.Type == entity.NodeTemplate {
		siblings := uc.registry.ChildrenOf(active.ContainerID)
		oldIndex := slices.Index(siblings, active.ID)
		newIndex := slices.Index(siblings, over)
		if oldIndex < 0 || newIndex < 0 || oldIndex == newIndex {
			return entity.Move{}, false
		}
		return uc.moves.AddMove(ctx, entity.MoveRequest{
			ItemID:            active.ID,
			SourceContainerID: active.ContainerID,
			DestContainerID:   active.ContainerID,
			OldIndex:          oldIndex,
			NewIndex:          newIndex,
		})
	}

	newIndex, ok := uc.tracker.For(over)
	if !ok || !uc.statuses.IsValid(over) {
		return entity.Move{}, false
	}
	source := uc.registry.ContainerOf(active.ID)
	oldIndex := uc.registry.IndexOf(active.ID)
	// The tracked slot counts the dragged node itself when it never left.
	if source == over && newIndex > oldIndex {
		newIndex--
	}
	return uc.moves.AddMove(ctx, entity.MoveRequest{
		ItemID:            active.ID,
		SourceContainerID: source,
		DestContainerID:   over,
		OldIndex:          oldIndex,
		NewIndex:          newIndex,
	})
}

func (uc *DragSessionUseCase) finish(ctx context.Context) {
	uc.clear()
	for _, l := range uc.listeners {
		l.DragModeChanged(ctx, false)
	}
}

func (uc *DragSessionUseCase) clear() {
	uc.state = DragIdle
	uc.active = ActiveNode{}
	uc.statuses = nil
	uc.activeRect = nil
	uc.over = ""
	uc.tracker.Reset()
	uc.collision.Reset()
}

// DragSnapshot is a read-only view of the session for rendering surfaces.
type DragSnapshot struct {
	State         DragState               `json:"state"`
	ActiveID      string                  `json:"activeId,omitempty"`
	ActiveType    entity.NodeType         `json:"activeType,omitempty"`
	Over          string                  `json:"over,omitempty"`
	OutsideOrigin bool                    `json:"outsideOrigin"`
	ShowOverlay   bool                    `json:"showOverlay"`
	InsertionIn   string                  `json:"insertionContainerId,omitempty"`
	Insertion     *int                    `json:"insertionIndex,omitempty"`
	DropZones     []entity.DropZoneStatus `json:"dropZones,omitempty"`
	EditMode      bool                    `json:"editMode"`
	CanUndo       bool                    `json:"canUndo"`
	CanRedo       bool                    `json:"canRedo"`
}

// Snapshot captures the session state. Edit mode and history flags are
// left for the caller to fill in.
func (uc *DragSessionUseCase) Snapshot() DragSnapshot {
	s := DragSnapshot{
		State:         uc.state,
		OutsideOrigin: uc.collision.IsOutsideOrigin(),
		ShowOverlay:   uc.ShowOverlay(),
	}
	if uc.state == DragDragging {
		s.ActiveID = uc.active.ID
		s.ActiveType = uc.active.Type
		s.Over = uc.over
	}
	if id, index, ok := uc.tracker.Index(); ok {
		s.InsertionIn = id
		s.Insertion = &index
	}
	for _, id := range slices.Sorted(maps.Keys(uc.statuses)) {
		s.DropZones = append(s.DropZones, uc.statuses[id])
	}
	return s
}
