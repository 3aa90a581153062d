package usecase

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/bnema/composer/internal/application/port"
	"github.com/bnema/composer/internal/domain/entity"
	"github.com/bnema/composer/internal/domain/registry"
	"github.com/bnema/composer/internal/logging"
)

// IDGenerator is a function type for generating unique IDs.
type IDGenerator func() string

// Clock returns the current time.
type Clock func() time.Time

// NewMoveIDGenerator returns a generator of "move_<unix ms>_<9 chars>" ids.
func NewMoveIDGenerator(now Clock) IDGenerator {
	if now == nil {
		now = time.Now
	}
	return func() string {
		suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:9]
		return fmt.Sprintf("move_%d_%s", now().UnixMilli(), suffix)
	}
}

// ManageMovesUseCase owns the move history: it records committed moves,
// applies them to the registry and replays them for undo and redo.
// Registry state is always the result of applying the active log prefix.
type ManageMovesUseCase struct {
	registry    *registry.Registry
	notifier    port.HostNotifier
	history     *entity.MoveHistory
	now         Clock
	idGenerator IDGenerator
}

// NewManageMovesUseCase creates a move history over reg. A nil notifier
// disables host notifications; nil now and idGenerator use the defaults.
func NewManageMovesUseCase(
	reg *registry.Registry,
	notifier port.HostNotifier,
	now Clock,
	idGenerator IDGenerator,
) *ManageMovesUseCase {
	if now == nil {
		now = time.Now
	}
	if idGenerator == nil {
		idGenerator = NewMoveIDGenerator(now)
	}
	return &ManageMovesUseCase{
		registry:    reg,
		notifier:    notifier,
		history:     entity.NewMoveHistory(),
		now:         now,
		idGenerator: idGenerator,
	}
}

// AddMove turns a request into a Move and records it.
//
// Indices are normalized against the live registry: the old index is the
// item's current position in the source container and the new index is
// clamped to the destination. Requests for items the source container does
// not hold, and requests that would leave the item in place, are dropped.
func (uc *ManageMovesUseCase) AddMove(ctx context.Context, req entity.MoveRequest) (entity.Move, bool) {
	log := logging.FromContext(ctx)

	current := slices.Index(uc.registry.ChildrenOf(req.SourceContainerID), req.ItemID)
	if current < 0 {
		log.Warn().
			Str("item", req.ItemID).
			Str("source", req.SourceContainerID).
			Msg("move dropped: item not in source container")
		return entity.Move{}, false
	}
	if current != req.OldIndex {
		log.Debug().
			Int("requested", req.OldIndex).
			Int("actual", current).
			Str("item", req.ItemID).
			Msg("move old index corrected")
	}

	limit := len(uc.registry.ChildrenOf(req.DestContainerID))
	if req.SourceContainerID == req.DestContainerID {
		limit--
	}
	newIndex := max(0, min(req.NewIndex, limit))

	if req.SourceContainerID == req.DestContainerID && newIndex == current {
		log.Debug().Str("item", req.ItemID).Msg("move dropped: position unchanged")
		return entity.Move{}, false
	}

	info, _ := uc.registry.ItemInfo(req.ItemID)
	move := entity.Move{
		ID:                uc.idGenerator(),
		ItemID:            req.ItemID,
		SourceContainerID: req.SourceContainerID,
		DestContainerID:   req.DestContainerID,
		OldIndex:          current,
		NewIndex:          newIndex,
		Timestamp:         uc.now(),
		MagicID:           info.MagicID,
		Path:              info.Path,
		UUID:              info.UUID,
		Type:              info.Type,
	}

	if !uc.Record(ctx, move) {
		return entity.Move{}, false
	}
	return move, true
}

// Record appends move after the cursor, discarding any redo tail, applies
// it and notifies the host. A move whose id is already in the log, undone
// or not, is ignored.
func (uc *ManageMovesUseCase) Record(ctx context.Context, move entity.Move) bool {
	ctx = logging.WithMoveID(ctx, move.ID)
	log := logging.FromContext(ctx)

	if uc.history.Contains(move.ID) {
		log.Debug().Msg("duplicate move commit ignored")
		return false
	}

	uc.history.Append(move)
	uc.apply(ctx, move)

	log.Info().
		Str("item", move.ItemID).
		Str("from", move.SourceContainerID).
		Str("to", move.DestContainerID).
		Int("old_index", move.OldIndex).
		Int("new_index", move.NewIndex).
		Msg("move committed")

	uc.notify(ctx, uc.elementMoved(move))
	return true
}

// Undo reverts the move under the cursor. It reports false on an empty
// history.
func (uc *ManageMovesUseCase) Undo(ctx context.Context) (entity.Move, bool) {
	move, ok := uc.history.Current()
	if !ok {
		logging.FromContext(ctx).Debug().Msg("nothing to undo")
		return entity.Move{}, false
	}
	ctx = logging.WithMoveID(ctx, move.ID)

	uc.history.CurrentIndex--
	uc.apply(ctx, move.Inverse())

	logging.FromContext(ctx).Info().Str("item", move.ItemID).Msg("move undone")
	uc.notify(ctx, port.HostMessage{
		Type:          port.HostUndoElementMoved,
		MagicpathID:   move.MagicID,
		MagicpathPath: move.Path,
		MoveID:        move.ID,
	})
	return move, true
}

// Redo replays the move after the cursor. It reports false when the cursor
// is already at the end of the log.
func (uc *ManageMovesUseCase) Redo(ctx context.Context) (entity.Move, bool) {
	move, ok := uc.history.Next()
	if !ok {
		logging.FromContext(ctx).Debug().Msg("nothing to redo")
		return entity.Move{}, false
	}
	ctx = logging.WithMoveID(ctx, move.ID)

	uc.history.CurrentIndex++
	uc.apply(ctx, move)

	logging.FromContext(ctx).Info().Str("item", move.ItemID).Msg("move redone")
	uc.notify(ctx, uc.elementMoved(move))
	return move, true
}

// History returns a copy of the log and cursor.
func (uc *ManageMovesUseCase) History() entity.MoveHistory {
	return uc.history.Clone()
}

// CanUndo reports whether a move is active.
func (uc *ManageMovesUseCase) CanUndo() bool {
	return uc.history.CanUndo()
}

// CanRedo reports whether an undone move can be replayed.
func (uc *ManageMovesUseCase) CanRedo() bool {
	return uc.history.CanRedo()
}

func (uc *ManageMovesUseCase) apply(ctx context.Context, m entity.Move) {
	if !uc.registry.ApplyMove(m.ItemID, m.SourceContainerID, m.DestContainerID, m.OldIndex, m.NewIndex) {
		logging.FromContext(ctx).Debug().
			Str("item", m.ItemID).
			Str("source", m.SourceContainerID).
			Int("old_index", m.OldIndex).
			Msg("stale move not applied")
	}
}

func (uc *ManageMovesUseCase) elementMoved(m entity.Move) port.HostMessage {
	src, _ := uc.registry.ContainerInfo(m.SourceContainerID)
	dst, _ := uc.registry.ContainerInfo(m.DestContainerID)
	return port.HostMessage{
		Type:          port.HostElementMoved,
		MagicpathID:   m.MagicID,
		MagicpathPath: m.Path,
		MagicpathUUID: m.UUID,
		Move: &port.MovePayload{
			DestContainerID:     dst.MagicID,
			DestContainerPath:   dst.Path,
			SourceContainerID:   src.MagicID,
			SourceContainerPath: src.Path,
			NewIndex:            m.NewIndex,
			OldIndex:            m.OldIndex,
			Timestamp:           m.Timestamp.UnixMilli(),
			MoveID:              m.ID,
			Type:                string(m.Type),
		},
	}
}

func (uc *ManageMovesUseCase) notify(ctx context.Context, msg port.HostMessage) {
	if uc.notifier == nil {
		return
	}
	if err := uc.notifier.Notify(ctx, msg); err != nil {
		logging.FromContext(ctx).Warn().Err(err).Str("type", string(msg.Type)).Msg("host notification failed")
	}
}
