package entity

import "time"

// MoveRequest asks for one relocation. It is the programmatic commit entry
// point; id, timestamp and metadata are filled in when the move is created.
type MoveRequest struct {
	ItemID            string
	SourceContainerID string
	DestContainerID   string
	OldIndex          int
	NewIndex          int
}

// Move is one committed relocation. It is never mutated after creation.
type Move struct {
	ID                string
	ItemID            string
	SourceContainerID string
	DestContainerID   string
	OldIndex          int
	NewIndex          int
	Timestamp         time.Time

	// Descriptive metadata of the moved node, captured at creation.
	MagicID string
	Path    string
	UUID    string
	Type    NodeType
}

// Inverse returns the move that undoes m.
func (m Move) Inverse() Move {
	inv := m
	inv.SourceContainerID, inv.DestContainerID = m.DestContainerID, m.SourceContainerID
	inv.OldIndex, inv.NewIndex = m.NewIndex, m.OldIndex
	return inv
}

// IsInPlace reports whether the move reorders within one container.
func (m Move) IsInPlace() bool {
	return m.SourceContainerID == m.DestContainerID
}

// MoveHistory is the undo/redo log plus its cursor.
// CurrentIndex is -1 when no move is active.
type MoveHistory struct {
	Moves        []Move
	CurrentIndex int
}

// NewMoveHistory returns an empty history.
func NewMoveHistory() *MoveHistory {
	return &MoveHistory{CurrentIndex: -1}
}

// Append truncates everything after the cursor, appends m and moves the
// cursor onto it.
func (h *MoveHistory) Append(m Move) {
	h.Moves = append(h.Moves[:h.CurrentIndex+1], m)
	h.CurrentIndex = len(h.Moves) - 1
}

// Contains reports whether a move with id is anywhere in the log,
// including undone entries.
func (h *MoveHistory) Contains(id string) bool {
	for _, m := range h.Moves {
		if m.ID == id {
			return true
		}
	}
	return false
}

// Current returns the move under the cursor.
func (h *MoveHistory) Current() (Move, bool) {
	if h.CurrentIndex < 0 || h.CurrentIndex >= len(h.Moves) {
		return Move{}, false
	}
	return h.Moves[h.CurrentIndex], true
}

// Next returns the move a redo would replay.
func (h *MoveHistory) Next() (Move, bool) {
	next := h.CurrentIndex + 1
	if next >= len(h.Moves) {
		return Move{}, false
	}
	return h.Moves[next], true
}

// CanUndo reports whether any move is active.
func (h *MoveHistory) CanUndo() bool {
	return h.CurrentIndex >= 0
}

// CanRedo reports whether the cursor is before the end of the log.
func (h *MoveHistory) CanRedo() bool {
	return h.CurrentIndex < len(h.Moves)-1
}

// Active returns the prefix of moves currently applied.
func (h *MoveHistory) Active() []Move {
	return h.Moves[:h.CurrentIndex+1]
}

// Clone returns a copy that shares no backing array with h.
func (h *MoveHistory) Clone() MoveHistory {
	moves := make([]Move, len(h.Moves))
	copy(moves, h.Moves)
	return MoveHistory{Moves: moves, CurrentIndex: h.CurrentIndex}
}
