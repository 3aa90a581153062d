package layout

import "github.com/bnema/composer/internal/domain/entity"

// RectFunc resolves a node's last-known bounding rectangle.
type RectFunc func(id string) (entity.Rect, bool)

// InsertionIndex returns the slot before which the pointer would insert
// into a container with the given ordered children.
//
// The first child whose midpoint along the main axis the pointer has not
// passed wins. A child without a rectangle pulls the result back to 0 but
// does not stop the scan.
func InsertionIndex(children []string, rectOf RectFunc, o Orientation, pointer entity.Point) int {
	if len(children) == 0 {
		return 0
	}

	index := len(children)
	for i, id := range children {
		r, ok := rectOf(id)
		if !ok {
			index = 0
			continue
		}
		if o.Vertical() {
			if pointer.Y < r.Center().Y {
				return i
			}
		} else if pointer.X < r.Center().X {
			return i
		}
	}
	return index
}

// Tracker holds the insertion index computed for the container currently
// hovered, or nothing when no valid container is hovered.
type Tracker struct {
	containerID string
	index       int
	set         bool
}

// Update records index for containerID and reports whether it changed.
func (t *Tracker) Update(containerID string, index int) bool {
	if t.set && t.containerID == containerID && t.index == index {
		return false
	}
	t.containerID, t.index, t.set = containerID, index, true
	return true
}

// Reset clears the tracked index.
func (t *Tracker) Reset() {
	*t = Tracker{}
}

// Index returns the tracked container and index.
func (t *Tracker) Index() (containerID string, index int, ok bool) {
	return t.containerID, t.index, t.set
}

// For returns the tracked index when it belongs to containerID.
func (t *Tracker) For(containerID string) (int, bool) {
	if !t.set || t.containerID != containerID {
		return 0, false
	}
	return t.index, true
}
