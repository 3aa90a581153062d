package layout

import (
	"math"
	"sort"

	"github.com/bnema/composer/internal/domain/entity"
)

// Collision is one hit-test result. Results are ordered best first; Value
// is the metric the producing detector ranked by.
type Collision struct {
	ID    string
	Value float64
}

// FrameScheduler defers a state update to the next rendered frame.
type FrameScheduler interface {
	Schedule(fn func())
}

// FrameQueue is a FrameScheduler drained explicitly by the surface at its
// frame boundary.
type FrameQueue struct {
	pending []func()
}

// Schedule queues fn until the next Flush.
func (q *FrameQueue) Schedule(fn func()) {
	q.pending = append(q.pending, fn)
}

// Flush runs every queued update in order.
func (q *FrameQueue) Flush() {
	pending := q.pending
	q.pending = nil
	for _, fn := range pending {
		fn()
	}
}

// Pending reports how many updates wait for the next frame.
func (q *FrameQueue) Pending() int {
	return len(q.pending)
}

// DetectArgs is the per-tick input to collision detection.
type DetectArgs struct {
	ActiveID          string
	ActiveType        entity.NodeType
	OriginContainerID string
	Pointer           entity.Point
	// CollisionRect is the dragged node's rectangle at the current tick.
	CollisionRect entity.Rect
	Droppables    []entity.Droppable
	IsValid       func(containerID string) bool
}

// CollisionStrategy picks the hit-test policy from where the pointer is
// relative to the dragged node's origin container.
type CollisionStrategy struct {
	frames FrameScheduler

	outsideRef      bool
	outsideRendered bool
}

// NewCollisionStrategy creates a strategy that publishes its rendered
// outside-origin flag through frames.
func NewCollisionStrategy(frames FrameScheduler) *CollisionStrategy {
	return &CollisionStrategy{frames: frames}
}

// Detect runs one tick of hit-testing.
// Inside the origin, and always for template drags, candidates are the
// origin's own children compared by overlap. Outside, candidates are valid
// containers compared by pointer containment.
func (s *CollisionStrategy) Detect(args DetectArgs) []Collision {
	inside := false
	for _, d := range args.Droppables {
		if d.ID == args.OriginContainerID {
			inside = d.Rect.Contains(args.Pointer)
			break
		}
	}

	if next := !inside; next != s.outsideRef {
		s.outsideRef = next
		s.frames.Schedule(func() {
			// A later tick or a reset may have flipped the ref back.
			if s.outsideRef == next {
				s.outsideRendered = next
			}
		})
	}

	if inside || args.ActiveType == entity.NodeTemplate {
		var siblings []entity.Droppable
		for _, d := range args.Droppables {
			if d.ContainerID == args.OriginContainerID {
				siblings = append(siblings, d)
			}
		}
		return RectIntersection(args.CollisionRect, siblings)
	}

	var targets []entity.Droppable
	for _, d := range args.Droppables {
		if d.Type == entity.NodeContainer && args.IsValid != nil && args.IsValid(d.ID) {
			targets = append(targets, d)
		}
	}
	return PointerWithin(args.Pointer, targets)
}

// OutsideNow is the synchronously maintained outside-origin flag.
func (s *CollisionStrategy) OutsideNow() bool {
	return s.outsideRef
}

// IsOutsideOrigin is the outside-origin flag as of the last rendered frame.
func (s *CollisionStrategy) IsOutsideOrigin() bool {
	return s.outsideRendered
}

// Reset clears both flags.
func (s *CollisionStrategy) Reset() {
	s.outsideRef = false
	s.outsideRendered = false
}

// RectIntersection ranks droppables by how much they overlap rect,
// best overlap first. Droppables that do not overlap are omitted.
func RectIntersection(rect entity.Rect, droppables []entity.Droppable) []Collision {
	var out []Collision
	for _, d := range droppables {
		overlap := rect.Intersect(d.Rect).Area()
		if overlap <= 0 {
			continue
		}
		ratio := overlap / (rect.Area() + d.Rect.Area() - overlap)
		out = append(out, Collision{ID: d.ID, Value: ratio})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Value > out[j].Value })
	return out
}

// PointerWithin returns the droppables containing the pointer, nearest
// first by mean distance to their corners.
func PointerWithin(pointer entity.Point, droppables []entity.Droppable) []Collision {
	var out []Collision
	for _, d := range droppables {
		if !d.Rect.Contains(pointer) {
			continue
		}
		var total float64
		for _, c := range d.Rect.Corners() {
			total += math.Hypot(c.X-pointer.X, c.Y-pointer.Y)
		}
		out = append(out, Collision{ID: d.ID, Value: total / 4})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Value < out[j].Value })
	return out
}
