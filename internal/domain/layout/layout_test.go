package layout_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/composer/internal/domain/entity"
	"github.com/bnema/composer/internal/domain/layout"
)

func TestResolveOrientation(t *testing.T) {
	tests := []struct {
		display, direction string
		want               layout.Orientation
	}{
		{"flex", "row", layout.Row},
		{"inline-flex", "row-reverse", layout.Row},
		{"flex", "column", layout.Column},
		{"flex", "", layout.Column},
		{"grid", "", layout.Grid},
		{"inline-grid", "row", layout.Grid},
		{"block", "row", layout.Column},
		{"", "", layout.Column},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, layout.ResolveOrientation(tt.display, tt.direction), "%s/%s", tt.display, tt.direction)
	}
	assert.False(t, layout.Grid.Vertical())
	assert.True(t, layout.Column.Vertical())
}

func rects(m map[string]entity.Rect) layout.RectFunc {
	return func(id string) (entity.Rect, bool) {
		r, ok := m[id]
		return r, ok
	}
}

func TestInsertionIndex_ColumnMidpoints(t *testing.T) {
	children := []string{"a", "b", "c"}
	// Midpoints at y = 10, 30, 50.
	rectOf := rects(map[string]entity.Rect{
		"a": {X: 0, Y: 0, W: 100, H: 20},
		"b": {X: 0, Y: 20, W: 100, H: 20},
		"c": {X: 0, Y: 40, W: 100, H: 20},
	})

	for y, want := range map[float64]int{5: 0, 20: 1, 40: 2, 100: 3} {
		got := layout.InsertionIndex(children, rectOf, layout.Column, entity.Point{X: 50, Y: y})
		assert.Equal(t, want, got, "pointer y=%v", y)
	}
}

func TestInsertionIndex_RowUsesHorizontalAxis(t *testing.T) {
	children := []string{"a", "b"}
	rectOf := rects(map[string]entity.Rect{
		"a": {X: 0, Y: 0, W: 40, H: 100},
		"b": {X: 40, Y: 0, W: 40, H: 100},
	})

	assert.Equal(t, 1, layout.InsertionIndex(children, rectOf, layout.Row, entity.Point{X: 30, Y: 0}))
	assert.Equal(t, 2, layout.InsertionIndex(children, rectOf, layout.Grid, entity.Point{X: 70, Y: 0}))
}

func TestInsertionIndex_EmptyAndMissingRects(t *testing.T) {
	none := rects(nil)
	assert.Equal(t, 0, layout.InsertionIndex(nil, none, layout.Column, entity.Point{Y: 500}))
	assert.Equal(t, 0, layout.InsertionIndex([]string{"a", "b"}, none, layout.Column, entity.Point{Y: 500}))

	partial := rects(map[string]entity.Rect{"b": {Y: 20, H: 20}})
	assert.Equal(t, 1, layout.InsertionIndex([]string{"a", "b"}, partial, layout.Column, entity.Point{Y: 25}))
}

func TestTracker(t *testing.T) {
	var tr layout.Tracker
	_, ok := tr.For("c1")
	assert.False(t, ok)

	assert.True(t, tr.Update("c1", 2))
	assert.False(t, tr.Update("c1", 2))
	idx, ok := tr.For("c1")
	require.True(t, ok)
	assert.Equal(t, 2, idx)

	_, ok = tr.For("c2")
	assert.False(t, ok)

	tr.Reset()
	_, _, ok = tr.Index()
	assert.False(t, ok)
}

func TestRectIntersection_RanksByOverlap(t *testing.T) {
	active := entity.Rect{X: 0, Y: 15, W: 100, H: 20}
	got := layout.RectIntersection(active, []entity.Droppable{
		{ID: "a", Rect: entity.Rect{X: 0, Y: 0, W: 100, H: 20}},
		{ID: "b", Rect: entity.Rect{X: 0, Y: 20, W: 100, H: 20}},
		{ID: "far", Rect: entity.Rect{X: 0, Y: 200, W: 100, H: 20}},
	})

	require.Len(t, got, 2)
	assert.Equal(t, "b", got[0].ID)
	assert.Equal(t, "a", got[1].ID)
}

func TestPointerWithin_NearestFirst(t *testing.T) {
	got := layout.PointerWithin(entity.Point{X: 15, Y: 15}, []entity.Droppable{
		{ID: "outer", Rect: entity.Rect{X: 0, Y: 0, W: 200, H: 200}},
		{ID: "inner", Rect: entity.Rect{X: 10, Y: 10, W: 20, H: 20}},
		{ID: "miss", Rect: entity.Rect{X: 100, Y: 100, W: 20, H: 20}},
	})

	require.Len(t, got, 2)
	assert.Equal(t, "inner", got[0].ID)
	assert.Equal(t, "outer", got[1].ID)
}

func detectArgs(pointer entity.Point, activeType entity.NodeType) layout.DetectArgs {
	return layout.DetectArgs{
		ActiveID:          "a",
		ActiveType:        activeType,
		OriginContainerID: "origin",
		Pointer:           pointer,
		CollisionRect:     entity.Rect{X: pointer.X - 5, Y: pointer.Y - 5, W: 10, H: 10},
		Droppables: []entity.Droppable{
			{ID: "origin", Type: entity.NodeContainer, Rect: entity.Rect{X: 0, Y: 0, W: 100, H: 100}},
			{ID: "a", ContainerID: "origin", Type: entity.NodeItem, Rect: entity.Rect{X: 0, Y: 0, W: 100, H: 50}},
			{ID: "b", ContainerID: "origin", Type: entity.NodeItem, Rect: entity.Rect{X: 0, Y: 50, W: 100, H: 50}},
			{ID: "valid", Type: entity.NodeContainer, Rect: entity.Rect{X: 200, Y: 0, W: 100, H: 100}},
			{ID: "invalid", Type: entity.NodeContainer, Rect: entity.Rect{X: 200, Y: 0, W: 100, H: 100}},
		},
		IsValid: func(id string) bool { return id == "valid" },
	}
}

func TestCollisionStrategy_InsideOriginUsesSiblings(t *testing.T) {
	var frames layout.FrameQueue
	s := layout.NewCollisionStrategy(&frames)

	got := s.Detect(detectArgs(entity.Point{X: 50, Y: 75}, entity.NodeItem))
	require.NotEmpty(t, got)
	assert.Equal(t, "b", got[0].ID)
	assert.False(t, s.OutsideNow())
	assert.Zero(t, frames.Pending())
}

func TestCollisionStrategy_OutsideOriginUsesValidContainers(t *testing.T) {
	var frames layout.FrameQueue
	s := layout.NewCollisionStrategy(&frames)

	got := s.Detect(detectArgs(entity.Point{X: 250, Y: 50}, entity.NodeItem))
	require.Len(t, got, 1)
	assert.Equal(t, "valid", got[0].ID)

	assert.True(t, s.OutsideNow())
	assert.False(t, s.IsOutsideOrigin(), "rendered flag waits for the next frame")
	frames.Flush()
	assert.True(t, s.IsOutsideOrigin())
}

func TestCollisionStrategy_TemplateStaysInOrigin(t *testing.T) {
	var frames layout.FrameQueue
	s := layout.NewCollisionStrategy(&frames)

	got := s.Detect(detectArgs(entity.Point{X: 250, Y: 50}, entity.NodeTemplate))
	assert.Empty(t, got, "siblings only, none overlap a pointer outside the origin")
	assert.True(t, s.OutsideNow())
}

func TestCollisionStrategy_StaleFrameUpdateIgnored(t *testing.T) {
	var frames layout.FrameQueue
	s := layout.NewCollisionStrategy(&frames)

	s.Detect(detectArgs(entity.Point{X: 250, Y: 50}, entity.NodeItem))
	s.Reset()
	frames.Flush()
	assert.False(t, s.IsOutsideOrigin())
}
