package scenario

import (
	"math"

	"github.com/bnema/composer/internal/app/editor"
	"github.com/bnema/composer/internal/application/usecase"
	"github.com/bnema/composer/internal/domain/entity"
	"github.com/bnema/composer/internal/domain/layout"
)

// Arrange lays tree out inside bounds on whole cells. Roots stack top to
// bottom; a container's children share its interior, inset by one cell,
// along the container's orientation.
func Arrange(tree []editor.TreeNode, orientation func(id string) layout.Orientation, bounds entity.Rect) map[string]entity.Rect {
	rects := make(map[string]entity.Rect)
	arrange(tree, layout.Column, bounds, orientation, rects)
	return rects
}

func arrange(nodes []editor.TreeNode, o layout.Orientation, area entity.Rect, orientation func(string) layout.Orientation, rects map[string]entity.Rect) {
	n := float64(len(nodes))
	for i, node := range nodes {
		r := area
		if o.Vertical() {
			r.Y, r.H = split(area.Y, area.H, float64(i), n)
		} else {
			r.X, r.W = split(area.X, area.W, float64(i), n)
		}
		rects[node.ID] = r

		if node.IsContainer && len(node.Children) > 0 {
			inner := entity.Rect{X: r.X + 1, Y: r.Y + 1, W: math.Max(r.W-2, 0), H: math.Max(r.H-2, 0)}
			arrange(node.Children, orientation(node.ID), inner, orientation, rects)
		}
	}
}

// split returns the start and length of slot i of n along one axis.
func split(start, length, i, n float64) (float64, float64) {
	from := math.Floor(i * length / n)
	to := math.Floor((i + 1) * length / n)
	return start + from, to - from
}

// Rects arranges the editor's current tree and applies the rectangles
// pinned in the scenario file.
func (s *Scenario) Rects(tree []editor.TreeNode) map[string]entity.Rect {
	rects := Arrange(tree, s.Orientation, s.Bounds())
	for name, n := range s.nodes {
		if len(n.Rect) == 4 {
			rects[s.ids[name]] = entity.Rect{X: n.Rect[0], Y: n.Rect[1], W: n.Rect[2], H: n.Rect[3]}
		}
	}
	return rects
}

// Frame builds the hit-test frame for pointer from the editor's tree.
func (s *Scenario) Frame(e *editor.Editor, tree []editor.TreeNode, rects map[string]entity.Rect, pointer entity.Point) usecase.Frame {
	frame := usecase.Frame{
		Pointer:      pointer,
		Orientations: make(map[string]layout.Orientation),
	}

	var walk func(nodes []editor.TreeNode, parent string)
	walk = func(nodes []editor.TreeNode, parent string) {
		for _, node := range nodes {
			r, ok := rects[node.ID]
			if ok {
				frame.Droppables = append(frame.Droppables, entity.Droppable{
					ID:          node.ID,
					ContainerID: parent,
					Type:        nodeType(e, node),
					Rect:        r,
				})
			}
			if node.IsContainer {
				frame.Orientations[node.ID] = s.Orientation(node.ID)
				walk(node.Children, node.ID)
			}
		}
	}
	walk(tree, "")
	return frame
}

func nodeType(e *editor.Editor, node editor.TreeNode) entity.NodeType {
	if node.IsContainer {
		return entity.NodeContainer
	}
	if info, ok := e.ItemInfo(node.ID); ok && info.Type != "" {
		return info.Type
	}
	return entity.NodeItem
}
