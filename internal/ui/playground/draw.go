package playground

import (
	"github.com/bnema/composer/internal/app/editor"
	"github.com/bnema/composer/internal/application/usecase"
	"github.com/bnema/composer/internal/domain/entity"
)

// draw paints the tree with the drag state layered on top.
func (m Model) draw(snap usecase.DragSnapshot) *canvas {
	c := newCanvas(int(m.scenario.Width), int(m.scenario.Height))

	zones := make(map[string]entity.DropZoneStatus, len(snap.DropZones))
	for _, z := range snap.DropZones {
		zones[z.ContainerID] = z
	}

	var walk func(nodes []editor.TreeNode)
	walk = func(nodes []editor.TreeNode) {
		for _, node := range nodes {
			r, ok := m.rects[node.ID]
			if ok {
				p := paintFrame
				if z, ok := zones[node.ID]; ok && node.IsContainer {
					p = paintDenied
					if z.Valid {
						p = paintValid
					}
				}
				switch node.ID {
				case snap.ActiveID:
					p = paintDragged
				case snap.Over:
					p = paintOver
				}
				c.box(r, p)

				label := paintLabel
				if p != paintFrame {
					label = p
				}
				x0, y0, x1, _ := cellBounds(r)
				c.text(x0+1, y0, m.scenario.NameOf(node.ID), x1-x0-1, label)
			}
			walk(node.Children)
		}
	}
	walk(m.tree)

	if snap.Insertion != nil && snap.InsertionIn != "" {
		m.drawInsertion(c, snap.InsertionIn, *snap.Insertion)
	}
	return c
}

// drawInsertion marks the slot index within containerID: the leading edge
// of the child at index, or the trailing edge of the last child.
func (m Model) drawInsertion(c *canvas, containerID string, index int) {
	node := findNode(m.tree, containerID)
	box, ok := m.rects[containerID]
	if node == nil || !ok {
		return
	}
	vertical := m.scenario.Orientation(containerID).Vertical()

	if len(node.Children) == 0 {
		x0, y0, x1, y1 := cellBounds(box)
		if vertical {
			c.hline(x0+1, x1-1, y0+1, paintMarker)
		} else {
			c.vline(x0+1, y0+1, y1-1, paintMarker)
		}
		return
	}

	trailing := index >= len(node.Children)
	child := node.Children[min(max(index, 0), len(node.Children)-1)]
	r, ok := m.rects[child.ID]
	if !ok {
		return
	}
	x0, y0, x1, y1 := cellBounds(r)
	switch {
	case vertical && trailing:
		c.hline(x0, x1, y1, paintMarker)
	case vertical:
		c.hline(x0, x1, y0, paintMarker)
	case trailing:
		c.vline(x1, y0, y1, paintMarker)
	default:
		c.vline(x0, y0, y1, paintMarker)
	}
}

func findNode(nodes []editor.TreeNode, id string) *editor.TreeNode {
	for i := range nodes {
		if nodes[i].ID == id {
			return &nodes[i]
		}
		if found := findNode(nodes[i].Children, id); found != nil {
			return found
		}
	}
	return nil
}
