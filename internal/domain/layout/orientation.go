// Package layout turns pointer positions and node rectangles into drop
// decisions: which candidate the pointer is over, and where in that
// candidate's children the dragged node would land.
package layout

import "strings"

// Orientation is the main axis along which a container lays out children.
type Orientation string

const (
	Row    Orientation = "row"
	Column Orientation = "column"
	// Grid sorts along the horizontal axis like Row.
	Grid Orientation = "grid"
)

// ResolveOrientation maps a container's computed display and flex-direction
// to an orientation. Unknown layouts are treated as columns.
func ResolveOrientation(display, flexDirection string) Orientation {
	display = strings.ToLower(strings.TrimSpace(display))
	flexDirection = strings.ToLower(strings.TrimSpace(flexDirection))

	switch {
	case strings.HasSuffix(display, "flex") && strings.HasPrefix(flexDirection, "row"):
		return Row
	case strings.HasSuffix(display, "flex"):
		return Column
	case strings.HasSuffix(display, "grid"):
		return Grid
	default:
		return Column
	}
}

// ParseOrientation accepts a stored orientation name, defaulting to Column.
func ParseOrientation(s string) Orientation {
	switch Orientation(strings.ToLower(s)) {
	case Row:
		return Row
	case Grid:
		return Grid
	default:
		return Column
	}
}

// Vertical reports whether children stack along the y axis.
func (o Orientation) Vertical() bool {
	return o != Row && o != Grid
}
