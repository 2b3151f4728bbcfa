package address

import "strings"

// Subarea names one of nine target points inside a grid cell.
type Subarea string

const (
	Center      Subarea = "center"
	TopLeft     Subarea = "top-left"
	Top         Subarea = "top"
	TopRight    Subarea = "top-right"
	Left        Subarea = "left"
	Right       Subarea = "right"
	BottomLeft  Subarea = "bottom-left"
	Bottom      Subarea = "bottom"
	BottomRight Subarea = "bottom-right"
)

// Subareas lists all nine names.
var Subareas = []Subarea{TopLeft, Top, TopRight, Left, Center, Right, BottomLeft, Bottom, BottomRight}

// ParseSubarea normalizes a model-supplied name. Unrecognized names are kept
// as-is and resolve to the cell midpoint.
func ParseSubarea(s string) Subarea {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.NewReplacer("_", "-", " ", "-").Replace(s)
	return Subarea(s)
}

// fractions returns the offset of the subarea inside a cell in quarters.
func (s Subarea) fractions() (fx, fy int) {
	switch s {
	case TopLeft:
		return 1, 1
	case Top:
		return 2, 1
	case TopRight:
		return 3, 1
	case Left:
		return 1, 2
	case Right:
		return 3, 2
	case BottomLeft:
		return 1, 3
	case Bottom:
		return 2, 3
	case BottomRight:
		return 3, 3
	default:
		return 2, 2
	}
}
