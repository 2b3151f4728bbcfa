package address

const (
	minUnit     = 120
	maxUnit     = 180
	defaultUnit = 120
)

// unitLength returns the smallest divisor of n within [minUnit, maxUnit],
// or defaultUnit when none exists.
func unitLength(n int) int {
	for i := minUnit; i <= maxUnit && i <= n; i++ {
		if n%i == 0 {
			return i
		}
	}
	return defaultUnit
}

// Layout picks the grid dimensions for a screen when grid mode is entered.
// Cells are roughly 120-180 pixels on each side.
func Layout(width, height int) (rows, cols int) {
	rows = height / unitLength(height)
	cols = width / unitLength(width)
	if rows < 1 {
		rows = 1
	}
	if cols < 1 {
		cols = 1
	}
	return rows, cols
}

// UnitSize returns the cell width and height used by Layout, for drawing.
func UnitSize(width, height int) (w, h int) {
	return unitLength(width), unitLength(height)
}
