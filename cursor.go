package main

// Cursor is the left cell of the horizontal 2-cell selector. It is always
// kept inside [0,width-2] x [0,height-1].
type Cursor struct {
	X int
	Y int
}

// MoveBy clamps the cursor into bounds after applying the delta and reports
// whether the position actually changed. Movement never fails; deltas that
// point off the board simply clamp at the edge.
func (c *Cursor) MoveBy(dx, dy, width, height int) bool {
	if width < 2 || height == 0 {
		return false
	}
	nx := clampInt(c.X+dx, 0, width-2)
	ny := clampInt(c.Y+dy, 0, height-1)
	changed := nx != c.X || ny != c.Y
	c.X = nx
	c.Y = ny
	return changed
}

// SwapCmd names the two adjacent cells of a swap, always the cursor's
// horizontal footprint.
type SwapCmd struct {
	AX, AY int
	BX, BY int
}

// SwapRightOf builds the swap command for (x,y) and the cell to its right.
func SwapRightOf(x, y int) SwapCmd {
	return SwapCmd{AX: x, AY: y, BX: x + 1, BY: y}
}

func clampInt(value, lo, hi int) int {
	if value < lo {
		return lo
	}
	if value > hi {
		return hi
	}
	return value
}
