package main

import (
	"fmt"
	"math/rand"
	"time"
)

// colorRetryAttempts bounds the anti-match color picks used when filling the
// board, pushing a fresh bottom row and converting cracked garbage. If every
// attempt collides the last color is accepted anyway, so an accidental match
// stays possible but rare.
const colorRetryAttempts = 10

// ClearStats reports one clear pass: how many cells were cleared, how many
// disjoint 4-connected groups they formed, and the mark mask itself. The mask
// is consumed by garbage cracking.
type ClearStats struct {
	Cleared int
	Groups  int
	Marks   []bool
}

// Grid is a fixed-size board of blocks stored row-major, index y*Width+x,
// with y=0 the bottom row. All access is by coordinate; out-of-range
// coordinates on Get/Set are programmer errors and panic.
type Grid struct {
	Width  int
	Height int
	cells  []Block
	rng    *rand.Rand
}

func NewGrid(width, height int) *Grid {
	return NewGridWithRand(width, height, rand.New(rand.NewSource(time.Now().UnixNano())))
}

func NewGridWithRand(width, height int, rng *rand.Rand) *Grid {
	return &Grid{
		Width:  width,
		Height: height,
		cells:  make([]Block, width*height),
		rng:    rng,
	}
}

func (g *Grid) idx(x, y int) int {
	if x < 0 || x >= g.Width || y < 0 || y >= g.Height {
		panic(fmt.Sprintf("grid: cell (%d,%d) outside %dx%d board", x, y, g.Width, g.Height))
	}
	return y*g.Width + x
}

func (g *Grid) inBounds(x, y int) bool {
	return x >= 0 && x < g.Width && y >= 0 && y < g.Height
}

func (g *Grid) Get(x, y int) Block {
	return g.cells[g.idx(x, y)]
}

func (g *Grid) Set(x, y int, b Block) {
	g.cells[g.idx(x, y)] = b
}

// Clear empties every cell.
func (g *Grid) Clear() {
	for i := range g.cells {
		g.cells[i] = Block{}
	}
}

func (g *Grid) swap(ax, ay, bx, by int) {
	a := g.idx(ax, ay)
	b := g.idx(bx, by)
	g.cells[a], g.cells[b] = g.cells[b], g.cells[a]
}

// SwapInBounds swaps the two cells named by cmd. It refuses, leaving the
// board untouched, if either coordinate is out of range or either cell holds
// a garbage block. Garbage is never swappable.
func (g *Grid) SwapInBounds(cmd SwapCmd) bool {
	if !g.inBounds(cmd.AX, cmd.AY) || !g.inBounds(cmd.BX, cmd.BY) {
		return false
	}
	if g.Get(cmd.AX, cmd.AY).IsGarbage() || g.Get(cmd.BX, cmd.BY).IsGarbage() {
		return false
	}
	g.swap(cmd.AX, cmd.AY, cmd.BX, cmd.BY)
	return true
}

// FillTestPattern fills the bottom half of the board with colors picked so
// that no 3-in-a-row exists at placement time.
func (g *Grid) FillTestPattern() {
	filledRows := g.Height / 2
	for y := 0; y < filledRows; y++ {
		for x := 0; x < g.Width; x++ {
			g.Set(x, y, NormalBlock(g.pickNonMatchingColor(x, y)))
		}
	}
}

func (g *Grid) pickNonMatchingColor(x, y int) BlockColor {
	color := randomColor(g.rng)
	for attempt := 0; attempt < colorRetryAttempts; attempt++ {
		if !g.wouldCreateMatch(x, y, color) {
			break
		}
		color = randomColor(g.rng)
	}
	return color
}

// wouldCreateMatch reports whether placing color at (x,y) completes a
// horizontal or vertical run of three with the blocks already on the board.
func (g *Grid) wouldCreateMatch(x, y int, color BlockColor) bool {
	same := func(nx, ny int) bool {
		if !g.inBounds(nx, ny) {
			return false
		}
		c, ok := g.Get(nx, ny).MatchColor()
		return ok && c == color
	}
	if same(x-1, y) && same(x-2, y) {
		return true
	}
	if same(x+1, y) && same(x+2, y) {
		return true
	}
	if same(x-1, y) && same(x+1, y) {
		return true
	}
	if same(x, y-1) && same(x, y-2) {
		return true
	}
	if same(x, y+1) && same(x, y+2) {
		return true
	}
	if same(x, y-1) && same(x, y+1) {
		return true
	}
	return false
}

func (g *Grid) sameColor(ax, ay, bx, by int) bool {
	a, okA := g.Get(ax, ay).MatchColor()
	b, okB := g.Get(bx, by).MatchColor()
	return okA && okB && a == b
}

// findMatches marks every cell inside a maximal run of three or more
// same-colored normal blocks, scanning rows and columns independently and
// unioning the marks.
func (g *Grid) findMatches() []bool {
	marks := make([]bool, g.Width*g.Height)

	for y := 0; y < g.Height; y++ {
		runStart := 0
		runLen := 1
		for x := 1; x < g.Width; x++ {
			if g.sameColor(x, y, x-1, y) {
				runLen++
				continue
			}
			if runLen >= 3 {
				for rx := runStart; rx < runStart+runLen; rx++ {
					marks[g.idx(rx, y)] = true
				}
			}
			runStart = x
			runLen = 1
		}
		if runLen >= 3 {
			for rx := runStart; rx < runStart+runLen; rx++ {
				marks[g.idx(rx, y)] = true
			}
		}
	}

	for x := 0; x < g.Width; x++ {
		runStart := 0
		runLen := 1
		for y := 1; y < g.Height; y++ {
			if g.sameColor(x, y, x, y-1) {
				runLen++
				continue
			}
			if runLen >= 3 {
				for ry := runStart; ry < runStart+runLen; ry++ {
					marks[g.idx(x, ry)] = true
				}
			}
			runStart = y
			runLen = 1
		}
		if runLen >= 3 {
			for ry := runStart; ry < runStart+runLen; ry++ {
				marks[g.idx(x, ry)] = true
			}
		}
	}

	return marks
}

// HasMatches reports whether any cell participates in a run of three or more.
func (g *Grid) HasMatches() bool {
	for _, marked := range g.findMatches() {
		if marked {
			return true
		}
	}
	return false
}

// ClearMatchesOnceWithStats finds matches, clears the marked cells and
// reports the pass. With no match present it returns zeroed stats and
// mutates nothing.
func (g *Grid) ClearMatchesOnceWithStats() ClearStats {
	marks := g.findMatches()
	matched := false
	for _, m := range marks {
		if m {
			matched = true
			break
		}
	}
	if !matched {
		return ClearStats{Marks: marks}
	}
	groups := g.countMatchGroups(marks)
	cleared := 0
	for i, m := range marks {
		if m {
			g.cells[i] = Block{}
			cleared++
		}
	}
	return ClearStats{Cleared: cleared, Groups: groups, Marks: marks}
}

// countMatchGroups counts 4-connected clusters within the mark mask. One
// cluster is one simultaneous clear group, used for multi-clear bonuses.
func (g *Grid) countMatchGroups(marks []bool) int {
	visited := make([]bool, len(marks))
	groups := 0
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			start := g.idx(x, y)
			if !marks[start] || visited[start] {
				continue
			}
			groups++
			stack := [][2]int{{x, y}}
			visited[start] = true
			for len(stack) > 0 {
				cx, cy := stack[len(stack)-1][0], stack[len(stack)-1][1]
				stack = stack[:len(stack)-1]
				for _, n := range neighbors4(cx, cy) {
					if !g.inBounds(n[0], n[1]) {
						continue
					}
					nidx := g.idx(n[0], n[1])
					if marks[nidx] && !visited[nidx] {
						visited[nidx] = true
						stack = append(stack, n)
					}
				}
			}
		}
	}
	return groups
}

func neighbors4(x, y int) [4][2]int {
	return [4][2]int{{x - 1, y}, {x + 1, y}, {x, y - 1}, {x, y + 1}}
}

// garbageComponent is one rigid 4-connected cluster of garbage cells.
// canFall is true when every cell sits above an empty cell or another cell of
// the same component, and none is on the bottom row.
type garbageComponent struct {
	cells   [][2]int
	canFall bool
}

// garbageComponents flood-fills garbage clusters over a snapshot of cells.
// The snapshot is never mutated, so fall decisions are order-independent.
func garbageComponents(cells []Block, width, height int) []garbageComponent {
	idx := func(x, y int) int { return y*width + x }
	visited := make([]bool, len(cells))
	var components []garbageComponent

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			start := idx(x, y)
			if visited[start] || !cells[start].IsGarbage() {
				continue
			}
			var component [][2]int
			stack := [][2]int{{x, y}}
			visited[start] = true
			inComponent := make(map[int]bool)
			for len(stack) > 0 {
				cx, cy := stack[len(stack)-1][0], stack[len(stack)-1][1]
				stack = stack[:len(stack)-1]
				component = append(component, [2]int{cx, cy})
				inComponent[idx(cx, cy)] = true
				for _, n := range neighbors4(cx, cy) {
					if n[0] < 0 || n[0] >= width || n[1] < 0 || n[1] >= height {
						continue
					}
					nidx := idx(n[0], n[1])
					if !visited[nidx] && cells[nidx].IsGarbage() {
						visited[nidx] = true
						stack = append(stack, n)
					}
				}
			}

			canFall := true
			for _, c := range component {
				if c[1] == 0 {
					canFall = false
					break
				}
				below := idx(c[0], c[1]-1)
				if !cells[below].IsEmpty() && !inComponent[below] {
					canFall = false
					break
				}
			}
			components = append(components, garbageComponent{cells: component, canFall: canFall})
		}
	}
	return components
}

// ApplyGravityStep advances all loose material by exactly one row and reports
// whether anything moved. Normal blocks fall cell by cell; garbage falls as
// rigid connected components, all qualifying components together in the same
// step. Both rules are decided against a snapshot of the pre-step board.
func (g *Grid) ApplyGravityStep() bool {
	if g.Height < 2 {
		return false
	}
	snapshot := make([]Block, len(g.cells))
	copy(snapshot, g.cells)

	type move struct {
		from, to int
	}
	var moves []move

	for x := 0; x < g.Width; x++ {
		for y := 1; y < g.Height; y++ {
			from := g.idx(x, y)
			below := g.idx(x, y-1)
			if snapshot[from].Kind == BlockNormal && snapshot[below].IsEmpty() {
				moves = append(moves, move{from: from, to: below})
			}
		}
	}

	for _, component := range garbageComponents(snapshot, g.Width, g.Height) {
		if !component.canFall {
			continue
		}
		for _, c := range component.cells {
			moves = append(moves, move{from: g.idx(c[0], c[1]), to: g.idx(c[0], c[1]-1)})
		}
	}

	if len(moves) == 0 {
		return false
	}
	for _, m := range moves {
		g.cells[m.from] = Block{}
	}
	for _, m := range moves {
		g.cells[m.to] = snapshot[m.from]
	}
	return true
}

// ApplyGravity runs gravity steps until the board is stable. Used for
// one-shot layouts, not the per-frame staged descent of active play.
func (g *Grid) ApplyGravity() {
	for g.ApplyGravityStep() {
	}
}

// HasFallingGarbage reports whether any garbage component currently
// qualifies to fall. The rise timer is gated on this so the stack never
// rises under garbage that is still settling.
func (g *Grid) HasFallingGarbage() bool {
	for _, component := range garbageComponents(g.cells, g.Width, g.Height) {
		if component.canFall {
			return true
		}
	}
	return false
}

// CrackAdjacentGarbage cracks whole garbage components touched by the clear
// described by marks: if any cell of a component is 4-adjacent to a marked
// cell, every intact cell of that component becomes cracked. Returns the
// number of cells cracked.
func (g *Grid) CrackAdjacentGarbage(marks []bool) int {
	cracked := 0
	for _, component := range garbageComponents(g.cells, g.Width, g.Height) {
		touched := false
		for _, c := range component.cells {
			if g.hasAdjacentMark(c[0], c[1], marks) {
				touched = true
				break
			}
		}
		if !touched {
			continue
		}
		for _, c := range component.cells {
			b := g.Get(c[0], c[1])
			if b.IsGarbage() && !b.Cracked {
				g.Set(c[0], c[1], GarbageBlock(true))
				cracked++
			}
		}
	}
	return cracked
}

func (g *Grid) hasAdjacentMark(x, y int, marks []bool) bool {
	for _, n := range neighbors4(x, y) {
		if g.inBounds(n[0], n[1]) && marks[g.idx(n[0], n[1])] {
			return true
		}
	}
	return false
}

// ConvertCrackedGarbage turns every cracked garbage cell into a normal block
// with a color picked to avoid an immediate match. Returns the number of
// cells converted.
func (g *Grid) ConvertCrackedGarbage() int {
	converted := 0
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			b := g.Get(x, y)
			if b.IsGarbage() && b.Cracked {
				g.Set(x, y, NormalBlock(g.pickNonMatchingColor(x, y)))
				converted++
			}
		}
	}
	return converted
}

// PushBottomRow shifts every row up by one and fills the bottom row with
// fresh non-matching colors. A board whose top row is occupied is left
// untouched; callers detect that through TopRowOccupied.
func (g *Grid) PushBottomRow() {
	if g.Width == 0 || g.Height == 0 {
		return
	}
	if g.TopRowOccupied() {
		return
	}
	for y := g.Height - 1; y >= 1; y-- {
		for x := 0; x < g.Width; x++ {
			g.cells[g.idx(x, y)] = g.cells[g.idx(x, y-1)]
		}
	}
	for x := 0; x < g.Width; x++ {
		g.cells[g.idx(x, 0)] = Block{}
	}
	for x := 0; x < g.Width; x++ {
		g.Set(x, 0, NormalBlock(g.pickNonMatchingColor(x, 0)))
	}
}

// TopRowOccupied reports whether any cell of the topmost row is filled, the
// stack-overflow loss condition.
func (g *Grid) TopRowOccupied() bool {
	if g.Height == 0 {
		return false
	}
	y := g.Height - 1
	for x := 0; x < g.Width; x++ {
		if !g.Get(x, y).IsEmpty() {
			return true
		}
	}
	return false
}

// InsertGarbageRowsFromTop places intact garbage per the given row masks,
// rows[len-1] ending up topmost. The call is all-or-nothing: it refuses
// without mutation when there are more rows than the board height, a mask
// has the wrong width, or any marked target cell is already occupied.
func (g *Grid) InsertGarbageRowsFromTop(rows [][]bool) bool {
	if len(rows) == 0 {
		return true
	}
	if len(rows) > g.Height {
		return false
	}
	for _, row := range rows {
		if len(row) != g.Width {
			return false
		}
	}

	startY := g.Height - len(rows)
	for i, row := range rows {
		y := startY + i
		for x := 0; x < g.Width; x++ {
			if row[x] && !g.Get(x, y).IsEmpty() {
				return false
			}
		}
	}

	for i, row := range rows {
		y := startY + i
		for x := 0; x < g.Width; x++ {
			if row[x] {
				g.Set(x, y, GarbageBlock(false))
			}
		}
	}
	return true
}
