package main

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testGrid(width, height int, seed int64) *Grid {
	return NewGridWithRand(width, height, rand.New(rand.NewSource(seed)))
}

func fillCheckerboard(g *Grid, rows int) {
	for y := 0; y < rows; y++ {
		for x := 0; x < g.Width; x++ {
			g.Set(x, y, NormalBlock(BlockColor(x%2+2*(y%2))))
		}
	}
}

func TestFillTestPatternShape(t *testing.T) {
	g := testGrid(6, 12, 1)
	g.FillTestPattern()
	for y := 0; y < 6; y++ {
		for x := 0; x < 6; x++ {
			assert.Equal(t, BlockNormal, g.Get(x, y).Kind, "cell (%d,%d)", x, y)
		}
	}
	for y := 6; y < 12; y++ {
		for x := 0; x < 6; x++ {
			assert.True(t, g.Get(x, y).IsEmpty(), "cell (%d,%d)", x, y)
		}
	}
}

func TestFillTestPatternRarelyMatches(t *testing.T) {
	// The anti-match retry is bounded, so an accidental match is possible
	// but should stay rare across many boards.
	matched := 0
	for seed := int64(1); seed <= 50; seed++ {
		g := testGrid(6, 12, seed)
		g.FillTestPattern()
		if g.HasMatches() {
			matched++
		}
	}
	assert.LessOrEqual(t, matched, 2)
}

func TestClearWithoutMatchesMutatesNothing(t *testing.T) {
	g := testGrid(6, 12, 1)
	fillCheckerboard(g, 4)
	before := make([]Block, len(g.cells))
	copy(before, g.cells)

	stats := g.ClearMatchesOnceWithStats()

	assert.Zero(t, stats.Cleared)
	assert.Zero(t, stats.Groups)
	assert.Equal(t, before, g.cells)
}

func TestHorizontalRunClears(t *testing.T) {
	g := testGrid(6, 12, 1)
	for x := 0; x < 3; x++ {
		g.Set(x, 0, NormalBlock(ColorRed))
	}
	g.Set(3, 0, NormalBlock(ColorBlue))

	stats := g.ClearMatchesOnceWithStats()

	assert.Equal(t, 3, stats.Cleared)
	assert.Equal(t, 1, stats.Groups)
	for x := 0; x < 3; x++ {
		assert.True(t, g.Get(x, 0).IsEmpty())
	}
	assert.Equal(t, BlockNormal, g.Get(3, 0).Kind)
}

func TestVerticalRunClears(t *testing.T) {
	g := testGrid(6, 12, 1)
	for y := 0; y < 4; y++ {
		g.Set(2, y, NormalBlock(ColorGreen))
	}

	stats := g.ClearMatchesOnceWithStats()

	assert.Equal(t, 4, stats.Cleared)
	assert.Equal(t, 1, stats.Groups)
}

func TestDisjointRunsCountAsGroups(t *testing.T) {
	g := testGrid(6, 12, 1)
	for x := 0; x < 3; x++ {
		g.Set(x, 0, NormalBlock(ColorRed))
	}
	for y := 3; y < 6; y++ {
		g.Set(5, y, NormalBlock(ColorBlue))
	}

	stats := g.ClearMatchesOnceWithStats()

	assert.Equal(t, 6, stats.Cleared)
	assert.Equal(t, 2, stats.Groups)
}

func TestCrossingRunsAreOneGroup(t *testing.T) {
	g := testGrid(6, 12, 1)
	// A plus shape of one color: horizontal and vertical runs sharing the
	// center cell union into a single group of five.
	g.Set(1, 1, NormalBlock(ColorRed))
	g.Set(2, 1, NormalBlock(ColorRed))
	g.Set(3, 1, NormalBlock(ColorRed))
	g.Set(2, 0, NormalBlock(ColorRed))
	g.Set(2, 2, NormalBlock(ColorRed))

	stats := g.ClearMatchesOnceWithStats()

	assert.Equal(t, 5, stats.Cleared)
	assert.Equal(t, 1, stats.Groups)
}

func TestGarbageNeverMatches(t *testing.T) {
	g := testGrid(6, 12, 1)
	for x := 0; x < 6; x++ {
		g.Set(x, 0, GarbageBlock(false))
	}
	assert.False(t, g.HasMatches())
}

func TestNormalBlockFallsOneRowPerStep(t *testing.T) {
	g := testGrid(6, 12, 1)
	g.Set(2, 5, NormalBlock(ColorRed))

	require.True(t, g.ApplyGravityStep())
	assert.True(t, g.Get(2, 5).IsEmpty())
	assert.Equal(t, BlockNormal, g.Get(2, 4).Kind)

	g.ApplyGravity()
	assert.Equal(t, BlockNormal, g.Get(2, 0).Kind)
	assert.False(t, g.ApplyGravityStep())
}

func TestGravityReachesFixedPoint(t *testing.T) {
	g := testGrid(6, 12, 3)
	g.Set(0, 7, NormalBlock(ColorRed))
	g.Set(3, 4, NormalBlock(ColorBlue))
	g.Set(3, 9, NormalBlock(ColorGreen))
	g.Set(1, 2, GarbageBlock(false))
	g.Set(2, 2, GarbageBlock(false))

	g.ApplyGravity()

	assert.False(t, g.ApplyGravityStep())
	assert.False(t, g.HasFallingGarbage())
}

func TestGarbageComponentFallsRigidly(t *testing.T) {
	g := testGrid(6, 12, 1)
	// 2x2 garbage slab floating at rows 4-5.
	for y := 4; y <= 5; y++ {
		for x := 1; x <= 2; x++ {
			g.Set(x, y, GarbageBlock(false))
		}
	}

	require.True(t, g.ApplyGravityStep())
	for y := 3; y <= 4; y++ {
		for x := 1; x <= 2; x++ {
			assert.True(t, g.Get(x, y).IsGarbage(), "cell (%d,%d)", x, y)
		}
	}
	assert.True(t, g.Get(1, 5).IsEmpty())
	assert.True(t, g.Get(2, 5).IsEmpty())
}

func TestPartiallySupportedGarbageStays(t *testing.T) {
	g := testGrid(6, 12, 1)
	g.Set(1, 2, GarbageBlock(false))
	g.Set(2, 2, GarbageBlock(false))
	// One column blocked underneath is enough to pin the whole component.
	g.Set(1, 1, NormalBlock(ColorRed))

	assert.False(t, g.ApplyGravityStep())
	assert.True(t, g.Get(2, 2).IsGarbage())
	assert.False(t, g.HasFallingGarbage())
}

func TestSelfStackedGarbageFallsTogether(t *testing.T) {
	g := testGrid(6, 12, 1)
	// A vertical garbage pillar rests only on itself; it must fall as one.
	g.Set(0, 3, GarbageBlock(false))
	g.Set(0, 4, GarbageBlock(false))
	g.Set(0, 5, GarbageBlock(false))

	require.True(t, g.ApplyGravityStep())
	assert.True(t, g.Get(0, 2).IsGarbage())
	assert.True(t, g.Get(0, 4).IsGarbage())
	assert.True(t, g.Get(0, 5).IsEmpty())
}

func TestSwapRefusesGarbage(t *testing.T) {
	g := testGrid(6, 12, 1)
	g.Set(2, 0, GarbageBlock(false))
	g.Set(3, 0, NormalBlock(ColorRed))
	before := make([]Block, len(g.cells))
	copy(before, g.cells)

	assert.False(t, g.SwapInBounds(SwapRightOf(2, 0)))
	assert.Equal(t, before, g.cells)
}

func TestSwapRefusesOutOfRange(t *testing.T) {
	g := testGrid(6, 12, 1)
	g.Set(5, 0, NormalBlock(ColorRed))
	before := make([]Block, len(g.cells))
	copy(before, g.cells)

	assert.False(t, g.SwapInBounds(SwapRightOf(5, 0)))
	assert.Equal(t, before, g.cells)
}

func TestSwapExchangesCells(t *testing.T) {
	g := testGrid(6, 12, 1)
	g.Set(1, 0, NormalBlock(ColorRed))

	require.True(t, g.SwapInBounds(SwapRightOf(1, 0)))
	assert.True(t, g.Get(1, 0).IsEmpty())
	assert.Equal(t, ColorRed, g.Get(2, 0).Color)
}

func TestCrackAdjacentGarbageWholeComponent(t *testing.T) {
	g := testGrid(6, 12, 1)
	// Component touching the marked cell and a second component far away.
	g.Set(0, 1, GarbageBlock(false))
	g.Set(1, 1, GarbageBlock(false))
	g.Set(5, 8, GarbageBlock(false))
	marks := make([]bool, 6*12)
	marks[g.idx(0, 0)] = true

	cracked := g.CrackAdjacentGarbage(marks)

	assert.Equal(t, 2, cracked)
	assert.True(t, g.Get(0, 1).Cracked)
	assert.True(t, g.Get(1, 1).Cracked)
	assert.False(t, g.Get(5, 8).Cracked)
}

func TestConvertCrackedGarbage(t *testing.T) {
	g := testGrid(6, 12, 1)
	g.Set(0, 0, GarbageBlock(true))
	g.Set(1, 0, GarbageBlock(true))
	g.Set(2, 0, GarbageBlock(false))

	converted := g.ConvertCrackedGarbage()

	assert.Equal(t, 2, converted)
	assert.Equal(t, BlockNormal, g.Get(0, 0).Kind)
	assert.Equal(t, BlockNormal, g.Get(1, 0).Kind)
	assert.True(t, g.Get(2, 0).IsGarbage())
	assert.False(t, g.Get(2, 0).Cracked)
}

func TestPushBottomRowShiftsStackUp(t *testing.T) {
	g := testGrid(6, 12, 1)
	g.Set(0, 0, NormalBlock(ColorPurple))

	g.PushBottomRow()

	assert.Equal(t, ColorPurple, g.Get(0, 1).Color)
	for x := 0; x < 6; x++ {
		assert.Equal(t, BlockNormal, g.Get(x, 0).Kind, "bottom row cell %d", x)
	}
}

func TestPushBottomRowBlockedByFullColumn(t *testing.T) {
	g := testGrid(6, 12, 1)
	fillCheckerboard(g, 12)
	before := make([]Block, len(g.cells))
	copy(before, g.cells)

	require.True(t, g.TopRowOccupied())
	g.PushBottomRow()

	assert.Equal(t, before, g.cells)
}

func TestInsertGarbageRows(t *testing.T) {
	g := testGrid(6, 12, 1)
	full := []bool{true, true, true, true, true, true}
	partial := []bool{false, true, true, false, false, false}

	require.True(t, g.InsertGarbageRowsFromTop([][]bool{full, partial}))

	// The last mask lands topmost.
	for x := 0; x < 6; x++ {
		assert.True(t, g.Get(x, 10).IsGarbage(), "row 10 cell %d", x)
	}
	assert.True(t, g.Get(1, 11).IsGarbage())
	assert.True(t, g.Get(2, 11).IsGarbage())
	assert.True(t, g.Get(0, 11).IsEmpty())
}

func TestInsertGarbageRowsAllOrNothing(t *testing.T) {
	g := testGrid(6, 12, 1)
	g.Set(3, 11, NormalBlock(ColorRed))
	before := make([]Block, len(g.cells))
	copy(before, g.cells)
	full := []bool{true, true, true, true, true, true}

	assert.False(t, g.InsertGarbageRowsFromTop([][]bool{full}))
	assert.Equal(t, before, g.cells)

	assert.False(t, g.InsertGarbageRowsFromTop([][]bool{{true, true}}))
	assert.Equal(t, before, g.cells)

	tall := make([][]bool, 13)
	for i := range tall {
		tall[i] = full
	}
	assert.False(t, g.InsertGarbageRowsFromTop(tall))
	assert.Equal(t, before, g.cells)
}

func TestInsertSingleFullRowOccupiesTop(t *testing.T) {
	g := testGrid(6, 12, 1)
	full := []bool{true, true, true, true, true, true}

	require.True(t, g.InsertGarbageRowsFromTop([][]bool{full}))

	for y := 0; y < 12; y++ {
		for x := 0; x < 6; x++ {
			if y == 11 {
				b := g.Get(x, y)
				assert.True(t, b.IsGarbage(), "top row cell %d", x)
				assert.False(t, b.Cracked)
			} else {
				assert.True(t, g.Get(x, y).IsEmpty(), "cell (%d,%d)", x, y)
			}
		}
	}
}

func TestInsertNoRowsIsNoOp(t *testing.T) {
	g := testGrid(6, 12, 1)
	assert.True(t, g.InsertGarbageRowsFromTop(nil))
}

func TestTopRowOccupied(t *testing.T) {
	g := testGrid(6, 12, 1)
	assert.False(t, g.TopRowOccupied())
	g.Set(4, 11, GarbageBlock(false))
	assert.True(t, g.TopRowOccupied())
}
