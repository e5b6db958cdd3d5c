package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCursorMoveReportsChange(t *testing.T) {
	c := Cursor{X: 2, Y: 3}
	assert.True(t, c.MoveBy(1, 0, 6, 12))
	assert.Equal(t, Cursor{X: 3, Y: 3}, c)
	assert.True(t, c.MoveBy(0, -1, 6, 12))
	assert.Equal(t, Cursor{X: 3, Y: 2}, c)
}

func TestCursorClampsAtEdges(t *testing.T) {
	c := Cursor{}
	assert.False(t, c.MoveBy(-1, 0, 6, 12))
	assert.Equal(t, Cursor{}, c)

	// The selector is two cells wide, so X never exceeds width-2.
	c = Cursor{X: 4, Y: 11}
	assert.False(t, c.MoveBy(1, 0, 6, 12))
	assert.Equal(t, Cursor{X: 4, Y: 11}, c)
	assert.False(t, c.MoveBy(0, 1, 6, 12))

	c = Cursor{X: 0, Y: 5}
	assert.True(t, c.MoveBy(-3, 20, 6, 12))
	assert.Equal(t, Cursor{X: 0, Y: 11}, c)
}

func TestCursorRefusesDegenerateBoard(t *testing.T) {
	c := Cursor{}
	assert.False(t, c.MoveBy(1, 0, 1, 12))
	assert.False(t, c.MoveBy(1, 0, 6, 0))
}

func TestSwapRightOf(t *testing.T) {
	cmd := SwapRightOf(2, 7)
	assert.Equal(t, SwapCmd{AX: 2, AY: 7, BX: 3, BY: 7}, cmd)
}
