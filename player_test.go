package main

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRules() Rules {
	rules := DefaultRules()
	rules.GravityInterval = 10 * time.Millisecond
	rules.ClearDelay = 20 * time.Millisecond
	rules.RiseInterval = time.Hour
	rules.RiseIntervalMin = time.Hour
	rules.RiseDecayPeriod = time.Hour
	rules.RisePauseDuration = 50 * time.Millisecond
	return rules
}

func testPlayer(rules Rules, seed int64) *PlayerState {
	return NewPlayerState(rules, rand.New(rand.NewSource(seed)))
}

func TestResetRestoresMatchStart(t *testing.T) {
	p := testPlayer(testRules(), 1)
	p.Score = 500
	p.MaxChain = 4
	p.Lost = true
	p.OutgoingGarbage = 7
	p.Cursor = Cursor{X: 0, Y: 0}

	p.Reset()

	assert.Zero(t, p.Score)
	assert.Zero(t, p.MaxChain)
	assert.False(t, p.Lost)
	assert.Zero(t, p.OutgoingGarbage)
	assert.Equal(t, Cursor{X: 2, Y: 3}, p.Cursor)
	assert.True(t, p.Settled)
}

func TestLostPlayerIgnoresInputAndTime(t *testing.T) {
	p := testPlayer(testRules(), 1)
	p.Lost = true

	assert.False(t, p.MoveCursor(1, 0))
	assert.False(t, p.SwapAtCursor())
	p.Update(time.Second)
	assert.Zero(t, p.Elapsed)
}

func TestScheduledClearExecutesWhenSettled(t *testing.T) {
	p := testPlayer(testRules(), 1)
	p.Grid.Clear()
	for x := 0; x < 3; x++ {
		p.Grid.Set(x, 0, NormalBlock(ColorRed))
	}
	p.Settled = true

	var sawClear bool
	for i := 0; i < 20; i++ {
		p.Update(5 * time.Millisecond)
		if p.JustCleared {
			sawClear = true
			assert.Equal(t, 3, p.LastClear.Cleared)
			assert.Equal(t, 1, p.LastClear.Groups)
		}
	}

	require.True(t, sawClear)
	assert.Equal(t, 30, p.Score)
	assert.Equal(t, 1, p.MaxChain)
	// A bare 3-match outside a chain sends nothing.
	assert.Zero(t, p.OutgoingGarbage)
}

func TestChainAcrossGravity(t *testing.T) {
	p := testPlayer(testRules(), 1)
	p.Grid.Clear()
	// Clearing the blue pillar drops the red at (0,3) onto the bottom row,
	// completing a red run: a two-step chain.
	for y := 0; y < 3; y++ {
		p.Grid.Set(0, y, NormalBlock(ColorBlue))
	}
	p.Grid.Set(0, 3, NormalBlock(ColorRed))
	p.Grid.Set(1, 0, NormalBlock(ColorRed))
	p.Grid.Set(2, 0, NormalBlock(ColorRed))
	p.Settled = true

	clears := 0
	chainEnded := false
	for i := 0; i < 200; i++ {
		p.Update(5 * time.Millisecond)
		if p.JustCleared {
			clears++
		}
		if p.ChainEnded {
			chainEnded = true
		}
	}

	require.Equal(t, 2, clears)
	assert.True(t, chainEnded)
	assert.Equal(t, 2, p.MaxChain)
	// 10*3*1 for the first step, 10*3*2 for the second.
	assert.Equal(t, 90, p.Score)
	// Chain step beyond the first sends ChainBonusUnit garbage.
	assert.Equal(t, p.Rules.ChainBonusUnit, p.OutgoingGarbage)
	assert.False(t, p.Chain.Active)
}

func TestAddGarbageForClear(t *testing.T) {
	cases := []struct {
		name       string
		cleared    int
		groups     int
		chainIndex int
		want       int
	}{
		{"four combo", 4, 1, 1, 1},
		{"six with two groups", 6, 2, 1, 4},
		{"bare triple", 3, 1, 1, 0},
		{"triple deep in chain", 3, 1, 3, 4},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := testPlayer(testRules(), 1)
			p.Chain = ChainState{Active: tc.chainIndex > 0, Index: tc.chainIndex}
			p.AddGarbageForClear(tc.cleared, tc.groups)
			assert.Equal(t, tc.want, p.OutgoingGarbage)
		})
	}
}

func TestOutgoingGarbageCapped(t *testing.T) {
	p := testPlayer(testRules(), 1)
	p.Chain = ChainState{Active: true, Index: 10}
	p.AddGarbageForClear(12, 3)
	p.AddGarbageForClear(12, 3)
	assert.Equal(t, p.Rules.GarbageCap, p.OutgoingGarbage)
}

func TestHoldMoveRepeats(t *testing.T) {
	rules := testRules()
	rules.RepeatDelay = 100 * time.Millisecond
	rules.RepeatInterval = 50 * time.Millisecond
	p := testPlayer(rules, 1)
	p.Cursor = Cursor{X: 0, Y: 3}

	require.True(t, p.HoldMove(1, 0))
	assert.Equal(t, 1, p.Cursor.X)

	// Inside the initial delay nothing repeats.
	p.Update(60 * time.Millisecond)
	assert.Equal(t, 1, p.Cursor.X)

	// Delay elapses, one repeat fires, then one more per interval.
	p.Update(60 * time.Millisecond)
	assert.Equal(t, 2, p.Cursor.X)
	p.Update(50 * time.Millisecond)
	assert.Equal(t, 3, p.Cursor.X)

	p.ReleaseMove()
	p.Update(time.Second)
	assert.Equal(t, 3, p.Cursor.X)
}

func TestRisePushesAndTopsOut(t *testing.T) {
	rules := testRules()
	rules.RiseInterval = 10 * time.Millisecond
	p := testPlayer(rules, 1)
	p.Grid.Clear()
	fillCheckerboard(p.Grid, p.Grid.Height-1)
	p.Settled = true
	marker := p.Grid.Get(0, 0)

	p.Update(10 * time.Millisecond)
	require.False(t, p.Lost)
	assert.Equal(t, marker, p.Grid.Get(0, 1))
	assert.True(t, p.Grid.TopRowOccupied())

	p.Update(10 * time.Millisecond)
	assert.True(t, p.Lost)
}

func TestRiseWaitsForClearPause(t *testing.T) {
	rules := testRules()
	rules.RiseInterval = 10 * time.Millisecond
	p := testPlayer(rules, 1)
	p.Grid.Clear()
	for x := 0; x < 3; x++ {
		p.Grid.Set(x, 0, NormalBlock(ColorGreen))
	}
	p.Settled = true

	// Run until the clear executes; the rise pause it starts must hold the
	// stack down even though the rise interval keeps elapsing.
	for i := 0; i < 8; i++ {
		p.Update(5 * time.Millisecond)
	}
	require.Positive(t, p.Score)
	require.True(t, p.RisePaused())
	assert.True(t, p.Grid.Get(0, 0).IsEmpty())
}

func TestClearScore(t *testing.T) {
	assert.Equal(t, 30, clearScore(ClearStats{Cleared: 3, Groups: 1}, 1))
	assert.Equal(t, 60, clearScore(ClearStats{Cleared: 3, Groups: 1}, 2))
	assert.Equal(t, 110, clearScore(ClearStats{Cleared: 6, Groups: 2}, 1))
}
