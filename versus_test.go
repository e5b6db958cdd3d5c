package main

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCancelGarbage(t *testing.T) {
	a, b := cancelGarbage(5, 3)
	assert.Equal(t, 2, a)
	assert.Zero(t, b)

	a, b = cancelGarbage(0, 4)
	assert.Zero(t, a)
	assert.Equal(t, 4, b)

	a, b = cancelGarbage(3, 3)
	assert.Zero(t, a)
	assert.Zero(t, b)
}

func TestGarbageRowsLayout(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	rows := garbageRows(8, 6, rng)
	require.Len(t, rows, 2)
	for x := 0; x < 6; x++ {
		assert.True(t, rows[0][x])
	}
	count := 0
	run := 0
	best := 0
	for _, filled := range rows[1] {
		if filled {
			count++
			run++
			if run > best {
				best = run
			}
		} else {
			run = 0
		}
	}
	assert.Equal(t, 2, count)
	assert.Equal(t, 2, best, "partial row must be one contiguous run")

	rows = garbageRows(6, 6, rng)
	require.Len(t, rows, 1)
	for x := 0; x < 6; x++ {
		assert.True(t, rows[0][x])
	}

	assert.Nil(t, garbageRows(0, 6, rng))
}

func TestSessionSeedIsDeterministic(t *testing.T) {
	a := NewSession(2, DefaultRules(), 42)
	b := NewSession(2, DefaultRules(), 42)
	for i := range a.Players {
		assert.Equal(t, a.Players[i].Grid.cells, b.Players[i].Grid.cells, "player %d", i)
	}
}

func TestExchangeOnChainEnd(t *testing.T) {
	s := NewSession(2, DefaultRules(), 7)
	p1, p2 := s.Players[0], s.Players[1]
	p1.ChainEnded = true
	p1.OutgoingGarbage = 5

	s.exchangeGarbage()

	assert.Zero(t, p1.OutgoingGarbage)
	assert.Equal(t, 5, p2.IncomingGarbage)
	assert.Zero(t, p1.IncomingGarbage)
}

func TestSimultaneousChainsCancel(t *testing.T) {
	s := NewSession(2, DefaultRules(), 7)
	p1, p2 := s.Players[0], s.Players[1]
	p1.ChainEnded = true
	p1.OutgoingGarbage = 5
	p2.ChainEnded = true
	p2.OutgoingGarbage = 3

	s.exchangeGarbage()

	// The smaller attack cancels out of both.
	assert.Zero(t, p1.IncomingGarbage)
	assert.Equal(t, 2, p2.IncomingGarbage)
}

func TestIncomingAppliedOnlyWhenIdle(t *testing.T) {
	s := NewSession(1, DefaultRules(), 7)
	p := s.Players[0]
	p.IncomingGarbage = 4

	p.Settled = false
	s.applyIncoming()
	assert.Equal(t, 4, p.IncomingGarbage)

	p.Settled = true
	p.scheduleClear()
	s.applyIncoming()
	assert.Equal(t, 4, p.IncomingGarbage)

	p.clearPending = false
	p.clearDelay.Stop()
	s.applyIncoming()
	assert.Zero(t, p.IncomingGarbage)

	garbageCells := 0
	for y := 0; y < p.Grid.Height; y++ {
		for x := 0; x < p.Grid.Width; x++ {
			if p.Grid.Get(x, y).IsGarbage() {
				garbageCells++
			}
		}
	}
	assert.Equal(t, 4, garbageCells)
}

func TestFailedInsertKeepsUnitsQueued(t *testing.T) {
	s := NewSession(1, DefaultRules(), 7)
	p := s.Players[0]
	for x := 0; x < p.Grid.Width; x++ {
		p.Grid.Set(x, p.Grid.Height-1, NormalBlock(BlockColor(x%2)))
	}
	p.Settled = true
	p.IncomingGarbage = 4

	s.applyIncoming()

	assert.Equal(t, 4, p.IncomingGarbage)
}

func TestCheckOverSinglePlayer(t *testing.T) {
	s := NewSession(1, DefaultRules(), 7)
	s.Players[0].Lost = true
	s.checkOver()
	assert.True(t, s.Over)
	assert.Equal(t, NoWinner, s.Winner)
}

func TestCheckOverTwoPlayers(t *testing.T) {
	s := NewSession(2, DefaultRules(), 7)
	s.Players[0].Lost = true
	s.checkOver()
	assert.True(t, s.Over)
	assert.Equal(t, 1, s.Winner)

	s = NewSession(2, DefaultRules(), 7)
	s.Players[0].Lost = true
	s.Players[1].Lost = true
	s.checkOver()
	assert.True(t, s.Over)
	assert.Equal(t, NoWinner, s.Winner)
}

func TestPausedSessionDoesNotAdvance(t *testing.T) {
	s := NewSession(1, DefaultRules(), 7)
	s.Paused = true
	s.Tick(time.Second)
	assert.Zero(t, s.Players[0].Elapsed)
}

func TestRestartClearsTerminalState(t *testing.T) {
	s := NewSession(2, DefaultRules(), 7)
	s.Players[0].Lost = true
	s.checkOver()
	require.True(t, s.Over)

	s.Restart()

	assert.False(t, s.Over)
	assert.Equal(t, NoWinner, s.Winner)
	for _, p := range s.Players {
		assert.False(t, p.Lost)
		assert.Zero(t, p.Score)
	}
}
