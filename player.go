package main

import (
	"math/rand"
	"time"
)

// ChainState tracks the running chain. Index counts clears within the chain,
// starting at 1 for the clear that opened it.
type ChainState struct {
	Active bool
	Index  int
}

// PlayerState is one player's side of a match: a board, a cursor, the staged
// timers that drive it, and the chain and garbage bookkeeping. It advances
// only through Update, once per host frame with the frame's time delta, in
// the fixed order gravity step, clear delay, chain accounting, rise.
type PlayerState struct {
	Grid   *Grid
	Cursor Cursor
	Rules  Rules

	Score    int
	MaxChain int
	Elapsed  time.Duration
	Lost     bool

	// Settled is true when nothing moved on the last gravity step.
	Settled bool

	// Chain bookkeeping. ChainEnded and JustCleared are edge flags raised
	// for exactly one tick; LastClear is the stats of the latest clear.
	Chain       ChainState
	ChainEnded  bool
	JustCleared bool
	LastClear   ClearStats

	OutgoingGarbage int
	IncomingGarbage int

	gravityTick  ticker
	clearDelay   countdown
	clearPending bool
	clearReady   bool

	riseTick     ticker
	riseInterval time.Duration
	riseDecayAt  time.Duration
	risePause    countdown

	repeatDelay    countdown
	repeatTick     ticker
	heldDX, heldDY int
	holding        bool

	rng *rand.Rand
}

func NewPlayerState(rules Rules, rng *rand.Rand) *PlayerState {
	p := &PlayerState{
		Grid:  NewGridWithRand(rules.BoardWidth, rules.BoardHeight, rng),
		Rules: rules,
		rng:   rng,
	}
	p.Reset()
	return p
}

// Reset restores the match-start state: repopulated board, centered cursor,
// zeroed score and counters, all timers rearmed. There is no partial
// rollback; restart always goes through here.
func (p *PlayerState) Reset() {
	p.Grid.Clear()
	p.Grid.FillTestPattern()
	p.Cursor = Cursor{X: (p.Grid.Width - 2) / 2, Y: p.Grid.Height / 4}
	p.Score = 0
	p.MaxChain = 0
	p.Elapsed = 0
	p.Lost = false
	p.Settled = true
	p.Chain = ChainState{}
	p.ChainEnded = false
	p.JustCleared = false
	p.LastClear = ClearStats{}
	p.OutgoingGarbage = 0
	p.IncomingGarbage = 0
	p.gravityTick.Reset(p.Rules.GravityInterval)
	p.clearDelay.Stop()
	p.clearPending = false
	p.clearReady = false
	p.riseInterval = p.Rules.RiseInterval
	p.riseDecayAt = p.Rules.RiseDecayPeriod
	p.riseTick.Reset(p.riseInterval)
	p.risePause.Stop()
	p.repeatDelay.Stop()
	p.repeatTick.Reset(p.Rules.RepeatInterval)
	p.holding = false
}

// MoveCursor applies one discrete cursor move and reports whether the cursor
// actually moved. Moving into a wall clamps and reports false.
func (p *PlayerState) MoveCursor(dx, dy int) bool {
	if p.Lost {
		return false
	}
	return p.Cursor.MoveBy(dx, dy, p.Grid.Width, p.Grid.Height)
}

// HoldMove starts held-direction movement: one immediate step, then repeats
// after RepeatDelay at RepeatInterval until ReleaseMove.
func (p *PlayerState) HoldMove(dx, dy int) bool {
	moved := p.MoveCursor(dx, dy)
	p.heldDX, p.heldDY = dx, dy
	p.holding = true
	p.repeatDelay.Start(p.Rules.RepeatDelay)
	p.repeatTick.Reset(p.Rules.RepeatInterval)
	return moved
}

func (p *PlayerState) ReleaseMove() {
	p.holding = false
	p.repeatDelay.Stop()
}

// SwapAtCursor swaps the two cells under the cursor. Garbage or out-of-range
// swaps are refused by the grid and reported as false. Any match the swap
// produces is picked up by the scheduler on the next tick.
func (p *PlayerState) SwapAtCursor() bool {
	if p.Lost {
		return false
	}
	return p.Grid.SwapInBounds(SwapRightOf(p.Cursor.X, p.Cursor.Y))
}

// ClearPending reports whether a clear is scheduled or waiting to execute.
func (p *PlayerState) ClearPending() bool {
	return p.clearPending || p.clearReady
}

func (p *PlayerState) RisePaused() bool {
	return p.risePause.Active()
}

// RiseInterval exposes the current (ramped) rise interval.
func (p *PlayerState) RiseInterval() time.Duration {
	return p.riseInterval
}

// Update advances the player by one tick of dt.
func (p *PlayerState) Update(dt time.Duration) {
	if p.Lost {
		return
	}
	p.Elapsed += dt
	p.ChainEnded = false
	p.JustCleared = false

	p.updateRepeat(dt)

	if p.gravityTick.Advance(dt) {
		moved := p.Grid.ApplyGravityStep()
		p.Settled = !moved
	}

	if p.clearDelay.Advance(dt) {
		p.clearReady = true
	}
	if p.clearReady && p.Settled {
		p.clearReady = false
		p.clearPending = false
		p.executeClear()
	}

	// While no clear is in flight and the board is at rest, either a new
	// match starts (or extends) the chain, or the chain is over.
	if p.Settled && !p.ClearPending() {
		if p.Grid.HasMatches() {
			p.scheduleClear()
		} else if p.Chain.Active {
			p.endChain()
		}
	}

	p.updateRise(dt)
}

func (p *PlayerState) scheduleClear() {
	p.clearPending = true
	p.clearDelay.Start(p.Rules.ClearDelay)
}

func (p *PlayerState) executeClear() {
	stats := p.Grid.ClearMatchesOnceWithStats()
	if stats.Cleared == 0 {
		return
	}
	if p.Chain.Active {
		p.Chain.Index++
	} else {
		p.Chain = ChainState{Active: true, Index: 1}
	}
	if p.Chain.Index > p.MaxChain {
		p.MaxChain = p.Chain.Index
	}
	p.Score += clearScore(stats, p.Chain.Index)
	p.AddGarbageForClear(stats.Cleared, stats.Groups)
	p.Grid.CrackAdjacentGarbage(stats.Marks)
	p.risePause.Start(p.Rules.RisePauseDuration)
	p.Settled = false
	p.JustCleared = true
	p.LastClear = stats
}

// endChain closes the chain: the edge flag feeds the garbage exchange, and
// cracked garbage resolves into normal blocks, which can itself open the
// next chain cycle.
func (p *PlayerState) endChain() {
	p.Chain = ChainState{}
	p.ChainEnded = true
	if p.Grid.ConvertCrackedGarbage() > 0 && p.Grid.HasMatches() {
		p.scheduleClear()
	}
}

// AddGarbageForClear converts one clear pass into outgoing garbage units:
// max(0,cleared-3) for the combo, max(0,groups-1) for simultaneous groups,
// and ChainBonusUnit*(chain-1) for chain steps beyond the first. A bare
// 3-match outside a chain produces nothing. Accumulation is capped.
func (p *PlayerState) AddGarbageForClear(cleared, groups int) {
	if cleared < 4 && p.Chain.Index < 2 {
		return
	}
	comboUnits := cleared - 3
	if comboUnits < 0 {
		comboUnits = 0
	}
	multiUnits := groups - 1
	if multiUnits < 0 {
		multiUnits = 0
	}
	chainUnits := 0
	if p.Chain.Index > 1 {
		chainUnits = p.Rules.ChainBonusUnit * (p.Chain.Index - 1)
	}
	p.OutgoingGarbage += comboUnits + multiUnits + chainUnits
	if p.OutgoingGarbage > p.Rules.GarbageCap {
		p.OutgoingGarbage = p.Rules.GarbageCap
	}
}

func (p *PlayerState) updateRise(dt time.Duration) {
	for p.Elapsed >= p.riseDecayAt {
		p.riseInterval = time.Duration(float64(p.riseInterval) * p.Rules.RiseDecayFactor)
		if p.riseInterval < p.Rules.RiseIntervalMin {
			p.riseInterval = p.Rules.RiseIntervalMin
		}
		p.riseDecayAt += p.Rules.RiseDecayPeriod
	}
	p.riseTick.interval = p.riseInterval

	if p.risePause.Active() {
		p.risePause.Advance(dt)
		return
	}
	if !p.riseTick.Advance(dt) {
		return
	}
	if !p.Settled || p.ClearPending() || p.Grid.HasFallingGarbage() {
		return
	}
	if p.Grid.TopRowOccupied() {
		p.Lost = true
		return
	}
	p.Grid.PushBottomRow()
	p.Cursor.MoveBy(0, 1, p.Grid.Width, p.Grid.Height)
}

func (p *PlayerState) updateRepeat(dt time.Duration) {
	if !p.holding {
		return
	}
	if p.repeatDelay.Active() {
		if p.repeatDelay.Advance(dt) {
			p.repeatTick.Reset(p.Rules.RepeatInterval)
			p.MoveCursor(p.heldDX, p.heldDY)
		}
		return
	}
	if p.repeatTick.Advance(dt) {
		p.MoveCursor(p.heldDX, p.heldDY)
	}
}

// clearScore values a clear pass: 10 per cell scaled by the chain index,
// plus 50 for every simultaneous group beyond the first.
func clearScore(stats ClearStats, chainIndex int) int {
	score := 10 * stats.Cleared * chainIndex
	if stats.Groups > 1 {
		score += 50 * (stats.Groups - 1)
	}
	return score
}
