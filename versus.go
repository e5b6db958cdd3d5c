package main

import (
	"math/rand"
	"time"
)

// NoWinner marks a finished session without a designated winner: a
// single-player loss, or both players topping out on the same tick.
const NoWinner = -1

// Session owns one or two PlayerStates and advances them tick by tick. In a
// two-player session it also runs the garbage exchange: a finished chain's
// outgoing garbage crosses over to the opponent's incoming queue, equal
// amounts of simultaneous incoming cancel out, and queued garbage lands only
// on an idle board.
type Session struct {
	Players []*PlayerState
	Rules   Rules
	Paused  bool
	Over    bool
	Winner  int

	rng *rand.Rand
}

// NewSession creates a session for one or two players. seed 0 derives a seed
// from the clock; any other value makes the whole match deterministic.
func NewSession(playerCount int, rules Rules, seed int64) *Session {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))
	players := make([]*PlayerState, playerCount)
	for i := range players {
		players[i] = NewPlayerState(rules, rand.New(rand.NewSource(rng.Int63())))
	}
	return &Session{
		Players: players,
		Rules:   rules,
		Winner:  NoWinner,
		rng:     rng,
	}
}

// Restart resets both players and clears the terminal state.
func (s *Session) Restart() {
	for _, p := range s.Players {
		p.Reset()
	}
	s.Paused = false
	s.Over = false
	s.Winner = NoWinner
}

// Tick advances the whole session by dt: each player in slot order, then the
// cross-player garbage step, then queued garbage insertion, then the
// terminal check. Nothing outside Tick mutates the players mid-frame.
func (s *Session) Tick(dt time.Duration) {
	if s.Paused || s.Over {
		return
	}
	for _, p := range s.Players {
		p.Update(dt)
	}
	if len(s.Players) == 2 {
		s.exchangeGarbage()
	}
	s.applyIncoming()
	s.checkOver()
}

// exchangeGarbage moves each just-finished chain's outgoing garbage into the
// opponent's incoming queue, then offsets the two queues against each other.
// Both players' counters are read before either is mutated.
func (s *Session) exchangeGarbage() {
	p1, p2 := s.Players[0], s.Players[1]
	if p1.ChainEnded && p1.OutgoingGarbage > 0 {
		p2.IncomingGarbage += p1.OutgoingGarbage
		p1.OutgoingGarbage = 0
	}
	if p2.ChainEnded && p2.OutgoingGarbage > 0 {
		p1.IncomingGarbage += p2.OutgoingGarbage
		p2.OutgoingGarbage = 0
	}
	p1.IncomingGarbage, p2.IncomingGarbage = cancelGarbage(p1.IncomingGarbage, p2.IncomingGarbage)
}

// cancelGarbage offsets two simultaneous incoming amounts: the smaller one
// cancels out of both.
func cancelGarbage(a, b int) (int, int) {
	offset := a
	if b < offset {
		offset = b
	}
	return a - offset, b - offset
}

// applyIncoming converts each queued incoming amount into garbage rows and
// inserts them from the top, but only while the receiving board is settled,
// has no clear in flight and is not rise-paused. A failed insertion keeps
// the units queued for a later tick instead of dropping them.
func (s *Session) applyIncoming() {
	for _, p := range s.Players {
		if p.IncomingGarbage == 0 || p.Lost {
			continue
		}
		if !p.Settled || p.ClearPending() || p.RisePaused() {
			continue
		}
		rows := garbageRows(p.IncomingGarbage, p.Grid.Width, s.rng)
		if p.Grid.InsertGarbageRowsFromTop(rows) {
			p.IncomingGarbage = 0
		}
	}
}

// garbageRows lays out units as full-width rows plus one partial row. The
// partial row is last, so it ends up topmost, and its occupied span is a
// random contiguous run of the required length.
func garbageRows(units, width int, rng *rand.Rand) [][]bool {
	if units <= 0 || width <= 0 {
		return nil
	}
	full := units / width
	partial := units % width
	rows := make([][]bool, 0, full+1)
	for i := 0; i < full; i++ {
		row := make([]bool, width)
		for x := range row {
			row[x] = true
		}
		rows = append(rows, row)
	}
	if partial > 0 {
		row := make([]bool, width)
		start := rng.Intn(width - partial + 1)
		for x := start; x < start+partial; x++ {
			row[x] = true
		}
		rows = append(rows, row)
	}
	return rows
}

func (s *Session) checkOver() {
	switch len(s.Players) {
	case 1:
		if s.Players[0].Lost {
			s.Over = true
			s.Winner = NoWinner
		}
	case 2:
		l1, l2 := s.Players[0].Lost, s.Players[1].Lost
		if !l1 && !l2 {
			return
		}
		s.Over = true
		switch {
		case l1 && l2:
			s.Winner = NoWinner
		case l1:
			s.Winner = 1
		default:
			s.Winner = 0
		}
	}
}
