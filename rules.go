package main

import "time"

// Rules holds the tuning constants of one match session. They are fixed when
// the session starts and never change at runtime.
type Rules struct {
	BoardWidth  int
	BoardHeight int

	// Rise timing. The interval shrinks by RiseDecayFactor every
	// RiseDecayPeriod of elapsed play, down to RiseIntervalMin.
	RiseInterval    time.Duration
	RiseDecayFactor float64
	RiseDecayPeriod time.Duration
	RiseIntervalMin time.Duration

	// RisePauseDuration is the breathing room granted after each clear.
	RisePauseDuration time.Duration

	// GravityInterval is the time between single-row falling steps.
	GravityInterval time.Duration

	// ClearDelay is the readability delay between a match being detected
	// and the marked cells actually clearing.
	ClearDelay time.Duration

	// Held-direction cursor repeat.
	RepeatDelay    time.Duration
	RepeatInterval time.Duration

	// ChainBonusUnit garbage units are generated per chain step beyond the
	// first. Outgoing garbage accumulated within one chain is capped at
	// GarbageCap; further contributions are dropped.
	ChainBonusUnit int
	GarbageCap     int
}

func DefaultRules() Rules {
	return Rules{
		BoardWidth:        6,
		BoardHeight:       12,
		RiseInterval:      8 * time.Second,
		RiseDecayFactor:   0.9,
		RiseDecayPeriod:   20 * time.Second,
		RiseIntervalMin:   2 * time.Second,
		RisePauseDuration: 3 * time.Second,
		GravityInterval:   100 * time.Millisecond,
		ClearDelay:        250 * time.Millisecond,
		RepeatDelay:       180 * time.Millisecond,
		RepeatInterval:    60 * time.Millisecond,
		ChainBonusUnit:    2,
		GarbageCap:        24,
	}
}
