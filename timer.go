package main

import "time"

// countdown is a single-shot staged timer. Advance reports true exactly once,
// on the tick where the remaining time crosses zero; a huge delta still fires
// it only once.
type countdown struct {
	remaining time.Duration
	active    bool
}

func (c *countdown) Start(d time.Duration) {
	c.remaining = d
	c.active = true
}

func (c *countdown) Stop() {
	c.remaining = 0
	c.active = false
}

func (c *countdown) Active() bool {
	return c.active
}

func (c *countdown) Advance(dt time.Duration) bool {
	if !c.active {
		return false
	}
	c.remaining -= dt
	if c.remaining > 0 {
		return false
	}
	c.remaining = 0
	c.active = false
	return true
}

// ticker fires on a fixed interval. Several intervals' worth of delta in one
// tick still fire it once; the surplus is discarded rather than replayed as a
// catch-up burst.
type ticker struct {
	interval time.Duration
	elapsed  time.Duration
}

func (t *ticker) Reset(interval time.Duration) {
	t.interval = interval
	t.elapsed = 0
}

func (t *ticker) Advance(dt time.Duration) bool {
	if t.interval <= 0 {
		return false
	}
	t.elapsed += dt
	if t.elapsed < t.interval {
		return false
	}
	t.elapsed = 0
	return true
}
