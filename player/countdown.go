package player

const countdownEpsilon = 1e-9

// Countdown is a timer in seconds that only counts down. It is re-armed by
// its triggering event and clamps at zero.
type Countdown struct {
	remaining float64
}

func (c *Countdown) Arm(d float64) {
	if d < 0 || d != d {
		d = 0
	}
	c.remaining = d
}

func (c *Countdown) Tick(dt float64) {
	if dt <= 0 || c.remaining <= 0 {
		return
	}
	c.remaining -= dt
	if c.remaining < countdownEpsilon {
		c.remaining = 0
	}
}

func (c *Countdown) Active() bool { return c.remaining > 0 }

func (c *Countdown) Remaining() float64 { return c.remaining }

func (c *Countdown) Clear() { c.remaining = 0 }
