package component

// TTL is a simple frame-based time-to-live component. Entities carrying it
// are destroyed after the given number of update ticks.
type TTL struct {
	Frames int
}

var TTLComponent = NewComponent[TTL]()

// FloatingText is a short world-space label, drifting up at VY units/s.
type FloatingText struct {
	Text string
	VY   float64
}

var FloatingTextComponent = NewComponent[FloatingText]()
