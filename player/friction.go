package player

// FrictionMode selects which surface material the player's collider uses.
type FrictionMode int

const (
	FrictionMoving FrictionMode = iota
	FrictionStopped
	FrictionSliding
)

func (m FrictionMode) String() string {
	switch m {
	case FrictionMoving:
		return "moving"
	case FrictionStopped:
		return "stopped"
	case FrictionSliding:
		return "sliding"
	default:
		return "unknown"
	}
}

// FrictionState is the controller state the policy reads.
type FrictionState struct {
	Grounded bool
	Sliding  bool
	// WasSliding holds from a grounded slide release until the player slows
	// below the move threshold or gives horizontal input.
	WasSliding bool
	// Speed is the absolute horizontal speed.
	Speed float64
	// NoInputTime is how long the move axis has been zero, in seconds.
	NoInputTime float64
	// Transitioning is set while dashing or inside the jump grace window.
	Transitioning bool
}

type FrictionConfig struct {
	StopDelay         float64 `yaml:"stop_delay"`
	MomentumThreshold float64 `yaml:"momentum_threshold"`
}

// Materials maps each mode to a shape friction coefficient.
type Materials struct {
	Moving  float64 `yaml:"moving"`
	Stopped float64 `yaml:"stopped"`
	Sliding float64 `yaml:"sliding"`
}

func (m Materials) Friction(mode FrictionMode) float64 {
	switch mode {
	case FrictionStopped:
		return m.Stopped
	case FrictionSliding:
		return m.Sliding
	default:
		return m.Moving
	}
}

// SelectFriction picks the material for the current state. Releasing slide
// on the ground stops the player at once instead of letting them coast.
func SelectFriction(s FrictionState, cfg FrictionConfig) FrictionMode {
	switch {
	case s.Sliding:
		return FrictionSliding
	case !s.Grounded:
		return FrictionMoving
	case s.WasSliding:
		return FrictionStopped
	case s.NoInputTime <= 0:
		return FrictionMoving
	case s.Speed > cfg.MomentumThreshold:
		return FrictionMoving
	case s.Transitioning:
		return FrictionMoving
	case s.NoInputTime >= cfg.StopDelay:
		return FrictionStopped
	default:
		return FrictionMoving
	}
}
