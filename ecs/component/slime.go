package component

import (
	"image/color"

	"github.com/d5/tengo/v2"
)

// Slime is a patrolling enemy. Blocked is set by the physics world when the
// slime runs into a wall during the last step.
type Slime struct {
	MinX    float64
	MaxX    float64
	Speed   float64
	Dir     float64
	Blocked bool
	Color   color.NRGBA
}

var SlimeComponent = NewComponent[Slime]()

// SlimeBrain holds the compiled decision script of a slime. Failed disables
// the script after its first runtime error.
type SlimeBrain struct {
	Script   string
	Compiled *tengo.Compiled
	Failed   bool
}

var SlimeBrainComponent = NewComponent[SlimeBrain]()
