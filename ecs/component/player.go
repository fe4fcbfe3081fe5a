package component

import (
	"image/color"

	"github.com/milk9111/heavypockets/player"
)

type PlayerTag struct{}

var PlayerTagComponent = NewComponent[PlayerTag]()

// Controller binds a movement controller and its ground detector to the
// player entity.
type Controller struct {
	Controller *player.Controller
	Detector   *player.GroundContactDetector

	DeathSpin     float64
	DeathFriction float64
	ReloadDelay   float64
	Color         color.NRGBA
}

var ControllerComponent = NewComponent[Controller]()

// Input is the latest input frame for the entity.
type Input struct {
	Frame player.InputFrame
}

var InputComponent = NewComponent[Input]()
