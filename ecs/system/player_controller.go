package system

import (
	"github.com/milk9111/heavypockets/ecs"
	"github.com/milk9111/heavypockets/ecs/component"
)

// PlayerControllerSystem feeds each entity's input frame to its movement
// controller: the logic tick, then the physics tick, with the same step.
type PlayerControllerSystem struct {
	dt float64
}

func NewPlayerControllerSystem(dt float64) *PlayerControllerSystem {
	return &PlayerControllerSystem{dt: dt}
}

func (s *PlayerControllerSystem) Update(w *ecs.World) {
	if s == nil || w == nil {
		return
	}

	ecs.ForEach2(w, component.ControllerComponent.Kind(), component.InputComponent.Kind(), func(e ecs.Entity, c *component.Controller, in *component.Input) {
		ctrl := c.Controller
		if ctrl == nil || !ctrl.Enabled() {
			return
		}
		wasGrounded := ctrl.IsGrounded()
		jumps := ctrl.JumpCount()
		wasDashing := ctrl.IsDashing()

		ctrl.Step(in.Frame, s.dt)

		events := w.Events()
		if ctrl.JumpCount() > jumps {
			events.Push(ecs.Event{Type: ecs.EventJump, Entity: e, Data: ctrl.JumpCount()})
		}
		if ctrl.IsDashing() && !wasDashing {
			events.Push(ecs.Event{Type: ecs.EventDash, Entity: e})
		}
		if ctrl.IsGrounded() && !wasGrounded {
			events.Push(ecs.Event{Type: ecs.EventLanded, Entity: e})
		}
	})
}
