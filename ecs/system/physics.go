package system

import (
	"github.com/milk9111/heavypockets/ecs"
	"github.com/milk9111/heavypockets/ecs/component"
)

// PhysicsSystem steps the world's Chipmunk space and copies body positions
// back into transforms. Ground contact callbacks fire during the step, so it
// must run before the PlayerControllerSystem.
type PhysicsSystem struct {
	dt float64
}

func NewPhysicsSystem(dt float64) *PhysicsSystem {
	return &PhysicsSystem{dt: dt}
}

func (ps *PhysicsSystem) Update(w *ecs.World) {
	if ps == nil || w == nil {
		return
	}
	pw := w.PhysicsWorld()
	if pw == nil {
		return
	}
	pw.Step(ps.dt)

	ecs.ForEach2(w, component.PhysicsBodyComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, body *component.PhysicsBody, t *component.Transform) {
		if body.Static || body.Body == nil {
			return
		}
		pos := body.Body.Position()
		t.X = pos.X
		t.Y = pos.Y
	})
}
