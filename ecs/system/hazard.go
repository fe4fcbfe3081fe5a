package system

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/heavypockets/ecs"
	"github.com/milk9111/heavypockets/ecs/component"
	"github.com/milk9111/heavypockets/levels"
	"github.com/sirupsen/logrus"
)

// HazardSystem resolves death requests: the controller is frozen, the body
// stops and grips the ground, the player spins, and a reload countdown
// starts. Coins picked up in this attempt are dropped from the session.
type HazardSystem struct {
	session *levels.Session
	dt      float64
	log     logrus.FieldLogger
}

func NewHazardSystem(session *levels.Session, dt float64, log logrus.FieldLogger) *HazardSystem {
	if log == nil {
		log = logrus.StandardLogger()
	}
	if session == nil {
		session = levels.NewSession()
	}
	return &HazardSystem{session: session, dt: dt, log: log}
}

func (s *HazardSystem) Update(w *ecs.World) {
	if s == nil || w == nil {
		return
	}

	ecs.ForEach(w, component.DeathRequestComponent.Kind(), func(e ecs.Entity, _ *component.DeathRequest) {
		_ = ecs.Remove(w, e, component.DeathRequestComponent.Kind())
		if ecs.Has(w, e, component.DyingComponent.Kind()) {
			return
		}
		c, ok := ecs.Get(w, e, component.ControllerComponent.Kind())
		if !ok || c.Controller == nil {
			return
		}

		c.Controller.SetEnabled(false)
		if body, ok := ecs.Get(w, e, component.PhysicsBodyComponent.Kind()); ok {
			if body.Body != nil {
				body.Body.SetVelocityVector(cp.Vector{})
			}
			if body.Shape != nil {
				body.Shape.SetFriction(c.DeathFriction)
			}
		}

		_ = ecs.Add(w, e, component.DyingComponent.Kind(), &component.Dying{Spin: c.DeathSpin})
		_ = ecs.Add(w, e, component.ReloadCountdownComponent.Kind(), &component.ReloadCountdown{Remaining: c.ReloadDelay})

		s.session.Die()
		s.log.WithFields(logrus.Fields{"deaths": s.session.Deaths, "reload_in": c.ReloadDelay}).Info("player died")
		w.Events().Push(ecs.Event{Type: ecs.EventPlayerDied, Entity: e})
	})

	ecs.ForEach2(w, component.DyingComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, d *component.Dying, t *component.Transform) {
		d.Elapsed += s.dt
		t.Rotation += d.Spin * s.dt
	})
}
