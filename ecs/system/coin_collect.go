package system

import (
	"github.com/milk9111/heavypockets/ecs"
	"github.com/milk9111/heavypockets/ecs/component"
	"github.com/milk9111/heavypockets/ecs/entity"
	"github.com/milk9111/heavypockets/levels"
	"github.com/sirupsen/logrus"
)

const coinTextFrames = 45

// CoinCollectSystem turns coins touched during the physics step into
// pickups: the session and the player's ability budget count them, the HUD
// counter is refreshed and the coin leaves the world.
type CoinCollectSystem struct {
	session *levels.Session
	log     logrus.FieldLogger
}

func NewCoinCollectSystem(session *levels.Session, log logrus.FieldLogger) *CoinCollectSystem {
	if log == nil {
		log = logrus.StandardLogger()
	}
	if session == nil {
		session = levels.NewSession()
	}
	return &CoinCollectSystem{session: session, log: log}
}

func (s *CoinCollectSystem) Update(w *ecs.World) {
	if s == nil || w == nil {
		return
	}

	var ctrl *component.Controller
	if p, ok := ecs.First(w, component.PlayerTagComponent.Kind()); ok {
		if ecs.Has(w, p, component.DyingComponent.Kind()) {
			return
		}
		ctrl, _ = ecs.Get(w, p, component.ControllerComponent.Kind())
	}

	ecs.ForEach(w, component.CollectedComponent.Kind(), func(e ecs.Entity, _ *component.Collected) {
		if !ecs.Has(w, e, component.CoinComponent.Kind()) {
			_ = ecs.Remove(w, e, component.CollectedComponent.Kind())
			return
		}

		s.session.CollectCoin()
		if ctrl != nil {
			ctrl.Controller.OnCoinCollected()
			ctrl.Controller.Budget().SyncRemaining(s.session.Remaining())
		}

		if t, ok := ecs.Get(w, e, component.TransformComponent.Kind()); ok {
			_, _ = entity.NewFloatingText(w, "+1", t.X, t.Y+0.4, coinTextFrames)
		}
		w.PhysicsWorld().RemoveEntity(e)
		ecs.DestroyEntity(w, e)

		fields := logrus.Fields{"collected": s.session.CurrentCoins, "total": s.session.LevelCoins}
		if ctrl != nil {
			fields["move_speed"] = ctrl.Controller.CurrentMoveSpeed()
			fields["can_dash"] = ctrl.Controller.CanDash()
			fields["can_double_jump"] = ctrl.Controller.CanDoubleJump()
		}
		s.log.WithFields(fields).Info("coin collected")
		w.Events().Push(ecs.Event{Type: ecs.EventCoinCollected, Entity: e, Data: s.session.CurrentCoins})
	})

	ecs.ForEach(w, component.CoinCounterComponent.Kind(), func(e ecs.Entity, c *component.CoinCounter) {
		if s.session == nil || (c.Collected == s.session.CurrentCoins && c.Total == s.session.LevelCoins) {
			return
		}
		c.Collected = s.session.CurrentCoins
		c.Total = s.session.LevelCoins
		c.RenderedText = entity.CoinCounterText(c.Collected, c.Total)
	})
}
