package system

import (
	"github.com/milk9111/heavypockets/ecs"
	"github.com/milk9111/heavypockets/ecs/component"
)

// ReloadCountdownSystem counts reload timers down on the fixed-step clock
// and emits a ReloadRequest entity when one expires.
type ReloadCountdownSystem struct {
	dt float64
}

func NewReloadCountdownSystem(dt float64) *ReloadCountdownSystem {
	return &ReloadCountdownSystem{dt: dt}
}

func (s *ReloadCountdownSystem) Update(w *ecs.World) {
	if s == nil || w == nil {
		return
	}

	ecs.ForEach(w, component.ReloadCountdownComponent.Kind(), func(e ecs.Entity, rc *component.ReloadCountdown) {
		rc.Remaining -= s.dt
		if rc.Remaining > 0 {
			return
		}
		_ = ecs.Remove(w, e, component.ReloadCountdownComponent.Kind())
		req := ecs.CreateEntity(w)
		_ = ecs.Add(w, req, component.ReloadRequestComponent.Kind(), &component.ReloadRequest{})
	})
}
