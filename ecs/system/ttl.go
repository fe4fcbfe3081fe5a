package system

import (
	"github.com/milk9111/heavypockets/common"
	"github.com/milk9111/heavypockets/ecs"
	"github.com/milk9111/heavypockets/ecs/component"
)

// TTLSystem decrements frame-based TTL components and destroys entities when
// the TTL reaches zero. Floating labels drift upward while they live.
type TTLSystem struct{}

func NewTTLSystem() *TTLSystem {
	return &TTLSystem{}
}

func (s *TTLSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	ecs.ForEach2(w, component.FloatingTextComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, ft *component.FloatingText, t *component.Transform) {
		t.Y += ft.VY * common.FixedDelta
	})

	ecs.ForEach(w, component.TTLComponent.Kind(), func(e ecs.Entity, ttl *component.TTL) {
		if ttl.Frames > 0 {
			ttl.Frames--
			if ttl.Frames > 0 {
				return
			}
		}
		ecs.DestroyEntity(w, e)
	})
}
