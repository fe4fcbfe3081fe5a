package system

import (
	"github.com/milk9111/heavypockets/common"
	"github.com/milk9111/heavypockets/ecs"
	"github.com/milk9111/heavypockets/ecs/component"
)

// CameraSystem eases the camera towards the player plus the camera offset,
// kept inside the level bounds.
type CameraSystem struct{}

func NewCameraSystem() *CameraSystem {
	return &CameraSystem{}
}

func (cs *CameraSystem) Update(w *ecs.World) {
	if cs == nil || w == nil {
		return
	}
	camEntity, ok := ecs.First(w, component.CameraComponent.Kind())
	if !ok {
		return
	}
	cam, _ := ecs.Get(w, camEntity, component.CameraComponent.Kind())

	tx, ty := cam.X, cam.Y
	if p, ok := ecs.First(w, component.PlayerTagComponent.Kind()); ok {
		if t, ok := ecs.Get(w, p, component.TransformComponent.Kind()); ok {
			tx, ty = t.X+cam.OffsetX, t.Y+cam.OffsetY
		}
	}

	if cam.Initialized {
		cam.X = common.Lerp(cam.X, tx, cam.Smoothness)
		cam.Y = common.Lerp(cam.Y, ty, cam.Smoothness)
	} else {
		cam.X, cam.Y = tx, ty
		cam.Initialized = true
	}

	if level := w.PhysicsWorld().Level(); level != nil {
		hw, hh := common.ViewHalfExtent(cam.Zoom)
		cam.X = common.ClampView(cam.X, hw, level.Width)
		cam.Y = common.ClampView(cam.Y, hh, level.Height)
	}
}
