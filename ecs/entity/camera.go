package entity

import (
	"fmt"

	"github.com/milk9111/heavypockets/ecs"
	"github.com/milk9111/heavypockets/ecs/component"
	"github.com/milk9111/heavypockets/prefabs"
)

func NewCameraAt(w *ecs.World, spec *prefabs.CameraSpec, x, y float64) (ecs.Entity, error) {
	if spec == nil {
		spec = &prefabs.CameraSpec{Zoom: 1}
	}
	smooth := spec.Smoothness
	if smooth <= 0 || smooth > 1 {
		smooth = 0.15
	}

	camera := ecs.CreateEntity(w)
	if err := ecs.Add(w, camera, component.CameraComponent.Kind(), &component.Camera{
		X:          x,
		Y:          y,
		OffsetX:    spec.Offset.X,
		OffsetY:    spec.Offset.Y,
		Smoothness: smooth,
		Zoom:       spec.Zoom,
	}); err != nil {
		return 0, fmt.Errorf("camera: add camera component: %w", err)
	}
	return camera, nil
}
