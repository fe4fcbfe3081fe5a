package entity

import (
	"fmt"
	"image/color"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/heavypockets/ecs"
	"github.com/milk9111/heavypockets/ecs/component"
	"github.com/milk9111/heavypockets/levels"
	"github.com/milk9111/heavypockets/prefabs"
)

var defaultSlimeColor = color.NRGBA{R: 0x81, G: 0xb2, B: 0x9a, A: 0xff}

// NewSlime spawns a slime standing at spawn. The spawn's speed overrides the
// prefab speed when set.
func NewSlime(w *ecs.World, spec *prefabs.SlimeSpec, spawn levels.SlimeSpawn) (ecs.Entity, error) {
	pw := w.PhysicsWorld()
	if pw == nil {
		return 0, fmt.Errorf("slime: world has no physics")
	}
	if spec == nil {
		return 0, fmt.Errorf("slime: nil spec")
	}

	speed := spec.Speed
	if spawn.Speed > 0 {
		speed = spawn.Speed
	}
	minX, maxX := spawn.MinX, spawn.MaxX
	if maxX <= minX {
		minX, maxX = spawn.X-2, spawn.X+2
	}

	e := ecs.CreateEntity(w)
	if err := ecs.Add(w, e, component.SlimeComponent.Kind(), &component.Slime{
		MinX:  minX,
		MaxX:  maxX,
		Speed: speed,
		Dir:   1,
		Color: toNRGBA(spec.Color.Or(defaultSlimeColor)),
	}); err != nil {
		return 0, fmt.Errorf("slime: add slime: %w", err)
	}
	if spec.Script != "" {
		if err := ecs.Add(w, e, component.SlimeBrainComponent.Kind(), &component.SlimeBrain{Script: spec.Script}); err != nil {
			return 0, fmt.Errorf("slime: add brain: %w", err)
		}
	}

	pos := cp.Vector{X: spawn.X, Y: spawn.Y + spec.Collider.Height/2}
	body := pw.AddSlime(e, pos, spec.Mass, ecs.BoxSpec{
		Width:   spec.Collider.Width,
		Height:  spec.Collider.Height,
		OffsetX: spec.Collider.OffsetX,
		OffsetY: spec.Collider.OffsetY,
	})
	if err := ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{X: pos.X, Y: pos.Y}); err != nil {
		return 0, fmt.Errorf("slime: add transform: %w", err)
	}
	if err := ecs.Add(w, e, component.PhysicsBodyComponent.Kind(), &component.PhysicsBody{
		Body:   body,
		Width:  spec.Collider.Width,
		Height: spec.Collider.Height,
	}); err != nil {
		return 0, fmt.Errorf("slime: add physics body: %w", err)
	}
	return e, nil
}
