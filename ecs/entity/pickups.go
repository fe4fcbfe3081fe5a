package entity

import (
	"fmt"
	"strconv"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/heavypockets/ecs"
	"github.com/milk9111/heavypockets/ecs/component"
	"github.com/milk9111/heavypockets/levels"
)

const coinRadius = 0.25

func NewCoin(w *ecs.World, index int, at levels.Point) (ecs.Entity, error) {
	pw := w.PhysicsWorld()
	if pw == nil {
		return 0, fmt.Errorf("coin: world has no physics")
	}
	e := ecs.CreateEntity(w)
	if err := ecs.Add(w, e, component.CoinComponent.Kind(), &component.Coin{Index: index}); err != nil {
		return 0, fmt.Errorf("coin: add coin: %w", err)
	}
	if err := ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{X: at.X, Y: at.Y}); err != nil {
		return 0, fmt.Errorf("coin: add transform: %w", err)
	}
	shape := pw.AddCoin(e, cp.Vector{X: at.X, Y: at.Y}, coinRadius)
	if err := ecs.Add(w, e, component.PhysicsBodyComponent.Kind(), &component.PhysicsBody{
		Shape:  shape,
		Width:  coinRadius * 2,
		Height: coinRadius * 2,
		Static: true,
	}); err != nil {
		return 0, fmt.Errorf("coin: add physics body: %w", err)
	}
	return e, nil
}

func NewHazard(w *ecs.World, r levels.Rect) (ecs.Entity, error) {
	return newStaticSensor(w, "hazard", r, func(e ecs.Entity) error {
		w.PhysicsWorld().AddHazard(e, r)
		return ecs.Add(w, e, component.HazardComponent.Kind(), &component.Hazard{})
	})
}

func NewGoal(w *ecs.World, r levels.Rect) (ecs.Entity, error) {
	return newStaticSensor(w, "goal", r, func(e ecs.Entity) error {
		w.PhysicsWorld().AddGoal(e, r)
		return ecs.Add(w, e, component.GoalComponent.Kind(), &component.Goal{})
	})
}

func newStaticSensor(w *ecs.World, name string, r levels.Rect, build func(ecs.Entity) error) (ecs.Entity, error) {
	if w.PhysicsWorld() == nil {
		return 0, fmt.Errorf("%s: world has no physics", name)
	}
	e := ecs.CreateEntity(w)
	c := r.Center()
	if err := ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{X: c.X, Y: c.Y}); err != nil {
		return 0, fmt.Errorf("%s: add transform: %w", name, err)
	}
	if err := ecs.Add(w, e, component.PhysicsBodyComponent.Kind(), &component.PhysicsBody{Width: r.W, Height: r.H, Static: true}); err != nil {
		return 0, fmt.Errorf("%s: add physics body: %w", name, err)
	}
	if err := build(e); err != nil {
		return 0, fmt.Errorf("%s: add component: %w", name, err)
	}
	return e, nil
}

// NewCoinCounter creates the HUD counter entity.
func NewCoinCounter(w *ecs.World, collected, total int) (ecs.Entity, error) {
	e := ecs.CreateEntity(w)
	if err := ecs.Add(w, e, component.CoinCounterComponent.Kind(), &component.CoinCounter{
		Collected:    collected,
		Total:        total,
		RenderedText: CoinCounterText(collected, total),
	}); err != nil {
		return 0, fmt.Errorf("coin counter: add counter component: %w", err)
	}
	return e, nil
}

func CoinCounterText(collected, total int) string {
	return strconv.Itoa(collected) + "/" + strconv.Itoa(total)
}

// NewFloatingText spawns a short-lived label at (x, y).
func NewFloatingText(w *ecs.World, text string, x, y float64, frames int) (ecs.Entity, error) {
	e := ecs.CreateEntity(w)
	if err := ecs.Add(w, e, component.FloatingTextComponent.Kind(), &component.FloatingText{Text: text, VY: 1.5}); err != nil {
		return 0, fmt.Errorf("floating text: add text: %w", err)
	}
	if err := ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{X: x, Y: y}); err != nil {
		return 0, fmt.Errorf("floating text: add transform: %w", err)
	}
	if err := ecs.Add(w, e, component.TTLComponent.Kind(), &component.TTL{Frames: frames}); err != nil {
		return 0, fmt.Errorf("floating text: add ttl: %w", err)
	}
	return e, nil
}
