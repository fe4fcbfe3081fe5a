package entity

import (
	"fmt"
	"image/color"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/heavypockets/ecs"
	"github.com/milk9111/heavypockets/ecs/component"
	"github.com/milk9111/heavypockets/levels"
	"github.com/milk9111/heavypockets/player"
	"github.com/milk9111/heavypockets/prefabs"
	"github.com/sirupsen/logrus"
)

var defaultPlayerColor = color.NRGBA{R: 0xf2, G: 0xcc, B: 0x8f, A: 0xff}

// NewPlayerAt builds the player with its feet at spawn. The controller's
// ability budget is sized for coinCount coins.
func NewPlayerAt(w *ecs.World, spec *prefabs.PlayerSpec, spawn levels.Point, coinCount int, log logrus.FieldLogger) (ecs.Entity, error) {
	pw := w.PhysicsWorld()
	if pw == nil {
		return 0, fmt.Errorf("player: world has no physics")
	}
	if spec == nil {
		return 0, fmt.Errorf("player: nil spec")
	}

	e := ecs.CreateEntity(w)
	if err := ecs.Add(w, e, component.PlayerTagComponent.Kind(), &component.PlayerTag{}); err != nil {
		return 0, fmt.Errorf("player: add tag: %w", err)
	}

	pos := cp.Vector{
		X: spawn.X - spec.Collider.OffsetX,
		Y: spawn.Y + spec.Collider.Height/2 - spec.Collider.OffsetY,
	}
	detector := player.NewGroundContactDetector(nil, player.DetectorConfig{MinNormalY: spec.Tuning.GroundNormalThreshold}, log)
	body := pw.AddPlayer(e, pos, ecs.PlayerShape{
		Mass: spec.Mass,
		Box: ecs.BoxSpec{
			Width:   spec.Collider.Width,
			Height:  spec.Collider.Height,
			OffsetX: spec.Collider.OffsetX,
			OffsetY: spec.Collider.OffsetY,
		},
		Sensor:        ecs.BoxSpec{Width: spec.GroundSensor.Width, Height: spec.GroundSensor.Height},
		ProbeDistance: spec.ProbeDistance,
	}, detector)

	ctrl := player.NewController(spec.Tuning, body,
		player.WithDetector(detector),
		player.WithLogger(log),
	)
	ctrl.ResetBudget(coinCount)

	if err := ecs.Add(w, e, component.ControllerComponent.Kind(), &component.Controller{
		Controller:    ctrl,
		Detector:      detector,
		DeathSpin:     spec.DeathSpin,
		DeathFriction: spec.DeathFriction,
		ReloadDelay:   spec.ReloadDelay,
		Color:         toNRGBA(spec.Color.Or(defaultPlayerColor)),
	}); err != nil {
		return 0, fmt.Errorf("player: add controller: %w", err)
	}
	if err := ecs.Add(w, e, component.InputComponent.Kind(), &component.Input{}); err != nil {
		return 0, fmt.Errorf("player: add input: %w", err)
	}
	if err := ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{X: pos.X, Y: pos.Y}); err != nil {
		return 0, fmt.Errorf("player: add transform: %w", err)
	}
	if err := ecs.Add(w, e, component.PhysicsBodyComponent.Kind(), &component.PhysicsBody{
		Body:   body.Body(),
		Shape:  body.Shape(),
		Width:  spec.Collider.Width,
		Height: spec.Collider.Height,
	}); err != nil {
		return 0, fmt.Errorf("player: add physics body: %w", err)
	}
	return e, nil
}

func toNRGBA(c color.Color) color.NRGBA {
	if c == nil {
		return color.NRGBA{}
	}
	return color.NRGBAModel.Convert(c).(color.NRGBA)
}
