package system

import (
	"fmt"
	"math"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/milk9111/heavypockets/ecs"
	"github.com/milk9111/heavypockets/ecs/component"
	"github.com/milk9111/heavypockets/prefabs"
	"github.com/sirupsen/logrus"
)

const (
	slimeChaseRange = 4.0
	slimeChaseBoost = 1.5
	// noPlayer is the player offset reported when there is nobody to chase.
	noPlayer = 1e9
)

// SlimeSystem decides each slime's patrol direction, through its tengo
// script when it has one and natively otherwise, and drives its body.
type SlimeSystem struct {
	log     logrus.FieldLogger
	scripts map[string]*tengo.Compiled
	reset   bool
}

func NewSlimeSystem(log logrus.FieldLogger) *SlimeSystem {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &SlimeSystem{log: log, scripts: map[string]*tengo.Compiled{}}
}

// Invalidate drops every compiled script so the next update recompiles from
// disk.
func (s *SlimeSystem) Invalidate() {
	if s == nil {
		return
	}
	s.scripts = map[string]*tengo.Compiled{}
	s.reset = true
}

type slimeInput struct {
	x, dx, dy float64
}

func (s *SlimeSystem) Update(w *ecs.World) {
	if s == nil || w == nil {
		return
	}

	var target *component.Transform
	if p, ok := ecs.First(w, component.PlayerTagComponent.Kind()); ok && !ecs.Has(w, p, component.DyingComponent.Kind()) {
		target, _ = ecs.Get(w, p, component.TransformComponent.Kind())
	}

	reset := s.reset
	s.reset = false

	ecs.ForEach2(w, component.SlimeComponent.Kind(), component.PhysicsBodyComponent.Kind(), func(e ecs.Entity, slime *component.Slime, body *component.PhysicsBody) {
		if body.Body == nil {
			return
		}
		pos := body.Body.Position()
		in := slimeInput{x: pos.X, dx: noPlayer, dy: noPlayer}
		if target != nil {
			in.dx = target.X - pos.X
			in.dy = target.Y - pos.Y
		}

		scale := 1.0
		brain, hasBrain := ecs.Get(w, e, component.SlimeBrainComponent.Kind())
		if hasBrain && reset {
			brain.Compiled = nil
			brain.Failed = false
		}
		if hasBrain && !brain.Failed {
			dir, sc, err := s.runScript(brain, slime, in)
			if err != nil {
				brain.Failed = true
				s.log.WithError(err).WithField("script", brain.Script).Warn("slime: script failed, using native patrol")
				slime.Dir, scale = patrol(slime, in)
			} else {
				slime.Dir, scale = dir, sc
			}
		} else {
			slime.Dir, scale = patrol(slime, in)
		}
		slime.Blocked = false

		v := body.Body.Velocity()
		body.Body.SetVelocity(slime.Dir*slime.Speed*scale, v.Y)
	})
}

func (s *SlimeSystem) runScript(brain *component.SlimeBrain, slime *component.Slime, in slimeInput) (float64, float64, error) {
	if brain.Compiled == nil {
		base, err := s.compile(brain.Script)
		if err != nil {
			return 0, 0, err
		}
		brain.Compiled = base.Clone()
	}
	c := brain.Compiled
	vars := map[string]any{
		"x":           in.x,
		"min_x":       slime.MinX,
		"max_x":       slime.MaxX,
		"dir":         slime.Dir,
		"blocked":     slime.Blocked,
		"player_dx":   in.dx,
		"player_dy":   in.dy,
		"chase_range": slimeChaseRange,
		"speed_scale": 1.0,
	}
	for name, v := range vars {
		if err := c.Set(name, v); err != nil {
			return 0, 0, fmt.Errorf("slime: set %s: %w", name, err)
		}
	}
	if err := c.Run(); err != nil {
		return 0, 0, fmt.Errorf("slime: run %s: %w", brain.Script, err)
	}

	dir := c.Get("dir").Float()
	if dir < 0 {
		dir = -1
	} else {
		dir = 1
	}
	scale := c.Get("speed_scale").Float()
	if scale <= 0 || math.IsNaN(scale) {
		scale = 1
	}
	return dir, scale, nil
}

func (s *SlimeSystem) compile(name string) (*tengo.Compiled, error) {
	if c, ok := s.scripts[name]; ok {
		return c, nil
	}
	src, err := prefabs.LoadScript(name)
	if err != nil {
		return nil, err
	}
	script := tengo.NewScript(src)
	script.SetImports(stdlib.GetModuleMap("math"))
	for _, v := range []string{"x", "min_x", "max_x", "dir", "player_dx", "player_dy", "chase_range", "speed_scale"} {
		_ = script.Add(v, 0.0)
	}
	_ = script.Add("blocked", false)

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("slime: compile %s: %w", name, err)
	}
	s.scripts[name] = compiled
	return compiled, nil
}

// patrol is the native slime behavior: turn when blocked or at the ends of
// the patrol range, and hurry towards a player on the same level nearby.
func patrol(slime *component.Slime, in slimeInput) (float64, float64) {
	dir := slime.Dir
	if dir == 0 {
		dir = 1
	}
	if slime.Blocked {
		dir = -dir
	}
	if in.x <= slime.MinX {
		dir = 1
	} else if in.x >= slime.MaxX {
		dir = -1
	}

	if math.Abs(in.dy) < 1 && math.Abs(in.dx) < slimeChaseRange {
		want := 1.0
		if in.dx < 0 {
			want = -1
		}
		next := in.x + want*0.5
		if next > slime.MinX && next < slime.MaxX {
			return want, slimeChaseBoost
		}
	}
	return dir, 1
}
