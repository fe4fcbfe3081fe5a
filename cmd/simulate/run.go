package main

import (
	"fmt"

	"github.com/milk9111/heavypockets/common"
	"github.com/milk9111/heavypockets/ecs"
	"github.com/milk9111/heavypockets/ecs/component"
	"github.com/milk9111/heavypockets/ecs/entity"
	"github.com/milk9111/heavypockets/ecs/system"
	"github.com/milk9111/heavypockets/levels"
	"github.com/sirupsen/logrus"
)

// Result summarizes a headless run.
type Result struct {
	Frames    int
	Deaths    int
	Coins     int
	Completed bool
	X, Y      float64
}

type simulation struct {
	lvl     *levels.Level
	specs   *entity.Prefabs
	session *levels.Session
	log     logrus.FieldLogger

	world     *ecs.World
	player    ecs.Entity
	scheduler *ecs.Scheduler
	complete  *system.LevelCompleteSystem
}

func (s *simulation) build() error {
	s.session.BeginLevel(s.session.LevelIndex, s.lvl.Name, len(s.lvl.Coins))
	w := ecs.NewWorld()
	p, err := entity.LoadLevelToWorld(w, s.lvl, s.specs, s.session, s.log)
	if err != nil {
		return err
	}
	if !p.Valid() {
		return fmt.Errorf("simulate: level %s has no player", s.lvl.Name)
	}
	s.complete = system.NewLevelCompleteSystem(s.session, s.log)
	s.scheduler = ecs.NewScheduler(
		system.NewPhysicsSystem(common.FixedDelta),
		system.NewPlayerControllerSystem(common.FixedDelta),
		system.NewCoinCollectSystem(s.session, s.log),
		system.NewHazardSystem(s.session, common.FixedDelta, s.log),
		system.NewReloadCountdownSystem(common.FixedDelta),
		s.complete,
		system.NewSlimeSystem(s.log),
		system.NewCameraSystem(),
		system.NewTTLSystem(),
	)
	s.world, s.player = w, p
	return nil
}

// Run plays script on lvl without a window. A death reloads the level, as
// the game does; reaching the goal ends the run. Telemetry is logged every
// `every` frames when every is positive.
func Run(lvl *levels.Level, specs *entity.Prefabs, script Script, every int, log logrus.FieldLogger) (Result, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}
	s := &simulation{lvl: lvl, specs: specs, session: levels.NewSession(), log: log}
	if err := s.build(); err != nil {
		return Result{}, err
	}

	res := Result{}
	frame := 0
	for _, seg := range script {
		for i := 0; i < seg.Frames; i++ {
			if in, ok := ecs.Get(s.world, s.player, component.InputComponent.Kind()); ok {
				in.Frame = seg.Input(i)
			}
			s.scheduler.Update(s.world)
			frame++

			for _, ev := range s.world.Events().Drain() {
				log.WithFields(logrus.Fields{"frame": frame, "event": ev.Type}).Debug("event")
			}
			if every > 0 && frame%every == 0 {
				s.logTelemetry(frame)
			}

			if s.complete.Completed() {
				res.Completed = true
				return s.result(res, frame), nil
			}
			if ecs.Count(s.world, component.ReloadRequestComponent.Kind()) > 0 {
				if err := s.build(); err != nil {
					return res, err
				}
			}
		}
	}
	return s.result(res, frame), nil
}

func (s *simulation) result(res Result, frame int) Result {
	res.Frames = frame
	res.Deaths = s.session.Deaths
	res.Coins = s.session.CurrentCoins + s.session.TotalCollected
	if t, ok := ecs.Get(s.world, s.player, component.TransformComponent.Kind()); ok {
		res.X, res.Y = t.X, t.Y
	}
	return res
}

func (s *simulation) logTelemetry(frame int) {
	c, ok := ecs.Get(s.world, s.player, component.ControllerComponent.Kind())
	if !ok || c.Controller == nil {
		return
	}
	t, _ := ecs.Get(s.world, s.player, component.TransformComponent.Kind())
	snap := c.Controller.Snapshot()
	s.log.WithFields(logrus.Fields{
		"frame":      frame,
		"x":          t.X,
		"y":          t.Y,
		"vx":         snap.VelocityX,
		"vy":         snap.VelocityY,
		"grounded":   snap.Grounded,
		"slope":      snap.SlopeAngle,
		"jumps":      snap.JumpCount,
		"dashing":    snap.Dashing,
		"sliding":    snap.Sliding,
		"friction":   snap.Friction,
		"coins":      snap.Coins,
		"move_speed": snap.MoveSpeed,
	}).Info("step")
}
