package main

import (
	"fmt"
	"path"

	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/heavypockets/common"
	"github.com/milk9111/heavypockets/ecs"
	"github.com/milk9111/heavypockets/ecs/component"
	"github.com/milk9111/heavypockets/ecs/device"
	"github.com/milk9111/heavypockets/ecs/entity"
	"github.com/milk9111/heavypockets/ecs/render"
	"github.com/milk9111/heavypockets/ecs/system"
	"github.com/milk9111/heavypockets/levels"
	"github.com/milk9111/heavypockets/prefabs"
	"github.com/sirupsen/logrus"
)

type Config struct {
	Level string
	Debug bool
	Watch bool
	Music device.MusicConfig
}

// Game owns the current level world. Systems only emit data; the game loop
// owns level transitions, hot reload and IO.
type Game struct {
	cfg     Config
	log     logrus.FieldLogger
	session *levels.Session
	specs   *entity.Prefabs

	levelName string
	level     *levels.Level
	world     *ecs.World
	scheduler *ecs.Scheduler

	slimes        *system.SlimeSystem
	levelComplete *system.LevelCompleteSystem
	music         *device.MusicSystem
	telemetry     *device.TelemetryCopier

	render  *render.RenderSystem
	hud     *render.HUDSystem
	pauseUI *ebitenui.UI
	paused  bool
	quit    bool

	watcher *prefabs.Watcher
}

func NewGame(cfg Config, log logrus.FieldLogger) (*Game, error) {
	specs, err := entity.LoadPrefabs()
	if err != nil {
		return nil, err
	}
	hudSpec, err := prefabs.LoadHUDSpec()
	if err != nil {
		log.WithError(err).Warn("hud.yaml, using defaults")
	}

	g := &Game{
		cfg:     cfg,
		log:     log,
		session: levels.NewSession(),
		specs:   specs,
		slimes:  system.NewSlimeSystem(log),
		render:  render.NewRenderSystem(),
		hud:     render.NewHUDSystem(hudSpec),
	}
	g.pauseUI = render.NewPauseUI(render.PauseActions{
		Resume:  func() { g.paused = false },
		Restart: func() { g.paused = false; g.reload() },
		Quit:    func() { g.quit = true },
	})
	if cfg.Debug {
		g.telemetry = device.NewTelemetryCopier(log)
	}
	if cfg.Watch {
		w, err := prefabs.NewWatcher("prefabs", path.Join("prefabs", "scripts"))
		if err != nil {
			log.WithError(err).Warn("watch disabled")
		} else {
			g.watcher = w
		}
	}

	name := cfg.Level
	if name == "" {
		if name, err = levels.First(); err != nil {
			return nil, err
		}
	}
	if err := g.loadLevel(name); err != nil {
		return nil, err
	}
	return g, nil
}

func levelFile(name string) string {
	if path.Ext(name) == "" {
		return name + ".json"
	}
	return name
}

func levelIndex(name string) int {
	for i, n := range levels.Names() {
		if n == name {
			return i
		}
	}
	return -1
}

// loadLevel replaces the current world with a fresh build of name.
func (g *Game) loadLevel(name string) error {
	name = levelFile(name)
	lvl, err := levels.Load(name)
	if err != nil {
		return err
	}

	if g.music != nil {
		g.music.Save()
		g.music.Close()
	}

	g.session.BeginLevel(levelIndex(name), name, len(lvl.Coins))
	w := ecs.NewWorld()
	if _, err := entity.LoadLevelToWorld(w, lvl, g.specs, g.session, g.log); err != nil {
		return fmt.Errorf("build level %s: %w", name, err)
	}

	g.music = device.NewMusicSystem(g.cfg.Music, g.session, g.log)
	g.levelComplete = system.NewLevelCompleteSystem(g.session, g.log)
	g.scheduler = ecs.NewScheduler(
		device.NewInputSystem(),
		system.NewPhysicsSystem(common.FixedDelta),
		system.NewPlayerControllerSystem(common.FixedDelta),
		system.NewCoinCollectSystem(g.session, g.log),
		system.NewHazardSystem(g.session, common.FixedDelta, g.log),
		system.NewReloadCountdownSystem(common.FixedDelta),
		g.levelComplete,
		g.slimes,
		system.NewCameraSystem(),
		system.NewTTLSystem(),
		g.music,
	)
	if g.telemetry != nil {
		g.scheduler.Add(g.telemetry)
	}

	g.levelName, g.level, g.world = name, lvl, w
	g.log.WithFields(logrus.Fields{"level": name, "index": g.session.LevelIndex, "total_coins": g.session.TotalCollected}).Info("level loaded")
	return nil
}

func (g *Game) reload() {
	if err := g.loadLevel(g.levelName); err != nil {
		g.log.WithError(err).Error("reload level")
	}
}

func (g *Game) Update() error {
	if g.quit {
		return ebiten.Termination
	}
	g.applyChanges()

	if device.PausePressed() && !g.level.Final {
		g.paused = !g.paused
	}
	if g.paused {
		g.pauseUI.Update()
		return nil
	}

	g.scheduler.Update(g.world)
	g.logEvents()

	switch {
	case ecs.Count(g.world, component.ReloadRequestComponent.Kind()) > 0:
		g.reload()
	case g.levelComplete.Completed():
		next, ok := levels.Next(g.levelName)
		if !ok {
			g.log.Info("no level after this one")
			break
		}
		if err := g.loadLevel(next); err != nil {
			return err
		}
	}
	return nil
}

func (g *Game) logEvents() {
	for _, ev := range g.world.Events().Drain() {
		entry := g.log.WithFields(logrus.Fields{"event": ev.Type, "entity": ev.Entity})
		if ev.Data != nil {
			entry = entry.WithField("data", ev.Data)
		}
		entry.Debug("event")
	}
}

// applyChanges hot reloads prefabs and scripts edited on disk.
func (g *Game) applyChanges() {
	if g.watcher == nil {
		return
	}
	for {
		select {
		case change, ok := <-g.watcher.Events:
			if !ok {
				g.watcher = nil
				return
			}
			g.applyChange(change)
		case err, ok := <-g.watcher.Errors:
			if ok {
				g.log.WithError(err).Warn("watcher")
			}
		default:
			return
		}
	}
}

func (g *Game) applyChange(change prefabs.Change) {
	log := g.log.WithField("file", change.Name)
	switch change.Kind {
	case prefabs.ChangeScript:
		g.slimes.Invalidate()
		log.Info("slime scripts reloaded")
	case prefabs.ChangeSpec:
		specs, err := entity.LoadPrefabs()
		if err != nil {
			log.WithError(err).Warn("reload prefabs")
			return
		}
		g.specs = specs
		if change.Name == "hud.yaml" {
			if hudSpec, err := prefabs.LoadHUDSpec(); err == nil {
				g.hud = render.NewHUDSystem(hudSpec)
			}
		}
		if p, ok := ecs.First(g.world, component.PlayerTagComponent.Kind()); ok && change.Name == "player.yaml" {
			if c, ok := ecs.Get(g.world, p, component.ControllerComponent.Kind()); ok {
				c.Controller.SetTuning(specs.Player.Tuning)
			}
		}
		log.Info("prefabs reloaded")
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	if g.level.Final {
		render.DrawEndScreen(screen, g.session.TotalCollected)
		return
	}
	g.render.Draw(g.world, screen)
	g.hud.Draw(g.world, screen)
	if g.cfg.Debug {
		render.DrawPhysicsDebug(g.world, screen)
		render.DrawPlayerDebug(g.world, screen)
	}
	if g.paused {
		g.pauseUI.Draw(screen)
	}
}

func (g *Game) Close() {
	if g.music != nil {
		g.music.Close()
	}
	if g.watcher != nil {
		_ = g.watcher.Close()
	}
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return common.BaseWidth, common.BaseHeight
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}
