package system

import (
	"io"
	"math"
	"testing"

	"github.com/milk9111/heavypockets/common"
	"github.com/milk9111/heavypockets/ecs"
	"github.com/milk9111/heavypockets/ecs/component"
	"github.com/milk9111/heavypockets/ecs/entity"
	"github.com/milk9111/heavypockets/levels"
	"github.com/milk9111/heavypockets/prefabs"
	"github.com/sirupsen/logrus"
)

const dt = common.FixedDelta

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func testLevel() *levels.Level {
	return &levels.Level{
		Name:      "test",
		Width:     20,
		Height:    10,
		Spawn:     levels.Point{X: 5, Y: 1},
		Platforms: []levels.Rect{{X: 0, Y: 0, W: 20, H: 1}},
		Coins:     []levels.Point{{X: 8, Y: 1.5}, {X: 10, Y: 1.5}, {X: 12, Y: 1.5}},
	}
}

type fixture struct {
	w       *ecs.World
	player  ecs.Entity
	spec    *prefabs.PlayerSpec
	session *levels.Session
	log     *logrus.Logger
}

func newFixture(t *testing.T, lvl *levels.Level) *fixture {
	t.Helper()
	log := quietLogger()
	spec, err := prefabs.DecodePlayerSpec(nil)
	if err != nil {
		t.Fatalf("DecodePlayerSpec: %v", err)
	}
	session := levels.NewSession()
	session.BeginLevel(0, lvl.Name, len(lvl.Coins))

	w := ecs.NewWorld()
	ecs.NewPhysicsWorld(w, lvl, log)
	p, err := entity.NewPlayerAt(w, spec, lvl.Spawn, len(lvl.Coins), log)
	if err != nil {
		t.Fatalf("NewPlayerAt: %v", err)
	}
	return &fixture{w: w, player: p, spec: spec, session: session, log: log}
}

func (f *fixture) controller(t *testing.T) *component.Controller {
	t.Helper()
	c, ok := ecs.Get(f.w, f.player, component.ControllerComponent.Kind())
	if !ok {
		t.Fatalf("player has no controller")
	}
	return c
}

func hasEvent(events []ecs.Event, typ ecs.EventType) bool {
	for _, e := range events {
		if e.Type == typ {
			return true
		}
	}
	return false
}

func TestCoinCollectSystem(t *testing.T) {
	f := newFixture(t, testLevel())
	coin, err := entity.NewCoin(f.w, 0, levels.Point{X: 8, Y: 1.5})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := entity.NewCoinCounter(f.w, 0, 3); err != nil {
		t.Fatal(err)
	}
	_ = ecs.Add(f.w, coin, component.CollectedComponent.Kind(), &component.Collected{})

	NewCoinCollectSystem(f.session, f.log).Update(f.w)

	if f.session.CurrentCoins != 1 {
		t.Fatalf("session coins = %d, want 1", f.session.CurrentCoins)
	}
	if got := f.controller(t).Controller.Budget().CoinsCollected(); got != 1 {
		t.Fatalf("budget coins = %d, want 1", got)
	}
	if ecs.IsAlive(f.w, coin) {
		t.Fatalf("collected coin should be destroyed")
	}
	counterEntity, _ := ecs.First(f.w, component.CoinCounterComponent.Kind())
	counter, _ := ecs.Get(f.w, counterEntity, component.CoinCounterComponent.Kind())
	if counter.RenderedText != "1/3" {
		t.Fatalf("counter text = %q, want 1/3", counter.RenderedText)
	}
	if ecs.Count(f.w, component.FloatingTextComponent.Kind()) != 1 {
		t.Fatalf("expected a floating +1 label")
	}
	if !hasEvent(f.w.Events().Drain(), ecs.EventCoinCollected) {
		t.Fatalf("expected a coin collected event")
	}
}

func TestCoinCollectSystemSyncsBudgetWithSession(t *testing.T) {
	f := newFixture(t, testLevel())
	// a pickup the budget never heard about
	f.session.CollectCoin()

	coin, err := entity.NewCoin(f.w, 1, levels.Point{X: 10, Y: 1.5})
	if err != nil {
		t.Fatal(err)
	}
	_ = ecs.Add(f.w, coin, component.CollectedComponent.Kind(), &component.Collected{})

	NewCoinCollectSystem(f.session, f.log).Update(f.w)

	budget := f.controller(t).Controller.Budget()
	if f.session.CurrentCoins != 2 {
		t.Fatalf("session coins = %d, want 2", f.session.CurrentCoins)
	}
	if got, want := budget.CoinsCollected(), f.session.LevelCoins-f.session.Remaining(); got != want {
		t.Fatalf("budget coins = %d, want %d", got, want)
	}
}

func TestCoinCollectSystemIgnoresNonCoins(t *testing.T) {
	f := newFixture(t, testLevel())
	e := ecs.CreateEntity(f.w)
	_ = ecs.Add(f.w, e, component.CollectedComponent.Kind(), &component.Collected{})

	NewCoinCollectSystem(f.session, f.log).Update(f.w)

	if f.session.CurrentCoins != 0 {
		t.Fatalf("non-coin counted as a pickup")
	}
	if ecs.Has(f.w, e, component.CollectedComponent.Kind()) {
		t.Fatalf("stale collected marker should be removed")
	}
}

func TestHazardSystem(t *testing.T) {
	f := newFixture(t, testLevel())
	f.session.CurrentCoins = 2
	_ = ecs.Add(f.w, f.player, component.DeathRequestComponent.Kind(), &component.DeathRequest{})

	sys := NewHazardSystem(f.session, dt, f.log)
	sys.Update(f.w)

	c := f.controller(t)
	if c.Controller.Enabled() {
		t.Fatalf("controller should be frozen")
	}
	if !ecs.Has(f.w, f.player, component.DyingComponent.Kind()) {
		t.Fatalf("expected the player to be dying")
	}
	if ecs.Has(f.w, f.player, component.DeathRequestComponent.Kind()) {
		t.Fatalf("death request should be consumed")
	}
	rc, ok := ecs.Get(f.w, f.player, component.ReloadCountdownComponent.Kind())
	if !ok || rc.Remaining != f.spec.ReloadDelay {
		t.Fatalf("expected reload countdown of %v, got %+v", f.spec.ReloadDelay, rc)
	}
	if f.session.CurrentCoins != 0 || f.session.Deaths != 1 {
		t.Fatalf("session after death = %+v", f.session)
	}
	body, _ := ecs.Get(f.w, f.player, component.PhysicsBodyComponent.Kind())
	if body.Shape.Friction() != f.spec.DeathFriction {
		t.Fatalf("friction = %v, want %v", body.Shape.Friction(), f.spec.DeathFriction)
	}
	if !hasEvent(f.w.Events().Drain(), ecs.EventPlayerDied) {
		t.Fatalf("expected a player died event")
	}

	_ = ecs.Add(f.w, f.player, component.DeathRequestComponent.Kind(), &component.DeathRequest{})
	sys.Update(f.w)
	if f.session.Deaths != 1 {
		t.Fatalf("dying player died twice")
	}
	tr, _ := ecs.Get(f.w, f.player, component.TransformComponent.Kind())
	want := 2 * f.spec.DeathSpin * dt
	if math.Abs(tr.Rotation-want) > 1e-9 {
		t.Fatalf("rotation = %v, want %v", tr.Rotation, want)
	}
}

func TestReloadCountdownSystem(t *testing.T) {
	w := ecs.NewWorld()
	e := ecs.CreateEntity(w)
	_ = ecs.Add(w, e, component.ReloadCountdownComponent.Kind(), &component.ReloadCountdown{Remaining: 0.04})

	sys := NewReloadCountdownSystem(dt)
	sys.Update(w)
	sys.Update(w)
	if ecs.Count(w, component.ReloadRequestComponent.Kind()) != 0 {
		t.Fatalf("reload requested early")
	}
	sys.Update(w)
	if ecs.Count(w, component.ReloadRequestComponent.Kind()) != 1 {
		t.Fatalf("expected one reload request")
	}
	if ecs.Has(w, e, component.ReloadCountdownComponent.Kind()) {
		t.Fatalf("countdown should be removed once expired")
	}
	sys.Update(w)
	if ecs.Count(w, component.ReloadRequestComponent.Kind()) != 1 {
		t.Fatalf("expired countdown fired twice")
	}
}

func TestLevelCompleteSystem(t *testing.T) {
	f := newFixture(t, testLevel())
	f.session.CurrentCoins = 2
	sys := NewLevelCompleteSystem(f.session, f.log)

	sys.Update(f.w)
	if sys.Completed() {
		t.Fatalf("completed without reaching the goal")
	}

	_ = ecs.Add(f.w, f.player, component.LevelCompleteRequestComponent.Kind(), &component.LevelCompleteRequest{})
	sys.Update(f.w)
	if !sys.Completed() {
		t.Fatalf("expected completion")
	}
	if f.session.TotalCollected != 2 || f.session.CurrentCoins != 0 {
		t.Fatalf("session after completion = %+v", f.session)
	}
	if f.controller(t).Controller.Enabled() {
		t.Fatalf("controller should be frozen at the goal")
	}
	if !hasEvent(f.w.Events().Drain(), ecs.EventLevelCompleted) {
		t.Fatalf("expected a level completed event")
	}

	f.session.CurrentCoins = 1
	sys.Update(f.w)
	if f.session.TotalCollected != 2 {
		t.Fatalf("level banked twice")
	}
	if !ecs.Has(f.w, f.player, component.LevelCompleteRequestComponent.Kind()) {
		t.Fatalf("request must stay for the game loop")
	}
}

func TestPatrol(t *testing.T) {
	tests := []struct {
		name      string
		slime     component.Slime
		in        slimeInput
		wantDir   float64
		wantScale float64
	}{
		{"keeps_direction", component.Slime{MinX: 0, MaxX: 10, Dir: 1}, slimeInput{x: 5, dx: noPlayer, dy: noPlayer}, 1, 1},
		{"turns_when_blocked", component.Slime{MinX: 0, MaxX: 10, Dir: 1, Blocked: true}, slimeInput{x: 5, dx: noPlayer, dy: noPlayer}, -1, 1},
		{"turns_at_max", component.Slime{MinX: 0, MaxX: 10, Dir: 1}, slimeInput{x: 10, dx: noPlayer, dy: noPlayer}, -1, 1},
		{"turns_at_min", component.Slime{MinX: 0, MaxX: 10, Dir: -1}, slimeInput{x: 0, dx: noPlayer, dy: noPlayer}, 1, 1},
		{"chases_nearby_player", component.Slime{MinX: 0, MaxX: 10, Dir: 1}, slimeInput{x: 5, dx: -2, dy: 0}, -1, slimeChaseBoost},
		{"ignores_player_above", component.Slime{MinX: 0, MaxX: 10, Dir: 1}, slimeInput{x: 5, dx: -2, dy: 3}, 1, 1},
		{"no_chase_past_range", component.Slime{MinX: 0, MaxX: 10, Dir: 1}, slimeInput{x: 9.8, dx: 2, dy: 0}, 1, 1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := tc.slime
			dir, scale := patrol(&s, tc.in)
			if dir != tc.wantDir || scale != tc.wantScale {
				t.Fatalf("patrol = (%v, %v), want (%v, %v)", dir, scale, tc.wantDir, tc.wantScale)
			}
		})
	}
}

func TestSlimeScriptMatchesNativePatrol(t *testing.T) {
	sys := NewSlimeSystem(quietLogger())
	inputs := []struct {
		slime component.Slime
		in    slimeInput
	}{
		{component.Slime{MinX: 0, MaxX: 10, Dir: 1}, slimeInput{x: 5, dx: noPlayer, dy: noPlayer}},
		{component.Slime{MinX: 0, MaxX: 10, Dir: 1, Blocked: true}, slimeInput{x: 5, dx: noPlayer, dy: noPlayer}},
		{component.Slime{MinX: 0, MaxX: 10, Dir: 1}, slimeInput{x: 11, dx: noPlayer, dy: noPlayer}},
		{component.Slime{MinX: 0, MaxX: 10, Dir: -1}, slimeInput{x: -1, dx: noPlayer, dy: noPlayer}},
		{component.Slime{MinX: 0, MaxX: 10, Dir: 1}, slimeInput{x: 5, dx: -2, dy: 0.5}},
	}
	for i, tc := range inputs {
		brain := &component.SlimeBrain{Script: "slime"}
		s := tc.slime
		dir, scale, err := sys.runScript(brain, &s, tc.in)
		if err != nil {
			t.Fatalf("case %d: runScript: %v", i, err)
		}
		wantDir, wantScale := patrol(&s, tc.in)
		if dir != wantDir || scale != wantScale {
			t.Fatalf("case %d: script = (%v, %v), native = (%v, %v)", i, dir, scale, wantDir, wantScale)
		}
	}
}

func TestSlimeSystemDrivesBody(t *testing.T) {
	tests := []struct {
		name       string
		script     string
		wantFailed bool
	}{
		{"scripted", "slime", false},
		{"missing_script_falls_back", "does_not_exist", true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := ecs.NewWorld()
			ecs.NewPhysicsWorld(w, testLevel(), quietLogger())
			spec, err := prefabs.LoadSlimeSpec()
			if err != nil {
				t.Fatal(err)
			}
			spec.Script = tc.script
			e, err := entity.NewSlime(w, spec, levels.SlimeSpawn{X: 12, Y: 1, MinX: 5, MaxX: 10, Speed: 2})
			if err != nil {
				t.Fatal(err)
			}

			NewSlimeSystem(quietLogger()).Update(w)

			slime, _ := ecs.Get(w, e, component.SlimeComponent.Kind())
			if slime.Dir != -1 {
				t.Fatalf("slime past max_x should turn back, dir=%v", slime.Dir)
			}
			body, _ := ecs.Get(w, e, component.PhysicsBodyComponent.Kind())
			if vx := body.Body.Velocity().X; vx != -2 {
				t.Fatalf("vx = %v, want -2", vx)
			}
			brain, _ := ecs.Get(w, e, component.SlimeBrainComponent.Kind())
			if brain.Failed != tc.wantFailed {
				t.Fatalf("brain failed = %v, want %v", brain.Failed, tc.wantFailed)
			}
		})
	}
}

func TestSlimeSystemInvalidate(t *testing.T) {
	sys := NewSlimeSystem(quietLogger())
	if _, err := sys.compile("slime"); err != nil {
		t.Fatal(err)
	}
	if len(sys.scripts) != 1 {
		t.Fatalf("expected a cached script")
	}
	sys.Invalidate()
	if len(sys.scripts) != 0 || !sys.reset {
		t.Fatalf("invalidate should drop the cache and reset brains")
	}

	w := ecs.NewWorld()
	ecs.NewPhysicsWorld(w, testLevel(), quietLogger())
	spec, _ := prefabs.LoadSlimeSpec()
	e, _ := entity.NewSlime(w, spec, levels.SlimeSpawn{X: 7, Y: 1, MinX: 5, MaxX: 10})
	brain, _ := ecs.Get(w, e, component.SlimeBrainComponent.Kind())
	brain.Failed = true

	sys.Update(w)
	if brain.Failed || brain.Compiled == nil {
		t.Fatalf("reset should retry the script")
	}
}

func TestCameraSystem(t *testing.T) {
	lvl := testLevel()
	lvl.Width = 64
	lvl.Height = 16
	f := newFixture(t, lvl)
	cam := &component.Camera{OffsetY: 1, Smoothness: 0.5, Zoom: 1}
	ce := ecs.CreateEntity(f.w)
	_ = ecs.Add(f.w, ce, component.CameraComponent.Kind(), cam)

	tr, _ := ecs.Get(f.w, f.player, component.TransformComponent.Kind())
	tr.X, tr.Y = 30, 8

	sys := NewCameraSystem()
	sys.Update(f.w)
	if cam.X != 30 || cam.Y != 9 {
		t.Fatalf("first update should snap, got (%v, %v)", cam.X, cam.Y)
	}

	tr.X = 34
	sys.Update(f.w)
	if cam.X != 32 {
		t.Fatalf("expected half-way ease to 32, got %v", cam.X)
	}

	tr.X = 1
	for i := 0; i < 50; i++ {
		sys.Update(f.w)
	}
	hw, _ := common.ViewHalfExtent(1)
	if math.Abs(cam.X-hw) > 1e-9 {
		t.Fatalf("camera should clamp at the left edge %v, got %v", hw, cam.X)
	}
}

func TestTTLSystem(t *testing.T) {
	w := ecs.NewWorld()
	e, _ := entity.NewFloatingText(w, "+1", 0, 0, 2)
	sys := NewTTLSystem()

	sys.Update(w)
	if !ecs.IsAlive(w, e) {
		t.Fatalf("label destroyed early")
	}
	tr, _ := ecs.Get(w, e, component.TransformComponent.Kind())
	if tr.Y <= 0 {
		t.Fatalf("label should drift up, y=%v", tr.Y)
	}
	sys.Update(w)
	if ecs.IsAlive(w, e) {
		t.Fatalf("label should expire after its frames")
	}
}

func TestPlayerControllerSystem(t *testing.T) {
	f := newFixture(t, testLevel())
	sched := ecs.NewScheduler(NewPhysicsSystem(dt), NewPlayerControllerSystem(dt))
	in, _ := ecs.Get(f.w, f.player, component.InputComponent.Kind())
	c := f.controller(t).Controller

	for i := 0; i < 30; i++ {
		sched.Update(f.w)
	}
	if !c.IsGrounded() {
		t.Fatalf("player should stand on the platform")
	}
	f.w.Events().Drain()

	start, _ := ecs.Get(f.w, f.player, component.TransformComponent.Kind())
	x0 := start.X
	in.Frame.MoveAxis = 1
	for i := 0; i < 20; i++ {
		sched.Update(f.w)
	}
	tr, _ := ecs.Get(f.w, f.player, component.TransformComponent.Kind())
	if tr.X <= x0 || c.CurrentVelocity().X <= 0 {
		t.Fatalf("expected to move right, x %v -> %v, vx=%v", x0, tr.X, c.CurrentVelocity().X)
	}

	in.Frame.MoveAxis = 0
	in.Frame.JumpPressed = true
	sched.Update(f.w)
	in.Frame.JumpPressed = false
	if c.JumpCount() != 1 {
		t.Fatalf("expected a jump, count=%d", c.JumpCount())
	}
	if !hasEvent(f.w.Events().Drain(), ecs.EventJump) {
		t.Fatalf("expected a jump event")
	}
}

func TestLevelPlaythroughCollectsFirstCoin(t *testing.T) {
	lvl, err := levels.Load("01_hills")
	if err != nil {
		t.Fatal(err)
	}
	specs, err := entity.LoadPrefabs()
	if err != nil {
		t.Fatal(err)
	}
	log := quietLogger()
	session := levels.NewSession()
	session.BeginLevel(0, lvl.Name, len(lvl.Coins))

	w := ecs.NewWorld()
	p, err := entity.LoadLevelToWorld(w, lvl, specs, session, log)
	if err != nil {
		t.Fatal(err)
	}
	sched := ecs.NewScheduler(
		NewPhysicsSystem(dt),
		NewPlayerControllerSystem(dt),
		NewCoinCollectSystem(session, log),
		NewHazardSystem(session, dt, log),
		NewReloadCountdownSystem(dt),
		NewLevelCompleteSystem(session, log),
		NewSlimeSystem(log),
		NewCameraSystem(),
		NewTTLSystem(),
	)

	in, _ := ecs.Get(w, p, component.InputComponent.Kind())
	in.Frame.MoveAxis = 1
	for i := 0; i < 120; i++ {
		sched.Update(w)
	}

	if session.CurrentCoins < 1 {
		t.Fatalf("expected the first coin to be collected")
	}
	c, _ := ecs.Get(w, p, component.ControllerComponent.Kind())
	if got := c.Controller.Budget().CoinsCollected(); got != session.CurrentCoins {
		t.Fatalf("budget (%d) and session (%d) disagree", got, session.CurrentCoins)
	}
	if c.Controller.CurrentMoveSpeed() >= specs.Player.Tuning.MoveSpeed {
		t.Fatalf("move speed should have decayed")
	}
}
