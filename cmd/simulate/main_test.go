package main

import (
	"io"
	"testing"

	"github.com/milk9111/heavypockets/ecs/entity"
	"github.com/milk9111/heavypockets/levels"
	"github.com/sirupsen/logrus"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestParseScript(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		frames  int
		wantErr bool
	}{
		{"two_segments", "- {frames: 30, move: 1}\n- {frames: 10, jump: true}\n", 40, false},
		{"empty", "", 0, false},
		{"zero_frames", "- {frames: 0, move: 1}\n", 0, true},
		{"not_a_list", "frames: 3\n", 0, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s, err := ParseScript([]byte(tc.src))
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected an error")
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseScript: %v", err)
			}
			if s.Frames() != tc.frames {
				t.Fatalf("frames = %d, want %d", s.Frames(), tc.frames)
			}
		})
	}
}

func TestSegmentInputPressesOnce(t *testing.T) {
	seg := Segment{Frames: 3, Move: 4, Jump: true, Dash: true, Slide: true}
	first := seg.Input(0)
	if !first.JumpPressed || !first.DashPressed || !first.JumpHeld || !first.SlideHeld {
		t.Fatalf("first frame = %+v", first)
	}
	if first.MoveAxis != 1 {
		t.Fatalf("move axis should be clamped, got %v", first.MoveAxis)
	}
	later := seg.Input(1)
	if later.JumpPressed || later.DashPressed {
		t.Fatalf("presses must only fire on the first frame")
	}
	if !later.JumpHeld {
		t.Fatalf("jump should stay held")
	}
}

func runLevel() *levels.Level {
	return &levels.Level{
		Name:      "run",
		Width:     40,
		Height:    10,
		Spawn:     levels.Point{X: 5, Y: 1},
		Platforms: []levels.Rect{{X: 0, Y: 0, W: 40, H: 1}},
		Goal:      &levels.Rect{X: 30, Y: 1, W: 1, H: 2},
	}
}

func loadSpecs(t *testing.T) *entity.Prefabs {
	t.Helper()
	specs, err := entity.LoadPrefabs()
	if err != nil {
		t.Fatalf("LoadPrefabs: %v", err)
	}
	return specs
}

func TestRun(t *testing.T) {
	t.Run("walks_right", func(t *testing.T) {
		script := Script{{Frames: 20}, {Frames: 60, Move: 1}}
		res, err := Run(runLevel(), loadSpecs(t), script, 10, quietLogger())
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
		if res.Frames != 80 {
			t.Fatalf("frames = %d, want 80", res.Frames)
		}
		if res.X <= 6 || res.Completed || res.Deaths != 0 {
			t.Fatalf("unexpected result %+v", res)
		}
	})

	t.Run("reaches_goal", func(t *testing.T) {
		lvl := runLevel()
		lvl.Goal = &levels.Rect{X: 8, Y: 1, W: 1, H: 2}
		res, err := Run(lvl, loadSpecs(t), Script{{Frames: 300, Move: 1}}, 0, quietLogger())
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
		if !res.Completed || res.Frames >= 300 {
			t.Fatalf("expected to finish early, got %+v", res)
		}
	})

	t.Run("hazard_reloads", func(t *testing.T) {
		lvl := runLevel()
		lvl.Hazards = []levels.Rect{{X: 7, Y: 1, W: 1, H: 0.3}}
		res, err := Run(lvl, loadSpecs(t), Script{{Frames: 240, Move: 1}}, 0, quietLogger())
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
		if res.Deaths < 1 || res.Completed {
			t.Fatalf("expected a death, got %+v", res)
		}
		if res.X > 8 {
			t.Fatalf("player should never get past the hazard, x=%v", res.X)
		}
	})

	t.Run("final_level_has_no_player", func(t *testing.T) {
		lvl := runLevel()
		lvl.Final = true
		if _, err := Run(lvl, loadSpecs(t), Script{{Frames: 1}}, 0, quietLogger()); err == nil {
			t.Fatalf("expected an error for a level without a player")
		}
	})
}
