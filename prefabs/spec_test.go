package prefabs

import (
	"image/color"
	"strings"
	"testing"

	"github.com/milk9111/heavypockets/player"
)

func TestLoadEmbeddedSpecs(t *testing.T) {
	ps, err := LoadPlayerSpec()
	if err != nil {
		t.Fatalf("LoadPlayerSpec: %v", err)
	}
	if ps.Tuning != player.DefaultTuning() {
		t.Fatalf("player.yaml tuning drifted from the defaults:\n%+v\n%+v", ps.Tuning, player.DefaultTuning())
	}
	if ps.Collider.Width <= 0 || ps.GroundSensor.Height <= 0 {
		t.Fatalf("unexpected collider %+v sensor %+v", ps.Collider, ps.GroundSensor)
	}

	ss, err := LoadSlimeSpec()
	if err != nil {
		t.Fatalf("LoadSlimeSpec: %v", err)
	}
	if ss.Script == "" || ss.Speed <= 0 {
		t.Fatalf("unexpected slime spec %+v", ss)
	}

	cs, err := LoadCameraSpec()
	if err != nil {
		t.Fatalf("LoadCameraSpec: %v", err)
	}
	if cs.Zoom != 1 {
		t.Fatalf("camera zoom %v", cs.Zoom)
	}

	hs, err := LoadHUDSpec()
	if err != nil {
		t.Fatalf("LoadHUDSpec: %v", err)
	}
	if hs.BarWidth <= 0 || hs.TextColor == nil {
		t.Fatalf("unexpected hud spec %+v", hs)
	}
}

func TestDecodePlayerSpec(t *testing.T) {
	cases := []struct {
		name    string
		data    string
		wantErr string
		check   func(t *testing.T, s *PlayerSpec)
	}{
		{
			name: "partial_keeps_defaults",
			data: "tuning:\n  move_speed: 7\n",
			check: func(t *testing.T, s *PlayerSpec) {
				if s.Tuning.MoveSpeed != 7 {
					t.Fatalf("move_speed = %v", s.Tuning.MoveSpeed)
				}
				if s.Tuning.JumpForce != player.DefaultTuning().JumpForce {
					t.Fatalf("jump_force lost its default: %v", s.Tuning.JumpForce)
				}
			},
		},
		{name: "invalid_tuning", data: "tuning:\n  air_control: 3\n", wantErr: "air_control"},
		{name: "bad_collider", data: "collider:\n  width: 0\n  height: 1\n", wantErr: "collider"},
		{name: "bad_yaml", data: "tuning: [", wantErr: "unmarshal"},
		{
			name: "zero_mass_defaults",
			data: "mass: 0\n",
			check: func(t *testing.T, s *PlayerSpec) {
				if s.Mass != 1 {
					t.Fatalf("mass = %v", s.Mass)
				}
			},
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			s, err := DecodePlayerSpec([]byte(c.data))
			if c.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), c.wantErr) {
					t.Fatalf("err = %v, want mention of %q", err, c.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("DecodePlayerSpec: %v", err)
			}
			c.check(t, s)
		})
	}
}

func TestLoadScript(t *testing.T) {
	for _, name := range []string{"slime", "slime.tengo", "scripts/slime.tengo", "prefabs/scripts/slime.tengo"} {
		data, err := LoadScript(name)
		if err != nil {
			t.Fatalf("LoadScript(%q): %v", name, err)
		}
		if len(data) == 0 {
			t.Fatalf("LoadScript(%q) returned empty script", name)
		}
	}
	if _, err := LoadScript("missing"); err == nil {
		t.Fatalf("expected error for a missing script")
	}
}

func TestYAMLColorOr(t *testing.T) {
	var c *YAMLColor
	fallback := color.NRGBA{R: 1, A: 255}
	if c.Or(fallback) != fallback {
		t.Fatalf("nil color should use fallback")
	}
}

func TestClassify(t *testing.T) {
	cases := []struct {
		path string
		kind ChangeKind
		ok   bool
	}{
		{"prefabs/player.yaml", ChangeSpec, true},
		{"prefabs/x.YML", ChangeSpec, true},
		{"prefabs/scripts/slime.tengo", ChangeScript, true},
		{"prefabs/readme.md", 0, false},
	}
	for _, c := range cases {
		kind, ok := classify(c.path)
		if kind != c.kind || ok != c.ok {
			t.Fatalf("classify(%q) = %v, %v", c.path, kind, ok)
		}
	}
}
