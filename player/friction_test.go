package player

import "testing"

func TestSelectFriction(t *testing.T) {
	cfg := FrictionConfig{StopDelay: 0.1, MomentumThreshold: 2}
	cases := []struct {
		name  string
		state FrictionState
		want  FrictionMode
	}{
		{"sliding", FrictionState{Grounded: true, Sliding: true, WasSliding: true, Speed: 9}, FrictionSliding},
		{"sliding_airborne", FrictionState{Sliding: true}, FrictionSliding},
		{"airborne", FrictionState{NoInputTime: 5}, FrictionMoving},
		{"slide_released_on_ground", FrictionState{Grounded: true, WasSliding: true, Speed: 8}, FrictionStopped},
		{"slide_released_in_air", FrictionState{WasSliding: true, Speed: 8}, FrictionMoving},
		{"input_held", FrictionState{Grounded: true}, FrictionMoving},
		{"carrying_momentum", FrictionState{Grounded: true, NoInputTime: 1, Speed: 3}, FrictionMoving},
		{"transitioning", FrictionState{Grounded: true, NoInputTime: 1, Transitioning: true}, FrictionMoving},
		{"before_stop_delay", FrictionState{Grounded: true, NoInputTime: 0.05}, FrictionMoving},
		{"at_stop_delay", FrictionState{Grounded: true, NoInputTime: 0.1}, FrictionStopped},
		{"long_idle", FrictionState{Grounded: true, NoInputTime: 3, Speed: 0.5}, FrictionStopped},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := SelectFriction(c.state, cfg); got != c.want {
				t.Fatalf("SelectFriction(%+v) = %v, want %v", c.state, got, c.want)
			}
		})
	}
}

func TestMaterialsFriction(t *testing.T) {
	m := Materials{Moving: 0, Stopped: 10, Sliding: 0.05}
	if m.Friction(FrictionMoving) != 0 || m.Friction(FrictionStopped) != 10 || m.Friction(FrictionSliding) != 0.05 {
		t.Fatalf("unexpected material mapping")
	}
	if FrictionSliding.String() != "sliding" || FrictionMode(7).String() != "unknown" {
		t.Fatalf("unexpected mode names")
	}
}
