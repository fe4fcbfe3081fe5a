package player

import (
	"math"
	"testing"

	"github.com/jakecoffman/cp"
)

type recordingListener struct {
	calls []bool
}

func (l *recordingListener) SetGrounded(g bool) { l.calls = append(l.calls, g) }

func (l *recordingListener) last() (bool, bool) {
	if len(l.calls) == 0 {
		return false, false
	}
	return l.calls[len(l.calls)-1], true
}

type fakeProbe struct {
	normal cp.Vector
	hit    bool
	asked  []SurfaceID
}

func (p *fakeProbe) ProbeGround(id SurfaceID) (cp.Vector, bool) {
	p.asked = append(p.asked, id)
	return p.normal, p.hit
}

func slopeNormal(deg float64) cp.Vector {
	r := deg * math.Pi / 180
	return cp.Vector{X: -math.Sin(r), Y: math.Cos(r)}
}

func TestGroundContactDetector(t *testing.T) {
	type event struct {
		kind    string // enter, stay, exit
		id      SurfaceID
		normals []cp.Vector
	}
	cases := []struct {
		name     string
		events   []event
		grounded bool
		count    int
		normal   cp.Vector
	}{
		{
			name:     "flat_floor",
			events:   []event{{"enter", 1, []cp.Vector{{X: 0, Y: 1}}}},
			grounded: true, count: 1, normal: cp.Vector{X: 0, Y: 1},
		},
		{
			name:     "wall_only_is_not_grounded",
			events:   []event{{"enter", 1, []cp.Vector{{X: 1, Y: 0}}}},
			grounded: false, count: 1, normal: cp.Vector{X: 0, Y: 1},
		},
		{
			name:     "steep_slope_rejected",
			events:   []event{{"enter", 1, []cp.Vector{{X: 0.8, Y: 0.6}}}},
			grounded: false, count: 1, normal: cp.Vector{X: 0, Y: 1},
		},
		{
			name: "wall_and_floor_keeps_floor",
			events: []event{
				{"enter", 1, []cp.Vector{{X: 1, Y: 0}}},
				{"enter", 2, []cp.Vector{{X: 0, Y: 1}}},
			},
			grounded: true, count: 2, normal: cp.Vector{X: 0, Y: 1},
		},
		{
			name: "two_slopes_average",
			events: []event{
				{"enter", 1, []cp.Vector{slopeNormal(30)}},
				{"enter", 2, []cp.Vector{slopeNormal(-30)}},
			},
			grounded: true, count: 2, normal: cp.Vector{X: 0, Y: 1},
		},
		{
			name: "exit_last_resets",
			events: []event{
				{"enter", 1, []cp.Vector{slopeNormal(20)}},
				{"exit", 1, nil},
			},
			grounded: false, count: 0, normal: cp.Vector{X: 0, Y: 1},
		},
		{
			name: "exit_one_of_two",
			events: []event{
				{"enter", 1, []cp.Vector{{X: 0, Y: 1}}},
				{"enter", 2, []cp.Vector{slopeNormal(20)}},
				{"exit", 1, nil},
			},
			grounded: true, count: 1, normal: slopeNormal(20),
		},
		{
			name:     "unknown_exit_ignored",
			events:   []event{{"exit", 9, nil}},
			grounded: false, count: 0, normal: cp.Vector{X: 0, Y: 1},
		},
		{
			name: "reenter_is_stay",
			events: []event{
				{"enter", 1, []cp.Vector{{X: 0, Y: 1}}},
				{"enter", 1, []cp.Vector{slopeNormal(10)}},
			},
			grounded: true, count: 1, normal: slopeNormal(10),
		},
		{
			name: "stay_updates_normal",
			events: []event{
				{"enter", 1, []cp.Vector{{X: 0, Y: 1}}},
				{"stay", 1, []cp.Vector{{X: 1, Y: 0}}},
			},
			grounded: false, count: 1, normal: cp.Vector{X: 0, Y: 1},
		},
		{
			name:     "nan_normals_dropped",
			events:   []event{{"enter", 1, []cp.Vector{{X: math.NaN(), Y: 1}}}},
			grounded: false, count: 1, normal: cp.Vector{X: 0, Y: 1},
		},
		{
			name:     "unnormalized_normal",
			events:   []event{{"enter", 1, []cp.Vector{{X: 0, Y: 5}}}},
			grounded: true, count: 1, normal: cp.Vector{X: 0, Y: 1},
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			l := &recordingListener{}
			d := NewGroundContactDetector(l, DetectorConfig{}, nil)
			for _, ev := range c.events {
				switch ev.kind {
				case "enter":
					d.OnSurfaceEnter(ev.id, ev.normals)
				case "stay":
					d.OnSurfaceStay(ev.id, ev.normals)
				case "exit":
					d.OnSurfaceExit(ev.id)
				}
			}
			if d.IsGrounded() != c.grounded {
				t.Fatalf("IsGrounded() = %v, want %v", d.IsGrounded(), c.grounded)
			}
			if d.HasValidContact() != c.grounded {
				t.Fatalf("HasValidContact() = %v, want %v", d.HasValidContact(), c.grounded)
			}
			if d.ContactCount() != c.count {
				t.Fatalf("ContactCount() = %d, want %d", d.ContactCount(), c.count)
			}
			n := d.GroundNormal()
			if math.Abs(n.X-c.normal.X) > 1e-9 || math.Abs(n.Y-c.normal.Y) > 1e-9 {
				t.Fatalf("GroundNormal() = %v, want %v", n, c.normal)
			}
			if got, ok := l.last(); ok && got != c.grounded {
				t.Fatalf("listener last saw %v, want %v", got, c.grounded)
			}
		})
	}
}

func TestGroundContactDetectorProbeFallback(t *testing.T) {
	cases := []struct {
		name     string
		probe    *fakeProbe
		grounded bool
	}{
		{"probe_hit", &fakeProbe{normal: slopeNormal(15), hit: true}, true},
		{"probe_miss", &fakeProbe{hit: false}, false},
		{"no_probe", nil, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			cfg := DetectorConfig{}
			if c.probe != nil {
				cfg.Probe = c.probe
			}
			d := NewGroundContactDetector(nil, cfg, nil)
			d.OnSurfaceEnter(4, nil)
			if d.IsGrounded() != c.grounded {
				t.Fatalf("IsGrounded() = %v, want %v", d.IsGrounded(), c.grounded)
			}
			if c.probe != nil && (len(c.probe.asked) != 1 || c.probe.asked[0] != 4) {
				t.Fatalf("probe asked %v, want [4]", c.probe.asked)
			}
		})
	}
}

func TestGroundContactDetectorSlopeAngle(t *testing.T) {
	d := NewGroundContactDetector(nil, DetectorConfig{}, nil)
	d.OnSurfaceEnter(1, []cp.Vector{slopeNormal(30)})
	if got := d.SlopeAngle(); math.Abs(got-30) > 1e-6 {
		t.Fatalf("SlopeAngle() = %v, want 30", got)
	}
	d.Reset()
	if d.SlopeAngle() != 0 || d.ContactCount() != 0 || d.IsGrounded() {
		t.Fatalf("Reset should restore flat, empty, airborne")
	}
}

func TestGroundContactDetectorNil(t *testing.T) {
	var d *GroundContactDetector
	d.OnSurfaceEnter(1, []cp.Vector{{X: 0, Y: 1}})
	if d.IsGrounded() || d.GroundNormal() != (cp.Vector{X: 0, Y: 1}) {
		t.Fatalf("nil detector should report airborne with flat normal")
	}
}
