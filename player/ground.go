package player

import (
	"math"

	"github.com/elliotchance/orderedmap/v2"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/heavypockets/common"
	"github.com/sirupsen/logrus"
)

// DefaultMinNormalY rejects contacts steeper than roughly 45 degrees.
const DefaultMinNormalY = 0.7

// SurfaceID identifies one ground-tagged surface touching the sensor.
type SurfaceID uint64

// GroundListener receives the detector's grounded state after every update.
type GroundListener interface {
	SetGrounded(grounded bool)
}

// NormalProbe estimates a surface normal when a contact carries no normals,
// typically by casting a short ray straight down.
type NormalProbe interface {
	ProbeGround(id SurfaceID) (cp.Vector, bool)
}

type DetectorConfig struct {
	MinNormalY float64     `yaml:"min_normal_y"`
	Probe      NormalProbe `yaml:"-"`
}

// GroundContactDetector aggregates the contacts of the sensor under the
// player's feet into a grounded flag and an averaged floor normal.
type GroundContactDetector struct {
	listener GroundListener
	cfg      DetectorConfig
	log      logrus.FieldLogger

	contacts *orderedmap.OrderedMap[SurfaceID, []cp.Vector]
	grounded bool
	normal   cp.Vector
}

func NewGroundContactDetector(listener GroundListener, cfg DetectorConfig, log logrus.FieldLogger) *GroundContactDetector {
	if cfg.MinNormalY <= 0 || cfg.MinNormalY >= 1 || math.IsNaN(cfg.MinNormalY) {
		cfg.MinNormalY = DefaultMinNormalY
	}
	return &GroundContactDetector{
		listener: listener,
		cfg:      cfg,
		log:      loggerOrStandard(log),
		contacts: orderedmap.NewOrderedMap[SurfaceID, []cp.Vector](),
		normal:   common.Up,
	}
}

// SetListener replaces the grounded-state listener.
func (d *GroundContactDetector) SetListener(listener GroundListener) {
	if d == nil {
		return
	}
	d.listener = listener
}

func (d *GroundContactDetector) SetProbe(probe NormalProbe) {
	if d == nil {
		return
	}
	d.cfg.Probe = probe
}

func (d *GroundContactDetector) SetMinNormalY(y float64) {
	if d == nil || y <= 0 || y >= 1 || math.IsNaN(y) {
		return
	}
	d.cfg.MinNormalY = y
}

// OnSurfaceEnter starts tracking a surface. Entering an already tracked
// surface is treated as a stay.
func (d *GroundContactDetector) OnSurfaceEnter(id SurfaceID, normals []cp.Vector) {
	if d == nil {
		return
	}
	d.contacts.Set(id, append([]cp.Vector(nil), normals...))
	d.recompute()
}

// OnSurfaceStay refreshes the normals of a tracked surface. A stay for an
// unknown surface starts tracking it.
func (d *GroundContactDetector) OnSurfaceStay(id SurfaceID, normals []cp.Vector) {
	if d == nil {
		return
	}
	d.contacts.Set(id, append([]cp.Vector(nil), normals...))
	d.recompute()
}

func (d *GroundContactDetector) OnSurfaceExit(id SurfaceID) {
	if d == nil {
		return
	}
	if !d.contacts.Delete(id) {
		d.log.WithField("surface", id).Debug("ground: exit for untracked surface")
		return
	}
	if d.contacts.Len() == 0 {
		d.setState(false, common.Up)
		return
	}
	d.recompute()
}

// Reset forgets every contact.
func (d *GroundContactDetector) Reset() {
	if d == nil {
		return
	}
	d.contacts = orderedmap.NewOrderedMap[SurfaceID, []cp.Vector]()
	d.setState(false, common.Up)
}

func (d *GroundContactDetector) recompute() {
	var sum cp.Vector
	kept := 0
	for el := d.contacts.Front(); el != nil; el = el.Next() {
		normals := el.Value
		if len(normals) == 0 && d.cfg.Probe != nil {
			if n, ok := d.cfg.Probe.ProbeGround(el.Key); ok {
				normals = []cp.Vector{n}
			}
		}
		for _, n := range normals {
			if !common.Finite(n) || n.Length() < 1e-6 {
				continue
			}
			n = n.Normalize()
			if n.Y <= d.cfg.MinNormalY {
				d.log.WithFields(logrus.Fields{"surface": el.Key, "nx": n.X, "ny": n.Y}).Debug("ground: rejected contact normal")
				continue
			}
			sum = sum.Add(n)
			kept++
		}
	}

	if kept == 0 || sum.Length() < 1e-9 {
		d.setState(false, common.Up)
		return
	}
	d.setState(true, sum.Normalize())
}

func (d *GroundContactDetector) setState(grounded bool, normal cp.Vector) {
	d.grounded = grounded
	d.normal = normal
	if d.listener != nil {
		d.listener.SetGrounded(grounded)
	}
}

func (d *GroundContactDetector) IsGrounded() bool {
	return d != nil && d.grounded
}

// HasValidContact reports whether at least one tracked contact is floor-like.
// A sensor touching only walls has contacts but no valid one.
func (d *GroundContactDetector) HasValidContact() bool {
	return d != nil && d.grounded
}

func (d *GroundContactDetector) GroundNormal() cp.Vector {
	if d == nil {
		return common.Up
	}
	return d.normal
}

func (d *GroundContactDetector) ContactCount() int {
	if d == nil {
		return 0
	}
	return d.contacts.Len()
}

// SlopeAngle is the angle between the ground normal and up, in degrees.
func (d *GroundContactDetector) SlopeAngle() float64 {
	return slopeAngle(d.GroundNormal())
}

func slopeAngle(n cp.Vector) float64 {
	return math.Acos(cp.Clamp(n.Dot(common.Up), -1, 1)) * 180 / math.Pi
}

func loggerOrStandard(log logrus.FieldLogger) logrus.FieldLogger {
	if log == nil {
		return logrus.StandardLogger()
	}
	return log
}
