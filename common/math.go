package common

import (
	"math"

	"github.com/jakecoffman/cp"
)

const (
	// FixedDelta is the simulation step in seconds (ebiten's default TPS).
	FixedDelta = 1.0 / 60.0

	// BaseWidth and BaseHeight are the logical screen size in pixels.
	BaseWidth  = 640
	BaseHeight = 360

	// PixelsPerUnit converts world units to screen pixels.
	PixelsPerUnit = 32.0

	// Gravity is the world gravity along Y in units/s^2. World space is y-up.
	Gravity = -9.81
)

func Lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

// MoveTowards moves cur toward target by at most maxDelta without overshooting.
func MoveTowards(cur, target, maxDelta float64) float64 {
	if maxDelta <= 0 {
		return cur
	}
	return cp.LerpConst(cur, target, maxDelta)
}

// SignOrPositive returns -1 for negative x and 1 otherwise (zero counts as positive).
func SignOrPositive(x float64) float64 {
	if x < 0 {
		return -1
	}
	return 1
}

func Clamp01(x float64) float64 {
	if math.IsNaN(x) {
		return 0
	}
	return cp.Clamp(x, 0, 1)
}

// Finite reports whether v has no NaN or infinite component.
func Finite(v cp.Vector) bool {
	return !math.IsNaN(v.X) && !math.IsNaN(v.Y) && !math.IsInf(v.X, 0) && !math.IsInf(v.Y, 0)
}

// Up is the default floor normal.
var Up = cp.Vector{X: 0, Y: 1}

// ViewHalfExtent is half the visible world area at the given zoom, in units.
func ViewHalfExtent(zoom float64) (float64, float64) {
	if zoom <= 0 {
		zoom = 1
	}
	return BaseWidth / PixelsPerUnit / zoom / 2, BaseHeight / PixelsPerUnit / zoom / 2
}

// ClampView keeps a camera center inside [0, size] given the view half
// extent. A level narrower than the view is centered.
func ClampView(center, half, size float64) float64 {
	if size <= 2*half {
		return size / 2
	}
	return math.Max(half, math.Min(size-half, center))
}
