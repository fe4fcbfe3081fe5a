package component

// Transform is the world-space center of an entity (y-up) and its visual
// rotation in degrees.
type Transform struct {
	X        float64
	Y        float64
	Rotation float64
}

var TransformComponent = NewComponent[Transform]()
