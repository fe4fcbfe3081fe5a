package component

type Camera struct {
	X           float64
	Y           float64
	OffsetX     float64
	OffsetY     float64
	Smoothness  float64
	Zoom        float64
	Initialized bool
}

var CameraComponent = NewComponent[Camera]()
