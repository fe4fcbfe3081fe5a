package component

import "image/color"

// Parallax is a background band scrolled at Strength times the camera.
type Parallax struct {
	Color    color.NRGBA
	Strength float64
	Y        float64
	Height   float64
}

var ParallaxComponent = NewComponent[Parallax]()
