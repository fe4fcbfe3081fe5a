package render

import (
	"github.com/milk9111/heavypockets/common"
	"github.com/milk9111/heavypockets/ecs"
	"github.com/milk9111/heavypockets/ecs/component"
)

// View maps y-up world units onto the y-down screen, centered on the camera.
type View struct {
	CamX float64
	CamY float64
	Zoom float64
}

func ViewFor(w *ecs.World) View {
	v := View{Zoom: 1}
	if w == nil {
		return v
	}
	if e, ok := ecs.First(w, component.CameraComponent.Kind()); ok {
		cam, _ := ecs.Get(w, e, component.CameraComponent.Kind())
		v.CamX, v.CamY = cam.X, cam.Y
		if cam.Zoom > 0 {
			v.Zoom = cam.Zoom
		}
	}
	return v
}

// Scale is the number of screen pixels per world unit.
func (v View) Scale() float64 {
	return common.PixelsPerUnit * v.Zoom
}

func (v View) ToScreen(x, y float64) (float64, float64) {
	s := v.Scale()
	return (x-v.CamX)*s + common.BaseWidth/2, common.BaseHeight/2 - (y-v.CamY)*s
}

// Rect converts a world rect given by its bottom-left corner into a screen
// rect given by its top-left corner.
func (v View) Rect(x, y, w, h float64) (float32, float32, float32, float32) {
	sx, sy := v.ToScreen(x, y+h)
	s := v.Scale()
	return float32(sx), float32(sy), float32(w * s), float32(h * s)
}
