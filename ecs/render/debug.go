package render

import (
	"fmt"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/heavypockets/common"
	"github.com/milk9111/heavypockets/ecs"
	"github.com/milk9111/heavypockets/ecs/component"
)

const (
	debugCircleSegments = 24
	debugDotSize        = 4
)

// DrawPhysicsDebug outlines every shape of the world's space.
func DrawPhysicsDebug(w *ecs.World, screen *ebiten.Image) {
	if w == nil || screen == nil || w.PhysicsWorld() == nil {
		return
	}
	drawer := &physicsDebugDrawer{screen: screen, view: ViewFor(w)}
	cp.DrawSpace(w.PhysicsWorld().Space(), drawer)
}

// DrawPlayerDebug prints the controller state in the top right corner.
func DrawPlayerDebug(w *ecs.World, screen *ebiten.Image) {
	if w == nil || screen == nil {
		return
	}
	p, ok := ecs.First(w, component.PlayerTagComponent.Kind())
	if !ok {
		return
	}
	c, ok := ecs.Get(w, p, component.ControllerComponent.Kind())
	if !ok || c.Controller == nil {
		return
	}
	s := c.Controller.Snapshot()
	text := fmt.Sprintf("FPS: %.1f\nGrounded: %v (%d)\nSlope: %.1f\nVel: %.2f, %.2f\nJumps: %d\nDash: %v  Slide: %v\nFriction: %s",
		ebiten.ActualFPS(), s.Grounded, s.ContactCount, s.SlopeAngle, s.VelocityX, s.VelocityY, s.JumpCount, s.Dashing, s.Sliding, s.Friction)
	ebitenutil.DebugPrintAt(screen, text, common.BaseWidth-170, 10)
}

type physicsDebugDrawer struct {
	screen *ebiten.Image
	view   View
}

func (d *physicsDebugDrawer) DrawCircle(pos cp.Vector, angle, radius float64, outline, fill cp.FColor, data interface{}) {
	if radius <= 0 {
		return
	}
	d.drawCircle(pos, radius, outline)
	end := cp.Vector{X: pos.X + math.Cos(angle)*radius, Y: pos.Y + math.Sin(angle)*radius}
	d.drawLine(pos, end, outline)
}

func (d *physicsDebugDrawer) DrawSegment(a, b cp.Vector, fill cp.FColor, data interface{}) {
	d.drawLine(a, b, fill)
}

func (d *physicsDebugDrawer) DrawFatSegment(a, b cp.Vector, radius float64, outline, fill cp.FColor, data interface{}) {
	d.drawLine(a, b, outline)
	if radius > 0 {
		d.drawCircle(a, radius, outline)
		d.drawCircle(b, radius, outline)
	}
}

func (d *physicsDebugDrawer) DrawPolygon(count int, verts []cp.Vector, radius float64, outline, fill cp.FColor, data interface{}) {
	if count <= 0 {
		return
	}
	d.drawPolygon(verts[:count], outline)
}

func (d *physicsDebugDrawer) DrawDot(size float64, pos cp.Vector, fill cp.FColor, data interface{}) {
	if size <= 0 {
		size = debugDotSize
	}
	half := size / 2 / d.view.Scale()
	d.drawLine(cp.Vector{X: pos.X - half, Y: pos.Y}, cp.Vector{X: pos.X + half, Y: pos.Y}, fill)
	d.drawLine(cp.Vector{X: pos.X, Y: pos.Y - half}, cp.Vector{X: pos.X, Y: pos.Y + half}, fill)
}

func (d *physicsDebugDrawer) Flags() uint {
	return cp.DRAW_SHAPES | cp.DRAW_COLLISION_POINTS
}

func (d *physicsDebugDrawer) OutlineColor() cp.FColor {
	return cp.FColor{R: 0.2, G: 1, B: 0.2, A: 0.9}
}

func (d *physicsDebugDrawer) ShapeColor(shape *cp.Shape, data interface{}) cp.FColor {
	if shape.Sensor() {
		return cp.FColor{R: 1, G: 0.8, B: 0.1, A: 0.9}
	}
	return cp.FColor{R: 0.1, G: 0.6, B: 0.1, A: 0.5}
}

func (d *physicsDebugDrawer) ConstraintColor() cp.FColor {
	return cp.FColor{R: 1, G: 0.5, B: 0.1, A: 0.9}
}

func (d *physicsDebugDrawer) CollisionPointColor() cp.FColor {
	return cp.FColor{R: 1, G: 0.2, B: 0.2, A: 0.9}
}

func (d *physicsDebugDrawer) Data() interface{} {
	return nil
}

func (d *physicsDebugDrawer) drawLine(a, b cp.Vector, c cp.FColor) {
	x1, y1 := d.view.ToScreen(a.X, a.Y)
	x2, y2 := d.view.ToScreen(b.X, b.Y)
	ebitenutil.DrawLine(d.screen, x1, y1, x2, y2, toNRGBA(c))
}

func (d *physicsDebugDrawer) drawPolygon(verts []cp.Vector, c cp.FColor) {
	for i := range verts {
		d.drawLine(verts[i], verts[(i+1)%len(verts)], c)
	}
}

func (d *physicsDebugDrawer) drawCircle(center cp.Vector, radius float64, c cp.FColor) {
	points := make([]cp.Vector, 0, debugCircleSegments)
	for i := 0; i < debugCircleSegments; i++ {
		t := (2 * math.Pi) * (float64(i) / float64(debugCircleSegments))
		points = append(points, cp.Vector{X: center.X + math.Cos(t)*radius, Y: center.Y + math.Sin(t)*radius})
	}
	d.drawPolygon(points, c)
}

func toNRGBA(c cp.FColor) color.NRGBA {
	return color.NRGBA{
		R: uint8(clamp01(c.R) * 255),
		G: uint8(clamp01(c.G) * 255),
		B: uint8(clamp01(c.B) * 255),
		A: uint8(clamp01(c.A) * 255),
	}
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
