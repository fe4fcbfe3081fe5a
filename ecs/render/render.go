package render

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	ebtext "github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/milk9111/heavypockets/common"
	"github.com/milk9111/heavypockets/ecs"
	"github.com/milk9111/heavypockets/ecs/component"
	"golang.org/x/image/colornames"
	"golang.org/x/image/font/basicfont"
)

var (
	skyColor      = colornames.Lightskyblue
	platformColor = colornames.Dimgray
	wallColor     = colornames.Darkslategray
	slopeColor    = colornames.Gray
	coinColor     = colornames.Gold
	hazardColor   = colornames.Crimson
	goalColor     = colornames.Limegreen
	labelColor    = colornames.White
)

// Face is the font shared by world labels, the HUD and the end screen.
func Face() ebtext.Face {
	return ebtext.NewGoXFace(basicfont.Face7x13)
}

// RenderSystem draws the level and its entities through the camera.
type RenderSystem struct {
	face ebtext.Face
}

func NewRenderSystem() *RenderSystem {
	return &RenderSystem{face: Face()}
}

func (r *RenderSystem) Draw(w *ecs.World, screen *ebiten.Image) {
	if r == nil || w == nil || screen == nil {
		return
	}
	screen.Fill(skyColor)
	view := ViewFor(w)

	ecs.ForEach(w, component.ParallaxComponent.Kind(), func(_ ecs.Entity, p *component.Parallax) {
		pv := view
		pv.CamY = view.CamY * p.Strength
		_, y, _, h := pv.Rect(0, p.Y, 0, p.Height)
		vector.DrawFilledRect(screen, 0, y, common.BaseWidth, h, p.Color, false)
	})

	if pw := w.PhysicsWorld(); pw != nil && pw.Level() != nil {
		lvl := pw.Level()
		for _, s := range lvl.Slopes {
			ax, ay := view.ToScreen(s.AX, s.AY)
			bx, by := view.ToScreen(s.BX, s.BY)
			width := float32(math.Max(2, 2*s.Radius*view.Scale()))
			vector.StrokeLine(screen, float32(ax), float32(ay), float32(bx), float32(by), width, slopeColor, true)
		}
		for _, p := range lvl.Platforms {
			x, y, rw, rh := view.Rect(p.X, p.Y, p.W, p.H)
			clr := platformColor
			if p.Tag == "wall" {
				clr = wallColor
			}
			vector.DrawFilledRect(screen, x, y, rw, rh, clr, false)
		}
	}

	ecs.ForEach2(w, component.HazardComponent.Kind(), component.PhysicsBodyComponent.Kind(), func(e ecs.Entity, _ *component.Hazard, b *component.PhysicsBody) {
		r.drawBox(screen, view, w, e, b, hazardColor)
	})
	ecs.ForEach2(w, component.GoalComponent.Kind(), component.PhysicsBodyComponent.Kind(), func(e ecs.Entity, _ *component.Goal, b *component.PhysicsBody) {
		r.drawBox(screen, view, w, e, b, goalColor)
	})

	ecs.ForEach2(w, component.CoinComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, _ *component.Coin, t *component.Transform) {
		radius := 0.25
		if b, ok := ecs.Get(w, e, component.PhysicsBodyComponent.Kind()); ok && b.Width > 0 {
			radius = b.Width / 2
		}
		x, y := view.ToScreen(t.X, t.Y)
		vector.DrawFilledCircle(screen, float32(x), float32(y), float32(radius*view.Scale()), coinColor, true)
	})

	ecs.ForEach2(w, component.SlimeComponent.Kind(), component.PhysicsBodyComponent.Kind(), func(e ecs.Entity, s *component.Slime, b *component.PhysicsBody) {
		r.drawBox(screen, view, w, e, b, s.Color)
	})

	ecs.ForEach2(w, component.ControllerComponent.Kind(), component.PhysicsBodyComponent.Kind(), func(e ecs.Entity, c *component.Controller, b *component.PhysicsBody) {
		r.drawBox(screen, view, w, e, b, c.Color)
	})

	ecs.ForEach2(w, component.FloatingTextComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, ft *component.FloatingText, t *component.Transform) {
		x, y := view.ToScreen(t.X, t.Y)
		op := &ebtext.DrawOptions{}
		op.GeoM.Translate(x, y)
		op.PrimaryAlign = ebtext.AlignCenter
		op.SecondaryAlign = ebtext.AlignCenter
		op.ColorScale.ScaleWithColor(labelColor)
		if ttl, ok := ecs.Get(w, e, component.TTLComponent.Kind()); ok && ttl.Frames < 15 {
			op.ColorScale.ScaleAlpha(float32(ttl.Frames) / 15)
		}
		ebtext.Draw(screen, ft.Text, r.face, op)
	})
}

// drawBox draws the entity's collider box, rotated by its transform.
func (r *RenderSystem) drawBox(screen *ebiten.Image, view View, w *ecs.World, e ecs.Entity, b *component.PhysicsBody, clr color.Color) {
	t, ok := ecs.Get(w, e, component.TransformComponent.Kind())
	if !ok || b.Width <= 0 || b.Height <= 0 {
		return
	}
	s := view.Scale()
	x, y := view.ToScreen(t.X, t.Y)

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(-0.5, -0.5)
	op.GeoM.Scale(b.Width*s, b.Height*s)
	op.GeoM.Rotate(-t.Rotation * math.Pi / 180)
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(clr)
	screen.DrawImage(whitePixel(), op)
}
