package render

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	ebtext "github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/milk9111/heavypockets/common"
	"github.com/milk9111/heavypockets/ecs"
	"github.com/milk9111/heavypockets/ecs/component"
	"github.com/milk9111/heavypockets/prefabs"
	"golang.org/x/image/colornames"
)

const hudLineHeight = 16

// HUDSystem draws the coin counter, the weight bar and the ability icons.
type HUDSystem struct {
	spec *prefabs.HUDSpec
	face ebtext.Face

	textColor    color.Color
	barColor     color.Color
	barBack      color.Color
	dashColor    color.Color
	doubleColor  color.Color
	disabledTint color.Color
}

func NewHUDSystem(spec *prefabs.HUDSpec) *HUDSystem {
	if spec == nil {
		spec = &prefabs.HUDSpec{X: 12, Y: 12, BarWidth: 120, BarHeight: 10, IconSize: 14}
	}
	return &HUDSystem{
		spec:         spec,
		face:         Face(),
		textColor:    spec.TextColor.Or(colornames.White),
		barColor:     spec.BarColor.Or(colornames.Coral),
		barBack:      spec.BarBack.Or(colornames.Darkslateblue),
		dashColor:    spec.DashColor.Or(colornames.Wheat),
		doubleColor:  spec.DoubleColor.Or(colornames.Mediumseagreen),
		disabledTint: spec.DisabledTint.Or(colornames.Dimgray),
	}
}

func (h *HUDSystem) Draw(w *ecs.World, screen *ebiten.Image) {
	if h == nil || w == nil || screen == nil {
		return
	}
	x, y := h.spec.X, h.spec.Y

	if e, ok := ecs.First(w, component.CoinCounterComponent.Kind()); ok {
		counter, _ := ecs.Get(w, e, component.CoinCounterComponent.Kind())
		h.drawText(screen, "Coins "+counter.RenderedText, x, y)
		y += hudLineHeight
	}

	p, ok := ecs.First(w, component.PlayerTagComponent.Kind())
	if !ok {
		return
	}
	c, ok := ecs.Get(w, p, component.ControllerComponent.Kind())
	if !ok || c.Controller == nil {
		return
	}
	ctrl := c.Controller

	bw, bh := float32(h.spec.BarWidth), float32(h.spec.BarHeight)
	vector.DrawFilledRect(screen, float32(x), float32(y), bw, bh, h.barBack, false)
	vector.DrawFilledRect(screen, float32(x), float32(y), bw*float32(common.Clamp01(ctrl.CoinCollectionRatio())), bh, h.barColor, false)
	y += h.spec.BarHeight + 6

	size := float32(h.spec.IconSize)
	dash := h.dashColor
	if !ctrl.CanDash() {
		dash = h.disabledTint
	}
	double := h.doubleColor
	if !ctrl.CanDoubleJump() {
		double = h.disabledTint
	}
	vector.DrawFilledRect(screen, float32(x), float32(y), size, size, dash, false)
	vector.DrawFilledRect(screen, float32(x)+size+6, float32(y), size, size, double, false)
	h.drawText(screen, fmt.Sprintf("speed %.1f", ctrl.CurrentMoveSpeed()), x+2*float64(size)+18, y)
}

func (h *HUDSystem) drawText(screen *ebiten.Image, s string, x, y float64) {
	op := &ebtext.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(h.textColor)
	ebtext.Draw(screen, s, h.face, op)
}

// DrawEndScreen draws the closing screen with the run total.
func DrawEndScreen(screen *ebiten.Image, totalCoins int) {
	if screen == nil {
		return
	}
	screen.Fill(colornames.Midnightblue)
	face := Face()
	lines := []string{"Thanks for playing", fmt.Sprintf("Total coins: %d", totalCoins)}
	for i, line := range lines {
		op := &ebtext.DrawOptions{}
		op.GeoM.Translate(common.BaseWidth/2, common.BaseHeight/2+float64(i*2*hudLineHeight-hudLineHeight))
		op.PrimaryAlign = ebtext.AlignCenter
		op.SecondaryAlign = ebtext.AlignCenter
		op.ColorScale.ScaleWithColor(colornames.White)
		ebtext.Draw(screen, line, face, op)
	}
}
