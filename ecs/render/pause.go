package render

import (
	"image/color"

	"github.com/ebitenui/ebitenui"
	imageui "github.com/ebitenui/ebitenui/image"
	"github.com/ebitenui/ebitenui/widget"
	"github.com/milk9111/heavypockets/common"
)

// PauseActions are the callbacks of the pause menu buttons.
type PauseActions struct {
	Resume  func()
	Restart func()
	Quit    func()
}

// NewPauseUI builds a centered pause menu out of colored nine-slices and the
// built-in basic font, so no theme assets are needed.
func NewPauseUI(actions PauseActions) *ebitenui.UI {
	panelImg := imageui.NewNineSliceColor(color.NRGBA{A: 200})
	btnImg := imageui.NewNineSliceColor(color.NRGBA{R: 0x33, G: 0x33, B: 0x33, A: 0xff})
	btnHover := imageui.NewNineSliceColor(color.NRGBA{R: 0x55, G: 0x55, B: 0x55, A: 0xff})

	face := Face()
	white := color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	btnTextColor := &widget.ButtonTextColor{Idle: white}
	center := widget.WidgetOpts.LayoutData(widget.RowLayoutData{Position: widget.RowLayoutPositionCenter})

	title := widget.NewText(
		widget.TextOpts.Text("Paused", face, white),
		widget.TextOpts.WidgetOpts(center),
	)

	panel := widget.NewContainer(
		widget.ContainerOpts.BackgroundImage(panelImg),
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionVertical),
			widget.RowLayoutOpts.Spacing(10),
			widget.RowLayoutOpts.Padding(widget.Insets{Top: 20, Bottom: 20, Left: 30, Right: 30}),
		)),
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.MinSize(common.BaseWidth/2, common.BaseHeight/2),
			widget.WidgetOpts.LayoutData(widget.AnchorLayoutData{HorizontalPosition: widget.AnchorLayoutPositionCenter, VerticalPosition: widget.AnchorLayoutPositionCenter}),
		),
	)
	panel.AddChild(title)

	button := func(label string, onClick func()) *widget.Button {
		return widget.NewButton(
			widget.ButtonOpts.Image(&widget.ButtonImage{Idle: btnImg, Hover: btnHover, Pressed: btnHover}),
			widget.ButtonOpts.Text(label, face, btnTextColor),
			widget.ButtonOpts.WidgetOpts(center),
			widget.ButtonOpts.ClickedHandler(func(args *widget.ButtonClickedEventArgs) {
				if onClick != nil {
					onClick()
				}
			}),
		)
	}
	panel.AddChild(button("Resume", actions.Resume))
	panel.AddChild(button("Restart level", actions.Restart))
	panel.AddChild(button("Quit", actions.Quit))

	root := widget.NewContainer(widget.ContainerOpts.Layout(widget.NewAnchorLayout()))
	root.AddChild(panel)
	return &ebitenui.UI{Container: root}
}
