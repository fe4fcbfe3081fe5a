package render

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
)

var images = map[string]*ebiten.Image{}

// cachedImage returns the image stored under key, building it on first use.
func cachedImage(key string, build func() *ebiten.Image) *ebiten.Image {
	if img, ok := images[key]; ok {
		return img
	}
	img := build()
	if img != nil {
		images[key] = img
	}
	return img
}

// whitePixel is scaled and tinted to draw solid rotated rectangles.
func whitePixel() *ebiten.Image {
	return cachedImage("white", func() *ebiten.Image {
		img := ebiten.NewImage(1, 1)
		img.Fill(color.White)
		return img
	})
}
