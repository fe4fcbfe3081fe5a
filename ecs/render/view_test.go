package render

import (
	"testing"

	"github.com/milk9111/heavypockets/common"
)

func TestViewToScreen(t *testing.T) {
	tests := []struct {
		name   string
		view   View
		x, y   float64
		sx, sy float64
	}{
		{"camera_center", View{CamX: 3, CamY: 4, Zoom: 1}, 3, 4, common.BaseWidth / 2, common.BaseHeight / 2},
		{"one_unit_up_is_screen_up", View{Zoom: 1}, 0, 1, common.BaseWidth / 2, common.BaseHeight/2 - common.PixelsPerUnit},
		{"zoom_doubles_offset", View{Zoom: 2}, 1, 0, common.BaseWidth/2 + 2*common.PixelsPerUnit, common.BaseHeight / 2},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			sx, sy := tc.view.ToScreen(tc.x, tc.y)
			if sx != tc.sx || sy != tc.sy {
				t.Fatalf("ToScreen = (%v, %v), want (%v, %v)", sx, sy, tc.sx, tc.sy)
			}
		})
	}
}

func TestViewRect(t *testing.T) {
	v := View{Zoom: 1}
	x, y, w, h := v.Rect(0, 0, 2, 1)
	if x != common.BaseWidth/2 || y != common.BaseHeight/2-common.PixelsPerUnit {
		t.Fatalf("top-left = (%v, %v)", x, y)
	}
	if w != 2*common.PixelsPerUnit || h != common.PixelsPerUnit {
		t.Fatalf("size = (%v, %v)", w, h)
	}
}
