package scene

import (
	"image"
	"image/color"
	"math"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Minimap colors.
var (
	MinimapBorderColor = color.RGBA{R: 200, G: 200, B: 200, A: 255}
	MinimapPathColor   = color.RGBA{R: 255, G: 190, B: 40, A: 255}
	MinimapLightColor  = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	MinimapBackground  = color.RGBA{R: 0, G: 0, B: 0, A: 140}
)

const (
	minimapTargetRadius = 1
	minimapLightRadius  = 2
)

// DrawMinimap draws a top-down (XZ) view of the bounds, the queued path and the light into img.
// X grows to the right and Z grows downwards, matching the default camera.
func DrawMinimap(img *image.RGBA, bounds sdf.Box3, light v3.Vec, pending []v3.Vec) {
	size := img.Bounds().Size()
	fillRect(img, 0, 0, size.X-1, size.Y-1, MinimapBackground)
	drawRect(img, 0, 0, size.X-1, size.Y-1, MinimapBorderColor)
	toPixel := func(p v3.Vec) (int, int) {
		extent := bounds.Size()
		u, v := 0.5, 0.5
		if extent.X > 0 {
			u = (p.X - bounds.Min.X) / extent.X
		}
		if extent.Z > 0 {
			v = (p.Z - bounds.Min.Z) / extent.Z
		}
		return int(math.Round(u * float64(size.X-1))), int(math.Round(v * float64(size.Y-1)))
	}
	fromX, fromY := toPixel(light)
	for _, target := range pending {
		toX, toY := toPixel(target)
		drawLine(img, fromX, fromY, toX, toY, MinimapPathColor)
		fillRect(img, toX-minimapTargetRadius, toY-minimapTargetRadius,
			toX+minimapTargetRadius, toY+minimapTargetRadius, MinimapPathColor)
		fromX, fromY = toX, toY
	}
	lx, ly := toPixel(light)
	fillRect(img, lx-minimapLightRadius, ly-minimapLightRadius, lx+minimapLightRadius, ly+minimapLightRadius, MinimapLightColor)
}

// drawHLine draws a horizontal line
func drawHLine(img *image.RGBA, x1, y, x2 int, col color.Color) {
	for ; x1 <= x2; x1++ {
		if x1 >= 0 && x1 < img.Bounds().Dx() && y >= 0 && y < img.Bounds().Dy() {
			img.Set(x1, y, col)
		}
	}
}

// drawVLine draws a vertical line
func drawVLine(img *image.RGBA, x, y1, y2 int, col color.Color) {
	for ; y1 <= y2; y1++ {
		if x >= 0 && x < img.Bounds().Dx() && y1 >= 0 && y1 < img.Bounds().Dy() {
			img.Set(x, y1, col)
		}
	}
}

// drawRect draws a rectangle utilizing drawHLine() and drawVLine()
func drawRect(img *image.RGBA, x1, y1, x2, y2 int, col color.Color) {
	drawHLine(img, x1, y1, x2, col)
	drawHLine(img, x1, y2, x2, col)
	drawVLine(img, x1, y1, y2, col)
	drawVLine(img, x2, y1, y2, col)
}

func fillRect(img *image.RGBA, x1, y1, x2, y2 int, col color.Color) {
	for y := y1; y <= y2; y++ {
		drawHLine(img, x1, y, x2, col)
	}
}

// drawLine draws a segment by sampling it once per pixel of its longest side.
func drawLine(img *image.RGBA, x1, y1, x2, y2 int, col color.Color) {
	dx, dy := x2-x1, y2-y1
	steps := int(math.Max(math.Abs(float64(dx)), math.Abs(float64(dy))))
	if steps == 0 {
		drawHLine(img, x1, y1, x1, col)
		return
	}
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		x := x1 + int(math.Round(t*float64(dx)))
		y := y1 + int(math.Round(t*float64(dy)))
		drawHLine(img, x, y, x, col)
	}
}
