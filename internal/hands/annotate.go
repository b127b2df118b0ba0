package hands

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"golang.org/x/image/vector"
)

// connections is the standard 21-keypoint hand skeleton: wrist, thumb, four
// fingers, and the palm edges.
var connections = [][2]int{
	{0, 1}, {1, 2}, {2, 3}, {3, 4},
	{0, 5}, {5, 6}, {6, 7}, {7, 8},
	{5, 9}, {9, 10}, {10, 11}, {11, 12},
	{9, 13}, {13, 14}, {14, 15}, {15, 16},
	{13, 17}, {17, 18}, {18, 19}, {19, 20},
	{0, 17},
}

var (
	boneColor  = color.RGBA{R: 0x22, G: 0xbb, B: 0x55, A: 0xff}
	jointColor = color.RGBA{R: 0xee, G: 0x33, B: 0x33, A: 0xff}
)

// Annotate returns a copy of img with every hand's keypoints and skeleton
// drawn on top. Landmark coordinates are normalized, so they are scaled to
// the image bounds here.
func Annotate(img image.Image, hands []Hand) *image.RGBA {
	bounds := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(dst, dst.Bounds(), img, bounds.Min, draw.Src)

	w := float32(bounds.Dx())
	h := float32(bounds.Dy())

	for _, hand := range hands {
		if len(hand.Landmarks) < LandmarkCount {
			continue
		}
		for _, c := range connections {
			a, b := hand.Landmarks[c[0]], hand.Landmarks[c[1]]
			strokeLine(dst,
				float32(a.X)*w, float32(a.Y)*h,
				float32(b.X)*w, float32(b.Y)*h,
				2, boneColor)
		}
		for _, lm := range hand.Landmarks {
			fillCircle(dst, float32(lm.X)*w, float32(lm.Y)*h, 3, jointColor)
		}
	}
	return dst
}

// strokeLine rasterizes the segment as a thin quad of the given width.
func strokeLine(dst *image.RGBA, x0, y0, x1, y1, width float32, c color.Color) {
	dx := x1 - x0
	dy := y1 - y0
	length := float32(math.Hypot(float64(dx), float64(dy)))
	if length == 0 {
		return
	}
	// Perpendicular half-width offset.
	px := -dy / length * width / 2
	py := dx / length * width / 2

	b := dst.Bounds()
	r := vector.NewRasterizer(b.Dx(), b.Dy())
	r.MoveTo(x0+px, y0+py)
	r.LineTo(x1+px, y1+py)
	r.LineTo(x1-px, y1-py)
	r.LineTo(x0-px, y0-py)
	r.ClosePath()
	r.Draw(dst, b, image.NewUniform(c), image.Point{})
}

// fillCircle rasterizes the circle as a 16-gon.
func fillCircle(dst *image.RGBA, cx, cy, radius float32, c color.Color) {
	const segments = 16

	b := dst.Bounds()
	r := vector.NewRasterizer(b.Dx(), b.Dy())
	r.MoveTo(cx+radius, cy)
	for i := 1; i <= segments; i++ {
		theta := 2 * math.Pi * float64(i) / segments
		r.LineTo(cx+radius*float32(math.Cos(theta)), cy+radius*float32(math.Sin(theta)))
	}
	r.ClosePath()
	r.Draw(dst, b, image.NewUniform(c), image.Point{})
}
