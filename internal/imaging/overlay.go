package imaging

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Outline is a quadrilateral to draw on an overlay.
type Outline struct {
	// Corners in image coordinates. Corner 0 is marked with a filled square.
	Corners [4][2]float64

	// Label is printed at the centre. Only digits and commas are rendered.
	Label string

	// Key selects the outline colour; equal keys get equal colours.
	Key int
}

// OverlayResult contains the annotated image as base64 PNG.
type OverlayResult struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
	Outlines    int    `json:"outlines"`
}

// KeyColor returns a saturated colour for a key. Hues step by the golden
// angle so neighbouring ids stay distinguishable.
func KeyColor(key int) color.RGBA {
	hue := math.Mod(float64(key)*137.508, 360)
	if hue < 0 {
		hue += 360
	}
	r, g, b := colorful.Hsv(hue, 0.85, 0.95).Clamped().RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

// Overlay draws outlines on a copy of img.
func Overlay(img image.Image, outlines []Outline, lineWidth int) (*OverlayResult, error) {
	if lineWidth < 1 {
		lineWidth = 1
	}
	bounds := img.Bounds()
	canvas := image.NewRGBA(bounds)
	draw.Draw(canvas, bounds, img, bounds.Min, draw.Src)

	for _, o := range outlines {
		c := KeyColor(o.Key)
		for k := 0; k < 4; k++ {
			a, b := o.Corners[k], o.Corners[(k+1)%4]
			drawLine(canvas, a[0], a[1], b[0], b[1], lineWidth, c)
		}
		x0, y0 := int(math.Round(o.Corners[0][0])), int(math.Round(o.Corners[0][1]))
		fillSquare(canvas, x0, y0, lineWidth+2, c)

		if o.Label != "" {
			var cx, cy float64
			for _, p := range o.Corners {
				cx += p[0] / 4
				cy += p[1] / 4
			}
			labelBg := color.RGBA{0, 0, 0, 180}
			drawLabel(canvas, int(math.Round(cx)), int(math.Round(cy)), o.Label, c, labelBg)
		}
	}

	res, err := encodePNG(canvas)
	if err != nil {
		return nil, err
	}
	return &OverlayResult{
		Width:       res.Width,
		Height:      res.Height,
		ImageBase64: res.ImageBase64,
		MimeType:    res.MimeType,
		Outlines:    len(outlines),
	}, nil
}

// drawLine steps along the segment one pixel at a time and stamps a square
// brush of the given width.
func drawLine(img *image.RGBA, x0, y0, x1, y1 float64, width int, c color.RGBA) {
	steps := int(math.Ceil(math.Max(math.Abs(x1-x0), math.Abs(y1-y0))))
	if steps == 0 {
		fillSquare(img, int(math.Round(x0)), int(math.Round(y0)), width, c)
		return
	}
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		x := int(math.Round(x0 + (x1-x0)*t))
		y := int(math.Round(y0 + (y1-y0)*t))
		fillSquare(img, x, y, width, c)
	}
}

func fillSquare(img *image.RGBA, cx, cy, size int, c color.RGBA) {
	half := size / 2
	r := image.Rect(cx-half, cy-half, cx-half+size, cy-half+size).Intersect(img.Bounds())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			img.SetRGBA(x, y, c)
		}
	}
}

// drawLabel draws text centred on (cx, cy) over a background box.
func drawLabel(img *image.RGBA, cx, cy int, text string, fg, bg color.RGBA) {
	face := basicfont.Face7x13
	d := &font.Drawer{Dst: img, Src: image.NewUniform(fg), Face: face}

	width := d.MeasureString(text).Ceil()
	m := face.Metrics()
	ascent, descent := m.Ascent.Ceil(), m.Descent.Ceil()
	x := cx - width/2
	baseline := cy + (ascent-descent)/2

	box := image.Rect(x-1, baseline-ascent-1, x+width+1, baseline+descent+1).Intersect(img.Bounds())
	draw.Draw(img, box, image.NewUniform(bg), image.Point{}, draw.Over)

	d.Dot = fixed.P(x, baseline)
	d.DrawString(text)
}
