package detection

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"log"
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/apriltag-mcp/internal/tagfamily"
)

// newCanvas creates a white grayscale image.
func newCanvas(width, height int) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, width, height))
	for i := range img.Pix {
		img.Pix[i] = 255
	}
	return img
}

// cellValue returns the colour of grid cell (cx, cy) of a tag: 0 for the
// black border and black bits, 255 for white bits.
func cellValue(fam *tagfamily.Family, code uint64, cx, cy int) uint8 {
	b, n, d := fam.BlackBorder(), fam.GridSize(), fam.Dimension()
	if cx < b || cy < b || cx >= n-b || cy >= n-b {
		return 0
	}
	k := (cy-b)*d + (cx - b)
	if code>>(fam.Bits()-1-k)&1 == 1 {
		return 255
	}
	return 0
}

// drawTag renders tag id axis-aligned with its top-left black pixel at
// (x0, y0) and cell pixels per grid cell.
func drawTag(t *testing.T, img *image.Gray, fam *tagfamily.Family, id, x0, y0, cell int) {
	t.Helper()
	code, ok := fam.Code(id)
	if !ok {
		t.Fatalf("%s has no id %d", fam.Name(), id)
	}
	n := fam.GridSize()
	for cy := 0; cy < n; cy++ {
		for cx := 0; cx < n; cx++ {
			v := cellValue(fam, code, cx, cy)
			for y := y0 + cy*cell; y < y0+(cy+1)*cell; y++ {
				for x := x0 + cx*cell; x < x0+(cx+1)*cell; x++ {
					img.SetGray(x, y, color.Gray{Y: v})
				}
			}
		}
	}
}

// drawRotatedTag renders tag id centred on (cx, cy), turned deg degrees
// clockwise, with 4x4 supersampling per pixel.
func drawRotatedTag(t *testing.T, img *image.Gray, fam *tagfamily.Family, id int, cx, cy, cell, deg float64) {
	t.Helper()
	code, ok := fam.Code(id)
	if !ok {
		t.Fatalf("%s has no id %d", fam.Name(), id)
	}
	const ss = 4
	n := fam.GridSize()
	side := float64(n) * cell
	sin, cos := math.Sincos(deg * math.Pi / 180)
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			var sum int
			for sy := 0; sy < ss; sy++ {
				for sx := 0; sx < ss; sx++ {
					px := float64(x) - 0.5 + (float64(sx)+0.5)/ss - cx
					py := float64(y) - 0.5 + (float64(sy)+0.5)/ss - cy
					u := (cos*px+sin*py)/side + 0.5
					v := (-sin*px+cos*py)/side + 0.5
					if u < 0 || u >= 1 || v < 0 || v >= 1 {
						sum++
						continue
					}
					if cellValue(fam, code, int(u*float64(n)), int(v*float64(n))) == 255 {
						sum++
					}
				}
			}
			img.Pix[y*img.Stride+x] = uint8(255*float64(sum)/(ss*ss) + 0.5)
		}
	}
}

// drawWarpedTag renders tag id so that the outer border corners land on
// corners, in canonical order, under a full perspective map. Pixels are
// 4x4 supersampled.
func drawWarpedTag(t *testing.T, img *image.Gray, fam *tagfamily.Family, id int, corners [4]Point) {
	t.Helper()
	code, ok := fam.Code(id)
	if !ok {
		t.Fatalf("%s has no id %d", fam.Name(), id)
	}
	h, err := NewHomography(corners)
	if err != nil {
		t.Fatalf("NewHomography: %v", err)
	}
	inv, err := h.Inverse()
	if err != nil {
		t.Fatalf("Inverse: %v", err)
	}
	const ss = 4
	n := fam.GridSize()
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			var sum int
			for sy := 0; sy < ss; sy++ {
				for sx := 0; sx < ss; sx++ {
					px := float64(x) - 0.5 + (float64(sx)+0.5)/ss
					py := float64(y) - 0.5 + (float64(sy)+0.5)/ss
					q, ok := inv.Project(px, py)
					if !ok || q.X < 0 || q.X >= 1 || q.Y < 0 || q.Y >= 1 {
						sum++
						continue
					}
					if cellValue(fam, code, int(q.X*float64(n)), int(q.Y*float64(n))) == 255 {
						sum++
					}
				}
			}
			img.Pix[y*img.Stride+x] = uint8(255*float64(sum)/(ss*ss) + 0.5)
		}
	}
}

// rotatedCorners returns where the outer border corners of a tag drawn by
// drawRotatedTag lie, in canonical order.
func rotatedCorners(cx, cy, side, deg float64) [4]Point {
	sin, cos := math.Sincos(deg * math.Pi / 180)
	var out [4]Point
	for k, q := range unitSquare {
		px, py := (q.X-0.5)*side, (q.Y-0.5)*side
		out[k] = Point{cx + cos*px - sin*py, cy + sin*px + cos*py}
	}
	return out
}

// axisCorners returns the outer border corners of a tag drawn by drawTag.
func axisCorners(x0, y0, side int) [4]Point {
	l, t := float64(x0)-0.5, float64(y0)-0.5
	r, b := l+float64(side), t+float64(side)
	return [4]Point{{l, t}, {r, t}, {r, b}, {l, b}}
}

func newTestDetector(t *testing.T, fam *tagfamily.Family, mutate func(*Config)) *Detector {
	t.Helper()
	cfg := DefaultConfig()
	if mutate != nil {
		mutate(&cfg)
	}
	d, err := NewDetector(fam, cfg)
	if err != nil {
		t.Fatalf("NewDetector failed: %v", err)
	}
	return d
}

func detect(t *testing.T, d *Detector, img image.Image) *Result {
	t.Helper()
	res, err := d.Detect(img)
	if err != nil {
		t.Fatalf("Detect failed: %v", err)
	}
	if res.Count != len(res.Detections) {
		t.Fatalf("Count %d does not match %d detections", res.Count, len(res.Detections))
	}
	return res
}

func assertCorners(t *testing.T, got, want [4]Point, tol float64) {
	t.Helper()
	for k := range got {
		if got[k].Dist(want[k]) > tol {
			t.Errorf("corner %d: got (%.2f, %.2f), want (%.2f, %.2f)", k, got[k].X, got[k].Y, want[k].X, want[k].Y)
		}
	}
}

func TestNewDetector_Errors(t *testing.T) {
	if _, err := NewDetector(nil, DefaultConfig()); !errors.Is(err, ErrNilFamily) {
		t.Errorf("nil family: got %v, want ErrNilFamily", err)
	}

	cfg := DefaultConfig()
	cfg.OverlapFraction = 0
	if _, err := NewDetector(tagfamily.Tag16h5, cfg); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("bad config: got %v, want ErrInvalidConfig", err)
	}
}

func TestDetect_InvalidImage(t *testing.T) {
	d := newTestDetector(t, tagfamily.Tag16h5, nil)

	tests := []struct {
		name string
		img  image.Image
	}{
		{"nil", nil},
		{"empty", image.NewGray(image.Rect(0, 0, 0, 0))},
		{"too narrow", image.NewGray(image.Rect(0, 0, 2, 50))},
		{"too short", image.NewGray(image.Rect(0, 0, 50, 1))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := d.Detect(tt.img)
			if !errors.Is(err, ErrInvalidImage) {
				t.Errorf("got %v, want ErrInvalidImage", err)
			}
			if res != nil {
				t.Error("result should be nil on error")
			}
		})
	}
}

func TestDetect_BlankImage(t *testing.T) {
	d := newTestDetector(t, tagfamily.Tag36h11, nil)

	for _, v := range []uint8{0, 128, 255} {
		img := image.NewGray(image.Rect(0, 0, 64, 48))
		for i := range img.Pix {
			img.Pix[i] = v
		}
		res := detect(t, d, img)
		if res.Count != 0 {
			t.Errorf("uniform %d: got %d detections, want 0", v, res.Count)
		}
		if res.Stats.EdgePixels != 0 {
			t.Errorf("uniform %d: got %d edge pixels, want 0", v, res.Stats.EdgePixels)
		}
	}
}

func TestDetect_SingleTag(t *testing.T) {
	tests := []struct {
		fam  *tagfamily.Family
		cell int
	}{
		{tagfamily.Tag16h5, 8},
		{tagfamily.Tag25h9, 7},
		{tagfamily.Tag36h11, 6},
	}

	for _, tt := range tests {
		for _, id := range []int{0, tt.fam.Len() - 1} {
			t.Run(fmt.Sprintf("%s/%d", tt.fam.Name(), id), func(t *testing.T) {
				side := tt.fam.GridSize() * tt.cell
				x0, y0 := 3*tt.cell, 3*tt.cell+2
				img := newCanvas(side+6*tt.cell, side+6*tt.cell+5)
				drawTag(t, img, tt.fam, id, x0, y0, tt.cell)

				res := detect(t, newTestDetector(t, tt.fam, nil), img)
				if res.Count != 1 {
					t.Fatalf("got %d detections, want 1 (stats %+v)", res.Count, res.Stats)
				}
				det := res.Detections[0]
				if det.ID != id || det.Hamming != 0 || det.Rotation != 0 {
					t.Errorf("got id %d hamming %d rotation %d, want id %d hamming 0 rotation 0", det.ID, det.Hamming, det.Rotation, id)
				}
				if det.Family != tt.fam.Name() {
					t.Errorf("Family: got %q, want %q", det.Family, tt.fam.Name())
				}
				code, _ := tt.fam.Code(id)
				if det.Code != code {
					t.Errorf("Code: got %#x, want %#x", det.Code, code)
				}

				want := axisCorners(x0, y0, side)
				assertCorners(t, det.Corners, want, 0.25)

				mid := Point{float64(x0) + float64(side)/2 - 0.5, float64(y0) + float64(side)/2 - 0.5}
				if det.Center.Dist(mid) > 0.25 {
					t.Errorf("Center: got %+v, want %+v", det.Center, mid)
				}
				if math.Abs(det.Area-float64(side*side)) > 0.05*float64(side*side) {
					t.Errorf("Area: got %.1f, want about %d", det.Area, side*side)
				}
				if math.Abs(det.Perimeter-float64(4*side)) > 2 {
					t.Errorf("Perimeter: got %.1f, want about %d", det.Perimeter, 4*side)
				}
				for k, c := range det.Corners {
					p, ok := det.Homography.Project(unitSquare[k].X, unitSquare[k].Y)
					if !ok || p.Dist(c) > 1e-6 {
						t.Errorf("homography does not map unit corner %d onto the corner", k)
					}
				}
			})
		}
	}
}

func TestDetect_EveryID(t *testing.T) {
	const cell = 6
	for _, fam := range tagfamily.Builtins() {
		t.Run(fam.Name(), func(t *testing.T) {
			d := newTestDetector(t, fam, nil)
			side := fam.GridSize() * cell
			for id := 0; id < fam.Len(); id++ {
				img := newCanvas(side+4*cell, side+4*cell)
				drawTag(t, img, fam, id, 2*cell, 2*cell, cell)
				res := detect(t, d, img)
				if res.Count != 1 || res.Detections[0].ID != id || res.Detections[0].Hamming != 0 {
					t.Errorf("id %d: got %+v", id, res.Detections)
				}
			}
		})
	}
}

func TestDetect_MultipleTags(t *testing.T) {
	fam := tagfamily.Tag25h9
	img := newCanvas(260, 200)
	drawTag(t, img, fam, 2, 20, 20, 7)
	drawTag(t, img, fam, 11, 120, 30, 6)
	drawTag(t, img, fam, 30, 40, 120, 8)
	drawTag(t, img, fam, 2, 180, 120, 7)

	res := detect(t, newTestDetector(t, fam, nil), img)
	if res.Count != 4 {
		t.Fatalf("got %d detections, want 4 (stats %+v)", res.Count, res.Stats)
	}

	want := []struct {
		id     int
		center Point
	}{
		{2, Point{44, 44}},
		{2, Point{204, 144}},
		{11, Point{140.5, 50.5}},
		{30, Point{67.5, 147.5}},
	}
	for i, w := range want {
		got := res.Detections[i]
		if got.ID != w.id || got.Center.Dist(w.center) > 0.25 {
			t.Errorf("detection %d: got id %d at %+v, want id %d at %+v", i, got.ID, got.Center, w.id, w.center)
		}
	}
}

func TestDetect_Idempotent(t *testing.T) {
	fam := tagfamily.Tag16h5
	img := newCanvas(200, 120)
	drawTag(t, img, fam, 5, 10, 10, 8)
	drawTag(t, img, fam, 17, 110, 40, 9)

	d := newTestDetector(t, fam, nil)
	first := detect(t, d, img)
	second := detect(t, d, img)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated detection differs:\n%+v\n%+v", first, second)
	}
}

func TestDetect_WorkersAgree(t *testing.T) {
	fam := tagfamily.Tag36h11
	img := newCanvas(240, 240)
	for k, p := range []image.Point{{20, 20}, {130, 20}, {20, 130}, {130, 130}} {
		drawTag(t, img, fam, 3+k, p.X, p.Y, 10)
	}

	serial := detect(t, newTestDetector(t, fam, func(c *Config) { c.Workers = 1 }), img)
	parallel := detect(t, newTestDetector(t, fam, func(c *Config) { c.Workers = 4 }), img)
	if !reflect.DeepEqual(serial.Detections, parallel.Detections) {
		t.Errorf("serial and parallel results differ:\n%+v\n%+v", serial.Detections, parallel.Detections)
	}
	if serial.Count != 4 {
		t.Errorf("got %d detections, want 4", serial.Count)
	}
}

func TestDetect_RotationInvariance(t *testing.T) {
	fam := tagfamily.Tag16h5
	const w, h = 100, 100
	img := newCanvas(w, h)
	drawTag(t, img, fam, 7, 26, 26, 8)

	d := newTestDetector(t, fam, nil)
	base := detect(t, d, img)
	if base.Count != 1 {
		t.Fatalf("base image: got %d detections, want 1", base.Count)
	}
	ref := base.Detections[0]

	// Each transform maps an image point to its position in the rotated image.
	tests := []struct {
		name   string
		rotate func(image.Image) *image.NRGBA
		mapPt  func(p Point) Point
	}{
		{"90", imaging.Rotate90, func(p Point) Point { return Point{p.Y, w - 1 - p.X} }},
		{"180", imaging.Rotate180, func(p Point) Point { return Point{w - 1 - p.X, h - 1 - p.Y} }},
		{"270", imaging.Rotate270, func(p Point) Point { return Point{h - 1 - p.Y, p.X} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := detect(t, d, tt.rotate(img))
			if res.Count != 1 {
				t.Fatalf("got %d detections, want 1", res.Count)
			}
			got := res.Detections[0]
			if got.ID != ref.ID || got.Hamming != ref.Hamming || got.Code != ref.Code {
				t.Errorf("got id %d hamming %d code %#x, want id %d hamming %d code %#x",
					got.ID, got.Hamming, got.Code, ref.ID, ref.Hamming, ref.Code)
			}
			var want [4]Point
			for k, c := range ref.Corners {
				want[k] = tt.mapPt(c)
			}
			assertCorners(t, got.Corners, want, 0.05)
		})
	}
}

func TestDetect_ArbitraryAngle(t *testing.T) {
	fam := tagfamily.Tag25h9
	const cell = 7.0
	side := float64(fam.GridSize()) * cell
	size := int(side*1.6 + 4*cell)
	d := newTestDetector(t, fam, nil)

	for _, deg := range []float64{-15, 10, 25, 45, 70} {
		t.Run(fmt.Sprintf("%.0f", deg), func(t *testing.T) {
			cx, cy := float64(size)/2+0.25, float64(size)/2-0.4
			img := newCanvas(size, size)
			drawRotatedTag(t, img, fam, 5, cx, cy, cell, deg)

			res := detect(t, d, img)
			if res.Count != 1 || res.Detections[0].ID != 5 || res.Detections[0].Hamming != 0 {
				t.Fatalf("%.0f°: got %+v (stats %+v)", deg, res.Detections, res.Stats)
			}
			det := res.Detections[0]
			assertCorners(t, det.Corners, rotatedCorners(cx, cy, side, deg), 0.5)
			if det.Center.Dist(Point{cx, cy}) > 0.5 {
				t.Errorf("%.0f°: centre %+v, want (%.2f, %.2f)", deg, det.Center, cx, cy)
			}
		})
	}
}

// flipCells inverts payload cells (row, col) of a tag drawn by drawTag.
func flipCells(img *image.Gray, fam *tagfamily.Family, x0, y0, cell int, cells [][2]int) {
	b := fam.BlackBorder()
	for _, rc := range cells {
		for y := y0 + (rc[0]+b)*cell; y < y0+(rc[0]+b+1)*cell; y++ {
			for x := x0 + (rc[1]+b)*cell; x < x0+(rc[1]+b+1)*cell; x++ {
				i := y*img.Stride + x
				img.Pix[i] = 255 - img.Pix[i]
			}
		}
	}
}

func TestDetect_MonotonicRejection(t *testing.T) {
	fam := tagfamily.Tag36h11
	const cell = 6
	img := newCanvas(5*58+20, 80)
	// Tag id k+1 carries k bit errors.
	errs := [][][2]int{
		nil,
		{{0, 0}},
		{{1, 2}, {4, 4}},
		{{0, 5}, {2, 2}, {5, 1}},
		{{0, 1}, {1, 3}, {3, 0}, {5, 5}},
	}
	for k, cells := range errs {
		x0 := 12 + k*58
		drawTag(t, img, fam, k+1, x0, 14, cell)
		flipCells(img, fam, x0, 14, cell, cells)
	}

	prev := map[int]bool{}
	for maxHamming := 0; maxHamming <= 6; maxHamming++ {
		res := detect(t, newTestDetector(t, fam, func(c *Config) { c.MaxHammingDistance = maxHamming }), img)

		limit := fam.EffectiveMaxHamming(maxHamming)
		wantCount := limit + 1
		if wantCount > len(errs) {
			wantCount = len(errs)
		}
		if res.Count != wantCount {
			t.Errorf("max %d: got %d detections, want %d", maxHamming, res.Count, wantCount)
		}

		seen := map[int]bool{}
		for _, det := range res.Detections {
			if det.Hamming != det.ID-1 {
				t.Errorf("max %d: id %d decoded with %d errors, want %d", maxHamming, det.ID, det.Hamming, det.ID-1)
			}
			if det.Hamming > limit {
				t.Errorf("max %d: accepted hamming %d above limit %d", maxHamming, det.Hamming, limit)
			}
			seen[det.ID] = true
		}
		for id := range prev {
			if !seen[id] {
				t.Errorf("max %d: id %d accepted at a lower limit is now rejected", maxHamming, id)
			}
		}
		prev = seen
	}
}

func TestDetect_FourTags36h11ExactMatch(t *testing.T) {
	fam := tagfamily.Tag36h11
	img := newCanvas(240, 240)
	origins := []image.Point{{20, 20}, {130, 20}, {20, 130}, {130, 130}}
	for k, p := range origins {
		drawTag(t, img, fam, 4*k, p.X, p.Y, 10)
	}

	res := detect(t, newTestDetector(t, fam, func(c *Config) { c.MaxHammingDistance = 0 }), img)
	if res.Count != 4 {
		t.Fatalf("got %d detections, want 4 (stats %+v)", res.Count, res.Stats)
	}
	for k, det := range res.Detections {
		if det.ID != 4*k || det.Hamming != 0 {
			t.Errorf("detection %d: got id %d hamming %d, want id %d hamming 0", k, det.ID, det.Hamming, 4*k)
		}
		assertCorners(t, det.Corners, axisCorners(origins[k].X, origins[k].Y, 80), 0.25)
	}
}

func TestDetect_CodebookIsolation(t *testing.T) {
	const cell = 6
	fams := tagfamily.Builtins()
	for _, src := range fams {
		for _, dst := range fams {
			if src == dst {
				continue
			}
			t.Run(src.Name()+"_as_"+dst.Name(), func(t *testing.T) {
				exact := newTestDetector(t, dst, func(c *Config) { c.MaxHammingDistance = 0 })
				side := src.GridSize() * cell
				for id := 0; id < src.Len(); id++ {
					img := newCanvas(side+4*cell, side+4*cell)
					drawTag(t, img, src, id, 2*cell, 2*cell, cell)
					if res := detect(t, exact, img); res.Count != 0 {
						t.Errorf("%s id %d matched %s exactly: %+v", src.Name(), id, dst.Name(), res.Detections)
					}
				}
			})
		}
	}
}

func TestDetect_Logger(t *testing.T) {
	var buf bytes.Buffer
	fam := tagfamily.Tag16h5
	img := newCanvas(100, 100)
	drawTag(t, img, fam, 1, 26, 26, 8)

	d := newTestDetector(t, fam, func(c *Config) { c.Logger = log.New(&buf, "", 0) })
	res := detect(t, d, img)

	out := buf.String()
	if !strings.Contains(out, "detect tag16h5: 100x100") {
		t.Errorf("log output missing header: %q", out)
	}
	if !strings.Contains(out, "accepted=1") {
		t.Errorf("log output missing accepted count: %q", out)
	}
	if res.Stats.Quads < 1 || res.Stats.Accepted != 1 || res.Stats.Segments < 4 {
		t.Errorf("unexpected stats: %+v", res.Stats)
	}
}

func TestDetect_LoggerUnmatched(t *testing.T) {
	var buf bytes.Buffer
	fam := tagfamily.Tag16h5
	img := newCanvas(100, 100)
	drawTag(t, img, fam, 1, 26, 26, 8)
	flipCells(img, fam, 26, 26, 8, [][2]int{{1, 2}})

	d := newTestDetector(t, fam, func(c *Config) {
		c.MaxHammingDistance = 0
		c.Logger = log.New(&buf, "", 0)
	})
	res := detect(t, d, img)
	if res.Count != 0 || res.Stats.Unmatched < 1 {
		t.Fatalf("got %d detections, %d unmatched; want 0 and at least 1", res.Count, res.Stats.Unmatched)
	}

	out := buf.String()
	if !strings.Contains(out, "detect tag16h5: unmatched quad at") {
		t.Errorf("log output missing unmatched line: %q", out)
	}
	if !strings.Contains(out, "nearest id 1 at 1 bits") {
		t.Errorf("log output missing nearest code: %q", out)
	}
}

func TestDetect_Perspective(t *testing.T) {
	fam := tagfamily.Tag36h11
	tests := []struct {
		name    string
		id      int
		corners [4]Point
	}{
		{"mild", 7, [4]Point{{40, 42}, {122, 38}, {118, 120}, {44, 116}}},
		{"keystone", 7, [4]Point{{50, 40}, {110, 40}, {130, 120}, {30, 120}}},
		{"strong", 3, [4]Point{{45, 30}, {115, 50}, {120, 110}, {30, 130}}},
		{"strong upside down", 12, [4]Point{{120, 110}, {30, 130}, {45, 30}, {115, 50}}},
	}

	d := newTestDetector(t, fam, nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := newCanvas(160, 160)
			drawWarpedTag(t, img, fam, tt.id, tt.corners)

			res := detect(t, d, img)
			if res.Count != 1 {
				t.Fatalf("got %d detections, want 1 (stats %+v)", res.Count, res.Stats)
			}
			det := res.Detections[0]
			if det.ID != tt.id || det.Hamming != 0 {
				t.Errorf("got id %d hamming %d, want id %d hamming 0", det.ID, det.Hamming, tt.id)
			}
			assertCorners(t, det.Corners, tt.corners, 1.0)

			h, err := NewHomography(tt.corners)
			if err != nil {
				t.Fatal(err)
			}
			want, _ := h.Project(0.5, 0.5)
			if det.Center.Dist(want) > 1.0 {
				t.Errorf("centre (%.2f, %.2f), want (%.2f, %.2f)", det.Center.X, det.Center.Y, want.X, want.Y)
			}

			for k, c := range det.Corners {
				u, ok := det.ImageToTag.Project(c.X, c.Y)
				if !ok || u.Dist(unitSquare[k]) > 1e-6 {
					t.Errorf("ImageToTag maps corner %d to %+v, want %+v", k, u, unitSquare[k])
				}
			}
		})
	}
}
