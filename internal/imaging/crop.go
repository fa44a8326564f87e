package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"

	"github.com/disintegration/imaging"
)

// CropResult contains a cropped or rectified image encoded as base64 PNG.
type CropResult struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// Crop extracts region r from img, clamped to the image bounds, and scales
// it by scale (1.0 keeps the size) with a Lanczos filter.
func Crop(img image.Image, r image.Rectangle, scale float64) (*CropResult, error) {
	r = r.Intersect(img.Bounds())
	if r.Empty() {
		return nil, fmt.Errorf("crop region %v does not intersect image bounds %v", r, img.Bounds())
	}

	cropped := imaging.Crop(img, r)
	if scale != 1.0 && scale > 0 {
		w := int(float64(cropped.Bounds().Dx()) * scale)
		h := int(float64(cropped.Bounds().Dy()) * scale)
		if w < 1 || h < 1 {
			return nil, fmt.Errorf("scale %.3f collapses the %dx%d crop", scale, r.Dx(), r.Dy())
		}
		cropped = imaging.Resize(cropped, w, h, imaging.Lanczos)
	}
	return encodePNG(cropped)
}

// Projector maps a point of the unit square onto image coordinates.
type Projector func(u, v float64) (x, y float64, ok bool)

// Rectify resamples the unit square seen through project into a size×size
// grayscale image, removing perspective. Pixels whose projection leaves the
// source image are painted white.
func Rectify(gray *image.Gray, project Projector, size int) (*CropResult, error) {
	if size < 1 {
		return nil, fmt.Errorf("invalid rectified size %d", size)
	}
	out := image.NewGray(image.Rect(0, 0, size, size))
	for py := 0; py < size; py++ {
		for px := 0; px < size; px++ {
			u := (float64(px) + 0.5) / float64(size)
			v := (float64(py) + 0.5) / float64(size)
			val := 255.0
			if x, y, ok := project(u, v); ok {
				if s, inside := SampleBilinear(gray, x, y); inside {
					val = s
				}
			}
			out.Pix[py*out.Stride+px] = uint8(val + 0.5)
		}
	}
	return encodePNG(out)
}

func encodePNG(img image.Image) (*CropResult, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return &CropResult{
		Width:       img.Bounds().Dx(),
		Height:      img.Bounds().Dy(),
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
	}, nil
}
