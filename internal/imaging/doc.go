// Package imaging provides the pixel-level building blocks of tag detection:
// image loading and caching, grayscale conversion, sub-pixel sampling, the
// gradient field, and the rendering helpers used to report results
// (crops, perspective rectification and outline overlays).
//
// # Coordinate System
//
// Pixel centres sit at integer coordinates: (0,0) is the centre of the
// top-left pixel, X grows to the right and Y grows downward. The boundary
// between two neighbouring pixels therefore lies on a half-integer line,
// which is where fitted tag edges end up.
//
// # Grayscale Images
//
// Detection works on *image.Gray values whose bounds start at the origin.
// ToGray produces such images from any decoded image; SampleBilinear and
// NewGradientField rely on that layout.
//
// # Thread Safety
//
// ImageCache is safe for concurrent use. Every other function is stateless
// and only reads its inputs, so concurrent calls on shared images are safe as
// long as nobody mutates the image.
package imaging
