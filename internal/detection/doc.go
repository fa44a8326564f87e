// Package detection finds and decodes square fiducial tags in grayscale
// images.
//
// A Detector is bound to one tag family (see package tagfamily) and runs a
// fixed pipeline on every image:
//
//  1. Gradient field: optional Gaussian smoothing, then central-difference
//     gradients with a noise floor (imaging.NewGradientField).
//  2. Edge segmentation: neighbouring edge pixels with similar gradient
//     orientation are merged with a union-find, cheapest pairs first.
//  3. Line fitting: each cluster becomes a directed segment with the dark
//     side on its right.
//  4. Quad extraction: segments chained end to start with four clockwise
//     turns form candidate outlines.
//  5. Decoding: a homography from the unit square onto each candidate is
//     used to sample the cell grid, which is thresholded against white and
//     black reference models.
//  6. Matching and deduplication: payloads are matched against the family
//     in all four rotations, and repeated detections of the same tag are
//     merged.
//
// # Coordinate System
//
// Pixel centres lie at integer coordinates, with the origin at the top-left
// pixel, X to the right and Y down. Detection corners are sub-pixel positions
// on the outer edge of the tag's black border, listed clockwise from the
// tag's canonical top-left corner.
//
// # Concurrency
//
// Detect does not modify the Detector, so one Detector can serve many
// goroutines. Candidate decoding inside a call runs on Config.Workers
// goroutines.
//
// # Limitations
//
// Tags need roughly five or more pixels per grid cell and an unbroken white
// margin of about one cell. Heavily blurred, partially occluded or strongly
// curved tags are not recovered.
package detection
