// Package tagfamily holds the codebooks of square fiducial tag families and the
// Hamming-distance matcher used to identify decoded tags.
//
// A family is a fixed set of equal-length binary codes. Each code is the
// row-major reading of the tag's Dimension×Dimension data grid, most
// significant bit first, starting at the top-left data cell of the tag in its
// canonical (upright) orientation. A white cell is a 1 bit, a black cell a 0.
// The data grid is surrounded by BlackBorder rings of black cells; outside
// the black border the tag is expected to sit on a white background.
//
// # Built-in Families
//
//   - tag16h5: 4×4 data bits, minimum Hamming distance 5, 30 codes
//   - tag25h9: 5×5 data bits, minimum Hamming distance 9, 35 codes
//   - tag36h11: 6×6 data bits, minimum Hamming distance 11, ids 0-18
//
// The compiled-in tag36h11 table only covers the first ids, so tag25h9 is the
// default family. Complete tables (or custom families) can be loaded from
// YAML with LoadFile; "apriltag-mcp family" prints any family in that format.
//
// # Thread Safety
//
// A Family is immutable after construction and may be shared by any number of
// goroutines without locking.
package tagfamily
