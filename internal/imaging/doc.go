// Package imaging provides the image plumbing around the parking vision core.
//
// This package loads camera frames from disk, builds the two views the vision
// pipeline needs (a color view for marker matching and an intensity view for
// region growing), samples pixel colors for calibration, and renders the
// diagnostic marked frame produced by region growing.
//
// # Coordinate System
//
// All pixel coordinates in this package are 0-based:
//   - X: horizontal position (0 = leftmost pixel, the column)
//   - Y: vertical position (0 = topmost pixel, the row)
//   - Frames always have their origin at (0,0); NewFrame re-bases decoded
//     images so that frame coordinates and pixel indices agree
//
// # Frames
//
// A Frame pairs an *image.NRGBA color view with an *image.Gray intensity view
// of identical size. The intensity view is derived from the color view with a
// luminance conversion (bild's effect.Grayscale). Frames are never mutated by
// the vision pipeline.
//
// # Thread Safety
//
// The ImageCache type is safe for concurrent use. Frames are read-only once
// constructed and may be shared between goroutines.
//
// # Color Representation
//
// Colors are handled as 8-bit RGB triples. Hex strings use the "#RRGGBB" form
// and are parsed and formatted with go-colorful, so configuration files and
// tool results share one notation.
//
// # Error Handling
//
// Functions return errors for invalid inputs such as:
//   - Coordinates outside image bounds
//   - Color and intensity views of different sizes (ErrFrameMismatch)
//   - File I/O errors during image loading
//   - Encoding errors during image output
package imaging
