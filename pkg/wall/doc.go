// Package wall implements the layout and visibility engine for an
// infinite, pannable wall of images.
//
// A finite set of images is packed once into a square world tile using
// justified rows: every row spans the full world width exactly, so the
// tile can repeat seamlessly in both axes. A uniform-grid spatial index
// over the packed tile then answers visibility queries for arbitrary
// viewport rectangles in unbounded world coordinates, returning exactly
// the placed-image instances (across all intersected world copies) that
// overlap the viewport.
//
// # Core Types
//
//   - [ImageMeta]: input image descriptor (id + aspect ratio)
//   - [Config]: world geometry tunables
//   - [PlacedImage]: one rectangle in the packed tile
//   - [Layout]: packed tile + spatial index, the unit of reuse
//   - [Viewport], [Placement]: visibility query input and output
//
// # Usage
//
//	layout, err := wall.BuildLayout(images, wall.DefaultConfig())
//	if err != nil {
//	    return err
//	}
//	visible, err := layout.Visible(wall.Viewport{X: -12050, Y: -12050, Width: 200, Height: 200})
//
// # Concurrency
//
// A Layout is immutable after BuildLayout returns; any number of
// goroutines may call Visible concurrently. Replacing the image set
// means building a new Layout.
package wall
