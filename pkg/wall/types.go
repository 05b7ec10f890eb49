package wall

import "math"

// ImageMeta describes one input image. Immutable, supplied once by a
// manifest; the natural width at the target row height is
// AspectRatio × TargetRowHeight.
type ImageMeta struct {
	ID          string  `json:"id" bson:"id" toml:"id"`
	AspectRatio float64 `json:"aspect_ratio" bson:"aspect_ratio" toml:"aspect_ratio"`
}

// PlacedImage is one rectangle in the packed world tile, in local
// coordinates within [0, WorldSize). The same image id may appear more
// than once when the input list is shorter than the rows need.
type PlacedImage struct {
	ID     string  `json:"id" bson:"id"`
	X      float64 `json:"x" bson:"x"`
	Y      float64 `json:"y" bson:"y"`
	Width  float64 `json:"width" bson:"width"`
	Height float64 `json:"height" bson:"height"`
}

// Bounds returns the image's half-open bounding rectangle.
func (p PlacedImage) Bounds() Rect {
	return Rect{X0: p.X, Y0: p.Y, X1: p.X + p.Width, Y1: p.Y + p.Height}
}

// Rect is an axis-aligned rectangle, half-open on both axes:
// a point (x, y) is inside when X0 <= x < X1 and Y0 <= y < Y1.
type Rect struct {
	X0, Y0 float64
	X1, Y1 float64
}

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool {
	return r.X1 <= r.X0 || r.Y1 <= r.Y0
}

// Intersects reports whether r and o share any area.
// Touching edges do not count as overlap.
func (r Rect) Intersects(o Rect) bool {
	return r.X0 < o.X1 && r.X1 > o.X0 && r.Y0 < o.Y1 && r.Y1 > o.Y0
}

// Intersect returns the intersection of r and o.
// The result may be empty; check with Empty.
func (r Rect) Intersect(o Rect) Rect {
	return Rect{
		X0: math.Max(r.X0, o.X0),
		Y0: math.Max(r.Y0, o.Y0),
		X1: math.Min(r.X1, o.X1),
		Y1: math.Min(r.Y1, o.Y1),
	}
}

// Translate returns r shifted by (dx, dy).
func (r Rect) Translate(dx, dy float64) Rect {
	return Rect{X0: r.X0 + dx, Y0: r.Y0 + dy, X1: r.X1 + dx, Y1: r.Y1 + dy}
}
