package wall

import (
	"math"

	"github.com/driftwall/driftwall/pkg/errors"
)

// Viewport is a query rectangle in unbounded world coordinates.
// X and Y locate the top-left corner and may be negative or arbitrarily
// large; the query wraps them onto the repeating world tile.
type Viewport struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Validate rejects non-finite coordinates and negative extents.
// A zero-area viewport is valid and yields an empty result.
func (v Viewport) Validate() error {
	for _, f := range []struct {
		name  string
		value float64
	}{
		{"x", v.X},
		{"y", v.Y},
		{"width", v.Width},
		{"height", v.Height},
	} {
		if err := errors.ValidateFinite(f.name, f.value); err != nil {
			return err
		}
	}
	if v.Width < 0 || v.Height < 0 {
		return errors.New(errors.ErrCodeInvalidViewport,
			"viewport extents cannot be negative: %gx%g", v.Width, v.Height)
	}
	return nil
}

func (v Viewport) bounds() Rect {
	return Rect{X0: v.X, Y0: v.Y, X1: v.X + v.Width, Y1: v.Y + v.Height}
}

// Placement is one visible placed-image instance: the image's rectangle
// translated into the world copy it was found in. The same placed image
// appears once per visible world copy.
type Placement struct {
	Image   PlacedImage `json:"image" bson:"image"`
	RenderX float64     `json:"render_x" bson:"render_x"`
	RenderY float64     `json:"render_y" bson:"render_y"`
	CopyX   int         `json:"copy_x" bson:"copy_x"`
	CopyY   int         `json:"copy_y" bson:"copy_y"`
}

// Layout is a packed world tile together with its spatial index.
// It is immutable after construction and safe for concurrent queries;
// replacing the image set or the config means building a new Layout.
type Layout struct {
	placed []PlacedImage
	cfg    Config
	index  *grid
}

// BuildLayout packs images and indexes the result.
func BuildLayout(images []ImageMeta, cfg Config) (*Layout, error) {
	placed, err := Pack(images, cfg)
	if err != nil {
		return nil, err
	}
	return newLayout(placed, cfg), nil
}

func newLayout(placed []PlacedImage, cfg Config) *Layout {
	return &Layout{
		placed: placed,
		cfg:    cfg,
		index:  buildGrid(placed, cfg.CellSize),
	}
}

// Images returns the placed images of one world tile in packing order.
// The returned slice is shared; callers must not modify it.
func (l *Layout) Images() []PlacedImage { return l.placed }

// Config returns the geometry the layout was built with.
func (l *Layout) Config() Config { return l.cfg }

// instance identifies one placed image within one world copy, the unit
// of deduplication for visibility results.
type instance struct {
	idx    int
	wx, wy int
}

// Visible returns every placed-image instance whose translated
// rectangle overlaps the viewport, across all world copies the viewport
// spans. Results carry the absolute render position and the copy
// indices; order follows grid iteration and carries no meaning.
func (l *Layout) Visible(vp Viewport) ([]Placement, error) {
	if err := vp.Validate(); err != nil {
		return nil, err
	}

	view := vp.bounds()
	if view.Empty() {
		return nil, nil
	}

	world := l.cfg.WorldSize
	tile := Rect{X0: 0, Y0: 0, X1: world, Y1: world}

	wx0 := int(math.Floor(view.X0 / world))
	wx1 := int(math.Floor(view.X1 / world))
	wy0 := int(math.Floor(view.Y0 / world))
	wy1 := int(math.Floor(view.Y1 / world))

	seen := make(map[instance]struct{})
	var out []Placement

	for wy := wy0; wy <= wy1; wy++ {
		for wx := wx0; wx <= wx1; wx++ {
			offX := float64(wx) * world
			offY := float64(wy) * world

			local := view.Translate(-offX, -offY).Intersect(tile)
			if local.Empty() {
				continue
			}

			l.index.candidates(local, func(idx int) {
				key := instance{idx: idx, wx: wx, wy: wy}
				if _, dup := seen[key]; dup {
					return
				}
				p := l.placed[idx]
				// Exact overlap check against the unclipped viewport
				// filters cell-granularity false positives.
				if !p.Bounds().Translate(offX, offY).Intersects(view) {
					return
				}
				seen[key] = struct{}{}
				out = append(out, Placement{
					Image:   p,
					RenderX: p.X + offX,
					RenderY: p.Y + offY,
					CopyX:   wx,
					CopyY:   wy,
				})
			})
		}
	}

	return out, nil
}
