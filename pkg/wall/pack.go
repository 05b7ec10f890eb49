package wall

import (
	"math"

	"github.com/driftwall/driftwall/pkg/errors"
)

const (
	// maxPlacementsPerImage bounds the cyclic image cursor at
	// len(images) × this factor. A full world at the default geometry
	// places each image a few hundred times at most; reaching a
	// thousand repeats of every image means the row accumulator is not
	// converging (pathological aspect ratios that can never satisfy
	// the two-image row minimum), and Pack reports that instead of
	// silently truncating the world.
	maxPlacementsPerImage = 1000

	// minRowHeight is the smallest usable height for the clamped final
	// row. A trailing band shorter than this is dropped rather than
	// emitted as a sliver.
	minRowHeight = 40.0
)

// Pack arranges images into justified rows filling a WorldSize×WorldSize
// tile edge to edge. The input list is consumed cyclically: when the
// rows need more images than the list holds, images repeat.
//
// The packing is a pure function of the input list and config. Within a
// row every image is scaled to a common height chosen so that the row
// spans the world width exactly: the last image of each row ends at
// WorldSize−Gap, leaving the seam gap toward the next world copy, so
// adjacent copies abut with the same spacing as any two neighbors.
// Intermediate widths are rounded half away from zero; the rounding
// error is pushed entirely onto the last image of the row by exact
// subtraction, never distributed.
//
// Packing stops when the remaining vertical space cannot hold a usable
// row. That early stop is the normal terminal condition of a finite
// world, not an error.
func Pack(images []ImageMeta, cfg Config) ([]PlacedImage, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if len(images) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidManifest, "image list cannot be empty")
	}
	for _, img := range images {
		if err := errors.ValidateAspectRatio(img.ID, img.AspectRatio); err != nil {
			return nil, err
		}
	}

	var (
		placed []PlacedImage
		cursor int
		y      float64
	)
	limit := maxPlacementsPerImage * len(images)

	for {
		// Remaining vertical space, keeping the seam gap toward the
		// copy below reserved.
		remaining := cfg.WorldSize - cfg.Gap - y
		if remaining < minRowHeight {
			break
		}

		// Accumulate the row at natural widths. One gap is reserved per
		// image; the last reservation becomes the row's seam gap. A row
		// may overflow its natural budget rather than hold fewer than
		// two images.
		var (
			row     []ImageMeta
			natural float64
		)
		for {
			if cursor >= limit {
				return nil, errors.New(errors.ErrCodeLayoutOverrun,
					"packing exceeded %d placements for %d images", limit, len(images))
			}
			img := images[cursor%len(images)]
			w := img.AspectRatio * cfg.TargetRowHeight
			if len(row) >= 2 && natural+w+float64(len(row)+1)*cfg.Gap > cfg.WorldSize {
				break
			}
			row = append(row, img)
			natural += w
			cursor++
		}

		// Scale the row to span the world width exactly.
		scale := (cfg.WorldSize - float64(len(row)-1)*cfg.Gap) / natural
		height := math.Round(cfg.TargetRowHeight * scale)
		if height > remaining {
			height = remaining
		}

		x := 0.0
		for i, img := range row {
			w := math.Round(img.AspectRatio * cfg.TargetRowHeight * scale)
			if i == len(row)-1 {
				// The last image absorbs all rounding error.
				w = cfg.WorldSize - x - cfg.Gap
			}
			if w <= 0 {
				// Extreme aspect-ratio mixes can round an image away or
				// push the closing subtraction negative. Degenerate
				// rectangles would poison every downstream consumer, so
				// surface the collapse instead of emitting them.
				return nil, errors.New(errors.ErrCodeLayoutOverrun,
					"row collapsed: image %q would get width %g", img.ID, w)
			}
			placed = append(placed, PlacedImage{
				ID:     img.ID,
				X:      x,
				Y:      y,
				Width:  w,
				Height: height,
			})
			x += w + cfg.Gap
		}

		y += height + cfg.Gap
	}

	return placed, nil
}
