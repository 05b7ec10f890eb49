// Package render produces preview artifacts for a packed wall layout.
//
// The wall itself is rendered by whatever UI consumes the visibility
// query; these sinks exist for inspection and prerendering. RenderSVG
// draws one world tile as colored rectangles so the row packing and
// seam gaps can be checked visually, and RenderJSON emits the canonical
// layout document.
package render

import (
	"bytes"
	"fmt"
	"hash/fnv"

	"github.com/driftwall/driftwall/pkg/errors"
	"github.com/driftwall/driftwall/pkg/wall"
)

// Format identifiers for rendered artifacts.
const (
	FormatSVG  = "svg"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatJSON: true,
}

// SVGOption configures SVG rendering.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	labels     bool
	background string
}

// WithLabels draws each image's id in its rectangle.
func WithLabels() SVGOption {
	return func(r *svgRenderer) { r.labels = true }
}

// WithBackground sets the tile background color (default "#111").
func WithBackground(color string) SVGOption {
	return func(r *svgRenderer) { r.background = color }
}

// RenderSVG draws one world tile of the layout as an SVG document.
// Rectangle fill colors are derived from the image id, so the same
// image keeps its color across renders and across its repetitions.
func RenderSVG(doc wall.Document, opts ...SVGOption) []byte {
	r := svgRenderer{background: "#111"}
	for _, opt := range opts {
		opt(&r)
	}

	world := doc.Config.WorldSize

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.0f %.0f">`+"\n", world, world)
	fmt.Fprintf(&buf, `  <rect width="%.0f" height="%.0f" fill="%s"/>`+"\n", world, world, r.background)

	for _, p := range doc.Images {
		fmt.Fprintf(&buf, `  <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s"/>`+"\n",
			p.X, p.Y, p.Width, p.Height, fillColor(p.ID))
		if r.labels {
			fmt.Fprintf(&buf, `  <text x="%.1f" y="%.1f" font-size="%.0f" fill="#fff" opacity="0.8">%s</text>`+"\n",
				p.X+8, p.Y+p.Height/2, labelSize(p), escapeText(p.ID))
		}
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

// RenderJSON emits the canonical layout document.
func RenderJSON(doc wall.Document) ([]byte, error) {
	return wall.MarshalDocument(doc)
}

// Render dispatches on format.
func Render(doc wall.Document, format string, opts ...SVGOption) ([]byte, error) {
	switch format {
	case FormatSVG:
		return RenderSVG(doc, opts...), nil
	case FormatJSON:
		return RenderJSON(doc)
	default:
		return nil, errors.New(errors.ErrCodeUnsupported, "unsupported render format %q", format)
	}
}

// fillColor derives a stable muted HSL color from the image id.
func fillColor(id string) string {
	h := fnv.New32a()
	h.Write([]byte(id))
	hue := h.Sum32() % 360
	return fmt.Sprintf("hsl(%d, 45%%, 55%%)", hue)
}

func labelSize(p wall.PlacedImage) float64 {
	size := p.Height / 8
	if size > 48 {
		size = 48
	}
	if size < 10 {
		size = 10
	}
	return size
}

func escapeText(s string) string {
	var buf bytes.Buffer
	for _, r := range s {
		switch r {
		case '<':
			buf.WriteString("&lt;")
		case '>':
			buf.WriteString("&gt;")
		case '&':
			buf.WriteString("&amp;")
		default:
			buf.WriteRune(r)
		}
	}
	return buf.String()
}
