package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/driftwall/driftwall/pkg/errors"
	"github.com/driftwall/driftwall/pkg/wall"
)

func testDocument(t *testing.T) wall.Document {
	t.Helper()
	l, err := wall.BuildLayout([]wall.ImageMeta{
		{ID: "a", AspectRatio: 1.5},
		{ID: "b", AspectRatio: 1.0},
		{ID: "c<tag>", AspectRatio: 2.0},
	}, wall.DefaultConfig())
	if err != nil {
		t.Fatalf("BuildLayout() error: %v", err)
	}
	return l.Document()
}

func TestRenderSVG(t *testing.T) {
	doc := testDocument(t)
	svg := string(RenderSVG(doc))

	if !strings.HasPrefix(svg, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 12000 12000">`) {
		t.Errorf("unexpected SVG header: %s", svg[:80])
	}
	if !strings.HasSuffix(svg, "</svg>\n") {
		t.Error("SVG not terminated")
	}
	// One rect per placed image plus the background.
	if got := strings.Count(svg, "<rect"); got != len(doc.Images)+1 {
		t.Errorf("SVG contains %d rects, want %d", got, len(doc.Images)+1)
	}
	// No labels unless requested.
	if strings.Contains(svg, "<text") {
		t.Error("SVG contains labels without WithLabels")
	}
}

func TestRenderSVGLabels(t *testing.T) {
	doc := testDocument(t)
	svg := string(RenderSVG(doc, WithLabels()))

	if got := strings.Count(svg, "<text"); got != len(doc.Images) {
		t.Errorf("SVG contains %d labels, want %d", got, len(doc.Images))
	}
	if strings.Contains(svg, "c<tag>") {
		t.Error("label text not escaped")
	}
	if !strings.Contains(svg, "c&lt;tag&gt;") {
		t.Error("escaped label missing")
	}
}

func TestRenderSVGDeterministicColors(t *testing.T) {
	doc := testDocument(t)
	if !bytes.Equal(RenderSVG(doc), RenderSVG(doc)) {
		t.Error("RenderSVG is not deterministic")
	}
}

func TestRenderJSONRoundTrips(t *testing.T) {
	doc := testDocument(t)
	data, err := RenderJSON(doc)
	if err != nil {
		t.Fatalf("RenderJSON() error: %v", err)
	}
	parsed, err := wall.UnmarshalDocument(data)
	if err != nil {
		t.Fatalf("UnmarshalDocument() error: %v", err)
	}
	if len(parsed.Images) != len(doc.Images) {
		t.Errorf("round trip lost images: %d != %d", len(parsed.Images), len(doc.Images))
	}
}

func TestRenderDispatch(t *testing.T) {
	doc := testDocument(t)
	if _, err := Render(doc, FormatSVG); err != nil {
		t.Errorf("Render(svg) error: %v", err)
	}
	if _, err := Render(doc, FormatJSON); err != nil {
		t.Errorf("Render(json) error: %v", err)
	}
	if _, err := Render(doc, "pdf"); !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Errorf("Render(pdf) error code = %q, want %q", errors.GetCode(err), errors.ErrCodeUnsupported)
	}
}
