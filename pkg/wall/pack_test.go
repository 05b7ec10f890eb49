package wall

import (
	"math"
	"reflect"
	"testing"

	"github.com/driftwall/driftwall/pkg/errors"
)

func testImages() []ImageMeta {
	return []ImageMeta{
		{ID: "a", AspectRatio: 1.5},
		{ID: "b", AspectRatio: 1.0},
		{ID: "c", AspectRatio: 2.0},
	}
}

// rowsOf groups placed images into rows by their Y coordinate,
// preserving packing order.
func rowsOf(placed []PlacedImage) [][]PlacedImage {
	var rows [][]PlacedImage
	for _, p := range placed {
		if len(rows) == 0 || rows[len(rows)-1][0].Y != p.Y {
			rows = append(rows, nil)
		}
		rows[len(rows)-1] = append(rows[len(rows)-1], p)
	}
	return rows
}

func TestPackDeterminism(t *testing.T) {
	cfg := DefaultConfig()
	first, err := Pack(testImages(), cfg)
	if err != nil {
		t.Fatalf("Pack() error: %v", err)
	}
	second, err := Pack(testImages(), cfg)
	if err != nil {
		t.Fatalf("Pack() error: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("Pack() is not deterministic: two runs differ")
	}
}

func TestPackEdgeExactRows(t *testing.T) {
	cfg := DefaultConfig()
	placed, err := Pack(testImages(), cfg)
	if err != nil {
		t.Fatalf("Pack() error: %v", err)
	}

	for i, row := range rowsOf(placed) {
		var sum float64
		for _, p := range row {
			sum += p.Width
		}
		// Each row carries count gaps: count-1 interior plus the seam
		// gap toward the next world copy.
		total := sum + float64(len(row))*cfg.Gap
		if total != cfg.WorldSize {
			t.Errorf("row %d: widths+gaps = %v, want %v", i, total, cfg.WorldSize)
		}
		last := row[len(row)-1]
		if got := last.X + last.Width; got != cfg.WorldSize-cfg.Gap {
			t.Errorf("row %d: last image ends at %v, want %v", i, got, cfg.WorldSize-cfg.Gap)
		}
	}
}

func TestPackNoVerticalOverflow(t *testing.T) {
	cfg := DefaultConfig()
	placed, err := Pack(testImages(), cfg)
	if err != nil {
		t.Fatalf("Pack() error: %v", err)
	}
	for _, p := range placed {
		if p.Y+p.Height > cfg.WorldSize {
			t.Errorf("image %q: y+height = %v exceeds world size %v", p.ID, p.Y+p.Height, cfg.WorldSize)
		}
	}
}

func TestPackNoOverlap(t *testing.T) {
	cfg := DefaultConfig()
	placed, err := Pack(testImages(), cfg)
	if err != nil {
		t.Fatalf("Pack() error: %v", err)
	}

	rows := rowsOf(placed)
	for i, row := range rows {
		for j := 1; j < len(row); j++ {
			prev, cur := row[j-1], row[j]
			if prev.X+prev.Width > cur.X {
				t.Errorf("row %d: images %d and %d overlap horizontally", i, j-1, j)
			}
		}
		if i > 0 {
			above := rows[i-1][0]
			if above.Y+above.Height > row[0].Y {
				t.Errorf("rows %d and %d overlap vertically", i-1, i)
			}
		}
	}
}

func TestPackMinimumRowSize(t *testing.T) {
	// Two panoramic images overflow the row budget but must still
	// share a row rather than form degenerate single-image rows.
	images := []ImageMeta{
		{ID: "wide1", AspectRatio: 25},
		{ID: "wide2", AspectRatio: 25},
	}
	placed, err := Pack(images, DefaultConfig())
	if err != nil {
		t.Fatalf("Pack() error: %v", err)
	}
	for i, row := range rowsOf(placed) {
		if len(row) < 2 {
			t.Errorf("row %d holds %d image(s), want at least 2", i, len(row))
		}
	}
}

func TestPackCyclesImages(t *testing.T) {
	images := testImages()
	placed, err := Pack(images, DefaultConfig())
	if err != nil {
		t.Fatalf("Pack() error: %v", err)
	}
	if len(placed) <= len(images) {
		t.Fatalf("Pack() placed %d images, want more than the %d inputs", len(placed), len(images))
	}
	// The cursor walks the input cyclically across row boundaries.
	for i, p := range placed {
		if want := images[i%len(images)].ID; p.ID != want {
			t.Fatalf("placed[%d].ID = %q, want %q", i, p.ID, want)
		}
	}
}

// TestPackConcreteScenario pins the exact packing of three images with
// aspect ratios 1.5, 1.0, 2.0 at the default geometry. Natural widths
// are 480+320+640 per cycle; the first row consumes 23 images before
// the gap-inclusive budget is hit, scales by (12000-22*30)/10880 and
// rounds to height 334.
func TestPackConcreteScenario(t *testing.T) {
	cfg := DefaultConfig()
	placed, err := Pack(testImages(), cfg)
	if err != nil {
		t.Fatalf("Pack() error: %v", err)
	}

	rows := rowsOf(placed)
	if len(rows) != 34 {
		t.Fatalf("got %d rows, want 34", len(rows))
	}
	first := rows[0]
	if len(first) != 23 {
		t.Fatalf("first row holds %d images, want 23", len(first))
	}
	if first[0].Height != 334 {
		t.Errorf("first row height = %v, want 334", first[0].Height)
	}
	wantWidths := []float64{500, 334, 667}
	for i, want := range wantWidths {
		if first[i].Width != want {
			t.Errorf("first row image %d width = %v, want %v", i, first[i].Width, want)
		}
	}
	if last := first[len(first)-1]; last.Width != 303 {
		t.Errorf("first row last width = %v, want 303", last.Width)
	}

	var sum float64
	for _, p := range first {
		sum += p.Width
	}
	if got := sum + float64(len(first))*cfg.Gap; got != cfg.WorldSize {
		t.Errorf("first row widths+gaps = %v, want %v", got, cfg.WorldSize)
	}

	// The final row is clamped by exact subtraction to the remaining
	// band above the seam gap.
	last := rows[len(rows)-1]
	if last[0].Height != 123 {
		t.Errorf("final row height = %v, want 123", last[0].Height)
	}
	if end := last[0].Y + last[0].Height; end != cfg.WorldSize-cfg.Gap {
		t.Errorf("final row ends at %v, want %v", end, cfg.WorldSize-cfg.Gap)
	}
}

func TestPackInputValidation(t *testing.T) {
	cfg := DefaultConfig()
	tests := []struct {
		name   string
		images []ImageMeta
		cfg    Config
		code   errors.Code
	}{
		{
			name:   "empty list",
			images: nil,
			cfg:    cfg,
			code:   errors.ErrCodeInvalidManifest,
		},
		{
			name:   "zero aspect ratio",
			images: []ImageMeta{{ID: "a", AspectRatio: 0}, {ID: "b", AspectRatio: 1}},
			cfg:    cfg,
			code:   errors.ErrCodeInvalidImage,
		},
		{
			name:   "negative aspect ratio",
			images: []ImageMeta{{ID: "a", AspectRatio: -2}},
			cfg:    cfg,
			code:   errors.ErrCodeInvalidImage,
		},
		{
			name:   "NaN aspect ratio",
			images: []ImageMeta{{ID: "a", AspectRatio: math.NaN()}},
			cfg:    cfg,
			code:   errors.ErrCodeInvalidImage,
		},
		{
			name:   "invalid config",
			images: testImages(),
			cfg:    Config{WorldSize: -1, TargetRowHeight: 320, Gap: 30, CellSize: 600},
			code:   errors.ErrCodeInvalidConfig,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Pack(tt.images, tt.cfg)
			if err == nil {
				t.Fatal("Pack() succeeded, want error")
			}
			if !errors.Is(err, tt.code) {
				t.Errorf("error code = %q, want %q", errors.GetCode(err), tt.code)
			}
		})
	}
}

func TestPackRejectsCollapsedRow(t *testing.T) {
	// A panoramic image next to a sliver forces the row scale so low
	// that closing the row pushes the sliver's width negative. The
	// packer must refuse rather than emit a degenerate rectangle.
	images := []ImageMeta{
		{ID: "panorama", AspectRatio: 1000},
		{ID: "sliver", AspectRatio: 0.001},
	}

	_, err := Pack(images, DefaultConfig())
	if err == nil {
		t.Fatal("Pack() succeeded, want collapsed-row error")
	}
	if !errors.Is(err, errors.ErrCodeLayoutOverrun) {
		t.Errorf("error code = %q, want %q", errors.GetCode(err), errors.ErrCodeLayoutOverrun)
	}
}

func TestPackOverrunGuard(t *testing.T) {
	// With a zero gap and a microscopic aspect ratio the row budget is
	// never reached, so the cursor bound must fire instead of looping.
	images := []ImageMeta{{ID: "dust", AspectRatio: 1e-9}}
	cfg := Config{WorldSize: 12000, TargetRowHeight: 320, Gap: 0, CellSize: 600}

	_, err := Pack(images, cfg)
	if err == nil {
		t.Fatal("Pack() succeeded, want overrun error")
	}
	if !errors.Is(err, errors.ErrCodeLayoutOverrun) {
		t.Errorf("error code = %q, want %q", errors.GetCode(err), errors.ErrCodeLayoutOverrun)
	}
}
