package manifest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/driftwall/driftwall/pkg/errors"
)

const validJSON = `{
  "images": [
    {"id": "alps-01", "aspect_ratio": 1.5},
    {"id": "alps-02", "aspect_ratio": 0.667},
    {"id": "alps-03", "aspect_ratio": 2.0}
  ]
}`

const validTOML = `
[[images]]
id = "alps-01"
aspect_ratio = 1.5

[[images]]
id = "alps-02"
aspect_ratio = 0.667
`

func TestParse(t *testing.T) {
	m, err := Parse([]byte(validJSON))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if len(m.Images) != 3 {
		t.Fatalf("got %d images, want 3", len(m.Images))
	}
	if m.Images[0].ID != "alps-01" || m.Images[0].AspectRatio != 1.5 {
		t.Errorf("first image = %+v", m.Images[0])
	}
}

func TestParseTOML(t *testing.T) {
	m, err := ParseTOML([]byte(validTOML))
	if err != nil {
		t.Fatalf("ParseTOML() error: %v", err)
	}
	if len(m.Images) != 2 {
		t.Fatalf("got %d images, want 2", len(m.Images))
	}
	if m.Images[1].ID != "alps-02" {
		t.Errorf("second image id = %q, want alps-02", m.Images[1].ID)
	}
}

func TestParseInvalid(t *testing.T) {
	tests := []struct {
		name string
		data string
		code errors.Code
	}{
		{"malformed JSON", `{"images": [`, errors.ErrCodeInvalidManifest},
		{"no images", `{"images": []}`, errors.ErrCodeInvalidManifest},
		{"empty id", `{"images": [{"id": "", "aspect_ratio": 1}]}`, errors.ErrCodeInvalidImage},
		{"duplicate id", `{"images": [{"id": "a", "aspect_ratio": 1}, {"id": "a", "aspect_ratio": 2}]}`, errors.ErrCodeInvalidManifest},
		{"zero ratio", `{"images": [{"id": "a", "aspect_ratio": 0}]}`, errors.ErrCodeInvalidImage},
		{"negative ratio", `{"images": [{"id": "a", "aspect_ratio": -1.5}]}`, errors.ErrCodeInvalidImage},
		{"path traversal id", `{"images": [{"id": "../evil", "aspect_ratio": 1}]}`, errors.ErrCodeInvalidImage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			if err == nil {
				t.Fatal("Parse() succeeded, want error")
			}
			if !errors.Is(err, tt.code) {
				t.Errorf("error code = %q, want %q", errors.GetCode(err), tt.code)
			}
		})
	}
}

func TestReadFile(t *testing.T) {
	dir := t.TempDir()

	jsonPath := filepath.Join(dir, "wall.json")
	if err := os.WriteFile(jsonPath, []byte(validJSON), 0644); err != nil {
		t.Fatal(err)
	}
	tomlPath := filepath.Join(dir, "wall.toml")
	if err := os.WriteFile(tomlPath, []byte(validTOML), 0644); err != nil {
		t.Fatal(err)
	}

	if m, err := ReadFile(jsonPath); err != nil || len(m.Images) != 3 {
		t.Errorf("ReadFile(json) = %d images, err %v", len(m.Images), err)
	}
	if m, err := ReadFile(tomlPath); err != nil || len(m.Images) != 2 {
		t.Errorf("ReadFile(toml) = %d images, err %v", len(m.Images), err)
	}

	if _, err := ReadFile(filepath.Join(dir, "missing.json")); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing file error code = %q, want %q", errors.GetCode(err), errors.ErrCodeFileNotFound)
	}

	badExt := filepath.Join(dir, "wall.yaml")
	if err := os.WriteFile(badExt, []byte("images: []"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadFile(badExt); !errors.Is(err, errors.ErrCodeInvalidManifest) {
		t.Errorf("unsupported extension error code = %q, want %q", errors.GetCode(err), errors.ErrCodeInvalidManifest)
	}

	// Hidden files are rejected before any disk access.
	hidden := filepath.Join(dir, ".wall.json")
	if err := os.WriteFile(hidden, []byte(validJSON), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadFile(hidden); !errors.Is(err, errors.ErrCodeInvalidManifest) {
		t.Errorf("hidden file error code = %q, want %q", errors.GetCode(err), errors.ErrCodeInvalidManifest)
	}
}

func TestHashIsOrderSensitive(t *testing.T) {
	a, err := Parse([]byte(`{"images": [{"id": "a", "aspect_ratio": 1}, {"id": "b", "aspect_ratio": 2}]}`))
	if err != nil {
		t.Fatal(err)
	}
	b, err := Parse([]byte(`{"images": [{"id": "b", "aspect_ratio": 2}, {"id": "a", "aspect_ratio": 1}]}`))
	if err != nil {
		t.Fatal(err)
	}
	if a.Hash() == b.Hash() {
		t.Error("reordered manifests hash identically")
	}
	if a.Hash() != a.Hash() {
		t.Error("hash is not stable")
	}
}
