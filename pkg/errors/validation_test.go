package errors

import (
	"math"
	"strings"
	"testing"
)

func TestValidateImageID(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		wantErr bool
	}{
		{"valid simple", "sunset-001", false},
		{"valid with dots", "img.2024.raw", false},
		{"valid unicode", "bild-über-berlin", false},
		{"empty", "", true},
		{"too long", strings.Repeat("a", 257), true},
		{"max length ok", strings.Repeat("a", 256), false},
		{"control character", "img\x01", true},
		{"newline", "img\nid", true},
		{"parent traversal", "../etc/passwd", true},
		{"path separator", "dir/img", true},
		{"backslash", "dir\\img", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateImageID(tt.id)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateImageID(%q) error = %v, wantErr %v", tt.id, err, tt.wantErr)
			}
			if err != nil && GetCode(err) != ErrCodeInvalidImage {
				t.Errorf("GetCode() = %v, want %v", GetCode(err), ErrCodeInvalidImage)
			}
		})
	}
}

func TestValidateAspectRatio(t *testing.T) {
	tests := []struct {
		name    string
		ratio   float64
		wantErr bool
	}{
		{"landscape", 1.5, false},
		{"square", 1.0, false},
		{"tall portrait", 0.2, false},
		{"very wide", 40.0, false},
		{"zero", 0, true},
		{"negative", -1.5, true},
		{"NaN", math.NaN(), true},
		{"positive infinity", math.Inf(1), true},
		{"negative infinity", math.Inf(-1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAspectRatio("img", tt.ratio)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateAspectRatio(%v) error = %v, wantErr %v", tt.ratio, err, tt.wantErr)
			}
		})
	}
}

func TestValidateFinite(t *testing.T) {
	if err := ValidateFinite("x", -12050.5); err != nil {
		t.Errorf("ValidateFinite(-12050.5) = %v, want nil", err)
	}
	if err := ValidateFinite("x", math.NaN()); err == nil {
		t.Error("ValidateFinite(NaN) = nil, want error")
	} else if GetCode(err) != ErrCodeInvalidViewport {
		t.Errorf("GetCode() = %v, want %v", GetCode(err), ErrCodeInvalidViewport)
	}
	if err := ValidateFinite("y", math.Inf(1)); err == nil {
		t.Error("ValidateFinite(+Inf) = nil, want error")
	}
}

func TestValidateManifestFilename(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		wantErr  bool
	}{
		{"valid json", "wall.json", false},
		{"valid toml", "wall.toml", false},
		{"empty", "", true},
		{"path separator", "dir/wall.json", true},
		{"backslash", "dir\\wall.json", true},
		{"hidden file", ".wall.json", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateManifestFilename(tt.filename)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateManifestFilename(%q) error = %v, wantErr %v", tt.filename, err, tt.wantErr)
			}
		})
	}
}
