package errors

import (
	"math"
	"strings"
	"unicode"
)

// ValidateImageID validates an image identifier from a manifest.
// IDs end up in cache keys, file names, and DOM-ish SVG ids, so the
// rules are intentionally conservative:
//   - No empty ids
//   - No control characters
//   - No path separators or traversal sequences
//   - Maximum length of 256 characters
func ValidateImageID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidImage, "image id cannot be empty")
	}

	if len(id) > 256 {
		return New(ErrCodeInvalidImage, "image id too long (max 256 characters)")
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidImage, "image id contains invalid control characters")
		}
	}

	dangerousPatterns := []string{
		"..",   // Parent directory
		"/",    // Path separator
		"\x00", // Null byte
		"\\",   // Backslash (Windows path)
	}

	for _, pattern := range dangerousPatterns {
		if strings.Contains(id, pattern) {
			return New(ErrCodeInvalidImage, "image id contains invalid characters: %q", pattern)
		}
	}

	return nil
}

// ValidateAspectRatio validates an image aspect ratio (width/height).
// Ratios must be finite and strictly positive; anything else would
// propagate a degenerate layout to every pan position.
func ValidateAspectRatio(id string, ratio float64) error {
	if math.IsNaN(ratio) || math.IsInf(ratio, 0) {
		return New(ErrCodeInvalidImage, "image %q: aspect ratio must be finite", id)
	}
	if ratio <= 0 {
		return New(ErrCodeInvalidImage, "image %q: aspect ratio must be positive, got %g", id, ratio)
	}
	return nil
}

// ValidateFinite validates that a named numeric input is a finite number.
// Used for viewport coordinates supplied by callers.
func ValidateFinite(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return New(ErrCodeInvalidViewport, "%s must be a finite number, got %g", name, v)
	}
	return nil
}

// ValidateManifestFilename validates a manifest filename for safety.
// It ensures the filename is a simple basename without path components.
func ValidateManifestFilename(filename string) error {
	if filename == "" {
		return New(ErrCodeInvalidManifest, "manifest filename cannot be empty")
	}

	// Must be a simple filename, not a path
	if strings.ContainsAny(filename, "/\\") {
		return New(ErrCodeInvalidManifest, "manifest filename cannot contain path separators")
	}

	if strings.HasPrefix(filename, ".") {
		return New(ErrCodeInvalidManifest, "manifest filename cannot be a hidden file")
	}

	return nil
}
