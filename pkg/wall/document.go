package wall

import (
	"encoding/json"
	"os"

	"github.com/driftwall/driftwall/pkg/errors"
)

// Document is the canonical serialization format for a packed layout.
// Used for layout files, API responses, caching, and the layout store.
// The spatial index is derived state and is never serialized; it is
// rebuilt by Layout.
type Document struct {
	Config Config        `json:"config" bson:"config"`
	Images []PlacedImage `json:"images" bson:"images"`
}

// Document exports the layout to its serialization format.
func (l *Layout) Document() Document {
	return Document{Config: l.cfg, Images: l.placed}
}

// Layout rebuilds the runtime layout from a document without
// re-packing. Returns an error if the document is not usable.
func (d Document) Layout() (*Layout, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return newLayout(d.Images, d.Config), nil
}

// Rows counts the packed rows by walking the images in packing order
// and starting a new row whenever the Y coordinate changes.
func (d Document) Rows() int {
	rows := 0
	lastY := -1.0
	for _, p := range d.Images {
		if p.Y != lastY {
			rows++
			lastY = p.Y
		}
	}
	return rows
}

// Validate checks that the document describes a plausible packed tile.
func (d Document) Validate() error {
	if err := d.Config.Validate(); err != nil {
		return err
	}
	if len(d.Images) == 0 {
		return errors.New(errors.ErrCodeInvalidLayout, "layout must contain images")
	}
	for _, p := range d.Images {
		if p.Width <= 0 || p.Height <= 0 {
			return errors.New(errors.ErrCodeInvalidLayout,
				"image %q has degenerate size %gx%g", p.ID, p.Width, p.Height)
		}
		if p.X < 0 || p.Y < 0 || p.X+p.Width > d.Config.WorldSize || p.Y+p.Height > d.Config.WorldSize {
			return errors.New(errors.ErrCodeInvalidLayout,
				"image %q at (%g, %g) lies outside the world tile", p.ID, p.X, p.Y)
		}
	}
	return nil
}

// MarshalDocument serializes a Document to pretty-printed JSON bytes.
func MarshalDocument(d Document) ([]byte, error) {
	return json.MarshalIndent(d, "", "  ")
}

// UnmarshalDocument deserializes JSON bytes into a Document and
// validates it.
func UnmarshalDocument(data []byte) (Document, error) {
	var d Document
	if err := json.Unmarshal(data, &d); err != nil {
		return Document{}, errors.Wrap(errors.ErrCodeInvalidLayout, err, "unmarshal layout")
	}
	if err := d.Validate(); err != nil {
		return Document{}, err
	}
	return d, nil
}

// WriteDocumentFile writes a Document to a JSON file.
func WriteDocumentFile(d Document, path string) error {
	data, err := MarshalDocument(d)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadDocumentFile reads a Document from a JSON file.
func ReadDocumentFile(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "read %s", path)
	}
	return UnmarshalDocument(data)
}
