// Package manifest loads and validates the image manifests that feed
// the wall layout engine.
//
// A manifest is the external input contract of the system: an ordered
// list of image descriptors, each with a stable unique id and an aspect
// ratio. Manifests are written once by whatever produces the image set
// (an export script, a CMS, a directory scan) and assumed static for
// the lifetime of any layout built from them.
//
// Two encodings are supported, chosen by file extension: JSON
// (.json) and TOML (.toml).
//
//	{
//	  "images": [
//	    {"id": "alps-01", "aspect_ratio": 1.5},
//	    {"id": "alps-02", "aspect_ratio": 0.667}
//	  ]
//	}
//
//	[[images]]
//	id = "alps-01"
//	aspect_ratio = 1.5
package manifest

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/driftwall/driftwall/pkg/cache"
	"github.com/driftwall/driftwall/pkg/errors"
	"github.com/driftwall/driftwall/pkg/wall"
)

// Manifest is an ordered image set. Order matters: the packer consumes
// images in manifest order, so reordering changes the layout.
type Manifest struct {
	Images []wall.ImageMeta `json:"images" toml:"images"`
}

// Parse decodes a JSON manifest and validates it.
func Parse(data []byte) (Manifest, error) {
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return Manifest{}, errors.Wrap(errors.ErrCodeInvalidManifest, err, "decode JSON manifest")
	}
	if err := m.Validate(); err != nil {
		return Manifest{}, err
	}
	return m, nil
}

// ParseTOML decodes a TOML manifest and validates it.
func ParseTOML(data []byte) (Manifest, error) {
	var m Manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return Manifest{}, errors.Wrap(errors.ErrCodeInvalidManifest, err, "decode TOML manifest")
	}
	if err := m.Validate(); err != nil {
		return Manifest{}, err
	}
	return m, nil
}

// ReadFile loads a manifest from disk, picking the decoder by file
// extension. Unknown extensions are rejected rather than guessed.
func ReadFile(path string) (Manifest, error) {
	if err := errors.ValidateManifestFilename(filepath.Base(path)); err != nil {
		return Manifest{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Manifest{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "read %s", path)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return Parse(data)
	case ".toml":
		return ParseTOML(data)
	default:
		return Manifest{}, errors.New(errors.ErrCodeInvalidManifest,
			"unsupported manifest extension %q (want .json or .toml)", filepath.Ext(path))
	}
}

// Validate checks the manifest invariants: at least one image, unique
// non-empty ids, finite positive aspect ratios.
func (m Manifest) Validate() error {
	if len(m.Images) == 0 {
		return errors.New(errors.ErrCodeInvalidManifest, "manifest contains no images")
	}

	seen := make(map[string]struct{}, len(m.Images))
	for _, img := range m.Images {
		if err := errors.ValidateImageID(img.ID); err != nil {
			return err
		}
		if _, dup := seen[img.ID]; dup {
			return errors.New(errors.ErrCodeInvalidManifest, "duplicate image id %q", img.ID)
		}
		seen[img.ID] = struct{}{}
		if err := errors.ValidateAspectRatio(img.ID, img.AspectRatio); err != nil {
			return err
		}
	}
	return nil
}

// Hash returns a stable content hash of the manifest, used for cache
// and store keys. Order-sensitive on purpose: reordering the manifest
// is a different layout.
func (m Manifest) Hash() string {
	data, _ := json.Marshal(m.Images)
	return cache.Hash(data)
}
