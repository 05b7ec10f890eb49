// Package pipeline provides the manifest → layout → render pipeline.
//
// This package centralizes the staged computation shared by the CLI and
// the HTTP server: load and validate a manifest, pack it into a world
// tile (cached by manifest hash and geometry), and render preview
// artifacts. Centralizing it keeps caching behavior identical across
// entry points.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    ManifestPath: "wall.json",
//	    Formats:      []string{"svg"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    return err
//	}
//	svg := result.Artifacts["svg"]
//
// Individual stages can be run on their own: LoadManifest, BuildLayout,
// Render.
package pipeline

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/driftwall/driftwall/pkg/errors"
	"github.com/driftwall/driftwall/pkg/render"
	"github.com/driftwall/driftwall/pkg/wall"
)

// Options contains all configuration for a pipeline run.
// The struct supports JSON serialization for API requests.
type Options struct {
	// Input: a manifest file path, or inline images. Exactly one must
	// be set.
	ManifestPath string           `json:"manifest_path,omitempty"`
	Images       []wall.ImageMeta `json:"images,omitempty"`

	// Geometry overrides; zero-valued fields take wall defaults.
	Geometry wall.Config `json:"geometry,omitempty"`

	// Render options.
	Formats []string `json:"formats,omitempty"`
	Labels  bool     `json:"labels,omitempty"`

	// Refresh bypasses the cache and recomputes.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized).
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// ValidateAndSetDefaults checks required fields and applies defaults.
// Idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}

	if o.ManifestPath == "" && len(o.Images) == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "manifest path or inline images required")
	}
	if o.ManifestPath != "" && len(o.Images) > 0 {
		return errors.New(errors.ErrCodeInvalidInput, "manifest path and inline images are mutually exclusive")
	}

	o.Geometry.ApplyDefaults()
	if err := o.Geometry.Validate(); err != nil {
		return err
	}

	if len(o.Formats) == 0 {
		o.Formats = []string{render.FormatJSON}
	}
	for _, f := range o.Formats {
		if !render.ValidFormats[f] {
			return errors.New(errors.ErrCodeInvalidFormat,
				"invalid format %q (must be one of: svg, json)", f)
		}
	}

	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	o.validated = true
	return nil
}
