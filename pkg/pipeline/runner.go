package pipeline

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/driftwall/driftwall/pkg/cache"
	"github.com/driftwall/driftwall/pkg/manifest"
	"github.com/driftwall/driftwall/pkg/render"
	"github.com/driftwall/driftwall/pkg/wall"
)

// Runner encapsulates pipeline execution with caching.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Close releases the cache backend.
func (r *Runner) Close() error {
	return r.Cache.Close()
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Manifest is the validated input image set.
	Manifest manifest.Manifest

	// ManifestHash is the content hash of the manifest.
	ManifestHash string

	// Document is the packed layout in serialization form.
	Document wall.Document

	// Layout is the runtime layout (tile + spatial index), ready for
	// visibility queries.
	Layout *wall.Layout

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	ImageCount  int
	PlacedCount int
	RowCount    int
	LayoutTime  time.Duration
	RenderTime  time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool // Whether the packed layout came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// Execute runs the complete manifest → layout → render pipeline with
// caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	m, err := r.LoadManifest(opts)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Manifest:     m,
		ManifestHash: m.Hash(),
	}
	result.Stats.ImageCount = len(m.Images)

	layoutStart := time.Now()
	doc, layoutHit, err := r.BuildLayoutWithCacheInfo(ctx, m, opts)
	if err != nil {
		return nil, err
	}
	result.Document = doc
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.Stats.PlacedCount = len(doc.Images)
	result.Stats.RowCount = doc.Rows()
	result.CacheInfo.LayoutHit = layoutHit

	result.Layout, err = doc.Layout()
	if err != nil {
		return nil, err
	}

	opts.Logger.Info("packed layout",
		"images", result.Stats.ImageCount,
		"placed", result.Stats.PlacedCount,
		"rows", result.Stats.RowCount,
		"cached", layoutHit,
		"duration", result.Stats.LayoutTime)

	renderStart := time.Now()
	artifacts, renderHit, err := r.Render(ctx, doc, opts)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	opts.Logger.Info("rendered artifacts",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// LoadManifest resolves the input image set from the options.
func (r *Runner) LoadManifest(opts Options) (manifest.Manifest, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return manifest.Manifest{}, err
	}
	if opts.ManifestPath != "" {
		return manifest.ReadFile(opts.ManifestPath)
	}
	m := manifest.Manifest{Images: opts.Images}
	if err := m.Validate(); err != nil {
		return manifest.Manifest{}, err
	}
	return m, nil
}

// BuildLayoutWithCacheInfo packs the manifest with caching and reports
// whether the layout came from cache. The cache key covers the manifest
// content and the geometry, so any change to either recomputes.
func (r *Runner) BuildLayoutWithCacheInfo(ctx context.Context, m manifest.Manifest, opts Options) (wall.Document, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return wall.Document{}, false, err
	}

	cacheKey := r.Keyer.LayoutKey(m.Hash(), opts.Geometry)

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			if cached, err := wall.UnmarshalDocument(data); err == nil {
				return cached, true, nil
			}
			// Corrupt entry: fall through and recompute.
		}
	}

	layout, err := wall.BuildLayout(m.Images, opts.Geometry)
	if err != nil {
		return wall.Document{}, false, err
	}
	doc := layout.Document()

	if data, err := wall.MarshalDocument(doc); err == nil {
		_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLLayout)
	}

	return doc, false, nil
}

// BuildLayout is a convenience wrapper that discards the cache hit info.
func (r *Runner) BuildLayout(ctx context.Context, m manifest.Manifest, opts Options) (wall.Document, error) {
	doc, _, err := r.BuildLayoutWithCacheInfo(ctx, m, opts)
	return doc, err
}

// Render produces the requested artifacts with caching. The second
// return reports whether every artifact came from cache.
func (r *Runner) Render(ctx context.Context, doc wall.Document, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}

	docData, err := wall.MarshalDocument(doc)
	if err != nil {
		return nil, false, err
	}
	docHash := cache.Hash(docData)

	var svgOpts []render.SVGOption
	if opts.Labels {
		svgOpts = append(svgOpts, render.WithLabels())
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	allHit := true
	for _, format := range opts.Formats {
		key := r.Keyer.ArtifactKey(docHash, artifactKeyFormat(format, opts.Labels))

		if !opts.Refresh {
			if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
				artifacts[format] = data
				continue
			}
		}
		allHit = false

		data, err := render.Render(doc, format, svgOpts...)
		if err != nil {
			return nil, false, err
		}
		artifacts[format] = data
		_ = r.Cache.Set(ctx, key, data, cache.TTLArtifact)
	}

	return artifacts, allHit && !opts.Refresh, nil
}

func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

// artifactKeyFormat folds render options into the cache key so labeled
// and unlabeled SVGs don't collide.
func artifactKeyFormat(format string, labels bool) string {
	if labels {
		return format + "+labels"
	}
	return format
}
