package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/shelfplan/pkg/cache"
	"github.com/matzehuels/shelfplan/pkg/errors"
	"github.com/matzehuels/shelfplan/pkg/observability"
	"github.com/matzehuels/shelfplan/pkg/plan"
	"github.com/matzehuels/shelfplan/pkg/site"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger; it doesn't
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

// SiteHash returns the content hash of a site document.
func SiteHash(s *site.Site) (string, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("hash site: %w", err)
	}
	return cache.Hash(data), nil
}

// GenerateWithStats lays out a storage zone of s with caching and returns
// run statistics.
//
// The zone is opts.Zone, else the site's default zone, else its first
// storage zone. A cached plan is returned with a fresh ID and timestamp.
func (r *Runner) GenerateWithStats(ctx context.Context, s *site.Site, opts Options) (*plan.Plan, Stats, error) {
	if s == nil {
		return nil, Stats{}, errors.New(errors.ErrCodeInvalidInput, "site is required")
	}
	if err := opts.ValidateForGenerate(); err != nil {
		return nil, Stats{}, err
	}
	r.applyLogger(&opts)
	if err := s.Validate(); err != nil {
		return nil, Stats{}, err
	}

	z, err := s.Storage(opts.Zone)
	if err != nil {
		return nil, Stats{}, err
	}
	strategy := opts.strategy(s)

	siteHash, err := SiteHash(s)
	if err != nil {
		return nil, Stats{}, err
	}
	cacheKey := r.Keyer.PlanKey(siteHash, opts.PlanKeyOpts(z.Name, s))

	hooks := observability.Pipeline()
	hooks.OnLayoutStart(ctx, z.Name, string(strategy))
	start := time.Now()

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if p, ok := r.cachedPlan(ctx, cacheKey); ok {
			stats := planStats(p, time.Since(start), true)
			hooks.OnLayoutComplete(ctx, z.Name, string(strategy), stats.Shelves, stats.Duration, nil)
			opts.Logger.Debug("plan cache hit", "zone", z.Name, "strategy", strategy)
			return p, stats, nil
		}
	}

	p, err := GeneratePlan(ctx, s, z, strategy, opts.Parallel)
	if err != nil {
		hooks.OnLayoutComplete(ctx, z.Name, string(strategy), 0, time.Since(start), err)
		return nil, Stats{}, err
	}
	p.SiteHash = siteHash
	stats := planStats(p, time.Since(start), false)
	hooks.OnLayoutComplete(ctx, z.Name, string(strategy), stats.Shelves, stats.Duration, nil)

	if data, err := plan.Marshal(p); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, cache.PlanTTL); err == nil {
			observability.Cache().OnCacheSet(ctx, "plan", len(data))
		} else {
			opts.Logger.Debug("cache plan", "err", err)
		}
	}

	opts.Logger.Info("generated plan",
		"zone", z.Name,
		"strategy", strategy,
		"rows", p.Rows,
		"shelves", stats.Shelves,
		"supports", stats.Supports,
		"duration", stats.Duration)
	for _, w := range p.Warnings {
		opts.Logger.Warn(w.Message, "code", w.Code)
	}

	return p, stats, nil
}

// Generate is a convenience wrapper that calls GenerateWithStats and discards the stats.
func (r *Runner) Generate(ctx context.Context, s *site.Site, opts Options) (*plan.Plan, error) {
	p, _, err := r.GenerateWithStats(ctx, s, opts)
	return p, err
}

func (r *Runner) cachedPlan(ctx context.Context, key string) (*plan.Plan, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil || !hit {
		observability.Cache().OnCacheMiss(ctx, "plan")
		return nil, false
	}
	p, err := plan.Read(bytes.NewReader(data))
	if err != nil {
		// If deserialization fails, fall through to recompute
		observability.Cache().OnCacheMiss(ctx, "plan")
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, "plan")
	p.Reissue()
	return p, true
}

// RenderWithStats generates artifacts with caching and returns run statistics.
// Formats already cached are served from the cache; only the rest are rendered.
// Stats.CacheHit is true when every artifact came from the cache.
func (r *Runner) RenderWithStats(ctx context.Context, p *plan.Plan, s *site.Site, opts Options) (map[string][]byte, Stats, error) {
	if p == nil {
		return nil, Stats{}, errors.New(errors.ErrCodeInvalidInput, "plan is required")
	}
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, Stats{}, err
	}

	// An unhashable plan is rendered without touching the artifact cache.
	planHash := p.ContentHash()
	cacheable := planHash != ""
	var siteHash string
	if s != nil {
		h, err := SiteHash(s)
		if err != nil {
			return nil, Stats{}, err
		}
		siteHash = h
	}

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()

	artifacts := make(map[string][]byte, len(opts.Formats))
	var missing []string
	for _, format := range opts.Formats {
		key := r.Keyer.ArtifactKey(planHash, opts.ArtifactKeyOpts(format, siteHash))
		if cacheable && !opts.Refresh {
			if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
				observability.Cache().OnCacheHit(ctx, "artifact")
				artifacts[format] = data
				continue
			}
		}
		observability.Cache().OnCacheMiss(ctx, "artifact")
		missing = append(missing, format)
	}

	if len(missing) > 0 {
		sub := opts
		sub.Formats = missing
		rendered, err := RenderPlan(ctx, p, s, sub)
		if err != nil {
			hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
			return nil, Stats{}, err
		}
		for format, data := range rendered {
			artifacts[format] = data
			if !cacheable {
				continue
			}
			key := r.Keyer.ArtifactKey(planHash, opts.ArtifactKeyOpts(format, siteHash))
			if err := r.Cache.Set(ctx, key, data, cache.ArtifactTTL); err == nil {
				observability.Cache().OnCacheSet(ctx, "artifact", len(data))
			}
		}
	}

	stats := planStats(p, time.Since(start), len(missing) == 0)
	hooks.OnRenderComplete(ctx, opts.Formats, stats.Duration, nil)
	opts.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", len(opts.Formats)-len(missing),
		"duration", stats.Duration)

	return artifacts, stats, nil
}

// Render is a convenience wrapper that calls RenderWithStats and discards the stats.
func (r *Runner) Render(ctx context.Context, p *plan.Plan, s *site.Site, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithStats(ctx, p, s, opts)
	return artifacts, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

func planStats(p *plan.Plan, d time.Duration, hit bool) Stats {
	return Stats{
		Shelves:  len(p.Footprints),
		Supports: len(p.Supports),
		Duration: d,
		CacheHit: hit,
	}
}
