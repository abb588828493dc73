package pipeline

import (
	"bytes"
	"context"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/shelfplan/pkg/errors"
	"github.com/matzehuels/shelfplan/pkg/observability"
	"github.com/matzehuels/shelfplan/pkg/site"
)

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"svg", false},
		{"png", false},
		{"pdf", false},
		{"json", false},
		{"dot", false},
		{"xlsx", false},
		{"scene", false},
		{"invalid", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, errors.ErrCodeInvalidFormat) {
			t.Errorf("ValidateFormat(%q) code = %s", tt.format, errors.GetCode(err))
		}
	}
}

func TestParseFormats(t *testing.T) {
	got, err := ParseFormats(" SVG, json,,svg ,xlsx")
	if err != nil {
		t.Fatalf("ParseFormats: %v", err)
	}
	want := []string{"svg", "json", "xlsx"}
	if len(got) != len(want) {
		t.Fatalf("ParseFormats = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("ParseFormats[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	if _, err := ParseFormats("svg,gif"); err == nil {
		t.Error("ParseFormats should reject gif")
	}
}

func TestSetDefaults(t *testing.T) {
	opts := Options{}
	opts.SetDefaults()

	if len(opts.Formats) != 1 || opts.Formats[0] != FormatSVG {
		t.Errorf("Formats should be [svg], got %v", opts.Formats)
	}
	if opts.Scale != DefaultScale {
		t.Errorf("Scale should be %v, got %v", DefaultScale, opts.Scale)
	}
	if opts.Logger == nil {
		t.Error("Logger should be set")
	}
}

func TestValidateForRender(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		wantErr bool
	}{
		{"defaults", Options{}, false},
		{"negative floor", Options{Floor: -1}, true},
		{"negative scale", Options{Scale: -2}, true},
		{"bad format", Options{Formats: []string{"bmp"}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateForRender()
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateForRender() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateForGenerate(t *testing.T) {
	if err := (&Options{Strategy: "grid"}).ValidateForGenerate(); err != nil {
		t.Errorf("grid should be valid: %v", err)
	}
	err := (&Options{Strategy: "spiral"}).ValidateForGenerate()
	if !errors.Is(err, errors.ErrCodeInvalidStrategy) {
		t.Errorf("spiral err = %v, want %s", err, errors.ErrCodeInvalidStrategy)
	}
}

func TestNeedsSite(t *testing.T) {
	if (&Options{Formats: []string{"svg", "json"}}).NeedsSite() {
		t.Error("svg,json should not need the site")
	}
	if !(&Options{Formats: []string{"svg", "scene"}}).NeedsSite() {
		t.Error("scene should need the site")
	}
}

func TestPlanKeyOptsIgnoresParallel(t *testing.T) {
	s := site.Default()
	seq := Options{Zone: "storage"}
	par := Options{Zone: "storage", Parallel: true}
	if seq.PlanKeyOpts("storage", s) != par.PlanKeyOpts("storage", s) {
		t.Error("parallel fill should share the sequential plan key")
	}
	grid := Options{Strategy: "grid"}
	if seq.PlanKeyOpts("storage", s) == grid.PlanKeyOpts("storage", s) {
		t.Error("strategy override should change the plan key")
	}
}

func TestArtifactKeyOptsIgnoresUnrelatedFlags(t *testing.T) {
	a := Options{Scale: 10, Floor: 1}
	b := Options{Scale: 20, Floor: 2, Detailed: true}
	if a.ArtifactKeyOpts(FormatXLSX, "s") != b.ArtifactKeyOpts(FormatXLSX, "s") {
		t.Error("xlsx key should not depend on floor plan options")
	}
	if a.ArtifactKeyOpts(FormatSVG, "s") == b.ArtifactKeyOpts(FormatSVG, "s") {
		t.Error("svg key should depend on floor and scale")
	}
	if a.ArtifactKeyOpts(FormatJSON, "s1") != a.ArtifactKeyOpts(FormatJSON, "s2") {
		t.Error("json key should not depend on the site")
	}
}

func TestExtensionAndContentType(t *testing.T) {
	tests := []struct {
		format, ext, ctype string
	}{
		{FormatSVG, "svg", "image/svg+xml"},
		{FormatDOT, "dot.svg", "image/svg+xml"},
		{FormatScene, "scene.json", "application/json"},
		{FormatPNG, "png", "image/png"},
	}
	for _, tt := range tests {
		if got := Extension(tt.format); got != tt.ext {
			t.Errorf("Extension(%s) = %s, want %s", tt.format, got, tt.ext)
		}
		if got := ContentType(tt.format); got != tt.ctype {
			t.Errorf("ContentType(%s) = %s, want %s", tt.format, got, tt.ctype)
		}
	}
}

// mapCache is an in-memory cache.Cache that counts hits.
type mapCache struct {
	mu   sync.Mutex
	data map[string][]byte
	hits int
}

func newMapCache() *mapCache { return &mapCache{data: map[string][]byte{}} }

func (c *mapCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	d, ok := c.data[key]
	if ok {
		c.hits++
	}
	return d, ok, nil
}

func (c *mapCache) Set(_ context.Context, key string, data []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = data
	return nil
}

func (c *mapCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func (c *mapCache) Close() error { return nil }

func TestRunnerGenerate(t *testing.T) {
	c := newMapCache()
	r := NewRunner(c, nil, nil)
	ctx := context.Background()
	s := site.Default()

	p1, stats, err := r.GenerateWithStats(ctx, s, Options{})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if p1.Zone != "storage" || p1.Strategy != site.StrategyRows {
		t.Errorf("plan zone/strategy = %s/%s", p1.Zone, p1.Strategy)
	}
	if stats.Shelves == 0 || stats.Supports == 0 || stats.CacheHit {
		t.Errorf("first run stats = %+v", stats)
	}

	p2, stats, err := r.GenerateWithStats(ctx, s, Options{})
	if err != nil {
		t.Fatalf("second Generate: %v", err)
	}
	if !stats.CacheHit {
		t.Error("second run should hit the cache")
	}
	if p2.ID == p1.ID {
		t.Error("cached plan should get a fresh ID")
	}
	if p2.ContentHash() != p1.ContentHash() {
		t.Error("cached plan contents differ")
	}

	_, stats, _ = r.GenerateWithStats(ctx, s, Options{Refresh: true})
	if stats.CacheHit {
		t.Error("refresh should bypass the cache")
	}
}

func TestRunnerGenerateParallelMatches(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	ctx := context.Background()
	seq, err := r.Generate(ctx, site.Default(), Options{})
	if err != nil {
		t.Fatal(err)
	}
	par, err := r.Generate(ctx, site.Default(), Options{Parallel: true})
	if err != nil {
		t.Fatal(err)
	}
	if seq.ContentHash() != par.ContentHash() {
		t.Error("parallel plan differs from sequential plan")
	}
}

func TestRunnerGenerateGrid(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	p, err := r.Generate(context.Background(), site.Default(), Options{Strategy: "grid"})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if p.Strategy != site.StrategyGrid || p.Grid == nil {
		t.Errorf("grid plan = %+v", p)
	}
	if p.Floors() != site.Default().Shelving.Grid.Levels {
		t.Errorf("Floors() = %d", p.Floors())
	}
}

func TestRunnerGenerateErrors(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	ctx := context.Background()

	tiny := site.Default()
	tiny.Zones[2].Width, tiny.Zones[2].Depth = 2, 2

	tests := []struct {
		name string
		site *site.Site
		opts Options
		code errors.Code
	}{
		{"nil site", nil, Options{}, errors.ErrCodeInvalidInput},
		{"bad strategy", site.Default(), Options{Strategy: "x"}, errors.ErrCodeInvalidStrategy},
		{"missing zone", site.Default(), Options{Zone: "nope"}, errors.ErrCodeZoneNotFound},
		{"not storage", site.Default(), Options{Zone: "charging"}, errors.ErrCodeZoneNotFound},
		{"infeasible", tiny, Options{}, errors.ErrCodeLayoutInfeasible},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.Generate(ctx, tt.site, tt.opts)
			if !errors.Is(err, tt.code) {
				t.Errorf("err = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestRunnerRender(t *testing.T) {
	c := newMapCache()
	r := NewRunner(c, nil, nil)
	ctx := context.Background()
	s := site.Default()

	p, err := r.Generate(ctx, s, Options{})
	if err != nil {
		t.Fatal(err)
	}

	opts := Options{Formats: []string{FormatSVG, FormatJSON, FormatXLSX, FormatScene}}
	artifacts, stats, err := r.RenderWithStats(ctx, p, s, opts)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if stats.CacheHit {
		t.Error("first render should miss")
	}
	for _, f := range opts.Formats {
		if len(artifacts[f]) == 0 {
			t.Errorf("artifact %s is empty", f)
		}
	}
	if !bytes.Contains(artifacts[FormatSVG], []byte("<svg")) {
		t.Error("svg artifact is not an SVG document")
	}
	if !bytes.HasPrefix(artifacts[FormatXLSX], []byte("PK")) {
		t.Error("xlsx artifact is not a zip archive")
	}

	_, stats, err = r.RenderWithStats(ctx, p, s, opts)
	if err != nil {
		t.Fatal(err)
	}
	if !stats.CacheHit {
		t.Error("second render should be served from cache")
	}
}

func TestRunnerRenderUnhashablePlan(t *testing.T) {
	c := newMapCache()
	r := NewRunner(c, nil, nil)
	ctx := context.Background()
	s := site.Default()

	p, err := r.Generate(ctx, s, Options{})
	if err != nil {
		t.Fatal(err)
	}
	p.RowSpacing = math.NaN()
	entries := len(c.data)

	artifacts, _, err := r.RenderWithStats(ctx, p, s, Options{Formats: []string{FormatSVG}})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if len(artifacts[FormatSVG]) == 0 {
		t.Error("svg artifact is empty")
	}
	if len(c.data) != entries {
		t.Errorf("cache grew from %d to %d entries for an unhashable plan", entries, len(c.data))
	}
}

func TestRunnerRenderNeedsSite(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	ctx := context.Background()
	p, err := r.Generate(ctx, site.Default(), Options{})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := r.Render(ctx, p, nil, Options{Formats: []string{FormatScene}}); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("scene without site err = %v", err)
	}
	if _, err := r.Render(ctx, p, nil, Options{Formats: []string{FormatSVG}}); err != nil {
		t.Errorf("svg without site: %v", err)
	}
	if _, err := r.Render(ctx, nil, nil, Options{}); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("nil plan err = %v", err)
	}
}

type recordingHooks struct {
	observability.NoopPipelineHooks
	mu       sync.Mutex
	layouts  int
	lastErr  error
	rendered []string
}

func (h *recordingHooks) OnLayoutComplete(_ context.Context, _, _ string, _ int, _ time.Duration, err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.layouts++
	h.lastErr = err
}

func (h *recordingHooks) OnRenderComplete(_ context.Context, formats []string, _ time.Duration, _ error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.rendered = append(h.rendered, formats...)
}

func TestRunnerEmitsHooks(t *testing.T) {
	h := &recordingHooks{}
	observability.SetPipelineHooks(h)
	defer observability.Reset()

	r := NewRunner(nil, nil, nil)
	ctx := context.Background()
	p, err := r.Generate(ctx, site.Default(), Options{})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := r.Render(ctx, p, nil, Options{Formats: []string{FormatJSON}}); err != nil {
		t.Fatal(err)
	}

	tiny := site.Default()
	tiny.Zones[2].Width = 2
	_, _ = r.Generate(ctx, tiny, Options{})

	if h.layouts != 2 {
		t.Errorf("layouts = %d, want 2", h.layouts)
	}
	if !errors.Is(h.lastErr, errors.ErrCodeLayoutInfeasible) {
		t.Errorf("last layout err = %v", h.lastErr)
	}
	if len(h.rendered) != 1 || h.rendered[0] != FormatJSON {
		t.Errorf("rendered = %v", h.rendered)
	}
}
