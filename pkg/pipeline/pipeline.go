// Package pipeline runs the site → plan → artifact flow for shelfplan.
//
// The CLI, the HTTP server and tests share this package so every entry point
// resolves zones, applies defaults, caches and logs the same way.
//
// # Architecture
//
// The pipeline has two stages:
//
//  1. Generate: pick the storage zone, run the rows or grid generator and
//     wrap the result in a [plan.Plan]
//  2. Render: turn a plan into one or more artifacts (SVG, PNG, PDF, JSON,
//     DOT diagram, XLSX, scene JSON)
//
// Each stage can run on its own; a stored plan can be rendered later without
// regenerating it.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	p, err := runner.Generate(ctx, s, pipeline.Options{Zone: "storage"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	artifacts, err := runner.Render(ctx, p, s, pipeline.Options{Formats: []string{"svg"}})
package pipeline

import (
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/shelfplan/pkg/cache"
	"github.com/matzehuels/shelfplan/pkg/errors"
	"github.com/matzehuels/shelfplan/pkg/render/floorplan"
	"github.com/matzehuels/shelfplan/pkg/site"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultFormat is rendered when no format is requested.
	DefaultFormat = FormatSVG

	// DefaultScale is the floor plan scale in pixels per meter.
	DefaultScale = floorplan.DefaultScale

	// DefaultPNGScale is the rsvg-convert zoom factor for PNG output.
	DefaultPNGScale = 2.0
)

// Format constants for output formats.
const (
	FormatSVG   = "svg"
	FormatPNG   = "png"
	FormatPDF   = "pdf"
	FormatJSON  = "json"
	FormatDOT   = "dot"
	FormatXLSX  = "xlsx"
	FormatScene = "scene"
)

// Formats lists every supported output format in display order.
var Formats = []string{FormatSVG, FormatPNG, FormatPDF, FormatJSON, FormatDOT, FormatXLSX, FormatScene}

// siteFormats need the site document besides the plan.
var siteFormats = map[string]bool{
	FormatDOT:   true,
	FormatScene: true,
}

// Extension returns the file extension for a format.
func Extension(format string) string {
	switch format {
	case FormatDOT:
		return "dot.svg"
	case FormatScene:
		return "scene.json"
	default:
		return format
	}
}

// ContentType returns the MIME type served for a format.
func ContentType(format string) string {
	switch format {
	case FormatSVG, FormatDOT:
		return "image/svg+xml"
	case FormatPNG:
		return "image/png"
	case FormatPDF:
		return "application/pdf"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "application/json"
	}
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for a pipeline run.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Generate options
	Zone     string `json:"zone,omitempty"`
	Strategy string `json:"strategy,omitempty"` // overrides the site's shelving strategy
	Parallel bool   `json:"parallel,omitempty"`
	Refresh  bool   `json:"refresh,omitempty"`

	// Render options
	Formats    []string `json:"formats,omitempty"`
	Floor      int      `json:"floor,omitempty"` // 0 draws the top floor
	Scale      float64  `json:"scale,omitempty"`
	NoSupports bool     `json:"no_supports,omitempty"`
	Detailed   bool     `json:"detailed,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`
}

// Stats contains timing and size information of the last stage.
type Stats struct {
	Shelves  int
	Supports int
	Duration time.Duration
	CacheHit bool
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is supported.
func ValidateFormat(format string) error {
	if !slices.Contains(Formats, format) {
		return errors.New(errors.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: %s)", format, strings.Join(Formats, ", "))
	}
	return nil
}

// ValidateFormats checks that all formats are supported.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ParseFormats splits a comma separated list, dropping blanks and
// duplicates, and validates each entry.
func ParseFormats(s string) ([]string, error) {
	var out []string
	for _, f := range strings.Split(s, ",") {
		f = strings.ToLower(strings.TrimSpace(f))
		if f == "" || slices.Contains(out, f) {
			continue
		}
		out = append(out, f)
	}
	if err := ValidateFormats(out); err != nil {
		return nil, err
	}
	return out, nil
}

// =============================================================================
// Options Methods
// =============================================================================

// SetDefaults fills unset render options and the logger.
func (o *Options) SetDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{DefaultFormat}
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForGenerate checks the options used by Generate.
func (o *Options) ValidateForGenerate() error {
	if o.Strategy == "" {
		return nil
	}
	_, err := site.ParseStrategy(o.Strategy)
	return err
}

// ValidateForRender applies defaults and checks the options used by Render.
func (o *Options) ValidateForRender() error {
	o.SetDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if err := errors.ValidateNonNegative("floor", float64(o.Floor)); err != nil {
		return err
	}
	return errors.ValidateDimension("scale", o.Scale)
}

// NeedsSite reports whether any requested format draws the whole site.
func (o *Options) NeedsSite() bool {
	return slices.ContainsFunc(o.Formats, func(f string) bool { return siteFormats[f] })
}

// strategy resolves the effective strategy for s.
func (o *Options) strategy(s *site.Site) site.Strategy {
	if o.Strategy != "" {
		st, _ := site.ParseStrategy(o.Strategy)
		return st
	}
	st, _ := site.ParseStrategy(string(s.Shelving.Strategy))
	return st
}

// PlanKeyOpts returns cache key options for plan generation.
func (o *Options) PlanKeyOpts(zone string, s *site.Site) cache.PlanKeyOpts {
	return cache.PlanKeyOpts{
		Zone:      zone,
		Strategy:  string(o.strategy(s)),
		Precision: s.Shelving.Precision,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
// Only the options that affect format are set, so unrelated flags do not
// split the cache. siteHash is recorded for formats that draw the site.
func (o *Options) ArtifactKeyOpts(format, siteHash string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{Format: format}
	switch format {
	case FormatSVG, FormatPNG, FormatPDF:
		k.Floor = o.Floor
		k.Scale = o.Scale
		k.NoSupports = o.NoSupports
		k.SiteHash = siteHash
	case FormatDOT:
		k.Detailed = o.Detailed
		k.SiteHash = siteHash
	case FormatScene:
		k.SiteHash = siteHash
	}
	return k
}
