package pipeline

import (
	"context"
	"fmt"

	"github.com/matzehuels/shelfplan/pkg/errors"
	"github.com/matzehuels/shelfplan/pkg/plan"
	"github.com/matzehuels/shelfplan/pkg/render"
	"github.com/matzehuels/shelfplan/pkg/render/floorplan"
	"github.com/matzehuels/shelfplan/pkg/render/sheet"
	"github.com/matzehuels/shelfplan/pkg/render/sitemap"
	"github.com/matzehuels/shelfplan/pkg/scene"
	"github.com/matzehuels/shelfplan/pkg/site"
)

// RenderPlan generates output artifacts in the requested formats.
// s may be nil unless a site format (dot, scene) is requested.
func RenderPlan(ctx context.Context, p *plan.Plan, s *site.Site, opts Options) (map[string][]byte, error) {
	if s == nil && opts.NeedsSite() {
		return nil, errors.New(errors.ErrCodeInvalidInput, "formats %v need the site document", opts.Formats)
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	var svg []byte
	floorSVG := func() []byte {
		if svg == nil {
			svg = floorplan.RenderSVG(s, p, buildSVGOptions(opts)...)
		}
		return svg
	}

	for _, format := range opts.Formats {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		var data []byte
		var err error

		switch format {
		case FormatSVG:
			data = floorSVG()
		case FormatPNG:
			data, err = render.ToPNG(ctx, floorSVG(), DefaultPNGScale)
		case FormatPDF:
			data, err = render.ToPDF(ctx, floorSVG())
		case FormatJSON:
			data, err = plan.Marshal(p)
		case FormatDOT:
			data, err = sitemap.RenderSVG(ctx, sitemap.ToDOT(s, p, sitemap.Options{Detailed: opts.Detailed}))
		case FormatXLSX:
			data, err = sheet.RenderXLSX(p)
		case FormatScene:
			var objs []scene.Object
			if objs, err = scene.Collect(s, p); err == nil {
				data, err = scene.MarshalObjects(objs)
			}
		default:
			return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported format: %s", format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}

// buildSVGOptions builds floor plan rendering options.
func buildSVGOptions(opts Options) []floorplan.Option {
	svgOpts := []floorplan.Option{floorplan.WithScale(opts.Scale)}
	if opts.Floor > 0 {
		svgOpts = append(svgOpts, floorplan.WithFloor(opts.Floor))
	}
	if opts.NoSupports {
		svgOpts = append(svgOpts, floorplan.WithoutSupports())
	}
	return svgOpts
}
