// Package render turns layout plans into documents.
//
// # Overview
//
// The subpackages each produce one kind of output from a [plan.Plan]:
//
//   - [floorplan]: top-down SVG of the warehouse with the shelves of one floor
//   - [sitemap]: Graphviz diagram of the zones, positioned to scale
//   - [sheet]: XLSX bill of materials (shelves, posts, totals)
//
// The 3D scene description lives in package scene.
//
// # Format Conversion
//
// [ToPDF] and [ToPNG] convert any SVG to other formats using the external
// rsvg-convert tool (from librsvg):
//
//	svg := floorplan.RenderSVG(site, plan)
//	pdf, err := render.ToPDF(ctx, svg)
//	png, err := render.ToPNG(ctx, svg, 2.0)
//
// [plan.Plan]: github.com/matzehuels/shelfplan/pkg/plan.Plan
// [floorplan]: github.com/matzehuels/shelfplan/pkg/render/floorplan
// [sitemap]: github.com/matzehuels/shelfplan/pkg/render/sitemap
// [sheet]: github.com/matzehuels/shelfplan/pkg/render/sheet
package render
