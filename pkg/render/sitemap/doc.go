// Package sitemap renders a warehouse site as a Graphviz diagram.
//
// # Overview
//
// Zones are drawn as boxes pinned to their floor position and sized to
// scale, using the neato engine so Graphviz does not move them. Arrows show
// the vehicle route: charging, then loading, then storage.
//
//	dot := sitemap.ToDOT(site, plan, sitemap.Options{Detailed: true})
//	svg, err := sitemap.RenderSVG(ctx, dot)
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering.
package sitemap
