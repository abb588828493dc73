package sitemap

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/shelfplan/pkg/plan"
	"github.com/matzehuels/shelfplan/pkg/site"
)

// inchesPerMeter scales warehouse meters to Graphviz inches.
const inchesPerMeter = 0.1

// Options configures site diagram rendering.
type Options struct {
	// Detailed adds zone dimensions, and for the planned zone the shelf and
	// post counts, to the node labels. When false only the names are shown.
	Detailed bool
}

// ToDOT converts a site to Graphviz DOT. Every zone becomes a box pinned at
// its position on the floor and sized to scale; edges trace the vehicle
// route from charging zones through loading zones to storage zones.
//
// p may be nil. When set, the zone it was computed for is highlighted.
func ToDOT(s *site.Site, p *plan.Plan, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph site {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  splines=false;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"filled\", fixedsize=true, fontsize=10, fontname=\"sans-serif\"];\n")
	buf.WriteString("  edge [color=\"#666666\", arrowsize=0.6];\n")
	buf.WriteString("\n")

	w := s.Warehouse
	fmt.Fprintf(&buf, "  %q [%s];\n", w.Name, strings.Join(zoneAttrs(s, w, nil, opts, true), ", "))
	for _, z := range s.Zones {
		fmt.Fprintf(&buf, "  %q [%s];\n", z.Name, strings.Join(zoneAttrs(s, z, p, opts, false), ", "))
	}

	buf.WriteString("\n")
	charging := s.ZonesOf(site.KindCharging)
	loading := s.ZonesOf(site.KindLoading)
	storage := s.ZonesOf(site.KindStorage)
	for _, c := range charging {
		for _, l := range loading {
			fmt.Fprintf(&buf, "  %q -> %q;\n", c.Name, l.Name)
		}
	}
	for _, l := range loading {
		for _, st := range storage {
			fmt.Fprintf(&buf, "  %q -> %q;\n", l.Name, st.Name)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func zoneAttrs(s *site.Site, z site.Zone, p *plan.Plan, opts Options, outline bool) []string {
	x, y := pinned(s, z, outline)
	attrs := []string{
		fmt.Sprintf("label=%q", fmtLabel(z, p, opts.Detailed)),
		fmt.Sprintf("pos=\"%.2f,%.2f!\"", x, y),
		fmt.Sprintf("width=%.2f", z.Width*inchesPerMeter),
		fmt.Sprintf("height=%.2f", z.Depth*inchesPerMeter),
	}
	if outline {
		return append(attrs, "style=\"dashed\"", "fillcolor=none", "labelloc=t")
	}

	color := z.Color
	if color == "" {
		color = "#999999"
	}
	attrs = append(attrs, fmt.Sprintf("fillcolor=\"%s40\"", color), fmt.Sprintf("color=%q", color))
	if p != nil && p.Zone == z.Name {
		attrs = append(attrs, "penwidth=3")
	}
	return attrs
}

// pinned returns the node center in inches with Y pointing up, so the
// diagram matches the floor plan.
func pinned(s *site.Site, z site.Zone, outline bool) (x, y float64) {
	if outline {
		return s.Warehouse.Width / 2 * inchesPerMeter, s.Warehouse.Depth / 2 * inchesPerMeter
	}
	cx := z.X + z.Width/2
	cz := z.Y + z.Depth/2
	return cx * inchesPerMeter, (s.Warehouse.Depth - cz) * inchesPerMeter
}

func fmtLabel(z site.Zone, p *plan.Plan, detailed bool) string {
	if !detailed {
		return z.Name
	}
	parts := []string{z.Name, fmt.Sprintf("%g x %g m", z.Width, z.Depth)}
	if p != nil && p.Zone == z.Name {
		sum := p.Summarize()
		parts = append(parts, fmt.Sprintf("%d shelves", sum.Shelves), fmt.Sprintf("%d posts", sum.Supports))
	}
	return strings.Join(parts, "\n")
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
