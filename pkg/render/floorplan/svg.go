// Package floorplan renders a plan as a top-down SVG drawing.
//
// The drawing shows the warehouse outline, every zone as a tinted rectangle,
// the shelves of one floor and the support posts standing on it. One SVG unit
// per meter is scaled by [WithScale]. The Z axis points down the page.
package floorplan

import (
	"bytes"
	"encoding/xml"
	"fmt"

	"github.com/matzehuels/shelfplan/pkg/plan"
	"github.com/matzehuels/shelfplan/pkg/rack"
	"github.com/matzehuels/shelfplan/pkg/site"
)

// DefaultScale is the number of SVG pixels per meter.
const DefaultScale = 10.0

const (
	margin      = 20.0
	postRadius  = 1.5
	shelfFill   = "#c8a26b"
	shelfStroke = "#6b4f2a"
	postFill    = "#222222"
	labelSize   = 12.0
)

type Option func(*renderer)

type renderer struct {
	scale    float64
	floor    int
	supports bool
	labels   bool
}

// WithScale sets the pixels per meter.
func WithScale(s float64) Option {
	return func(r *renderer) {
		if s > 0 {
			r.scale = s
		}
	}
}

// WithFloor selects the floor to draw. The default is the top floor.
func WithFloor(n int) Option { return func(r *renderer) { r.floor = n } }

// WithoutSupports omits the support posts.
func WithoutSupports() Option { return func(r *renderer) { r.supports = false } }

// WithoutLabels omits the zone names.
func WithoutLabels() Option { return func(r *renderer) { r.labels = false } }

// RenderSVG draws p inside the warehouse of s. With a nil site only the
// planned zone is drawn.
func RenderSVG(s *site.Site, p *plan.Plan, opts ...Option) []byte {
	r := renderer{scale: DefaultScale, supports: true, labels: true}
	for _, opt := range opts {
		opt(&r)
	}
	if r.floor <= 0 {
		r.floor = p.Floors()
	}

	width, depth := p.Area.Width, p.Area.Depth
	origin := p.Origin
	if s != nil {
		width, depth = s.Warehouse.Width, s.Warehouse.Depth
	} else {
		origin = rack.Point{}
	}
	// world (x, z) to page coordinates
	px := func(x float64) float64 { return margin + (x+width/2)*r.scale }
	pz := func(z float64) float64 { return margin + (z+depth/2)*r.scale }

	w := width*r.scale + 2*margin
	h := depth*r.scale + 2*margin

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n", w, h, w, h)
	fmt.Fprintf(&buf, `  <rect x="0" y="0" width="%.1f" height="%.1f" fill="white"/>`+"\n", w, h)

	if s != nil {
		fmt.Fprintf(&buf, `  <rect class="warehouse" x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="none" stroke="%s" stroke-width="2"/>`+"\n",
			px(-width/2), pz(-depth/2), width*r.scale, depth*r.scale, colorOr(s.Warehouse.Color, "#333333"))
		for _, z := range s.Zones {
			c := z.Center(s.Warehouse)
			renderZone(&buf, z, px(c.X-z.Width/2), pz(c.Z-z.Depth/2), r)
		}
	} else {
		renderZone(&buf, site.Zone{Name: p.Zone, Width: width, Depth: depth}, px(-width/2), pz(-depth/2), r)
	}

	fmt.Fprintf(&buf, `  <g class="shelves" data-floor="%d">`+"\n", r.floor)
	for _, f := range p.Footprints {
		if f.Floor != r.floor {
			continue
		}
		x := origin.X + f.X - f.SizeX()/2
		z := origin.Z + f.Z - f.SizeZ()/2
		fmt.Fprintf(&buf, `    <rect class="shelf" data-row="%d" x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="%s" stroke="%s" stroke-width="0.5"/>`+"\n",
			f.Row, px(x), pz(z), f.SizeX()*r.scale, f.SizeZ()*r.scale, shelfFill, shelfStroke)
	}
	buf.WriteString("  </g>\n")

	if r.supports {
		buf.WriteString(`  <g class="supports">` + "\n")
		for _, pt := range postsOnFloor(p, r.floor) {
			fmt.Fprintf(&buf, `    <circle class="post" cx="%.2f" cy="%.2f" r="%.1f" fill="%s"/>`+"\n",
				px(origin.X+pt.X), pz(origin.Z+pt.Z), postRadius, postFill)
		}
		buf.WriteString("  </g>\n")
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func renderZone(buf *bytes.Buffer, z site.Zone, x, y float64, r renderer) {
	color := colorOr(z.Color, "#999999")
	fmt.Fprintf(buf, `  <rect class="zone" id="zone-%s" x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="%s" fill-opacity="0.2" stroke="%s"/>`+"\n",
		escapeXML(z.Name), x, y, z.Width*r.scale, z.Depth*r.scale, color, color)
	if r.labels {
		fmt.Fprintf(buf, `  <text x="%.2f" y="%.2f" font-family="sans-serif" font-size="%.0f" fill="%s">%s</text>`+"\n",
			x+4, y+labelSize+2, labelSize, color, escapeXML(z.Name))
	}
}

// postsOnFloor returns the distinct post positions whose segments reach the
// given floor, in plan order.
func postsOnFloor(p *plan.Plan, floor int) []rack.Point {
	elevation := p.Constraints.FloorHeight(floor)
	if p.Grid != nil {
		elevation = float64(floor-1) * p.Grid.LevelHeight
	}
	seen := make(map[rack.Point]bool)
	var out []rack.Point
	for _, s := range p.Supports {
		if s.Top < elevation {
			continue
		}
		pt := rack.Point{X: s.X, Z: s.Z}
		if !seen[pt] {
			seen[pt] = true
			out = append(out, pt)
		}
	}
	return out
}

func colorOr(c, fallback string) string {
	if c == "" {
		return fallback
	}
	return c
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
