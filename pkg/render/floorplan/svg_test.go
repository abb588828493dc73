package floorplan

import (
	"bytes"
	"encoding/xml"
	"testing"

	"github.com/matzehuels/shelfplan/pkg/plan"
	"github.com/matzehuels/shelfplan/pkg/rack"
	"github.com/matzehuels/shelfplan/pkg/site"
)

func testPlan(t *testing.T, s *site.Site) *plan.Plan {
	t.Helper()
	z, err := s.Storage("")
	if err != nil {
		t.Fatalf("Storage: %v", err)
	}
	l, err := rack.Generate(z.Area(), s.Shelving.Constraints)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	return plan.New(s, z, site.StrategyRows, l)
}

func TestRenderSVG(t *testing.T) {
	s := site.Default()
	p := testPlan(t, s)
	svg := RenderSVG(s, p)

	if !bytes.HasPrefix(svg, []byte("<svg ")) {
		t.Fatalf("output does not start with <svg: %.40s", svg)
	}
	if err := xml.Unmarshal(svg, new(struct{})); err != nil {
		t.Errorf("output is not well-formed XML: %v", err)
	}

	shelves := bytes.Count(svg, []byte(`class="shelf"`))
	if want := len(p.Layout().FloorFootprints(2)); shelves != want {
		t.Errorf("drew %d shelves, want %d on the top floor", shelves, want)
	}
	if zones := bytes.Count(svg, []byte(`class="zone"`)); zones != len(s.Zones) {
		t.Errorf("drew %d zones, want %d", zones, len(s.Zones))
	}
	if !bytes.Contains(svg, []byte(`class="post"`)) {
		t.Error("no support posts drawn")
	}
}

func TestRenderSVGOptions(t *testing.T) {
	s := site.Default()
	p := testPlan(t, s)

	svg := RenderSVG(s, p, WithFloor(1), WithoutSupports(), WithoutLabels(), WithScale(2))
	if !bytes.Contains(svg, []byte(`data-floor="1"`)) {
		t.Error("floor 1 not selected")
	}
	if bytes.Contains(svg, []byte(`class="post"`)) || bytes.Contains(svg, []byte("<text")) {
		t.Error("posts or labels drawn despite options")
	}
	// 80 x 60 warehouse at 2 px/m plus margins
	if !bytes.Contains(svg, []byte(`width="200" height="160"`)) {
		t.Errorf("unexpected canvas size: %.120s", svg)
	}
}

func TestRenderSVGWithoutSite(t *testing.T) {
	p := testPlan(t, site.Default())
	svg := RenderSVG(nil, p, WithScale(1))

	if bytes.Contains(svg, []byte(`class="warehouse"`)) {
		t.Error("warehouse outline drawn without a site")
	}
	// 25 x 20 storage zone at 1 px/m plus margins
	if !bytes.Contains(svg, []byte(`width="65" height="60"`)) {
		t.Errorf("unexpected canvas size: %.120s", svg)
	}
}

func TestRenderSVGEscapesNames(t *testing.T) {
	s := site.Default()
	s.Zones[0].Name = `dock <A&B>`
	svg := RenderSVG(s, testPlan(t, s))
	if bytes.Contains(svg, []byte("<A&B>")) {
		t.Error("zone name not escaped")
	}
}
