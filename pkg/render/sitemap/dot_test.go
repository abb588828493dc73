package sitemap

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/shelfplan/pkg/plan"
	"github.com/matzehuels/shelfplan/pkg/rack"
	"github.com/matzehuels/shelfplan/pkg/site"
)

func testPlan(t *testing.T, s *site.Site) *plan.Plan {
	t.Helper()
	z, _ := s.Storage("")
	l, err := rack.Generate(z.Area(), s.Shelving.Constraints)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	return plan.New(s, z, site.StrategyRows, l)
}

func TestToDOT_Basic(t *testing.T) {
	dot := ToDOT(site.Default(), nil, Options{})

	if !strings.Contains(dot, "digraph site") {
		t.Error("ToDOT() output missing digraph declaration")
	}
	if !strings.Contains(dot, "layout=neato") {
		t.Error("ToDOT() output does not select neato")
	}
	for _, name := range []string{"warehouse", "charging", "loading", "storage"} {
		if !strings.Contains(dot, `"`+name+`" [`) {
			t.Errorf("ToDOT() output missing node %s", name)
		}
	}
	if !strings.Contains(dot, `"charging" -> "loading"`) || !strings.Contains(dot, `"loading" -> "storage"`) {
		t.Error("ToDOT() output missing route edges")
	}
	if strings.Contains(dot, "penwidth") {
		t.Error("zone highlighted without a plan")
	}
}

func TestToDOT_Positions(t *testing.T) {
	dot := ToDOT(site.Default(), nil, Options{})

	// charging: 10 x 10 at (10, 10) in an 80 x 60 warehouse
	if !strings.Contains(dot, `pos="1.50,4.50!"`) {
		t.Error("charging zone not pinned at its floor position")
	}
	if !strings.Contains(dot, `pos="4.00,3.00!"`) {
		t.Error("warehouse outline not centered")
	}
	if !strings.Contains(dot, "width=2.50, height=2.00") {
		t.Error("storage zone not sized to scale")
	}
}

func TestToDOT_Detailed(t *testing.T) {
	s := site.Default()
	p := testPlan(t, s)
	dot := ToDOT(s, p, Options{Detailed: true})

	if !strings.Contains(dot, `25 x 20 m`) {
		t.Error("ToDOT() detailed output missing dimensions")
	}
	if !strings.Contains(dot, "shelves") || !strings.Contains(dot, "penwidth=3") {
		t.Error("planned zone not annotated")
	}
}

func TestRenderSVG(t *testing.T) {
	dot := ToDOT(site.Default(), nil, Options{})
	svg, err := RenderSVG(context.Background(), dot)
	if err != nil {
		t.Fatalf("RenderSVG: %v", err)
	}
	if !bytes.Contains(svg, []byte(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 `)) {
		t.Errorf("RenderSVG() output is not SVG: %.60s", svg)
	}
}
