package rack_test

import (
	"fmt"

	"github.com/matzehuels/shelfplan/pkg/rack"
)

func ExampleGenerate() {
	area := rack.Area{Width: 10, Depth: 10, AlongX: true}
	c := rack.Constraints{
		LevelHeight:    0.5,
		ShelfWidth:     1,
		MinShelfLength: 2,
		MaxShelfLength: 5,
		MinAisleWidth:  2,
		FloorCount:     2,
	}

	l, err := rack.Generate(area, c)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}

	fmt.Printf("rows=%d spacing=%.1f\n", l.Rows, l.RowSpacing)
	fmt.Printf("shelves=%d supports=%d\n", len(l.Footprints), len(l.Supports))
	// Output:
	// rows=4 spacing=2.0
	// shelves=16 supports=48
}

func ExampleComputeRowLayout() {
	_, _, err := rack.ComputeRowLayout(
		rack.Area{Width: 20, Depth: 2, AlongX: true},
		rack.Constraints{ShelfWidth: 1, MinAisleWidth: 2},
	)
	fmt.Println(err)
	// Output:
	// LAYOUT_INFEASIBLE: area span 2.00 fits 1 row(s) of width 1.00 with 2.00 aisles, need at least 2
}

func ExampleFillRow() {
	area := rack.Area{Width: 12, Depth: 4, AlongX: true}
	c := rack.Constraints{ShelfWidth: 1, MinShelfLength: 2, MaxShelfLength: 5}

	for f := range rack.FillRow(0, 0, 1, area, c) {
		fmt.Printf("length %.1f centered at x=%.1f\n", f.Length, f.X)
	}
	// Output:
	// length 5.0 centered at x=-3.5
	// length 5.0 centered at x=1.5
}

func ExampleBuildSupportColumns() {
	m := rack.NewSupportMap(rack.DefaultPrecision)
	m.Register(rack.Point{X: 1, Z: 1}, 1.5)
	m.Register(rack.Point{X: 1, Z: 1}, 0.5)

	for _, s := range rack.BuildSupportColumns(m) {
		fmt.Printf("(%.0f, %.0f) [%.1f, %.1f)\n", s.X, s.Z, s.Base, s.Top)
	}
	// Output:
	// (1, 1) [0.0, 0.5)
	// (1, 1) [0.5, 1.5)
}
