package rack

import (
	"math"

	"github.com/matzehuels/shelfplan/pkg/errors"
)

// GridConstraints configures the fixed-grid rack generator.
//
// MinLength is measured along the area's length axis (see [Area.Length]) and
// MinWidth across it.
type GridConstraints struct {
	MinWidth    float64 `json:"min_width" bson:"min_width" toml:"min_width"`
	MinLength   float64 `json:"min_length" bson:"min_length" toml:"min_length"`
	Spacing     float64 `json:"spacing" bson:"spacing" toml:"spacing"`
	Levels      int     `json:"levels" bson:"levels" toml:"levels"`
	LevelHeight float64 `json:"level_height" bson:"level_height" toml:"level_height"`
}

// Height returns the full height of one rack.
func (g GridConstraints) Height() float64 { return float64(g.Levels) * g.LevelHeight }

// gridAxis sizes the racks along one axis so they fill extent exactly.
// It returns the count, the rack size and whether the size is still below min.
func gridAxis(extent, minSize, spacing float64) (count int, size float64, undersized bool) {
	count = max(1, int(math.Floor((extent+spacing)/(minSize+spacing))))
	size = (extent - float64(count-1)*spacing) / float64(count)
	if size < minSize && count > 1 {
		count--
		size = (extent - float64(count-1)*spacing) / float64(count)
	}
	return count, size, size < minSize
}

// GenerateGrid lays out a grid of free-standing racks that exactly fill the
// area. Each rack carries Levels shelves at elevations 0, LevelHeight, ...
// (floor indices 1..Levels) and four posts spanning the full rack height.
//
// Footprint.Row is the rack index in the grid, counted across first.
// Layout.Rows is the number of racks across the area and Layout.RowSpacing
// the gap between them.
//
// No rack count falls below one. When a rack is still smaller than the
// minimum in some axis the layout is returned anyway with an
// ErrCodeConstraintViolation warning.
func GenerateGrid(a Area, g GridConstraints) *Layout {
	across, width, narrow := gridAxis(a.Span(), g.MinWidth, g.Spacing)
	along, length, short := gridAxis(a.Length(), g.MinLength, g.Spacing)

	l := &Layout{Rows: across, RowSpacing: g.Spacing}
	if narrow {
		l.Warnings = append(l.Warnings, errors.Warn(errors.ErrCodeConstraintViolation,
			"rack width %.2f is below the minimum %.2f", width, g.MinWidth))
	}
	if short {
		l.Warnings = append(l.Warnings, errors.Warn(errors.ErrCodeConstraintViolation,
			"rack length %.2f is below the minimum %.2f", length, g.MinLength))
	}

	startAcross := -a.Span()/2 + width/2
	startAlong := -a.Length()/2 + length/2
	height := g.Height()

	rack := 0
	for i := range across {
		for j := range along {
			u := startAcross + float64(i)*(width+g.Spacing)
			v := startAlong + float64(j)*(length+g.Spacing)

			base := Footprint{Row: rack, Length: length, Width: width, AlongX: a.AlongX}
			if a.AlongX {
				base.X, base.Z = v, u
			} else {
				base.X, base.Z = u, v
			}

			for _, p := range base.Corners() {
				l.Supports = append(l.Supports, SupportColumn{X: p.X, Z: p.Z, Base: 0, Top: height})
			}
			for level := range g.Levels {
				f := base
				f.Floor = level + 1
				f.Elevation = float64(level) * g.LevelHeight
				l.Footprints = append(l.Footprints, f)
			}
			rack++
		}
	}
	return l
}
