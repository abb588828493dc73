package rack

import (
	"github.com/matzehuels/shelfplan/pkg/errors"
)

// Area is the rectangular floor region that receives shelves.
// Width is the X extent and Depth the Z extent.
type Area struct {
	Width  float64 `json:"width" bson:"width"`
	Depth  float64 `json:"depth" bson:"depth"`
	AlongX bool    `json:"along_x" bson:"along_x"`
}

// Length returns the extent along the row direction.
func (a Area) Length() float64 {
	if a.AlongX {
		return a.Width
	}
	return a.Depth
}

// Span returns the extent across the rows.
func (a Area) Span() float64 {
	if a.AlongX {
		return a.Depth
	}
	return a.Width
}

// Constraints holds the sizing and clearance parameters of the row generator.
type Constraints struct {
	LevelHeight    float64 `json:"level_height" bson:"level_height" toml:"level_height"`
	ShelfWidth     float64 `json:"shelf_width" bson:"shelf_width" toml:"shelf_width"`
	MinShelfLength float64 `json:"min_shelf_length" bson:"min_shelf_length" toml:"min_shelf_length"`
	MaxShelfLength float64 `json:"max_shelf_length" bson:"max_shelf_length" toml:"max_shelf_length"`
	MinAisleWidth  float64 `json:"min_aisle_width" bson:"min_aisle_width" toml:"min_aisle_width"`
	FloorCount     int     `json:"floor_count" bson:"floor_count" toml:"floor_count"`
}

// FloorHeight returns the elevation of a 1-based floor.
func (c Constraints) FloorHeight(floor int) float64 {
	if floor == 0 {
		return 0
	}
	return float64(floor) * c.LevelHeight
}

// Point is a position on the floor plane.
type Point struct {
	X float64 `json:"x" bson:"x"`
	Z float64 `json:"z" bson:"z"`
}

// Footprint is one shelf board placed on a floor.
// X and Z locate its center relative to the area center.
type Footprint struct {
	Floor     int     `json:"floor" bson:"floor"`
	Row       int     `json:"row" bson:"row"`
	Elevation float64 `json:"elevation" bson:"elevation"`
	X         float64 `json:"x" bson:"x"`
	Z         float64 `json:"z" bson:"z"`
	Length    float64 `json:"length" bson:"length"`
	Width     float64 `json:"width" bson:"width"`
	AlongX    bool    `json:"along_x" bson:"along_x"`
}

// SizeX returns the footprint extent along X.
func (f Footprint) SizeX() float64 {
	if f.AlongX {
		return f.Length
	}
	return f.Width
}

// SizeZ returns the footprint extent along Z.
func (f Footprint) SizeZ() float64 {
	if f.AlongX {
		return f.Width
	}
	return f.Length
}

// Corners returns the four corner points in the order
// (-x,-z), (+x,-z), (-x,+z), (+x,+z).
func (f Footprint) Corners() [4]Point {
	hx, hz := f.SizeX()/2, f.SizeZ()/2
	return [4]Point{
		{X: f.X - hx, Z: f.Z - hz},
		{X: f.X + hx, Z: f.Z - hz},
		{X: f.X - hx, Z: f.Z + hz},
		{X: f.X + hx, Z: f.Z + hz},
	}
}

// SupportColumn is a vertical post segment covering [Base, Top).
type SupportColumn struct {
	X    float64 `json:"x" bson:"x"`
	Z    float64 `json:"z" bson:"z"`
	Base float64 `json:"base" bson:"base"`
	Top  float64 `json:"top" bson:"top"`
}

// Extent returns the height of the segment.
func (s SupportColumn) Extent() float64 { return s.Top - s.Base }

// CenterY returns the vertical midpoint of the segment.
func (s SupportColumn) CenterY() float64 { return s.Base + s.Extent()/2 }

// Layout is the complete output of one generator run.
type Layout struct {
	Rows       int              `json:"rows" bson:"rows"`
	RowSpacing float64          `json:"row_spacing" bson:"row_spacing"`
	Footprints []Footprint      `json:"footprints" bson:"footprints"`
	Supports   []SupportColumn  `json:"supports" bson:"supports"`
	Warnings   []errors.Warning `json:"warnings,omitempty" bson:"warnings,omitempty"`
}

// FloorFootprints returns the footprints placed on the given floor.
func (l *Layout) FloorFootprints(floor int) []Footprint {
	var out []Footprint
	for _, f := range l.Footprints {
		if f.Floor == floor {
			out = append(out, f)
		}
	}
	return out
}

// MaxFloor returns the highest floor index that carries a footprint.
func (l *Layout) MaxFloor() int {
	top := 0
	for _, f := range l.Footprints {
		top = max(top, f.Floor)
	}
	return top
}
