// Package scene turns a site and a plan into renderable objects.
//
// Objects are plain data: a unit primitive placed by position, scale and
// Euler rotation (degrees). A renderer receives them through the [Consumer]
// interface and decides how to instantiate them; nothing here depends on a
// particular engine.
//
// World coordinates put the origin at the center of the warehouse floor with
// Y up. Zone positions and plan coordinates are converted accordingly.
package scene

import (
	"encoding/json"
	"fmt"

	"github.com/matzehuels/shelfplan/pkg/plan"
	"github.com/matzehuels/shelfplan/pkg/site"
)

// Kind identifies the primitive an object stands for.
type Kind string

const (
	KindFloor   Kind = "floor"
	KindCeiling Kind = "ceiling"
	KindWall    Kind = "wall"
	KindZone    Kind = "zone"
	KindShelf   Kind = "shelf"
	KindPost    Kind = "post"
	KindVehicle Kind = "vehicle"
)

const (
	// WallThickness is the slab depth of floor, ceiling and walls.
	WallThickness = 0.1
	// MarkerHeight is the height of a zone marker box.
	MarkerHeight = 0.1
	// VehicleLift raises the vehicle spawn point above the charging zone.
	VehicleLift = 0.2
)

// Vec3 is a point, size or rotation in world space.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Add returns v + o.
func (v Vec3) Add(o Vec3) Vec3 { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }

// Object is one renderable primitive.
type Object struct {
	Name     string `json:"name"`
	Kind     Kind   `json:"kind"`
	Position Vec3   `json:"position"`
	Scale    Vec3   `json:"scale"`
	Rotation Vec3   `json:"rotation"`
	Color    string `json:"color,omitempty"`
	Floor    int    `json:"floor,omitempty"`
}

// Consumer receives objects as a scene is built. Returning an error stops
// the build.
type Consumer interface {
	Consume(Object) error
}

// ConsumerFunc adapts a function to the Consumer interface.
type ConsumerFunc func(Object) error

func (f ConsumerFunc) Consume(o Object) error { return f(o) }

// Collector gathers objects into a slice.
type Collector struct {
	Objects []Object
}

func (c *Collector) Consume(o Object) error {
	c.Objects = append(c.Objects, o)
	return nil
}

// Room returns the floor, ceiling and four walls of a box centered on the
// origin. The floor lies at Y=0.
func Room(width, height, depth float64) []Object {
	slab := func(name string, kind Kind, pos, size, rot Vec3) Object {
		return Object{Name: name, Kind: kind, Position: pos, Scale: size, Rotation: rot}
	}
	return []Object{
		slab("floor", KindFloor, Vec3{0, 0, 0}, Vec3{width, depth, WallThickness}, Vec3{-90, 0, 0}),
		slab("ceiling", KindCeiling, Vec3{0, height, 0}, Vec3{width, depth, WallThickness}, Vec3{90, 0, 0}),
		slab("front-wall", KindWall, Vec3{0, height / 2, depth / 2}, Vec3{width, height, WallThickness}, Vec3{-180, 0, 0}),
		slab("back-wall", KindWall, Vec3{0, height / 2, -depth / 2}, Vec3{width, height, WallThickness}, Vec3{-180, -180, 0}),
		slab("left-wall", KindWall, Vec3{-width / 2, height / 2, 0}, Vec3{depth, height, WallThickness}, Vec3{0, 90, 0}),
		slab("right-wall", KindWall, Vec3{width / 2, height / 2, 0}, Vec3{depth, height, WallThickness}, Vec3{0, -90, 0}),
	}
}

// Marker returns the floor marker of a zone.
func Marker(z site.Zone, warehouse site.Zone) Object {
	c := z.Center(warehouse)
	return Object{
		Name:     z.Name,
		Kind:     KindZone,
		Position: Vec3{c.X, MarkerHeight / 2, c.Z},
		Scale:    Vec3{z.Width, MarkerHeight, z.Depth},
		Color:    z.Color,
	}
}

// Vehicle returns the spawn point above the first charging zone.
// It reports false when the site has no charging zone.
func Vehicle(s *site.Site) (Object, bool) {
	zs := s.ZonesOf(site.KindCharging)
	if len(zs) == 0 {
		return Object{}, false
	}
	c := zs[0].Center(s.Warehouse)
	return Object{
		Name:     "vehicle",
		Kind:     KindVehicle,
		Position: Vec3{c.X, VehicleLift, c.Z},
		Scale:    Vec3{1, 1, 1},
	}, true
}

// Racks returns the shelves and posts of p in world coordinates.
func Racks(p *plan.Plan, color string) []Object {
	out := make([]Object, 0, len(p.Footprints)+len(p.Supports))
	origin := Vec3{p.Origin.X, 0, p.Origin.Z}

	for i, f := range p.Footprints {
		out = append(out, Object{
			Name:     fmt.Sprintf("shelf-%d-%d-%d", f.Floor, f.Row, i),
			Kind:     KindShelf,
			Position: origin.Add(Vec3{f.X, f.Elevation, f.Z}),
			Scale:    Vec3{f.SizeX(), 1, f.SizeZ()},
			Color:    color,
			Floor:    f.Floor,
		})
	}
	for i, s := range p.Supports {
		out = append(out, Object{
			Name:     fmt.Sprintf("post-%d", i),
			Kind:     KindPost,
			Position: origin.Add(Vec3{s.X, s.CenterY(), s.Z}),
			Scale:    Vec3{1, s.Extent(), 1},
		})
	}
	return out
}

// Build streams the complete scene of s to c: the room, one marker per zone,
// the vehicle spawn and, when p is not nil, its racks.
func Build(s *site.Site, p *plan.Plan, c Consumer) error {
	objs := Room(s.Warehouse.Width, s.Height, s.Warehouse.Depth)
	for _, z := range s.Zones {
		objs = append(objs, Marker(z, s.Warehouse))
	}
	if v, ok := Vehicle(s); ok {
		objs = append(objs, v)
	}
	if p != nil {
		color := ""
		if z, ok := s.Zone(p.Zone); ok {
			color = z.Color
		}
		objs = append(objs, Racks(p, color)...)
	}

	for _, o := range objs {
		if err := c.Consume(o); err != nil {
			return fmt.Errorf("consume %s: %w", o.Name, err)
		}
	}
	return nil
}

// Collect builds the scene into a slice.
func Collect(s *site.Site, p *plan.Plan) ([]Object, error) {
	var c Collector
	if err := Build(s, p, &c); err != nil {
		return nil, err
	}
	return c.Objects, nil
}

// MarshalObjects encodes objects as an indented JSON document.
func MarshalObjects(objs []Object) ([]byte, error) {
	data, err := json.MarshalIndent(struct {
		Objects []Object `json:"objects"`
	}{objs}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode scene: %w", err)
	}
	return data, nil
}
