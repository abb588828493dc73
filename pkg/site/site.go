package site

import (
	"math"
	"strings"

	"github.com/matzehuels/shelfplan/pkg/errors"
	"github.com/matzehuels/shelfplan/pkg/rack"
)

// Kind classifies a zone.
type Kind string

const (
	KindWarehouse Kind = "warehouse"
	KindCharging  Kind = "charging"
	KindLoading   Kind = "loading"
	KindStorage   Kind = "storage"
)

// Strategy selects the layout generator for storage zones.
type Strategy string

const (
	StrategyRows Strategy = "rows"
	StrategyGrid Strategy = "grid"
)

// ParseStrategy returns the strategy named s. An empty name selects StrategyRows.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(strings.ToLower(strings.TrimSpace(s))) {
	case "", StrategyRows:
		return StrategyRows, nil
	case StrategyGrid:
		return StrategyGrid, nil
	}
	return "", errors.New(errors.ErrCodeInvalidStrategy, "unknown layout strategy %q (use rows or grid)", s)
}

// Zone is a named rectangle on the warehouse floor.
//
// X and Y locate the zone's minimum corner, measured from the minimum corner
// of the warehouse. Vertical only matters for storage zones: it turns the
// shelf rows to run along the depth (Z) axis.
type Zone struct {
	Name     string  `toml:"name" json:"name" bson:"name"`
	Kind     Kind    `toml:"kind" json:"kind" bson:"kind"`
	Color    string  `toml:"color" json:"color" bson:"color"`
	Width    float64 `toml:"width" json:"width" bson:"width"`
	Depth    float64 `toml:"depth" json:"depth" bson:"depth"`
	X        float64 `toml:"x" json:"x" bson:"x"`
	Y        float64 `toml:"y" json:"y" bson:"y"`
	Vertical bool    `toml:"vertical,omitempty" json:"vertical,omitempty" bson:"vertical,omitempty"`
}

// Area returns the zone as an input area for the layout generators.
func (z Zone) Area() rack.Area {
	return rack.Area{Width: z.Width, Depth: z.Depth, AlongX: !z.Vertical}
}

// Center returns the zone center in world coordinates, where the origin is
// the center of the warehouse floor.
func (z Zone) Center(warehouse Zone) rack.Point {
	return rack.Point{
		X: z.X + z.Width/2 - warehouse.Width/2,
		Z: z.Y + z.Depth/2 - warehouse.Depth/2,
	}
}

// Shelving holds the shelf parameters shared by every storage zone.
type Shelving struct {
	Strategy         Strategy `toml:"strategy" json:"strategy" bson:"strategy"`
	rack.Constraints `bson:",inline"`
	Precision        float64              `toml:"precision,omitempty" json:"precision,omitempty" bson:"precision,omitempty"`
	Grid             rack.GridConstraints `toml:"grid" json:"grid" bson:"grid"`
}

// Site is the warehouse document: the outline, its zones and the shelving
// parameters used to fill storage zones.
type Site struct {
	Name        string   `toml:"name" json:"name" bson:"name"`
	Height      float64  `toml:"height" json:"height" bson:"height"`
	DefaultZone string   `toml:"default_zone,omitempty" json:"default_zone,omitempty" bson:"default_zone,omitempty"`
	Warehouse   Zone     `toml:"warehouse" json:"warehouse" bson:"warehouse"`
	Shelving    Shelving `toml:"shelving" json:"shelving" bson:"shelving"`
	Zones       []Zone   `toml:"zones" json:"zones" bson:"zones"`
}

// Default returns the site written on first use: an 80 x 60 warehouse with a
// charging, a loading and a vertical storage zone.
func Default() *Site {
	return &Site{
		Name:   "warehouse",
		Height: 3,
		Warehouse: Zone{
			Name:  "warehouse",
			Kind:  KindWarehouse,
			Color: "#333333",
			Width: 80,
			Depth: 60,
		},
		Shelving: Shelving{
			Strategy: StrategyRows,
			Constraints: rack.Constraints{
				LevelHeight:    0.5,
				ShelfWidth:     1,
				MinShelfLength: 2,
				MaxShelfLength: 5,
				MinAisleWidth:  2,
				FloorCount:     2,
			},
			Grid: rack.GridConstraints{
				MinWidth:    1,
				MinLength:   2,
				Spacing:     2,
				Levels:      4,
				LevelHeight: 0.5,
			},
		},
		Zones: []Zone{
			{Name: "charging", Kind: KindCharging, Color: "#ffeb04", Width: 10, Depth: 10, X: 10, Y: 10},
			{Name: "loading", Kind: KindLoading, Color: "#ff0000", Width: 10, Depth: 10, X: 30, Y: 10},
			{Name: "storage", Kind: KindStorage, Color: "#0000ff", Width: 25, Depth: 20, X: 20, Y: 25, Vertical: true},
		},
	}
}

// Zone returns the zone with the given name.
func (s *Site) Zone(name string) (Zone, bool) {
	for _, z := range s.Zones {
		if z.Name == name {
			return z, true
		}
	}
	return Zone{}, false
}

// ZonesOf returns the zones of the given kind in document order.
func (s *Site) ZonesOf(kind Kind) []Zone {
	var out []Zone
	for _, z := range s.Zones {
		if z.Kind == kind {
			out = append(out, z)
		}
	}
	return out
}

// Storage picks the storage zone to lay out. An empty name selects
// DefaultZone, and failing that the first storage zone of the document.
func (s *Site) Storage(name string) (Zone, error) {
	if name == "" {
		name = s.DefaultZone
	}
	if name == "" {
		if zs := s.ZonesOf(KindStorage); len(zs) > 0 {
			return zs[0], nil
		}
		return Zone{}, errors.New(errors.ErrCodeZoneNotFound, "site %q has no storage zone", s.Name)
	}

	z, ok := s.Zone(name)
	if !ok {
		return Zone{}, errors.New(errors.ErrCodeZoneNotFound, "zone %q not found", name)
	}
	if z.Kind != KindStorage {
		return Zone{}, errors.New(errors.ErrCodeZoneNotFound, "zone %q is a %s zone, not storage", name, z.Kind)
	}
	return z, nil
}

// Validate checks the document for values the layout generators cannot
// handle. The generators themselves do not validate their inputs.
func (s *Site) Validate() error {
	if err := validateZone(s.Warehouse); err != nil {
		return err
	}
	if !positive(s.Height) {
		return errors.New(errors.ErrCodeInvalidSite, "site height must be positive, got %v", s.Height)
	}

	seen := make(map[string]bool, len(s.Zones))
	storage := 0
	for _, z := range s.Zones {
		if err := validateZone(z); err != nil {
			return err
		}
		if seen[z.Name] || z.Name == s.Warehouse.Name {
			return errors.New(errors.ErrCodeInvalidSite, "duplicate zone name %q", z.Name)
		}
		seen[z.Name] = true

		switch z.Kind {
		case KindStorage:
			storage++
		case KindCharging, KindLoading:
		default:
			return errors.New(errors.ErrCodeInvalidSite, "zone %q has unknown kind %q", z.Name, z.Kind)
		}

		if z.X < 0 || z.Y < 0 || z.X+z.Width > s.Warehouse.Width || z.Y+z.Depth > s.Warehouse.Depth {
			return errors.New(errors.ErrCodeInvalidSite, "zone %q extends outside the warehouse", z.Name)
		}
	}
	if storage == 0 {
		return errors.New(errors.ErrCodeInvalidSite, "site needs at least one storage zone")
	}
	if s.DefaultZone != "" {
		if _, err := s.Storage(s.DefaultZone); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidSite, err, "default zone")
		}
	}
	return s.Shelving.Validate()
}

// Validate checks the shelving parameters of the selected strategy.
func (sh Shelving) Validate() error {
	if _, err := ParseStrategy(string(sh.Strategy)); err != nil {
		return err
	}
	if sh.Precision < 0 || math.IsNaN(sh.Precision) {
		return errors.New(errors.ErrCodeInvalidSite, "precision must not be negative")
	}

	if sh.Strategy == StrategyGrid {
		g := sh.Grid
		for _, d := range []struct {
			name string
			v    float64
		}{
			{"grid.min_width", g.MinWidth},
			{"grid.min_length", g.MinLength},
			{"grid.level_height", g.LevelHeight},
		} {
			if err := errors.ValidateDimension(d.name, d.v); err != nil {
				return errors.Wrap(errors.ErrCodeInvalidSite, err, "shelving")
			}
		}
		if err := errors.ValidateNonNegative("grid.spacing", g.Spacing); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidSite, err, "shelving")
		}
		if g.Levels < 1 {
			return errors.New(errors.ErrCodeInvalidSite, "grid.levels must be at least 1, got %d", g.Levels)
		}
		return nil
	}

	c := sh.Constraints
	for _, d := range []struct {
		name string
		v    float64
	}{
		{"level_height", c.LevelHeight},
		{"shelf_width", c.ShelfWidth},
		{"min_shelf_length", c.MinShelfLength},
		{"max_shelf_length", c.MaxShelfLength},
		{"min_aisle_width", c.MinAisleWidth},
	} {
		if err := errors.ValidateDimension(d.name, d.v); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidSite, err, "shelving")
		}
	}
	if c.MinShelfLength > c.MaxShelfLength {
		return errors.New(errors.ErrCodeInvalidSite,
			"min_shelf_length %v exceeds max_shelf_length %v", c.MinShelfLength, c.MaxShelfLength)
	}
	if c.FloorCount < 1 {
		return errors.New(errors.ErrCodeInvalidSite, "floor_count must be at least 1, got %d", c.FloorCount)
	}
	return nil
}

func validateZone(z Zone) error {
	if err := errors.ValidateZoneName(z.Name); err != nil {
		return err
	}
	if !positive(z.Width) || !positive(z.Depth) {
		return errors.New(errors.ErrCodeInvalidSite, "zone %q must have positive width and depth", z.Name)
	}
	if math.IsNaN(z.X) || math.IsNaN(z.Y) || math.IsInf(z.X, 0) || math.IsInf(z.Y, 0) {
		return errors.New(errors.ErrCodeInvalidSite, "zone %q has a non-finite position", z.Name)
	}
	if z.Color != "" {
		if err := errors.ValidateColor(z.Color); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidSite, err, "zone %q", z.Name)
		}
	}
	return nil
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0)
}
