// Package plan defines the persisted result of one layout run.
//
// A [Plan] carries both the inputs (zone, area, constraints) and the outputs
// (footprints, supports, warnings) of a generator call, so it can be stored,
// rendered and compared without the site document that produced it.
package plan

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/shelfplan/pkg/errors"
	"github.com/matzehuels/shelfplan/pkg/rack"
	"github.com/matzehuels/shelfplan/pkg/site"
)

// Plan is a layout computed for one storage zone.
//
// Footprint and support coordinates are relative to the zone center; Origin
// is the zone center in warehouse coordinates.
type Plan struct {
	ID          string                `json:"id" bson:"_id"`
	CreatedAt   time.Time             `json:"created_at" bson:"created_at"`
	Site        string                `json:"site" bson:"site"`
	SiteHash    string                `json:"site_hash,omitempty" bson:"site_hash,omitempty"`
	Strategy    site.Strategy         `json:"strategy" bson:"strategy"`
	Zone        string                `json:"zone" bson:"zone"`
	Origin      rack.Point            `json:"origin" bson:"origin"`
	Area        rack.Area             `json:"area" bson:"area"`
	Constraints rack.Constraints      `json:"constraints" bson:"constraints"`
	Grid        *rack.GridConstraints `json:"grid,omitempty" bson:"grid,omitempty"`
	Rows        int                   `json:"rows" bson:"rows"`
	RowSpacing  float64               `json:"row_spacing" bson:"row_spacing"`
	Footprints  []rack.Footprint      `json:"footprints" bson:"footprints"`
	Supports    []rack.SupportColumn  `json:"supports" bson:"supports"`
	Warnings    []errors.Warning      `json:"warnings,omitempty" bson:"warnings,omitempty"`
}

// New wraps a generator result for zone z of site s.
func New(s *site.Site, z site.Zone, strategy site.Strategy, l *rack.Layout) *Plan {
	p := &Plan{
		Site:        s.Name,
		Strategy:    strategy,
		Zone:        z.Name,
		Origin:      z.Center(s.Warehouse),
		Area:        z.Area(),
		Constraints: s.Shelving.Constraints,
		Rows:        l.Rows,
		RowSpacing:  l.RowSpacing,
		Footprints:  l.Footprints,
		Supports:    l.Supports,
		Warnings:    l.Warnings,
	}
	if strategy == site.StrategyGrid {
		g := s.Shelving.Grid
		p.Grid = &g
	}
	p.Reissue()
	return p
}

// Reissue gives p a fresh ID and creation time, keeping its contents.
func (p *Plan) Reissue() {
	p.ID = uuid.NewString()
	p.CreatedAt = time.Now().UTC()
}

// Layout returns the generator output held by the plan.
func (p *Plan) Layout() *rack.Layout {
	return &rack.Layout{
		Rows:       p.Rows,
		RowSpacing: p.RowSpacing,
		Footprints: p.Footprints,
		Supports:   p.Supports,
		Warnings:   p.Warnings,
	}
}

// Floors returns the number of shelf floors in the plan.
func (p *Plan) Floors() int { return p.Layout().MaxFloor() }

// ContentHash identifies the plan contents, ignoring ID and CreatedAt.
// Two runs over the same inputs have the same hash. A plan that cannot be
// encoded, such as one holding NaN, hashes to "".
func (p *Plan) ContentHash() string {
	c := *p
	c.ID = ""
	c.CreatedAt = time.Time{}
	data, err := json.Marshal(c)
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Summary aggregates the quantities of a plan.
type Summary struct {
	Shelves      int     `json:"shelves"`
	Supports     int     `json:"supports"`
	Floors       int     `json:"floors"`
	ShelfLength  float64 `json:"shelf_length"`
	ShelfArea    float64 `json:"shelf_area"`
	SupportTotal float64 `json:"support_total"`
}

// Summarize computes the totals of p.
func (p *Plan) Summarize() Summary {
	s := Summary{
		Shelves:  len(p.Footprints),
		Supports: len(p.Supports),
		Floors:   p.Floors(),
	}
	for _, f := range p.Footprints {
		s.ShelfLength += f.Length
		s.ShelfArea += f.Length * f.Width
	}
	for _, c := range p.Supports {
		s.SupportTotal += c.Extent()
	}
	return s
}
