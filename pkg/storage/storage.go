// Package storage persists plans.
//
// Two backends implement [Store]:
//   - [MemoryStore]: in-process map, for the CLI server default and tests
//   - [MongoStore]: MongoDB collection, for shared deployments
//
// Plans are immutable once saved; saving a plan with an existing ID
// replaces it. Site documents are stored next to the plans, keyed by their
// content hash, so site-level artifacts can be rendered for stored plans.
package storage

import (
	"cmp"
	"context"
	"slices"

	"github.com/matzehuels/shelfplan/pkg/errors"
	"github.com/matzehuels/shelfplan/pkg/plan"
	"github.com/matzehuels/shelfplan/pkg/site"
)

// DefaultListLimit caps List results when no limit is given.
const DefaultListLimit = 50

// Store saves and retrieves plans by ID.
type Store interface {
	Save(ctx context.Context, p *plan.Plan) error
	// Get returns an ErrCodePlanNotFound error for unknown IDs.
	Get(ctx context.Context, id string) (*plan.Plan, error)
	// List returns plans newest first.
	List(ctx context.Context, opts ListOptions) ([]*plan.Plan, error)
	Delete(ctx context.Context, id string) error

	// SaveSite stores a site snapshot under its content hash.
	SaveSite(ctx context.Context, hash string, s *site.Site) error
	// GetSite returns an ErrCodeNotFound error for unknown hashes.
	GetSite(ctx context.Context, hash string) (*site.Site, error)

	Close() error
}

// ListOptions filters List results. Empty fields match everything.
type ListOptions struct {
	Site  string
	Zone  string
	Limit int
}

func (o ListOptions) limit() int {
	if o.Limit <= 0 {
		return DefaultListLimit
	}
	return o.Limit
}

func (o ListOptions) match(p *plan.Plan) bool {
	return (o.Site == "" || p.Site == o.Site) && (o.Zone == "" || p.Zone == o.Zone)
}

func notFound(id string) error {
	return errors.New(errors.ErrCodePlanNotFound, "plan %s not found", id)
}

func siteNotFound(hash string) error {
	return errors.New(errors.ErrCodeNotFound, "site snapshot %s not found", hash)
}

// newestFirst orders plans by creation time, breaking ties by ID.
func newestFirst(a, b *plan.Plan) int {
	return cmp.Or(b.CreatedAt.Compare(a.CreatedAt), cmp.Compare(a.ID, b.ID))
}

func sortNewestFirst(ps []*plan.Plan) { slices.SortFunc(ps, newestFirst) }
