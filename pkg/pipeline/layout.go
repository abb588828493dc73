package pipeline

import (
	"context"

	"github.com/matzehuels/shelfplan/pkg/plan"
	"github.com/matzehuels/shelfplan/pkg/rack"
	"github.com/matzehuels/shelfplan/pkg/site"
)

// =============================================================================
// Layout Generation
// =============================================================================

// GeneratePlan lays out zone z of s with the given strategy.
// It is the uncached entry point used by the Runner.
//
// The rows strategy fails with ErrCodeLayoutInfeasible when the zone cannot
// hold two rows; the grid strategy always succeeds and reports undersized
// racks as plan warnings.
func GeneratePlan(ctx context.Context, s *site.Site, z site.Zone, strategy site.Strategy, parallel bool) (*plan.Plan, error) {
	var (
		l   *rack.Layout
		err error
	)
	switch strategy {
	case site.StrategyGrid:
		l = rack.GenerateGrid(z.Area(), s.Shelving.Grid)
	default:
		l, err = rack.GenerateContext(ctx, z.Area(), s.Shelving.Constraints, engineOptions(s, parallel)...)
	}
	if err != nil {
		return nil, err
	}
	return plan.New(s, z, strategy, l), nil
}

func engineOptions(s *site.Site, parallel bool) []rack.Option {
	var opts []rack.Option
	if s.Shelving.Precision > 0 {
		opts = append(opts, rack.WithPrecision(s.Shelving.Precision))
	}
	if parallel {
		opts = append(opts, rack.WithParallel())
	}
	return opts
}
