// Package pkg provides the libraries behind Shelfplan, a procedural layout
// engine for warehouse racks and shelving.
//
// # Overview
//
// Shelfplan fills the storage zones of a warehouse site with rows of shelves,
// stacks them over several floors, and computes the support columns that
// carry them. The pkg directory is organized into four areas:
//
//  1. [rack] - The layout engine (rows, floors, fill, supports, grid)
//  2. [site] and [plan] - Documents (site configuration in, layout plan out)
//  3. [render] and [scene] - Output (floor plans, site maps, sheets, 3D scenes)
//  4. [pipeline], [cache], [storage] - Orchestration and persistence
//
// # Architecture
//
// The typical data flow:
//
//	shelfplan.toml
//	      ↓
//	 [site] package (zones, shelving constraints)
//	      ↓
//	 [rack] package (row layout, floor fill, support merge)
//	      ↓
//	 [plan] package (footprints + supports + summary)
//	      ↓
//	 [render] / [scene] (SVG, PNG, PDF, DOT, XLSX, scene JSON)
//
// # Quick Start
//
// Lay out the storage zone of the default site and draw its top floor:
//
//	s := site.Default()
//	z, _ := s.Storage("")
//	l, err := rack.Generate(z.Area(), s.Shelving.Constraints)
//	if err != nil {
//	    return err // errors.ErrCodeLayoutInfeasible for zones too narrow for two rows
//	}
//	p := plan.New(s, z, site.StrategyRows, l)
//	svg := floorplan.RenderSVG(s, p)
//
// The [pipeline] package wraps these steps with caching, logging and hooks;
// the CLI and the HTTP server both go through it.
//
// # Testing
//
//	go test ./...                                                    # unit tests
//	SHELFPLAN_TEST_REDIS_ADDR=localhost:6379 go test ./pkg/cache        # Redis cache
//	SHELFPLAN_TEST_MONGO_URI=mongodb://localhost go test ./pkg/storage  # MongoDB store
//
// [rack]: https://pkg.go.dev/github.com/matzehuels/shelfplan/pkg/rack
// [site]: https://pkg.go.dev/github.com/matzehuels/shelfplan/pkg/site
// [plan]: https://pkg.go.dev/github.com/matzehuels/shelfplan/pkg/plan
// [render]: https://pkg.go.dev/github.com/matzehuels/shelfplan/pkg/render
// [scene]: https://pkg.go.dev/github.com/matzehuels/shelfplan/pkg/scene
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/shelfplan/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/shelfplan/pkg/cache
// [storage]: https://pkg.go.dev/github.com/matzehuels/shelfplan/pkg/storage
package pkg
