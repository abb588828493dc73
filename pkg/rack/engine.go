package rack

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Option configures a generator run.
type Option func(*options)

type options struct {
	precision float64
	parallel  bool
}

// WithPrecision sets the quantum used to match support corners.
// Values <= 0 keep DefaultPrecision.
func WithPrecision(q float64) Option {
	return func(o *options) {
		if q > 0 {
			o.precision = q
		}
	}
}

// WithParallel fills floors concurrently. The result is identical to a
// sequential run.
func WithParallel() Option {
	return func(o *options) { o.parallel = true }
}

func buildOptions(opts []Option) options {
	o := options{precision: DefaultPrecision}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Generate computes the full row layout of an area: row count and spacing,
// the shelves of every row on floors 1..FloorCount, and the support posts
// shared between them.
//
// Footprints are ordered by floor, then row, then position along the row.
// Inputs are not validated; callers are expected to pass positive, finite
// dimensions with MinShelfLength <= MaxShelfLength.
func Generate(a Area, c Constraints, opts ...Option) (*Layout, error) {
	return GenerateContext(context.Background(), a, c, opts...)
}

// GenerateContext is Generate with cancellation. The context is checked
// between floors.
func GenerateContext(ctx context.Context, a Area, c Constraints, opts ...Option) (*Layout, error) {
	o := buildOptions(opts)

	rows, spacing, err := ComputeRowLayout(a, c)
	if err != nil {
		return nil, err
	}

	floors := make([]floorResult, max(c.FloorCount, 0))
	if o.parallel && c.FloorCount > 1 {
		g, gctx := errgroup.WithContext(ctx)
		for i := range floors {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				floors[i] = fillFloor(i+1, rows, spacing, a, c, o.precision)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	} else {
		for i := range floors {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			floors[i] = fillFloor(i+1, rows, spacing, a, c, o.precision)
		}
	}

	supports := NewSupportMap(o.precision)
	l := &Layout{Rows: rows, RowSpacing: spacing}
	for _, fr := range floors {
		l.Footprints = append(l.Footprints, fr.footprints...)
		supports.Merge(fr.supports)
	}
	l.Supports = BuildSupportColumns(supports)
	return l, nil
}

type floorResult struct {
	footprints []Footprint
	supports   *SupportMap
}

func fillFloor(floor, rows int, spacing float64, a Area, c Constraints, precision float64) floorResult {
	fr := floorResult{supports: NewSupportMap(precision)}
	span := a.Span()
	for r := range rows {
		offset := RowOffset(r, span, c.ShelfWidth, spacing)
		for f := range FillRow(r, offset, floor, a, c) {
			fr.footprints = append(fr.footprints, f)
			fr.supports.RegisterFootprint(f)
		}
	}
	return fr
}
