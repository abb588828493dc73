package rack

import (
	"math"

	"github.com/matzehuels/shelfplan/pkg/errors"
)

// minRows is the smallest row count that leaves an aisle between shelves.
const minRows = 2

// ComputeRowLayout returns how many rows fit across the area and the gap
// between neighbouring rows.
//
// The row count is the largest R with R*ShelfWidth + (R-1)*MinAisleWidth <= span.
// The gap distributes the leftover span evenly so the rows fill it exactly;
// it is never smaller than MinAisleWidth and has no upper bound.
//
// Fewer than two rows is reported as ErrCodeLayoutInfeasible.
func ComputeRowLayout(a Area, c Constraints) (rows int, spacing float64, err error) {
	span := a.Span()
	rows = int(math.Floor((span + c.MinAisleWidth) / (c.ShelfWidth + c.MinAisleWidth)))
	if rows < minRows {
		return rows, 0, errors.New(errors.ErrCodeLayoutInfeasible,
			"area span %.2f fits %d row(s) of width %.2f with %.2f aisles, need at least %d",
			span, rows, c.ShelfWidth, c.MinAisleWidth, minRows)
	}
	spacing = (span - float64(rows)*c.ShelfWidth) / float64(rows-1)
	return rows, spacing, nil
}

// RowOffset returns the across-axis center of row i relative to the area center.
func RowOffset(i int, span, shelfWidth, spacing float64) float64 {
	return float64(i)*(shelfWidth+spacing) - span/2 + shelfWidth/2
}
