package rack

import "iter"

// FillRow yields the shelves of one row on one floor.
//
// The walk starts at -Length/2 and emits segments of
// min(MaxShelfLength, remaining) while the remaining length is strictly
// greater than MinShelfLength. A trailing remainder of MinShelfLength or less
// is left as empty floor.
//
// The sequence is lazy, finite and single-pass: range over it once. Breaking
// out of the loop stops the walk.
func FillRow(row int, offset float64, floor int, a Area, c Constraints) iter.Seq[Footprint] {
	return func(yield func(Footprint) bool) {
		length := a.Length()
		remaining := length
		pos := -length / 2
		elevation := c.FloorHeight(floor)

		for remaining > c.MinShelfLength {
			l := min(c.MaxShelfLength, remaining)
			f := Footprint{
				Floor:     floor,
				Row:       row,
				Elevation: elevation,
				Length:    l,
				Width:     c.ShelfWidth,
				AlongX:    a.AlongX,
			}
			center := pos + l/2
			if a.AlongX {
				f.X, f.Z = center, offset
			} else {
				f.X, f.Z = offset, center
			}
			if !yield(f) {
				return
			}
			pos += l
			remaining -= l
		}
	}
}
