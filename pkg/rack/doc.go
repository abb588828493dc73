// Package rack computes procedural shelf layouts for rectangular floor areas.
//
// # Overview
//
// Given an [Area] and shelf [Constraints], the row generator places parallel
// rows of shelves across the area, fills each row with shelf segments of
// bounded length and derives vertical support posts from the corners that
// shelves on different floors share:
//
//	area := rack.Area{Width: 10, Depth: 10, AlongX: true}
//	c := rack.Constraints{
//	    LevelHeight:    0.5,
//	    ShelfWidth:     1,
//	    MinShelfLength: 2,
//	    MaxShelfLength: 5,
//	    MinAisleWidth:  2,
//	    FloorCount:     2,
//	}
//	l, err := rack.Generate(area, c)
//
// # Coordinates
//
// The floor plane is X/Z with Y up. All positions are relative to the area
// center. The orientation flag selects which physical axis carries the row
// length: with AlongX the shelves run along X and rows are stacked across Z.
//
// # Support Posts
//
// Every emitted shelf registers its four corners together with the height of
// its floor. Corners are matched on a quantized key (see [WithPrecision]), so
// neighbouring shelves that meet at the same point share one post. After all
// floors are filled, [BuildSupportColumns] turns the set of heights at each
// corner into vertical segments starting at the ground.
//
// # Fixed Grid
//
// [GenerateGrid] implements the older free-standing rack generator: a grid of
// racks sized to fill the area exactly, each carrying its own full-height
// posts. It reports undersized racks as warnings rather than failing.
//
// Both generators are pure functions: every call recomputes the layout from
// scratch and identical inputs produce identical outputs.
package rack
