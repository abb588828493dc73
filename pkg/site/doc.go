// Package site models the warehouse document that drives a layout run.
//
// A [Site] describes the warehouse outline, the named zones on its floor
// (charging, loading and storage) and the [Shelving] parameters used to fill
// storage zones with racks. Documents are stored as TOML:
//
//	name = "warehouse"
//	height = 3.0
//
//	[warehouse]
//	name = "warehouse"
//	kind = "warehouse"
//	width = 80.0
//	depth = 60.0
//
//	[shelving]
//	strategy = "rows"
//	level_height = 0.5
//	shelf_width = 1.0
//	min_shelf_length = 2.0
//	max_shelf_length = 5.0
//	min_aisle_width = 2.0
//	floor_count = 2
//
//	[[zones]]
//	name = "storage"
//	kind = "storage"
//	width = 25.0
//	depth = 20.0
//	x = 20.0
//	y = 25.0
//	vertical = true
//
// Persistence goes through the [Store] interface. [FileStore] keeps one TOML
// file, [MemoryStore] is used by the HTTP server and tests. [LoadOrInit]
// writes [Default] on first use.
package site
