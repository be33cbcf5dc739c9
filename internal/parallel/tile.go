package parallel

// TileWidth and TileHeight mirror the fixed tile dimensions used across
// every rasterization backend (see backend/cputiler and
// backend/gputiler), so DirtyRegion's pixel-to-tile math stays in sync
// with the grids it tracks dirtiness for.
const (
	TileWidth  = 16
	TileHeight = 16
)
