// Package leveldata provides TMX arena parsing shared between client and
// server. It has no dependencies on the store or the transport; pure data only.
package leveldata

// ArenaData holds everything the simulation needs from an arena file.
type ArenaData struct {
	Platforms   []PlatformRect
	SpawnPoints []SpawnPoint
	MapWidth    int
	MapHeight   int
}

// PlatformRect is a platform rectangle; Y is the walkable surface.
type PlatformRect struct {
	X, Y, W, H float64
}

// SpawnPoint is where a slot appears at match (re)start.
type SpawnPoint struct {
	X, Y float64
	Slot int
}
