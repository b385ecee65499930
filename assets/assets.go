package assets

import (
	"embed"
	"io/fs"
)

// DefaultArena is the path of the built-in arena inside Levels.
const DefaultArena = "levels/arena.tmx"

//go:embed all:levels
var levelFS embed.FS

// Levels exposes the embedded level files.
func Levels() fs.FS {
	return levelFS
}
