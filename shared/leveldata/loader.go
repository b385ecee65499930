package leveldata

import (
	"fmt"
	"io/fs"
	"sort"

	"github.com/lafriks/go-tiled"
)

// Object group names read from the TMX file.
const (
	PlatformLayer = "Platforms"
	SpawnLayer    = "PlayerSpawn"
)

// LoadArena parses a TMX file and returns its platforms and spawn points.
// It takes an fs.FS so callers can pass the embedded assets or os.DirFS.
func LoadArena(fsys fs.FS, tmxPath string) (*ArenaData, error) {
	levelMap, err := tiled.LoadFile(tmxPath, tiled.WithFileSystem(fsys))
	if err != nil {
		return nil, fmt.Errorf("load TMX %s: %w", tmxPath, err)
	}

	data := &ArenaData{
		MapWidth:  levelMap.Width * levelMap.TileWidth,
		MapHeight: levelMap.Height * levelMap.TileHeight,
	}

	for _, og := range levelMap.ObjectGroups {
		switch og.Name {
		case PlatformLayer:
			for _, o := range og.Objects {
				if o.Width <= 0 {
					continue
				}
				data.Platforms = append(data.Platforms, PlatformRect{
					X: o.X,
					Y: o.Y,
					W: o.Width,
					H: o.Height,
				})
			}
		case SpawnLayer:
			for _, o := range og.Objects {
				data.SpawnPoints = append(data.SpawnPoints, SpawnPoint{
					X:    o.X,
					Y:    o.Y,
					Slot: o.Properties.GetInt("slot"),
				})
			}
		}
	}

	if len(data.Platforms) == 0 {
		return nil, fmt.Errorf("TMX %s: no objects in %q layer", tmxPath, PlatformLayer)
	}

	sort.Slice(data.SpawnPoints, func(i, j int) bool {
		return data.SpawnPoints[i].Slot < data.SpawnPoints[j].Slot
	})

	return data, nil
}

// Spawn returns the spawn point for slot, if the arena defines one.
func (a *ArenaData) Spawn(slot int) (SpawnPoint, bool) {
	for _, sp := range a.SpawnPoints {
		if sp.Slot == slot {
			return sp, true
		}
	}
	return SpawnPoint{}, false
}
