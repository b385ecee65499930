package core

import (
	"fmt"
	"io/fs"
	"log"
	"os"
	"path"
	"path/filepath"

	"github.com/automoto/duel-mp/assets"
	"github.com/automoto/duel-mp/config"
	"github.com/automoto/duel-mp/shared/arena"
	"github.com/automoto/duel-mp/shared/leveldata"
	"github.com/automoto/duel-mp/shared/messages"
	"github.com/automoto/duel-mp/shared/netconfig"
)

// ServerLevel is the platform registry: a fixed, ordered platform list,
// per-slot spawn points and a collision index for fall checks.
type ServerLevel struct {
	index  *arena.Index
	spawns map[netconfig.Slot][2]float64
}

// DefaultPlatforms is the built-in arena used when no level file is given
// and the embedded one cannot be read.
var DefaultPlatforms = []messages.Platform{
	{X: 200, Y: 600, Width: 600, Height: 20},
	{X: 400, Y: 300, Width: 100, Height: 20},
	{X: 600, Y: 450, Width: 100, Height: 20},
}

// NewServerLevel builds the registry from parsed arena data. Slots missing a
// spawn point fall back to config.SpawnXBySlot / config.SpawnY.
func NewServerLevel(data *leveldata.ArenaData) *ServerLevel {
	platforms := make([]messages.Platform, 0, len(data.Platforms))
	for _, r := range data.Platforms {
		platforms = append(platforms, messages.Platform{X: r.X, Y: r.Y, Width: r.W, Height: r.H})
	}

	lvl := &ServerLevel{
		index:  arena.NewIndex(platforms),
		spawns: make(map[netconfig.Slot][2]float64, netconfig.MaxSlots),
	}
	for _, slot := range netconfig.Slots {
		if sp, ok := data.Spawn(int(slot)); ok {
			lvl.spawns[slot] = [2]float64{sp.X, sp.Y}
			continue
		}
		lvl.spawns[slot] = [2]float64{config.SpawnXBySlot[int(slot)], config.SpawnY}
	}
	return lvl
}

// DefaultServerLevel returns the built-in three-platform arena.
func DefaultServerLevel() *ServerLevel {
	data := &leveldata.ArenaData{}
	for _, p := range DefaultPlatforms {
		data.Platforms = append(data.Platforms, leveldata.PlatformRect{X: p.X, Y: p.Y, W: p.Width, H: p.Height})
	}
	return NewServerLevel(data)
}

// LoadServerLevel reads a TMX arena. An empty path loads the embedded arena.
// A nil logger uses log.Default.
func LoadServerLevel(levelPath string, logger *log.Logger) (*ServerLevel, error) {
	if logger == nil {
		logger = log.Default()
	}
	var (
		fsys fs.FS
		name string
	)
	if levelPath == "" {
		fsys, name = assets.Levels(), assets.DefaultArena
	} else {
		fsys, name = os.DirFS(filepath.Dir(levelPath)), path.Base(filepath.ToSlash(levelPath))
	}

	data, err := leveldata.LoadArena(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("load level %q: %w", name, err)
	}
	logger.Printf("Loaded level %s: %d platforms, %d spawn points, %dx%d map",
		name, len(data.Platforms), len(data.SpawnPoints), data.MapWidth, data.MapHeight)
	return NewServerLevel(data), nil
}

// Platforms returns the ordered platform list sent in every snapshot.
func (l *ServerLevel) Platforms() []messages.Platform {
	return l.index.Platforms()
}

// Spawn returns the spawn position for slot.
func (l *ServerLevel) Spawn(slot netconfig.Slot) (x, y float64) {
	sp := l.spawns[slot]
	return sp[0], sp[1]
}

// FellOut reports whether y is past the death margin below the lowest platform.
func (l *ServerLevel) FellOut(y, margin float64) bool {
	return l.index.FellOut(y, margin)
}
