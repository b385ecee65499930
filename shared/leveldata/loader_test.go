package leveldata

import (
	"testing"
	"testing/fstest"

	"github.com/automoto/duel-mp/assets"
)

func TestLoadDefaultArena(t *testing.T) {
	data, err := LoadArena(assets.Levels(), assets.DefaultArena)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	want := []PlatformRect{
		{X: 200, Y: 600, W: 600, H: 20},
		{X: 400, Y: 300, W: 100, H: 20},
		{X: 600, Y: 450, W: 100, H: 20},
	}
	if len(data.Platforms) != len(want) {
		t.Fatalf("got %d platforms, want %d", len(data.Platforms), len(want))
	}
	for i, p := range want {
		if data.Platforms[i] != p {
			t.Errorf("platform %d = %+v, want %+v", i, data.Platforms[i], p)
		}
	}

	sp1, ok := data.Spawn(1)
	if !ok || sp1.X != 300 || sp1.Y != 580 {
		t.Errorf("slot 1 spawn = %+v (found=%v)", sp1, ok)
	}
	sp2, ok := data.Spawn(2)
	if !ok || sp2.X != 700 || sp2.Y != 580 {
		t.Errorf("slot 2 spawn = %+v (found=%v)", sp2, ok)
	}
}

func TestLoadArenaWithoutPlatformsFails(t *testing.T) {
	fsys := fstest.MapFS{
		"empty.tmx": &fstest.MapFile{Data: []byte(`<?xml version="1.0" encoding="UTF-8"?>
<map version="1.10" orientation="orthogonal" renderorder="right-down" width="4" height="4" tilewidth="16" tileheight="16" infinite="0">
 <objectgroup id="1" name="Decor"/>
</map>`)},
	}
	if _, err := LoadArena(fsys, "empty.tmx"); err == nil {
		t.Fatalf("expected an error for an arena without platforms")
	}
}
