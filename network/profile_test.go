package network

import (
	"testing"

	"github.com/automoto/duel-mp/shared/netconfig"
)

type memItems map[string][]byte

func (m memItems) ItemExists(key string) bool {
	_, ok := m[key]
	return ok
}

func (m memItems) LoadItem(key string) ([]byte, error) {
	return m[key], nil
}

func (m memItems) SaveItem(key string, data []byte) error {
	m[key] = data
	return nil
}

func TestProfileStoreRoundTrip(t *testing.T) {
	store := &ProfileStore{items: memItems{}}

	p, err := store.Load()
	if err != nil || p != (Profile{}) {
		t.Fatalf("empty store = %+v, %v", p, err)
	}

	if err := store.Save(Profile{Character: netconfig.CharacterCinderace, Server: "10.0.0.5:5555"}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := store.RecordResult(true); err != nil {
		t.Fatalf("record win: %v", err)
	}
	p, err = store.RecordResult(false)
	if err != nil {
		t.Fatalf("record loss: %v", err)
	}
	if p.Wins != 1 || p.Losses != 1 || p.Character != netconfig.CharacterCinderace {
		t.Fatalf("profile = %+v", p)
	}
}

func TestProfileStoreCorruptData(t *testing.T) {
	store := &ProfileStore{items: memItems{profileKey: []byte("{not json")}}
	if _, err := store.Load(); err == nil {
		t.Fatalf("expected a parse error")
	}
}
