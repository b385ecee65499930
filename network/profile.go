package network

import (
	"encoding/json"
	"fmt"

	"github.com/automoto/duel-mp/shared/netconfig"
	"github.com/quasilyte/gdata"
)

const profileKey = "profile"

// Profile is what the client remembers between runs.
type Profile struct {
	Character netconfig.CharacterID `json:"character"`
	Server    string                `json:"server"`
	Wins      int                   `json:"wins"`
	Losses    int                   `json:"losses"`
}

// itemStore is the subset of *gdata.Manager the profile needs.
type itemStore interface {
	ItemExists(key string) bool
	LoadItem(key string) ([]byte, error)
	SaveItem(key string, data []byte) error
}

// ProfileStore persists a Profile under the user's data directory.
type ProfileStore struct {
	items itemStore
}

// OpenProfileStore opens the per-user data directory for appName.
func OpenProfileStore(appName string) (*ProfileStore, error) {
	m, err := gdata.Open(gdata.Config{
		AppName: appName,
	})
	if err != nil {
		return nil, fmt.Errorf("open profile store: %w", err)
	}
	return &ProfileStore{items: m}, nil
}

// Load returns the saved profile, or an empty one if nothing was saved yet.
func (s *ProfileStore) Load() (Profile, error) {
	var p Profile
	if !s.items.ItemExists(profileKey) {
		return p, nil
	}
	data, err := s.items.LoadItem(profileKey)
	if err != nil {
		return p, fmt.Errorf("load profile: %w", err)
	}
	if len(data) == 0 {
		return p, nil
	}
	if err := json.Unmarshal(data, &p); err != nil {
		return Profile{}, fmt.Errorf("parse profile: %w", err)
	}
	return p, nil
}

func (s *ProfileStore) Save(p Profile) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}
	if err := s.items.SaveItem(profileKey, data); err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	return nil
}

// RecordResult bumps the win or loss counter and saves.
func (s *ProfileStore) RecordResult(won bool) (Profile, error) {
	p, err := s.Load()
	if err != nil {
		return p, err
	}
	if won {
		p.Wins++
	} else {
		p.Losses++
	}
	return p, s.Save(p)
}
