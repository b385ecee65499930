package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// ServerConfig is everything the dedicated server binary needs.
type ServerConfig struct {
	Name      string
	Host      string
	Port      uint
	WSPort    uint   // 0 disables the WebSocket listener
	LevelPath string // Empty uses the embedded arena

	MasterURL     string // Empty disables directory registration
	PublicAddress string
	Region        string
	Version       string

	Physics PhysicsConfig
	Combat  CombatConfig
	Match   MatchConfig
}

// ClientConfig is everything the headless client needs.
type ClientConfig struct {
	Address   string // host:port or ws://host:port/ws
	MasterURL string // When set and Address is empty, pick a server from the directory
	Character string
	Ready     bool
	Bot       BotDifficulty

	Physics PhysicsConfig
	Combat  CombatConfig
	Netcode NetcodeConfig
}

// DefaultServer returns a server config built from the package defaults.
func DefaultServer() ServerConfig {
	return ServerConfig{
		Name:    "Duel Server",
		Host:    "0.0.0.0",
		Port:    5555,
		Physics: Physics,
		Combat:  Combat,
		Match:   Match,
	}
}

// DefaultClient returns a client config built from the package defaults.
func DefaultClient() ClientConfig {
	return ClientConfig{
		Address: "localhost:5555",
		Ready:   true,
		Bot:     BotDifficultyNormal,
		Physics: Physics,
		Combat:  Combat,
		Netcode: Netcode,
	}
}

// LoadDotEnv loads an optional .env file. A missing file is not an error;
// variables already present in the environment win.
func LoadDotEnv(filenames ...string) error {
	if err := godotenv.Load(filenames...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}
	return nil
}

// LoadServer applies .env and DUEL_* environment overrides to the defaults.
func LoadServer() (ServerConfig, error) {
	cfg := DefaultServer()
	if err := LoadDotEnv(); err != nil {
		return cfg, err
	}

	var err error
	cfg.Name = envString("DUEL_SERVER_NAME", cfg.Name)
	cfg.Host = envString("DUEL_HOST", cfg.Host)
	if cfg.Port, err = envUint("DUEL_PORT", cfg.Port); err != nil {
		return cfg, err
	}
	if cfg.WSPort, err = envUint("DUEL_WS_PORT", cfg.WSPort); err != nil {
		return cfg, err
	}
	cfg.LevelPath = envString("DUEL_LEVEL", cfg.LevelPath)
	cfg.MasterURL = envString("DUEL_MASTER_URL", cfg.MasterURL)
	cfg.PublicAddress = envString("DUEL_PUBLIC_ADDRESS", cfg.PublicAddress)
	cfg.Region = envString("DUEL_REGION", cfg.Region)
	cfg.Version = envString("DUEL_VERSION", cfg.Version)
	if cfg.Match.TickInterval, err = envDuration("DUEL_TICK", cfg.Match.TickInterval); err != nil {
		return cfg, err
	}
	if cfg.Match.GameOverGrace, err = envDuration("DUEL_GAME_OVER_GRACE", cfg.Match.GameOverGrace); err != nil {
		return cfg, err
	}
	if cfg.Combat.ValidateIntents, err = envBool("DUEL_VALIDATE_INTENTS", cfg.Combat.ValidateIntents); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LoadClient applies .env and DUEL_* environment overrides to the defaults.
func LoadClient() (ClientConfig, error) {
	cfg := DefaultClient()
	if err := LoadDotEnv(); err != nil {
		return cfg, err
	}

	var err error
	cfg.Address = envString("DUEL_SERVER", cfg.Address)
	cfg.MasterURL = envString("DUEL_MASTER_URL", cfg.MasterURL)
	cfg.Character = envString("DUEL_CHARACTER", cfg.Character)
	if cfg.Ready, err = envBool("DUEL_AUTO_READY", cfg.Ready); err != nil {
		return cfg, err
	}
	if v := envString("DUEL_BOT", ""); v != "" {
		if cfg.Bot, err = ParseBotDifficulty(v); err != nil {
			return cfg, err
		}
	}
	if cfg.Netcode.HeartbeatTimeout, err = envDuration("DUEL_HEARTBEAT_TIMEOUT", cfg.Netcode.HeartbeatTimeout); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func envString(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func envUint(key string, fallback uint) (uint, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback, nil
	}
	n, err := strconv.ParseUint(v, 10, 32)
	if err != nil {
		return fallback, fmt.Errorf("%s: %w", key, err)
	}
	return uint(n), nil
}

func envDuration(key string, fallback time.Duration) (time.Duration, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func envBool(key string, fallback bool) (bool, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}
