package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadServerAppliesEnvironment(t *testing.T) {
	t.Chdir(t.TempDir()) // no .env here
	t.Setenv("DUEL_PORT", "6000")
	t.Setenv("DUEL_TICK", "50ms")
	t.Setenv("DUEL_VALIDATE_INTENTS", "false")
	t.Setenv("DUEL_SERVER_NAME", "Arena One")

	cfg, err := LoadServer()
	if err != nil {
		t.Fatalf("LoadServer: %v", err)
	}
	if cfg.Port != 6000 {
		t.Errorf("port = %d, want 6000", cfg.Port)
	}
	if cfg.Match.TickInterval != 50*time.Millisecond {
		t.Errorf("tick = %v, want 50ms", cfg.Match.TickInterval)
	}
	if cfg.Combat.ValidateIntents {
		t.Errorf("validate intents should be disabled")
	}
	if cfg.Name != "Arena One" {
		t.Errorf("name = %q", cfg.Name)
	}
	if cfg.Match.GameOverGrace != 5*time.Second {
		t.Errorf("grace = %v, want default 5s", cfg.Match.GameOverGrace)
	}
}

func TestLoadServerRejectsBadValues(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("DUEL_PORT", "not-a-port")
	if _, err := LoadServer(); err == nil {
		t.Fatalf("expected an error for a non-numeric port")
	}
}

func TestLoadDotEnvDoesNotOverrideEnvironment(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	if err := os.WriteFile(path, []byte("DUEL_CHARACTER=Mewtwo\nDUEL_SERVER=10.0.0.5:5555\n"), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	t.Setenv("DUEL_SERVER", "localhost:7000")
	t.Setenv("DUEL_CHARACTER", "")
	os.Unsetenv("DUEL_CHARACTER")

	if err := LoadDotEnv(path); err != nil {
		t.Fatalf("LoadDotEnv: %v", err)
	}
	if got := os.Getenv("DUEL_CHARACTER"); got != "Mewtwo" {
		t.Errorf("DUEL_CHARACTER = %q, want Mewtwo", got)
	}
	if got := os.Getenv("DUEL_SERVER"); got != "localhost:7000" {
		t.Errorf("DUEL_SERVER = %q, want the pre-set value", got)
	}
}

func TestLoadDotEnvMissingFileIsFine(t *testing.T) {
	if err := LoadDotEnv(filepath.Join(t.TempDir(), "absent.env")); err != nil {
		t.Fatalf("missing .env should be ignored, got %v", err)
	}
}

func TestDefaultsMatchArenaRules(t *testing.T) {
	if Physics.MinX != 50 || Physics.MaxX != 950 {
		t.Errorf("playfield bounds = [%v,%v]", Physics.MinX, Physics.MaxX)
	}
	if Netcode.ReconcileThreshold != 15 {
		t.Errorf("reconcile threshold = %v", Netcode.ReconcileThreshold)
	}
	if Match.TerminalRepeat != 3 {
		t.Errorf("terminal repeat = %d", Match.TerminalRepeat)
	}
}

func TestLoadClientBotDifficulty(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("DUEL_BOT", "Hard")
	cfg, err := LoadClient()
	if err != nil {
		t.Fatalf("LoadClient: %v", err)
	}
	if cfg.Bot != BotDifficultyHard {
		t.Errorf("bot = %s, want hard", cfg.Bot)
	}

	t.Setenv("DUEL_BOT", "nightmare")
	if _, err := LoadClient(); err == nil {
		t.Fatalf("expected an error for an unknown difficulty")
	}
}
