package config

import "time"

// PhysicsConfig contains the movement values shared by the client predictor
// and the server's fall-death check. Both sides must agree on them.
type PhysicsConfig struct {
	// Movement
	MoveStep     float64 // Horizontal units per tick while a direction is held
	MinX         float64 // Playfield bounds for x
	MaxX         float64
	JumpStrength float64 // Upward impulse applied on jump
	Gravity      float64 // Added to vertical velocity every airborne tick

	// Platform collision
	FeetOffset    float64 // Distance from y to the player's feet
	HalfWidth     float64 // Horizontal half-extent used for platform overlap
	SurfaceBand   float64 // Samples within +-band of a surface count as grounded
	SweepStride   float64 // Vertical units per sweep sample
	SweepMinSteps int

	// Death
	FallDeathMargin float64 // Dead once y exceeds the lowest platform by this much
}

// CombatConfig contains attack resolution defaults and intent validation.
type CombatConfig struct {
	DefaultDamage float64 // Used when an attack intent carries no damage
	DefaultRange  float64 // Used when an attack intent carries no range

	ValidateIntents   bool    // Clamp damage/range and enforce cooldowns server-side
	CooldownTolerance float64 // Fraction of a cooldown forgiven for jitter
}

// MatchConfig contains lifecycle and broadcast timings.
type MatchConfig struct {
	TickInterval       time.Duration // Broadcast loop cadence
	CoarseTickInterval time.Duration // Cadence for low-bandwidth servers
	GameOverGrace      time.Duration // GAME_OVER -> WAITING delay
	TerminalRepeat     int           // Copies of game_over / game_reset sent
	HeartbeatInterval  time.Duration
	SendQueueSize      int // Outbound messages buffered per peer
	WriteTimeout       time.Duration
}

// NetcodeConfig contains client-side latency hiding values.
type NetcodeConfig struct {
	ReconcileThreshold float64       // Divergence that forces a snap to server state
	OpponentLerp       float64       // Per-tick blend factor for the remote player
	InputInterval      time.Duration // Local simulation / input tick
	HeartbeatTimeout   time.Duration // Silence before the connection counts as failed
	WatchdogInterval   time.Duration
	DialTimeout        time.Duration
}

var Physics PhysicsConfig
var Combat CombatConfig
var Match MatchConfig
var Netcode NetcodeConfig

// Spawn positions per slot, used when the arena defines none.
var (
	SpawnY       = 580.0
	SpawnXBySlot = map[int]float64{1: 300, 2: 700}
)

func init() {
	Physics = PhysicsConfig{
		MoveStep:     5,
		MinX:         50,
		MaxX:         950,
		JumpStrength: 18,
		Gravity:      0.8,

		FeetOffset:    10,
		HalfWidth:     50,
		SurfaceBand:   20,
		SweepStride:   5,
		SweepMinSteps: 3,

		FallDeathMargin: 100,
	}

	Combat = CombatConfig{
		DefaultDamage:     10,
		DefaultRange:      100,
		ValidateIntents:   true,
		CooldownTolerance: 0.1,
	}

	Match = MatchConfig{
		TickInterval:       16 * time.Millisecond,
		CoarseTickInterval: 50 * time.Millisecond,
		GameOverGrace:      5 * time.Second,
		TerminalRepeat:     3,
		HeartbeatInterval:  time.Second,
		SendQueueSize:      64,
		WriteTimeout:       2 * time.Second,
	}

	Netcode = NetcodeConfig{
		ReconcileThreshold: 15,
		OpponentLerp:       0.3,
		InputInterval:      20 * time.Millisecond,
		HeartbeatTimeout:   5 * time.Second,
		WatchdogInterval:   time.Second,
		DialTimeout:        5 * time.Second,
	}
}
