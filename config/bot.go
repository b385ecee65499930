package config

import (
	"fmt"
	"strings"
)

// BotDifficulty affects reaction time and decision quality
type BotDifficulty int

const (
	BotDifficultyEasy BotDifficulty = iota
	BotDifficultyNormal
	BotDifficultyHard
)

func (d BotDifficulty) String() string {
	switch d {
	case BotDifficultyEasy:
		return "easy"
	case BotDifficultyNormal:
		return "normal"
	case BotDifficultyHard:
		return "hard"
	}
	return fmt.Sprintf("difficulty(%d)", int(d))
}

// ParseBotDifficulty accepts easy, normal or hard.
func ParseBotDifficulty(s string) (BotDifficulty, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "easy":
		return BotDifficultyEasy, nil
	case "", "normal":
		return BotDifficultyNormal, nil
	case "hard":
		return BotDifficultyHard, nil
	}
	return BotDifficultyNormal, fmt.Errorf("unknown bot difficulty %q", s)
}

// BotDifficultyConfig holds tuning values for bot behavior at a specific difficulty
type BotDifficultyConfig struct {
	ReactionDelay    int     // Input ticks between decisions
	AttackRange      float64 // Horizontal distance to start attacking
	RetreatThreshold float64 // Health fraction to start retreating
	JumpChance       float64 // Per-decision chance to jump while chasing
	SpecialChance    float64 // Per-decision chance to use the special when in range
}

// BotConfigData holds all bot-related configuration
type BotConfigData struct {
	Difficulties map[BotDifficulty]BotDifficultyConfig
}

// Bot holds bot AI configuration
var Bot BotConfigData

func init() {
	Bot = BotConfigData{
		Difficulties: map[BotDifficulty]BotDifficultyConfig{
			BotDifficultyEasy: {
				ReactionDelay:    30, // 0.5 second reaction time
				AttackRange:      70.0,
				RetreatThreshold: 0.2, // Retreat at 20% health
				JumpChance:       0.02,
				SpecialChance:    0.1,
			},
			BotDifficultyNormal: {
				ReactionDelay:    15, // 0.25 second reaction time
				AttackRange:      85.0,
				RetreatThreshold: 0.3,
				JumpChance:       0.05,
				SpecialChance:    0.25,
			},
			BotDifficultyHard: {
				ReactionDelay:    5, // Near-instant reaction
				AttackRange:      95.0,
				RetreatThreshold: 0.15,
				JumpChance:       0.08,
				SpecialChance:    0.5,
			},
		},
	}
}
