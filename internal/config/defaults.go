package config

import (
	_ "embed"
)

//go:embed defaults/attack.yaml
var defaultAttackYAML []byte

// DefaultAttackConfig returns the default typing-shooter configuration.
// Kept in sync with defaults/attack.yaml; used as the last-resort fallback.
func DefaultAttackConfig() AttackConfig {
	return AttackConfig{
		Field: FieldConfig{
			Lanes:          8,
			TopMargin:      3,
			MinClearance:   14,
			SampleAttempts: 6,
		},
		Pacing: PacingConfig{
			WindowSeconds: 5.0,
			Tiers: []PacingTier{
				{MinCPS: 6.0, IntervalTicks: 30},
				{MinCPS: 4.0, IntervalTicks: 45},
				{MinCPS: 2.5, IntervalTicks: 60},
				{MinCPS: 1.0, IntervalTicks: 80},
			},
			MinIntervalTicks:    20,
			MaxIntervalTicks:    100,
			MaxConcurrent:       6,
			MinOnScreen:         1,
			EmergencyGraceTicks: 15,
		},
		Combo: ComboConfig{
			HotStreakActivation: 10,
			BonusPerKey:         5,
			Ladder: []ComboTier{
				{AtCount: 10, Multiplier: 2},
				{AtCount: 25, Multiplier: 3},
				{AtCount: 50, Multiplier: 4},
				{AtCount: 100, Multiplier: 5},
			},
		},
		Scoring: ScoringConfig{
			BasePerLetter:    10,
			StageBonus:       25,
			StageMultiplier:  0.5,
			PositionBonusMax: 50,
			ComboStep:        5,
			ComboMaxMult:     4,
		},
		Goal: GoalConfig{
			TargetWPM:         40,
			SustainSeconds:    30,
			WindowSeconds:     10,
			UnlockProficiency: 1.0,
			MissLimit:         10,
		},
		Worthiness: WorthinessConfig{
			MinStage:           3,
			MinWPM:             30,
			MinAccuracy:        0.9,
			MinDurationSeconds: 120,
			DurationWPM:        20,
		},
		Difficulty: DifficultyConfig{
			Enabled:      true,
			InitialLevel: 0.0,
			BaseSpeed:    0.20,
			LetterRamp:   0.05,
			WordRamp:     0.12,
			MaxSpeed:     0.90,
		},
	}
}
