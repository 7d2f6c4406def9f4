package config

import "math"

// DifficultyManager computes the stage-scaled word speed. Single-letter
// stages ramp more slowly than word stages so early learners aren't
// overwhelmed before they leave the home row.
type DifficultyManager struct {
	cfg          DifficultyConfig
	initialLevel float64
}

// NewDifficultyManager creates a new difficulty manager.
func NewDifficultyManager(cfg DifficultyConfig) *DifficultyManager {
	return &DifficultyManager{
		cfg:          cfg,
		initialLevel: cfg.InitialLevel,
	}
}

// SetInitialLevel overrides the initial difficulty level (0.0 to 1.0).
func (d *DifficultyManager) SetInitialLevel(level float64) {
	d.initialLevel = clampF(level, 0.0, 1.0)
}

// IsEnabled returns whether stage-scaled progression is active.
func (d *DifficultyManager) IsEnabled() bool {
	return d.cfg.Enabled
}

// Speed returns the scroll speed in cells per tick for the given stage.
// letterStage selects the slower ramp used on single-letter corpora.
func (d *DifficultyManager) Speed(stageIndex int, letterStage bool) float64 {
	speed := d.cfg.BaseSpeed * (1.0 + d.initialLevel)
	if d.cfg.Enabled {
		ramp := d.cfg.WordRamp
		if letterStage {
			ramp = d.cfg.LetterRamp
		}
		speed += d.cfg.BaseSpeed * ramp * float64(stageIndex)
	}
	return clampF(speed, d.cfg.BaseSpeed, d.maxSpeed())
}

func (d *DifficultyManager) maxSpeed() float64 {
	if d.cfg.MaxSpeed > 0 {
		return d.cfg.MaxSpeed
	}
	return math.Inf(1)
}

// clampF restricts a float64 to [min, max].
func clampF(val, min, max float64) float64 {
	return math.Max(min, math.Min(max, val))
}
