// Package config provides YAML-based tuning for the typeattack engine and
// difficulty management for stage progression.
package config

// AttackConfig contains all tunable parameters for the typing shooter.
type AttackConfig struct {
	Field      FieldConfig      `yaml:"field"`
	Pacing     PacingConfig     `yaml:"pacing"`
	Combo      ComboConfig      `yaml:"combo"`
	Scoring    ScoringConfig    `yaml:"scoring"`
	Goal       GoalConfig       `yaml:"goal"`
	Worthiness WorthinessConfig `yaml:"worthiness"`
	Difficulty DifficultyConfig `yaml:"difficulty"`
}

// FieldConfig defines the playfield geometry.
type FieldConfig struct {
	Lanes          int `yaml:"lanes"`           // Number of spawn rows
	TopMargin      int `yaml:"top_margin"`      // Rows reserved for the HUD
	MinClearance   int `yaml:"min_clearance"`   // Minimum horizontal gap between words sharing a lane
	SampleAttempts int `yaml:"sample_attempts"` // Lane samples before accepting the best candidate
}

// PacingTier maps a typing-speed threshold to a spawn interval.
// Tiers are evaluated fastest-first; the first tier whose MinCPS the player
// meets wins.
type PacingTier struct {
	MinCPS        float64 `yaml:"min_cps"`
	IntervalTicks int     `yaml:"interval_ticks"`
}

// PacingConfig defines adaptive spawn pacing.
type PacingConfig struct {
	WindowSeconds       float64      `yaml:"window_seconds"` // Rolling window for chars-per-second
	Tiers               []PacingTier `yaml:"tiers"`
	MinIntervalTicks    int          `yaml:"min_interval_ticks"`
	MaxIntervalTicks    int          `yaml:"max_interval_ticks"`
	MaxConcurrent       int          `yaml:"max_concurrent"`   // Hard cap on in-flight words
	MinOnScreen         int          `yaml:"min_on_screen"`    // Emergency-spawn floor
	EmergencyGraceTicks int          `yaml:"emergency_grace_ticks"`
}

// ComboTier maps a hot-streak counter range to a score multiplier.
type ComboTier struct {
	AtCount    int `yaml:"at_count"`
	Multiplier int `yaml:"multiplier"`
}

// ComboConfig defines streak and hot-streak behavior.
type ComboConfig struct {
	HotStreakActivation int         `yaml:"hot_streak_activation"` // Consecutive correct keys to enter hot streak
	BonusPerKey         int         `yaml:"bonus_per_key"`         // Accumulator growth per correct key while hot
	Ladder              []ComboTier `yaml:"ladder"`                // Escalating multiplier tiers, ascending AtCount
}

// ScoringConfig defines word point values.
type ScoringConfig struct {
	BasePerLetter    int     `yaml:"base_per_letter"`
	StageBonus       int     `yaml:"stage_bonus"`
	StageMultiplier  float64 `yaml:"stage_multiplier"`   // Added per stage index
	PositionBonusMax int     `yaml:"position_bonus_max"` // Max bonus for words typed far from the kill edge
	ComboStep        int     `yaml:"combo_step"`         // Streak size per +1 combo multiplier
	ComboMaxMult     int     `yaml:"combo_max_mult"`
}

// GoalConfig defines the sustained-WPM level-complete goal.
type GoalConfig struct {
	TargetWPM         float64 `yaml:"target_wpm"`
	SustainSeconds    float64 `yaml:"sustain_seconds"`
	WindowSeconds     float64 `yaml:"window_seconds"`
	UnlockProficiency float64 `yaml:"unlock_proficiency"`
	MissLimit         int     `yaml:"miss_limit"` // Kill-edge misses before game over
}

// WorthinessConfig gates whether a finished run is offered for submission.
// A run qualifies if ANY of the three threshold combinations holds.
type WorthinessConfig struct {
	MinStage           int     `yaml:"min_stage"`
	MinWPM             float64 `yaml:"min_wpm"`
	MinAccuracy        float64 `yaml:"min_accuracy"`
	MinDurationSeconds float64 `yaml:"min_duration_seconds"`
	DurationWPM        float64 `yaml:"duration_wpm"`
}

// DifficultyConfig defines stage-scaled speed progression.
type DifficultyConfig struct {
	Enabled      bool    `yaml:"enabled"`
	InitialLevel float64 `yaml:"initial_level"` // 0.0 = easy, 1.0 = hard
	BaseSpeed    float64 `yaml:"base_speed"`    // Cells per tick at stage 0, level 0
	LetterRamp   float64 `yaml:"letter_ramp"`   // Per-stage speed growth on single-letter stages
	WordRamp     float64 `yaml:"word_ramp"`     // Per-stage speed growth on word stages
	MaxSpeed     float64 `yaml:"max_speed"`
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// InitialLevelForPreset returns the initial_level for a difficulty preset.
func InitialLevelForPreset(preset DifficultyPreset) float64 {
	switch preset {
	case DifficultyEasy:
		return 0.0
	case DifficultyNormal:
		return 0.3
	case DifficultyHard:
		return 0.7
	default:
		return 0.0
	}
}

// ApplyPreset modifies the config based on a difficulty preset.
// The "fixed" preset pins speed at the config's initial level.
func ApplyPreset(cfg *AttackConfig, preset DifficultyPreset) {
	if preset == DifficultyFixed {
		cfg.Difficulty.Enabled = false
		return
	}
	cfg.Difficulty.Enabled = true
	cfg.Difficulty.InitialLevel = InitialLevelForPreset(preset)
}
