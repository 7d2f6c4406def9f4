package config

import (
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadAttackEmbeddedDefault(t *testing.T) {
	// No custom path and (almost certainly) no user config in CI: the
	// embedded YAML must round-trip to the same values as the hardcoded
	// fallback.
	cfg, err := LoadAttack("")
	if err != nil {
		t.Fatalf("LoadAttack() error: %v", err)
	}

	want := DefaultAttackConfig()
	if cfg.Field.Lanes != want.Field.Lanes {
		t.Errorf("Lanes = %d, expected %d", cfg.Field.Lanes, want.Field.Lanes)
	}
	if cfg.Combo.HotStreakActivation != want.Combo.HotStreakActivation {
		t.Errorf("HotStreakActivation = %d, expected %d", cfg.Combo.HotStreakActivation, want.Combo.HotStreakActivation)
	}
	if len(cfg.Pacing.Tiers) != len(want.Pacing.Tiers) {
		t.Fatalf("pacing tiers = %d, expected %d", len(cfg.Pacing.Tiers), len(want.Pacing.Tiers))
	}
	if cfg.Goal.MissLimit != want.Goal.MissLimit {
		t.Errorf("MissLimit = %d, expected %d", cfg.Goal.MissLimit, want.Goal.MissLimit)
	}
}

func TestLoadAttackCustomPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "attack.yaml")
	yaml := "field:\n  lanes: 12\n  min_clearance: 20\n"
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadAttack(path)
	if err != nil {
		t.Fatalf("LoadAttack(%s) error: %v", path, err)
	}
	if cfg.Field.Lanes != 12 {
		t.Errorf("Lanes = %d, expected 12", cfg.Field.Lanes)
	}

	if _, err := LoadAttack(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected error for missing custom config")
	}
}

func TestDifficultySpeedRamp(t *testing.T) {
	cfg := DefaultAttackConfig().Difficulty
	m := NewDifficultyManager(cfg)

	base := m.Speed(0, false)
	if math.Abs(base-cfg.BaseSpeed) > 1e-9 {
		t.Errorf("stage 0 speed = %f, expected base %f", base, cfg.BaseSpeed)
	}

	// Word stages ramp faster than letter stages
	letter := m.Speed(4, true)
	word := m.Speed(4, false)
	if letter >= word {
		t.Errorf("letter-stage speed %f should be below word-stage speed %f", letter, word)
	}

	// Speed is clamped to max
	far := m.Speed(1000, false)
	if far > cfg.MaxSpeed {
		t.Errorf("speed %f exceeds max %f", far, cfg.MaxSpeed)
	}
}

func TestApplyPreset(t *testing.T) {
	tests := []struct {
		preset  DifficultyPreset
		enabled bool
		level   float64
	}{
		{DifficultyEasy, true, 0.0},
		{DifficultyNormal, true, 0.3},
		{DifficultyHard, true, 0.7},
	}

	for _, tc := range tests {
		t.Run(string(tc.preset), func(t *testing.T) {
			cfg := DefaultAttackConfig()
			ApplyPreset(&cfg, tc.preset)
			if cfg.Difficulty.Enabled != tc.enabled {
				t.Errorf("Enabled = %v, expected %v", cfg.Difficulty.Enabled, tc.enabled)
			}
			if cfg.Difficulty.InitialLevel != tc.level {
				t.Errorf("InitialLevel = %f, expected %f", cfg.Difficulty.InitialLevel, tc.level)
			}
		})
	}

	cfg := DefaultAttackConfig()
	ApplyPreset(&cfg, DifficultyFixed)
	if cfg.Difficulty.Enabled {
		t.Error("fixed preset should disable progression")
	}
}
