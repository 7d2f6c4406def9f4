package game

import (
	"github.com/kkurian/typeattack/internal/config"
	"github.com/kkurian/typeattack/internal/core"
)

// wordPointValue computes the final value of a fully typed word:
// (length base x stage multiplier + stage bonus + horizontal-position bonus)
// x combo multiplier from the current streak. Evaluated once, at the moment
// the word becomes fully typed; the staggered impacts later commit exactly
// this value.
func wordPointValue(cfg config.ScoringConfig, w *Word, stageIndex, killEdgeX, streak int) int {
	base := float64(cfg.BasePerLetter * len(w.Text))
	staged := base*(1.0+cfg.StageMultiplier*float64(stageIndex)) + float64(cfg.StageBonus)

	// Words finished far from the kill edge are worth more.
	posBonus := 0
	if killEdgeX > 0 {
		frac := 1.0 - core.ClampF(w.X/float64(killEdgeX), 0, 1)
		posBonus = int(frac * float64(cfg.PositionBonusMax))
	}

	return (int(staged) + posBonus) * comboMultiplier(cfg, streak)
}

// comboMultiplier derives the streak-based multiplier: +1 per ComboStep
// consecutive correct keystrokes, capped at ComboMaxMult.
func comboMultiplier(cfg config.ScoringConfig, streak int) int {
	if cfg.ComboStep <= 0 {
		return 1
	}
	mult := 1 + streak/cfg.ComboStep
	if cfg.ComboMaxMult > 0 && mult > cfg.ComboMaxMult {
		mult = cfg.ComboMaxMult
	}
	return mult
}
