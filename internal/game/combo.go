package game

import "github.com/kkurian/typeattack/internal/config"

// ComboState tracks the consecutive-correct streak and the hot-streak bonus
// mode. All fields are transient and reset with the session.
//
// Invariants: the hot-streak counter resets to zero on any mismatch or any
// kill-edge miss; an active hot streak can only turn off by flushing its
// accumulated bonus into the score.
type ComboState struct {
	cfg config.ComboConfig

	Streak     int  // Consecutive correct keystrokes
	HotCounter int  // Drives activation and the tier ladder
	HotActive  bool // Hot-streak mode engaged
	HotBonus   int  // Accumulated bonus, flushed into score on break
	Multiplier int  // Current tier multiplier; 1 outside hot streak
}

// NewComboState creates a combo tracker with the given tuning.
func NewComboState(cfg config.ComboConfig) *ComboState {
	return &ComboState{cfg: cfg, Multiplier: 1}
}

// Reset clears all transient state without flushing.
// Only used on full session resets, where the score is discarded anyway.
func (c *ComboState) Reset() {
	c.Streak = 0
	c.HotCounter = 0
	c.HotActive = false
	c.HotBonus = 0
	c.Multiplier = 1
}

// tierFor maps a hot-streak counter to its ladder multiplier.
func (c *ComboState) tierFor(counter int) int {
	mult := 1
	for _, tier := range c.cfg.Ladder {
		if counter >= tier.AtCount {
			mult = tier.Multiplier
		}
	}
	return mult
}

// OnCorrect records a matched keystroke. It returns the new multiplier if a
// ladder tier was crossed this keystroke (a one-shot notification), or 0.
func (c *ComboState) OnCorrect() (multiplierChanged int) {
	c.Streak++
	c.HotCounter++

	if !c.HotActive && c.HotCounter >= c.cfg.HotStreakActivation {
		c.HotActive = true
	}

	if c.HotActive {
		if next := c.tierFor(c.HotCounter); next != c.Multiplier {
			c.Multiplier = next
			multiplierChanged = next
		}
		c.HotBonus += c.cfg.BonusPerKey * c.Multiplier
	}
	return multiplierChanged
}

// Break records a mismatch or a kill-edge miss. If a hot streak was active
// its bonus is flushed first; the returned flushed amount is the only path
// by which hot-streak points enter the score. ended reports whether a hot
// streak was terminated.
func (c *ComboState) Break() (flushed int, ended bool) {
	if c.HotActive {
		flushed = c.flush()
		ended = true
	}
	c.Streak = 0
	c.HotCounter = 0
	return flushed, ended
}

// flush atomically hands the accumulator to the caller and zeroes it,
// leaving hot-streak mode.
func (c *ComboState) flush() int {
	bonus := c.HotBonus
	c.HotBonus = 0
	c.HotActive = false
	c.Multiplier = 1
	return bonus
}

// FlushFinal flushes an active hot streak at session end, so accumulated
// bonus is never silently dropped. Returns the flushed amount.
func (c *ComboState) FlushFinal() (flushed int, ended bool) {
	if !c.HotActive {
		return 0, false
	}
	return c.flush(), true
}
