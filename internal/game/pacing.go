package game

import (
	"github.com/kkurian/typeattack/internal/config"
	"github.com/kkurian/typeattack/internal/core"
)

// PacingController adapts the spawn interval to recent typing speed: fast
// typists get a shorter interval so targets never run out, slow ones a
// longer interval so they are not flooded. A hard cap bounds concurrent
// words and a minimum-on-screen floor forces an emergency spawn after a
// short grace delay.
type PacingController struct {
	cfg      config.PacingConfig
	tickRate int

	charTicks []uint64 // Ticks at which correct characters were typed

	suspended     bool
	nextSpawnAt   uint64
	graceArmedAt  uint64
	graceArmed    bool
}

// NewPacingController creates a controller for the given tick rate.
func NewPacingController(cfg config.PacingConfig, tickRate int) *PacingController {
	return &PacingController{cfg: cfg, tickRate: tickRate}
}

// RecordChar notes a correctly typed character for the speed measurement.
func (p *PacingController) RecordChar(tick uint64) {
	p.charTicks = append(p.charTicks, tick)
	p.trim(tick)
}

func (p *PacingController) windowTicks() uint64 {
	w := uint64(p.cfg.WindowSeconds * float64(p.tickRate))
	if w == 0 {
		w = 1
	}
	return w
}

func (p *PacingController) trim(tick uint64) {
	window := p.windowTicks()
	cut := 0
	for cut < len(p.charTicks) && tick-p.charTicks[cut] > window {
		cut++
	}
	if cut > 0 {
		p.charTicks = p.charTicks[cut:]
	}
}

// CPS returns the rolling characters-per-second measurement.
func (p *PacingController) CPS(tick uint64) float64 {
	p.trim(tick)
	seconds := p.cfg.WindowSeconds
	if seconds < 1 {
		seconds = 1
	}
	return float64(len(p.charTicks)) / seconds
}

// Interval maps the current typing speed through the threshold tiers to a
// spawn interval in ticks, clamped to the configured floor and ceiling.
func (p *PacingController) Interval(tick uint64) int {
	cps := p.CPS(tick)
	interval := p.cfg.MaxIntervalTicks
	for _, tier := range p.cfg.Tiers {
		if cps >= tier.MinCPS {
			interval = tier.IntervalTicks
			break
		}
	}
	return core.Clamp(interval, p.cfg.MinIntervalTicks, p.cfg.MaxIntervalTicks)
}

// Suspend globally stops spawning (stage notices, submission interstitial).
func (p *PacingController) Suspend() {
	p.suspended = true
}

// Resume re-enables spawning and restarts the interval from the given tick.
func (p *PacingController) Resume(tick uint64) {
	p.suspended = false
	p.graceArmed = false
	p.nextSpawnAt = tick + uint64(p.Interval(tick))
}

// Suspended reports whether spawning is globally suspended.
func (p *PacingController) Suspended() bool {
	return p.suspended
}

// ShouldSpawn decides whether to spawn this tick, given the number of
// in-flight words and how many of them the player can still type.
func (p *PacingController) ShouldSpawn(tick uint64, inFlight, typable int) bool {
	if p.suspended {
		return false
	}
	if inFlight >= p.cfg.MaxConcurrent {
		p.graceArmed = false
		return false
	}

	// Emergency floor: the player would otherwise have nothing to type.
	if typable < p.cfg.MinOnScreen {
		if !p.graceArmed {
			p.graceArmed = true
			p.graceArmedAt = tick
		}
		if tick-p.graceArmedAt >= uint64(p.cfg.EmergencyGraceTicks) {
			return true
		}
	} else {
		p.graceArmed = false
	}

	return tick >= p.nextSpawnAt
}

// Spawned tells the controller a word was spawned at the given tick.
func (p *PacingController) Spawned(tick uint64) {
	p.graceArmed = false
	p.nextSpawnAt = tick + uint64(p.Interval(tick))
}
