package game

import (
	"math/rand"

	"github.com/kkurian/typeattack/internal/config"
)

// laneAllocator picks spawn rows while avoiding near collisions. It samples
// random lanes and rejects any lane whose least-advanced incomplete word is
// still within the minimum horizontal clearance of the spawn column; after a
// bounded number of rejected samples it accepts the best candidate seen, so
// saturation can never deadlock the spawner.
type laneAllocator struct {
	cfg config.FieldConfig
	rng *rand.Rand
}

func newLaneAllocator(cfg config.FieldConfig, rng *rand.Rand) *laneAllocator {
	return &laneAllocator{cfg: cfg, rng: rng}
}

// clearance returns the horizontal distance between the spawn column and the
// nearest incomplete word in the lane. Lanes with no incomplete words are
// fully clear.
func (a *laneAllocator) clearance(lane int, words []*Word) float64 {
	best := -1.0
	for _, w := range words {
		if w.Lane != lane || !w.Incomplete() {
			continue
		}
		if best < 0 || w.X < best {
			best = w.X
		}
	}
	if best < 0 {
		return float64(1 << 20) // effectively infinite
	}
	return best
}

// pick chooses a spawn lane given the current in-flight words.
func (a *laneAllocator) pick(words []*Word) int {
	attempts := a.cfg.SampleAttempts
	if attempts < 1 {
		attempts = 1
	}

	bestLane := 0
	bestClear := -1.0
	for i := 0; i < attempts; i++ {
		lane := a.rng.Intn(a.cfg.Lanes)
		clear := a.clearance(lane, words)
		if clear >= float64(a.cfg.MinClearance) {
			return lane
		}
		if clear > bestClear {
			bestClear = clear
			bestLane = lane
		}
	}
	// Bounded-retry fallback under saturation
	return bestLane
}
