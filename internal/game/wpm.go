package game

// WPMTracker measures words-per-minute over a rolling window and detects
// when the target rate has been sustained continuously for the required
// duration, which completes the level.
type WPMTracker struct {
	tickRate    int
	windowTicks uint64

	completions []uint64 // Ticks at which words were completed

	sustainedFrom uint64
	sustaining    bool
}

// NewWPMTracker creates a tracker with the given rolling window.
func NewWPMTracker(windowSeconds float64, tickRate int) *WPMTracker {
	w := uint64(windowSeconds * float64(tickRate))
	if w == 0 {
		w = 1
	}
	return &WPMTracker{tickRate: tickRate, windowTicks: w}
}

// RecordWord notes a completed word at the given tick.
func (t *WPMTracker) RecordWord(tick uint64) {
	t.completions = append(t.completions, tick)
	t.trim(tick)
}

func (t *WPMTracker) trim(tick uint64) {
	cut := 0
	for cut < len(t.completions) && tick-t.completions[cut] > t.windowTicks {
		cut++
	}
	if cut > 0 {
		t.completions = t.completions[cut:]
	}
}

// WPM returns the words-per-minute rate over the rolling window.
func (t *WPMTracker) WPM(tick uint64) float64 {
	t.trim(tick)
	windowMinutes := float64(t.windowTicks) / float64(t.tickRate) / 60.0
	if windowMinutes <= 0 {
		return 0
	}
	return float64(len(t.completions)) / windowMinutes
}

// Sustained reports whether the target rate has held continuously for
// sustainSeconds up to the given tick. Dropping below the target at any
// point restarts the clock.
func (t *WPMTracker) Sustained(tick uint64, targetWPM, sustainSeconds float64) bool {
	if t.WPM(tick) >= targetWPM {
		if !t.sustaining {
			t.sustaining = true
			t.sustainedFrom = tick
		}
		need := uint64(sustainSeconds * float64(t.tickRate))
		return tick-t.sustainedFrom >= need
	}
	t.sustaining = false
	return false
}
