package game

import "testing"

func TestWPMRollingWindow(t *testing.T) {
	// 10s window at 30 ticks/s = 300 ticks
	tr := NewWPMTracker(10, 30)

	// 5 words in the window = 30 WPM
	for i := 0; i < 5; i++ {
		tr.RecordWord(uint64(100 + i*10))
	}
	if got := tr.WPM(200); got != 30 {
		t.Errorf("WPM = %f, expected 30", got)
	}

	// Words age out of the window
	if got := tr.WPM(1000); got != 0 {
		t.Errorf("WPM after expiry = %f, expected 0", got)
	}
}

// driveWPM feeds one word every `every` ticks through [from, to], querying
// the sustain check each tick the way the engine does. Returns the first
// tick at which Sustained reported true, or 0.
func driveWPM(tr *WPMTracker, from, to, every uint64, target, sustainSeconds float64) uint64 {
	for tick := from; tick <= to; tick++ {
		if (tick-from)%every == 0 {
			tr.RecordWord(tick)
		}
		if tr.Sustained(tick, target, sustainSeconds) {
			return tick
		}
	}
	return 0
}

func TestWPMSustainedAfterRequiredDuration(t *testing.T) {
	// One word every 40 ticks is 45 WPM against a 10s window at 30 ticks/s.
	// Sustaining 40 WPM for 10s (300 ticks) must fire, and not before the
	// rate has both reached the target and held it.
	tr := NewWPMTracker(10, 30)

	at := driveWPM(tr, 0, 2000, 40, 40, 10)
	if at == 0 {
		t.Fatal("expected sustained detection during a steady 45 WPM feed")
	}
	// The rate first reaches 40 WPM once 7 words are in the window
	// (tick 240); 300 ticks later is the earliest legal report.
	if at < 540 {
		t.Errorf("sustained reported at tick %d, before the duration requirement", at)
	}
}

func TestWPMSustainedResetsOnDrop(t *testing.T) {
	tr := NewWPMTracker(10, 30)

	// Hold the rate for ~8s, then go silent: no report
	if at := driveWPM(tr, 0, 480, 40, 40, 10); at != 0 {
		t.Fatalf("sustained reported at tick %d during an 8s hold", at)
	}

	// Silence collapses the rate and resets the sustain clock
	if tr.Sustained(2000, 40, 10) {
		t.Fatal("rate dropped below target, sustain clock should reset")
	}

	// A fresh 8s hold after the reset must not report either
	if at := driveWPM(tr, 2000, 2480, 40, 40, 10); at != 0 {
		t.Errorf("sustained reported at tick %d, expected the clock to restart", at)
	}
}
