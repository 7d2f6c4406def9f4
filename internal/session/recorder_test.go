package session

import (
	"math"
	"testing"
	"time"
)

// fakeClock is a manually advanced clock for deterministic offsets.
type fakeClock struct {
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

func (c *fakeClock) Set(t time.Time) {
	c.now = t
}

func TestRecorderDerivesStats(t *testing.T) {
	clk := newFakeClock()
	start := clk.Now()
	r := NewRecorderWithClock(clk.Now)
	r.Start(99)

	// Two words completed in 30 seconds of play = 4 WPM.
	for _, text := range []string{"one", "two"} {
		idx := r.AddWord(text, 0, 0)
		for _, ch := range text {
			clk.Advance(100 * time.Millisecond)
			r.RecordKeystroke(ch, idx, true)
		}
		r.CompleteWord(idx)
	}
	clk.Advance(time.Millisecond)
	r.RecordKeystroke('x', -1, false)
	clk.Set(start.Add(30 * time.Second))

	snap, err := r.End()
	if err != nil {
		t.Fatal(err)
	}
	if !snap.Finalized() {
		t.Fatal("snapshot not finalized")
	}
	if snap.Stats.WordsCompleted != 2 {
		t.Errorf("words completed = %d, expected 2", snap.Stats.WordsCompleted)
	}
	if snap.Stats.DurationMs != 30000 {
		t.Errorf("duration = %dms, expected 30000", snap.Stats.DurationMs)
	}
	if math.Abs(snap.Stats.WPM-4.0) > 1e-9 {
		t.Errorf("WPM = %f, expected 4.0", snap.Stats.WPM)
	}
	if want := 6.0 / 7.0; math.Abs(snap.Stats.Accuracy-want) > 1e-9 {
		t.Errorf("accuracy = %f, expected %f", snap.Stats.Accuracy, want)
	}
	if snap.Stats.Correct != 6 || snap.Stats.Total != 7 {
		t.Errorf("keystroke totals = %d/%d, expected 6/7", snap.Stats.Correct, snap.Stats.Total)
	}
}

func TestRecorderAppendOnlyLog(t *testing.T) {
	clk := newFakeClock()
	r := NewRecorderWithClock(clk.Now)
	r.Start(1)

	a := r.AddWord("alpha", 0, 0)
	b := r.AddWord("beta", 0, 1)
	if a != 0 || b != 1 {
		t.Fatalf("correlation indexes = %d,%d, expected 0,1", a, b)
	}
	r.RecordKeystroke('a', a, true)
	r.RecordKeystroke('b', b, true)
	r.CompleteWord(b)

	snap, err := r.End()
	if err != nil {
		t.Fatal(err)
	}
	if len(snap.Words) != 2 || len(snap.Keystrokes) != 2 {
		t.Fatalf("log sizes = %d words, %d keystrokes", len(snap.Words), len(snap.Keystrokes))
	}
	if snap.Words[0].CompleteOffset != -1 {
		t.Errorf("uncompleted word carries completion offset %d", snap.Words[0].CompleteOffset)
	}
	if snap.Words[1].CompleteOffset < 0 {
		t.Errorf("completed word has no completion offset")
	}
	if snap.Keystrokes[0].Key != "a" || snap.Keystrokes[1].Key != "b" {
		t.Errorf("keystrokes out of order: %q, %q", snap.Keystrokes[0].Key, snap.Keystrokes[1].Key)
	}
}

func TestRecorderStartDiscardsActiveSession(t *testing.T) {
	r := NewRecorderWithClock(newFakeClock().Now)
	r.Start(1)
	idx := r.AddWord("junk", 0, 0)
	r.RecordKeystroke('j', idx, true)

	// Restarting mid-session silently drops the unfinished log.
	r.Start(2)
	snap, err := r.End()
	if err != nil {
		t.Fatal(err)
	}
	if snap.Seed != 2 {
		t.Errorf("seed = %d, expected 2", snap.Seed)
	}
	if len(snap.Words) != 0 || len(snap.Keystrokes) != 0 {
		t.Errorf("discarded session leaked %d words, %d keystrokes",
			len(snap.Words), len(snap.Keystrokes))
	}
}

func TestRecorderEndWithoutStart(t *testing.T) {
	r := NewRecorderWithClock(newFakeClock().Now)
	if _, err := r.End(); err != ErrNoActiveSession {
		t.Fatalf("err = %v, expected ErrNoActiveSession", err)
	}

	r.Start(1)
	r.AddWord("w", 0, 0)
	if _, err := r.End(); err != nil {
		t.Fatal(err)
	}
	if _, err := r.End(); err != ErrNoActiveSession {
		t.Fatalf("second End: err = %v, expected ErrNoActiveSession", err)
	}
}

func TestRecorderIgnoresEventsWhenInactive(t *testing.T) {
	r := NewRecorderWithClock(newFakeClock().Now)
	if idx := r.AddWord("w", 0, 0); idx != -1 {
		t.Errorf("AddWord before Start returned index %d", idx)
	}
	r.RecordKeystroke('w', 0, true)
	r.CompleteWord(0)

	r.Start(1)
	r.AddWord("w", 0, 0)
	snap, _ := r.End()
	if snap.Stats.Total != 0 {
		t.Errorf("pre-session keystrokes leaked into the log")
	}
}

func TestRecorderOffsetsNeverDecrease(t *testing.T) {
	clk := newFakeClock()
	r := NewRecorderWithClock(clk.Now)
	r.Start(1)

	idx := r.AddWord("w", 0, 0)
	clk.Advance(100 * time.Millisecond)
	r.RecordKeystroke('w', idx, true)

	// Clock steps backwards; the recorded offset must not.
	clk.Advance(-50 * time.Millisecond)
	r.RecordKeystroke('w', idx, false)

	snap, _ := r.End()
	if snap.Keystrokes[1].Offset < snap.Keystrokes[0].Offset {
		t.Errorf("offsets decreased: %d then %d",
			snap.Keystrokes[0].Offset, snap.Keystrokes[1].Offset)
	}
}

func TestRecorderStageHighWaterMark(t *testing.T) {
	r := NewRecorderWithClock(newFakeClock().Now)
	r.Start(1)
	r.AddWord("w", 0, 0)

	r.SetStage(3)
	r.SetStage(2) // lower values never regress the mark
	snap, _ := r.End()
	if snap.Stage != 3 {
		t.Errorf("stage = %d, expected the high-water 3", snap.Stage)
	}
}
