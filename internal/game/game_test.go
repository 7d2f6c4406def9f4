package game

import (
	"testing"

	"github.com/kkurian/typeattack/internal/config"
	"github.com/kkurian/typeattack/internal/core"
)

// engineConfig builds a tuning config for driving the engine tick by tick:
// one word in flight at a time, instant emergency spawns, and a level goal
// far out of reach so completion counts and misses are the only exits.
func engineConfig() config.AttackConfig {
	cfg := config.DefaultAttackConfig()
	cfg.Field.Lanes = 4
	cfg.Field.MinClearance = 1
	cfg.Pacing.Tiers = nil
	cfg.Pacing.MinIntervalTicks = 2
	cfg.Pacing.MaxIntervalTicks = 4
	cfg.Pacing.MaxConcurrent = 1
	cfg.Pacing.MinOnScreen = 1
	cfg.Pacing.EmergencyGraceTicks = 0
	cfg.Goal.TargetWPM = 100000
	cfg.Difficulty.Enabled = false
	cfg.Difficulty.InitialLevel = 0
	cfg.Difficulty.BaseSpeed = 0.01
	cfg.Difficulty.MaxSpeed = 0.01
	return cfg
}

func newEngine(t *testing.T, seed int64, cfg config.AttackConfig) *Game {
	t.Helper()
	g := New()
	g.ResetWithConfig(core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 30, Seed: seed}, cfg)
	return g
}

// typeActive builds an input frame carrying the active word's next expected
// character, or an empty frame when nothing is typable.
func typeActive(g *Game) core.InputFrame {
	var in core.InputFrame
	if w := g.activeWord(); w != nil && w.TypedIndex < len(w.Text) {
		in.Type(rune(w.Text[w.TypedIndex]))
	}
	return in
}

func countEvents(events []core.Event, completed, advanced, over *int) {
	for _, ev := range events {
		switch ev.(type) {
		case core.EventWordCompleted:
			*completed++
		case core.EventStageAdvanced:
			*advanced++
		case core.EventGameOver:
			*over++
		}
	}
}

func TestStageAdvancesOnExactCompletionCount(t *testing.T) {
	g := newEngine(t, 42, engineConfig())
	need := StageAt(0).WordsToAdvance

	completed, advanced, over := 0, 0, 0
	for i := 0; i < 50000 && advanced == 0; i++ {
		res := g.Step(typeActive(g))
		before := completed
		countEvents(res.Events, &completed, &advanced, &over)

		if completed > before && completed < need && res.State.Stage != 0 {
			t.Fatalf("stage advanced at %d completions, threshold is %d", completed, need)
		}
	}

	if advanced != 1 {
		t.Fatalf("stage advances = %d, expected exactly 1", advanced)
	}
	if completed != need {
		t.Errorf("advance arrived at %d completions, expected %d", completed, need)
	}
	if got := g.State().Stage; got != 1 {
		t.Errorf("stage = %d after the advance, expected 1", got)
	}
	if over != 0 {
		t.Errorf("unexpected game over during a clean run")
	}
	// The transition clears the field and every pending impact with it.
	if len(g.words) != 0 || g.sched.Pending() != 0 {
		t.Errorf("field not cleared on stage advance: %d words, %d pending tasks",
			len(g.words), g.sched.Pending())
	}
}

func TestGameOverAfterCumulativeMisses(t *testing.T) {
	cfg := engineConfig()
	cfg.Difficulty.BaseSpeed = 2.0
	cfg.Difficulty.MaxSpeed = 2.0
	g := newEngine(t, 7, cfg)
	limit := cfg.Goal.MissLimit

	// Let the first five words through untyped.
	for i := 0; i < 5000 && g.Misses() < 5; i++ {
		g.Step(core.InputFrame{})
	}
	if g.Misses() != 5 {
		t.Fatalf("misses = %d, expected 5", g.Misses())
	}
	if g.State().Score != 0 {
		t.Errorf("score = %d after misses only, a miss never awards points", g.State().Score)
	}
	if g.State().GameOver {
		t.Fatal("game over below the miss limit")
	}

	// Successful completions in between must not reset the counter.
	completed, advanced, over := 0, 0, 0
	for i := 0; i < 5000 && completed < 3; i++ {
		res := g.Step(typeActive(g))
		countEvents(res.Events, &completed, &advanced, &over)
	}
	if completed != 3 {
		t.Fatalf("completed %d words in the interleaved phase, expected 3", completed)
	}
	if g.Misses() != 5 {
		t.Errorf("misses = %d after interleaved completions, the count is cumulative", g.Misses())
	}

	// Five more untyped words reach the limit.
	for i := 0; i < 5000 && over == 0; i++ {
		res := g.Step(core.InputFrame{})
		countEvents(res.Events, &completed, &advanced, &over)
	}
	if over != 1 {
		t.Fatalf("game over events = %d, expected exactly 1", over)
	}
	if g.Misses() != limit {
		t.Errorf("misses = %d at game over, expected %d", g.Misses(), limit)
	}
	if !g.State().GameOver {
		t.Fatal("state not terminal after the limit was reached")
	}
	if g.Snapshot() == nil || !g.Snapshot().Finalized() {
		t.Error("terminal state must freeze a finalized session snapshot")
	}

	// The terminal state is stable: further ticks emit nothing.
	for i := 0; i < 50; i++ {
		res := g.Step(core.InputFrame{})
		countEvents(res.Events, &completed, &advanced, &over)
	}
	if over != 1 {
		t.Errorf("game over fired again after the terminal state")
	}
}

func TestScoreCommitsOnlyOnLastImpact(t *testing.T) {
	g := newEngine(t, 11, engineConfig())

	// Drive until a word has been fully typed.
	var typed bool
	for i := 0; i < 1000 && !typed; i++ {
		g.Step(typeActive(g))
		for _, w := range g.words {
			if w.FullyTyped {
				typed = true
			}
		}
	}
	if !typed {
		t.Fatal("no word fully typed")
	}
	if g.State().Score != 0 {
		t.Fatalf("score = %d while impacts are still pending, expected 0", g.State().Score)
	}

	// Idle until the staggered pipeline commits; the committed value must be
	// exactly the one fixed at full-type time.
	var points int
	committed := false
	for i := 0; i < completionDelayTicks+10 && !committed; i++ {
		res := g.Step(core.InputFrame{})
		for _, ev := range res.Events {
			if c, ok := ev.(core.EventWordCompleted); ok {
				committed = true
				points = c.Points
			}
		}
		if !committed && res.State.Score != 0 {
			t.Fatalf("score = %d before the last impact", res.State.Score)
		}
	}
	if !committed {
		t.Fatal("completion never committed")
	}
	if points <= 0 {
		t.Errorf("committed points = %d, expected > 0", points)
	}
	if g.State().Score != points {
		t.Errorf("score = %d, expected exactly the committed %d", g.State().Score, points)
	}
}

func TestRestartAfterTerminalState(t *testing.T) {
	cfg := engineConfig()
	cfg.Difficulty.BaseSpeed = 2.0
	cfg.Difficulty.MaxSpeed = 2.0
	cfg.Goal.MissLimit = 2
	g := newEngine(t, 3, cfg)

	for i := 0; i < 5000 && !g.State().GameOver; i++ {
		g.Step(core.InputFrame{})
	}
	if !g.State().GameOver {
		t.Fatal("never reached game over")
	}

	in := core.NewInputFrame()
	in.Set(core.ActionRestart)
	res := g.Step(in)
	if res.State.GameOver {
		t.Fatal("restart did not leave the terminal state")
	}
	if res.State.Score != 0 || res.State.Stage != 0 || g.Misses() != 0 {
		t.Errorf("restart did not reset: score=%d stage=%d misses=%d",
			res.State.Score, res.State.Stage, g.Misses())
	}
}

func TestMistypeBreaksStreakNotProgress(t *testing.T) {
	g := newEngine(t, 19, engineConfig())

	// Complete a couple of words to build a streak.
	completed, advanced, over := 0, 0, 0
	for i := 0; i < 2000 && completed < 2; i++ {
		res := g.Step(typeActive(g))
		countEvents(res.Events, &completed, &advanced, &over)
	}
	if g.combo.Streak == 0 {
		t.Fatal("no streak built")
	}
	scoreBefore := g.State().Score
	stageDone := g.stageCompleted

	// A character no corpus entry starts with.
	var in core.InputFrame
	in.Type('!')
	res := g.Step(in)

	if g.combo.Streak != 0 {
		t.Errorf("streak = %d after a mismatch, expected 0", g.combo.Streak)
	}
	if res.State.Score < scoreBefore {
		t.Errorf("mismatch reduced the score from %d to %d", scoreBefore, res.State.Score)
	}
	if g.stageCompleted != stageDone {
		t.Errorf("mismatch changed the completion count")
	}
}

func TestSustainedRateCompletesLevel(t *testing.T) {
	cfg := engineConfig()
	cfg.Goal.TargetWPM = 30
	cfg.Goal.SustainSeconds = 2
	cfg.Goal.WindowSeconds = 5
	g := newEngine(t, 23, cfg)

	var levelDone int
	for i := 0; i < 20000 && levelDone == 0; i++ {
		res := g.Step(typeActive(g))
		for _, ev := range res.Events {
			if _, ok := ev.(core.EventLevelComplete); ok {
				levelDone++
			}
		}
	}

	if levelDone != 1 {
		t.Fatalf("level complete events = %d, expected exactly 1", levelDone)
	}
	if !g.State().LevelComplete {
		t.Fatal("state not terminal after level completion")
	}
	if g.Proficiency() != cfg.Goal.UnlockProficiency {
		t.Errorf("proficiency = %f, expected the unlock threshold %f",
			g.Proficiency(), cfg.Goal.UnlockProficiency)
	}
	if g.Snapshot() == nil || !g.Snapshot().Finalized() {
		t.Error("level completion must freeze a finalized session snapshot")
	}
}
