// Package game implements the typeattack gameplay engine: word spawning and
// pacing, keystroke matching, combo scoring, staggered completion effects,
// the stage/session state machine, and the session recording that makes a
// finished run verifiable.
package game

import (
	"fmt"
	"math/rand"

	"github.com/kkurian/typeattack/internal/config"
	"github.com/kkurian/typeattack/internal/core"
	"github.com/kkurian/typeattack/internal/session"
)

// phase is the engine's position in the stage/session state machine.
type phase int

const (
	phasePlaying phase = iota
	phaseTransition
	phaseGameOver
	phaseLevelComplete
)

const (
	transitionTicks = 60 // fixed-duration stage notice window
	popupTicks      = 30 // feedback popup lifetime
)

// popup is a transient score feedback marker.
type popup struct {
	text  string
	x, y  int
	until uint64
}

// Package-level variables for config/difficulty, set by the CLI before the
// game is created.
var (
	configPath       string
	difficultyPreset string
)

// SetConfigPath sets the config file path.
func SetConfigPath(path string) {
	configPath = path
}

// SetDifficultyPreset sets the difficulty preset.
func SetDifficultyPreset(preset string) {
	difficultyPreset = preset
}

// Game implements the typing shooter.
type Game struct {
	cfg  config.AttackConfig
	diff *config.DifficultyManager
	rng  *rand.Rand

	tick     uint64
	tickRate int
	score    int

	screenW, screenH int
	tooSmall         bool
	paused           bool

	phase           phase
	stageIdx        int
	stageCompleted  int // words completed on the current stage
	speed           float64
	misses          int // cumulative kill-edge misses, never reset by successes
	transitionUntil uint64

	words      []*Word
	nextWordID int

	lanes    *laneAllocator
	pacing   *PacingController
	combo    *ComboState
	sched    *Scheduler
	wpm      *WPMTracker
	recorder *session.Recorder

	proficiency float64
	popups      []popup

	snapshot *session.Snapshot
	worthy   bool

	events []core.Event
}

// New creates a new typing shooter game.
func New() *Game {
	return &Game{}
}

// ID returns the game identifier.
func (g *Game) ID() string {
	return "attack"
}

// Title returns the display name.
func (g *Game) Title() string {
	return "Type Attack"
}

// Reset initializes/restarts the game and starts a fresh recorded session.
func (g *Game) Reset(cfg core.RuntimeConfig) {
	attackCfg, err := config.LoadAttack(configPath)
	if err != nil {
		attackCfg = config.DefaultAttackConfig()
	}
	if difficultyPreset != "" {
		config.ApplyPreset(&attackCfg, config.DifficultyPreset(difficultyPreset))
	}
	g.ResetWithConfig(cfg, attackCfg)
}

// ResetWithConfig is Reset with an explicit tuning config, used by tests and
// by callers that already loaded one.
func (g *Game) ResetWithConfig(cfg core.RuntimeConfig, attackCfg config.AttackConfig) {
	g.cfg = attackCfg
	g.diff = config.NewDifficultyManager(attackCfg.Difficulty)
	g.rng = rand.New(rand.NewSource(cfg.Seed))
	g.tick = 0
	g.tickRate = cfg.TickRate
	if g.tickRate <= 0 {
		g.tickRate = core.DefaultConfig().TickRate
	}
	g.score = 0
	g.screenW = cfg.ScreenW
	g.screenH = cfg.ScreenH
	g.paused = false

	g.phase = phasePlaying
	g.stageIdx = 0
	g.stageCompleted = 0
	g.misses = 0
	g.transitionUntil = 0

	g.words = nil
	g.nextWordID = 1

	g.lanes = newLaneAllocator(attackCfg.Field, g.rng)
	g.pacing = NewPacingController(attackCfg.Pacing, g.tickRate)
	g.combo = NewComboState(attackCfg.Combo)
	g.sched = NewScheduler()
	g.wpm = NewWPMTracker(attackCfg.Goal.WindowSeconds, g.tickRate)
	if g.recorder == nil {
		g.recorder = session.NewRecorder()
	}
	// Starting a session while another is active discards the unfinished one.
	g.recorder.Start(cfg.Seed)

	g.proficiency = 0
	g.popups = nil
	g.snapshot = nil
	g.worthy = false
	g.events = nil

	g.applyStage()

	g.tooSmall = g.screenW < 40 || g.screenH < g.cfg.Field.TopMargin+g.cfg.Field.Lanes+2
}

// SetRecorder swaps the session recorder, used by tests to inject a
// deterministic clock. Must be called before Reset.
func (g *Game) SetRecorder(r *session.Recorder) {
	g.recorder = r
}

// applyStage recomputes the stage-scaled speed and resets per-stage state.
func (g *Game) applyStage() {
	spec := StageAt(g.stageIdx)
	g.speed = g.diff.Speed(g.stageIdx, spec.Tier == TierLetters)
	g.stageCompleted = 0
	g.recorder.SetStage(g.stageIdx + 1)
}

// killEdgeX returns the column an uncompleted word must not reach.
func (g *Game) killEdgeX() int {
	return g.screenW - 2
}

func (g *Game) laneY(lane int) int {
	return g.cfg.Field.TopMargin + lane
}

func (g *Game) emit(ev core.Event) {
	g.events = append(g.events, ev)
}

func (g *Game) hasWord(w *Word) bool {
	for _, x := range g.words {
		if x == w {
			return true
		}
	}
	return false
}

func (g *Game) removeWord(w *Word) {
	g.sched.CancelGroup(w.ID)
	for i, x := range g.words {
		if x == w {
			g.words = append(g.words[:i], g.words[i+1:]...)
			return
		}
	}
}

func (g *Game) addPopup(points, x, y int) {
	g.popups = append(g.popups, popup{
		text:  fmt.Sprintf("+%d", points),
		x:     x,
		y:     y,
		until: g.tick + popupTicks,
	})
}

// terminal reports whether the session has ended.
func (g *Game) terminal() bool {
	return g.phase == phaseGameOver || g.phase == phaseLevelComplete
}

// Step advances the game by one fixed tick. Order within the tick: pending
// effects, phase timers, spawn decision, word-position update, active-word
// recomputation, then keystrokes against whichever word is active at
// dispatch time.
func (g *Game) Step(input core.InputFrame) core.StepResult {
	g.events = nil

	if input.Has(core.ActionRestart) && g.terminal() {
		g.Reset(core.RuntimeConfig{
			Seed:     g.rng.Int63(),
			ScreenW:  g.screenW,
			ScreenH:  g.screenH,
			TickRate: g.tickRate,
		})
		return g.result()
	}

	if input.Has(core.ActionPause) && !g.terminal() {
		g.paused = !g.paused
	}

	if g.terminal() || g.paused || g.tooSmall {
		return g.result()
	}

	g.tick++
	g.sched.Advance()

	// The last impact of a stage may have moved us into a terminal state or
	// a transition; nothing else happens this tick.
	if g.terminal() {
		return g.result()
	}

	if g.phase == phaseTransition {
		if g.tick >= g.transitionUntil {
			g.phase = phasePlaying
			g.pacing.Resume(g.tick)
		}
		g.expirePopups()
		return g.result()
	}

	g.maybeSpawn()
	g.advanceWords()
	if g.terminal() { // miss threshold crossed
		return g.result()
	}
	g.recomputeActive()
	g.processTyping(input)
	g.expirePopups()

	if g.wpm.Sustained(g.tick, g.cfg.Goal.TargetWPM, g.cfg.Goal.SustainSeconds) {
		g.enterLevelComplete()
	}

	return g.result()
}

func (g *Game) result() core.StepResult {
	return core.StepResult{State: g.State(), Events: g.events}
}

func (g *Game) expirePopups() {
	live := g.popups[:0]
	for _, p := range g.popups {
		if p.until > g.tick {
			live = append(live, p)
		}
	}
	g.popups = live
}

// maybeSpawn asks the pacing controller whether to spawn this tick.
func (g *Game) maybeSpawn() {
	typable := 0
	for _, w := range g.words {
		if w.Incomplete() {
			typable++
		}
	}
	if !g.pacing.ShouldSpawn(g.tick, len(g.words), typable) {
		return
	}
	g.spawnWord()
	g.pacing.Spawned(g.tick)
}

func (g *Game) spawnWord() {
	corpus := CorpusFor(StageAt(g.stageIdx).CorpusKey)
	text := corpus[g.rng.Intn(len(corpus))]
	lane := g.lanes.pick(g.words)

	w := &Word{
		ID:     g.nextWordID,
		Text:   text,
		Lane:   lane,
		SpawnX: 0,
		X:      0,
		PrevX:  0,
	}
	g.nextWordID++
	w.RecordIndex = g.recorder.AddWord(text, w.X, lane)
	g.words = append(g.words, w)

	g.emit(core.EventWordSpawned{WordID: w.ID, Text: text, Lane: lane})
}

// advanceWords scrolls every word toward the kill edge and handles misses.
// Fully typed words keep scrolling while their impacts are pending but can
// no longer be missed.
func (g *Game) advanceWords() {
	edge := float64(g.killEdgeX())
	for _, w := range append([]*Word(nil), g.words...) {
		w.PrevX = w.X
		w.X += g.speed

		if w.Incomplete() && w.X+float64(len(w.Text)) >= edge {
			g.missWord(w)
			if g.terminal() {
				return
			}
		}
	}
}

// missWord handles a word crossing the kill edge: the miss path never
// increments score.
func (g *Game) missWord(w *Word) {
	g.removeWord(w)
	g.misses++

	if flushed, ended := g.combo.Break(); ended {
		g.score += flushed
		g.emit(core.EventHotStreakEnded{Bonus: flushed})
	}

	g.emit(core.EventWordMissed{WordID: w.ID, Text: w.Text, Misses: g.misses})

	if g.misses >= g.cfg.Goal.MissLimit {
		g.enterGameOver()
	}
}

// recomputeActive marks the single rightmost incomplete word active.
func (g *Game) recomputeActive() {
	var active *Word
	for _, w := range g.words {
		w.Active = false
		if !w.Incomplete() {
			continue
		}
		if active == nil || w.X > active.X {
			active = w
		}
	}
	if active != nil {
		active.Active = true
	}
}

func (g *Game) activeWord() *Word {
	for _, w := range g.words {
		if w.Active {
			return w
		}
	}
	return nil
}

// processTyping runs the keystroke matcher over this frame's input.
// Keystrokes are processed synchronously against whichever word is active
// at dispatch time; completing a word promotes the next rightmost word
// before later keystrokes are matched.
func (g *Game) processTyping(input core.InputFrame) {
	for i := 0; i < input.Backspaces; i++ {
		if w := g.activeWord(); w != nil && w.TypedIndex > 0 {
			// Not counted as a statistic
			w.TypedIndex--
		}
	}

	for _, r := range input.Runes {
		g.matchKeystroke(r)
	}
}

// matchKeystroke validates one printable character, case-sensitive and
// exact, against the active word's next expected character.
func (g *Game) matchKeystroke(r rune) {
	w := g.activeWord()
	if w == nil {
		// Nothing to type: still a mismatch for combo purposes
		g.recorder.RecordKeystroke(r, -1, false)
		g.breakCombo(r)
		return
	}

	expected, ok := w.NextChar()
	if ok && rune(expected) == r {
		g.recorder.RecordKeystroke(r, w.RecordIndex, true)
		g.pacing.RecordChar(g.tick)
		if mult := g.combo.OnCorrect(); mult > 0 {
			g.emit(core.EventMultiplierChanged{Multiplier: mult})
		}
		g.emit(core.EventKeystroke{Key: r, Correct: true, Streak: g.combo.Streak})

		w.TypedIndex++
		if w.TypedIndex >= len(w.Text) {
			w.FullyTyped = true
			w.Active = false
			g.queueCompletionEffects(w)
			g.recomputeActive()
		}
		return
	}

	g.recorder.RecordKeystroke(r, w.RecordIndex, false)
	g.breakCombo(r)
}

func (g *Game) breakCombo(r rune) {
	if flushed, ended := g.combo.Break(); ended {
		g.score += flushed
		g.emit(core.EventHotStreakEnded{Bonus: flushed})
	}
	g.emit(core.EventKeystroke{Key: r, Correct: false, Streak: 0})
}

// checkStageAdvance moves the state machine to the transition notice when
// the per-stage completion count reaches the stage's threshold. The stage
// index never decreases and advances exactly one step at a time.
func (g *Game) checkStageAdvance() {
	if g.stageCompleted < StageAt(g.stageIdx).WordsToAdvance {
		return
	}

	from := g.stageIdx
	g.stageIdx++
	g.emit(core.EventStageAdvanced{From: from, To: g.stageIdx})

	// Cancel and clear all in-flight words before the notice window.
	g.clearField()
	g.applyStage()
	g.pacing.Suspend()
	g.phase = phaseTransition
	g.transitionUntil = g.tick + transitionTicks
}

// clearField synchronously cancels every pending per-word timer, then drops
// the word list.
func (g *Game) clearField() {
	g.sched.CancelAll()
	g.words = nil
}

// finishSession flushes any active hot streak, freezes the recorder, and
// caches the snapshot for the submission path.
func (g *Game) finishSession() {
	if flushed, ended := g.combo.FlushFinal(); ended {
		g.score += flushed
		g.emit(core.EventHotStreakEnded{Bonus: flushed})
	}

	g.clearField()
	g.pacing.Suspend()

	snap, err := g.recorder.End()
	if err != nil {
		return
	}
	g.snapshot = snap
	g.worthy = leaderboardWorthy(g.cfg.Worthiness, g.stageIdx, snap.Stats)
}

func (g *Game) enterGameOver() {
	if g.terminal() {
		return
	}
	g.phase = phaseGameOver
	g.finishSession()
	g.emit(core.EventGameOver{Score: g.score, Worthy: g.worthy})
}

func (g *Game) enterLevelComplete() {
	if g.terminal() {
		return
	}
	g.phase = phaseLevelComplete
	g.proficiency = g.cfg.Goal.UnlockProficiency
	wpm := g.wpm.WPM(g.tick)
	g.finishSession()
	g.emit(core.EventLevelComplete{Score: g.score, WPM: wpm})
}

// leaderboardWorthy gates the submission offer: any of the threshold
// combinations qualifies the run.
func leaderboardWorthy(cfg config.WorthinessConfig, stageIdx int, stats session.Stats) bool {
	if stageIdx+1 >= cfg.MinStage {
		return true
	}
	if stats.WPM >= cfg.MinWPM && stats.Accuracy >= cfg.MinAccuracy {
		return true
	}
	seconds := float64(stats.DurationMs) / 1000.0
	return seconds >= cfg.MinDurationSeconds && stats.WPM >= cfg.DurationWPM
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	return core.GameState{
		Score:         g.score,
		Stage:         g.stageIdx,
		GameOver:      g.phase == phaseGameOver,
		LevelComplete: g.phase == phaseLevelComplete,
		Paused:        g.paused,
	}
}

// Snapshot returns the finalized session snapshot, or nil before a terminal
// state.
func (g *Game) Snapshot() *session.Snapshot {
	return g.snapshot
}

// Worthy reports whether the finished run qualifies for submission.
func (g *Game) Worthy() bool {
	return g.worthy
}

// Proficiency returns the player's proficiency, force-set to the unlock
// threshold on level completion.
func (g *Game) Proficiency() float64 {
	return g.proficiency
}

// Misses returns the cumulative kill-edge miss count.
func (g *Game) Misses() int {
	return g.misses
}
