package game

import "github.com/kkurian/typeattack/internal/core"

// Timing of the completion pipeline, in simulation ticks.
const (
	completionDelayTicks = 4 // last correct letter stays visible before impacts
	impactStaggerTicks   = 2
)

// queueCompletionEffects schedules one staggered impact per letter of a
// fully typed word. The point value is fixed now; only the last letter's
// impact removes the word and commits it. All handles are registered under
// the word's ID so a stage reset can cancel them as a set.
func (g *Game) queueCompletionEffects(w *Word) {
	points := wordPointValue(g.cfg.Scoring, w, g.stageIdx, g.killEdgeX(), g.combo.Streak)

	letters := []rune(w.Text)
	for i := range letters {
		i := i
		last := i == len(letters)-1
		delay := completionDelayTicks + i*impactStaggerTicks
		g.sched.After(w.ID, delay, func() {
			g.fireImpact(w, i, points, last)
		})
	}
}

// fireImpact runs one scheduled per-letter impact. The letter position is
// recomputed at fire time because the word keeps scrolling while impacts
// are pending. If the word was already destroyed this is a no-op.
func (g *Game) fireImpact(w *Word, letter, points int, last bool) {
	if w.Completed || !g.hasWord(w) {
		return
	}

	letters := []rune(w.Text)
	if letter >= len(letters) {
		return
	}

	x := w.LetterX(letter)
	y := g.laneY(w.Lane)
	g.emit(core.EventImpact{WordID: w.ID, Letter: letters[letter], X: x, Y: y, Last: last})

	if !last {
		return // cosmetic
	}

	// Last-letter impact: destroy the word and commit its score.
	w.Completed = true
	g.removeWord(w)
	g.score += points
	g.recorder.CompleteWord(w.RecordIndex)
	g.stageCompleted++
	g.wpm.RecordWord(g.tick)
	g.addPopup(points, x, y)

	g.emit(core.EventWordCompleted{WordID: w.ID, Text: w.Text, Points: points})
	g.emit(core.EventScoreCommitted{Points: points, X: x, Y: y})

	g.checkStageAdvance()
}
