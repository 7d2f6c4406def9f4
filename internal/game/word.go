package game

// Word is one scrolling target. It is created by the spawner and destroyed
// either by its last-letter impact (score path) or by crossing the kill edge
// (miss path).
type Word struct {
	ID          int
	Text        string
	Lane        int     // Spawn row; never changes
	SpawnX      float64 // X at spawn time
	X           float64 // Current position, advanced each tick by stage speed
	PrevX       float64 // Position on the previous tick
	TypedIndex  int     // Matched characters so far, in [0, len(Text)]
	Active      bool    // The single rightmost incomplete word
	FullyTyped  bool    // All characters matched; completion effects pending
	Completed   bool    // Removed via the score path
	RecordIndex int     // Correlation index in the session recorder
}

// NextChar returns the next expected character, or false if the word is
// fully typed.
func (w *Word) NextChar() (byte, bool) {
	if w.TypedIndex >= len(w.Text) {
		return 0, false
	}
	return w.Text[w.TypedIndex], true
}

// Incomplete reports whether the word still accepts keystrokes.
func (w *Word) Incomplete() bool {
	return !w.FullyTyped && !w.Completed
}

// LetterX returns the current on-screen column of the i-th letter.
// Recomputed at effect-fire time because the word keeps scrolling while
// impacts are pending.
func (w *Word) LetterX(i int) int {
	return int(w.X) + i
}
