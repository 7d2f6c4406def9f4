package core

// Event is a structured state-change notification emitted by a game step.
// The presentation and audio layers subscribe to these; the engine holds no
// reference to any rendering or sound technology.
type Event interface {
	// Kind returns a stable identifier for the event variant.
	Kind() string
}

// EventWordSpawned fires when a new word enters the field.
type EventWordSpawned struct {
	WordID int
	Text   string
	Lane   int
}

func (EventWordSpawned) Kind() string { return "word_spawned" }

// EventWordMissed fires when an uncompleted word crosses the kill edge.
type EventWordMissed struct {
	WordID int
	Text   string
	Misses int // Cumulative miss count after this miss
}

func (EventWordMissed) Kind() string { return "word_missed" }

// EventWordCompleted fires when the last-letter impact removes a word and
// commits its score.
type EventWordCompleted struct {
	WordID int
	Text   string
	Points int
}

func (EventWordCompleted) Kind() string { return "word_completed" }

// EventKeystroke fires for every processed printable keystroke.
type EventKeystroke struct {
	Key     rune
	Correct bool
	Streak  int
}

func (EventKeystroke) Kind() string { return "keystroke" }

// EventImpact fires for each staggered per-letter impact, including the
// cosmetic ones. X and Y are the letter's on-screen position at fire time.
type EventImpact struct {
	WordID int
	Letter rune
	X, Y   int
	Last   bool
}

func (EventImpact) Kind() string { return "impact" }

// EventMultiplierChanged fires once per hot-streak tier crossing.
type EventMultiplierChanged struct {
	Multiplier int
}

func (EventMultiplierChanged) Kind() string { return "multiplier_changed" }

// EventHotStreakEnded fires when an active hot streak is flushed into score.
type EventHotStreakEnded struct {
	Bonus int // Points flushed into score
}

func (EventHotStreakEnded) Kind() string { return "hot_streak_ended" }

// EventStageAdvanced fires when the stage index moves forward.
type EventStageAdvanced struct {
	From int
	To   int
}

func (EventStageAdvanced) Kind() string { return "stage_advanced" }

// EventGameOver fires once when the miss threshold is reached.
type EventGameOver struct {
	Score  int
	Worthy bool // Whether the run qualifies for leaderboard submission
}

func (EventGameOver) Kind() string { return "game_over" }

// EventLevelComplete fires once when the sustained-WPM goal is met.
type EventLevelComplete struct {
	Score int
	WPM   float64
}

func (EventLevelComplete) Kind() string { return "level_complete" }

// EventScoreCommitted fires whenever points land in the score, with the
// position the feedback popup should appear at.
type EventScoreCommitted struct {
	Points int
	X, Y   int
}

func (EventScoreCommitted) Kind() string { return "score_committed" }
