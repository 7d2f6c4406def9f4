// Package session records one play session as an append-only log and turns
// it into the verifiable snapshot a remote leaderboard can independently
// validate.
package session

import (
	"errors"
	"time"
)

// ErrNoActiveSession is returned by End when no session is running.
var ErrNoActiveSession = errors.New("session: no active session")

// WordRecord is the spawn descriptor for one word.
type WordRecord struct {
	Text           string  `json:"text"`
	SpawnOffset    int64   `json:"spawnTime"`     // ms since session start
	CompleteOffset int64   `json:"completedTime"` // ms since session start; -1 if never completed
	X              float64 `json:"x"`
	Lane           int     `json:"y"`
}

// KeystrokeRecord is one processed printable keystroke.
type KeystrokeRecord struct {
	Key       string `json:"key"`
	Offset    int64  `json:"timestamp"` // ms since session start
	WordIndex int    `json:"wordIndex"`
	Correct   bool   `json:"correct"`
}

// Stats holds the derived end-of-session statistics.
type Stats struct {
	WPM            float64 `json:"wpm"`      // words completed per minute of play
	Accuracy       float64 `json:"accuracy"` // correct / total keystrokes, 0..1
	WordsCompleted int     `json:"wordsCompleted"`
	Correct        int     `json:"correctKeystrokes"`
	Total          int     `json:"totalKeystrokes"`
	DurationMs     int64   `json:"durationMs"`
}

// Snapshot is the frozen, serializable record of one session. It is never
// mutated after End returns it.
type Snapshot struct {
	Seed       int64             `json:"seed"`
	Stage      int               `json:"stage"` // 1-based, stage reached
	StartedAt  time.Time         `json:"-"`
	EndedAt    time.Time         `json:"-"`
	Words      []WordRecord      `json:"words"`
	Keystrokes []KeystrokeRecord `json:"keystrokes"`
	Stats      Stats             `json:"stats"`

	finalized bool
}

// Finalized reports whether the snapshot came from a completed End call.
func (s *Snapshot) Finalized() bool {
	return s != nil && s.finalized
}

// Recorder accumulates the append-only log for exactly one active session.
// It is not safe for two concurrently active sessions; callers serialize
// Start/End from the single tick loop.
type Recorder struct {
	clock func() time.Time

	active     bool
	seed       int64
	stage      int
	start      time.Time
	lastOffset int64

	words      []WordRecord
	keystrokes []KeystrokeRecord

	correct   int
	total     int
	completed int
}

// NewRecorder creates a recorder using the wall clock.
func NewRecorder() *Recorder {
	return NewRecorderWithClock(time.Now)
}

// NewRecorderWithClock creates a recorder with an injected clock, for
// deterministic tests.
func NewRecorderWithClock(clock func() time.Time) *Recorder {
	return &Recorder{clock: clock}
}

// Active reports whether a session is currently recording.
func (r *Recorder) Active() bool {
	return r.active
}

// Start begins a new session with the given seed, resetting all buffers.
// Calling it while another session is active silently discards the
// unfinished one.
func (r *Recorder) Start(seed int64) {
	r.active = true
	r.seed = seed
	r.stage = 1
	r.start = r.clock()
	r.lastOffset = 0
	r.words = nil
	r.keystrokes = nil
	r.correct = 0
	r.total = 0
	r.completed = 0
}

// SetStage records the highest stage reached, 1-based.
func (r *Recorder) SetStage(stage int) {
	if stage > r.stage {
		r.stage = stage
	}
}

// offset returns ms since session start, clamped so recorded offsets are
// non-decreasing even if the wall clock steps backwards.
func (r *Recorder) offset() int64 {
	ms := r.clock().Sub(r.start).Milliseconds()
	if ms < r.lastOffset {
		ms = r.lastOffset
	}
	r.lastOffset = ms
	return ms
}

// AddWord appends a spawn descriptor and returns its correlation index.
func (r *Recorder) AddWord(text string, x float64, lane int) int {
	if !r.active {
		return -1
	}
	r.words = append(r.words, WordRecord{
		Text:           text,
		SpawnOffset:    r.offset(),
		CompleteOffset: -1,
		X:              x,
		Lane:           lane,
	})
	return len(r.words) - 1
}

// RecordKeystroke appends a keystroke descriptor and updates running totals.
func (r *Recorder) RecordKeystroke(key rune, wordIndex int, correct bool) {
	if !r.active {
		return
	}
	r.keystrokes = append(r.keystrokes, KeystrokeRecord{
		Key:       string(key),
		Offset:    r.offset(),
		WordIndex: wordIndex,
		Correct:   correct,
	})
	r.total++
	if correct {
		r.correct++
	}
}

// CompleteWord stamps the completion offset for the given correlation index.
func (r *Recorder) CompleteWord(wordIndex int) {
	if !r.active || wordIndex < 0 || wordIndex >= len(r.words) {
		return
	}
	r.words[wordIndex].CompleteOffset = r.offset()
	r.completed++
}

// End freezes the log, derives the session statistics, and returns the
// immutable snapshot.
func (r *Recorder) End() (*Snapshot, error) {
	if !r.active {
		return nil, ErrNoActiveSession
	}
	r.active = false

	end := r.clock()
	durationMs := end.Sub(r.start).Milliseconds()
	if durationMs < r.lastOffset {
		durationMs = r.lastOffset
	}

	stats := Stats{
		WordsCompleted: r.completed,
		Correct:        r.correct,
		Total:          r.total,
		DurationMs:     durationMs,
	}
	if minutes := float64(durationMs) / 60000.0; minutes > 0 {
		stats.WPM = float64(r.completed) / minutes
	}
	if r.total > 0 {
		stats.Accuracy = float64(r.correct) / float64(r.total)
	}

	words := make([]WordRecord, len(r.words))
	copy(words, r.words)
	keystrokes := make([]KeystrokeRecord, len(r.keystrokes))
	copy(keystrokes, r.keystrokes)

	return &Snapshot{
		Seed:       r.seed,
		Stage:      r.stage,
		StartedAt:  r.start,
		EndedAt:    end,
		Words:      words,
		Keystrokes: keystrokes,
		Stats:      stats,
		finalized:  true,
	}, nil
}
