// Package storage provides SQLite-based persistence for local runs, the
// player's progress, and leaderboard entries. Uses the pure-Go
// modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Store manages the SQLite database connection.
type Store struct {
	db *sql.DB
}

// RunEntry is one finished local session.
type RunEntry struct {
	ID         int64
	Score      int
	Stage      int // 1-based stage reached
	WPM        float64
	Accuracy   float64 // 0..1
	DurationMs int64
	CreatedAt  time.Time
}

// Progress is the player's persistent progress, read at init and written at
// stage-advance and score-commit boundaries.
type Progress struct {
	StageReached int
	BestScore    int
	Proficiency  float64
	UpdatedAt    time.Time
}

// LeaderboardEntry is one accepted leaderboard score. SessionHash is unique:
// the same session can never be accepted twice.
type LeaderboardEntry struct {
	ID          int64
	UserID      string
	Initials    string
	SessionHash string
	Score       int
	Stage       int
	WPM         float64
	Accuracy    float64
	CreatedAt   time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			score INTEGER NOT NULL,
			stage INTEGER NOT NULL,
			wpm REAL NOT NULL DEFAULT 0,
			accuracy REAL NOT NULL DEFAULT 0,
			duration_ms INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_runs_top ON runs(score DESC);

		CREATE TABLE IF NOT EXISTS progress (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			stage_reached INTEGER NOT NULL DEFAULT 1,
			best_score INTEGER NOT NULL DEFAULT 0,
			proficiency REAL NOT NULL DEFAULT 0,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS leaderboard (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id TEXT NOT NULL,
			initials TEXT NOT NULL,
			session_hash TEXT NOT NULL,
			score INTEGER NOT NULL,
			stage INTEGER NOT NULL,
			wpm REAL NOT NULL,
			accuracy REAL NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE UNIQUE INDEX IF NOT EXISTS idx_leaderboard_hash ON leaderboard(session_hash);
		CREATE INDEX IF NOT EXISTS idx_leaderboard_top ON leaderboard(wpm DESC);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// parseTimestamp handles the two shapes the driver hands back for DATETIME.
func parseTimestamp(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}

// SaveRun records a finished local session. Returns the inserted ID.
func (s *Store) SaveRun(run RunEntry) (int64, error) {
	result, err := s.db.Exec(
		"INSERT INTO runs (score, stage, wpm, accuracy, duration_ms) VALUES (?, ?, ?, ?, ?)",
		run.Score, run.Stage, run.WPM, run.Accuracy, run.DurationMs,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save run: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

// TopRuns retrieves the top N local runs, ordered by score descending.
func (s *Store) TopRuns(limit int) ([]RunEntry, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT id, score, stage, wpm, accuracy, duration_ms, created_at
		 FROM runs
		 ORDER BY score DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	defer rows.Close()

	var entries []RunEntry
	for rows.Next() {
		var e RunEntry
		var createdAt any
		if err := rows.Scan(&e.ID, &e.Score, &e.Stage, &e.WPM, &e.Accuracy, &e.DurationMs, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.CreatedAt = parseTimestamp(createdAt)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return entries, nil
}

// HighScore returns the highest local score, 0 if no runs exist.
func (s *Store) HighScore() (int, error) {
	var score sql.NullInt64
	err := s.db.QueryRow("SELECT MAX(score) FROM runs").Scan(&score)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot query high score: %w", err)
	}
	if !score.Valid {
		return 0, nil
	}
	return int(score.Int64), nil
}

// LoadProgress returns the player's progress, or zero-value defaults when
// none has been saved yet.
func (s *Store) LoadProgress() (Progress, error) {
	var p Progress
	var updatedAt any
	err := s.db.QueryRow(
		"SELECT stage_reached, best_score, proficiency, updated_at FROM progress WHERE id = 1",
	).Scan(&p.StageReached, &p.BestScore, &p.Proficiency, &updatedAt)

	if err == sql.ErrNoRows {
		return Progress{StageReached: 1}, nil
	}
	if err != nil {
		return Progress{}, fmt.Errorf("storage: cannot load progress: %w", err)
	}
	p.UpdatedAt = parseTimestamp(updatedAt)
	return p, nil
}

// SaveProgress upserts the single progress row. Stage and best score only
// ever move forward; proficiency is written as given.
func (s *Store) SaveProgress(p Progress) error {
	_, err := s.db.Exec(
		`INSERT INTO progress (id, stage_reached, best_score, proficiency, updated_at)
		 VALUES (1, ?, ?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(id) DO UPDATE SET
			stage_reached = MAX(stage_reached, excluded.stage_reached),
			best_score = MAX(best_score, excluded.best_score),
			proficiency = excluded.proficiency,
			updated_at = CURRENT_TIMESTAMP`,
		p.StageReached, p.BestScore, p.Proficiency,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save progress: %w", err)
	}
	return nil
}

// SaveLeaderboardEntry inserts an accepted score. A duplicate session hash
// violates the unique index; callers detect that with IsDuplicate.
func (s *Store) SaveLeaderboardEntry(e LeaderboardEntry) (int64, error) {
	result, err := s.db.Exec(
		`INSERT INTO leaderboard (user_id, initials, session_hash, score, stage, wpm, accuracy)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.UserID, e.Initials, e.SessionHash, e.Score, e.Stage, e.WPM, e.Accuracy,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save leaderboard entry: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

// HasSessionHash reports whether the hash was already accepted.
func (s *Store) HasSessionHash(hash string) (bool, error) {
	var n int
	err := s.db.QueryRow(
		"SELECT COUNT(*) FROM leaderboard WHERE session_hash = ?", hash,
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("storage: cannot check session hash: %w", err)
	}
	return n > 0, nil
}

// TopLeaderboard retrieves the top N leaderboard entries by WPM.
func (s *Store) TopLeaderboard(limit int) ([]LeaderboardEntry, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT id, user_id, initials, session_hash, score, stage, wpm, accuracy, created_at
		 FROM leaderboard
		 ORDER BY wpm DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query leaderboard: %w", err)
	}
	defer rows.Close()

	var entries []LeaderboardEntry
	for rows.Next() {
		var e LeaderboardEntry
		var createdAt any
		if err := rows.Scan(&e.ID, &e.UserID, &e.Initials, &e.SessionHash,
			&e.Score, &e.Stage, &e.WPM, &e.Accuracy, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.CreatedAt = parseTimestamp(createdAt)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return entries, nil
}

// SubmissionsSince counts entries by one user since the cutoff; the serve
// side's rate limit reads this.
func (s *Store) SubmissionsSince(userID string, since time.Time) (int, error) {
	var n int
	err := s.db.QueryRow(
		"SELECT COUNT(*) FROM leaderboard WHERE user_id = ? AND created_at >= ?",
		userID, since.UTC().Format("2006-01-02 15:04:05"),
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot count submissions: %w", err)
	}
	return n, nil
}

// ClearRuns deletes all local runs.
func (s *Store) ClearRuns() error {
	_, err := s.db.Exec("DELETE FROM runs")
	if err != nil {
		return fmt.Errorf("storage: cannot clear runs: %w", err)
	}
	return nil
}
