// Package storage provides SQLite-based persistence for finished rescue runs.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

const sqliteTime = "2006-01-02 15:04:05"

// Store manages the SQLite database connection for run records.
type Store struct {
	db *sql.DB
}

// RunRecord is one finished attempt. Mission state itself is never stored.
type RunRecord struct {
	ID         int64
	Scenario   string
	Difficulty string
	Outcome    string // "WIN" or "LOSE"
	Reason     string // Lose reason, empty on a win
	Score      int
	TimeLeft   float64
	Elapsed    float64
	ProbesUsed int
	Seed       int64
	Source     string // "play", "sim", "ssh"
	CreatedAt  time.Time
}

// Won reports whether the run ended in a rescue.
func (r RunRecord) Won() bool {
	return r.Outcome == "WIN"
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
			scenario TEXT NOT NULL,
			difficulty TEXT NOT NULL DEFAULT 'normal',
			outcome TEXT NOT NULL,
			reason TEXT NOT NULL DEFAULT '',
			score INTEGER NOT NULL DEFAULT 0,
			time_left REAL NOT NULL DEFAULT 0,
			elapsed REAL NOT NULL DEFAULT 0,
			probes_used INTEGER NOT NULL DEFAULT 0,
			seed INTEGER NOT NULL DEFAULT 0,
			source TEXT NOT NULL DEFAULT 'play',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_runs_scenario ON runs(scenario);
		CREATE INDEX IF NOT EXISTS idx_runs_top ON runs(scenario, score DESC);
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

// SaveRun records a finished run.
// Returns the ID of the inserted record.
func (s *Store) SaveRun(r RunRecord) (int64, error) {
	if r.Scenario == "" || r.Outcome == "" {
		return 0, errors.New("storage: run needs a scenario and an outcome")
	}
	if r.Difficulty == "" {
		r.Difficulty = "normal"
	}
	if r.Source == "" {
		r.Source = "play"
	}

	result, err := s.db.Exec(
		`INSERT INTO runs
		 (scenario, difficulty, outcome, reason, score, time_left, elapsed, probes_used, seed, source)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.Scenario, r.Difficulty, r.Outcome, r.Reason, r.Score,
		r.TimeLeft, r.Elapsed, r.ProbesUsed, r.Seed, r.Source,
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

const runColumns = `id, scenario, difficulty, outcome, reason, score,
		        time_left, elapsed, probes_used, seed, source, created_at`

// RecentRuns retrieves the most recent runs, newest first.
// An empty scenario matches every scenario.
func (s *Store) RecentRuns(scenario string, limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT `+runColumns+`
		 FROM runs
		 WHERE ? = '' OR scenario = ?
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`,
		scenario, scenario, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	return scanRuns(rows)
}

// BestRuns retrieves the highest-scoring rescues for a scenario.
func (s *Store) BestRuns(scenario string, limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT `+runColumns+`
		 FROM runs
		 WHERE outcome = 'WIN' AND (? = '' OR scenario = ?)
		 ORDER BY score DESC, elapsed ASC
		 LIMIT ?`,
		scenario, scenario, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query best runs: %w", err)
	}
	return scanRuns(rows)
}

func scanRuns(rows *sql.Rows) ([]RunRecord, error) {
	defer rows.Close()

	var runs []RunRecord
	for rows.Next() {
		var r RunRecord
		var createdAt any
		if err := rows.Scan(
			&r.ID,
			&r.Scenario,
			&r.Difficulty,
			&r.Outcome,
			&r.Reason,
			&r.Score,
			&r.TimeLeft,
			&r.Elapsed,
			&r.ProbesUsed,
			&r.Seed,
			&r.Source,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		r.CreatedAt = parseTime(createdAt)
		runs = append(runs, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return runs, nil
}

// parseTime handles both time.Time and string datetimes from the driver.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse(sqliteTime, t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}

// HighScore returns the highest score for the given scenario.
// Returns 0 if no rescues exist.
func (s *Store) HighScore(scenario string) (int, error) {
	var score sql.NullInt64
	err := s.db.QueryRow(
		"SELECT MAX(score) FROM runs WHERE scenario = ? AND outcome = 'WIN'",
		scenario,
	).Scan(&score)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot query high score: %w", err)
	}

	if !score.Valid {
		return 0, nil
	}
	return int(score.Int64), nil
}

// ClearRuns deletes all runs for the given scenario.
func (s *Store) ClearRuns(scenario string) error {
	_, err := s.db.Exec("DELETE FROM runs WHERE scenario = ?", scenario)
	if err != nil {
		return fmt.Errorf("storage: cannot clear runs: %w", err)
	}
	return nil
}

// ScenarioStats contains aggregated statistics for a scenario.
type ScenarioStats struct {
	Scenario     string
	Runs         int
	Wins         int
	DangerLosses int
	TimerLosses  int
	HighScore    int
	AvgWinTime   float64 // Mean elapsed seconds over rescues
	LastPlayed   time.Time
}

// WinRate returns the fraction of runs that ended in a rescue.
func (st ScenarioStats) WinRate() float64 {
	if st.Runs == 0 {
		return 0
	}
	return float64(st.Wins) / float64(st.Runs)
}

const statsQuery = `SELECT scenario,
		        COUNT(*),
		        COALESCE(SUM(outcome = 'WIN'), 0),
		        COALESCE(SUM(outcome = 'LOSE' AND reason = 'DANGER'), 0),
		        COALESCE(SUM(outcome = 'LOSE' AND reason = 'TIMER'), 0),
		        COALESCE(MAX(CASE WHEN outcome = 'WIN' THEN score END), 0),
		        COALESCE(AVG(CASE WHEN outcome = 'WIN' THEN elapsed END), 0),
		        MAX(created_at)
		 FROM runs`

// Stats retrieves aggregated statistics for one scenario.
func (s *Store) Stats(scenario string) (*ScenarioStats, error) {
	rows, err := s.db.Query(statsQuery+` WHERE scenario = ? GROUP BY scenario`, scenario)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get scenario stats: %w", err)
	}
	stats, err := scanStats(rows)
	if err != nil {
		return nil, err
	}
	if st, ok := stats[scenario]; ok {
		return st, nil
	}
	return &ScenarioStats{Scenario: scenario}, nil
}

// AllStats retrieves statistics for every scenario that has been played.
func (s *Store) AllStats() (map[string]*ScenarioStats, error) {
	rows, err := s.db.Query(statsQuery + ` GROUP BY scenario`)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get all scenario stats: %w", err)
	}
	return scanStats(rows)
}

func scanStats(rows *sql.Rows) (map[string]*ScenarioStats, error) {
	defer rows.Close()

	stats := make(map[string]*ScenarioStats)
	for rows.Next() {
		var st ScenarioStats
		var lastPlayed any
		if err := rows.Scan(
			&st.Scenario,
			&st.Runs,
			&st.Wins,
			&st.DangerLosses,
			&st.TimerLosses,
			&st.HighScore,
			&st.AvgWinTime,
			&lastPlayed,
		); err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}
		st.LastPlayed = parseTime(lastPlayed)
		stats[st.Scenario] = &st
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return stats, nil
}
