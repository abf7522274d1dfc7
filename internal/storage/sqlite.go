// Package storage provides SQLite-based persistence for finished games and
// per-player statistics.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// sqliteTimeLayout is how SQLite's CURRENT_TIMESTAMP renders.
const sqliteTimeLayout = "2006-01-02 15:04:05"

// Store manages the SQLite database connection.
type Store struct {
	db *sql.DB
}

// ScoreEntry represents a single finished game.
type ScoreEntry struct {
	ID        int64
	RunID     string
	Identity  string
	Score     int
	MaxTile   int
	CreatedAt time.Time
}

// UserStats is the aggregated record for one player.
type UserStats struct {
	Identity          string
	Nickname          string
	HighScore         int
	HighestTile       int
	GamesPlayed       int
	LastPlayed        time.Time
	ShowInLeaderboard bool
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

	// Create parent directories
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	// SQLite allows one writer; a single connection serializes writes
	// from concurrent SSH sessions instead of failing with SQLITE_BUSY.
	db.SetMaxOpenConns(1)

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
		CREATE TABLE IF NOT EXISTS scores (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL UNIQUE,
			identity TEXT NOT NULL,
			score INTEGER NOT NULL,
			max_tile INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_scores_identity ON scores(identity);
		CREATE INDEX IF NOT EXISTS idx_scores_top ON scores(identity, score DESC);

		CREATE TABLE IF NOT EXISTS user_stats (
			identity TEXT PRIMARY KEY,
			nickname TEXT NOT NULL DEFAULT '',
			high_score INTEGER NOT NULL DEFAULT 0,
			highest_tile INTEGER NOT NULL DEFAULT 0,
			games_played INTEGER NOT NULL DEFAULT 0,
			last_played DATETIME DEFAULT CURRENT_TIMESTAMP,
			show_in_leaderboard INTEGER NOT NULL DEFAULT 1
		);
		CREATE INDEX IF NOT EXISTS idx_user_stats_high ON user_stats(high_score DESC);
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

// RecordGame stores a finished game and folds it into the player's stats.
// High score and highest tile only ever increase.
func (s *Store) RecordGame(identity string, score, highestTile int) error {
	if identity == "" {
		return errors.New("storage: identity must not be empty")
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // No-op after commit

	_, err = tx.Exec(
		"INSERT INTO scores (run_id, identity, score, max_tile) VALUES (?, ?, ?, ?)",
		uuid.NewString(), identity, score, highestTile,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save score: %w", err)
	}

	_, err = tx.Exec(
		`INSERT INTO user_stats (identity, nickname, high_score, highest_tile, games_played, last_played)
		 VALUES (?, ?, ?, ?, 1, CURRENT_TIMESTAMP)
		 ON CONFLICT(identity) DO UPDATE SET
		   high_score = MAX(high_score, excluded.high_score),
		   highest_tile = MAX(highest_tile, excluded.highest_tile),
		   games_played = games_played + 1,
		   last_played = CURRENT_TIMESTAMP`,
		identity, identity, score, highestTile,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot update stats: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage: cannot commit: %w", err)
	}
	return nil
}

// UserStats returns the stats for identity, creating an empty record with
// the given nickname if the player has none yet.
func (s *Store) UserStats(identity, defaultNickname string) (*UserStats, error) {
	_, err := s.db.Exec(
		`INSERT INTO user_stats (identity, nickname) VALUES (?, ?)
		 ON CONFLICT(identity) DO NOTHING`,
		identity, defaultNickname,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot create stats: %w", err)
	}

	row := s.db.QueryRow(
		`SELECT identity, nickname, high_score, highest_tile, games_played, last_played, show_in_leaderboard
		 FROM user_stats WHERE identity = ?`,
		identity,
	)
	stats, err := scanUserStats(row)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query stats: %w", err)
	}
	return stats, nil
}

// Leaderboard returns the visible players ordered by high score.
func (s *Store) Leaderboard(limit int) ([]UserStats, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT identity, nickname, high_score, highest_tile, games_played, last_played, show_in_leaderboard
		 FROM user_stats
		 WHERE show_in_leaderboard = 1
		 ORDER BY high_score DESC, identity
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query leaderboard: %w", err)
	}
	defer rows.Close()

	var result []UserStats
	for rows.Next() {
		stats, err := scanUserStats(rows)
		if err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		result = append(result, *stats)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return result, nil
}

// Rank returns the player's 1-based position by high score and the number
// of players with a positive score. Rank is 0 for unknown or scoreless players.
func (s *Store) Rank(identity string) (rank, total int, err error) {
	err = s.db.QueryRow("SELECT COUNT(*) FROM user_stats WHERE high_score > 0").Scan(&total)
	if err != nil {
		return 0, 0, fmt.Errorf("storage: cannot count players: %w", err)
	}

	var high int
	err = s.db.QueryRow("SELECT high_score FROM user_stats WHERE identity = ?", identity).Scan(&high)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, total, nil
	}
	if err != nil {
		return 0, 0, fmt.Errorf("storage: cannot query high score: %w", err)
	}
	if high <= 0 {
		return 0, total, nil
	}

	var higher int
	err = s.db.QueryRow("SELECT COUNT(*) FROM user_stats WHERE high_score > ?", high).Scan(&higher)
	if err != nil {
		return 0, 0, fmt.Errorf("storage: cannot query rank: %w", err)
	}

	return higher + 1, total, nil
}

// UpdateProfile changes the nickname and leaderboard visibility.
// Unknown identities are ignored.
func (s *Store) UpdateProfile(identity, nickname string, showInLeaderboard bool) error {
	_, err := s.db.Exec(
		"UPDATE user_stats SET nickname = ?, show_in_leaderboard = ? WHERE identity = ?",
		nickname, showInLeaderboard, identity,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot update profile: %w", err)
	}
	return nil
}

// TopScores retrieves the top N games for the given identity.
// Results are ordered by score descending.
func (s *Store) TopScores(identity string, limit int) ([]ScoreEntry, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT id, run_id, identity, score, max_tile, created_at
		 FROM scores
		 WHERE identity = ?
		 ORDER BY score DESC
		 LIMIT ?`,
		identity, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query scores: %w", err)
	}
	defer rows.Close()

	var entries []ScoreEntry
	for rows.Next() {
		var e ScoreEntry
		var createdAt any
		if err := rows.Scan(&e.ID, &e.RunID, &e.Identity, &e.Score, &e.MaxTile, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.CreatedAt = parseTime(createdAt)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return entries, nil
}

// HighScore returns the best score ever recorded for the identity.
// Returns 0 for unknown players. Unlike UserStats it never creates a row,
// and it survives ClearScores.
func (s *Store) HighScore(identity string) (int, error) {
	var score int
	err := s.db.QueryRow(
		"SELECT high_score FROM user_stats WHERE identity = ?",
		identity,
	).Scan(&score)

	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("storage: cannot query high score: %w", err)
	}

	return score, nil
}

// ClearScores deletes the game history of the identity. Aggregated
// stats are kept.
func (s *Store) ClearScores(identity string) error {
	_, err := s.db.Exec("DELETE FROM scores WHERE identity = ?", identity)
	if err != nil {
		return fmt.Errorf("storage: cannot clear scores: %w", err)
	}
	return nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanUserStats(r rowScanner) (*UserStats, error) {
	var st UserStats
	var lastPlayed any
	if err := r.Scan(
		&st.Identity,
		&st.Nickname,
		&st.HighScore,
		&st.HighestTile,
		&st.GamesPlayed,
		&lastPlayed,
		&st.ShowInLeaderboard,
	); err != nil {
		return nil, err
	}
	st.LastPlayed = parseTime(lastPlayed)
	return &st, nil
}

// parseTime handles both time.Time and string datetimes from the driver.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse(sqliteTimeLayout, t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
