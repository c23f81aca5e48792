package store

import (
	"database/sql"

	"github.com/pkg/errors"
	_ "modernc.org/sqlite"
)

// SQLiteStore persists cumulative player stats to a local SQLite file. It is
// optional — rooms run fine against MemoryStore — and is wired in only when
// FPS_SQLITE is enabled, mirroring the source's opt-in sqlite3 persistence.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrapf(err, "open sqlite store at %q", path)
	}
	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS player_stats (
			name   TEXT PRIMARY KEY,
			kills  INTEGER NOT NULL DEFAULT 0,
			deaths INTEGER NOT NULL DEFAULT 0,
			score  INTEGER NOT NULL DEFAULT 0
		)`); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "create player_stats table")
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) UpsertPlayer(name string, kills, deaths, score int) error {
	_, err := s.db.Exec(`
		INSERT INTO player_stats (name, kills, deaths, score) VALUES (?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET kills=excluded.kills, deaths=excluded.deaths, score=excluded.score
	`, name, kills, deaths, score)
	if err != nil {
		return errors.Wrapf(err, "upsert player %q", name)
	}
	return nil
}

func (s *SQLiteStore) Leaderboard(limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.Query(`SELECT name, kills, deaths, score FROM player_stats ORDER BY score DESC LIMIT ?`, limit)
	if err != nil {
		return nil, errors.Wrap(err, "query leaderboard")
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Name, &e.Kills, &e.Deaths, &e.Score); err != nil {
			return nil, errors.Wrap(err, "scan leaderboard row")
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
