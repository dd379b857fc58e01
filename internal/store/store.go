// Package store provides SQLite storage for the candidate roster.
//
// Only profiles live here. Swipe decisions are never written: the roster is
// input to the session, not a record of it.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/abelbrown/duo/internal/candidate"
	_ "modernc.org/sqlite"
)

// Store is the roster database. Concrete type, not an interface.
// All methods are safe for concurrent use via the internal mutex.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// Open opens (or creates) the database at dbPath.
// ":memory:" opens the process-wide shared-cache in-memory database, so
// every such Store in one process sees the same profiles.
func Open(dbPath string) (*Store, error) {
	connStr := dbPath
	if dbPath == ":memory:" {
		connStr = "file::memory:?cache=shared"
	}

	db, err := sql.Open("sqlite", connStr)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// In-memory databases are per-connection.
	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if dbPath != ":memory:" {
		if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("enable WAL mode: %w", err)
		}
	}

	s := &Store{db: db}
	if err := s.createTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}
	return s, nil
}

func (s *Store) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS profiles (
		id TEXT PRIMARY KEY,
		position INTEGER NOT NULL,
		summoner_name TEXT NOT NULL,
		tag_line TEXT,
		region TEXT,
		main_role TEXT,
		tier TEXT,
		data TEXT NOT NULL,
		imported_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_profiles_position ON profiles(position);
	CREATE INDEX IF NOT EXISTS idx_profiles_role ON profiles(main_role);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("execute schema: %w", err)
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}

// ReplaceRoster swaps the whole roster for cs, preserving its order.
// Runs in a single transaction.
func (s *Store) ReplaceRoster(cs []candidate.Candidate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM profiles"); err != nil {
		return fmt.Errorf("clear roster: %w", err)
	}
	if _, err := insertProfiles(tx, cs, 0, "INSERT"); err != nil {
		return err
	}
	return tx.Commit()
}

// AppendProfiles adds cs after the existing roster. Profiles whose ID is
// already stored are skipped. Returns the number inserted.
func (s *Store) AppendProfiles(cs []candidate.Candidate) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(cs) == 0 {
		return 0, nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	var next int
	if err := tx.QueryRow("SELECT COALESCE(MAX(position) + 1, 0) FROM profiles").Scan(&next); err != nil {
		return 0, fmt.Errorf("next position: %w", err)
	}

	n, err := insertProfiles(tx, cs, next, "INSERT OR IGNORE")
	if err != nil {
		return 0, err
	}
	return n, tx.Commit()
}

func insertProfiles(tx *sql.Tx, cs []candidate.Candidate, start int, verb string) (int, error) {
	stmt, err := tx.Prepare(verb + ` INTO profiles (
			id, position, summoner_name, tag_line, region, main_role, tier, data, imported_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC()
	inserted := 0
	pos := start
	for _, c := range cs {
		data, err := json.Marshal(c)
		if err != nil {
			return 0, fmt.Errorf("encode profile %s: %w", c.ID, err)
		}
		res, err := stmt.Exec(c.ID, pos, c.SummonerName, c.TagLine, c.Region,
			string(c.MainRole), string(c.Rank.Tier), string(data), now)
		if err != nil {
			return 0, fmt.Errorf("insert profile %s: %w", c.ID, err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			inserted++
			pos++
		}
	}
	return inserted, nil
}

// Profiles returns the roster in order.
func (s *Store) Profiles() ([]candidate.Candidate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.queryProfiles("SELECT data FROM profiles ORDER BY position ASC")
}

// ProfilesByRole returns the roster filtered to one main role, in order.
func (s *Store) ProfilesByRole(role candidate.Role) ([]candidate.Candidate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.queryProfiles("SELECT data FROM profiles WHERE main_role = ? ORDER BY position ASC", string(role))
}

// Profile returns one profile by ID. ok is false when it does not exist.
func (s *Store) Profile(id string) (c candidate.Candidate, ok bool, err error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var data string
	err = s.db.QueryRow("SELECT data FROM profiles WHERE id = ?", id).Scan(&data)
	if err == sql.ErrNoRows {
		return candidate.Candidate{}, false, nil
	}
	if err != nil {
		return candidate.Candidate{}, false, err
	}
	if err := json.Unmarshal([]byte(data), &c); err != nil {
		return candidate.Candidate{}, false, fmt.Errorf("decode profile %s: %w", id, err)
	}
	return c, true, nil
}

// RemoveProfile deletes a profile. Missing IDs are not an error.
func (s *Store) RemoveProfile(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.Exec("DELETE FROM profiles WHERE id = ?", id)
	return err
}

// Count returns the roster size.
func (s *Store) Count() (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var n int
	err := s.db.QueryRow("SELECT COUNT(*) FROM profiles").Scan(&n)
	return n, err
}

// queryProfiles runs a query selecting the data column.
// Caller must hold s.mu (read lock is sufficient).
func (s *Store) queryProfiles(query string, args ...any) ([]candidate.Candidate, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []candidate.Candidate
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}
		var c candidate.Candidate
		if err := json.Unmarshal([]byte(data), &c); err != nil {
			return nil, fmt.Errorf("decode profile: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
