// Package persistence provides SQLite-backed storage of the chronicle:
// the append-only event stream plus periodic character and market
// snapshots for the narration and status layers to query offline.
package persistence

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/talgya/ashfall/internal/economy"
	"github.com/talgya/ashfall/internal/world"
)

// DB wraps a SQLite connection for chronicle storage.
type DB struct {
	conn *sqlx.DB
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS events (
		id TEXT PRIMARY KEY,
		tick INTEGER NOT NULL,
		type TEXT NOT NULL,
		location TEXT,
		description TEXT NOT NULL,
		is_public INTEGER NOT NULL,
		participants_json TEXT NOT NULL,
		witnesses_json TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS character_snapshots (
		tick INTEGER NOT NULL,
		character_id TEXT NOT NULL,
		name TEXT NOT NULL,
		location TEXT NOT NULL,
		resources INTEGER NOT NULL,
		power INTEGER NOT NULL,
		emotion_json TEXT NOT NULL,
		PRIMARY KEY (tick, character_id)
	);

	CREATE TABLE IF NOT EXISTS market_snapshots (
		tick INTEGER NOT NULL,
		location TEXT NOT NULL,
		prices_json TEXT NOT NULL,
		trade_volume REAL NOT NULL,
		PRIMARY KEY (tick, location)
	);

	CREATE TABLE IF NOT EXISTS world_meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_events_tick ON events(tick);
	CREATE INDEX IF NOT EXISTS idx_snapshots_tick ON character_snapshots(tick);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// SaveEvents appends events to the chronicle. Already-stored ids are
// skipped, so the caller can hand over the full history each time.
func (db *DB) SaveEvents(events []world.GameEvent) error {
	if len(events) == 0 {
		return nil
	}

	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Preparex(`INSERT OR IGNORE INTO events
		(id, tick, type, location, description, is_public, participants_json, witnesses_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, e := range events {
		participants, _ := json.Marshal(e.Participants)
		witnesses, _ := json.Marshal(e.Witnesses)
		public := 0
		if e.IsPublic {
			public = 1
		}
		if _, err := stmt.Exec(e.ID, e.Tick, string(e.Type), e.Location, e.Description,
			public, string(participants), string(witnesses)); err != nil {
			return fmt.Errorf("insert event %s: %w", e.ID, err)
		}
	}
	return tx.Commit()
}

// SnapshotCharacters records every character's state at a tick.
func (db *DB) SnapshotCharacters(tick int, chars map[string]*world.Character) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Preparex(`INSERT OR REPLACE INTO character_snapshots
		(tick, character_id, name, location, resources, power, emotion_json)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, c := range chars {
		emotion, _ := json.Marshal(c.Emotion)
		if _, err := stmt.Exec(tick, c.ID, c.Name, c.Location, c.Resources, c.Power, string(emotion)); err != nil {
			return fmt.Errorf("snapshot character %s: %w", c.ID, err)
		}
	}
	return tx.Commit()
}

// SnapshotMarkets records every market's prices at a tick.
func (db *DB) SnapshotMarkets(tick int, summaries []economy.Summary) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, s := range summaries {
		prices, _ := json.Marshal(s.Prices)
		if _, err := tx.Exec(`INSERT OR REPLACE INTO market_snapshots
			(tick, location, prices_json, trade_volume) VALUES (?, ?, ?, ?)`,
			tick, s.Location, string(prices), s.TradeVolume); err != nil {
			return fmt.Errorf("snapshot market %s: %w", s.Location, err)
		}
	}
	return tx.Commit()
}

// SaveMeta stores a key-value pair in world metadata.
func (db *DB) SaveMeta(key, value string) error {
	_, err := db.conn.Exec(
		"INSERT OR REPLACE INTO world_meta (key, value) VALUES (?, ?)",
		key, value,
	)
	return err
}

// GetMeta retrieves a metadata value.
func (db *DB) GetMeta(key string) (string, error) {
	var value string
	err := db.conn.Get(&value, "SELECT value FROM world_meta WHERE key = ?", key)
	return value, err
}

// StoredEvent is one chronicle row.
type StoredEvent struct {
	ID          string `db:"id" json:"id"`
	Tick        int    `db:"tick" json:"tick"`
	Type        string `db:"type" json:"type"`
	Location    string `db:"location" json:"location"`
	Description string `db:"description" json:"description"`
}

// RecentEvents returns the most recent n chronicle rows.
func (db *DB) RecentEvents(n int) ([]StoredEvent, error) {
	var events []StoredEvent
	err := db.conn.Select(&events,
		"SELECT id, tick, type, COALESCE(location, '') AS location, description FROM events ORDER BY tick DESC LIMIT ?",
		n,
	)
	return events, err
}

// SaveTurn persists everything for one completed turn.
func (db *DB) SaveTurn(tick int, w *world.State, econ *economy.Economy) error {
	if err := db.SaveEvents(w.History); err != nil {
		return fmt.Errorf("save events: %w", err)
	}
	if err := db.SnapshotCharacters(tick, w.Characters); err != nil {
		return fmt.Errorf("snapshot characters: %w", err)
	}
	if err := db.SnapshotMarkets(tick, econ.GetSummary()); err != nil {
		return fmt.Errorf("snapshot markets: %w", err)
	}
	if err := db.SaveMeta("last_tick", fmt.Sprintf("%d", tick)); err != nil {
		return fmt.Errorf("save meta: %w", err)
	}
	slog.Debug("chronicle saved", "tick", tick, "events", len(w.History))
	return nil
}
