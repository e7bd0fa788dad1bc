// Package sqlite persists read projections for external dashboards.
//
// The in-memory ledgers stay authoritative; this store is a write-through
// cache of proposals, the append-only AI decision log, royalty payments,
// and the guardian flag — the tables the dashboard backend queries.
package sqlite

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// DB wraps the projection database.
type DB struct {
	db *sql.DB
}

// Open opens (creating if needed) the projection database at path and runs
// migrations. Use ":memory:" for tests.
func Open(path string) (*DB, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open projection db: %w", err)
	}
	// The modernc driver is not safe for concurrent writers on one file.
	conn.SetMaxOpenConns(1)

	db := &DB{db: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, err
	}
	return db, nil
}

// Close closes the underlying connection.
func (db *DB) Close() error { return db.db.Close() }

// migrate applies the schema. Each string is a single SQL statement
// (SQLite executes one at a time).
func (db *DB) migrate() error {
	stmts := []string{
		// Proposal snapshots, refreshed on every mutation
		`CREATE TABLE IF NOT EXISTS proposals_cache (
			proposal_id    INTEGER PRIMARY KEY,
			proposer       TEXT NOT NULL,
			title          TEXT NOT NULL,
			description    TEXT NOT NULL DEFAULT '',
			category       TEXT NOT NULL,
			amount         REAL NOT NULL DEFAULT 0,
			recipient      TEXT NOT NULL DEFAULT '',
			created_at     TEXT NOT NULL,
			voting_ends_at TEXT NOT NULL,
			for_votes      REAL NOT NULL DEFAULT 0,
			against_votes  REAL NOT NULL DEFAULT 0,
			executed       INTEGER NOT NULL DEFAULT 0,
			ai_approved    INTEGER NOT NULL DEFAULT 0,
			ai_confidence  INTEGER NOT NULL DEFAULT 0,
			status         TEXT NOT NULL,
			updated_at     TEXT NOT NULL DEFAULT (datetime('now'))
		)`,
		`CREATE INDEX IF NOT EXISTS idx_proposals_status ON proposals_cache(status)`,
		`CREATE INDEX IF NOT EXISTS idx_proposals_category ON proposals_cache(category)`,

		// Append-only oracle decision log
		`CREATE TABLE IF NOT EXISTS decisions (
			id          INTEGER PRIMARY KEY,
			proposal_id INTEGER NOT NULL,
			approved    INTEGER NOT NULL,
			confidence  INTEGER NOT NULL,
			reasoning   TEXT NOT NULL DEFAULT '',
			decided_at  TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_decisions_proposal ON decisions(proposal_id)`,

		// Royalty payment log
		`CREATE TABLE IF NOT EXISTS royalty_payments (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			license_id INTEGER NOT NULL,
			licensee   TEXT NOT NULL,
			amount     REAL NOT NULL,
			paid_at    TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_royalty_license ON royalty_payments(license_id)`,

		// Guardian flag, single row
		`CREATE TABLE IF NOT EXISTS guardian_state (
			id             INTEGER PRIMARY KEY CHECK (id = 1),
			founder_active INTEGER NOT NULL,
			last_heartbeat TEXT NOT NULL,
			updated_at     TEXT NOT NULL DEFAULT (datetime('now'))
		)`,
	}
	for _, stmt := range stmts {
		if _, err := db.db.Exec(stmt); err != nil {
			return fmt.Errorf("migrate projection db: %w", err)
		}
	}
	return nil
}
