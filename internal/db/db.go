package db

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

const schema = `
PRAGMA foreign_keys = ON;

CREATE TABLE IF NOT EXISTS units (
    id             INTEGER PRIMARY KEY,
    name           TEXT NOT NULL,
    evidence_id    TEXT,
    contact_person TEXT,
    contact_email  TEXT,
    contact_phone  TEXT,
    home_town      TEXT,
    arrival        TEXT,
    created_at     TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%fZ','now'))
);

CREATE TABLE IF NOT EXISTS participants (
    id            INTEGER PRIMARY KEY,
    kind          TEXT NOT NULL CHECK(kind IN ('regular','individual','organizer')),
    unit_id       INTEGER REFERENCES units(id) ON DELETE RESTRICT,
    first_name    TEXT NOT NULL,
    last_name     TEXT NOT NULL,
    nickname      TEXT,
    date_of_birth TEXT,
    category      TEXT CHECK(category IN ('ADULT','ROVER','SCOUT','CUB') OR category IS NULL),
    division      TEXT,
    email         TEXT,
    phone         TEXT,
    home_town     TEXT,
    arrival       TEXT,
    dietary       TEXT,
    health        TEXT,
    info          TEXT,
    created_at    TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%fZ','now')),
    CHECK((kind = 'regular') = (unit_id IS NOT NULL))
);

CREATE INDEX IF NOT EXISTS idx_participants_unit_id ON participants(unit_id);
CREATE INDEX IF NOT EXISTS idx_participants_kind ON participants(kind);
`

// Open opens or creates the SQLite database and initializes the schema.
func Open(dbPath string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// Keep PRAGMA foreign_keys effective for every statement.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return db, nil
}

func nullString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func nullID(id int64) interface{} {
	if id == 0 {
		return nil
	}
	return id
}
