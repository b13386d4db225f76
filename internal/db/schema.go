package db

import (
	"database/sql"
	"fmt"
)

// schema is the full database schema.
const schema = `
CREATE TABLE IF NOT EXISTS accounts (
    id            INTEGER PRIMARY KEY,
    username      TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    first_name    TEXT NOT NULL,
    last_name     TEXT NOT NULL,
    email         TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS items (
    id           INTEGER PRIMARY KEY,
    name         TEXT NOT NULL,
    brand_number INTEGER NOT NULL,
    item_number  INTEGER NOT NULL,
    image        BLOB,
    image_mime   TEXT
);

CREATE TABLE IF NOT EXISTS data (
    id        INTEGER PRIMARY KEY,
    date      DATETIME NOT NULL,
    quantity  INTEGER NOT NULL,
    promotion BOOLEAN NOT NULL DEFAULT 0,
    item_id   INTEGER NOT NULL REFERENCES items(id)
);

CREATE INDEX IF NOT EXISTS idx_data_item_id ON data(item_id);

CREATE TABLE IF NOT EXISTS comments (
    id      INTEGER PRIMARY KEY,
    date    DATETIME NOT NULL,
    content TEXT NOT NULL,
    user_id INTEGER NOT NULL REFERENCES accounts(id)
);

CREATE TABLE IF NOT EXISTS settings (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
);
`

// EnsureSchema creates all tables and indexes if they don't already exist.
func EnsureSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}
