package database

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"
)

func New(dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		return nil, err
	}

	return db, nil
}

func Migrate(db *sql.DB) error {
	_, err := db.Exec(`
-- WAKAWAKA Database Schema

-- Users are the authors of revisions.
CREATE TABLE IF NOT EXISTS users (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    username TEXT UNIQUE NOT NULL,
    display_name TEXT NOT NULL,
    is_superuser INTEGER NOT NULL DEFAULT 0
);

-- Identities provide a way for users to authenticate.
CREATE TABLE IF NOT EXISTS identities (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id INTEGER NOT NULL,
    provider TEXT NOT NULL,
    provider_user_id TEXT NOT NULL,
    password_hash TEXT,
    FOREIGN KEY(user_id) REFERENCES users(id)
);

-- Named capabilities granted to a user, out of the fixed set
-- {add,change,delete}_wikipage / {add,change,delete}_revision.
CREATE TABLE IF NOT EXISTS user_permissions (
    user_id INTEGER NOT NULL,
    permission TEXT NOT NULL,
    PRIMARY KEY (user_id, permission),
    FOREIGN KEY(user_id) REFERENCES users(id)
);

-- Pages are identified by their WikiWord slug.
CREATE TABLE IF NOT EXISTS pages (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    slug TEXT UNIQUE NOT NULL,
    created TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    modified TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

-- Revisions are the append-only history of a page. The id sequence is
-- store-wide, not per page.
CREATE TABLE IF NOT EXISTS revisions (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    page_id INTEGER NOT NULL,
    content TEXT NOT NULL,
    message TEXT NOT NULL DEFAULT '',
    creator_id INTEGER,
    creator_ip TEXT,
    created TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    modified TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    FOREIGN KEY(page_id) REFERENCES pages(id),
    FOREIGN KEY(creator_id) REFERENCES users(id)
);

CREATE INDEX IF NOT EXISTS idx_revisions_page_modified
    ON revisions(page_id, modified DESC, id DESC);
`)
	return err
}
