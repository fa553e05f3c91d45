package store

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// defaultTime seeds the CurrentTime table on a fresh database.
const defaultTime = "2001-12-01 00:00:00"

var schema = []string{
	`CREATE TABLE IF NOT EXISTS Users (
		UserID   TEXT PRIMARY KEY,
		Rating   INTEGER NOT NULL DEFAULT 0,
		Location TEXT NOT NULL DEFAULT '',
		Country  TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS Items (
		ItemID        TEXT PRIMARY KEY,
		Name          TEXT NOT NULL,
		Description   TEXT NOT NULL DEFAULT '',
		Seller_UserID TEXT NOT NULL REFERENCES Users(UserID),
		Started       TEXT NOT NULL,
		Ends          TEXT NOT NULL,
		First_Bid     REAL NOT NULL,
		Buy_Price     REAL,
		CHECK (Started < Ends)
	)`,
	`CREATE TABLE IF NOT EXISTS Bids (
		BidID  TEXT PRIMARY KEY,
		UserID TEXT NOT NULL REFERENCES Users(UserID),
		ItemID TEXT NOT NULL REFERENCES Items(ItemID),
		Amount REAL NOT NULL,
		Time   TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS Categories (
		ItemID   TEXT NOT NULL REFERENCES Items(ItemID),
		Category TEXT NOT NULL,
		PRIMARY KEY (ItemID, Category)
	)`,
	`CREATE TABLE IF NOT EXISTS CurrentTime (
		Time TEXT NOT NULL
	)`,
}

// Open connects to the sqlite database at path with foreign key
// enforcement enabled on every connection.
func Open(path string) (*sql.DB, error) {
	dsn := fmt.Sprintf("file:%s?_foreign_keys=on", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("store: failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: failed to ping database: %w", err)
	}

	// A single connection keeps sqlite writers from tripping over each
	// other with SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	return db, nil
}

// Bootstrap creates the five tables if they do not exist and seeds the
// single CurrentTime row on a fresh database.
func Bootstrap(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("store: failed to create schema: %w", err)
		}
	}

	var rows int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM CurrentTime`).Scan(&rows); err != nil {
		return fmt.Errorf("store: failed to check CurrentTime: %w", err)
	}
	if rows == 0 {
		if _, err := db.ExecContext(ctx, `INSERT INTO CurrentTime (Time) VALUES (?)`, defaultTime); err != nil {
			return fmt.Errorf("store: failed to seed CurrentTime: %w", err)
		}
	}

	return nil
}
