package persistence

import (
	"database/sql"
	"errors"
	"fmt"
)

// Initialize the snapshot schema. The DDL sticks to types both SQLite and
// Postgres accept, so one schema serves both backends.
func InitSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	statements := []string{
		`CREATE TABLE IF NOT EXISTS couriers (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			phone TEXT NOT NULL UNIQUE,
			status TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS orders (
			id TEXT PRIMARY KEY,
			address TEXT NOT NULL,
			lat REAL NOT NULL,
			lng REAL NOT NULL,
			created_at TEXT NOT NULL,
			sequence INTEGER NOT NULL,
			status TEXT NOT NULL,
			courier_id TEXT,
			route_id TEXT,
			delivery_price REAL,
			pricing_rule_type TEXT,
			pricing_rule_label TEXT
		);`,
		`CREATE TABLE IF NOT EXISTS routes (
			id TEXT PRIMARY KEY,
			courier_id TEXT,
			order_ids TEXT NOT NULL,
			status TEXT NOT NULL,
			created_at TEXT NOT NULL,
			maps_url TEXT,
			total_price REAL
		);`,
		`CREATE TABLE IF NOT EXISTS pricing_bands (
			id TEXT PRIMARY KEY,
			max_distance_km REAL NOT NULL,
			price REAL NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS pricing_zones (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			match_text TEXT NOT NULL,
			price REAL NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS restaurant_profile (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			address TEXT NOT NULL,
			lat REAL NOT NULL,
			lng REAL NOT NULL,
			contact_phone TEXT,
			max_radius_km REAL NOT NULL,
			min_batch INTEGER NOT NULL,
			max_batch INTEGER NOT NULL,
			max_wait_minutes INTEGER NOT NULL,
			smart_batch_hold_minutes INTEGER NOT NULL
		);`,
	}

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}
