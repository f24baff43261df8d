package db

import (
	"database/sql"
	"fmt"
)

// migrations is a list of SQL statements applied in order after schema creation.
// Each migration must be idempotent. Append new migrations at the end.
var migrations = []string{
	// Migration 1: search and history lookups.
	`CREATE INDEX IF NOT EXISTS idx_sweets_name ON sweets(name)`,
	`CREATE INDEX IF NOT EXISTS idx_sweets_category ON sweets(category)`,
	`CREATE INDEX IF NOT EXISTS idx_sweets_owner ON sweets(owner_id, created_at)`,
	`CREATE INDEX IF NOT EXISTS idx_purchases_account ON purchases(account_id, created_at)`,
}

// Migrate runs the database migrations.
func Migrate(db *sql.DB) error {
	for i, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return fmt.Errorf("running migration %d: %w", i+1, err)
		}
	}
	return nil
}
