package migrations

import "github.com/jmoiron/sqlx"

// EnsureSchema applies the idempotent DDL for the key-value table. The
// statement is portable across postgres and sqlite.
func EnsureSchema(db *sqlx.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS kv_store (
  name TEXT PRIMARY KEY,
  value TEXT NOT NULL,
  updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
)`
	_, err := db.Exec(schema)
	return err
}
