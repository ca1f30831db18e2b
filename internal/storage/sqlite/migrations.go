package sqlite

import "database/sql"

// schema runs on startup to ensure the state table exists.
// One row per namespace; payload is the JSON document written by the
// persistence layer.
const schema = `
CREATE TABLE IF NOT EXISTS state (
    namespace TEXT PRIMARY KEY,
    payload BLOB NOT NULL,
    updated_at INTEGER NOT NULL
);
`

// runMigrations executes the schema setup.
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
