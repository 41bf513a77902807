package db

// SchemaSQL is the complete schema for the sqlite storage backend.
//
// This is the single source of truth: repository tests load it through
// GetSchemaSQL() instead of hardcoding CREATE TABLE statements, so a column
// referenced by repository code but absent here fails immediately with
// "no such column" at test time.
const SchemaSQL = `
-- Cached order records, one row per record, keyed by kind + identifier.
-- The payload column holds the normalized record as JSON; saves replace the
-- whole kind in one transaction to keep whole-snapshot semantics.
CREATE TABLE IF NOT EXISTS order_records (
	kind TEXT NOT NULL CHECK(kind IN ('purchase', 'sale')),
	id INTEGER NOT NULL,
	payload TEXT NOT NULL,
	cached_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	PRIMARY KEY (kind, id)
);

-- The last-run checkpoint. A single row, id fixed at 1.
CREATE TABLE IF NOT EXISTS checkpoint (
	id INTEGER PRIMARY KEY CHECK(id = 1),
	last_run TEXT NOT NULL,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);
`

// GetSchemaSQL returns the authoritative schema SQL.
func GetSchemaSQL() string {
	return SchemaSQL
}
