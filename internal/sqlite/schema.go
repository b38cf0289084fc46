package sqlite

// Schema DDL. Statements are idempotent so Attach can run them against an
// existing database.
const (
	createPlans = `CREATE TABLE IF NOT EXISTS plans (
    mode TEXT NOT NULL,
    name TEXT NOT NULL,
    document TEXT NOT NULL,
    revision TEXT NOT NULL,
    updated_at TEXT NOT NULL,
    PRIMARY KEY (mode, name)
);`

	idxPlansMode = `CREATE INDEX IF NOT EXISTS idx_plans_mode ON plans(mode);`
)

// schemaDDL lists all statements in execution order.
var schemaDDL = []string{
	createPlans,
	idxPlansMode,
}
