package database

import "database/sql"

// Migration represents a single schema migration step.
type Migration struct {
	Version     int
	Description string
	Up          func(tx *sql.Tx) error
}

// migrations is the ordered list of all schema migrations.
// Append new migrations to the end with incrementing Version numbers.
var migrations = []Migration{
	{
		Version:     1,
		Description: "runs and artifact outcomes",
		Up: func(tx *sql.Tx) error {
			_, err := tx.Exec(`
CREATE TABLE IF NOT EXISTS runs (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    source TEXT,
    generated_markdown TEXT NOT NULL,
    polished_markdown TEXT,
    analysis_json TEXT,
    created_at TEXT DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS artifact_outcomes (
    run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
    artifact TEXT NOT NULL,
    stage TEXT NOT NULL CHECK(stage IN ('generate', 'parse', 'polish')),
    status TEXT NOT NULL CHECK(status IN ('ok', 'warn', 'failed', 'skipped')),
    error TEXT,
    PRIMARY KEY (run_id, artifact, stage)
);

CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at);
`)
			return err
		},
	},
	{
		Version:     2,
		Description: "feed episode tracking",
		Up: func(tx *sql.Tx) error {
			_, err := tx.Exec(`
CREATE TABLE IF NOT EXISTS episodes (
    guid TEXT PRIMARY KEY,
    feed_url TEXT NOT NULL,
    title TEXT NOT NULL,
    link TEXT,
    transcript_url TEXT,
    status TEXT NOT NULL DEFAULT 'pending' CHECK(status IN ('pending', 'processed', 'no_transcript', 'failed')),
    run_id TEXT REFERENCES runs(id) ON DELETE SET NULL,
    published_at TEXT,
    collected_at TEXT DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_episodes_feed ON episodes(feed_url);
CREATE INDEX IF NOT EXISTS idx_episodes_status ON episodes(status);
`)
			return err
		},
	},
}

// latestVersion returns the highest migration version number.
func latestVersion() int {
	if len(migrations) == 0 {
		return 0
	}
	return migrations[len(migrations)-1].Version
}
