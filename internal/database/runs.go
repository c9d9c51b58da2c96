package database

import (
	"database/sql"
	"fmt"
)

const runColumns = "id, name, source, generated_markdown, polished_markdown, analysis_json, created_at"

func scanRun(s interface{ Scan(...any) error }) (*Run, error) {
	var r Run
	if err := s.Scan(&r.ID, &r.Name, &r.Source, &r.GeneratedMarkdown,
		&r.PolishedMarkdown, &r.AnalysisJSON, &r.CreatedAt); err != nil {
		return nil, err
	}
	return &r, nil
}

// InsertRun stores a run together with its artifact outcomes.
func (db *DB) InsertRun(r *Run, outcomes []ArtifactOutcome) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		`INSERT INTO runs (id, name, source, generated_markdown, polished_markdown, analysis_json)
		VALUES (?, ?, ?, ?, ?, ?)`,
		r.ID, r.Name, r.Source, r.GeneratedMarkdown, r.PolishedMarkdown, r.AnalysisJSON,
	); err != nil {
		return fmt.Errorf("inserting run %s: %w", r.ID, err)
	}
	if err := insertOutcomes(tx, r.ID, outcomes); err != nil {
		return err
	}
	return tx.Commit()
}

// SetPolished replaces the polished report of a run and its polish-stage
// outcomes.
func (db *DB) SetPolished(runID, markdown string, outcomes []ArtifactOutcome) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.Exec("UPDATE runs SET polished_markdown = ? WHERE id = ?", markdown, runID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("run %s not found", runID)
	}
	if _, err := tx.Exec("DELETE FROM artifact_outcomes WHERE run_id = ? AND stage = 'polish'", runID); err != nil {
		return err
	}
	if err := insertOutcomes(tx, runID, outcomes); err != nil {
		return err
	}
	return tx.Commit()
}

func insertOutcomes(tx *sql.Tx, runID string, outcomes []ArtifactOutcome) error {
	for _, o := range outcomes {
		if _, err := tx.Exec(
			`INSERT OR REPLACE INTO artifact_outcomes (run_id, artifact, stage, status, error)
			VALUES (?, ?, ?, ?, ?)`,
			runID, o.Artifact, o.Stage, o.Status, o.Error,
		); err != nil {
			return fmt.Errorf("recording %s/%s outcome: %w", o.Artifact, o.Stage, err)
		}
	}
	return nil
}

// GetRun returns a run by ID, or nil if it does not exist.
func (db *DB) GetRun(id string) (*Run, error) {
	r, err := scanRun(db.conn.QueryRow("SELECT "+runColumns+" FROM runs WHERE id = ?", id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return r, err
}

// FindRun resolves a full run ID or an unambiguous prefix of one.
func (db *DB) FindRun(idOrPrefix string) (*Run, error) {
	if r, err := db.GetRun(idOrPrefix); r != nil || err != nil {
		return r, err
	}

	rows, err := db.conn.Query("SELECT "+runColumns+" FROM runs WHERE id LIKE ? || '%' LIMIT 2", idOrPrefix)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var found []*Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		found = append(found, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	switch len(found) {
	case 0:
		return nil, nil
	case 1:
		return found[0], nil
	}
	return nil, fmt.Errorf("run prefix %q is ambiguous", idOrPrefix)
}

// GetRecentRuns returns up to limit runs, newest first.
func (db *DB) GetRecentRuns(limit int) ([]Run, error) {
	rows, err := db.conn.Query(
		"SELECT "+runColumns+" FROM runs ORDER BY created_at DESC, rowid DESC LIMIT ?", limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *r)
	}
	return runs, rows.Err()
}

// GetOutcomes returns the recorded artifact outcomes of a run.
func (db *DB) GetOutcomes(runID string) ([]ArtifactOutcome, error) {
	rows, err := db.conn.Query(
		`SELECT run_id, artifact, stage, status, error FROM artifact_outcomes
		WHERE run_id = ?
		ORDER BY CASE stage WHEN 'generate' THEN 0 WHEN 'parse' THEN 1 ELSE 2 END, rowid`, runID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var outcomes []ArtifactOutcome
	for rows.Next() {
		var o ArtifactOutcome
		if err := rows.Scan(&o.RunID, &o.Artifact, &o.Stage, &o.Status, &o.Error); err != nil {
			return nil, err
		}
		outcomes = append(outcomes, o)
	}
	return outcomes, rows.Err()
}

// DeleteRun removes a run and its outcomes.
func (db *DB) DeleteRun(id string) error {
	_, err := db.conn.Exec("DELETE FROM runs WHERE id = ?", id)
	return err
}

// GetStats returns aggregate database statistics.
func (db *DB) GetStats() (*Stats, error) {
	s := &Stats{}

	queries := []struct {
		sql  string
		dest *int
	}{
		{"SELECT COUNT(*) FROM runs", &s.Runs},
		{"SELECT COUNT(*) FROM runs WHERE polished_markdown IS NOT NULL AND polished_markdown != ''", &s.PolishedRuns},
		{"SELECT COUNT(*) FROM artifact_outcomes WHERE status = 'failed'", &s.FailedArtifacts},
		{"SELECT COUNT(*) FROM episodes", &s.Episodes},
		{"SELECT COUNT(*) FROM episodes WHERE status = 'pending'", &s.PendingEpisodes},
		{"SELECT COUNT(*) FROM episodes WHERE status = 'no_transcript'", &s.EpisodesNoScript},
	}

	for _, q := range queries {
		if err := db.conn.QueryRow(q.sql).Scan(q.dest); err != nil {
			return nil, err
		}
	}

	return s, nil
}
