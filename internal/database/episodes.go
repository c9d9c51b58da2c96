package database

import "database/sql"

// InsertEpisode records a feed item. Returns false if the GUID was already
// known.
func (db *DB) InsertEpisode(e *Episode) (bool, error) {
	status := e.Status
	if status == "" {
		status = EpisodePending
	}
	result, err := db.conn.Exec(
		`INSERT OR IGNORE INTO episodes
		(guid, feed_url, title, link, transcript_url, status, published_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.GUID, e.FeedURL, e.Title, e.Link, e.TranscriptURL, status, e.PublishedAt,
	)
	if err != nil {
		return false, err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// GetEpisode returns an episode by GUID, or nil if it is unknown.
func (db *DB) GetEpisode(guid string) (*Episode, error) {
	row := db.conn.QueryRow(
		`SELECT guid, feed_url, title, link, transcript_url, status, run_id, published_at, collected_at
		FROM episodes WHERE guid = ?`, guid,
	)
	var e Episode
	if err := row.Scan(&e.GUID, &e.FeedURL, &e.Title, &e.Link, &e.TranscriptURL,
		&e.Status, &e.RunID, &e.PublishedAt, &e.CollectedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &e, nil
}

// GetPendingEpisodes returns episodes that still need a pipeline run, oldest
// first.
func (db *DB) GetPendingEpisodes() ([]Episode, error) {
	rows, err := db.conn.Query(
		`SELECT guid, feed_url, title, link, transcript_url, status, run_id, published_at, collected_at
		FROM episodes WHERE status = 'pending' ORDER BY collected_at, rowid`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var episodes []Episode
	for rows.Next() {
		var e Episode
		if err := rows.Scan(&e.GUID, &e.FeedURL, &e.Title, &e.Link, &e.TranscriptURL,
			&e.Status, &e.RunID, &e.PublishedAt, &e.CollectedAt); err != nil {
			return nil, err
		}
		episodes = append(episodes, e)
	}
	return episodes, rows.Err()
}

// SetEpisodeStatus updates an episode's status and, when runID is non-nil,
// links it to the run that processed it.
func (db *DB) SetEpisodeStatus(guid, status string, runID *string) error {
	_, err := db.conn.Exec(
		"UPDATE episodes SET status = ?, run_id = COALESCE(?, run_id) WHERE guid = ?",
		status, runID, guid,
	)
	return err
}
