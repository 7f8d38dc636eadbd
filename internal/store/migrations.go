package store

// runMigrations executes all database migrations.
func (s *Store) runMigrations() error {
	migrations := []string{
		// Uploads table - one row per stored video
		`CREATE TABLE IF NOT EXISTS uploads (
			id TEXT PRIMARY KEY,
			category TEXT NOT NULL,
			trick TEXT NOT NULL,
			filename TEXT NOT NULL,
			path TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		// Detections table - verdicts produced by detection sessions
		`CREATE TABLE IF NOT EXISTS detections (
			id TEXT PRIMARY KEY,
			upload_id TEXT REFERENCES uploads(id) ON DELETE CASCADE,
			trick TEXT NOT NULL,
			detected INTEGER NOT NULL,
			evidence TEXT NOT NULL DEFAULT '[]',
			frames INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE INDEX IF NOT EXISTS idx_uploads_category_trick ON uploads(category, trick)`,
		`CREATE INDEX IF NOT EXISTS idx_detections_upload_id ON detections(upload_id)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return err
		}
	}

	return nil
}
