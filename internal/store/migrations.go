package store

// runMigrations executes all database migrations.
func (s *Store) runMigrations() error {
	migrations := []string{
		// Sites table - one row per controlled site
		`CREATE TABLE IF NOT EXISTS sites (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		// Gesture events table - accepted evaluations, for audit and tuning
		`CREATE TABLE IF NOT EXISTS gesture_events (
			id TEXT PRIMARY KEY,
			site_id TEXT NOT NULL REFERENCES sites(id),
			gesture TEXT NOT NULL,
			confidence REAL NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		// Gesture mappings table - site-specific gesture to action overrides
		`CREATE TABLE IF NOT EXISTS gesture_mappings (
			site_id TEXT NOT NULL,
			gesture TEXT NOT NULL,
			action TEXT NOT NULL,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (site_id, gesture)
		)`,

		// Site configs table - per-site engine settings served to clients
		`CREATE TABLE IF NOT EXISTS site_configs (
			site_id TEXT PRIMARY KEY,
			profile TEXT NOT NULL DEFAULT 'default',
			cursor_mode_enabled INTEGER NOT NULL DEFAULT 0,
			confidence_threshold REAL NOT NULL DEFAULT 0.7,
			cooldown_ms INTEGER NOT NULL DEFAULT 600,
			cursor_speed REAL NOT NULL DEFAULT 12,
			scroll_speed REAL NOT NULL DEFAULT 15,
			enter_hold_ms INTEGER NOT NULL DEFAULT 3000,
			exit_hold_ms INTEGER NOT NULL DEFAULT 3000,
			enabled_gestures TEXT NOT NULL DEFAULT '[]',
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE INDEX IF NOT EXISTS idx_gesture_events_site_id ON gesture_events(site_id)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return err
		}
	}

	return nil
}
