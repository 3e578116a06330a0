package store

// runMigrations executes all database migrations.
func (s *Store) runMigrations() error {
	migrations := []string{
		// Profiles table - stores named tracker tuning profiles
		`CREATE TABLE IF NOT EXISTS profiles (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			camera_id INTEGER NOT NULL DEFAULT 0,
			yaw_range REAL NOT NULL DEFAULT 20,
			pitch_range REAL NOT NULL DEFAULT 10,
			ray_buffer_len INTEGER NOT NULL DEFAULT 40,
			fast_mode INTEGER NOT NULL DEFAULT 0,
			euro_min_cutoff REAL,
			euro_beta REAL,
			euro_freq REAL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		// Settings table - stores application settings as key-value pairs
		`CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return err
		}
	}

	return nil
}
