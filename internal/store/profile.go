package store

import (
	"database/sql"
	"errors"
	"time"
)

// ErrNotFound is returned when a requested resource does not exist.
var ErrNotFound = errors.New("not found")

// Profile represents a named tracker tuning profile stored in the database.
// The Euro* fields are optional; when nil the tracker falls back to its
// performance-mode presets.
type Profile struct {
	ID            string
	Name          string
	CameraID      int
	YawRange      float64
	PitchRange    float64
	RayBufferLen  int
	FastMode      bool
	EuroMinCutoff *float64
	EuroBeta      *float64
	EuroFreq      *float64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ProfileRepository provides CRUD operations for profiles.
type ProfileRepository struct {
	db *sql.DB
}

// Profiles returns the profile repository for this store.
func (s *Store) Profiles() *ProfileRepository {
	return &ProfileRepository{db: s.db}
}

// Create inserts a new profile into the database.
func (r *ProfileRepository) Create(p *Profile) error {
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now

	_, err := r.db.Exec(
		`INSERT INTO profiles (id, name, camera_id, yaw_range, pitch_range, ray_buffer_len,
		 fast_mode, euro_min_cutoff, euro_beta, euro_freq, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Name, p.CameraID, p.YawRange, p.PitchRange, p.RayBufferLen,
		p.FastMode, p.EuroMinCutoff, p.EuroBeta, p.EuroFreq, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return err
	}

	return nil
}

// GetByID retrieves a profile by its ID.
func (r *ProfileRepository) GetByID(id string) (*Profile, error) {
	return r.get(`SELECT id, name, camera_id, yaw_range, pitch_range, ray_buffer_len,
		 fast_mode, euro_min_cutoff, euro_beta, euro_freq, created_at, updated_at
		 FROM profiles WHERE id = ?`, id)
}

// GetByName retrieves a profile by its name.
func (r *ProfileRepository) GetByName(name string) (*Profile, error) {
	return r.get(`SELECT id, name, camera_id, yaw_range, pitch_range, ray_buffer_len,
		 fast_mode, euro_min_cutoff, euro_beta, euro_freq, created_at, updated_at
		 FROM profiles WHERE name = ?`, name)
}

func (r *ProfileRepository) get(query string, arg any) (*Profile, error) {
	p := &Profile{}

	err := r.db.QueryRow(query, arg).Scan(
		&p.ID, &p.Name, &p.CameraID, &p.YawRange, &p.PitchRange, &p.RayBufferLen,
		&p.FastMode, &p.EuroMinCutoff, &p.EuroBeta, &p.EuroFreq, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return p, nil
}

// List retrieves all profiles from the database.
func (r *ProfileRepository) List() ([]*Profile, error) {
	rows, err := r.db.Query(
		`SELECT id, name, camera_id, yaw_range, pitch_range, ray_buffer_len,
		 fast_mode, euro_min_cutoff, euro_beta, euro_freq, created_at, updated_at
		 FROM profiles ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var profiles []*Profile
	for rows.Next() {
		p := &Profile{}

		err := rows.Scan(
			&p.ID, &p.Name, &p.CameraID, &p.YawRange, &p.PitchRange, &p.RayBufferLen,
			&p.FastMode, &p.EuroMinCutoff, &p.EuroBeta, &p.EuroFreq, &p.CreatedAt, &p.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}

		profiles = append(profiles, p)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return profiles, nil
}

// Update updates an existing profile in the database.
func (r *ProfileRepository) Update(p *Profile) error {
	p.UpdatedAt = time.Now()

	result, err := r.db.Exec(
		`UPDATE profiles SET name = ?, camera_id = ?, yaw_range = ?, pitch_range = ?,
		 ray_buffer_len = ?, fast_mode = ?, euro_min_cutoff = ?, euro_beta = ?,
		 euro_freq = ?, updated_at = ?
		 WHERE id = ?`,
		p.Name, p.CameraID, p.YawRange, p.PitchRange, p.RayBufferLen,
		p.FastMode, p.EuroMinCutoff, p.EuroBeta, p.EuroFreq, p.UpdatedAt, p.ID,
	)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// Delete removes a profile from the database by its ID.
func (r *ProfileRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM profiles WHERE id = ?`, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}
