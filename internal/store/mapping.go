package store

import (
	"database/sql"
	"errors"
	"time"
)

// Mapping is a site-specific gesture-to-action override. Site mappings take
// precedence over the service's built-in default map.
type Mapping struct {
	SiteID    string
	Gesture   string
	Action    string
	UpdatedAt time.Time
}

// MappingRepository provides access to gesture-to-action mappings.
type MappingRepository struct {
	store *Store
}

// Mappings returns the mapping repository for this store.
func (s *Store) Mappings() *MappingRepository {
	return &MappingRepository{store: s}
}

// Upsert creates or replaces the mapping for (site, gesture).
// It reports whether a new mapping was created.
func (r *MappingRepository) Upsert(m *Mapping) (created bool, err error) {
	m.UpdatedAt = time.Now()

	var existing string
	err = r.store.db.QueryRow(
		`SELECT action FROM gesture_mappings WHERE site_id = ? AND gesture = ?`,
		m.SiteID, m.Gesture,
	).Scan(&existing)

	switch {
	case errors.Is(err, sql.ErrNoRows):
		_, err = r.store.db.Exec(
			`INSERT INTO gesture_mappings (site_id, gesture, action, updated_at)
			 VALUES (?, ?, ?, ?)`,
			m.SiteID, m.Gesture, m.Action, m.UpdatedAt,
		)
		return true, err
	case err != nil:
		return false, err
	default:
		_, err = r.store.db.Exec(
			`UPDATE gesture_mappings SET action = ?, updated_at = ?
			 WHERE site_id = ? AND gesture = ?`,
			m.Action, m.UpdatedAt, m.SiteID, m.Gesture,
		)
		return false, err
	}
}

// Get retrieves the mapping for (site, gesture), or ErrNotFound.
func (r *MappingRepository) Get(siteID, gesture string) (*Mapping, error) {
	m := &Mapping{SiteID: siteID, Gesture: gesture}

	err := r.store.db.QueryRow(
		`SELECT action, updated_at FROM gesture_mappings
		 WHERE site_id = ? AND gesture = ?`,
		siteID, gesture,
	).Scan(&m.Action, &m.UpdatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}

// ListBySite retrieves all mappings for a site.
func (r *MappingRepository) ListBySite(siteID string) ([]*Mapping, error) {
	rows, err := r.store.db.Query(
		`SELECT site_id, gesture, action, updated_at FROM gesture_mappings
		 WHERE site_id = ? ORDER BY gesture`,
		siteID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var mappings []*Mapping
	for rows.Next() {
		m := &Mapping{}
		if err := rows.Scan(&m.SiteID, &m.Gesture, &m.Action, &m.UpdatedAt); err != nil {
			return nil, err
		}
		mappings = append(mappings, m)
	}

	return mappings, rows.Err()
}
