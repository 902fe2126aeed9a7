package store

import (
	"time"

	"github.com/google/uuid"
)

// GestureEvent is one accepted gesture evaluation.
type GestureEvent struct {
	ID         string
	SiteID     string
	Gesture    string
	Confidence float64
	CreatedAt  time.Time
}

// EventRepository provides access to recorded gesture events.
type EventRepository struct {
	store *Store
}

// Events returns the gesture event repository for this store.
func (s *Store) Events() *EventRepository {
	return &EventRepository{store: s}
}

// Create inserts a new gesture event, assigning an ID if one is not set.
// The site row is created on first use.
func (r *EventRepository) Create(e *GestureEvent) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	e.CreatedAt = time.Now()

	if err := r.store.ensureSite(e.SiteID); err != nil {
		return err
	}

	_, err := r.store.db.Exec(
		`INSERT INTO gesture_events (id, site_id, gesture, confidence, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		e.ID, e.SiteID, e.Gesture, e.Confidence, e.CreatedAt,
	)
	return err
}

// ListBySite retrieves up to limit events for a site, newest first.
func (r *EventRepository) ListBySite(siteID string, limit int) ([]*GestureEvent, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := r.store.db.Query(
		`SELECT id, site_id, gesture, confidence, created_at
		 FROM gesture_events WHERE site_id = ?
		 ORDER BY created_at DESC LIMIT ?`,
		siteID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*GestureEvent
	for rows.Next() {
		e := &GestureEvent{}
		if err := rows.Scan(&e.ID, &e.SiteID, &e.Gesture, &e.Confidence, &e.CreatedAt); err != nil {
			return nil, err
		}
		events = append(events, e)
	}

	return events, rows.Err()
}

// ensureSite inserts the site row if it does not exist yet. The site name
// defaults to its identifier until someone renames it.
func (s *Store) ensureSite(siteID string) error {
	_, err := s.db.Exec(
		`INSERT OR IGNORE INTO sites (id, name) VALUES (?, ?)`,
		siteID, siteID,
	)
	return err
}
