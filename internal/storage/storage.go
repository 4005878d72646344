// Package storage persists venue rows in a file-based SQLite database.
//
// One logical table, keyed by venue name. Enrichment writes use
// INSERT OR REPLACE, which clears the event columns of a replaced row;
// event writes touch only the upcoming-event columns of an existing row.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/mfreeman/venuescout/internal/venue"
)

// Store is a handle to the venue database. One Store per pipeline run.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the SQLite database at path and ensures
// the venues table exists.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("storage: creating data directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("storage: open: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: ping: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migrate: %w", err)
	}
	return s, nil
}

func (s *Store) migrate() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS venues (
			name                    TEXT PRIMARY KEY,
			address                 TEXT NOT NULL DEFAULT '',
			latitude                REAL NOT NULL DEFAULT 0,
			longitude               REAL NOT NULL DEFAULT 0,
			category                TEXT NOT NULL DEFAULT 'unknown',
			size                    TEXT,
			description             TEXT,
			instagram               TEXT,
			facebook                TEXT,
			website_url             TEXT,
			phone_number            TEXT,
			rating                  REAL,
			non_venue_flag          INTEGER NOT NULL DEFAULT 0,
			upcoming_event_name     TEXT,
			upcoming_event_date     TEXT,
			upcoming_event_page_url TEXT,
			last_updated            TEXT
		)
	`)
	return err
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// UpsertVenue inserts or fully replaces the row for v.Name. A replace
// rewrites every enrichment column and clears the upcoming-event columns,
// matching insert-or-replace semantics: the next aggregation run refills
// them.
func (s *Store) UpsertVenue(v *venue.Venue) error {
	_, err := s.db.Exec(`
		INSERT OR REPLACE INTO venues (
			name, address, latitude, longitude, category, size,
			description, instagram, facebook, website_url, phone_number,
			rating, non_venue_flag
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		v.Name, v.Address, v.Latitude, v.Longitude, v.Category, string(v.Size),
		v.Description, v.Instagram, v.Facebook, v.WebsiteURL, v.PhoneNumber,
		v.Rating, v.NonVenue,
	)
	if err != nil {
		return fmt.Errorf("storage: upsert venue %q: %w", v.Name, err)
	}
	return nil
}

// SetUpcomingEvent writes c onto the venue row named by c.Venue and stamps
// last_updated. Returns false when no row matched; a candidate for an
// unknown venue is not an error.
func (s *Store) SetUpcomingEvent(c venue.EventCandidate) (bool, error) {
	res, err := s.db.Exec(`
		UPDATE venues
		SET upcoming_event_name = ?,
		    upcoming_event_date = ?,
		    upcoming_event_page_url = ?,
		    last_updated = CURRENT_TIMESTAMP
		WHERE name = ?
	`, c.Name, c.Date, c.URL, c.Venue)
	if err != nil {
		return false, fmt.Errorf("storage: set event for %q: %w", c.Venue, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("storage: rows affected: %w", err)
	}
	return n > 0, nil
}

// All returns every venue row, full scan, ordered by name for stable output.
func (s *Store) All() ([]*venue.Venue, error) {
	rows, err := s.db.Query(`
		SELECT name, address, latitude, longitude, category, size,
		       description, instagram, facebook, website_url, phone_number,
		       rating, non_venue_flag,
		       upcoming_event_name, upcoming_event_date, upcoming_event_page_url,
		       last_updated
		FROM venues
		ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("storage: select venues: %w", err)
	}
	defer rows.Close()

	var venues []*venue.Venue
	for rows.Next() {
		v := &venue.Venue{}
		var size, description sql.NullString
		var lastUpdated sql.NullString
		if err := rows.Scan(
			&v.Name, &v.Address, &v.Latitude, &v.Longitude, &v.Category, &size,
			&description, &v.Instagram, &v.Facebook, &v.WebsiteURL, &v.PhoneNumber,
			&v.Rating, &v.NonVenue,
			&v.UpcomingEventName, &v.UpcomingEventDate, &v.UpcomingEventPageURL,
			&lastUpdated,
		); err != nil {
			return nil, fmt.Errorf("storage: scan venue row: %w", err)
		}
		v.Size = venue.Size(size.String)
		v.Description = description.String
		if lastUpdated.Valid {
			if t, err := time.Parse(venue.DateLayout, lastUpdated.String); err == nil {
				v.LastUpdated = &t
			}
		}
		venues = append(venues, v)
	}
	return venues, rows.Err()
}
