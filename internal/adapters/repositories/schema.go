package repositories

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

// Initialize the database schema. Statements are portable across postgres
// and sqlite.
func InitSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createVenuesQuery := `
	CREATE TABLE IF NOT EXISTS venues (
		venue_id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		city TEXT NOT NULL DEFAULT '',
		region TEXT NOT NULL DEFAULT '',
		lat DOUBLE PRECISION,
		lon DOUBLE PRECISION
	);
	`

	createAvailabilityQuery := `
	CREATE TABLE IF NOT EXISTS venue_availability (
		venue_id INTEGER NOT NULL,
		start_date TEXT NOT NULL,
		end_date TEXT NOT NULL
	);
	`

	createToursQuery := `
	CREATE TABLE IF NOT EXISTS tours (
		tour_id INTEGER PRIMARY KEY,
		artist TEXT NOT NULL DEFAULT '',
		name TEXT NOT NULL DEFAULT '',
		version INTEGER NOT NULL DEFAULT 1
	);
	`

	createTourVenuesQuery := `
	CREATE TABLE IF NOT EXISTS tour_venues (
		tour_id INTEGER NOT NULL,
		venue_id INTEGER NOT NULL,
		status TEXT NOT NULL,
		event_date TEXT,
		seq INTEGER,
		notes TEXT NOT NULL DEFAULT ''
	);
	`

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_tour_venues_tour
	ON tour_venues(tour_id);
	`

	createAvailIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_venue_availability_venue
	ON venue_availability(venue_id);
	`

	statements := []string{
		createVenuesQuery,
		createAvailabilityQuery,
		createToursQuery,
		createTourVenuesQuery,
		createIndexQuery,
		createAvailIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

type AvailabilitySeed struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

type VenueSeed struct {
	VenueID      int64              `json:"venue_id"`
	Name         string             `json:"name"`
	City         string             `json:"city"`
	Region       string             `json:"region"`
	Lat          *float64           `json:"lat"`
	Lon          *float64           `json:"lon"`
	Availability []AvailabilitySeed `json:"availability"`
}

type TourStopSeed struct {
	VenueID int64   `json:"venue_id"`
	Status  string  `json:"status"`
	Date    *string `json:"date"`
	Notes   string  `json:"notes"`
}

type TourSeed struct {
	TourID int64          `json:"tour_id"`
	Artist string         `json:"artist"`
	Name   string         `json:"name"`
	Stops  []TourStopSeed `json:"stops"`
}

type Seed struct {
	Venues []VenueSeed `json:"venues"`
	Tours  []TourSeed  `json:"tours"`
}

// Populate the database with venue and tour data from a JSON file.
func SeedFromJSON(db *sql.DB, jsonPath string) error {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return fmt.Errorf("seed catalog: read %q: %w", jsonPath, err)
	}

	var seed Seed
	if err := json.Unmarshal(bytes, &seed); err != nil {
		return fmt.Errorf("seed catalog: parse json: %w", err)
	}

	for i, v := range seed.Venues {
		if v.VenueID <= 0 {
			return fmt.Errorf("seed catalog: invalid venue_id at index %d: %d", i+1, v.VenueID)
		}
		if strings.TrimSpace(v.Name) == "" {
			return fmt.Errorf("seed catalog: venue %d: name cannot be empty", v.VenueID)
		}
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("seed catalog: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	// ON CONFLICT DO NOTHING parses the same on postgres and sqlite, so
	// reseeding an existing database is a no-op for known rows.
	venueStmt, err := tx.Prepare(`
	INSERT INTO venues (venue_id, name, city, region, lat, lon)
	VALUES ($1, $2, $3, $4, $5, $6)
	ON CONFLICT (venue_id) DO NOTHING;
	`)
	if err != nil {
		return fmt.Errorf("seed catalog: prepare venue insert: %w", err)
	}
	defer venueStmt.Close()

	availStmt, err := tx.Prepare(`
	INSERT INTO venue_availability (venue_id, start_date, end_date)
	VALUES ($1, $2, $3);
	`)
	if err != nil {
		return fmt.Errorf("seed catalog: prepare availability insert: %w", err)
	}
	defer availStmt.Close()

	for _, v := range seed.Venues {
		var lat, lon any
		if v.Lat != nil && v.Lon != nil {
			lat, lon = *v.Lat, *v.Lon
		}
		if _, err := venueStmt.Exec(v.VenueID, v.Name, v.City, v.Region, lat, lon); err != nil {
			return fmt.Errorf("seed catalog: insert venue_id=%d: %w", v.VenueID, err)
		}
		if _, err := tx.Exec(`DELETE FROM venue_availability WHERE venue_id = $1;`, v.VenueID); err != nil {
			return fmt.Errorf("seed catalog: clear availability venue_id=%d: %w", v.VenueID, err)
		}
		for _, a := range v.Availability {
			if _, err := availStmt.Exec(v.VenueID, a.StartDate, a.EndDate); err != nil {
				return fmt.Errorf("seed catalog: insert availability venue_id=%d: %w", v.VenueID, err)
			}
		}
	}

	tourStmt, err := tx.Prepare(`
	INSERT INTO tours (tour_id, artist, name, version)
	VALUES ($1, $2, $3, 1)
	ON CONFLICT (tour_id) DO NOTHING;
	`)
	if err != nil {
		return fmt.Errorf("seed catalog: prepare tour insert: %w", err)
	}
	defer tourStmt.Close()

	stopStmt, err := tx.Prepare(`
	INSERT INTO tour_venues (tour_id, venue_id, status, event_date, seq, notes)
	VALUES ($1, $2, $3, $4, NULL, $5);
	`)
	if err != nil {
		return fmt.Errorf("seed catalog: prepare stop insert: %w", err)
	}
	defer stopStmt.Close()

	for _, t := range seed.Tours {
		if t.TourID <= 0 {
			return fmt.Errorf("seed catalog: invalid tour_id: %d", t.TourID)
		}
		if _, err := tourStmt.Exec(t.TourID, t.Artist, t.Name); err != nil {
			return fmt.Errorf("seed catalog: insert tour_id=%d: %w", t.TourID, err)
		}
		if _, err := tx.Exec(`DELETE FROM tour_venues WHERE tour_id = $1;`, t.TourID); err != nil {
			return fmt.Errorf("seed catalog: clear stops tour_id=%d: %w", t.TourID, err)
		}
		for _, stop := range t.Stops {
			var date any
			if stop.Date != nil {
				date = *stop.Date
			}
			if _, err := stopStmt.Exec(t.TourID, stop.VenueID, stop.Status, date, stop.Notes); err != nil {
				return fmt.Errorf("seed catalog: insert stop tour_id=%d venue_id=%d: %w", t.TourID, stop.VenueID, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed catalog: commit tx: %w", err)
	}

	return nil
}
