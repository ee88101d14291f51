package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"tour-route-service/internal/domain"
	"tour-route-service/internal/platform/obs"
	"tour-route-service/internal/ports"
)

const dateLayout = "2006-01-02"

// SQL-backed implementation of the TourStore and VenueCatalog ports.
//
// Queries stick to $N placeholders and portable column types so the same
// code runs against postgres (pgx stdlib driver) and the local sqlite file
// used for development.
type Store struct{ DB *sql.DB }

func NewStore(db *sql.DB) *Store {
	return &Store{DB: db}
}

// Return all venue stops of a tour plus the tour's current version.
func (s *Store) GetTourVenues(ctx context.Context, tourID int64) (_ []domain.TourVenueStop, _ int64, err error) {
	defer obs.Time(ctx, "store.GetTourVenues")(&err)

	if s.DB == nil {
		return nil, 0, errors.New("tour store: DB is nil")
	}

	var version int64
	row := s.DB.QueryRowContext(ctx, `SELECT version FROM tours WHERE tour_id = $1;`, tourID)
	if err := row.Scan(&version); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, 0, fmt.Errorf("%w: tour_id=%d", ports.ErrTourNotFound, tourID)
		}
		return nil, 0, fmt.Errorf("get tour venues: read tour version: %w", err)
	}

	query := `
	SELECT
		venue_id,
		status,
		event_date,
		seq,
		notes
	FROM tour_venues
	WHERE tour_id = $1
	ORDER BY
		CASE WHEN seq IS NULL THEN 1 ELSE 0 END,
		seq,
		venue_id;
	`
	rows, err := s.DB.QueryContext(ctx, query, tourID)
	if err != nil {
		return nil, 0, fmt.Errorf("get tour venues: query tour_venues table: %w", err)
	}
	defer rows.Close()

	stops := make([]domain.TourVenueStop, 0, 16)
	for rows.Next() {
		var (
			stop    domain.TourVenueStop
			status  string
			rawDate sql.NullString
			seq     sql.NullInt64
		)
		if err := rows.Scan(&stop.VenueID, &status, &rawDate, &seq, &stop.Notes); err != nil {
			return nil, 0, fmt.Errorf("get tour venues: scan row: %w", err)
		}

		stop.Status = domain.StopStatus(status)
		if rawDate.Valid && rawDate.String != "" {
			d, err := time.Parse(dateLayout, rawDate.String)
			if err != nil {
				return nil, 0, fmt.Errorf("get tour venues: venue %d: parse date %q: %w", stop.VenueID, rawDate.String, err)
			}
			stop.Date = &d
		}
		if seq.Valid {
			n := int(seq.Int64)
			stop.Sequence = &n
		}

		stops = append(stops, stop)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("get tour venues: row iteration: %w", err)
	}

	return stops, version, nil
}

// Atomically replace the tour's stop rows with the given ordered list.
// expectedVersion guards against interleaved apply calls for the same tour.
func (s *Store) ApplyPlan(ctx context.Context, tourID int64, stops []domain.TourVenueStop, expectedVersion int64) (_ *domain.AppliedTour, err error) {
	defer obs.Time(ctx, "store.ApplyPlan")(&err)

	if s.DB == nil {
		return nil, errors.New("tour store: DB is nil")
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("apply plan: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var version int64
	row := tx.QueryRowContext(ctx, `SELECT version FROM tours WHERE tour_id = $1;`, tourID)
	if err := row.Scan(&version); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: tour_id=%d", ports.ErrTourNotFound, tourID)
		}
		return nil, fmt.Errorf("apply plan: read tour version: %w", err)
	}
	if version != expectedVersion {
		return nil, fmt.Errorf("%w: tour_id=%d version=%d expected=%d", ports.ErrVersionConflict, tourID, version, expectedVersion)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM tour_venues WHERE tour_id = $1;`, tourID); err != nil {
		return nil, fmt.Errorf("apply plan: clear tour_venues: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO tour_venues (tour_id, venue_id, status, event_date, seq, notes)
	VALUES ($1, $2, $3, $4, $5, $6);
	`)
	if err != nil {
		return nil, fmt.Errorf("apply plan: prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, stop := range stops {
		var rawDate any
		if stop.Date != nil {
			rawDate = stop.Date.Format(dateLayout)
		}
		var seq any
		if stop.Sequence != nil {
			seq = *stop.Sequence
		}

		if _, err := stmt.ExecContext(ctx, tourID, stop.VenueID, string(stop.Status), rawDate, seq, stop.Notes); err != nil {
			return nil, fmt.Errorf("apply plan: insert venue_id=%d: %w", stop.VenueID, err)
		}
	}

	newVersion := version + 1
	if _, err := tx.ExecContext(ctx, `UPDATE tours SET version = $1 WHERE tour_id = $2;`, newVersion, tourID); err != nil {
		return nil, fmt.Errorf("apply plan: bump version: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("apply plan: commit tx: %w", err)
	}

	return &domain.AppliedTour{TourID: tourID, Stops: stops, Version: newVersion}, nil
}

// Return venues referenced by the given ids, keyed by venue id.
func (s *Store) GetVenues(ctx context.Context, ids []int64) (_ map[int64]domain.Venue, err error) {
	defer obs.Time(ctx, "store.GetVenues")(&err)

	if s.DB == nil {
		return nil, errors.New("venue catalog: DB is nil")
	}
	if len(ids) == 0 {
		return map[int64]domain.Venue{}, nil
	}

	ph, args := placeholders(ids, 1)
	query := fmt.Sprintf(`
	SELECT venue_id, name, city, region, lat, lon
	FROM venues
	WHERE venue_id IN (%s);
	`, ph)

	venues, err := s.queryVenues(ctx, query, args)
	if err != nil {
		return nil, fmt.Errorf("get venues: %w", err)
	}

	out := make(map[int64]domain.Venue, len(venues))
	for _, v := range venues {
		out[v.VenueID] = v
	}
	return out, nil
}

// Return the candidate pool minus the excluded venue ids.
func (s *Store) GetCandidateVenuePool(ctx context.Context, excludeIDs []int64) (_ []domain.Venue, err error) {
	defer obs.Time(ctx, "store.GetCandidateVenuePool")(&err)

	if s.DB == nil {
		return nil, errors.New("venue catalog: DB is nil")
	}

	query := `
	SELECT venue_id, name, city, region, lat, lon
	FROM venues
	`
	var args []any
	if len(excludeIDs) > 0 {
		ph, a := placeholders(excludeIDs, 1)
		query += fmt.Sprintf("WHERE venue_id NOT IN (%s)\n", ph)
		args = a
	}
	query += "ORDER BY venue_id;"

	venues, err := s.queryVenues(ctx, query, args)
	if err != nil {
		return nil, fmt.Errorf("get candidate venue pool: %w", err)
	}
	return venues, nil
}

func (s *Store) queryVenues(ctx context.Context, query string, args []any) ([]domain.Venue, error) {
	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query venues table: %w", err)
	}
	defer rows.Close()

	venues := make([]domain.Venue, 0, 64)
	for rows.Next() {
		var (
			v        domain.Venue
			lat, lon sql.NullFloat64
		)
		if err := rows.Scan(&v.VenueID, &v.Name, &v.City, &v.Region, &lat, &lon); err != nil {
			return nil, fmt.Errorf("scan venue row: %w", err)
		}
		if lat.Valid && lon.Valid {
			v.Coord = &domain.Coordinate{Lat: lat.Float64, Lon: lon.Float64}
		}
		venues = append(venues, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("venue row iteration: %w", err)
	}

	if err := s.attachAvailability(ctx, venues); err != nil {
		return nil, err
	}
	return venues, nil
}

// attachAvailability loads published availability ranges for the venues.
func (s *Store) attachAvailability(ctx context.Context, venues []domain.Venue) error {
	if len(venues) == 0 {
		return nil
	}

	ids := make([]int64, 0, len(venues))
	byID := make(map[int64]int, len(venues))
	for i, v := range venues {
		ids = append(ids, v.VenueID)
		byID[v.VenueID] = i
	}

	ph, args := placeholders(ids, 1)
	query := fmt.Sprintf(`
	SELECT venue_id, start_date, end_date
	FROM venue_availability
	WHERE venue_id IN (%s)
	ORDER BY venue_id, start_date;
	`, ph)

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("query venue_availability table: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			venueID    int64
			start, end string
		)
		if err := rows.Scan(&venueID, &start, &end); err != nil {
			return fmt.Errorf("scan availability row: %w", err)
		}

		idx, ok := byID[venueID]
		if !ok {
			continue
		}

		// Availability data is scraper-fed; unparseable rows become an
		// intentionally invalid range so the engine can skip the venue
		// with a warning instead of failing the read.
		var r domain.DateRange
		if sd, err := time.Parse(dateLayout, start); err == nil {
			r.Start = sd
		}
		if ed, err := time.Parse(dateLayout, end); err == nil {
			r.End = ed
		}
		venues[idx].Availability = append(venues[idx].Availability, r)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("availability row iteration: %w", err)
	}

	return nil
}

func placeholders(ids []int64, start int) (string, []any) {
	ph := make([]string, 0, len(ids))
	args := make([]any, 0, len(ids))
	for i, id := range ids {
		ph = append(ph, fmt.Sprintf("$%d", start+i))
		args = append(args, id)
	}
	return strings.Join(ph, ", "), args
}
