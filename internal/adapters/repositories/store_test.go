package repositories

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"tour-route-service/internal/domain"
	"tour-route-service/internal/ports"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := InitSchema(db); err != nil {
		t.Fatalf("init schema: %v", err)
	}
	return db
}

func seedTestData(t *testing.T, db *sql.DB) {
	t.Helper()

	stmts := []struct {
		q    string
		args []any
	}{
		{`INSERT INTO venues (venue_id, name, city, region, lat, lon) VALUES ($1, $2, $3, $4, $5, $6);`,
			[]any{1, "Ogden Theatre", "Denver", "CO", 39.7392, -104.9903}},
		{`INSERT INTO venues (venue_id, name, city, region, lat, lon) VALUES ($1, $2, $3, $4, $5, $6);`,
			[]any{2, "Metro", "Chicago", "IL", 41.8781, -87.6298}},
		{`INSERT INTO venues (venue_id, name, city, region, lat, lon) VALUES ($1, $2, $3, $4, NULL, NULL);`,
			[]any{3, "No Map Hall", "Nowhere", "KS"}},
		{`INSERT INTO venue_availability (venue_id, start_date, end_date) VALUES ($1, $2, $3);`,
			[]any{2, "2024-06-01", "2024-06-30"}},
		{`INSERT INTO tours (tour_id, artist, name, version) VALUES ($1, $2, $3, 1);`,
			[]any{7, "The Reverb Units", "Summer Run"}},
		{`INSERT INTO tour_venues (tour_id, venue_id, status, event_date, seq, notes) VALUES ($1, $2, $3, $4, $5, $6);`,
			[]any{7, 1, "confirmed", "2024-06-01", 0, ""}},
		{`INSERT INTO tour_venues (tour_id, venue_id, status, event_date, seq, notes) VALUES ($1, $2, $3, NULL, NULL, $4);`,
			[]any{7, 2, "planning", "waiting on hold"}},
	}

	for _, s := range stmts {
		if _, err := db.Exec(s.q, s.args...); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
}

func TestGetTourVenues(t *testing.T) {
	db := openTestDB(t)
	seedTestData(t, db)
	store := NewStore(db)

	stops, version, err := store.GetTourVenues(context.Background(), 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if version != 1 {
		t.Fatalf("version = %d, want 1", version)
	}
	if len(stops) != 2 {
		t.Fatalf("stops = %d, want 2", len(stops))
	}

	first := stops[0]
	if first.VenueID != 1 || first.Status != domain.StatusConfirmed {
		t.Fatalf("first stop = %+v", first)
	}
	if first.Date == nil || !first.Date.Equal(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("first stop date = %v", first.Date)
	}
	if first.Sequence == nil || *first.Sequence != 0 {
		t.Fatalf("first stop sequence = %v", first.Sequence)
	}

	second := stops[1]
	if second.VenueID != 2 || second.Date != nil || second.Sequence != nil {
		t.Fatalf("second stop = %+v", second)
	}
	if second.Notes != "waiting on hold" {
		t.Fatalf("second stop notes = %q", second.Notes)
	}
}

func TestGetTourVenuesNotFound(t *testing.T) {
	db := openTestDB(t)
	store := NewStore(db)

	if _, _, err := store.GetTourVenues(context.Background(), 999); !errors.Is(err, ports.ErrTourNotFound) {
		t.Fatalf("expected ErrTourNotFound, got %v", err)
	}
}

func TestApplyPlanRoundTrip(t *testing.T) {
	db := openTestDB(t)
	seedTestData(t, db)
	store := NewStore(db)

	date := time.Date(2024, 6, 5, 0, 0, 0, 0, time.UTC)
	seq0, seq1, seq2 := 0, 1, 2
	stops := []domain.TourVenueStop{
		{VenueID: 1, Status: domain.StatusConfirmed, Date: &date, Sequence: &seq0},
		{VenueID: 3, Status: domain.StatusPlanning, Sequence: &seq1},
		{VenueID: 2, Status: domain.StatusConfirmed, Sequence: &seq2},
	}

	applied, err := store.ApplyPlan(context.Background(), 7, stops, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if applied.Version != 2 {
		t.Fatalf("applied version = %d, want 2", applied.Version)
	}

	got, version, err := store.GetTourVenues(context.Background(), 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if version != 2 {
		t.Fatalf("version after apply = %d, want 2", version)
	}
	if len(got) != 3 {
		t.Fatalf("stops after apply = %d, want 3", len(got))
	}
	// Rows come back in sequence order.
	if got[0].VenueID != 1 || got[1].VenueID != 3 || got[2].VenueID != 2 {
		t.Fatalf("order after apply: %d, %d, %d", got[0].VenueID, got[1].VenueID, got[2].VenueID)
	}
	if got[0].Date == nil || !got[0].Date.Equal(date) {
		t.Fatalf("date after apply = %v", got[0].Date)
	}
}

func TestApplyPlanVersionConflict(t *testing.T) {
	db := openTestDB(t)
	seedTestData(t, db)
	store := NewStore(db)

	_, err := store.ApplyPlan(context.Background(), 7, nil, 42)
	if !errors.Is(err, ports.ErrVersionConflict) {
		t.Fatalf("expected ErrVersionConflict, got %v", err)
	}

	// The failed apply must not have changed anything.
	_, version, err := store.GetTourVenues(context.Background(), 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if version != 1 {
		t.Fatalf("version = %d, want 1", version)
	}
}

func TestGetVenuesAndPool(t *testing.T) {
	db := openTestDB(t)
	seedTestData(t, db)
	store := NewStore(db)

	venues, err := store.GetVenues(context.Background(), []int64{1, 2, 999})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(venues) != 2 {
		t.Fatalf("venues = %d, want 2 (unknown ids are absent)", len(venues))
	}
	if venues[1].Coord == nil || venues[1].Coord.Lat != 39.7392 {
		t.Fatalf("venue 1 coord = %+v", venues[1].Coord)
	}
	if len(venues[2].Availability) != 1 {
		t.Fatalf("venue 2 availability = %d ranges, want 1", len(venues[2].Availability))
	}

	pool, err := store.GetCandidateVenuePool(context.Background(), []int64{1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pool) != 2 {
		t.Fatalf("pool = %d, want 2", len(pool))
	}
	for _, v := range pool {
		if v.VenueID == 1 {
			t.Fatal("excluded venue present in pool")
		}
	}
	if pool[1].VenueID == 3 && pool[1].Coord != nil {
		t.Fatal("venue without coordinates must have nil Coord")
	}
}

func TestSeedFromJSON(t *testing.T) {
	db := openTestDB(t)

	seedPath := t.TempDir() + "/seed.json"
	seedJSON := `{
	  "venues": [
	    {"venue_id": 1, "name": "Ogden Theatre", "city": "Denver", "region": "CO", "lat": 39.7392, "lon": -104.9903},
	    {"venue_id": 2, "name": "Uptown Theater", "city": "Kansas City", "region": "MO", "lat": 39.0997, "lon": -94.5786,
	     "availability": [{"start_date": "2024-06-01", "end_date": "2024-06-30"}]}
	  ],
	  "tours": [
	    {"tour_id": 1, "artist": "The Reverb Units", "name": "Summer Run",
	     "stops": [{"venue_id": 1, "status": "confirmed", "date": "2024-06-01"}]}
	  ]
	}`
	if err := writeFile(seedPath, seedJSON); err != nil {
		t.Fatalf("write seed: %v", err)
	}

	if err := SeedFromJSON(db, seedPath); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Reseeding is a no-op, not a constraint violation.
	if err := SeedFromJSON(db, seedPath); err != nil {
		t.Fatalf("reseed failed: %v", err)
	}

	store := NewStore(db)
	pool, err := store.GetCandidateVenuePool(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pool) != 2 {
		t.Fatalf("pool = %d, want 2", len(pool))
	}

	stops, version, err := store.GetTourVenues(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if version != 1 || len(stops) != 1 {
		t.Fatalf("tour after seed: version=%d stops=%d", version, len(stops))
	}
}

func writeFile(path, content string) error {
	return os.WriteFile(path, []byte(content), 0o644)
}
