package repo

import (
	"context"
	"database/sql"

	"github.com/okarhu/locboard/internal/models"
)

// ==========================
// LocationRepo
// ==========================
//
// Every mutating operation is a single SQL statement so concurrent callers
// rely on the store's own atomicity: the visit counter is a relative update
// and Update/IncrementVisit report existence through RowsAffected instead of
// a separate check-then-act round trip.
type LocationRepo struct {
	DB *sql.DB
}

// ==========================
// Constructor
// ==========================
func NewLocationRepo(db *sql.DB) *LocationRepo {
	return &LocationRepo{DB: db}
}

// ==========================
// Insert Location
// ==========================
func (r *LocationRepo) Insert(ctx context.Context, loc models.Location) (int, error) {
	query := `
		INSERT INTO locations
			(name, description, city, country, street_address, posted_at,
			 latitude, longitude, nickname, weather_requested)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`

	weather := 0
	if loc.WeatherRequested {
		weather = 1
	}

	var id int
	err := r.DB.QueryRowContext(ctx, query,
		loc.Name, loc.Description, loc.City, loc.Country, loc.StreetAddress,
		loc.PostedAt, loc.Latitude, loc.Longitude, loc.Nickname, weather).
		Scan(&id)

	if err != nil {
		return 0, err
	}

	return id, nil
}

// ==========================
// Update Location
// ==========================
//
// Overwrites the descriptive fields and sets the edit annotation. The author
// and the original posting time are never part of this statement. Returns
// false when the id does not exist.
func (r *LocationRepo) Update(ctx context.Context, id int, loc models.Location, reason string, editEpoch int64) (bool, error) {
	query := `
		UPDATE locations
		SET name = $1, description = $2, city = $3, country = $4,
		    street_address = $5, latitude = $6, longitude = $7,
		    update_reason = $8, modified_at = $9
		WHERE id = $10
	`

	result, err := r.DB.ExecContext(ctx, query,
		loc.Name, loc.Description, loc.City, loc.Country, loc.StreetAddress,
		loc.Latitude, loc.Longitude, reason, editEpoch, id)
	if err != nil {
		return false, err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return rows > 0, nil
}

// ==========================
// Increment Visit
// ==========================
//
// Relative update: N concurrent visits add exactly N.
func (r *LocationRepo) IncrementVisit(ctx context.Context, id int) (bool, error) {
	result, err := r.DB.ExecContext(ctx,
		`UPDATE locations SET times_visited = times_visited + 1 WHERE id = $1`, id)
	if err != nil {
		return false, err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return rows > 0, nil
}

// ==========================
// Exists
// ==========================
func (r *LocationRepo) Exists(ctx context.Context, id int) (bool, error) {
	var exists bool
	err := r.DB.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM locations WHERE id = $1)`, id).
		Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

// ==========================
// List All
// ==========================
func (r *LocationRepo) ListAll(ctx context.Context) ([]models.Location, error) {
	query := `
		SELECT id, name, description, city, country, street_address, posted_at,
		       latitude, longitude, nickname, update_reason, modified_at,
		       times_visited, weather_requested
		FROM locations
		ORDER BY id
	`

	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var locations []models.Location
	for rows.Next() {
		var loc models.Location
		var weather int
		if err := rows.Scan(
			&loc.ID, &loc.Name, &loc.Description, &loc.City, &loc.Country,
			&loc.StreetAddress, &loc.PostedAt, &loc.Latitude, &loc.Longitude,
			&loc.Nickname, &loc.UpdateReason, &loc.ModifiedAt,
			&loc.TimesVisited, &weather,
		); err != nil {
			return nil, err
		}
		loc.WeatherRequested = weather != 0
		locations = append(locations, loc)
	}

	return locations, rows.Err()
}

// ==========================
// Top Five
// ==========================
//
// Highest visit counts first; ties break on id so the output is deterministic.
func (r *LocationRepo) TopFive(ctx context.Context) ([]models.TopLocation, error) {
	query := `
		SELECT id, name, times_visited
		FROM locations
		ORDER BY times_visited DESC, id ASC
		LIMIT 5
	`

	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var top []models.TopLocation
	for rows.Next() {
		var t models.TopLocation
		if err := rows.Scan(&t.ID, &t.Name, &t.TimesVisited); err != nil {
			return nil, err
		}
		top = append(top, t)
	}

	return top, rows.Err()
}

// ==========================
// Counts (stats scheduler)
// ==========================
func (r *LocationRepo) Counts(ctx context.Context) (locations int, visits int, err error) {
	err = r.DB.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(times_visited), 0) FROM locations`).
		Scan(&locations, &visits)
	return locations, visits, err
}
