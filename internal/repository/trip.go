package repository

import (
	"context"
	"errors"
	"fmt"

	"trip-planner-backend/internal/aggregate"
	"trip-planner-backend/internal/models"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
)

// TripRepository handles database operations for trips and their derived counters
type TripRepository struct {
	db DB
}

// NewTripRepository creates a new trip repository
func NewTripRepository(db DB) *TripRepository {
	return &TripRepository{db: db}
}

var _ aggregate.CounterStore = (*TripRepository)(nil)

const tripColumns = `id, user_id, name, destination, start_date, end_date, budget, total_expenses, status,
	cover_image, description, interests, ai_summary, places_count, visited_places_count,
	expenses_count, photos_count, travel_segments_count, created_at, updated_at`

func scanTrip(row scanner) (*models.Trip, error) {
	var t models.Trip
	err := row.Scan(
		&t.ID, &t.UserID, &t.Name, &t.Destination, &t.StartDate, &t.EndDate, &t.Budget,
		&t.TotalExpenses, &t.Status, &t.CoverImage, &t.Description, &t.Interests, &t.AISummary,
		&t.PlacesCount, &t.VisitedPlacesCount, &t.ExpensesCount, &t.PhotosCount,
		&t.TravelSegmentsCount, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Create creates a new trip
func (r *TripRepository) Create(ctx context.Context, t *models.Trip) error {
	query := `
		INSERT INTO trips (` + tripColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
	`
	_, err := r.db.Exec(ctx, query,
		t.ID, t.UserID, t.Name, t.Destination, t.StartDate, t.EndDate, t.Budget,
		t.TotalExpenses, t.Status, t.CoverImage, t.Description, t.Interests, t.AISummary,
		t.PlacesCount, t.VisitedPlacesCount, t.ExpensesCount, t.PhotosCount,
		t.TravelSegmentsCount, t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create trip: %w", err)
	}
	return nil
}

// GetByID retrieves a trip by ID
func (r *TripRepository) GetByID(ctx context.Context, id string) (*models.Trip, error) {
	query := `SELECT ` + tripColumns + ` FROM trips WHERE id = $1`
	trip, err := scanTrip(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("trip %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get trip: %w", err)
	}
	return trip, nil
}

// ListByUser returns the user's trips, newest first
func (r *TripRepository) ListByUser(ctx context.Context, userID string) ([]*models.Trip, error) {
	query := `SELECT ` + tripColumns + ` FROM trips WHERE user_id = $1 ORDER BY created_at DESC`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list trips: %w", err)
	}
	trips, err := collect(rows, scanTrip)
	if err != nil {
		return nil, fmt.Errorf("failed to scan trips: %w", err)
	}
	return trips, nil
}

// Update writes the non-nil fields of u
func (r *TripRepository) Update(ctx context.Context, id string, u models.TripUpdate) error {
	q := psql.Update("trips").Set("updated_at", sq.Expr("NOW()")).Where(sq.Eq{"id": id})
	if u.Name != nil {
		q = q.Set("name", *u.Name)
	}
	if u.Destination != nil {
		q = q.Set("destination", *u.Destination)
	}
	if u.StartDate != nil {
		q = q.Set("start_date", *u.StartDate)
	}
	if u.EndDate != nil {
		q = q.Set("end_date", *u.EndDate)
	}
	if u.Budget != nil {
		q = q.Set("budget", *u.Budget)
	}
	if u.Status != nil {
		q = q.Set("status", *u.Status)
	}
	if u.CoverImage != nil {
		q = q.Set("cover_image", *u.CoverImage)
	}
	if u.Description != nil {
		q = q.Set("description", *u.Description)
	}
	if u.Interests != nil {
		q = q.Set("interests", u.Interests)
	}
	if u.AISummary != nil {
		q = q.Set("ai_summary", *u.AISummary)
	}

	if err := execUpdate(ctx, r.db, q); err != nil {
		if errors.Is(err, ErrNotFound) {
			return fmt.Errorf("trip %w", err)
		}
		return fmt.Errorf("failed to update trip: %w", err)
	}
	return nil
}

// Delete deletes a trip. Child rows go with it through ON DELETE CASCADE.
func (r *TripRepository) Delete(ctx context.Context, id string) error {
	if err := execUpdate(ctx, r.db, psql.Delete("trips").Where(sq.Eq{"id": id})); err != nil {
		if errors.Is(err, ErrNotFound) {
			return fmt.Errorf("trip %w", err)
		}
		return fmt.Errorf("failed to delete trip: %w", err)
	}
	return nil
}

// IncrementCounters adds d to the counters in a single UPDATE, so concurrent
// increments never overwrite each other
func (r *TripRepository) IncrementCounters(ctx context.Context, tripID string, d aggregate.Delta) error {
	changes := d.Changes()
	if len(changes) == 0 {
		return nil
	}

	q := psql.Update("trips")
	for _, c := range changes {
		col := string(c.Counter)
		q = q.Set(col, sq.Expr(col+" + ?", c.By))
	}
	q = q.Set("updated_at", sq.Expr("NOW()")).Where(sq.Eq{"id": tripID})

	if err := execUpdate(ctx, r.db, q); err != nil {
		if errors.Is(err, ErrNotFound) {
			return fmt.Errorf("trip %w", err)
		}
		return fmt.Errorf("failed to increment trip counters: %w", err)
	}
	return nil
}

// ListExpenseAmounts returns the amount of every expense of the trip
func (r *TripRepository) ListExpenseAmounts(ctx context.Context, tripID string) ([]float64, error) {
	rows, err := r.db.Query(ctx, `SELECT amount FROM expenses WHERE trip_id = $1`, tripID)
	if err != nil {
		return nil, fmt.Errorf("failed to query expense amounts: %w", err)
	}
	defer rows.Close()

	amounts := []float64{}
	for rows.Next() {
		var amount float64
		if err := rows.Scan(&amount); err != nil {
			return nil, fmt.Errorf("failed to scan expense amount: %w", err)
		}
		amounts = append(amounts, amount)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating expense amounts: %w", err)
	}
	return amounts, nil
}

// SetTotalExpenses overwrites the money total
func (r *TripRepository) SetTotalExpenses(ctx context.Context, tripID string, total float64) error {
	query := `UPDATE trips SET total_expenses = $1, updated_at = NOW() WHERE id = $2`
	result, err := r.db.Exec(ctx, query, total, tripID)
	if err != nil {
		return fmt.Errorf("failed to set total expenses: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("trip %w", ErrNotFound)
	}
	return nil
}

// SetCounters overwrites every derived value with c
func (r *TripRepository) SetCounters(ctx context.Context, tripID string, c aggregate.Counters) error {
	query := `
		UPDATE trips
		SET places_count = $1, visited_places_count = $2, expenses_count = $3,
			photos_count = $4, travel_segments_count = $5, total_expenses = $6, updated_at = NOW()
		WHERE id = $7
	`
	result, err := r.db.Exec(ctx, query,
		c.Places, c.VisitedPlaces, c.Expenses, c.Photos, c.TravelSegments, c.TotalExpenses, tripID,
	)
	if err != nil {
		return fmt.Errorf("failed to set trip counters: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("trip %w", ErrNotFound)
	}
	return nil
}
