package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"trip-planner-backend/internal/models"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
)

// PlaceRepository handles database operations for places
type PlaceRepository struct {
	db DB
}

// NewPlaceRepository creates a new place repository
func NewPlaceRepository(db DB) *PlaceRepository {
	return &PlaceRepository{db: db}
}

const placeColumns = `id, trip_id, name, address, latitude, longitude, external_place_id, type, rating,
	user_rating, visited, planned_date, visited_date, estimated_duration, stay_duration_minutes,
	notes, photos, ai_suggested, sort_order, created_at, updated_at`

func scanPlace(row scanner) (*models.Place, error) {
	var p models.Place
	err := row.Scan(
		&p.ID, &p.TripID, &p.Name, &p.Address, &p.Latitude, &p.Longitude, &p.ExternalPlaceID,
		&p.Type, &p.Rating, &p.UserRating, &p.Visited, &p.PlannedDate, &p.VisitedDate,
		&p.EstimatedDuration, &p.StayDurationMinutes, &p.Notes, &p.Photos, &p.AISuggested,
		&p.SortOrder, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create creates a new place
func (r *PlaceRepository) Create(ctx context.Context, p *models.Place) error {
	query := `
		INSERT INTO places (` + placeColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)
	`
	_, err := r.db.Exec(ctx, query,
		p.ID, p.TripID, p.Name, p.Address, p.Latitude, p.Longitude, p.ExternalPlaceID,
		p.Type, p.Rating, p.UserRating, p.Visited, p.PlannedDate, p.VisitedDate,
		p.EstimatedDuration, p.StayDurationMinutes, p.Notes, p.Photos, p.AISuggested,
		p.SortOrder, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create place: %w", err)
	}
	return nil
}

// GetByID retrieves a place of a trip
func (r *PlaceRepository) GetByID(ctx context.Context, tripID, placeID string) (*models.Place, error) {
	query := `SELECT ` + placeColumns + ` FROM places WHERE id = $1 AND trip_id = $2`
	place, err := scanPlace(r.db.QueryRow(ctx, query, placeID, tripID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("place %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get place: %w", err)
	}
	return place, nil
}

// ListByTrip returns unvisited places first, each group by sort order.
// Equal sort keys keep insertion order.
func (r *PlaceRepository) ListByTrip(ctx context.Context, tripID string) ([]*models.Place, error) {
	query := `SELECT ` + placeColumns + ` FROM places WHERE trip_id = $1
		ORDER BY visited ASC, sort_order ASC, created_at ASC`
	rows, err := r.db.Query(ctx, query, tripID)
	if err != nil {
		return nil, fmt.Errorf("failed to list places: %w", err)
	}
	places, err := collect(rows, scanPlace)
	if err != nil {
		return nil, fmt.Errorf("failed to scan places: %w", err)
	}
	return places, nil
}

// Update writes the non-nil fields of u
func (r *PlaceRepository) Update(ctx context.Context, tripID, placeID string, u models.PlaceUpdate) error {
	q := psql.Update("places").
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": placeID, "trip_id": tripID})
	if u.Name != nil {
		q = q.Set("name", *u.Name)
	}
	if u.Address != nil {
		q = q.Set("address", *u.Address)
	}
	if u.Latitude != nil {
		q = q.Set("latitude", *u.Latitude)
	}
	if u.Longitude != nil {
		q = q.Set("longitude", *u.Longitude)
	}
	if u.Type != nil {
		q = q.Set("type", *u.Type)
	}
	if u.Rating != nil {
		q = q.Set("rating", *u.Rating)
	}
	if u.UserRating != nil {
		q = q.Set("user_rating", *u.UserRating)
	}
	if u.PlannedDate != nil {
		q = q.Set("planned_date", *u.PlannedDate)
	}
	if u.EstimatedDuration != nil {
		q = q.Set("estimated_duration", *u.EstimatedDuration)
	}
	if u.StayDurationMinutes != nil {
		q = q.Set("stay_duration_minutes", *u.StayDurationMinutes)
	}
	if u.Notes != nil {
		q = q.Set("notes", *u.Notes)
	}
	if u.Photos != nil {
		q = q.Set("photos", u.Photos)
	}
	if u.SortOrder != nil {
		q = q.Set("sort_order", *u.SortOrder)
	}

	if err := execUpdate(ctx, r.db, q); err != nil {
		if errors.Is(err, ErrNotFound) {
			return fmt.Errorf("place %w", err)
		}
		return fmt.Errorf("failed to update place: %w", err)
	}
	return nil
}

// SetVisited stores the visited flag and stamps or clears the visit time.
// It reports false when the place was already in that state, so only one of
// several concurrent toggles to the same state sees a change.
func (r *PlaceRepository) SetVisited(ctx context.Context, tripID, placeID string, visited bool, at time.Time) (bool, error) {
	var visitedDate *time.Time
	if visited {
		visitedDate = &at
	}
	query := `UPDATE places SET visited = $1, visited_date = $2, updated_at = NOW()
		WHERE id = $3 AND trip_id = $4 AND visited <> $1`
	result, err := r.db.Exec(ctx, query, visited, visitedDate, placeID, tripID)
	if err != nil {
		return false, fmt.Errorf("failed to set place visited: %w", err)
	}
	return result.RowsAffected() == 1, nil
}

// Delete deletes a place and returns whether it was visited at that moment
func (r *PlaceRepository) Delete(ctx context.Context, tripID, placeID string) (bool, error) {
	query := `DELETE FROM places WHERE id = $1 AND trip_id = $2 RETURNING visited`
	var wasVisited bool
	if err := r.db.QueryRow(ctx, query, placeID, tripID).Scan(&wasVisited); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, fmt.Errorf("place %w", ErrNotFound)
		}
		return false, fmt.Errorf("failed to delete place: %w", err)
	}
	return wasVisited, nil
}

// UpdateSortOrders assigns keys[i] to placeIDs[i] in one transaction
func (r *PlaceRepository) UpdateSortOrders(ctx context.Context, tripID string, placeIDs []string, keys []int64) error {
	if len(placeIDs) != len(keys) {
		return fmt.Errorf("failed to update sort orders: %d places but %d keys", len(placeIDs), len(keys))
	}

	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		query := `UPDATE places SET sort_order = $1, updated_at = NOW() WHERE id = $2 AND trip_id = $3`
		for i, id := range placeIDs {
			if _, err := tx.Exec(ctx, query, keys[i], id, tripID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to update sort orders: %w", err)
	}
	return nil
}
