package repository

import (
	"context"
	"errors"
	"fmt"

	"trip-planner-backend/internal/models"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
)

// TravelSegmentRepository handles database operations for travel segments
type TravelSegmentRepository struct {
	db DB
}

// NewTravelSegmentRepository creates a new travel segment repository
func NewTravelSegmentRepository(db DB) *TravelSegmentRepository {
	return &TravelSegmentRepository{db: db}
}

const segmentColumns = `id, trip_id, type, provider, departure_location, arrival_location, departure_time,
	arrival_time, booking_reference, seat_number, notes, created_at, updated_at`

func scanSegment(row scanner) (*models.TravelSegment, error) {
	var s models.TravelSegment
	err := row.Scan(
		&s.ID, &s.TripID, &s.Type, &s.Provider, &s.DepartureLocation, &s.ArrivalLocation,
		&s.DepartureTime, &s.ArrivalTime, &s.BookingReference, &s.SeatNumber, &s.Notes,
		&s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Create creates a new travel segment
func (r *TravelSegmentRepository) Create(ctx context.Context, s *models.TravelSegment) error {
	query := `
		INSERT INTO travel_segments (` + segmentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	_, err := r.db.Exec(ctx, query,
		s.ID, s.TripID, s.Type, s.Provider, s.DepartureLocation, s.ArrivalLocation,
		s.DepartureTime, s.ArrivalTime, s.BookingReference, s.SeatNumber, s.Notes,
		s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create travel segment: %w", err)
	}
	return nil
}

// GetByID retrieves a travel segment of a trip
func (r *TravelSegmentRepository) GetByID(ctx context.Context, tripID, segmentID string) (*models.TravelSegment, error) {
	query := `SELECT ` + segmentColumns + ` FROM travel_segments WHERE id = $1 AND trip_id = $2`
	segment, err := scanSegment(r.db.QueryRow(ctx, query, segmentID, tripID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("travel segment %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get travel segment: %w", err)
	}
	return segment, nil
}

// ListByTrip returns the trip's segments by departure time
func (r *TravelSegmentRepository) ListByTrip(ctx context.Context, tripID string) ([]*models.TravelSegment, error) {
	query := `SELECT ` + segmentColumns + ` FROM travel_segments WHERE trip_id = $1 ORDER BY departure_time ASC`
	rows, err := r.db.Query(ctx, query, tripID)
	if err != nil {
		return nil, fmt.Errorf("failed to list travel segments: %w", err)
	}
	segments, err := collect(rows, scanSegment)
	if err != nil {
		return nil, fmt.Errorf("failed to scan travel segments: %w", err)
	}
	return segments, nil
}

// Update writes the non-nil fields of u
func (r *TravelSegmentRepository) Update(ctx context.Context, tripID, segmentID string, u models.TravelSegmentUpdate) error {
	q := psql.Update("travel_segments").
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": segmentID, "trip_id": tripID})
	if u.Type != nil {
		q = q.Set("type", *u.Type)
	}
	if u.Provider != nil {
		q = q.Set("provider", *u.Provider)
	}
	if u.DepartureLocation != nil {
		q = q.Set("departure_location", *u.DepartureLocation)
	}
	if u.ArrivalLocation != nil {
		q = q.Set("arrival_location", *u.ArrivalLocation)
	}
	if u.DepartureTime != nil {
		q = q.Set("departure_time", *u.DepartureTime)
	}
	if u.ArrivalTime != nil {
		q = q.Set("arrival_time", *u.ArrivalTime)
	}
	if u.BookingReference != nil {
		q = q.Set("booking_reference", *u.BookingReference)
	}
	if u.SeatNumber != nil {
		q = q.Set("seat_number", *u.SeatNumber)
	}
	if u.Notes != nil {
		q = q.Set("notes", *u.Notes)
	}

	if err := execUpdate(ctx, r.db, q); err != nil {
		if errors.Is(err, ErrNotFound) {
			return fmt.Errorf("travel segment %w", err)
		}
		return fmt.Errorf("failed to update travel segment: %w", err)
	}
	return nil
}

// Delete deletes a travel segment
func (r *TravelSegmentRepository) Delete(ctx context.Context, tripID, segmentID string) error {
	query := `DELETE FROM travel_segments WHERE id = $1 AND trip_id = $2`
	result, err := r.db.Exec(ctx, query, segmentID, tripID)
	if err != nil {
		return fmt.Errorf("failed to delete travel segment: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("travel segment %w", ErrNotFound)
	}
	return nil
}
