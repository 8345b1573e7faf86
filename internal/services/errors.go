package services

import (
	"context"
	"errors"
	"fmt"

	"trip-planner-backend/internal/models"
	"trip-planner-backend/internal/repository"
)

var (
	ErrNotFound           = repository.ErrNotFound
	ErrTripNotFound       = errors.New("trip not found")
	ErrForbidden          = errors.New("trip belongs to another user")
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email is already registered")
)

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// ownedTrip loads a trip and checks that userID owns it
func ownedTrip(ctx context.Context, trips TripStore, userID, tripID string) (*models.Trip, error) {
	trip, err := trips.GetByID(ctx, tripID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTripNotFound
		}
		return nil, fmt.Errorf("failed to get trip: %w", err)
	}
	if trip.UserID != userID {
		return nil, ErrForbidden
	}
	return trip, nil
}
