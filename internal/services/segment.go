package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"trip-planner-backend/internal/aggregate"
	"trip-planner-backend/internal/models"

	"github.com/google/uuid"
)

// TravelSegmentService handles booked transport legs
type TravelSegmentService struct {
	trips    TripStore
	segments TravelSegmentStore
	recalc   *aggregate.Recalculator
	notifier Notifier
}

// NewTravelSegmentService creates a new travel segment service
func NewTravelSegmentService(trips TripStore, segments TravelSegmentStore, recalc *aggregate.Recalculator, notifier Notifier) *TravelSegmentService {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	return &TravelSegmentService{trips: trips, segments: segments, recalc: recalc, notifier: notifier}
}

// AddSegmentRequest is the body of a segment creation call
type AddSegmentRequest struct {
	Type              string    `json:"type"`
	Provider          string    `json:"provider"`
	DepartureLocation string    `json:"departure_location"`
	ArrivalLocation   string    `json:"arrival_location"`
	DepartureTime     time.Time `json:"departure_time"`
	ArrivalTime       time.Time `json:"arrival_time"`
	BookingReference  *string   `json:"booking_reference,omitempty"`
	SeatNumber        *string   `json:"seat_number,omitempty"`
	Notes             *string   `json:"notes,omitempty"`
}

// ListSegments returns the trip's segments by departure time
func (s *TravelSegmentService) ListSegments(ctx context.Context, userID, tripID string) ([]*models.TravelSegment, error) {
	if _, err := ownedTrip(ctx, s.trips, userID, tripID); err != nil {
		return nil, err
	}
	segments, err := s.segments.ListByTrip(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("failed to list travel segments: %w", err)
	}
	return segments, nil
}

// AddSegment stores a new segment and counts it on the trip
func (s *TravelSegmentService) AddSegment(ctx context.Context, userID, tripID string, req AddSegmentRequest) (*models.TravelSegment, error) {
	if _, err := ownedTrip(ctx, s.trips, userID, tripID); err != nil {
		return nil, err
	}

	if strings.TrimSpace(req.Type) == "" {
		return nil, invalid("type is required")
	}
	if strings.TrimSpace(req.DepartureLocation) == "" || strings.TrimSpace(req.ArrivalLocation) == "" {
		return nil, invalid("departure_location and arrival_location are required")
	}
	if req.DepartureTime.IsZero() || req.ArrivalTime.IsZero() {
		return nil, invalid("departure_time and arrival_time are required")
	}
	if req.ArrivalTime.Before(req.DepartureTime) {
		return nil, invalid("arrival_time is before departure_time")
	}

	now := time.Now()
	segment := &models.TravelSegment{
		ID:                uuid.New().String(),
		TripID:            tripID,
		Type:              strings.TrimSpace(req.Type),
		Provider:          strings.TrimSpace(req.Provider),
		DepartureLocation: strings.TrimSpace(req.DepartureLocation),
		ArrivalLocation:   strings.TrimSpace(req.ArrivalLocation),
		DepartureTime:     req.DepartureTime,
		ArrivalTime:       req.ArrivalTime,
		BookingReference:  req.BookingReference,
		SeatNumber:        req.SeatNumber,
		Notes:             req.Notes,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := s.segments.Create(ctx, segment); err != nil {
		return nil, fmt.Errorf("failed to create travel segment: %w", err)
	}
	if err := s.recalc.TravelSegmentAdded(ctx, tripID); err != nil {
		return nil, err
	}

	s.notifier.NotifyTripChanged(userID, tripID, "segment_added")
	return segment, nil
}

// UpdateSegment applies a partial update and returns the stored segment
func (s *TravelSegmentService) UpdateSegment(ctx context.Context, userID, tripID, segmentID string, u models.TravelSegmentUpdate) (*models.TravelSegment, error) {
	if _, err := ownedTrip(ctx, s.trips, userID, tripID); err != nil {
		return nil, err
	}

	current, err := s.segments.GetByID(ctx, tripID, segmentID)
	if err != nil {
		return nil, err
	}
	departure, arrival := current.DepartureTime, current.ArrivalTime
	if u.DepartureTime != nil {
		departure = *u.DepartureTime
	}
	if u.ArrivalTime != nil {
		arrival = *u.ArrivalTime
	}
	if arrival.Before(departure) {
		return nil, invalid("arrival_time is before departure_time")
	}

	if err := s.segments.Update(ctx, tripID, segmentID, u); err != nil {
		return nil, err
	}

	s.notifier.NotifyTripChanged(userID, tripID, "segment_updated")
	return s.segments.GetByID(ctx, tripID, segmentID)
}

// DeleteSegment removes a segment and uncounts it
func (s *TravelSegmentService) DeleteSegment(ctx context.Context, userID, tripID, segmentID string) error {
	if _, err := ownedTrip(ctx, s.trips, userID, tripID); err != nil {
		return err
	}
	if err := s.segments.Delete(ctx, tripID, segmentID); err != nil {
		return err
	}
	if err := s.recalc.TravelSegmentRemoved(ctx, tripID); err != nil {
		return err
	}

	s.notifier.NotifyTripChanged(userID, tripID, "segment_deleted")
	return nil
}
