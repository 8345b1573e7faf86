package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"trip-planner-backend/internal/aggregate"
	"trip-planner-backend/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// Trip list segments
const (
	SegmentAll       = ""
	SegmentUpcoming  = "upcoming"
	SegmentOngoing   = "ongoing"
	SegmentCompleted = "completed"
)

// TripService handles trip-related business logic
type TripService struct {
	trips    TripStore
	places   PlaceStore
	expenses ExpenseStore
	photos   PhotoStore
	segments TravelSegmentStore
	storage  ObjectStorage
	notifier Notifier
}

// NewTripService creates a new trip service. storage and notifier may be nil.
func NewTripService(
	trips TripStore,
	places PlaceStore,
	expenses ExpenseStore,
	photos PhotoStore,
	segments TravelSegmentStore,
	storage ObjectStorage,
	notifier Notifier,
) *TripService {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	return &TripService{
		trips:    trips,
		places:   places,
		expenses: expenses,
		photos:   photos,
		segments: segments,
		storage:  storage,
		notifier: notifier,
	}
}

// CreateTripRequest is the body of a trip creation call
type CreateTripRequest struct {
	Name        string            `json:"name"`
	Destination string            `json:"destination"`
	StartDate   time.Time         `json:"start_date"`
	EndDate     time.Time         `json:"end_date"`
	Budget      float64           `json:"budget"`
	Status      models.TripStatus `json:"status"`
	CoverImage  *string           `json:"cover_image,omitempty"`
	Description *string           `json:"description,omitempty"`
	Interests   []string          `json:"interests"`
}

func (r CreateTripRequest) validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return invalid("name is required")
	}
	if strings.TrimSpace(r.Destination) == "" {
		return invalid("destination is required")
	}
	if r.StartDate.IsZero() || r.EndDate.IsZero() {
		return invalid("start_date and end_date are required")
	}
	if r.EndDate.Before(r.StartDate) {
		return invalid("end_date is before start_date")
	}
	if r.Budget < 0 {
		return invalid("budget must not be negative")
	}
	if r.Status != "" && !r.Status.Valid() {
		return invalid("unknown status %q", r.Status)
	}
	return nil
}

// CreateTrip creates a trip with every counter at zero
func (s *TripService) CreateTrip(ctx context.Context, userID string, req CreateTripRequest) (*models.Trip, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	status := req.Status
	if status == "" {
		status = models.TripStatusPlanned
	}
	interests := req.Interests
	if interests == nil {
		interests = []string{}
	}

	now := time.Now()
	trip := &models.Trip{
		ID:          uuid.New().String(),
		UserID:      userID,
		Name:        strings.TrimSpace(req.Name),
		Destination: strings.TrimSpace(req.Destination),
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Budget:      req.Budget,
		Status:      status,
		CoverImage:  req.CoverImage,
		Description: req.Description,
		Interests:   interests,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.trips.Create(ctx, trip); err != nil {
		return nil, fmt.Errorf("failed to create trip: %w", err)
	}

	s.notifier.NotifyTripChanged(userID, trip.ID, "trip_created")
	return trip, nil
}

// GetTrip returns a trip owned by userID
func (s *TripService) GetTrip(ctx context.Context, userID, tripID string) (*models.Trip, error) {
	return ownedTrip(ctx, s.trips, userID, tripID)
}

// ListTrips returns the user's trips, newest first, limited to one segment
func (s *TripService) ListTrips(ctx context.Context, userID, segment string) ([]*models.Trip, error) {
	switch segment {
	case SegmentAll, SegmentUpcoming, SegmentOngoing, SegmentCompleted:
	default:
		return nil, invalid("unknown segment %q", segment)
	}

	trips, err := s.trips.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list trips: %w", err)
	}
	return FilterTrips(trips, segment, time.Now()), nil
}

// FilterTrips keeps the trips that fall in segment at time now.
// A trip can belong to more than one segment.
func FilterTrips(trips []*models.Trip, segment string, now time.Time) []*models.Trip {
	if segment == SegmentAll {
		return trips
	}

	filtered := make([]*models.Trip, 0, len(trips))
	for _, t := range trips {
		var keep bool
		switch segment {
		case SegmentUpcoming:
			keep = t.Status == models.TripStatusPlanned && t.StartDate.After(now)
		case SegmentOngoing:
			keep = t.Status == models.TripStatusOngoing ||
				(!now.Before(t.StartDate) && !now.After(t.EndDate))
		case SegmentCompleted:
			keep = t.Status == models.TripStatusCompleted || t.EndDate.Before(now)
		}
		if keep {
			filtered = append(filtered, t)
		}
	}
	return filtered
}

// UpdateTrip applies a partial update and returns the stored trip
func (s *TripService) UpdateTrip(ctx context.Context, userID, tripID string, u models.TripUpdate) (*models.Trip, error) {
	trip, err := ownedTrip(ctx, s.trips, userID, tripID)
	if err != nil {
		return nil, err
	}

	if u.Name != nil && strings.TrimSpace(*u.Name) == "" {
		return nil, invalid("name must not be empty")
	}
	if u.Destination != nil && strings.TrimSpace(*u.Destination) == "" {
		return nil, invalid("destination must not be empty")
	}
	if u.Status != nil && !u.Status.Valid() {
		return nil, invalid("unknown status %q", *u.Status)
	}
	if u.Budget != nil && *u.Budget < 0 {
		return nil, invalid("budget must not be negative")
	}
	start, end := trip.StartDate, trip.EndDate
	if u.StartDate != nil {
		start = *u.StartDate
	}
	if u.EndDate != nil {
		end = *u.EndDate
	}
	if end.Before(start) {
		return nil, invalid("end_date is before start_date")
	}

	if err := s.trips.Update(ctx, tripID, u); err != nil {
		return nil, fmt.Errorf("failed to update trip: %w", err)
	}

	s.notifier.NotifyTripChanged(userID, tripID, "trip_updated")
	return s.trips.GetByID(ctx, tripID)
}

// DeleteTrip removes the trip and all of its children, then the photo files
func (s *TripService) DeleteTrip(ctx context.Context, userID, tripID string) error {
	if _, err := ownedTrip(ctx, s.trips, userID, tripID); err != nil {
		return err
	}

	keys, err := s.photos.ListKeysByTrip(ctx, tripID)
	if err != nil {
		return fmt.Errorf("failed to list photo keys: %w", err)
	}

	if err := s.trips.Delete(ctx, tripID); err != nil {
		return fmt.Errorf("failed to delete trip: %w", err)
	}

	if s.storage != nil && len(keys) > 0 {
		if err := s.storage.DeleteObjects(ctx, keys); err != nil {
			log.Warn().Err(err).Str("trip_id", tripID).Int("objects", len(keys)).Msg("Photo files left behind after trip delete")
		}
	}

	s.notifier.NotifyTripChanged(userID, tripID, "trip_deleted")
	return nil
}

// GetTripDetail loads the trip and its child collections concurrently
func (s *TripService) GetTripDetail(ctx context.Context, userID, tripID string) (*models.TripDetail, error) {
	trip, err := ownedTrip(ctx, s.trips, userID, tripID)
	if err != nil {
		return nil, err
	}

	detail := &models.TripDetail{Trip: trip}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		detail.Places, err = s.places.ListByTrip(gctx, tripID)
		return err
	})
	g.Go(func() error {
		var err error
		detail.Expenses, err = s.expenses.ListByTrip(gctx, tripID)
		return err
	})
	g.Go(func() error {
		var err error
		detail.Photos, err = s.photos.ListByTrip(gctx, tripID)
		return err
	})
	g.Go(func() error {
		var err error
		detail.TravelSegments, err = s.segments.ListByTrip(gctx, tripID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load trip detail: %w", err)
	}
	return detail, nil
}

// Recalculate recounts every derived value from the child collections and
// overwrites the stored counters. It repairs drift left by failed updates.
func (s *TripService) Recalculate(ctx context.Context, userID, tripID string) (*models.Trip, error) {
	detail, err := s.GetTripDetail(ctx, userID, tripID)
	if err != nil {
		return nil, err
	}

	before := aggregate.FromTrip(detail.Trip)
	after := aggregate.Recount(detail.Places, detail.Expenses, detail.Photos, detail.TravelSegments)
	if err := s.trips.SetCounters(ctx, tripID, after); err != nil {
		return nil, fmt.Errorf("failed to store counters: %w", err)
	}
	if before != after {
		log.Info().
			Str("trip_id", tripID).
			Interface("before", before).
			Interface("after", after).
			Msg("Trip counters repaired")
	}

	s.notifier.NotifyTripChanged(userID, tripID, "trip_recalculated")
	return s.trips.GetByID(ctx, tripID)
}

// Stats totals the user's trips
func (s *TripService) Stats(ctx context.Context, userID string) (models.UserStats, error) {
	trips, err := s.trips.ListByUser(ctx, userID)
	if err != nil {
		return models.UserStats{}, fmt.Errorf("failed to list trips: %w", err)
	}
	return aggregate.Summarize(trips), nil
}
