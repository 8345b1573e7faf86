package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"trip-planner-backend/internal/aggregate"
	"trip-planner-backend/internal/itinerary"
	"trip-planner-backend/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	defaultEstimatedDuration  = 60
	defaultSuggestedDuration  = 90
	defaultSuggestedPlaceType = "point_of_interest"
)

// OrderSuggester proposes a visiting order as a list of place names
type OrderSuggester interface {
	OptimizeOrder(ctx context.Context, places []*models.Place, start, end time.Time) []string
}

// PlaceSearcher finds places by free text
type PlaceSearcher interface {
	SearchPlaces(ctx context.Context, query string) ([]MapPlace, error)
}

// PlaceService handles itinerary places
type PlaceService struct {
	trips     TripStore
	places    PlaceStore
	recalc    *aggregate.Recalculator
	suggester OrderSuggester
	searcher  PlaceSearcher
	notifier  Notifier
	sortStep  int64
	now       func() time.Time
}

// NewPlaceService creates a new place service. suggester, searcher and
// notifier may be nil.
func NewPlaceService(
	trips TripStore,
	places PlaceStore,
	recalc *aggregate.Recalculator,
	suggester OrderSuggester,
	searcher PlaceSearcher,
	notifier Notifier,
	sortStep int64,
) *PlaceService {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	return &PlaceService{
		trips:     trips,
		places:    places,
		recalc:    recalc,
		suggester: suggester,
		searcher:  searcher,
		notifier:  notifier,
		sortStep:  sortStep,
		now:       time.Now,
	}
}

// AddPlaceRequest is the body of a place creation call
type AddPlaceRequest struct {
	Name                string     `json:"name"`
	Address             string     `json:"address"`
	Latitude            float64    `json:"latitude"`
	Longitude           float64    `json:"longitude"`
	ExternalPlaceID     *string    `json:"place_id,omitempty"`
	Type                string     `json:"type"`
	Rating              float64    `json:"rating"`
	UserRating          *float64   `json:"user_rating,omitempty"`
	PlannedDate         *time.Time `json:"planned_date,omitempty"`
	EstimatedDuration   int        `json:"estimated_duration"`
	StayDurationMinutes *int       `json:"stay_duration_minutes,omitempty"`
	Notes               *string    `json:"notes,omitempty"`
	Photos              []string   `json:"photos"`
	AISuggested         bool       `json:"ai_suggested"`
	SortOrder           *int64     `json:"sort_order,omitempty"`
}

// ListPlaces returns unvisited places first, each group in sort order
func (s *PlaceService) ListPlaces(ctx context.Context, userID, tripID string) ([]*models.Place, error) {
	if _, err := ownedTrip(ctx, s.trips, userID, tripID); err != nil {
		return nil, err
	}
	places, err := s.places.ListByTrip(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("failed to list places: %w", err)
	}
	return places, nil
}

// GetPlace returns one place of the trip
func (s *PlaceService) GetPlace(ctx context.Context, userID, tripID, placeID string) (*models.Place, error) {
	if _, err := ownedTrip(ctx, s.trips, userID, tripID); err != nil {
		return nil, err
	}
	return s.places.GetByID(ctx, tripID, placeID)
}

// AddPlace stores a new unvisited place and counts it on the trip
func (s *PlaceService) AddPlace(ctx context.Context, userID, tripID string, req AddPlaceRequest) (*models.Place, error) {
	if _, err := ownedTrip(ctx, s.trips, userID, tripID); err != nil {
		return nil, err
	}
	return s.addPlace(ctx, userID, tripID, req)
}

func (s *PlaceService) addPlace(ctx context.Context, userID, tripID string, req AddPlaceRequest) (*models.Place, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, invalid("name is required")
	}
	if req.EstimatedDuration < 0 {
		return nil, invalid("estimated_duration must not be negative")
	}

	now := s.now()
	place := &models.Place{
		ID:                  uuid.New().String(),
		TripID:              tripID,
		Name:                strings.TrimSpace(req.Name),
		Address:             req.Address,
		Latitude:            req.Latitude,
		Longitude:           req.Longitude,
		ExternalPlaceID:     req.ExternalPlaceID,
		Type:                req.Type,
		Rating:              req.Rating,
		UserRating:          req.UserRating,
		PlannedDate:         req.PlannedDate,
		EstimatedDuration:   req.EstimatedDuration,
		StayDurationMinutes: req.StayDurationMinutes,
		Notes:               req.Notes,
		Photos:              req.Photos,
		AISuggested:         req.AISuggested,
		SortOrder:           now.UnixMilli(),
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	if place.EstimatedDuration == 0 {
		place.EstimatedDuration = defaultEstimatedDuration
	}
	if place.Photos == nil {
		place.Photos = []string{}
	}
	if req.SortOrder != nil {
		place.SortOrder = *req.SortOrder
	}

	if err := s.places.Create(ctx, place); err != nil {
		return nil, fmt.Errorf("failed to create place: %w", err)
	}
	if err := s.recalc.PlaceAdded(ctx, tripID); err != nil {
		return nil, err
	}

	s.notifier.NotifyTripChanged(userID, tripID, "place_added")
	return place, nil
}

// UpdatePlace applies a partial update and returns the stored place
func (s *PlaceService) UpdatePlace(ctx context.Context, userID, tripID, placeID string, u models.PlaceUpdate) (*models.Place, error) {
	if _, err := ownedTrip(ctx, s.trips, userID, tripID); err != nil {
		return nil, err
	}
	if u.Name != nil && strings.TrimSpace(*u.Name) == "" {
		return nil, invalid("name must not be empty")
	}
	if u.EstimatedDuration != nil && *u.EstimatedDuration < 0 {
		return nil, invalid("estimated_duration must not be negative")
	}

	if err := s.places.Update(ctx, tripID, placeID, u); err != nil {
		return nil, err
	}

	s.notifier.NotifyTripChanged(userID, tripID, "place_updated")
	return s.places.GetByID(ctx, tripID, placeID)
}

// SetVisited marks a place visited or not. Setting the current state again
// writes nothing and leaves the counters alone. The store decides whether the
// flag changed, so concurrent toggles move the visited count at most once.
func (s *PlaceService) SetVisited(ctx context.Context, userID, tripID, placeID string, visited bool) (*models.Place, error) {
	if _, err := ownedTrip(ctx, s.trips, userID, tripID); err != nil {
		return nil, err
	}

	if _, err := s.places.GetByID(ctx, tripID, placeID); err != nil {
		return nil, err
	}

	changed, err := s.places.SetVisited(ctx, tripID, placeID, visited, s.now())
	if err != nil {
		return nil, err
	}
	if changed {
		if err := s.recalc.PlaceVisitedToggled(ctx, tripID, !visited, visited); err != nil {
			return nil, err
		}
		s.notifier.NotifyTripChanged(userID, tripID, "place_visited")
	}

	return s.places.GetByID(ctx, tripID, placeID)
}

// DeletePlace removes a place. A visited place also leaves the visited count.
func (s *PlaceService) DeletePlace(ctx context.Context, userID, tripID, placeID string) error {
	if _, err := ownedTrip(ctx, s.trips, userID, tripID); err != nil {
		return err
	}

	wasVisited, err := s.places.Delete(ctx, tripID, placeID)
	if err != nil {
		return err
	}
	if err := s.recalc.PlaceRemoved(ctx, tripID, wasVisited); err != nil {
		return err
	}

	s.notifier.NotifyTripChanged(userID, tripID, "place_deleted")
	return nil
}

// OptimizeItinerary asks for a better visiting order, applies it to the
// trip's places and stores fresh sort keys. Without a usable answer the
// current order is written back unchanged.
func (s *PlaceService) OptimizeItinerary(ctx context.Context, userID, tripID string) ([]*models.Place, error) {
	trip, err := ownedTrip(ctx, s.trips, userID, tripID)
	if err != nil {
		return nil, err
	}

	places, err := s.places.ListByTrip(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("failed to list places: %w", err)
	}
	if len(places) < 2 {
		return places, nil
	}

	var order []string
	if s.suggester != nil {
		order = s.suggester.OptimizeOrder(ctx, places, trip.StartDate, trip.EndDate)
	}
	ordered := itinerary.Reconcile(places, order)

	keys := itinerary.SortKeys(s.now().UnixMilli(), s.sortStep, len(ordered))
	ids := make([]string, len(ordered))
	for i, p := range ordered {
		ids[i] = p.ID
	}
	if err := s.places.UpdateSortOrders(ctx, tripID, ids, keys); err != nil {
		return nil, err
	}
	for i, p := range ordered {
		p.SortOrder = keys[i]
	}

	log.Info().
		Str("trip_id", tripID).
		Int("places", len(ordered)).
		Int("suggested", len(order)).
		Msg("Itinerary optimized")

	s.notifier.NotifyTripChanged(userID, tripID, "itinerary_optimized")
	return ordered, nil
}

// AddSuggestion turns a recommendation into an itinerary place, matched
// against the maps API when possible
func (s *PlaceService) AddSuggestion(ctx context.Context, userID, tripID string, rec models.Recommendation) (*models.Place, error) {
	trip, err := ownedTrip(ctx, s.trips, userID, tripID)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(rec.Name) == "" {
		return nil, invalid("name is required")
	}

	var match *MapPlace
	if s.searcher != nil {
		results, err := s.searcher.SearchPlaces(ctx, rec.Name+" "+trip.Destination)
		if err != nil {
			log.Warn().Err(err).Str("trip_id", tripID).Str("name", rec.Name).Msg("Could not match suggestion to a map result")
		} else if len(results) > 0 {
			match = &results[0]
		}
	}

	req := AddPlaceRequest{
		Name:              rec.Name,
		Address:           trip.Destination,
		Type:              defaultSuggestedPlaceType,
		Rating:            rec.Rating,
		EstimatedDuration: defaultSuggestedDuration,
		Photos:            []string{},
		AISuggested:       true,
	}
	if rec.EstimatedDuration > 0 {
		req.EstimatedDuration = rec.EstimatedDuration
		stay := rec.EstimatedDuration
		req.StayDurationMinutes = &stay
	}
	if rec.Description != "" {
		notes := rec.Description
		req.Notes = &notes
	}
	if match != nil {
		if match.Address != "" {
			req.Address = match.Address
		}
		req.Latitude = match.Latitude
		req.Longitude = match.Longitude
		if match.PlaceID != "" {
			id := match.PlaceID
			req.ExternalPlaceID = &id
		}
		if len(match.Types) > 0 {
			req.Type = match.Types[0]
		}
		if match.Rating > 0 {
			req.Rating = match.Rating
		}
	}

	return s.addPlace(ctx, userID, tripID, req)
}
