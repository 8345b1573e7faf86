package services

import (
	"context"
	"testing"
	"time"

	"trip-planner-backend/internal/aggregate"
	"trip-planner-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTravelSegmentLifecycle(t *testing.T) {
	db := newMemDB()
	trips := memTrips{db}
	notifier := &recordingNotifier{}
	svc := NewTravelSegmentService(trips, memSegments{db}, aggregate.NewRecalculator(trips), notifier)
	trip := db.seedTrip("user-1")
	ctx := context.Background()
	departure := time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)

	segment, err := svc.AddSegment(ctx, "user-1", trip.ID, AddSegmentRequest{
		Type:              "flight",
		Provider:          "TAP",
		DepartureLocation: "OPO",
		ArrivalLocation:   "LIS",
		DepartureTime:     departure,
		ArrivalTime:       departure.Add(time.Hour),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, db.trip(trip.ID).TravelSegmentsCount)

	provider := "Ryanair"
	updated, err := svc.UpdateSegment(ctx, "user-1", trip.ID, segment.ID, models.TravelSegmentUpdate{Provider: &provider})
	require.NoError(t, err)
	assert.Equal(t, "Ryanair", updated.Provider)

	early := departure.Add(-time.Hour)
	_, err = svc.UpdateSegment(ctx, "user-1", trip.ID, segment.ID, models.TravelSegmentUpdate{ArrivalTime: &early})
	assert.ErrorIs(t, err, ErrInvalidInput)

	require.NoError(t, svc.DeleteSegment(ctx, "user-1", trip.ID, segment.ID))
	assert.Equal(t, 0, db.trip(trip.ID).TravelSegmentsCount)

	assert.Equal(t, []string{"segment_added", "segment_updated", "segment_deleted"}, notifier.kinds)
}

func TestAddSegment_Validation(t *testing.T) {
	db := newMemDB()
	trips := memTrips{db}
	svc := NewTravelSegmentService(trips, memSegments{db}, aggregate.NewRecalculator(trips), nil)
	trip := db.seedTrip("user-1")
	departure := time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		req  AddSegmentRequest
	}{
		{"missing type", AddSegmentRequest{DepartureLocation: "A", ArrivalLocation: "B", DepartureTime: departure, ArrivalTime: departure}},
		{"missing location", AddSegmentRequest{Type: "train", ArrivalLocation: "B", DepartureTime: departure, ArrivalTime: departure}},
		{"missing times", AddSegmentRequest{Type: "train", DepartureLocation: "A", ArrivalLocation: "B"}},
		{"arrives before departing", AddSegmentRequest{Type: "train", DepartureLocation: "A", ArrivalLocation: "B",
			DepartureTime: departure, ArrivalTime: departure.Add(-time.Minute)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.AddSegment(context.Background(), "user-1", trip.ID, tt.req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
	assert.Equal(t, 0, db.trip(trip.ID).TravelSegmentsCount)
}
