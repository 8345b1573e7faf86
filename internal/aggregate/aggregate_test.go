package aggregate

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"trip-planner-backend/internal/models"
)

func TestOnPlaceVisitedToggled(t *testing.T) {
	tests := []struct {
		name string
		was  bool
		now  bool
		want Delta
	}{
		{name: "same state visited", was: true, now: true, want: Delta{}},
		{name: "same state not visited", was: false, now: false, want: Delta{}},
		{name: "mark visited", was: false, now: true, want: Delta{VisitedPlaces: 1}},
		{name: "unmark visited", was: true, now: false, want: Delta{VisitedPlaces: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := OnPlaceVisitedToggled(tt.was, tt.now)
			assert.Equal(t, tt.want, got)
			assert.Zero(t, got.Places)
		})
	}
}

func TestOnPlaceRemoved(t *testing.T) {
	assert.Equal(t, Delta{Places: -1}, OnPlaceRemoved(false))
	assert.Equal(t, Delta{Places: -1, VisitedPlaces: -1}, OnPlaceRemoved(true))
}

func TestSingleCounterEvents(t *testing.T) {
	assert.Equal(t, Delta{Places: 1}, OnPlaceAdded())
	assert.Equal(t, Delta{Expenses: 1}, OnExpenseAdded())
	assert.Equal(t, Delta{Expenses: -1}, OnExpenseRemoved())
	assert.Equal(t, Delta{Photos: 1}, OnPhotoAdded())
	assert.Equal(t, Delta{Photos: -1}, OnPhotoRemoved())
	assert.Equal(t, Delta{TravelSegments: 1}, OnTravelSegmentAdded())
	assert.Equal(t, Delta{TravelSegments: -1}, OnTravelSegmentRemoved())
}

func TestCounters_Apply(t *testing.T) {
	c := Counters{}
	c = c.Apply(OnPlaceAdded())
	c = c.Apply(OnPlaceAdded())
	c = c.Apply(OnPlaceRemoved(false))

	assert.Equal(t, 1, c.Places)
	assert.Equal(t, 0, c.VisitedPlaces)
}

func TestDelta_Changes(t *testing.T) {
	d := OnPlaceRemoved(true).Add(OnPhotoAdded())

	assert.Equal(t, []Change{
		{Counter: CounterPlaces, By: -1},
		{Counter: CounterVisitedPlaces, By: -1},
		{Counter: CounterPhotos, By: 1},
	}, d.Changes())
	assert.Empty(t, Delta{}.Changes())
	assert.True(t, Delta{}.IsZero())
	assert.False(t, d.IsZero())
}

func TestTotalExpenses(t *testing.T) {
	tests := []struct {
		name    string
		amounts []float64
		want    float64
	}{
		{name: "half cent rounds up", amounts: []float64{10.005, 10.005}, want: 20.01},
		{name: "single half cent", amounts: []float64{0.125}, want: 0.13},
		{name: "below half cent rounds down", amounts: []float64{1.004}, want: 1.0},
		{name: "many small values do not drift", amounts: repeat(0.1, 1000), want: 100.0},
		{name: "empty", amounts: nil, want: 0},
		{name: "refund lowers total", amounts: []float64{50, -12.5}, want: 37.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TotalExpenses(tt.amounts))
		})
	}
}

func repeat(v float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func TestRecount(t *testing.T) {
	places := []*models.Place{{Visited: true}, {Visited: false}, {Visited: true}}
	expenses := []*models.Expense{{Amount: 10.005}, {Amount: 10.005}}
	photos := []*models.Photo{{}}
	segments := []*models.TravelSegment{{}, {}}

	got := Recount(places, expenses, photos, segments)

	assert.Equal(t, Counters{
		Places:         3,
		VisitedPlaces:  2,
		Expenses:       2,
		Photos:         1,
		TravelSegments: 2,
		TotalExpenses:  20.01,
	}, got)
}

func TestSummarize(t *testing.T) {
	trips := []*models.Trip{
		{TotalExpenses: 120.5, VisitedPlacesCount: 3, PhotosCount: 10},
		{TotalExpenses: 79.5, VisitedPlacesCount: 1, PhotosCount: 2},
	}

	got := Summarize(trips)

	assert.Equal(t, models.UserStats{
		TotalTrips:     2,
		TotalExpenses:  200,
		PlacesVisited:  4,
		PhotosUploaded: 12,
	}, got)
	assert.Equal(t, models.UserStats{}, Summarize(nil))
}

func TestFromTrip(t *testing.T) {
	trip := &models.Trip{PlacesCount: 4, VisitedPlacesCount: 1, ExpensesCount: 2, PhotosCount: 3, TravelSegmentsCount: 5, TotalExpenses: 9.99}
	assert.Equal(t, Counters{Places: 4, VisitedPlaces: 1, Expenses: 2, Photos: 3, TravelSegments: 5, TotalExpenses: 9.99}, FromTrip(trip))
}
