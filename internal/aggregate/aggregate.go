// Package aggregate keeps the derived counters of a trip in line with its
// child collections.
//
// The On* functions are pure: they turn a child mutation into a Delta.
// Recalculator applies deltas through CounterStore, whose increment must be
// atomic on the store side so that concurrent writers commute.
package aggregate

import (
	"github.com/shopspring/decimal"

	"trip-planner-backend/internal/models"
)

// Counter names a derived column on the trip record
type Counter string

const (
	CounterPlaces         Counter = "places_count"
	CounterVisitedPlaces  Counter = "visited_places_count"
	CounterExpenses       Counter = "expenses_count"
	CounterPhotos         Counter = "photos_count"
	CounterTravelSegments Counter = "travel_segments_count"
)

// Delta is a signed change to the trip counters
type Delta struct {
	Places         int
	VisitedPlaces  int
	Expenses       int
	Photos         int
	TravelSegments int
}

// IsZero reports whether applying d would change nothing
func (d Delta) IsZero() bool {
	return d == Delta{}
}

// Add combines two deltas
func (d Delta) Add(o Delta) Delta {
	return Delta{
		Places:         d.Places + o.Places,
		VisitedPlaces:  d.VisitedPlaces + o.VisitedPlaces,
		Expenses:       d.Expenses + o.Expenses,
		Photos:         d.Photos + o.Photos,
		TravelSegments: d.TravelSegments + o.TravelSegments,
	}
}

// Changes lists the non-zero counter changes in a fixed column order
func (d Delta) Changes() []Change {
	all := []Change{
		{Counter: CounterPlaces, By: d.Places},
		{Counter: CounterVisitedPlaces, By: d.VisitedPlaces},
		{Counter: CounterExpenses, By: d.Expenses},
		{Counter: CounterPhotos, By: d.Photos},
		{Counter: CounterTravelSegments, By: d.TravelSegments},
	}
	out := all[:0]
	for _, c := range all {
		if c.By != 0 {
			out = append(out, c)
		}
	}
	return out
}

// Change is one counter increment
type Change struct {
	Counter Counter
	By      int
}

func OnPlaceAdded() Delta {
	return Delta{Places: 1}
}

// OnPlaceVisitedToggled is zero when the visited flag does not actually change
func OnPlaceVisitedToggled(wasVisited, nowVisited bool) Delta {
	switch {
	case wasVisited == nowVisited:
		return Delta{}
	case nowVisited:
		return Delta{VisitedPlaces: 1}
	default:
		return Delta{VisitedPlaces: -1}
	}
}

// OnPlaceRemoved also un-visits the place when it was visited
func OnPlaceRemoved(wasVisited bool) Delta {
	return Delta{Places: -1}.Add(OnPlaceVisitedToggled(wasVisited, false))
}

func OnExpenseAdded() Delta {
	return Delta{Expenses: 1}
}

func OnExpenseRemoved() Delta {
	return Delta{Expenses: -1}
}

func OnPhotoAdded() Delta {
	return Delta{Photos: 1}
}

func OnPhotoRemoved() Delta {
	return Delta{Photos: -1}
}

func OnTravelSegmentAdded() Delta {
	return Delta{TravelSegments: 1}
}

func OnTravelSegmentRemoved() Delta {
	return Delta{TravelSegments: -1}
}

// TotalExpenses sums all amounts and rounds half-up to whole cents.
// Amounts go through decimal so many small values do not drift.
func TotalExpenses(amounts []float64) float64 {
	sum := decimal.Zero
	for _, a := range amounts {
		sum = sum.Add(decimal.NewFromFloat(a))
	}
	rounded := sum.Shift(2).Add(decimal.New(5, -1)).Floor().Shift(-2)
	f, _ := rounded.Float64()
	return f
}

// Counters is the full set of derived values stored on a trip
type Counters struct {
	Places         int
	VisitedPlaces  int
	Expenses       int
	Photos         int
	TravelSegments int
	TotalExpenses  float64
}

// FromTrip reads the derived values off a trip record
func FromTrip(t *models.Trip) Counters {
	return Counters{
		Places:         t.PlacesCount,
		VisitedPlaces:  t.VisitedPlacesCount,
		Expenses:       t.ExpensesCount,
		Photos:         t.PhotosCount,
		TravelSegments: t.TravelSegmentsCount,
		TotalExpenses:  t.TotalExpenses,
	}
}

// Apply returns c with d added
func (c Counters) Apply(d Delta) Counters {
	c.Places += d.Places
	c.VisitedPlaces += d.VisitedPlaces
	c.Expenses += d.Expenses
	c.Photos += d.Photos
	c.TravelSegments += d.TravelSegments
	return c
}

// Recount derives every counter from the child collections
func Recount(places []*models.Place, expenses []*models.Expense, photos []*models.Photo, segments []*models.TravelSegment) Counters {
	c := Counters{
		Places:         len(places),
		Expenses:       len(expenses),
		Photos:         len(photos),
		TravelSegments: len(segments),
	}
	for _, p := range places {
		if p.Visited {
			c.VisitedPlaces++
		}
	}
	amounts := make([]float64, len(expenses))
	for i, e := range expenses {
		amounts[i] = e.Amount
	}
	c.TotalExpenses = TotalExpenses(amounts)
	return c
}

// Summarize totals the derived values of several trips
func Summarize(trips []*models.Trip) models.UserStats {
	stats := models.UserStats{TotalTrips: len(trips)}
	amounts := make([]float64, 0, len(trips))
	for _, t := range trips {
		amounts = append(amounts, t.TotalExpenses)
		stats.PlacesVisited += t.VisitedPlacesCount
		stats.PhotosUploaded += t.PhotosCount
	}
	stats.TotalExpenses = TotalExpenses(amounts)
	return stats
}
