package aggregate

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"trip-planner-backend/internal/metrics"
)

// CounterStore is the part of the trip store the recalculator writes through
type CounterStore interface {
	// IncrementCounters adds d to the trip counters without reading them first
	IncrementCounters(ctx context.Context, tripID string, d Delta) error
	ListExpenseAmounts(ctx context.Context, tripID string) ([]float64, error)
	SetTotalExpenses(ctx context.Context, tripID string, total float64) error
}

// Recalculator applies child mutation events to a trip's counters
type Recalculator struct {
	store CounterStore
}

// NewRecalculator creates a recalculator backed by store
func NewRecalculator(store CounterStore) *Recalculator {
	return &Recalculator{store: store}
}

// Apply writes d to the trip. A zero delta is not written.
func (r *Recalculator) Apply(ctx context.Context, tripID string, d Delta) error {
	if d.IsZero() {
		return nil
	}
	if err := r.store.IncrementCounters(ctx, tripID, d); err != nil {
		metrics.CounterFailures.Inc()
		log.Error().Err(err).Str("trip_id", tripID).Interface("delta", d).Msg("Trip counters are now behind their collections")
		return fmt.Errorf("failed to update trip counters: %w", err)
	}
	for _, c := range d.Changes() {
		metrics.CounterAdjustments.WithLabelValues(string(c.Counter), metrics.Direction(c.By)).Inc()
	}
	return nil
}

func (r *Recalculator) PlaceAdded(ctx context.Context, tripID string) error {
	return r.Apply(ctx, tripID, OnPlaceAdded())
}

func (r *Recalculator) PlaceVisitedToggled(ctx context.Context, tripID string, wasVisited, nowVisited bool) error {
	return r.Apply(ctx, tripID, OnPlaceVisitedToggled(wasVisited, nowVisited))
}

func (r *Recalculator) PlaceRemoved(ctx context.Context, tripID string, wasVisited bool) error {
	return r.Apply(ctx, tripID, OnPlaceRemoved(wasVisited))
}

// ExpenseAdded refreshes the money total and then bumps the expense count
func (r *Recalculator) ExpenseAdded(ctx context.Context, tripID string) error {
	if _, err := r.RefreshTotal(ctx, tripID); err != nil {
		return err
	}
	return r.Apply(ctx, tripID, OnExpenseAdded())
}

func (r *Recalculator) ExpenseRemoved(ctx context.Context, tripID string) error {
	if _, err := r.RefreshTotal(ctx, tripID); err != nil {
		return err
	}
	return r.Apply(ctx, tripID, OnExpenseRemoved())
}

func (r *Recalculator) PhotoAdded(ctx context.Context, tripID string) error {
	return r.Apply(ctx, tripID, OnPhotoAdded())
}

func (r *Recalculator) PhotoRemoved(ctx context.Context, tripID string) error {
	return r.Apply(ctx, tripID, OnPhotoRemoved())
}

func (r *Recalculator) TravelSegmentAdded(ctx context.Context, tripID string) error {
	return r.Apply(ctx, tripID, OnTravelSegmentAdded())
}

func (r *Recalculator) TravelSegmentRemoved(ctx context.Context, tripID string) error {
	return r.Apply(ctx, tripID, OnTravelSegmentRemoved())
}

// RefreshTotal re-reads every expense of the trip and stores the rounded sum.
// Two concurrent refreshes race and the last write wins.
func (r *Recalculator) RefreshTotal(ctx context.Context, tripID string) (float64, error) {
	amounts, err := r.store.ListExpenseAmounts(ctx, tripID)
	if err != nil {
		return 0, fmt.Errorf("failed to list expense amounts: %w", err)
	}
	total := TotalExpenses(amounts)
	if err := r.store.SetTotalExpenses(ctx, tripID, total); err != nil {
		metrics.CounterFailures.Inc()
		return 0, fmt.Errorf("failed to set total expenses: %w", err)
	}
	return total, nil
}
