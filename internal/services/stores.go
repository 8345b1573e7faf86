package services

import (
	"context"
	"time"

	"trip-planner-backend/internal/aggregate"
	"trip-planner-backend/internal/models"
)

// UserStore persists users
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
}

// TripStore persists trips and their derived counters
type TripStore interface {
	aggregate.CounterStore
	Create(ctx context.Context, t *models.Trip) error
	GetByID(ctx context.Context, id string) (*models.Trip, error)
	ListByUser(ctx context.Context, userID string) ([]*models.Trip, error)
	Update(ctx context.Context, id string, u models.TripUpdate) error
	Delete(ctx context.Context, id string) error
	SetCounters(ctx context.Context, tripID string, c aggregate.Counters) error
}

// PlaceStore persists places
type PlaceStore interface {
	Create(ctx context.Context, p *models.Place) error
	GetByID(ctx context.Context, tripID, placeID string) (*models.Place, error)
	ListByTrip(ctx context.Context, tripID string) ([]*models.Place, error)
	Update(ctx context.Context, tripID, placeID string, u models.PlaceUpdate) error
	// SetVisited reports false when the place already had that state
	SetVisited(ctx context.Context, tripID, placeID string, visited bool, at time.Time) (bool, error)
	// Delete returns whether the removed place was visited
	Delete(ctx context.Context, tripID, placeID string) (bool, error)
	UpdateSortOrders(ctx context.Context, tripID string, placeIDs []string, keys []int64) error
}

// ExpenseStore persists expenses
type ExpenseStore interface {
	Create(ctx context.Context, e *models.Expense) error
	GetByID(ctx context.Context, tripID, expenseID string) (*models.Expense, error)
	ListByTrip(ctx context.Context, tripID string) ([]*models.Expense, error)
	Delete(ctx context.Context, tripID, expenseID string) error
}

// PhotoStore persists photo records
type PhotoStore interface {
	Create(ctx context.Context, p *models.Photo) error
	GetByID(ctx context.Context, tripID, photoID string) (*models.Photo, error)
	ListByTrip(ctx context.Context, tripID string) ([]*models.Photo, error)
	ListByPlace(ctx context.Context, tripID, placeID string) ([]*models.Photo, error)
	ListKeysByTrip(ctx context.Context, tripID string) ([]string, error)
	Delete(ctx context.Context, tripID, photoID string) error
}

// TravelSegmentStore persists travel segments
type TravelSegmentStore interface {
	Create(ctx context.Context, s *models.TravelSegment) error
	GetByID(ctx context.Context, tripID, segmentID string) (*models.TravelSegment, error)
	ListByTrip(ctx context.Context, tripID string) ([]*models.TravelSegment, error)
	Update(ctx context.Context, tripID, segmentID string, u models.TravelSegmentUpdate) error
	Delete(ctx context.Context, tripID, segmentID string) error
}

// Notifier pushes change events to connected clients
type Notifier interface {
	NotifyTripChanged(userID, tripID, kind string)
}

type nopNotifier struct{}

func (nopNotifier) NotifyTripChanged(string, string, string) {}
