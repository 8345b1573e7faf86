package services

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"trip-planner-backend/internal/aggregate"
	"trip-planner-backend/internal/models"
	"trip-planner-backend/internal/repository"
)

// memDB keeps every collection in memory. The adapters below give each
// store interface its own method set.
type memDB struct {
	mu       sync.Mutex
	users    map[string]*models.User
	trips    map[string]*models.Trip
	places   map[string]*models.Place
	expenses map[string]*models.Expense
	photos   map[string]*models.Photo
	segments map[string]*models.TravelSegment

	incrementErr error
	seq          int
}

func newMemDB() *memDB {
	return &memDB{
		users:    map[string]*models.User{},
		trips:    map[string]*models.Trip{},
		places:   map[string]*models.Place{},
		expenses: map[string]*models.Expense{},
		photos:   map[string]*models.Photo{},
		segments: map[string]*models.TravelSegment{},
	}
}

func notFound(what string) error {
	return fmt.Errorf("%s %w", what, repository.ErrNotFound)
}

func (db *memDB) seedTrip(userID string) *models.Trip {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.seq++
	t := &models.Trip{
		ID:          fmt.Sprintf("trip-%d", db.seq),
		UserID:      userID,
		Name:        "Lisbon",
		Destination: "Lisbon",
		StartDate:   time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC),
		EndDate:     time.Date(2026, 5, 4, 0, 0, 0, 0, time.UTC),
		Status:      models.TripStatusPlanned,
		Interests:   []string{},
		CreatedAt:   time.Now(),
	}
	db.trips[t.ID] = t
	cp := *t
	return &cp
}

func (db *memDB) trip(id string) models.Trip {
	db.mu.Lock()
	defer db.mu.Unlock()
	return *db.trips[id]
}

type memTrips struct{ *memDB }

func (s memTrips) Create(_ context.Context, t *models.Trip) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *t
	s.trips[t.ID] = &cp
	return nil
}

func (s memTrips) GetByID(_ context.Context, id string) (*models.Trip, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.trips[id]
	if !ok {
		return nil, notFound("trip")
	}
	cp := *t
	return &cp, nil
}

func (s memTrips) ListByUser(_ context.Context, userID string) ([]*models.Trip, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []*models.Trip{}
	for _, t := range s.trips {
		if t.UserID == userID {
			cp := *t
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s memTrips) Update(_ context.Context, id string, u models.TripUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.trips[id]
	if !ok {
		return notFound("trip")
	}
	if u.Name != nil {
		t.Name = *u.Name
	}
	if u.Destination != nil {
		t.Destination = *u.Destination
	}
	if u.StartDate != nil {
		t.StartDate = *u.StartDate
	}
	if u.EndDate != nil {
		t.EndDate = *u.EndDate
	}
	if u.Status != nil {
		t.Status = *u.Status
	}
	if u.Description != nil {
		t.Description = u.Description
	}
	return nil
}

func (s memTrips) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.trips[id]; !ok {
		return notFound("trip")
	}
	delete(s.trips, id)
	for k, p := range s.places {
		if p.TripID == id {
			delete(s.places, k)
		}
	}
	for k, e := range s.expenses {
		if e.TripID == id {
			delete(s.expenses, k)
		}
	}
	for k, p := range s.photos {
		if p.TripID == id {
			delete(s.photos, k)
		}
	}
	for k, sg := range s.segments {
		if sg.TripID == id {
			delete(s.segments, k)
		}
	}
	return nil
}

func (s memTrips) IncrementCounters(_ context.Context, tripID string, d aggregate.Delta) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.incrementErr != nil {
		return s.incrementErr
	}
	t, ok := s.trips[tripID]
	if !ok {
		return notFound("trip")
	}
	c := aggregate.FromTrip(t).Apply(d)
	setCounters(t, c)
	return nil
}

func (s memTrips) ListExpenseAmounts(_ context.Context, tripID string) ([]float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	amounts := []float64{}
	for _, e := range s.expenses {
		if e.TripID == tripID {
			amounts = append(amounts, e.Amount)
		}
	}
	return amounts, nil
}

func (s memTrips) SetTotalExpenses(_ context.Context, tripID string, total float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.trips[tripID]
	if !ok {
		return notFound("trip")
	}
	t.TotalExpenses = total
	return nil
}

func (s memTrips) SetCounters(_ context.Context, tripID string, c aggregate.Counters) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.trips[tripID]
	if !ok {
		return notFound("trip")
	}
	setCounters(t, c)
	t.TotalExpenses = c.TotalExpenses
	return nil
}

func setCounters(t *models.Trip, c aggregate.Counters) {
	t.PlacesCount = c.Places
	t.VisitedPlacesCount = c.VisitedPlaces
	t.ExpensesCount = c.Expenses
	t.PhotosCount = c.Photos
	t.TravelSegmentsCount = c.TravelSegments
}

type memPlaces struct{ *memDB }

func (s memPlaces) Create(_ context.Context, p *models.Place) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *p
	s.places[p.ID] = &cp
	return nil
}

func (s memPlaces) GetByID(_ context.Context, tripID, placeID string) (*models.Place, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.places[placeID]
	if !ok || p.TripID != tripID {
		return nil, notFound("place")
	}
	cp := *p
	return &cp, nil
}

func (s memPlaces) ListByTrip(_ context.Context, tripID string) ([]*models.Place, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []*models.Place{}
	for _, p := range s.places {
		if p.TripID == tripID {
			cp := *p
			out = append(out, &cp)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Visited != out[j].Visited {
			return !out[i].Visited
		}
		if out[i].SortOrder != out[j].SortOrder {
			return out[i].SortOrder < out[j].SortOrder
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s memPlaces) Update(_ context.Context, tripID, placeID string, u models.PlaceUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.places[placeID]
	if !ok || p.TripID != tripID {
		return notFound("place")
	}
	if u.Name != nil {
		p.Name = *u.Name
	}
	if u.Notes != nil {
		p.Notes = u.Notes
	}
	if u.SortOrder != nil {
		p.SortOrder = *u.SortOrder
	}
	return nil
}

func (s memPlaces) SetVisited(_ context.Context, tripID, placeID string, visited bool, at time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.places[placeID]
	if !ok || p.TripID != tripID || p.Visited == visited {
		return false, nil
	}
	p.Visited = visited
	p.VisitedDate = nil
	if visited {
		p.VisitedDate = &at
	}
	return true, nil
}

func (s memPlaces) Delete(_ context.Context, tripID, placeID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.places[placeID]
	if !ok || p.TripID != tripID {
		return false, notFound("place")
	}
	delete(s.places, placeID)
	return p.Visited, nil
}

func (s memPlaces) UpdateSortOrders(_ context.Context, tripID string, placeIDs []string, keys []int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, id := range placeIDs {
		if p, ok := s.places[id]; ok && p.TripID == tripID {
			p.SortOrder = keys[i]
		}
	}
	return nil
}

type memExpenses struct{ *memDB }

func (s memExpenses) Create(_ context.Context, e *models.Expense) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *e
	s.expenses[e.ID] = &cp
	return nil
}

func (s memExpenses) GetByID(_ context.Context, tripID, expenseID string) (*models.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.expenses[expenseID]
	if !ok || e.TripID != tripID {
		return nil, notFound("expense")
	}
	cp := *e
	return &cp, nil
}

func (s memExpenses) ListByTrip(_ context.Context, tripID string) ([]*models.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []*models.Expense{}
	for _, e := range s.expenses {
		if e.TripID == tripID {
			cp := *e
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (s memExpenses) Delete(_ context.Context, tripID, expenseID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.expenses[expenseID]
	if !ok || e.TripID != tripID {
		return notFound("expense")
	}
	delete(s.expenses, expenseID)
	return nil
}

type memPhotos struct{ *memDB }

func (s memPhotos) Create(_ context.Context, p *models.Photo) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *p
	s.photos[p.ID] = &cp
	return nil
}

func (s memPhotos) GetByID(_ context.Context, tripID, photoID string) (*models.Photo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.photos[photoID]
	if !ok || p.TripID != tripID {
		return nil, notFound("photo")
	}
	cp := *p
	return &cp, nil
}

func (s memPhotos) ListByTrip(_ context.Context, tripID string) ([]*models.Photo, error) {
	return s.list(tripID, "")
}

func (s memPhotos) ListByPlace(_ context.Context, tripID, placeID string) ([]*models.Photo, error) {
	return s.list(tripID, placeID)
}

func (s memPhotos) list(tripID, placeID string) ([]*models.Photo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []*models.Photo{}
	for _, p := range s.photos {
		if p.TripID != tripID {
			continue
		}
		if placeID != "" && (p.PlaceID == nil || *p.PlaceID != placeID) {
			continue
		}
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}

func (s memPhotos) ListKeysByTrip(_ context.Context, tripID string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	keys := []string{}
	for _, p := range s.photos {
		if p.TripID == tripID {
			keys = append(keys, p.S3Key)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

func (s memPhotos) Delete(_ context.Context, tripID, photoID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.photos[photoID]
	if !ok || p.TripID != tripID {
		return notFound("photo")
	}
	delete(s.photos, photoID)
	return nil
}

type memSegments struct{ *memDB }

func (s memSegments) Create(_ context.Context, sg *models.TravelSegment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *sg
	s.segments[sg.ID] = &cp
	return nil
}

func (s memSegments) GetByID(_ context.Context, tripID, segmentID string) (*models.TravelSegment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sg, ok := s.segments[segmentID]
	if !ok || sg.TripID != tripID {
		return nil, notFound("travel segment")
	}
	cp := *sg
	return &cp, nil
}

func (s memSegments) ListByTrip(_ context.Context, tripID string) ([]*models.TravelSegment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []*models.TravelSegment{}
	for _, sg := range s.segments {
		if sg.TripID == tripID {
			cp := *sg
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (s memSegments) Update(_ context.Context, tripID, segmentID string, u models.TravelSegmentUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sg, ok := s.segments[segmentID]
	if !ok || sg.TripID != tripID {
		return notFound("travel segment")
	}
	if u.Provider != nil {
		sg.Provider = *u.Provider
	}
	if u.DepartureTime != nil {
		sg.DepartureTime = *u.DepartureTime
	}
	if u.ArrivalTime != nil {
		sg.ArrivalTime = *u.ArrivalTime
	}
	return nil
}

func (s memSegments) Delete(_ context.Context, tripID, segmentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sg, ok := s.segments[segmentID]
	if !ok || sg.TripID != tripID {
		return notFound("travel segment")
	}
	delete(s.segments, segmentID)
	return nil
}

type memUsers struct{ *memDB }

func (s memUsers) Create(_ context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *u
	s.users[u.ID] = &cp
	return nil
}

func (s memUsers) GetByID(_ context.Context, id string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, notFound("user")
	}
	cp := *u
	return &cp, nil
}

func (s memUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, notFound("user")
}

func (s memUsers) EmailExists(ctx context.Context, email string) (bool, error) {
	_, err := s.GetByEmail(ctx, email)
	return err == nil, nil
}

var (
	_ TripStore          = memTrips{}
	_ PlaceStore         = memPlaces{}
	_ ExpenseStore       = memExpenses{}
	_ PhotoStore         = memPhotos{}
	_ TravelSegmentStore = memSegments{}
	_ UserStore          = memUsers{}
)

// recordingNotifier remembers every change event
type recordingNotifier struct {
	mu    sync.Mutex
	kinds []string
}

func (n *recordingNotifier) NotifyTripChanged(_, _, kind string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.kinds = append(n.kinds, kind)
}
