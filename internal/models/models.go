package models

import "time"

// TripStatus is the lifecycle state of a trip
type TripStatus string

const (
	TripStatusPlanned   TripStatus = "planned"
	TripStatusOngoing   TripStatus = "ongoing"
	TripStatusCompleted TripStatus = "completed"
)

// Valid reports whether s is one of the known statuses
func (s TripStatus) Valid() bool {
	switch s {
	case TripStatusPlanned, TripStatusOngoing, TripStatusCompleted:
		return true
	}
	return false
}

// User represents a registered user
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	DisplayName  string    `json:"display_name"`
	PhotoURL     *string   `json:"photo_url,omitempty"`
	PasswordHash string    `json:"-"`
	Token        string    `json:"token,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// Trip is the aggregate root for places, expenses, photos and travel segments.
// The *Count fields and TotalExpenses are derived from the child tables.
type Trip struct {
	ID                  string     `json:"id"`
	UserID              string     `json:"user_id"`
	Name                string     `json:"name"`
	Destination         string     `json:"destination"`
	StartDate           time.Time  `json:"start_date"`
	EndDate             time.Time  `json:"end_date"`
	Budget              float64    `json:"budget"`
	TotalExpenses       float64    `json:"total_expenses"`
	Status              TripStatus `json:"status"`
	CoverImage          *string    `json:"cover_image,omitempty"`
	Description         *string    `json:"description,omitempty"`
	Interests           []string   `json:"interests"`
	AISummary           *string    `json:"ai_summary,omitempty"`
	PlacesCount         int        `json:"places_count"`
	VisitedPlacesCount  int        `json:"visited_places_count"`
	ExpensesCount       int        `json:"expenses_count"`
	PhotosCount         int        `json:"photos_count"`
	TravelSegmentsCount int        `json:"travel_segments_count"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

// Place is a point of interest on a trip's itinerary.
// SortOrder is only a display key: values may repeat or have gaps.
type Place struct {
	ID                  string     `json:"id"`
	TripID              string     `json:"trip_id"`
	Name                string     `json:"name"`
	Address             string     `json:"address"`
	Latitude            float64    `json:"latitude"`
	Longitude           float64    `json:"longitude"`
	ExternalPlaceID     *string    `json:"place_id,omitempty"`
	Type                string     `json:"type"`
	Rating              float64    `json:"rating"`
	UserRating          *float64   `json:"user_rating,omitempty"`
	Visited             bool       `json:"visited"`
	PlannedDate         *time.Time `json:"planned_date,omitempty"`
	VisitedDate         *time.Time `json:"visited_date,omitempty"`
	EstimatedDuration   int        `json:"estimated_duration"`
	StayDurationMinutes *int       `json:"stay_duration_minutes,omitempty"`
	Notes               *string    `json:"notes,omitempty"`
	Photos              []string   `json:"photos"`
	AISuggested         bool       `json:"ai_suggested"`
	SortOrder           int64      `json:"sort_order"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

// ExpenseCategory groups expenses for reporting
type ExpenseCategory string

const (
	ExpenseTransport     ExpenseCategory = "transport"
	ExpenseAccommodation ExpenseCategory = "accommodation"
	ExpenseFood          ExpenseCategory = "food"
	ExpenseActivities    ExpenseCategory = "activities"
	ExpenseShopping      ExpenseCategory = "shopping"
	ExpenseOther         ExpenseCategory = "other"
)

// Valid reports whether c is one of the known categories
func (c ExpenseCategory) Valid() bool {
	switch c {
	case ExpenseTransport, ExpenseAccommodation, ExpenseFood, ExpenseActivities, ExpenseShopping, ExpenseOther:
		return true
	}
	return false
}

// Expense is a single spending record on a trip
type Expense struct {
	ID          string          `json:"id"`
	TripID      string          `json:"trip_id"`
	Category    ExpenseCategory `json:"category"`
	Amount      float64         `json:"amount"`
	Currency    string          `json:"currency"`
	Description string          `json:"description"`
	Date        time.Time       `json:"date"`
	PlaceID     *string         `json:"place_id,omitempty"`
	Receipt     *string         `json:"receipt,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// Photo is an image attached to a trip, stored in S3
type Photo struct {
	ID           string    `json:"id"`
	TripID       string    `json:"trip_id"`
	PlaceID      *string   `json:"place_id,omitempty"`
	S3Key        string    `json:"-"`
	URL          string    `json:"url"`
	ThumbnailURL string    `json:"thumbnail_url"`
	Caption      *string   `json:"caption,omitempty"`
	Latitude     *float64  `json:"latitude,omitempty"`
	Longitude    *float64  `json:"longitude,omitempty"`
	TakenAt      time.Time `json:"taken_at"`
	UploadedAt   time.Time `json:"uploaded_at"`
}

// TravelSegment is a booked leg of transport (flight, train, ...)
type TravelSegment struct {
	ID                string    `json:"id"`
	TripID            string    `json:"trip_id"`
	Type              string    `json:"type"`
	Provider          string    `json:"provider"`
	DepartureLocation string    `json:"departure_location"`
	ArrivalLocation   string    `json:"arrival_location"`
	DepartureTime     time.Time `json:"departure_time"`
	ArrivalTime       time.Time `json:"arrival_time"`
	BookingReference  *string   `json:"booking_reference,omitempty"`
	SeatNumber        *string   `json:"seat_number,omitempty"`
	Notes             *string   `json:"notes,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// Recommendation is a place suggested by the language model
type Recommendation struct {
	Name              string  `json:"name"`
	Description       string  `json:"description"`
	EstimatedDuration int     `json:"estimatedDuration"`
	Type              string  `json:"type"`
	Rating            float64 `json:"rating"`
}

// TripDetail bundles a trip with all of its child collections
type TripDetail struct {
	Trip           *Trip            `json:"trip"`
	Places         []*Place         `json:"places"`
	Expenses       []*Expense       `json:"expenses"`
	Photos         []*Photo         `json:"photos"`
	TravelSegments []*TravelSegment `json:"travel_segments"`
}

// UserStats summarises all trips of one user
type UserStats struct {
	TotalTrips     int     `json:"total_trips"`
	TotalExpenses  float64 `json:"total_expenses"`
	PlacesVisited  int     `json:"places_visited"`
	PhotosUploaded int     `json:"photos_uploaded"`
}
