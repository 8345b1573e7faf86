package models

import "time"

// TripUpdate carries the user-editable trip fields; nil means unchanged.
// Derived counters are never part of an update.
type TripUpdate struct {
	Name        *string     `json:"name,omitempty"`
	Destination *string     `json:"destination,omitempty"`
	StartDate   *time.Time  `json:"start_date,omitempty"`
	EndDate     *time.Time  `json:"end_date,omitempty"`
	Budget      *float64    `json:"budget,omitempty"`
	Status      *TripStatus `json:"status,omitempty"`
	CoverImage  *string     `json:"cover_image,omitempty"`
	Description *string     `json:"description,omitempty"`
	Interests   []string    `json:"interests,omitempty"`
	AISummary   *string     `json:"ai_summary,omitempty"`
}

// PlaceUpdate carries editable place fields; nil means unchanged.
// Visited is changed only through the toggle operation.
type PlaceUpdate struct {
	Name                *string    `json:"name,omitempty"`
	Address             *string    `json:"address,omitempty"`
	Latitude            *float64   `json:"latitude,omitempty"`
	Longitude           *float64   `json:"longitude,omitempty"`
	Type                *string    `json:"type,omitempty"`
	Rating              *float64   `json:"rating,omitempty"`
	UserRating          *float64   `json:"user_rating,omitempty"`
	PlannedDate         *time.Time `json:"planned_date,omitempty"`
	EstimatedDuration   *int       `json:"estimated_duration,omitempty"`
	StayDurationMinutes *int       `json:"stay_duration_minutes,omitempty"`
	Notes               *string    `json:"notes,omitempty"`
	Photos              []string   `json:"photos,omitempty"`
	SortOrder           *int64     `json:"sort_order,omitempty"`
}

// TravelSegmentUpdate carries editable segment fields; nil means unchanged
type TravelSegmentUpdate struct {
	Type              *string    `json:"type,omitempty"`
	Provider          *string    `json:"provider,omitempty"`
	DepartureLocation *string    `json:"departure_location,omitempty"`
	ArrivalLocation   *string    `json:"arrival_location,omitempty"`
	DepartureTime     *time.Time `json:"departure_time,omitempty"`
	ArrivalTime       *time.Time `json:"arrival_time,omitempty"`
	BookingReference  *string    `json:"booking_reference,omitempty"`
	SeatNumber        *string    `json:"seat_number,omitempty"`
	Notes             *string    `json:"notes,omitempty"`
}
