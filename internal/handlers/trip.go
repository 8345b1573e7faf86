package handlers

import (
	"net/http"

	"trip-planner-backend/internal/middleware"
	"trip-planner-backend/internal/models"
	"trip-planner-backend/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// TripHandler handles trip-related HTTP requests
type TripHandler struct {
	tripService *services.TripService
}

// NewTripHandler creates a new trip handler
func NewTripHandler(tripService *services.TripService) *TripHandler {
	return &TripHandler{tripService: tripService}
}

// ListTrips handles GET /api/v1/trips
func (h *TripHandler) ListTrips(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	trips, err := h.tripService.ListTrips(ctx, userID, r.URL.Query().Get("segment"))
	if err != nil {
		respondServiceError(w, err, "Failed to list trips")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"trips": trips})
}

// CreateTrip handles POST /api/v1/trips
func (h *TripHandler) CreateTrip(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	var req services.CreateTripRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	trip, err := h.tripService.CreateTrip(ctx, userID, req)
	if err != nil {
		respondServiceError(w, err, "Failed to create trip")
		return
	}

	log.Info().Str("user_id", userID).Str("trip_id", trip.ID).Msg("Trip created")
	respondJSON(w, http.StatusCreated, trip)
}

// GetTrip handles GET /api/v1/trips/{trip_id}
func (h *TripHandler) GetTrip(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	trip, err := h.tripService.GetTrip(ctx, middleware.GetUserID(ctx), chi.URLParam(r, "trip_id"))
	if err != nil {
		respondServiceError(w, err, "Failed to get trip")
		return
	}
	respondJSON(w, http.StatusOK, trip)
}

// GetTripDetail handles GET /api/v1/trips/{trip_id}/detail
func (h *TripHandler) GetTripDetail(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	detail, err := h.tripService.GetTripDetail(ctx, middleware.GetUserID(ctx), chi.URLParam(r, "trip_id"))
	if err != nil {
		respondServiceError(w, err, "Failed to get trip detail")
		return
	}
	respondJSON(w, http.StatusOK, detail)
}

// UpdateTrip handles PATCH /api/v1/trips/{trip_id}
func (h *TripHandler) UpdateTrip(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var u models.TripUpdate
	if err := decodeJSON(r, &u); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	trip, err := h.tripService.UpdateTrip(ctx, middleware.GetUserID(ctx), chi.URLParam(r, "trip_id"), u)
	if err != nil {
		respondServiceError(w, err, "Failed to update trip")
		return
	}
	respondJSON(w, http.StatusOK, trip)
}

// DeleteTrip handles DELETE /api/v1/trips/{trip_id}
func (h *TripHandler) DeleteTrip(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	tripID := chi.URLParam(r, "trip_id")

	if err := h.tripService.DeleteTrip(ctx, userID, tripID); err != nil {
		respondServiceError(w, err, "Failed to delete trip")
		return
	}

	log.Info().Str("user_id", userID).Str("trip_id", tripID).Msg("Trip deleted")
	w.WriteHeader(http.StatusNoContent)
}

// Recalculate handles POST /api/v1/trips/{trip_id}/recalculate
func (h *TripHandler) Recalculate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	trip, err := h.tripService.Recalculate(ctx, middleware.GetUserID(ctx), chi.URLParam(r, "trip_id"))
	if err != nil {
		respondServiceError(w, err, "Failed to recalculate trip")
		return
	}
	respondJSON(w, http.StatusOK, trip)
}

// Stats handles GET /api/v1/stats
func (h *TripHandler) Stats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	stats, err := h.tripService.Stats(ctx, middleware.GetUserID(ctx))
	if err != nil {
		respondServiceError(w, err, "Failed to get stats")
		return
	}
	respondJSON(w, http.StatusOK, stats)
}
