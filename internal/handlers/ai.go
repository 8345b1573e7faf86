package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"trip-planner-backend/internal/middleware"
	"trip-planner-backend/internal/models"
	"trip-planner-backend/internal/services"

	"github.com/go-chi/chi/v5"
)

// AIHandler serves language model suggestions
type AIHandler struct {
	aiService    *services.AIService
	tripService  *services.TripService
	placeService *services.PlaceService
}

// NewAIHandler creates a new AI handler
func NewAIHandler(aiService *services.AIService, tripService *services.TripService, placeService *services.PlaceService) *AIHandler {
	return &AIHandler{aiService: aiService, tripService: tripService, placeService: placeService}
}

// tripDays counts calendar days, both ends included
func tripDays(t *models.Trip) int {
	days := int(t.EndDate.Sub(t.StartDate).Hours()/24) + 1
	if days < 1 {
		return 1
	}
	return days
}

// Suggestions handles GET /api/v1/trips/{trip_id}/suggestions
func (h *AIHandler) Suggestions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	trip, err := h.tripService.GetTrip(ctx, middleware.GetUserID(ctx), chi.URLParam(r, "trip_id"))
	if err != nil {
		respondServiceError(w, err, "Failed to get trip")
		return
	}

	recs := h.aiService.SuggestPlaces(ctx, trip.Destination, tripDays(trip), trip.Interests)
	respondJSON(w, http.StatusOK, map[string]any{"suggestions": recs})
}

// AddSuggestion handles POST /api/v1/trips/{trip_id}/suggestions
func (h *AIHandler) AddSuggestion(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var rec models.Recommendation
	if err := decodeJSON(r, &rec); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	place, err := h.placeService.AddSuggestion(ctx, middleware.GetUserID(ctx), chi.URLParam(r, "trip_id"), rec)
	if err != nil {
		respondServiceError(w, err, "Failed to add suggestion")
		return
	}
	respondJSON(w, http.StatusCreated, place)
}

// Describe handles POST /api/v1/trips/{trip_id}/description.
// The generated text is stored on the trip.
func (h *AIHandler) Describe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	tripID := chi.URLParam(r, "trip_id")

	trip, err := h.tripService.GetTrip(ctx, userID, tripID)
	if err != nil {
		respondServiceError(w, err, "Failed to get trip")
		return
	}
	places, err := h.placeService.ListPlaces(ctx, userID, tripID)
	if err != nil {
		respondServiceError(w, err, "Failed to list places")
		return
	}
	names := make([]string, len(places))
	for i, p := range places {
		names[i] = p.Name
	}

	description := h.aiService.Describe(ctx, trip.Destination, names)
	updated, err := h.tripService.UpdateTrip(ctx, userID, tripID, models.TripUpdate{Description: &description})
	if err != nil {
		respondServiceError(w, err, "Failed to store description")
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

// Tips handles GET /api/v1/ai/tips?destination=
func (h *AIHandler) Tips(w http.ResponseWriter, r *http.Request) {
	destination := strings.TrimSpace(r.URL.Query().Get("destination"))
	if destination == "" {
		respondError(w, "destination is required", http.StatusBadRequest)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"tips": h.aiService.Tips(r.Context(), destination)})
}

// Budget handles GET /api/v1/ai/budget?destination=&days=&travelers=
func (h *AIHandler) Budget(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	destination := strings.TrimSpace(q.Get("destination"))
	if destination == "" {
		respondError(w, "destination is required", http.StatusBadRequest)
		return
	}
	days, err := positiveInt(q.Get("days"), 1)
	if err != nil {
		respondError(w, "days must be a positive integer", http.StatusBadRequest)
		return
	}
	travelers, err := positiveInt(q.Get("travelers"), 1)
	if err != nil {
		respondError(w, "travelers must be a positive integer", http.StatusBadRequest)
		return
	}

	budget := h.aiService.SuggestBudget(r.Context(), destination, days, travelers)
	respondJSON(w, http.StatusOK, map[string]any{"budget": budget, "currency": "USD"})
}

func positiveInt(raw string, def int) (int, error) {
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, err
	}
	if n < 1 {
		return 0, strconv.ErrRange
	}
	return n, nil
}
