package handlers

import (
	"net/http"

	"trip-planner-backend/internal/middleware"
	"trip-planner-backend/internal/models"
	"trip-planner-backend/internal/services"

	"github.com/go-chi/chi/v5"
)

// PlaceHandler handles itinerary place requests
type PlaceHandler struct {
	placeService *services.PlaceService
}

// NewPlaceHandler creates a new place handler
func NewPlaceHandler(placeService *services.PlaceService) *PlaceHandler {
	return &PlaceHandler{placeService: placeService}
}

// ListPlaces handles GET /api/v1/trips/{trip_id}/places
func (h *PlaceHandler) ListPlaces(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	places, err := h.placeService.ListPlaces(ctx, middleware.GetUserID(ctx), chi.URLParam(r, "trip_id"))
	if err != nil {
		respondServiceError(w, err, "Failed to list places")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"places": places})
}

// GetPlace handles GET /api/v1/trips/{trip_id}/places/{place_id}
func (h *PlaceHandler) GetPlace(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	place, err := h.placeService.GetPlace(ctx, middleware.GetUserID(ctx),
		chi.URLParam(r, "trip_id"), chi.URLParam(r, "place_id"))
	if err != nil {
		respondServiceError(w, err, "Failed to get place")
		return
	}
	respondJSON(w, http.StatusOK, place)
}

// AddPlace handles POST /api/v1/trips/{trip_id}/places
func (h *PlaceHandler) AddPlace(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req services.AddPlaceRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	place, err := h.placeService.AddPlace(ctx, middleware.GetUserID(ctx), chi.URLParam(r, "trip_id"), req)
	if err != nil {
		respondServiceError(w, err, "Failed to add place")
		return
	}
	respondJSON(w, http.StatusCreated, place)
}

// UpdatePlace handles PATCH /api/v1/trips/{trip_id}/places/{place_id}
func (h *PlaceHandler) UpdatePlace(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var u models.PlaceUpdate
	if err := decodeJSON(r, &u); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	place, err := h.placeService.UpdatePlace(ctx, middleware.GetUserID(ctx),
		chi.URLParam(r, "trip_id"), chi.URLParam(r, "place_id"), u)
	if err != nil {
		respondServiceError(w, err, "Failed to update place")
		return
	}
	respondJSON(w, http.StatusOK, place)
}

type visitedRequest struct {
	Visited *bool `json:"visited"`
}

// SetVisited handles PUT /api/v1/trips/{trip_id}/places/{place_id}/visited
func (h *PlaceHandler) SetVisited(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req visitedRequest
	if err := decodeJSON(r, &req); err != nil || req.Visited == nil {
		respondError(w, "visited is required", http.StatusBadRequest)
		return
	}

	place, err := h.placeService.SetVisited(ctx, middleware.GetUserID(ctx),
		chi.URLParam(r, "trip_id"), chi.URLParam(r, "place_id"), *req.Visited)
	if err != nil {
		respondServiceError(w, err, "Failed to set place visited")
		return
	}
	respondJSON(w, http.StatusOK, place)
}

// DeletePlace handles DELETE /api/v1/trips/{trip_id}/places/{place_id}
func (h *PlaceHandler) DeletePlace(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	err := h.placeService.DeletePlace(ctx, middleware.GetUserID(ctx),
		chi.URLParam(r, "trip_id"), chi.URLParam(r, "place_id"))
	if err != nil {
		respondServiceError(w, err, "Failed to delete place")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// OptimizeItinerary handles POST /api/v1/trips/{trip_id}/itinerary/optimize
func (h *PlaceHandler) OptimizeItinerary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	places, err := h.placeService.OptimizeItinerary(ctx, middleware.GetUserID(ctx), chi.URLParam(r, "trip_id"))
	if err != nil {
		respondServiceError(w, err, "Failed to optimize itinerary")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"places": places})
}
