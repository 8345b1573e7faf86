package handlers

import (
	"net/http"

	"trip-planner-backend/internal/middleware"
	"trip-planner-backend/internal/models"
	"trip-planner-backend/internal/services"

	"github.com/go-chi/chi/v5"
)

// TravelSegmentHandler handles travel segment requests
type TravelSegmentHandler struct {
	segmentService *services.TravelSegmentService
}

// NewTravelSegmentHandler creates a new travel segment handler
func NewTravelSegmentHandler(segmentService *services.TravelSegmentService) *TravelSegmentHandler {
	return &TravelSegmentHandler{segmentService: segmentService}
}

// ListSegments handles GET /api/v1/trips/{trip_id}/segments
func (h *TravelSegmentHandler) ListSegments(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	segments, err := h.segmentService.ListSegments(ctx, middleware.GetUserID(ctx), chi.URLParam(r, "trip_id"))
	if err != nil {
		respondServiceError(w, err, "Failed to list travel segments")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"segments": segments})
}

// AddSegment handles POST /api/v1/trips/{trip_id}/segments
func (h *TravelSegmentHandler) AddSegment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req services.AddSegmentRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	segment, err := h.segmentService.AddSegment(ctx, middleware.GetUserID(ctx), chi.URLParam(r, "trip_id"), req)
	if err != nil {
		respondServiceError(w, err, "Failed to add travel segment")
		return
	}
	respondJSON(w, http.StatusCreated, segment)
}

// UpdateSegment handles PATCH /api/v1/trips/{trip_id}/segments/{segment_id}
func (h *TravelSegmentHandler) UpdateSegment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var u models.TravelSegmentUpdate
	if err := decodeJSON(r, &u); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	segment, err := h.segmentService.UpdateSegment(ctx, middleware.GetUserID(ctx),
		chi.URLParam(r, "trip_id"), chi.URLParam(r, "segment_id"), u)
	if err != nil {
		respondServiceError(w, err, "Failed to update travel segment")
		return
	}
	respondJSON(w, http.StatusOK, segment)
}

// DeleteSegment handles DELETE /api/v1/trips/{trip_id}/segments/{segment_id}
func (h *TravelSegmentHandler) DeleteSegment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	err := h.segmentService.DeleteSegment(ctx, middleware.GetUserID(ctx),
		chi.URLParam(r, "trip_id"), chi.URLParam(r, "segment_id"))
	if err != nil {
		respondServiceError(w, err, "Failed to delete travel segment")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
