package handlers

import (
	"net/http"

	"trip-planner-backend/internal/middleware"
	"trip-planner-backend/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// PhotoHandler handles photo-related HTTP requests
type PhotoHandler struct {
	photoService *services.PhotoService
}

// NewPhotoHandler creates a new photo handler
func NewPhotoHandler(photoService *services.PhotoService) *PhotoHandler {
	return &PhotoHandler{
		photoService: photoService,
	}
}

// ListPhotos handles GET /api/v1/trips/{trip_id}/photos
func (h *PhotoHandler) ListPhotos(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	photos, err := h.photoService.ListPhotos(ctx, middleware.GetUserID(ctx),
		chi.URLParam(r, "trip_id"), r.URL.Query().Get("place_id"))
	if err != nil {
		respondServiceError(w, err, "Failed to get photos")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"photos": photos})
}

// UploadPhoto handles POST /api/v1/trips/{trip_id}/photos/upload
func (h *PhotoHandler) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	var req services.UploadRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Filename == "" {
		respondError(w, "filename is required", http.StatusBadRequest)
		return
	}

	response, err := h.photoService.RequestUpload(ctx, userID, chi.URLParam(r, "trip_id"), req)
	if err != nil {
		respondServiceError(w, err, "Failed to generate pre-signed URL")
		return
	}

	log.Info().
		Str("user_id", userID).
		Str("photo_id", response.Photo.ID).
		Str("filename", req.Filename).
		Msg("Pre-signed URL generated")

	respondJSON(w, http.StatusOK, response)
}

// DeletePhoto handles DELETE /api/v1/trips/{trip_id}/photos/{photo_id}
func (h *PhotoHandler) DeletePhoto(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	err := h.photoService.DeletePhoto(ctx, middleware.GetUserID(ctx),
		chi.URLParam(r, "trip_id"), chi.URLParam(r, "photo_id"))
	if err != nil {
		respondServiceError(w, err, "Failed to delete photo")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
