package handlers

import (
	"net/http"
	"strconv"

	"trip-planner-backend/internal/services"

	"github.com/go-chi/chi/v5"
)

// MapsHandler exposes place search, directions and geocoding
type MapsHandler struct {
	mapsService *services.MapsService
}

// NewMapsHandler creates a new maps handler
func NewMapsHandler(mapsService *services.MapsService) *MapsHandler {
	return &MapsHandler{mapsService: mapsService}
}

// Search handles GET /api/v1/maps/search?query=
func (h *MapsHandler) Search(w http.ResponseWriter, r *http.Request) {
	places, err := h.mapsService.SearchPlaces(r.Context(), r.URL.Query().Get("query"))
	if err != nil {
		respondServiceError(w, err, "Failed to search places")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"places": places})
}

// Nearby handles GET /api/v1/maps/nearby?lat=&lng=&radius=&type=
func (h *MapsHandler) Nearby(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	lat, errLat := strconv.ParseFloat(q.Get("lat"), 64)
	lng, errLng := strconv.ParseFloat(q.Get("lng"), 64)
	if errLat != nil || errLng != nil {
		respondError(w, "lat and lng are required", http.StatusBadRequest)
		return
	}

	var radius uint64
	if raw := q.Get("radius"); raw != "" {
		var err error
		radius, err = strconv.ParseUint(raw, 10, 32)
		if err != nil {
			respondError(w, "radius must be a positive integer", http.StatusBadRequest)
			return
		}
	}

	places, err := h.mapsService.NearbyPlaces(r.Context(), lat, lng, uint(radius), q.Get("type"))
	if err != nil {
		respondServiceError(w, err, "Failed to search nearby places")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"places": places})
}

// Details handles GET /api/v1/maps/places/{place_id}
func (h *MapsHandler) Details(w http.ResponseWriter, r *http.Request) {
	details, err := h.mapsService.PlaceDetails(r.Context(), chi.URLParam(r, "place_id"))
	if err != nil {
		respondServiceError(w, err, "Failed to get place details")
		return
	}
	respondJSON(w, http.StatusOK, details)
}

// Directions handles GET /api/v1/maps/directions?origin=&destination=&mode=
func (h *MapsHandler) Directions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	routes, err := h.mapsService.Directions(r.Context(), q.Get("origin"), q.Get("destination"), q.Get("mode"))
	if err != nil {
		respondServiceError(w, err, "Failed to get directions")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"routes": routes})
}

// Geocode handles GET /api/v1/maps/geocode?address=
func (h *MapsHandler) Geocode(w http.ResponseWriter, r *http.Request) {
	results, err := h.mapsService.Geocode(r.Context(), r.URL.Query().Get("address"))
	if err != nil {
		respondServiceError(w, err, "Failed to geocode address")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"results": results})
}
