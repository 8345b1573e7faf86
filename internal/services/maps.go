package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"trip-planner-backend/internal/config"
	"trip-planner-backend/internal/metrics"

	"github.com/patrickmn/go-cache"
	"googlemaps.github.io/maps"
)

const (
	defaultNearbyRadius = 5000
	defaultNearbyType   = maps.PlaceTypeTouristAttraction
)

// MapPlace is a place returned by the maps API
type MapPlace struct {
	PlaceID   string   `json:"place_id"`
	Name      string   `json:"name"`
	Address   string   `json:"address"`
	Latitude  float64  `json:"latitude"`
	Longitude float64  `json:"longitude"`
	Types     []string `json:"types"`
	Rating    float64  `json:"rating"`
}

// MapPlaceDetails adds contact and opening information to a MapPlace
type MapPlaceDetails struct {
	MapPlace
	Phone        string   `json:"phone,omitempty"`
	Website      string   `json:"website,omitempty"`
	OpeningHours []string `json:"opening_hours,omitempty"`
}

// RouteLeg is one leg of a route
type RouteLeg struct {
	StartAddress    string `json:"start_address"`
	EndAddress      string `json:"end_address"`
	DistanceMeters  int    `json:"distance_meters"`
	DurationSeconds int64  `json:"duration_seconds"`
}

// Route is one alternative between an origin and a destination
type Route struct {
	Summary         string     `json:"summary"`
	DistanceMeters  int        `json:"distance_meters"`
	DurationSeconds int64      `json:"duration_seconds"`
	Polyline        string     `json:"polyline"`
	Legs            []RouteLeg `json:"legs"`
}

// GeocodeResult is a resolved address
type GeocodeResult struct {
	PlaceID   string  `json:"place_id"`
	Address   string  `json:"address"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// mapsAPI is the part of *maps.Client the service calls
type mapsAPI interface {
	TextSearch(ctx context.Context, r *maps.TextSearchRequest) (maps.PlacesSearchResponse, error)
	NearbySearch(ctx context.Context, r *maps.NearbySearchRequest) (maps.PlacesSearchResponse, error)
	PlaceDetails(ctx context.Context, r *maps.PlaceDetailsRequest) (maps.PlaceDetailsResult, error)
	Directions(ctx context.Context, r *maps.DirectionsRequest) ([]maps.Route, []maps.GeocodedWaypoint, error)
	Geocode(ctx context.Context, r *maps.GeocodingRequest) ([]maps.GeocodingResult, error)
}

// MapsService wraps the maps API and caches its answers
type MapsService struct {
	client       mapsAPI
	cache        *cache.Cache
	searchRadius uint
}

// NewMapsService creates a maps client from cfg
func NewMapsService(cfg config.MapsConfig, cacheCfg config.CacheConfig) (*MapsService, error) {
	client, err := maps.NewClient(maps.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return newMapsService(client, cfg.SearchRadius, cacheCfg.TTL, cacheCfg.CleanupInterval), nil
}

func newMapsService(client mapsAPI, radius uint, ttl, cleanup time.Duration) *MapsService {
	return &MapsService{
		client:       client,
		cache:        cache.New(ttl, cleanup),
		searchRadius: radius,
	}
}

func cached[T any](s *MapsService, key string, load func() (T, error)) (T, error) {
	if v, ok := s.cache.Get(key); ok {
		metrics.CacheLookups.WithLabelValues("maps", "hit").Inc()
		return v.(T), nil
	}
	metrics.CacheLookups.WithLabelValues("maps", "miss").Inc()

	v, err := load()
	if err != nil {
		return v, err
	}
	s.cache.SetDefault(key, v)
	return v, nil
}

// SearchPlaces runs a free-text place search
func (s *MapsService) SearchPlaces(ctx context.Context, query string) ([]MapPlace, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, invalid("query is required")
	}
	return cached(s, "search:"+query, func() ([]MapPlace, error) {
		resp, err := s.client.TextSearch(ctx, &maps.TextSearchRequest{Query: query, Radius: s.searchRadius})
		if err != nil {
			return nil, fmt.Errorf("failed to search places: %w", err)
		}
		return toMapPlaces(resp.Results), nil
	})
}

// NearbyPlaces lists places of placeType around a point.
// Zero radius and empty type fall back to 5km and tourist attractions.
func (s *MapsService) NearbyPlaces(ctx context.Context, lat, lng float64, radius uint, placeType string) ([]MapPlace, error) {
	if radius == 0 {
		radius = defaultNearbyRadius
	}
	pt := defaultNearbyType
	if placeType != "" {
		parsed, err := maps.ParsePlaceType(placeType)
		if err != nil {
			return nil, invalid("unknown place type %q", placeType)
		}
		pt = parsed
	}

	key := fmt.Sprintf("nearby:%f,%f:%d:%s", lat, lng, radius, pt)
	return cached(s, key, func() ([]MapPlace, error) {
		resp, err := s.client.NearbySearch(ctx, &maps.NearbySearchRequest{
			Location: &maps.LatLng{Lat: lat, Lng: lng},
			Radius:   radius,
			Type:     pt,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to search nearby places: %w", err)
		}
		return toMapPlaces(resp.Results), nil
	})
}

// PlaceDetails looks up one place by its maps ID
func (s *MapsService) PlaceDetails(ctx context.Context, placeID string) (*MapPlaceDetails, error) {
	if placeID == "" {
		return nil, invalid("place_id is required")
	}
	return cached(s, "details:"+placeID, func() (*MapPlaceDetails, error) {
		r, err := s.client.PlaceDetails(ctx, &maps.PlaceDetailsRequest{PlaceID: placeID})
		if err != nil {
			return nil, fmt.Errorf("failed to get place details: %w", err)
		}
		details := &MapPlaceDetails{
			MapPlace: MapPlace{
				PlaceID:   r.PlaceID,
				Name:      r.Name,
				Address:   r.FormattedAddress,
				Latitude:  r.Geometry.Location.Lat,
				Longitude: r.Geometry.Location.Lng,
				Types:     r.Types,
				Rating:    float64(r.Rating),
			},
			Phone:   r.FormattedPhoneNumber,
			Website: r.Website,
		}
		if r.OpeningHours != nil {
			details.OpeningHours = r.OpeningHours.WeekdayText
		}
		return details, nil
	})
}

// Directions returns routes between two addresses. mode is one of driving,
// walking, bicycling or transit; empty means driving.
func (s *MapsService) Directions(ctx context.Context, origin, destination, mode string) ([]Route, error) {
	if origin == "" || destination == "" {
		return nil, invalid("origin and destination are required")
	}
	travelMode := maps.TravelModeDriving
	switch maps.Mode(mode) {
	case "", maps.TravelModeDriving:
	case maps.TravelModeWalking, maps.TravelModeBicycling, maps.TravelModeTransit:
		travelMode = maps.Mode(mode)
	default:
		return nil, invalid("unknown travel mode %q", mode)
	}

	key := "directions:" + origin + "\x00" + destination + "\x00" + string(travelMode)
	return cached(s, key, func() ([]Route, error) {
		routes, _, err := s.client.Directions(ctx, &maps.DirectionsRequest{
			Origin:      origin,
			Destination: destination,
			Mode:        travelMode,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to get directions: %w", err)
		}

		out := make([]Route, 0, len(routes))
		for _, r := range routes {
			route := Route{Summary: r.Summary, Polyline: r.OverviewPolyline.Points}
			for _, leg := range r.Legs {
				if leg == nil {
					continue
				}
				seconds := int64(leg.Duration / time.Second)
				route.Legs = append(route.Legs, RouteLeg{
					StartAddress:    leg.StartAddress,
					EndAddress:      leg.EndAddress,
					DistanceMeters:  leg.Distance.Meters,
					DurationSeconds: seconds,
				})
				route.DistanceMeters += leg.Distance.Meters
				route.DurationSeconds += seconds
			}
			out = append(out, route)
		}
		return out, nil
	})
}

// Geocode resolves an address to coordinates
func (s *MapsService) Geocode(ctx context.Context, address string) ([]GeocodeResult, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return nil, invalid("address is required")
	}
	return cached(s, "geocode:"+address, func() ([]GeocodeResult, error) {
		results, err := s.client.Geocode(ctx, &maps.GeocodingRequest{Address: address})
		if err != nil {
			return nil, fmt.Errorf("failed to geocode address: %w", err)
		}
		out := make([]GeocodeResult, 0, len(results))
		for _, r := range results {
			out = append(out, GeocodeResult{
				PlaceID:   r.PlaceID,
				Address:   r.FormattedAddress,
				Latitude:  r.Geometry.Location.Lat,
				Longitude: r.Geometry.Location.Lng,
			})
		}
		return out, nil
	})
}

func toMapPlaces(results []maps.PlacesSearchResult) []MapPlace {
	places := make([]MapPlace, 0, len(results))
	for _, r := range results {
		address := r.FormattedAddress
		if address == "" {
			address = r.Vicinity
		}
		places = append(places, MapPlace{
			PlaceID:   r.PlaceID,
			Name:      r.Name,
			Address:   address,
			Latitude:  r.Geometry.Location.Lat,
			Longitude: r.Geometry.Location.Lng,
			Types:     r.Types,
			Rating:    float64(r.Rating),
		})
	}
	return places
}
