package services

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"trip-planner-backend/internal/aggregate"
	"trip-planner-backend/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// PhotoService handles photo-related business logic
type PhotoService struct {
	trips    TripStore
	photos   PhotoStore
	storage  ObjectStorage
	recalc   *aggregate.Recalculator
	notifier Notifier
}

// NewPhotoService creates a new photo service
func NewPhotoService(trips TripStore, photos PhotoStore, storage ObjectStorage, recalc *aggregate.Recalculator, notifier Notifier) *PhotoService {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	return &PhotoService{
		trips:    trips,
		photos:   photos,
		storage:  storage,
		recalc:   recalc,
		notifier: notifier,
	}
}

// UploadRequest represents a request to get a pre-signed URL
type UploadRequest struct {
	Filename    string     `json:"filename"`
	ContentType string     `json:"content_type"`
	PlaceID     *string    `json:"place_id,omitempty"`
	Caption     *string    `json:"caption,omitempty"`
	Latitude    *float64   `json:"latitude,omitempty"`
	Longitude   *float64   `json:"longitude,omitempty"`
	TakenAt     *time.Time `json:"taken_at,omitempty"`
}

// UploadResponse represents the response with pre-signed URL
type UploadResponse struct {
	UploadURL string        `json:"upload_url"`
	Photo     *models.Photo `json:"photo"`
	ExpiresIn int           `json:"expires_in"`
}

// RequestUpload creates the photo record and a pre-signed URL the client
// uploads the file to
func (s *PhotoService) RequestUpload(ctx context.Context, userID, tripID string, req UploadRequest) (*UploadResponse, error) {
	if _, err := ownedTrip(ctx, s.trips, userID, tripID); err != nil {
		return nil, err
	}
	if s.storage == nil {
		return nil, fmt.Errorf("photo storage is not configured")
	}

	contentType := req.ContentType
	if contentType == "" {
		contentType = "image/jpeg"
	}
	if !strings.HasPrefix(contentType, "image/") {
		return nil, invalid("content_type must be an image type")
	}

	ext := strings.ToLower(path.Ext(req.Filename))
	if ext == "" {
		ext = ".jpg"
	}

	// S3 key: trips/{trip_id}/{photo_id}{ext}
	photoID := uuid.New().String()
	key := fmt.Sprintf("trips/%s/%s%s", tripID, photoID, ext)

	uploadURL, err := s.storage.PresignUpload(ctx, key, contentType)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	takenAt := now
	if req.TakenAt != nil {
		takenAt = *req.TakenAt
	}
	publicURL := s.storage.PublicURL(key)
	photo := &models.Photo{
		ID:           photoID,
		TripID:       tripID,
		PlaceID:      req.PlaceID,
		S3Key:        key,
		URL:          publicURL,
		ThumbnailURL: publicURL,
		Caption:      req.Caption,
		Latitude:     req.Latitude,
		Longitude:    req.Longitude,
		TakenAt:      takenAt,
		UploadedAt:   now,
	}
	if err := s.photos.Create(ctx, photo); err != nil {
		return nil, fmt.Errorf("failed to create photo record: %w", err)
	}
	if err := s.recalc.PhotoAdded(ctx, tripID); err != nil {
		return nil, err
	}

	s.notifier.NotifyTripChanged(userID, tripID, "photo_added")
	return &UploadResponse{
		UploadURL: uploadURL,
		Photo:     photo,
		ExpiresIn: int(uploadURLExpiry / time.Second),
	}, nil
}

// ListPhotos returns the trip's photos, newest first, optionally of one place
func (s *PhotoService) ListPhotos(ctx context.Context, userID, tripID, placeID string) ([]*models.Photo, error) {
	if _, err := ownedTrip(ctx, s.trips, userID, tripID); err != nil {
		return nil, err
	}

	var (
		photos []*models.Photo
		err    error
	)
	if placeID != "" {
		photos, err = s.photos.ListByPlace(ctx, tripID, placeID)
	} else {
		photos, err = s.photos.ListByTrip(ctx, tripID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list photos: %w", err)
	}
	return photos, nil
}

// DeletePhoto removes the record, uncounts it and then removes the file
func (s *PhotoService) DeletePhoto(ctx context.Context, userID, tripID, photoID string) error {
	if _, err := ownedTrip(ctx, s.trips, userID, tripID); err != nil {
		return err
	}

	photo, err := s.photos.GetByID(ctx, tripID, photoID)
	if err != nil {
		return err
	}
	if err := s.photos.Delete(ctx, tripID, photoID); err != nil {
		return err
	}
	if err := s.recalc.PhotoRemoved(ctx, tripID); err != nil {
		return err
	}

	if s.storage != nil {
		if err := s.storage.DeleteObjects(ctx, []string{photo.S3Key}); err != nil {
			log.Warn().Err(err).Str("photo_id", photoID).Str("key", photo.S3Key).Msg("Failed to delete photo file")
		}
	}

	s.notifier.NotifyTripChanged(userID, tripID, "photo_deleted")
	return nil
}
